package envelope

import (
	"bytes"
	"errors"
	"regexp"
	"strings"
	"testing"
)

func TestEncodeStaticBodies(t *testing.T) {
	restore, err := Encode(ActionRestore)
	if err != nil {
		t.Fatalf("Encode(restore) returned error: %v", err)
	}
	if !bytes.Contains(restore, []byte("<RestoreOriginalControllerDevice><a>1</a><b>2</b>")) {
		t.Error("restore body missing action element")
	}

	inject, err := Encode(ActionInject)
	if err != nil {
		t.Fatalf("Encode(inject) returned error: %v", err)
	}
	if !bytes.Contains(inject, []byte("<InjectUAVControllerInterface><a>1</a><b>2</b>")) {
		t.Error("inject body missing action element")
	}

	// Static bodies never change between calls.
	again, _ := Encode(ActionRestore)
	if !bytes.Equal(restore, again) {
		t.Error("restore body not stable across calls")
	}
}

func TestEncodeRejectsExchangeAction(t *testing.T) {
	if _, err := Encode(ActionExchange); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("Encode(ExchangeData) error = %v, want ErrUnknownAction", err)
	}
	if _, err := Encode(Action("SelfTest")); !errors.Is(err, ErrUnknownAction) {
		t.Errorf("Encode(SelfTest) error = %v, want ErrUnknownAction", err)
	}
}

func TestEncodeExchangeDataFormatting(t *testing.T) {
	controls := []float64{0.5, 0.5, 0.0, 0.5, 0.1, 0.2, 0.3, 0.4, 0.6, 0.7, 0.8, 0.9}

	body, err := EncodeExchangeData(controls)
	if err != nil {
		t.Fatalf("EncodeExchangeData returned error: %v", err)
	}

	// Exactly 12 items, each a 4-decimal fixed-point number, in input order.
	re := regexp.MustCompile(`<item>(-?\d+\.\d{4})</item>`)
	matches := re.FindAllStringSubmatch(string(body), -1)
	if len(matches) != 12 {
		t.Fatalf("found %d formatted items, want 12", len(matches))
	}
	want := []string{
		"0.5000", "0.5000", "0.0000", "0.5000", "0.1000", "0.2000",
		"0.3000", "0.4000", "0.6000", "0.7000", "0.8000", "0.9000",
	}
	for i, m := range matches {
		if m[1] != want[i] {
			t.Errorf("item %d = %q, want %q", i, m[1], want[i])
		}
	}

	if !strings.Contains(string(body), "<m-selectedChannels>4095</m-selectedChannels>") {
		t.Error("channel-selection bitmask missing or wrong")
	}
}

func TestEncodeExchangeDataLength(t *testing.T) {
	for _, n := range []int{0, 1, 11, 13, 24} {
		_, err := EncodeExchangeData(make([]float64, n))
		if !errors.Is(err, ErrBadVectorLength) {
			t.Errorf("EncodeExchangeData with %d values: error = %v, want ErrBadVectorLength", n, err)
		}
	}
}
