package control

import (
	"testing"

	"github.com/flight-control/fcc/internal/telemetry"
)

func TestNeutral(t *testing.T) {
	v := Neutral()
	if len(v) != telemetry.ChannelCount {
		t.Fatalf("neutral vector length = %d, want %d", len(v), telemetry.ChannelCount)
	}
	for i, x := range v {
		want := 0.0
		if i == 0 || i == 1 || i == 3 {
			want = 0.5
		}
		if x != want {
			t.Errorf("neutral[%d] = %v, want %v", i, x, want)
		}
	}
}

func TestManualPassthrough(t *testing.T) {
	store := telemetry.NewStore()
	store.ApplyBatch([]telemetry.Update{
		{Tag: "rcin0", Value: telemetry.FloatValue(0.25)},
		{Tag: "rcin2", Value: telemetry.FloatValue(0.9)},
		{Tag: "rcin11", Value: telemetry.FloatValue(0.1)},
	})

	v := Manual(store)
	if len(v) != telemetry.ChannelCount {
		t.Fatalf("manual vector length = %d", len(v))
	}
	if v[0] != 0.25 || v[2] != 0.9 || v[11] != 0.1 {
		t.Errorf("manual vector = %v", v)
	}
	// Untouched channels keep the store defaults.
	if v[1] != 0.5 || v[3] != 0.5 || v[4] != 0.0 {
		t.Errorf("manual vector defaults wrong: %v", v)
	}
}

// Replies can carry channel values outside [0, 1]; they must never be echoed
// back out of range.
func TestManualClampsOutOfRangeChannels(t *testing.T) {
	store := telemetry.NewStore()
	store.ApplyBatch([]telemetry.Update{
		{Tag: "rcin4", Value: telemetry.FloatValue(1.8)},
		{Tag: "rcin5", Value: telemetry.FloatValue(-0.3)},
	})

	v := Manual(store)
	if v[4] != 1.0 {
		t.Errorf("rcin4 = %v, want clamped to 1", v[4])
	}
	if v[5] != 0.0 {
		t.Errorf("rcin5 = %v, want clamped to 0", v[5])
	}
}

func TestClamp(t *testing.T) {
	in := []float64{-0.5, 0.0, 0.3, 1.0, 1.7}
	want := []float64{0, 0, 0.3, 1.0, 1.0}
	got := Clamp(in)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Clamp[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
