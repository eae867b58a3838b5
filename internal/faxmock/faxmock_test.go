package faxmock

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/flight-control/fcc/internal/envelope"
	"github.com/flight-control/fcc/internal/session"
	"github.com/flight-control/fcc/internal/telemetry"
	"github.com/flight-control/fcc/internal/transport"
)

func startEmulator(t *testing.T, frameStep float64) (*Server, transport.Transport) {
	t.Helper()
	emu := NewServer(frameStep)
	srv := httptest.NewServer(http.HandlerFunc(emu.HandleRequest))
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("failed to parse emulator URL: %v", err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatalf("failed to parse emulator port: %v", err)
	}
	return emu, transport.NewHTTPTransport(u.Hostname(), port, time.Second)
}

func TestActivationClaimsController(t *testing.T) {
	emu, tr := startEmulator(t, 0.02)
	s := session.New(tr, telemetry.NewStore())

	if emu.Injected() {
		t.Fatal("fresh emulator must not report an injected controller")
	}
	if err := s.Activate(context.Background()); err != nil {
		t.Fatalf("Activate returned error: %v", err)
	}
	if !emu.Injected() {
		t.Error("activation must leave the controller interface claimed")
	}
}

func TestExchangeRoundTrip(t *testing.T) {
	emu, tr := startEmulator(t, 0.02)
	store := telemetry.NewStore()
	s := session.New(tr, store)

	if err := s.Activate(context.Background()); err != nil {
		t.Fatalf("Activate returned error: %v", err)
	}

	controls := make([]float64, telemetry.ChannelCount)
	controls[0], controls[1], controls[3] = 0.5, 0.5, 0.5
	controls[2] = 0.75

	for i := 0; i < 3; i++ {
		if err := s.Exchange(context.Background(), controls); err != nil {
			t.Fatalf("Exchange %d returned error: %v", i, err)
		}
	}

	// The emulator echoes commanded channels back as rcin values.
	if got, _ := store.Float("rcin2"); got != 0.75 {
		t.Errorf("rcin2 = %v, want 0.75", got)
	}
	if got, _ := store.Bool(telemetry.TagControllerActive); !got {
		t.Error("controller-active flag not applied from reply")
	}
	if got, _ := store.Str(telemetry.TagAircraftStatus); got != "CAS-WAITINGTOLAUNCH" {
		t.Errorf("aircraft status = %q", got)
	}

	// Physics clock advances one step per exchange, so the smoothed frame
	// time converges on the step.
	if got, _ := store.Float(telemetry.TagPhysicsTime); got != 0.06 {
		t.Errorf("physics time = %v, want 0.06", got)
	}
	if avg := s.AverageFrameTime(); avg < 0.0199 || avg > 0.0201 {
		t.Errorf("average frame time = %v, want ~0.02", avg)
	}
	if s.SocketFrames() != 3 {
		t.Errorf("socket frames = %d, want 3", s.SocketFrames())
	}
	if emu.Frames() != 3 {
		t.Errorf("emulator served %d exchanges, want 3", emu.Frames())
	}
}

func TestDropModeSkipsFrames(t *testing.T) {
	emu, tr := startEmulator(t, 0.02)
	store := telemetry.NewStore()
	s := session.New(tr, store)

	emu.SetMode(ModeDrop)
	if err := s.Exchange(context.Background(), make([]float64, telemetry.ChannelCount)); err != nil {
		t.Fatalf("dropped reply must not error, got: %v", err)
	}
	if s.SocketFrames() != 0 {
		t.Errorf("socket frames = %d, want 0", s.SocketFrames())
	}
	if s.Frames() != 1 {
		t.Errorf("frames = %d, want 1", s.Frames())
	}

	emu.SetMode(ModeNormal)
	if err := s.Exchange(context.Background(), make([]float64, telemetry.ChannelCount)); err != nil {
		t.Fatalf("Exchange after recovery returned error: %v", err)
	}
	if s.SocketFrames() != 1 {
		t.Errorf("socket frames after recovery = %d, want 1", s.SocketFrames())
	}
}

func TestTruncateModeReportsMalformedReply(t *testing.T) {
	emu, tr := startEmulator(t, 0.02)
	store := telemetry.NewStore()
	s := session.New(tr, store)

	emu.SetMode(ModeTruncate)
	err := s.Exchange(context.Background(), make([]float64, telemetry.ChannelCount))
	if !errors.Is(err, envelope.ErrMalformedReply) {
		t.Fatalf("error = %v, want ErrMalformedReply", err)
	}
	if got, _ := store.Float(telemetry.TagPhysicsTime); got != 0 {
		t.Errorf("store changed on truncated reply: physics time = %v", got)
	}
}

func TestParseControls(t *testing.T) {
	body := "<m-channelValues-0to1><item>0.5000</item><item>-0.1000</item></m-channelValues-0to1>"
	got := parseControls([]byte(body))
	if len(got) != 2 || got[0] != 0.5 || got[1] != -0.1 {
		t.Errorf("parseControls = %v", got)
	}
	if parseControls([]byte("<nothing/>")) != nil {
		t.Error("no items must return nil")
	}
}

func TestReplyDocumentShape(t *testing.T) {
	emu := NewServer(0.02)
	emu.mu.Lock()
	reply := emu.buildReplyLocked()
	emu.mu.Unlock()

	updates, err := envelope.DecodeReply([]byte(reply))
	if err != nil {
		t.Fatalf("emulator reply must decode cleanly: %v", err)
	}
	tags := make(map[string]bool, len(updates))
	for _, u := range updates {
		tags[u.Tag] = true
	}
	for _, want := range []string{"rcin0", "rcin11", telemetry.TagPhysicsTime, telemetry.TagControllerActive} {
		if !tags[want] {
			t.Errorf("reply missing %s", want)
		}
	}
	if !strings.Contains(reply, "m-notifications") {
		t.Error("reply missing notifications group")
	}
}
