package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// safeRecorder is a goroutine-safe ResponseWriter: the hub writes events from
// its own goroutine while the test polls the body.
type safeRecorder struct {
	mu     sync.Mutex
	header http.Header
	body   strings.Builder
	status int
}

func newSafeRecorder() *safeRecorder {
	return &safeRecorder{header: make(http.Header)}
}

func (r *safeRecorder) Header() http.Header {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.header
}

func (r *safeRecorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.body.Write(p)
}

func (r *safeRecorder) WriteHeader(status int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = status
}

func (r *safeRecorder) Body() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.body.String()
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestHubPublishReachesSubscriber(t *testing.T) {
	hub := NewHub(time.Minute)
	defer hub.Stop()

	rec := newSafeRecorder()
	req := httptest.NewRequest("GET", "/api/v1/telemetry", nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = hub.Subscribe(ctx, rec, req)
	}()

	waitFor(t, time.Second, func() bool { return hub.ClientCount() == 1 })

	hub.PublishSnapshot(map[string]interface{}{"m-airspeed-MPS": 14.0})

	waitFor(t, time.Second, func() bool {
		return strings.Contains(rec.Body(), "event: snapshot")
	})

	cancel()
	<-done

	body := rec.Body()
	if !strings.Contains(body, "event: ready") {
		t.Error("ready event not sent on subscribe")
	}
	if !strings.Contains(body, "m-airspeed-MPS") {
		t.Errorf("snapshot payload missing from stream: %q", body)
	}
	if rec.Header().Get("Content-Type") != "text/event-stream; charset=utf-8" {
		t.Errorf("unexpected content type %q", rec.Header().Get("Content-Type"))
	}
}

func TestHubStopDisconnectsClients(t *testing.T) {
	hub := NewHub(time.Minute)

	rec := newSafeRecorder()
	req := httptest.NewRequest("GET", "/api/v1/telemetry", nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = hub.Subscribe(context.Background(), rec, req)
	}()

	waitFor(t, time.Second, func() bool { return hub.ClientCount() == 1 })

	hub.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber did not return after Stop")
	}
	if hub.ClientCount() != 0 {
		t.Errorf("clients remaining after Stop: %d", hub.ClientCount())
	}
}

// Publishing while a subscriber disconnects must never panic: the publisher
// snapshots the client list before the subscriber's goroutine tears down, so
// the event channel has to stay send-safe throughout the disconnect.
func TestHubPublishDuringDisconnect(t *testing.T) {
	hub := NewHub(time.Minute)
	defer hub.Stop()

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				hub.PublishSnapshot(map[string]interface{}{"m-airspeed-MPS": 1.0})
			}
		}
	}()

	for i := 0; i < 20; i++ {
		rec := newSafeRecorder()
		req := httptest.NewRequest("GET", "/api/v1/telemetry", nil)
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan struct{})
		go func() {
			defer close(done)
			_ = hub.Subscribe(ctx, rec, req)
		}()

		waitFor(t, time.Second, func() bool { return hub.ClientCount() == 1 })
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("subscriber did not return after cancel")
		}
		waitFor(t, time.Second, func() bool { return hub.ClientCount() == 0 })
	}

	close(stop)
	wg.Wait()
}

func TestHubPublishFault(t *testing.T) {
	hub := NewHub(time.Minute)
	defer hub.Stop()

	rec := newSafeRecorder()
	req := httptest.NewRequest("GET", "/api/v1/telemetry", nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = hub.Subscribe(ctx, rec, req) }()
	waitFor(t, time.Second, func() bool { return hub.ClientCount() == 1 })

	hub.PublishFault("MALFORMED_REPLY", "reply rejected")

	waitFor(t, time.Second, func() bool {
		return strings.Contains(rec.Body(), "MALFORMED_REPLY")
	})
}
