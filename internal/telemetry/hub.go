package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Event is a telemetry event with SSE formatting. Type is one of "snapshot",
// "fault" or "heartbeat".
type Event struct {
	ID   int64                  `json:"id,omitempty"`
	Type string                 `json:"type"`
	Data map[string]interface{} `json:"data"`
}

// client is one SSE subscriber. The events channel is never closed: Publish
// may race a disconnect, so the channel is abandoned to the GC instead and
// serve exits on context cancellation.
type client struct {
	id     string
	writer http.ResponseWriter
	ctx    context.Context
	cancel context.CancelFunc
	events chan Event
	mu     sync.Mutex // protects writer
}

// Hub fans telemetry events out to SSE clients. There is a single stream: the
// container drives one simulator session, so events are not keyed.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
	nextID  int64

	heartbeatInterval time.Duration
	heartbeatTicker   *time.Ticker
	stopHeartbeat     chan struct{}

	done chan struct{}
	wg   sync.WaitGroup
}

// NewHub creates a telemetry hub. heartbeatInterval bounds how long an idle
// stream stays silent.
func NewHub(heartbeatInterval time.Duration) *Hub {
	return &Hub{
		clients:           make(map[string]*client),
		heartbeatInterval: heartbeatInterval,
		done:              make(chan struct{}),
	}
}

// Subscribe registers an SSE client and blocks until it disconnects or the
// hub stops.
func (h *Hub) Subscribe(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "text/event-stream; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	clientCtx, cancel := context.WithCancel(ctx)
	c := &client{
		id:     fmt.Sprintf("client_%d", time.Now().UnixNano()),
		writer: w,
		ctx:    clientCtx,
		cancel: cancel,
		events: make(chan Event, 100),
	}

	h.mu.Lock()
	h.clients[c.id] = c
	if len(h.clients) == 1 && h.heartbeatTicker == nil {
		h.startHeartbeat()
	}
	h.mu.Unlock()

	if err := h.send(c, Event{ID: h.nextEventID(), Type: "ready", Data: map[string]interface{}{}}); err != nil {
		h.unregister(c.id)
		return fmt.Errorf("failed to send ready event: %w", err)
	}

	h.serve(c)
	return nil
}

// Publish delivers an event to every connected client. Slow clients drop the
// event rather than blocking the session loop.
func (h *Hub) Publish(event Event) {
	if event.ID == 0 {
		event.ID = h.nextEventID()
	}

	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		select {
		case <-c.ctx.Done():
			continue
		case <-h.done:
			return
		case c.events <- event:
		default:
			// Client buffer full; drop.
		}
	}
}

// PublishSnapshot publishes the current state snapshot.
func (h *Hub) PublishSnapshot(snapshot map[string]interface{}) {
	h.Publish(Event{Type: "snapshot", Data: snapshot})
}

// PublishFault publishes an exchange fault.
func (h *Hub) PublishFault(code, message string) {
	h.Publish(Event{
		Type: "fault",
		Data: map[string]interface{}{
			"code":    code,
			"message": message,
			"ts":      time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func (h *Hub) send(c *client, event Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if event.ID > 0 {
		if _, err := fmt.Fprintf(c.writer, "id: %d\n", event.ID); err != nil {
			return fmt.Errorf("failed to write event ID: %w", err)
		}
	}
	if _, err := fmt.Fprintf(c.writer, "event: %s\n", event.Type); err != nil {
		return fmt.Errorf("failed to write event type: %w", err)
	}
	data, err := json.Marshal(event.Data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}
	if _, err := fmt.Fprintf(c.writer, "data: %s\n\n", data); err != nil {
		return fmt.Errorf("failed to write event data: %w", err)
	}
	if flusher, ok := c.writer.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}

func (h *Hub) serve(c *client) {
	defer h.unregister(c.id)

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-h.done:
			return
		case event := <-c.events:
			if err := h.send(c, event); err != nil {
				return
			}
		}
	}
}

func (h *Hub) unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c, ok := h.clients[id]; ok {
		c.cancel()
		delete(h.clients, id)
		if len(h.clients) == 0 && h.heartbeatTicker != nil {
			h.heartbeatTicker.Stop()
			h.heartbeatTicker = nil
			if h.stopHeartbeat != nil {
				close(h.stopHeartbeat)
				h.stopHeartbeat = nil
			}
		}
	}
}

func (h *Hub) nextEventID() int64 {
	return atomic.AddInt64(&h.nextID, 1)
}

// ClientCount returns the number of connected SSE clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// startHeartbeat starts the heartbeat ticker. Caller must hold h.mu and have
// verified h.heartbeatTicker == nil.
func (h *Hub) startHeartbeat() {
	h.heartbeatTicker = time.NewTicker(h.heartbeatInterval)
	h.stopHeartbeat = make(chan struct{})

	ticker := h.heartbeatTicker
	stop := h.stopHeartbeat

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		for {
			select {
			case <-ticker.C:
				h.Publish(Event{
					Type: "heartbeat",
					Data: map[string]interface{}{"ts": time.Now().UTC().Format(time.RFC3339)},
				})
			case <-stop:
				return
			case <-h.done:
				return
			}
		}
	}()
}

// Stop shuts the hub down and disconnects all clients.
func (h *Hub) Stop() {
	close(h.done)

	h.mu.Lock()
	for _, c := range h.clients {
		c.cancel()
	}
	if h.heartbeatTicker != nil {
		h.heartbeatTicker.Stop()
		h.heartbeatTicker = nil
	}
	if h.stopHeartbeat != nil {
		close(h.stopHeartbeat)
		h.stopHeartbeat = nil
	}
	h.mu.Unlock()

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
	}

	h.mu.Lock()
	h.clients = make(map[string]*client)
	h.mu.Unlock()
}
