package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/flight-control/fcc/internal/envelope"
	"github.com/flight-control/fcc/internal/telemetry"
	"github.com/flight-control/fcc/internal/transport"
)

// State is the session's activation lifecycle.
type State int

const (
	StateUninitialized State = iota
	StateActive
)

func (s State) String() string {
	if s == StateActive {
		return "active"
	}
	return "uninitialized"
}

// AuditLogger records exchange and activation outcomes.
type AuditLogger interface {
	LogAction(ctx context.Context, action, outcome string, latency time.Duration)
}

// TelemetryPublisher receives applied snapshots and exchange faults. The
// telemetry hub implements it.
type TelemetryPublisher interface {
	PublishSnapshot(snapshot map[string]interface{})
	PublishFault(code, message string)
}

// Session owns one simulator exchange channel and the telemetry store behind
// it. Exchanges are strictly sequential: callers must not overlap calls, and
// the store has exactly this one writer.
type Session struct {
	transport transport.Transport
	store     *telemetry.Store

	// Optional collaborators, nil-safe.
	publisher TelemetryPublisher
	audit     AuditLogger

	stateVal   atomic.Int32
	frames     atomic.Uint64 // exchange attempts, replied or not
	activation atomic.Uint64 // frame count captured at last activation

	timingMu sync.Mutex
	timing   FrameTiming
}

// New creates a session over the given transport and store.
func New(tr transport.Transport, store *telemetry.Store) *Session {
	return &Session{transport: tr, store: store}
}

// SetPublisher wires the telemetry hub. Nil disables publication.
func (s *Session) SetPublisher(p TelemetryPublisher) {
	s.publisher = p
}

// SetAuditLogger wires the audit log. Nil disables auditing.
func (s *Session) SetAuditLogger(a AuditLogger) {
	s.audit = a
}

// Activate installs this container as the simulator's active controller by
// issuing the restore action followed by the inject action. The simulator
// treats the pair as a reset-and-claim, so repeating it is safe; callers
// invoke it again whenever telemetry reports the controller inactive or the
// reset button pressed. Reply bodies carry nothing the container reads and
// are discarded.
func (s *Session) Activate(ctx context.Context) error {
	start := time.Now()

	for _, action := range []envelope.Action{envelope.ActionRestore, envelope.ActionInject} {
		body, err := envelope.Encode(action)
		if err != nil {
			return err
		}
		if _, err := s.transport.Send(ctx, string(action), body); err != nil {
			s.logAudit(ctx, string(action), "ABORTED", time.Since(start))
			return err
		}
	}

	s.activation.Store(s.frames.Load())
	s.stateVal.Store(int32(StateActive))
	s.logAudit(ctx, "activate", "SUCCESS", time.Since(start))
	return nil
}

// Exchange runs one control/telemetry cycle. An absent reply (timeout or
// drop) leaves the store untouched and is not an error; a reply that cannot
// be decoded is reported once per call and also leaves the store untouched.
func (s *Session) Exchange(ctx context.Context, controls []float64) error {
	start := time.Now()

	body, err := envelope.EncodeExchangeData(controls)
	if err != nil {
		s.logAudit(ctx, string(envelope.ActionExchange), "INVALID_RANGE", time.Since(start))
		return err
	}

	s.frames.Add(1)

	reply, err := s.transport.Send(ctx, string(envelope.ActionExchange), body)
	if err != nil {
		// Only caller-initiated aborts reach here; transport absorbs
		// timeouts and connection failures into an empty reply.
		s.logAudit(ctx, string(envelope.ActionExchange), "ABORTED", time.Since(start))
		return err
	}
	if len(reply) == 0 {
		s.logAudit(ctx, string(envelope.ActionExchange), "NO_REPLY", time.Since(start))
		return nil
	}

	updates, err := envelope.DecodeReply(reply)
	if err != nil {
		s.logAudit(ctx, string(envelope.ActionExchange), "MALFORMED_REPLY", time.Since(start))
		if s.publisher != nil {
			s.publisher.PublishFault("MALFORMED_REPLY", err.Error())
		}
		return err
	}

	s.store.ApplyBatch(updates)

	physicsTime, err := s.store.Float(telemetry.TagPhysicsTime)
	if err == nil {
		s.timingMu.Lock()
		s.timing.Observe(physicsTime)
		s.timingMu.Unlock()
	}

	if s.publisher != nil {
		s.publisher.PublishSnapshot(s.store.Snapshot())
	}
	s.logAudit(ctx, string(envelope.ActionExchange), "SUCCESS", time.Since(start))
	return nil
}

// NeedsActivation reports whether the activation handshake should be (re)run:
// the session was never activated, the simulator reports the controller
// interface inactive, or its reset control has been pressed.
func (s *Session) NeedsActivation() bool {
	if s.State() != StateActive {
		return true
	}
	active, err := s.store.Bool(telemetry.TagControllerActive)
	if err == nil && !active {
		return true
	}
	reset, err := s.store.Bool(telemetry.TagResetPressed)
	return err == nil && reset
}

// State returns the activation lifecycle state.
func (s *Session) State() State {
	return State(s.stateVal.Load())
}

// Frames returns the number of exchange attempts.
func (s *Session) Frames() uint64 {
	return s.frames.Load()
}

// ActivationFrame returns the exchange-attempt count captured when the
// session last activated.
func (s *Session) ActivationFrame() uint64 {
	return s.activation.Load()
}

// SocketFrames returns the number of replies applied to the store.
func (s *Session) SocketFrames() uint64 {
	s.timingMu.Lock()
	defer s.timingMu.Unlock()
	return s.timing.SocketFrames()
}

// AverageFrameTime returns the smoothed physics inter-frame duration in
// seconds, zero until enough frames have been seen.
func (s *Session) AverageFrameTime() float64 {
	s.timingMu.Lock()
	defer s.timingMu.Unlock()
	return s.timing.AverageFrameTime()
}

// Store exposes the telemetry store for read access between exchanges.
func (s *Session) Store() *telemetry.Store {
	return s.store
}

func (s *Session) logAudit(ctx context.Context, action, outcome string, latency time.Duration) {
	if s.audit != nil {
		s.audit.LogAction(ctx, action, outcome, latency)
	}
}
