package api

import (
	"context"
	"net/http"

	"github.com/flight-control/fcc/internal/session"
)

// TelemetryPort is the hub surface the API needs: stream subscription and
// the connected-client count for health reporting.
type TelemetryPort interface {
	Subscribe(ctx context.Context, w http.ResponseWriter, r *http.Request) error
	ClientCount() int
}

// SessionPort exposes the exchange session counters and lifecycle state.
type SessionPort interface {
	State() session.State
	Frames() uint64
	ActivationFrame() uint64
	SocketFrames() uint64
	AverageFrameTime() float64
	NeedsActivation() bool
}

// StateReadPort is the telemetry store surface the API reads from.
type StateReadPort interface {
	Snapshot() map[string]interface{}
	Float(tag string) (float64, error)
}
