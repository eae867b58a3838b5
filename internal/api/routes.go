package api

import (
	"net/http"
	"time"

	"github.com/flight-control/fcc/internal/auth"
	"github.com/flight-control/fcc/internal/telemetry"
)

// RegisterRoutes registers all v1 endpoints.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	apiV1 := "/api/v1"

	// Health endpoint (no auth required)
	mux.HandleFunc(apiV1+"/health", s.handleHealth)

	// If no auth middleware, register routes without protection
	if s.authMiddleware == nil {
		mux.HandleFunc(apiV1+"/state", s.handleState)
		mux.HandleFunc(apiV1+"/session", s.handleSession)
		mux.HandleFunc(apiV1+"/telemetry", s.handleTelemetry)
		return
	}

	mux.HandleFunc(apiV1+"/state", s.authMiddleware.RequireAuth(s.authMiddleware.RequireScope(auth.ScopeRead)(s.handleState)))
	mux.HandleFunc(apiV1+"/session", s.authMiddleware.RequireAuth(s.authMiddleware.RequireScope(auth.ScopeRead)(s.handleSession)))
	mux.HandleFunc(apiV1+"/telemetry", s.authMiddleware.RequireAuth(s.authMiddleware.RequireScope(auth.ScopeTelemetry)(s.handleTelemetry)))
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED",
			"Only GET method is allowed")
		return
	}

	uptime := 0.0
	if !s.startTime.IsZero() {
		uptime = time.Since(s.startTime).Seconds()
	}

	status := "degraded"
	if s.exchange != nil && !s.exchange.NeedsActivation() {
		status = "ok"
	}

	health := map[string]interface{}{
		"status":    status,
		"uptimeSec": uptime,
	}
	if s.telemetryHub != nil {
		health["telemetryClients"] = s.telemetryHub.ClientCount()
	}
	if s.exchange != nil {
		health["sessionState"] = s.exchange.State().String()
	}
	WriteSuccess(w, health)
}

// handleState handles GET /state: the full telemetry snapshot.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED",
			"Only GET method is allowed")
		return
	}
	if s.state == nil {
		WriteError(w, http.StatusServiceUnavailable, "UNAVAILABLE",
			"Telemetry state not available")
		return
	}
	WriteSuccess(w, s.state.Snapshot())
}

// handleSession handles GET /session: exchange counters and frame timing.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED",
			"Only GET method is allowed")
		return
	}
	if s.exchange == nil {
		WriteError(w, http.StatusServiceUnavailable, "UNAVAILABLE",
			"Exchange session not available")
		return
	}

	data := map[string]interface{}{
		"state":               s.exchange.State().String(),
		"frames":              s.exchange.Frames(),
		"activationFrame":     s.exchange.ActivationFrame(),
		"socketFrames":        s.exchange.SocketFrames(),
		"averageFrameTimeSec": s.exchange.AverageFrameTime(),
		"needsActivation":     s.exchange.NeedsActivation(),
	}
	if s.state != nil {
		if pt, err := s.state.Float(telemetry.TagPhysicsTime); err == nil {
			data["physicsTimeSec"] = pt
		}
	}
	WriteSuccess(w, data)
}

// handleTelemetry handles GET /telemetry (SSE)
func (s *Server) handleTelemetry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED",
			"Only GET method is allowed")
		return
	}
	if s.telemetryHub == nil {
		WriteError(w, http.StatusServiceUnavailable, "UNAVAILABLE",
			"Telemetry service not available")
		return
	}

	if err := s.telemetryHub.Subscribe(r.Context(), w, r); err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL",
			"Failed to subscribe to telemetry stream")
		return
	}
}
