// Package faxmock emulates the FlightAxis Link SOAP endpoint for local
// development and end-to-end testing. It accepts the three controller
// actions, echoes the commanded channels back, and advances a synthetic
// physics clock one step per exchange. Fault modes let tests exercise the
// container's dropped-reply and malformed-reply paths.
package faxmock

import (
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// Mode selects the emulator's reply behavior.
type Mode int

const (
	// ModeNormal replies to every exchange.
	ModeNormal Mode = iota
	// ModeDrop closes exchanges without a reply body.
	ModeDrop
	// ModeTruncate cuts reply documents in half, producing unparsable XML.
	ModeTruncate
)

var itemPattern = regexp.MustCompile(`<item>(-?[0-9.]+)</item>`)

// Server is the emulated simulator endpoint.
type Server struct {
	mu           sync.Mutex
	mode         Mode
	frameStep    float64
	physicsTime  float64
	frames       uint64
	injected     bool
	lastControls []float64
}

// NewServer creates an emulator advancing its physics clock by frameStep
// seconds per exchange.
func NewServer(frameStep float64) *Server {
	return &Server{
		frameStep:    frameStep,
		lastControls: make([]float64, 12),
	}
}

// SetMode switches the reply behavior. Safe to call while serving.
func (s *Server) SetMode(mode Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
}

// Frames returns the number of exchanges served.
func (s *Server) Frames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// PhysicsTime returns the current synthetic physics clock.
func (s *Server) PhysicsTime() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.physicsTime
}

// Injected reports whether the controller interface has been claimed.
func (s *Server) Injected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.injected
}

// LastControls returns the channel values from the most recent exchange.
func (s *Server) LastControls() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]float64, len(s.lastControls))
	copy(out, s.lastControls)
	return out
}

// HandleRequest dispatches on the soapaction header the way the real
// simulator does; the URL path is ignored.
func (s *Server) HandleRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read request", http.StatusBadRequest)
		return
	}

	switch r.Header.Get("soapaction") {
	case "RestoreOriginalControllerDevice":
		s.handleRestore(w)
	case "InjectUAVControllerInterface":
		s.handleInject(w)
	case "ExchangeData":
		s.handleExchange(w, body)
	default:
		http.Error(w, "unknown soapaction", http.StatusBadRequest)
	}
}

func (s *Server) handleRestore(w http.ResponseWriter) {
	s.mu.Lock()
	s.injected = false
	s.mu.Unlock()
	writeXML(w, ackBody("RestoreOriginalControllerDeviceResponse"))
}

func (s *Server) handleInject(w http.ResponseWriter) {
	s.mu.Lock()
	s.injected = true
	s.mu.Unlock()
	writeXML(w, ackBody("InjectUAVControllerInterfaceResponse"))
}

func (s *Server) handleExchange(w http.ResponseWriter, body []byte) {
	controls := parseControls(body)

	s.mu.Lock()
	s.frames++
	s.physicsTime += s.frameStep
	if controls != nil {
		copy(s.lastControls, controls)
	}
	mode := s.mode
	reply := s.buildReplyLocked()
	s.mu.Unlock()

	switch mode {
	case ModeDrop:
		// No body at all; the container treats this as a skipped frame.
		w.WriteHeader(http.StatusOK)
	case ModeTruncate:
		writeXML(w, reply[:len(reply)/2])
	default:
		writeXML(w, reply)
	}
}

// buildReplyLocked renders the exchange reply document. Callers hold s.mu.
func (s *Server) buildReplyLocked() string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<SOAP-ENV:Envelope xmlns:SOAP-ENV="http://schemas.xmlsoap.org/soap/envelope/"><SOAP-ENV:Body><ReturnData>`)

	b.WriteString(`<m-previousInputsState><m-channelValues-0to1>`)
	for _, c := range s.lastControls {
		fmt.Fprintf(&b, "<item>%.4f</item>", c)
	}
	b.WriteString(`</m-channelValues-0to1></m-previousInputsState>`)

	b.WriteString(`<m-aircraftState>`)
	fmt.Fprintf(&b, "<m-currentPhysicsTime-SEC>%.6f</m-currentPhysicsTime-SEC>", s.physicsTime)
	fmt.Fprintf(&b, "<m-flightAxisControllerIsActive>%t</m-flightAxisControllerIsActive>", s.injected)
	b.WriteString(`<m-airspeed-MPS>0</m-airspeed-MPS>`)
	b.WriteString(`<m-altitudeASL-MTR>1.5</m-altitudeASL-MTR>`)
	b.WriteString(`<m-anEngineIsRunning>true</m-anEngineIsRunning>`)
	b.WriteString(`<m-isTouchingGround>true</m-isTouchingGround>`)
	b.WriteString(`<m-currentAircraftStatus>CAS-WAITINGTOLAUNCH</m-currentAircraftStatus>`)
	b.WriteString(`</m-aircraftState>`)

	b.WriteString(`<m-notifications>`)
	b.WriteString(`<m-resetButtonHasBeenPressed>false</m-resetButtonHasBeenPressed>`)
	b.WriteString(`</m-notifications>`)

	b.WriteString(`</ReturnData></SOAP-ENV:Body></SOAP-ENV:Envelope>`)
	return b.String()
}

func ackBody(name string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>`+"\n"+
		`<SOAP-ENV:Envelope xmlns:SOAP-ENV="http://schemas.xmlsoap.org/soap/envelope/"><SOAP-ENV:Body><%s/></SOAP-ENV:Body></SOAP-ENV:Envelope>`, name)
}

func parseControls(body []byte) []float64 {
	matches := itemPattern.FindAllSubmatch(body, -1)
	if len(matches) == 0 {
		return nil
	}
	controls := make([]float64, 0, len(matches))
	for _, m := range matches {
		v, err := strconv.ParseFloat(string(m[1]), 64)
		if err != nil {
			return nil
		}
		controls = append(controls, v)
	}
	return controls
}

func writeXML(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/xml;charset='UTF-8'")
	_, _ = io.WriteString(w, body)
}
