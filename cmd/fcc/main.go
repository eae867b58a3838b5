// Package main implements the Flight Control Container entry point: it
// activates the controller interface on the simulator, runs the exchange
// loop, and serves the northbound observation API.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flight-control/fcc/internal/api"
	"github.com/flight-control/fcc/internal/audit"
	"github.com/flight-control/fcc/internal/auth"
	"github.com/flight-control/fcc/internal/config"
	"github.com/flight-control/fcc/internal/control"
	"github.com/flight-control/fcc/internal/recorder"
	"github.com/flight-control/fcc/internal/session"
	"github.com/flight-control/fcc/internal/telemetry"
	"github.com/flight-control/fcc/internal/transport"
)

const Version = "1.0.0"

func main() {
	log.Printf("Starting Flight Control Container v%s", Version)

	// Step 1: Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Println("Configuration loaded successfully")

	// Step 2: Initialize telemetry hub
	telemetryHub := telemetry.NewHub(cfg.HeartbeatInterval())
	log.Println("Telemetry hub initialized")

	// Step 3: Initialize audit logger
	auditLogger, err := audit.NewLogger(cfg.Audit.Dir, cfg.Audit.MaxSizeMb, cfg.Audit.MaxBackups, cfg.Audit.MaxAgeDays)
	if err != nil {
		log.Fatalf("Failed to initialize audit logger: %v", err)
	}
	log.Println("Audit logger initialized")

	// Step 4: Optional flight recorder
	var flightDB *recorder.DB
	if cfg.Recorder.Path != "" {
		flightDB, err = recorder.NewDB(cfg.Recorder.Path)
		if err != nil {
			log.Fatalf("Failed to open flight recorder: %v", err)
		}
		log.Printf("Flight recorder opened at %s", cfg.Recorder.Path)
	}

	// Step 5: Create the exchange session over the simulator transport
	tr := transport.NewHTTPTransport(cfg.Simulator.Host, cfg.Simulator.Port, cfg.ExchangeTimeout())
	store := telemetry.NewStore()
	sess := session.New(tr, store)
	sess.SetPublisher(telemetryHub)
	sess.SetAuditLogger(auditLogger)
	log.Printf("Exchange session targeting %s", tr.URL())

	// Step 6: Create API server
	var server *api.Server
	if cfg.API.AuthSecret != "" {
		authMiddleware := auth.NewMiddleware(cfg.API.AuthSecret)
		server = api.NewServerWithAuth(telemetryHub, sess, store, authMiddleware, 30*time.Second, 30*time.Second, 120*time.Second)
		log.Println("API server created with authentication")
	} else {
		server = api.NewServer(telemetryHub, sess, store, 30*time.Second, 30*time.Second, 120*time.Second)
		log.Println("API server created without authentication (no auth secret configured)")
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(cfg.API.Addr); err != nil {
			serverErr <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()
	log.Printf("Health endpoint: http://localhost%s/api/v1/health", cfg.API.Addr)

	// Step 7: Run the exchange loop until a shutdown signal arrives
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	loopCtx, cancelLoop := context.WithCancel(context.Background())
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		runExchangeLoop(loopCtx, sess, flightDB, cfg.LoopInterval())
	}()

	select {
	case sig := <-shutdown:
		log.Printf("Received signal %v, initiating graceful shutdown...", sig)
	case err := <-serverErr:
		log.Printf("Server error: %v", err)
	}

	// Stop the loop, then hand the vehicle back with one neutral exchange so
	// it is not left holding the last commanded inputs.
	cancelLoop()
	<-loopDone

	handoffCtx, cancelHandoff := context.WithTimeout(context.Background(), 2*time.Second)
	if err := sess.Exchange(handoffCtx, control.Neutral()); err != nil {
		log.Printf("Neutral handoff exchange failed: %v", err)
	} else {
		log.Println("Neutral controls handed to simulator")
	}
	cancelHandoff()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	telemetryHub.Stop()
	log.Println("Telemetry hub stopped")

	if err := auditLogger.Close(); err != nil {
		log.Printf("Error closing audit logger: %v", err)
	}
	log.Println("Audit logger closed")

	if flightDB != nil {
		if err := flightDB.Close(); err != nil {
			log.Printf("Error closing flight recorder: %v", err)
		}
	}

	if err := server.Stop(ctx); err != nil {
		log.Printf("Error stopping HTTP server: %v", err)
	} else {
		log.Println("HTTP server stopped gracefully")
	}

	log.Printf("Shutdown complete after %d exchange frames (%d replied)", sess.Frames(), sess.SocketFrames())
}

// runExchangeLoop drives the simulator: (re)activate whenever telemetry says
// the controller interface was lost, then exchange manual-mode controls at
// the configured cadence. Exchange errors are logged and the loop keeps
// going; the simulator recovering is the normal case.
func runExchangeLoop(ctx context.Context, sess *session.Session, flightDB *recorder.DB, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if sess.NeedsActivation() {
			if err := sess.Activate(ctx); err != nil {
				log.Printf("Activation failed: %v", err)
				continue
			}
			log.Printf("Controller interface activated at frame %d", sess.ActivationFrame())
		}

		applied := sess.SocketFrames()
		if err := sess.Exchange(ctx, control.Manual(sess.Store())); err != nil {
			log.Printf("Exchange failed: %v", err)
			continue
		}

		if flightDB != nil && sess.SocketFrames() > applied {
			physicsTime, _ := sess.Store().Float(telemetry.TagPhysicsTime)
			if err := flightDB.RecordFrame(sess.Frames(), physicsTime, sess.Store().Snapshot()); err != nil {
				log.Printf("Flight recorder write failed: %v", err)
			}
		}
	}
}
