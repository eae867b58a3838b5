package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flight-control/fcc/internal/faxmock"
)

func main() {
	addr := flag.String("addr", ":18083", "listen address")
	frameStep := flag.Float64("frame-step", 0.02, "physics seconds advanced per exchange")
	mode := flag.String("mode", "normal", "reply mode: normal, drop, truncate")
	flag.Parse()

	log.Println("Starting FlightAxis Link emulator...")

	emu := faxmock.NewServer(*frameStep)
	switch *mode {
	case "normal":
	case "drop":
		emu.SetMode(faxmock.ModeDrop)
	case "truncate":
		emu.SetMode(faxmock.ModeTruncate)
	default:
		log.Fatalf("Unknown mode %q", *mode)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", emu.HandleRequest)

	httpServer := &http.Server{
		Addr:         *addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Listening on %s (mode=%s, frame step=%.3fs)", *addr, *mode, *frameStep)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	log.Printf("Served %d exchanges, final physics time %.3fs", emu.Frames(), emu.PhysicsTime())
}
