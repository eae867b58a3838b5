// Package audit writes an append-only JSONL record of every simulator
// action the container performs, one line per exchange or activation
// attempt. The log rotates by size so long soak runs do not fill the disk.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Entry is a single audit log line.
type Entry struct {
	Timestamp     time.Time `json:"ts"`
	CorrelationID string    `json:"correlationId"`
	Action        string    `json:"action"`
	Outcome       string    `json:"outcome"`
	LatencyMs     int64     `json:"latencyMs"`
}

// Logger writes audit entries through a size-rotated file.
type Logger struct {
	mu     sync.Mutex
	out    *lumberjack.Logger
	closed bool
}

// NewLogger creates the audit logger writing to <dir>/audit.jsonl.
func NewLogger(dir string, maxSizeMb, maxBackups, maxAgeDays int) (*Logger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create audit log directory: %w", err)
	}
	return &Logger{
		out: &lumberjack.Logger{
			Filename:   filepath.Join(dir, "audit.jsonl"),
			MaxSize:    maxSizeMb,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
		},
	}, nil
}

// LogAction records one simulator action and its outcome. Audit writes never
// fail the exchange loop; write errors go to stderr.
func (l *Logger) LogAction(ctx context.Context, action, outcome string, latency time.Duration) {
	entry := Entry{
		Timestamp:     time.Now().UTC(),
		CorrelationID: uuid.NewString(),
		Action:        action,
		Outcome:       outcome,
		LatencyMs:     latency.Milliseconds(),
	}
	l.writeEntry(entry)
}

func (l *Logger) writeEntry(entry Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}

	jsonData, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to marshal audit entry: %v\n", err)
		return
	}
	if _, err := l.out.Write(append(jsonData, '\n')); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write audit entry: %v\n", err)
	}
}

// FilePath returns the path of the active audit log file.
func (l *Logger) FilePath() string {
	return l.out.Filename
}

// Close stops the logger and closes the underlying file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	return l.out.Close()
}
