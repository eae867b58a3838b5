// Package recorder persists applied telemetry frames to a sqlite database
// for post-flight analysis. Recording is best-effort: a write failure is
// reported but never interrupts the exchange loop.
package recorder

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB is the flight recorder database.
type DB struct {
	*sql.DB
}

// Frame is one recorded telemetry frame.
type Frame struct {
	Frame          uint64
	PhysicsTimeSec float64
	Snapshot       map[string]interface{}
}

// NewDB opens (or creates) the recorder database at path.
func NewDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS frames (
			frame BIGINT,
			physics_time DOUBLE,
			snapshot TEXT,
			timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return nil, err
	}

	return &DB{db}, nil
}

// RecordFrame stores one applied frame with its full snapshot.
func (db *DB) RecordFrame(frame uint64, physicsTimeSec float64, snapshot map[string]interface{}) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	_, err = db.Exec("INSERT INTO frames (frame, physics_time, snapshot) VALUES (?, ?, ?)",
		frame, physicsTimeSec, string(data))
	if err != nil {
		return err
	}
	return nil
}

// FrameCount returns the number of recorded frames.
func (db *DB) FrameCount() (int64, error) {
	var n int64
	if err := db.QueryRow("SELECT COUNT(*) FROM frames").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Frames returns the most recent frames, newest first.
func (db *DB) Frames(limit int) ([]Frame, error) {
	rows, err := db.Query("SELECT frame, physics_time, snapshot FROM frames ORDER BY frame DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var frames []Frame
	for rows.Next() {
		var f Frame
		var snapshot string
		if err := rows.Scan(&f.Frame, &f.PhysicsTimeSec, &snapshot); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(snapshot), &f.Snapshot); err != nil {
			return nil, fmt.Errorf("corrupt snapshot for frame %d: %w", f.Frame, err)
		}
		frames = append(frames, f)
	}
	return frames, rows.Err()
}
