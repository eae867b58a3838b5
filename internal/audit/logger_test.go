package audit

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"
)

func readEntries(t *testing.T, path string) []Entry {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open audit log: %v", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e Entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			t.Fatalf("malformed audit line %q: %v", scanner.Text(), err)
		}
		entries = append(entries, e)
	}
	return entries
}

func TestLogActionWritesJSONL(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(dir, 10, 2, 7)
	if err != nil {
		t.Fatalf("NewLogger returned error: %v", err)
	}

	logger.LogAction(context.Background(), "ExchangeData", "SUCCESS", 3*time.Millisecond)
	logger.LogAction(context.Background(), "ExchangeData", "NO_REPLY", time.Second)
	logger.LogAction(context.Background(), "RestoreOriginalControllerDevice", "SUCCESS", 0)
	if err := logger.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	entries := readEntries(t, logger.FilePath())
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	if entries[0].Action != "ExchangeData" || entries[0].Outcome != "SUCCESS" || entries[0].LatencyMs != 3 {
		t.Errorf("first entry = %+v", entries[0])
	}
	if entries[1].Outcome != "NO_REPLY" || entries[1].LatencyMs != 1000 {
		t.Errorf("second entry = %+v", entries[1])
	}
	if entries[2].Action != "RestoreOriginalControllerDevice" {
		t.Errorf("third entry = %+v", entries[2])
	}
	for i, e := range entries {
		if e.CorrelationID == "" {
			t.Errorf("entry %d has empty correlation id", i)
		}
		if e.Timestamp.IsZero() {
			t.Errorf("entry %d has zero timestamp", i)
		}
	}
	if entries[0].CorrelationID == entries[1].CorrelationID {
		t.Error("correlation ids must be unique per entry")
	}
}

func TestLogAfterCloseIsDropped(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(dir, 10, 2, 7)
	if err != nil {
		t.Fatalf("NewLogger returned error: %v", err)
	}
	logger.LogAction(context.Background(), "ExchangeData", "SUCCESS", 0)
	if err := logger.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	// Must not panic or reopen the file.
	logger.LogAction(context.Background(), "ExchangeData", "SUCCESS", 0)

	if got := readEntries(t, logger.FilePath()); len(got) != 1 {
		t.Errorf("got %d entries after close, want 1", len(got))
	}
}
