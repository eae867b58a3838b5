package telemetry

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownTag indicates a read for a tag outside the fixed vocabulary.
// This is a caller bug, not a runtime condition to recover from.
var ErrUnknownTag = errors.New("UNKNOWN_TAG")

// Store is the mutable snapshot of vehicle and channel telemetry. The key set
// is fixed at construction; only values change. One exchange session owns all
// writes, while the API server and SSE hub take read snapshots, so reads and
// writes are guarded by an RWMutex. ApplyBatch holds the write lock for the
// whole batch, so readers never observe a partially applied reply.
type Store struct {
	mu     sync.RWMutex
	values map[string]Value
}

// NewStore creates a store populated with the vocabulary defaults.
func NewStore() *Store {
	values := make(map[string]Value, len(tagDefaults))
	for tag, v := range tagDefaults {
		values[tag] = v
	}
	return &Store{values: values}
}

// ApplyBatch overwrites the value of every update whose tag is in the
// vocabulary. Unknown tags are dropped without error; the vocabulary never
// grows at runtime.
func (s *Store) ApplyBatch(updates []Update) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range updates {
		if _, ok := s.values[u.Tag]; ok {
			s.values[u.Tag] = u.Value
		}
	}
}

// Get returns the current value for tag, or ErrUnknownTag if the tag was
// never part of the vocabulary.
func (s *Store) Get(tag string) (Value, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[tag]
	if !ok {
		return Value{}, fmt.Errorf("%w: %q", ErrUnknownTag, tag)
	}
	return v, nil
}

// Float returns the float value for tag. A kind mismatch returns the zero
// float; the vocabulary tables decide kinds at parse time.
func (s *Store) Float(tag string) (float64, error) {
	v, err := s.Get(tag)
	if err != nil {
		return 0, err
	}
	return v.Float, nil
}

// Bool returns the bool value for tag.
func (s *Store) Bool(tag string) (bool, error) {
	v, err := s.Get(tag)
	if err != nil {
		return false, err
	}
	return v.Bool, nil
}

// Str returns the string value for tag.
func (s *Store) Str(tag string) (string, error) {
	v, err := s.Get(tag)
	if err != nil {
		return "", err
	}
	return v.Str, nil
}

// Snapshot returns a copy of the full state as plain values, suitable for
// JSON serialization.
func (s *Store) Snapshot() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := make(map[string]interface{}, len(s.values))
	for tag, v := range s.values {
		snap[tag] = v.Interface()
	}
	return snap
}
