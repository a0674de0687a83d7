package repository

import (
	"context"
	"errors"
	"sync"
)

// InMemoryRecorder is an in-memory implementation of Recorder, used
// when no database is configured and in tests.
type InMemoryRecorder struct {
	mu      sync.RWMutex
	results map[string]Result
}

// NewInMemoryRecorder creates a new in-memory recorder
func NewInMemoryRecorder() *InMemoryRecorder {
	return &InMemoryRecorder{
		results: make(map[string]Result),
	}
}

// RecordResult saves a result keyed by game id
func (r *InMemoryRecorder) RecordResult(_ context.Context, res Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.results[res.GameID] = res
	return nil
}

// GetResult retrieves a recorded result by game id
func (r *InMemoryRecorder) GetResult(gameID string) (Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	res, ok := r.results[gameID]
	if !ok {
		return Result{}, errors.New("result not found")
	}
	return res, nil
}

// Len returns the number of recorded results
func (r *InMemoryRecorder) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.results)
}
