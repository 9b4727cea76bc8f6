package insights

import (
	"context"
	"sync"
	"time"
)

// RunState records the outcome of the latest analysis run for one user.
// A run that produced zero insights still gets a state, so freshness is
// about when analysis last ran, not whether it found anything.
type RunState struct {
	LastRunAt time.Time `json:"last_run_at"`
	BatchID   string    `json:"batch_id"`
}

// RunStateStore persists per-user run states.
type RunStateStore interface {
	Get(ctx context.Context, userID string) (*RunState, error)
	Set(ctx context.Context, userID string, state RunState) error
}

// MemoryRunStateStore keeps run states in process memory. Suitable for a
// single instance; multi-instance deployments use the Redis store.
type MemoryRunStateStore struct {
	mu     sync.RWMutex
	states map[string]RunState
}

// NewMemoryRunStateStore creates an in-memory run state store.
func NewMemoryRunStateStore() *MemoryRunStateStore {
	return &MemoryRunStateStore{states: make(map[string]RunState)}
}

func (s *MemoryRunStateStore) Get(ctx context.Context, userID string) (*RunState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[userID]
	if !ok {
		return nil, nil
	}
	return &state, nil
}

func (s *MemoryRunStateStore) Set(ctx context.Context, userID string, state RunState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[userID] = state
	return nil
}
