package memory

import (
	"sync"

	"github.com/STiFLeR7/nanocortex/internal/core/ports/driven"
)

// Ensure LearningStateStore implements the interface.
var _ driven.LearningStateStore = (*LearningStateStore)(nil)

// LearningStateStore is an in-memory implementation of
// driven.LearningStateStore for testing.
type LearningStateStore struct {
	mu    sync.Mutex
	state driven.LearningState
	saved bool
}

// NewLearningStateStore creates a new in-memory state store.
func NewLearningStateStore() *LearningStateStore {
	return &LearningStateStore{}
}

// Save replaces the stored snapshot.
func (s *LearningStateStore) Save(state driven.LearningState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.saved = true
	return nil
}

// Load returns the stored snapshot, if any.
func (s *LearningStateStore) Load() (driven.LearningState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.saved, nil
}

// Close releases resources.
func (s *LearningStateStore) Close() error {
	return nil
}
