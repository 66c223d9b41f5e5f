package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/STiFLeR7/nanocortex/internal/core/domain"
	"github.com/STiFLeR7/nanocortex/internal/core/ports/driven"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

// ChunkStore is an in-memory implementation of driven.ChunkStore for
// testing.
type ChunkStore struct {
	mu     sync.Mutex
	chunks []domain.Chunk
}

// NewChunkStore creates a new in-memory chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{}
}

// SaveChunks appends chunks to the corpus.
func (s *ChunkStore) SaveChunks(_ context.Context, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = append(s.chunks, chunks...)
	return nil
}

// AllChunks returns every stored chunk in insertion order.
func (s *ChunkStore) AllChunks(_ context.Context) ([]domain.Chunk, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Chunk, len(s.chunks))
	copy(out, s.chunks)
	return out, nil
}

// Close releases resources.
func (s *ChunkStore) Close() error {
	return nil
}

// Ensure PendingDecisionStore implements the interface.
var _ driven.PendingDecisionStore = (*PendingDecisionStore)(nil)

// PendingDecisionStore is an in-memory implementation of
// driven.PendingDecisionStore for testing.
type PendingDecisionStore struct {
	mu      sync.Mutex
	pending map[string]domain.Decision
}

// NewPendingDecisionStore creates a new in-memory pending store.
func NewPendingDecisionStore() *PendingDecisionStore {
	return &PendingDecisionStore{pending: make(map[string]domain.Decision)}
}

// SavePending stores a parked decision, replacing any previous snapshot.
func (s *PendingDecisionStore) SavePending(decision domain.Decision) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[decision.ID] = decision
	return nil
}

// DeletePending removes a resolved decision.
func (s *PendingDecisionStore) DeletePending(decisionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, decisionID)
	return nil
}

// ListPending returns all parked decisions, oldest first.
func (s *PendingDecisionStore) ListPending() ([]domain.Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Decision, 0, len(s.pending))
	for _, d := range s.pending {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Close releases resources.
func (s *PendingDecisionStore) Close() error {
	return nil
}
