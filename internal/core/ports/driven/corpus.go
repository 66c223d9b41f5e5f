package driven

import (
	"context"

	"github.com/STiFLeR7/nanocortex/internal/core/domain"
)

// ChunkStore persists indexed chunks so the evidence corpus survives
// process restarts. The corpus is append-only; implementations must
// return chunks in insertion order, which retrieval uses to break
// score ties deterministically.
type ChunkStore interface {
	// SaveChunks appends chunks to the corpus.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// AllChunks returns every stored chunk in insertion order.
	AllChunks(ctx context.Context) ([]domain.Chunk, error)

	// Close releases resources.
	Close() error
}

// PendingDecisionStore persists decisions awaiting human approval.
// A decision parked in one process must be visible to approve, reject
// and pending listings in later processes, so the store is written on
// every park and cleared on every resolution.
type PendingDecisionStore interface {
	// SavePending stores a parked decision, replacing any previous
	// snapshot with the same ID.
	SavePending(decision domain.Decision) error

	// DeletePending removes a resolved decision. Unknown IDs are a
	// no-op.
	DeletePending(decisionID string) error

	// ListPending returns all parked decisions, oldest first.
	ListPending() ([]domain.Decision, error)

	// Close releases resources.
	Close() error
}
