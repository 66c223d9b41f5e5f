package driving

import (
	"context"

	"github.com/STiFLeR7/nanocortex/internal/core/domain"
)

// KnowledgeService owns the indexed evidence corpus and answers retrieval
// queries over it. The corpus is memory-resident and append-only: chunks
// are never updated or deleted once indexed.
type KnowledgeService interface {
	// Index splits the ingested document into chunks and appends them to
	// the corpus. Returns the number of chunks added; an empty document
	// yields 0 without error.
	Index(ctx context.Context, doc domain.DocumentIngestion) (int, error)

	// Retrieve returns the topK best-scoring chunks for the query under
	// the given strategy. An empty corpus yields an empty result set for
	// every strategy and query - absence of evidence is always
	// representable as zero results, never as a fabricated one.
	Retrieve(ctx context.Context, query string, topK int, strategy domain.Strategy) (domain.RetrievalResponse, error)

	// ChunkCount returns the number of indexed chunks.
	ChunkCount() int
}
