package driven

import (
	"context"

	"github.com/STiFLeR7/nanocortex/internal/core/domain"
)

// Generator produces an answer for a query from retrieved evidence.
// This is an optional service - when nil, the agent falls back to a
// deterministic evidence-only answer.
//
// Implementations may include:
//   - OpenAI-compatible chat completion APIs
//   - Anthropic messages API
//   - Local inference servers
//
// Any failure (timeout, transport, auth) must be returned as an error so
// the agent can recover locally; generator errors never propagate to the
// pipeline caller.
type Generator interface {
	// Generate produces an answer grounded in the given evidence.
	Generate(ctx context.Context, query string, evidence []domain.RetrievalResult) (string, error)

	// ModelName returns the model identifier for audit records.
	ModelName() string

	// Close releases resources.
	Close() error
}

// Reviewer checks a generated answer against its evidence.
// Review output is advisory: it is logged and audited but never alters
// the policy verdict or the decision state.
type Reviewer interface {
	// Review returns a free-text assessment of the answer's grounding.
	Review(ctx context.Context, query, answer string, evidence []domain.RetrievalResult) (string, error)

	// ModelName returns the model identifier for audit records.
	ModelName() string

	// Close releases resources.
	Close() error
}
