package domain

import "fmt"

// Strategy selects the retrieval scoring strategy.
type Strategy string

// Supported retrieval strategies.
const (
	StrategyBM25   Strategy = "bm25"
	StrategyVector Strategy = "vector"
	StrategyHybrid Strategy = "hybrid"
)

// ParseStrategy converts a string into a Strategy.
// Unknown values are an input error, surfaced immediately.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyBM25, StrategyVector, StrategyHybrid:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("%w: unknown strategy %q", ErrInvalidInput, s)
}

// Citation grounds a retrieval result in its source document.
// A result with zero citations is invalid.
type Citation struct {
	// DocID is the cited document.
	DocID string

	// Page is the cited page number.
	Page int

	// BBox is the cited region, when known.
	BBox *BoundingBox

	// ImageID is set when the citation refers to an image chunk.
	ImageID string

	// Snippet is a short excerpt of the cited text.
	Snippet string
}

// RetrievalResult is a single scored evidence hit.
// Scores are comparable across calls for the same query only; they are
// not globally normalised.
type RetrievalResult struct {
	// ChunkID identifies the matched chunk.
	ChunkID string

	// Text is the full chunk text.
	Text string

	// Score is the fused relevance score.
	Score float64

	// Citations ground the result in source documents.
	Citations []Citation

	// Modality is text or image.
	Modality Modality
}

// RetrievalResponse is the ordered result set for one query.
type RetrievalResponse struct {
	// Query is the original query text.
	Query string

	// Results are ordered by descending score.
	Results []RetrievalResult

	// Strategy is the strategy that produced the results.
	Strategy Strategy
}

// TopScore returns the score of the best result, or 0 when empty.
func (r RetrievalResponse) TopScore() float64 {
	if len(r.Results) == 0 {
		return 0
	}
	return r.Results[0].Score
}
