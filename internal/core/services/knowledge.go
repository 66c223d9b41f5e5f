package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/STiFLeR7/nanocortex/internal/core/domain"
	"github.com/STiFLeR7/nanocortex/internal/core/ports/driven"
	"github.com/STiFLeR7/nanocortex/internal/core/ports/driving"
	"github.com/STiFLeR7/nanocortex/internal/logger"
)

// Ensure KnowledgeService implements the interface.
var _ driving.KnowledgeService = (*KnowledgeService)(nil)

// DefaultChunkBudget is the character budget for one text chunk.
const DefaultChunkBudget = 500

// BM25 parameters (classic term-frequency saturation).
const (
	bm25K1 = 1.5
	bm25B  = 0.75
)

// rrfK is the Reciprocal Rank Fusion constant. It keeps top ranks from
// dominating the fused score.
const rrfK = 60

// snippetLen caps citation snippets.
const snippetLen = 200

// scoredChunk pairs a chunk with an intermediate relevance score.
type scoredChunk struct {
	chunk domain.Chunk
	score float64
}

// KnowledgeService is the evidence store with hybrid retrieval.
// It exclusively owns the chunk collection; one RWMutex serialises the
// rare writes (indexing) against the read-mostly retrieval traffic.
//
// Scores are recomputed fully on every call. There is no persistent
// inverted index: the corpus is memory-resident and call volume is
// query-time, not ingestion-time. When a chunk store is configured the
// memory-resident corpus is loaded from it at construction and every
// indexed chunk is written through, so the corpus outlives the process.
type KnowledgeService struct {
	mu          sync.RWMutex
	chunks      []domain.Chunk
	chunkBudget int
	store       driven.ChunkStore
	audit       driven.AuditSink
}

// KnowledgeOption configures the knowledge service.
type KnowledgeOption func(*KnowledgeService)

// WithChunkBudget sets the per-chunk character budget.
func WithChunkBudget(budget int) KnowledgeOption {
	return func(s *KnowledgeService) {
		if budget > 0 {
			s.chunkBudget = budget
		}
	}
}

// WithChunkStore sets the durable chunk store. The stored corpus is
// loaded at construction; load failures leave the corpus empty and are
// logged rather than failing startup.
func WithChunkStore(store driven.ChunkStore) KnowledgeOption {
	return func(s *KnowledgeService) {
		s.store = store
	}
}

// NewKnowledgeService creates a knowledge service emitting audit events to
// the given sink. The sink is optional (can be nil).
func NewKnowledgeService(audit driven.AuditSink, opts ...KnowledgeOption) *KnowledgeService {
	s := &KnowledgeService{
		chunkBudget: DefaultChunkBudget,
		audit:       audit,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store != nil {
		chunks, err := s.store.AllChunks(context.Background())
		if err != nil {
			logger.Warn("Failed to load stored corpus: %v", err)
		} else {
			s.chunks = chunks
			logger.Debug("Loaded %d stored chunks", len(chunks))
		}
	}
	return s
}

// ChunkCount returns the number of indexed chunks.
func (s *KnowledgeService) ChunkCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// Index splits the document's text blocks into sentence-respecting chunks
// and appends one chunk per image with a non-empty description.
// Returns the number of chunks added; empty input yields 0 without error.
func (s *KnowledgeService) Index(ctx context.Context, doc domain.DocumentIngestion) (int, error) {
	var added []domain.Chunk
	for i, block := range doc.Texts {
		for _, segment := range splitText(block.Text, s.chunkBudget) {
			added = append(added, domain.Chunk{
				ID:       fmt.Sprintf("%s_t%d_%d", doc.DocID, i, len(added)),
				DocID:    doc.DocID,
				Text:     segment,
				Page:     block.SourcePage,
				BBox:     block.BBox,
				Modality: domain.ModalityText,
			})
		}
	}

	for _, img := range doc.Images {
		if img.Description == "" {
			continue
		}
		added = append(added, domain.Chunk{
			ID:       fmt.Sprintf("%s_img_%s", doc.DocID, img.ImageID),
			DocID:    doc.DocID,
			Text:     img.Description,
			Page:     img.Page,
			BBox:     img.BBox,
			ImageID:  img.ImageID,
			Modality: domain.ModalityImage,
		})
	}

	if s.store != nil && len(added) > 0 {
		if err := s.store.SaveChunks(ctx, added); err != nil {
			return 0, fmt.Errorf("persisting chunks: %w", err)
		}
	}

	s.mu.Lock()
	s.chunks = append(s.chunks, added...)
	s.mu.Unlock()

	logger.Debug("Indexed %q: %d chunks added", doc.Filename, len(added))
	s.emit(domain.NewAuditEvent(domain.LayerKnowledge, "document_indexed", map[string]any{
		"doc_id":       doc.DocID,
		"chunks_added": len(added),
	}))

	return len(added), nil
}

// Retrieve scores the corpus under the given strategy and returns the topK
// results, strictly-positive scores only, ties broken by insertion order.
func (s *KnowledgeService) Retrieve(
	_ context.Context, query string, topK int, strategy domain.Strategy,
) (domain.RetrievalResponse, error) {
	if topK <= 0 {
		topK = 5
	}

	s.mu.RLock()
	chunks := s.chunks
	s.mu.RUnlock()

	response := domain.RetrievalResponse{Query: query, Strategy: strategy}

	// Empty store: no scoring at all. Zero results is the explicit
	// anti-hallucination guarantee.
	if len(chunks) > 0 {
		var scored []scoredChunk
		switch strategy {
		case domain.StrategyBM25:
			scored = bm25Score(chunks, query)
		case domain.StrategyVector:
			scored = jaccardScore(chunks, query)
		case domain.StrategyHybrid:
			scored = rrfFuse(
				positiveOnly(bm25Score(chunks, query)),
				positiveOnly(jaccardScore(chunks, query)),
			)
		default:
			return response, fmt.Errorf("%w: unknown strategy %q", domain.ErrInvalidInput, strategy)
		}

		response.Results = toResults(sortDescending(positiveOnly(scored)), topK)
	}

	logger.Debug("Retrieve %q (%s): %d results", query, strategy, len(response.Results))
	s.emit(domain.NewAuditEvent(domain.LayerKnowledge, "retrieval", map[string]any{
		"query":         query,
		"strategy":      string(strategy),
		"results_count": len(response.Results),
		"top_score":     response.TopScore(),
	}))

	return response, nil
}

// emit sends an audit event; failures are logged and swallowed.
func (s *KnowledgeService) emit(event domain.AuditEvent) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(event); err != nil {
		logger.Warn("Audit write failed: %v", err)
	}
}

// --- Scoring strategies ---

// bm25Score scores every chunk against the query with BM25 (k1=1.5,
// b=0.75), using per-query-term document frequencies over the whole chunk
// set and length normalisation by average chunk length in terms.
func bm25Score(chunks []domain.Chunk, query string) []scoredChunk {
	queryTerms := strings.Fields(strings.ToLower(query))
	scored := make([]scoredChunk, len(chunks))
	for i, c := range chunks {
		scored[i] = scoredChunk{chunk: c}
	}
	if len(queryTerms) == 0 {
		return scored
	}

	n := len(chunks)
	docFreq := make(map[string]int, len(queryTerms))
	totalLen := 0
	for _, c := range chunks {
		terms := strings.Fields(strings.ToLower(c.Text))
		totalLen += len(terms)
		seen := make(map[string]bool, len(terms))
		for _, t := range terms {
			seen[t] = true
		}
		for _, q := range queryTerms {
			if seen[q] {
				docFreq[q]++
			}
		}
	}
	avgLen := float64(totalLen) / float64(n)

	for i, c := range chunks {
		chunkTerms := strings.Fields(strings.ToLower(c.Text))
		counts := make(map[string]int, len(chunkTerms))
		for _, t := range chunkTerms {
			counts[t]++
		}
		dl := float64(len(chunkTerms))

		score := 0.0
		for _, q := range queryTerms {
			tf := float64(counts[q])
			df := float64(docFreq[q])
			if tf == 0 || df == 0 {
				continue
			}
			idf := math.Log((float64(n)-df+0.5)/(df+0.5) + 1.0)
			score += idf * tf * (bm25K1 + 1) / (tf + bm25K1*(1-bm25B+bm25B*dl/avgLen))
		}
		scored[i].score = score
	}

	return scored
}

// jaccardScore is the vector-proxy strategy: token-set Jaccard similarity
// between query and chunk. An embedding engine can be substituted behind
// the same retrieval interface without changing callers.
func jaccardScore(chunks []domain.Chunk, query string) []scoredChunk {
	queryTerms := termSet(query)
	scored := make([]scoredChunk, len(chunks))

	for i, c := range chunks {
		scored[i] = scoredChunk{chunk: c}
		chunkTerms := termSet(c.Text)
		if len(queryTerms) == 0 || len(chunkTerms) == 0 {
			continue
		}

		intersection := 0
		for t := range queryTerms {
			if chunkTerms[t] {
				intersection++
			}
		}
		union := len(queryTerms) + len(chunkTerms) - intersection
		if union > 0 {
			scored[i].score = float64(intersection) / float64(union)
		}
	}

	return scored
}

// rrfFuse merges ranked lists with Reciprocal Rank Fusion: each chunk's
// fused score is the sum of 1/(rrfK+rank) over every list it appears in,
// ranks 1-based within that list's own descending-score order. Chunks
// absent from a list contribute nothing from it. Incomparable score
// scales therefore combine meaningfully.
func rrfFuse(lists ...[]scoredChunk) []scoredChunk {
	fused := make(map[string]float64)
	chunkByID := make(map[string]domain.Chunk)
	var order []string

	for _, list := range lists {
		ranked := sortDescending(list)
		for rank, sc := range ranked {
			id := sc.chunk.ID
			if _, seen := fused[id]; !seen {
				order = append(order, id)
				chunkByID[id] = sc.chunk
			}
			fused[id] += 1.0 / float64(rrfK+rank+1)
		}
	}

	result := make([]scoredChunk, 0, len(order))
	for _, id := range order {
		result = append(result, scoredChunk{chunk: chunkByID[id], score: fused[id]})
	}
	return result
}

// positiveOnly drops chunks without a strictly positive score, preserving
// order.
func positiveOnly(scored []scoredChunk) []scoredChunk {
	kept := make([]scoredChunk, 0, len(scored))
	for _, sc := range scored {
		if sc.score > 0 {
			kept = append(kept, sc)
		}
	}
	return kept
}

// sortDescending orders by score descending; the stable sort breaks ties
// by store insertion order.
func sortDescending(scored []scoredChunk) []scoredChunk {
	ranked := make([]scoredChunk, len(scored))
	copy(ranked, scored)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})
	return ranked
}

// toResults converts the top scored chunks into cited retrieval results.
func toResults(ranked []scoredChunk, topK int) []domain.RetrievalResult {
	if len(ranked) > topK {
		ranked = ranked[:topK]
	}

	results := make([]domain.RetrievalResult, 0, len(ranked))
	for _, sc := range ranked {
		snippet := truncateRunes(sc.chunk.Text, snippetLen)
		results = append(results, domain.RetrievalResult{
			ChunkID: sc.chunk.ID,
			Text:    sc.chunk.Text,
			Score:   math.Round(sc.score*10000) / 10000,
			Citations: []domain.Citation{{
				DocID:   sc.chunk.DocID,
				Page:    sc.chunk.Page,
				BBox:    sc.chunk.BBox,
				ImageID: sc.chunk.ImageID,
				Snippet: snippet,
			}},
			Modality: sc.chunk.Modality,
		})
	}
	return results
}

// truncateRunes caps text at n runes. Slicing by bytes could cut a
// multibyte character in half and emit invalid UTF-8.
func truncateRunes(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n])
}

// termSet lowercases and splits text into a set of whitespace-delimited
// terms.
func termSet(text string) map[string]bool {
	fields := strings.Fields(strings.ToLower(text))
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}

// splitText splits a text block into sentence-respecting segments capped
// at maxChars. Segments shorter than the budget are kept whole.
func splitText(text string, maxChars int) []string {
	if text == "" {
		return nil
	}
	if len(text) <= maxChars {
		return []string{text}
	}

	var segments []string
	current := ""
	for _, sentence := range strings.Split(strings.ReplaceAll(text, "\n", " "), ". ") {
		candidate := sentence
		if current != "" {
			candidate = strings.TrimSpace(current + ". " + sentence)
		}
		if len(candidate) > maxChars && current != "" {
			segments = append(segments, strings.TrimSpace(current))
			current = sentence
		} else {
			current = candidate
		}
	}
	if s := strings.TrimSpace(current); s != "" {
		segments = append(segments, s)
	}
	if len(segments) == 0 {
		return []string{text}
	}
	return segments
}
