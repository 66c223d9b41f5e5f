package services

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/STiFLeR7/nanocortex/internal/adapters/driven/storage/memory"
	"github.com/STiFLeR7/nanocortex/internal/core/domain"
	"github.com/STiFLeR7/nanocortex/internal/core/ports/driven"
)

func testDoc(docID string, texts []string, imageDescriptions ...string) domain.DocumentIngestion {
	doc := domain.DocumentIngestion{DocID: docID, Filename: docID + ".pdf"}
	for i, text := range texts {
		doc.Texts = append(doc.Texts, domain.ExtractedText{Text: text, SourcePage: i})
	}
	for i, desc := range imageDescriptions {
		doc.Images = append(doc.Images, domain.ExtractedImage{
			ImageID:     domain.NewID(),
			Page:        i,
			Description: desc,
		})
	}
	return doc
}

func TestKnowledgeService_Index_CountsBlocksAndImages(t *testing.T) {
	svc := NewKnowledgeService(nil)
	ctx := context.Background()

	// Three text blocks within the budget plus two images, one of which
	// has no description.
	doc := testDoc("doc-1",
		[]string{"alpha block", "bravo block", "charlie block"},
		"a diagram of the system", "")

	added, err := svc.Index(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, 4, added)
	assert.Equal(t, 4, svc.ChunkCount())
}

func TestKnowledgeService_Index_EmptyDocument(t *testing.T) {
	svc := NewKnowledgeService(nil)

	added, err := svc.Index(context.Background(), domain.DocumentIngestion{DocID: "empty"})
	require.NoError(t, err)
	assert.Zero(t, added)
	assert.Zero(t, svc.ChunkCount())
}

func TestKnowledgeService_Index_SplitsLongBlocks(t *testing.T) {
	svc := NewKnowledgeService(nil, WithChunkBudget(60))

	long := strings.Repeat("this sentence fills the block. ", 10)
	added, err := svc.Index(context.Background(), testDoc("doc-1", []string{long}))
	require.NoError(t, err)
	assert.Greater(t, added, 1)
}

func TestKnowledgeService_Retrieve_EmptyStore(t *testing.T) {
	svc := NewKnowledgeService(nil)
	ctx := context.Background()

	for _, strategy := range []domain.Strategy{domain.StrategyBM25, domain.StrategyVector, domain.StrategyHybrid} {
		for _, query := range []string{"anything", ""} {
			resp, err := svc.Retrieve(ctx, query, 5, strategy)
			require.NoError(t, err)
			assert.Empty(t, resp.Results, "strategy=%s query=%q", strategy, query)
		}
	}
}

func TestKnowledgeService_Retrieve_UnknownStrategy(t *testing.T) {
	svc := NewKnowledgeService(nil)
	_, err := svc.Index(context.Background(), testDoc("doc-1", []string{"content"}))
	require.NoError(t, err)

	_, err = svc.Retrieve(context.Background(), "content", 5, domain.Strategy("semantic"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestKnowledgeService_Retrieve_BM25UniqueTermWins(t *testing.T) {
	svc := NewKnowledgeService(nil)
	ctx := context.Background()

	_, err := svc.Index(ctx, testDoc("doc-1", []string{
		"the quick brown fox jumps",
		"a zebra grazes on the plain",
		"the lazy dog sleeps all day",
	}))
	require.NoError(t, err)

	resp, err := svc.Retrieve(ctx, "zebra", 10, domain.StrategyBM25)
	require.NoError(t, err)
	require.Len(t, resp.Results, 1, "only the chunk containing the term scores positive")
	assert.Contains(t, resp.Results[0].Text, "zebra")
}

func TestKnowledgeService_Retrieve_PositiveScoresOnly(t *testing.T) {
	svc := NewKnowledgeService(nil)
	ctx := context.Background()

	_, err := svc.Index(ctx, testDoc("doc-1", []string{"apples and oranges", "pure nonsense"}))
	require.NoError(t, err)

	resp, err := svc.Retrieve(ctx, "apples", 10, domain.StrategyVector)
	require.NoError(t, err)
	for _, r := range resp.Results {
		assert.Greater(t, r.Score, 0.0)
	}
}

func TestKnowledgeService_Retrieve_TruncatesToTopK(t *testing.T) {
	svc := NewKnowledgeService(nil)
	ctx := context.Background()

	_, err := svc.Index(ctx, testDoc("doc-1", []string{
		"shared term one", "shared term two", "shared term three", "shared term four",
	}))
	require.NoError(t, err)

	resp, err := svc.Retrieve(ctx, "shared term", 2, domain.StrategyVector)
	require.NoError(t, err)
	assert.Len(t, resp.Results, 2)
}

func TestKnowledgeService_Retrieve_ResultsAreCited(t *testing.T) {
	svc := NewKnowledgeService(nil)
	ctx := context.Background()

	doc := testDoc("doc-9", []string{"the moon orbits the earth"})
	_, err := svc.Index(ctx, doc)
	require.NoError(t, err)

	resp, err := svc.Retrieve(ctx, "moon", 5, domain.StrategyHybrid)
	require.NoError(t, err)
	require.NotEmpty(t, resp.Results)
	for _, r := range resp.Results {
		require.NotEmpty(t, r.Citations, "a result with zero citations is invalid")
		assert.Equal(t, "doc-9", r.Citations[0].DocID)
		assert.NotEmpty(t, r.Citations[0].Snippet)
	}
}

func TestKnowledgeService_Retrieve_ImageChunks(t *testing.T) {
	svc := NewKnowledgeService(nil)
	ctx := context.Background()

	_, err := svc.Index(ctx, testDoc("doc-1", nil, "wiring schematic for the pump"))
	require.NoError(t, err)

	resp, err := svc.Retrieve(ctx, "schematic pump", 5, domain.StrategyHybrid)
	require.NoError(t, err)
	require.NotEmpty(t, resp.Results)
	assert.Equal(t, domain.ModalityImage, resp.Results[0].Modality)
	assert.NotEmpty(t, resp.Results[0].Citations[0].ImageID)
}

func TestKnowledgeService_HybridFusionScores(t *testing.T) {
	// Two chunks sharing the query term: each appears in both the BM25
	// and the vector list, so its fused score is 1/(60+r1) + 1/(60+r2).
	svc := NewKnowledgeService(nil)
	ctx := context.Background()

	_, err := svc.Index(ctx, testDoc("doc-1", []string{
		"signal signal signal",
		"signal noise noise noise noise",
	}))
	require.NoError(t, err)

	resp, err := svc.Retrieve(ctx, "signal", 10, domain.StrategyHybrid)
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)

	// First chunk ranks first in both lists (higher tf, higher Jaccard).
	first := 1.0/float64(60+1) + 1.0/float64(60+1)
	second := 1.0/float64(60+2) + 1.0/float64(60+2)
	assert.InDelta(t, first, resp.Results[0].Score, 1e-4)
	assert.InDelta(t, second, resp.Results[1].Score, 1e-4)
}

func TestKnowledgeService_HybridSingleListContribution(t *testing.T) {
	lists := [][]scoredChunk{
		{
			{chunk: domain.Chunk{ID: "a"}, score: 2.0},
			{chunk: domain.Chunk{ID: "b"}, score: 1.0},
		},
		{
			{chunk: domain.Chunk{ID: "a"}, score: 0.9},
		},
	}

	fused := rrfFuse(lists...)
	byID := map[string]float64{}
	for _, sc := range fused {
		byID[sc.chunk.ID] = sc.score
	}

	assert.InDelta(t, 1.0/61+1.0/61, byID["a"], 1e-9)
	// Chunk b appears in only one list and gets only that term.
	assert.InDelta(t, 1.0/62, byID["b"], 1e-9)
}

func TestKnowledgeService_TieBreakByInsertionOrder(t *testing.T) {
	svc := NewKnowledgeService(nil)
	ctx := context.Background()

	// Identical chunks score identically; insertion order must hold.
	_, err := svc.Index(ctx, testDoc("doc-1", []string{"twin copy", "twin copy"}))
	require.NoError(t, err)

	resp, err := svc.Retrieve(ctx, "twin", 10, domain.StrategyBM25)
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "doc-1_t0_0", resp.Results[0].ChunkID)
	assert.Equal(t, "doc-1_t1_1", resp.Results[1].ChunkID)
}

func TestKnowledgeService_AuditEvents(t *testing.T) {
	sink := memory.NewAuditSink()
	svc := NewKnowledgeService(sink)
	ctx := context.Background()

	_, err := svc.Index(ctx, testDoc("doc-1", []string{"content here"}))
	require.NoError(t, err)
	_, err = svc.Retrieve(ctx, "content", 5, domain.StrategyHybrid)
	require.NoError(t, err)

	events := sink.Events(driven.AuditFilter{Layer: domain.LayerKnowledge})
	require.Len(t, events, 2)
	assert.Equal(t, "document_indexed", events[0].EventType)
	assert.Equal(t, "retrieval", events[1].EventType)
}

func TestSplitText(t *testing.T) {
	t.Run("short text kept whole", func(t *testing.T) {
		segments := splitText("short and sweet", 500)
		assert.Equal(t, []string{"short and sweet"}, segments)
	})

	t.Run("empty text yields nothing", func(t *testing.T) {
		assert.Empty(t, splitText("", 500))
	})

	t.Run("long text respects sentences and budget", func(t *testing.T) {
		long := strings.TrimSpace(strings.Repeat("a sentence of medium length goes here. ", 8))
		segments := splitText(long, 100)
		require.Greater(t, len(segments), 1)
		for _, seg := range segments {
			assert.LessOrEqual(t, len(seg), 100)
		}
	})
}

func TestKnowledgeService_CorpusSurvivesRestart(t *testing.T) {
	store := memory.NewChunkStore()
	ctx := context.Background()

	first := NewKnowledgeService(nil, WithChunkStore(store))
	added, err := first.Index(ctx, testDoc("doc-1",
		[]string{"the refund window is thirty days"}))
	require.NoError(t, err)
	require.Equal(t, 1, added)

	// A fresh service over the same store stands in for the next process.
	second := NewKnowledgeService(nil, WithChunkStore(store))
	assert.Equal(t, 1, second.ChunkCount())

	resp, err := second.Retrieve(ctx, "refund window", 5, domain.StrategyHybrid)
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Contains(t, resp.Results[0].Text, "refund window")
}

func TestKnowledgeService_RestoredTieBreakOrderIsStable(t *testing.T) {
	store := memory.NewChunkStore()
	ctx := context.Background()

	first := NewKnowledgeService(nil, WithChunkStore(store))
	_, err := first.Index(ctx, testDoc("doc-1", []string{"identical evidence marker"}))
	require.NoError(t, err)
	_, err = first.Index(ctx, testDoc("doc-2", []string{"identical evidence marker"}))
	require.NoError(t, err)

	second := NewKnowledgeService(nil, WithChunkStore(store))
	resp, err := second.Retrieve(ctx, "identical evidence marker", 5, domain.StrategyHybrid)
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "doc-1", resp.Results[0].Citations[0].DocID)
	assert.Equal(t, "doc-2", resp.Results[1].Citations[0].DocID)
}

func TestKnowledgeService_SnippetEndsOnRuneBoundary(t *testing.T) {
	svc := NewKnowledgeService(nil)
	ctx := context.Background()

	// 217 runes, 441 bytes: a byte-indexed cut at 200 would land inside
	// a two-byte character.
	text := strings.Repeat("é", 210) + " beacon"
	_, err := svc.Index(ctx, testDoc("doc-1", []string{text}))
	require.NoError(t, err)

	resp, err := svc.Retrieve(ctx, "beacon", 5, domain.StrategyHybrid)
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)

	snippet := resp.Results[0].Citations[0].Snippet
	assert.True(t, utf8.ValidString(snippet))
	assert.Equal(t, strings.Repeat("é", 200), snippet)
}
