package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/STiFLeR7/nanocortex/internal/core/domain"
)

func TestChunkStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	chunks := store.ChunkStore()
	ctx := context.Background()

	saved := []domain.Chunk{
		{
			ID:       "doc-1_t0_0",
			DocID:    "doc-1",
			Text:     "the refund window is 30 days",
			Page:     2,
			BBox:     &domain.BoundingBox{X: 10, Y: 20, Width: 100, Height: 12, Page: 2},
			Modality: domain.ModalityText,
		},
		{
			ID:       "doc-1_img_i1",
			DocID:    "doc-1",
			Text:     "a flowchart of the refund process",
			ImageID:  "i1",
			Modality: domain.ModalityImage,
		},
	}
	require.NoError(t, chunks.SaveChunks(ctx, saved))

	loaded, err := chunks.AllChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}

func TestChunkStore_PreservesInsertionOrder(t *testing.T) {
	store := newTestStore(t)
	chunks := store.ChunkStore()
	ctx := context.Background()

	require.NoError(t, chunks.SaveChunks(ctx, []domain.Chunk{
		{ID: "c1", DocID: "d", Text: "first", Modality: domain.ModalityText},
	}))
	require.NoError(t, chunks.SaveChunks(ctx, []domain.Chunk{
		{ID: "c2", DocID: "d", Text: "second", Modality: domain.ModalityText},
		{ID: "c3", DocID: "d", Text: "third", Modality: domain.ModalityText},
	}))

	loaded, err := chunks.AllChunks(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 3)
	assert.Equal(t, "c1", loaded[0].ID)
	assert.Equal(t, "c2", loaded[1].ID)
	assert.Equal(t, "c3", loaded[2].ID)
}

func TestChunkStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.ChunkStore().SaveChunks(ctx, []domain.Chunk{
		{ID: "c1", DocID: "d", Text: "durable evidence", Modality: domain.ModalityText},
	}))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, err := reopened.ChunkStore().AllChunks(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "durable evidence", loaded[0].Text)
}

func TestPendingDecisionStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	pending := store.PendingDecisionStore()

	decision := domain.Decision{
		ID:     "dec-1",
		Query:  "can we refund order 42",
		Answer: domain.PendingMarker + "Based on available evidence: yes",
		Evidence: []domain.RetrievalResult{{
			ChunkID: "c1",
			Text:    "the refund window is 30 days",
			Score:   0.0328,
			Citations: []domain.Citation{{
				DocID: "doc-1", Page: 2, Snippet: "the refund window is 30 days",
			}},
			Modality: domain.ModalityText,
		}},
		PolicyEvaluations: []domain.PolicyEvaluation{{
			Rule: domain.PolicyRule{
				ID:          "r1",
				Name:        "low_confidence",
				Description: "park weakly-grounded answers",
				Condition:   domain.ParseCondition("min_score:0.01"),
				Verdict:     domain.VerdictNeedsApproval,
			},
			Matched:     true,
			Verdict:     domain.VerdictNeedsApproval,
			Explanation: "top score below threshold",
		}},
		State:     domain.StateWaitingApproval,
		CreatedAt: time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, pending.SavePending(decision))

	listed, err := pending.ListPending()
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, decision, listed[0])
}

func TestPendingDecisionStore_RecompilesConditionPatterns(t *testing.T) {
	store := newTestStore(t)
	pending := store.PendingDecisionStore()

	require.NoError(t, pending.SavePending(domain.Decision{
		ID:    "dec-1",
		State: domain.StateWaitingApproval,
		PolicyEvaluations: []domain.PolicyEvaluation{{
			Rule: domain.PolicyRule{
				ID:        "r1",
				Name:      "sensitive_topic",
				Condition: domain.ParseCondition("contains:refund|chargeback"),
				Verdict:   domain.VerdictNeedsApproval,
			},
			Matched: true,
			Verdict: domain.VerdictNeedsApproval,
		}},
	}))

	listed, err := pending.ListPending()
	require.NoError(t, err)
	require.Len(t, listed, 1)

	cond := listed[0].PolicyEvaluations[0].Rule.Condition
	assert.Equal(t, domain.ConditionContains, cond.Kind)
	require.NotNil(t, cond.Pattern)
	assert.True(t, cond.Pattern.MatchString("Refund order 42"))
}

func TestPendingDecisionStore_DeleteClearsSlot(t *testing.T) {
	store := newTestStore(t)
	pending := store.PendingDecisionStore()

	require.NoError(t, pending.SavePending(domain.Decision{
		ID: "dec-1", Query: "q", State: domain.StateWaitingApproval,
	}))
	require.NoError(t, pending.DeletePending("dec-1"))

	listed, err := pending.ListPending()
	require.NoError(t, err)
	assert.Empty(t, listed)

	// Unknown IDs are a no-op.
	assert.NoError(t, pending.DeletePending("dec-unknown"))
}

func TestPendingDecisionStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.PendingDecisionStore().SavePending(domain.Decision{
		ID:        "dec-1",
		Query:     "needs a second pair of eyes",
		State:     domain.StateWaitingApproval,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	listed, err := reopened.PendingDecisionStore().ListPending()
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "dec-1", listed[0].ID)
	assert.Equal(t, domain.StateWaitingApproval, listed[0].State)
}

func TestPendingDecisionStore_ListsOldestFirst(t *testing.T) {
	store := newTestStore(t)
	pending := store.PendingDecisionStore()

	base := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	require.NoError(t, pending.SavePending(domain.Decision{
		ID: "dec-2", State: domain.StateWaitingApproval, CreatedAt: base.Add(time.Minute),
	}))
	require.NoError(t, pending.SavePending(domain.Decision{
		ID: "dec-1", State: domain.StateWaitingApproval, CreatedAt: base,
	}))

	listed, err := pending.ListPending()
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "dec-1", listed[0].ID)
	assert.Equal(t, "dec-2", listed[1].ID)
}
