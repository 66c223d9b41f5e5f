package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/STiFLeR7/nanocortex/internal/core/domain"
	"github.com/STiFLeR7/nanocortex/internal/core/ports/driven"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, "nanocortex.db"), store.Path())
}

func TestStore_MigrationsAreIdempotent(t *testing.T) {
	dir := t.TempDir()

	first, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewStore(dir)
	require.NoError(t, err)
	assert.NoError(t, second.Close())
}

func TestAuditSink_RecordAndQuery(t *testing.T) {
	store := newTestStore(t)
	sink := store.AuditSink()

	event := domain.NewAuditEvent(domain.LayerReasoning, "decision_completed", map[string]any{
		"query": "what is the limit",
	})
	event.DecisionID = "d1"
	require.NoError(t, sink.Record(event))

	other := domain.NewAuditEvent(domain.LayerKnowledge, "retrieval", nil)
	require.NoError(t, sink.Record(other))

	t.Run("unfiltered returns emission order", func(t *testing.T) {
		events := sink.Events(driven.AuditFilter{})
		require.Len(t, events, 2)
		assert.Equal(t, "decision_completed", events[0].EventType)
		assert.Equal(t, "retrieval", events[1].EventType)
	})

	t.Run("filter by decision", func(t *testing.T) {
		events := sink.Events(driven.AuditFilter{DecisionID: "d1"})
		require.Len(t, events, 1)
		assert.Equal(t, "what is the limit", events[0].Payload["query"])
		assert.Equal(t, domain.ActorSystem, events[0].Actor)
	})

	t.Run("filter by layer", func(t *testing.T) {
		events := sink.Events(driven.AuditFilter{Layer: domain.LayerKnowledge})
		require.Len(t, events, 1)
		assert.Equal(t, "retrieval", events[0].EventType)
	})
}

func TestAuditSink_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.AuditSink().Record(
		domain.NewAuditEvent(domain.LayerSystem, "startup", nil)))
	require.NoError(t, store.Close())

	reopened, err := NewStore(dir)
	require.NoError(t, err)
	defer reopened.Close()

	events := reopened.AuditSink().Events(driven.AuditFilter{})
	require.Len(t, events, 1)
	assert.Equal(t, "startup", events[0].EventType)
}

func TestLearningStateStore_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	stateStore := store.LearningStateStore()

	_, ok, err := stateStore.Load()
	require.NoError(t, err)
	assert.False(t, ok)

	saved := driven.LearningState{
		Feedback: []domain.FeedbackRecord{
			{ID: "f1", DecisionID: "d1", Rating: domain.RatingHallucination},
		},
		Adjustments: []domain.LearningAdjustment{
			{ID: "a1", Type: domain.AdjustmentRetrievalWeight},
		},
		MistakeCounts: map[domain.OutcomeRating]int{domain.RatingHallucination: 1},
	}
	require.NoError(t, stateStore.Save(saved))

	loaded, ok, err := stateStore.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, saved.Feedback[0].ID, loaded.Feedback[0].ID)
	assert.Equal(t, saved.Adjustments[0].Type, loaded.Adjustments[0].Type)
	assert.Equal(t, 1, loaded.MistakeCounts[domain.RatingHallucination])
}

func TestLearningStateStore_SaveReplaces(t *testing.T) {
	store := newTestStore(t)
	stateStore := store.LearningStateStore()

	require.NoError(t, stateStore.Save(driven.LearningState{
		Feedback: []domain.FeedbackRecord{{ID: "f1"}},
	}))
	require.NoError(t, stateStore.Save(driven.LearningState{
		Feedback: []domain.FeedbackRecord{{ID: "f1"}, {ID: "f2"}},
	}))

	loaded, ok, err := stateStore.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, loaded.Feedback, 2)
}
