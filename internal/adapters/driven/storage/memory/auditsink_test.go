package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/STiFLeR7/nanocortex/internal/core/domain"
	"github.com/STiFLeR7/nanocortex/internal/core/ports/driven"
)

func event(layer, eventType, decisionID string) domain.AuditEvent {
	e := domain.NewAuditEvent(layer, eventType, nil)
	e.DecisionID = decisionID
	return e
}

func TestAuditSink_RecordAndFilter(t *testing.T) {
	sink := NewAuditSink()

	require.NoError(t, sink.Record(event(domain.LayerKnowledge, "retrieval", "")))
	require.NoError(t, sink.Record(event(domain.LayerReasoning, "decision_completed", "d1")))
	require.NoError(t, sink.Record(event(domain.LayerReasoning, "decision_approved", "d1")))
	require.NoError(t, sink.Record(event(domain.LayerLearning, "feedback_recorded", "d2")))

	t.Run("zero filter returns everything in order", func(t *testing.T) {
		all := sink.Events(driven.AuditFilter{})
		require.Len(t, all, 4)
		assert.Equal(t, "retrieval", all[0].EventType)
		assert.Equal(t, "feedback_recorded", all[3].EventType)
	})

	t.Run("filter by decision", func(t *testing.T) {
		events := sink.Events(driven.AuditFilter{DecisionID: "d1"})
		require.Len(t, events, 2)
		assert.Equal(t, "decision_completed", events[0].EventType)
		assert.Equal(t, "decision_approved", events[1].EventType)
	})

	t.Run("filter by layer", func(t *testing.T) {
		events := sink.Events(driven.AuditFilter{Layer: domain.LayerLearning})
		require.Len(t, events, 1)
		assert.Equal(t, "d2", events[0].DecisionID)
	})

	t.Run("combined filter", func(t *testing.T) {
		events := sink.Events(driven.AuditFilter{Layer: domain.LayerReasoning, DecisionID: "d2"})
		assert.Empty(t, events)
	})
}

func TestAuditSink_TeeForwards(t *testing.T) {
	durable := NewAuditSink()
	sink := NewAuditSink().Tee(durable)

	require.NoError(t, sink.Record(event(domain.LayerSystem, "startup", "")))

	assert.Len(t, sink.Events(driven.AuditFilter{}), 1)
	assert.Len(t, durable.Events(driven.AuditFilter{}), 1)
}

func TestAuditSink_CloseWithoutNext(t *testing.T) {
	assert.NoError(t, NewAuditSink().Close())
}
