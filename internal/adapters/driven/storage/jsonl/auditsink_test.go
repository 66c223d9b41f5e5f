package jsonl

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/STiFLeR7/nanocortex/internal/adapters/driven/storage/memory"
	"github.com/STiFLeR7/nanocortex/internal/core/domain"
	"github.com/STiFLeR7/nanocortex/internal/core/ports/driven"
)

func newTestSink(t *testing.T) (*AuditSink, string) {
	t.Helper()
	dir := t.TempDir()
	sink, err := NewAuditSink(dir)
	require.NoError(t, err)
	return sink, dir
}

func event(layer, eventType, decisionID string) domain.AuditEvent {
	e := domain.NewAuditEvent(layer, eventType, map[string]any{"k": "v"})
	e.DecisionID = decisionID
	return e
}

func TestAuditSink_WritesDailyFile(t *testing.T) {
	sink, dir := newTestSink(t)

	require.NoError(t, sink.Record(event(domain.LayerKnowledge, "document_indexed", "")))

	name := "audit-" + time.Now().UTC().Format("2006-01-02") + ".jsonl"
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)

	line := strings.TrimSpace(string(data))
	assert.Contains(t, line, `"document_indexed"`)
	assert.False(t, strings.Contains(line, "\n"), "one event per line")
}

func TestAuditSink_EventsRoundTrip(t *testing.T) {
	sink, _ := newTestSink(t)

	require.NoError(t, sink.Record(event(domain.LayerKnowledge, "document_indexed", "")))
	require.NoError(t, sink.Record(event(domain.LayerReasoning, "decision_completed", "d-1")))
	require.NoError(t, sink.Record(event(domain.LayerReasoning, "decision_completed", "d-2")))

	all := sink.Events(driven.AuditFilter{})
	require.Len(t, all, 3)
	assert.Equal(t, "document_indexed", all[0].EventType)
	assert.Equal(t, "v", all[0].Payload["k"])

	byDecision := sink.Events(driven.AuditFilter{DecisionID: "d-2"})
	require.Len(t, byDecision, 1)
	assert.Equal(t, "d-2", byDecision[0].DecisionID)

	byLayer := sink.Events(driven.AuditFilter{Layer: domain.LayerKnowledge})
	require.Len(t, byLayer, 1)
}

func TestAuditSink_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewAuditSink(dir)
	require.NoError(t, err)
	require.NoError(t, sink.Record(event(domain.LayerSystem, "startup", "")))
	require.NoError(t, sink.Close())

	reopened, err := NewAuditSink(dir)
	require.NoError(t, err)
	assert.Len(t, reopened.Events(driven.AuditFilter{}), 1)
}

func TestAuditSink_SkipsCorruptLines(t *testing.T) {
	sink, dir := newTestSink(t)
	require.NoError(t, sink.Record(event(domain.LayerSystem, "startup", "")))

	name := "audit-" + time.Now().UTC().Format("2006-01-02") + ".jsonl"
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_WRONLY|os.O_APPEND, 0600)
	require.NoError(t, err)
	_, err = f.WriteString("not json\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	assert.Len(t, sink.Events(driven.AuditFilter{}), 1)
}

func TestAuditSink_TeeForwards(t *testing.T) {
	sink, _ := newTestSink(t)
	next := memory.NewAuditSink()
	sink.Tee(next)

	require.NoError(t, sink.Record(event(domain.LayerSystem, "startup", "")))

	assert.Len(t, next.Events(driven.AuditFilter{}), 1)
}
