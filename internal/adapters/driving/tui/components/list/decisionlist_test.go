package list

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/STiFLeR7/nanocortex/internal/core/domain"
)

func decisions(ids ...string) []domain.Decision {
	out := make([]domain.Decision, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.Decision{ID: id, Query: "question for " + id})
	}
	return out
}

func TestNewDecisionList_NilStyles(t *testing.T) {
	l := NewDecisionList(nil)
	require.NotNil(t, l)
	assert.Equal(t, 0, l.Len())
}

func TestDecisionList_EmptyView(t *testing.T) {
	l := NewDecisionList(nil)
	assert.Contains(t, l.View(), "No decisions awaiting approval")
}

func TestDecisionList_ViewListsEntries(t *testing.T) {
	l := NewDecisionList(nil)
	l.SetDecisions(decisions("d-1", "d-2"))

	view := l.View()
	assert.Contains(t, view, "d-1")
	assert.Contains(t, view, "d-2")
}

func TestDecisionList_Navigation(t *testing.T) {
	l := NewDecisionList(nil)
	l.SetDecisions(decisions("d-1", "d-2", "d-3"))

	selected, ok := l.Selected()
	require.True(t, ok)
	assert.Equal(t, "d-1", selected.ID)

	l.MoveDown()
	l.MoveDown()
	selected, _ = l.Selected()
	assert.Equal(t, "d-3", selected.ID)

	// Clamped at the bottom.
	l.MoveDown()
	selected, _ = l.Selected()
	assert.Equal(t, "d-3", selected.ID)

	l.MoveUp()
	selected, _ = l.Selected()
	assert.Equal(t, "d-2", selected.ID)
}

func TestDecisionList_UpdateHandlesKeys(t *testing.T) {
	l := NewDecisionList(nil)
	l.SetDecisions(decisions("d-1", "d-2"))

	l, _ = l.Update(tea.KeyMsg(tea.Key{Type: tea.KeyRunes, Runes: []rune("j")}))
	selected, _ := l.Selected()
	assert.Equal(t, "d-2", selected.ID)

	l, _ = l.Update(tea.KeyMsg(tea.Key{Type: tea.KeyRunes, Runes: []rune("k")}))
	selected, _ = l.Selected()
	assert.Equal(t, "d-1", selected.ID)
}

func TestDecisionList_SetDecisionsClampsSelection(t *testing.T) {
	l := NewDecisionList(nil)
	l.SetDecisions(decisions("d-1", "d-2", "d-3"))
	l.MoveDown()
	l.MoveDown()

	l.SetDecisions(decisions("d-1"))
	selected, ok := l.Selected()
	require.True(t, ok)
	assert.Equal(t, "d-1", selected.ID)

	l.SetDecisions(nil)
	_, ok = l.Selected()
	assert.False(t, ok)
}
