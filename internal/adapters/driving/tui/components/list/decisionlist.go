// Package list provides the pending decision list component.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/STiFLeR7/nanocortex/internal/adapters/driving/tui/styles"
	"github.com/STiFLeR7/nanocortex/internal/core/domain"
)

// DecisionList displays pending decisions in a navigable list.
type DecisionList struct {
	decisions []domain.Decision
	selected  int
	styles    *styles.Styles
	width     int
}

// NewDecisionList creates a new decision list component.
func NewDecisionList(s *styles.Styles) *DecisionList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &DecisionList{
		styles: s,
		width:  80,
	}
}

// Update handles list navigation messages.
func (l *DecisionList) Update(msg tea.Msg) (*DecisionList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			l.MoveUp()
		case "down", "j":
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the decision list.
func (l *DecisionList) View() string {
	if len(l.decisions) == 0 {
		return l.styles.Muted.Render("No decisions awaiting approval")
	}

	var b strings.Builder
	for i, decision := range l.decisions {
		line := fmt.Sprintf("%s  %s", decision.ID, truncate(decision.Query, l.width-40))
		if i == l.selected {
			b.WriteString(l.styles.Selected.Render("> " + line))
		} else {
			b.WriteString(l.styles.Normal.Render("  " + line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// SetDecisions replaces the list contents, clamping the selection.
func (l *DecisionList) SetDecisions(decisions []domain.Decision) {
	l.decisions = decisions
	if l.selected >= len(decisions) {
		l.selected = len(decisions) - 1
	}
	if l.selected < 0 {
		l.selected = 0
	}
}

// SetWidth updates the render width.
func (l *DecisionList) SetWidth(width int) {
	l.width = width
}

// Selected returns the highlighted decision, if any.
func (l *DecisionList) Selected() (domain.Decision, bool) {
	if len(l.decisions) == 0 {
		return domain.Decision{}, false
	}
	return l.decisions[l.selected], true
}

// Len returns the number of listed decisions.
func (l *DecisionList) Len() int {
	return len(l.decisions)
}

// MoveUp moves the selection up one entry.
func (l *DecisionList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves the selection down one entry.
func (l *DecisionList) MoveDown() {
	if l.selected < len(l.decisions)-1 {
		l.selected++
	}
}

func truncate(text string, n int) string {
	if n < 8 {
		n = 8
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
