// Package status provides the bottom status bar component.
package status

import (
	"fmt"

	"github.com/STiFLeR7/nanocortex/internal/adapters/driving/tui/styles"
)

// StatusBar renders a single status line with pending count and the
// most recent action message.
type StatusBar struct {
	styles  *styles.Styles
	pending int
	message string
	width   int
}

// NewStatusBar creates a new status bar component.
func NewStatusBar(s *styles.Styles) *StatusBar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &StatusBar{styles: s, width: 80}
}

// SetPending updates the pending decision count.
func (s *StatusBar) SetPending(n int) {
	s.pending = n
}

// SetMessage replaces the current action message.
func (s *StatusBar) SetMessage(msg string) {
	s.message = msg
}

// SetWidth updates the render width.
func (s *StatusBar) SetWidth(width int) {
	s.width = width
}

// View renders the status line.
func (s *StatusBar) View() string {
	line := fmt.Sprintf("%d pending", s.pending)
	if s.message != "" {
		line += "  |  " + s.message
	}
	return s.styles.StatusBar.Width(s.width).Render(line)
}
