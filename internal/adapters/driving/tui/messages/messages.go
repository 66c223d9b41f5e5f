// Package messages defines Bubbletea message types for the review TUI.
// Messages represent events that flow through the Elm architecture.
package messages

import (
	"github.com/STiFLeR7/nanocortex/internal/core/domain"
)

// PendingLoaded carries the pending decision list back to the model.
type PendingLoaded struct {
	Decisions []domain.Decision
}

// DecisionResolved is sent after an approve or reject completes.
type DecisionResolved struct {
	Decision domain.Decision
	Approved bool

	// Found is false when the decision was no longer pending.
	Found bool
}

// TrailLoaded carries a decision's audit events for the detail view.
type TrailLoaded struct {
	DecisionID string
	Events     []domain.AuditEvent
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewList is the pending decision list.
	ViewList ViewType = iota
	// ViewDetail shows one decision's evidence and policy outcomes.
	ViewDetail
	// ViewHelp is the keybindings view.
	ViewHelp
)
