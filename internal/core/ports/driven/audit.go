package driven

import "github.com/STiFLeR7/nanocortex/internal/core/domain"

// AuditSink receives append-only audit events from every layer.
//
// Record is fire-and-forget from the caller's perspective: sinks must not
// block for more than a bounded local append, and callers log and swallow
// any error rather than failing the operation that emitted the event.
// The core never reads events back for its own behaviour; Events exists
// for trail inspection surfaces (CLI, tests).
type AuditSink interface {
	// Record appends one event to the trail.
	Record(event domain.AuditEvent) error

	// Events returns recorded events, optionally filtered.
	// A zero-value filter returns everything in emission order.
	Events(filter AuditFilter) []domain.AuditEvent

	// Close releases resources.
	Close() error
}

// AuditFilter narrows an Events query.
type AuditFilter struct {
	// DecisionID filters to events linked to one decision.
	DecisionID string

	// Layer filters to one emitting layer.
	Layer string
}
