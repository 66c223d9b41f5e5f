package domain

import (
	"strings"
	"time"
)

// AgentState is the lifecycle state of a decision.
type AgentState string

// Decision states. RUNNING is the entry state of every decide call;
// COMPLETED and FAILED are terminal.
const (
	StateRunning         AgentState = "running"
	StateWaitingApproval AgentState = "waiting_approval"
	StateCompleted       AgentState = "completed"
	StateFailed          AgentState = "failed"
)

// PendingMarker prefixes the answer of a decision awaiting human approval.
const PendingMarker = "[AWAITING APPROVAL] "

// DeniedAnswer is the fixed answer of a policy-denied decision.
const DeniedAnswer = "[DENIED] Policy violation: action not permitted."

// Decision is one audited, policy-checked outcome of the pipeline.
// A Decision is immutable once constructed; state transitions produce a new
// value carrying the same ID via the transition constructors below.
type Decision struct {
	// ID is the unique decision identifier.
	ID string

	// Query is the original question.
	Query string

	// Answer is the generated (or fallback) answer text.
	Answer string

	// Evidence is the retrieval result set the answer was grounded in.
	Evidence []RetrievalResult

	// PolicyEvaluations are the per-rule outcomes, in registration order.
	PolicyEvaluations []PolicyEvaluation

	// State is the lifecycle state.
	State AgentState

	// ModelUsed is the generator model identifier, when one was called.
	ModelUsed string

	// ReviewerModel is the reviewer model identifier, when one was called.
	ReviewerModel string

	// CreatedAt is when the decision was first constructed.
	CreatedAt time.Time
}

// AwaitingApproval returns a copy in WAITING_APPROVAL state with the
// pending marker prefixed to the answer.
func (d Decision) AwaitingApproval() Decision {
	next := d
	next.State = StateWaitingApproval
	next.Answer = PendingMarker + d.Answer
	return next
}

// Approved returns a copy in COMPLETED state with the pending marker stripped.
func (d Decision) Approved() Decision {
	next := d
	next.State = StateCompleted
	next.Answer = strings.TrimPrefix(d.Answer, PendingMarker)
	return next
}

// Rejected returns a copy in FAILED state annotated with the reason.
func (d Decision) Rejected(reason string) Decision {
	next := d
	next.State = StateFailed
	if reason == "" {
		next.Answer = "[REJECTED]"
	} else {
		next.Answer = "[REJECTED] " + reason
	}
	return next
}

// HumanOverride records a human replacing a decision's answer.
// Overrides are audit-only: they never mutate the stored Decision.
type HumanOverride struct {
	// ID is the unique override identifier.
	ID string

	// DecisionID is the decision being overridden.
	DecisionID string

	// OriginalAnswer is the answer before the override, when known.
	OriginalAnswer string

	// OverriddenAnswer is the replacement answer.
	OverriddenAnswer string

	// Reason explains the override.
	Reason string

	// OverriddenAt is when the override was recorded.
	OverriddenAt time.Time
}
