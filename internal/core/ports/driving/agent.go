package driving

import (
	"context"

	"github.com/STiFLeR7/nanocortex/internal/core/domain"
)

// AgentService orchestrates one decision: policy check, answer generation,
// advisory review, and the approval state machine for decisions left
// pending.
type AgentService interface {
	// Decide runs the full decision pipeline for a query and its evidence.
	// Policy DENY short-circuits before any external call. Generation and
	// review failures resolve to a deterministic fallback answer, never to
	// an error.
	Decide(ctx context.Context, query string, evidence domain.RetrievalResponse, context map[string]string) (domain.Decision, error)

	// Approve completes a pending decision. The boolean is false when no
	// pending decision with that ID exists; agent state is then unchanged.
	Approve(decisionID string) (domain.Decision, bool)

	// Reject fails a pending decision with a reason. Same absent-result
	// contract as Approve.
	Reject(decisionID, reason string) (domain.Decision, bool)

	// Override records a human override. It is audit-only: it has no
	// pending-state precondition and mutates no stored decision.
	Override(decisionID, newAnswer, reason string) domain.HumanOverride

	// Pending returns the decisions currently awaiting approval.
	Pending() []domain.Decision
}
