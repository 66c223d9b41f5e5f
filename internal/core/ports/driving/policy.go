package driving

import "github.com/STiFLeR7/nanocortex/internal/core/domain"

// PolicyService evaluates declarative rules against a query, its evidence
// and a caller-supplied context.
type PolicyService interface {
	// AddRule appends a rule. Duplicate names are permitted and evaluated
	// independently.
	AddRule(rule domain.PolicyRule)

	// ReplaceRules swaps the whole rule set, preserving the given order.
	// Used by external rule sources on reload.
	ReplaceRules(rules []domain.PolicyRule)

	// Rules returns the registered rules in registration order.
	Rules() []domain.PolicyRule

	// Evaluate checks every rule, in registration order, and returns one
	// evaluation per rule.
	Evaluate(query string, evidence domain.RetrievalResponse, context map[string]string) []domain.PolicyEvaluation

	// CheckAllowed aggregates evaluations into a single verdict by
	// priority: any matched DENY wins, else any matched NEEDS_APPROVAL,
	// else ALLOW. Registration order plays no part in aggregation.
	CheckAllowed(evaluations []domain.PolicyEvaluation) domain.Verdict
}
