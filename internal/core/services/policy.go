package services

import (
	"fmt"
	"sync"

	"github.com/STiFLeR7/nanocortex/internal/core/domain"
	"github.com/STiFLeR7/nanocortex/internal/core/ports/driven"
	"github.com/STiFLeR7/nanocortex/internal/core/ports/driving"
	"github.com/STiFLeR7/nanocortex/internal/logger"
)

// Ensure PolicyService implements the interface.
var _ driving.PolicyService = (*PolicyService)(nil)

// PolicyService evaluates an ordered set of declarative rules.
// Conditions are parsed once when a rule is registered; evaluation never
// re-parses the condition string. One RWMutex serialises rule mutation
// against the read-mostly evaluation traffic.
type PolicyService struct {
	mu    sync.RWMutex
	rules []domain.PolicyRule
	audit driven.AuditSink
}

// NewPolicyService creates a policy service emitting audit events to the
// given sink. The sink is optional (can be nil).
func NewPolicyService(audit driven.AuditSink) *PolicyService {
	return &PolicyService{audit: audit}
}

// AddRule appends a rule. There is no uniqueness check on the name:
// duplicate names are permitted and evaluated independently.
func (s *PolicyService) AddRule(rule domain.PolicyRule) {
	if rule.ID == "" {
		rule.ID = domain.NewID()
	}
	if rule.Condition.Kind == domain.ConditionUnknown {
		logger.Warn("Policy rule %q has an unrecognised condition %q; it will never match",
			rule.Name, rule.Condition.Raw)
	}

	s.mu.Lock()
	s.rules = append(s.rules, rule)
	s.mu.Unlock()
}

// ReplaceRules swaps the entire rule set, preserving the given order.
func (s *PolicyService) ReplaceRules(rules []domain.PolicyRule) {
	replacement := make([]domain.PolicyRule, len(rules))
	copy(replacement, rules)
	for i := range replacement {
		if replacement[i].ID == "" {
			replacement[i].ID = domain.NewID()
		}
	}

	s.mu.Lock()
	s.rules = replacement
	s.mu.Unlock()

	logger.Info("Policy rules replaced: %d rules active", len(replacement))
}

// Rules returns the registered rules in registration order.
func (s *PolicyService) Rules() []domain.PolicyRule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rules := make([]domain.PolicyRule, len(s.rules))
	copy(rules, s.rules)
	return rules
}

// Evaluate checks every registered rule against the query, evidence and
// context, returning one evaluation per rule in registration order.
func (s *PolicyService) Evaluate(
	query string, evidence domain.RetrievalResponse, context map[string]string,
) []domain.PolicyEvaluation {
	rules := s.Rules()

	evaluations := make([]domain.PolicyEvaluation, 0, len(rules))
	matchedCount := 0
	for _, rule := range rules {
		matched := rule.Condition.Matches(query, evidence, context)
		verdict := domain.VerdictAllow
		outcome := "did not match"
		if matched {
			verdict = rule.Verdict
			outcome = "matched"
			matchedCount++
		}
		evaluations = append(evaluations, domain.PolicyEvaluation{
			Rule:        rule,
			Matched:     matched,
			Verdict:     verdict,
			Explanation: fmt.Sprintf("Rule %q %s", rule.Name, outcome),
		})
	}

	s.emit(domain.NewAuditEvent(domain.LayerReasoning, "policy_evaluation", map[string]any{
		"query":         query,
		"rules_checked": len(rules),
		"rules_matched": matchedCount,
	}))

	return evaluations
}

// CheckAllowed aggregates evaluations by verdict priority, independent of
// registration order: any matched DENY wins over everything, else any
// matched NEEDS_APPROVAL, else ALLOW. Unmatched rules contribute nothing
// regardless of their verdict field.
func (s *PolicyService) CheckAllowed(evaluations []domain.PolicyEvaluation) domain.Verdict {
	for _, ev := range evaluations {
		if ev.Matched && ev.Verdict == domain.VerdictDeny {
			return domain.VerdictDeny
		}
	}
	for _, ev := range evaluations {
		if ev.Matched && ev.Verdict == domain.VerdictNeedsApproval {
			return domain.VerdictNeedsApproval
		}
	}
	return domain.VerdictAllow
}

func (s *PolicyService) emit(event domain.AuditEvent) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(event); err != nil {
		logger.Warn("Audit write failed: %v", err)
	}
}
