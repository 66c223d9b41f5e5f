package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// Verdict is the outcome a policy rule applies when it matches.
type Verdict string

// Verdicts in priority order: DENY beats NEEDS_APPROVAL beats ALLOW.
const (
	VerdictAllow         Verdict = "allow"
	VerdictDeny          Verdict = "deny"
	VerdictNeedsApproval Verdict = "needs_approval"
)

// ParseVerdict converts a string into a Verdict.
func ParseVerdict(s string) (Verdict, error) {
	switch Verdict(strings.ToLower(strings.TrimSpace(s))) {
	case VerdictAllow:
		return VerdictAllow, nil
	case VerdictDeny:
		return VerdictDeny, nil
	case VerdictNeedsApproval:
		return VerdictNeedsApproval, nil
	}
	return "", ErrInvalidInput
}

// ConditionKind discriminates the parsed condition variants.
type ConditionKind string

// Condition variants. Unknown conditions never match.
const (
	ConditionNoEvidence    ConditionKind = "no_evidence"
	ConditionContains      ConditionKind = "contains"
	ConditionMinScore      ConditionKind = "min_score"
	ConditionContextEquals ConditionKind = "context"
	ConditionUnknown       ConditionKind = "unknown"
)

// Condition is a parsed policy rule condition.
// Conditions are parsed once at rule registration, not on every evaluation.
// Rules remain data: the string grammar is the authoring format.
type Condition struct {
	// Kind selects the variant.
	Kind ConditionKind

	// Pattern is the compiled query pattern for contains conditions.
	Pattern *regexp.Regexp

	// Threshold is the score threshold for min_score conditions.
	Threshold float64

	// Key and Value are the context pair for context conditions.
	Key   string
	Value string

	// Raw is the original condition string, kept for audit presentation.
	Raw string
}

// ParseCondition parses a condition string into its variant.
// Unrecognised or malformed input yields an Unknown condition, which never
// matches; parsing itself never fails.
//
// Grammar (exact-match prefix dispatch):
//   - "no_evidence"
//   - "contains:<regex>"       case-insensitive match against the query
//   - "min_score:<float>"      top evidence score strictly below threshold
//   - "context:<key>=<value>"  exact context value match
func ParseCondition(raw string) Condition {
	cond := strings.TrimSpace(raw)

	if cond == "no_evidence" {
		return Condition{Kind: ConditionNoEvidence, Raw: raw}
	}

	if pattern, ok := strings.CutPrefix(cond, "contains:"); ok {
		re, err := regexp.Compile("(?i)" + strings.TrimSpace(pattern))
		if err != nil {
			return Condition{Kind: ConditionUnknown, Raw: raw}
		}
		return Condition{Kind: ConditionContains, Pattern: re, Raw: raw}
	}

	if value, ok := strings.CutPrefix(cond, "min_score:"); ok {
		threshold, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return Condition{Kind: ConditionUnknown, Raw: raw}
		}
		return Condition{Kind: ConditionMinScore, Threshold: threshold, Raw: raw}
	}

	if kv, ok := strings.CutPrefix(cond, "context:"); ok {
		key, value, found := strings.Cut(kv, "=")
		if !found {
			return Condition{Kind: ConditionUnknown, Raw: raw}
		}
		return Condition{
			Kind:  ConditionContextEquals,
			Key:   strings.TrimSpace(key),
			Value: strings.TrimSpace(value),
			Raw:   raw,
		}
	}

	return Condition{Kind: ConditionUnknown, Raw: raw}
}

// Matches reports whether the condition holds for the given query,
// evidence and context.
func (c Condition) Matches(query string, evidence RetrievalResponse, context map[string]string) bool {
	switch c.Kind {
	case ConditionNoEvidence:
		return len(evidence.Results) == 0
	case ConditionContains:
		return c.Pattern.MatchString(query)
	case ConditionMinScore:
		return evidence.TopScore() < c.Threshold
	case ConditionContextEquals:
		return context[c.Key] == c.Value
	}
	return false
}

// PolicyRule is a declarative rule governing agent decisions.
// Rules are data: they can be added at runtime and loaded from files.
type PolicyRule struct {
	// ID is the unique rule identifier.
	ID string

	// Name is a short rule name. Names need not be unique.
	Name string

	// Description explains the rule's intent to humans.
	Description string

	// Condition is the parsed match condition.
	Condition Condition

	// Verdict is applied when the condition matches.
	Verdict Verdict
}

// PolicyEvaluation is the outcome of checking one rule.
// It is never mutated after construction.
type PolicyEvaluation struct {
	// Rule is the evaluated rule.
	Rule PolicyRule

	// Matched reports whether the rule's condition held.
	Matched bool

	// Verdict is the rule's verdict when matched, ALLOW otherwise.
	Verdict Verdict

	// Explanation is a human-readable account of the outcome.
	Explanation string
}
