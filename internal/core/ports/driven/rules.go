package driven

import (
	"context"

	"github.com/STiFLeR7/nanocortex/internal/core/domain"
)

// RuleSource loads externally-authored policy rules.
// Rules are data, not code: they are authored in configuration files and
// registered with the policy evaluator at runtime.
type RuleSource interface {
	// Load returns the currently authored rules in file order.
	Load() ([]domain.PolicyRule, error)

	// Watch invokes onChange with the freshly loaded rule set whenever the
	// underlying source changes, until ctx is cancelled. Implementations
	// that cannot watch may return domain.ErrNotFound immediately.
	Watch(ctx context.Context, onChange func([]domain.PolicyRule)) error
}
