package driving

import "github.com/STiFLeR7/nanocortex/internal/core/domain"

// LearningService folds decision outcome feedback into adjustment records
// that future retrieval and policy behaviour can consume. It owns the
// feedback and adjustment sequences exclusively.
type LearningService interface {
	// RecordFeedback appends the record unconditionally and, for mistake
	// ratings, checks the adjustment thresholds.
	RecordFeedback(record domain.FeedbackRecord) domain.FeedbackRecord

	// EvaluateDecision auto-grades a decision against an expected answer
	// and records the resulting feedback. External callers may also submit
	// ratings directly via RecordFeedback.
	EvaluateDecision(decision domain.Decision, expected string) domain.FeedbackRecord

	// ComputeAccuracy summarises all recorded feedback.
	ComputeAccuracy() domain.AccuracyReport

	// FeedbackForDecision returns the feedback recorded for one decision.
	FeedbackForDecision(decisionID string) []domain.FeedbackRecord

	// Adjustments returns all emitted adjustments in emission order.
	Adjustments() []domain.LearningAdjustment

	// MistakePatterns returns the running per-rating mistake counters.
	MistakePatterns() map[domain.OutcomeRating]int

	// SaveState persists the full loop state (records and counters).
	SaveState() error

	// LoadState restores a previously saved snapshot. The boolean is false
	// when no snapshot exists. Restoring reproduces identical future
	// threshold behaviour.
	LoadState() (bool, error)
}
