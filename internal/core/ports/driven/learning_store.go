package driven

import "github.com/STiFLeR7/nanocortex/internal/core/domain"

// LearningState is the full serialisable state of the learning loop.
// Counters are part of the snapshot: restoring must reproduce identical
// adjustment-threshold behaviour, not just the record history.
type LearningState struct {
	Feedback      []domain.FeedbackRecord      `json:"feedback"`
	Adjustments   []domain.LearningAdjustment  `json:"adjustments"`
	MistakeCounts map[domain.OutcomeRating]int `json:"mistake_counts"`
}

// LearningStateStore persists learning loop state across process restarts.
type LearningStateStore interface {
	// Save writes the state snapshot, replacing any previous one.
	Save(state LearningState) error

	// Load reads the last saved snapshot.
	// The boolean is false when no snapshot exists.
	Load() (LearningState, bool, error)

	// Close releases resources.
	Close() error
}
