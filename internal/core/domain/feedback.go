package domain

import (
	"fmt"
	"strings"
	"time"
)

// OutcomeRating grades a decision outcome.
type OutcomeRating string

// Outcome ratings. INCORRECT and HALLUCINATION count as mistakes for the
// learning loop's adjustment thresholds.
const (
	RatingCorrect          OutcomeRating = "correct"
	RatingPartiallyCorrect OutcomeRating = "partially_correct"
	RatingIncorrect        OutcomeRating = "incorrect"
	RatingHallucination    OutcomeRating = "hallucination"
)

// ParseRating converts a string into an OutcomeRating.
// Unknown values are an input error, surfaced immediately and never retried.
func ParseRating(s string) (OutcomeRating, error) {
	switch OutcomeRating(strings.ToLower(strings.TrimSpace(s))) {
	case RatingCorrect:
		return RatingCorrect, nil
	case RatingPartiallyCorrect:
		return RatingPartiallyCorrect, nil
	case RatingIncorrect:
		return RatingIncorrect, nil
	case RatingHallucination:
		return RatingHallucination, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRating, s)
}

// IsMistake reports whether the rating counts toward adjustment thresholds.
func (r OutcomeRating) IsMistake() bool {
	return r == RatingIncorrect || r == RatingHallucination
}

// FeedbackRecord is one outcome rating for a decision. Append-only.
type FeedbackRecord struct {
	// ID is the unique feedback identifier.
	ID string

	// DecisionID references the rated decision.
	DecisionID string

	// Rating is the outcome grade.
	Rating OutcomeRating

	// CorrectedAnswer is the expected answer, when supplied.
	CorrectedAnswer string

	// Explanation is free-text context for the rating.
	Explanation string

	// CreatedAt is when the feedback was recorded.
	CreatedAt time.Time
}

// AdjustmentType classifies a learning adjustment.
type AdjustmentType string

// Adjustment types produced by the learning loop.
const (
	AdjustmentRetrievalWeight AdjustmentType = "retrieval_weight"
	AdjustmentPromptPatch     AdjustmentType = "prompt_patch"
	AdjustmentPolicyRule      AdjustmentType = "policy_rule"
)

// LearningAdjustment is a behavioural correction emitted when mistake
// counts cross thresholds. Produced only by the learning loop.
type LearningAdjustment struct {
	// ID is the unique adjustment identifier.
	ID string

	// TriggerFeedbackID is the feedback that crossed the threshold.
	TriggerFeedbackID string

	// Type classifies the adjustment.
	Type AdjustmentType

	// Description explains the adjustment to humans.
	Description string

	// Parameters carries named numeric/string adjustment parameters.
	Parameters map[string]any

	// AppliedAt is when the adjustment was created.
	AppliedAt time.Time
}

// AccuracyReport summarises feedback outcomes.
type AccuracyReport struct {
	// Total is the number of feedback records.
	Total int

	// Accuracy is (correct + 0.5*partial) / total, rounded to 4 decimal
	// places. Zero total yields 0.0.
	Accuracy float64

	// Breakdown counts feedback per rating.
	Breakdown map[OutcomeRating]int
}
