package services

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/STiFLeR7/nanocortex/internal/core/domain"
	"github.com/STiFLeR7/nanocortex/internal/core/ports/driven"
	"github.com/STiFLeR7/nanocortex/internal/core/ports/driving"
	"github.com/STiFLeR7/nanocortex/internal/logger"
)

// Ensure LearningService implements the interface.
var _ driving.LearningService = (*LearningService)(nil)

// Adjustment thresholds on cumulative mistake counts. Multiples beyond
// the first trigger re-trigger independently (the 6th hallucination emits
// a second retrieval_weight adjustment).
const (
	hallucinationThreshold = 3
	incorrectThreshold     = 5
)

// LearningService records outcome feedback and emits adjustments when
// mistake counts cross thresholds. It exclusively owns the feedback and
// adjustment sequences and the per-rating mistake counters, all guarded
// by one mutex.
type LearningService struct {
	mu            sync.Mutex
	feedback      []domain.FeedbackRecord
	adjustments   []domain.LearningAdjustment
	mistakeCounts map[domain.OutcomeRating]int

	audit driven.AuditSink
	store driven.LearningStateStore
}

// NewLearningService creates a learning service. The audit sink and the
// state store are both optional (can be nil); without a store, SaveState
// and LoadState are no-ops.
func NewLearningService(audit driven.AuditSink, store driven.LearningStateStore) *LearningService {
	return &LearningService{
		mistakeCounts: make(map[domain.OutcomeRating]int),
		audit:         audit,
		store:         store,
	}
}

// RecordFeedback appends the record unconditionally, bumps the mistake
// counter for INCORRECT/HALLUCINATION ratings, then checks the adjustment
// thresholds.
func (s *LearningService) RecordFeedback(record domain.FeedbackRecord) domain.FeedbackRecord {
	if record.ID == "" {
		record.ID = domain.NewID()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	s.feedback = append(s.feedback, record)
	if record.Rating.IsMistake() {
		s.mistakeCounts[record.Rating]++
	}
	adjustments := s.checkThresholds(record)
	s.mu.Unlock()

	event := domain.NewAuditEvent(domain.LayerLearning, "feedback_recorded", map[string]any{
		"decision_id":    record.DecisionID,
		"rating":         string(record.Rating),
		"has_correction": record.CorrectedAnswer != "",
	})
	event.DecisionID = record.DecisionID
	s.emit(event)

	for _, adj := range adjustments {
		s.emit(domain.NewAuditEvent(domain.LayerLearning, "adjustment_created", map[string]any{
			"adjustment_id": adj.ID,
			"type":          string(adj.Type),
			"description":   adj.Description,
		}))
	}

	return record
}

// checkThresholds emits adjustments for thresholds crossed by this
// record. Caller holds the mutex.
func (s *LearningService) checkThresholds(trigger domain.FeedbackRecord) []domain.LearningAdjustment {
	var created []domain.LearningAdjustment

	hallucinations := s.mistakeCounts[domain.RatingHallucination]
	if trigger.Rating == domain.RatingHallucination && hallucinations%hallucinationThreshold == 0 {
		adj := domain.LearningAdjustment{
			ID:                domain.NewID(),
			TriggerFeedbackID: trigger.ID,
			Type:              domain.AdjustmentRetrievalWeight,
			Description: fmt.Sprintf(
				"Increasing retrieval confidence threshold after %d hallucinations detected",
				hallucinations),
			Parameters: map[string]any{
				"min_score_threshold": 0.1 * float64(hallucinations/hallucinationThreshold),
			},
			AppliedAt: time.Now().UTC(),
		}
		s.adjustments = append(s.adjustments, adj)
		created = append(created, adj)
		logger.Info("Learning adjustment: %s", adj.Description)
	}

	incorrect := s.mistakeCounts[domain.RatingIncorrect]
	if trigger.Rating == domain.RatingIncorrect && incorrect%incorrectThreshold == 0 {
		adj := domain.LearningAdjustment{
			ID:                domain.NewID(),
			TriggerFeedbackID: trigger.ID,
			Type:              domain.AdjustmentPromptPatch,
			Description: fmt.Sprintf(
				"Suggesting stricter evidence grounding after %d incorrect answers",
				incorrect),
			Parameters: map[string]any{"patch": "require_exact_citation"},
			AppliedAt:  time.Now().UTC(),
		}
		s.adjustments = append(s.adjustments, adj)
		created = append(created, adj)
		logger.Info("Learning adjustment: %s", adj.Description)
	}

	return created
}

// EvaluateDecision auto-grades a decision against an expected answer:
// exact case-insensitive match is CORRECT, a substring match in either
// direction is PARTIALLY_CORRECT, an empty evidence set is HALLUCINATION,
// anything else is INCORRECT.
func (s *LearningService) EvaluateDecision(decision domain.Decision, expected string) domain.FeedbackRecord {
	answer := strings.ToLower(strings.TrimSpace(decision.Answer))
	want := strings.ToLower(strings.TrimSpace(expected))

	var rating domain.OutcomeRating
	switch {
	case answer == want:
		rating = domain.RatingCorrect
	case strings.Contains(answer, want) || strings.Contains(want, answer):
		rating = domain.RatingPartiallyCorrect
	case len(decision.Evidence) == 0:
		rating = domain.RatingHallucination
	default:
		rating = domain.RatingIncorrect
	}

	corrected := expected
	if rating == domain.RatingCorrect {
		corrected = ""
	}

	return s.RecordFeedback(domain.FeedbackRecord{
		DecisionID:      decision.ID,
		Rating:          rating,
		CorrectedAnswer: corrected,
		Explanation:     fmt.Sprintf("Automated evaluation: %s", rating),
	})
}

// ComputeAccuracy summarises all feedback. A zero total yields accuracy
// 0.0, not a division error.
func (s *LearningService) ComputeAccuracy() domain.AccuracyReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := domain.AccuracyReport{
		Total:     len(s.feedback),
		Breakdown: make(map[domain.OutcomeRating]int),
	}
	if report.Total == 0 {
		return report
	}

	for _, f := range s.feedback {
		report.Breakdown[f.Rating]++
	}
	correct := float64(report.Breakdown[domain.RatingCorrect])
	partial := float64(report.Breakdown[domain.RatingPartiallyCorrect])
	report.Accuracy = math.Round((correct+0.5*partial)/float64(report.Total)*10000) / 10000

	return report
}

// FeedbackForDecision returns the feedback recorded for one decision.
func (s *LearningService) FeedbackForDecision(decisionID string) []domain.FeedbackRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	var records []domain.FeedbackRecord
	for _, f := range s.feedback {
		if f.DecisionID == decisionID {
			records = append(records, f)
		}
	}
	return records
}

// Adjustments returns all emitted adjustments in emission order.
func (s *LearningService) Adjustments() []domain.LearningAdjustment {
	s.mu.Lock()
	defer s.mu.Unlock()
	adjustments := make([]domain.LearningAdjustment, len(s.adjustments))
	copy(adjustments, s.adjustments)
	return adjustments
}

// MistakePatterns returns a copy of the running mistake counters.
func (s *LearningService) MistakePatterns() map[domain.OutcomeRating]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	patterns := make(map[domain.OutcomeRating]int, len(s.mistakeCounts))
	for rating, count := range s.mistakeCounts {
		patterns[rating] = count
	}
	return patterns
}

// SaveState persists the full loop state: records, adjustments AND
// counters, so a restore reproduces identical threshold behaviour.
func (s *LearningService) SaveState() error {
	if s.store == nil {
		return nil
	}

	s.mu.Lock()
	state := driven.LearningState{
		Feedback:      append([]domain.FeedbackRecord(nil), s.feedback...),
		Adjustments:   append([]domain.LearningAdjustment(nil), s.adjustments...),
		MistakeCounts: make(map[domain.OutcomeRating]int, len(s.mistakeCounts)),
	}
	for rating, count := range s.mistakeCounts {
		state.MistakeCounts[rating] = count
	}
	s.mu.Unlock()

	return s.store.Save(state)
}

// LoadState restores a previously saved snapshot, replacing the current
// in-memory state verbatim. Returns false when no snapshot exists.
func (s *LearningService) LoadState() (bool, error) {
	if s.store == nil {
		return false, nil
	}

	state, ok, err := s.store.Load()
	if err != nil || !ok {
		return ok, err
	}

	s.mu.Lock()
	s.feedback = state.Feedback
	s.adjustments = state.Adjustments
	s.mistakeCounts = state.MistakeCounts
	if s.mistakeCounts == nil {
		s.mistakeCounts = make(map[domain.OutcomeRating]int)
	}
	s.mu.Unlock()

	return true, nil
}

func (s *LearningService) emit(event domain.AuditEvent) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(event); err != nil {
		logger.Warn("Audit write failed: %v", err)
	}
}
