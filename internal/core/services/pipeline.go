package services

import (
	"context"
	"fmt"

	"github.com/STiFLeR7/nanocortex/internal/core/domain"
	"github.com/STiFLeR7/nanocortex/internal/core/ports/driven"
	"github.com/STiFLeR7/nanocortex/internal/core/ports/driving"
	"github.com/STiFLeR7/nanocortex/internal/logger"
)

// Ensure PipelineService implements the interface.
var _ driving.PipelineService = (*PipelineService)(nil)

// DefaultTopK is the evidence result budget per query.
const DefaultTopK = 5

// PipelineService wires extraction, retrieval, decision-making and
// learning into the single caller-facing surface.
type PipelineService struct {
	extractors []driven.ContentExtractor
	knowledge  driving.KnowledgeService
	agent      driving.AgentService
	learning   driving.LearningService
	audit      driven.AuditSink
}

// NewPipelineService creates the pipeline. Extractors are tried in order;
// the first one that supports a path handles it.
func NewPipelineService(
	extractors []driven.ContentExtractor,
	knowledge driving.KnowledgeService,
	agent driving.AgentService,
	learning driving.LearningService,
	audit driven.AuditSink,
) *PipelineService {
	return &PipelineService{
		extractors: extractors,
		knowledge:  knowledge,
		agent:      agent,
		learning:   learning,
		audit:      audit,
	}
}

// InstallDefaultPolicies registers the baseline rules: unevidenced answers
// and low-confidence evidence both require human approval.
func InstallDefaultPolicies(policy driving.PolicyService) {
	policy.AddRule(domain.PolicyRule{
		Name:        "no_hallucination",
		Description: "Require approval for answers with no evidence backing",
		Condition:   domain.ParseCondition("no_evidence"),
		Verdict:     domain.VerdictNeedsApproval,
	})
	policy.AddRule(domain.PolicyRule{
		Name:        "low_confidence",
		Description: "Require approval when evidence score is low",
		Condition:   domain.ParseCondition("min_score:0.01"),
		Verdict:     domain.VerdictNeedsApproval,
	})
}

// Ingest extracts the file at path and indexes it for retrieval.
// A missing file is an input error, surfaced immediately.
func (s *PipelineService) Ingest(ctx context.Context, path string) (driving.IngestReport, error) {
	extractor := s.extractorFor(path)
	if extractor == nil {
		return driving.IngestReport{}, fmt.Errorf("%w: no extractor for %q", domain.ErrInvalidInput, path)
	}

	doc, err := extractor.Extract(ctx, path)
	if err != nil {
		return driving.IngestReport{}, fmt.Errorf("extract %s: %w", path, err)
	}

	added, err := s.knowledge.Index(ctx, doc)
	if err != nil {
		return driving.IngestReport{}, fmt.Errorf("index %s: %w", path, err)
	}

	return driving.IngestReport{
		DocID:         doc.DocID,
		Filename:      doc.Filename,
		Pages:         doc.Pages,
		TextBlocks:    len(doc.Texts),
		Images:        len(doc.Images),
		ChunksIndexed: added,
	}, nil
}

// Query runs retrieval and the decision pipeline for a question.
func (s *PipelineService) Query(
	ctx context.Context, question string, opts driving.QueryOptions,
) (domain.Decision, error) {
	if opts.TopK <= 0 {
		opts.TopK = DefaultTopK
	}
	if opts.Strategy == "" {
		opts.Strategy = domain.StrategyHybrid
	}

	evidence, err := s.knowledge.Retrieve(ctx, question, opts.TopK, opts.Strategy)
	if err != nil {
		return domain.Decision{}, fmt.Errorf("retrieve: %w", err)
	}

	decision, err := s.agent.Decide(ctx, question, evidence, opts.Context)
	if err != nil {
		return domain.Decision{}, fmt.Errorf("decide: %w", err)
	}
	logger.Info("Decision %s: state=%s", decision.ID, decision.State)
	return decision, nil
}

// Approve completes a pending decision.
func (s *PipelineService) Approve(decisionID string) (domain.Decision, bool) {
	return s.agent.Approve(decisionID)
}

// Reject fails a pending decision.
func (s *PipelineService) Reject(decisionID, reason string) (domain.Decision, bool) {
	return s.agent.Reject(decisionID, reason)
}

// Override records an audit-only human override.
func (s *PipelineService) Override(decisionID, newAnswer, reason string) domain.HumanOverride {
	return s.agent.Override(decisionID, newAnswer, reason)
}

// Pending returns decisions awaiting approval.
func (s *PipelineService) Pending() []domain.Decision {
	return s.agent.Pending()
}

// SubmitFeedback validates the rating and records the feedback.
func (s *PipelineService) SubmitFeedback(
	decisionID, rating, correctedAnswer, explanation string,
) (domain.FeedbackRecord, error) {
	parsed, err := domain.ParseRating(rating)
	if err != nil {
		return domain.FeedbackRecord{}, err
	}

	record := s.learning.RecordFeedback(domain.FeedbackRecord{
		DecisionID:      decisionID,
		Rating:          parsed,
		CorrectedAnswer: correctedAnswer,
		Explanation:     explanation,
	})
	return record, nil
}

// EvaluateDecision auto-grades a decision against an expected answer.
func (s *PipelineService) EvaluateDecision(decision domain.Decision, expected string) domain.FeedbackRecord {
	return s.learning.EvaluateDecision(decision, expected)
}

// Stats returns the learning loop's current metrics.
func (s *PipelineService) Stats() driving.LearningStats {
	accuracy := s.learning.ComputeAccuracy()
	adjustments := s.learning.Adjustments()
	return driving.LearningStats{
		Accuracy:        accuracy,
		FeedbackCount:   accuracy.Total,
		AdjustmentCount: len(adjustments),
		MistakePatterns: s.learning.MistakePatterns(),
		Adjustments:     adjustments,
	}
}

// AuditTrail returns audit events, optionally filtered to one decision.
func (s *PipelineService) AuditTrail(decisionID string) []domain.AuditEvent {
	if s.audit == nil {
		return nil
	}
	return s.audit.Events(driven.AuditFilter{DecisionID: decisionID})
}

// extractorFor returns the first extractor supporting the path.
func (s *PipelineService) extractorFor(path string) driven.ContentExtractor {
	for _, e := range s.extractors {
		if e.Supports(path) {
			return e
		}
	}
	return nil
}
