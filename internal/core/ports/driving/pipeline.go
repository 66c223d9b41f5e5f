package driving

import (
	"context"

	"github.com/STiFLeR7/nanocortex/internal/core/domain"
)

// IngestReport summarises one document ingestion.
type IngestReport struct {
	// DocID is the identifier assigned to the ingested document.
	DocID string

	// Filename is the source file's base name.
	Filename string

	// Pages is the page count of the source.
	Pages int

	// TextBlocks is the number of extracted text blocks.
	TextBlocks int

	// Images is the number of extracted image descriptors.
	Images int

	// ChunksIndexed is the number of chunks appended to the corpus.
	ChunksIndexed int
}

// QueryOptions configures one pipeline query.
type QueryOptions struct {
	// TopK is the maximum number of evidence results (default 5).
	TopK int

	// Strategy selects the retrieval strategy (default hybrid).
	Strategy domain.Strategy

	// Context is passed to policy evaluation for context: conditions.
	Context map[string]string
}

// LearningStats is the learning loop's current metrics surface.
type LearningStats struct {
	// Accuracy summarises all feedback.
	Accuracy domain.AccuracyReport

	// FeedbackCount is the number of feedback records.
	FeedbackCount int

	// AdjustmentCount is the number of emitted adjustments.
	AdjustmentCount int

	// MistakePatterns are the per-rating mistake counters.
	MistakePatterns map[domain.OutcomeRating]int

	// Adjustments are the emitted adjustments in emission order.
	Adjustments []domain.LearningAdjustment
}

// PipelineService is the top-level surface that wires extraction,
// retrieval, decision-making and learning together for callers.
type PipelineService interface {
	// Ingest extracts the file at path and indexes it for retrieval.
	Ingest(ctx context.Context, path string) (IngestReport, error)

	// Query runs retrieval and the decision pipeline for a question.
	Query(ctx context.Context, question string, opts QueryOptions) (domain.Decision, error)

	// Approve completes a pending decision.
	Approve(decisionID string) (domain.Decision, bool)

	// Reject fails a pending decision.
	Reject(decisionID, reason string) (domain.Decision, bool)

	// Override records an audit-only human override.
	Override(decisionID, newAnswer, reason string) domain.HumanOverride

	// Pending returns decisions awaiting approval.
	Pending() []domain.Decision

	// SubmitFeedback records an outcome rating for a decision.
	// The rating string is validated; unknown values are an input error.
	SubmitFeedback(decisionID, rating, correctedAnswer, explanation string) (domain.FeedbackRecord, error)

	// EvaluateDecision auto-grades a decision against an expected answer.
	EvaluateDecision(decision domain.Decision, expected string) domain.FeedbackRecord

	// Stats returns the learning loop's current metrics.
	Stats() LearningStats

	// AuditTrail returns audit events, optionally filtered to a decision.
	AuditTrail(decisionID string) []domain.AuditEvent
}
