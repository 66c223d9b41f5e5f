package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/STiFLeR7/nanocortex/internal/core/domain"
	"github.com/STiFLeR7/nanocortex/internal/core/ports/driven"
	"github.com/STiFLeR7/nanocortex/internal/core/ports/driving"
	"github.com/STiFLeR7/nanocortex/internal/logger"
)

// Ensure AgentService implements the interface.
var _ driving.AgentService = (*AgentService)(nil)

// DefaultCallTimeout bounds each external generation/review call.
const DefaultCallTimeout = 60 * time.Second

// DefaultMaxPending is the number of decisions that may await approval at
// once. The single-slot behaviour is a policy choice, not an architectural
// limit.
const DefaultMaxPending = 1

// GenerationOutcome is the explicit result of the answer-generation step.
// When the external generator is unavailable or fails, the agent resolves
// to a deterministic evidence-only answer and records the cause here, so
// the fallback path is observable without network fault injection.
type GenerationOutcome struct {
	// Answer is the generated or fallback answer text.
	Answer string

	// Fallback reports whether Answer came from the deterministic path.
	Fallback bool

	// Cause is the error that forced the fallback, when there was one.
	Cause error
}

// AgentService orchestrates policy-checked, audited decisions.
// The pending-decision map is the service's only mutable state, guarded by
// one mutex; Decision values themselves are immutable and every state
// transition constructs a new value with the same identifier.
//
// When a pending store is configured the map is restored from it at
// construction and written through on every park and resolution, so a
// decision parked in one process can be approved in the next.
type AgentService struct {
	policy   driving.PolicyService
	audit    driven.AuditSink
	generate driven.Generator
	review   driven.Reviewer
	store    driven.PendingDecisionStore

	humanInLoop bool
	callTimeout time.Duration
	maxPending  int

	mu      sync.Mutex
	pending map[string]domain.Decision
}

// AgentOption configures the agent service.
type AgentOption func(*AgentService)

// WithGenerator sets the external answer generator (optional).
func WithGenerator(g driven.Generator) AgentOption {
	return func(s *AgentService) { s.generate = g }
}

// WithReviewer sets the external answer reviewer (optional).
func WithReviewer(r driven.Reviewer) AgentOption {
	return func(s *AgentService) { s.review = r }
}

// WithHumanInLoop enables or disables the approval pause.
func WithHumanInLoop(enabled bool) AgentOption {
	return func(s *AgentService) { s.humanInLoop = enabled }
}

// WithCallTimeout bounds each external call.
func WithCallTimeout(d time.Duration) AgentOption {
	return func(s *AgentService) {
		if d > 0 {
			s.callTimeout = d
		}
	}
}

// WithMaxPending sets how many decisions may await approval at once.
func WithMaxPending(n int) AgentOption {
	return func(s *AgentService) {
		if n > 0 {
			s.maxPending = n
		}
	}
}

// WithPendingStore sets the durable approval queue. Parked decisions
// are restored at construction; restored decisions count against the
// pending limit.
func WithPendingStore(store driven.PendingDecisionStore) AgentOption {
	return func(s *AgentService) { s.store = store }
}

// NewAgentService creates an agent service. The policy service is
// required; generator and reviewer are optional and default to the
// deterministic fallback path.
func NewAgentService(policy driving.PolicyService, audit driven.AuditSink, opts ...AgentOption) *AgentService {
	s := &AgentService{
		policy:      policy,
		audit:       audit,
		humanInLoop: true,
		callTimeout: DefaultCallTimeout,
		maxPending:  DefaultMaxPending,
		pending:     make(map[string]domain.Decision),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store != nil {
		parked, err := s.store.ListPending()
		if err != nil {
			logger.Warn("Failed to restore pending decisions: %v", err)
		}
		for _, d := range parked {
			s.pending[d.ID] = d
		}
	}
	return s
}

// Decide runs the full decision pipeline: policy evaluate, generate,
// advisory review, state computation.
func (s *AgentService) Decide(
	ctx context.Context, query string, evidence domain.RetrievalResponse, context map[string]string,
) (domain.Decision, error) {
	logger.Section("Decision")
	logger.Debug("Query: %q", query)

	evaluations := s.policy.Evaluate(query, evidence, context)
	verdict := s.policy.CheckAllowed(evaluations)
	logger.Info("Aggregate verdict: %s", verdict)

	// DENY short-circuits: no external call is made.
	if verdict == domain.VerdictDeny {
		decision := domain.Decision{
			ID:                domain.NewID(),
			Query:             query,
			Answer:            domain.DeniedAnswer,
			Evidence:          evidence.Results,
			PolicyEvaluations: evaluations,
			State:             domain.StateFailed,
			CreatedAt:         time.Now().UTC(),
		}
		s.emitDecision("decision_denied", decision, map[string]any{"query": query})
		return decision, nil
	}

	outcome := s.generateAnswer(ctx, query, evidence)
	if outcome.Fallback && outcome.Cause != nil {
		logger.Warn("Generation fell back: %v", outcome.Cause)
	}

	reviewText := s.reviewAnswer(ctx, query, outcome.Answer, evidence)

	decision := domain.Decision{
		ID:                domain.NewID(),
		Query:             query,
		Answer:            outcome.Answer,
		Evidence:          evidence.Results,
		PolicyEvaluations: evaluations,
		State:             domain.StateCompleted,
		CreatedAt:         time.Now().UTC(),
	}
	if s.generate != nil && !outcome.Fallback {
		decision.ModelUsed = s.generate.ModelName()
	}
	if s.review != nil {
		decision.ReviewerModel = s.review.ModelName()
	}

	if verdict == domain.VerdictNeedsApproval && s.humanInLoop {
		return s.parkForApproval(decision, reviewText, outcome)
	}

	s.emitDecision("decision_completed", decision, map[string]any{
		"query":    query,
		"review":   reviewText,
		"fallback": outcome.Fallback,
	})
	return decision, nil
}

// parkForApproval moves a decision into the pending map, or rejects it
// when the approval slots are full. Silent replacement of an existing
// pending decision is never allowed.
func (s *AgentService) parkForApproval(
	decision domain.Decision, reviewText string, outcome GenerationOutcome,
) (domain.Decision, error) {
	s.mu.Lock()
	if len(s.pending) >= s.maxPending {
		s.mu.Unlock()
		rejected := decision
		rejected.State = domain.StateFailed
		rejected.Answer = fmt.Sprintf("[REJECTED] %v: decision requires approval while %d decision(s) await review",
			domain.ErrApprovalQueueFull, s.maxPending)
		s.emitDecision("decision_rejected_queue_full", rejected, map[string]any{
			"max_pending": s.maxPending,
		})
		return rejected, nil
	}

	pending := decision.AwaitingApproval()
	if s.store != nil {
		if err := s.store.SavePending(pending); err != nil {
			s.mu.Unlock()
			return domain.Decision{}, fmt.Errorf("persisting pending decision: %w", err)
		}
	}
	s.pending[pending.ID] = pending
	s.mu.Unlock()

	s.emitDecision("decision_pending_approval", pending, map[string]any{
		"query":    pending.Query,
		"review":   reviewText,
		"fallback": outcome.Fallback,
	})
	return pending, nil
}

// Approve completes a pending decision and clears its slot.
// Unknown identifiers return absent (false) and leave state unchanged.
func (s *AgentService) Approve(decisionID string) (domain.Decision, bool) {
	s.mu.Lock()
	pending, ok := s.pending[decisionID]
	if !ok {
		s.mu.Unlock()
		return domain.Decision{}, false
	}
	delete(s.pending, decisionID)
	s.clearStored(decisionID)
	s.mu.Unlock()

	approved := pending.Approved()
	s.emitHuman("decision_approved", approved, nil)
	return approved, true
}

// Reject fails a pending decision with a reason and clears its slot.
// Unknown identifiers return absent (false) and leave state unchanged.
func (s *AgentService) Reject(decisionID, reason string) (domain.Decision, bool) {
	s.mu.Lock()
	pending, ok := s.pending[decisionID]
	if !ok {
		s.mu.Unlock()
		return domain.Decision{}, false
	}
	delete(s.pending, decisionID)
	s.clearStored(decisionID)
	s.mu.Unlock()

	rejected := pending.Rejected(reason)
	s.emitHuman("decision_rejected", rejected, map[string]any{"reason": reason})
	return rejected, true
}

// Override records a human override event. It does not require the
// decision to be pending and mutates no stored decision.
func (s *AgentService) Override(decisionID, newAnswer, reason string) domain.HumanOverride {
	override := domain.HumanOverride{
		ID:               domain.NewID(),
		DecisionID:       decisionID,
		OverriddenAnswer: newAnswer,
		Reason:           reason,
		OverriddenAt:     time.Now().UTC(),
	}

	event := domain.NewAuditEvent(domain.LayerReasoning, "human_override", map[string]any{
		"override_id":       override.ID,
		"overridden_answer": newAnswer,
		"reason":            reason,
	})
	event.DecisionID = decisionID
	event.Actor = domain.ActorHuman
	s.emit(event)

	return override
}

// clearStored removes a resolved decision from the durable queue.
// Callers hold the mutex; failures are logged, the in-memory resolution
// stands.
func (s *AgentService) clearStored(decisionID string) {
	if s.store == nil {
		return
	}
	if err := s.store.DeletePending(decisionID); err != nil {
		logger.Warn("Failed to clear stored decision %s: %v", decisionID, err)
	}
}

// Pending returns the decisions currently awaiting approval.
func (s *AgentService) Pending() []domain.Decision {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending := make([]domain.Decision, 0, len(s.pending))
	for _, d := range s.pending {
		pending = append(pending, d)
	}
	return pending
}

// --- External calls ---

// generateAnswer invokes the external generator under the call timeout.
// Any failure, and the absence of a generator, resolve to the
// deterministic evidence-only fallback.
func (s *AgentService) generateAnswer(
	ctx context.Context, query string, evidence domain.RetrievalResponse,
) GenerationOutcome {
	if s.generate == nil {
		return GenerationOutcome{
			Answer:   fallbackAnswer(evidence),
			Fallback: true,
			Cause:    domain.ErrGeneratorUnavailable,
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	answer, err := s.generate.Generate(callCtx, query, evidence.Results)
	if err != nil {
		return GenerationOutcome{Answer: fallbackAnswer(evidence), Fallback: true, Cause: err}
	}
	return GenerationOutcome{Answer: answer}
}

// reviewAnswer invokes the external reviewer under the call timeout.
// Review output is advisory only; failures are logged, never propagated.
func (s *AgentService) reviewAnswer(
	ctx context.Context, query, answer string, evidence domain.RetrievalResponse,
) string {
	if s.review == nil {
		return "review_skipped:no_reviewer"
	}

	callCtx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	reviewText, err := s.review.Review(callCtx, query, answer, evidence.Results)
	if err != nil {
		logger.Warn("Review call failed: %v", err)
		return "review_skipped:call_failed"
	}
	return reviewText
}

// fallbackAnswer is the deterministic evidence-only answer: the top cited
// snippet, or an explicit no-evidence statement.
func fallbackAnswer(evidence domain.RetrievalResponse) string {
	if len(evidence.Results) == 0 {
		return "No evidence found. Cannot answer without grounded data."
	}

	top := evidence.Results[0]
	citations := ""
	for i, c := range top.Citations {
		if i > 0 {
			citations += ", "
		}
		citations += fmt.Sprintf("[doc=%s, page=%d]", c.DocID, c.Page)
	}

	return fmt.Sprintf("Based on available evidence %s: %s", citations, truncateRunes(top.Text, 500))
}

// --- Audit helpers ---

func (s *AgentService) emitDecision(eventType string, decision domain.Decision, payload map[string]any) {
	event := domain.NewAuditEvent(domain.LayerReasoning, eventType, payload)
	event.DecisionID = decision.ID
	s.emit(event)
}

func (s *AgentService) emitHuman(eventType string, decision domain.Decision, payload map[string]any) {
	event := domain.NewAuditEvent(domain.LayerReasoning, eventType, payload)
	event.DecisionID = decision.ID
	event.Actor = domain.ActorHuman
	s.emit(event)
}

func (s *AgentService) emit(event domain.AuditEvent) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(event); err != nil {
		logger.Warn("Audit write failed: %v", err)
	}
}
