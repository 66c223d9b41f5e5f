package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/STiFLeR7/nanocortex/internal/core/domain"
	"github.com/STiFLeR7/nanocortex/internal/core/ports/driven"
)

// Ensure the wrappers implement their ports.
var (
	_ driven.Generator = (*generator)(nil)
	_ driven.Reviewer  = (*reviewer)(nil)
)

// defaultGenerateSystem is the fallback system prompt when no PromptStore
// is configured.
const defaultGenerateSystem = `You are an evidence-grounded assistant. Answer the question using ONLY the evidence passages provided.

Rules:
1. Every claim must be supported by a cited passage
2. If the evidence does not contain the answer, say so explicitly
3. Never invent facts, figures or sources
4. Reference evidence by its document identifier and page`

// defaultReviewPrompt is the fallback review template when no PromptStore
// is configured.
const defaultReviewPrompt = `Assess whether the answer below is fully grounded in the evidence.

Question: %s

Answer: %s

Evidence:
%s

Reply with one of GROUNDED, PARTIALLY_GROUNDED or UNGROUNDED, followed by a one-sentence justification.`

// generator implements driven.Generator over a completion client.
type generator struct {
	caller  *caller
	prompts driven.PromptStore
}

// Generate produces an answer grounded in the given evidence.
func (g *generator) Generate(ctx context.Context, query string, evidence []domain.RetrievalResult) (string, error) {
	system := loadPrompt(g.prompts, driven.PromptGenerateSystem, defaultGenerateSystem)

	user := fmt.Sprintf("Question: %s\n\nEvidence:\n%s", query, formatEvidence(evidence))

	answer, err := g.caller.complete(ctx, system, user)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

// ModelName returns the model identifier for audit records.
func (g *generator) ModelName() string {
	return g.caller.client.ModelName()
}

// Close releases resources.
func (g *generator) Close() error {
	return g.caller.client.Close()
}

// reviewer implements driven.Reviewer over a completion client.
type reviewer struct {
	caller  *caller
	prompts driven.PromptStore
}

// Review returns a free-text assessment of the answer's grounding.
func (r *reviewer) Review(ctx context.Context, query, answer string, evidence []domain.RetrievalResult) (string, error) {
	template := loadPrompt(r.prompts, driven.PromptReview, defaultReviewPrompt)

	review, err := r.caller.complete(ctx, "", fmt.Sprintf(template, query, answer, formatEvidence(evidence)))
	if err != nil {
		return "", fmt.Errorf("review: %w", err)
	}
	return strings.TrimSpace(review), nil
}

// ModelName returns the model identifier for audit records.
func (r *reviewer) ModelName() string {
	return r.caller.client.ModelName()
}

// Close releases resources.
func (r *reviewer) Close() error {
	return r.caller.client.Close()
}

// formatEvidence renders retrieval results as numbered, cited passages.
func formatEvidence(evidence []domain.RetrievalResult) string {
	if len(evidence) == 0 {
		return "(no evidence retrieved)"
	}

	var b strings.Builder
	for i, result := range evidence {
		source := "unknown"
		if len(result.Citations) > 0 {
			source = fmt.Sprintf("doc=%s, page=%d", result.Citations[0].DocID, result.Citations[0].Page)
		}
		fmt.Fprintf(&b, "[%d] (%s, score=%.4f)\n%s\n\n", i+1, source, result.Score, result.Text)
	}
	return strings.TrimSpace(b.String())
}

// loadPrompt loads a prompt from the store, falling back to the default
// if unavailable.
func loadPrompt(store driven.PromptStore, name, fallback string) string {
	if store == nil {
		return fallback
	}
	prompt, err := store.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}
