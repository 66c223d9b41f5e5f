// Package ai wires completion clients into the generator and reviewer
// ports, adding the cross-provider concerns: prompt loading, evidence
// formatting, client-side rate limiting and bounded retries.
package ai

import (
	"context"
	"fmt"
	"time"

	anthropicllm "github.com/STiFLeR7/nanocortex/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/STiFLeR7/nanocortex/internal/adapters/driven/llm/ollama"
	openaillm "github.com/STiFLeR7/nanocortex/internal/adapters/driven/llm/openai"
	"github.com/STiFLeR7/nanocortex/internal/core/domain"
	"github.com/STiFLeR7/nanocortex/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// completionClient is the provider-neutral surface the wrappers build on.
type completionClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
	ModelName() string
	Ping(ctx context.Context) error
	Close() error
}

// newClient builds a completion client for the configured provider.
// An empty provider returns nil without error: both external services
// are optional and the agent falls back to evidence-only answers.
func newClient(settings domain.LLMSettings) (completionClient, error) {
	switch settings.Provider {
	case "":
		return nil, nil
	case "openai":
		return openaillm.NewClient(openaillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
	case "anthropic":
		return anthropicllm.NewClient(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
	case "ollama":
		return ollamallm.NewClient(ollamallm.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidInput, settings.Provider)
	}
}

// NewGenerator creates the answer generator for the configured provider.
// Returns (nil, nil) when no provider is configured.
func NewGenerator(settings domain.LLMSettings, prompts driven.PromptStore, maxRetries int) (driven.Generator, error) {
	client, err := newClient(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGeneratorUnavailable, err)
	}
	if client == nil {
		return nil, nil
	}
	return &generator{caller: newCaller(client, maxRetries), prompts: prompts}, nil
}

// NewReviewer creates the answer reviewer for the configured provider.
// Returns (nil, nil) when no provider is configured.
func NewReviewer(settings domain.LLMSettings, prompts driven.PromptStore, maxRetries int) (driven.Reviewer, error) {
	client, err := newClient(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrReviewerUnavailable, err)
	}
	if client == nil {
		return nil, nil
	}
	return &reviewer{caller: newCaller(client, maxRetries), prompts: prompts}, nil
}

// ValidateGenerator pings the generator's backing service.
// A nil generator validates trivially.
func ValidateGenerator(ctx context.Context, g driven.Generator) error {
	gen, ok := g.(*generator)
	if !ok || gen == nil {
		return nil
	}
	return validate(ctx, gen.caller.client, domain.ErrGeneratorUnavailable)
}

// ValidateReviewer pings the reviewer's backing service.
// A nil reviewer validates trivially.
func ValidateReviewer(ctx context.Context, r driven.Reviewer) error {
	rev, ok := r.(*reviewer)
	if !ok || rev == nil {
		return nil
	}
	return validate(ctx, rev.caller.client, domain.ErrReviewerUnavailable)
}

func validate(ctx context.Context, client completionClient, unavailable error) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx); err != nil {
		return fmt.Errorf("%w: service unreachable (%w)", unavailable, err)
	}
	return nil
}
