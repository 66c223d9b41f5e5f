package domain

import "time"

// LLMSettings configures one external reasoning service.
type LLMSettings struct {
	// Provider is the adapter name ("openai", "anthropic", or empty for none).
	Provider string

	// Model is the model identifier.
	Model string

	// BaseURL overrides the provider's default endpoint.
	BaseURL string

	// APIKey authenticates requests. Never written to audit payloads.
	APIKey string
}

// AppSettings is the static process configuration, enumerated once at
// startup and never re-read mid-decision.
type AppSettings struct {
	// HumanInLoop enables the approval pause for NEEDS_APPROVAL verdicts.
	HumanInLoop bool

	// CallTimeout bounds each external generation/review call.
	CallTimeout time.Duration

	// MaxRetries is the retry budget for external HTTP calls.
	MaxRetries int

	// MaxPending is how many decisions may await approval at once.
	MaxPending int

	// ChunkBudget is the per-chunk character budget for indexing.
	ChunkBudget int

	// DataDir is the root directory for persisted state.
	DataDir string

	// AuditDir is the directory for audit trail files.
	AuditDir string

	// Generator configures the answer-generation service.
	Generator LLMSettings

	// Reviewer configures the answer-review service.
	Reviewer LLMSettings
}

// DefaultAppSettings returns the built-in defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		HumanInLoop: true,
		CallTimeout: 60 * time.Second,
		MaxRetries:  3,
		MaxPending:  1,
		ChunkBudget: 500,
	}
}
