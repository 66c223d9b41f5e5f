package services

import (
	"time"

	"github.com/STiFLeR7/nanocortex/internal/core/domain"
	"github.com/STiFLeR7/nanocortex/internal/core/ports/driven"
)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyHumanInLoop      = "agent.human_in_loop"
	keyCallTimeoutSecs  = "agent.call_timeout_seconds"
	keyMaxRetries       = "agent.max_retries"
	keyMaxPending       = "agent.max_pending"
	keyChunkBudget      = "knowledge.chunk_budget"
	keyDataDir          = "paths.data_dir"
	keyAuditDir         = "paths.audit_dir"
	keyGenProvider      = "generator.provider"
	keyGenModel         = "generator.model"
	keyGenBaseURL       = "generator.base_url"
	keyGenAPIKey        = "generator.api_key"
	keyReviewerProvider = "reviewer.provider"
	keyReviewerModel    = "reviewer.model"
	keyReviewerBaseURL  = "reviewer.base_url"
	keyReviewerAPIKey   = "reviewer.api_key"
)

// LoadSettings reads the full application settings from the config store,
// falling back to defaults for missing keys. Settings are loaded once at
// startup; components receive values, not the store.
func LoadSettings(store driven.ConfigStore) domain.AppSettings {
	settings := domain.DefaultAppSettings()
	if store == nil {
		return settings
	}

	if _, ok := store.Get(keyHumanInLoop); ok {
		settings.HumanInLoop = store.GetBool(keyHumanInLoop)
	}
	if secs := store.GetInt(keyCallTimeoutSecs); secs > 0 {
		settings.CallTimeout = time.Duration(secs) * time.Second
	}
	if retries := store.GetInt(keyMaxRetries); retries > 0 {
		settings.MaxRetries = retries
	}
	if pending := store.GetInt(keyMaxPending); pending > 0 {
		settings.MaxPending = pending
	}
	if budget := store.GetInt(keyChunkBudget); budget > 0 {
		settings.ChunkBudget = budget
	}
	if dir := store.GetString(keyDataDir); dir != "" {
		settings.DataDir = dir
	}
	if dir := store.GetString(keyAuditDir); dir != "" {
		settings.AuditDir = dir
	}

	settings.Generator = domain.LLMSettings{
		Provider: store.GetString(keyGenProvider),
		Model:    store.GetString(keyGenModel),
		BaseURL:  store.GetString(keyGenBaseURL),
		APIKey:   store.GetString(keyGenAPIKey),
	}
	settings.Reviewer = domain.LLMSettings{
		Provider: store.GetString(keyReviewerProvider),
		Model:    store.GetString(keyReviewerModel),
		BaseURL:  store.GetString(keyReviewerBaseURL),
		APIKey:   store.GetString(keyReviewerAPIKey),
	}

	return settings
}
