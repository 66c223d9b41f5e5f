// Command nanocortex is the auditable decision pipeline CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/STiFLeR7/nanocortex/internal/adapters/driven/ai"
	configfile "github.com/STiFLeR7/nanocortex/internal/adapters/driven/config/file"
	"github.com/STiFLeR7/nanocortex/internal/adapters/driven/extract"
	policyfile "github.com/STiFLeR7/nanocortex/internal/adapters/driven/policy/file"
	"github.com/STiFLeR7/nanocortex/internal/adapters/driven/storage/jsonl"
	"github.com/STiFLeR7/nanocortex/internal/adapters/driven/storage/memory"
	"github.com/STiFLeR7/nanocortex/internal/adapters/driven/storage/sqlite"
	"github.com/STiFLeR7/nanocortex/internal/adapters/driving/cli"
	"github.com/STiFLeR7/nanocortex/internal/core/domain"
	"github.com/STiFLeR7/nanocortex/internal/core/ports/driven"
	"github.com/STiFLeR7/nanocortex/internal/core/services"
	"github.com/STiFLeR7/nanocortex/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := configfile.NewConfigStore("")
	if err != nil {
		return err
	}
	settings := services.LoadSettings(configStore)

	store, err := sqlite.NewStore(settings.DataDir)
	if err != nil {
		return err
	}
	defer store.Close()

	// Events fan out to the in-memory sink for fast queries and to
	// SQLite for persistence across runs. When an audit directory is
	// configured, daily JSONL files sit in between for text tooling.
	durable := store.AuditSink()
	if settings.AuditDir != "" {
		if fileSink, err := jsonl.NewAuditSink(settings.AuditDir); err != nil {
			logger.Warn("jsonl audit sink unavailable: %v", err)
		} else {
			durable = fileSink.Tee(durable)
		}
	}
	audit := memory.NewAuditSink().Tee(durable)

	policy := services.NewPolicyService(audit)
	ruleSource := loadPolicies(policy)

	knowledge := services.NewKnowledgeService(audit,
		services.WithChunkBudget(settings.ChunkBudget),
		services.WithChunkStore(store.ChunkStore()))

	promptStore, err := configfile.NewPromptStore("")
	if err != nil {
		return err
	}

	generator, err := ai.NewGenerator(settings.Generator, promptStore, settings.MaxRetries)
	if err != nil {
		logger.Warn("generator unavailable: %v", err)
	}
	reviewer, err := ai.NewReviewer(settings.Reviewer, promptStore, settings.MaxRetries)
	if err != nil {
		logger.Warn("reviewer unavailable: %v", err)
	}

	agent := services.NewAgentService(policy, audit,
		services.WithGenerator(generator),
		services.WithReviewer(reviewer),
		services.WithHumanInLoop(settings.HumanInLoop),
		services.WithCallTimeout(settings.CallTimeout),
		services.WithMaxPending(settings.MaxPending),
		services.WithPendingStore(store.PendingDecisionStore()),
	)

	learning := services.NewLearningService(audit, store.LearningStateStore())
	if _, err := learning.LoadState(); err != nil {
		logger.Warn("failed to restore learning state: %v", err)
	}

	extractors := []driven.ContentExtractor{
		extract.NewPDFExtractor(),
		extract.NewDocxExtractor(),
		extract.NewMarkdownExtractor(),
		extract.NewHTMLExtractor(),
		extract.NewImageExtractor(),
		extract.NewPlaintextExtractor(),
	}
	pipeline := services.NewPipelineService(extractors, knowledge, agent, learning, audit)

	execErr := cli.Execute(cli.Services{
		Pipeline:    pipeline,
		Policy:      policy,
		Learning:    learning,
		RuleSource:  ruleSource,
		PromptStore: promptStore,
	})

	if err := learning.SaveState(); err != nil {
		logger.Warn("failed to save learning state: %v", err)
	}
	return execErr
}

// loadPolicies installs the built-in rules and, when a rules file
// exists, replaces them with its contents and watches it for edits.
func loadPolicies(policy *services.PolicyService) driven.RuleSource {
	services.InstallDefaultPolicies(policy)

	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	path := filepath.Join(home, ".nanocortex", "rules.toml")
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	source := policyfile.NewRuleSource(path)
	rules, err := source.Load()
	if err != nil {
		logger.Warn("ignoring rules file %s: %v", path, err)
		return source
	}
	policy.ReplaceRules(rules)

	go func() {
		onChange := func(rules []domain.PolicyRule) {
			policy.ReplaceRules(rules)
			logger.Info("reloaded %d policy rules from %s", len(rules), path)
		}
		if err := source.Watch(context.Background(), onChange); err != nil && err != context.Canceled {
			logger.Debug("rules watcher stopped: %v", err)
		}
	}()

	return source
}
