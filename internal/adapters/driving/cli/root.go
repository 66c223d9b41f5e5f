// Package cli provides the cobra command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/STiFLeR7/nanocortex/internal/core/ports/driven"
	"github.com/STiFLeR7/nanocortex/internal/core/ports/driving"
	"github.com/STiFLeR7/nanocortex/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Injected services. Set once by Execute before any command runs.
var (
	pipelineService driving.PipelineService
	policyService   driving.PolicyService
	learningService driving.LearningService
	ruleSource      driven.RuleSource
	promptStore     driven.PromptStore
)

// Services carries everything the commands need.
type Services struct {
	Pipeline driving.PipelineService
	Policy   driving.PolicyService
	Learning driving.LearningService

	// RuleSource is optional; without it "rules reload" is unavailable.
	RuleSource driven.RuleSource

	// PromptStore is optional; without it "prompts reload" is unavailable.
	PromptStore driven.PromptStore
}

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "nanocortex",
	Short: "Auditable decision pipeline over your documents",
	Long: `Nanocortex ingests documents, retrieves evidence with hybrid search,
and makes policy-checked decisions with a full audit trail.

Every answer is grounded in retrieved evidence, gated by declarative
policy rules, and recorded for later inspection. Decisions that need a
human are parked until approved or rejected.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetServices injects the service implementations used by the commands.
// Exposed separately from Execute for tests.
func SetServices(s Services) {
	pipelineService = s.Pipeline
	policyService = s.Policy
	learningService = s.Learning
	ruleSource = s.RuleSource
	promptStore = s.PromptStore
}

// Execute runs the root command with the given services.
func Execute(s Services) error {
	SetServices(s)
	return rootCmd.Execute()
}
