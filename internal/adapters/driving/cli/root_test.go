package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/STiFLeR7/nanocortex/internal/adapters/driven/extract"
	"github.com/STiFLeR7/nanocortex/internal/adapters/driven/storage/memory"
	"github.com/STiFLeR7/nanocortex/internal/core/ports/driven"
	"github.com/STiFLeR7/nanocortex/internal/core/services"
)

// setupTestServices wires real services over in-memory adapters and
// returns a cleanup that restores the previous injections.
func setupTestServices() func() {
	old := Services{
		Pipeline:    pipelineService,
		Policy:      policyService,
		Learning:    learningService,
		RuleSource:  ruleSource,
		PromptStore: promptStore,
	}

	sink := memory.NewAuditSink()
	policy := services.NewPolicyService(sink)
	services.InstallDefaultPolicies(policy)
	knowledge := services.NewKnowledgeService(sink)
	agent := services.NewAgentService(policy, sink)
	learning := services.NewLearningService(sink, memory.NewLearningStateStore())
	extractors := []driven.ContentExtractor{
		extract.NewImageExtractor(),
		extract.NewPlaintextExtractor(),
	}
	pipeline := services.NewPipelineService(extractors, knowledge, agent, learning, sink)

	SetServices(Services{
		Pipeline: pipeline,
		Policy:   policy,
		Learning: learning,
	})
	return func() { SetServices(old) }
}

// execute runs the root command with args and captures its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

// writeTestDoc creates a plaintext document under a temp dir.
func writeTestDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "manual.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "nanocortex", rootCmd.Use)
}

func TestRootCmd_HasVerboseFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, flag)
	assert.Equal(t, "v", flag.Shorthand)
}

func TestRootCmd_RegistersCommands(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range []string{
		"ingest", "query", "pending", "approve", "reject", "override",
		"feedback", "stats", "audit", "rules", "history", "prompts",
		"version", "tui",
	} {
		assert.True(t, names[want], "command %q should be registered", want)
	}
}

func TestCommands_FailWithoutServices(t *testing.T) {
	cleanup := setupTestServices()
	SetServices(Services{})
	defer cleanup()

	for _, args := range [][]string{
		{"query", "anything"},
		{"pending"},
		{"stats"},
		{"audit"},
		{"rules"},
	} {
		_, err := execute(t, args...)
		assert.Error(t, err, "args %v", args)
		assert.Contains(t, err.Error(), "not configured")
	}
}
