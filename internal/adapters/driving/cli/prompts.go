package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/STiFLeR7/nanocortex/internal/core/ports/driven"
)

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "Show the active LLM prompt templates",
	Args:  cobra.NoArgs,
	RunE:  runPrompts,
}

var promptsReloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Reload prompt templates from disk",
	Args:  cobra.NoArgs,
	RunE:  runPromptsReload,
}

func init() {
	promptsCmd.AddCommand(promptsReloadCmd)
	rootCmd.AddCommand(promptsCmd)
}

func runPrompts(cmd *cobra.Command, _ []string) error {
	if promptStore == nil {
		return errors.New("no prompt store configured")
	}

	for _, name := range []string{driven.PromptGenerateSystem, driven.PromptReview} {
		prompt, err := promptStore.Load(name)
		if err != nil {
			return fmt.Errorf("failed to load prompt %q: %w", name, err)
		}
		cmd.Printf("--- %s ---\n%s\n\n", name, prompt)
	}
	return nil
}

func runPromptsReload(cmd *cobra.Command, _ []string) error {
	if promptStore == nil {
		return errors.New("no prompt store configured")
	}

	promptStore.Reload()
	cmd.Println("Prompt cache cleared; templates reload on next use.")
	return nil
}
