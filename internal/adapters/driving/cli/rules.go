package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List active policy rules",
	Args:  cobra.NoArgs,
	RunE:  runRules,
}

var rulesReloadCmd = &cobra.Command{
	Use:   "reload",
	Short: "Reload policy rules from the rules file",
	Args:  cobra.NoArgs,
	RunE:  runRulesReload,
}

func init() {
	rulesCmd.AddCommand(rulesReloadCmd)
	rootCmd.AddCommand(rulesCmd)
}

func runRules(cmd *cobra.Command, _ []string) error {
	if policyService == nil {
		return errors.New("policy service not configured")
	}

	rules := policyService.Rules()
	if len(rules) == 0 {
		cmd.Println("No policy rules registered.")
		return nil
	}

	for _, rule := range rules {
		cmd.Printf("%s  %-24s %-16s %s\n", rule.ID, rule.Name, rule.Verdict, rule.Description)
	}
	cmd.Printf("\n%d rule(s)\n", len(rules))
	return nil
}

func runRulesReload(cmd *cobra.Command, _ []string) error {
	if policyService == nil {
		return errors.New("policy service not configured")
	}
	if ruleSource == nil {
		return errors.New("no rules file configured")
	}

	rules, err := ruleSource.Load()
	if err != nil {
		return fmt.Errorf("failed to load rules: %w", err)
	}

	policyService.ReplaceRules(rules)
	cmd.Printf("Reloaded %d rule(s)\n", len(rules))
	return nil
}
