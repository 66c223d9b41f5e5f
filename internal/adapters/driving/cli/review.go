package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/STiFLeR7/nanocortex/internal/core/domain"
)

var (
	rejectReason   string
	overrideReason string
)

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List decisions awaiting approval",
	Args:  cobra.NoArgs,
	RunE:  runPending,
}

var approveCmd = &cobra.Command{
	Use:   "approve [decision-id]",
	Short: "Approve a pending decision",
	Args:  cobra.ExactArgs(1),
	RunE:  runApprove,
}

var rejectCmd = &cobra.Command{
	Use:   "reject [decision-id]",
	Short: "Reject a pending decision",
	Args:  cobra.ExactArgs(1),
	RunE:  runReject,
}

var overrideCmd = &cobra.Command{
	Use:   "override [decision-id] [new-answer]",
	Short: "Record a human override for a decision",
	Long: `Records an audit-only override. The stored decision is left
untouched; the replacement answer lives in the audit trail.`,
	Args: cobra.ExactArgs(2),
	RunE: runOverride,
}

func init() {
	rejectCmd.Flags().StringVarP(&rejectReason, "reason", "r", "rejected by reviewer", "why the decision was rejected")
	overrideCmd.Flags().StringVarP(&overrideReason, "reason", "r", "", "why the answer was overridden")
	rootCmd.AddCommand(pendingCmd)
	rootCmd.AddCommand(approveCmd)
	rootCmd.AddCommand(rejectCmd)
	rootCmd.AddCommand(overrideCmd)
}

func runPending(cmd *cobra.Command, _ []string) error {
	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}

	pending := pipelineService.Pending()
	if len(pending) == 0 {
		cmd.Println("No decisions awaiting approval.")
		return nil
	}

	cmd.Printf("%d decision(s) awaiting approval:\n\n", len(pending))
	for _, decision := range pending {
		answer := strings.TrimPrefix(decision.Answer, domain.PendingMarker)
		cmd.Printf("  %s\n", decision.ID)
		cmd.Printf("    Q: %s\n", decision.Query)
		cmd.Printf("    A: %s\n\n", truncate(answer, 160))
	}
	return nil
}

func runApprove(cmd *cobra.Command, args []string) error {
	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}

	decision, ok := pipelineService.Approve(args[0])
	if !ok {
		return fmt.Errorf("no pending decision with ID %s", args[0])
	}

	cmd.Printf("Approved %s\n", decision.ID)
	cmd.Printf("  %s\n", decision.Answer)
	return nil
}

func runReject(cmd *cobra.Command, args []string) error {
	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}

	decision, ok := pipelineService.Reject(args[0], rejectReason)
	if !ok {
		return fmt.Errorf("no pending decision with ID %s", args[0])
	}

	cmd.Printf("Rejected %s: %s\n", decision.ID, rejectReason)
	return nil
}

func runOverride(cmd *cobra.Command, args []string) error {
	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}

	override := pipelineService.Override(args[0], args[1], overrideReason)
	cmd.Printf("Override %s recorded for decision %s\n", override.ID, override.DecisionID)
	return nil
}
