package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	auditDecisionID string
	auditJSON       bool
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show the audit trail",
	Long: `Prints audit events in emission order. Use --decision to narrow
the trail to one decision's lifecycle.`,
	Args: cobra.NoArgs,
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().StringVarP(&auditDecisionID, "decision", "d", "", "filter events to one decision")
	auditCmd.Flags().BoolVar(&auditJSON, "json", false, "output events as JSON")
	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, _ []string) error {
	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}

	events := pipelineService.AuditTrail(auditDecisionID)

	if auditJSON {
		data, err := json.MarshalIndent(events, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal events: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(events) == 0 {
		cmd.Println("No audit events.")
		return nil
	}

	for _, event := range events {
		cmd.Printf("%s  %-10s %-26s actor=%s", event.Timestamp.Format("2006-01-02 15:04:05"), event.Layer, event.EventType, event.Actor)
		if event.DecisionID != "" {
			cmd.Printf(" decision=%s", event.DecisionID)
		}
		cmd.Println()
	}
	cmd.Printf("\n%d event(s)\n", len(events))
	return nil
}
