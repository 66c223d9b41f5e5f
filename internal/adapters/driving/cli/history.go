package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history [decision-id]",
	Short: "Show feedback recorded for a decision",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if learningService == nil {
		return errors.New("learning service not configured")
	}

	records := learningService.FeedbackForDecision(args[0])
	if len(records) == 0 {
		cmd.Printf("No feedback recorded for decision %s\n", args[0])
		return nil
	}

	for _, record := range records {
		cmd.Printf("%s  %-18s", record.CreatedAt.Format("2006-01-02 15:04:05"), record.Rating)
		if record.CorrectedAnswer != "" {
			cmd.Printf(" expected: %s", truncate(record.CorrectedAnswer, 80))
		}
		if record.Explanation != "" {
			cmd.Printf(" (%s)", record.Explanation)
		}
		cmd.Println()
	}
	return nil
}
