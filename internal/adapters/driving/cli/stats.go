package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/STiFLeR7/nanocortex/internal/core/domain"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning loop metrics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}

	stats := pipelineService.Stats()

	cmd.Printf("Feedback records: %d\n", stats.FeedbackCount)
	cmd.Printf("Accuracy:         %.2f%%\n", stats.Accuracy.Accuracy*100)

	if len(stats.Accuracy.Breakdown) > 0 {
		cmd.Println("\nBreakdown:")
		for _, rating := range []domain.OutcomeRating{
			domain.RatingCorrect,
			domain.RatingPartiallyCorrect,
			domain.RatingIncorrect,
			domain.RatingHallucination,
		} {
			if count := stats.Accuracy.Breakdown[rating]; count > 0 {
				cmd.Printf("  %-18s %d\n", rating, count)
			}
		}
	}

	if stats.AdjustmentCount > 0 {
		cmd.Printf("\nAdjustments (%d):\n", stats.AdjustmentCount)
		for _, adj := range stats.Adjustments {
			cmd.Printf("  [%s] %s\n", adj.Type, adj.Description)
		}
	}
	return nil
}
