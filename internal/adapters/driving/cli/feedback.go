package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	feedbackCorrected   string
	feedbackExplanation string
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback [decision-id] [rating]",
	Short: "Rate a decision outcome",
	Long: `Records an outcome rating for a decision and feeds it into the
learning loop. Ratings: correct, partially_correct, incorrect,
hallucination.

Crossing mistake thresholds emits behavioural adjustments; see
"nanocortex stats".`,
	Args: cobra.ExactArgs(2),
	RunE: runFeedback,
}

func init() {
	feedbackCmd.Flags().StringVarP(&feedbackCorrected, "corrected", "c", "", "the expected answer, when known")
	feedbackCmd.Flags().StringVarP(&feedbackExplanation, "explanation", "e", "", "free-text context for the rating")
	rootCmd.AddCommand(feedbackCmd)
}

func runFeedback(cmd *cobra.Command, args []string) error {
	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}

	record, err := pipelineService.SubmitFeedback(args[0], args[1], feedbackCorrected, feedbackExplanation)
	if err != nil {
		return fmt.Errorf("failed to record feedback: %w", err)
	}

	cmd.Printf("Feedback %s recorded: %s rated %s\n", record.ID, record.DecisionID, record.Rating)

	stats := pipelineService.Stats()
	cmd.Printf("Accuracy: %.2f%% over %d record(s)\n", stats.Accuracy.Accuracy*100, stats.Accuracy.Total)
	return nil
}
