package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path...]",
	Short: "Extract and index documents",
	Long: `Extracts text from the given files and indexes it for retrieval.
PDF, DOCX, Markdown, HTML, plain text and standalone image files are
supported; each file becomes a set of citable evidence chunks.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}

	ctx := context.Background()
	var failed []string
	for _, path := range args {
		report, err := pipelineService.Ingest(ctx, path)
		if err != nil {
			cmd.PrintErrf("  %s: %v\n", path, err)
			failed = append(failed, path)
			continue
		}
		cmd.Printf("  %s: %d pages, %d text blocks, %d images, %d chunks indexed (doc %s)\n",
			report.Filename, report.Pages, report.TextBlocks, report.Images,
			report.ChunksIndexed, report.DocID)
	}

	if len(failed) > 0 {
		return fmt.Errorf("failed to ingest %d of %d files", len(failed), len(args))
	}
	return nil
}
