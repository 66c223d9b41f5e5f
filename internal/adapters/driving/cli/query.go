package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/STiFLeR7/nanocortex/internal/core/domain"
	"github.com/STiFLeR7/nanocortex/internal/core/ports/driving"
)

var (
	queryTopK     int
	queryStrategy string
	queryContext  []string
	queryJSON     bool
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a question against the indexed evidence",
	Long: `Retrieves evidence with hybrid search (BM25 + semantic fusion),
evaluates policy rules, and produces an audited decision.

Decisions that match a NEEDS_APPROVAL rule are parked; use
"nanocortex pending" and "nanocortex approve" to resolve them.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "n", 5, "maximum evidence results")
	queryCmd.Flags().StringVar(&queryStrategy, "strategy", "hybrid", "retrieval strategy: bm25, vector or hybrid")
	queryCmd.Flags().StringArrayVar(&queryContext, "context", nil, "context key=value for policy evaluation (repeatable)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output the decision as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	question := args[0]

	if pipelineService == nil {
		return errors.New("pipeline service not configured")
	}

	strategy, err := domain.ParseStrategy(queryStrategy)
	if err != nil {
		return fmt.Errorf("invalid strategy: %w", err)
	}

	contextMap, err := parseContextPairs(queryContext)
	if err != nil {
		return err
	}

	decision, err := pipelineService.Query(context.Background(), question, driving.QueryOptions{
		TopK:     queryTopK,
		Strategy: strategy,
		Context:  contextMap,
	})
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return outputDecisionJSON(cmd, decision)
	}
	outputDecision(cmd, decision)
	return nil
}

// parseContextPairs converts repeated key=value flags into a map.
func parseContextPairs(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	contextMap := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid context %q: expected key=value", pair)
		}
		contextMap[key] = value
	}
	return contextMap, nil
}

func outputDecisionJSON(cmd *cobra.Command, decision domain.Decision) error {
	data, err := json.MarshalIndent(decision, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal decision: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputDecision(cmd *cobra.Command, decision domain.Decision) {
	cmd.Printf("Decision %s [%s]\n", decision.ID, decision.State)
	cmd.Println()
	cmd.Printf("  %s\n", decision.Answer)
	cmd.Println()

	if len(decision.Evidence) > 0 {
		cmd.Println("Evidence:")
		for i, result := range decision.Evidence {
			source := ""
			if len(result.Citations) > 0 {
				source = fmt.Sprintf(" [doc=%s, page=%d]", result.Citations[0].DocID, result.Citations[0].Page)
			}
			cmd.Printf("  [%d] %.4f%s %s\n", i+1, result.Score, source, truncate(result.Text, 120))
		}
		cmd.Println()
	}

	matched := 0
	for _, ev := range decision.PolicyEvaluations {
		if ev.Matched {
			matched++
		}
	}
	cmd.Printf("Policy: %d rules evaluated, %d matched\n", len(decision.PolicyEvaluations), matched)
	for _, ev := range decision.PolicyEvaluations {
		if ev.Matched {
			cmd.Printf("  - %s -> %s\n", ev.Rule.Name, ev.Verdict)
		}
	}
	if decision.ModelUsed != "" {
		cmd.Printf("Model: %s\n", decision.ModelUsed)
	}

	if decision.State == domain.StateWaitingApproval {
		cmd.Println()
		cmd.Printf("Awaiting approval. Run: nanocortex approve %s\n", decision.ID)
	}
}

// truncate shortens text to at most n characters. Cutting on a rune
// boundary keeps multibyte text valid.
func truncate(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
