package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vibelab/promptrec/internal/core/domain"
)

var (
	recommendMode string
	recommendTopK int
	recommendJSON bool
)

var recommendCmd = &cobra.Command{
	Use:   "recommend [query]",
	Short: "Recommend prompts for a task",
	Long: `Recommends the best-matching prompts from the library for a task
description. Hybrid mode fuses keyword matching with semantic (vector)
similarity; keyword and vector modes use a single signal.`,
	Args: cobra.ExactArgs(1),
	RunE: runRecommend,
}

func init() {
	recommendCmd.Flags().StringVarP(&recommendMode, "mode", "m", string(domain.ModeHybrid),
		"ranking mode: keyword, vector or hybrid")
	recommendCmd.Flags().IntVarP(&recommendTopK, "top-k", "n", 3, "maximum number of results")
	recommendCmd.Flags().BoolVar(&recommendJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, args []string) error {
	query := args[0]

	if recommender == nil {
		return errors.New("recommendation service not configured")
	}

	mode, err := domain.ParseMode(recommendMode)
	if err != nil {
		return err
	}

	result, err := recommender.Recommend(cmd.Context(), query, mode, recommendTopK)
	if err != nil {
		return fmt.Errorf("recommendation failed: %w", err)
	}

	if recommendJSON {
		return outputRecommendJSON(cmd, result)
	}
	return outputRecommendTable(cmd, result)
}

func outputRecommendJSON(cmd *cobra.Command, result domain.RankedResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputRecommendTable(cmd *cobra.Command, result domain.RankedResult) error {
	if result.Degraded {
		cmd.Println("Note: vector search unavailable, showing keyword matches only.")
		cmd.Println()
	}

	if len(result.Items) == 0 {
		cmd.Println("No matching prompts found.")
		return nil
	}

	cmd.Println("Recommended prompts:")
	cmd.Println()
	for i, item := range result.Items {
		title := item.Record.Title
		if title == "" {
			title = item.Record.ID
		}

		cmd.Printf("  [%d] %s (%.2f, %s)\n", i+1, title, item.Score, item.Method)
		if item.Record.Category != "" {
			cmd.Printf("      Category: %s\n", item.Record.Category)
		}
		cmd.Printf("      %s\n", item.Record.Prompt)
		cmd.Println()
	}

	return nil
}
