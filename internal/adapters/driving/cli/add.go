package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vibelab/promptrec/internal/core/domain"
)

var (
	addID       string
	addTitle    string
	addPrompt   string
	addCategory string
	addTool     string
	addLevel    string
	addKeywords string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a prompt to the library",
	Long: `Adds a new prompt to the library. The prompt body is required;
category, tool, level and keywords improve recommendation quality.`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addID, "id", "", "record ID (generated when omitted)")
	addCmd.Flags().StringVarP(&addTitle, "title", "t", "", "short display title")
	addCmd.Flags().StringVarP(&addPrompt, "prompt", "p", "", "prompt body (required)")
	addCmd.Flags().StringVarP(&addCategory, "category", "c", "", "category, e.g. frontend, backend, data")
	addCmd.Flags().StringVar(&addTool, "tool", "", "target tool, e.g. cursor, copilot")
	addCmd.Flags().StringVar(&addLevel, "level", "", "difficulty level, e.g. beginner, advanced")
	addCmd.Flags().StringVarP(&addKeywords, "keywords", "k", "", "comma-separated keywords")
	_ = addCmd.MarkFlagRequired("prompt")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, _ []string) error {
	if promptStore == nil {
		return errors.New("prompt store not configured")
	}

	id := addID
	if id == "" {
		id = uuid.NewString()
	}

	record := domain.PromptRecord{
		ID:       id,
		Title:    addTitle,
		Prompt:   addPrompt,
		Category: addCategory,
		Tool:     addTool,
		Level:    addLevel,
		Keywords: splitKeywords(addKeywords),
	}

	if err := promptStore.Add(cmd.Context(), record); err != nil {
		return fmt.Errorf("add prompt: %w", err)
	}

	cmd.Printf("Added prompt %s", record.ID)
	if record.Title != "" {
		cmd.Printf(" (%s)", record.Title)
	}
	cmd.Println()
	return nil
}

// splitKeywords parses a comma-separated flag value, trimming whitespace and
// dropping empty entries.
func splitKeywords(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	keywords := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			keywords = append(keywords, trimmed)
		}
	}
	return keywords
}
