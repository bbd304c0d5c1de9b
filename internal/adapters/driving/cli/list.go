package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vibelab/promptrec/internal/core/domain"
)

var (
	listCategory string
	listTool     string
	listLevel    string
	listSearch   string
	listJSON     bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List prompts in the library",
	Long: `Lists stored prompts. Filters narrow the output by category, tool,
level or a free-text search over title, body and keywords.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "filter by category")
	listCmd.Flags().StringVar(&listTool, "tool", "", "filter by tool")
	listCmd.Flags().StringVar(&listLevel, "level", "", "filter by level")
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "free-text filter over title, body and keywords")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output prompts as JSON")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	if promptStore == nil {
		return errors.New("prompt store not configured")
	}

	prompts, err := promptStore.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("list prompts: %w", err)
	}

	filtered := filterPrompts(prompts)

	if listJSON {
		data, err := json.MarshalIndent(filtered, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal prompts: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(filtered) == 0 {
		cmd.Println("No prompts found.")
		return nil
	}

	cmd.Printf("Prompts (%d):\n\n", len(filtered))
	for i := range filtered {
		p := &filtered[i]
		title := p.Title
		if title == "" {
			title = p.ID
		}
		cmd.Printf("  %s\n", title)
		cmd.Printf("      ID: %s\n", p.ID)
		if p.Category != "" {
			cmd.Printf("      Category: %s\n", p.Category)
		}
		if p.Tool != "" {
			cmd.Printf("      Tool: %s\n", p.Tool)
		}
		if p.Level != "" {
			cmd.Printf("      Level: %s\n", p.Level)
		}
		if len(p.Keywords) > 0 {
			cmd.Printf("      Keywords: %s\n", strings.Join(p.Keywords, ", "))
		}
		cmd.Println()
	}
	return nil
}

// filterPrompts applies the list flags. Field filters compare
// case-insensitively; the search filter matches a substring of the title,
// body or any keyword.
func filterPrompts(prompts []domain.PromptRecord) []domain.PromptRecord {
	filtered := make([]domain.PromptRecord, 0, len(prompts))
	search := strings.ToLower(strings.TrimSpace(listSearch))

	for _, p := range prompts {
		if listCategory != "" && !strings.EqualFold(p.Category, listCategory) {
			continue
		}
		if listTool != "" && !strings.EqualFold(p.Tool, listTool) {
			continue
		}
		if listLevel != "" && !strings.EqualFold(p.Level, listLevel) {
			continue
		}
		if search != "" && !matchesSearch(p, search) {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

func matchesSearch(p domain.PromptRecord, search string) bool {
	if strings.Contains(strings.ToLower(p.Title), search) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Prompt), search) {
		return true
	}
	for _, kw := range p.Keywords {
		if strings.Contains(strings.ToLower(kw), search) {
			return true
		}
	}
	return false
}
