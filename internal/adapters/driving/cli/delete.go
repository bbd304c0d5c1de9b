package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a prompt from the library",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	if promptStore == nil {
		return errors.New("prompt store not configured")
	}

	id := args[0]
	if err := promptStore.Delete(cmd.Context(), id); err != nil {
		return fmt.Errorf("delete prompt: %w", err)
	}

	cmd.Printf("Deleted prompt %s\n", id)
	return nil
}
