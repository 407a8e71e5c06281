package cli

import (
	"context"
	"fmt"

	"github.com/sigcheck/sigcheck/internal/store"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved experiment",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	name := args[0]

	return withStore(func(s *store.SQLiteStore) error {
		ctx := context.Background()

		if err := s.DeleteExperiment(ctx, name); err != nil {
			if err == store.ErrNotFound {
				return fmt.Errorf("experiment '%s' not found", name)
			}
			return fmt.Errorf("failed to delete experiment: %w", err)
		}

		fmt.Printf("Deleted experiment '%s'\n", name)
		return nil
	})
}
