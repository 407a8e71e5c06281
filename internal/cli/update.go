package cli

import (
	"context"
	"fmt"

	"github.com/sigcheck/sigcheck/internal/store"
	"github.com/sigcheck/sigcheck/internal/validate"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newUpdateCmd())
}

func newUpdateCmd() *cobra.Command {
	var (
		pos            int
		visitorsStr    string
		conversionsStr string
	)

	cmd := &cobra.Command{
		Use:   "update <name>",
		Short: "Update a variation's counts",
		Long: `Update the visitor and conversion counts of one variation in a saved
experiment. Variation 0 is the control.

Example:
  sigcheck update checkout-cta --variation 1 --visitors 1,450 --conversions 131`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			visitors, err := validate.ParseCount(visitorsStr)
			if err != nil {
				return fmt.Errorf("invalid --visitors: %w", err)
			}
			conversions, err := validate.ParseCount(conversionsStr)
			if err != nil {
				return fmt.Errorf("invalid --conversions: %w", err)
			}

			if visitors < 1 {
				return fmt.Errorf("visitors must be at least 1")
			}
			if conversions < 0 || conversions > visitors {
				return fmt.Errorf("conversions must be between 0 and visitors (%d)", visitors)
			}

			return withStore(func(s *store.SQLiteStore) error {
				ctx := context.Background()

				exp, err := s.GetExperiment(ctx, name)
				if err != nil {
					if err == store.ErrNotFound {
						return fmt.Errorf("experiment '%s' not found", name)
					}
					return fmt.Errorf("failed to get experiment: %w", err)
				}

				if pos < 0 || pos >= len(exp.Variations) {
					return fmt.Errorf("invalid variation index: %d (experiment has %d variations: 0-%d)",
						pos, len(exp.Variations), len(exp.Variations)-1)
				}

				if err := s.UpdateCounts(ctx, name, pos, visitors, conversions); err != nil {
					return fmt.Errorf("failed to update counts: %w", err)
				}

				fmt.Printf("Updated '%s' variation %d (\"%s\"): %s visitors, %s conversions\n",
					name, pos, exp.Variations[pos].Name, formatNumber(visitors), formatNumber(conversions))

				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&pos, "variation", "v", -1, "variation index to update (required)")
	cmd.Flags().StringVar(&visitorsStr, "visitors", "", "new visitor count (required)")
	cmd.Flags().StringVar(&conversionsStr, "conversions", "", "new conversion count (required)")
	cmd.MarkFlagRequired("variation")
	cmd.MarkFlagRequired("visitors")
	cmd.MarkFlagRequired("conversions")

	return cmd
}
