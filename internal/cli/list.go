package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/sigcheck/sigcheck/internal/store"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved experiments",
	Long:  `List all saved experiments with their totals and confidence levels.`,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	return withStore(func(s *store.SQLiteStore) error {
		ctx := context.Background()

		experiments, err := s.ListExperiments(ctx)
		if err != nil {
			return fmt.Errorf("failed to list experiments: %w", err)
		}

		if len(experiments) == 0 {
			fmt.Println("No experiments yet.")
			fmt.Println()
			fmt.Println("Save one with:")
			fmt.Println("  sigcheck create my-test --control \"A:1000:100\" --treatment \"B:1000:120\"")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tGROUPS\tCONFIDENCE\tVISITORS\tCONVERSIONS\tUPDATED")

		for _, exp := range experiments {
			totalVisitors := 0
			totalConversions := 0
			for _, v := range exp.Variations {
				totalVisitors += v.Visitors
				totalConversions += v.Conversions
			}

			fmt.Fprintf(w, "%s\t%d\t%.0f%%\t%s\t%s\t%s\n",
				exp.Name,
				len(exp.Variations),
				exp.Confidence*100,
				formatNumber(totalVisitors),
				formatNumber(totalConversions),
				exp.UpdatedAt.Format("2006-01-02"),
			)
		}

		w.Flush()
		return nil
	})
}
