package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	dbPath string
)

var rootCmd = &cobra.Command{
	Use:   "sigcheck",
	Short: "Sigcheck - A statistical significance calculator for A/B tests",
	Long: `Sigcheck tells you whether the difference between your A/B test
variations is real or noise. Feed it visitor and conversion counts and it
runs a two-proportion z-test (two groups) or a chi-square omnibus test with
Bonferroni-corrected pairwise comparisons (three or more groups).

Experiments can be saved to an embedded SQLite database and re-analyzed as
counts come in.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", getEnvOrDefault("SIGCHECK_DB_PATH", "./sigcheck.db"), "database path")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
