package cli

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/sigcheck/sigcheck/internal/store"
	"github.com/spf13/cobra"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export <name>",
	Short: "Export a saved experiment's inputs",
	Long: `Export the stored variation counts in CSV or JSON format.

Examples:
  sigcheck export checkout-cta --format csv > checkout-cta.csv
  sigcheck export checkout-cta --format json > checkout-cta.json`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "output format (csv or json)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	name := args[0]

	if exportFormat != "csv" && exportFormat != "json" {
		return fmt.Errorf("invalid format: must be 'csv' or 'json'")
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

		if exportFormat == "csv" {
			return exportCSV(exp)
		}
		return exportJSON(exp)
	})
}

func exportCSV(exp *store.Experiment) error {
	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	// Write header
	if err := w.Write([]string{"position", "name", "visitors", "conversions"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, v := range exp.Variations {
		row := []string{
			strconv.Itoa(v.Pos),
			v.Name,
			strconv.Itoa(v.Visitors),
			strconv.Itoa(v.Conversions),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	return nil
}

type jsonExport struct {
	Name            string          `json:"name"`
	ConfidenceLevel float64         `json:"confidenceLevel"`
	Variations      []jsonVariation `json:"variations"`
}

type jsonVariation struct {
	Position    int    `json:"position"`
	Name        string `json:"name"`
	Visitors    int    `json:"visitors"`
	Conversions int    `json:"conversions"`
}

func exportJSON(exp *store.Experiment) error {
	export := jsonExport{
		Name:            exp.Name,
		ConfidenceLevel: exp.Confidence,
		Variations:      make([]jsonVariation, len(exp.Variations)),
	}

	for i, v := range exp.Variations {
		export.Variations[i] = jsonVariation{
			Position:    v.Pos,
			Name:        v.Name,
			Visitors:    v.Visitors,
			Conversions: v.Conversions,
		}
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(export)
}
