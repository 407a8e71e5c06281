package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sigcheck/sigcheck/internal/engine"
	"github.com/sigcheck/sigcheck/internal/store"
	"github.com/sigcheck/sigcheck/internal/validate"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newAnalyzeCmd())
}

func newAnalyzeCmd() *cobra.Command {
	var (
		controlFlag    string
		treatmentFlags []string
		confidence     float64
		jsonOutput     bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [name]",
		Short: "Run a significance analysis",
		Long: `Run a significance analysis on a saved experiment or on counts given
directly via flags.

With two variations this is a two-proportion z-test. With three or more it
runs a chi-square omnibus test first, then compares the control against each
treatment, correcting the pairwise p-values with Bonferroni.

Examples:
  sigcheck analyze checkout-cta
  sigcheck analyze --control "Current:700:245" --treatment "New copy:700:210"
  sigcheck analyze --control "A:1000:100" --treatment "B:1000:120" --treatment "C:1000:90" --confidence 0.99
  sigcheck analyze checkout-cta --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input engine.Input

			if len(args) == 1 {
				name := args[0]
				err := withStore(func(s *store.SQLiteStore) error {
					ctx := context.Background()
					exp, err := s.GetExperiment(ctx, name)
					if err != nil {
						if err == store.ErrNotFound {
							return fmt.Errorf("experiment '%s' not found", name)
						}
						return fmt.Errorf("failed to get experiment: %w", err)
					}
					input, err = toEngineInput(exp)
					return err
				})
				if err != nil {
					return err
				}
				if cmd.Flags().Changed("confidence") {
					input.Confidence = confidence
				}
			} else {
				if controlFlag == "" || len(treatmentFlags) == 0 {
					return fmt.Errorf("need an experiment name or --control plus at least one --treatment")
				}

				control, err := parseVariationFlag(controlFlag)
				if err != nil {
					return err
				}
				input = engine.Input{Control: control, Confidence: confidence}
				for _, t := range treatmentFlags {
					treatment, err := parseVariationFlag(t)
					if err != nil {
						return err
					}
					input.Treatments = append(input.Treatments, treatment)
				}
			}

			if violations := validate.Experiment(input); len(violations) > 0 {
				return reportViolations(violations)
			}

			analysis, err := engine.Analyze(input)
			if err != nil {
				return err
			}

			if jsonOutput {
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(analysis)
			}

			renderAnalysis(input, analysis)
			return nil
		},
	}

	cmd.Flags().StringVarP(&controlFlag, "control", "c", "", "control as name:visitors:conversions")
	cmd.Flags().StringArrayVarP(&treatmentFlags, "treatment", "t", nil, "treatment as name:visitors:conversions (repeatable)")
	cmd.Flags().Float64Var(&confidence, "confidence", 0.95, "confidence level (0.80, 0.85, 0.90, 0.95 or 0.99)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "emit the raw analysis as JSON")

	return cmd
}

func renderAnalysis(input engine.Input, analysis *engine.Analysis) {
	fmt.Printf("CONFIDENCE: %.0f%%\n", analysis.Confidence*100)
	fmt.Println()

	// Variation table
	fmt.Println("VARIATION         VISITORS  CONVERSIONS  RATE")
	fmt.Println(strings.Repeat("─", 50))
	printVariationRow(input.Control, "control")
	for _, t := range input.Treatments {
		printVariationRow(t, "")
	}
	fmt.Println()

	if analysis.TwoProportion != nil {
		renderTwoProportion(analysis.TwoProportion, analysis.Confidence)
	} else {
		renderMultiGroup(analysis)
	}

	if len(analysis.Warnings) > 0 {
		fmt.Println()
		fmt.Println("Warnings:")
		for _, w := range analysis.Warnings {
			fmt.Printf("  - %s\n", w.Message)
		}
	}
}

func printVariationRow(v engine.Variation, role string) {
	name := v.Name
	if len(name) > 16 {
		name = name[:13] + "..."
	}
	suffix := ""
	if role != "" {
		suffix = " (" + role + ")"
	}
	fmt.Printf("%-16s  %-8s  %-11s  %s%s\n",
		name,
		formatNumber(v.Visitors),
		formatNumber(v.Conversions),
		formatPercent(v.ConversionRate()),
		suffix,
	)
}

func renderTwoProportion(r *engine.TwoProportionResult, confidence float64) {
	verdict := "NOT SIGNIFICANT"
	if r.IsSignificant {
		verdict = "SIGNIFICANT"
	}

	fmt.Printf("Two-proportion z-test: z = %.3f, p = %.4f  %s\n", r.TestStatistic, r.PValue, verdict)
	fmt.Printf("Absolute change: %+.2fpp\n", r.Improvement.Absolute*100)
	if r.Improvement.Relative != nil {
		fmt.Printf("Relative change: %+.1f%%\n", *r.Improvement.Relative)
	} else {
		fmt.Println("Relative change: undefined (control converted nobody)")
	}
	fmt.Printf("%.0f%% CI for the difference: [%+.2fpp, %+.2fpp]\n",
		confidence*100,
		r.Improvement.ConfidenceInterval.Lower*100,
		r.Improvement.ConfidenceInterval.Upper*100,
	)
}

func renderMultiGroup(analysis *engine.Analysis) {
	cs := analysis.ChiSquare
	verdict := "NOT SIGNIFICANT"
	if cs.IsSignificant {
		verdict = "SIGNIFICANT"
	}
	fmt.Printf("Omnibus chi-square: X2 = %.3f (df %d), p = %.4f  %s\n",
		cs.TestStatistic, cs.DegreesOfFreedom, cs.PValue, verdict)
	fmt.Println()

	fmt.Println("TREATMENT         P-VALUE   CORRECTED P  SIGNIFICANT")
	fmt.Println(strings.Repeat("─", 55))
	for i, pair := range analysis.Pairwise {
		correction := analysis.Corrections[i]
		flag := "no"
		if correction.IsSignificant {
			flag = "yes"
		}

		name := pair.Treatment.Name
		if len(name) > 16 {
			name = name[:13] + "..."
		}
		fmt.Printf("%-16s  %-8.4f  %-11.4f  %s\n",
			name, correction.OriginalPValue, correction.CorrectedPValue, flag)
	}
	fmt.Println()
	fmt.Printf("Corrected alpha (Bonferroni, %d comparisons): %.4f\n",
		len(analysis.Corrections), analysis.CorrectedAlpha)
}
