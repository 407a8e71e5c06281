package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/sigcheck/sigcheck/internal/engine"
	"github.com/sigcheck/sigcheck/internal/store"
	"github.com/sigcheck/sigcheck/internal/validate"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newCreateCmd())
}

func newCreateCmd() *cobra.Command {
	var (
		controlFlag    string
		treatmentFlags []string
		confidence     float64
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Save an experiment",
		Long: `Save an experiment's variations and confidence level for later analysis.

Counts are given as name:visitors:conversions. Without --control the command
walks you through the setup interactively.

Examples:
  sigcheck create checkout-cta --control "Current:700:245" --treatment "New copy:700:210"
  sigcheck create hero --control "A:1200:96" --treatment "B:1180:104" --treatment "C:1210:88" --confidence 0.99
  sigcheck create pricing`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			var input engine.Input
			var err error

			if controlFlag == "" {
				input, err = promptForExperiment()
				if err != nil {
					return err
				}
			} else {
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

			variations := []store.Variation{{
				Name:        input.Control.Name,
				Visitors:    input.Control.Visitors,
				Conversions: input.Control.Conversions,
			}}
			for _, t := range input.Treatments {
				variations = append(variations, store.Variation{
					Name:        t.Name,
					Visitors:    t.Visitors,
					Conversions: t.Conversions,
				})
			}

			return withStore(func(s *store.SQLiteStore) error {
				ctx := context.Background()

				exp, err := s.CreateExperiment(ctx, name, input.Confidence, variations)
				if err != nil {
					return fmt.Errorf("failed to create experiment: %w", err)
				}

				fmt.Printf("Saved experiment '%s' (%.0f%% confidence) with %d variations:\n",
					exp.Name, exp.Confidence*100, len(exp.Variations))
				for _, v := range exp.Variations {
					role := ""
					if v.Pos == 0 {
						role = " (control)"
					}
					fmt.Printf("  %d: %s — %s visitors, %s conversions%s\n",
						v.Pos, v.Name, formatNumber(v.Visitors), formatNumber(v.Conversions), role)
				}
				fmt.Printf("\nRun 'sigcheck analyze %s' to see the results.\n", exp.Name)

				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&controlFlag, "control", "c", "", "control as name:visitors:conversions")
	cmd.Flags().StringArrayVarP(&treatmentFlags, "treatment", "t", nil, "treatment as name:visitors:conversions (repeatable)")
	cmd.Flags().Float64Var(&confidence, "confidence", 0.95, "confidence level (0.80, 0.85, 0.90, 0.95 or 0.99)")

	return cmd
}

func promptForExperiment() (engine.Input, error) {
	confidence, err := promptConfidence()
	if err != nil {
		return engine.Input{}, err
	}

	control, err := promptVariation("Control")
	if err != nil {
		return engine.Input{}, err
	}

	input := engine.Input{Control: control, Confidence: confidence}

	for {
		label := fmt.Sprintf("Treatment %d", len(input.Treatments)+1)
		treatment, err := promptVariation(label)
		if err != nil {
			return engine.Input{}, err
		}
		input.Treatments = append(input.Treatments, treatment)

		if len(input.Treatments) >= validate.MaxTreatments {
			break
		}

		more, err := promptYesNo("Add another treatment?")
		if err != nil {
			return engine.Input{}, err
		}
		if !more {
			break
		}
	}

	return input, nil
}

func promptConfidence() (float64, error) {
	labels := []string{"80%", "85%", "90%", "95%", "99%"}

	prompt := promptui.Select{
		Label:     "Confidence level",
		Items:     labels,
		Size:      5,
		CursorPos: 3, // 95% is the usual choice
	}

	idx, _, err := prompt.Run()
	if err != nil {
		if err == promptui.ErrInterrupt {
			os.Exit(0)
		}
		return 0, err
	}

	return validate.ConfidenceLevels[idx], nil
}

func promptVariation(label string) (engine.Variation, error) {
	name, err := runPrompt(promptui.Prompt{
		Label: label + " name",
		Validate: func(s string) error {
			if s == "" {
				return fmt.Errorf("name must not be empty")
			}
			if len(s) > validate.MaxNameLength {
				return fmt.Errorf("name must be at most %d characters", validate.MaxNameLength)
			}
			return nil
		},
	})
	if err != nil {
		return engine.Variation{}, err
	}

	visitorsStr, err := runPrompt(promptui.Prompt{
		Label: label + " visitors",
		Validate: func(s string) error {
			n, err := validate.ParseCount(s)
			if err != nil {
				return err
			}
			if n < 1 {
				return fmt.Errorf("visitors must be at least 1")
			}
			return nil
		},
	})
	if err != nil {
		return engine.Variation{}, err
	}
	visitors, _ := validate.ParseCount(visitorsStr)

	conversionsStr, err := runPrompt(promptui.Prompt{
		Label: label + " conversions",
		Validate: func(s string) error {
			n, err := validate.ParseCount(s)
			if err != nil {
				return err
			}
			if n < 0 {
				return fmt.Errorf("conversions must not be negative")
			}
			if n > visitors {
				return fmt.Errorf("conversions cannot exceed visitors (%d)", visitors)
			}
			return nil
		},
	})
	if err != nil {
		return engine.Variation{}, err
	}
	conversions, _ := validate.ParseCount(conversionsStr)

	return engine.Variation{Name: name, Visitors: visitors, Conversions: conversions}, nil
}

func promptYesNo(label string) (bool, error) {
	prompt := promptui.Select{
		Label: label,
		Items: []string{"Yes", "No"},
	}

	idx, _, err := prompt.Run()
	if err != nil {
		if err == promptui.ErrInterrupt {
			os.Exit(0)
		}
		return false, err
	}

	return idx == 0, nil
}

func runPrompt(prompt promptui.Prompt) (string, error) {
	value, err := prompt.Run()
	if err != nil {
		if err == promptui.ErrInterrupt {
			os.Exit(0)
		}
		return "", err
	}
	return value, nil
}
