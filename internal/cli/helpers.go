package cli

import (
	"fmt"
	"strings"

	"github.com/sigcheck/sigcheck/internal/engine"
	"github.com/sigcheck/sigcheck/internal/store"
	"github.com/sigcheck/sigcheck/internal/validate"
)

// withStore opens the database, executes the function, and handles cleanup.
func withStore(fn func(*store.SQLiteStore) error) error {
	s, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer s.Close()

	return fn(s)
}

// parseVariationFlag parses a "name:visitors:conversions" flag value. The
// counts are taken from the right so names may contain colons.
func parseVariationFlag(value string) (engine.Variation, error) {
	parts := strings.Split(value, ":")
	if len(parts) < 3 {
		return engine.Variation{}, fmt.Errorf("expected name:visitors:conversions, got %q", value)
	}

	name := strings.Join(parts[:len(parts)-2], ":")

	visitors, err := validate.ParseCount(parts[len(parts)-2])
	if err != nil {
		return engine.Variation{}, fmt.Errorf("visitors for %q: %w", name, err)
	}
	conversions, err := validate.ParseCount(parts[len(parts)-1])
	if err != nil {
		return engine.Variation{}, fmt.Errorf("conversions for %q: %w", name, err)
	}

	return engine.Variation{Name: name, Visitors: visitors, Conversions: conversions}, nil
}

// toEngineInput converts a stored experiment into engine input. Position 0
// is the control by convention.
func toEngineInput(exp *store.Experiment) (engine.Input, error) {
	if len(exp.Variations) < 2 {
		return engine.Input{}, fmt.Errorf("experiment '%s' has fewer than 2 variations", exp.Name)
	}

	input := engine.Input{
		Control:    engine.Variation{Name: exp.Variations[0].Name, Visitors: exp.Variations[0].Visitors, Conversions: exp.Variations[0].Conversions},
		Confidence: exp.Confidence,
	}
	for _, v := range exp.Variations[1:] {
		input.Treatments = append(input.Treatments, engine.Variation{
			Name:        v.Name,
			Visitors:    v.Visitors,
			Conversions: v.Conversions,
		})
	}
	return input, nil
}

// reportViolations prints each field-scoped violation and returns a single
// error summarizing the failure.
func reportViolations(violations []validate.Violation) error {
	for _, v := range violations {
		fmt.Printf("  %s\n", v)
	}
	return fmt.Errorf("invalid experiment input (%d problem(s))", len(violations))
}

func formatPercent(rate float64) string {
	if rate == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.2f%%", rate*100)
}

func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	if n < 1000000 {
		return fmt.Sprintf("%d,%03d", n/1000, n%1000)
	}
	return fmt.Sprintf("%d,%03d,%03d", n/1000000, (n/1000)%1000, n%1000)
}
