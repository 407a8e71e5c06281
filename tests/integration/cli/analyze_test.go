package cli_test

import (
	"context"
	"testing"

	"github.com/sigcheck/sigcheck/internal/engine"
	"github.com/sigcheck/sigcheck/internal/store"
	"github.com/sigcheck/sigcheck/internal/validate"
	"github.com/sigcheck/sigcheck/tests/testutil"
)

// Round-trips an experiment through the store and runs the full analysis
// pipeline on what comes back, the way the analyze command does.
func TestStoredExperimentAnalysis(t *testing.T) {
	s := testutil.SetupTestStore(t)
	ctx := context.Background()

	variations := []store.Variation{
		{Name: "Control", Visitors: 1000, Conversions: 100},
		{Name: "Shorter form", Visitors: 1000, Conversions: 150},
		{Name: "Social proof", Visitors: 1000, Conversions: 95},
	}
	if _, err := s.CreateExperiment(ctx, "signup-page", 0.95, variations); err != nil {
		t.Fatalf("CreateExperiment failed: %v", err)
	}

	exp, err := s.GetExperiment(ctx, "signup-page")
	if err != nil {
		t.Fatalf("GetExperiment failed: %v", err)
	}

	input := engine.Input{
		Control:    engine.Variation{Name: exp.Variations[0].Name, Visitors: exp.Variations[0].Visitors, Conversions: exp.Variations[0].Conversions},
		Confidence: exp.Confidence,
	}
	for _, v := range exp.Variations[1:] {
		input.Treatments = append(input.Treatments, engine.Variation{Name: v.Name, Visitors: v.Visitors, Conversions: v.Conversions})
	}

	if violations := validate.Experiment(input); len(violations) != 0 {
		t.Fatalf("stored experiment should validate cleanly, got %v", violations)
	}

	analysis, err := engine.Analyze(input)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if analysis.ChiSquare == nil {
		t.Fatal("expected the omnibus path for 3 stored variations")
	}
	if len(analysis.Corrections) != 2 {
		t.Fatalf("expected one correction per treatment, got %d", len(analysis.Corrections))
	}
	if analysis.Corrections[0].OriginalPValue != analysis.Pairwise[0].PValue {
		t.Error("corrections out of order relative to treatments")
	}
}

func TestStoredCountsUpdateChangesAnalysis(t *testing.T) {
	s := testutil.SetupTestStore(t)
	ctx := context.Background()

	variations := []store.Variation{
		{Name: "Control", Visitors: 1000, Conversions: 100},
		{Name: "B", Visitors: 1000, Conversions: 101},
	}
	if _, err := s.CreateExperiment(ctx, "hero", 0.95, variations); err != nil {
		t.Fatalf("CreateExperiment failed: %v", err)
	}

	analyze := func() *engine.Analysis {
		exp, err := s.GetExperiment(ctx, "hero")
		if err != nil {
			t.Fatalf("GetExperiment failed: %v", err)
		}
		input := engine.Input{
			Control:    engine.Variation{Name: exp.Variations[0].Name, Visitors: exp.Variations[0].Visitors, Conversions: exp.Variations[0].Conversions},
			Treatments: []engine.Variation{{Name: exp.Variations[1].Name, Visitors: exp.Variations[1].Visitors, Conversions: exp.Variations[1].Conversions}},
			Confidence: exp.Confidence,
		}
		analysis, err := engine.Analyze(input)
		if err != nil {
			t.Fatalf("Analyze failed: %v", err)
		}
		return analysis
	}

	before := analyze()
	if before.TwoProportion.IsSignificant {
		t.Fatal("a 0.1pp difference should not start significant")
	}

	// The treatment pulls far ahead once more data arrives.
	if err := s.UpdateCounts(ctx, "hero", 1, 5000, 750); err != nil {
		t.Fatalf("UpdateCounts failed: %v", err)
	}

	after := analyze()
	if !after.TwoProportion.IsSignificant {
		t.Errorf("15%% vs 10%% at n=5000 should be significant, got p=%f", after.TwoProportion.PValue)
	}
}
