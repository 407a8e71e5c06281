package engine_test

import (
	"math"
	"testing"

	"github.com/sigcheck/sigcheck/internal/engine"
)

func TestBonferroniCorrection_ThreeTests(t *testing.T) {
	results := engine.BonferroniCorrection([]float64{0.01, 0.03, 0.08}, 0.05)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	wantAlpha := 0.05 / 3
	for i, r := range results {
		if math.Abs(r.CorrectedAlpha-wantAlpha) > 1e-12 {
			t.Errorf("result %d: corrected alpha %f, want %f", i, r.CorrectedAlpha, wantAlpha)
		}
	}

	// Only p=0.01 survives the corrected threshold of ~0.0167.
	if !results[0].IsSignificant {
		t.Error("p=0.01 should stay significant after correction")
	}
	if results[1].IsSignificant {
		t.Error("p=0.03 should lose significance after correction")
	}
	if results[2].IsSignificant {
		t.Error("p=0.08 should not be significant")
	}

	wantCorrected := []float64{0.03, 0.09, 0.24}
	for i, r := range results {
		if math.Abs(r.CorrectedPValue-wantCorrected[i]) > 1e-12 {
			t.Errorf("result %d: corrected p %f, want %f", i, r.CorrectedPValue, wantCorrected[i])
		}
	}
}

func TestBonferroniCorrection_SingleTestIsNoOp(t *testing.T) {
	results := engine.BonferroniCorrection([]float64{0.03}, 0.05)

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].CorrectedAlpha != 0.05 {
		t.Errorf("corrected alpha should equal alpha for n=1, got %f", results[0].CorrectedAlpha)
	}
	if results[0].CorrectedPValue != 0.03 {
		t.Errorf("corrected p should equal p for n=1, got %f", results[0].CorrectedPValue)
	}
	if !results[0].IsSignificant {
		t.Error("p=0.03 at alpha=0.05 should be significant")
	}
}

func TestBonferroniCorrection_CorrectedPValueCapped(t *testing.T) {
	results := engine.BonferroniCorrection([]float64{0.4, 0.9}, 0.05)

	for i, r := range results {
		if r.CorrectedPValue > 1.0 {
			t.Errorf("result %d: corrected p %f exceeds 1", i, r.CorrectedPValue)
		}
	}
	if results[1].CorrectedPValue != 1.0 {
		t.Errorf("0.9*2 should cap at 1.0, got %f", results[1].CorrectedPValue)
	}
}

func TestBonferroniCorrection_NeverAddsSignificance(t *testing.T) {
	pValues := []float64{0.001, 0.02, 0.04, 0.049, 0.2, 0.8}
	alpha := 0.05

	results := engine.BonferroniCorrection(pValues, alpha)

	before := 0
	after := 0
	for i, p := range pValues {
		if p <= alpha {
			before++
		}
		if results[i].IsSignificant {
			after++
		}
	}

	if after > before {
		t.Errorf("correction created significance: %d before, %d after", before, after)
	}
}

func TestBonferroniCorrection_AlphaDecreasesWithFamilySize(t *testing.T) {
	prev := math.Inf(1)
	for n := 1; n <= 10; n++ {
		pValues := make([]float64, n)
		results := engine.BonferroniCorrection(pValues, 0.05)

		got := results[0].CorrectedAlpha
		if got >= prev {
			t.Errorf("corrected alpha should strictly decrease: n=%d gave %f (previous %f)", n, got, prev)
		}
		prev = got
	}
}

func TestBonferroniCorrection_Empty(t *testing.T) {
	if results := engine.BonferroniCorrection(nil, 0.05); results != nil {
		t.Errorf("expected nil for empty input, got %v", results)
	}
}
