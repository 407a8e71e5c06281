package engine_test

import (
	"math"
	"testing"

	"github.com/sigcheck/sigcheck/internal/engine"
)

func TestTwoProportionTest_KnownSignificant(t *testing.T) {
	// 35% vs 30% at n=700 per arm lands just inside the 95% threshold.
	control := engine.Variation{Name: "Current", Visitors: 700, Conversions: 245}
	treatment := engine.Variation{Name: "New copy", Visitors: 700, Conversions: 210}

	result := engine.TwoProportionTest(control, treatment, 0.95)

	if result.PValue < 0.04 || result.PValue > 0.05 {
		t.Errorf("expected p-value ~0.046, got %f", result.PValue)
	}
	if !result.IsSignificant {
		t.Error("expected significance at 95% confidence")
	}
	if result.TestStatistic >= 0 {
		t.Errorf("treatment converts worse, expected negative z, got %f", result.TestStatistic)
	}
	if result.Improvement.Relative == nil {
		t.Fatal("expected relative improvement to be set")
	}
	if rel := *result.Improvement.Relative; rel < -14.5 || rel > -14.0 {
		t.Errorf("expected relative improvement ~-14.3%%, got %f", rel)
	}
}

func TestTwoProportionTest_KnownNonSignificant(t *testing.T) {
	control := engine.Variation{Name: "A", Visitors: 200, Conversions: 13}
	treatment := engine.Variation{Name: "B", Visitors: 200, Conversions: 16}

	result := engine.TwoProportionTest(control, treatment, 0.95)

	if result.PValue < 0.5 || result.PValue > 0.62 {
		t.Errorf("expected p-value ~0.56, got %f", result.PValue)
	}
	if result.IsSignificant {
		t.Error("expected no significance for a 6.5% vs 8% split at n=200")
	}
}

func TestTwoProportionTest_ZeroConversionControl(t *testing.T) {
	control := engine.Variation{Name: "A", Visitors: 100, Conversions: 0}
	treatment := engine.Variation{Name: "B", Visitors: 100, Conversions: 5}

	result := engine.TwoProportionTest(control, treatment, 0.95)

	if result.Improvement.Relative != nil {
		t.Errorf("relative improvement from a zero rate is undefined, got %f", *result.Improvement.Relative)
	}
	if result.PValue <= 0 || result.PValue >= 1 {
		t.Errorf("expected p-value strictly inside (0,1), got %f", result.PValue)
	}
	if math.IsNaN(result.TestStatistic) || math.IsInf(result.TestStatistic, 0) {
		t.Errorf("expected finite test statistic, got %f", result.TestStatistic)
	}
	ci := result.Improvement.ConfidenceInterval
	if math.IsNaN(ci.Lower) || math.IsNaN(ci.Upper) {
		t.Errorf("expected finite confidence interval, got [%f, %f]", ci.Lower, ci.Upper)
	}
}

func TestTwoProportionTest_Symmetry(t *testing.T) {
	a := engine.Variation{Name: "A", Visitors: 700, Conversions: 245}
	b := engine.Variation{Name: "B", Visitors: 700, Conversions: 210}

	forward := engine.TwoProportionTest(a, b, 0.95)
	backward := engine.TwoProportionTest(b, a, 0.95)

	if math.Abs(forward.PValue-backward.PValue) > 1e-12 {
		t.Errorf("p-value should not depend on direction: %f vs %f", forward.PValue, backward.PValue)
	}
	if math.Abs(forward.TestStatistic+backward.TestStatistic) > 1e-12 {
		t.Errorf("swapping arms should negate z: %f vs %f", forward.TestStatistic, backward.TestStatistic)
	}
	if math.Abs(forward.Improvement.Absolute+backward.Improvement.Absolute) > 1e-12 {
		t.Errorf("swapping arms should negate the absolute improvement: %f vs %f",
			forward.Improvement.Absolute, backward.Improvement.Absolute)
	}
}

func TestTwoProportionTest_IdenticalRates(t *testing.T) {
	a := engine.Variation{Name: "A", Visitors: 1000, Conversions: 100}
	b := engine.Variation{Name: "B", Visitors: 1000, Conversions: 100}

	result := engine.TwoProportionTest(a, b, 0.95)

	if result.PValue < 0.999 {
		t.Errorf("expected p-value ~1 for identical rates, got %f", result.PValue)
	}
	if result.IsSignificant {
		t.Error("identical rates must not be significant")
	}
	ci := result.Improvement.ConfidenceInterval
	if ci.Lower > 0 || ci.Upper < 0 {
		t.Errorf("interval should straddle 0, got [%f, %f]", ci.Lower, ci.Upper)
	}
}

func TestTwoProportionTest_MoreDataMoreConfidence(t *testing.T) {
	// Same 10% vs 12% rates, growing samples. The p-value must shrink.
	sizes := []int{500, 2000, 8000}

	prev := 1.1
	for _, n := range sizes {
		control := engine.Variation{Name: "A", Visitors: n, Conversions: n / 10}
		treatment := engine.Variation{Name: "B", Visitors: n, Conversions: n * 12 / 100}

		result := engine.TwoProportionTest(control, treatment, 0.95)
		if result.PValue >= prev {
			t.Errorf("p-value should decrease with n=%d: %f >= %f", n, result.PValue, prev)
		}
		prev = result.PValue
	}
}

func TestTwoProportionTest_ConfidenceLevelWidensInterval(t *testing.T) {
	control := engine.Variation{Name: "A", Visitors: 1000, Conversions: 100}
	treatment := engine.Variation{Name: "B", Visitors: 1000, Conversions: 120}

	narrow := engine.TwoProportionTest(control, treatment, 0.80)
	wide := engine.TwoProportionTest(control, treatment, 0.99)

	narrowWidth := narrow.Improvement.ConfidenceInterval.Upper - narrow.Improvement.ConfidenceInterval.Lower
	wideWidth := wide.Improvement.ConfidenceInterval.Upper - wide.Improvement.ConfidenceInterval.Lower

	if wideWidth <= narrowWidth {
		t.Errorf("99%% interval (%f) should be wider than 80%% interval (%f)", wideWidth, narrowWidth)
	}
}
