package engine

import "math"

// rateEpsilon nudges observed rates of exactly 0 or 1 off the boundary so
// the variance terms stay positive. Reported conversion rates are untouched.
const rateEpsilon = 1e-6

// GroupSummary echoes a variation's counts and derived rate in a result.
type GroupSummary struct {
	Name           string  `json:"name"`
	ConversionRate float64 `json:"conversionRate"`
	Visitors       int     `json:"visitors"`
	Conversions    int     `json:"conversions"`
}

// ConfidenceInterval is a two-sided interval for the rate difference.
type ConfidenceInterval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// Improvement describes the treatment's lift over the control. Relative is
// nil when the control converted nobody: percent change from zero is
// undefined, not zero.
type Improvement struct {
	Absolute           float64            `json:"absolute"`
	Relative           *float64           `json:"relative"`
	ConfidenceInterval ConfidenceInterval `json:"confidenceInterval"`
}

// TwoProportionResult is the outcome of a two-proportion z-test between a
// control and a single treatment.
type TwoProportionResult struct {
	IsSignificant bool         `json:"isSignificant"`
	PValue        float64      `json:"pValue"`
	TestStatistic float64      `json:"testStatistic"`
	Control       GroupSummary `json:"control"`
	Treatment     GroupSummary `json:"treatment"`
	Improvement   Improvement  `json:"improvement"`
}

// TwoProportionTest runs a two-sided two-proportion z-test.
//
// The p-value uses the pooled standard error, which assumes the null
// hypothesis (equal true rates). The confidence interval uses the unpooled
// standard error, which makes no such assumption and is the right choice
// for estimating the size of the effect.
func TwoProportionTest(control, treatment Variation, confidence float64) TwoProportionResult {
	p1 := control.ConversionRate()
	p2 := treatment.ConversionRate()
	n1 := float64(control.Visitors)
	n2 := float64(treatment.Visitors)

	q1 := clampRate(p1)
	q2 := clampRate(p2)

	// Hypothesis branch: pooled SE under H0: p1 = p2.
	pooled := clampRate(float64(control.Conversions+treatment.Conversions) / (n1 + n2))
	sePooled := math.Sqrt(pooled * (1 - pooled) * (1/n1 + 1/n2))
	z := (q2 - q1) / sePooled
	pValue := 2 * (1 - normalCDF(math.Abs(z)))

	// Estimation branch: unpooled SE for the interval.
	alpha := 1 - confidence
	seUnpooled := math.Sqrt(q1*(1-q1)/n1 + q2*(1-q2)/n2)
	zCrit := zQuantile(1 - alpha/2)

	diff := p2 - p1
	var relative *float64
	if p1 > 0 {
		r := diff / p1 * 100
		relative = &r
	}

	return TwoProportionResult{
		IsSignificant: pValue < alpha,
		PValue:        pValue,
		TestStatistic: z,
		Control:       summarize(control),
		Treatment:     summarize(treatment),
		Improvement: Improvement{
			Absolute: diff,
			Relative: relative,
			ConfidenceInterval: ConfidenceInterval{
				Lower: diff - zCrit*seUnpooled,
				Upper: diff + zCrit*seUnpooled,
			},
		},
	}
}

func summarize(v Variation) GroupSummary {
	return GroupSummary{
		Name:           v.Name,
		ConversionRate: v.ConversionRate(),
		Visitors:       v.Visitors,
		Conversions:    v.Conversions,
	}
}

func clampRate(p float64) float64 {
	if p < rateEpsilon {
		return rateEpsilon
	}
	if p > 1-rateEpsilon {
		return 1 - rateEpsilon
	}
	return p
}
