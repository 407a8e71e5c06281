package engine

import (
	"errors"
	"math"
)

// ErrTooFewGroups is returned when the chi-square test is asked about fewer
// than three variations; the two-group case belongs to TwoProportionTest.
var ErrTooFewGroups = errors.New("chi-square test requires at least 3 variations")

// ChiSquareResult is the outcome of the omnibus chi-square test of
// independence over a k×2 contingency table. Row i of each matrix is
// [conversions, non-conversions] for variation i.
type ChiSquareResult struct {
	IsSignificant    bool         `json:"isSignificant"`
	PValue           float64      `json:"pValue"`
	TestStatistic    float64      `json:"testStatistic"`
	DegreesOfFreedom int          `json:"degreesOfFreedom"`
	Observed         [][2]float64 `json:"observed"`
	Expected         [][2]float64 `json:"expected"`
	Residuals        [][2]float64 `json:"residuals"`
}

// ChiSquareTest answers whether any real difference in conversion rate
// exists across three or more variations. It does not say which variation
// drives a difference; the standardized residuals let callers find out.
func ChiSquareTest(variations []Variation, confidence float64) (*ChiSquareResult, error) {
	if len(variations) < 3 {
		return nil, ErrTooFewGroups
	}

	totalVisitors := 0
	totalConversions := 0
	for _, v := range variations {
		totalVisitors += v.Visitors
		totalConversions += v.Conversions
	}
	overallRate := float64(totalConversions) / float64(totalVisitors)

	k := len(variations)
	observed := make([][2]float64, k)
	expected := make([][2]float64, k)
	residuals := make([][2]float64, k)

	statistic := 0.0
	for i, v := range variations {
		n := float64(v.Visitors)
		observed[i] = [2]float64{float64(v.Conversions), n - float64(v.Conversions)}
		expected[i] = [2]float64{n * overallRate, n * (1 - overallRate)}

		for j := 0; j < 2; j++ {
			// A zero expected count means the whole column is zero, so
			// the observed cell is zero too and contributes nothing.
			if expected[i][j] == 0 {
				continue
			}
			diff := observed[i][j] - expected[i][j]
			statistic += diff * diff / expected[i][j]
			residuals[i][j] = diff / math.Sqrt(expected[i][j])
		}
	}

	df := k - 1
	pValue := 1 - chiSquareCDF(statistic, df)
	alpha := 1 - confidence

	return &ChiSquareResult{
		IsSignificant:    pValue < alpha,
		PValue:           pValue,
		TestStatistic:    statistic,
		DegreesOfFreedom: df,
		Observed:         observed,
		Expected:         expected,
		Residuals:        residuals,
	}, nil
}
