package engine

import "math"

// DefaultAlpha is the family-wise error budget used when the caller does
// not choose one.
const DefaultAlpha = 0.05

// BonferroniResult is the corrected view of one p-value from a family of
// simultaneous tests.
type BonferroniResult struct {
	OriginalPValue  float64 `json:"originalPValue"`
	CorrectedPValue float64 `json:"correctedPValue"`
	CorrectedAlpha  float64 `json:"correctedAlpha"`
	IsSignificant   bool    `json:"isSignificant"`
}

// BonferroniCorrection controls the family-wise error rate for a set of
// simultaneous tests by dividing alpha by the family size. Output order
// matches input order; with a single p-value the correction is a no-op.
// It is deliberately conservative: a comparison that looks significant on
// its own can stop being significant once tested alongside others.
func BonferroniCorrection(pValues []float64, alpha float64) []BonferroniResult {
	if len(pValues) == 0 {
		return nil
	}

	n := float64(len(pValues))
	correctedAlpha := alpha / n

	results := make([]BonferroniResult, len(pValues))
	for i, p := range pValues {
		results[i] = BonferroniResult{
			OriginalPValue:  p,
			CorrectedPValue: math.Min(p*n, 1.0),
			CorrectedAlpha:  correctedAlpha,
			IsSignificant:   p <= correctedAlpha,
		}
	}
	return results
}
