package engine

// PairwiseComparisons runs the two-proportion test between the control
// (first element) and every other variation, preserving order: result i
// corresponds to variations[i+1]. It is a pure mapping; combining the
// results with an omnibus test and a multiplicity correction is the
// caller's job.
func PairwiseComparisons(variations []Variation, confidence float64) []TwoProportionResult {
	if len(variations) < 2 {
		return nil
	}

	control := variations[0]
	results := make([]TwoProportionResult, 0, len(variations)-1)
	for _, treatment := range variations[1:] {
		results = append(results, TwoProportionTest(control, treatment, confidence))
	}
	return results
}
