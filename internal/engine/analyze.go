package engine

import "errors"

// ErrNoTreatments is returned when an analysis is requested with no
// treatment to compare the control against.
var ErrNoTreatments = errors.New("at least one treatment is required")

// Input is a validated experiment: a control, its treatments in display
// order, and the confidence level chosen by the user.
type Input struct {
	Control    Variation   `json:"control"`
	Treatments []Variation `json:"treatments"`
	Confidence float64     `json:"confidenceLevel"`
}

// Analysis is the full outcome for one experiment. With a single treatment
// only TwoProportion is set. With two or more treatments the omnibus
// chi-square runs first, then one pairwise test per treatment, then the
// Bonferroni correction over the pairwise p-values — never over the
// omnibus p-value. Corrections[i] always corresponds to Treatments[i].
type Analysis struct {
	Confidence     float64               `json:"confidenceLevel"`
	Alpha          float64               `json:"alpha"`
	CorrectedAlpha float64               `json:"correctedAlpha,omitempty"`
	TwoProportion  *TwoProportionResult  `json:"twoProportion,omitempty"`
	ChiSquare      *ChiSquareResult      `json:"chiSquare,omitempty"`
	Pairwise       []TwoProportionResult `json:"pairwise,omitempty"`
	Corrections    []BonferroniResult    `json:"corrections,omitempty"`
	Warnings       []Warning             `json:"warnings,omitempty"`
}

// Analyze dispatches an experiment to the right test family. It assumes
// structural validation has already happened; it only guards against the
// shapes it cannot compute on at all.
func Analyze(input Input) (*Analysis, error) {
	if len(input.Treatments) == 0 {
		return nil, ErrNoTreatments
	}

	alpha := 1 - input.Confidence
	all := append([]Variation{input.Control}, input.Treatments...)

	analysis := &Analysis{
		Confidence: input.Confidence,
		Alpha:      alpha,
		Warnings:   CheckWarnings(all),
	}

	if len(input.Treatments) == 1 {
		result := TwoProportionTest(input.Control, input.Treatments[0], input.Confidence)
		analysis.TwoProportion = &result
		return analysis, nil
	}

	omnibus, err := ChiSquareTest(all, input.Confidence)
	if err != nil {
		return nil, err
	}
	analysis.ChiSquare = omnibus

	analysis.Pairwise = PairwiseComparisons(all, input.Confidence)

	pValues := make([]float64, len(analysis.Pairwise))
	for i, r := range analysis.Pairwise {
		pValues[i] = r.PValue
	}
	analysis.Corrections = BonferroniCorrection(pValues, alpha)
	analysis.CorrectedAlpha = analysis.Corrections[0].CorrectedAlpha

	return analysis, nil
}
