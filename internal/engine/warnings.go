package engine

import (
	"fmt"
	"math"
)

// Thresholds below which a result is statistically weak. Crossing one
// produces an advisory warning, never an error: computation proceeds.
const (
	minReliableVisitors    = 100
	minReliableConversions = 5
	minReliableRate        = 0.005
	identicalRateDelta     = 0.001
	unbalancedRatio        = 5.0
)

// Warning flags structurally valid input whose statistics should be read
// with care.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CheckWarnings scans all variations for conditions that weaken the
// statistical conclusions: thin samples, rare conversions, near-identical
// rates, and badly unbalanced group sizes.
func CheckWarnings(variations []Variation) []Warning {
	var warnings []Warning

	for _, v := range variations {
		if v.Visitors < minReliableVisitors {
			warnings = append(warnings, Warning{
				Code:    "small-sample",
				Message: fmt.Sprintf("%q has only %d visitors; results are unreliable below %d", v.Name, v.Visitors, minReliableVisitors),
			})
		}
		if v.Conversions < minReliableConversions {
			warnings = append(warnings, Warning{
				Code:    "few-conversions",
				Message: fmt.Sprintf("%q has only %d conversions; the normal approximation needs at least %d", v.Name, v.Conversions, minReliableConversions),
			})
		}
		if rate := v.ConversionRate(); rate > 0 && rate < minReliableRate {
			warnings = append(warnings, Warning{
				Code:    "low-rate",
				Message: fmt.Sprintf("%q converts at %.3f%%; rates under %.1f%% need very large samples", v.Name, rate*100, minReliableRate*100),
			})
		}
	}

	minRate, maxRate := math.Inf(1), math.Inf(-1)
	minSize, maxSize := math.MaxInt, 0
	for _, v := range variations {
		rate := v.ConversionRate()
		minRate = math.Min(minRate, rate)
		maxRate = math.Max(maxRate, rate)
		if v.Visitors < minSize {
			minSize = v.Visitors
		}
		if v.Visitors > maxSize {
			maxSize = v.Visitors
		}
	}

	if len(variations) >= 2 && maxRate-minRate < identicalRateDelta {
		warnings = append(warnings, Warning{
			Code:    "near-identical-rates",
			Message: "conversion rates are nearly identical across groups; any difference is likely noise",
		})
	}
	if minSize > 0 && float64(maxSize)/float64(minSize) >= unbalancedRatio {
		warnings = append(warnings, Warning{
			Code:    "unbalanced-groups",
			Message: fmt.Sprintf("group sizes differ by %.0fx or more; the smallest group dominates the error", unbalancedRatio),
		})
	}

	return warnings
}
