package validate

import (
	"fmt"
	"strings"

	"github.com/sigcheck/sigcheck/internal/engine"
)

const (
	// MaxNameLength bounds variation names for display purposes.
	MaxNameLength = 50
	// MaxTreatments caps how many treatments one experiment may carry.
	// The limit is about interpretability, not mathematics: past ten
	// simultaneous comparisons the corrected thresholds stop being useful.
	MaxTreatments = 10
)

// ConfidenceLevels are the discrete levels the engine accepts.
var ConfidenceLevels = []float64{0.80, 0.85, 0.90, 0.95, 0.99}

// Violation is one field-scoped problem with an experiment. Violations are
// data, not errors: callers collect them and ask the user to fix the field.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	return v.Field + ": " + v.Message
}

// Experiment checks every structural invariant of an experiment input and
// returns all violations found, or nil when the input is sound. It never
// mutates or repairs values.
func Experiment(input engine.Input) []Violation {
	var violations []Violation

	violations = append(violations, variation("control", input.Control)...)

	switch {
	case len(input.Treatments) == 0:
		violations = append(violations, Violation{
			Field:   "treatments",
			Message: "at least one treatment is required",
		})
	case len(input.Treatments) > MaxTreatments:
		violations = append(violations, Violation{
			Field:   "treatments",
			Message: fmt.Sprintf("at most %d treatments are supported, got %d", MaxTreatments, len(input.Treatments)),
		})
	}

	for i, t := range input.Treatments {
		violations = append(violations, variation(fmt.Sprintf("treatments[%d]", i), t)...)
	}

	if !validConfidence(input.Confidence) {
		violations = append(violations, Violation{
			Field:   "confidenceLevel",
			Message: fmt.Sprintf("must be one of %s", confidenceList()),
		})
	}

	return violations
}

func variation(field string, v engine.Variation) []Violation {
	var violations []Violation

	if strings.TrimSpace(v.Name) == "" {
		violations = append(violations, Violation{
			Field:   field + ".name",
			Message: "name must not be empty",
		})
	} else if len(v.Name) > MaxNameLength {
		violations = append(violations, Violation{
			Field:   field + ".name",
			Message: fmt.Sprintf("name must be at most %d characters", MaxNameLength),
		})
	}

	if v.Visitors < 1 {
		violations = append(violations, Violation{
			Field:   field + ".visitors",
			Message: "visitors must be at least 1",
		})
	}

	if v.Conversions < 0 {
		violations = append(violations, Violation{
			Field:   field + ".conversions",
			Message: "conversions must not be negative",
		})
	} else if v.Visitors >= 1 && v.Conversions > v.Visitors {
		violations = append(violations, Violation{
			Field:   field + ".conversions",
			Message: fmt.Sprintf("conversions (%d) cannot exceed visitors (%d)", v.Conversions, v.Visitors),
		})
	}

	return violations
}

func validConfidence(level float64) bool {
	for _, c := range ConfidenceLevels {
		if level == c {
			return true
		}
	}
	return false
}

func confidenceList() string {
	parts := make([]string, len(ConfidenceLevels))
	for i, c := range ConfidenceLevels {
		parts[i] = fmt.Sprintf("%.2f", c)
	}
	return strings.Join(parts, ", ")
}
