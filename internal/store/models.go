package store

import "time"

// Experiment is a saved set of experiment inputs. Results are never stored;
// analysis is recomputed from the counts on demand.
type Experiment struct {
	ID         int64
	Name       string
	Confidence float64
	Variations []Variation // position 0 is the control
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Variation is one stored arm of an experiment.
type Variation struct {
	Pos         int
	Name        string
	Visitors    int
	Conversions int
}
