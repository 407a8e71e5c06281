package store

import "context"

// Store defines the interface for experiment storage operations
type Store interface {
	CreateExperiment(ctx context.Context, name string, confidence float64, variations []Variation) (*Experiment, error)
	GetExperiment(ctx context.Context, name string) (*Experiment, error)
	ListExperiments(ctx context.Context) ([]*Experiment, error)
	UpdateCounts(ctx context.Context, name string, pos int, visitors, conversions int) error
	DeleteExperiment(ctx context.Context, name string) error

	// Lifecycle
	Close() error
}
