package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("not found")

type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS experiments (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT UNIQUE NOT NULL,
    confidence REAL NOT NULL DEFAULT 0.95,
    created_at INTEGER NOT NULL DEFAULT (unixepoch()),
    updated_at INTEGER NOT NULL DEFAULT (unixepoch())
);

CREATE INDEX IF NOT EXISTS idx_experiments_name ON experiments(name);

CREATE TABLE IF NOT EXISTS variations (
    experiment_id INTEGER NOT NULL,
    pos INTEGER NOT NULL,
    name TEXT NOT NULL,
    visitors INTEGER NOT NULL,
    conversions INTEGER NOT NULL,
    PRIMARY KEY (experiment_id, pos),
    FOREIGN KEY (experiment_id) REFERENCES experiments(id)
);
`

func Open(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Apply schema
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateExperiment(ctx context.Context, name string, confidence float64, variations []Variation) (*Experiment, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	result, err := tx.ExecContext(ctx,
		`INSERT INTO experiments (name, confidence, created_at, updated_at)
		 VALUES (?, ?, ?, ?)`,
		name, confidence, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert experiment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	for i, v := range variations {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO variations (experiment_id, pos, name, visitors, conversions)
			 VALUES (?, ?, ?, ?, ?)`,
			id, i, v.Name, v.Visitors, v.Conversions,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to insert variation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}

	stored := make([]Variation, len(variations))
	for i, v := range variations {
		v.Pos = i
		stored[i] = v
	}

	return &Experiment{
		ID:         id,
		Name:       name,
		Confidence: confidence,
		Variations: stored,
		CreatedAt:  time.Unix(now, 0),
		UpdatedAt:  time.Unix(now, 0),
	}, nil
}

func (s *SQLiteStore) GetExperiment(ctx context.Context, name string) (*Experiment, error) {
	var exp Experiment
	var createdAt, updatedAt int64

	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, confidence, created_at, updated_at
		 FROM experiments WHERE name = ?`, name,
	).Scan(&exp.ID, &exp.Name, &exp.Confidence, &createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get experiment: %w", err)
	}

	exp.CreatedAt = time.Unix(createdAt, 0)
	exp.UpdatedAt = time.Unix(updatedAt, 0)

	exp.Variations, err = s.getVariations(ctx, exp.ID)
	if err != nil {
		return nil, err
	}

	return &exp, nil
}

func (s *SQLiteStore) ListExperiments(ctx context.Context) ([]*Experiment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, confidence, created_at, updated_at
		 FROM experiments ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list experiments: %w", err)
	}
	defer rows.Close()

	var experiments []*Experiment
	for rows.Next() {
		var exp Experiment
		var createdAt, updatedAt int64

		if err := rows.Scan(&exp.ID, &exp.Name, &exp.Confidence, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan experiment: %w", err)
		}

		exp.CreatedAt = time.Unix(createdAt, 0)
		exp.UpdatedAt = time.Unix(updatedAt, 0)

		experiments = append(experiments, &exp)
	}

	for _, exp := range experiments {
		exp.Variations, err = s.getVariations(ctx, exp.ID)
		if err != nil {
			return nil, err
		}
	}

	return experiments, nil
}

func (s *SQLiteStore) UpdateCounts(ctx context.Context, name string, pos int, visitors, conversions int) error {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM experiments WHERE name = ?`, name,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get experiment: %w", err)
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE variations SET visitors = ?, conversions = ?
		 WHERE experiment_id = ? AND pos = ?`,
		visitors, conversions, id, pos,
	)
	if err != nil {
		return fmt.Errorf("failed to update counts: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE experiments SET updated_at = ? WHERE id = ?`,
		time.Now().Unix(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to touch experiment: %w", err)
	}

	return nil
}

func (s *SQLiteStore) DeleteExperiment(ctx context.Context, name string) error {
	// First delete related variations
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM variations WHERE experiment_id IN (SELECT id FROM experiments WHERE name = ?)`, name)
	if err != nil {
		return fmt.Errorf("failed to delete variations: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM experiments WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete experiment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *SQLiteStore) getVariations(ctx context.Context, experimentID int64) ([]Variation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT pos, name, visitors, conversions
		 FROM variations WHERE experiment_id = ? ORDER BY pos`,
		experimentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get variations: %w", err)
	}
	defer rows.Close()

	var variations []Variation
	for rows.Next() {
		var v Variation
		if err := rows.Scan(&v.Pos, &v.Name, &v.Visitors, &v.Conversions); err != nil {
			return nil, fmt.Errorf("failed to scan variation: %w", err)
		}
		variations = append(variations, v)
	}

	return variations, nil
}
