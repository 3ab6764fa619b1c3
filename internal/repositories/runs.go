package repositories

import (
	"database/sql"
	"fmt"

	"github.com/akoval/topspin/internal/models"
)

// RunRepository stores completed catalog passes.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a RunRepository with the given database connection.
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a completed run. The caller supplies the ID.
func (r *RunRepository) Create(run models.Run) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO runs (id, kind, policy, total, eligible, updated, failed, skipped, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		run.ID,
		string(run.Kind),
		run.Policy,
		run.Total,
		run.Eligible,
		run.Updated,
		run.Failed,
		run.Skipped,
		run.StartedAt,
		run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	return nil
}

// Get retrieves one run by ID.
func (r *RunRepository) Get(id string) (*models.Run, error) {
	query := `
		SELECT id, kind, policy, total, eligible, updated, failed, skipped, started_at, finished_at
		FROM runs
		WHERE id = ?
	`

	run, err := scanRun(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	return run, nil
}

// List retrieves the most recent runs, newest first. A non-positive limit
// defaults to 20.
func (r *RunRepository) List(limit int) ([]models.Run, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, kind, policy, total, eligible, updated, failed, skipped, started_at, finished_at
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	return runs, nil
}

// scanner abstracts sql.Row and sql.Rows for scanRun.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*models.Run, error) {
	var run models.Run
	var kind string

	err := s.Scan(
		&run.ID,
		&kind,
		&run.Policy,
		&run.Total,
		&run.Eligible,
		&run.Updated,
		&run.Failed,
		&run.Skipped,
		&run.StartedAt,
		&run.FinishedAt,
	)
	if err != nil {
		return nil, err
	}

	run.Kind = models.RunKind(kind)
	return &run, nil
}
