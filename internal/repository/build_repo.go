package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/sfvdirectory/sitegen/internal/database"
	"github.com/sfvdirectory/sitegen/internal/models"
)

// buildRepo is the concrete implementation of BuildRepository
type buildRepo struct {
	db *database.DB
}

// NewBuildRepo creates a new build run repository
func NewBuildRepo(db *database.DB) BuildRepository {
	return &buildRepo{db: db}
}

// Create inserts a new build run
func (r *buildRepo) Create(ctx context.Context, run *models.BuildRun) error {
	ctx, cancel := r.db.WithQueryTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO build_runs (id, kind, status, total, generated, failed_count, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		run.ID, run.Kind, run.Status, run.Total, run.Generated, run.FailedCount,
		run.DurationMs, run.CreatedAt,
	)
	return dataAccessError("create build run", err)
}

// Update updates build run status and counters
func (r *buildRepo) Update(ctx context.Context, run *models.BuildRun) error {
	ctx, cancel := r.db.WithQueryTimeout(ctx)
	defer cancel()

	query := `
		UPDATE build_runs SET
			status = $1, total = $2, generated = $3, failed_count = $4, duration_ms = $5,
			error = $6, started_at = $7, completed_at = $8
		WHERE id = $9
	`
	_, err := r.db.ExecContext(ctx, query,
		run.Status, run.Total, run.Generated, run.FailedCount, run.DurationMs,
		nullString(run.Error), run.StartedAt, run.CompletedAt, run.ID,
	)
	return dataAccessError("update build run", err)
}

// GetByID retrieves a build run by ID, or nil when it does not exist
func (r *buildRepo) GetByID(ctx context.Context, id string) (*models.BuildRun, error) {
	ctx, cancel := r.db.WithQueryTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, kind, status, total, generated, failed_count, duration_ms, error,
			created_at, started_at, completed_at
		FROM build_runs WHERE id = $1
	`

	var run models.BuildRun
	var errText sql.NullString
	var startedAt, completedAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&run.ID, &run.Kind, &run.Status, &run.Total, &run.Generated, &run.FailedCount,
		&run.DurationMs, &errText, &run.CreatedAt, &startedAt, &completedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, dataAccessError("get build run", err)
	}

	run.Error = errText.String
	if startedAt.Valid {
		run.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		run.CompletedAt = &completedAt.Time
	}

	return &run, nil
}

// GetPending retrieves all pending build runs, oldest first.
// Nothing is locked here; MarkProcessing decides which processor claims a run.
func (r *buildRepo) GetPending(ctx context.Context) ([]*models.BuildRun, error) {
	ctx, cancel := r.db.WithQueryTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, kind, created_at
		FROM build_runs WHERE status = 'pending'
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, dataAccessError("list pending build runs", err)
	}
	defer rows.Close()

	runs, err := scanPendingRuns(rows)
	return runs, dataAccessError("list pending build runs", err)
}

// MarkProcessing atomically marks a pending build run as processing
func (r *buildRepo) MarkProcessing(ctx context.Context, id string) (bool, error) {
	ctx, cancel := r.db.WithQueryTimeout(ctx)
	defer cancel()

	query := `
		UPDATE build_runs SET status = 'processing', started_at = $1
		WHERE id = $2 AND status = 'pending'
	`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return false, dataAccessError("mark build run processing", err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// AddFailures records the entities a build run could not generate, using the COPY protocol
func (r *buildRepo) AddFailures(ctx context.Context, id string, failures []models.FailedItem) error {
	if len(failures) == 0 {
		return nil
	}

	ctx, cancel := r.db.WithQueryTimeout(ctx)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return dataAccessError("add build failures", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("build_failures",
		"build_id", "slug", "name", "stage", "message",
	))
	if err != nil {
		return dataAccessError("add build failures", err)
	}
	defer stmt.Close()

	for _, f := range failures {
		if _, err := stmt.ExecContext(ctx, id, f.Slug, f.Name, string(f.Stage), f.Error); err != nil {
			return dataAccessError("add build failures", err)
		}
	}

	// Flush the COPY buffer
	if _, err := stmt.ExecContext(ctx); err != nil {
		return dataAccessError("add build failures", err)
	}

	return dataAccessError("add build failures", tx.Commit())
}

// GetFailures retrieves the recorded failures of a build run
func (r *buildRepo) GetFailures(ctx context.Context, id string, limit int) ([]models.FailedItem, error) {
	ctx, cancel := r.db.WithQueryTimeout(ctx)
	defer cancel()

	query := `SELECT slug, name, stage, message FROM build_failures WHERE build_id = $1 ORDER BY slug`

	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = r.db.QueryContext(ctx, query+" LIMIT $2", id, limit)
	} else {
		rows, err = r.db.QueryContext(ctx, query, id)
	}
	if err != nil {
		return nil, dataAccessError("list build failures", err)
	}
	defer rows.Close()

	failures, err := scanFailures(rows)
	return failures, dataAccessError("list build failures", err)
}

// rowIterator is the part of *sql.Rows the scan helpers use
type rowIterator interface {
	rowScanner
	Next() bool
	Err() error
}

func scanPendingRuns(rows rowIterator) ([]*models.BuildRun, error) {
	var runs []*models.BuildRun
	for rows.Next() {
		var run models.BuildRun
		if err := rows.Scan(&run.ID, &run.Kind, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pending build run: %w", err)
		}
		run.Status = models.BuildStatusPending
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}

func scanFailures(rows rowIterator) ([]models.FailedItem, error) {
	var failures []models.FailedItem
	for rows.Next() {
		var f models.FailedItem
		if err := rows.Scan(&f.Slug, &f.Name, &f.Stage, &f.Error); err != nil {
			return nil, fmt.Errorf("scan build failure: %w", err)
		}
		failures = append(failures, f)
	}
	return failures, rows.Err()
}

// helper to convert empty string to NULL
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
