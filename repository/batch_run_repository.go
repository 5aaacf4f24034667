package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"hitech-quotation-tool/db"
	"hitech-quotation-tool/models"
)

// BatchRunRepository stores bulk upload history in Postgres
// Implements BatchRunRepositoryInterface
type BatchRunRepository struct {
	db *sql.DB
}

// NewBatchRunRepository creates a BatchRunRepository on the shared connection
func NewBatchRunRepository() *BatchRunRepository {
	return &BatchRunRepository{db: db.DB}
}

// Ensure BatchRunRepository implements BatchRunRepositoryInterface
var _ BatchRunRepositoryInterface = (*BatchRunRepository)(nil)

// CreateRun inserts the run header
func (r *BatchRunRepository) CreateRun(ctx context.Context, runID, category string, total int) error {
	query := `INSERT INTO bulk_upload_runs (id, category, total) VALUES ($1, $2, $3)`
	if _, err := r.db.ExecContext(ctx, query, runID, category, total); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// RecordItem stores the terminal state of one queue item
func (r *BatchRunRepository) RecordItem(ctx context.Context, runID string, position int, item models.UploadQueueItem) error {
	query := `
		INSERT INTO bulk_upload_items (
			run_id, position, item_id, file_name, derived_name, status, message, image_url
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (run_id, position) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query,
		runID,
		position,
		item.ID,
		item.FileName,
		item.DerivedName,
		string(item.Status),
		item.Message,
		item.ImageURL,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run item: %w", err)
	}
	return nil
}

// FinishRun stores the final counters
func (r *BatchRunRepository) FinishRun(ctx context.Context, runID string, result models.BatchResult) error {
	query := `
		UPDATE bulk_upload_runs
		SET added = $2, skipped = $3, errors = $4, stopped = $5, finished_at = now()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query, runID, result.Added, result.Skipped, result.Errors, result.Stopped)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.ErrRunNotFound
	}
	return nil
}

// ListRuns returns the most recent runs first
func (r *BatchRunRepository) ListRuns(ctx context.Context, limit int) ([]models.BatchRunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT id, category, total, added, skipped, errors, stopped, started_at, finished_at
		FROM bulk_upload_runs
		ORDER BY started_at DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := make([]models.BatchRunRecord, 0)
	for rows.Next() {
		var run models.BatchRunRecord
		var finishedAt sql.NullTime
		if err := rows.Scan(
			&run.ID,
			&run.Category,
			&run.Total,
			&run.Added,
			&run.Skipped,
			&run.Errors,
			&run.Stopped,
			&run.StartedAt,
			&finishedAt,
		); err != nil {
			log.Printf("❌ Error scanning run: %v", err)
			continue
		}
		if finishedAt.Valid {
			t := finishedAt.Time
			run.FinishedAt = &t
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}
