package repository

import (
	"context"

	"hitech-quotation-tool/models"
)

// BatchRunRepositoryInterface defines the contract for bulk upload run history
type BatchRunRepositoryInterface interface {
	CreateRun(ctx context.Context, runID, category string, total int) error
	RecordItem(ctx context.Context, runID string, position int, item models.UploadQueueItem) error
	FinishRun(ctx context.Context, runID string, result models.BatchResult) error
	ListRuns(ctx context.Context, limit int) ([]models.BatchRunRecord, error)
}
