package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"hitech-quotation-tool/models"
)

// MemoryBatchRunRepository keeps run history in process memory.
// Used when no database is configured.
type MemoryBatchRunRepository struct {
	mu    sync.Mutex
	runs  map[string]*models.BatchRunRecord
	items map[string][]models.UploadQueueItem
}

// NewMemoryBatchRunRepository creates an empty in-memory history
func NewMemoryBatchRunRepository() *MemoryBatchRunRepository {
	return &MemoryBatchRunRepository{
		runs:  make(map[string]*models.BatchRunRecord),
		items: make(map[string][]models.UploadQueueItem),
	}
}

// Ensure MemoryBatchRunRepository implements BatchRunRepositoryInterface
var _ BatchRunRepositoryInterface = (*MemoryBatchRunRepository)(nil)

func (r *MemoryBatchRunRepository) CreateRun(ctx context.Context, runID, category string, total int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[runID] = &models.BatchRunRecord{
		ID:        runID,
		Category:  category,
		Total:     total,
		StartedAt: time.Now(),
	}
	return nil
}

func (r *MemoryBatchRunRepository) RecordItem(ctx context.Context, runID string, position int, item models.UploadQueueItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.runs[runID]; !ok {
		return models.ErrRunNotFound
	}
	item.Source = nil
	r.items[runID] = append(r.items[runID], item)
	return nil
}

func (r *MemoryBatchRunRepository) FinishRun(ctx context.Context, runID string, result models.BatchResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[runID]
	if !ok {
		return models.ErrRunNotFound
	}
	now := time.Now()
	run.Added = result.Added
	run.Skipped = result.Skipped
	run.Errors = result.Errors
	run.Stopped = result.Stopped
	run.FinishedAt = &now
	return nil
}

func (r *MemoryBatchRunRepository) ListRuns(ctx context.Context, limit int) ([]models.BatchRunRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	runs := make([]models.BatchRunRecord, 0, len(r.runs))
	for _, run := range r.runs {
		runs = append(runs, *run)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].StartedAt.After(runs[j].StartedAt) })
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// Items returns the recorded items of a run in recording order
func (r *MemoryBatchRunRepository) Items(runID string) []models.UploadQueueItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.UploadQueueItem(nil), r.items[runID]...)
}
