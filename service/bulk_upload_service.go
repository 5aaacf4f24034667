package service

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"hitech-quotation-tool/models"
	"hitech-quotation-tool/repository"
	"hitech-quotation-tool/utils"
)

// CancelToken is a cooperative stop signal checked between queue items.
// A nil token is never cancelled.
type CancelToken struct {
	flag atomic.Bool
}

// NewCancelToken creates an unset token
func NewCancelToken() *CancelToken {
	return &CancelToken{}
}

// Cancel raises the flag; items not yet started will not run
func (t *CancelToken) Cancel() {
	if t != nil {
		t.flag.Store(true)
	}
}

// Cancelled reports whether Cancel has been called
func (t *CancelToken) Cancelled() bool {
	return t != nil && t.flag.Load()
}

// Batch is one bulk upload run. Its items are written only by the run loop;
// everyone else reads snapshots.
type Batch struct {
	id       string
	category string

	mu         sync.RWMutex
	items      []*models.UploadQueueItem
	processed  int
	running    bool
	result     *models.BatchResult
	startedAt  time.Time
	finishedAt *time.Time

	consumed atomic.Bool
}

// ID returns the run identifier
func (b *Batch) ID() string { return b.id }

// Category returns the resolved category of the run
func (b *Batch) Category() string { return b.category }

// Snapshot returns a copy of the run state
func (b *Batch) Snapshot() models.BatchSnapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	items := make([]models.UploadQueueItem, len(b.items))
	for i, it := range b.items {
		items[i] = *it
		items[i].Source = nil
	}
	snap := models.BatchSnapshot{
		ID:         b.id,
		Category:   b.category,
		Running:    b.running,
		Processed:  b.processed,
		Total:      len(b.items),
		Items:      items,
		StartedAt:  b.startedAt,
		FinishedAt: b.finishedAt,
	}
	if b.result != nil {
		r := *b.result
		snap.Result = &r
	}
	return snap
}

// Result returns the final counters once the run has ended
func (b *Batch) Result() (models.BatchResult, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.result == nil {
		return models.BatchResult{}, false
	}
	return *b.result, true
}

// transition moves item i to status. Terminal statuses are write-once and
// processing is only entered from pending; anything else is ignored.
func (b *Batch) transition(i int, status models.UploadStatus, message, imageURL string) (models.UploadQueueItem, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	it := b.items[i]
	switch {
	case it.Status.IsTerminal():
		return *it, false
	case status == models.StatusProcessing && it.Status != models.StatusPending:
		return *it, false
	case status == models.StatusPending:
		return *it, false
	}

	it.Status = status
	it.Message = message
	if imageURL != "" {
		it.ImageURL = imageURL
	}
	if status == models.StatusProcessing {
		b.processed = i + 1
	}
	snap := *it
	snap.Source = nil
	return snap, true
}

// FinishedAt returns when the run ended, or nil while it is running
func (b *Batch) FinishedAt() *time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.finishedAt == nil {
		return nil
	}
	t := *b.finishedAt
	return &t
}

// finish records the result and drops the file sources held by the items
func (b *Batch) finish(result models.BatchResult) {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := time.Now()
	b.result = &result
	b.running = false
	b.finishedAt = &now
	for _, it := range b.items {
		it.Source = nil
	}
}

// BulkUploadService processes queued files one at a time
type BulkUploadService struct {
	catalog  CatalogClientInterface
	host     ImageHostInterface
	notifier RefreshNotifier
	runs     repository.BatchRunRepositoryInterface
	throttle time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewBulkUploadService creates a BulkUploadService. notifier and runs may be nil.
func NewBulkUploadService(
	catalog CatalogClientInterface,
	host ImageHostInterface,
	notifier RefreshNotifier,
	runs repository.BatchRunRepositoryInterface,
	throttle time.Duration,
) *BulkUploadService {
	return &BulkUploadService{
		catalog:  catalog,
		host:     host,
		notifier: notifier,
		runs:     runs,
		throttle: throttle,
		sleep:    sleepContext,
	}
}

// Ensure BulkUploadService implements BulkUploadServiceInterface
var _ BulkUploadServiceInterface = (*BulkUploadService)(nil)

// NewQueueItem wraps a source as a pending queue item with its derived name
func NewQueueItem(src models.UploadSource) *models.UploadQueueItem {
	return &models.UploadQueueItem{
		ID:          uuid.NewString(),
		FileName:    src.FileName(),
		DerivedName: utils.DeriveProductName(src.FileName()),
		Status:      models.StatusPending,
		Source:      src,
	}
}

// Start validates the request and prepares the run
func (s *BulkUploadService) Start(ctx context.Context, req models.BatchRequest, token *CancelToken) (*Batch, iter.Seq[models.ItemEvent], error) {
	category, err := utils.ResolveCategory(req.Category, req.NewCategory, req.IsNewCategory)
	if err != nil {
		return nil, nil, err
	}
	if len(req.Items) == 0 {
		return nil, nil, &models.ValidationError{Field: "files", Message: "no files queued for upload"}
	}
	for i, it := range req.Items {
		if it == nil || it.Source == nil {
			return nil, nil, &models.ValidationError{Field: "files", Message: fmt.Sprintf("queue item %d has no file", i+1)}
		}
		if it.Status != "" && it.Status != models.StatusPending {
			return nil, nil, &models.ValidationError{Field: "files", Message: fmt.Sprintf("queue item %s is not pending", it.FileName)}
		}
	}

	items := make([]*models.UploadQueueItem, len(req.Items))
	for i, it := range req.Items {
		cp := *it
		if cp.ID == "" {
			cp.ID = uuid.NewString()
		}
		if cp.FileName == "" {
			cp.FileName = cp.Source.FileName()
		}
		if cp.DerivedName == "" {
			cp.DerivedName = utils.DeriveProductName(cp.FileName)
		}
		cp.Status = models.StatusPending
		cp.Message = ""
		items[i] = &cp
	}

	b := &Batch{
		id:        uuid.NewString(),
		category:  category,
		items:     items,
		running:   true,
		startedAt: time.Now(),
	}

	return b, func(yield func(models.ItemEvent) bool) {
		if !b.consumed.CompareAndSwap(false, true) {
			return
		}
		s.run(ctx, b, token, yield)
	}, nil
}

// Run starts the batch and processes it to the end
func (s *BulkUploadService) Run(ctx context.Context, req models.BatchRequest, token *CancelToken) (*Batch, models.BatchResult, error) {
	b, events, err := s.Start(ctx, req, token)
	if err != nil {
		return nil, models.BatchResult{}, err
	}
	for range events {
	}
	result, _ := b.Result()
	return b, result, nil
}

func (s *BulkUploadService) run(ctx context.Context, b *Batch, token *CancelToken, yield func(models.ItemEvent) bool) {
	log.Printf("🔄 Starting bulk upload %s: %d files, category=%q", b.id, len(b.items), b.category)
	if s.runs != nil {
		if err := s.runs.CreateRun(ctx, b.id, b.category, len(b.items)); err != nil {
			log.Printf("⚠️  Failed to record run %s: %v", b.id, err)
		}
	}

	var result models.BatchResult
	listening := true
	emit := func(i int, item models.UploadQueueItem) {
		if listening && !yield(models.ItemEvent{Index: i, Item: item, At: time.Now()}) {
			// Consumer went away: finish the current item, start no new ones
			listening = false
		}
	}

	for i := range b.items {
		if token.Cancelled() || !listening || ctx.Err() != nil {
			result.Stopped = true
			log.Printf("⏹️  Bulk upload %s stopped before item %d/%d", b.id, i+1, len(b.items))
			break
		}

		item, ok := b.transition(i, models.StatusProcessing, "", "")
		if !ok {
			continue
		}
		emit(i, item)

		status, message, imageURL := s.processItem(ctx, b.category, item)
		item, _ = b.transition(i, status, message, imageURL)

		switch status {
		case models.StatusSuccess:
			result.Added++
			log.Printf("✅ [%d/%d] %s added", i+1, len(b.items), item.DerivedName)
		case models.StatusSkipped:
			result.Skipped++
			log.Printf("⏭️  [%d/%d] %s skipped: %s", i+1, len(b.items), item.DerivedName, message)
		default:
			result.Errors++
			log.Printf("❌ [%d/%d] %s failed: %s", i+1, len(b.items), item.DerivedName, message)
		}

		if s.runs != nil {
			if err := s.runs.RecordItem(ctx, b.id, i, item); err != nil {
				log.Printf("⚠️  Failed to record item %s of run %s: %v", item.ID, b.id, err)
			}
		}
		emit(i, item)

		if i < len(b.items)-1 && s.throttle > 0 {
			if err := s.sleep(ctx, s.throttle); err != nil {
				result.Stopped = true
				break
			}
		}
	}

	b.finish(result)
	log.Printf("🎉 Bulk upload %s finished: %d added, %d skipped, %d errors (stopped=%v)",
		b.id, result.Added, result.Skipped, result.Errors, result.Stopped)

	// Bookkeeping must survive a cancelled request context
	bg := context.WithoutCancel(ctx)
	if s.runs != nil {
		if err := s.runs.FinishRun(bg, b.id, result); err != nil {
			log.Printf("⚠️  Failed to finish run %s: %v", b.id, err)
		}
	}
	if result.Added > 0 && s.notifier != nil {
		s.notifier.CatalogChanged(bg, result.Added)
	}
}

// processItem runs validation, uniqueness, normalization, upload and registration
// for one item and returns its terminal status
func (s *BulkUploadService) processItem(ctx context.Context, category string, item models.UploadQueueItem) (models.UploadStatus, string, string) {
	name := item.DerivedName
	if err := utils.ValidateProductName(name); err != nil {
		return models.StatusError, err.Error(), ""
	}

	unique, err := s.catalog.CheckNameUniqueness(ctx, name)
	if err != nil {
		return models.StatusError, fmt.Sprintf("Validation check failed: %v", err), ""
	}
	if !unique {
		return models.StatusSkipped, models.DuplicateNameMessage, ""
	}

	data, err := readSource(ctx, item.Source)
	if err != nil {
		return models.StatusError, err.Error(), ""
	}
	if len(data) == 0 {
		return models.StatusError, "empty file", ""
	}

	product, err := ingestProduct(ctx, s.catalog, s.host, name, category, data)
	if err != nil {
		return models.StatusError, err.Error(), ""
	}
	return models.StatusSuccess, "", product.ImageURL
}

func readSource(ctx context.Context, src models.UploadSource) ([]byte, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// sleepContext waits for d or until ctx is done
func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
