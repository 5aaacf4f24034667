package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hitech-quotation-tool/models"
	"hitech-quotation-tool/repository"
)

type bulkFixture struct {
	catalog  *fakeCatalog
	host     *fakeHost
	notifier *fakeNotifier
	runs     *repository.MemoryBatchRunRepository
	service  *BulkUploadService
	sleeps   []time.Duration
}

func newBulkFixture(throttle time.Duration) *bulkFixture {
	f := &bulkFixture{
		catalog:  newFakeCatalog(),
		host:     &fakeHost{},
		notifier: &fakeNotifier{},
		runs:     repository.NewMemoryBatchRunRepository(),
	}
	f.service = NewBulkUploadService(f.catalog, f.host, f.notifier, f.runs, throttle)
	f.service.sleep = func(ctx context.Context, d time.Duration) error {
		f.sleeps = append(f.sleeps, d)
		return ctx.Err()
	}
	return f
}

func (f *bulkFixture) queue(t *testing.T, names ...string) []*models.UploadQueueItem {
	t.Helper()
	items := make([]*models.UploadQueueItem, len(names))
	for i, name := range names {
		items[i] = NewQueueItem(&bytesSource{name: name, data: testPNG(t, 8, 8)})
	}
	return items
}

func statuses(snap models.BatchSnapshot) []models.UploadStatus {
	out := make([]models.UploadStatus, len(snap.Items))
	for i, it := range snap.Items {
		out[i] = it.Status
	}
	return out
}

func TestBulkUploadDuplicateIsSkipped(t *testing.T) {
	f := newBulkFixture(time.Second)
	f.catalog.duplicates["GATE VALVE"] = true

	batch, result, err := f.service.Run(context.Background(), models.BatchRequest{
		Category: "Valves",
		Items:    f.queue(t, "brass valve.png", "gate valve.jpg", "ball valve.png"),
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, models.BatchResult{Added: 2, Skipped: 1, Errors: 0}, result)
	assert.Equal(t, []string{"BRASS VALVE", "BALL VALVE"}, f.catalog.addedNames())
	assert.Equal(t, []string{"brass valve.jpg", "ball valve.jpg"}, f.host.filenames)
	for _, a := range f.catalog.added {
		assert.Equal(t, "Valves", a.Category)
		assert.Equal(t, "https://img.example.com/"+strings.ToLower(a.Name)+".jpg", a.ImageURL)
	}

	snap := batch.Snapshot()
	assert.Equal(t, []models.UploadStatus{models.StatusSuccess, models.StatusSkipped, models.StatusSuccess}, statuses(snap))
	assert.Equal(t, models.DuplicateNameMessage, snap.Items[1].Message)
	assert.False(t, snap.Running)
	assert.Equal(t, 3, snap.Processed)
	require.NotNil(t, snap.Result)

	// Throttle runs between items only
	assert.Equal(t, []time.Duration{time.Second, time.Second}, f.sleeps)
	assert.Equal(t, []int{2}, f.notifier.calls)
}

func TestBulkUploadInvalidNamesMakeNoNetworkCalls(t *testing.T) {
	f := newBulkFixture(0)
	long := strings.Repeat("x", 40)

	batch, result, err := f.service.Run(context.Background(), models.BatchRequest{
		Category: "Valves",
		Items:    f.queue(t, "12345.png", ".png", long+".png"),
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, models.BatchResult{Errors: 3}, result)
	assert.Empty(t, f.catalog.checked)
	assert.Empty(t, f.host.filenames)
	assert.Empty(t, f.catalog.added)
	assert.Empty(t, f.notifier.calls)
	for _, it := range batch.Snapshot().Items {
		assert.Equal(t, models.StatusError, it.Status)
		assert.NotEmpty(t, it.Message)
	}
}

func TestBulkUploadUniquenessFailureIsError(t *testing.T) {
	f := newBulkFixture(0)
	f.catalog.checkErr = errors.New("timeout")

	batch, result, err := f.service.Run(context.Background(), models.BatchRequest{
		Category: "Valves",
		Items:    f.queue(t, "tee.png"),
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, models.BatchResult{Errors: 1}, result)
	item := batch.Snapshot().Items[0]
	assert.Equal(t, models.StatusError, item.Status)
	assert.True(t, strings.HasPrefix(item.Message, "Validation check failed"))
	assert.Empty(t, f.host.filenames)
}

func TestBulkUploadStepFailures(t *testing.T) {
	t.Run("undecodable image", func(t *testing.T) {
		f := newBulkFixture(0)
		items := []*models.UploadQueueItem{NewQueueItem(&bytesSource{name: "tee.png", data: []byte("garbage")})}

		_, result, err := f.service.Run(context.Background(), models.BatchRequest{Category: "Fittings", Items: items}, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Errors)
		assert.Empty(t, f.host.filenames)
		assert.Empty(t, f.catalog.added)
	})

	t.Run("unreadable source", func(t *testing.T) {
		f := newBulkFixture(0)
		items := []*models.UploadQueueItem{NewQueueItem(&bytesSource{name: "tee.png"})}

		_, result, err := f.service.Run(context.Background(), models.BatchRequest{Category: "Fittings", Items: items}, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Errors)
	})

	t.Run("empty file", func(t *testing.T) {
		f := newBulkFixture(0)
		items := []*models.UploadQueueItem{NewQueueItem(&bytesSource{name: "tee.png", data: []byte{}})}

		batch, result, err := f.service.Run(context.Background(), models.BatchRequest{Category: "Fittings", Items: items}, nil)
		require.NoError(t, err)
		assert.Equal(t, models.BatchResult{Errors: 1}, result)
		assert.Equal(t, "empty file", batch.Snapshot().Items[0].Message)
		assert.Empty(t, f.host.filenames)
		assert.Empty(t, f.catalog.added)
		assert.Empty(t, f.notifier.calls)
	})

	t.Run("upload failure", func(t *testing.T) {
		f := newBulkFixture(0)
		f.host.err = errors.New("quota exceeded")

		batch, result, err := f.service.Run(context.Background(), models.BatchRequest{Category: "Fittings", Items: f.queue(t, "tee.png")}, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Errors)
		assert.Contains(t, batch.Snapshot().Items[0].Message, "image upload failed")
		assert.Empty(t, f.catalog.added)
	})

	t.Run("registration failure", func(t *testing.T) {
		f := newBulkFixture(0)
		f.catalog.addErr = errors.New("sheet locked")

		batch, result, err := f.service.Run(context.Background(), models.BatchRequest{Category: "Fittings", Items: f.queue(t, "tee.png")}, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, result.Errors)
		assert.Contains(t, batch.Snapshot().Items[0].Message, "sheet update failed")
	})
}

func TestBulkUploadNewCategory(t *testing.T) {
	f := newBulkFixture(0)

	_, _, err := f.service.Run(context.Background(), models.BatchRequest{
		Category:      "Valves",
		NewCategory:   "  Adhesives ",
		IsNewCategory: true,
		Items:         f.queue(t, "solvent cement.png"),
	}, nil)
	require.NoError(t, err)
	require.Len(t, f.catalog.added, 1)
	assert.Equal(t, "Adhesives", f.catalog.added[0].Category)
}

func TestBulkUploadRejectsBadRequests(t *testing.T) {
	f := newBulkFixture(0)

	_, _, err := f.service.Start(context.Background(), models.BatchRequest{Items: f.queue(t, "tee.png")}, nil)
	var validationErr *models.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "category", validationErr.Field)

	_, _, err = f.service.Start(context.Background(), models.BatchRequest{Category: "Valves"}, nil)
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "files", validationErr.Field)

	done := f.queue(t, "tee.png")
	done[0].Status = models.StatusSuccess
	_, _, err = f.service.Start(context.Background(), models.BatchRequest{Category: "Valves", Items: done}, nil)
	assert.Error(t, err)

	assert.Empty(t, f.catalog.checked)
}

func TestBulkUploadCancelKeepsLaterItemsPending(t *testing.T) {
	f := newBulkFixture(0)
	token := NewCancelToken()
	f.catalog.onCheck = func(name string) {
		if name == "ITEM2" {
			token.Cancel()
		}
	}

	batch, result, err := f.service.Run(context.Background(), models.BatchRequest{
		Category: "Valves",
		Items:    f.queue(t, "item1.png", "item2.png", "item3.png", "item4.png"),
	}, token)
	require.NoError(t, err)

	// The item in flight completes; nothing after it starts
	assert.Equal(t, models.BatchResult{Added: 2, Stopped: true}, result)
	assert.Equal(t, []models.UploadStatus{
		models.StatusSuccess,
		models.StatusSuccess,
		models.StatusPending,
		models.StatusPending,
	}, statuses(batch.Snapshot()))
	assert.Equal(t, []string{"ITEM1", "ITEM2"}, f.catalog.checked)
}

func TestBulkUploadEventsAreOrdered(t *testing.T) {
	f := newBulkFixture(0)
	f.catalog.duplicates["B"] = true

	batch, events, err := f.service.Start(context.Background(), models.BatchRequest{
		Category: "Valves",
		Items:    f.queue(t, "a.png", "b.png", "12.png"),
	}, nil)
	require.NoError(t, err)

	// Nothing runs before the sequence is consumed
	assert.Empty(t, f.catalog.checked)
	assert.True(t, batch.Snapshot().Running)

	type step struct {
		index  int
		status models.UploadStatus
	}
	var got []step
	for ev := range events {
		got = append(got, step{ev.Index, ev.Item.Status})
	}

	assert.Equal(t, []step{
		{0, models.StatusProcessing}, {0, models.StatusSuccess},
		{1, models.StatusProcessing}, {1, models.StatusSkipped},
		{2, models.StatusProcessing}, {2, models.StatusError},
	}, got)

	// A second iteration does not rerun the batch
	for range events {
		t.Fatal("sequence yielded twice")
	}
	result, ok := batch.Result()
	require.True(t, ok)
	assert.Equal(t, models.BatchResult{Added: 1, Skipped: 1, Errors: 1}, result)
}

func TestBulkUploadConsumerBreakStopsRun(t *testing.T) {
	f := newBulkFixture(0)

	batch, events, err := f.service.Start(context.Background(), models.BatchRequest{
		Category: "Valves",
		Items:    f.queue(t, "a.png", "b.png"),
	}, nil)
	require.NoError(t, err)

	for range events {
		break
	}

	snap := batch.Snapshot()
	assert.Equal(t, []models.UploadStatus{models.StatusSuccess, models.StatusPending}, statuses(snap))
	require.NotNil(t, snap.Result)
	assert.True(t, snap.Result.Stopped)
}

func TestBulkUploadRecordsHistory(t *testing.T) {
	f := newBulkFixture(0)

	batch, _, err := f.service.Run(context.Background(), models.BatchRequest{
		Category: "Valves",
		Items:    f.queue(t, "a.png", "12.png"),
	}, nil)
	require.NoError(t, err)

	runs, err := f.runs.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, batch.ID(), runs[0].ID)
	assert.Equal(t, 2, runs[0].Total)
	assert.Equal(t, 1, runs[0].Added)
	assert.Equal(t, 1, runs[0].Errors)
	assert.NotNil(t, runs[0].FinishedAt)

	items := f.runs.Items(batch.ID())
	require.Len(t, items, 2)
	assert.Equal(t, models.StatusSuccess, items[0].Status)
	assert.Equal(t, models.StatusError, items[1].Status)
}

func TestBulkUploadFinishedBatchDropsSources(t *testing.T) {
	f := newBulkFixture(0)
	token := NewCancelToken()
	items := f.queue(t, "a.png", "b.png", "c.png")

	batch, events, err := f.service.Start(context.Background(), models.BatchRequest{Category: "Valves", Items: items}, token)
	require.NoError(t, err)
	assert.Nil(t, batch.FinishedAt())

	for ev := range events {
		if ev.Index == 0 && ev.Item.Status.IsTerminal() {
			token.Cancel()
		}
	}

	require.NotNil(t, batch.FinishedAt())
	for _, it := range batch.items {
		assert.Nil(t, it.Source, "item %s still holds its source", it.FileName)
	}
	assert.Equal(t, models.StatusPending, batch.Snapshot().Items[2].Status)
}

func TestBulkUploadSnapshotsDuringRun(t *testing.T) {
	f := newBulkFixture(0)
	items := f.queue(t, "a.png", "b.png", "c.png")

	batch, events, err := f.service.Start(context.Background(), models.BatchRequest{Category: "Valves", Items: items}, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for ev := range events {
			_ = ev
		}
	}()
	for i := 0; i < 50; i++ {
		snap := batch.Snapshot()
		assert.Len(t, snap.Items, 3)
	}
	wg.Wait()

	result, ok := batch.Result()
	require.True(t, ok)
	assert.Equal(t, 3, result.Added)
}

func TestCancelTokenNilSafe(t *testing.T) {
	var token *CancelToken
	assert.False(t, token.Cancelled())
	token.Cancel()

	token = NewCancelToken()
	assert.False(t, token.Cancelled())
	token.Cancel()
	assert.True(t, token.Cancelled())
}

func TestSleepContext(t *testing.T) {
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
}
