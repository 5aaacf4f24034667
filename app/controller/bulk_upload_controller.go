package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"hitech-quotation-tool/models"
	"hitech-quotation-tool/repository"
	"hitech-quotation-tool/service"
)

const (
	// maxBulkUpload bounds the multipart body of one bulk upload
	maxBulkUpload        = 256 << 20
	// finishedRunRetention is how long a finished run stays readable here;
	// older runs are only available from history
	finishedRunRetention = 30 * time.Minute
)

// memorySource is an uploaded file held in memory until its item runs
type memorySource struct {
	name string
	data []byte
}

func (s *memorySource) FileName() string { return s.name }

func (s *memorySource) Open(ctx context.Context) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.data)), nil
}

type activeRun struct {
	batch *service.Batch
	token *service.CancelToken
}

// driveUploadRequest is the body of POST /admin/bulk-uploads/drive
type driveUploadRequest struct {
	FolderID      string `json:"folderId"`
	Category      string `json:"category"`
	NewCategory   string `json:"newCategory"`
	IsNewCategory bool   `json:"isNewCategory"`
}

// BulkUploadController handles HTTP requests for bulk product uploads
type BulkUploadController struct {
	service service.BulkUploadServiceInterface
	drive   service.DriveServiceInterface
	runs    repository.BatchRunRepositoryInterface

	// Runs started by this process, readable while they execute
	mu        sync.RWMutex
	active    map[string]*activeRun
	retention time.Duration
	now       func() time.Time
}

// NewBulkUploadController creates a new BulkUploadController. drive may be nil.
func NewBulkUploadController(
	bulkService service.BulkUploadServiceInterface,
	drive service.DriveServiceInterface,
	runs repository.BatchRunRepositoryInterface,
) *BulkUploadController {
	return &BulkUploadController{
		service: bulkService,
		drive:   drive,
		runs:    runs,

		active:    make(map[string]*activeRun),
		retention: finishedRunRetention,
		now:       time.Now,
	}
}

// StartUpload handles POST /admin/bulk-uploads
// Multipart: files[], category, newCategory, isNewCategory
func (c *BulkUploadController) StartUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(maxBulkUpload); err != nil {
		http.Error(w, fmt.Sprintf("Invalid form: %v", err), http.StatusBadRequest)
		return
	}

	var items []*models.UploadQueueItem
	for _, header := range r.MultipartForm.File["files"] {
		file, err := header.Open()
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to open %s: %v", header.Filename, err), http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to read %s: %v", header.Filename, err), http.StatusBadRequest)
			return
		}

		item := service.NewQueueItem(&memorySource{name: header.Filename, data: data})
		if preview, err := service.PreviewDataURI(data); err == nil {
			item.PreviewURL = preview
		} else {
			log.Printf("⚠️  No preview for %s: %v", header.Filename, err)
		}
		items = append(items, item)
	}

	isNew, _ := strconv.ParseBool(r.FormValue("isNewCategory"))
	c.start(w, models.BatchRequest{
		Category:      r.FormValue("category"),
		NewCategory:   r.FormValue("newCategory"),
		IsNewCategory: isNew,
		Items:         items,
	})
}

// StartDriveUpload handles POST /admin/bulk-uploads/drive
func (c *BulkUploadController) StartDriveUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if c.drive == nil {
		http.Error(w, "Google Drive is not configured", http.StatusServiceUnavailable)
		return
	}

	var body driveUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	items, err := service.QueueFromDrive(r.Context(), c.drive, body.FolderID)
	if err != nil {
		writeError(w, "Failed to list Drive folder", err)
		return
	}

	c.start(w, models.BatchRequest{
		Category:      body.Category,
		NewCategory:   body.NewCategory,
		IsNewCategory: body.IsNewCategory,
		Items:         items,
	})
}

// start registers the run and drains its events in the background
func (c *BulkUploadController) start(w http.ResponseWriter, req models.BatchRequest) {
	token := service.NewCancelToken()
	// The run outlives the request that started it
	batch, events, err := c.service.Start(context.Background(), req, token)
	if err != nil {
		writeError(w, "Failed to start bulk upload", err)
		return
	}

	c.mu.Lock()
	c.pruneLocked()
	c.active[batch.ID()] = &activeRun{batch: batch, token: token}
	c.mu.Unlock()

	total := len(req.Items)
	go func() {
		for event := range events {
			if event.Item.Status.IsTerminal() {
				log.Printf("📦 Run %s: %d/%d done", batch.ID(), event.Index+1, total)
			}
		}
	}()

	writeJSON(w, http.StatusAccepted, batch.Snapshot())
}

// pruneLocked drops runs that finished longer ago than the retention window.
// Callers must hold c.mu.
func (c *BulkUploadController) pruneLocked() {
	now := c.now()
	for id, run := range c.active {
		if finished := run.batch.FinishedAt(); finished != nil && now.Sub(*finished) >= c.retention {
			delete(c.active, id)
		}
	}
}

func (c *BulkUploadController) lookup(id string) (*activeRun, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	run, ok := c.active[id]
	if !ok {
		return nil, models.ErrRunNotFound
	}
	return run, nil
}

// GetRun handles GET /admin/bulk-uploads/{id}
func (c *BulkUploadController) GetRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.Trim(strings.TrimPrefix(r.URL.Path, "/admin/bulk-uploads/"), "/")
	run, err := c.lookup(id)
	if err != nil {
		writeError(w, "Failed to get run", err)
		return
	}
	writeJSON(w, http.StatusOK, run.batch.Snapshot())
}

// StopRun handles POST /admin/bulk-uploads/{id}/stop
// The item in flight finishes; later items stay pending
func (c *BulkUploadController) StopRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/admin/bulk-uploads/")
	id := strings.TrimSuffix(path, "/stop")
	run, err := c.lookup(id)
	if err != nil {
		writeError(w, "Failed to stop run", err)
		return
	}

	run.token.Cancel()
	log.Printf("⏹️  Stop requested for run %s", id)
	writeJSON(w, http.StatusAccepted, run.batch.Snapshot())
}

// History handles GET /admin/bulk-uploads/history?limit=
func (c *BulkUploadController) History(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	runs, err := c.runs.ListRuns(r.Context(), limit)
	if err != nil {
		writeError(w, "Failed to list runs", err)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}
