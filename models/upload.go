package models

import (
	"context"
	"io"
	"time"
)

// UploadStatus is the state of one queue item
type UploadStatus string

const (
	StatusPending    UploadStatus = "pending"
	StatusProcessing UploadStatus = "processing"
	StatusSuccess    UploadStatus = "success"
	StatusSkipped    UploadStatus = "skipped"
	StatusError      UploadStatus = "error"
)

// IsTerminal reports whether the status can no longer change
func (s UploadStatus) IsTerminal() bool {
	return s == StatusSuccess || s == StatusSkipped || s == StatusError
}

// DuplicateNameMessage is recorded on items skipped because the name already exists
const DuplicateNameMessage = "Duplicate name"

// UploadSource gives access to the bytes of a queued file
type UploadSource interface {
	// FileName is the original file name used to derive the product name
	FileName() string
	Open(ctx context.Context) (io.ReadCloser, error)
}

// UploadQueueItem is one file submitted for bulk ingestion
type UploadQueueItem struct {
	ID          string       `json:"id"`
	FileName    string       `json:"fileName"`
	DerivedName string       `json:"derivedName"`
	PreviewURL  string       `json:"preview,omitempty"`
	Status      UploadStatus `json:"status"`
	Message     string       `json:"message,omitempty"`
	ImageURL    string       `json:"imageUrl,omitempty"`

	Source UploadSource `json:"-"`
}

// ItemEvent is emitted every time a queue item changes status
type ItemEvent struct {
	Index int             `json:"index"`
	Item  UploadQueueItem `json:"item"`
	At    time.Time       `json:"at"`
}

// BatchResult holds the aggregate counters of a bulk run
type BatchResult struct {
	Added   int  `json:"added"`
	Skipped int  `json:"skipped"`
	Errors  int  `json:"errors"`
	Stopped bool `json:"stopped"`
}

// BatchRequest starts a bulk run
type BatchRequest struct {
	Category      string
	NewCategory   string
	IsNewCategory bool
	Items         []*UploadQueueItem
}

// BatchSnapshot is a read-only view of a run
type BatchSnapshot struct {
	ID         string            `json:"id"`
	Category   string            `json:"category"`
	Running    bool              `json:"running"`
	Processed  int               `json:"processed"`
	Total      int               `json:"total"`
	Items      []UploadQueueItem `json:"items"`
	Result     *BatchResult      `json:"result,omitempty"`
	StartedAt  time.Time         `json:"startedAt"`
	FinishedAt *time.Time        `json:"finishedAt,omitempty"`
}

// BatchRunRecord is a persisted summary of a finished run
type BatchRunRecord struct {
	ID         string     `json:"id"`
	Category   string     `json:"category"`
	Total      int        `json:"total"`
	Added      int        `json:"added"`
	Skipped    int        `json:"skipped"`
	Errors     int        `json:"errors"`
	Stopped    bool       `json:"stopped"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}
