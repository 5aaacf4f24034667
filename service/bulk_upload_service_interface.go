package service

import (
	"context"
	"iter"

	"hitech-quotation-tool/models"
)

// BulkUploadServiceInterface defines the contract for bulk product ingestion
type BulkUploadServiceInterface interface {
	// Start validates the request and returns the batch plus the lazy event sequence
	// that drives it. Nothing is processed until the sequence is iterated.
	Start(ctx context.Context, req models.BatchRequest, token *CancelToken) (*Batch, iter.Seq[models.ItemEvent], error)
	// Run starts the batch and drains its events
	Run(ctx context.Context, req models.BatchRequest, token *CancelToken) (*Batch, models.BatchResult, error)
}

// RefreshNotifier is told when a run added products to the catalog
type RefreshNotifier interface {
	CatalogChanged(ctx context.Context, added int)
}
