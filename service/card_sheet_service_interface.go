package service

import (
	"context"

	"hitech-quotation-tool/models"
)

// CardSheetServiceInterface defines the contract for printable card sheets
type CardSheetServiceInterface interface {
	RenderSheet(ctx context.Context, req models.CardSheetRequest) (string, error)
	GeneratePDF(ctx context.Context, req models.CardSheetRequest) ([]byte, error)
}
