package service

import (
	"context"

	"hitech-quotation-tool/models"
)

// CatalogClientInterface defines the contract for the spreadsheet catalog backend
type CatalogClientInterface interface {
	FetchAllProducts(ctx context.Context) ([]models.Product, error)
	SearchProducts(ctx context.Context, query string) ([]models.Product, error)
	CheckNameUniqueness(ctx context.Context, name string) (bool, error)
	AddProduct(ctx context.Context, req models.NewProductRequest) (*models.Product, error)
	GenerateQuotation(ctx context.Context, req models.QuotationRequest) (*models.QuotationResult, error)
}
