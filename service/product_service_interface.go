package service

import (
	"context"

	"hitech-quotation-tool/models"
)

// ProductServiceInterface defines the contract for catalog browsing and single adds
type ProductServiceInterface interface {
	Catalog(ctx context.Context) ([]models.Product, error)
	Search(ctx context.Context, query string) ([]models.Product, error)
	Categories(ctx context.Context) ([]string, error)
	CheckName(ctx context.Context, name string) (*models.NameCheckResponse, error)
	AddProduct(ctx context.Context, in AddProductInput) (*models.Product, error)
}
