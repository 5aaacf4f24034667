package controller

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"hitech-quotation-tool/models"
)

type fakeCatalog struct {
	mu         sync.Mutex
	products   []models.Product
	duplicates map[string]bool
	added      []models.NewProductRequest
	quotations []models.QuotationRequest
}

func (f *fakeCatalog) FetchAllProducts(ctx context.Context) ([]models.Product, error) {
	return f.products, nil
}

func (f *fakeCatalog) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	return f.products, nil
}

func (f *fakeCatalog) CheckNameUniqueness(ctx context.Context, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.duplicates[name], nil
}

func (f *fakeCatalog) AddProduct(ctx context.Context, req models.NewProductRequest) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, req)
	return &models.Product{Name: req.Name, Category: req.Category, ImageURL: req.ImageURL}, nil
}

func (f *fakeCatalog) GenerateQuotation(ctx context.Context, req models.QuotationRequest) (*models.QuotationResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quotations = append(f.quotations, req)
	return &models.QuotationResult{DownloadURL: "https://docs.example.com/q.pdf"}, nil
}

type fakeHost struct{}

func (fakeHost) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	return "https://img.example.com/" + filename, nil
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}
