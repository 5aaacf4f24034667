package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"hitech-quotation-tool/models"
	"hitech-quotation-tool/utils"
)

// Name check statuses reported to the admin form
const (
	NameStatusUnique    = "unique"
	NameStatusDuplicate = "duplicate"
	NameStatusInvalid   = "invalid"
)

// AddProductInput is the single-add form
type AddProductInput struct {
	Name          string
	Category      string
	NewCategory   string
	IsNewCategory bool
	Image         []byte
}

// ProductService serves the catalog from a short-lived cache and adds single products
type ProductService struct {
	catalog CatalogClientInterface
	host    ImageHostInterface
	ttl     time.Duration
	now     func() time.Time

	mu        sync.Mutex
	products  []models.Product
	fetchedAt time.Time
}

// NewProductService creates a ProductService. A zero ttl disables caching.
func NewProductService(catalog CatalogClientInterface, host ImageHostInterface, ttl time.Duration) *ProductService {
	return &ProductService{
		catalog: catalog,
		host:    host,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Ensure ProductService implements ProductServiceInterface and RefreshNotifier
var (
	_ ProductServiceInterface = (*ProductService)(nil)
	_ RefreshNotifier         = (*ProductService)(nil)
)

// Catalog returns every product, refreshing the cache when stale
func (s *ProductService) Catalog(ctx context.Context) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.products != nil && s.ttl > 0 && s.now().Sub(s.fetchedAt) < s.ttl {
		return s.products, nil
	}

	products, err := s.catalog.FetchAllProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	if products == nil {
		products = []models.Product{}
	}
	s.products = products
	s.fetchedAt = s.now()
	log.Printf("✓ Catalog loaded: %d products", len(products))
	return products, nil
}

// Search filters the cached catalog locally
func (s *ProductService) Search(ctx context.Context, query string) ([]models.Product, error) {
	products, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	return utils.FilterProducts(products, query), nil
}

// Categories returns the distinct categories of the catalog
func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	products, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	return utils.UniqueCategories(products), nil
}

// CheckName validates the name locally and only asks the catalog when it is well formed
func (s *ProductService) CheckName(ctx context.Context, name string) (*models.NameCheckResponse, error) {
	normalized := utils.NormalizeProductName(name)
	if err := utils.ValidateProductName(normalized); err != nil {
		return &models.NameCheckResponse{
			Name:    normalized,
			Status:  NameStatusInvalid,
			Message: err.Error(),
		}, nil
	}

	unique, err := s.catalog.CheckNameUniqueness(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to check name: %w", err)
	}
	if !unique {
		return &models.NameCheckResponse{
			Name:    normalized,
			Status:  NameStatusDuplicate,
			Message: models.DuplicateNameMessage,
		}, nil
	}
	return &models.NameCheckResponse{Name: normalized, Status: NameStatusUnique, IsUnique: true}, nil
}

// AddProduct validates, uploads the optional image and registers one product
func (s *ProductService) AddProduct(ctx context.Context, in AddProductInput) (*models.Product, error) {
	category, err := utils.ResolveCategory(in.Category, in.NewCategory, in.IsNewCategory)
	if err != nil {
		return nil, err
	}

	name := utils.NormalizeProductName(in.Name)
	if err := utils.ValidateProductName(name); err != nil {
		return nil, err
	}

	unique, err := s.catalog.CheckNameUniqueness(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to check name: %w", err)
	}
	if !unique {
		return nil, &models.ValidationError{Field: "name", Message: models.DuplicateNameMessage}
	}

	product, err := ingestProduct(ctx, s.catalog, s.host, name, category, in.Image)
	if err != nil {
		return nil, err
	}

	log.Printf("✓ Product %s added to %s", name, category)
	s.CatalogChanged(ctx, 1)
	return product, nil
}

// CatalogChanged drops the cached catalog so the next read refetches it
func (s *ProductService) CatalogChanged(ctx context.Context, added int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = nil
	log.Printf("🔄 Catalog cache invalidated (%d new products)", added)
}
