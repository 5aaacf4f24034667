package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"hitech-quotation-tool/app/controller"
	"hitech-quotation-tool/app/router"
	"hitech-quotation-tool/config"
	"hitech-quotation-tool/db"
	"hitech-quotation-tool/repository"
	"hitech-quotation-tool/service"
)

// catalogCacheTTL is how long a fetched catalog is served before refetching
const catalogCacheTTL = 5 * time.Minute

// Initialize wires services and controllers and returns the HTTP handler
func Initialize(ctx context.Context, cfg *config.Config) (http.Handler, error) {
	// Run history: Postgres when configured, otherwise process memory
	var runs repository.BatchRunRepositoryInterface
	if connStr := db.ConnectionString(); connStr != "" {
		if err := db.InitDB(connStr); err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		runs = repository.NewBatchRunRepository()
	} else {
		log.Printf("⚠️  No database configured, run history is kept in memory")
		runs = repository.NewMemoryBatchRunRepository()
	}

	host, err := newImageHost(cfg)
	if err != nil {
		return nil, err
	}

	fonts, err := service.LoadFontSet(cfg.CardFontRegular, cfg.CardFontBold)
	if err != nil {
		return nil, fmt.Errorf("failed to load card fonts: %w", err)
	}

	// Drive ingestion is optional
	var drive service.DriveServiceInterface
	if cfg.GoogleCredentialsPath != "" {
		driveService, err := service.NewDriveService(ctx, cfg.GoogleCredentialsPath)
		if err != nil {
			return nil, err
		}
		drive = driveService
	} else {
		log.Printf("⚠️  GOOGLE_APPLICATION_CREDENTIALS not set, Drive uploads disabled")
	}

	catalog := service.NewCatalogClient(cfg.CatalogAPIURL, cfg.HTTPTimeout)
	productService := service.NewProductService(catalog, host, catalogCacheTTL)
	bulkService := service.NewBulkUploadService(catalog, host, productService, runs, cfg.UploadThrottle)

	loader := service.NewHTTPImageLoader(cfg.HTTPTimeout)
	renderer := service.NewCardRenderer(loader, fonts, cfg.CardLogoPath, cfg.CardCompanyName, cfg.CardScale)
	sheets := service.NewCardSheetService(renderer, cfg.ChromePath)

	// Create controllers
	controllers := &router.Controllers{
		Product:    controller.NewProductController(productService),
		Card:       controller.NewCardController(renderer, sheets),
		BulkUpload: controller.NewBulkUploadController(bulkService, drive, runs),
		Quotation:  controller.NewQuotationController(catalog),
	}

	mux := http.NewServeMux()
	router.SetupRoutes(mux, controllers)

	return mux, nil
}

func newImageHost(cfg *config.Config) (service.ImageHostInterface, error) {
	switch cfg.ImageHost {
	case config.ImageHostImgBB:
		return service.NewImgBBHost(cfg.ImgBBAPIURL, cfg.ImgBBAPIKey, cfg.HTTPTimeout), nil
	case config.ImageHostSupabase:
		return service.NewSupabaseHost(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseStorageBucket), nil
	default:
		return nil, fmt.Errorf("unknown image host %q", cfg.ImageHost)
	}
}
