package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Image host identifiers accepted in IMAGE_HOST
const (
	ImageHostImgBB    = "imgbb"
	ImageHostSupabase = "supabase"
)

type Config struct {
	// Server
	Port        string
	Environment string
	BaseURL     string

	// Spreadsheet catalog (Apps Script web app)
	CatalogAPIURL string
	HTTPTimeout   time.Duration

	// Image hosting
	ImageHost             string
	ImgBBAPIKey           string
	ImgBBAPIURL           string
	SupabaseURL           string
	SupabaseServiceKey    string
	SupabaseStorageBucket string

	// Bulk upload
	UploadThrottle time.Duration

	// Card rendering
	CardLogoPath    string
	CardCompanyName string
	CardFontRegular string
	CardFontBold    string
	CardScale       float64

	// Optional integrations
	GoogleCredentialsPath string
	ChromePath            string
}

func Load() (*Config, error) {
	throttle, err := getDuration("UPLOAD_THROTTLE", time.Second)
	if err != nil {
		return nil, err
	}
	timeout, err := getDuration("HTTP_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	scale, err := getFloat("CARD_SCALE", 2)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),

		CatalogAPIURL: getEnv("CATALOG_API_URL", ""),
		HTTPTimeout:   timeout,

		ImageHost:             getEnv("IMAGE_HOST", ImageHostImgBB),
		ImgBBAPIKey:           getEnv("IMGBB_API_KEY", ""),
		ImgBBAPIURL:           getEnv("IMGBB_API_URL", "https://api.imgbb.com/1/upload"),
		SupabaseURL:           getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey:    getEnv("SUPABASE_SERVICE_KEY", ""),
		SupabaseStorageBucket: getEnv("SUPABASE_STORAGE_BUCKET", "product-images"),

		UploadThrottle: throttle,

		CardLogoPath:    getEnv("CARD_LOGO_PATH", "static/Logo.png"),
		CardCompanyName: getEnv("CARD_COMPANY_NAME", "HI TECH SALES AND SERVICES"),
		CardFontRegular: getEnv("CARD_FONT_REGULAR", ""),
		CardFontBold:    getEnv("CARD_FONT_BOLD", ""),
		CardScale:       scale,

		GoogleCredentialsPath: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		ChromePath:            getEnv("CHROME_PATH", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.CatalogAPIURL == "" {
		return fmt.Errorf("CATALOG_API_URL is required")
	}
	switch c.ImageHost {
	case ImageHostImgBB:
		if c.ImgBBAPIKey == "" {
			return fmt.Errorf("IMGBB_API_KEY is required when IMAGE_HOST=imgbb")
		}
	case ImageHostSupabase:
		if c.SupabaseURL == "" || c.SupabaseServiceKey == "" {
			return fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_KEY are required when IMAGE_HOST=supabase")
		}
	default:
		return fmt.Errorf("IMAGE_HOST must be %q or %q, got %q", ImageHostImgBB, ImageHostSupabase, c.ImageHost)
	}
	if c.UploadThrottle < 0 {
		return fmt.Errorf("UPLOAD_THROTTLE cannot be negative")
	}
	if c.CardScale < 1 || c.CardScale > 4 {
		return fmt.Errorf("CARD_SCALE must be between 1 and 4, got %v", c.CardScale)
	}
	return nil
}

// IsProduction reports whether the service runs with ENV=production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}
