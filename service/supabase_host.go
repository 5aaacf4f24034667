package service

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	storage "github.com/supabase-community/storage-go"

	"hitech-quotation-tool/models"
)

const supabaseServiceName = "supabase-storage"

// SupabaseHost stores product images in a public Supabase Storage bucket
type SupabaseHost struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

// NewSupabaseHost creates a SupabaseHost
func NewSupabaseHost(supabaseURL, serviceKey, bucket string) *SupabaseHost {
	baseURL := strings.TrimRight(supabaseURL, "/")
	return &SupabaseHost{
		client:  storage.NewClient(baseURL+"/storage/v1", serviceKey, nil),
		bucket:  bucket,
		baseURL: baseURL,
	}
}

// Ensure SupabaseHost implements ImageHostInterface
var _ ImageHostInterface = (*SupabaseHost)(nil)

// Upload stores the image under products/<filename>, replacing an existing object
func (h *SupabaseHost) Upload(ctx context.Context, imageData []byte, filename string) (string, error) {
	storagePath := "products/" + filename

	contentType := "image/jpeg"
	upsert := true
	_, err := h.client.UploadFile(h.bucket, storagePath, bytes.NewReader(imageData), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", &models.ServiceError{Service: supabaseServiceName, Message: "failed to upload file", Err: err}
	}

	return h.PublicURL(storagePath), nil
}

// PublicURL returns the public object URL for a storage path
func (h *SupabaseHost) PublicURL(storagePath string) string {
	escaped := (&url.URL{Path: storagePath}).EscapedPath()
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", h.baseURL, h.bucket, escaped)
}
