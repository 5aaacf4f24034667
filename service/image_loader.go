package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/disintegration/imaging"

	"hitech-quotation-tool/utils"
)

// maxImageBytes caps remote image downloads
const maxImageBytes = 20 << 20

// ImageLoader fetches and decodes an image reference
type ImageLoader interface {
	Load(ctx context.Context, ref string) (image.Image, error)
}

// isRemoteRef reports whether ref is an http(s) URL
func isRemoteRef(ref string) bool {
	ref = strings.TrimSpace(ref)
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// HTTPImageLoader loads http(s) URLs only
type HTTPImageLoader struct {
	client *http.Client
}

// NewHTTPImageLoader creates a loader with the given request timeout
func NewHTTPImageLoader(timeout time.Duration) *HTTPImageLoader {
	return &HTTPImageLoader{client: &http.Client{Timeout: timeout}}
}

// Ensure HTTPImageLoader implements ImageLoader
var _ ImageLoader = (*HTTPImageLoader)(nil)

// Load downloads and decodes the image, applying EXIF orientation
func (l *HTTPImageLoader) Load(ctx context.Context, ref string) (image.Image, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("empty image reference")
	}
	if !isRemoteRef(ref) {
		return nil, fmt.Errorf("unsupported image reference %q: only http(s) URLs are loaded", ref)
	}

	data, err := l.fetch(ctx, utils.FormatImageURL(ref))
	if err != nil {
		return nil, err
	}
	return decodeImage(data)
}

// FileImageLoader reads images from the local filesystem. It is used for the
// configured logo only, never for references taken from a request.
type FileImageLoader struct{}

// Ensure FileImageLoader implements ImageLoader
var _ ImageLoader = FileImageLoader{}

// Load reads and decodes the file at ref; a file:// prefix is accepted
func (FileImageLoader) Load(ctx context.Context, ref string) (image.Image, error) {
	path := strings.TrimPrefix(strings.TrimSpace(ref), "file://")
	if path == "" {
		return nil, fmt.Errorf("empty image reference")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decodeImage(data)
}

func decodeImage(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

func (l *HTTPImageLoader) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build image request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image endpoint returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}
	return data, nil
}
