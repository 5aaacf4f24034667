package service

import "context"

// ImageHostInterface defines the contract for image hosting backends.
// Upload returns the public URL of the stored image.
type ImageHostInterface interface {
	Upload(ctx context.Context, imageData []byte, filename string) (string, error)
}
