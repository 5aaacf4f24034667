package service

import (
	"context"
	"fmt"

	"hitech-quotation-tool/models"
	"hitech-quotation-tool/utils"
)

// ingestProduct normalizes the image, uploads it as <lower name>.jpg and registers
// the product. Empty imageData registers the product without an image.
func ingestProduct(
	ctx context.Context,
	catalog CatalogClientInterface,
	host ImageHostInterface,
	name, category string,
	imageData []byte,
) (*models.Product, error) {
	imageURL := ""
	if len(imageData) > 0 {
		jpegData, err := NormalizeToJPEG(imageData)
		if err != nil {
			return nil, fmt.Errorf("failed to process image: %w", err)
		}

		imageURL, err = host.Upload(ctx, jpegData, utils.UploadFileName(name))
		if err != nil {
			return nil, fmt.Errorf("image upload failed: %w", err)
		}
	}

	product, err := catalog.AddProduct(ctx, models.NewProductRequest{
		Name:     name,
		Category: category,
		ImageURL: imageURL,
	})
	if err != nil {
		return nil, fmt.Errorf("sheet update failed: %w", err)
	}
	if product.ImageURL == "" {
		product.ImageURL = imageURL
	}
	return product, nil
}
