package service

import (
	"context"

	"hitech-quotation-tool/models"
)

// CardRendererInterface defines the contract for product card rendering
type CardRendererInterface interface {
	Render(ctx context.Context, spec models.CardSpec) (*models.RenderedCard, error)
	RenderAll(ctx context.Context, specs []models.CardSpec) ([]*models.RenderedCard, error)
}
