package service

import (
	"context"
	"image"
	"log"
	"sync"

	"hitech-quotation-tool/models"
	"hitech-quotation-tool/utils"
)

// CardRenderer produces product card PNGs.
// Render is safe for concurrent use: each call owns its surface and font faces.
type CardRenderer struct {
	loader     ImageLoader
	logoLoader ImageLoader
	fonts      *FontSet
	logoRef    string
	company    string
	scale      float64
}

// NewCardRenderer creates a CardRenderer. A scale below 1 is treated as 1.
// Product images are loaded through loader and must be http(s) URLs; a logoRef
// that is not a URL is read from disk.
func NewCardRenderer(loader ImageLoader, fonts *FontSet, logoRef, company string, scale float64) *CardRenderer {
	if fonts == nil {
		fonts = DefaultFontSet()
	}
	if scale < 1 {
		scale = 1
	}
	logoLoader := loader
	if logoRef != "" && !isRemoteRef(logoRef) {
		logoLoader = FileImageLoader{}
	}
	return &CardRenderer{
		loader:     loader,
		logoLoader: logoLoader,
		fonts:      fonts,
		logoRef:    logoRef,
		company:    company,
		scale:      scale,
	}
}

// Ensure CardRenderer implements CardRendererInterface
var _ CardRendererInterface = (*CardRenderer)(nil)

// Render draws one card. Asset failures are replaced by placeholders; the only
// error returned is a *models.EncodingError from the final PNG encode.
func (r *CardRenderer) Render(ctx context.Context, spec models.CardSpec) (*models.RenderedCard, error) {
	spec.SetDescription(spec.Description)
	assets := cardAssets{
		Logo:    r.loadAsset(ctx, r.logoLoader, "logo", r.logoRef),
		Product: r.loadProductImage(ctx, spec.Product.ImageURL),
	}

	faces := newFaceCache(r.fonts, r.scale)
	defer faces.close()

	// Layout is measured at logical size; painting uses the scaled faces.
	measure := newFaceCache(r.fonts, 1)
	defer measure.close()
	elements := layoutCard(spec, r.company, measure, assets)

	painter := newCardPainter(r.scale, faces, assets)
	painter.paint(elements)
	data, err := painter.encode()
	if err != nil {
		log.Printf("❌ Card render failed for product %s: %v", spec.Product.ID, err)
		return nil, err
	}

	return &models.RenderedCard{
		ProductID: spec.Product.ID,
		FileName:  utils.CardFileName(spec.Product.Name),
		PNG:       data,
		Width:     painter.dc.Width(),
		Height:    painter.dc.Height(),
		Elements:  elements,
	}, nil
}

// RenderAll renders the specs concurrently and returns the cards in input order.
// The first encoding error is returned alongside the cards that did render.
func (r *CardRenderer) RenderAll(ctx context.Context, specs []models.CardSpec) ([]*models.RenderedCard, error) {
	cards := make([]*models.RenderedCard, len(specs))
	errs := make([]error, len(specs))

	var wg sync.WaitGroup
	for i := range specs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cards[i], errs[i] = r.Render(ctx, specs[i])
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return cards, err
		}
	}
	return cards, nil
}

// loadProductImage only follows http(s) references; anything else comes from the
// request and is drawn as missing
func (r *CardRenderer) loadProductImage(ctx context.Context, ref string) image.Image {
	if ref != "" && !isRemoteRef(ref) {
		log.Printf("⚠️  Ignoring non-URL product image %q, drawing placeholder", ref)
		return nil
	}
	return r.loadAsset(ctx, r.loader, "product image", ref)
}

// loadAsset returns nil when the reference is empty or cannot be loaded
func (r *CardRenderer) loadAsset(ctx context.Context, loader ImageLoader, what, ref string) image.Image {
	if ref == "" || loader == nil {
		return nil
	}
	img, err := loader.Load(ctx, ref)
	if err != nil {
		log.Printf("⚠️  Failed to load %s %q, drawing placeholder: %v", what, ref, err)
		return nil
	}
	return img
}
