package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"sync"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"

	"hitech-quotation-tool/models"
)

// fakeMeasurer gives every rune half the font size in width
type fakeMeasurer struct{}

func (fakeMeasurer) Measure(text string, style textStyle) float64 {
	return float64(len([]rune(text))) * style.Size * 0.5
}

type fakeCatalog struct {
	mu sync.Mutex

	products   []models.Product
	duplicates map[string]bool
	checkErr   error
	addErr     error
	onCheck    func(name string)

	fetchCalls int
	checked    []string
	added      []models.NewProductRequest
	quotations []models.QuotationRequest
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{duplicates: make(map[string]bool)}
}

func (f *fakeCatalog) FetchAllProducts(ctx context.Context) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	return append([]models.Product(nil), f.products...), nil
}

func (f *fakeCatalog) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	return f.FetchAllProducts(ctx)
}

func (f *fakeCatalog) CheckNameUniqueness(ctx context.Context, name string) (bool, error) {
	f.mu.Lock()
	f.checked = append(f.checked, name)
	hook := f.onCheck
	dup := f.duplicates[name]
	err := f.checkErr
	f.mu.Unlock()

	if hook != nil {
		hook(name)
	}
	if err != nil {
		return false, err
	}
	return !dup, nil
}

func (f *fakeCatalog) AddProduct(ctx context.Context, req models.NewProductRequest) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return nil, f.addErr
	}
	f.added = append(f.added, req)
	return &models.Product{Name: req.Name, Category: req.Category, ImageURL: req.ImageURL}, nil
}

func (f *fakeCatalog) GenerateQuotation(ctx context.Context, req models.QuotationRequest) (*models.QuotationResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quotations = append(f.quotations, req)
	return &models.QuotationResult{DownloadURL: "https://example.com/q.pdf"}, nil
}

func (f *fakeCatalog) addedNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, 0, len(f.added))
	for _, a := range f.added {
		names = append(names, a.Name)
	}
	return names
}

type fakeHost struct {
	mu        sync.Mutex
	err       error
	filenames []string
	payloads  [][]byte
}

func (h *fakeHost) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return "", h.err
	}
	h.filenames = append(h.filenames, filename)
	h.payloads = append(h.payloads, data)
	return "https://img.example.com/" + filename, nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []int
}

func (n *fakeNotifier) CatalogChanged(ctx context.Context, added int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, added)
}

// bytesSource is an in-memory upload source
type bytesSource struct {
	name string
	data []byte
}

func (s *bytesSource) FileName() string { return s.name }

func (s *bytesSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if s.data == nil {
		return nil, errors.New("source unavailable")
	}
	return io.NopCloser(bytes.NewReader(s.data)), nil
}

// testPNG encodes a small image with a transparent left half
func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := w / 2; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 30, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

// staticLoader serves fixed images by reference and fails for anything else
type staticLoader struct {
	images map[string]image.Image
}

func (l staticLoader) Load(ctx context.Context, ref string) (image.Image, error) {
	if img, ok := l.images[ref]; ok {
		return img, nil
	}
	return nil, errors.New("not found")
}
