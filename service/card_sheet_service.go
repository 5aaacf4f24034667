package service

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"log"
	"os"
	"time"

	"hitech-quotation-tool/models"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// cardsPerPage is the 3x3 grid of one sheet page
const cardsPerPage = 9

//go:embed templates/card_sheet.html
var cardSheetTemplate string

var cardSheetTmpl = template.Must(template.New("card_sheet").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(cardSheetTemplate))

// sheetCard is one grid cell of the sheet template
type sheetCard struct {
	Name    string
	DataURI template.URL
}

// CardSheetService lays rendered cards out on printable pages
type CardSheetService struct {
	renderer   CardRendererInterface
	chromePath string
	timeout    time.Duration
}

// NewCardSheetService creates a CardSheetService. An empty chromePath auto-detects.
func NewCardSheetService(renderer CardRendererInterface, chromePath string) *CardSheetService {
	return &CardSheetService{
		renderer:   renderer,
		chromePath: chromePath,
		timeout:    30 * time.Second,
	}
}

// Ensure CardSheetService implements CardSheetServiceInterface
var _ CardSheetServiceInterface = (*CardSheetService)(nil)

// detectChromePath returns the configured Chrome/Chromium path or the first
// common installation path that exists
func detectChromePath(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// paginateCards splits cards into pages of cardsPerPage
func paginateCards(cards []sheetCard) [][]sheetCard {
	var pages [][]sheetCard
	for i := 0; i < len(cards); i += cardsPerPage {
		end := i + cardsPerPage
		if end > len(cards) {
			end = len(cards)
		}
		pages = append(pages, cards[i:end])
	}
	return pages
}

// RenderHTML renders the given cards into the sheet template with inline PNGs
func (s *CardSheetService) RenderHTML(title string, cards []*models.RenderedCard) (string, error) {
	cells := make([]sheetCard, 0, len(cards))
	for _, card := range cards {
		if card == nil || len(card.PNG) == 0 {
			continue
		}
		cells = append(cells, sheetCard{
			Name:    card.FileName,
			DataURI: template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(card.PNG)),
		})
	}

	templateData := struct {
		Title string
		Pages [][]sheetCard
	}{
		Title: title,
		Pages: paginateCards(cells),
	}

	var buf bytes.Buffer
	if err := cardSheetTmpl.Execute(&buf, templateData); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// RenderSheet renders every card and returns the sheet HTML
func (s *CardSheetService) RenderSheet(ctx context.Context, req models.CardSheetRequest) (string, error) {
	if len(req.Cards) == 0 {
		return "", &models.ValidationError{Field: "cards", Message: "at least one card is required"}
	}
	cards, err := s.renderer.RenderAll(ctx, req.Cards)
	if err != nil {
		return "", fmt.Errorf("failed to render cards: %w", err)
	}
	log.Printf("📦 Rendered %d cards for sheet %q", len(cards), req.Title)
	return s.RenderHTML(req.Title, cards)
}

// GeneratePDF renders the sheet and prints it to an A4 PDF with headless Chromium
func (s *CardSheetService) GeneratePDF(ctx context.Context, req models.CardSheetRequest) ([]byte, error) {
	html, err := s.RenderSheet(ctx, req)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // Required for running in Docker/containers
	)
	if chromePath := detectChromePath(s.chromePath); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	var pdfBuf []byte
	err = chromedp.Run(chromedpCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// A4 is 8.27" x 11.69"
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	log.Printf("✓ Card sheet PDF generated (%d bytes)", len(pdfBuf))
	return pdfBuf, nil
}
