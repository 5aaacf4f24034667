package controller

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"hitech-quotation-tool/models"
	"hitech-quotation-tool/service"
)

// CardController handles HTTP requests for product cards
type CardController struct {
	renderer service.CardRendererInterface
	sheets   service.CardSheetServiceInterface
}

// NewCardController creates a new CardController
func NewCardController(renderer service.CardRendererInterface, sheets service.CardSheetServiceInterface) *CardController {
	return &CardController{
		renderer: renderer,
		sheets:   sheets,
	}
}

// RenderCard handles POST /admin/cards
// Body: {"product": {...}, "customPrice": "...", "customDescription": "..."}
func (c *CardController) RenderCard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var spec models.CardSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	card, err := c.renderer.Render(r.Context(), spec)
	if err != nil {
		writeError(w, "Failed to render card", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, card.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(card.PNG)))
	w.WriteHeader(http.StatusOK)
	w.Write(card.PNG)
}

// RenderSheet handles POST /admin/cards/sheet?format=pdf|html
func (c *CardController) RenderSheet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.CardSheetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if r.URL.Query().Get("format") == "html" {
		html, err := c.sheets.RenderSheet(r.Context(), req)
		if err != nil {
			writeError(w, "Failed to render sheet", err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(html))
		return
	}

	pdf, err := c.sheets.GeneratePDF(r.Context(), req)
	if err != nil {
		writeError(w, "Failed to generate sheet", err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="product-cards.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}
