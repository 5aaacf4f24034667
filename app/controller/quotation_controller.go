package controller

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"hitech-quotation-tool/models"
	"hitech-quotation-tool/service"
)

// QuotationController handles HTTP requests for quotations
type QuotationController struct {
	catalog service.CatalogClientInterface
	now     func() time.Time
}

// NewQuotationController creates a new QuotationController
func NewQuotationController(catalog service.CatalogClientInterface) *QuotationController {
	return &QuotationController{
		catalog: catalog,
		now:     time.Now,
	}
}

// CreateQuotation handles POST /admin/quotations
// Missing quotation number and date default to Q-<year>-<n> and today
func (c *QuotationController) CreateQuotation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req models.QuotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	req.CustomerName = strings.TrimSpace(req.CustomerName)
	if req.CustomerName == "" {
		http.Error(w, "customer_name is required", http.StatusBadRequest)
		return
	}
	if len(req.SelectedProducts) == 0 {
		http.Error(w, "selected_products must not be empty", http.StatusBadRequest)
		return
	}
	for i := range req.SelectedProducts {
		if req.SelectedProducts[i].Quantity <= 0 {
			req.SelectedProducts[i].Quantity = 1
		}
	}

	now := c.now()
	if strings.TrimSpace(req.QuotationNumber) == "" {
		req.QuotationNumber = fmt.Sprintf("Q-%d-%d", now.Year(), rand.IntN(10000))
	}
	if strings.TrimSpace(req.QuotationDate) == "" {
		req.QuotationDate = now.Format("2006-01-02")
	}

	result, err := c.catalog.GenerateQuotation(r.Context(), req)
	if err != nil {
		writeError(w, "Failed to generate quotation", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":          "success",
		"quotationNumber": req.QuotationNumber,
		"downloadUrl":     result.DownloadURL,
	})
}
