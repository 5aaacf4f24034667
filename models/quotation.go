package models

// QuotationItem is one cart line sent to the quotation generator
type QuotationItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	ImageURL  string  `json:"image_url"`
}

// QuotationRequest represents the request body for POST /admin/quotations
type QuotationRequest struct {
	CustomerName     string          `json:"customer_name"`
	QuotationNumber  string          `json:"quotation_number"`
	QuotationDate    string          `json:"quotation_date"`
	SelectedProducts []QuotationItem `json:"selected_products"`
}

// QuotationResult is the data part of a successful quotation response
type QuotationResult struct {
	DownloadURL string `json:"downloadUrl"`
}
