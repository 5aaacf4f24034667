package models

// Product represents a catalog row as returned by the spreadsheet API
type Product struct {
	ID          string `json:"product_id"`
	Name        string `json:"product_name"`
	Category    string `json:"category"`
	ImageURL    string `json:"image_url"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price,omitempty"`
}

// NewProductRequest is the payload sent to the catalog when registering a product
type NewProductRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	ImageURL string `json:"image_url"`
}

// NameCheckResult is the data part of a uniqueness check response
type NameCheckResult struct {
	IsUnique bool `json:"isUnique"`
}

// NameCheckResponse is returned by GET /admin/products/check-name
type NameCheckResponse struct {
	Name     string `json:"name"`
	Status   string `json:"status"` // unique, duplicate, invalid
	Message  string `json:"message,omitempty"`
	IsUnique bool   `json:"isUnique"`
}
