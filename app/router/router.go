package router

import (
	"net/http"
	"strings"

	"hitech-quotation-tool/app/controller"
)

// Controllers groups the HTTP controllers mounted by SetupRoutes
type Controllers struct {
	Product    *controller.ProductController
	Card       *controller.CardController
	BulkUpload *controller.BulkUploadController
	Quotation  *controller.QuotationController
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func SetupRoutes(mux *http.ServeMux, controllers *Controllers) {
	// Ping endpoint
	mux.HandleFunc("/ping", pingHandler)

	// Products routes
	// List (GET) or add a single product (POST)
	mux.HandleFunc("/admin/products", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			controllers.Product.AddProduct(w, r)
		} else {
			controllers.Product.ListProducts(w, r)
		}
	})

	// Live name uniqueness check for the add form
	mux.HandleFunc("/admin/products/check-name", controllers.Product.CheckName)

	// Distinct categories
	mux.HandleFunc("/admin/categories", controllers.Product.ListCategories)

	// Cards routes
	mux.HandleFunc("/admin/cards", controllers.Card.RenderCard)
	mux.HandleFunc("/admin/cards/sheet", controllers.Card.RenderSheet)

	// Bulk upload routes
	mux.HandleFunc("/admin/bulk-uploads", controllers.BulkUpload.StartUpload)
	mux.HandleFunc("/admin/bulk-uploads/drive", controllers.BulkUpload.StartDriveUpload)
	mux.HandleFunc("/admin/bulk-uploads/history", controllers.BulkUpload.History)

	// Run actions (must be after the fixed bulk upload routes)
	mux.HandleFunc("/admin/bulk-uploads/", func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/admin/bulk-uploads/")
		if strings.HasSuffix(path, "/stop") {
			controllers.BulkUpload.StopRun(w, r)
			return
		}
		if path == "" || strings.Contains(path, "/") {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		controllers.BulkUpload.GetRun(w, r)
	})

	// Quotations routes
	mux.HandleFunc("/admin/quotations", controllers.Quotation.CreateQuotation)
}
