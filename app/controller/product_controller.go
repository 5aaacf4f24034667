package controller

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"hitech-quotation-tool/service"
)

// maxImageUpload bounds a single product image
const maxImageUpload = 10 << 20

// ProductController handles HTTP requests for catalog products
type ProductController struct {
	service service.ProductServiceInterface
}

// NewProductController creates a new ProductController
func NewProductController(productService service.ProductServiceInterface) *ProductController {
	return &ProductController{service: productService}
}

// ListProducts handles GET /admin/products?query=
func (c *ProductController) ListProducts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	products, err := c.service.Search(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		writeError(w, "Failed to fetch products", err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// ListCategories handles GET /admin/categories
func (c *ProductController) ListCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	categories, err := c.service.Categories(r.Context())
	if err != nil {
		writeError(w, "Failed to fetch categories", err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// CheckName handles GET /admin/products/check-name?name=
func (c *ProductController) CheckName(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	result, err := c.service.CheckName(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		writeError(w, "Failed to check name", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// AddProduct handles POST /admin/products (multipart: name, category, newCategory, isNewCategory, image)
func (c *ProductController) AddProduct(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(maxImageUpload); err != nil {
		http.Error(w, fmt.Sprintf("Invalid form: %v", err), http.StatusBadRequest)
		return
	}

	isNew, _ := strconv.ParseBool(r.FormValue("isNewCategory"))
	in := service.AddProductInput{
		Name:          r.FormValue("name"),
		Category:      r.FormValue("category"),
		NewCategory:   r.FormValue("newCategory"),
		IsNewCategory: isNew,
	}

	file, _, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		in.Image, err = io.ReadAll(io.LimitReader(file, maxImageUpload))
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to read image: %v", err), http.StatusBadRequest)
			return
		}
	} else if err != http.ErrMissingFile {
		http.Error(w, fmt.Sprintf("Invalid image: %v", err), http.StatusBadRequest)
		return
	}

	product, err := c.service.AddProduct(r.Context(), in)
	if err != nil {
		writeError(w, "Failed to add product", err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}
