package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"hitech-quotation-tool/models"
)

const catalogServiceName = "catalog"

// apiEnvelope is the response shape of every spreadsheet API action
type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// CatalogClient talks to the Apps Script web app that fronts the product sheet
type CatalogClient struct {
	baseURL string
	client  *http.Client
}

// NewCatalogClient creates a CatalogClient for the deployed web app URL
func NewCatalogClient(baseURL string, timeout time.Duration) *CatalogClient {
	return &CatalogClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Ensure CatalogClient implements CatalogClientInterface
var _ CatalogClientInterface = (*CatalogClient)(nil)

// SearchProducts runs the backend search; "*" returns the whole catalog
func (c *CatalogClient) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	var products []models.Product
	params := url.Values{"query": {query}}
	if err := c.get(ctx, "searchProducts", params, &products); err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return products, nil
}

// FetchAllProducts returns the entire catalog
func (c *CatalogClient) FetchAllProducts(ctx context.Context) ([]models.Product, error) {
	return c.SearchProducts(ctx, "*")
}

// CheckNameUniqueness asks the catalog whether no product uses name yet
func (c *CatalogClient) CheckNameUniqueness(ctx context.Context, name string) (bool, error) {
	var result models.NameCheckResult
	if err := c.get(ctx, "checkNameUniqueness", url.Values{"name": {name}}, &result); err != nil {
		return false, err
	}
	return result.IsUnique, nil
}

// AddProduct appends a product row to the sheet
func (c *CatalogClient) AddProduct(ctx context.Context, req models.NewProductRequest) (*models.Product, error) {
	product := &models.Product{Name: req.Name, Category: req.Category, ImageURL: req.ImageURL}
	var data json.RawMessage
	if err := c.post(ctx, "addProduct", req, &data); err != nil {
		return nil, err
	}
	if len(data) > 0 {
		// The backend may echo the stored row; keep the request values otherwise
		if err := json.Unmarshal(data, product); err != nil {
			log.Printf("⚠️  addProduct returned unexpected data: %v", err)
		}
	}
	return product, nil
}

// GenerateQuotation asks the backend to build the quotation document
func (c *CatalogClient) GenerateQuotation(ctx context.Context, req models.QuotationRequest) (*models.QuotationResult, error) {
	var result models.QuotationResult
	if err := c.post(ctx, "generateQuotation", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *CatalogClient) actionURL(action string, params url.Values) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid catalog API URL: %w", err)
	}
	q := u.Query()
	q.Set("action", action)
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *CatalogClient) get(ctx context.Context, action string, params url.Values, out interface{}) error {
	endpoint, err := c.actionURL(action, params)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", action, err)
	}
	return c.do(req, action, out)
}

// post sends the body as text/plain JSON, which Apps Script accepts without a CORS preflight
func (c *CatalogClient) post(ctx context.Context, action string, body interface{}, out interface{}) error {
	endpoint, err := c.actionURL(action, nil)
	if err != nil {
		return err
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", action, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")
	return c.do(req, action, out)
}

func (c *CatalogClient) do(req *http.Request, action string, out interface{}) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return &models.ServiceError{Service: catalogServiceName, Message: action + " request failed", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &models.ServiceError{Service: catalogServiceName, Message: "failed to read " + action + " response", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return &models.ServiceError{Service: catalogServiceName, Message: fmt.Sprintf("%s returned HTTP %d", action, resp.StatusCode)}
	}

	var env apiEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return &models.ServiceError{Service: catalogServiceName, Message: "invalid " + action + " response", Err: err}
	}
	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = action + " failed"
		}
		return &models.ServiceError{Service: catalogServiceName, Message: msg}
	}
	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &models.ServiceError{Service: catalogServiceName, Message: "invalid " + action + " data", Err: err}
		}
	}
	return nil
}
