package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuotationControllerDefaults(t *testing.T) {
	catalog := &fakeCatalog{}
	c := NewQuotationController(catalog)
	c.now = func() time.Time { return time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC) }

	body := `{"customer_name":" Acme Pumps ","selected_products":[{"product_id":"P-1","name":"TEE","price":10}]}`
	rec := httptest.NewRecorder()
	c.CreateQuotation(rec, httptest.NewRequest(http.MethodPost, "/admin/quotations", bytes.NewBufferString(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "https://docs.example.com/q.pdf", resp["downloadUrl"])
	assert.True(t, strings.HasPrefix(resp["quotationNumber"], "Q-2024-"))

	require.Len(t, catalog.quotations, 1)
	sent := catalog.quotations[0]
	assert.Equal(t, "Acme Pumps", sent.CustomerName)
	assert.Equal(t, "2024-03-09", sent.QuotationDate)
	assert.Equal(t, resp["quotationNumber"], sent.QuotationNumber)
	assert.Equal(t, 1, sent.SelectedProducts[0].Quantity)
}

func TestQuotationControllerKeepsProvidedValues(t *testing.T) {
	catalog := &fakeCatalog{}
	c := NewQuotationController(catalog)

	body := `{"customer_name":"Acme","quotation_number":"Q-1","quotation_date":"2024-01-01","selected_products":[{"name":"TEE","quantity":3}]}`
	rec := httptest.NewRecorder()
	c.CreateQuotation(rec, httptest.NewRequest(http.MethodPost, "/admin/quotations", bytes.NewBufferString(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	sent := catalog.quotations[0]
	assert.Equal(t, "Q-1", sent.QuotationNumber)
	assert.Equal(t, "2024-01-01", sent.QuotationDate)
	assert.Equal(t, 3, sent.SelectedProducts[0].Quantity)
}

func TestQuotationControllerValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{`},
		{"missing customer", `{"selected_products":[{"name":"TEE"}]}`},
		{"empty cart", `{"customer_name":"Acme","selected_products":[]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog := &fakeCatalog{}
			rec := httptest.NewRecorder()
			NewQuotationController(catalog).CreateQuotation(rec, httptest.NewRequest(http.MethodPost, "/admin/quotations", bytes.NewBufferString(tt.body)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, catalog.quotations)
		})
	}
}
