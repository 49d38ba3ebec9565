package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/inventory-invoicing/internal/api"
	"github.com/tair/inventory-invoicing/internal/memstore"
	"github.com/tair/inventory-invoicing/kafka"
	"github.com/tair/inventory-invoicing/pkg/config"
)

// statsCache is an in-memory cache counting invalidations
type statsCache struct {
	mu            sync.Mutex
	entries       map[string][]byte
	invalidations int
}

func (c *statsCache) Get(_ context.Context, key string, dst interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *statsCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = raw
	return nil
}

func (c *statsCache) Invalidate(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidations++
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	return nil
}

type testServer struct {
	handler http.Handler
	cache   *statsCache
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := &config.Config{
		ServiceName:        "inventory-invoicing-test",
		StatsCacheTTL:      time.Minute,
		RequestTimeout:     5 * time.Second,
		CORSAllowedOrigins: []string{"*"},
	}
	c := &statsCache{entries: make(map[string][]byte)}

	handler, err := api.InitializeMemoryHandler(cfg, memstore.New(), prometheus.NewRegistry(), c, kafka.NopPublisher{})
	require.NoError(t, err)
	return &testServer{handler: handler, cache: c}
}

func (s *testServer) do(t *testing.T, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type mutation struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	ID            uint   `json:"id"`
	InvoiceNumber string `json:"invoice_number"`
}

type errorBody struct {
	Error string `json:"error"`
}

type inventoryItem struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	MinStock int    `json:"min_stock"`
	Status   string `json:"status"`
}

func (s *testServer) create(t *testing.T, path string, body interface{}) mutation {
	t.Helper()
	rec := s.do(t, http.MethodPost, path, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	m := decode[mutation](t, rec)
	require.True(t, m.Success)
	return m
}

func (s *testServer) stock(t *testing.T, productID uint) inventoryItem {
	t.Helper()
	rec := s.do(t, http.MethodGet, "/api/inventory", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	for _, item := range decode[[]inventoryItem](t, rec) {
		if item.ID == productID {
			return item
		}
	}
	t.Fatalf("product %d missing from inventory", productID)
	return inventoryItem{}
}

func TestWidgetInvoiceRoundTrip(t *testing.T) {
	s := newTestServer(t)

	product := s.create(t, "/api/products", map[string]interface{}{
		"name": "Widget", "price": 9.99, "quantity": 5, "min_stock": 10,
	})
	assert.Equal(t, "Product created successfully", product.Message)

	widget := s.stock(t, product.ID)
	assert.Equal(t, 5, widget.Quantity)
	assert.Equal(t, "low_stock", widget.Status)

	customer := s.create(t, "/api/customers", map[string]interface{}{"name": "Acme", "email": "billing@acme.test"})

	invoice := s.create(t, "/api/invoices", map[string]interface{}{
		"customer_id": customer.ID,
		"items": []map[string]interface{}{
			{"product_id": product.ID, "quantity": 3, "unit_price": 9.99},
		},
	})
	assert.Regexp(t, `^FAC-\d{4}-001$`, invoice.InvoiceNumber)

	widget = s.stock(t, product.ID)
	assert.Equal(t, 2, widget.Quantity)
	assert.Equal(t, "low_stock", widget.Status)

	rec := s.do(t, http.MethodGet, "/api/invoices?id="+itoa(invoice.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode[struct {
		InvoiceNumber string          `json:"invoice_number"`
		CustomerName  string          `json:"customer_name"`
		Status        string          `json:"status"`
		Total         decimal.Decimal `json:"total"`
		Items         []struct {
			ProductName string          `json:"product_name"`
			Quantity    int             `json:"quantity"`
			Subtotal    decimal.Decimal `json:"subtotal"`
		} `json:"items"`
	}](t, rec)
	assert.Equal(t, invoice.InvoiceNumber, detail.InvoiceNumber)
	assert.Equal(t, "Acme", detail.CustomerName)
	assert.Equal(t, "pending", detail.Status)
	assert.True(t, detail.Total.Equal(decimal.RequireFromString("29.97")), detail.Total.String())
	require.Len(t, detail.Items, 1)
	assert.Equal(t, "Widget", detail.Items[0].ProductName)

	rec = s.do(t, http.MethodDelete, "/api/invoices", map[string]interface{}{"id": invoice.ID})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Invoice deleted successfully", decode[mutation](t, rec).Message)

	assert.Equal(t, 5, s.stock(t, product.ID).Quantity)

	rec = s.do(t, http.MethodGet, "/api/invoices?id="+itoa(invoice.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateInvoiceValidation(t *testing.T) {
	s := newTestServer(t)
	customer := s.create(t, "/api/customers", map[string]interface{}{"name": "Acme"})

	tests := []struct {
		name string
		body interface{}
	}{
		{"empty items", map[string]interface{}{"customer_id": customer.ID, "items": []interface{}{}}},
		{"missing customer", map[string]interface{}{"items": []map[string]interface{}{{"product_id": 1, "quantity": 1, "unit_price": 1}}}},
		{"unknown field", map[string]interface{}{"customer_id": customer.ID, "total": 10}},
		{"item without price", map[string]interface{}{"customer_id": customer.ID, "items": []map[string]interface{}{{"product_id": 1, "quantity": 1}}}},
		{"unknown product", map[string]interface{}{"customer_id": customer.ID, "items": []map[string]interface{}{{"product_id": 77, "quantity": 1, "unit_price": 1}}}},
		{"bad date", map[string]interface{}{"customer_id": customer.ID, "invoice_date": "14/03/2025", "items": []map[string]interface{}{{"product_id": 1, "quantity": 1, "unit_price": 1}}}},
		{"malformed json", `{"customer_id":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/invoices", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decode[errorBody](t, rec).Error)
		})
	}

	rec := s.do(t, http.MethodGet, "/api/invoices", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCustomerWithInvoicesCannotBeDeleted(t *testing.T) {
	s := newTestServer(t)
	product := s.create(t, "/api/products", map[string]interface{}{"name": "Bolt", "price": 1.5, "quantity": 10})
	customer := s.create(t, "/api/customers", map[string]interface{}{"name": "Acme"})
	s.create(t, "/api/invoices", map[string]interface{}{
		"customer_id": customer.ID,
		"items":       []map[string]interface{}{{"product_id": product.ID, "quantity": 1, "unit_price": 1.5}},
	})

	rec := s.do(t, http.MethodDelete, "/api/customers", map[string]interface{}{"id": customer.ID})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "customer cannot be deleted because it has invoices", decode[errorBody](t, rec).Error)

	rec = s.do(t, http.MethodGet, "/api/customers?id="+itoa(customer.ID), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestInvoiceStatusUpdate(t *testing.T) {
	s := newTestServer(t)
	product := s.create(t, "/api/products", map[string]interface{}{"name": "Bolt", "price": 2, "quantity": 10})
	customer := s.create(t, "/api/customers", map[string]interface{}{"name": "Acme"})
	invoice := s.create(t, "/api/invoices", map[string]interface{}{
		"customer_id": customer.ID,
		"items":       []map[string]interface{}{{"product_id": product.ID, "quantity": 4, "unit_price": 2}},
	})
	require.Equal(t, 6, s.stock(t, product.ID).Quantity)

	rec := s.do(t, http.MethodPut, "/api/invoices", map[string]interface{}{"id": invoice.ID, "status": "cancelled", "notes": "withdrawn"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 10, s.stock(t, product.ID).Quantity)

	rec = s.do(t, http.MethodPut, "/api/invoices", map[string]interface{}{"id": invoice.ID, "status": "refunded"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/invoices", map[string]interface{}{"id": invoice.ID})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/invoices", map[string]interface{}{"id": 999, "status": "paid"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/invoices?status=cancelled", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]interface{}](t, rec), 1)
}

func TestStatsAreInvalidatedAfterWrites(t *testing.T) {
	s := newTestServer(t)

	stats := func() map[string]int {
		rec := s.do(t, http.MethodGet, "/api/inventory?stats=1", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		return decode[map[string]int](t, rec)
	}

	assert.Equal(t, 0, stats()["total_products"])
	s.create(t, "/api/products", map[string]interface{}{"name": "Bolt", "price": 1, "quantity": 0})
	assert.Equal(t, 1, stats()["total_products"])
	assert.Equal(t, 1, stats()["out_of_stock_count"])

	rec := s.do(t, http.MethodPost, "/api/products", map[string]interface{}{"price": 1})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 1, s.cache.invalidations, "failed writes keep the cache")
}

func TestRouterEdges(t *testing.T) {
	s := newTestServer(t)

	t.Run("method not allowed", func(t *testing.T) {
		rec := s.do(t, http.MethodPatch, "/api/products", `{}`)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Equal(t, "method not allowed", decode[errorBody](t, rec).Error)

		rec = s.do(t, http.MethodPost, "/api/inventory", `{}`)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("options", func(t *testing.T) {
		for _, path := range []string{"/api/invoices", "/api/unknown"} {
			rec := s.do(t, http.MethodOptions, path, nil)
			assert.Equal(t, http.StatusOK, rec.Code, path)
			assert.Empty(t, rec.Body.String())
		}
	})

	t.Run("cors preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
		req.Header.Set("Origin", "http://dashboard.test")
		req.Header.Set("Access-Control-Request-Method", http.MethodDelete)
		rec := httptest.NewRecorder()
		s.handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, rec.Body.String())
	})

	t.Run("not found", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/products?id=42", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "product not found", decode[errorBody](t, rec).Error)

		for _, tt := range []struct{ method, path string }{
			{http.MethodGet, "/api/unknown"},
			{http.MethodGet, "/api/invoice"},
			{http.MethodGet, "/nope"},
			{http.MethodPost, "/api/unknown"},
			{http.MethodDelete, "/api/unknown"},
		} {
			rec = s.do(t, tt.method, tt.path, nil)
			assert.Equal(t, http.StatusNotFound, rec.Code, "%s %s", tt.method, tt.path)
			assert.Equal(t, "resource not found", decode[errorBody](t, rec).Error)
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/customers?id=abc", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("request id", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/api/products", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get(api.RequestIDHeader))
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("health", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, api.StatusHealthy, decode[api.ServiceHealth](t, rec).Status)
	})

	t.Run("metrics", func(t *testing.T) {
		rec := s.do(t, http.MethodGet, "/metrics", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "invoicing_requests_total")
	})
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func TestListFilters(t *testing.T) {
	s := newTestServer(t)

	s.create(t, "/api/products", map[string]interface{}{"name": "Blue Widget", "price": 2, "category": "widgets"})
	s.create(t, "/api/products", map[string]interface{}{"name": "Red widget", "price": 3, "category": "widgets"})
	bolt := s.create(t, "/api/products", map[string]interface{}{"name": "Bolt", "price": 1, "category": "hardware", "quantity": 50})

	acme := s.create(t, "/api/customers", map[string]interface{}{"name": "Acme", "email": "billing@acme.test", "phone": "555-0100"})
	globex := s.create(t, "/api/customers", map[string]interface{}{"name": "Globex", "email": "ap@globex.test", "phone": "555-0199"})

	invoiceOn := func(customerID uint, date string) {
		s.create(t, "/api/invoices", map[string]interface{}{
			"customer_id":  customerID,
			"invoice_date": date,
			"items":        []map[string]interface{}{{"product_id": bolt.ID, "quantity": 1, "unit_price": 1}},
		})
	}
	invoiceOn(acme.ID, "2025-05-31")
	invoiceOn(acme.ID, "2025-06-01")
	invoiceOn(globex.ID, "2025-06-15")

	names := func(t *testing.T, target string) []string {
		t.Helper()
		rec := s.do(t, http.MethodGet, target, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var out []string
		for _, row := range decode[[]struct {
			Name         string `json:"name"`
			CustomerName string `json:"customer_name"`
			InvoiceDate  string `json:"invoice_date"`
		}](t, rec) {
			if row.InvoiceDate != "" {
				out = append(out, row.CustomerName+" "+row.InvoiceDate)
				continue
			}
			out = append(out, row.Name)
		}
		return out
	}

	tests := []struct {
		name   string
		target string
		want   []string
	}{
		{"product search ignores case", "/api/products?search=WIDGET", []string{"Blue Widget", "Red widget"}},
		{"product search no match", "/api/products?search=gear", nil},
		{"product category exact", "/api/products?category=hardware", []string{"Bolt"}},
		{"product category not a substring", "/api/products?category=widget", nil},
		{"product search and category", "/api/products?search=red&category=widgets", []string{"Red widget"}},
		{"customer search by name", "/api/customers?search=glob", []string{"Globex"}},
		{"customer search by email", "/api/customers?search=acme.test", []string{"Acme"}},
		{"customer search by phone", "/api/customers?search=0199", []string{"Globex"}},
		{"customer search shared phone prefix", "/api/customers?search=555-01", []string{"Acme", "Globex"}},
		{"invoices by customer", "/api/invoices?customer_id=" + itoa(acme.ID), []string{"Acme 2025-06-01", "Acme 2025-05-31"}},
		{"date_from inclusive", "/api/invoices?date_from=2025-06-01", []string{"Globex 2025-06-15", "Acme 2025-06-01"}},
		{"date_to inclusive", "/api/invoices?date_to=2025-06-01", []string{"Acme 2025-06-01", "Acme 2025-05-31"}},
		{"single day range", "/api/invoices?date_from=2025-06-01&date_to=2025-06-01", []string{"Acme 2025-06-01"}},
		{"customer and range", "/api/invoices?customer_id=" + itoa(globex.ID) + "&date_to=2025-06-14", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(t, tt.target))
		})
	}

	for _, target := range []string{
		"/api/invoices?date_from=2025-13-01",
		"/api/invoices?date_to=01/06/2025",
		"/api/invoices?customer_id=abc",
		"/api/invoices?date_from=2025-06-02&date_to=2025-06-01",
	} {
		rec := s.do(t, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.NotEmpty(t, decode[errorBody](t, rec).Error)
	}
}
