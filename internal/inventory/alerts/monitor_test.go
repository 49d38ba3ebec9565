package alerts_test

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/inventory-invoicing/internal/inventory/alerts"
	"github.com/tair/inventory-invoicing/internal/memstore"
	product "github.com/tair/inventory-invoicing/internal/product/domain"
	"github.com/tair/inventory-invoicing/kafka"
)

func TestMonitorTracksDeficit(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()

	low := &product.Product{Name: "Widget", Price: decimal.NewFromInt(10)}
	require.NoError(t, store.Products().Create(ctx, low, product.StockLevels{Quantity: 2, MinStock: 10}))
	stocked := &product.Product{Name: "Bolt", Price: decimal.NewFromInt(1)}
	require.NoError(t, store.Products().Create(ctx, stocked, product.StockLevels{Quantity: 40, MinStock: 10}))

	reg := prometheus.NewRegistry()
	monitor := alerts.NewMonitor(store.Inventory(), reg, "test")

	err := monitor.HandleInvoiceEvent(ctx, kafka.InvoiceEvent{
		InvoiceNumber: "FAC-2025-001",
		Lines: []kafka.InvoiceLine{
			{ProductID: low.ID, Quantity: 3},
			{ProductID: stocked.ID, Quantity: 1},
			{ProductID: 999, Quantity: 1},
		},
	})
	require.NoError(t, err)

	expected := `
# HELP test_stock_deficit Units missing to reach the minimum stock, 0 when stocked
# TYPE test_stock_deficit gauge
test_stock_deficit{product_id="1"} 8
test_stock_deficit{product_id="2"} 0
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "test_stock_deficit"))
}
