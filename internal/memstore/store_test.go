package memstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customer "github.com/tair/inventory-invoicing/internal/customer/domain"
	inventory "github.com/tair/inventory-invoicing/internal/inventory/domain"
	invoice "github.com/tair/inventory-invoicing/internal/invoice/domain"
	"github.com/tair/inventory-invoicing/internal/memstore"
	product "github.com/tair/inventory-invoicing/internal/product/domain"
	"github.com/tair/inventory-invoicing/pkg/apperror"
)

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

type fixture struct {
	store    *memstore.Store
	product  *product.Product
	customer *customer.Customer
}

func newFixture(t *testing.T, quantity int) fixture {
	t.Helper()
	ctx := context.Background()
	store := memstore.New(memstore.WithClock(func() time.Time { return fixedNow }))

	p := &product.Product{Name: "Widget", Price: decimal.RequireFromString("9.99")}
	require.NoError(t, store.Products().Create(ctx, p, product.StockLevels{Quantity: quantity, MinStock: 10}))

	c := &customer.Customer{Name: "Acme", Email: "billing@acme.test"}
	require.NoError(t, store.Customers().Create(ctx, c))

	return fixture{store: store, product: p, customer: c}
}

func (f fixture) newInvoice(quantity int) *invoice.Invoice {
	inv := &invoice.Invoice{
		CustomerID:  f.customer.ID,
		InvoiceDate: invoice.NewDate(fixedNow),
		Status:      invoice.StatusPending,
		Items: []invoice.Item{
			{ProductID: f.product.ID, Quantity: quantity, UnitPrice: f.product.Price},
		},
	}
	inv.CalculateTotals()
	return inv
}

func (f fixture) quantity(t *testing.T) int {
	t.Helper()
	rec, err := f.store.Inventory().FindByProductID(context.Background(), f.product.ID)
	require.NoError(t, err)
	return rec.Quantity
}

func TestInvoiceCreateDeleteRestoresStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 5)
	invoices := f.store.Invoices()

	inv := f.newInvoice(3)
	require.NoError(t, invoices.Create(ctx, inv))
	assert.Equal(t, "FAC-2025-001", inv.InvoiceNumber)
	assert.True(t, inv.Total.Equal(decimal.RequireFromString("29.97")))
	assert.Equal(t, 2, f.quantity(t))

	deleted, err := invoices.Delete(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, inv.InvoiceNumber, deleted.InvoiceNumber)
	assert.Equal(t, 5, f.quantity(t))

	_, err = invoices.FindByID(ctx, inv.ID)
	assert.ErrorIs(t, err, invoice.ErrInvoiceNotFound)
}

func TestInvoiceNumbering(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 100)

	for i, want := range []string{"FAC-2025-001", "FAC-2025-002", "FAC-2025-003"} {
		inv := f.newInvoice(1)
		require.NoError(t, f.store.Invoices().Create(ctx, inv), "invoice %d", i)
		assert.Equal(t, want, inv.InvoiceNumber)
	}
}

func TestInvoiceCreateRejectsUnknownReferences(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 5)

	inv := f.newInvoice(1)
	inv.CustomerID = 99
	err := f.store.Invoices().Create(ctx, inv)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	inv = f.newInvoice(1)
	inv.Items = append(inv.Items, invoice.Item{ProductID: 42, Quantity: 1})
	err = f.store.Invoices().Create(ctx, inv)
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	assert.Equal(t, 5, f.quantity(t))
	summaries, err := f.store.Invoices().List(ctx, invoice.Filter{})
	require.NoError(t, err)
	assert.Empty(t, summaries)
}

func TestInvoiceCancelSymmetry(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 5)
	invoices := f.store.Invoices()

	inv := f.newInvoice(3)
	require.NoError(t, invoices.Create(ctx, inv))
	require.Equal(t, 2, f.quantity(t))

	notes := "customer withdrew"
	change, err := invoices.UpdateStatus(ctx, inv.ID, invoice.StatusCancelled, &notes)
	require.NoError(t, err)
	assert.Equal(t, invoice.StatusPending, change.Previous)
	assert.Equal(t, 5, f.quantity(t))

	change, err = invoices.UpdateStatus(ctx, inv.ID, invoice.StatusPaid, nil)
	require.NoError(t, err)
	assert.Equal(t, invoice.StatusCancelled, change.Previous)
	assert.Equal(t, 2, f.quantity(t))
	assert.Equal(t, notes, change.Invoice.Notes)

	_, err = invoices.UpdateStatus(ctx, inv.ID, invoice.StatusCancelled, nil)
	require.NoError(t, err)
	_, err = invoices.Delete(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, f.quantity(t), "deleting a cancelled invoice must not restore twice")
}

func TestCustomerDeleteGuard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 5)
	customers := f.store.Customers()

	require.NoError(t, f.store.Invoices().Create(ctx, f.newInvoice(1)))

	count, err := customers.CountInvoices(ctx, f.customer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	err = customers.Delete(ctx, f.customer.ID)
	assert.ErrorIs(t, err, customer.ErrCustomerHasInvoices)

	_, err = customers.FindByID(ctx, f.customer.ID)
	assert.NoError(t, err)
}

func TestSoftDeletedProductKeepsInvoiceLineName(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 5)

	inv := f.newInvoice(1)
	require.NoError(t, f.store.Invoices().Create(ctx, inv))
	require.NoError(t, f.store.Products().Delete(ctx, f.product.ID))

	_, err := f.store.Products().FindByID(ctx, f.product.ID)
	assert.ErrorIs(t, err, product.ErrProductNotFound)
	_, err = f.store.Inventory().FindByProductID(ctx, f.product.ID)
	assert.ErrorIs(t, err, inventory.ErrInventoryNotFound)

	detail, err := f.store.Invoices().FindByID(ctx, inv.ID)
	require.NoError(t, err)
	require.Len(t, detail.Items, 1)
	assert.Equal(t, "Widget", detail.Items[0].ProductName)
	assert.Equal(t, "Acme", detail.CustomerName)
	assert.Equal(t, "billing@acme.test", detail.Email)
}

func TestInvoiceListFiltersAndStats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 100)
	invoices := f.store.Invoices()

	march := f.newInvoice(1)
	require.NoError(t, invoices.Create(ctx, march))

	april := f.newInvoice(2)
	april.InvoiceDate = invoice.NewDate(fixedNow.AddDate(0, 1, 0))
	require.NoError(t, invoices.Create(ctx, april))
	_, err := invoices.UpdateStatus(ctx, april.ID, invoice.StatusPaid, nil)
	require.NoError(t, err)

	all, err := invoices.List(ctx, invoice.Filter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, april.ID, all[0].ID, "newest invoice date first")

	from := invoice.NewDate(fixedNow.AddDate(0, 0, 7))
	later, err := invoices.List(ctx, invoice.Filter{DateFrom: &from})
	require.NoError(t, err)
	require.Len(t, later, 1)
	assert.Equal(t, april.ID, later[0].ID)

	paid, err := invoices.List(ctx, invoice.Filter{Status: invoice.StatusPaid})
	require.NoError(t, err)
	require.Len(t, paid, 1)

	stats, err := invoices.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalInvoices)
	assert.Equal(t, int64(1), stats.PendingCount)
	assert.Equal(t, int64(1), stats.PaidCount)
	assert.True(t, stats.TotalRevenue.Equal(decimal.RequireFromString("19.98")))
	assert.True(t, stats.PendingAmount.Equal(decimal.RequireFromString("9.99")))
	assert.True(t, stats.AverageInvoice.Equal(decimal.RequireFromString("14.99")), stats.AverageInvoice.String())
}

func TestInventoryViews(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 5)
	products := f.store.Products()

	empty := &product.Product{Name: "Anchor", Price: decimal.NewFromInt(3)}
	require.NoError(t, products.Create(ctx, empty, product.StockLevels{Quantity: 0, MinStock: 10}))
	full := &product.Product{Name: "Bolt", Price: decimal.NewFromInt(1)}
	require.NoError(t, products.Create(ctx, full, product.StockLevels{Quantity: 50, MinStock: 10}))

	items, err := f.store.Inventory().List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"Anchor", "Bolt", "Widget"}, []string{items[0].Name, items[1].Name, items[2].Name})
	assert.Equal(t, inventory.StatusOutOfStock, items[0].Status)
	assert.Equal(t, inventory.StatusOK, items[1].Status)
	assert.Equal(t, inventory.StatusLowStock, items[2].Status)

	low, err := f.store.Inventory().ListLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "Anchor", low[0].Name)
	assert.Equal(t, 10, low[0].Deficit)

	stats, err := f.store.Inventory().Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, inventory.Stats{TotalProducts: 3, TotalItems: 55, LowStockCount: 2, OutOfStockCount: 1}, *stats)
}
