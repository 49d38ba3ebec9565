// Package memstore keeps every entity in process memory behind one lock.
// It backs STORAGE_DRIVER=memory and the HTTP tests.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	customer "github.com/tair/inventory-invoicing/internal/customer/domain"
	inventory "github.com/tair/inventory-invoicing/internal/inventory/domain"
	invoice "github.com/tair/inventory-invoicing/internal/invoice/domain"
	product "github.com/tair/inventory-invoicing/internal/product/domain"
)

// Option configures a Store
type Option func(*Store)

// WithClock overrides the time source for timestamps and invoice numbering
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// Store holds products, stock, customers and invoices
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	products  map[uint]*product.Product
	stock     map[uint]*inventory.Record
	customers map[uint]*customer.Customer
	invoices  map[uint]*invoice.Invoice

	lastProductID  uint
	lastCustomerID uint
	lastInvoiceID  uint
	lastItemID     uint
}

func New(opts ...Option) *Store {
	s := &Store{
		now:       time.Now,
		products:  make(map[uint]*product.Product),
		stock:     make(map[uint]*inventory.Record),
		customers: make(map[uint]*customer.Customer),
		invoices:  make(map[uint]*invoice.Invoice),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ping always succeeds
func (s *Store) Ping(context.Context) error {
	return nil
}

func (s *Store) Products() *ProductRepository {
	return &ProductRepository{s: s}
}

func (s *Store) Inventory() *InventoryRepository {
	return &InventoryRepository{s: s}
}

func (s *Store) Customers() *CustomerRepository {
	return &CustomerRepository{s: s}
}

func (s *Store) Invoices() *InvoiceRepository {
	return &InvoiceRepository{s: s}
}

// activeProduct returns a product that exists and is not soft-deleted. Callers hold the lock.
func (s *Store) activeProduct(id uint) (*product.Product, bool) {
	p, ok := s.products[id]
	if !ok || p.DeletedAt.Valid {
		return nil, false
	}
	return p, true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func byNameThenID[T any](items []T, name func(T) string, id func(T) uint) {
	sort.SliceStable(items, func(i, j int) bool {
		ni, nj := name(items[i]), name(items[j])
		if ni != nj {
			return ni < nj
		}
		return id(items[i]) < id(items[j])
	})
}
