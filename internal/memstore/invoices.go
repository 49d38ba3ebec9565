package memstore

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/tair/inventory-invoicing/internal/invoice/domain"
	"github.com/tair/inventory-invoicing/pkg/apperror"
)

// InvoiceRepository implements domain.Repository on a Store. Writes validate
// every reference before touching state, so a failed write changes nothing.
type InvoiceRepository struct {
	s *Store
}

func (r *InvoiceRepository) Create(_ context.Context, inv *domain.Invoice) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers[inv.CustomerID]; !ok {
		return apperror.Validation("customer %d does not exist", inv.CustomerID)
	}
	for _, item := range inv.Items {
		if _, ok := s.activeProduct(item.ProductID); !ok {
			return apperror.Validation("product %d does not exist", item.ProductID)
		}
		if _, ok := s.stock[item.ProductID]; !ok {
			return apperror.Validation("product %d has no inventory record", item.ProductID)
		}
	}

	now := s.now()
	var last string
	var lastID uint
	for id, prev := range s.invoices {
		if id > lastID {
			lastID, last = id, prev.InvoiceNumber
		}
	}

	s.lastInvoiceID++
	inv.ID = s.lastInvoiceID
	inv.InvoiceNumber = domain.NextNumber(last, now)
	inv.CreatedAt = now
	for i := range inv.Items {
		s.lastItemID++
		inv.Items[i].ID = s.lastItemID
		inv.Items[i].InvoiceID = inv.ID
	}

	if inv.Status.HoldsStock() {
		s.moveStock(inv.Items, -1)
	}
	s.invoices[inv.ID] = cloneInvoice(inv)
	return nil
}

// moveStock adds sign*quantity of every item to its product's stock. Callers hold the lock.
func (s *Store) moveStock(items []domain.Item, sign int) {
	now := s.now()
	for _, item := range items {
		if rec, ok := s.stock[item.ProductID]; ok {
			rec.Quantity += sign * item.Quantity
			rec.LastUpdated = now
		}
	}
}

func (r *InvoiceRepository) summary(inv *domain.Invoice) domain.Summary {
	sum := domain.Summary{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		CustomerID:    inv.CustomerID,
		InvoiceDate:   inv.InvoiceDate,
		Status:        inv.Status,
		Notes:         inv.Notes,
		Total:         inv.Total,
		CreatedAt:     inv.CreatedAt,
	}
	if c, ok := r.s.customers[inv.CustomerID]; ok {
		sum.CustomerName = c.Name
	}
	return sum
}

func (r *InvoiceRepository) FindByID(_ context.Context, id uint) (*domain.Detail, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, domain.ErrInvoiceNotFound
	}

	detail := &domain.Detail{Summary: r.summary(inv), Items: []domain.ItemDetail{}}
	if c, ok := r.s.customers[inv.CustomerID]; ok {
		detail.Email = c.Email
		detail.Phone = c.Phone
		detail.Address = c.Address
		detail.CustomerTaxID = c.TaxID
	}
	for _, item := range inv.Items {
		line := domain.ItemDetail{
			ID:        item.ID,
			InvoiceID: item.InvoiceID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		}
		// soft-deleted products keep their name on old invoices
		if p, ok := r.s.products[item.ProductID]; ok {
			line.ProductName = p.Name
		}
		detail.Items = append(detail.Items, line)
	}
	return detail, nil
}

func (r *InvoiceRepository) List(_ context.Context, filter domain.Filter) ([]domain.Summary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	summaries := []domain.Summary{}
	for _, inv := range r.s.invoices {
		if filter.CustomerID != 0 && inv.CustomerID != filter.CustomerID {
			continue
		}
		if filter.Status != "" && inv.Status != filter.Status {
			continue
		}
		if filter.DateFrom != nil && inv.InvoiceDate.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && inv.InvoiceDate.After(*filter.DateTo) {
			continue
		}
		summaries = append(summaries, r.summary(inv))
	}

	sort.Slice(summaries, func(i, j int) bool {
		di, dj := summaries[i].InvoiceDate, summaries[j].InvoiceDate
		if !di.Equal(dj.Time) {
			return di.After(dj)
		}
		return summaries[i].ID > summaries[j].ID
	})
	return summaries, nil
}

func (r *InvoiceRepository) UpdateStatus(_ context.Context, id uint, status domain.Status, notes *string) (*domain.StatusChange, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invoices[id]
	if !ok {
		return nil, domain.ErrInvoiceNotFound
	}
	previous := inv.Status

	switch {
	case previous.HoldsStock() && !status.HoldsStock():
		s.moveStock(inv.Items, +1)
	case !previous.HoldsStock() && status.HoldsStock():
		s.moveStock(inv.Items, -1)
	}

	inv.Status = status
	if notes != nil {
		inv.Notes = *notes
	}
	return &domain.StatusChange{Invoice: cloneInvoice(inv), Previous: previous}, nil
}

func (r *InvoiceRepository) Delete(_ context.Context, id uint) (*domain.Invoice, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invoices[id]
	if !ok {
		return nil, domain.ErrInvoiceNotFound
	}
	if inv.Status.HoldsStock() {
		s.moveStock(inv.Items, +1)
	}
	delete(s.invoices, id)
	return inv, nil
}

func (r *InvoiceRepository) Stats(_ context.Context) (*domain.Stats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	stats := domain.Stats{
		TotalRevenue:   decimal.Zero,
		PendingAmount:  decimal.Zero,
		AverageInvoice: decimal.Zero,
	}
	sum := decimal.Zero
	for _, inv := range r.s.invoices {
		stats.TotalInvoices++
		sum = sum.Add(inv.Total)
		switch inv.Status {
		case domain.StatusPending:
			stats.PendingCount++
			stats.PendingAmount = stats.PendingAmount.Add(inv.Total)
		case domain.StatusPaid:
			stats.PaidCount++
			stats.TotalRevenue = stats.TotalRevenue.Add(inv.Total)
		case domain.StatusCancelled:
			stats.CancelledCount++
		}
	}
	if stats.TotalInvoices > 0 {
		stats.AverageInvoice = sum.Div(decimal.NewFromInt(stats.TotalInvoices)).Round(2)
	}
	return &stats, nil
}

func cloneInvoice(inv *domain.Invoice) *domain.Invoice {
	copied := *inv
	copied.Customer = nil
	copied.Items = make([]domain.Item, len(inv.Items))
	copy(copied.Items, inv.Items)
	for i := range copied.Items {
		copied.Items[i].Product = nil
	}
	return &copied
}
