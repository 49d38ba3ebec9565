package memstore

import (
	"context"

	"github.com/tair/inventory-invoicing/internal/customer/domain"
)

// CustomerRepository implements domain.Repository on a Store
type CustomerRepository struct {
	s *Store
}

func (r *CustomerRepository) Create(_ context.Context, c *domain.Customer) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastCustomerID++
	c.ID = s.lastCustomerID
	c.CreatedAt = s.now()

	stored := *c
	s.customers[c.ID] = &stored
	return nil
}

func (r *CustomerRepository) FindByID(_ context.Context, id uint) (*domain.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.customers[id]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *CustomerRepository) List(_ context.Context, search string) ([]domain.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	customers := []domain.Customer{}
	for _, c := range r.s.customers {
		if search != "" && !containsFold(c.Name, search) && !containsFold(c.Email, search) && !containsFold(c.Phone, search) {
			continue
		}
		customers = append(customers, *c)
	}

	byNameThenID(customers, func(c domain.Customer) string { return c.Name }, func(c domain.Customer) uint { return c.ID })
	return customers, nil
}

func (r *CustomerRepository) Update(_ context.Context, c *domain.Customer) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.customers[c.ID]
	if !ok {
		return domain.ErrCustomerNotFound
	}
	stored.Name = c.Name
	stored.Email = c.Email
	stored.Phone = c.Phone
	stored.Address = c.Address
	stored.TaxID = c.TaxID
	return nil
}

func (r *CustomerRepository) Delete(_ context.Context, id uint) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.customers[id]; !ok {
		return domain.ErrCustomerNotFound
	}
	if s.countInvoices(id) > 0 {
		return domain.ErrCustomerHasInvoices
	}
	delete(s.customers, id)
	return nil
}

func (r *CustomerRepository) CountInvoices(_ context.Context, id uint) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.countInvoices(id), nil
}

func (s *Store) countInvoices(customerID uint) int64 {
	var n int64
	for _, inv := range s.invoices {
		if inv.CustomerID == customerID {
			n++
		}
	}
	return n
}
