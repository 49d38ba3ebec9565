package memstore

import (
	"context"

	"gorm.io/gorm"

	inventory "github.com/tair/inventory-invoicing/internal/inventory/domain"
	"github.com/tair/inventory-invoicing/internal/product/domain"
)

// ProductRepository implements domain.Repository on a Store
type ProductRepository struct {
	s *Store
}

func (r *ProductRepository) Create(_ context.Context, p *domain.Product, stock domain.StockLevels) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.lastProductID++
	p.ID = s.lastProductID
	p.CreatedAt = now
	p.UpdatedAt = now

	stored := *p
	stored.Inventory = nil
	s.products[p.ID] = &stored
	s.stock[p.ID] = &inventory.Record{
		ProductID:   p.ID,
		Quantity:    stock.Quantity,
		MinStock:    stock.MinStock,
		LastUpdated: now,
	}
	return nil
}

func (r *ProductRepository) view(p *domain.Product) domain.View {
	v := domain.View{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		MinStock:    inventory.DefaultMinStock,
	}
	if rec, ok := r.s.stock[p.ID]; ok {
		v.Quantity = rec.Quantity
		v.MinStock = rec.MinStock
	}
	return v
}

func (r *ProductRepository) FindByID(_ context.Context, id uint) (*domain.View, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.activeProduct(id)
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	v := r.view(p)
	return &v, nil
}

func (r *ProductRepository) List(_ context.Context, filter domain.Filter) ([]domain.View, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	views := []domain.View{}
	for id := range r.s.products {
		p, ok := r.s.activeProduct(id)
		if !ok {
			continue
		}
		if filter.Search != "" && !containsFold(p.Name, filter.Search) {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		views = append(views, r.view(p))
	}

	byNameThenID(views, func(v domain.View) string { return v.Name }, func(v domain.View) uint { return v.ID })
	return views, nil
}

func (r *ProductRepository) Update(_ context.Context, p *domain.Product, stock domain.StockUpdate) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.activeProduct(p.ID)
	if !ok {
		return domain.ErrProductNotFound
	}
	rec, hasStock := s.stock[p.ID]
	if !stock.IsEmpty() && !hasStock {
		return inventory.ErrInventoryNotFound
	}

	now := s.now()
	stored.Name = p.Name
	stored.Description = p.Description
	stored.Price = p.Price
	stored.Category = p.Category
	stored.UpdatedAt = now

	if stock.IsEmpty() {
		return nil
	}
	if stock.Quantity != nil {
		rec.Quantity = *stock.Quantity
	}
	if stock.MinStock != nil {
		rec.MinStock = *stock.MinStock
	}
	rec.LastUpdated = now
	return nil
}

func (r *ProductRepository) Delete(_ context.Context, id uint) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.activeProduct(id)
	if !ok {
		return domain.ErrProductNotFound
	}
	p.DeletedAt = gorm.DeletedAt{Time: s.now(), Valid: true}
	return nil
}
