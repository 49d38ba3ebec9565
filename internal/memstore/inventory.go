package memstore

import (
	"context"
	"sort"

	"github.com/tair/inventory-invoicing/internal/inventory/domain"
)

// InventoryRepository implements domain.Repository on a Store
type InventoryRepository struct {
	s *Store
}

func (r *InventoryRepository) FindByProductID(_ context.Context, productID uint) (*domain.Record, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.stock[productID]
	if _, active := r.s.activeProduct(productID); !ok || !active {
		return nil, domain.ErrInventoryNotFound
	}
	copied := *rec
	return &copied, nil
}

func (r *InventoryRepository) List(_ context.Context) ([]domain.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items := []domain.Item{}
	for id := range r.s.products {
		p, ok := r.s.activeProduct(id)
		if !ok {
			continue
		}
		item := domain.Item{
			ID:       p.ID,
			Name:     p.Name,
			Category: p.Category,
			Price:    p.Price,
			MinStock: domain.DefaultMinStock,
		}
		if rec, ok := r.s.stock[id]; ok {
			updated := rec.LastUpdated
			item.Quantity = rec.Quantity
			item.MinStock = rec.MinStock
			item.LastUpdated = &updated
		}
		item.Status = domain.DeriveStatus(item.Quantity, item.MinStock)
		items = append(items, item)
	}

	byNameThenID(items, func(i domain.Item) string { return i.Name }, func(i domain.Item) uint { return i.ID })
	return items, nil
}

func (r *InventoryRepository) ListLowStock(_ context.Context) ([]domain.LowStockItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items := []domain.LowStockItem{}
	for id, rec := range r.s.stock {
		p, ok := r.s.activeProduct(id)
		if !ok || rec.Quantity >= rec.MinStock {
			continue
		}
		items = append(items, domain.LowStockItem{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Category:    p.Category,
			Price:       p.Price,
			Quantity:    rec.Quantity,
			MinStock:    rec.MinStock,
			Deficit:     rec.MinStock - rec.Quantity,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Deficit != items[j].Deficit {
			return items[i].Deficit > items[j].Deficit
		}
		return items[i].Name < items[j].Name
	})
	return items, nil
}

func (r *InventoryRepository) Stats(_ context.Context) (*domain.Stats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var stats domain.Stats
	for id, rec := range r.s.stock {
		if _, ok := r.s.activeProduct(id); !ok {
			continue
		}
		stats.TotalProducts++
		stats.TotalItems += int64(rec.Quantity)
		if rec.Quantity < rec.MinStock {
			stats.LowStockCount++
		}
		if rec.Quantity <= 0 {
			stats.OutOfStockCount++
		}
	}
	return &stats, nil
}

func (r *InventoryRepository) SetLevels(_ context.Context, productID uint, quantity, minStock int) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.stock[productID]
	if _, active := s.activeProduct(productID); !ok || !active {
		return domain.ErrInventoryNotFound
	}
	rec.Quantity = quantity
	rec.MinStock = minStock
	rec.LastUpdated = s.now()
	return nil
}
