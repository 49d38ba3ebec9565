package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tair/inventory-invoicing/internal/inventory/domain"
)

// GormInventoryRepository reads and adjusts stock levels in PostgreSQL
type GormInventoryRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db, now: time.Now}
}

func (r *GormInventoryRepository) FindByProductID(ctx context.Context, productID uint) (*domain.Record, error) {
	var record domain.Record
	err := r.db.WithContext(ctx).
		Joins("JOIN products ON products.id = inventory.product_id AND products.deleted_at IS NULL").
		Where("inventory.product_id = ?", productID).
		Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrInventoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *GormInventoryRepository) List(ctx context.Context) ([]domain.Item, error) {
	var items []domain.Item
	err := r.db.WithContext(ctx).
		Table("products").
		Select(`products.id, products.name, products.category, products.price,
			COALESCE(inventory.quantity, 0) AS quantity,
			COALESCE(inventory.min_stock, ?) AS min_stock,
			inventory.last_updated`, domain.DefaultMinStock).
		Joins("LEFT JOIN inventory ON inventory.product_id = products.id").
		Where("products.deleted_at IS NULL").
		Order("products.name, products.id").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}

	for i := range items {
		items[i].Status = domain.DeriveStatus(items[i].Quantity, items[i].MinStock)
	}
	return items, nil
}

func (r *GormInventoryRepository) ListLowStock(ctx context.Context) ([]domain.LowStockItem, error) {
	var items []domain.LowStockItem
	err := r.db.WithContext(ctx).
		Table("products").
		Select(`products.id, products.name, products.description, products.category, products.price,
			inventory.quantity, inventory.min_stock,
			inventory.min_stock - inventory.quantity AS deficit`).
		Joins("JOIN inventory ON inventory.product_id = products.id").
		Where("products.deleted_at IS NULL AND inventory.quantity < inventory.min_stock").
		Order("deficit DESC, products.name").
		Scan(&items).Error
	return items, err
}

func (r *GormInventoryRepository) Stats(ctx context.Context) (*domain.Stats, error) {
	var stats domain.Stats
	err := r.db.WithContext(ctx).
		Table("inventory").
		Select(`COUNT(*) AS total_products,
			COALESCE(SUM(inventory.quantity), 0) AS total_items,
			COALESCE(SUM(CASE WHEN inventory.quantity < inventory.min_stock THEN 1 ELSE 0 END), 0) AS low_stock_count,
			COALESCE(SUM(CASE WHEN inventory.quantity <= 0 THEN 1 ELSE 0 END), 0) AS out_of_stock_count`).
		Joins("JOIN products ON products.id = inventory.product_id AND products.deleted_at IS NULL").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *GormInventoryRepository) SetLevels(ctx context.Context, productID uint, quantity, minStock int) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Record{}).
		Where("product_id = ? AND product_id IN (SELECT id FROM products WHERE deleted_at IS NULL)", productID).
		Updates(map[string]interface{}{
			"quantity":     quantity,
			"min_stock":    minStock,
			"last_updated": r.now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrInventoryNotFound
	}
	return nil
}
