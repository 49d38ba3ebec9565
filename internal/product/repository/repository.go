package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	inventory "github.com/tair/inventory-invoicing/internal/inventory/domain"
	"github.com/tair/inventory-invoicing/internal/product/domain"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// GormProductRepository persists products and their inventory records
type GormProductRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db, now: time.Now}
}

func (r *GormProductRepository) Create(ctx context.Context, product *domain.Product, stock domain.StockLevels) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(product).Error; err != nil {
			return err
		}

		record := inventory.Record{
			ProductID:   product.ID,
			Quantity:    stock.Quantity,
			MinStock:    stock.MinStock,
			LastUpdated: r.now(),
		}
		return tx.Create(&record).Error
	})
}

func (r *GormProductRepository) views(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("products").
		Select(`products.id, products.name, products.description, products.price, products.category,
			products.created_at, products.updated_at,
			COALESCE(inventory.quantity, 0) AS quantity,
			COALESCE(inventory.min_stock, ?) AS min_stock`, inventory.DefaultMinStock).
		Joins("LEFT JOIN inventory ON inventory.product_id = products.id").
		Where("products.deleted_at IS NULL")
}

func (r *GormProductRepository) FindByID(ctx context.Context, id uint) (*domain.View, error) {
	var view domain.View
	res := r.views(ctx).Where("products.id = ?", id).Limit(1).Scan(&view)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrProductNotFound
	}
	return &view, nil
}

func (r *GormProductRepository) List(ctx context.Context, filter domain.Filter) ([]domain.View, error) {
	q := r.views(ctx)
	if filter.Search != "" {
		q = q.Where("products.name ILIKE ?", "%"+likeEscaper.Replace(filter.Search)+"%")
	}
	if filter.Category != "" {
		q = q.Where("products.category = ?", filter.Category)
	}

	var views []domain.View
	err := q.Order("products.name, products.id").Scan(&views).Error
	return views, err
}

func (r *GormProductRepository) Update(ctx context.Context, product *domain.Product, stock domain.StockUpdate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Product{}).
			Where("id = ?", product.ID).
			Updates(map[string]interface{}{
				"name":        product.Name,
				"description": product.Description,
				"price":       product.Price,
				"category":    product.Category,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrProductNotFound
		}

		if stock.IsEmpty() {
			return nil
		}

		updates := map[string]interface{}{"last_updated": r.now()}
		if stock.Quantity != nil {
			updates["quantity"] = *stock.Quantity
		}
		if stock.MinStock != nil {
			updates["min_stock"] = *stock.MinStock
		}

		res = tx.Model(&inventory.Record{}).Where("product_id = ?", product.ID).Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return inventory.ErrInventoryNotFound
		}
		return nil
	})
}

// Delete soft-deletes the product; invoice lines keep referencing it
func (r *GormProductRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}
