package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tair/inventory-invoicing/pkg/apperror"
)

// DefaultMinStock is the threshold applied when none is given
const DefaultMinStock = 10

// ErrInventoryNotFound is returned when a product has no inventory record
var ErrInventoryNotFound = apperror.NotFound("inventory record not found")

// Status is the stock level derived from quantity and threshold
type Status string

const (
	StatusOK         Status = "ok"
	StatusLowStock   Status = "low_stock"
	StatusOutOfStock Status = "out_of_stock"
)

// DeriveStatus classifies a stock level. Oversold (negative) stock counts as out of stock.
func DeriveStatus(quantity, minStock int) Status {
	switch {
	case quantity <= 0:
		return StatusOutOfStock
	case quantity < minStock:
		return StatusLowStock
	default:
		return StatusOK
	}
}

// Record holds the on-hand quantity of one product
type Record struct {
	ProductID   uint      `json:"product_id" gorm:"primaryKey;autoIncrement:false"`
	Quantity    int       `json:"quantity" gorm:"not null"`
	MinStock    int       `json:"min_stock" gorm:"not null"`
	LastUpdated time.Time `json:"last_updated" gorm:"not null"`
}

// TableName specifies the table name
func (Record) TableName() string {
	return "inventory"
}

// Status derives the record's stock status
func (r Record) Status() Status {
	return DeriveStatus(r.Quantity, r.MinStock)
}

// Item is an inventory row joined with its product
type Item struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	MinStock    int             `json:"min_stock"`
	LastUpdated *time.Time      `json:"last_updated"`
	Status      Status          `json:"status" gorm:"-"`
}

// LowStockItem is a product whose quantity is below its threshold
type LowStockItem struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	MinStock    int             `json:"min_stock"`
	Deficit     int             `json:"deficit"`
}

// Stats aggregates stock levels across the catalog
type Stats struct {
	TotalProducts   int64 `json:"total_products"`
	TotalItems      int64 `json:"total_items"`
	LowStockCount   int64 `json:"low_stock_count"`
	OutOfStockCount int64 `json:"out_of_stock_count"`
}

// Repository defines the contract for inventory data access
type Repository interface {
	FindByProductID(ctx context.Context, productID uint) (*Record, error)
	List(ctx context.Context) ([]Item, error)
	ListLowStock(ctx context.Context) ([]LowStockItem, error)
	Stats(ctx context.Context) (*Stats, error)
	SetLevels(ctx context.Context, productID uint, quantity, minStock int) error
}
