package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	inventory "github.com/tair/inventory-invoicing/internal/inventory/domain"
	"github.com/tair/inventory-invoicing/pkg/apperror"
)

// ErrProductNotFound is returned when a product does not exist or was deleted
var ErrProductNotFound = apperror.NotFound("product not found")

// Product represents the product entity
type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"size:200;not null;index"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	Category    string          `json:"category" gorm:"size:100;index"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `json:"-" gorm:"index"`

	Inventory *inventory.Record `json:"-" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}

// View is a product joined with its stock levels
type View struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Quantity    int             `json:"quantity"`
	MinStock    int             `json:"min_stock"`
}

// Filter narrows a product listing
type Filter struct {
	// Search matches a case-insensitive substring of the name
	Search   string
	Category string
}

// StockLevels are the initial inventory values of a new product
type StockLevels struct {
	Quantity int
	MinStock int
}

// StockUpdate changes inventory values; nil fields keep their current value
type StockUpdate struct {
	Quantity *int
	MinStock *int
}

// IsEmpty reports whether the update touches no inventory field
func (u StockUpdate) IsEmpty() bool {
	return u.Quantity == nil && u.MinStock == nil
}

// Repository defines the contract for product data access
type Repository interface {
	// Create inserts the product together with its inventory record
	Create(ctx context.Context, product *Product, stock StockLevels) error
	FindByID(ctx context.Context, id uint) (*View, error)
	List(ctx context.Context, filter Filter) ([]View, error)
	Update(ctx context.Context, product *Product, stock StockUpdate) error
	Delete(ctx context.Context, id uint) error
}
