package domain

import (
	"context"
	"time"

	"github.com/tair/inventory-invoicing/pkg/apperror"
)

var (
	// ErrCustomerNotFound is returned when a customer does not exist
	ErrCustomerNotFound = apperror.NotFound("customer not found")
	// ErrCustomerHasInvoices is returned when deleting a customer still referenced by invoices
	ErrCustomerHasInvoices = apperror.Conflict("customer cannot be deleted because it has invoices")
)

// Customer represents the customer entity
type Customer struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:200;not null;index"`
	Email     string    `json:"email" gorm:"size:200"`
	Phone     string    `json:"phone" gorm:"size:50"`
	Address   string    `json:"address"`
	TaxID     string    `json:"tax_id" gorm:"size:50"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name
func (Customer) TableName() string {
	return "customers"
}

// Repository defines the contract for customer data access
type Repository interface {
	Create(ctx context.Context, customer *Customer) error
	FindByID(ctx context.Context, id uint) (*Customer, error)
	// List returns customers whose name, email or phone contains search
	List(ctx context.Context, search string) ([]Customer, error)
	Update(ctx context.Context, customer *Customer) error
	Delete(ctx context.Context, id uint) error
	CountInvoices(ctx context.Context, id uint) (int64, error)
}
