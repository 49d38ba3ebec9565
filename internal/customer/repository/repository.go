package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/tair/inventory-invoicing/internal/customer/domain"
	"github.com/tair/inventory-invoicing/pkg/database"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// GormCustomerRepository persists customers in PostgreSQL
type GormCustomerRepository struct {
	db *gorm.DB
}

func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

func (r *GormCustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

func (r *GormCustomerRepository) FindByID(ctx context.Context, id uint) (*domain.Customer, error) {
	var customer domain.Customer
	err := r.db.WithContext(ctx).First(&customer, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCustomerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *GormCustomerRepository) List(ctx context.Context, search string) ([]domain.Customer, error) {
	q := r.db.WithContext(ctx)
	if search != "" {
		pattern := "%" + likeEscaper.Replace(search) + "%"
		q = q.Where("name ILIKE ? OR email ILIKE ? OR phone ILIKE ?", pattern, pattern, pattern)
	}

	var customers []domain.Customer
	err := q.Order("name, id").Find(&customers).Error
	return customers, err
}

func (r *GormCustomerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Customer{}).
		Where("id = ?", customer.ID).
		Updates(map[string]interface{}{
			"name":    customer.Name,
			"email":   customer.Email,
			"phone":   customer.Phone,
			"address": customer.Address,
			"tax_id":  customer.TaxID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

func (r *GormCustomerRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Customer{}, id)
	if res.Error != nil {
		// an invoice created after the guard ran still blocks the delete
		if database.IsForeignKeyViolation(res.Error) {
			return domain.ErrCustomerHasInvoices
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrCustomerNotFound
	}
	return nil
}

func (r *GormCustomerRepository) CountInvoices(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("invoices").Where("customer_id = ?", id).Count(&count).Error
	return count, err
}
