package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	customer "github.com/tair/inventory-invoicing/internal/customer/domain"
	inventory "github.com/tair/inventory-invoicing/internal/inventory/domain"
	"github.com/tair/inventory-invoicing/internal/invoice/domain"
	product "github.com/tair/inventory-invoicing/internal/product/domain"
	"github.com/tair/inventory-invoicing/pkg/apperror"
	"github.com/tair/inventory-invoicing/pkg/database"
	"github.com/tair/inventory-invoicing/pkg/logger"
)

const (
	// numberingLockKey identifies the advisory lock serializing invoice numbering
	numberingLockKey = 720_315_001
	// maxCreateAttempts bounds retries after an invoice number collision
	maxCreateAttempts = 3
)

// Option configures the repository
type Option func(*GormInvoiceRepository)

// WithClock overrides the time source used for numbering and stock timestamps
func WithClock(now func() time.Time) Option {
	return func(r *GormInvoiceRepository) {
		r.now = now
	}
}

// WithRetryHook registers a callback invoked before each numbering retry
func WithRetryHook(hook func()) Option {
	return func(r *GormInvoiceRepository) {
		r.onRetry = hook
	}
}

// GormInvoiceRepository persists invoices and moves stock in PostgreSQL
type GormInvoiceRepository struct {
	db      *gorm.DB
	now     func() time.Time
	onRetry func()
}

func NewGormInvoiceRepository(db *gorm.DB, opts ...Option) *GormInvoiceRepository {
	r := &GormInvoiceRepository{db: db, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create numbers and inserts the invoice under the numbering lock. The unique index
// only rejects a number when rows were written outside this repository, so the
// retries guard that case rather than concurrent creates.
func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	var err error
	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return r.create(tx, invoice)
		})
		if err == nil || !database.IsUniqueViolation(err) {
			return err
		}

		logger.Warn(ctx).
			Err(err).
			Int("attempt", attempt).
			Str("invoice_number", invoice.InvoiceNumber).
			Msg("Invoice number collision, retrying")

		resetIDs(invoice)
		if r.onRetry != nil && attempt < maxCreateAttempts {
			r.onRetry()
		}
	}
	return fmt.Errorf("failed to allocate invoice number after %d attempts: %w", maxCreateAttempts, err)
}

func (r *GormInvoiceRepository) create(tx *gorm.DB, invoice *domain.Invoice) error {
	if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", numberingLockKey).Error; err != nil {
		return fmt.Errorf("failed to lock invoice numbering: %w", err)
	}

	var last domain.Invoice
	if err := tx.Select("invoice_number").Order("id DESC").Limit(1).Find(&last).Error; err != nil {
		return fmt.Errorf("failed to read last invoice number: %w", err)
	}
	invoice.InvoiceNumber = domain.NextNumber(last.InvoiceNumber, r.now())

	var customers int64
	if err := tx.Model(&customer.Customer{}).Where("id = ?", invoice.CustomerID).Count(&customers).Error; err != nil {
		return err
	}
	if customers == 0 {
		return apperror.Validation("customer %d does not exist", invoice.CustomerID)
	}

	for _, item := range invoice.Items {
		var products int64
		if err := tx.Model(&product.Product{}).Where("id = ?", item.ProductID).Count(&products).Error; err != nil {
			return err
		}
		if products == 0 {
			return apperror.Validation("product %d does not exist", item.ProductID)
		}
	}

	if err := tx.Omit(clause.Associations).Create(invoice).Error; err != nil {
		return err
	}

	for i := range invoice.Items {
		invoice.Items[i].InvoiceID = invoice.ID
	}
	if err := tx.Omit(clause.Associations).Create(&invoice.Items).Error; err != nil {
		return err
	}

	if invoice.Status.HoldsStock() {
		return r.moveStock(tx, invoice.Items, -1)
	}
	return nil
}

// moveStock adds sign*quantity of every item to its product's inventory record
func (r *GormInvoiceRepository) moveStock(tx *gorm.DB, items []domain.Item, sign int) error {
	now := r.now()
	for _, item := range items {
		res := tx.Model(&inventory.Record{}).
			Where("product_id = ?", item.ProductID).
			Updates(map[string]interface{}{
				"quantity":     gorm.Expr("quantity + ?", sign*item.Quantity),
				"last_updated": now,
			})
		if res.Error != nil {
			return fmt.Errorf("failed to adjust stock of product %d: %w", item.ProductID, res.Error)
		}
		if res.RowsAffected == 0 {
			return apperror.Validation("product %d has no inventory record", item.ProductID)
		}
	}
	return nil
}

func resetIDs(invoice *domain.Invoice) {
	invoice.ID = 0
	invoice.InvoiceNumber = ""
	for i := range invoice.Items {
		invoice.Items[i].ID = 0
		invoice.Items[i].InvoiceID = 0
	}
}

const (
	summaryColumns = `invoices.id, invoices.invoice_number, invoices.customer_id, customers.name AS customer_name,
		invoices.invoice_date, invoices.status, invoices.notes, invoices.total, invoices.created_at`
	contactColumns = `customers.email, customers.phone, customers.address, customers.tax_id AS customer_tax_id`
)

func (r *GormInvoiceRepository) withCustomers(ctx context.Context, columns string) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("invoices").
		Select(columns).
		Joins("JOIN customers ON customers.id = invoices.customer_id")
}

func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uint) (*domain.Detail, error) {
	var detail domain.Detail
	res := r.withCustomers(ctx, summaryColumns+", "+contactColumns).
		Where("invoices.id = ?", id).
		Limit(1).
		Scan(&detail)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrInvoiceNotFound
	}

	err := r.db.WithContext(ctx).
		Table("invoice_items").
		Select(`invoice_items.id, invoice_items.invoice_id, invoice_items.product_id, products.name AS product_name,
			invoice_items.quantity, invoice_items.unit_price, invoice_items.subtotal`).
		Joins("JOIN products ON products.id = invoice_items.product_id").
		Where("invoice_items.invoice_id = ?", id).
		Order("invoice_items.id").
		Scan(&detail.Items).Error
	if err != nil {
		return nil, err
	}
	if detail.Items == nil {
		detail.Items = []domain.ItemDetail{}
	}
	return &detail, nil
}

func (r *GormInvoiceRepository) List(ctx context.Context, filter domain.Filter) ([]domain.Summary, error) {
	q := r.withCustomers(ctx, summaryColumns)
	if filter.CustomerID != 0 {
		q = q.Where("invoices.customer_id = ?", filter.CustomerID)
	}
	if filter.Status != "" {
		q = q.Where("invoices.status = ?", filter.Status)
	}
	if filter.DateFrom != nil {
		q = q.Where("invoices.invoice_date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		q = q.Where("invoices.invoice_date <= ?", *filter.DateTo)
	}

	var summaries []domain.Summary
	err := q.Order("invoices.invoice_date DESC, invoices.id DESC").Scan(&summaries).Error
	return summaries, err
}

// lockInvoice loads an invoice and its items, holding a row lock until the transaction ends
func lockInvoice(tx *gorm.DB, id uint) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&invoice, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrInvoiceNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Where("invoice_id = ?", id).Order("id").Find(&invoice.Items).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *GormInvoiceRepository) UpdateStatus(ctx context.Context, id uint, status domain.Status, notes *string) (*domain.StatusChange, error) {
	var change *domain.StatusChange
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err := lockInvoice(tx, id)
		if err != nil {
			return err
		}
		previous := invoice.Status

		switch {
		case previous.HoldsStock() && !status.HoldsStock():
			err = r.moveStock(tx, invoice.Items, +1)
		case !previous.HoldsStock() && status.HoldsStock():
			err = r.moveStock(tx, invoice.Items, -1)
		}
		if err != nil {
			return err
		}

		updates := map[string]interface{}{"status": status}
		if notes != nil {
			updates["notes"] = *notes
		}
		if err := tx.Model(&domain.Invoice{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}

		invoice.Status = status
		if notes != nil {
			invoice.Notes = *notes
		}
		change = &domain.StatusChange{Invoice: invoice, Previous: previous}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return change, nil
}

func (r *GormInvoiceRepository) Delete(ctx context.Context, id uint) (*domain.Invoice, error) {
	var deleted *domain.Invoice
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err := lockInvoice(tx, id)
		if err != nil {
			return err
		}

		if invoice.Status.HoldsStock() {
			if err := r.moveStock(tx, invoice.Items, +1); err != nil {
				return err
			}
		}

		if err := tx.Where("invoice_id = ?", id).Delete(&domain.Item{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&domain.Invoice{}, id).Error; err != nil {
			return err
		}

		deleted = invoice
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

func (r *GormInvoiceRepository) Stats(ctx context.Context) (*domain.Stats, error) {
	var stats domain.Stats
	err := r.db.WithContext(ctx).
		Table("invoices").
		Select(`COUNT(*) AS total_invoices,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS pending_count,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS paid_count,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS cancelled_count,
			COALESCE(SUM(CASE WHEN status = ? THEN total ELSE 0 END), 0) AS total_revenue,
			COALESCE(SUM(CASE WHEN status = ? THEN total ELSE 0 END), 0) AS pending_amount,
			COALESCE(AVG(total), 0) AS average_invoice`,
			domain.StatusPending, domain.StatusPaid, domain.StatusCancelled,
			domain.StatusPaid, domain.StatusPending).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	stats.AverageInvoice = stats.AverageInvoice.Round(2)
	return &stats, nil
}
