package domain

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	customer "github.com/tair/inventory-invoicing/internal/customer/domain"
	product "github.com/tair/inventory-invoicing/internal/product/domain"
	"github.com/tair/inventory-invoicing/pkg/apperror"
)

// NumberPrefix starts every invoice number
const NumberPrefix = "FAC"

// ErrInvoiceNotFound is returned when an invoice does not exist
var ErrInvoiceNotFound = apperror.NotFound("invoice not found")

// Status is the payment state of an invoice
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

// ParseStatus validates a status name
func ParseStatus(s string) (Status, error) {
	switch status := Status(strings.ToLower(strings.TrimSpace(s))); status {
	case StatusPending, StatusPaid, StatusCancelled:
		return status, nil
	default:
		return "", apperror.Validation("status must be one of pending, paid, cancelled")
	}
}

// HoldsStock reports whether invoices in this status keep their items out of inventory
func (s Status) HoldsStock() bool {
	return s != StatusCancelled
}

// Invoice represents the invoice entity
type Invoice struct {
	ID            uint               `json:"id" gorm:"primaryKey"`
	InvoiceNumber string             `json:"invoice_number" gorm:"size:20;not null;uniqueIndex"`
	CustomerID    uint               `json:"customer_id" gorm:"not null;index"`
	Customer      *customer.Customer `json:"-" gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	InvoiceDate   Date               `json:"invoice_date" gorm:"not null;index"`
	Status        Status             `json:"status" gorm:"size:20;not null;index"`
	Notes         string             `json:"notes"`
	Total         decimal.Decimal    `json:"total" gorm:"type:numeric(12,2);not null"`
	CreatedAt     time.Time          `json:"created_at"`
	Items         []Item             `json:"items,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name
func (Invoice) TableName() string {
	return "invoices"
}

// Item is one product line of an invoice
type Item struct {
	ID        uint             `json:"id" gorm:"primaryKey"`
	InvoiceID uint             `json:"invoice_id" gorm:"not null;index"`
	ProductID uint             `json:"product_id" gorm:"not null;index"`
	Product   *product.Product `json:"-" gorm:"constraint:OnDelete:RESTRICT"`
	Quantity  int              `json:"quantity" gorm:"not null"`
	UnitPrice decimal.Decimal  `json:"unit_price" gorm:"type:numeric(12,2);not null"`
	Subtotal  decimal.Decimal  `json:"subtotal" gorm:"type:numeric(12,2);not null"`
}

// TableName specifies the table name
func (Item) TableName() string {
	return "invoice_items"
}

// CalculateTotals snapshots each line's subtotal and sets the invoice total to their sum
func (inv *Invoice) CalculateTotals() {
	total := decimal.Zero
	for i := range inv.Items {
		item := &inv.Items[i]
		item.UnitPrice = item.UnitPrice.Round(2)
		item.Subtotal = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(item.Subtotal)
	}
	inv.Total = total
}

// NextNumber derives the invoice number following last. The sequence is global:
// it does not restart when the year changes. The sequence is zero-padded to three
// digits and keeps growing past 999, so FAC-2026-999 is followed by FAC-2026-1000.
func NextNumber(last string, now time.Time) string {
	return fmt.Sprintf("%s-%d-%03d", NumberPrefix, now.Year(), parseSequence(last)+1)
}

// parseSequence reads the numeric suffix after the last dash, 0 when absent or malformed
func parseSequence(number string) int {
	if number == "" {
		return 0
	}
	suffix := number
	if i := strings.LastIndexByte(number, '-'); i >= 0 {
		suffix = number[i+1:]
	}
	seq, err := strconv.Atoi(suffix)
	if err != nil || seq < 0 {
		return 0
	}
	return seq
}

// Summary is an invoice row of a listing, joined with the customer name
type Summary struct {
	ID            uint            `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	CustomerID    uint            `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	InvoiceDate   Date            `json:"invoice_date"`
	Status        Status          `json:"status"`
	Notes         string          `json:"notes"`
	Total         decimal.Decimal `json:"total"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Detail is a single invoice with customer contact fields and its lines
type Detail struct {
	Summary
	Email         string       `json:"email"`
	Phone         string       `json:"phone"`
	Address       string       `json:"address"`
	CustomerTaxID string       `json:"customer_tax_id"`
	Items         []ItemDetail `json:"items" gorm:"-"`
}

// ItemDetail is an invoice line with the product's display name
type ItemDetail struct {
	ID          uint            `json:"id"`
	InvoiceID   uint            `json:"invoice_id"`
	ProductID   uint            `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// Filter narrows an invoice listing; zero fields do not filter
type Filter struct {
	CustomerID uint
	Status     Status
	// DateFrom and DateTo are inclusive bounds on the invoice date
	DateFrom *Date
	DateTo   *Date
}

// Stats aggregates invoice counts and amounts
type Stats struct {
	TotalInvoices  int64           `json:"total_invoices"`
	PendingCount   int64           `json:"pending_count"`
	PaidCount      int64           `json:"paid_count"`
	CancelledCount int64           `json:"cancelled_count"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	PendingAmount  decimal.Decimal `json:"pending_amount"`
	AverageInvoice decimal.Decimal `json:"average_invoice"`
}

// StatusChange is the outcome of a status update
type StatusChange struct {
	Invoice  *Invoice
	Previous Status
}

// Repository defines the contract for invoice data access. Create, UpdateStatus
// and Delete move stock in the same transaction as the invoice write.
type Repository interface {
	// Create assigns the invoice number, inserts invoice and items and takes their stock
	Create(ctx context.Context, invoice *Invoice) error
	FindByID(ctx context.Context, id uint) (*Detail, error)
	List(ctx context.Context, filter Filter) ([]Summary, error)
	// UpdateStatus restores stock when cancelling and takes it again when leaving cancelled.
	// A nil notes keeps the stored notes.
	UpdateStatus(ctx context.Context, id uint, status Status, notes *string) (*StatusChange, error)
	// Delete removes the invoice and returns stock still held by it
	Delete(ctx context.Context, id uint) (*Invoice, error)
	Stats(ctx context.Context) (*Stats, error)
}
