package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tair/inventory-invoicing/internal/invoice/domain"
	"github.com/tair/inventory-invoicing/kafka"
	"github.com/tair/inventory-invoicing/pkg/apperror"
	"github.com/tair/inventory-invoicing/pkg/logger"
	"github.com/tair/inventory-invoicing/pkg/metrics"
)

// CreateItem is one requested invoice line
type CreateItem struct {
	ProductID uint
	Quantity  int
	UnitPrice decimal.Decimal
}

// CreateInvoiceCommand represents the command to create a new invoice
type CreateInvoiceCommand struct {
	CustomerID uint
	// InvoiceDate defaults to today when nil
	InvoiceDate *domain.Date
	// Status defaults to pending
	Status string
	Notes  string
	Items  []CreateItem
}

// CreateInvoiceHandler handles invoice creation command
type CreateInvoiceHandler struct {
	repo      domain.Repository
	publisher EventPublisher
	metrics   *metrics.BusinessMetrics
	now       func() time.Time
}

// NewCreateInvoiceHandler creates a new create invoice handler
func NewCreateInvoiceHandler(repo domain.Repository, publisher EventPublisher, m *metrics.BusinessMetrics) *CreateInvoiceHandler {
	return &CreateInvoiceHandler{repo: repo, publisher: publisher, metrics: m, now: time.Now}
}

// Handle validates the command, stores the invoice and takes its stock
func (h *CreateInvoiceHandler) Handle(ctx context.Context, cmd CreateInvoiceCommand) (*domain.Invoice, error) {
	invoice, err := h.build(cmd)
	if err != nil {
		return nil, err
	}

	if err := h.repo.Create(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	logger.Info(ctx).
		Uint("invoice_id", invoice.ID).
		Str("invoice_number", invoice.InvoiceNumber).
		Uint("customer_id", invoice.CustomerID).
		Str("total", invoice.Total.StringFixed(2)).
		Int("items", len(invoice.Items)).
		Msg("Invoice created")

	if h.metrics != nil {
		h.metrics.InvoicesCreated.Inc()
		h.metrics.InvoiceTotal.Observe(invoice.Total.InexactFloat64())
	}

	publish(ctx, h.publisher, newEvent(kafka.EventTypeInvoiceCreated, invoice))
	return invoice, nil
}

func (h *CreateInvoiceHandler) build(cmd CreateInvoiceCommand) (*domain.Invoice, error) {
	if cmd.CustomerID == 0 {
		return nil, apperror.Validation("customer_id is required")
	}
	if len(cmd.Items) == 0 {
		return nil, apperror.Validation("invoice must contain at least one item")
	}

	status := domain.StatusPending
	if strings.TrimSpace(cmd.Status) != "" {
		parsed, err := domain.ParseStatus(cmd.Status)
		if err != nil {
			return nil, err
		}
		if parsed == domain.StatusCancelled {
			return nil, apperror.Validation("invoice cannot be created as cancelled")
		}
		status = parsed
	}

	date := domain.NewDate(h.now())
	if cmd.InvoiceDate != nil {
		date = *cmd.InvoiceDate
	}

	items := make([]domain.Item, 0, len(cmd.Items))
	for i, item := range cmd.Items {
		if item.ProductID == 0 {
			return nil, apperror.Validation("items[%d]: product_id is required", i)
		}
		if item.Quantity <= 0 {
			return nil, apperror.Validation("items[%d]: quantity must be greater than zero", i)
		}
		if item.UnitPrice.IsNegative() {
			return nil, apperror.Validation("items[%d]: unit_price cannot be negative", i)
		}
		items = append(items, domain.Item{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	invoice := &domain.Invoice{
		CustomerID:  cmd.CustomerID,
		InvoiceDate: date,
		Status:      status,
		Notes:       strings.TrimSpace(cmd.Notes),
		Items:       items,
	}
	invoice.CalculateTotals()
	return invoice, nil
}
