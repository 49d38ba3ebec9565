package command

import (
	"context"
	"fmt"

	"github.com/tair/inventory-invoicing/internal/invoice/domain"
	"github.com/tair/inventory-invoicing/kafka"
	"github.com/tair/inventory-invoicing/pkg/apperror"
	"github.com/tair/inventory-invoicing/pkg/logger"
	"github.com/tair/inventory-invoicing/pkg/metrics"
)

// DeleteInvoiceCommand represents the command to delete an invoice
type DeleteInvoiceCommand struct {
	ID uint
}

// DeleteInvoiceHandler deletes invoices and returns their stock
type DeleteInvoiceHandler struct {
	repo      domain.Repository
	publisher EventPublisher
	metrics   *metrics.BusinessMetrics
}

// NewDeleteInvoiceHandler creates a new delete invoice handler
func NewDeleteInvoiceHandler(repo domain.Repository, publisher EventPublisher, m *metrics.BusinessMetrics) *DeleteInvoiceHandler {
	return &DeleteInvoiceHandler{repo: repo, publisher: publisher, metrics: m}
}

// Handle executes the delete invoice command
func (h *DeleteInvoiceHandler) Handle(ctx context.Context, cmd DeleteInvoiceCommand) error {
	if cmd.ID == 0 {
		return apperror.Validation("id is required")
	}

	invoice, err := h.repo.Delete(ctx, cmd.ID)
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}

	logger.Info(ctx).
		Uint("invoice_id", invoice.ID).
		Str("invoice_number", invoice.InvoiceNumber).
		Bool("stock_restored", invoice.Status.HoldsStock()).
		Msg("Invoice deleted")

	if h.metrics != nil {
		h.metrics.InvoicesDeleted.Inc()
	}

	publish(ctx, h.publisher, newEvent(kafka.EventTypeInvoiceDeleted, invoice))
	return nil
}
