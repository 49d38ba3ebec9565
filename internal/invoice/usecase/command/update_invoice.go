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

// UpdateInvoiceCommand changes an invoice's status and optionally its notes
type UpdateInvoiceCommand struct {
	ID     uint
	Status string
	// Notes keeps the stored notes when nil
	Notes *string
}

// UpdateInvoiceHandler handles invoice status updates
type UpdateInvoiceHandler struct {
	repo      domain.Repository
	publisher EventPublisher
	metrics   *metrics.BusinessMetrics
}

// NewUpdateInvoiceHandler creates a new update invoice handler
func NewUpdateInvoiceHandler(repo domain.Repository, publisher EventPublisher, m *metrics.BusinessMetrics) *UpdateInvoiceHandler {
	return &UpdateInvoiceHandler{repo: repo, publisher: publisher, metrics: m}
}

// Handle executes the update invoice command
func (h *UpdateInvoiceHandler) Handle(ctx context.Context, cmd UpdateInvoiceCommand) error {
	if cmd.ID == 0 {
		return apperror.Validation("id is required")
	}
	status, err := domain.ParseStatus(cmd.Status)
	if err != nil {
		return err
	}

	change, err := h.repo.UpdateStatus(ctx, cmd.ID, status, cmd.Notes)
	if err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}

	logger.Info(ctx).
		Uint("invoice_id", cmd.ID).
		Str("previous_status", string(change.Previous)).
		Str("status", string(status)).
		Msg("Invoice status updated")

	if change.Previous == status {
		return nil
	}

	if h.metrics != nil {
		h.metrics.StatusChanges.WithLabelValues(string(status)).Inc()
	}

	event := newEvent(kafka.EventTypeInvoiceStatusChanged, change.Invoice)
	event.PreviousStatus = string(change.Previous)
	publish(ctx, h.publisher, event)
	return nil
}
