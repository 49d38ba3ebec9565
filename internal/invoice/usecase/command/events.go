package command

import (
	"context"

	"github.com/tair/inventory-invoicing/internal/invoice/domain"
	"github.com/tair/inventory-invoicing/kafka"
	"github.com/tair/inventory-invoicing/pkg/logger"
)

// EventPublisher publishes invoice events after a write commits
type EventPublisher interface {
	PublishInvoiceEvent(ctx context.Context, event kafka.InvoiceEvent) error
}

func newEvent(eventType string, invoice *domain.Invoice) kafka.InvoiceEvent {
	lines := make([]kafka.InvoiceLine, 0, len(invoice.Items))
	for _, item := range invoice.Items {
		lines = append(lines, kafka.InvoiceLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}
	return kafka.InvoiceEvent{
		EventType:     eventType,
		InvoiceID:     invoice.ID,
		InvoiceNumber: invoice.InvoiceNumber,
		CustomerID:    invoice.CustomerID,
		Status:        string(invoice.Status),
		Total:         invoice.Total,
		Lines:         lines,
	}
}

// publish never fails the request: the write is already committed
func publish(ctx context.Context, publisher EventPublisher, event kafka.InvoiceEvent) {
	if publisher == nil {
		return
	}
	if err := publisher.PublishInvoiceEvent(ctx, event); err != nil {
		logger.Warn(ctx).
			Err(err).
			Str("event_type", event.EventType).
			Uint("invoice_id", event.InvoiceID).
			Msg("Failed to publish invoice event")
	}
}
