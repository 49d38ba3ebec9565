package kafka

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceLine is the stock movement of one invoice item
type InvoiceLine struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// InvoiceEvent is published after an invoice write commits
type InvoiceEvent struct {
	EventID        string          `json:"event_id"`
	EventType      string          `json:"event_type"`
	InvoiceID      uint            `json:"invoice_id"`
	InvoiceNumber  string          `json:"invoice_number"`
	CustomerID     uint            `json:"customer_id"`
	Status         string          `json:"status"`
	PreviousStatus string          `json:"previous_status,omitempty"`
	Total          decimal.Decimal `json:"total"`
	Lines          []InvoiceLine   `json:"lines"`
	Timestamp      time.Time       `json:"timestamp"`
}

// Event types
const (
	EventTypeInvoiceCreated       = "invoice.created"
	EventTypeInvoiceStatusChanged = "invoice.status_changed"
	EventTypeInvoiceDeleted       = "invoice.deleted"
)

// Kafka topics
const (
	TopicInvoiceEvents = "invoice-events"
)
