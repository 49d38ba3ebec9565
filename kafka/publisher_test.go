package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishInvoiceEvent(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	publisher := NewPublisherWithProducer(producer)
	publisher.now = func() time.Time { return time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC) }

	var published InvoiceEvent
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		return json.Unmarshal(val, &published)
	})

	err := publisher.PublishInvoiceEvent(context.Background(), InvoiceEvent{
		EventType:     EventTypeInvoiceCreated,
		InvoiceID:     4,
		InvoiceNumber: "FAC-2025-004",
		Status:        "pending",
		Total:         decimal.RequireFromString("29.97"),
		Lines:         []InvoiceLine{{ProductID: 1, Quantity: 3}},
	})
	require.NoError(t, err)
	require.NoError(t, publisher.Close())

	assert.NotEmpty(t, published.EventID)
	assert.Equal(t, EventTypeInvoiceCreated, published.EventType)
	assert.Equal(t, "FAC-2025-004", published.InvoiceNumber)
	assert.True(t, published.Total.Equal(decimal.RequireFromString("29.97")))
	assert.Equal(t, []InvoiceLine{{ProductID: 1, Quantity: 3}}, published.Lines)
	assert.Equal(t, 2025, published.Timestamp.Year())
}

func TestPublishInvoiceEventSendFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	publisher := NewPublisherWithProducer(producer)

	producer.ExpectSendMessageAndFail(errors.New("broker unavailable"))

	err := publisher.PublishInvoiceEvent(context.Background(), InvoiceEvent{
		EventType: EventTypeInvoiceDeleted,
		InvoiceID: 9,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker unavailable")
	require.NoError(t, publisher.Close())
}

func TestNopPublisher(t *testing.T) {
	var p NopPublisher
	assert.NoError(t, p.PublishInvoiceEvent(context.Background(), InvoiceEvent{}))
	assert.NoError(t, p.Close())
}
