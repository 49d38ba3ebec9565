package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler() (*Consumer, *consumerGroupHandler) {
	c := NewConsumerWithGroup(nil, "test-group", []string{TopicInvoiceEvents})
	c.retryBackoff = time.Millisecond
	return c, &consumerGroupHandler{consumer: c}
}

func invoiceMessage(t *testing.T, eventType string, event InvoiceEvent) *sarama.ConsumerMessage {
	t.Helper()
	payload, err := json.Marshal(event)
	require.NoError(t, err)
	return &sarama.ConsumerMessage{
		Topic: TopicInvoiceEvents,
		Value: payload,
		Headers: []*sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(eventType)},
			{Key: []byte("event_id"), Value: []byte(event.EventID)},
		},
	}
}

func TestHandleMessageDispatchesByEventType(t *testing.T) {
	c, h := newTestHandler()

	var received []InvoiceEvent
	c.RegisterHandler(EventTypeInvoiceCreated, func(_ context.Context, event InvoiceEvent) error {
		received = append(received, event)
		return nil
	})

	h.handleMessage(context.Background(), invoiceMessage(t, EventTypeInvoiceCreated, InvoiceEvent{
		EventID:       "evt-1",
		InvoiceNumber: "FAC-2025-001",
		Lines:         []InvoiceLine{{ProductID: 2, Quantity: 5}},
	}))
	h.handleMessage(context.Background(), invoiceMessage(t, EventTypeInvoiceDeleted, InvoiceEvent{EventID: "evt-2"}))

	require.Len(t, received, 1)
	assert.Equal(t, "FAC-2025-001", received[0].InvoiceNumber)
	assert.Equal(t, []InvoiceLine{{ProductID: 2, Quantity: 5}}, received[0].Lines)
}

func TestHandleMessageIgnoresBadMessages(t *testing.T) {
	c, h := newTestHandler()

	calls := 0
	c.RegisterHandler(EventTypeInvoiceCreated, func(context.Context, InvoiceEvent) error {
		calls++
		return errors.New("handler failed")
	})

	h.handleMessage(context.Background(), &sarama.ConsumerMessage{Topic: TopicInvoiceEvents, Value: []byte(`{}`)})
	h.handleMessage(context.Background(), &sarama.ConsumerMessage{
		Topic:   TopicInvoiceEvents,
		Value:   []byte(`not json`),
		Headers: []*sarama.RecordHeader{{Key: []byte("event_type"), Value: []byte(EventTypeInvoiceCreated)}},
	})
	assert.Equal(t, 0, calls)

	h.handleMessage(context.Background(), invoiceMessage(t, EventTypeInvoiceCreated, InvoiceEvent{EventID: "evt-3"}))
	assert.Equal(t, maxHandlerAttempts, calls)
}

func TestDispatchRetriesUntilSuccess(t *testing.T) {
	c, _ := newTestHandler()

	calls := 0
	err := c.dispatch(context.Background(), func(context.Context, InvoiceEvent) error {
		calls++
		if calls < 2 {
			return errors.New("database unavailable")
		}
		return nil
	}, InvoiceEvent{EventID: "evt-4"})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestDispatchStopsWhenContextEnds(t *testing.T) {
	c, _ := newTestHandler()
	c.retryBackoff = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := c.dispatch(ctx, func(context.Context, InvoiceEvent) error {
		calls++
		cancel()
		return errors.New("boom")
	}, InvoiceEvent{})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
