package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

func TestInitTracerWithoutExporter(t *testing.T) {
	ctx := context.Background()

	tp, err := InitTracer(ctx, Config{ServiceName: "inventory-invoicing", Environment: "test"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Shutdown(ctx, tp) })

	spanCtx, span := tp.Tracer("test").Start(ctx, "invoice.create")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(spanCtx, carrier)
	assert.NotEmpty(t, carrier.Get("traceparent"))
}
