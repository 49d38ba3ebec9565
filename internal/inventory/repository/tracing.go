package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/inventory-invoicing/internal/inventory/domain"
)

var tracer = otel.Tracer("inventory-repository")

// TracingRepository wraps an inventory repository with spans
type TracingRepository struct {
	next domain.Repository
}

// NewTracingRepository creates a new repository with tracing
func NewTracingRepository(next domain.Repository) *TracingRepository {
	return &TracingRepository{next: next}
}

func (r *TracingRepository) FindByProductID(ctx context.Context, productID uint) (*domain.Record, error) {
	ctx, span := tracer.Start(ctx, "inventory.repository.FindByProductID",
		trace.WithAttributes(attribute.Int("inventory.product_id", int(productID))),
	)
	defer span.End()

	record, err := r.next.FindByProductID(ctx, productID)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("inventory.quantity", record.Quantity),
		attribute.Int("inventory.min_stock", record.MinStock),
	)
	return record, nil
}

func (r *TracingRepository) List(ctx context.Context) ([]domain.Item, error) {
	ctx, span := tracer.Start(ctx, "inventory.repository.List")
	defer span.End()

	items, err := r.next.List(ctx)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(items)))
	return items, nil
}

func (r *TracingRepository) ListLowStock(ctx context.Context) ([]domain.LowStockItem, error) {
	ctx, span := tracer.Start(ctx, "inventory.repository.ListLowStock")
	defer span.End()

	items, err := r.next.ListLowStock(ctx)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(items)))
	return items, nil
}

func (r *TracingRepository) Stats(ctx context.Context) (*domain.Stats, error) {
	ctx, span := tracer.Start(ctx, "inventory.repository.Stats")
	defer span.End()

	stats, err := r.next.Stats(ctx)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	return stats, nil
}

func (r *TracingRepository) SetLevels(ctx context.Context, productID uint, quantity, minStock int) error {
	ctx, span := tracer.Start(ctx, "inventory.repository.SetLevels",
		trace.WithAttributes(
			attribute.Int("inventory.product_id", int(productID)),
			attribute.Int("quantity.new_value", quantity),
			attribute.Int("min_stock.new_value", minStock),
		),
	)
	defer span.End()

	if err := r.next.SetLevels(ctx, productID, quantity, minStock); err != nil {
		recordError(span, err)
		return err
	}
	return nil
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
