package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/inventory-invoicing/internal/product/domain"
)

var tracer = otel.Tracer("product-repository")

// TracingRepository wraps a product repository with spans
type TracingRepository struct {
	next domain.Repository
}

// NewTracingRepository creates a new repository with tracing
func NewTracingRepository(next domain.Repository) *TracingRepository {
	return &TracingRepository{next: next}
}

func (r *TracingRepository) Create(ctx context.Context, product *domain.Product, stock domain.StockLevels) error {
	ctx, span := tracer.Start(ctx, "product.repository.Create",
		trace.WithAttributes(
			attribute.String("product.name", product.Name),
			attribute.String("product.category", product.Category),
			attribute.String("product.price", product.Price.String()),
			attribute.Int("inventory.quantity", stock.Quantity),
		),
	)
	defer span.End()

	if err := r.next.Create(ctx, product, stock); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetAttributes(attribute.Int("product.id", int(product.ID)))
	return nil
}

func (r *TracingRepository) FindByID(ctx context.Context, id uint) (*domain.View, error) {
	ctx, span := tracer.Start(ctx, "product.repository.FindByID",
		trace.WithAttributes(attribute.Int("product.id", int(id))),
	)
	defer span.End()

	view, err := r.next.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return view, nil
}

func (r *TracingRepository) List(ctx context.Context, filter domain.Filter) ([]domain.View, error) {
	ctx, span := tracer.Start(ctx, "product.repository.List",
		trace.WithAttributes(
			attribute.String("query.search", filter.Search),
			attribute.String("query.category", filter.Category),
		),
	)
	defer span.End()

	views, err := r.next.List(ctx, filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(views)))
	return views, nil
}

func (r *TracingRepository) Update(ctx context.Context, product *domain.Product, stock domain.StockUpdate) error {
	ctx, span := tracer.Start(ctx, "product.repository.Update",
		trace.WithAttributes(
			attribute.Int("product.id", int(product.ID)),
			attribute.Bool("inventory.updated", !stock.IsEmpty()),
		),
	)
	defer span.End()

	if err := r.next.Update(ctx, product, stock); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (r *TracingRepository) Delete(ctx context.Context, id uint) error {
	ctx, span := tracer.Start(ctx, "product.repository.Delete",
		trace.WithAttributes(attribute.Int("product.id", int(id))),
	)
	defer span.End()

	if err := r.next.Delete(ctx, id); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
