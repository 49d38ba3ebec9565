package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/inventory-invoicing/internal/customer/domain"
)

var tracer = otel.Tracer("customer-repository")

// TracingRepository wraps a customer repository with spans
type TracingRepository struct {
	next domain.Repository
}

// NewTracingRepository creates a new repository with tracing
func NewTracingRepository(next domain.Repository) *TracingRepository {
	return &TracingRepository{next: next}
}

func (r *TracingRepository) Create(ctx context.Context, customer *domain.Customer) error {
	ctx, span := tracer.Start(ctx, "customer.repository.Create")
	defer span.End()

	if err := r.next.Create(ctx, customer); err != nil {
		fail(span, err)
		return err
	}
	span.SetAttributes(attribute.Int("customer.id", int(customer.ID)))
	return nil
}

func (r *TracingRepository) FindByID(ctx context.Context, id uint) (*domain.Customer, error) {
	ctx, span := tracer.Start(ctx, "customer.repository.FindByID",
		trace.WithAttributes(attribute.Int("customer.id", int(id))),
	)
	defer span.End()

	customer, err := r.next.FindByID(ctx, id)
	if err != nil {
		fail(span, err)
		return nil, err
	}
	return customer, nil
}

func (r *TracingRepository) List(ctx context.Context, search string) ([]domain.Customer, error) {
	ctx, span := tracer.Start(ctx, "customer.repository.List",
		trace.WithAttributes(attribute.Bool("query.search", search != "")),
	)
	defer span.End()

	customers, err := r.next.List(ctx, search)
	if err != nil {
		fail(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("result.count", len(customers)))
	return customers, nil
}

func (r *TracingRepository) Update(ctx context.Context, customer *domain.Customer) error {
	ctx, span := tracer.Start(ctx, "customer.repository.Update",
		trace.WithAttributes(attribute.Int("customer.id", int(customer.ID))),
	)
	defer span.End()

	if err := r.next.Update(ctx, customer); err != nil {
		fail(span, err)
		return err
	}
	return nil
}

func (r *TracingRepository) Delete(ctx context.Context, id uint) error {
	ctx, span := tracer.Start(ctx, "customer.repository.Delete",
		trace.WithAttributes(attribute.Int("customer.id", int(id))),
	)
	defer span.End()

	if err := r.next.Delete(ctx, id); err != nil {
		fail(span, err)
		return err
	}
	return nil
}

func (r *TracingRepository) CountInvoices(ctx context.Context, id uint) (int64, error) {
	ctx, span := tracer.Start(ctx, "customer.repository.CountInvoices",
		trace.WithAttributes(attribute.Int("customer.id", int(id))),
	)
	defer span.End()

	count, err := r.next.CountInvoices(ctx, id)
	if err != nil {
		fail(span, err)
		return 0, err
	}
	span.SetAttributes(attribute.Int64("invoice.count", count))
	return count, nil
}

func fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
