package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/inventory-invoicing/internal/invoice/domain"
)

var tracer = otel.Tracer("invoice-repository")

// TracingRepository wraps an invoice repository with spans
type TracingRepository struct {
	next domain.Repository
}

// NewTracingRepository creates a new repository with tracing
func NewTracingRepository(next domain.Repository) *TracingRepository {
	return &TracingRepository{next: next}
}

func (r *TracingRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	ctx, span := tracer.Start(ctx, "invoice.repository.Create",
		trace.WithAttributes(
			attribute.Int("customer.id", int(invoice.CustomerID)),
			attribute.Int("invoice.items", len(invoice.Items)),
		),
	)
	defer span.End()

	if err := r.next.Create(ctx, invoice); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetAttributes(
		attribute.Int("invoice.id", int(invoice.ID)),
		attribute.String("invoice.number", invoice.InvoiceNumber),
		attribute.String("invoice.total", invoice.Total.StringFixed(2)),
	)
	return nil
}

func (r *TracingRepository) FindByID(ctx context.Context, id uint) (*domain.Detail, error) {
	ctx, span := tracer.Start(ctx, "invoice.repository.FindByID",
		trace.WithAttributes(attribute.Int("invoice.id", int(id))),
	)
	defer span.End()

	detail, err := r.next.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return detail, nil
}

func (r *TracingRepository) List(ctx context.Context, filter domain.Filter) ([]domain.Summary, error) {
	ctx, span := tracer.Start(ctx, "invoice.repository.List",
		trace.WithAttributes(
			attribute.Int("filter.customer_id", int(filter.CustomerID)),
			attribute.String("filter.status", string(filter.Status)),
		),
	)
	defer span.End()

	summaries, err := r.next.List(ctx, filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("result.count", len(summaries)))
	return summaries, nil
}

func (r *TracingRepository) UpdateStatus(ctx context.Context, id uint, status domain.Status, notes *string) (*domain.StatusChange, error) {
	ctx, span := tracer.Start(ctx, "invoice.repository.UpdateStatus",
		trace.WithAttributes(
			attribute.Int("invoice.id", int(id)),
			attribute.String("invoice.status", string(status)),
		),
	)
	defer span.End()

	change, err := r.next.UpdateStatus(ctx, id, status, notes)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.String("invoice.previous_status", string(change.Previous)))
	return change, nil
}

func (r *TracingRepository) Delete(ctx context.Context, id uint) (*domain.Invoice, error) {
	ctx, span := tracer.Start(ctx, "invoice.repository.Delete",
		trace.WithAttributes(attribute.Int("invoice.id", int(id))),
	)
	defer span.End()

	invoice, err := r.next.Delete(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return invoice, nil
}

func (r *TracingRepository) Stats(ctx context.Context) (*domain.Stats, error) {
	ctx, span := tracer.Start(ctx, "invoice.repository.Stats")
	defer span.End()

	stats, err := r.next.Stats(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return stats, nil
}
