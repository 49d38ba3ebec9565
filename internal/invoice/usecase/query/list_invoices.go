package query

import (
	"context"
	"fmt"

	"github.com/tair/inventory-invoicing/internal/invoice/domain"
	"github.com/tair/inventory-invoicing/pkg/apperror"
)

// ListInvoicesQuery represents the query to list invoices
type ListInvoicesQuery struct {
	Filter domain.Filter
}

// ListInvoicesHandler handles list invoices query
type ListInvoicesHandler struct {
	repo domain.Repository
}

// NewListInvoicesHandler creates a new list invoices handler
func NewListInvoicesHandler(repo domain.Repository) *ListInvoicesHandler {
	return &ListInvoicesHandler{repo: repo}
}

// Handle executes the list invoices query
func (h *ListInvoicesHandler) Handle(ctx context.Context, query ListInvoicesQuery) ([]domain.Summary, error) {
	f := query.Filter
	if f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo) {
		return nil, apperror.Validation("date_from must not be after date_to")
	}

	invoices, err := h.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	if invoices == nil {
		invoices = []domain.Summary{}
	}
	return invoices, nil
}
