package query

import (
	"context"
	"fmt"

	"github.com/tair/inventory-invoicing/internal/invoice/domain"
)

// GetInvoiceQuery represents the query to get an invoice with its lines
type GetInvoiceQuery struct {
	ID uint
}

// GetInvoiceHandler handles get invoice query
type GetInvoiceHandler struct {
	repo domain.Repository
}

// NewGetInvoiceHandler creates a new get invoice handler
func NewGetInvoiceHandler(repo domain.Repository) *GetInvoiceHandler {
	return &GetInvoiceHandler{repo: repo}
}

// Handle executes the get invoice query
func (h *GetInvoiceHandler) Handle(ctx context.Context, query GetInvoiceQuery) (*domain.Detail, error) {
	detail, err := h.repo.FindByID(ctx, query.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice %d: %w", query.ID, err)
	}
	return detail, nil
}
