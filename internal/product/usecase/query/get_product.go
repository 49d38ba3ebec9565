package query

import (
	"context"
	"fmt"

	"github.com/tair/inventory-invoicing/internal/product/domain"
)

// GetProductQuery represents the query to get a product
type GetProductQuery struct {
	ID uint
}

// GetProductHandler handles get product query
type GetProductHandler struct {
	repo domain.Repository
}

// NewGetProductHandler creates a new get product handler
func NewGetProductHandler(repo domain.Repository) *GetProductHandler {
	return &GetProductHandler{repo: repo}
}

// Handle executes the get product query
func (h *GetProductHandler) Handle(ctx context.Context, query GetProductQuery) (*domain.View, error) {
	product, err := h.repo.FindByID(ctx, query.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get product %d: %w", query.ID, err)
	}
	return product, nil
}
