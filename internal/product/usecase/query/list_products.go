package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/tair/inventory-invoicing/internal/product/domain"
)

// ListProductsQuery represents the query to list products
type ListProductsQuery struct {
	Search   string
	Category string
}

// ListProductsHandler handles list products query
type ListProductsHandler struct {
	repo domain.Repository
}

// NewListProductsHandler creates a new list products handler
func NewListProductsHandler(repo domain.Repository) *ListProductsHandler {
	return &ListProductsHandler{repo: repo}
}

// Handle executes the list products query
func (h *ListProductsHandler) Handle(ctx context.Context, query ListProductsQuery) ([]domain.View, error) {
	filter := domain.Filter{
		Search:   strings.TrimSpace(query.Search),
		Category: strings.TrimSpace(query.Category),
	}

	products, err := h.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if products == nil {
		products = []domain.View{}
	}
	return products, nil
}
