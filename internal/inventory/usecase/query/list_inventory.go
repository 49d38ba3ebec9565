package query

import (
	"context"
	"fmt"

	"github.com/tair/inventory-invoicing/internal/inventory/domain"
)

// ListInventoryHandler handles list inventory query
type ListInventoryHandler struct {
	repo domain.Repository
}

// NewListInventoryHandler creates a new list inventory handler
func NewListInventoryHandler(repo domain.Repository) *ListInventoryHandler {
	return &ListInventoryHandler{repo: repo}
}

// Handle executes the list inventory query
func (h *ListInventoryHandler) Handle(ctx context.Context) ([]domain.Item, error) {
	items, err := h.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	if items == nil {
		items = []domain.Item{}
	}
	return items, nil
}

// ListLowStockHandler handles the low stock query
type ListLowStockHandler struct {
	repo domain.Repository
}

// NewListLowStockHandler creates a new low stock handler
func NewListLowStockHandler(repo domain.Repository) *ListLowStockHandler {
	return &ListLowStockHandler{repo: repo}
}

// Handle returns products below their threshold, largest deficit first
func (h *ListLowStockHandler) Handle(ctx context.Context) ([]domain.LowStockItem, error) {
	items, err := h.repo.ListLowStock(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock: %w", err)
	}
	if items == nil {
		items = []domain.LowStockItem{}
	}
	return items, nil
}
