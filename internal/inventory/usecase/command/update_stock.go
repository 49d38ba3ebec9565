package command

import (
	"context"
	"fmt"

	"github.com/tair/inventory-invoicing/internal/inventory/domain"
	"github.com/tair/inventory-invoicing/pkg/apperror"
)

// UpdateStockCommand sets the quantity and threshold of a product's inventory
type UpdateStockCommand struct {
	ProductID uint
	Quantity  int
	// MinStock falls back to DefaultMinStock when nil
	MinStock *int
}

// UpdateStockHandler handles update stock command
type UpdateStockHandler struct {
	repo domain.Repository
}

// NewUpdateStockHandler creates a new update stock handler
func NewUpdateStockHandler(repo domain.Repository) *UpdateStockHandler {
	return &UpdateStockHandler{repo: repo}
}

// Handle executes the update stock command
func (h *UpdateStockHandler) Handle(ctx context.Context, cmd UpdateStockCommand) error {
	if cmd.ProductID == 0 {
		return apperror.Validation("product_id is required")
	}

	if cmd.Quantity < 0 {
		return apperror.Validation("quantity cannot be negative")
	}

	minStock := domain.DefaultMinStock
	if cmd.MinStock != nil {
		minStock = *cmd.MinStock
	}
	if minStock < 0 {
		return apperror.Validation("min_stock cannot be negative")
	}

	if err := h.repo.SetLevels(ctx, cmd.ProductID, cmd.Quantity, minStock); err != nil {
		return fmt.Errorf("failed to update inventory: %w", err)
	}

	return nil
}
