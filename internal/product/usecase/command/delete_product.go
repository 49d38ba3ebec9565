package command

import (
	"context"
	"fmt"

	"github.com/tair/inventory-invoicing/internal/product/domain"
	"github.com/tair/inventory-invoicing/pkg/apperror"
)

// DeleteProductCommand represents the command to delete a product
type DeleteProductCommand struct {
	ID uint
}

// DeleteProductHandler handles product deletion command
type DeleteProductHandler struct {
	repo domain.Repository
}

// NewDeleteProductHandler creates a new delete product handler
func NewDeleteProductHandler(repo domain.Repository) *DeleteProductHandler {
	return &DeleteProductHandler{repo: repo}
}

// Handle executes the delete product command
func (h *DeleteProductHandler) Handle(ctx context.Context, cmd DeleteProductCommand) error {
	if cmd.ID == 0 {
		return apperror.Validation("id is required")
	}

	if err := h.repo.Delete(ctx, cmd.ID); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return nil
}
