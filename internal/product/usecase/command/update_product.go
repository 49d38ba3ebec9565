package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tair/inventory-invoicing/internal/product/domain"
	"github.com/tair/inventory-invoicing/pkg/apperror"
)

// UpdateProductCommand replaces a product's catalog fields and optionally its stock levels
type UpdateProductCommand struct {
	ID          uint
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	Quantity    *int
	MinStock    *int
}

// UpdateProductHandler handles product update command
type UpdateProductHandler struct {
	repo domain.Repository
}

// NewUpdateProductHandler creates a new update product handler
func NewUpdateProductHandler(repo domain.Repository) *UpdateProductHandler {
	return &UpdateProductHandler{repo: repo}
}

// Handle executes the update product command
func (h *UpdateProductHandler) Handle(ctx context.Context, cmd UpdateProductCommand) error {
	if cmd.ID == 0 {
		return apperror.Validation("id is required")
	}

	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return apperror.Validation("name is required")
	}
	if cmd.Price.IsNegative() {
		return apperror.Validation("price cannot be negative")
	}
	if cmd.Quantity != nil && *cmd.Quantity < 0 {
		return apperror.Validation("quantity cannot be negative")
	}
	if cmd.MinStock != nil && *cmd.MinStock < 0 {
		return apperror.Validation("min_stock cannot be negative")
	}

	product := &domain.Product{
		ID:          cmd.ID,
		Name:        name,
		Description: strings.TrimSpace(cmd.Description),
		Price:       cmd.Price.Round(2),
		Category:    strings.TrimSpace(cmd.Category),
	}
	stock := domain.StockUpdate{Quantity: cmd.Quantity, MinStock: cmd.MinStock}

	if err := h.repo.Update(ctx, product, stock); err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	return nil
}
