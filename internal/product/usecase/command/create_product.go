package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	inventory "github.com/tair/inventory-invoicing/internal/inventory/domain"
	"github.com/tair/inventory-invoicing/internal/product/domain"
	"github.com/tair/inventory-invoicing/pkg/apperror"
)

// CreateProductCommand represents the command to create a new product
type CreateProductCommand struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	Quantity    *int
	MinStock    *int
}

// CreateProductHandler handles product creation command
type CreateProductHandler struct {
	repo domain.Repository
}

// NewCreateProductHandler creates a new create product handler
func NewCreateProductHandler(repo domain.Repository) *CreateProductHandler {
	return &CreateProductHandler{repo: repo}
}

// Handle executes the create product command
func (h *CreateProductHandler) Handle(ctx context.Context, cmd CreateProductCommand) (*domain.Product, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, apperror.Validation("name is required")
	}
	if cmd.Price.IsNegative() {
		return nil, apperror.Validation("price cannot be negative")
	}

	stock := domain.StockLevels{MinStock: inventory.DefaultMinStock}
	if cmd.Quantity != nil {
		stock.Quantity = *cmd.Quantity
	}
	if cmd.MinStock != nil {
		stock.MinStock = *cmd.MinStock
	}
	if err := validateStock(stock.Quantity, stock.MinStock); err != nil {
		return nil, err
	}

	product := &domain.Product{
		Name:        name,
		Description: strings.TrimSpace(cmd.Description),
		Price:       cmd.Price.Round(2),
		Category:    strings.TrimSpace(cmd.Category),
	}

	if err := h.repo.Create(ctx, product, stock); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

func validateStock(quantity, minStock int) error {
	if quantity < 0 {
		return apperror.Validation("quantity cannot be negative")
	}
	if minStock < 0 {
		return apperror.Validation("min_stock cannot be negative")
	}
	return nil
}
