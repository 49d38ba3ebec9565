package command

import (
	"context"
	"fmt"

	"github.com/tair/inventory-invoicing/internal/customer/domain"
	"github.com/tair/inventory-invoicing/pkg/apperror"
	"github.com/tair/inventory-invoicing/pkg/logger"
)

// DeleteCustomerCommand represents the command to delete a customer
type DeleteCustomerCommand struct {
	ID uint
}

// DeleteCustomerHandler deletes customers that no invoice references
type DeleteCustomerHandler struct {
	repo domain.Repository
}

// NewDeleteCustomerHandler creates a new delete customer handler
func NewDeleteCustomerHandler(repo domain.Repository) *DeleteCustomerHandler {
	return &DeleteCustomerHandler{repo: repo}
}

// Handle executes the delete customer command
func (h *DeleteCustomerHandler) Handle(ctx context.Context, cmd DeleteCustomerCommand) error {
	if cmd.ID == 0 {
		return apperror.Validation("id is required")
	}

	count, err := h.repo.CountInvoices(ctx, cmd.ID)
	if err != nil {
		return fmt.Errorf("failed to count customer invoices: %w", err)
	}
	if count > 0 {
		logger.Info(ctx).
			Uint("customer_id", cmd.ID).
			Int64("invoices", count).
			Msg("Customer delete refused")
		return domain.ErrCustomerHasInvoices
	}

	if err := h.repo.Delete(ctx, cmd.ID); err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return nil
}
