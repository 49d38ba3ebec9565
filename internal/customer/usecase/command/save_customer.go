package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/tair/inventory-invoicing/internal/customer/domain"
	"github.com/tair/inventory-invoicing/pkg/apperror"
)

// ContactDetails are the editable fields of a customer
type ContactDetails struct {
	Name    string
	Email   string
	Phone   string
	Address string
	TaxID   string
}

func (d ContactDetails) toCustomer(id uint) (*domain.Customer, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return nil, apperror.Validation("name is required")
	}
	return &domain.Customer{
		ID:      id,
		Name:    name,
		Email:   strings.TrimSpace(d.Email),
		Phone:   strings.TrimSpace(d.Phone),
		Address: strings.TrimSpace(d.Address),
		TaxID:   strings.TrimSpace(d.TaxID),
	}, nil
}

// CreateCustomerCommand represents the command to create a customer
type CreateCustomerCommand struct {
	ContactDetails
}

// CreateCustomerHandler handles customer creation command
type CreateCustomerHandler struct {
	repo domain.Repository
}

// NewCreateCustomerHandler creates a new create customer handler
func NewCreateCustomerHandler(repo domain.Repository) *CreateCustomerHandler {
	return &CreateCustomerHandler{repo: repo}
}

// Handle executes the create customer command
func (h *CreateCustomerHandler) Handle(ctx context.Context, cmd CreateCustomerCommand) (*domain.Customer, error) {
	customer, err := cmd.toCustomer(0)
	if err != nil {
		return nil, err
	}

	if err := h.repo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return customer, nil
}

// UpdateCustomerCommand replaces every contact field of a customer
type UpdateCustomerCommand struct {
	ID uint
	ContactDetails
}

// UpdateCustomerHandler handles customer update command
type UpdateCustomerHandler struct {
	repo domain.Repository
}

// NewUpdateCustomerHandler creates a new update customer handler
func NewUpdateCustomerHandler(repo domain.Repository) *UpdateCustomerHandler {
	return &UpdateCustomerHandler{repo: repo}
}

// Handle executes the update customer command
func (h *UpdateCustomerHandler) Handle(ctx context.Context, cmd UpdateCustomerCommand) error {
	if cmd.ID == 0 {
		return apperror.Validation("id is required")
	}

	customer, err := cmd.toCustomer(cmd.ID)
	if err != nil {
		return err
	}

	if err := h.repo.Update(ctx, customer); err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	return nil
}
