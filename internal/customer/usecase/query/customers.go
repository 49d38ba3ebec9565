package query

import (
	"context"
	"fmt"
	"strings"

	"github.com/tair/inventory-invoicing/internal/customer/domain"
)

// GetCustomerQuery represents the query to get a customer
type GetCustomerQuery struct {
	ID uint
}

// GetCustomerHandler handles get customer query
type GetCustomerHandler struct {
	repo domain.Repository
}

// NewGetCustomerHandler creates a new get customer handler
func NewGetCustomerHandler(repo domain.Repository) *GetCustomerHandler {
	return &GetCustomerHandler{repo: repo}
}

// Handle executes the get customer query
func (h *GetCustomerHandler) Handle(ctx context.Context, query GetCustomerQuery) (*domain.Customer, error) {
	customer, err := h.repo.FindByID(ctx, query.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer %d: %w", query.ID, err)
	}
	return customer, nil
}

// ListCustomersQuery represents the query to list customers
type ListCustomersQuery struct {
	Search string
}

// ListCustomersHandler handles list customers query
type ListCustomersHandler struct {
	repo domain.Repository
}

// NewListCustomersHandler creates a new list customers handler
func NewListCustomersHandler(repo domain.Repository) *ListCustomersHandler {
	return &ListCustomersHandler{repo: repo}
}

// Handle executes the list customers query
func (h *ListCustomersHandler) Handle(ctx context.Context, query ListCustomersQuery) ([]domain.Customer, error) {
	customers, err := h.repo.List(ctx, strings.TrimSpace(query.Search))
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	if customers == nil {
		customers = []domain.Customer{}
	}
	return customers, nil
}
