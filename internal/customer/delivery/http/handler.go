package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tair/inventory-invoicing/internal/customer/usecase/command"
	"github.com/tair/inventory-invoicing/internal/customer/usecase/query"
	"github.com/tair/inventory-invoicing/pkg/apperror"
	"github.com/tair/inventory-invoicing/pkg/httpx"
	"github.com/tair/inventory-invoicing/pkg/metrics"
)

const resourcePath = "/api/customers"

// CustomerHandler handles HTTP requests for customers
type CustomerHandler struct {
	createHandler *command.CreateCustomerHandler
	updateHandler *command.UpdateCustomerHandler
	deleteHandler *command.DeleteCustomerHandler
	getHandler    *query.GetCustomerHandler
	listHandler   *query.ListCustomersHandler
	errors        httpx.ErrorWriter
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(
	createHandler *command.CreateCustomerHandler,
	updateHandler *command.UpdateCustomerHandler,
	deleteHandler *command.DeleteCustomerHandler,
	getHandler *query.GetCustomerHandler,
	listHandler *query.ListCustomersHandler,
	errors httpx.ErrorWriter,
) *CustomerHandler {
	return &CustomerHandler{
		createHandler: createHandler,
		updateHandler: updateHandler,
		deleteHandler: deleteHandler,
		getHandler:    getHandler,
		listHandler:   listHandler,
		errors:        errors,
	}
}

// RegisterRoutes registers all customer routes
func (h *CustomerHandler) RegisterRoutes(router *mux.Router, m *metrics.HTTPMetrics) {
	router.HandleFunc(resourcePath, m.Wrap(resourcePath, h.Get)).Methods(http.MethodGet)
	router.HandleFunc(resourcePath, m.Wrap(resourcePath, h.Create)).Methods(http.MethodPost)
	router.HandleFunc(resourcePath, m.Wrap(resourcePath, h.Update)).Methods(http.MethodPut)
	router.HandleFunc(resourcePath, m.Wrap(resourcePath, h.Delete)).Methods(http.MethodDelete)
}

// Get godoc
// @Summary List customers or get one
// @Description With id returns one customer, otherwise lists customers ordered by name
// @Tags Customers
// @Produce json
// @Param id query int false "Customer ID"
// @Param search query string false "Substring of name, email or phone"
// @Success 200 {array} domain.Customer
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/customers [get]
func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	id, hasID, err := httpx.QueryID(q, "id")
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	if hasID {
		customer, err := h.getHandler.Handle(r.Context(), query.GetCustomerQuery{ID: id})
		if err != nil {
			h.errors.Write(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, customer)
		return
	}

	customers, err := h.listHandler.Handle(r.Context(), query.ListCustomersQuery{Search: q.Get("search")})
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, customers)
}

type customerRequest struct {
	ID      *uint   `json:"id"`
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	TaxID   *string `json:"tax_id"`
}

func (req customerRequest) details() command.ContactDetails {
	return command.ContactDetails{
		Name:    stringValue(req.Name),
		Email:   stringValue(req.Email),
		Phone:   stringValue(req.Phone),
		Address: stringValue(req.Address),
		TaxID:   stringValue(req.TaxID),
	}
}

// Create godoc
// @Summary Create customer
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body object{name=string,email=string,phone=string,address=string,tax_id=string} true "Customer data"
// @Success 201 {object} httpx.MutationResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /api/customers [post]
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.errors.Write(w, r, err)
		return
	}
	if req.ID != nil {
		h.errors.Write(w, r, apperror.Validation("id must not be set when creating a customer"))
		return
	}
	if req.Name == nil {
		h.errors.Write(w, r, apperror.Validation("name is required"))
		return
	}

	customer, err := h.createHandler.Handle(r.Context(), command.CreateCustomerCommand{ContactDetails: req.details()})
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, httpx.MutationResponse{
		Success: true,
		Message: "Customer created successfully",
		ID:      customer.ID,
	})
}

// Update godoc
// @Summary Update customer
// @Description Replaces every contact field; omitted optional fields are cleared
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body object{id=int,name=string,email=string,phone=string,address=string,tax_id=string} true "Customer data"
// @Success 200 {object} httpx.MutationResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/customers [put]
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.errors.Write(w, r, err)
		return
	}
	if req.ID == nil {
		h.errors.Write(w, r, apperror.Validation("id is required"))
		return
	}
	if req.Name == nil {
		h.errors.Write(w, r, apperror.Validation("name is required"))
		return
	}

	err := h.updateHandler.Handle(r.Context(), command.UpdateCustomerCommand{ID: *req.ID, ContactDetails: req.details()})
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, httpx.MutationResponse{
		Success: true,
		Message: "Customer updated successfully",
	})
}

type deleteRequest struct {
	ID *uint `json:"id"`
}

// Delete godoc
// @Summary Delete customer
// @Description Refused with 409 while any invoice references the customer
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body object{id=int} true "Customer ID"
// @Success 200 {object} httpx.MutationResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /api/customers [delete]
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.errors.Write(w, r, err)
		return
	}
	if req.ID == nil {
		h.errors.Write(w, r, apperror.Validation("id is required"))
		return
	}

	if err := h.deleteHandler.Handle(r.Context(), command.DeleteCustomerCommand{ID: *req.ID}); err != nil {
		h.errors.Write(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, httpx.MutationResponse{
		Success: true,
		Message: "Customer deleted successfully",
	})
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
