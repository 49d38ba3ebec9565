package http

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/tair/inventory-invoicing/internal/invoice/domain"
	"github.com/tair/inventory-invoicing/internal/invoice/usecase/command"
	"github.com/tair/inventory-invoicing/internal/invoice/usecase/query"
	"github.com/tair/inventory-invoicing/pkg/apperror"
	"github.com/tair/inventory-invoicing/pkg/httpx"
	"github.com/tair/inventory-invoicing/pkg/metrics"
)

const resourcePath = "/api/invoices"

// InvoiceHandler handles HTTP requests for invoices
type InvoiceHandler struct {
	createHandler *command.CreateInvoiceHandler
	updateHandler *command.UpdateInvoiceHandler
	deleteHandler *command.DeleteInvoiceHandler
	getHandler    *query.GetInvoiceHandler
	listHandler   *query.ListInvoicesHandler
	statsHandler  *query.GetStatsHandler
	errors        httpx.ErrorWriter
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(
	createHandler *command.CreateInvoiceHandler,
	updateHandler *command.UpdateInvoiceHandler,
	deleteHandler *command.DeleteInvoiceHandler,
	getHandler *query.GetInvoiceHandler,
	listHandler *query.ListInvoicesHandler,
	statsHandler *query.GetStatsHandler,
	errors httpx.ErrorWriter,
) *InvoiceHandler {
	return &InvoiceHandler{
		createHandler: createHandler,
		updateHandler: updateHandler,
		deleteHandler: deleteHandler,
		getHandler:    getHandler,
		listHandler:   listHandler,
		statsHandler:  statsHandler,
		errors:        errors,
	}
}

// RegisterRoutes registers all invoice routes
func (h *InvoiceHandler) RegisterRoutes(router *mux.Router, m *metrics.HTTPMetrics) {
	router.HandleFunc(resourcePath, m.Wrap(resourcePath, h.Get)).Methods(http.MethodGet)
	router.HandleFunc(resourcePath, m.Wrap(resourcePath, h.Create)).Methods(http.MethodPost)
	router.HandleFunc(resourcePath, m.Wrap(resourcePath, h.Update)).Methods(http.MethodPut)
	router.HandleFunc(resourcePath, m.Wrap(resourcePath, h.Delete)).Methods(http.MethodDelete)
}

// Get godoc
// @Summary List invoices, get one or get statistics
// @Description With id returns one invoice with customer contact and lines. With stats returns aggregates.
// @Description Otherwise lists invoices newest first.
// @Tags Invoices
// @Produce json
// @Param id query int false "Invoice ID"
// @Param stats query bool false "Return statistics"
// @Param customer_id query int false "Filter by customer"
// @Param status query string false "Filter by status" Enums(pending, paid, cancelled)
// @Param date_from query string false "Earliest invoice date (YYYY-MM-DD)"
// @Param date_to query string false "Latest invoice date (YYYY-MM-DD)"
// @Success 200 {array} domain.Summary
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/invoices [get]
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	id, hasID, err := httpx.QueryID(q, "id")
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	switch {
	case hasID:
		invoice, err := h.getHandler.Handle(r.Context(), query.GetInvoiceQuery{ID: id})
		if err != nil {
			h.errors.Write(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, invoice)

	case q.Has("stats"):
		stats, err := h.statsHandler.Handle(r.Context())
		if err != nil {
			h.errors.Write(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, stats)

	default:
		filter, err := parseFilter(q)
		if err != nil {
			h.errors.Write(w, r, err)
			return
		}
		invoices, err := h.listHandler.Handle(r.Context(), query.ListInvoicesQuery{Filter: filter})
		if err != nil {
			h.errors.Write(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, invoices)
	}
}

func parseFilter(q url.Values) (domain.Filter, error) {
	var filter domain.Filter

	customerID, _, err := httpx.QueryID(q, "customer_id")
	if err != nil {
		return filter, err
	}
	filter.CustomerID = customerID

	if raw := strings.TrimSpace(q.Get("status")); raw != "" {
		status, err := domain.ParseStatus(raw)
		if err != nil {
			return filter, err
		}
		filter.Status = status
	}

	if filter.DateFrom, err = queryDate(q, "date_from"); err != nil {
		return filter, err
	}
	if filter.DateTo, err = queryDate(q, "date_to"); err != nil {
		return filter, err
	}
	return filter, nil
}

func queryDate(q url.Values, key string) (*domain.Date, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	date, err := domain.ParseDate(raw)
	if err != nil {
		return nil, apperror.Validation("%s: %s", key, err.Error())
	}
	return &date, nil
}

type itemRequest struct {
	ProductID *uint            `json:"product_id"`
	Quantity  *int             `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

type createInvoiceRequest struct {
	CustomerID  *uint         `json:"customer_id"`
	InvoiceDate *domain.Date  `json:"invoice_date"`
	Status      string        `json:"status"`
	Notes       string        `json:"notes"`
	Items       []itemRequest `json:"items"`
}

func (req createInvoiceRequest) command() (command.CreateInvoiceCommand, error) {
	if req.CustomerID == nil {
		return command.CreateInvoiceCommand{}, apperror.Validation("customer_id is required")
	}

	items := make([]command.CreateItem, 0, len(req.Items))
	for i, item := range req.Items {
		if item.ProductID == nil || item.Quantity == nil || item.UnitPrice == nil {
			return command.CreateInvoiceCommand{}, apperror.Validation("items[%d]: product_id, quantity and unit_price are required", i)
		}
		items = append(items, command.CreateItem{
			ProductID: *item.ProductID,
			Quantity:  *item.Quantity,
			UnitPrice: *item.UnitPrice,
		})
	}

	return command.CreateInvoiceCommand{
		CustomerID:  *req.CustomerID,
		InvoiceDate: req.InvoiceDate,
		Status:      req.Status,
		Notes:       req.Notes,
		Items:       items,
	}, nil
}

// Create godoc
// @Summary Create invoice
// @Description Numbers the invoice, snapshots line prices and takes the items out of stock in one transaction
// @Tags Invoices
// @Accept json
// @Produce json
// @Param request body object{customer_id=int,invoice_date=string,status=string,notes=string,items=[]object{product_id=int,quantity=int,unit_price=number}} true "Invoice data"
// @Success 201 {object} httpx.MutationResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /api/invoices [post]
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.errors.Write(w, r, err)
		return
	}

	cmd, err := req.command()
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	invoice, err := h.createHandler.Handle(r.Context(), cmd)
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, httpx.MutationResponse{
		Success:       true,
		Message:       "Invoice created successfully",
		ID:            invoice.ID,
		InvoiceNumber: invoice.InvoiceNumber,
	})
}

type updateInvoiceRequest struct {
	ID     *uint   `json:"id"`
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

// Update godoc
// @Summary Update invoice status
// @Description Cancelling returns the items to stock, leaving cancelled takes them again
// @Tags Invoices
// @Accept json
// @Produce json
// @Param request body object{id=int,status=string,notes=string} true "Status update"
// @Success 200 {object} httpx.MutationResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/invoices [put]
func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateInvoiceRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.errors.Write(w, r, err)
		return
	}
	if req.ID == nil {
		h.errors.Write(w, r, apperror.Validation("id is required"))
		return
	}
	if req.Status == nil {
		h.errors.Write(w, r, apperror.Validation("status is required"))
		return
	}

	err := h.updateHandler.Handle(r.Context(), command.UpdateInvoiceCommand{
		ID:     *req.ID,
		Status: *req.Status,
		Notes:  req.Notes,
	})
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, httpx.MutationResponse{
		Success: true,
		Message: "Invoice updated successfully",
	})
}

type deleteRequest struct {
	ID *uint `json:"id"`
}

// Delete godoc
// @Summary Delete invoice
// @Description Removes the invoice and its lines and restores stock still held by it
// @Tags Invoices
// @Accept json
// @Produce json
// @Param request body object{id=int} true "Invoice ID"
// @Success 200 {object} httpx.MutationResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/invoices [delete]
func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.errors.Write(w, r, err)
		return
	}
	if req.ID == nil {
		h.errors.Write(w, r, apperror.Validation("id is required"))
		return
	}

	if err := h.deleteHandler.Handle(r.Context(), command.DeleteInvoiceCommand{ID: *req.ID}); err != nil {
		h.errors.Write(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, httpx.MutationResponse{
		Success: true,
		Message: "Invoice deleted successfully",
	})
}
