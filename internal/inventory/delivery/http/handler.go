package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tair/inventory-invoicing/internal/inventory/usecase/command"
	"github.com/tair/inventory-invoicing/internal/inventory/usecase/query"
	"github.com/tair/inventory-invoicing/pkg/apperror"
	"github.com/tair/inventory-invoicing/pkg/httpx"
	"github.com/tair/inventory-invoicing/pkg/metrics"
)

const resourcePath = "/api/inventory"

// InventoryHandler handles HTTP requests for inventory
type InventoryHandler struct {
	updateHandler   *command.UpdateStockHandler
	listHandler     *query.ListInventoryHandler
	lowStockHandler *query.ListLowStockHandler
	statsHandler    *query.GetStatsHandler
	errors          httpx.ErrorWriter
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(
	updateHandler *command.UpdateStockHandler,
	listHandler *query.ListInventoryHandler,
	lowStockHandler *query.ListLowStockHandler,
	statsHandler *query.GetStatsHandler,
	errors httpx.ErrorWriter,
) *InventoryHandler {
	return &InventoryHandler{
		updateHandler:   updateHandler,
		listHandler:     listHandler,
		lowStockHandler: lowStockHandler,
		statsHandler:    statsHandler,
		errors:          errors,
	}
}

// RegisterRoutes registers all inventory routes
func (h *InventoryHandler) RegisterRoutes(router *mux.Router, m *metrics.HTTPMetrics) {
	router.HandleFunc(resourcePath, m.Wrap(resourcePath, h.Get)).Methods(http.MethodGet)
	router.HandleFunc(resourcePath, m.Wrap(resourcePath, h.Update)).Methods(http.MethodPut)
}

// Get godoc
// @Summary List inventory
// @Description Without parameters lists every product with its stock status. low_stock=1 lists products below their threshold ordered by deficit. stats=1 returns aggregate counts.
// @Tags Inventory
// @Produce json
// @Param low_stock query string false "Only products below min_stock"
// @Param stats query string false "Aggregate statistics"
// @Success 200 {array} domain.Item
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/inventory [get]
func (h *InventoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	switch {
	case q.Has("low_stock"):
		items, err := h.lowStockHandler.Handle(r.Context())
		if err != nil {
			h.errors.Write(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, items)

	case q.Has("stats"):
		stats, err := h.statsHandler.Handle(r.Context())
		if err != nil {
			h.errors.Write(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, stats)

	default:
		items, err := h.listHandler.Handle(r.Context())
		if err != nil {
			h.errors.Write(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, items)
	}
}

type updateStockRequest struct {
	ProductID *uint `json:"product_id"`
	Quantity  *int  `json:"quantity"`
	MinStock  *int  `json:"min_stock"`
}

// Update godoc
// @Summary Set stock levels
// @Description Overwrites quantity and min_stock (default 10) of a product's inventory record
// @Tags Inventory
// @Accept json
// @Produce json
// @Param request body object{product_id=int,quantity=int,min_stock=int} true "Stock levels"
// @Success 200 {object} httpx.MutationResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/inventory [put]
func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateStockRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.errors.Write(w, r, err)
		return
	}

	if req.ProductID == nil || req.Quantity == nil {
		h.errors.Write(w, r, apperror.Validation("product_id and quantity are required"))
		return
	}

	cmd := command.UpdateStockCommand{
		ProductID: *req.ProductID,
		Quantity:  *req.Quantity,
		MinStock:  req.MinStock,
	}
	if err := h.updateHandler.Handle(r.Context(), cmd); err != nil {
		h.errors.Write(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, httpx.MutationResponse{
		Success: true,
		Message: "Inventory updated successfully",
	})
}
