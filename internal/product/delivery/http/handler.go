package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/tair/inventory-invoicing/internal/product/usecase/command"
	"github.com/tair/inventory-invoicing/internal/product/usecase/query"
	"github.com/tair/inventory-invoicing/pkg/apperror"
	"github.com/tair/inventory-invoicing/pkg/httpx"
	"github.com/tair/inventory-invoicing/pkg/metrics"
)

const resourcePath = "/api/products"

// ProductHandler handles HTTP requests for products using CQRS pattern
type ProductHandler struct {
	// Command handlers
	createHandler *command.CreateProductHandler
	updateHandler *command.UpdateProductHandler
	deleteHandler *command.DeleteProductHandler

	// Query handlers
	getHandler  *query.GetProductHandler
	listHandler *query.ListProductsHandler

	errors httpx.ErrorWriter
}

// NewProductHandler creates a new product handler
func NewProductHandler(
	createHandler *command.CreateProductHandler,
	updateHandler *command.UpdateProductHandler,
	deleteHandler *command.DeleteProductHandler,
	getHandler *query.GetProductHandler,
	listHandler *query.ListProductsHandler,
	errors httpx.ErrorWriter,
) *ProductHandler {
	return &ProductHandler{
		createHandler: createHandler,
		updateHandler: updateHandler,
		deleteHandler: deleteHandler,
		getHandler:    getHandler,
		listHandler:   listHandler,
		errors:        errors,
	}
}

// RegisterRoutes registers all product routes
func (h *ProductHandler) RegisterRoutes(router *mux.Router, m *metrics.HTTPMetrics) {
	router.HandleFunc(resourcePath, m.Wrap(resourcePath, h.Get)).Methods(http.MethodGet)
	router.HandleFunc(resourcePath, m.Wrap(resourcePath, h.Create)).Methods(http.MethodPost)
	router.HandleFunc(resourcePath, m.Wrap(resourcePath, h.Update)).Methods(http.MethodPut)
	router.HandleFunc(resourcePath, m.Wrap(resourcePath, h.Delete)).Methods(http.MethodDelete)
}

// Get godoc
// @Summary List products or get one
// @Description With id returns one product with its stock levels, otherwise lists products ordered by name
// @Tags Products
// @Produce json
// @Param id query int false "Product ID"
// @Param search query string false "Substring of the product name"
// @Param category query string false "Exact category"
// @Success 200 {array} domain.View
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/products [get]
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	id, hasID, err := httpx.QueryID(q, "id")
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	if hasID {
		product, err := h.getHandler.Handle(r.Context(), query.GetProductQuery{ID: id})
		if err != nil {
			h.errors.Write(w, r, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, product)
		return
	}

	products, err := h.listHandler.Handle(r.Context(), query.ListProductsQuery{
		Search:   q.Get("search"),
		Category: q.Get("category"),
	})
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, products)
}

type productRequest struct {
	ID          *uint            `json:"id"`
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Category    *string          `json:"category"`
	Quantity    *int             `json:"quantity"`
	MinStock    *int             `json:"min_stock"`
}

// Create godoc
// @Summary Create product
// @Description Creates a product and its inventory record (quantity 0 and min_stock 10 unless given)
// @Tags Products
// @Accept json
// @Produce json
// @Param request body object{name=string,description=string,price=number,category=string,quantity=int,min_stock=int} true "Product data"
// @Success 201 {object} httpx.MutationResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /api/products [post]
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.errors.Write(w, r, err)
		return
	}

	if req.ID != nil {
		h.errors.Write(w, r, apperror.Validation("id must not be set when creating a product"))
		return
	}
	if req.Name == nil || req.Price == nil {
		h.errors.Write(w, r, apperror.Validation("name and price are required"))
		return
	}

	product, err := h.createHandler.Handle(r.Context(), command.CreateProductCommand{
		Name:        *req.Name,
		Description: stringValue(req.Description),
		Price:       *req.Price,
		Category:    stringValue(req.Category),
		Quantity:    req.Quantity,
		MinStock:    req.MinStock,
	})
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, httpx.MutationResponse{
		Success: true,
		Message: "Product created successfully",
		ID:      product.ID,
	})
}

// Update godoc
// @Summary Update product
// @Description Replaces name, description, price and category. quantity and min_stock update the inventory record when present.
// @Tags Products
// @Accept json
// @Produce json
// @Param request body object{id=int,name=string,description=string,price=number,category=string,quantity=int,min_stock=int} true "Product data"
// @Success 200 {object} httpx.MutationResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/products [put]
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.errors.Write(w, r, err)
		return
	}

	if req.ID == nil {
		h.errors.Write(w, r, apperror.Validation("id is required"))
		return
	}
	if req.Name == nil || req.Price == nil {
		h.errors.Write(w, r, apperror.Validation("name and price are required"))
		return
	}

	err := h.updateHandler.Handle(r.Context(), command.UpdateProductCommand{
		ID:          *req.ID,
		Name:        *req.Name,
		Description: stringValue(req.Description),
		Price:       *req.Price,
		Category:    stringValue(req.Category),
		Quantity:    req.Quantity,
		MinStock:    req.MinStock,
	})
	if err != nil {
		h.errors.Write(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, httpx.MutationResponse{
		Success: true,
		Message: "Product updated successfully",
	})
}

type deleteRequest struct {
	ID *uint `json:"id"`
}

// Delete godoc
// @Summary Delete product
// @Description Soft-deletes a product; existing invoice lines keep showing its name
// @Tags Products
// @Accept json
// @Produce json
// @Param request body object{id=int} true "Product ID"
// @Success 200 {object} httpx.MutationResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/products [delete]
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		h.errors.Write(w, r, err)
		return
	}
	if req.ID == nil {
		h.errors.Write(w, r, apperror.Validation("id is required"))
		return
	}

	if err := h.deleteHandler.Handle(r.Context(), command.DeleteProductCommand{ID: *req.ID}); err != nil {
		h.errors.Write(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, httpx.MutationResponse{
		Success: true,
		Message: "Product deleted successfully",
	})
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
