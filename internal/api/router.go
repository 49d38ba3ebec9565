package api

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/tair/inventory-invoicing/docs"
	customerHTTP "github.com/tair/inventory-invoicing/internal/customer/delivery/http"
	inventoryHTTP "github.com/tair/inventory-invoicing/internal/inventory/delivery/http"
	invoiceHTTP "github.com/tair/inventory-invoicing/internal/invoice/delivery/http"
	productHTTP "github.com/tair/inventory-invoicing/internal/product/delivery/http"
	"github.com/tair/inventory-invoicing/pkg/cache"
	"github.com/tair/inventory-invoicing/pkg/httpx"
	"github.com/tair/inventory-invoicing/pkg/logger"
	"github.com/tair/inventory-invoicing/pkg/metrics"
)

// Handlers groups the resource handlers mounted on the router
type Handlers struct {
	Products  *productHTTP.ProductHandler
	Customers *customerHTTP.CustomerHandler
	Inventory *inventoryHTTP.InventoryHandler
	Invoices  *invoiceHTTP.InvoiceHandler
}

// RouterConfig holds configuration for the HTTP router and its middlewares
type RouterConfig struct {
	RequestTimeout time.Duration
	AllowedOrigins []string
	EnableTracing  bool
}

// Router carries everything the HTTP surface needs besides the resource handlers
type Router struct {
	Config   RouterConfig
	Metrics  *metrics.HTTPMetrics
	Stats    cache.Cache
	Health   *HealthChecker
	Gatherer prometheus.Gatherer
}

// NewHandler assembles the router, its middleware chain and CORS
func NewHandler(rt Router, h Handlers) http.Handler {
	if rt.Stats == nil {
		rt.Stats = cache.NopCache{}
	}

	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(notFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(httpx.MethodNotAllowed)

	registerMiddlewares(router, rt)

	h.Products.RegisterRoutes(router, rt.Metrics)
	h.Customers.RegisterRoutes(router, rt.Metrics)
	h.Inventory.RegisterRoutes(router, rt.Metrics)
	h.Invoices.RegisterRoutes(router, rt.Metrics)

	router.Handle("/health", rt.Health).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.HandlerFor(rt.Gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	c := cors.New(cors.Options{
		AllowedOrigins:       rt.Config.AllowedOrigins,
		AllowedMethods:       []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:       []string{"*"},
		ExposedHeaders:       []string{RequestIDHeader},
		OptionsSuccessStatus: http.StatusOK,
	})
	return c.Handler(answerOptions(router))
}

// answerOptions succeeds with an empty body for OPTIONS requests that are not CORS pre-flights
func answerOptions(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func registerMiddlewares(router *mux.Router, rt Router) {
	logger.Logger.Info().
		Bool("tracing", rt.Config.EnableTracing).
		Dur("timeout_duration", rt.Config.RequestTimeout).
		Strs("cors_origins", rt.Config.AllowedOrigins).
		Msg("Registering middlewares")

	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	if rt.Config.EnableTracing {
		router.Use(TracingMiddleware("http-request"))
	}
	router.Use(LoggingMiddleware)
	router.Use(TimeoutMiddleware(rt.Config.RequestTimeout))
	router.Use(SecurityHeadersMiddleware())
	router.Use(StatsInvalidationMiddleware(rt.Stats))
}

func notFound(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusNotFound, httpx.ErrorResponse{Error: "resource not found"})
}
