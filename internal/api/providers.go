package api

import (
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	customerHTTP "github.com/tair/inventory-invoicing/internal/customer/delivery/http"
	customerDomain "github.com/tair/inventory-invoicing/internal/customer/domain"
	customerRepository "github.com/tair/inventory-invoicing/internal/customer/repository"
	customerCommand "github.com/tair/inventory-invoicing/internal/customer/usecase/command"
	customerQuery "github.com/tair/inventory-invoicing/internal/customer/usecase/query"
	inventoryHTTP "github.com/tair/inventory-invoicing/internal/inventory/delivery/http"
	inventoryDomain "github.com/tair/inventory-invoicing/internal/inventory/domain"
	inventoryRepository "github.com/tair/inventory-invoicing/internal/inventory/repository"
	inventoryCommand "github.com/tair/inventory-invoicing/internal/inventory/usecase/command"
	inventoryQuery "github.com/tair/inventory-invoicing/internal/inventory/usecase/query"
	invoiceHTTP "github.com/tair/inventory-invoicing/internal/invoice/delivery/http"
	invoiceDomain "github.com/tair/inventory-invoicing/internal/invoice/domain"
	invoiceRepository "github.com/tair/inventory-invoicing/internal/invoice/repository"
	invoiceCommand "github.com/tair/inventory-invoicing/internal/invoice/usecase/command"
	invoiceQuery "github.com/tair/inventory-invoicing/internal/invoice/usecase/query"
	"github.com/tair/inventory-invoicing/internal/memstore"
	productHTTP "github.com/tair/inventory-invoicing/internal/product/delivery/http"
	productDomain "github.com/tair/inventory-invoicing/internal/product/domain"
	productRepository "github.com/tair/inventory-invoicing/internal/product/repository"
	productCommand "github.com/tair/inventory-invoicing/internal/product/usecase/command"
	productQuery "github.com/tair/inventory-invoicing/internal/product/usecase/query"
	"github.com/tair/inventory-invoicing/pkg/cache"
	"github.com/tair/inventory-invoicing/pkg/config"
	"github.com/tair/inventory-invoicing/pkg/httpx"
	"github.com/tair/inventory-invoicing/pkg/metrics"
)

// MetricsNamespace prefixes every Prometheus metric of the service
const MetricsNamespace = "invoicing"

// ProvideHTTPMetrics provides the HTTP request metrics
func ProvideHTTPMetrics(reg *prometheus.Registry) *metrics.HTTPMetrics {
	return metrics.NewHTTPMetrics(reg, MetricsNamespace)
}

// ProvideBusinessMetrics provides the invoice metrics
func ProvideBusinessMetrics(reg *prometheus.Registry) *metrics.BusinessMetrics {
	return metrics.NewBusinessMetrics(reg, MetricsNamespace)
}

// ProvideErrorWriter provides the error response writer
func ProvideErrorWriter(cfg *config.Config) httpx.ErrorWriter {
	return httpx.ErrorWriter{ExposeInternal: cfg.ExposeInternalErrors}
}

// ProvideCachePolicy provides the statistics cache policy
func ProvideCachePolicy(cfg *config.Config, c cache.Cache) cache.Policy {
	return cache.Policy{Cache: c, TTL: cfg.StatsCacheTTL}
}

// ProvideRouterConfig provides the router configuration
func ProvideRouterConfig(cfg *config.Config) RouterConfig {
	return RouterConfig{
		RequestTimeout: cfg.RequestTimeout,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		EnableTracing:  true,
	}
}

// ProvideHealthChecker provides the health checker; a cache that can be pinged is checked too
func ProvideHealthChecker(cfg *config.Config, store Pinger, c cache.Cache) *HealthChecker {
	checker := NewHealthChecker(cfg.ServiceName, store)
	if p, ok := c.(Pinger); ok {
		checker.WithDependency("cache", p)
	}
	return checker
}

// ProvideRouter provides the router dependencies
func ProvideRouter(
	cfg RouterConfig,
	m *metrics.HTTPMetrics,
	c cache.Cache,
	health *HealthChecker,
	reg *prometheus.Registry,
) Router {
	return Router{
		Config:   cfg,
		Metrics:  m,
		Stats:    c,
		Health:   health,
		Gatherer: reg,
	}
}

// ProvideGormPinger provides a pinger for the SQL connection pool
func ProvideGormPinger(db *gorm.DB) (Pinger, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return PingFunc(sqlDB.PingContext), nil
}

// ProvideGormProductRepository provides the product repository
func ProvideGormProductRepository(db *gorm.DB) productDomain.Repository {
	return productRepository.NewTracingRepository(productRepository.NewGormProductRepository(db))
}

// ProvideGormCustomerRepository provides the customer repository
func ProvideGormCustomerRepository(db *gorm.DB) customerDomain.Repository {
	return customerRepository.NewTracingRepository(customerRepository.NewGormCustomerRepository(db))
}

// ProvideGormInventoryRepository provides the inventory repository
func ProvideGormInventoryRepository(db *gorm.DB) inventoryDomain.Repository {
	return inventoryRepository.NewTracingRepository(inventoryRepository.NewGormInventoryRepository(db))
}

// ProvideGormInvoiceRepository provides the invoice repository
func ProvideGormInvoiceRepository(db *gorm.DB, m *metrics.BusinessMetrics) invoiceDomain.Repository {
	repo := invoiceRepository.NewGormInvoiceRepository(db, invoiceRepository.WithRetryHook(m.NumberingRetries.Inc))
	return invoiceRepository.NewTracingRepository(repo)
}

// ProvideMemoryPinger provides the in-memory store as pinger
func ProvideMemoryPinger(s *memstore.Store) Pinger {
	return s
}

// ProvideMemoryProductRepository provides the in-memory product repository
func ProvideMemoryProductRepository(s *memstore.Store) productDomain.Repository {
	return s.Products()
}

// ProvideMemoryCustomerRepository provides the in-memory customer repository
func ProvideMemoryCustomerRepository(s *memstore.Store) customerDomain.Repository {
	return s.Customers()
}

// ProvideMemoryInventoryRepository provides the in-memory inventory repository
func ProvideMemoryInventoryRepository(s *memstore.Store) inventoryDomain.Repository {
	return s.Inventory()
}

// ProvideMemoryInvoiceRepository provides the in-memory invoice repository
func ProvideMemoryInvoiceRepository(s *memstore.Store) invoiceDomain.Repository {
	return s.Invoices()
}

// Wire sets
var (
	ProductSet = wire.NewSet(
		productCommand.NewCreateProductHandler,
		productCommand.NewUpdateProductHandler,
		productCommand.NewDeleteProductHandler,
		productQuery.NewGetProductHandler,
		productQuery.NewListProductsHandler,
		productHTTP.NewProductHandler,
	)

	CustomerSet = wire.NewSet(
		customerCommand.NewCreateCustomerHandler,
		customerCommand.NewUpdateCustomerHandler,
		customerCommand.NewDeleteCustomerHandler,
		customerQuery.NewGetCustomerHandler,
		customerQuery.NewListCustomersHandler,
		customerHTTP.NewCustomerHandler,
	)

	InventorySet = wire.NewSet(
		inventoryCommand.NewUpdateStockHandler,
		inventoryQuery.NewListInventoryHandler,
		inventoryQuery.NewListLowStockHandler,
		inventoryQuery.NewGetStatsHandler,
		inventoryHTTP.NewInventoryHandler,
	)

	InvoiceSet = wire.NewSet(
		invoiceCommand.NewCreateInvoiceHandler,
		invoiceCommand.NewUpdateInvoiceHandler,
		invoiceCommand.NewDeleteInvoiceHandler,
		invoiceQuery.NewGetInvoiceHandler,
		invoiceQuery.NewListInvoicesHandler,
		invoiceQuery.NewGetStatsHandler,
		invoiceHTTP.NewInvoiceHandler,
	)

	HTTPSet = wire.NewSet(
		ProvideHTTPMetrics,
		ProvideBusinessMetrics,
		ProvideErrorWriter,
		ProvideCachePolicy,
		ProvideRouterConfig,
		ProvideHealthChecker,
		ProvideRouter,
		wire.Struct(new(Handlers), "*"),
		NewHandler,
		ProductSet,
		CustomerSet,
		InventorySet,
		InvoiceSet,
	)

	GormRepositorySet = wire.NewSet(
		ProvideGormPinger,
		ProvideGormProductRepository,
		ProvideGormCustomerRepository,
		ProvideGormInventoryRepository,
		ProvideGormInvoiceRepository,
	)

	MemoryRepositorySet = wire.NewSet(
		ProvideMemoryPinger,
		ProvideMemoryProductRepository,
		ProvideMemoryCustomerRepository,
		ProvideMemoryInventoryRepository,
		ProvideMemoryInvoiceRepository,
	)
)
