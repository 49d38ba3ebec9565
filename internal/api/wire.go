//go:build wireinject
// +build wireinject

package api

import (
	"net/http"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	invoiceCommand "github.com/tair/inventory-invoicing/internal/invoice/usecase/command"
	"github.com/tair/inventory-invoicing/internal/memstore"
	"github.com/tair/inventory-invoicing/pkg/cache"
	"github.com/tair/inventory-invoicing/pkg/config"
)

// InitializeGormHandler builds the HTTP handler on PostgreSQL repositories
func InitializeGormHandler(
	cfg *config.Config,
	db *gorm.DB,
	reg *prometheus.Registry,
	statsCache cache.Cache,
	publisher invoiceCommand.EventPublisher,
) (http.Handler, error) {
	wire.Build(GormRepositorySet, HTTPSet)
	return nil, nil
}

// InitializeMemoryHandler builds the HTTP handler on the in-memory store
func InitializeMemoryHandler(
	cfg *config.Config,
	store *memstore.Store,
	reg *prometheus.Registry,
	statsCache cache.Cache,
	publisher invoiceCommand.EventPublisher,
) (http.Handler, error) {
	wire.Build(MemoryRepositorySet, HTTPSet)
	return nil, nil
}
