package query

import (
	"context"
	"fmt"

	"github.com/tair/inventory-invoicing/internal/inventory/domain"
	"github.com/tair/inventory-invoicing/pkg/cache"
)

// StatsCacheKey is the cache entry for inventory statistics
const StatsCacheKey = "stats:inventory"

// GetStatsHandler handles the inventory statistics query
type GetStatsHandler struct {
	repo  domain.Repository
	cache cache.Policy
}

// NewGetStatsHandler creates a new stats handler
func NewGetStatsHandler(repo domain.Repository, policy cache.Policy) *GetStatsHandler {
	return &GetStatsHandler{repo: repo, cache: policy}
}

// Handle executes the stats query
func (h *GetStatsHandler) Handle(ctx context.Context) (*domain.Stats, error) {
	stats, err := cache.Load(ctx, h.cache, StatsCacheKey, h.repo.Stats)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory stats: %w", err)
	}
	return stats, nil
}
