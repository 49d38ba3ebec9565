package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapCache is an in-memory Cache used to exercise GetOrLoad
type mapCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	failGet bool
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string][]byte)}
}

func (c *mapCache) Get(_ context.Context, key string, dst interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet {
		return false, errors.New("connection reset")
	}
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *mapCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = raw
	return nil
}

func (c *mapCache) Invalidate(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	return nil
}

type stats struct {
	TotalInvoices int `json:"total_invoices"`
}

func TestGetOrLoad(t *testing.T) {
	ctx := context.Background()
	c := newMapCache()
	calls := 0
	load := func(context.Context) (stats, error) {
		calls++
		return stats{TotalInvoices: 4}, nil
	}

	got, err := GetOrLoad(ctx, c, "stats:invoices", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 4, got.TotalInvoices)

	got, err = GetOrLoad(ctx, c, "stats:invoices", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 4, got.TotalInvoices)
	assert.Equal(t, 1, calls)

	require.NoError(t, c.Invalidate(ctx, "stats:*"))
	_, err = GetOrLoad(ctx, c, "stats:invoices", time.Minute, load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestGetOrLoadFallsThroughOnCacheError(t *testing.T) {
	c := newMapCache()
	c.failGet = true

	got, err := GetOrLoad(context.Background(), c, "stats:inventory", time.Minute, func(context.Context) (stats, error) {
		return stats{TotalInvoices: 1}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalInvoices)
}

func TestGetOrLoadPropagatesLoadError(t *testing.T) {
	_, err := GetOrLoad(context.Background(), NopCache{}, "stats:inventory", time.Minute, func(context.Context) (stats, error) {
		return stats{}, errors.New("database unavailable")
	})
	assert.EqualError(t, err, "database unavailable")
}

func TestPolicyWithoutCacheAlwaysLoads(t *testing.T) {
	calls := 0
	load := func(context.Context) (stats, error) {
		calls++
		return stats{TotalInvoices: calls}, nil
	}

	p := Policy{TTL: time.Minute}
	_, err := Load(context.Background(), p, "stats:invoices", load)
	require.NoError(t, err)
	got, err := Load(context.Background(), p, "stats:invoices", load)
	require.NoError(t, err)
	assert.Equal(t, 2, got.TotalInvoices)
}
