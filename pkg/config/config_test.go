package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "inventory-invoicing", cfg.ServiceName)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, StoragePostgres, cfg.StorageDriver)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.ExposeInternalErrors)
	assert.Zero(t, cfg.RateLimitPerMinute)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("EXPOSE_INTERNAL_ERRORS", "true")
	t.Setenv("DB_MAX_IDLE_CONNS", "7")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "120")

	cfg := Load()

	assert.Equal(t, "9000", cfg.HTTPPort)
	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.ExposeInternalErrors)
	assert.Equal(t, 7, cfg.Database.MaxIdleConns)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
	assert.Empty(t, cfg.Warnings)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "soon")
	t.Setenv("DB_MAX_OPEN_CONNS", "many")
	t.Setenv("STORAGE_DRIVER", "sqlite")

	cfg := Load()

	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, StoragePostgres, cfg.StorageDriver)
	require.Len(t, cfg.Warnings, 3)
}
