package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tair/inventory-invoicing/pkg/database"
)

// Storage drivers
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds the service configuration
type Config struct {
	ServiceName   string
	Environment   string
	LogLevel      string
	HTTPPort      string
	GRPCPort      string
	StorageDriver string

	Database database.Config

	RedisAddr     string
	RedisPassword string
	StatsCacheTTL time.Duration
	// RateLimitPerMinute caps requests per client IP; 0 disables limiting. Needs Redis.
	RateLimitPerMinute int

	KafkaBrokers []string
	KafkaGroupID string

	JaegerEndpoint string

	RequestTimeout       time.Duration
	ShutdownTimeout      time.Duration
	CORSAllowedOrigins   []string
	ExposeInternalErrors bool

	// Warnings collects values that could not be parsed and fell back to defaults
	Warnings []string
}

// IsDevelopment reports whether the service runs in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Load reads the configuration from the environment
func Load() *Config {
	cfg := &Config{
		ServiceName:        getEnv("OTEL_SERVICE_NAME", "inventory-invoicing"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		GRPCPort:           getEnv("GRPC_PORT", "9090"),
		StorageDriver:      strings.ToLower(getEnv("STORAGE_DRIVER", StoragePostgres)),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		KafkaBrokers:       splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaGroupID:       getEnv("KAFKA_GROUP_ID", "stock-alerts"),
		JaegerEndpoint:     getEnv("JAEGER_ENDPOINT", ""),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	cfg.Database = database.Config{
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            getEnv("DB_PORT", "5432"),
		User:            getEnv("DB_USER", "postgres"),
		Password:        getEnv("DB_PASSWORD", "postgres"),
		DBName:          getEnv("DB_NAME", "inventory_system"),
		SSLMode:         getEnv("DB_SSLMODE", "disable"),
		MaxOpenConns:    cfg.getInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    cfg.getInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: cfg.getDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
	}

	cfg.StatsCacheTTL = cfg.getDuration("STATS_CACHE_TTL", 30*time.Second)
	cfg.RequestTimeout = cfg.getDuration("REQUEST_TIMEOUT", 30*time.Second)
	cfg.ShutdownTimeout = cfg.getDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	cfg.ExposeInternalErrors = cfg.getBool("EXPOSE_INTERNAL_ERRORS", false)
	cfg.RateLimitPerMinute = cfg.getInt("RATE_LIMIT_PER_MINUTE", 0)

	if cfg.StorageDriver != StoragePostgres && cfg.StorageDriver != StorageMemory {
		cfg.Warnings = append(cfg.Warnings, "STORAGE_DRIVER: unknown driver "+cfg.StorageDriver+", using postgres")
		cfg.StorageDriver = StoragePostgres
	}

	return cfg
}

func (c *Config) getInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		c.Warnings = append(c.Warnings, key+": "+err.Error())
		return defaultValue
	}
	return value
}

func (c *Config) getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		c.Warnings = append(c.Warnings, key+": "+err.Error())
		return defaultValue
	}
	return value
}

func (c *Config) getBool(key string, defaultValue bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		c.Warnings = append(c.Warnings, key+": "+err.Error())
		return defaultValue
	}
	return value
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(raw string) []string {
	var items []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}
