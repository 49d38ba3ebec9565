package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tair/inventory-invoicing/internal/api"
	customer "github.com/tair/inventory-invoicing/internal/customer/domain"
	inventory "github.com/tair/inventory-invoicing/internal/inventory/domain"
	invoice "github.com/tair/inventory-invoicing/internal/invoice/domain"
	invoiceCommand "github.com/tair/inventory-invoicing/internal/invoice/usecase/command"
	"github.com/tair/inventory-invoicing/internal/memstore"
	product "github.com/tair/inventory-invoicing/internal/product/domain"
	"github.com/tair/inventory-invoicing/kafka"
	"github.com/tair/inventory-invoicing/pkg/cache"
	"github.com/tair/inventory-invoicing/pkg/config"
	"github.com/tair/inventory-invoicing/pkg/database"
	"github.com/tair/inventory-invoicing/pkg/logger"
	"github.com/tair/inventory-invoicing/pkg/ratelimit"
	"github.com/tair/inventory-invoicing/pkg/tracing"
)

type eventPublisher interface {
	invoiceCommand.EventPublisher
	Close() error
}

func main() {
	cfg := config.Load()

	logger.Init(logger.Options{
		ServiceName:   cfg.ServiceName,
		Environment:   cfg.Environment,
		Level:         cfg.LogLevel,
		IsDevelopment: cfg.IsDevelopment(),
	})
	for _, w := range cfg.Warnings {
		logger.Logger.Warn().Str("setting", w).Msg("Invalid configuration value, using default")
	}

	logger.Logger.Info().
		Str("environment", cfg.Environment).
		Str("log_level", cfg.LogLevel).
		Str("storage", cfg.StorageDriver).
		Msg("Starting inventory invoicing service")

	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    cfg.ServiceName,
		Environment:    cfg.Environment,
		JaegerEndpoint: cfg.JaegerEndpoint,
	})
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize tracer")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	statsCache := connectCache(ctx, cfg)
	publisher := connectPublisher(cfg)

	var (
		handler http.Handler
		store   api.Pinger
		closeDB func() error
	)
	switch cfg.StorageDriver {
	case config.StorageMemory:
		mem := memstore.New()
		store = mem
		closeDB = func() error { return nil }
		handler, err = api.InitializeMemoryHandler(cfg, mem, reg, statsCache, publisher)
	default:
		var db *gorm.DB
		db, closeDB = connectDatabase(ctx, cfg)
		store, err = api.ProvideGormPinger(db)
		if err == nil {
			handler, err = api.InitializeGormHandler(cfg, db, reg, statsCache, publisher)
		}
	}
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize handler")
	}

	if cfg.RateLimitPerMinute > 0 {
		if rc, ok := statsCache.(*cache.RedisCache); ok {
			limiter := ratelimit.NewRedisLimiter(rc.Client(), cfg.RateLimitPerMinute, time.Minute)
			handler = ratelimit.Middleware(limiter)(handler)
			logger.Logger.Info().Int("per_minute", cfg.RateLimitPerMinute).Msg("Rate limiting enabled")
		} else {
			logger.Logger.Warn().Msg("RATE_LIMIT_PER_MINUTE needs Redis, rate limiting disabled")
		}
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	grpcServer := api.NewGRPCServer(cfg.ServiceName, store, reg, api.MetricsNamespace)

	go func() {
		logger.Logger.Info().
			Str("port", cfg.HTTPPort).
			Str("metrics_endpoint", "/metrics").
			Str("swagger", "/swagger/index.html").
			Msg("HTTP server started")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		logger.Logger.Fatal().Err(err).Str("port", cfg.GRPCPort).Msg("Failed to listen for gRPC")
	}
	go grpcServer.WatchHealth(ctx, 15*time.Second)
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			logger.Logger.Error().Err(err).Msg("gRPC server stopped")
		}
	}()

	<-ctx.Done()
	logger.Logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("HTTP server forced to shutdown")
	}
	grpcServer.Stop()

	if err := publisher.Close(); err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to close event publisher")
	}
	if c, ok := statsCache.(*cache.RedisCache); ok {
		if err := c.Close(); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to close Redis client")
		}
	}
	if err := closeDB(); err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to close database")
	}
	if err := tracing.Shutdown(shutdownCtx, tp); err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to flush traces")
	}

	logger.Logger.Info().Msg("Server exited")
}

func connectDatabase(ctx context.Context, cfg *config.Config) (*gorm.DB, func() error) {
	sqlDB, err := database.NewPostgresConnection(ctx, cfg.Database)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	db, err := database.NewGormConnection(sqlDB)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize GORM")
	}

	if err := db.AutoMigrate(
		&product.Product{},
		&inventory.Record{},
		&customer.Customer{},
		&invoice.Invoice{},
		&invoice.Item{},
	); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	logger.Logger.Info().Msg("Database initialized successfully")
	return db, sqlDB.Close
}

func connectCache(ctx context.Context, cfg *config.Config) cache.Cache {
	if cfg.RedisAddr == "" {
		logger.Logger.Info().Msg("REDIS_ADDR not set, statistics are not cached")
		return cache.NopCache{}
	}

	c, err := cache.NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.ServiceName+":")
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Redis unavailable, statistics are not cached")
		return cache.NopCache{}
	}
	return c
}

func connectPublisher(cfg *config.Config) eventPublisher {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Logger.Info().Msg("KAFKA_BROKERS not set, invoice events are not published")
		return kafka.NopPublisher{}
	}

	p, err := kafka.NewPublisher(cfg.KafkaBrokers)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Kafka unavailable, invoice events are not published")
		return kafka.NopPublisher{}
	}
	return kafka.NewBreakerPublisher(p, kafka.NewCircuitBreaker("kafka-publisher", 5, 30*time.Second))
}
