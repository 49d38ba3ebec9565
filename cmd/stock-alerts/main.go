package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tair/inventory-invoicing/internal/api"
	"github.com/tair/inventory-invoicing/internal/inventory/alerts"
	inventoryRepo "github.com/tair/inventory-invoicing/internal/inventory/repository"
	"github.com/tair/inventory-invoicing/kafka"
	"github.com/tair/inventory-invoicing/pkg/config"
	"github.com/tair/inventory-invoicing/pkg/database"
	"github.com/tair/inventory-invoicing/pkg/logger"
	"github.com/tair/inventory-invoicing/pkg/tracing"
)

func main() {
	cfg := config.Load()
	cfg.ServiceName += "-stock-alerts"

	logger.Init(logger.Options{
		ServiceName:   cfg.ServiceName,
		Environment:   cfg.Environment,
		Level:         cfg.LogLevel,
		IsDevelopment: cfg.IsDevelopment(),
	})

	if len(cfg.KafkaBrokers) == 0 {
		logger.Logger.Fatal().Msg("KAFKA_BROKERS is required")
	}

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

	sqlDB, err := database.NewPostgresConnection(ctx, cfg.Database)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer sqlDB.Close()

	db, err := database.NewGormConnection(sqlDB)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize GORM")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	repo := inventoryRepo.NewTracingRepository(inventoryRepo.NewGormInventoryRepository(db))
	monitor := alerts.NewMonitor(repo, reg, api.MetricsNamespace)

	consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, []string{kafka.TopicInvoiceEvents})
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka consumer")
	}
	consumer.RegisterHandler(kafka.EventTypeInvoiceCreated, monitor.HandleInvoiceEvent)
	consumer.RegisterHandler(kafka.EventTypeInvoiceStatusChanged, monitor.HandleInvoiceEvent)
	consumer.RegisterHandler(kafka.EventTypeInvoiceDeleted, monitor.HandleInvoiceEvent)

	if err := consumer.Start(ctx); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to start Kafka consumer")
	}

	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	router.Handle("/health", api.NewHealthChecker(cfg.ServiceName, api.PingFunc(sqlDB.PingContext)))

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Logger.Info().
			Str("port", cfg.HTTPPort).
			Str("metrics_endpoint", "/metrics").
			Msg("Stock alerts metrics server started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	<-ctx.Done()
	logger.Logger.Info().Msg("Shutting down stock alerts...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := consumer.Close(); err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to close Kafka consumer")
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Error().Err(err).Msg("HTTP server forced to shutdown")
	}
	if err := tracing.Shutdown(shutdownCtx, tp); err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to flush traces")
	}
}
