package api

import (
	"context"
	"net"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	"github.com/tair/inventory-invoicing/pkg/logger"
)

// GRPCServer exposes the standard health service and reflection
type GRPCServer struct {
	server  *grpc.Server
	health  *health.Server
	service string
	store   Pinger

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewGRPCServer creates a gRPC server whose health follows the store
func NewGRPCServer(service string, store Pinger, reg prometheus.Registerer, namespace string) *GRPCServer {
	s := &GRPCServer{
		health:  health.NewServer(),
		service: service,
		store:   store,
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "grpc_requests_total",
				Help:      "Total number of gRPC requests",
			},
			[]string{"method", "status_code"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "grpc_request_duration_seconds",
				Help:      "Duration of gRPC requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}
	reg.MustRegister(s.requestsTotal, s.requestDuration)

	s.server = grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			s.loggingInterceptor,
			s.metricsInterceptor,
		),
	)
	healthpb.RegisterHealthServer(s.server, s.health)
	reflection.Register(s.server)

	s.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	s.health.SetServingStatus(service, healthpb.HealthCheckResponse_NOT_SERVING)
	return s
}

// UpdateHealth pings the store and publishes the result
func (s *GRPCServer) UpdateHealth(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	state := healthpb.HealthCheckResponse_SERVING
	if err := s.store.Ping(ctx); err != nil {
		state = healthpb.HealthCheckResponse_NOT_SERVING
		logger.Warn(ctx).Err(err).Msg("Store ping failed, gRPC health set to NOT_SERVING")
	}
	s.health.SetServingStatus("", state)
	s.health.SetServingStatus(s.service, state)
}

// WatchHealth refreshes the health status every interval until ctx ends
func (s *GRPCServer) WatchHealth(ctx context.Context, interval time.Duration) {
	s.UpdateHealth(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.UpdateHealth(ctx)
		}
	}
}

// Serve accepts connections on lis until Stop
func (s *GRPCServer) Serve(lis net.Listener) error {
	logger.Logger.Info().
		Str("addr", lis.Addr().String()).
		Msg("gRPC server started")
	return s.server.Serve(lis)
}

// Stop marks the service as not serving and drains in-flight calls
func (s *GRPCServer) Stop() {
	s.health.Shutdown()
	s.server.GracefulStop()
}

func (s *GRPCServer) metricsInterceptor(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	start := time.Now()

	resp, err := handler(ctx, req)

	s.requestsTotal.WithLabelValues(info.FullMethod, status.Code(err).String()).Inc()
	s.requestDuration.WithLabelValues(info.FullMethod).Observe(time.Since(start).Seconds())
	return resp, err
}

func (s *GRPCServer) loggingInterceptor(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	start := time.Now()

	resp, err := handler(ctx, req)

	duration := time.Since(start)
	if err != nil {
		logger.Error(ctx).
			Str("method", info.FullMethod).
			Str("protocol", "grpc").
			Dur("duration", duration).
			Str("grpc_status", status.Code(err).String()).
			Err(err).
			Msg("gRPC request failed")
	} else {
		logger.Debug(ctx).
			Str("method", info.FullMethod).
			Str("protocol", "grpc").
			Dur("duration", duration).
			Msg("gRPC request completed")
	}
	return resp, err
}
