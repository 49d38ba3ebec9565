package api

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

func TestGRPCHealthFollowsStore(t *testing.T) {
	var down atomic.Bool
	store := PingFunc(func(context.Context) error {
		if down.Load() {
			return errors.New("database unreachable")
		}
		return nil
	})

	srv := NewGRPCServer("svc", store, prometheus.NewRegistry(), "test")
	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	client := healthpb.NewHealthClient(conn)
	ctx := context.Background()
	check := func(service string) healthpb.HealthCheckResponse_ServingStatus {
		resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
		require.NoError(t, err)
		return resp.GetStatus()
	}

	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check("svc"))

	srv.UpdateHealth(ctx)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check("svc"))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, check(""))

	down.Store(true)
	srv.UpdateHealth(ctx)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check("svc"))
}
