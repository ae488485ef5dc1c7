package grpc

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

type flakyPinger struct {
	down atomic.Bool
}

func (p *flakyPinger) PingContext(context.Context) error {
	if p.down.Load() {
		return errors.New("connection refused")
	}
	return nil
}

func startHealthServer(t *testing.T) (*HealthServer, grpc_health_v1.HealthClient) {
	t.Helper()

	srv, err := NewHealthServer("127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("health server did not stop")
		}
	})

	conn, err := grpc.NewClient(srv.Addr(), grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return srv, grpc_health_v1.NewHealthClient(conn)
}

func checkStatus(client grpc_health_v1.HealthClient, service string) grpc_health_v1.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	resp, err := client.Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: service})
	if err != nil {
		return grpc_health_v1.HealthCheckResponse_UNKNOWN
	}
	return resp.GetStatus()
}

func TestHealthServer_ServingByDefault(t *testing.T) {
	_, client := startHealthServer(t)

	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, checkStatus(client, ""))
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, checkStatus(client, ServiceName))
}

func TestHealthServer_WatchTracksDatabase(t *testing.T) {
	srv, client := startHealthServer(t)
	db := &flakyPinger{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Watch(ctx, db, 20*time.Millisecond)

	db.down.Store(true)
	assert.Eventually(t, func() bool {
		return checkStatus(client, "") == grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}, 2*time.Second, 20*time.Millisecond)

	db.down.Store(false)
	assert.Eventually(t, func() bool {
		return checkStatus(client, ServiceName) == grpc_health_v1.HealthCheckResponse_SERVING
	}, 2*time.Second, 20*time.Millisecond)
}
