package grpc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"assetdesk-backend/internal/logger"
)

// ServiceName is the health service name reported alongside the overall status
const ServiceName = "assetdesk.v1.AssetDesk"

// Pinger reports whether a backing store is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthServer exposes the standard gRPC health service for orchestrators.
type HealthServer struct {
	listener   net.Listener
	grpcServer *grpc.Server
	health     *health.Server
}

func NewHealthServer(addr string) (*HealthServer, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	// Register reflection service for grpcurl
	reflection.Register(grpcServer)

	return &HealthServer{
		listener:   lis,
		grpcServer: grpcServer,
		health:     healthServer,
	}, nil
}

func (s *HealthServer) Addr() string {
	return s.listener.Addr().String()
}

// SetServing flips both the overall and the named service status
func (s *HealthServer) SetServing(serving bool) {
	status := grpc_health_v1.HealthCheckResponse_NOT_SERVING
	if serving {
		status = grpc_health_v1.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

// Watch pings db every interval and reports NOT_SERVING while it fails.
// It returns when ctx ends.
func (s *HealthServer) Watch(ctx context.Context, db Pinger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	serving := true
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		pingCtx, cancel := context.WithTimeout(ctx, interval)
		err := db.PingContext(pingCtx)
		cancel()

		if ok := err == nil; ok != serving {
			serving = ok
			s.SetServing(ok)
			if ok {
				logger.Info("Database reachable again, health SERVING")
			} else {
				logger.Warn("Database unreachable, health NOT_SERVING", "error", err)
			}
		}
	}
}

// Serve runs the gRPC server until ctx is cancelled
func (s *HealthServer) Serve(ctx context.Context) error {
	logger.Info("gRPC health server listening", "address", s.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.grpcServer.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		s.health.Shutdown()
		s.grpcServer.GracefulStop()
		err := <-serveErr
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC health: %w", err)
	case err := <-serveErr:
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve gRPC health: %w", err)
	}
}
