package server

import (
	"fmt"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// GRPCServer exposes the standard gRPC health service for orchestrators.
type GRPCServer struct {
	port    int
	server  *grpc.Server
	health  *health.Server
	service string
	logger  *zap.Logger
}

func NewGRPC(port int, service string, logger *zap.Logger) *GRPCServer {
	srv := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	return &GRPCServer{port: port, server: srv, health: hs, service: service, logger: logger}
}

// Start listens and serves until Shutdown. It reports SERVING for both the
// overall server and the named service.
func (s *GRPCServer) Start() error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}
	return s.Serve(lis)
}

func (s *GRPCServer) Serve(lis net.Listener) error {
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(s.service, healthpb.HealthCheckResponse_SERVING)

	s.logger.Info("starting grpc server", zap.String("addr", lis.Addr().String()))
	if err := s.server.Serve(lis); err != nil && err != grpc.ErrServerStopped {
		return fmt.Errorf("grpc server failed: %w", err)
	}
	return nil
}

func (s *GRPCServer) Shutdown() {
	s.logger.Info("shutting down grpc server")
	s.health.Shutdown()
	s.server.GracefulStop()
}
