package server

import (
	"context"
	"errors"
	"net"
	"sync"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	pb "github.com/zhukov-alex/idgen/proto/idgenpb"
)

type GRPCServer struct {
	cfg    *GRPCConfig
	logger *zap.Logger
	server *grpc.Server
	health *health.Server

	stopOnce sync.Once
	stopped  chan struct{}
}

func NewGRPCServer(logger *zap.Logger, cfg *GRPCConfig, svc pb.IdGenServer, unary ...grpc.UnaryServerInterceptor) *GRPCServer {
	server := grpc.NewServer(
		grpc.ConnectionTimeout(cfg.ConnectionTimeout),
		grpc.ChainUnaryInterceptor(unary...),
	)
	pb.RegisterIdGenServer(server, svc)

	s := &GRPCServer{
		cfg:     cfg,
		logger:  logger,
		server:  server,
		stopped: make(chan struct{}),
	}

	if cfg.EnableHealth {
		s.health = health.NewServer()
		s.health.SetServingStatus(pb.ServiceName, healthpb.HealthCheckResponse_SERVING)
		healthpb.RegisterHealthServer(server, s.health)
	}
	return s
}

// Serve listens on BindAddr and blocks until ctx is cancelled or the server
// fails.
func (s *GRPCServer) Serve(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.cfg.BindAddr)
	if err != nil {
		return err
	}
	return s.ServeListener(ctx, lis)
}

func (s *GRPCServer) ServeListener(ctx context.Context, lis net.Listener) error {
	s.logger.Info("gRPC server started", zap.String("addr", lis.Addr().String()))

	go func() {
		<-ctx.Done()
		_ = s.Close(context.Background())
	}()

	err := s.server.Serve(lis)
	if errors.Is(err, grpc.ErrServerStopped) {
		return nil
	}
	return err
}

// Close drains in-flight calls. If ctx expires first the server is stopped
// forcibly. Safe to call more than once.
func (s *GRPCServer) Close(ctx context.Context) error {
	s.stopOnce.Do(func() {
		if s.health != nil {
			s.health.Shutdown()
		}
		go func() {
			s.server.GracefulStop()
			s.logger.Info("gRPC server stopped")
			close(s.stopped)
		}()
	})

	select {
	case <-s.stopped:
		return nil
	case <-ctx.Done():
		s.logger.Warn("gRPC graceful stop timeout, forcing", zap.Error(ctx.Err()))
		s.server.Stop()
		return ctx.Err()
	}
}
