package grpc_server

import (
	"context"
	"net"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const _defaultAddr = ":5001"

// Server exposes the standard grpc.health.v1 service so orchestrators can
// probe the API without going through HTTP.
type Server struct {
	srv         *grpc.Server
	health      *health.Server
	listener    net.Listener
	notify      chan error
	address     string
	serviceName string
}

// New -.
func New(opts ...Option) *Server {
	s := &Server{
		notify:  make(chan error, 1),
		address: _defaultAddr,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.srv = grpc.NewServer(grpc.ChainUnaryInterceptor(loggingInterceptor))
	s.health = health.NewServer()
	healthpb.RegisterHealthServer(s.srv, s.health)
	s.SetServing(false)

	return s
}

// SetServing flips the reported status for the overall server and the
// configured service name.
func (s *Server) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	if s.serviceName != "" {
		s.health.SetServingStatus(s.serviceName, status)
	}
}

// Start opens the listener and serves in the background.
func (s *Server) Start() error {
	if s.listener == nil {
		l, err := net.Listen("tcp", s.address)
		if err != nil {
			return err
		}
		s.listener = l
	}

	go func() {
		zap.L().Info("gRPC health server listening", zap.String("addr", s.listener.Addr().String()))
		s.notify <- s.srv.Serve(s.listener)
		close(s.notify)
	}()
	return nil
}

// Notify -.
func (s *Server) Notify() <-chan error {
	return s.notify
}

// Shutdown marks every service NOT_SERVING and drains open streams.
func (s *Server) Shutdown() {
	s.health.Shutdown()
	s.srv.GracefulStop()
}

func loggingInterceptor(
	ctx context.Context,
	req any,
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	zap.L().Debug("gRPC call",
		zap.String("method", info.FullMethod),
		zap.Duration("duration", time.Since(start)),
		zap.Error(err),
	)
	return resp, err
}
