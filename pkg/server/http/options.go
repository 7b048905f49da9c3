package http_server

import (
	"context"
	"net"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	_defaultAddr            = ":80"
	_defaultTimeout         = 5 * time.Second
	_defaultShutdownTimeout = 10 * time.Second
)

// Option -.
type Option func(*Server)

// Port -.
func Port(port string) Option {
	return func(s *Server) {
		s.address = net.JoinHostPort("", port)
	}
}

// Timeout bounds each request's handling time.
func Timeout(timeout time.Duration) Option {
	return func(s *Server) {
		s.timeout = timeout
	}
}

// ShutdownTimeout bounds how long Shutdown waits for in-flight requests.
func ShutdownTimeout(timeout time.Duration) Option {
	return func(s *Server) {
		s.shutdownTimeout = timeout
	}
}

// Middlewares are installed after recovery and before CORS, metrics and the
// timeout, in the given order.
func Middlewares(mw ...gin.HandlerFunc) Option {
	return func(s *Server) {
		s.middlewares = append(s.middlewares, mw...)
	}
}

// Routes registers application routes on the engine.
func Routes(register func(r *gin.Engine)) Option {
	return func(s *Server) {
		s.routes = append(s.routes, register)
	}
}

// HealthCheck backs GET /health. A non-nil error answers 503.
func HealthCheck(check func(ctx context.Context) error) Option {
	return func(s *Server) {
		s.healthCheck = check
	}
}

// Recovery replaces the default panic handler.
func Recovery(handle gin.RecoveryFunc) Option {
	return func(s *Server) {
		s.recovery = handle
	}
}

// TimeoutResponse writes the response for requests that exceed Timeout.
func TimeoutResponse(respond gin.HandlerFunc) Option {
	return func(s *Server) {
		s.timeoutResponse = respond
	}
}
