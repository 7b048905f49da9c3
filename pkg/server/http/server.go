package http_server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/duccv/employee-api/config"
	"github.com/duccv/employee-api/pkg/metrics"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/timeout"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/duccv/employee-api/docs"
)

type Server struct {
	App    *gin.Engine
	server *http.Server
	notify chan error

	address         string
	timeout         time.Duration
	shutdownTimeout time.Duration
	middlewares     []gin.HandlerFunc
	routes          []func(r *gin.Engine)
	healthCheck     func(ctx context.Context) error
	recovery        gin.RecoveryFunc
	timeoutResponse gin.HandlerFunc
}

// New -.
func New(env *config.Env, opts ...Option) *Server {
	s := &Server{
		notify:          make(chan error, 1),
		address:         _defaultAddr,
		timeout:         _defaultTimeout,
		shutdownTimeout: _defaultShutdownTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.App = s.initGinServer(env)
	s.server = &http.Server{
		Addr:              s.address,
		Handler:           s.App,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

func defaultTimeoutResponse(c *gin.Context) {
	c.JSON(http.StatusRequestTimeout, gin.H{"error": "Request timeout"})
}

func (s *Server) timeoutMiddleware() gin.HandlerFunc {
	respond := s.timeoutResponse
	if respond == nil {
		respond = defaultTimeoutResponse
	}
	return timeout.New(
		timeout.WithTimeout(s.timeout),
		timeout.WithResponse(respond),
	)
}

func (s *Server) initGinServer(env *config.Env) *gin.Engine {
	pathPrefix := env.AppConfig.PathPrefix
	if pathPrefix == "" {
		pathPrefix = "/api"
	}
	switch {
	case gin.Mode() == gin.TestMode:
	case env.IsProduction():
		gin.SetMode(gin.ReleaseMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()
	if s.recovery != nil {
		r.Use(gin.CustomRecovery(s.recovery))
	} else {
		r.Use(gin.Recovery())
	}
	r.Use(s.middlewares...)

	if env.CORSConfig.Enabled {
		corsConfig := cors.Config{
			AllowOrigins:     env.CORSConfig.AllowedOrigins,
			AllowMethods:     env.CORSConfig.AllowedMethods,
			AllowHeaders:     env.CORSConfig.AllowedHeaders,
			ExposeHeaders:    env.CORSConfig.ExposedHeaders,
			AllowCredentials: env.CORSConfig.AllowCredentials,
			MaxAge:           time.Duration(env.CORSConfig.MaxAge) * time.Second,
		}

		r.Use(cors.New(corsConfig))
	}

	if env.MetricsConfig.Enabled {
		m := metrics.GetMonitor(env.MetricsConfig.Path)
		m.Use(r)
	}

	if s.timeout > 0 {
		r.Use(s.timeoutMiddleware())
	}

	r.GET("/health", s.health)

	// Swagger documentation
	r.GET(pathPrefix+"/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	for _, register := range s.routes {
		register(r)
	}
	return r
}

// HealthCheck godoc
//
//	@Summary		Health Check
//	@Description	Returns 200 when the service and its database are reachable
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	map[string]string
//	@Failure		503	{object}	map[string]string
//	@Router			/health [get]
func (s *Server) health(c *gin.Context) {
	if s.healthCheck != nil {
		if err := s.healthCheck(c.Request.Context()); err != nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.AbortWithStatusJSON(http.StatusOK, gin.H{"status": "ok"})
}

// Start -.
func (s *Server) Start() {
	go func() {
		zap.L().Info("HTTP server listening", zap.String("addr", s.address))
		err := s.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		s.notify <- err
		close(s.notify)
	}()
}

// Notify -.
func (s *Server) Notify() <-chan error {
	return s.notify
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()

	return s.server.Shutdown(ctx)
}
