// Package app wires configuration, storage, services and servers together.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/duccv/employee-api/config"
	"github.com/duccv/employee-api/internal/auth"
	"github.com/duccv/employee-api/internal/handler"
	"github.com/duccv/employee-api/internal/middleware"
	"github.com/duccv/employee-api/internal/repository"
	"github.com/duccv/employee-api/internal/router"
	"github.com/duccv/employee-api/internal/service"
	"github.com/duccv/employee-api/pkg/cache"
	"github.com/duccv/employee-api/pkg/database"
	"github.com/duccv/employee-api/pkg/logger"
	grpc_server "github.com/duccv/employee-api/pkg/server/grpc"
	http_server "github.com/duccv/employee-api/pkg/server/http"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const healthInterval = 15 * time.Second

type App struct {
	env   *config.Env
	db    database.Database
	redis *redis.Client
	cache *cache.ReadThrough

	HTTP *http_server.Server
	GRPC *grpc_server.Server
}

// New connects to the configured stores and builds the servers. Nothing is
// listening until Start.
func New(ctx context.Context, env *config.Env) (*App, error) {
	a := &App{env: env}

	db, err := database.Open(ctx, env.DatabaseConfig)
	if err != nil {
		return nil, err
	}
	a.db = db

	repos, err := a.repositories(ctx)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}

	if env.CacheConfig.Enabled {
		if repos.Employees, err = a.cached(ctx, repos.Employees); err != nil {
			a.Close(ctx)
			return nil, err
		}
	}

	tokens, err := auth.NewTokenService(
		[]byte(env.AuthConfig.JWTSecret),
		env.AuthConfig.TokenTTL,
		auth.WithIssuer(env.AuthConfig.Issuer),
	)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}
	hasher := auth.NewPasswordHasher(env.AuthConfig.HashCost)

	handlers := router.Handlers{
		Auth:      handler.NewAuthHandler(service.NewAuthService(repos.Users, hasher, tokens)),
		Employees: handler.NewEmployeeHandler(service.NewEmployeeService(repos.Employees)),
	}
	adapter := handler.NewAdapter(env.AppConfig.ExposeInternalErrors)
	gate := middleware.NewJWTAuthMiddleware(tokens).Authenticate()
	logging := middleware.NewLoggingMiddleware(middleware.DefaultMiddlewareConfig())

	a.HTTP = http_server.New(env,
		http_server.Port(strconv.Itoa(env.AppConfig.Port)),
		http_server.Timeout(env.AppConfig.RequestTimeout),
		http_server.ShutdownTimeout(env.AppConfig.ShutdownTimeout),
		http_server.Recovery(middleware.Recovery),
		http_server.TimeoutResponse(middleware.TimeoutResponse),
		http_server.Middlewares(
			middleware.CorrelationIDMiddleware(),
			logging.RequestLogger(),
			logging.ErrorLogger(),
		),
		http_server.HealthCheck(a.healthCheck),
		http_server.Routes(func(r *gin.Engine) {
			router.Register(r, env.AppConfig.PathPrefix, handlers, gate, adapter)
		}),
	)

	if env.GRPCConfig.Enabled {
		a.GRPC = grpc_server.New(
			grpc_server.Port(strconv.Itoa(env.GRPCConfig.Port)),
			grpc_server.ServiceName(env.AppConfig.Name),
		)
	}

	return a, nil
}

func (a *App) repositories(ctx context.Context) (repository.Repositories, error) {
	switch a.db.GetType() {
	case database.MongoDBNoSQL:
		mdb, err := database.MongoDatabase(a.db)
		if err != nil {
			return repository.Repositories{}, err
		}
		return repository.NewMongoRepositories(ctx, mdb)
	case database.PostgreSQL:
		pool, err := database.PostgresPool(a.db)
		if err != nil {
			return repository.Repositories{}, err
		}
		return repository.NewPostgresRepositories(ctx, pool)
	case database.InMemory:
		return repository.NewMemoryRepositories(), nil
	default:
		return repository.Repositories{}, fmt.Errorf("no repositories for database type %s", a.db.GetType())
	}
}

// cached puts a read-through cache in front of employee lookups by id.
func (a *App) cached(ctx context.Context, next repository.EmployeeRepository) (repository.EmployeeRepository, error) {
	var client redis.UniversalClient
	if a.env.CacheConfig.Type == "redis" {
		rc, err := cache.NewRedisClient(ctx, a.env.RedisConfig)
		if err != nil {
			return nil, err
		}
		a.redis = rc
		client = rc
	}

	c, err := cache.NewCache(a.env.CacheConfig, client, a.env.RedisConfig.KeyPrefix)
	if err != nil {
		return nil, err
	}
	a.cache = cache.NewReadThrough(c, a.env.AppConfig.RequestTimeout)

	zap.L().Info("Employee cache enabled",
		zap.String("type", a.env.CacheConfig.Type),
		zap.Int("capacity", a.env.CacheConfig.Capacity))
	return repository.NewCachedEmployeeRepository(next, a.cache), nil
}

func (a *App) healthCheck(ctx context.Context) error {
	if !database.Healthy(ctx, a.db) {
		return errors.New("database unavailable")
	}
	return nil
}

// Handler is the HTTP handler with every route and middleware installed.
func (a *App) Handler() http.Handler {
	return a.HTTP.App
}

// Start begins serving HTTP and, when enabled, gRPC health.
func (a *App) Start(ctx context.Context) error {
	a.HTTP.Start()
	if a.GRPC == nil {
		return nil
	}
	if err := a.GRPC.Start(); err != nil {
		return fmt.Errorf("start grpc server: %w", err)
	}
	go a.reportHealth(ctx)
	return nil
}

// reportHealth mirrors database health into the gRPC health service.
func (a *App) reportHealth(ctx context.Context) {
	ticker := time.NewTicker(healthInterval)
	defer ticker.Stop()

	for {
		a.GRPC.SetServing(a.healthCheck(ctx) == nil)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (a *App) grpcNotify() <-chan error {
	if a.GRPC == nil {
		return nil
	}
	return a.GRPC.Notify()
}

// Shutdown drains the servers, then releases the stores.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if a.GRPC != nil {
		a.GRPC.Shutdown()
	}
	if a.HTTP != nil {
		if err := a.HTTP.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
	}
	a.Close(ctx)
	return errors.Join(errs...)
}

// Close releases the cache, redis and database connections.
func (a *App) Close(ctx context.Context) {
	if a.cache != nil {
		a.cache.Stop()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			zap.L().Warn("Failed to close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(ctx); err != nil {
			zap.L().Warn("Failed to close database", zap.Error(err))
		}
	}
}

// Run loads configuration from configPath, serves until SIGINT or SIGTERM and
// shuts down gracefully.
func Run(configPath string) error {
	env, err := config.Load(configPath)
	if err != nil {
		return err
	}
	env.PrintStartup(os.Stdout)

	zapLogger := logger.New(env.LoggerConfig)
	zap.ReplaceGlobals(zapLogger)
	defer func() { _ = zapLogger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := New(ctx, env)
	if err != nil {
		zap.L().Error("Failed to start", zap.Error(err))
		return err
	}
	if err := a.Start(ctx); err != nil {
		_ = a.Shutdown(context.Background())
		return err
	}

	var serveErr error
	select {
	case <-ctx.Done():
		zap.L().Info("Shutdown signal received")
	case serveErr = <-a.HTTP.Notify():
		zap.L().Error("HTTP server stopped", zap.Error(serveErr))
	case serveErr = <-a.grpcNotify():
		zap.L().Error("gRPC server stopped", zap.Error(serveErr))
	}

	if err := a.Shutdown(context.Background()); err != nil {
		zap.L().Error("Shutdown failed", zap.Error(err))
		return errors.Join(serveErr, err)
	}
	zap.L().Info("Server stopped")
	return serveErr
}
