package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/duccv/employee-api/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type PostgresDB struct {
	config config.PostgresConfig
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgresDB(cfg config.PostgresConfig) *PostgresDB {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 30
	}
	return &PostgresDB{
		config: cfg,
		logger: zap.L(),
	}
}

func (p *PostgresDB) Connect(ctx context.Context) error {
	p.logger.Info("Starting PostgreSQL connection",
		zap.Int("connect_timeout_seconds", p.config.ConnectTimeout))

	ctx, cancel := context.WithTimeout(ctx, time.Duration(p.config.ConnectTimeout)*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(p.config.ConnectionString)
	if err != nil {
		// the connection string may hold a password; keep it out of the log
		p.logger.Error("Failed to parse pool config")
		return errors.New("failed to parse postgres connection string")
	}
	p.configurePool(poolConfig)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		p.logger.Error("Failed to create pool", zap.Error(err))
		return fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		p.logger.Error("Failed to ping pool", zap.Error(err))
		pool.Close()
		return fmt.Errorf("failed to ping pool: %w", err)
	}

	p.pool = pool
	p.logger.Info("Successfully connected to PostgreSQL",
		zap.String("host", poolConfig.ConnConfig.Host),
		zap.Uint16("port", poolConfig.ConnConfig.Port),
		zap.String("database", poolConfig.ConnConfig.Database))
	return nil
}

func (p *PostgresDB) Ping(ctx context.Context) error {
	if p.pool == nil {
		return errors.New("postgres pool not initialized")
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := p.pool.Ping(ctx); err != nil {
		return fmt.Errorf("pool ping failed: %w", err)
	}
	return nil
}

func (p *PostgresDB) IsConnected() bool {
	return p.pool != nil
}

func (p *PostgresDB) HealthCheck(ctx context.Context) map[string]error {
	return map[string]error{"pool": p.Ping(ctx)}
}

func (p *PostgresDB) GetType() DatabaseType {
	return PostgreSQL
}

func (p *PostgresDB) Close(context.Context) error {
	if p.pool == nil {
		return nil
	}
	p.logger.Info("Closing PostgreSQL pool")
	p.pool.Close()
	p.pool = nil
	p.logger.Info("PostgreSQL pool closed successfully")
	return nil
}

func (p *PostgresDB) configurePool(cfg *pgxpool.Config) {
	p.logger.Debug("Configuring connection pool",
		zap.Int32("max_conns", p.config.MaxConns),
		zap.Int32("min_conns", p.config.MinConns),
		zap.Int("conn_max_idle_time_minutes", p.config.ConnMaxIdleTime),
		zap.Int("conn_max_lifetime_hours", p.config.ConnMaxLifetime),
		zap.Int("health_check_period_minutes", p.config.HealthCheckPeriod))

	if p.config.MaxConns != 0 {
		cfg.MaxConns = p.config.MaxConns
	}
	if p.config.MinConns != 0 {
		cfg.MinConns = p.config.MinConns
	}
	if p.config.ConnMaxIdleTime != 0 {
		cfg.MaxConnIdleTime = time.Duration(p.config.ConnMaxIdleTime) * time.Minute
	}
	if p.config.ConnMaxLifetime != 0 {
		cfg.MaxConnLifetime = time.Duration(p.config.ConnMaxLifetime) * time.Hour
	}
	if p.config.HealthCheckPeriod != 0 {
		cfg.HealthCheckPeriod = time.Duration(p.config.HealthCheckPeriod) * time.Minute
	}
}

// PostgresPool returns the *pgxpool.Pool behind db.
func PostgresPool(db Database) (*pgxpool.Pool, error) {
	p, ok := db.(*PostgresDB)
	if !ok {
		return nil, fmt.Errorf("database is not PostgreSQL: %s", db.GetType())
	}
	if p.pool == nil {
		return nil, errors.New("postgres pool not connected")
	}
	return p.pool, nil
}
