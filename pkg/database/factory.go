package database

import (
	"context"
	"fmt"

	"github.com/duccv/employee-api/config"
	"go.uber.org/zap"
)

type DatabaseType string

const (
	PostgreSQL   DatabaseType = "postgres"
	MongoDBNoSQL DatabaseType = "mongodb"
	InMemory     DatabaseType = "memory"
)

// Database is a connected backing store. Repositories reach the driver handle
// through MongoDatabase or PostgresPool.
type Database interface {
	Connect(ctx context.Context) error
	Close(ctx context.Context) error
	Ping(ctx context.Context) error
	GetType() DatabaseType
	IsConnected() bool
	HealthCheck(ctx context.Context) map[string]error
}

// New returns an unconnected Database for cfg.Type.
func New(cfg config.DatabaseConfig) (Database, error) {
	switch DatabaseType(cfg.Type) {
	case PostgreSQL:
		return NewPostgresDB(cfg.PostgresConfig), nil
	case MongoDBNoSQL:
		return NewMongoDB(cfg.MongoConfig), nil
	case InMemory:
		return NewMemoryDB(), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}

// Open builds and connects the database named by cfg.Type.
func Open(ctx context.Context, cfg config.DatabaseConfig) (Database, error) {
	db, err := New(cfg)
	if err != nil {
		return nil, err
	}
	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Type, err)
	}
	return db, nil
}

// Healthy reports whether every check in db.HealthCheck passed.
func Healthy(ctx context.Context, db Database) bool {
	for name, err := range db.HealthCheck(ctx) {
		if err != nil {
			zap.L().Warn("Database health check failed",
				zap.String("database", string(db.GetType())),
				zap.String("check", name),
				zap.Error(err))
			return false
		}
	}
	return true
}

// MemoryDB stands in for a real database when stores live in process memory.
type MemoryDB struct {
	connected bool
}

func NewMemoryDB() *MemoryDB {
	return &MemoryDB{}
}

func (m *MemoryDB) Connect(context.Context) error {
	m.connected = true
	zap.L().Warn("Using in-memory storage, data is lost on restart")
	return nil
}

func (m *MemoryDB) Close(context.Context) error {
	m.connected = false
	return nil
}

func (m *MemoryDB) Ping(context.Context) error {
	if !m.connected {
		return fmt.Errorf("memory database not connected")
	}
	return nil
}

func (m *MemoryDB) GetType() DatabaseType { return InMemory }

func (m *MemoryDB) IsConnected() bool { return m.connected }

func (m *MemoryDB) HealthCheck(ctx context.Context) map[string]error {
	return map[string]error{"memory": m.Ping(ctx)}
}
