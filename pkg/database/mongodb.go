package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/duccv/employee-api/config"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"
)

// MongoDB implements Database for the MongoDB Go driver v2.
type MongoDB struct {
	config config.MongoConfig
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

func NewMongoDB(cfg config.MongoConfig) *MongoDB {
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 30
	}
	return &MongoDB{
		config: cfg,
		logger: zap.L(),
	}
}

func (m *MongoDB) Connect(ctx context.Context) error {
	m.logger.Info("Starting MongoDB connection",
		zap.String("database", m.config.Database),
		zap.Int("connect_timeout_seconds", m.config.ConnectTimeout))

	ctx, cancel := context.WithTimeout(ctx, time.Duration(m.config.ConnectTimeout)*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(m.config.URI)
	m.configureClientOptions(clientOptions)

	client, err := mongo.Connect(clientOptions)
	if err != nil {
		m.logger.Error("Failed to connect to MongoDB", zap.Error(err))
		return fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		m.logger.Error("Failed to ping MongoDB", zap.Error(err))
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return fmt.Errorf("mongo ping: %w", err)
	}

	m.client = client
	m.db = client.Database(m.config.Database)

	m.logger.Info("Successfully connected to MongoDB", zap.String("database", m.config.Database))
	return nil
}

func (m *MongoDB) configureClientOptions(opts *options.ClientOptions) {
	m.logger.Debug("Configuring MongoDB client options",
		zap.Uint64("max_pool_size", m.config.MaxPoolSize),
		zap.Uint64("min_pool_size", m.config.MinPoolSize),
		zap.Int("max_conn_idle_time_seconds", m.config.MaxConnIdleTime))

	if m.config.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(m.config.MaxPoolSize)
	}
	if m.config.MinPoolSize > 0 {
		opts.SetMinPoolSize(m.config.MinPoolSize)
	}
	if m.config.MaxConnIdleTime > 0 {
		opts.SetMaxConnIdleTime(time.Duration(m.config.MaxConnIdleTime) * time.Second)
	}

	opts.SetRetryReads(true)
	opts.SetRetryWrites(true)
	opts.SetReadPreference(readpref.Primary())

	opts.SetConnectTimeout(time.Duration(m.config.ConnectTimeout) * time.Second)
	opts.SetServerSelectionTimeout(5 * time.Second)
}

func (m *MongoDB) Close(ctx context.Context) error {
	if m.client == nil {
		return nil
	}
	m.logger.Info("Closing MongoDB connection")

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := m.client.Disconnect(ctx); err != nil {
		m.logger.Error("MongoDB disconnect error", zap.Error(err))
		return fmt.Errorf("mongo disconnect: %w", err)
	}
	m.client = nil
	m.db = nil
	m.logger.Info("MongoDB connection closed successfully")
	return nil
}

func (m *MongoDB) Ping(ctx context.Context) error {
	if m.client == nil {
		return errors.New("mongo client not initialized")
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := m.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo ping failed: %w", err)
	}
	return nil
}

func (m *MongoDB) GetType() DatabaseType {
	return MongoDBNoSQL
}

func (m *MongoDB) IsConnected() bool {
	return m.client != nil
}

func (m *MongoDB) HealthCheck(ctx context.Context) map[string]error {
	return map[string]error{"client": m.Ping(ctx)}
}

// MongoDatabase returns the *mongo.Database behind db.
func MongoDatabase(db Database) (*mongo.Database, error) {
	m, ok := db.(*MongoDB)
	if !ok {
		return nil, fmt.Errorf("database is not MongoDB: %s", db.GetType())
	}
	if m.db == nil {
		return nil, errors.New("mongo database not connected")
	}
	return m.db, nil
}
