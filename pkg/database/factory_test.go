package database

import (
	"context"
	"testing"

	"github.com/duccv/employee-api/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SelectsImplementation(t *testing.T) {
	db, err := New(config.DatabaseConfig{Type: "mongodb"})
	require.NoError(t, err)
	assert.Equal(t, MongoDBNoSQL, db.GetType())
	assert.False(t, db.IsConnected())

	db, err = New(config.DatabaseConfig{Type: "postgres"})
	require.NoError(t, err)
	assert.Equal(t, PostgreSQL, db.GetType())

	_, err = New(config.DatabaseConfig{Type: "oracle"})
	assert.Error(t, err)
}

func TestOpen_Memory(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, config.DatabaseConfig{Type: "memory"})
	require.NoError(t, err)

	assert.True(t, db.IsConnected())
	assert.True(t, Healthy(ctx, db))

	require.NoError(t, db.Close(ctx))
	assert.False(t, Healthy(ctx, db))
}

func TestDriverHandles_RejectWrongType(t *testing.T) {
	mem := NewMemoryDB()

	_, err := MongoDatabase(mem)
	assert.Error(t, err)
	_, err = PostgresPool(mem)
	assert.Error(t, err)

	_, err = MongoDatabase(NewMongoDB(config.MongoConfig{}))
	assert.Error(t, err, "not connected")
	_, err = PostgresPool(NewPostgresDB(config.PostgresConfig{}))
	assert.Error(t, err, "not connected")
}

func TestUnconnectedPingFails(t *testing.T) {
	ctx := context.Background()
	assert.Error(t, NewMongoDB(config.MongoConfig{}).Ping(ctx))
	assert.Error(t, NewPostgresDB(config.PostgresConfig{}).Ping(ctx))
	assert.False(t, Healthy(ctx, NewPostgresDB(config.PostgresConfig{})))
}
