package database

import (
	"context"
	"path/filepath"
	"testing"

	"epicure-backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSQLite(t *testing.T) {
	cfg := &config.Config{
		Environment: config.Production,
		DBDriver:    config.DriverSQLite,
		DatabaseDSN: filepath.Join(t.TempDir(), "epicure.db"),
	}

	s, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer s.Close(context.Background())

	assert.NoError(t, s.Ping(context.Background()))
}

func TestOpenUnknownDriver(t *testing.T) {
	s, err := Open(context.Background(), &config.Config{DBDriver: "cassandra"})
	assert.Error(t, err)
	assert.Nil(t, s)
}
