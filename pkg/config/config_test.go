package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mrp-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.App.Storage)
	assert.Equal(t, 64, cfg.MRP.MaxBOMDepth)
	assert.Equal(t, 8*24*60, cfg.JWT.Expiration)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_DesdeEntorno(t *testing.T) {
	t.Setenv("APP_STORAGE", "memory")
	t.Setenv("MRP_MAX_BOM_DEPTH", "10")
	t.Setenv("MRP_LOCK_WAIT_SECONDS", "3")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.App.Storage)
	assert.Equal(t, 10, cfg.MRP.MaxBOMDepth)
	assert.Equal(t, 3*time.Second, cfg.MRP.LockWait)
	assert.True(t, cfg.Redis.Enabled())
}

func TestLoad_StorageInvalido(t *testing.T) {
	t.Setenv("APP_STORAGE", "mongo")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "mrp", Password: "p@ss/word", DBName: "mrp", SSLMode: "disable"}

	assert.Equal(t, "postgres://mrp:p%40ss%2Fword@db:5432/mrp?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}

func TestLoad_PoolEIPv4(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.False(t, cfg.DB.ForceIPv4)
	assert.EqualValues(t, 25, cfg.DB.MaxConns)

	t.Setenv("DB_FORCE_IPV4", "true")
	t.Setenv("DB_MAX_CONNS", "8")
	cfg, err = config.Load()
	require.NoError(t, err)
	assert.True(t, cfg.DB.ForceIPv4)
	assert.EqualValues(t, 8, cfg.DB.MaxConns)
}
