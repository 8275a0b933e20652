package di

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockETL/pkg/config"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("WAREHOUSE_DRIVER", config.DriverSQLite)
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "etl.db"))
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := config.LoadWithEnv(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	return cfg
}

func TestProvideRunIDIsUnique(t *testing.T) {
	assert.NotEqual(t, ProvideRunID(), ProvideRunID())
}

func TestProvideOpenerUnknownDriver(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.Warehouse.Driver = "postgres"
	_, err := ProvideOpener(cfg)
	assert.Error(t, err)
}

func TestProvideOpenerSQLite(t *testing.T) {
	cfg := sqliteConfig(t)
	open, err := ProvideOpener(cfg)
	require.NoError(t, err)

	db, err := open(context.Background())
	require.NoError(t, err)
	assert.NoError(t, db.Close())
}

func TestProvideWarehouseUsesDriverDialect(t *testing.T) {
	cfg := sqliteConfig(t)
	open, err := ProvideOpener(cfg)
	require.NoError(t, err)
	l, err := ProvideLogger(cfg, "test-run")
	require.NoError(t, err)

	wh, err := ProvideWarehouse(cfg, open, l)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", wh.Driver())
}

func TestProvidePipelineCarriesConfig(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.ETL.Ticker = "MSFT"
	cfg.ETL.PreviewRows = 3

	p := ProvidePipeline(cfg, "run-1", nil, nil, nil, nil, nil)
	assert.Equal(t, "run-1", p.RunID)
	assert.Equal(t, "MSFT", p.Ticker)
	assert.Equal(t, 3, p.PreviewRows)
}

func TestInitializeApp(t *testing.T) {
	app, err := InitializeApp(sqliteConfig(t))
	require.NoError(t, err)
	assert.NotNil(t, app)
}
