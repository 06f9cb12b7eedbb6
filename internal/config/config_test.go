package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	// An explicit but missing path is an error; defaults only apply when no
	// path was forced.
	assert.Error(t, err)

	cfg, err = Load("")
	require.NoError(t, err)

	assert.Equal(t, "etfquant", cfg.App.Name)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, "console", cfg.App.LogFormat)
	assert.Equal(t, 100000.0, cfg.Backtest.InitialCapital)
	assert.Equal(t, "total_return", cfg.Search.Metric)
	assert.Equal(t, 30, cfg.Search.TopK)
	assert.Equal(t, 3000, cfg.Search.Iterations)
	assert.Equal(t, int64(42), cfg.Data.VolumeSeed)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  log_level: debug
  log_format: json
backtest:
  initial_capital: 50000
search:
  metric: risk_adjusted
  iterations: 500
data:
  price_path: /tmp/prices.json
  series_key: rsi
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, "json", cfg.App.LogFormat)
	assert.Equal(t, 50000.0, cfg.Backtest.InitialCapital)
	assert.Equal(t, "risk_adjusted", cfg.Search.Metric)
	assert.Equal(t, 500, cfg.Search.Iterations)
	assert.Equal(t, "/tmp/prices.json", cfg.Data.PricePath)
	assert.Equal(t, "rsi", cfg.Data.SeriesKey)
}

func TestValidateRejectsBadValues(t *testing.T) {
	base := func() *Config {
		return &Config{
			App:      AppConfig{LogFormat: "console"},
			Data:     DataConfig{VolumeBase: 1e6},
			Backtest: BacktestConfig{InitialCapital: 1000},
		}
	}

	cfg := base()
	cfg.Backtest.InitialCapital = 0
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Search.TopK = -1
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Search.Iterations = -1
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Data.VolumeBase = 0
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.App.LogFormat = "xml"
	assert.Error(t, cfg.Validate())

	assert.NoError(t, base().Validate())
}
