package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanhoa/autotrade/backtest"
)

func TestDefaultValidates(t *testing.T) {
	t.Parallel()
	assert.NoError(t, Default().Validate())
}

func TestLoadFromFileYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
instrument: XAUUSD
data:
  bars: ./bars.csv.xz
levels:
  min_sl: 3
  min_tp: 5
  lot_standard: 0.1
engine:
  trailing_rules:
    - threshold: 2
      sl_adjustment: 0.5
      tp_adjustment: 1
  contract_multiplier: 100
  init_capital: 50000
  daily_target: 4
  daily_metric: price_diff
sizing:
  mode: capital
  source: sqlite
  path: ./sizing.db
  table: tiers
journal:
  ledger_file: ./ledger.csv
  db_path: ./runs.db
`), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "XAUUSD", cfg.Instrument)
	assert.Equal(t, "./bars.csv.xz", cfg.Data.Bars)
	assert.InDelta(t, 0.1, cfg.Levels.LotStandard, 1e-9)
	require.Len(t, cfg.Engine.TrailingRules, 1)
	assert.InDelta(t, 0.5, cfg.Engine.TrailingRules[0].SLAdjustment, 1e-9)
	assert.Equal(t, "capital", cfg.Sizing.Mode)
	assert.Equal(t, "tiers", cfg.Sizing.Table)
	assert.Equal(t, backtest.DailyPriceDiff, cfg.DailyMetric())
	assert.Equal(t, "capital+daily", cfg.Mode())
}

func TestLoadFromFileJSON(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "run.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
  "instrument": "XAUUSD",
  "data": {"bars": "./bars.csv"},
  "levels": {"min_sl": 3, "min_tp": 5, "lot_standard": 1},
  "engine": {"daily_metric": "pnl"},
  "sizing": {"mode": "fixed", "fixed_lot": 1}
}`), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, backtest.DailyPnL, cfg.DailyMetric())
	assert.Equal(t, "fixed", cfg.Mode())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"run.yaml", "run.json"} {
		path := filepath.Join(t.TempDir(), name)
		want := Default()
		require.NoError(t, want.SaveToFile(path))

		got, err := LoadFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, want, got, name)
	}
}

func TestValidateErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing_bars", func(c *Config) { c.Data.Bars = "" }},
		{"zero_lot_standard", func(c *Config) { c.Levels.LotStandard = 0 }},
		{"negative_min_sl", func(c *Config) { c.Levels.MinSL = -1 }},
		{"zero_min_tp", func(c *Config) { c.Levels.MinTP = 0 }},
		{"negative_multiplier", func(c *Config) { c.Engine.ContractMultiplier = -1 }},
		{"negative_daily_target", func(c *Config) { c.Engine.DailyTarget = -1 }},
		{"bad_daily_metric", func(c *Config) { c.Engine.DailyMetric = "points" }},
		{"zero_rule_threshold", func(c *Config) { c.Engine.TrailingRules[0].Threshold = 0 }},
		{"bad_sizing_mode", func(c *Config) { c.Sizing.Mode = "martingale" }},
		{"capital_mode_needs_source", func(c *Config) { c.Sizing.Mode = "capital"; c.Engine.InitCapital = 1000 }},
		{"csv_needs_path", func(c *Config) {
			c.Sizing.Mode = "level"
			c.Sizing.Source = "csv"
			c.Sizing.Path = ""
		}},
		{"sqlite_needs_table", func(c *Config) {
			c.Sizing.Mode = "level"
			c.Sizing.Source = "sqlite"
			c.Sizing.Path = "./sizing.db"
			c.Sizing.Table = ""
		}},
		{"capital_mode_needs_init_capital", func(c *Config) {
			c.Sizing.Mode = "capital"
			c.Sizing.Source = "csv"
			c.Sizing.Path = "./tiers.csv"
			c.Engine.InitCapital = 0
		}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadFromFileErrors(t *testing.T) {
	t.Parallel()

	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("{not: [valid"), 0o644))
	_, err = LoadFromFile(bad)
	assert.Error(t, err)
}
