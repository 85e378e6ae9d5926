// Package config holds the run configuration for the backtest CLI.
// One Config value per run; the engine and sizing tables are built from
// it explicitly, there is no process-wide mutable state.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tanhoa/autotrade/backtest"
)

// Config represents the complete run configuration.
type Config struct {
	Instrument string        `json:"instrument" yaml:"instrument"`
	Data       DataConfig    `json:"data" yaml:"data"`
	Levels     LevelsConfig  `json:"levels" yaml:"levels"`
	Engine     EngineConfig  `json:"engine" yaml:"engine"`
	Sizing     SizingConfig  `json:"sizing" yaml:"sizing"`
	Journal    JournalConfig `json:"journal" yaml:"journal"`
}

// DataConfig locates the input bar series.
type DataConfig struct {
	// Bars is the path to the signal-annotated bar CSV (optionally
	// .xz compressed).
	Bars string `json:"bars" yaml:"bars"`
}

// LevelsConfig contains the SL/TP preprocessor parameters.
type LevelsConfig struct {
	MinSL         float64 `json:"min_sl" yaml:"min_sl"`
	MinTP         float64 `json:"min_tp" yaml:"min_tp"`
	LotStandard   float64 `json:"lot_standard" yaml:"lot_standard"`
	UseEntryPrice bool    `json:"use_entry_price" yaml:"use_entry_price"`
}

// EngineConfig contains the simulation parameters.
type EngineConfig struct {
	TrailingRules      []backtest.TrailingRule `json:"trailing_rules" yaml:"trailing_rules"`
	ContractMultiplier float64                 `json:"contract_multiplier" yaml:"contract_multiplier"`
	InitCapital        float64                 `json:"init_capital" yaml:"init_capital"`
	DailyTarget        float64                 `json:"daily_target" yaml:"daily_target"`
	DailyMetric        string                  `json:"daily_metric,omitempty" yaml:"daily_metric,omitempty"` // "price_diff" or "pnl"
	Optimize           bool                    `json:"optimize" yaml:"optimize"`
}

// SizingConfig selects the position-sizing provider.
type SizingConfig struct {
	// Mode is "fixed", "capital" or "level".
	Mode string `json:"mode" yaml:"mode"`

	// Source is "csv" or "sqlite" for table-backed modes.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
	Path   string `json:"path,omitempty" yaml:"path,omitempty"`
	Table  string `json:"table,omitempty" yaml:"table,omitempty"` // sqlite table name

	FixedLot float64 `json:"fixed_lot,omitempty" yaml:"fixed_lot,omitempty"`
}

// JournalConfig contains the output destinations.
type JournalConfig struct {
	LedgerFile string `json:"ledger_file,omitempty" yaml:"ledger_file,omitempty"` // CSV export, empty disables
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`         // SQLite run store, empty disables
}

// LoadFromFile loads configuration from a file (YAML or JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile saves configuration to a file (format by extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Data.Bars == "" {
		return fmt.Errorf("data.bars is required")
	}
	if c.Levels.LotStandard == 0 {
		return fmt.Errorf("levels.lot_standard must be non-zero")
	}
	if c.Levels.MinSL <= 0 {
		return fmt.Errorf("levels.min_sl must be positive")
	}
	if c.Levels.MinTP <= 0 {
		return fmt.Errorf("levels.min_tp must be positive")
	}
	if c.Engine.ContractMultiplier < 0 {
		return fmt.Errorf("engine.contract_multiplier must not be negative")
	}
	if c.Engine.DailyTarget < 0 {
		return fmt.Errorf("engine.daily_target must not be negative")
	}
	switch c.Engine.DailyMetric {
	case "", "price_diff", "pnl":
	default:
		return fmt.Errorf("engine.daily_metric must be 'price_diff' or 'pnl'")
	}
	for i, r := range c.Engine.TrailingRules {
		if r.Threshold <= 0 {
			return fmt.Errorf("engine.trailing_rules[%d].threshold must be positive", i)
		}
	}

	switch c.Sizing.Mode {
	case "", "fixed":
		if c.Sizing.FixedLot < 0 {
			return fmt.Errorf("sizing.fixed_lot must not be negative")
		}
	case "capital", "level":
		switch c.Sizing.Source {
		case "csv":
			if c.Sizing.Path == "" {
				return fmt.Errorf("sizing.path required for CSV tables")
			}
		case "sqlite":
			if c.Sizing.Path == "" || c.Sizing.Table == "" {
				return fmt.Errorf("sizing.path and sizing.table required for SQLite tables")
			}
		default:
			return fmt.Errorf("sizing.source must be 'csv' or 'sqlite' for mode %q", c.Sizing.Mode)
		}
	default:
		return fmt.Errorf("sizing.mode must be 'fixed', 'capital' or 'level'")
	}

	if c.Sizing.Mode == "capital" && c.Engine.InitCapital <= 0 {
		return fmt.Errorf("engine.init_capital must be positive for capital sizing")
	}

	return nil
}

// DailyMetric maps the configured metric name onto the engine constant.
func (c *Config) DailyMetric() backtest.DailyMetric {
	if c.Engine.DailyMetric == "pnl" {
		return backtest.DailyPnL
	}
	return backtest.DailyPriceDiff
}

// Mode is a short label describing the sizing/controller combination,
// used for journaling.
func (c *Config) Mode() string {
	mode := c.Sizing.Mode
	if mode == "" {
		mode = "fixed"
	}
	if c.Engine.DailyTarget > 0 {
		mode += "+daily"
	}
	return mode
}

// Default returns a configuration with sensible defaults: the plain
// price-diff backtest with a single trailing rung.
func Default() *Config {
	return &Config{
		Instrument: "XAUUSD",
		Data: DataConfig{
			Bars: "./signals.csv",
		},
		Levels: LevelsConfig{
			MinSL:       3,
			MinTP:       5,
			LotStandard: 1,
		},
		Engine: EngineConfig{
			TrailingRules: []backtest.TrailingRule{
				{Threshold: 2, SLAdjustment: 0.5, TPAdjustment: 1},
			},
			ContractMultiplier: 1,
		},
		Sizing: SizingConfig{
			Mode:     "fixed",
			FixedLot: 1,
		},
		Journal: JournalConfig{
			LedgerFile: "./ledger.csv",
		},
	}
}
