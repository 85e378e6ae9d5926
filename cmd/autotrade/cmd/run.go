package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tanhoa/autotrade/backtest"
	"github.com/tanhoa/autotrade/config"
	"github.com/tanhoa/autotrade/id"
	"github.com/tanhoa/autotrade/journal"
	"github.com/tanhoa/autotrade/market"
	"github.com/tanhoa/autotrade/sizing"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Replay a signal-annotated bar series and write the ledger",
	Long: `Run loads a bar series with entry signals, derives SL/TP levels,
replays every signal through the simulation engine and writes the
resulting ledger to CSV and/or the SQLite journal.

Example:
  autotrade run -c backtest.yaml
  autotrade run -c backtest.yaml --bars data/xauusd_m5.csv.xz --db runs.sqlite`,
	RunE: runRun,
}

var (
	runConfigPath string
	runBarsPath   string
	runLedgerPath string
	runDBPath     string
	runOptimize   bool
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "path to run config (YAML or JSON) (required)")
	runCmd.Flags().StringVar(&runBarsPath, "bars", "", "override data.bars from the config")
	runCmd.Flags().StringVar(&runLedgerPath, "ledger", "", "override journal.ledger_file from the config")
	runCmd.Flags().StringVar(&runDBPath, "db", "", "override journal.db_path from the config")
	runCmd.Flags().BoolVar(&runOptimize, "optimize", false, "use the rolling-extrema scan (ladder must be empty)")

	runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return err
	}
	if runBarsPath != "" {
		cfg.Data.Bars = runBarsPath
	}
	if runLedgerPath != "" {
		cfg.Journal.LedgerFile = runLedgerPath
	}
	if runDBPath != "" {
		cfg.Journal.DBPath = runDBPath
	}
	if runOptimize {
		cfg.Engine.Optimize = true
	}

	series, err := market.LoadCSV(cfg.Data.Bars)
	if err != nil {
		return err
	}
	series.Instrument = cfg.Instrument

	levels, err := backtest.ComputeLevels(series, backtest.LevelConfig{
		MinSL:         cfg.Levels.MinSL,
		MinTP:         cfg.Levels.MinTP,
		LotStandard:   cfg.Levels.LotStandard,
		UseEntryPrice: cfg.Levels.UseEntryPrice,
	})
	if err != nil {
		return err
	}

	sizer, err := buildSizer(cfg)
	if err != nil {
		return fmt.Errorf("sizing: %w", err)
	}

	engine := backtest.NewEngine(series, levels, sizer, backtest.Config{
		Rules:              cfg.Engine.TrailingRules,
		ContractMultiplier: cfg.Engine.ContractMultiplier,
		InitCapital:        cfg.Engine.InitCapital,
		DailyTarget:        cfg.Engine.DailyTarget,
		DailyMetric:        cfg.DailyMetric(),
		UseEntryPrice:      cfg.Levels.UseEntryPrice,
		Optimize:           cfg.Engine.Optimize,
	})

	fmt.Printf("Running backtest (%s, %d bars, mode %s)\n",
		cfg.Instrument, series.Len(), cfg.Mode())

	led, err := engine.Run(context.Background())
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	sum := led.Summarize()

	if cfg.Journal.LedgerFile != "" {
		if err := journal.ExportLedgerCSV(cfg.Journal.LedgerFile, led); err != nil {
			return fmt.Errorf("export ledger: %w", err)
		}
		fmt.Printf("  Ledger: %s\n", cfg.Journal.LedgerFile)
	}

	runID := id.New()
	if cfg.Journal.DBPath != "" {
		snapshot, _ := yaml.Marshal(cfg)
		j, err := journal.NewSQLite(cfg.Journal.DBPath)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer j.Close()

		err = j.RecordRun(journal.Run{
			RunID:       runID,
			Created:     time.Now().UTC(),
			Instrument:  cfg.Instrument,
			Mode:        cfg.Mode(),
			Config:      snapshot,
			Bars:        series.Len(),
			Wins:        sum.ProfitOrders,
			Losses:      sum.LossOrders,
			Open:        sum.OpenOrders,
			Skipped:     sum.Skipped,
			PnLRate:     sum.PnLRate,
			RateDefined: sum.RateDefined,
			TotalPnL:    sum.TotalPnL,
		}, led)
		if err != nil {
			return fmt.Errorf("record run: %w", err)
		}
		fmt.Printf("  Journal: %s (run %s)\n", cfg.Journal.DBPath, runID)
	}

	printSummary(sum)
	return nil
}

func buildSizer(cfg *config.Config) (backtest.Sizer, error) {
	switch cfg.Sizing.Mode {
	case "", "fixed":
		lot := cfg.Sizing.FixedLot
		if lot == 0 {
			lot = 1
		}
		return backtest.FixedSizer{Lot: lot}, nil

	case "capital":
		if cfg.Sizing.Source == "sqlite" {
			return sizing.LoadCapitalSQLite(cfg.Sizing.Path, cfg.Sizing.Table)
		}
		return sizing.LoadCapitalCSV(cfg.Sizing.Path)

	case "level":
		if cfg.Sizing.Source == "sqlite" {
			return sizing.LoadLevelSQLite(cfg.Sizing.Path, cfg.Sizing.Table)
		}
		return sizing.LoadLevelCSV(cfg.Sizing.Path)
	}
	return nil, fmt.Errorf("unknown sizing mode %q", cfg.Sizing.Mode)
}

func printSummary(sum backtest.Summary) {
	fmt.Printf("\nBacktest Complete!\n")
	fmt.Printf("  Profit orders: %d\n", sum.ProfitOrders)
	fmt.Printf("  Loss orders: %d\n", sum.LossOrders)
	fmt.Printf("  Still open: %d\n", sum.OpenOrders)
	fmt.Printf("  Skipped: %d\n", sum.Skipped)
	if sum.RateDefined {
		fmt.Printf("  PnL rate: %.2f\n", sum.PnLRate)
	} else {
		fmt.Printf("  PnL rate: n/a (no losing trades)\n")
	}
	fmt.Printf("  Total PnL: %.2f\n", sum.TotalPnL)
}
