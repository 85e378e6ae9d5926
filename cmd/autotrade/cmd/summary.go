package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tanhoa/autotrade/journal"
)

var summaryCmd = &cobra.Command{
	Use:   "summary [run-id]",
	Short: "List journaled runs or show one run's numbers",
	Long: `Summary reads the SQLite run journal. With no argument it lists all
recorded runs, newest first; with a run ID it prints that run's summary.

Example:
  autotrade summary --db runs.sqlite
  autotrade summary --db runs.sqlite 01JD3FZX9GQW2K5M8T1R6YVBCE`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSummary,
}

var summaryDBPath string

func init() {
	rootCmd.AddCommand(summaryCmd)

	summaryCmd.Flags().StringVarP(&summaryDBPath, "db", "d", "./runs.sqlite", "path to SQLite run journal")
}

func runSummary(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(summaryDBPath)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer j.Close()

	if len(args) == 1 {
		run, err := j.GetRun(args[0])
		if err != nil {
			return err
		}
		printRun(run)
		return nil
	}

	runs, err := j.ListRuns()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Printf("%-28s %-20s %-10s %-14s %6s %6s %8s %12s\n",
		"RUN", "CREATED", "SYMBOL", "MODE", "WINS", "LOSSES", "RATE", "TOTAL PNL")
	for _, r := range runs {
		rate := "n/a"
		if r.RateDefined {
			rate = fmt.Sprintf("%.2f", r.PnLRate)
		}
		fmt.Printf("%-28s %-20s %-10s %-14s %6d %6d %8s %12.2f\n",
			r.RunID, r.Created.Format("2006-01-02 15:04:05"),
			r.Instrument, r.Mode, r.Wins, r.Losses, rate, r.TotalPnL)
	}
	return nil
}

func printRun(r journal.Run) {
	fmt.Printf("Run %s\n", r.RunID)
	fmt.Printf("  Created: %s\n", r.Created.Format("2006-01-02 15:04:05"))
	fmt.Printf("  Instrument: %s\n", r.Instrument)
	fmt.Printf("  Mode: %s\n", r.Mode)
	fmt.Printf("  Bars: %d\n", r.Bars)
	fmt.Printf("  Wins: %d  Losses: %d  Open: %d  Skipped: %d\n",
		r.Wins, r.Losses, r.Open, r.Skipped)
	if r.RateDefined {
		fmt.Printf("  PnL rate: %.2f\n", r.PnLRate)
	} else {
		fmt.Printf("  PnL rate: n/a (no losing trades)\n")
	}
	fmt.Printf("  Total PnL: %.2f\n", r.TotalPnL)
	if len(r.Config) > 0 {
		fmt.Printf("\nConfig snapshot:\n%s", r.Config)
	}
}
