package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "autotrade",
	Short: "A signal-replay backtest engine for SL/TP strategies",
	Long: `Autotrade replays discrete entry signals over an OHLC bar series and
reports what would have happened to a hypothetical position opened at
each signal.

It provides tools for:
  - Resolving every signal against stop-loss/take-profit levels
  - Trailing-stop ladders with one-shot rung adjustments
  - Compounding capital-tier and daily-target level position sizing
  - Ledger export to CSV and a SQLite run journal
  - Win/loss summaries per run`,
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}
