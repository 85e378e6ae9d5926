package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the autotrade CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("autotrade version %s\n", version)
		fmt.Println("A signal-replay backtest engine for SL/TP strategies")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
