package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tanhoa/autotrade/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print, write or validate run configurations",
	Long: `Config prints the default configuration, writes it to a file with
--init, or validates an existing file with --check.

Example:
  autotrade config --init backtest.yaml
  autotrade config --check backtest.yaml`,
	RunE: runConfig,
}

var (
	configInitPath  string
	configCheckPath string
)

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().StringVar(&configInitPath, "init", "", "write the default config to this path")
	configCmd.Flags().StringVar(&configCheckPath, "check", "", "validate the config at this path")
}

func runConfig(cmd *cobra.Command, args []string) error {
	if configCheckPath != "" {
		if _, err := config.LoadFromFile(configCheckPath); err != nil {
			return err
		}
		fmt.Printf("%s: OK\n", configCheckPath)
		return nil
	}

	cfg := config.Default()

	if configInitPath != "" {
		if err := cfg.SaveToFile(configInitPath); err != nil {
			return err
		}
		fmt.Printf("Wrote default config to %s\n", configInitPath)
		return nil
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}
