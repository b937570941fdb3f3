/*
Copyright © 2025 riad@rsworld.eu

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gocargo/config"
	"gocargo/internal/logging"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gocargo",
	Short: "Combine per-client shipment sheets and report totals by client, currency and commodity.",
	Long: `
**********************************************
*                 GO CARGO                   *
**********************************************

This CLI reads a shipment workbook with one sheet per client, normalizes and combines the
sheets into one dataset, and reports:
- quantity and invoice totals per client and currency
- clients grouped by the month segment of their first job number
- quantity per commodity for each client
- overall quantity and invoice totals per currency

Supported input formats:
- Excel: .xlsx, .xlsm
- CSV: .csv (one sheet, named after the file)
`,
	Example: `
  # Create configuration file
  gocargo config create

  # Analyze a workbook and print the report
  gocargo analyze -i shipments.xlsx

  # Export every report table to one workbook and keep a snapshot
  gocargo analyze -i shipments.xlsx --output report.xlsx --persist on

  # Export the combined dataset as CSV
  gocargo analyze -i shipments.xlsx --output combined.csv --table combined

  # List stored snapshots and re-run the report of one of them
  gocargo runs
  gocargo runs show 3f1c9a6e-...

  # Start the web UI
  gocargo serve
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !requiresConfig(cmd) {
			return nil
		}

		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}
		slog.SetDefault(logging.New(cfg.Log, os.Stderr))
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.gocargo.yaml, then ./.gocargo.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level override: debug|info|warn|error")
	_ = viper.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
}

func requiresConfig(cmd *cobra.Command) bool {
	if cmd == nil {
		return false
	}
	path := strings.TrimPrefix(cmd.CommandPath(), cmd.Root().Name()+" ")
	switch path {
	case "analyze", "serve", "runs", "runs show", "runs delete", "delete":
		return true
	default:
		return false
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".gocargo" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".gocargo")
	}

	viper.SetEnvPrefix("GOCARGO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "No config file found, using defaults. Create one with: gocargo config create")
	}
}
