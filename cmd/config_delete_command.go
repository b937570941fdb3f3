package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gocargo/config"
)

var configDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the active configuration file.",
	Long: `Delete the configuration file currently selected by gocargo.

Only the YAML file is removed. Run snapshots in the storage.db database are kept; use
"gocargo delete" to remove them. If no configuration file is active, the command returns
an error.`,
	Example: `
  # Delete active config
  gocargo config delete

  # Delete config at a custom path
  gocargo --configFile ./custom-gocargo.yaml config delete
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return deleteConfigFile(viper.ConfigFileUsed(), viper.GetString(config.KeyStorageDB), os.Stdout)
	},
}

func init() {
	configCmd.AddCommand(configDeleteCmd)
}

func deleteConfigFile(configPath, dbPath string, out io.Writer) error {
	if configPath == "" {
		return fmt.Errorf("no configuration file found")
	}

	if err := os.Remove(configPath); err != nil {
		return fmt.Errorf("error deleting configuration file: %w", err)
	}

	fmt.Fprintf(out, "Configuration file successfully deleted: %s\n", configPath)
	if strings.TrimSpace(dbPath) == "" {
		return nil
	}
	if _, err := os.Stat(dbPath); err == nil {
		fmt.Fprintf(out, "Run snapshots in %s were kept. Remove them with: gocargo delete --db %s\n", dbPath, dbPath)
	}
	return nil
}
