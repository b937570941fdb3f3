package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"gocargo/config"
)

var configCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a configuration file from the example template.",
	Long: `Create a new configuration file from the same example template used by "config edit".

The template expects client sheets with an index column, one title row and the headers
"Job No", "Commodity", "Quantity/MT", "Invoice Amount" and "Currency". Adjust columns.* and
sheets.title_rows when your workbooks differ.

If a configuration file is already in use, no new file is written.`,
	Example: `
  # Create default config at $HOME/.gocargo.yaml
  gocargo config create

  # Create a project-local config for workbooks with two title rows, then edit it
  gocargo --configFile ./.gocargo.yaml config create
  gocargo --configFile ./.gocargo.yaml config edit
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return saveDefaultConfig(os.Stdout)
	},
}

func saveDefaultConfig(out io.Writer) error {
	configPath, err := resolveConfigEditPath(cfgFile, viper.ConfigFileUsed())
	if err != nil {
		return err
	}

	created, err := ensureConfigFileWithTemplate(configPath)
	if err != nil {
		return err
	}

	if !created {
		fmt.Fprintf(out, "Config file already exists at: %s\n", configPath)
		return nil
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("reading created config failed: %w", err)
	}
	cfg, err := config.ValidateYAMLContent(content)
	if err != nil {
		return fmt.Errorf("created config is invalid: %w", err)
	}

	fmt.Fprintf(out, "New config file created at: %s\n", configPath)
	printSheetLayout(out, *cfg)
	fmt.Fprintln(out, "Next: gocargo analyze -i <workbook.xlsx>")
	return nil
}

func init() {
	configCmd.AddCommand(configCreateCmd)
}
