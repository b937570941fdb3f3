package cmd

import "github.com/spf13/cobra"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage gocargo configuration file values.",
	Long: `Create, edit, display, and delete the gocargo configuration file.

The configuration stores application-wide values:
- columns.job_no / quantity / invoice_amount / currency / commodity
- sheets.title_rows / sheets.workers
- log.level / log.format
- storage.db / storage.persist_runs
- totals.currencies
- serve.port / serve.max_upload_mb`,
	Example: `
  # Create default config in $HOME/.gocargo.yaml
  gocargo config create

  # Show active config and source file
  gocargo config show

  # Open active config in editor (creates example if missing)
  gocargo config edit

  # Delete active config file
  gocargo config delete
`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
