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

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show active configuration values.",
	Long: `Display the currently loaded configuration and the resolved config file path.

This command validates the configuration before printing values. Without a config file the
defaults are shown.`,
	Example: `
  # Show active configuration
  gocargo config show
`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			fmt.Println("Invalid config:", err)
			return
		}

		if configPath := viper.ConfigFileUsed(); configPath != "" {
			fmt.Println("Config file loaded from:", configPath)
		} else {
			fmt.Println("No config file loaded, showing defaults.")
		}
		fmt.Println("Configuration:")
		fmt.Printf("%s: %s\n", config.KeyColumnsJobNo, cfg.Columns.JobNo)
		fmt.Printf("%s: %s\n", config.KeyColumnsQuantity, cfg.Columns.Quantity)
		fmt.Printf("%s: %s\n", config.KeyColumnsInvoiceAmount, cfg.Columns.InvoiceAmount)
		fmt.Printf("%s: %s\n", config.KeyColumnsCurrency, cfg.Columns.Currency)
		fmt.Printf("%s: %s\n", config.KeyColumnsCommodity, cfg.Columns.Commodity)
		fmt.Printf("%s: %d\n", config.KeySheetsTitleRows, cfg.Sheets.TitleRows)
		fmt.Printf("%s: %d\n", config.KeySheetsWorkers, cfg.Sheets.Workers)
		fmt.Printf("%s: %s\n", config.KeyLogLevel, cfg.Log.Level)
		fmt.Printf("%s: %s\n", config.KeyLogFormat, cfg.Log.Format)
		fmt.Printf("%s: %s\n", config.KeyStorageDB, cfg.Storage.DB)
		fmt.Printf("%s: %t\n", config.KeyStoragePersistRuns, cfg.Storage.PersistRuns)
		fmt.Printf("%s: %s\n", config.KeyTotalsCurrencies, strings.Join(cfg.CurrencyCards(), ", "))
		fmt.Printf("%s: %d\n", config.KeyServePort, cfg.Serve.Port)
		fmt.Printf("%s: %d\n", config.KeyServeMaxUploadMB, cfg.Serve.MaxUploadMB)
		fmt.Println()
		printSheetLayout(os.Stdout, *cfg)
	},
}

// printSheetLayout describes how client sheets are read with cfg, in the
// terms a workbook author uses.
func printSheetLayout(w io.Writer, cfg config.Config) {
	schema := cfg.Schema()
	fmt.Fprintf(w, "Client sheets: index column, %d title row(s), then the header row\n", cfg.Sheets.TitleRows)
	fmt.Fprintf(w, "Job number header: %q (pivot keys come from its middle segment)\n", schema.JobNo)
	fmt.Fprintf(w, "Numeric headers: %q, %q\n", schema.Quantity, schema.InvoiceAmount)
	fmt.Fprintf(w, "Grouping headers: %q, %q\n", schema.Currency, schema.Commodity)
	fmt.Fprintf(w, "Currency cards: %s\n", strings.Join(cfg.CurrencyCards(), ", "))
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
