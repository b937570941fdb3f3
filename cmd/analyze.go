package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"gocargo/aggregate"
	"gocargo/config"
	"gocargo/dataset"
	"gocargo/importer"
	"gocargo/output"
	"gocargo/storage"
)

var (
	analyzeInput   string
	analyzeFormat  string
	analyzeOutput  string
	analyzeTable   string
	analyzePersist string
	analyzeDBPath  string
)

type analyzeOptions struct {
	Input   string
	Format  string
	Output  string
	Table   string
	Persist string
	DBPath  string
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Combine the sheets of a shipment workbook and print the client report",
	Long: `Read every sheet of the input, normalize it (header row, client column, cleaned column
names), combine the sheets and print:
- totals per client and currency
- clients grouped by the month segment of their first job number
- quantity per commodity for each client
- overall quantity and invoice totals

Sheets that cannot be processed are reported and skipped. A value in a numeric column that
cannot be parsed stops the run with the offending column, row and client.

With --output the report tables are exported: .xlsx files get every table as its own sheet,
.csv files get the table selected with --table.`,
	Example: `
  # Print the report for a workbook
  gocargo analyze -i shipments.xlsx

  # Analyze a single CSV export
  gocargo analyze -i acme.csv

  # Export all tables to Excel
  gocargo analyze -i shipments.xlsx --output report.xlsx

  # Export the pivot as CSV and store a snapshot
  gocargo analyze -i shipments.xlsx --output pivot.csv --table pivot --persist on --db ./gocargo.db
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		return runAnalyze(cmd.Context(), *cfg, analyzeOptions{
			Input:   analyzeInput,
			Format:  analyzeFormat,
			Output:  analyzeOutput,
			Table:   analyzeTable,
			Persist: analyzePersist,
			DBPath:  analyzeDBPath,
		}, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeInput, "input", "i", "", "Input workbook or CSV file")
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "", "Input format: csv|excel (optional, inferred from extension when omitted)")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "Export report tables to this .xlsx or .csv file")
	analyzeCmd.Flags().StringVar(&analyzeTable, "table", output.TableSummary, "Table written to a CSV export: "+strings.Join(output.TableNames(), "|"))
	analyzeCmd.Flags().StringVar(&analyzePersist, "persist", "auto", "Store a run snapshot: auto|on|off (auto uses storage.persist_runs)")
	analyzeCmd.Flags().StringVar(&analyzeDBPath, "db", "", "Path to local SQLite database (default: storage.db)")

	_ = analyzeCmd.MarkFlagRequired("input")
}

func runAnalyze(ctx context.Context, cfg config.Config, opts analyzeOptions, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	persist, err := resolvePersistMode(opts.Persist, cfg.Storage.PersistRuns)
	if err != nil {
		return err
	}

	file, err := os.Open(opts.Input)
	if err != nil {
		return fmt.Errorf("open input %s: %w", opts.Input, err)
	}
	defer file.Close()

	importOpts := importer.DefaultOptions()
	importOpts.Format = opts.Format
	importOpts.Schema = cfg.Schema()
	importOpts.Normalize.TitleRows = cfg.Sheets.TitleRows
	importOpts.Workers = cfg.Sheets.Workers
	importOpts.Logger = slog.Default()

	result, runErr := importer.Run(ctx, file, filepath.Base(opts.Input), importOpts)
	if result != nil {
		printSheetOutcomes(out, storage.SheetOutcomes(result.Sheets))
		printWarnings(out, result.Warnings)
	}
	if runErr != nil {
		var coercionErr *importer.NumericCoercionError
		if errors.As(runErr, &coercionErr) {
			fmt.Fprintf(out, "Processed sheets: %d, failed sheets: %d\n", result.Succeeded(), result.Failed())
		}
		return runErr
	}
	if result.Succeeded() == 0 {
		return fmt.Errorf("no sheet of %s could be processed", opts.Input)
	}

	report, err := aggregate.BuildReport(result.Table, importOpts.Schema)
	if err != nil {
		return err
	}
	for _, client := range report.NoData {
		slog.Warn("no data for client", "client", client)
	}

	if err := printReport(out, report, report.Totals.Cards(cfg.CurrencyCards())); err != nil {
		return err
	}

	if opts.Output != "" {
		if err := exportReport(opts.Output, opts.Table, result, report); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nReport exported to: %s\n", opts.Output)
	}

	if persist {
		id, err := persistRun(resolveDBPath(opts.DBPath, cfg), result, importOpts.Schema)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Run stored with id: %s\n", id)
	}

	return nil
}

func exportReport(path, table string, result *importer.Result, report aggregate.Report) error {
	format, err := output.FormatForPath(path)
	if err != nil {
		return err
	}
	writer, err := output.WriterForFormat(format, table)
	if err != nil {
		return err
	}
	return writer.Write(path, output.ReportTables(result.Table, report))
}

func persistRun(dbPath string, result *importer.Result, schema dataset.Schema) (string, error) {
	store, err := storage.OpenSQLite(dbPath)
	if err != nil {
		return "", err
	}
	defer store.Close()

	return store.SaveRun(storage.NewRun(result, schema))
}

func resolveDBPath(flagValue string, cfg config.Config) string {
	if strings.TrimSpace(flagValue) != "" {
		return flagValue
	}
	return cfg.Storage.DB
}

func resolvePersistMode(mode string, configDefault bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return configDefault, nil
	case "on", "true", "yes":
		return true, nil
	case "off", "false", "no":
		return false, nil
	default:
		return false, fmt.Errorf("invalid persist mode %q (supported: auto|on|off)", mode)
	}
}
