package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"gocargo/aggregate"
	"gocargo/config"
	"gocargo/storage"
)

var runsDBPath string

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List stored run snapshots",
	Long: `List the analysis snapshots stored with "analyze --persist on", newest first.

Each snapshot holds the combined dataset and the per-sheet outcomes of one analysis.`,
	Example: `
  # List snapshots in the configured database
  gocargo runs

  # Re-run the report of one snapshot
  gocargo runs show 3f1c9a6e-8d2b-4c55-9a61-2f0e4d7b1c90

  # Remove one snapshot
  gocargo runs delete 3f1c9a6e-8d2b-4c55-9a61-2f0e4d7b1c90
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		store, err := storage.OpenSQLite(resolveDBPath(runsDBPath, *cfg))
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.ListRuns()
		if err != nil {
			return err
		}
		return printRuns(cmd.OutOrStdout(), runs)
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print the report of a stored snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		store, err := storage.OpenSQLite(resolveDBPath(runsDBPath, *cfg))
		if err != nil {
			return err
		}
		defer store.Close()

		return showRun(cmd.OutOrStdout(), store, args[0], *cfg)
	},
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		store, err := storage.OpenSQLite(resolveDBPath(runsDBPath, *cfg))
		if err != nil {
			return err
		}
		defer store.Close()

		deleted, err := store.DeleteRun(args[0])
		if err != nil {
			return err
		}
		if !deleted {
			return fmt.Errorf("%w: %s", storage.ErrRunNotFound, args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted run: %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsDeleteCmd)

	runsCmd.PersistentFlags().StringVar(&runsDBPath, "db", "", "Path to local SQLite database (default: storage.db)")
}

func printRuns(w io.Writer, runs []storage.RunSummary) error {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No stored runs.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCreated\tSource\tSheets OK\tSheets failed\tRows")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\n",
			run.ID,
			run.CreatedAt.Local().Format(time.DateTime),
			run.Source,
			run.SheetsOK,
			run.SheetsFailed,
			run.Rows,
		)
	}
	return tw.Flush()
}

type runLoader interface {
	LoadRun(id string) (storage.Run, error)
}

func showRun(w io.Writer, store runLoader, id string, cfg config.Config) error {
	run, err := store.LoadRun(id)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Run %s: %s (%s)\n", run.ID, run.Source, run.CreatedAt.Local().Format(time.DateTime))
	printSheetOutcomes(w, run.Sheets)

	report, err := aggregate.BuildReport(run.Table, run.ReportSchema(cfg.Schema()))
	if err != nil {
		return err
	}
	return printReport(w, report, report.Totals.Cards(cfg.CurrencyCards()))
}
