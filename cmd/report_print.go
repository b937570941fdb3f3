package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"gocargo/aggregate"
	"gocargo/importer"
	"gocargo/storage"
)

func printSheetOutcomes(w io.Writer, sheets []storage.SheetOutcome) {
	for _, sheet := range sheets {
		if sheet.Error != "" {
			fmt.Fprintf(w, "Error processing sheet %s: %s\n", sheet.Name, sheet.Error)
			continue
		}
		fmt.Fprintf(w, "Processed: %s | Rows kept: %d\n", sheet.Name, sheet.RowsKept)
	}
}

func printWarnings(w io.Writer, warnings []importer.MissingColumnWarning) {
	for _, warning := range warnings {
		fmt.Fprintf(w, "Warning: %s\n", warning)
	}
}

func printReport(w io.Writer, report aggregate.Report, cards []aggregate.CurrencyCard) error {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Summary by client and currency")
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Client\tCurrency\tQuantity/MT\tInvoice Amount")
	for _, row := range report.Summary {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", row.Client, row.Currency, formatAmount(row.Quantity), formatAmount(row.InvoiceAmount))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Clients by first job number")
	if len(report.Pivot.Columns) == 0 {
		fmt.Fprintln(w, "No clients with a valid job number.")
	} else {
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, strings.Join(report.Pivot.Headers(), "\t"))
		for _, row := range report.Pivot.Rows() {
			fmt.Fprintln(tw, strings.Join(row, "\t"))
		}
		if err := tw.Flush(); err != nil {
			return fmt.Errorf("write pivot: %w", err)
		}
	}

	for _, breakdown := range report.Breakdowns {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Quantity by commodity: %s\n", breakdown.Client)
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "Commodity\tQuantity/MT\tShare")
		for _, commodity := range breakdown.Commodities {
			fmt.Fprintf(tw, "%s\t%s\t%.1f%%\n", commodity.Commodity, formatAmount(commodity.Quantity), commodity.Share*100)
		}
		if err := tw.Flush(); err != nil {
			return fmt.Errorf("write breakdown %s: %w", breakdown.Client, err)
		}
	}
	for _, client := range report.NoData {
		fmt.Fprintf(w, "No data for client %s\n", client)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Totals")
	tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Total Quantity/MT\t%s\n", formatAmount(report.Totals.Quantity))
	for _, card := range cards {
		fmt.Fprintf(tw, "Invoice %s\t%s\n", card.Code, formatAmount(card.Amount))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write totals: %w", err)
	}
	return nil
}

func formatAmount(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}
