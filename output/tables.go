package output

import (
	"fmt"
	"strconv"

	"gocargo/aggregate"
	"gocargo/dataset"
)

const (
	TableSummary   = "summary"
	TableCombined  = "combined"
	TablePivot     = "pivot"
	TableTotals    = "totals"
	TableCommodity = "commodity"
	TableProfiles  = "profiles"
)

// TableNames lists the exportable tables in workbook order.
func TableNames() []string {
	return []string{TableSummary, TableCombined, TablePivot, TableTotals, TableCommodity, TableProfiles}
}

// NamedTable is a rendered table. Row values are string or float64.
type NamedTable struct {
	Name    string
	Headers []string
	Rows    [][]any
}

// ReportTables renders the combined dataset and every report view as tables.
func ReportTables(combined dataset.Table, report aggregate.Report) []NamedTable {
	return []NamedTable{
		summaryTable(report.Summary),
		combinedTable(combined),
		pivotTable(report.Pivot),
		totalsTable(report.Totals),
		commodityTable(report.Breakdowns),
		profilesTable(report.Profiles),
	}
}

// SelectTable finds a table by name.
func SelectTable(tables []NamedTable, name string) (NamedTable, error) {
	for _, table := range tables {
		if table.Name == name {
			return table, nil
		}
	}
	return NamedTable{}, fmt.Errorf("unknown table %q (valid: %v)", name, TableNames())
}

func summaryTable(rows []aggregate.CurrencySummaryRow) NamedTable {
	table := NamedTable{
		Name:    TableSummary,
		Headers: []string{"Client", "Currency", "Quantity/MT", "Invoice Amount"},
		Rows:    make([][]any, 0, len(rows)),
	}
	for _, row := range rows {
		table.Rows = append(table.Rows, []any{row.Client, row.Currency, row.Quantity, row.InvoiceAmount})
	}
	return table
}

func combinedTable(combined dataset.Table) NamedTable {
	table := NamedTable{
		Name:    TableCombined,
		Headers: append([]string(nil), combined.Columns...),
		Rows:    make([][]any, 0, combined.Len()),
	}
	for _, row := range combined.Rows {
		values := make([]any, len(combined.Columns))
		for i := range combined.Columns {
			values[i] = cellValue(row.At(i))
		}
		table.Rows = append(table.Rows, values)
	}
	return table
}

func pivotTable(pivot aggregate.JobIDPivot) NamedTable {
	table := NamedTable{Name: TablePivot, Headers: pivot.Headers()}
	for _, row := range pivot.Rows() {
		values := make([]any, len(row))
		for i, client := range row {
			values[i] = client
		}
		table.Rows = append(table.Rows, values)
	}
	return table
}

func totalsTable(totals aggregate.GlobalTotals) NamedTable {
	table := NamedTable{
		Name:    TableTotals,
		Headers: []string{"Metric", "Value"},
		Rows:    [][]any{{"Total Quantity/MT", totals.Quantity}},
	}
	for _, code := range totals.Currencies() {
		table.Rows = append(table.Rows, []any{"Invoice " + code, totals.Invoice(code)})
	}
	return table
}

func commodityTable(breakdowns []aggregate.ClientBreakdown) NamedTable {
	table := NamedTable{
		Name:    TableCommodity,
		Headers: []string{"Client", "Commodity", "Quantity/MT", "Share"},
	}
	for _, breakdown := range breakdowns {
		for _, commodity := range breakdown.Commodities {
			table.Rows = append(table.Rows, []any{breakdown.Client, commodity.Commodity, commodity.Quantity, commodity.Share})
		}
	}
	return table
}

func profilesTable(profiles []aggregate.ClientProfile) NamedTable {
	table := NamedTable{
		Name:    TableProfiles,
		Headers: []string{"Client", "Shipments", "Total Quantity/MT", "Mean", "Median", "Max"},
	}
	for _, profile := range profiles {
		table.Rows = append(table.Rows, []any{
			profile.Client,
			float64(profile.Shipments),
			profile.Total,
			profile.Mean,
			profile.Median,
			profile.Max,
		})
	}
	return table
}

func cellValue(value dataset.Value) any {
	if number, ok := value.Float(); ok {
		return number
	}
	return value.String()
}

func formatCell(value any) string {
	switch v := value.(type) {
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
