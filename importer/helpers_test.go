package importer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gocargo/dataset"
)

type fixtureSheet struct {
	name string
	rows [][]any
}

func buildWorkbook(t *testing.T, sheets ...fixtureSheet) *bytes.Buffer {
	t.Helper()

	file := excelize.NewFile()
	defer file.Close()

	for i, sheet := range sheets {
		if i == 0 {
			require.NoError(t, file.SetSheetName(file.GetSheetName(0), sheet.name))
		} else {
			_, err := file.NewSheet(sheet.name)
			require.NoError(t, err)
		}
		for r := range sheet.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			require.NoError(t, file.SetSheetRow(sheet.name, cell, &sheet.rows[r]))
		}
	}

	buf, err := file.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

// shipmentSheet lays out rows the way client workbooks do: an index column,
// one title row, then the header row.
func shipmentSheet(name string, data ...[]any) fixtureSheet {
	rows := [][]any{
		{"", "Shipments " + name},
		{"#", "Job No", "Commodity", "Quantity/MT", "Invoice Amount", "Currency"},
	}
	for i, row := range data {
		rows = append(rows, append([]any{i + 1}, row...))
	}
	return fixtureSheet{name: name, rows: rows}
}

func textRow(values ...string) []dataset.Value {
	row := make([]dataset.Value, len(values))
	for i, value := range values {
		row[i] = cellFromString(value)
	}
	return row
}

func columnStrings(t *testing.T, table dataset.Table, column string) []string {
	t.Helper()

	values, ok := table.Column(column)
	require.True(t, ok, "column %q missing", column)
	out := make([]string, len(values))
	for i, value := range values {
		out[i] = value.String()
	}
	return out
}
