package importer

import (
	"fmt"

	"gocargo/dataset"
)

// NormalizeOptions controls the fixed sheet layout: one leading index column,
// TitleRows junk rows, then the header row.
type NormalizeOptions struct {
	TitleRows int
}

func DefaultNormalizeOptions() NormalizeOptions {
	return NormalizeOptions{TitleRows: 1}
}

// NormalizeSheet turns one raw sheet into a header-labeled table tagged with
// the sheet name. The first column and the title rows are discarded, the next
// row becomes the header, all-empty rows are dropped and a client column is
// set to the sheet name on every remaining row.
func NormalizeSheet(sheet Sheet, opts NormalizeOptions) (dataset.Table, error) {
	if sheet.Err != nil {
		return dataset.Table{}, &SheetProcessingError{Sheet: sheet.Name, Reason: "unreadable sheet", Err: sheet.Err}
	}
	if opts.TitleRows < 0 {
		opts.TitleRows = 0
	}

	minRows := opts.TitleRows + 1
	if len(sheet.Grid) < minRows {
		return dataset.Table{}, &SheetProcessingError{
			Sheet:  sheet.Name,
			Reason: fmt.Sprintf("sheet has %d rows, need at least %d", len(sheet.Grid), minRows),
		}
	}

	width := sheet.width() - 1
	if width < 1 {
		return dataset.Table{}, &SheetProcessingError{Sheet: sheet.Name, Reason: "no data columns after dropping the index column"}
	}

	header := padRow(sheet.Grid[opts.TitleRows], width+1)[1:]
	columns := make([]string, width)
	for i, cell := range header {
		name := cell.String()
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		columns[i] = name
	}

	clientIndex := -1
	for i, name := range columns {
		if CleanColumnName(name) == dataset.ClientColumn {
			clientIndex = i
			break
		}
	}
	if clientIndex >= 0 {
		columns[clientIndex] = dataset.ClientColumn
	} else {
		columns = append(columns, dataset.ClientColumn)
	}

	table := dataset.NewTable(sheet.Name, columns)
	client := dataset.Text(sheet.Name)
	for _, raw := range sheet.Grid[opts.TitleRows+1:] {
		values := padRow(raw, width+1)[1:]
		if dataset.Row(values).IsEmpty() {
			continue
		}

		row := make(dataset.Row, 0, len(columns))
		row = append(row, values...)
		if clientIndex < 0 {
			row = append(row, client)
		} else {
			row[clientIndex] = client
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

func padRow(row []dataset.Value, width int) []dataset.Value {
	out := make([]dataset.Value, width)
	copy(out, row)
	return out
}
