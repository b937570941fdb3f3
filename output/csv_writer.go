package output

import (
	"encoding/csv"
	"fmt"
	"os"
)

// CSVWriter writes one table, Table (default "summary"), to a CSV file.
type CSVWriter struct {
	Table string
}

func (w *CSVWriter) Write(path string, tables []NamedTable) error {
	name := w.Table
	if name == "" {
		name = TableSummary
	}
	table, err := SelectTable(tables, name)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv output %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(table.Headers); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}

	for _, values := range table.Rows {
		row := make([]string, len(values))
		for i, value := range values {
			row[i] = formatCell(value)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}

	return nil
}
