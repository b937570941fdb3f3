package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExcelWriter writes every table to its own sheet of one workbook.
type ExcelWriter struct{}

func (w *ExcelWriter) Write(path string, tables []NamedTable) error {
	if len(tables) == 0 {
		return fmt.Errorf("no tables to write to %s", path)
	}

	file := excelize.NewFile()
	defer file.Close()

	for i, table := range tables {
		if i == 0 {
			if err := file.SetSheetName(file.GetSheetName(0), table.Name); err != nil {
				return fmt.Errorf("rename excel sheet %s: %w", table.Name, err)
			}
		} else if _, err := file.NewSheet(table.Name); err != nil {
			return fmt.Errorf("create excel sheet %s: %w", table.Name, err)
		}

		if err := writeSheet(file, table); err != nil {
			return err
		}
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save excel output %s: %w", path, err)
	}

	return nil
}

func writeSheet(file *excelize.File, table NamedTable) error {
	headers := make([]any, len(table.Headers))
	for i, header := range table.Headers {
		headers[i] = header
	}
	if err := file.SetSheetRow(table.Name, "A1", &headers); err != nil {
		return fmt.Errorf("set excel header %s: %w", table.Name, err)
	}

	for i := range table.Rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := file.SetSheetRow(table.Name, cell, &table.Rows[i]); err != nil {
			return fmt.Errorf("set excel row %s!%s: %w", table.Name, cell, err)
		}
	}
	return nil
}
