package importer

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"gocargo/dataset"
)

type ExcelLoader struct{}

func (l *ExcelLoader) Load(r io.Reader, source string) ([]Sheet, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}
	defer file.Close()

	names := file.GetSheetList()
	if len(names) == 0 {
		return nil, &LoadError{Source: source, Err: fmt.Errorf("workbook has no sheets")}
	}

	sheets := make([]Sheet, 0, len(names))
	for _, name := range names {
		sheets = append(sheets, readSheet(file, name))
	}
	return sheets, nil
}

func readSheet(file *excelize.File, name string) Sheet {
	rows, err := file.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return Sheet{Name: name, Err: fmt.Errorf("read rows from sheet %s: %w", name, err)}
	}

	grid := make([][]dataset.Value, len(rows))
	for r, row := range rows {
		cells := make([]dataset.Value, len(row))
		for c, raw := range row {
			cells[c] = excelCellValue(file, name, c+1, r+1, raw)
		}
		grid[r] = cells
	}
	return Sheet{Name: name, Grid: grid}
}

// excelCellValue keeps numeric cells numeric; anything stored as a string in
// the workbook stays text even when it looks like a number.
func excelCellValue(file *excelize.File, sheet string, col, row int, raw string) dataset.Value {
	if raw == "" {
		return dataset.Empty()
	}

	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return dataset.Text(raw)
	}
	cellType, err := file.GetCellType(sheet, cell)
	if err != nil {
		return dataset.Text(raw)
	}

	switch cellType {
	case excelize.CellTypeUnset, excelize.CellTypeNumber, excelize.CellTypeDate:
		if number, parseErr := strconv.ParseFloat(raw, 64); parseErr == nil {
			return dataset.Number(number)
		}
	}
	return dataset.Text(raw)
}
