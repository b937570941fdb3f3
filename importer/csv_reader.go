package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gocargo/dataset"
)

// CSVLoader reads one CSV file as a single sheet named after the file stem.
type CSVLoader struct{}

func (l *CSVLoader) Load(r io.Reader, source string) ([]Sheet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	grid := make([][]dataset.Value, 0, 128)
	rowNumber := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &LoadError{Source: source, Err: fmt.Errorf("read csv row %d: %w", rowNumber+1, err)}
		}
		if rowNumber == 0 && len(row) > 0 {
			row[0] = strings.TrimPrefix(row[0], "\ufeff")
		}

		cells := make([]dataset.Value, len(row))
		for i, raw := range row {
			cells[i] = cellFromString(raw)
		}
		grid = append(grid, cells)
		rowNumber++
	}

	return []Sheet{{Name: sheetNameFromSource(source), Grid: grid}}, nil
}

func sheetNameFromSource(source string) string {
	base := filepath.Base(strings.TrimSpace(source))
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." {
		return "Sheet1"
	}
	return stem
}
