package output

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Writer persists report tables to a file.
type Writer interface {
	Write(path string, tables []NamedTable) error
}

// WriterForFormat returns the writer for format. table selects the single
// table a CSV file holds and is ignored by the Excel writer.
func WriterForFormat(format, table string) (Writer, error) {
	switch normalizeFormat(format) {
	case "csv":
		return &CSVWriter{Table: table}, nil
	case "excel", "xlsx":
		return &ExcelWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// FormatForPath infers the output format from the file extension.
func FormatForPath(path string) (string, error) {
	switch normalizeFormat(filepath.Ext(path)) {
	case ".csv":
		return "csv", nil
	case ".xlsx":
		return "xlsx", nil
	default:
		return "", fmt.Errorf("cannot infer output format from %q, use .csv or .xlsx", path)
	}
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}
