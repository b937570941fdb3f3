package importer

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

var ErrUnsupportedFormat = errors.New("unsupported input format")

// Loader turns raw input bytes into the ordered list of sheets they contain.
type Loader interface {
	Load(r io.Reader, source string) ([]Sheet, error)
}

func LoaderForFormat(format string) (Loader, error) {
	switch strings.TrimSpace(strings.ToLower(format)) {
	case "csv":
		return &CSVLoader{}, nil
	case "excel", "xlsx", "xlsm":
		return &ExcelLoader{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// InferFormat returns the explicit format when set, otherwise derives it from
// the source file extension.
func InferFormat(source string, format string) (string, error) {
	if strings.TrimSpace(format) != "" {
		return strings.TrimSpace(strings.ToLower(format)), nil
	}

	extension := strings.ToLower(strings.TrimPrefix(filepath.Ext(source), "."))
	switch extension {
	case "csv":
		return "csv", nil
	case "xlsx", "xlsm":
		return "excel", nil
	default:
		return "", fmt.Errorf("%w: cannot infer format from extension of %s", ErrUnsupportedFormat, source)
	}
}
