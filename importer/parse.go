package importer

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gocargo/dataset"
)

const nonBreakingSpace = "\u00a0"

// ParseNumeric parses a spreadsheet number written with comma thousands
// separators and stray non-breaking spaces. An empty value counts as zero.
// NaN, infinities and hexadecimal literals are rejected.
func ParseNumeric(raw string) (float64, error) {
	cleaned := strings.ReplaceAll(raw, ",", "")
	cleaned = strings.ReplaceAll(cleaned, nonBreakingSpace, "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		cleaned = "0"
	}
	if digits := strings.TrimLeft(cleaned, "+-"); len(digits) > 1 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		return 0, fmt.Errorf("parse %q: not a decimal number", raw)
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("parse %q: not a finite number", raw)
	}
	return value, nil
}

func coerceValue(value dataset.Value) (dataset.Value, error) {
	if number, ok := value.Float(); ok {
		return dataset.Number(number), nil
	}
	parsed, err := ParseNumeric(value.String())
	if err != nil {
		return value, err
	}
	return dataset.Number(parsed), nil
}
