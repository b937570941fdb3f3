package importer

import (
	"strings"

	"gocargo/dataset"
)

// CleanColumnName trims, lowercases and collapses internal whitespace runs to
// a single space. Applying it twice gives the same result as applying it once.
func CleanColumnName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(name))), " ")
}

// CleanColumns returns a copy of the table with every column name cleaned.
// Cell values are not touched.
func CleanColumns(table dataset.Table) dataset.Table {
	out := table.Clone()
	for i, name := range out.Columns {
		out.Columns[i] = CleanColumnName(name)
	}
	return out
}
