package importer

import (
	"fmt"

	"gocargo/dataset"
)

// CombineResult is the combined dataset plus the non-fatal findings of the
// combine step.
type CombineResult struct {
	Table       dataset.Table
	Warnings    []MissingColumnWarning
	RowsDropped int
}

// Combine concatenates cleaned per-sheet tables in order, drops all-empty
// rows, forward-fills the job number column and coerces the numeric columns.
// A value that cannot be coerced aborts with *NumericCoercionError.
func Combine(tables []dataset.Table, schema dataset.Schema) (CombineResult, error) {
	combined, dropped := concatenate(tables)
	result := CombineResult{RowsDropped: dropped}

	filled, ok := ForwardFill(combined, schema.JobNo)
	if !ok {
		result.Warnings = append(result.Warnings, MissingColumnWarning{Column: schema.JobNo, Step: "forward-fill"})
	}
	combined = filled

	for _, column := range schema.NumericColumns() {
		if !combined.HasColumn(column) {
			result.Warnings = append(result.Warnings, MissingColumnWarning{Column: column, Step: "numeric coercion"})
			continue
		}
		coerced, err := CoerceNumeric(combined, column)
		if err != nil {
			return result, err
		}
		combined = coerced
	}

	result.Table = combined
	return result, nil
}

// concatenate builds the union of all column names in first-seen order and
// appends every row in table then row order. Rows that are empty across the
// union are dropped; the count is returned.
func concatenate(tables []dataset.Table) (dataset.Table, int) {
	columns := make([]string, 0, 16)
	positions := make(map[string]int)
	mappings := make([][]int, len(tables))

	for t, table := range tables {
		names := uniqueColumnNames(table.Columns)
		mapping := make([]int, len(names))
		for i, name := range names {
			position, ok := positions[name]
			if !ok {
				position = len(columns)
				positions[name] = position
				columns = append(columns, name)
			}
			mapping[i] = position
		}
		mappings[t] = mapping
	}

	combined := dataset.NewTable("", columns)
	dropped := 0
	for t, table := range tables {
		for _, source := range table.Rows {
			row := make(dataset.Row, len(columns))
			for i, position := range mappings[t] {
				row[position] = source.At(i)
			}
			if row.IsEmpty() {
				dropped++
				continue
			}
			combined.Rows = append(combined.Rows, row)
		}
	}
	return combined, dropped
}

// uniqueColumnNames suffixes repeated names with ".1", ".2", ... so every
// column of one table maps to its own combined column.
func uniqueColumnNames(columns []string) []string {
	seen := make(map[string]struct{}, len(columns))
	out := make([]string, len(columns))
	for i, name := range columns {
		candidate := name
		for n := 1; ; n++ {
			if _, taken := seen[candidate]; !taken {
				break
			}
			candidate = fmt.Sprintf("%s.%d", name, n)
		}
		seen[candidate] = struct{}{}
		out[i] = candidate
	}
	return out
}

// ForwardFill replaces every missing value of column with the nearest
// preceding non-missing value in row order across the whole table. Leading
// missing values stay missing. The second result is false when the column
// does not exist; the table is then returned unchanged.
func ForwardFill(table dataset.Table, column string) (dataset.Table, bool) {
	index, ok := table.ColumnIndex(column)
	if !ok {
		return table, false
	}

	out := table.Clone()
	last := dataset.Empty()
	for _, row := range out.Rows {
		if row[index].IsEmpty() {
			row[index] = last
			continue
		}
		last = row[index]
	}
	return out, true
}

// CoerceNumeric converts every value of column to a float. Numbers pass
// through, text goes through ParseNumeric, empty cells become 0.
func CoerceNumeric(table dataset.Table, column string) (dataset.Table, error) {
	index, ok := table.ColumnIndex(column)
	if !ok {
		return table, fmt.Errorf("column %q not found", column)
	}
	clientIndex, hasClient := table.ColumnIndex(dataset.ClientColumn)

	out := table.Clone()
	for i, row := range out.Rows {
		coerced, err := coerceValue(row[index])
		if err != nil {
			client := ""
			if hasClient {
				client = row[clientIndex].String()
			}
			return table, &NumericCoercionError{
				Column: column,
				Row:    i,
				Client: client,
				Value:  row[index].String(),
				Err:    err,
			}
		}
		row[index] = coerced
	}
	return out, nil
}
