package dataset

// Row holds one value per table column, positionally.
type Row []Value

// IsEmpty reports whether every value in the row is missing.
func (r Row) IsEmpty() bool {
	for _, value := range r {
		if !value.IsEmpty() {
			return false
		}
	}
	return true
}

// At returns the value at index i, or an empty value when the row is short.
func (r Row) At(i int) Value {
	if i < 0 || i >= len(r) {
		return Empty()
	}
	return r[i]
}

// Table is an ordered sequence of rows over a fixed, ordered column list.
// Name carries the source sheet for per-sheet tables and is empty for the
// combined dataset.
type Table struct {
	Name    string
	Columns []string
	Rows    []Row
}

func NewTable(name string, columns []string) Table {
	return Table{
		Name:    name,
		Columns: append([]string(nil), columns...),
		Rows:    make([]Row, 0),
	}
}

// ColumnIndex returns the position of the first column with the given name.
func (t Table) ColumnIndex(name string) (int, bool) {
	for i, column := range t.Columns {
		if column == name {
			return i, true
		}
	}
	return -1, false
}

func (t Table) HasColumn(name string) bool {
	_, ok := t.ColumnIndex(name)
	return ok
}

// Column returns a copy of all values of the named column.
func (t Table) Column(name string) ([]Value, bool) {
	index, ok := t.ColumnIndex(name)
	if !ok {
		return nil, false
	}
	values := make([]Value, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row.At(index)
	}
	return values, true
}

func (t Table) Len() int {
	return len(t.Rows)
}

// Clone returns a deep copy so later stages never share row storage with
// their input. Short rows are padded with empty values to the column count.
func (t Table) Clone() Table {
	out := Table{
		Name:    t.Name,
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Row, len(t.Rows)),
	}
	for i, row := range t.Rows {
		copied := make(Row, max(len(row), len(t.Columns)))
		copy(copied, row)
		out.Rows[i] = copied
	}
	return out
}
