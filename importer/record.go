package importer

import "gocargo/dataset"

// Sheet is one named tab as read from the source, before normalization.
// Grid rows may have different lengths. Err is set when the tab itself could
// not be read; the container as a whole was still valid.
type Sheet struct {
	Name string
	Grid [][]dataset.Value
	Err  error
}

func (s Sheet) width() int {
	width := 0
	for _, row := range s.Grid {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}

func cellFromString(raw string) dataset.Value {
	if raw == "" {
		return dataset.Empty()
	}
	return dataset.Text(raw)
}
