package aggregate

import (
	"regexp"
	"sort"
	"strings"

	"gocargo/dataset"
)

// PivotPlaceholder pads pivot columns shorter than the longest one.
const PivotPlaceholder = ""

var jobIDPattern = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)$`)

type PivotColumn struct {
	Key     string   `json:"key"`
	Clients []string `json:"clients"`
}

func (c PivotColumn) Header() string {
	return "Job No." + c.Key
}

// JobIDPivot groups clients by the month segment of their first job number.
type JobIDPivot struct {
	Columns []PivotColumn `json:"columns"`
}

func (p JobIDPivot) Headers() []string {
	headers := make([]string, len(p.Columns))
	for i, column := range p.Columns {
		headers[i] = column.Header()
	}
	return headers
}

func (p JobIDPivot) Height() int {
	height := 0
	for _, column := range p.Columns {
		height = max(height, len(column.Clients))
	}
	return height
}

// Rows lays the columns out side by side, padding with PivotPlaceholder.
func (p JobIDPivot) Rows() [][]string {
	height := p.Height()
	rows := make([][]string, height)
	for r := range rows {
		row := make([]string, len(p.Columns))
		for c, column := range p.Columns {
			row[c] = PivotPlaceholder
			if r < len(column.Clients) {
				row[c] = column.Clients[r]
			}
		}
		rows[r] = row
	}
	return rows
}

// MonthSegment returns the middle segment of a job number of the form
// <digits>.<digits>.<digits>.
func MonthSegment(jobNo string) (string, bool) {
	match := jobIDPattern.FindStringSubmatch(strings.TrimSpace(jobNo))
	if match == nil {
		return "", false
	}
	return match[2], true
}

// FirstJobIDByClientPivot takes each client's first job number in table order,
// keeps the ones with a valid three-part form and groups the clients by the
// month segment. Columns are sorted by key.
func FirstJobIDByClientPivot(table dataset.Table, schema dataset.Schema) JobIDPivot {
	cols := resolveColumns(table, schema)

	seen := make(map[string]struct{})
	byMonth := make(map[string][]string)
	for _, row := range table.Rows {
		client := cell(row, cols.client)
		jobNo := cell(row, cols.jobNo)
		if client.IsEmpty() || jobNo.IsEmpty() {
			continue
		}

		name := client.String()
		if _, done := seen[name]; done {
			continue
		}
		seen[name] = struct{}{}

		month, ok := MonthSegment(jobNo.String())
		if !ok {
			continue
		}
		byMonth[month] = append(byMonth[month], name)
	}

	months := make([]string, 0, len(byMonth))
	for month := range byMonth {
		months = append(months, month)
	}
	sort.Strings(months)

	pivot := JobIDPivot{Columns: make([]PivotColumn, 0, len(months))}
	for _, month := range months {
		pivot.Columns = append(pivot.Columns, PivotColumn{Key: month, Clients: byMonth[month]})
	}
	return pivot
}
