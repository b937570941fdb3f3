package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gocargo/dataset"
)

func TestCleanColumnName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Job No":             "job no",
		"  Quantity/MT ":     "quantity/mt",
		"Invoice \t  Amount": "invoice amount",
		"INVOICE AMOUNT":     "invoice amount",
		"":                   "",
	}

	for input, want := range tests {
		got := CleanColumnName(input)
		assert.Equal(t, want, got, "input %q", input)
		assert.Equal(t, got, CleanColumnName(got), "cleaning must be idempotent for %q", input)
	}
}

func TestCleanColumns_LeavesValuesUntouched(t *testing.T) {
	t.Parallel()

	table := dataset.NewTable("Acme", []string{" Job  No ", "Commodity"})
	table.Rows = append(table.Rows, dataset.Row{dataset.Text(" 1.1.1 "), dataset.Text("Corn ")})

	cleaned := CleanColumns(table)
	assert.Equal(t, []string{"job no", "commodity"}, cleaned.Columns)
	assert.Equal(t, table.Rows, cleaned.Rows)
	assert.Equal(t, []string{" Job  No ", "Commodity"}, table.Columns, "input table is not modified")

	again := CleanColumns(cleaned)
	assert.Equal(t, cleaned.Columns, again.Columns)
}
