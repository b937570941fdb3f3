package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gocargo/dataset"
)

func TestFirstJobIDByClientPivot_GroupsByMonthSegment(t *testing.T) {
	t.Parallel()

	table := combinedTable(
		shipment{"3.07.1", "Corn", 1, 1, "USD", "client1"},
		shipment{"5.09.2", "Corn", 1, 1, "USD", "client2"},
		shipment{"9.07.3", "Corn", 1, 1, "USD", "client3"},
	)

	pivot := FirstJobIDByClientPivot(table, dataset.DefaultSchema())
	assert.Equal(t, []string{"Job No.07", "Job No.09"}, pivot.Headers())
	assert.Equal(t, 2, pivot.Height())
	assert.Equal(t, [][]string{
		{"client1", "client2"},
		{"client3", PivotPlaceholder},
	}, pivot.Rows())
}

func TestFirstJobIDByClientPivot_UsesFirstJobNumberOnly(t *testing.T) {
	t.Parallel()

	table := combinedTable(
		shipment{nil, "Corn", 1, 1, "USD", "Acme"},
		shipment{"1.02.1", "Corn", 1, 1, "USD", "Acme"},
		shipment{"1.03.1", "Corn", 1, 1, "USD", "Acme"},
		shipment{"TBD", "Corn", 1, 1, "USD", "Beta"},
		shipment{"2.03.1", "Corn", 1, 1, "USD", "Beta"},
		shipment{" 4.03.9 ", "Corn", 1, 1, "USD", "Gamma"},
	)

	pivot := FirstJobIDByClientPivot(table, dataset.DefaultSchema())
	assert.Equal(t, []PivotColumn{
		{Key: "02", Clients: []string{"Acme"}},
		{Key: "03", Clients: []string{"Gamma"}},
	}, pivot.Columns, "Beta's first job number is invalid so Beta is left out")
}

func TestFirstJobIDByClientPivot_EmptyWithoutJobNumbers(t *testing.T) {
	t.Parallel()

	table := dataset.NewTable("combined", []string{dataset.ClientColumn})
	table.Rows = append(table.Rows, dataset.Row{dataset.Text("Acme")})

	pivot := FirstJobIDByClientPivot(table, dataset.DefaultSchema())
	assert.Empty(t, pivot.Columns)
	assert.Empty(t, pivot.Rows())
}

func TestMonthSegment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		jobNo string
		want  string
		ok    bool
	}{
		{jobNo: "3.07.1", want: "07", ok: true},
		{jobNo: "12.1.300", want: "1", ok: true},
		{jobNo: " 3.07.1 ", want: "07", ok: true},
		{jobNo: "3.07", ok: false},
		{jobNo: "3.07.1.2", ok: false},
		{jobNo: "a.07.1", ok: false},
		{jobNo: "3..1", ok: false},
		{jobNo: "", ok: false},
	}

	for _, tc := range tests {
		got, ok := MonthSegment(tc.jobNo)
		assert.Equal(t, tc.ok, ok, tc.jobNo)
		assert.Equal(t, tc.want, got, tc.jobNo)
	}
}
