package importer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gocargo/dataset"
)

func TestNormalizeSheet_PromotesHeaderAndTagsClient(t *testing.T) {
	t.Parallel()

	sheet := Sheet{
		Name: "Acme",
		Grid: [][]dataset.Value{
			textRow("", "Acme shipments 2025"),
			textRow("#", "Job No", "Quantity/MT"),
			textRow("1", "1.01.1", "1,000"),
			textRow("2", "", ""),
			textRow("3", "", "250"),
		},
	}

	table, err := NormalizeSheet(sheet, DefaultNormalizeOptions())
	require.NoError(t, err)

	assert.Equal(t, []string{"Job No", "Quantity/MT", dataset.ClientColumn}, table.Columns)
	require.Equal(t, 2, table.Len(), "the all-empty row is dropped")
	assert.Equal(t, []string{"1.01.1", ""}, columnStrings(t, table, "Job No"))
	assert.Equal(t, []string{"Acme", "Acme"}, columnStrings(t, table, dataset.ClientColumn))
}

func TestNormalizeSheet_HeaderOnlyYieldsEmptyTable(t *testing.T) {
	t.Parallel()

	sheet := Sheet{
		Name: "Empty Client",
		Grid: [][]dataset.Value{
			textRow("", "title"),
			textRow("#", "Job No", "Commodity"),
		},
	}

	table, err := NormalizeSheet(sheet, DefaultNormalizeOptions())
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
	assert.Equal(t, []string{"Job No", "Commodity", dataset.ClientColumn}, table.Columns)
}

func TestNormalizeSheet_RejectsUnusableGrids(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		grid [][]dataset.Value
	}{
		{name: "no rows", grid: nil},
		{name: "title only", grid: [][]dataset.Value{textRow("", "title")}},
		{name: "index column only", grid: [][]dataset.Value{textRow("x"), textRow("y"), textRow("z")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeSheet(Sheet{Name: "Broken", Grid: tt.grid}, DefaultNormalizeOptions())
			require.Error(t, err)

			var sheetErr *SheetProcessingError
			require.True(t, errors.As(err, &sheetErr))
			assert.Equal(t, "Broken", sheetErr.Sheet)
		})
	}
}

func TestNormalizeSheet_PadsRaggedRowsAndNamesBlankHeaders(t *testing.T) {
	t.Parallel()

	sheet := Sheet{
		Name: "Ragged",
		Grid: [][]dataset.Value{
			textRow("", "title"),
			textRow("#", "Job No", "", "Currency"),
			textRow("1", "2.03.4"),
		},
	}

	table, err := NormalizeSheet(sheet, DefaultNormalizeOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"Job No", "Unnamed: 1", "Currency", dataset.ClientColumn}, table.Columns)
	require.Len(t, table.Rows, 1)
	assert.Len(t, table.Rows[0], 4)
	assert.True(t, table.Rows[0][2].IsEmpty())
}

func TestNormalizeSheet_ExistingClientColumnIsOverwritten(t *testing.T) {
	t.Parallel()

	sheet := Sheet{
		Name: "Acme",
		Grid: [][]dataset.Value{
			textRow("", "title"),
			textRow("#", "client", "Job No"),
			textRow("1", "someone else", "1.1.1"),
		},
	}

	table, err := NormalizeSheet(sheet, DefaultNormalizeOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{dataset.ClientColumn, "Job No"}, table.Columns)
	assert.Equal(t, []string{"Acme"}, columnStrings(t, table, dataset.ClientColumn))
}

func TestNormalizeSheet_ClientHeaderMatchesAfterCleaning(t *testing.T) {
	t.Parallel()

	for _, header := range []string{"Client", " CLIENT ", "client\u00a0"} {
		sheet := Sheet{
			Name: "Acme",
			Grid: [][]dataset.Value{
				textRow("", "title"),
				textRow("#", "Job No", header, "Currency"),
				textRow("1", "1.1.1", "Some Consignee", "USD"),
			},
		}

		table, err := NormalizeSheet(sheet, DefaultNormalizeOptions())
		require.NoError(t, err, header)
		assert.Equal(t, []string{"Job No", dataset.ClientColumn, "Currency"}, table.Columns, header)
		assert.Equal(t, []string{"Acme"}, columnStrings(t, table, dataset.ClientColumn), header)
	}
}

func TestNormalizeSheet_TitleRowsOption(t *testing.T) {
	t.Parallel()

	sheet := Sheet{
		Name: "Legacy",
		Grid: [][]dataset.Value{
			textRow("", "Report"),
			textRow("", "Generated by export"),
			textRow("#", "Job No"),
			textRow("1", "4.05.6"),
		},
	}

	table, err := NormalizeSheet(sheet, NormalizeOptions{TitleRows: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"4.05.6"}, columnStrings(t, table, "Job No"))
}
