package importer

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gocargo/dataset"
)

func TestExcelLoader_ReadsSheetsInWorkbookOrder(t *testing.T) {
	t.Parallel()

	buf := buildWorkbook(t,
		fixtureSheet{name: "Zeta", rows: [][]any{{"a", 1.5}}},
		fixtureSheet{name: "Alpha", rows: [][]any{{"b", "1,000"}}},
	)

	sheets, err := (&ExcelLoader{}).Load(buf, "clients.xlsx")
	require.NoError(t, err)
	require.Len(t, sheets, 2)

	assert.Equal(t, "Zeta", sheets[0].Name)
	assert.Equal(t, "Alpha", sheets[1].Name)

	assert.Equal(t, dataset.Text("a"), sheets[0].Grid[0][0])
	assert.Equal(t, dataset.Number(1.5), sheets[0].Grid[0][1])
	assert.Equal(t, dataset.Text("1,000"), sheets[1].Grid[0][1], "string cells stay text")
}

func TestExcelLoader_InvalidContainerIsLoadError(t *testing.T) {
	t.Parallel()

	_, err := (&ExcelLoader{}).Load(bytes.NewReader([]byte("definitely not a workbook")), "broken.xlsx")
	require.Error(t, err)

	var loadErr *LoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "broken.xlsx", loadErr.Source)
}

func TestCSVLoader_SingleSheetNamedAfterFile(t *testing.T) {
	t.Parallel()

	input := "\ufeff#,Title\n,Job No,Quantity/MT\n1,1.01.1,\"1,000\"\n"
	sheets, err := (&CSVLoader{}).Load(strings.NewReader(input), "/tmp/uploads/Acme Corp.csv")
	require.NoError(t, err)
	require.Len(t, sheets, 1)

	sheet := sheets[0]
	assert.Equal(t, "Acme Corp", sheet.Name)
	assert.Equal(t, dataset.Text("#"), sheet.Grid[0][0])
	assert.True(t, sheet.Grid[1][0].IsEmpty())
	assert.Equal(t, dataset.Text("1,000"), sheet.Grid[2][2])
}

func TestInferFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		source  string
		format  string
		want    string
		wantErr bool
	}{
		{source: "clients.xlsx", want: "excel"},
		{source: "CLIENTS.XLSM", want: "excel"},
		{source: "acme.csv", want: "csv"},
		{source: "upload.bin", format: "Excel", want: "excel"},
		{source: "notes.txt", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			got, err := InferFormat(tt.source, tt.format)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
