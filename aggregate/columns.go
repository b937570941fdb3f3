package aggregate

import (
	"math"

	"github.com/shopspring/decimal"

	"gocargo/dataset"
)

// columns holds the resolved positions of the schema columns in one table;
// -1 marks an absent column, which reads as empty on every row.
type columns struct {
	client    int
	jobNo     int
	quantity  int
	invoice   int
	currency  int
	commodity int
}

func resolveColumns(table dataset.Table, schema dataset.Schema) columns {
	index := func(name string) int {
		position, ok := table.ColumnIndex(name)
		if !ok {
			return -1
		}
		return position
	}
	return columns{
		client:    index(dataset.ClientColumn),
		jobNo:     index(schema.JobNo),
		quantity:  index(schema.Quantity),
		invoice:   index(schema.InvoiceAmount),
		currency:  index(schema.Currency),
		commodity: index(schema.Commodity),
	}
}

func cell(row dataset.Row, index int) dataset.Value {
	if index < 0 {
		return dataset.Empty()
	}
	return row.At(index)
}

func number(row dataset.Row, index int) float64 {
	value, ok := cell(row, index).Float()
	if !ok {
		return 0
	}
	return value
}

// total accumulates in decimal so long columns of two-digit amounts do not
// drift.
type total struct {
	sum decimal.Decimal
}

func (t *total) add(value float64) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return
	}
	t.sum = t.sum.Add(decimal.NewFromFloat(value))
}

func (t total) value() float64 {
	return t.sum.InexactFloat64()
}
