package aggregate

import (
	"fmt"

	"gocargo/dataset"
)

var shipmentColumns = []string{"job no", "commodity", "quantity/mt", "invoice amount", "currency", dataset.ClientColumn}

// shipment is one combined row: job no, commodity, quantity, invoice amount,
// currency, client. nil is a missing value.
type shipment [6]any

func combinedTable(rows ...shipment) dataset.Table {
	table := dataset.NewTable("combined", shipmentColumns)
	for _, values := range rows {
		row := make(dataset.Row, len(values))
		for i, value := range values {
			row[i] = toValue(value)
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func toValue(value any) dataset.Value {
	switch v := value.(type) {
	case nil:
		return dataset.Empty()
	case string:
		return dataset.Text(v)
	case float64:
		return dataset.Number(v)
	case int:
		return dataset.Number(float64(v))
	default:
		panic(fmt.Sprintf("unsupported fixture value %T", value))
	}
}
