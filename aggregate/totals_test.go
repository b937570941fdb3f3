package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"gocargo/dataset"
)

func TestComputeGlobalTotals(t *testing.T) {
	t.Parallel()

	table := combinedTable(
		shipment{"1.01.1", "Corn", 1000, 10.1, "USD", "Acme"},
		shipment{"1.01.2", "Corn", 500, 0.2, " usd ", "Acme"},
		shipment{"1.01.3", "Corn", 250, 7000, "EGP", "Beta"},
		shipment{"1.01.4", "Corn", 0.5, 99, nil, "Beta"},
	)

	totals := ComputeGlobalTotals(table, dataset.DefaultSchema())
	assert.Equal(t, 1750.5, totals.Quantity)
	assert.Equal(t, 10.3, totals.Invoice("USD"))
	assert.Equal(t, 10.3, totals.Invoice("usd"))
	assert.Equal(t, 7000.0, totals.Invoice("EGP"))
	assert.Equal(t, 0.0, totals.Invoice("EUR"))
	assert.Equal(t, []string{"EGP", "USD"}, totals.Currencies())
}

func TestComputeGlobalTotals_EmptyTable(t *testing.T) {
	t.Parallel()

	totals := ComputeGlobalTotals(dataset.NewTable("combined", shipmentColumns), dataset.DefaultSchema())
	assert.Equal(t, 0.0, totals.Quantity)
	assert.Empty(t, totals.Currencies())
	assert.Equal(t, 0.0, totals.Invoice("USD"))
}

func TestGlobalTotals_Cards(t *testing.T) {
	t.Parallel()

	totals := GlobalTotals{InvoiceByCurrency: map[string]float64{"USD": 12.5}}
	assert.Equal(t, []CurrencyCard{
		{Code: "USD", Amount: 12.5},
		{Code: "EGP", Amount: 0},
	}, totals.Cards([]string{" usd", "EGP"}))
}
