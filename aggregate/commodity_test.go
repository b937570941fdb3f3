package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gocargo/dataset"
)

func TestQuantityByCommodity_SortsDescendingWithStableTies(t *testing.T) {
	t.Parallel()

	table := combinedTable(
		shipment{"1.01.1", "Wheat", 10, 0, "USD", "Acme"},
		shipment{"1.01.2", "Corn", 30, 0, "USD", "Acme"},
		shipment{"1.01.3", "Barley", 10, 0, "USD", "Acme"},
		shipment{"1.01.4", "Corn", 10, 0, "USD", "Acme"},
		shipment{"1.01.5", nil, 99, 0, "USD", "Acme"},
		shipment{"1.01.6", "Corn", 500, 0, "USD", "Beta"},
	)

	got := QuantityByCommodity(table, dataset.DefaultSchema(), "Acme")
	require.Len(t, got, 3)
	assert.Equal(t, []string{"Corn", "Barley", "Wheat"}, []string{got[0].Commodity, got[1].Commodity, got[2].Commodity})
	assert.Equal(t, []float64{40, 10, 10}, []float64{got[0].Quantity, got[1].Quantity, got[2].Quantity})

	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Quantity, got[i].Quantity)
	}
	assert.InDelta(t, 2.0/3.0, got[0].Share, 1e-9)
	assert.InDelta(t, 1.0/6.0, got[1].Share, 1e-9)
}

func TestQuantityByCommodity_UnknownClient(t *testing.T) {
	t.Parallel()

	table := combinedTable(shipment{"1.01.1", "Corn", 10, 0, "USD", "Acme"})

	got := QuantityByCommodity(table, dataset.DefaultSchema(), "Nobody")
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestQuantityByCommodity_ZeroTotalHasZeroShare(t *testing.T) {
	t.Parallel()

	table := combinedTable(shipment{"1.01.1", "Corn", 0, 0, "USD", "Acme"})

	got := QuantityByCommodity(table, dataset.DefaultSchema(), "Acme")
	assert.Equal(t, []CommodityTotal{{Commodity: "Corn"}}, got)
}

func TestClients_FirstAppearanceOrder(t *testing.T) {
	t.Parallel()

	table := combinedTable(
		shipment{nil, nil, 0, 0, nil, "Zeta"},
		shipment{nil, nil, 0, 0, nil, "Acme"},
		shipment{nil, nil, 0, 0, nil, "Zeta"},
		shipment{nil, nil, 0, 0, nil, nil},
		shipment{nil, nil, 0, 0, nil, "Beta"},
	)

	assert.Equal(t, []string{"Zeta", "Acme", "Beta"}, Clients(table))
	assert.Empty(t, Clients(dataset.NewTable("x", []string{"job no"})))
}
