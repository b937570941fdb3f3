package aggregate

import (
	"sort"

	"gocargo/dataset"
)

type CommodityTotal struct {
	Commodity string  `json:"commodity"`
	Quantity  float64 `json:"quantity"`
	Share     float64 `json:"share"`
}

type ClientBreakdown struct {
	Client      string           `json:"client"`
	Commodities []CommodityTotal `json:"commodities"`
}

// Clients lists the distinct client names in order of first appearance.
func Clients(table dataset.Table) []string {
	index, ok := table.ColumnIndex(dataset.ClientColumn)
	if !ok {
		return []string{}
	}

	seen := make(map[string]struct{})
	clients := make([]string, 0, 16)
	for _, row := range table.Rows {
		value := row.At(index)
		if value.IsEmpty() {
			continue
		}
		name := value.String()
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		clients = append(clients, name)
	}
	return clients
}

// QuantityByCommodity sums quantity per commodity for one client, largest
// first. Ties keep commodity name order. Rows without a commodity are not
// counted. An unknown client yields an empty slice.
func QuantityByCommodity(table dataset.Table, schema dataset.Schema, client string) []CommodityTotal {
	cols := resolveColumns(table, schema)

	groups := make(map[string]*total)
	for _, row := range table.Rows {
		if cell(row, cols.client).String() != client {
			continue
		}
		commodity := cell(row, cols.commodity)
		if commodity.IsEmpty() {
			continue
		}

		name := commodity.String()
		group, ok := groups[name]
		if !ok {
			group = &total{}
			groups[name] = group
		}
		group.add(number(row, cols.quantity))
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	var clientTotal total
	out := make([]CommodityTotal, 0, len(names))
	for _, name := range names {
		quantity := groups[name].value()
		clientTotal.add(quantity)
		out = append(out, CommodityTotal{Commodity: name, Quantity: quantity})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Quantity > out[j].Quantity
	})

	if sum := clientTotal.value(); sum != 0 {
		for i := range out {
			out[i].Share = out[i].Quantity / sum
		}
	}
	return out
}
