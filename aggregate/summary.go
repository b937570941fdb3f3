package aggregate

import (
	"sort"
	"strings"

	"gocargo/dataset"
)

type CurrencySummaryRow struct {
	Client        string  `json:"client"`
	Currency      string  `json:"currency"`
	Quantity      float64 `json:"quantity"`
	InvoiceAmount float64 `json:"invoiceAmount"`
}

type summaryKey struct {
	client   string
	currency string
}

// SummarizeByClientCurrency sums quantity and invoice amount per (client,
// currency), ordered by client then currency. Rows missing either key are not
// grouped. Groups with a blank currency and both totals zero are spreadsheet
// artifacts and are left out.
func SummarizeByClientCurrency(table dataset.Table, schema dataset.Schema) []CurrencySummaryRow {
	cols := resolveColumns(table, schema)

	type sums struct {
		quantity total
		invoice  total
	}
	groups := make(map[summaryKey]*sums)
	for _, row := range table.Rows {
		client := cell(row, cols.client)
		currency := cell(row, cols.currency)
		if client.IsEmpty() || currency.IsEmpty() {
			continue
		}

		key := summaryKey{client: client.String(), currency: currency.String()}
		group, ok := groups[key]
		if !ok {
			group = &sums{}
			groups[key] = group
		}
		group.quantity.add(number(row, cols.quantity))
		group.invoice.add(number(row, cols.invoice))
	}

	keys := make([]summaryKey, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].client == keys[j].client {
			return keys[i].currency < keys[j].currency
		}
		return keys[i].client < keys[j].client
	})

	out := make([]CurrencySummaryRow, 0, len(keys))
	for _, key := range keys {
		group := groups[key]
		row := CurrencySummaryRow{
			Client:        key.client,
			Currency:      key.currency,
			Quantity:      group.quantity.value(),
			InvoiceAmount: group.invoice.value(),
		}
		if isArtifactRow(row) {
			continue
		}
		out = append(out, row)
	}
	return out
}

func isArtifactRow(row CurrencySummaryRow) bool {
	return strings.TrimSpace(row.Currency) == "" && row.Quantity == 0 && row.InvoiceAmount == 0
}
