package aggregate

import (
	"sort"
	"strings"

	"gocargo/dataset"
)

type GlobalTotals struct {
	Quantity          float64            `json:"quantity"`
	InvoiceByCurrency map[string]float64 `json:"invoiceByCurrency"`
}

// NormalizeCurrency is the lookup form of a currency code.
func NormalizeCurrency(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Invoice returns the invoice total for a currency code, 0 when absent.
func (g GlobalTotals) Invoice(code string) float64 {
	return g.InvoiceByCurrency[NormalizeCurrency(code)]
}

// Currencies returns the normalized codes present, sorted.
func (g GlobalTotals) Currencies() []string {
	codes := make([]string, 0, len(g.InvoiceByCurrency))
	for code := range g.InvoiceByCurrency {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// ComputeGlobalTotals sums quantity over every row and invoice amount per
// normalized currency code. Rows without a currency do not contribute to any
// invoice total.
func ComputeGlobalTotals(table dataset.Table, schema dataset.Schema) GlobalTotals {
	cols := resolveColumns(table, schema)

	var quantity total
	invoices := make(map[string]*total)
	for _, row := range table.Rows {
		quantity.add(number(row, cols.quantity))

		currency := cell(row, cols.currency)
		if currency.IsEmpty() {
			continue
		}
		code := NormalizeCurrency(currency.String())
		sum, ok := invoices[code]
		if !ok {
			sum = &total{}
			invoices[code] = sum
		}
		sum.add(number(row, cols.invoice))
	}

	totals := GlobalTotals{
		Quantity:          quantity.value(),
		InvoiceByCurrency: make(map[string]float64, len(invoices)),
	}
	for code, sum := range invoices {
		totals.InvoiceByCurrency[code] = sum.value()
	}
	return totals
}

// CurrencyCard is one headline invoice total.
type CurrencyCard struct {
	Code   string  `json:"code"`
	Amount float64 `json:"amount"`
}

// Cards returns one card per requested code, in the requested order. Codes
// with no rows get a zero amount.
func (g GlobalTotals) Cards(codes []string) []CurrencyCard {
	cards := make([]CurrencyCard, 0, len(codes))
	for _, code := range codes {
		cards = append(cards, CurrencyCard{Code: NormalizeCurrency(code), Amount: g.Invoice(code)})
	}
	return cards
}
