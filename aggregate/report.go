package aggregate

import (
	"fmt"

	"gocargo/dataset"
)

// Report bundles every view computed from one combined dataset.
type Report struct {
	Clients    []string             `json:"clients"`
	Summary    []CurrencySummaryRow `json:"summary"`
	Pivot      JobIDPivot           `json:"pivot"`
	Breakdowns []ClientBreakdown    `json:"breakdowns"`
	// NoData lists clients without any commodity rows; they have no breakdown.
	NoData   []string        `json:"noData"`
	Totals   GlobalTotals    `json:"totals"`
	Profiles []ClientProfile `json:"profiles"`
}

func BuildReport(table dataset.Table, schema dataset.Schema) (Report, error) {
	report := Report{
		Clients:    Clients(table),
		Summary:    SummarizeByClientCurrency(table, schema),
		Pivot:      FirstJobIDByClientPivot(table, schema),
		Breakdowns: []ClientBreakdown{},
		NoData:     []string{},
		Totals:     ComputeGlobalTotals(table, schema),
	}

	for _, client := range report.Clients {
		commodities := QuantityByCommodity(table, schema, client)
		if len(commodities) == 0 {
			report.NoData = append(report.NoData, client)
			continue
		}
		report.Breakdowns = append(report.Breakdowns, ClientBreakdown{Client: client, Commodities: commodities})
	}

	profiles, err := ProfileClients(table, schema)
	if err != nil {
		return Report{}, fmt.Errorf("build report: %w", err)
	}
	report.Profiles = profiles
	return report, nil
}
