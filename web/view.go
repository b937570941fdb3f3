package web

import (
	"gocargo/aggregate"
	"gocargo/storage"
)

type indexPageView struct {
	Title        string
	MaxUploadMB  int
	CanPersist   bool
	PersistByDef bool
	Runs         []storage.RunSummary
}

type errorPageView struct {
	Title   string
	Message string
	Sheets  []storage.SheetOutcome
}

type reportPageView struct {
	Title        string
	Source       string
	RunID        string
	Sheets       []storage.SheetOutcome
	Warnings     []string
	Cards        []aggregate.CurrencyCard
	Quantity     float64
	Summary      []aggregate.CurrencySummaryRow
	PivotHeaders []string
	PivotRows    [][]string
	Breakdowns   []breakdownView
	NoData       []string
	Profiles     []aggregate.ClientProfile
}

type breakdownView struct {
	Client string
	Bars   []barView
}

// barView is one commodity bar; Share is the fraction of the client total.
type barView struct {
	Label    string
	Quantity float64
	Share    float64
}

func buildReportPage(source, runID string, sheets []storage.SheetOutcome, report aggregate.Report, currencies []string) reportPageView {
	view := reportPageView{
		Title:        "Shipment report: " + source,
		Source:       source,
		RunID:        runID,
		Sheets:       sheets,
		Cards:        report.Totals.Cards(currencies),
		Quantity:     report.Totals.Quantity,
		Summary:      report.Summary,
		PivotHeaders: report.Pivot.Headers(),
		PivotRows:    report.Pivot.Rows(),
		Breakdowns:   make([]breakdownView, 0, len(report.Breakdowns)),
		NoData:       report.NoData,
		Profiles:     report.Profiles,
	}

	for _, breakdown := range report.Breakdowns {
		bars := make([]barView, 0, len(breakdown.Commodities))
		for _, commodity := range breakdown.Commodities {
			bars = append(bars, barView{Label: commodity.Commodity, Quantity: commodity.Quantity, Share: commodity.Share})
		}
		view.Breakdowns = append(view.Breakdowns, breakdownView{Client: breakdown.Client, Bars: bars})
	}
	return view
}
