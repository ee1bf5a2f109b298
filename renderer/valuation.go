package renderer

import (
	"fmt"
	"math"

	"github.com/etnz/fairval"
	"github.com/guptarohit/asciigraph"
)

// Valuation renders a full valuation report to a markdown string.
func Valuation(v *fairval.Valuation) string {
	partials := map[string]string{
		"valuation_assumptions": "valuation_assumptions.md",
		"valuation_projection":  "valuation_projection.md",
	}
	return renderTemplate("valuation", "valuation.md", partials, newValuationView(v))
}

// History renders a historical valuation series to a markdown string.
// The series is expected most-recent-first, as produced by ValueHistory.
func History(series []*fairval.Valuation) string {
	if len(series) == 0 {
		return ""
	}
	views := make([]*valuationView, len(series))
	for i, v := range series {
		views[i] = newValuationView(v)
	}
	return renderTemplate("history", "history.md", nil, views)
}

// Chart renders the projected free cash flows (year 0 is the base year) as a
// text chart in a fenced code block.
func Chart(v *fairval.Valuation) string {
	series := make([]float64, 0, len(v.Projection)+1)
	series = append(series, v.BaseFCF)
	for _, p := range v.Projection {
		series = append(series, p.FCF)
	}
	graph := asciigraph.Plot(series,
		asciigraph.Height(10),
		asciigraph.Width(60),
		asciigraph.Caption(fmt.Sprintf("%s projected free cash flow, years 0 to %d", v.Ticker, len(v.Projection))))
	return "```\n" + graph + "\n```\n"
}

// HistoryChart renders the intrinsic price per statement year, oldest on the
// left.
func HistoryChart(series []*fairval.Valuation) string {
	if len(series) < 2 {
		return ""
	}
	prices := make([]float64, len(series))
	for i, v := range series {
		prices[len(series)-1-i] = v.IntrinsicPrice
	}
	graph := asciigraph.Plot(prices,
		asciigraph.Height(10),
		asciigraph.Width(60),
		asciigraph.Caption(fmt.Sprintf("%s intrinsic price, %d to %d",
			series[0].Ticker, series[len(series)-1].Date.Year(), series[0].Date.Year())))
	return "```\n" + graph + "\n```\n"
}

// valuationView is the template-facing form of a valuation, everything
// preformatted.
type valuationView struct {
	Ticker         string
	Date           string
	Growth         string
	DiscountRate   fairval.Percent
	TerminalGrowth fairval.Percent
	Years          int

	BaseFCF     string
	Rows        []projectionRow
	PVCashFlows string

	TerminalValue   string
	PVTerminal      string
	EnterpriseValue string
	EquityValue     string
	IntrinsicPrice  string
	MarketPrice     string
	Upside          string
	Verdict         string
}

type projectionRow struct {
	Year string // calendar year, e.g. "2026"
	FCF  string
	PV   string
}

// reports are always rendered in the provider's reporting currency.
const reportCurrency = "USD"

func newValuationView(v *fairval.Valuation) *valuationView {
	view := &valuationView{
		Ticker:          v.Ticker,
		Date:            v.Date.String(),
		Growth:          v.Assumptions.Growth.String(),
		DiscountRate:    fairval.Percent(v.Assumptions.DiscountRate * 100),
		TerminalGrowth:  fairval.Percent(v.Assumptions.TerminalGrowth * 100),
		Years:           v.Assumptions.Years,
		BaseFCF:         usd(v.BaseFCF),
		PVCashFlows:     usd(v.PVCashFlows),
		TerminalValue:   usd(v.TerminalValue),
		PVTerminal:      usd(v.PVTerminal),
		EnterpriseValue: usd(v.EnterpriseValue),
		EquityValue:     usd(v.EquityValue),
		IntrinsicPrice:  usd(v.IntrinsicPrice),
		MarketPrice:     usd(v.MarketPrice),
		Upside:          v.Upside().SignedString(),
		Verdict:         v.Verdict(),
	}
	if v.MarketPrice <= 0 || math.IsNaN(v.MarketPrice) {
		view.MarketPrice = "n/a"
		view.Upside = "n/a"
	}
	for _, p := range v.Projection {
		view.Rows = append(view.Rows, projectionRow{
			Year: fmt.Sprintf("%d", v.Date.Year()+p.Year),
			FCF:  usd(p.FCF),
			PV:   usd(p.PresentValue),
		})
	}
	return view
}

func usd(value float64) string {
	if math.IsNaN(value) {
		return "n/a"
	}
	return fairval.M(value, reportCurrency).String()
}
