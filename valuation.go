package fairval

import (
	"errors"
	"fmt"
	"log"
	"math"
)

// CashFlowProjection is one projected year of free cash flow and its
// present value.
type CashFlowProjection struct {
	Year         int // 1-based offset from the statement date
	FCF          float64
	PresentValue float64
}

// Verdicts of a valuation against the market price.
const (
	Undervalued  = "undervalued"
	Overvalued   = "overvalued"
	FairlyPriced = "fairly priced"
)

// fairBand is the upside range, in percent points, considered fairly priced.
const fairBand = 2.0

// Valuation is the result of one DCF run. It is produced once and never
// mutated.
type Valuation struct {
	Ticker      string
	Date        Date // statement date the valuation is based on
	Assumptions Assumptions

	BaseFCF         float64
	Projection      []CashFlowProjection
	PVCashFlows     float64 // sum of discounted projected cash flows
	TerminalValue   float64 // undiscounted, at end of horizon
	PVTerminal      float64
	EnterpriseValue float64
	EquityValue     float64
	IntrinsicPrice  float64
	MarketPrice     float64 // 0 when no quote was available
}

// Upside is the intrinsic price premium over the market price.
func (v *Valuation) Upside() Percent {
	if v.MarketPrice <= 0 {
		return Percent(math.NaN())
	}
	return Percent((v.IntrinsicPrice - v.MarketPrice) / v.MarketPrice * 100)
}

// Verdict compares the intrinsic price to the market price, with a small
// band around zero considered fair.
func (v *Valuation) Verdict() string {
	up := float64(v.Upside())
	switch {
	case math.IsNaN(up):
		return "no market price to compare"
	case up > fairBand:
		return Undervalued
	case up < -fairBand:
		return Overvalued
	default:
		return FairlyPriced
	}
}

// Value runs the DCF model on the latest statement of a company.
//
// It is a pure function of its inputs: same statement, quote and
// assumptions always produce the same valuation. All failure modes are
// explicit: ErrInvalidAssumptions, ErrIncompleteData or ErrInvalidInput.
func Value(stmt FinancialStatement, quote Quote, a Assumptions) (*Valuation, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if err := stmt.Check(); err != nil {
		return nil, err
	}
	shares := stmt.SharesOutstanding
	if math.IsNaN(shares) || shares == 0 {
		shares = quote.SharesOutstanding
	}
	if math.IsNaN(shares) || shares <= 0 {
		return nil, fmt.Errorf("%s has no positive diluted shares outstanding: %w", quote.Ticker, ErrInvalidInput)
	}

	// Base-year unlevered free cash flow.
	base := stmt.OperatingIncome*(1-stmt.TaxRate) +
		stmt.DepreciationAmort -
		stmt.CapitalExpenditure -
		stmt.ChangeInWorkingCap

	v := &Valuation{
		Ticker:      quote.Ticker,
		Date:        stmt.Date,
		Assumptions: a,
		BaseFCF:     base,
		MarketPrice: quote.Price,
		Projection:  make([]CashFlowProjection, 0, a.Years),
	}

	// Project and discount the explicit horizon.
	fcf := base
	discount := 1.0
	for year := 1; year <= a.Years; year++ {
		fcf *= 1 + a.Growth.Rate(year)
		discount *= 1 + a.DiscountRate
		pv := fcf / discount
		v.Projection = append(v.Projection, CashFlowProjection{Year: year, FCF: fcf, PresentValue: pv})
		v.PVCashFlows += pv
	}

	// Terminal value by perpetuity growth, discounted like the final year.
	// Validate guarantees a strictly positive denominator.
	v.TerminalValue = fcf * (1 + a.TerminalGrowth) / (a.DiscountRate - a.TerminalGrowth)
	v.PVTerminal = v.TerminalValue / discount

	v.EnterpriseValue = v.PVCashFlows + v.PVTerminal
	netDebt := stmt.NetDebt
	if math.IsNaN(netDebt) {
		netDebt = 0 // no debt figure, value the operations alone
	}
	v.EquityValue = v.EnterpriseValue - netDebt
	v.IntrinsicPrice = v.EquityValue / shares
	return v, nil
}

// ValueHistory runs the model once per historical statement, most recent
// first. Periods with incomplete statements are skipped with a warning, so a
// single bad fiscal year does not void the whole series. Assumption or
// share-count failures abort, they would fail every period the same way.
func ValueHistory(stmts []FinancialStatement, quote Quote, a Assumptions) ([]*Valuation, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	var series []*Valuation
	for _, stmt := range Normalize(stmts) {
		v, err := Value(stmt, quote, a)
		if err != nil {
			if errors.Is(err, ErrIncompleteData) {
				log.Printf("skipping %s: %v", stmt.Date, err)
				continue
			}
			return nil, err
		}
		series = append(series, v)
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("no statement is complete enough to value %s: %w", quote.Ticker, ErrIncompleteData)
	}
	return series, nil
}
