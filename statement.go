package fairval

import (
	"fmt"
	"math"
	"sort"
)

// FinancialStatement holds one fiscal period's reported figures, already
// merged from the income, balance-sheet and cash-flow statements.
//
// All amounts are in the company's reporting currency, as reported (not
// millions). A figure the provider did not report is NaN, never zero: the
// engine refuses to value a company on a silently-zeroed field.
type FinancialStatement struct {
	Date               Date
	Revenue            float64
	OperatingIncome    float64
	DepreciationAmort  float64
	CapitalExpenditure float64 // positive cash outflow
	ChangeInWorkingCap float64 // increase in working capital, positive consumes cash
	TaxRate            float64 // effective rate, as a ratio in [0,1)
	SharesOutstanding  float64 // diluted
	NetDebt            float64 // total debt - cash & equivalents, NaN when unknown
}

// Unknown is the canonical value for a figure the provider did not report.
func Unknown() float64 { return math.NaN() }

// Normalize sorts statements most-recent-first and returns the same slice.
// Providers disagree on ordering, the rest of the package relies on this one.
func Normalize(stmts []FinancialStatement) []FinancialStatement {
	sort.SliceStable(stmts, func(i, j int) bool { return stmts[i].Date.After(stmts[j].Date) })
	return stmts
}

// Check verifies that every figure the valuation model requires is present.
// It returns an error wrapping ErrIncompleteData naming the first missing field.
func (s FinancialStatement) Check() error {
	required := []struct {
		name  string
		value float64
	}{
		{"operating income", s.OperatingIncome},
		{"depreciation & amortization", s.DepreciationAmort},
		{"capital expenditure", s.CapitalExpenditure},
		{"change in working capital", s.ChangeInWorkingCap},
		{"tax rate", s.TaxRate},
	}
	for _, f := range required {
		if math.IsNaN(f.value) {
			return fmt.Errorf("statement %s is missing %s: %w", s.Date, f.name, ErrIncompleteData)
		}
	}
	if s.TaxRate < 0 || s.TaxRate >= 1 {
		return fmt.Errorf("statement %s has effective tax rate %v outside [0,1): %w", s.Date, s.TaxRate, ErrIncompleteData)
	}
	return nil
}

// Quote is the current market snapshot for a ticker.
type Quote struct {
	Ticker            string
	Price             float64
	SharesOutstanding float64 // fallback when the statement has no diluted count
}
