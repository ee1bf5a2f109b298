// Package fmp fetches company financial statements and quotes from the
// financialmodelingprep.com API.
//
// It speaks the v3 JSON endpoints (income-statement, balance-sheet-statement,
// cash-flow-statement, quote) and merges them by fiscal date into
// fairval.FinancialStatement values. The pre-v3 "financials" payloads are
// still supported for old-plan API keys, see FetchLegacy.
package fmp

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/etnz/fairval"
	"github.com/shopspring/decimal"
)

// apiBase is a variable so tests can point the client at a local server.
var apiBase = "https://financialmodelingprep.com/api/v3"

var (
	// ErrNotFound reports a ticker unknown to the provider.
	ErrNotFound = errors.New("ticker not found")
	// ErrRateLimited reports that the provider refused the call, daily free
	// quota exhausted or too many calls per minute.
	ErrRateLimited = errors.New("rate limited by provider")
)

// Fetch retrieves up to limit annual statements and the current quote for a
// ticker. Statements are returned normalized, most recent first. A figure
// the provider did not report is NaN in the resulting statement.
func Fetch(apiKey, ticker string, limit int) ([]fairval.FinancialStatement, fairval.Quote, error) {
	client := newDailyCachingClient()

	// one extra balance sheet, the working-capital fallback needs the
	// previous period.
	incomes, err := fetchIncomeStatements(client, apiKey, ticker, limit)
	if err != nil {
		return nil, fairval.Quote{}, fmt.Errorf("fetching income statements for %s: %w", ticker, err)
	}
	if len(incomes) == 0 {
		return nil, fairval.Quote{}, fmt.Errorf("no income statement for %q: %w", ticker, ErrNotFound)
	}
	balances, err := fetchBalanceSheets(client, apiKey, ticker, limit+1)
	if err != nil {
		return nil, fairval.Quote{}, fmt.Errorf("fetching balance sheets for %s: %w", ticker, err)
	}
	cashflows, err := fetchCashFlows(client, apiKey, ticker, limit)
	if err != nil {
		return nil, fairval.Quote{}, fmt.Errorf("fetching cash-flow statements for %s: %w", ticker, err)
	}
	quote, err := fetchQuote(client, apiKey, ticker)
	if err != nil {
		return nil, fairval.Quote{}, fmt.Errorf("fetching quote for %s: %w", ticker, err)
	}

	byDateBalance := make(map[fairval.Date]balanceInfo, len(balances))
	for _, b := range balances {
		byDateBalance[b.Date] = b
	}
	byDateCashFlow := make(map[fairval.Date]cashFlowInfo, len(cashflows))
	for _, c := range cashflows {
		byDateCashFlow[c.Date] = c
	}

	stmts := make([]fairval.FinancialStatement, 0, len(incomes))
	for _, inc := range incomes {
		cf := byDateCashFlow[inc.Date]
		bal := byDateBalance[inc.Date]

		stmt := fairval.FinancialStatement{
			Date:              inc.Date,
			Revenue:           fval(inc.Revenue),
			OperatingIncome:   fval(inc.OperatingIncome),
			TaxRate:           effectiveTaxRate(inc),
			SharesOutstanding: fval(inc.WeightedAverageShsOutDil),
			// FMP reports capex as a negative cash flow, the model wants the
			// outflow magnitude.
			CapitalExpenditure: -fval(cf.CapitalExpenditure),
			// Same for working capital: FMP reports the cash impact, the
			// model wants the increase that consumed the cash.
			ChangeInWorkingCap: -fval(cf.ChangeInWorkingCapital),
			DepreciationAmort:  fval(cf.DepreciationAndAmortization),
			NetDebt:            netDebt(bal),
		}
		if math.IsNaN(stmt.DepreciationAmort) {
			stmt.DepreciationAmort = fval(inc.DepreciationAndAmortization)
		}
		if math.IsNaN(stmt.ChangeInWorkingCap) {
			stmt.ChangeInWorkingCap = workingCapitalIncrease(balances, inc.Date)
		}
		stmts = append(stmts, stmt)
	}

	return fairval.Normalize(stmts), quote, nil
}

// effectiveTaxRate derives the historical effective rate from the income
// statement, NaN when pre-tax income is absent or zero.
func effectiveTaxRate(inc incomeInfo) float64 {
	tax, pretax := fval(inc.IncomeTaxExpense), fval(inc.IncomeBeforeTax)
	if math.IsNaN(tax) || math.IsNaN(pretax) || pretax == 0 {
		return math.NaN()
	}
	return tax / pretax
}

// netDebt is total debt minus cash & equivalents, NaN when the balance sheet
// does not carry both.
func netDebt(bal balanceInfo) float64 {
	debt, cash := fval(bal.TotalDebt), fval(bal.CashAndCashEquivalents)
	if math.IsNaN(debt) || math.IsNaN(cash) {
		return math.NaN()
	}
	return debt - cash
}

// workingCapitalIncrease derives the working-capital increase for the period
// ending 'on' from two consecutive balance sheets. balances are assumed
// most-recent-first as returned by the API.
func workingCapitalIncrease(balances []balanceInfo, on fairval.Date) float64 {
	for i, b := range balances {
		if b.Date != on || i+1 >= len(balances) {
			continue
		}
		prev := balances[i+1]
		wc := fval(b.TotalCurrentAssets) - fval(b.TotalCurrentLiabilities)
		pwc := fval(prev.TotalCurrentAssets) - fval(prev.TotalCurrentLiabilities)
		return wc - pwc
	}
	return math.NaN()
}

// fval converts an optional API figure, NaN when the field was absent.
func fval(d *decimal.Decimal) float64 {
	if d == nil {
		return math.NaN()
	}
	return d.InexactFloat64()
}

// fetchList GETs addr and decodes a JSON list. FMP reports some errors as a
// JSON object with an "Error Message" key even under a 200 status, those are
// surfaced instead of a decode failure.
func fetchList[T any](client *http.Client, addr string, out *[]T) error {
	var raw json.RawMessage
	if err := jwget(client, addr, &raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err == nil {
		return nil
	}
	var apiErr struct {
		Message string `json:"Error Message"`
	}
	if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Message != "" {
		if strings.Contains(strings.ToLower(apiErr.Message), "limit") {
			return fmt.Errorf("%s: %w", apiErr.Message, ErrRateLimited)
		}
		return errors.New(apiErr.Message)
	}
	return fmt.Errorf("unexpected payload: not a JSON list")
}
