package fmp

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/fairval"
)

/*
	The pre-v3 endpoints wrap statements in a "financials" list whose column
	names are display labels, and figures come back as strings as often as
	numbers:

	{
	    "symbol": "AAPL",
	    "financials": [
	        {
	            "date": "2019-09-28",
	            "EBIT": "63930000000.0",
	            "Income Tax Expense": "10481000000.0",
	            "Earnings before Tax": "65737000000.0",
	            ...
	        },
*/

// FetchLegacy is Fetch for old-plan API keys that only see the pre-v3
// "financials" endpoints. Same contract as Fetch.
func FetchLegacy(apiKey, ticker string, limit int) ([]fairval.FinancialStatement, fairval.Quote, error) {
	client := newDailyCachingClient()

	incomes, err := legacyFinancials(client, apiKey, "income-statement", ticker)
	if err != nil {
		return nil, fairval.Quote{}, fmt.Errorf("fetching legacy income statements for %s: %w", ticker, err)
	}
	if len(incomes) == 0 {
		return nil, fairval.Quote{}, fmt.Errorf("no income statement for %q: %w", ticker, ErrNotFound)
	}
	balances, err := legacyFinancials(client, apiKey, "balance-sheet-statement", ticker)
	if err != nil {
		return nil, fairval.Quote{}, fmt.Errorf("fetching legacy balance sheets for %s: %w", ticker, err)
	}
	cashflows, err := legacyFinancials(client, apiKey, "cash-flow-statement", ticker)
	if err != nil {
		return nil, fairval.Quote{}, fmt.Errorf("fetching legacy cash-flow statements for %s: %w", ticker, err)
	}
	evs, quote, err := legacyEnterpriseValues(client, apiKey, ticker)
	if err != nil {
		return nil, fairval.Quote{}, fmt.Errorf("fetching legacy enterprise values for %s: %w", ticker, err)
	}
	quote.Ticker = ticker

	byDate := func(rows []map[string]any) map[string]map[string]any {
		m := make(map[string]map[string]any, len(rows))
		for _, r := range rows {
			if d, ok := r["date"].(string); ok {
				m[d] = r
			}
		}
		return m
	}
	cashflowAt := byDate(cashflows)
	evAt := byDate(evs)

	if limit > len(incomes) {
		limit = len(incomes)
	}
	stmts := make([]fairval.FinancialStatement, 0, limit)
	for i, inc := range incomes[:limit] {
		dateStr, _ := inc["date"].(string)
		date, err := fairval.ParseDate(dateStr)
		if err != nil {
			return nil, fairval.Quote{}, fmt.Errorf("legacy income statement %d has no usable date: %w", i, err)
		}
		cf := cashflowAt[dateStr]
		ev := evAt[dateStr]

		stmt := fairval.FinancialStatement{
			Date:            date,
			Revenue:         num(inc, "Revenue"),
			OperatingIncome: num(inc, "EBIT"),
			TaxRate:         legacyTaxRate(inc),
			// legacy capex is a negative cash flow as well
			CapitalExpenditure: -num(cf, "Capital Expenditure"),
			DepreciationAmort:  num(cf, "Depreciation & Amortization"),
			ChangeInWorkingCap: legacyWorkingCapitalIncrease(balances, i),
			SharesOutstanding:  num(ev, "Number of Shares"),
			NetDebt:            num(ev, "+ Total Debt") - num(ev, "- Cash & Cash Equivalents"),
		}
		stmts = append(stmts, stmt)
	}

	return fairval.Normalize(stmts), quote, nil
}

// legacyFinancials fetches one legacy statement list, e.g.
// /financials/income-statement/AAPL, and returns its raw rows most recent
// first, as the API serves them.
func legacyFinancials(client *http.Client, apiKey, statement, ticker string) ([]map[string]any, error) {
	addr := fmt.Sprintf("%s/financials/%s/%s?apikey=%s", apiBase, statement, ticker, apiKey)
	var jobj any
	if err := jwget(client, addr, &jobj); err != nil {
		return nil, err
	}
	return rows(jobj, "$.financials")
}

// legacyEnterpriseValues fetches the enterprise-value statement, which also
// carries the stock price and share count used as the quote.
func legacyEnterpriseValues(client *http.Client, apiKey, ticker string) ([]map[string]any, fairval.Quote, error) {
	addr := fmt.Sprintf("%s/enterprise-value/%s?apikey=%s", apiBase, ticker, apiKey)
	var jobj any
	if err := jwget(client, addr, &jobj); err != nil {
		return nil, fairval.Quote{}, err
	}
	evs, err := rows(jobj, "$.enterpriseValues")
	if err != nil {
		return nil, fairval.Quote{}, err
	}
	if len(evs) == 0 {
		return nil, fairval.Quote{}, fmt.Errorf("no enterprise value for %q: %w", ticker, ErrNotFound)
	}
	quote := fairval.Quote{
		Price:             num(evs[0], "Stock Price"),
		SharesOutstanding: num(evs[0], "Number of Shares"),
	}
	return evs, quote, nil
}

// rows extracts a list of objects at a jsonpath.
func rows(jobj any, path string) ([]map[string]any, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("error parsing legacy payload at %q: %w", path, err)
	}
	jlist, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("error parsing legacy payload at %q: not a list but %T", path, jval)
	}
	result := make([]map[string]any, 0, len(jlist))
	for _, v := range jlist {
		if m, ok := v.(map[string]any); ok {
			result = append(result, m)
		}
	}
	return result, nil
}

// num reads a numeric column from a legacy row. This weird API returns the
// value as a string whenever it feels like it, so both forms are accepted.
// Missing columns, nil rows and unparsable values all read as NaN.
func num(row map[string]any, column string) float64 {
	jval, ok := row[column]
	if !ok {
		return math.NaN()
	}
	if val, ok := jval.(float64); ok {
		return val
	}
	sval, ok := jval.(string)
	if !ok {
		return math.NaN()
	}
	sval = strings.ReplaceAll(sval, ",", ".")
	sval = strings.ReplaceAll(sval, " ", "")
	if sval == "" {
		return math.NaN()
	}
	val, err := strconv.ParseFloat(sval, 64)
	if err != nil {
		return math.NaN()
	}
	return val
}

// legacyTaxRate derives the effective tax rate from a legacy income row.
func legacyTaxRate(inc map[string]any) float64 {
	tax := num(inc, "Income Tax Expense")
	pretax := num(inc, "Earnings before Tax")
	if math.IsNaN(tax) || math.IsNaN(pretax) || pretax == 0 {
		return math.NaN()
	}
	return tax / pretax
}

// legacyWorkingCapitalIncrease derives the working-capital increase for row i
// from two consecutive legacy balance sheets, using current assets as total
// minus non-current (the legacy sheets have no direct current-assets column).
func legacyWorkingCapitalIncrease(balances []map[string]any, i int) float64 {
	if i+1 >= len(balances) {
		return math.NaN()
	}
	wc := num(balances[i], "Total assets") - num(balances[i], "Total non-current assets")
	pwc := num(balances[i+1], "Total assets") - num(balances[i+1], "Total non-current assets")
	return wc - pwc
}
