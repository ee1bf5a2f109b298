package fmp

import (
	"fmt"
	"net/http"

	"github.com/etnz/fairval"
	"github.com/shopspring/decimal"
)

// This file contains the typed fetchers, one per FMP v3 endpoint.
//
// Optional figures are decoded as *decimal.Decimal so that an absent field
// stays distinguishable from a reported zero.

// incomeInfo is one annual entry of the income-statement endpoint.
//
//	https://financialmodelingprep.com/api/v3/income-statement/AAPL?limit=5&apikey=demo
//	[
//	  {
//	    "date": "2024-09-28",
//	    "revenue": 391035000000,
//	    "operatingIncome": 123216000000,
//	    "depreciationAndAmortization": 11445000000,
//	    "incomeBeforeTax": 123485000000,
//	    "incomeTaxExpense": 29749000000,
//	    "weightedAverageShsOutDil": 15408095000,
//	    ...
//	  },
type incomeInfo struct {
	Date                        fairval.Date     `json:"date"`
	Revenue                     *decimal.Decimal `json:"revenue"`
	OperatingIncome             *decimal.Decimal `json:"operatingIncome"`
	DepreciationAndAmortization *decimal.Decimal `json:"depreciationAndAmortization"`
	IncomeBeforeTax             *decimal.Decimal `json:"incomeBeforeTax"`
	IncomeTaxExpense            *decimal.Decimal `json:"incomeTaxExpense"`
	WeightedAverageShsOutDil    *decimal.Decimal `json:"weightedAverageShsOutDil"`
}

func fetchIncomeStatements(client *http.Client, apiKey, ticker string, limit int) ([]incomeInfo, error) {
	addr := fmt.Sprintf("%s/income-statement/%s?limit=%d&apikey=%s", apiBase, ticker, limit, apiKey)
	var content []incomeInfo
	if err := fetchList(client, addr, &content); err != nil {
		return nil, err
	}
	return content, nil
}

// balanceInfo is one annual entry of the balance-sheet-statement endpoint.
//
//	{
//	  "date": "2024-09-28",
//	  "cashAndCashEquivalents": 29943000000,
//	  "totalCurrentAssets": 152987000000,
//	  "totalCurrentLiabilities": 176392000000,
//	  "totalDebt": 106629000000,
//	  ...
//	},
type balanceInfo struct {
	Date                    fairval.Date     `json:"date"`
	CashAndCashEquivalents  *decimal.Decimal `json:"cashAndCashEquivalents"`
	TotalCurrentAssets      *decimal.Decimal `json:"totalCurrentAssets"`
	TotalCurrentLiabilities *decimal.Decimal `json:"totalCurrentLiabilities"`
	TotalDebt               *decimal.Decimal `json:"totalDebt"`
}

func fetchBalanceSheets(client *http.Client, apiKey, ticker string, limit int) ([]balanceInfo, error) {
	addr := fmt.Sprintf("%s/balance-sheet-statement/%s?limit=%d&apikey=%s", apiBase, ticker, limit, apiKey)
	var content []balanceInfo
	if err := fetchList(client, addr, &content); err != nil {
		return nil, err
	}
	return content, nil
}

// cashFlowInfo is one annual entry of the cash-flow-statement endpoint.
//
//	{
//	  "date": "2024-09-28",
//	  "depreciationAndAmortization": 11445000000,
//	  "changeInWorkingCapital": 3651000000,
//	  "capitalExpenditure": -9447000000,
//	  ...
//	},
type cashFlowInfo struct {
	Date                        fairval.Date     `json:"date"`
	DepreciationAndAmortization *decimal.Decimal `json:"depreciationAndAmortization"`
	ChangeInWorkingCapital      *decimal.Decimal `json:"changeInWorkingCapital"`
	CapitalExpenditure          *decimal.Decimal `json:"capitalExpenditure"`
}

func fetchCashFlows(client *http.Client, apiKey, ticker string, limit int) ([]cashFlowInfo, error) {
	addr := fmt.Sprintf("%s/cash-flow-statement/%s?limit=%d&apikey=%s", apiBase, ticker, limit, apiKey)
	var content []cashFlowInfo
	if err := fetchList(client, addr, &content); err != nil {
		return nil, err
	}
	return content, nil
}

// quoteInfo is the single entry of the quote endpoint.
//
//	https://financialmodelingprep.com/api/v3/quote/AAPL?apikey=demo
//	[
//	  {
//	    "symbol": "AAPL",
//	    "price": 227.52,
//	    "sharesOutstanding": 15204100000,
//	    ...
//	  }
//	]
type quoteInfo struct {
	Symbol            string           `json:"symbol"`
	Price             *decimal.Decimal `json:"price"`
	SharesOutstanding *decimal.Decimal `json:"sharesOutstanding"`
}

func fetchQuote(client *http.Client, apiKey, ticker string) (fairval.Quote, error) {
	addr := fmt.Sprintf("%s/quote/%s?apikey=%s", apiBase, ticker, apiKey)
	var content []quoteInfo
	if err := fetchList(client, addr, &content); err != nil {
		return fairval.Quote{}, err
	}
	if len(content) == 0 {
		return fairval.Quote{}, fmt.Errorf("no quote for %q: %w", ticker, ErrNotFound)
	}
	return fairval.Quote{
		Ticker:            content[0].Symbol,
		Price:             fval(content[0].Price),
		SharesOutstanding: fval(content[0].SharesOutstanding),
	}, nil
}
