package fmp

import (
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// serve installs an httptest server answering each path prefix with a fixed
// body, points the package at it, and restores apiBase on cleanup.
func serve(t *testing.T, fixtures map[string]string) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for prefix, body := range fixtures {
			if strings.HasPrefix(r.URL.Path, prefix) {
				w.Write([]byte(body))
				return
			}
		}
		http.NotFound(w, r)
	}))
	old := apiBase
	apiBase = srv.URL
	t.Cleanup(func() {
		apiBase = old
		srv.Close()
	})
}

const (
	incomeFixture = `[
	 {"date":"2024-12-31","revenue":500,"operatingIncome":100,"depreciationAndAmortization":10,"incomeBeforeTax":100,"incomeTaxExpense":25,"weightedAverageShsOutDil":100},
	 {"date":"2023-12-31","revenue":450,"operatingIncome":90,"depreciationAndAmortization":9,"incomeBeforeTax":90,"incomeTaxExpense":18,"weightedAverageShsOutDil":100}
	]`
	balanceFixture = `[
	 {"date":"2024-12-31","cashAndCashEquivalents":30,"totalDebt":130,"totalCurrentAssets":150,"totalCurrentLiabilities":50},
	 {"date":"2023-12-31","cashAndCashEquivalents":25,"totalDebt":120,"totalCurrentAssets":140,"totalCurrentLiabilities":50},
	 {"date":"2022-12-31","cashAndCashEquivalents":20,"totalDebt":110,"totalCurrentAssets":130,"totalCurrentLiabilities":50}
	]`
	// 2023 has no changeInWorkingCapital, it must be rebuilt from the
	// consecutive balance sheets.
	cashFlowFixture = `[
	 {"date":"2024-12-31","depreciationAndAmortization":10,"changeInWorkingCapital":-5,"capitalExpenditure":-20},
	 {"date":"2023-12-31","depreciationAndAmortization":9,"capitalExpenditure":-18}
	]`
	quoteFixture = `[{"symbol":"TEST","price":7.0,"sharesOutstanding":100}]`
)

func TestFetch(t *testing.T) {
	serve(t, map[string]string{
		"/income-statement/":        incomeFixture,
		"/balance-sheet-statement/": balanceFixture,
		"/cash-flow-statement/":     cashFlowFixture,
		"/quote/":                   quoteFixture,
	})

	stmts, quote, err := Fetch("testkey", "TEST", 2)
	if err != nil {
		t.Fatalf("Fetch() unexpected error = %v", err)
	}

	if quote.Ticker != "TEST" || quote.Price != 7.0 || quote.SharesOutstanding != 100 {
		t.Errorf("Fetch() quote = %+v, want TEST at 7.0 with 100 shares", quote)
	}
	if len(stmts) != 2 {
		t.Fatalf("Fetch() returned %d statements, want 2", len(stmts))
	}

	s := stmts[0]
	if s.Date.Year() != 2024 {
		t.Fatalf("Fetch() first statement is %s, want the 2024 one", s.Date)
	}
	if s.OperatingIncome != 100 || s.Revenue != 500 {
		t.Errorf("Fetch() 2024 income = %v/%v, want 100/500", s.OperatingIncome, s.Revenue)
	}
	if s.TaxRate != 0.25 {
		t.Errorf("Fetch() 2024 tax rate = %v, want 0.25", s.TaxRate)
	}
	// FMP reports capex -20 and working-capital impact -5, the statement
	// carries the outflow and the increase.
	if s.CapitalExpenditure != 20 {
		t.Errorf("Fetch() 2024 capex = %v, want 20", s.CapitalExpenditure)
	}
	if s.ChangeInWorkingCap != 5 {
		t.Errorf("Fetch() 2024 working-capital increase = %v, want 5", s.ChangeInWorkingCap)
	}
	if s.NetDebt != 100 {
		t.Errorf("Fetch() 2024 net debt = %v, want 130-30", s.NetDebt)
	}
	if s.SharesOutstanding != 100 {
		t.Errorf("Fetch() 2024 shares = %v, want 100", s.SharesOutstanding)
	}

	// 2023 working capital comes from the balance sheets:
	// (140-50) - (130-50) = 10.
	p := stmts[1]
	if p.Date.Year() != 2023 {
		t.Fatalf("Fetch() second statement is %s, want the 2023 one", p.Date)
	}
	if p.ChangeInWorkingCap != 10 {
		t.Errorf("Fetch() 2023 working-capital increase = %v, want 10 from the balance sheets", p.ChangeInWorkingCap)
	}
	if p.TaxRate != 0.2 {
		t.Errorf("Fetch() 2023 tax rate = %v, want 0.2", p.TaxRate)
	}
}

func TestFetchMissingFieldIsNaN(t *testing.T) {
	serve(t, map[string]string{
		"/income-statement/":        `[{"date":"2024-12-31","revenue":500}]`,
		"/balance-sheet-statement/": `[]`,
		"/cash-flow-statement/":     `[]`,
		"/quote/":                   quoteFixture,
	})

	stmts, _, err := Fetch("testkey", "TEST", 1)
	if err != nil {
		t.Fatalf("Fetch() unexpected error = %v", err)
	}
	s := stmts[0]
	for name, v := range map[string]float64{
		"OperatingIncome":    s.OperatingIncome,
		"TaxRate":            s.TaxRate,
		"CapitalExpenditure": s.CapitalExpenditure,
		"ChangeInWorkingCap": s.ChangeInWorkingCap,
		"DepreciationAmort":  s.DepreciationAmort,
		"NetDebt":            s.NetDebt,
	} {
		if !math.IsNaN(v) {
			t.Errorf("Fetch() %s = %v, want NaN for an unreported figure", name, v)
		}
	}
	if s.Revenue != 500 {
		t.Errorf("Fetch() Revenue = %v, want 500", s.Revenue)
	}
}

func TestFetchUnknownTicker(t *testing.T) {
	serve(t, map[string]string{
		"/income-statement/": `[]`,
	})
	if _, _, err := Fetch("testkey", "NOPE", 2); !errors.Is(err, ErrNotFound) {
		t.Errorf("Fetch() error = %v, want ErrNotFound", err)
	}
}

func TestFetchErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"not found", http.StatusNotFound, ErrNotFound},
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			old := apiBase
			apiBase = srv.URL
			t.Cleanup(func() {
				apiBase = old
				srv.Close()
			})

			if _, _, err := Fetch("testkey", "TEST", 2); !errors.Is(err, tt.want) {
				t.Errorf("Fetch() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFetchQuotaErrorMessage(t *testing.T) {
	// FMP reports quota exhaustion as a 200 with an error object.
	serve(t, map[string]string{
		"/income-statement/": `{"Error Message":"Limit Reach. Please upgrade your plan."}`,
	})
	if _, _, err := Fetch("testkey", "TEST", 2); !errors.Is(err, ErrRateLimited) {
		t.Errorf("Fetch() error = %v, want ErrRateLimited", err)
	}
}
