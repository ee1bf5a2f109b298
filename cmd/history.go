package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/fairval"
	"github.com/etnz/fairval/fmp"
	"github.com/etnz/fairval/renderer"
	"github.com/google/subcommands"
)

// historyCmd holds the flags for the 'history' subcommand.
type historyCmd struct {
	ticker string
	years  int
	chart  bool
	legacy bool
	assumptionsFlags
}

func (*historyCmd) Name() string { return "history" }
func (*historyCmd) Synopsis() string {
	return "recompute the DCF intrinsic value from each past annual statement"
}
func (*historyCmd) Usage() string {
	return `fv history -t <ticker> [-years <n>] [valuation flags]

  Runs the same DCF once per past annual statement, showing how the model's
  intrinsic price evolved with the company's reported figures.

  Requires the ` + fmp_api_key + ` environment variable to be set or passed as a flag.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "t", "", "ticker symbol of the company to value")
	f.IntVar(&c.years, "years", 5, "number of past annual statements to value")
	f.BoolVar(&c.chart, "chart", false, "also plot the intrinsic price per year")
	f.BoolVar(&c.legacy, "legacy", false, "use the pre-v3 FMP endpoints (old-plan API keys)")
	c.assumptionsFlags.SetFlags(f)
}

func (c *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ticker == "" {
		fmt.Fprintf(os.Stderr, "Error: a ticker is required, e.g. fv history -t AAPL\n")
		return subcommands.ExitUsageError
	}
	if c.years < 1 {
		fmt.Fprintf(os.Stderr, "Error: -years must be at least 1\n")
		return subcommands.ExitUsageError
	}
	key := fmpApiKey()
	if key == "" {
		fmt.Fprintf(os.Stderr, "Error: FMP API key is not set. Use -fmp-api-key flag or "+fmp_api_key+" environment variable\n")
		return subcommands.ExitFailure
	}
	assumptions, err := c.parse()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error in assumptions: %v\n", err)
		return subcommands.ExitUsageError
	}

	ticker := strings.ToUpper(c.ticker)
	fetch := fmp.Fetch
	if c.legacy {
		fetch = fmp.FetchLegacy
	}
	stmts, quote, err := fetch(key, ticker, c.years)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching %s: %v\n", ticker, err)
		return subcommands.ExitFailure
	}

	series, err := fairval.ValueHistory(stmts, quote, assumptions)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error valuing %s: %v\n", ticker, err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.History(series))
	if c.chart {
		fmt.Print(renderer.HistoryChart(series))
	}
	return subcommands.ExitSuccess
}
