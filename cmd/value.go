package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/fairval"
	"github.com/etnz/fairval/fmp"
	"github.com/etnz/fairval/renderer"
	"github.com/google/subcommands"
)

// valueCmd holds the flags for the 'value' subcommand.
type valueCmd struct {
	ticker string
	chart  bool
	legacy bool
	assumptionsFlags
}

func (*valueCmd) Name() string     { return "value" }
func (*valueCmd) Synopsis() string { return "compute the DCF intrinsic value of a company" }
func (*valueCmd) Usage() string {
	return `fv value -t <ticker> [-y <years>] [-g <growth> | -stages <r1,r2,...>] [-d <discount>] [-tg <terminal>] [-chart]

  Fetches the latest annual statements and the current quote, runs a
  two-stage DCF, and prints the valuation report.

  Requires the ` + fmp_api_key + ` environment variable to be set or passed as a flag.

Usage Examples:
# Value Apple with the default assumptions.
$ fv value -t AAPL

# A declining growth schedule and a stricter discount rate.
$ fv value -t AAPL -stages 0.08,0.06,0.05,0.04,0.03 -d 0.12

`
}

func (c *valueCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "t", "", "ticker symbol of the company to value")
	f.BoolVar(&c.chart, "chart", false, "also plot the projected free cash flows")
	f.BoolVar(&c.legacy, "legacy", false, "use the pre-v3 FMP endpoints (old-plan API keys)")
	c.assumptionsFlags.SetFlags(f)
}

func (c *valueCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ticker == "" {
		fmt.Fprintf(os.Stderr, "Error: a ticker is required, e.g. fv value -t AAPL\n")
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
	// the working-capital fallback needs the previous period too.
	stmts, quote, err := fetch(key, ticker, 2)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching %s: %v\n", ticker, err)
		return subcommands.ExitFailure
	}

	v, err := fairval.Value(stmts[0], quote, assumptions)
	if err != nil {
		if errors.Is(err, fairval.ErrInvalidAssumptions) {
			fmt.Fprintf(os.Stderr, "Error in assumptions: %v\n", err)
			return subcommands.ExitUsageError
		}
		fmt.Fprintf(os.Stderr, "Error valuing %s: %v\n", ticker, err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.Valuation(v))
	if c.chart {
		fmt.Print(renderer.Chart(v))
	}
	return subcommands.ExitSuccess
}
