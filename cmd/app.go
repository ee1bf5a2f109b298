// Package cmd implements the fv CLI to value listed companies.
package cmd

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/fairval"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&valueCmd{}, "valuation")
	c.Register(&historyCmd{}, "valuation")
	c.Register(&topicCmd{}, "documentation")
	c.Register(&assistCmd{}, "assistant")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

const fmp_api_key = "FMP_API_KEY"

var fmpApiFlag = flag.String("fmp-api-key", "", "FMP API key to use for fetching statements from financialmodelingprep.com.\n If missing it will read the environment variable \""+fmp_api_key+"\". You can get one at https://financialmodelingprep.com/")

// fmpApiKey retrieves the FMP API key from the command-line flag or the
// environment variable. It prioritizes the flag over the environment variable.
func fmpApiKey() string {
	if *fmpApiFlag == "" {
		*fmpApiFlag = os.Getenv(fmp_api_key)
	}
	return *fmpApiFlag
}

// printMarkdown renders a markdown report for the terminal. When rendering
// fails (dumb terminal, piped output quirks) the raw markdown is still
// readable, so it is printed as is.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// assumptionsFlags holds the valuation assumption flags shared by the value
// and history subcommands.
type assumptionsFlags struct {
	years    int
	growth   float64
	stages   string
	discount float64
	terminal float64
}

func (a *assumptionsFlags) SetFlags(f *flag.FlagSet) {
	def := fairval.DefaultAssumptions()
	f.IntVar(&a.years, "y", def.Years, "projection horizon in years")
	f.Float64Var(&a.growth, "g", float64(def.Growth.(fairval.FlatGrowth)), "flat yearly growth rate of free cash flow, e.g. 0.05")
	f.StringVar(&a.stages, "stages", "", "comma-separated growth rate per year, e.g. 0.08,0.06,0.04; overrides -g")
	f.Float64Var(&a.discount, "d", def.DiscountRate, "discount rate (WACC)")
	f.Float64Var(&a.terminal, "tg", def.TerminalGrowth, "terminal (perpetual) growth rate")
}

// parse turns the flags into validated assumptions.
func (a *assumptionsFlags) parse() (fairval.Assumptions, error) {
	assumptions := fairval.Assumptions{
		Growth:         fairval.FlatGrowth(a.growth),
		DiscountRate:   a.discount,
		TerminalGrowth: a.terminal,
		Years:          a.years,
	}
	if a.stages != "" {
		var staged fairval.StagedGrowth
		for _, s := range strings.Split(a.stages, ",") {
			rate, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return fairval.Assumptions{}, fmt.Errorf("invalid stage %q in -stages: %w", s, err)
			}
			staged = append(staged, rate)
		}
		assumptions.Growth = staged
	}
	return assumptions, assumptions.Validate()
}
