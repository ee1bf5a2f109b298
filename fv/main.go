package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/fairval/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// completion describes the CLI for shell completion. Run
// `COMP_INSTALL=1 fv` once to install it.
var completion = &complete.Command{
	Sub: map[string]*complete.Command{
		"value": {
			Flags: map[string]complete.Predictor{
				"t":      predict.Something,
				"y":      predict.Something,
				"g":      predict.Something,
				"stages": predict.Something,
				"d":      predict.Something,
				"tg":     predict.Something,
				"chart":  predict.Nothing,
				"legacy": predict.Nothing,
			},
		},
		"history": {
			Flags: map[string]complete.Predictor{
				"t":      predict.Something,
				"years":  predict.Something,
				"y":      predict.Something,
				"g":      predict.Something,
				"stages": predict.Something,
				"d":      predict.Something,
				"tg":     predict.Something,
				"chart":  predict.Nothing,
				"legacy": predict.Nothing,
			},
		},
		"topic":  {},
		"assist": {},
		"help":   {},
	},
	Flags: map[string]complete.Predictor{
		"fmp-api-key": predict.Something,
	},
}

func main() {
	completion.Complete("fv")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
