// Command flc is the folio ledger CLI.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/tdhoang/folio/cmd"
)

// completion describes the command tree for shell completion. Install with
// COMP_INSTALL=1 flc.
func completion() *complete.Command {
	dateFlag := map[string]complete.Predictor{"d": predict.Something}
	reportFlags := dateFlag
	txFlags := map[string]complete.Predictor{
		"d": predict.Something,
		"a": predict.Something,
		"s": predict.Something,
		"m": predict.Something,
	}
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"ledger-file": predict.Files("*.jsonl"),
			"currency":    predict.Set{"USD", "EUR", "GBP", "JPY", "KRW"},
		},
		Sub: map[string]*complete.Command{
			"deposit":  {Flags: txFlags},
			"withdraw": {Flags: txFlags},
			"buy":      {Flags: txFlags},
			"sell":     {Flags: txFlags},
			"dividend": {Flags: txFlags},
			"fee":      {Flags: txFlags},
			"pnl":      {Flags: txFlags},
			"snapshot": {Flags: txFlags},

			"summary":   {Flags: reportFlags},
			"cycles":    {Flags: reportFlags},
			"inventory": {Flags: reportFlags},
			"warnings":  {Flags: reportFlags},
			"log":       {Flags: reportFlags},
			"nav":       {Flags: reportFlags},

			"fmt":    {},
			"import": {Flags: map[string]complete.Predictor{"mapping": predict.Files("*.json")}},
			"assist": {Flags: dateFlag},
		},
	}
}

func main() {
	completion().Complete(path.Base(os.Args[0]))

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
