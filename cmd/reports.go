package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/tdhoang/folio"
	"github.com/tdhoang/folio/renderer"
)

// report decodes the ledger and builds the projection as of the given date.
func report(date string) (*folio.Report, subcommands.ExitStatus) {
	on, ok := parseDay(date)
	if !ok {
		return nil, subcommands.ExitUsageError
	}
	events, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading ledger %q: %v\n", *ledgerFile, err)
		return nil, subcommands.ExitFailure
	}
	return folio.NewReport(events, on), subcommands.ExitSuccess
}

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	date string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the account performance summary" }
func (*summaryCmd) Usage() string {
	return `flc summary [-d <date>]

  Displays cash, holdings, NAV and per-instrument performance.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", folio.Today().String(), "Date for the summary.")
}

func (c *summaryCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	r, status := report(c.date)
	if r == nil {
		return status
	}
	printMarkdown(renderer.SummaryMarkdown(r))
	return subcommands.ExitSuccess
}

// cyclesCmd holds the flags for the 'cycles' subcommand.
type cyclesCmd struct {
	date   string
	closed bool
}

func (*cyclesCmd) Name() string     { return "cycles" }
func (*cyclesCmd) Synopsis() string { return "display the investment cycles" }
func (*cyclesCmd) Usage() string {
	return `flc cycles [-d <date>] [-closed]

  Displays every investment cycle, open and closed.
`
}

func (c *cyclesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", folio.Today().String(), "Date for the report.")
	f.BoolVar(&c.closed, "closed", false, "Print closed cycles as JSON lines instead of markdown.")
}

func (c *cyclesCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	r, status := report(c.date)
	if r == nil {
		return status
	}
	if c.closed {
		if err := folio.ExportCycles(os.Stdout, r.ClosedCycles()); err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting cycles: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.CyclesMarkdown(r))
	return subcommands.ExitSuccess
}

// inventoryCmd holds the flags for the 'inventory' subcommand.
type inventoryCmd struct {
	date string
}

func (*inventoryCmd) Name() string     { return "inventory" }
func (*inventoryCmd) Synopsis() string { return "display the open lots" }
func (*inventoryCmd) Usage() string {
	return `flc inventory [-d <date>]

  Displays every open lot, pending placeholders included.
`
}

func (c *inventoryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", folio.Today().String(), "Date for the report.")
}

func (c *inventoryCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	r, status := report(c.date)
	if r == nil {
		return status
	}
	printMarkdown(renderer.InventoryMarkdown(r))
	return subcommands.ExitSuccess
}

// warningsCmd holds the flags for the 'warnings' subcommand.
type warningsCmd struct {
	date string
}

func (*warningsCmd) Name() string     { return "warnings" }
func (*warningsCmd) Synopsis() string { return "display stale positions and other conditions" }
func (*warningsCmd) Usage() string {
	return `flc warnings [-d <date>]

  Displays positions needing attention: stale holdings, pending inventory,
  negative cash.
`
}

func (c *warningsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", folio.Today().String(), "Date for the report.")
}

func (c *warningsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	r, status := report(c.date)
	if r == nil {
		return status
	}
	printMarkdown(renderer.WarningsMarkdown(r))
	return subcommands.ExitSuccess
}

// logCmd holds the flags for the 'log' subcommand.
type logCmd struct {
	date string
}

func (*logCmd) Name() string     { return "log" }
func (*logCmd) Synopsis() string { return "display the trade log" }
func (*logCmd) Usage() string {
	return `flc log [-d <date>]

  Displays the applied events with running cash balances.
`
}

func (c *logCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", folio.Today().String(), "Date for the report.")
}

func (c *logCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	r, status := report(c.date)
	if r == nil {
		return status
	}
	printMarkdown(renderer.LogMarkdown(r))
	return subcommands.ExitSuccess
}

// navCmd holds the flags for the 'nav' subcommand.
type navCmd struct {
	date string
	rows int
}

func (*navCmd) Name() string     { return "nav" }
func (*navCmd) Synopsis() string { return "display the daily net asset value series" }
func (*navCmd) Usage() string {
	return `flc nav [-d <date>] [-rows <n>]

  Replays the ledger day by day and displays the NAV series with drawdowns.
`
}

func (c *navCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", folio.Today().String(), "Last date of the series.")
	f.IntVar(&c.rows, "rows", 30, "Maximum table rows; the series is sampled down to fit.")
}

func (c *navCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, ok := parseDay(c.date)
	if !ok {
		return subcommands.ExitUsageError
	}
	events, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading ledger %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.NAVMarkdown(folio.ReplayNAV(events, on), c.rows))
	return subcommands.ExitSuccess
}
