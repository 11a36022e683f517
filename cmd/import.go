package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/tdhoang/folio"
)

// importCmd lifts events out of a broker JSON export.
type importCmd struct {
	mapping string
	dryRun  bool
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import events from a broker JSON export" }
func (*importCmd) Usage() string {
	return `flc import -mapping <mapping.json> <export.json>

  Reads a broker JSON export and appends the events the mapping describes to
  the ledger. With -n the events are printed instead of appended.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.mapping, "mapping", "", "Mapping file describing the export layout.")
	f.BoolVar(&c.dryRun, "n", false, "Print the imported events without touching the ledger.")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.mapping == "" || f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "import: -mapping and one export file are required")
		return subcommands.ExitUsageError
	}

	mf, err := os.Open(c.mapping)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening mapping %q: %v\n", c.mapping, err)
		return subcommands.ExitFailure
	}
	mapping, err := folio.ReadImportMapping(mf)
	mf.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	ef, err := os.Open(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening export %q: %v\n", f.Arg(0), err)
		return subcommands.ExitFailure
	}
	defer ef.Close()

	events, err := folio.ImportJSON(ef, mapping)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	folio.SortEvents(events)

	if c.dryRun {
		if err := folio.EncodeEvents(os.Stdout, events); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	out, err := os.OpenFile(*ledgerFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger file %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}
	defer out.Close()
	if err := folio.EncodeEvents(out, events); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing to ledger file %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Imported %d events into %s\n", len(events), *ledgerFile)
	return subcommands.ExitSuccess
}
