// Package cmd implements the CLI application to manage a folio ledger.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/tdhoang/folio"
)

// Register the subcommands.
// A main package calls Register() and then Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&depositCmd{}, "recording")
	c.Register(&withdrawCmd{}, "recording")
	c.Register(&buyCmd{}, "recording")
	c.Register(&sellCmd{}, "recording")
	c.Register(&dividendCmd{}, "recording")
	c.Register(&feeCmd{}, "recording")
	c.Register(&pnlCmd{}, "recording")
	c.Register(&snapshotCmd{}, "recording")

	c.Register(&summaryCmd{}, "reports")
	c.Register(&cyclesCmd{}, "reports")
	c.Register(&inventoryCmd{}, "reports")
	c.Register(&warningsCmd{}, "reports")
	c.Register(&logCmd{}, "reports")
	c.Register(&navCmd{}, "reports")

	c.Register(&fmtCmd{}, "ledger")
	c.Register(&importCmd{}, "ledger")
	c.Register(&assistCmd{}, "")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var ledgerFile = flag.String("ledger-file", "folio.jsonl", "Path to the ledger file (JSONL format)")
var currency = flag.String("currency", "USD", "Account currency for amounts entered on the command line")

// money builds a Money from a command line amount in the account currency.
func money(v float64) folio.Money { return folio.M(v, *currency) }

// DecodeLedger reads all events from the app ledger file. A missing file is
// an empty ledger, not an error.
func DecodeLedger() ([]folio.Event, error) {
	f, err := os.Open(*ledgerFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()
	return folio.DecodeEvents(f)
}

// appendEvent appends a single event to the app ledger file.
func appendEvent(e folio.Event) subcommands.ExitStatus {
	filename := *ledgerFile
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger file %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}
	defer f.Close()

	if err := folio.EncodeEvent(f, e); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing to ledger file %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Recorded %s in %s\n", e.Kind(), filename)
	return subcommands.ExitSuccess
}

// printMarkdown renders markdown for the terminal, falling back to the raw
// text when the renderer cannot start (e.g. no TTY).
func printMarkdown(markdown string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Print(markdown)
		return
	}
	out, err := r.Render(markdown)
	if err != nil {
		fmt.Print(markdown)
		return
	}
	fmt.Print(out)
}
