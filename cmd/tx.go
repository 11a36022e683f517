package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/tdhoang/folio"
)

// parseDay parses the shared -d flag.
func parseDay(s string) (folio.Date, bool) {
	on, err := folio.ParseDate(s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return folio.Date{}, false
	}
	return on, true
}

// depositCmd records external cash moved into the account.
type depositCmd struct {
	date   string
	amount float64
	memo   string
}

func (*depositCmd) Name() string     { return "deposit" }
func (*depositCmd) Synopsis() string { return "record cash moved into the account" }
func (*depositCmd) Usage() string {
	return `flc deposit -a <amount> [-d <date>] [-m <memo>]

  Records an external cash deposit.
`
}

func (c *depositCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", folio.Today().String(), "Date of the deposit.")
	f.Float64Var(&c.amount, "a", 0, "Amount deposited.")
	f.StringVar(&c.memo, "m", "", "Optional memo.")
}

func (c *depositCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, ok := parseDay(c.date)
	if !ok {
		return subcommands.ExitUsageError
	}
	if c.amount <= 0 {
		fmt.Fprintln(os.Stderr, "deposit: -a must be positive")
		return subcommands.ExitUsageError
	}
	return appendEvent(folio.NewDeposit(on, c.memo, money(c.amount)))
}

// withdrawCmd records external cash moved out of the account.
type withdrawCmd struct {
	date   string
	amount float64
	memo   string
}

func (*withdrawCmd) Name() string     { return "withdraw" }
func (*withdrawCmd) Synopsis() string { return "record cash moved out of the account" }
func (*withdrawCmd) Usage() string {
	return `flc withdraw -a <amount> [-d <date>] [-m <memo>]

  Records an external cash withdrawal.
`
}

func (c *withdrawCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", folio.Today().String(), "Date of the withdrawal.")
	f.Float64Var(&c.amount, "a", 0, "Amount withdrawn.")
	f.StringVar(&c.memo, "m", "", "Optional memo.")
}

func (c *withdrawCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, ok := parseDay(c.date)
	if !ok {
		return subcommands.ExitUsageError
	}
	if c.amount <= 0 {
		fmt.Fprintln(os.Stderr, "withdraw: -a must be positive")
		return subcommands.ExitUsageError
	}
	return appendEvent(folio.NewWithdraw(on, c.memo, money(c.amount)))
}

// buyCmd records a purchase.
type buyCmd struct {
	date     string
	symbol   string
	quantity float64
	price    float64
	amount   float64
	fee      float64
	source   string
	memo     string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "record a purchase of an instrument" }
func (*buyCmd) Usage() string {
	return `flc buy -s <symbol> -q <quantity> [-p <price> | -a <amount>] [-f <fee>] [-d <date>]

  Records a purchase. The cost basis is -a when given, otherwise quantity x price;
  the fee is added on top.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", folio.Today().String(), "Date of the trade.")
	f.StringVar(&c.symbol, "s", "", "Instrument symbol.")
	f.Float64Var(&c.quantity, "q", 0, "Quantity bought.")
	f.Float64Var(&c.price, "p", 0, "Unit price.")
	f.Float64Var(&c.amount, "a", 0, "Total trade amount, overrides quantity x price.")
	f.Float64Var(&c.fee, "f", 0, "Trading fee.")
	f.StringVar(&c.source, "source", "", "Provenance tag for the lot.")
	f.StringVar(&c.memo, "m", "", "Optional memo.")
}

func (c *buyCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, ok := parseDay(c.date)
	if !ok {
		return subcommands.ExitUsageError
	}
	if c.symbol == "" || c.quantity <= 0 {
		fmt.Fprintln(os.Stderr, "buy: -s and a positive -q are required")
		return subcommands.ExitUsageError
	}
	if c.price <= 0 && c.amount <= 0 {
		fmt.Fprintln(os.Stderr, "buy: one of -p or -a is required")
		return subcommands.ExitUsageError
	}
	return appendEvent(folio.NewBuy(on, c.memo, c.symbol,
		folio.Q(c.quantity), money(c.price), money(c.amount), money(c.fee), c.source))
}

// sellCmd records a disposal.
type sellCmd struct {
	date     string
	symbol   string
	quantity float64
	price    float64
	fee      float64
	external bool
	memo     string
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "record a sale of an instrument" }
func (*sellCmd) Usage() string {
	return `flc sell -s <symbol> -q <quantity> -p <price> [-f <fee>] [-external] [-d <date>]

  Records a sale. With -external the realized P&L is expected to arrive
  separately as a pnl event; the sale only releases the cost basis.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", folio.Today().String(), "Date of the trade.")
	f.StringVar(&c.symbol, "s", "", "Instrument symbol.")
	f.Float64Var(&c.quantity, "q", 0, "Quantity sold.")
	f.Float64Var(&c.price, "p", 0, "Unit price.")
	f.Float64Var(&c.fee, "f", 0, "Fee deducted from the proceeds.")
	f.BoolVar(&c.external, "external", false, "The source reports realized P&L separately.")
	f.StringVar(&c.memo, "m", "", "Optional memo.")
}

func (c *sellCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, ok := parseDay(c.date)
	if !ok {
		return subcommands.ExitUsageError
	}
	if c.symbol == "" || c.quantity <= 0 {
		fmt.Fprintln(os.Stderr, "sell: -s and a positive -q are required")
		return subcommands.ExitUsageError
	}
	return appendEvent(folio.NewSell(on, c.memo, c.symbol,
		folio.Q(c.quantity), money(c.price), money(c.fee), c.external))
}

// dividendCmd records a cash dividend.
type dividendCmd struct {
	date   string
	symbol string
	amount float64
	memo   string
}

func (*dividendCmd) Name() string     { return "dividend" }
func (*dividendCmd) Synopsis() string { return "record a cash dividend" }
func (*dividendCmd) Usage() string {
	return `flc dividend -s <symbol> -a <amount> [-d <date>]

  Records a dividend. The amount lowers the adjusted cost of the open lots.
`
}

func (c *dividendCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", folio.Today().String(), "Date of the payment.")
	f.StringVar(&c.symbol, "s", "", "Instrument symbol.")
	f.Float64Var(&c.amount, "a", 0, "Amount received.")
	f.StringVar(&c.memo, "m", "", "Optional memo.")
}

func (c *dividendCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, ok := parseDay(c.date)
	if !ok {
		return subcommands.ExitUsageError
	}
	if c.symbol == "" || c.amount <= 0 {
		fmt.Fprintln(os.Stderr, "dividend: -s and a positive -a are required")
		return subcommands.ExitUsageError
	}
	return appendEvent(folio.NewDividend(on, c.memo, c.symbol, money(c.amount)))
}

// feeCmd records a standalone fee or tax.
type feeCmd struct {
	date   string
	symbol string
	amount float64
	memo   string
}

func (*feeCmd) Name() string     { return "fee" }
func (*feeCmd) Synopsis() string { return "record a standalone fee or tax" }
func (*feeCmd) Usage() string {
	return `flc fee -a <amount> [-s <symbol>] [-d <date>]

  Records a fee. With -s it counts against that instrument's trading P&L,
  without it only cash is affected.
`
}

func (c *feeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", folio.Today().String(), "Date of the charge.")
	f.StringVar(&c.symbol, "s", "", "Instrument symbol, empty for account-level fees.")
	f.Float64Var(&c.amount, "a", 0, "Amount charged.")
	f.StringVar(&c.memo, "m", "", "Optional memo.")
}

func (c *feeCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, ok := parseDay(c.date)
	if !ok {
		return subcommands.ExitUsageError
	}
	if c.amount <= 0 {
		fmt.Fprintln(os.Stderr, "fee: -a must be positive")
		return subcommands.ExitUsageError
	}
	return appendEvent(folio.NewFee(on, c.memo, c.symbol, money(c.amount)))
}

// pnlCmd records a source-reported realized P&L figure.
type pnlCmd struct {
	date   string
	symbol string
	amount float64
	memo   string
}

func (*pnlCmd) Name() string     { return "pnl" }
func (*pnlCmd) Synopsis() string { return "record realized P&L reported by the source" }
func (*pnlCmd) Usage() string {
	return `flc pnl -s <symbol> -a <amount> [-d <date>]

  Records a realized P&L figure as reported by the source. The amount is
  signed; it marks the instrument as externally reported.
`
}

func (c *pnlCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", folio.Today().String(), "Date of the report.")
	f.StringVar(&c.symbol, "s", "", "Instrument symbol.")
	f.Float64Var(&c.amount, "a", 0, "Realized P&L, signed.")
	f.StringVar(&c.memo, "m", "", "Optional memo.")
}

func (c *pnlCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, ok := parseDay(c.date)
	if !ok {
		return subcommands.ExitUsageError
	}
	if c.symbol == "" {
		fmt.Fprintln(os.Stderr, "pnl: -s is required")
		return subcommands.ExitUsageError
	}
	return appendEvent(folio.NewPnLUpdate(on, c.memo, c.symbol, money(c.amount)))
}

// snapshotCmd records a source-reported cash balance.
type snapshotCmd struct {
	date    string
	balance float64
	memo    string
}

func (*snapshotCmd) Name() string     { return "snapshot" }
func (*snapshotCmd) Synopsis() string { return "record a cash balance reported by the source" }
func (*snapshotCmd) Usage() string {
	return `flc snapshot -a <balance> [-d <date>]

  Records a cash snapshot. The balance overwrites the computed cash, and
  computed cash moves up to that date are absorbed by it.
`
}

func (c *snapshotCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", folio.Today().String(), "Date of the statement.")
	f.Float64Var(&c.balance, "a", 0, "Cash balance reported.")
	f.StringVar(&c.memo, "m", "", "Optional memo.")
}

func (c *snapshotCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, ok := parseDay(c.date)
	if !ok {
		return subcommands.ExitUsageError
	}
	return appendEvent(folio.NewCashSnapshot(on, c.memo, money(c.balance)))
}
