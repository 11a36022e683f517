package folio

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// StaleDays is the holding age, in days, above which an open position is
// flagged in the warnings report.
const StaleDays = 90

// Report is a stateless projection of an event batch as of a given date.
// It never mutates the batch; each call replays the events up to AsOf.
type Report struct {
	AsOf    Date
	Account *AccountLedger

	Cash        Money
	NetDeposits Money
	Holdings    Money // open lots at cost, pending placeholders excluded
	NAV         Money // Cash + Holdings
	TradingPL   Money
	DividendPL  Money
	TotalPL     Money
	ROI         Percent // TotalPL over NetDeposits
}

// NewReport replays every event dated on or before asOf and computes the
// account-level aggregates. Pending placeholder symbols are carried in the
// account but excluded from performance figures and NAV.
func NewReport(events []Event, asOf Date) *Report {
	kept := make([]Event, 0, len(events))
	for _, e := range events {
		if !e.When().After(asOf) {
			kept = append(kept, e)
		}
	}
	a := Replay(kept)

	r := &Report{AsOf: asOf, Account: a}
	r.Cash = a.Cash()
	r.NetDeposits = a.NetDeposits()
	for _, s := range a.Symbols() {
		if IsPending(s) {
			continue
		}
		l := a.Instrument(s)
		r.Holdings = r.Holdings.Add(l.HeldValue())
		r.TradingPL = r.TradingPL.Add(displayTradingPL(l))
		r.DividendPL = r.DividendPL.Add(l.Dividends())
	}
	r.NAV = r.Cash.Add(r.Holdings)
	r.TotalPL = r.TradingPL.Add(r.DividendPL)
	r.ROI = r.TotalPL.Ratio(r.NetDeposits)
	return r
}

// displayTradingPL unbundles the trading figure for display. Externally
// reported ledgers fold dividends into the source P&L, so the dividend share
// is backed out to keep the two columns additive.
func displayTradingPL(l *LotLedger) Money {
	if l.UsesExternalPnL() {
		return l.TradingPL().Sub(l.Dividends())
	}
	return l.TradingPL()
}

// SummaryRow is the per-instrument line of the summary report.
type SummaryRow struct {
	Symbol      string
	Held        Quantity
	Value       Money // open lots at cost
	Invested    Money
	TradingPL   Money
	DividendPL  Money
	TotalPL     Money
	ROI         Percent // TotalPL over cumulative invested
	Allocation  Percent // Value over total non-pending holdings
	AvgDaysHeld float64
	External    bool
}

// Summary returns one row per non-pending instrument, sorted by total P&L
// descending so winners read first. The allocation denominator is the full
// holdings value, pending inventory included: capital in transit still
// occupies the book.
func (r *Report) Summary() []SummaryRow {
	var rows []SummaryRow
	allHoldings := r.Account.HoldingsValue()
	for _, s := range r.Account.Symbols() {
		if IsPending(s) {
			continue
		}
		l := r.Account.Instrument(s)
		trading := displayTradingPL(l)
		total := trading.Add(l.Dividends())
		rows = append(rows, SummaryRow{
			Symbol:      s,
			Held:        l.HeldQuantity(),
			Value:       l.HeldValue(),
			Invested:    l.Invested(),
			TradingPL:   trading,
			DividendPL:  l.Dividends(),
			TotalPL:     total,
			ROI:         total.Ratio(l.Invested()),
			Allocation:  l.HeldValue().Ratio(allHoldings),
			AvgDaysHeld: l.AvgDaysHeld(r.AsOf),
			External:    l.UsesExternalPnL(),
		})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[j].TotalPL.LessThan(rows[i].TotalPL)
	})
	return rows
}

// CycleRow is one investment cycle of one instrument.
type CycleRow struct {
	Symbol     string
	Start      Date
	End        Date // zero while open
	Days       int
	BuyValue   Money
	SellValue  Money
	TradingPL  Money
	DividendPL Money
	TotalPL    Money
	ROI        Percent // TotalPL over BuyValue
	Status     CycleStatus
}

func cycleRow(symbol string, c Cycle, asOf Date) CycleRow {
	total := c.TradingPL.Add(c.DividendPL)
	return CycleRow{
		Symbol:     symbol,
		Start:      c.Start,
		End:        c.End,
		Days:       c.Days(asOf),
		BuyValue:   c.BuyValue,
		SellValue:  c.SellValue,
		TradingPL:  c.TradingPL,
		DividendPL: c.DividendPL,
		TotalPL:    total,
		ROI:        total.Ratio(c.BuyValue),
		Status:     c.Status,
	}
}

// Cycles returns every investment cycle of every non-pending instrument,
// sorted by start date then symbol.
func (r *Report) Cycles() []CycleRow {
	var rows []CycleRow
	for _, s := range r.Account.Symbols() {
		if IsPending(s) {
			continue
		}
		for _, c := range r.Account.Instrument(s).Cycles() {
			rows = append(rows, cycleRow(s, c, r.AsOf))
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Start != rows[j].Start {
			return rows[i].Start.Before(rows[j].Start)
		}
		return rows[i].Symbol < rows[j].Symbol
	})
	return rows
}

// ClosedCycles returns only the completed cycles, for export or win-rate
// analysis.
func (r *Report) ClosedCycles() []CycleRow {
	all := r.Cycles()
	rows := all[:0]
	for _, row := range all {
		if row.Status == Closed {
			rows = append(rows, row)
		}
	}
	return rows
}

// ExportCycles writes cycle rows as JSONL, one cycle per line, for analysis
// outside the tool.
func ExportCycles(w io.Writer, rows []CycleRow) error {
	for _, row := range rows {
		b, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("encoding cycle for %s: %w", row.Symbol, err)
		}
		b = append(b, '\n')
		if _, err := w.Write(b); err != nil {
			return err
		}
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface for CycleRow.
func (c CycleRow) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("symbol", c.Symbol)
	w.Append("start", c.Start)
	if c.Status == Closed {
		w.Append("end", c.End)
	}
	w.Append("days", c.Days)
	w.Append("buyValue", c.BuyValue)
	w.Append("sellValue", c.SellValue)
	w.Append("tradingPl", c.TradingPL)
	w.Append("dividendPl", c.DividendPL)
	w.Append("totalPl", c.TotalPL)
	w.Append("roi", float64(c.ROI))
	w.Append("status", c.Status.String())
	return w.MarshalJSON()
}

// InventoryRow is one open lot. Pending placeholders are included here;
// inventory is about what is held, not how it performs.
type InventoryRow struct {
	Symbol      string
	Date        Date
	Quantity    Quantity
	UnitCost    Money
	AdjUnitCost Money
	Value       Money // Quantity at unadjusted unit cost
	Days        int
	Pending     bool
	Source      string
	Memo        string
}

// Inventory returns every open lot across all instruments, oldest first.
func (r *Report) Inventory() []InventoryRow {
	var rows []InventoryRow
	for _, s := range r.Account.Symbols() {
		for _, lot := range r.Account.Instrument(s).Lots() {
			rows = append(rows, InventoryRow{
				Symbol:      s,
				Date:        lot.Date,
				Quantity:    lot.Quantity,
				UnitCost:    lot.UnitCost,
				AdjUnitCost: lot.AdjUnitCost,
				Value:       lot.UnitCost.Mul(lot.Quantity),
				Days:        r.AsOf.Sub(lot.Date),
				Pending:     IsPending(s),
				Source:      lot.Source,
				Memo:        lot.Memo,
			})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date.Before(rows[j].Date)
		}
		return rows[i].Symbol < rows[j].Symbol
	})
	return rows
}

// WarningKind classifies a warnings-report row.
type WarningKind string

const (
	// WarnStale flags an open position whose average holding age exceeds
	// StaleDays.
	WarnStale WarningKind = "stale"
	// WarnPending flags placeholder inventory still awaiting its listing.
	WarnPending WarningKind = "pending"
	// WarnNegativeCash flags a cash balance below zero.
	WarnNegativeCash WarningKind = "negative-cash"
)

// WarningRow is one attention-needed condition in the account.
type WarningRow struct {
	Kind     WarningKind
	Symbol   string
	Quantity Quantity
	Value    Money
	Days     int
}

// Warnings scans the account for conditions that deserve a look: stale open
// positions, pending placeholder inventory, and negative cash.
func (r *Report) Warnings() []WarningRow {
	var rows []WarningRow
	for _, s := range r.Account.Symbols() {
		l := r.Account.Instrument(s)
		held := l.HeldQuantity()
		if !held.IsPositive() {
			continue
		}
		if IsPending(s) {
			rows = append(rows, WarningRow{
				Kind:     WarnPending,
				Symbol:   s,
				Quantity: held,
				Value:    l.HeldValue(),
				Days:     int(l.AvgDaysHeld(r.AsOf)),
			})
			continue
		}
		if days := l.AvgDaysHeld(r.AsOf); days > StaleDays {
			rows = append(rows, WarningRow{
				Kind:     WarnStale,
				Symbol:   s,
				Quantity: held,
				Value:    l.HeldValue(),
				Days:     int(days),
			})
		}
	}
	if r.Cash.IsNegative() {
		rows = append(rows, WarningRow{Kind: WarnNegativeCash, Value: r.Cash})
	}
	return rows
}
