package folio

import (
	"log/slog"
	"sort"
)

// LogEntry is one row of the account's trade log: the event as applied,
// with the resulting cash balance and whether the cash mutation took effect.
type LogEntry struct {
	Date      Date
	Kind      EventKind
	Symbol    string
	Quantity  Quantity
	Amount    Money // signed cash delta the event asked for
	CashAfter Money
	Applied   bool // false when the snapshot authority suppressed the cash move
	Memo      string
}

// AccountLedger is the replayed state of one brokerage account: the cash
// balance, net external deposits, per-instrument lot ledgers, and the trade
// log. Build one with Replay; it is not safe for concurrent mutation.
type AccountLedger struct {
	cash        Money
	netDeposits Money
	accountFees Money // symbol-less fees, charged against realized profit
	instruments map[string]*LotLedger
	symbols     []string // insertion order of first appearance
	log         []LogEntry

	// snapshotAuthority is the date of the latest CashSnapshot in the batch.
	// Computed cash mutations apply only to events strictly after it; up to
	// and including that date the snapshot balance is the ground truth.
	snapshotAuthority Date
	hasAuthority      bool
}

// Replay builds an AccountLedger from an event batch. The input slice is not
// modified; events are sorted on a copy by date and same-day kind priority.
//
// Replay runs in two passes. The first scans for the latest CashSnapshot date,
// which becomes the snapshot authority. The second applies every event:
// inventory and P&L always, cash only when the event date is strictly after
// the authority. CashSnapshot events overwrite cash unconditionally.
func Replay(events []Event) *AccountLedger {
	a := &AccountLedger{instruments: make(map[string]*LotLedger)}

	for _, e := range events {
		if e.Kind() != KindSnapshot {
			continue
		}
		if !a.hasAuthority || e.When().After(a.snapshotAuthority) {
			a.snapshotAuthority = e.When()
			a.hasAuthority = true
		}
	}

	sorted := make([]Event, len(events))
	copy(sorted, events)
	SortEvents(sorted)

	for _, e := range sorted {
		a.apply(e)
	}
	return a
}

// cashApplies reports whether a computed cash mutation on day takes effect.
func (a *AccountLedger) cashApplies(day Date) bool {
	return !a.hasAuthority || day.After(a.snapshotAuthority)
}

// instrument returns the lot ledger for symbol, creating it on first use.
func (a *AccountLedger) instrument(symbol string) *LotLedger {
	l, ok := a.instruments[symbol]
	if !ok {
		l = newLotLedger(symbol)
		a.instruments[symbol] = l
		a.symbols = append(a.symbols, symbol)
	}
	return l
}

func (a *AccountLedger) apply(e Event) {
	switch v := e.(type) {
	case Deposit:
		a.moveCash(e, "", Quantity{}, v.Amount)
	case Withdraw:
		a.moveCash(e, "", Quantity{}, v.Amount.Neg())
	case Buy:
		cost := v.Cost()
		a.instrument(v.Symbol).buy(v.Date, v.Quantity, cost, v.Source, v.Memo)
		a.moveCash(e, v.Symbol, v.Quantity, cost.Neg())
	case Sell:
		l := a.instrument(v.Symbol)
		costOfGoods, _ := l.sell(v.Date, v.Quantity, v.NetProceeds(), v.ExternalPnL)
		// An externally reported sale only releases the cost basis back
		// to cash; the profit arrives later as a PnLUpdate.
		credit := v.NetProceeds()
		if v.ExternalPnL {
			credit = costOfGoods
		}
		a.moveCash(e, v.Symbol, v.Quantity, credit)
	case Dividend:
		a.instrument(v.Symbol).dividend(v.Amount)
		a.moveCash(e, v.Symbol, Quantity{}, v.Amount)
	case Fee:
		if v.Symbol != "" {
			a.instrument(v.Symbol).fee(v.Amount)
		} else {
			a.accountFees = a.accountFees.Add(v.Amount)
		}
		a.moveCash(e, v.Symbol, Quantity{}, v.Amount.Neg())
	case PnLUpdate:
		a.instrument(v.Symbol).externalPnLUpdate(v.Amount)
		a.moveCash(e, v.Symbol, Quantity{}, v.Amount)
	case CashSnapshot:
		a.cash = v.Balance
		a.log = append(a.log, LogEntry{
			Date:      v.Date,
			Kind:      KindSnapshot,
			Amount:    v.Balance,
			CashAfter: a.cash,
			Applied:   true,
			Memo:      v.Memo,
		})
	default:
		slog.Warn("skipping unknown event kind", "kind", e.Kind(), "date", e.When())
	}
}

// moveCash applies a signed cash delta subject to the snapshot authority,
// tracks net deposits, and records the trade log row.
func (a *AccountLedger) moveCash(e Event, symbol string, quantity Quantity, delta Money) {
	applied := a.cashApplies(e.When())
	if applied {
		a.cash = a.cash.Add(delta)
		switch e.Kind() {
		case KindDeposit, KindWithdraw:
			a.netDeposits = a.netDeposits.Add(delta)
		}
	}
	var memo string
	if n, ok := e.(interface{ Note() string }); ok {
		memo = n.Note()
	}
	a.log = append(a.log, LogEntry{
		Date:      e.When(),
		Kind:      e.Kind(),
		Symbol:    symbol,
		Quantity:  quantity,
		Amount:    delta,
		CashAfter: a.cash,
		Applied:   applied,
		Memo:      memo,
	})
}

// Cash returns the current cash balance.
func (a *AccountLedger) Cash() Money { return a.cash }

// NetDeposits returns deposits minus withdrawals, subject to the same
// snapshot gating as cash.
func (a *AccountLedger) NetDeposits() Money { return a.netDeposits }

// SnapshotAuthority returns the latest cash snapshot date and whether one
// exists in the batch.
func (a *AccountLedger) SnapshotAuthority() (Date, bool) {
	return a.snapshotAuthority, a.hasAuthority
}

// Instrument returns the lot ledger for symbol, or nil if the symbol never
// appeared in the batch.
func (a *AccountLedger) Instrument(symbol string) *LotLedger {
	return a.instruments[symbol]
}

// Symbols returns all symbols in first-appearance order.
func (a *AccountLedger) Symbols() []string {
	out := make([]string, len(a.symbols))
	copy(out, a.symbols)
	return out
}

// SortedSymbols returns all symbols in lexical order.
func (a *AccountLedger) SortedSymbols() []string {
	out := a.Symbols()
	sort.Strings(out)
	return out
}

// Log returns the trade log in application order.
func (a *AccountLedger) Log() []LogEntry {
	out := make([]LogEntry, len(a.log))
	copy(out, a.log)
	return out
}

// HoldingsValue returns the cost-basis value of all open lots, pending
// placeholders included.
func (a *AccountLedger) HoldingsValue() Money {
	var total Money
	for _, s := range a.symbols {
		total = total.Add(a.instruments[s].HeldValue())
	}
	return total
}

// RealizedProfit returns the account-wide realized figure: trading P&L plus
// dividends across all instruments, less account-level fees. Pending
// placeholders are excluded.
func (a *AccountLedger) RealizedProfit() Money {
	var total Money
	for _, s := range a.symbols {
		if IsPending(s) {
			continue
		}
		l := a.instruments[s]
		total = total.Add(l.TradingPL()).Add(l.Dividends())
	}
	return total.Sub(a.accountFees)
}

// AccountFees returns the cumulative symbol-less fees (custody, taxes).
func (a *AccountLedger) AccountFees() Money { return a.accountFees }
