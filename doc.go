// Package folio is an event-sourced ledger for a brokerage account.
//
// The ledger file is a JSONL stream of immutable events: deposits,
// withdrawals, trades, dividends, fees, source-reported P&L figures and cash
// snapshots. Nothing else is stored; every view of the account is a stateless
// projection obtained by replaying the events.
//
//   - Replay builds the AccountLedger: cash under snapshot authority, net
//     deposits, and one FIFO LotLedger per instrument with dividend-adjusted
//     costs and investment cycles.
//   - NewReport projects the account as of a date: summary, cycles,
//     inventory and warnings.
//   - ReplayNAV walks the calendar and yields the daily net asset value
//     series with drawdowns.
//
// Cash snapshots are the ground truth for cash: the latest snapshot in a
// batch overwrites the balance, and computed cash moves up to its date are
// considered already included in it. Inventory and P&L are always computed
// from the trade events themselves.
package folio
