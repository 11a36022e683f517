package folio

import "sort"

// EventKind is a typed string identifying the kind of a ledger event.
type EventKind string

// Event kinds as they appear in the "kind" field of the JSONL ledger.
const (
	KindDeposit  EventKind = "deposit"
	KindWithdraw EventKind = "withdraw"
	KindBuy      EventKind = "buy"
	KindSell     EventKind = "sell"
	KindDividend EventKind = "dividend"
	KindFee      EventKind = "fee"
	KindPnL      EventKind = "pnl-update"
	KindSnapshot EventKind = "cash-snapshot"
)

// Event is one immutable ledger fact. Every state in the system (account
// ledger and NAV series alike) is derived by replaying a sorted event stream.
type Event interface {
	Kind() EventKind // Kind returns the event kind (e.g., "buy", "sell").
	When() Date      // When returns the date on which the event occurred.
}

type baseEvent struct {
	Command EventKind `json:"kind"`           // Command is the kind of the event.
	Date    Date      `json:"date"`           // Date is the day the event took place.
	Memo    string    `json:"memo,omitempty"` // Memo provides an optional note for the event.
}

func (e baseEvent) Kind() EventKind { return e.Command }
func (e baseEvent) When() Date      { return e.Date }
func (e baseEvent) Note() string    { return e.Memo }

// MarshalJSON implements the json.Marshaler interface for baseEvent.
func (e baseEvent) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("kind", e.Command)
	w.Append("date", e.Date)
	w.Optional("memo", e.Memo)
	return w.MarshalJSON()
}

// instEvent is a component for instrument-scoped events.
type instEvent struct {
	baseEvent
	Symbol string `json:"symbol"` // Symbol is the instrument ticker.
}

// MarshalJSON implements the json.Marshaler interface for instEvent.
func (e instEvent) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(e.baseEvent)
	w.Append("symbol", e.Symbol)
	return w.MarshalJSON()
}

// Deposit represents external cash moved into the account.
type Deposit struct {
	baseEvent
	Amount Money
}

// NewDeposit creates a new Deposit event.
func NewDeposit(day Date, memo string, amount Money) Deposit {
	return Deposit{baseEvent{KindDeposit, day, memo}, amount}
}

func (e Deposit) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(e.baseEvent)
	w.EmbedFrom(e.Amount)
	return w.MarshalJSON()
}

// Withdraw represents external cash moved out of the account.
type Withdraw struct {
	baseEvent
	Amount Money
}

// NewWithdraw creates a new Withdraw event.
func NewWithdraw(day Date, memo string, amount Money) Withdraw {
	return Withdraw{baseEvent{KindWithdraw, day, memo}, amount}
}

func (e Withdraw) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(e.baseEvent)
	w.EmbedFrom(e.Amount)
	return w.MarshalJSON()
}

// Buy represents a purchase of an instrument.
//
// The total cost of the trade is Amount when positive, otherwise
// Quantity x Price; Fee is added on top in both cases.
type Buy struct {
	instEvent
	Quantity Quantity
	Price    Money  // unit price, may be zero when Amount is reported instead
	Amount   Money  // total trade value reported by the source, optional
	Fee      Money  // trading fee folded into the cost basis
	Source   string // provenance tag (e.g. the export sheet or deal type)
}

// NewBuy creates a new Buy event.
func NewBuy(day Date, memo, symbol string, quantity Quantity, price, amount, fee Money, source string) Buy {
	return Buy{
		instEvent: instEvent{baseEvent{KindBuy, day, memo}, symbol},
		Quantity:  quantity,
		Price:     price,
		Amount:    amount,
		Fee:       fee,
		Source:    source,
	}
}

// Cost returns the total cost of the trade, fee included.
func (e Buy) Cost() Money {
	base := e.Amount
	if !base.IsPositive() {
		base = e.Price.Mul(e.Quantity)
	}
	return base.Add(e.Fee)
}

func (e Buy) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(e.instEvent)
	w.Append("quantity", e.Quantity)
	w.Append("price", e.Price.value)
	w.Append("amount", e.Amount.value)
	w.Append("fee", e.Fee.value)
	w.Optional("currency", e.Price.cur)
	w.Optional("source", e.Source)
	return w.MarshalJSON()
}

// Sell represents a disposal of an instrument.
type Sell struct {
	instEvent
	Quantity    Quantity
	Price       Money // unit price
	Fee         Money // fee deducted from the proceeds
	ExternalPnL bool  // true when the source reports realized P&L separately
}

// NewSell creates a new Sell event.
func NewSell(day Date, memo, symbol string, quantity Quantity, price, fee Money, externalPnL bool) Sell {
	return Sell{
		instEvent:   instEvent{baseEvent{KindSell, day, memo}, symbol},
		Quantity:    quantity,
		Price:       price,
		Fee:         fee,
		ExternalPnL: externalPnL,
	}
}

// NetProceeds returns the sale proceeds after fee.
func (e Sell) NetProceeds() Money {
	return e.Price.Mul(e.Quantity).Sub(e.Fee)
}

func (e Sell) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(e.instEvent)
	w.Append("quantity", e.Quantity)
	w.Append("price", e.Price.value)
	w.Append("fee", e.Fee.value)
	w.Optional("currency", e.Price.cur)
	w.Optional("externalPnl", e.ExternalPnL)
	return w.MarshalJSON()
}

// Dividend represents a cash dividend received for an instrument.
type Dividend struct {
	instEvent
	Amount Money
}

// NewDividend creates a new Dividend event.
func NewDividend(day Date, memo, symbol string, amount Money) Dividend {
	return Dividend{instEvent{baseEvent{KindDividend, day, memo}, symbol}, amount}
}

func (e Dividend) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(e.instEvent)
	w.EmbedFrom(e.Amount)
	return w.MarshalJSON()
}

// Fee represents a standalone fee or tax. When Symbol is empty the fee is
// account-level and only affects cash and realized profit.
type Fee struct {
	instEvent
	Amount Money
}

// NewFee creates a new Fee event. symbol may be empty for account-level fees.
func NewFee(day Date, memo, symbol string, amount Money) Fee {
	return Fee{instEvent{baseEvent{KindFee, day, memo}, symbol}, amount}
}

func (e Fee) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(e.baseEvent)
	w.Optional("symbol", e.Symbol)
	w.EmbedFrom(e.Amount)
	return w.MarshalJSON()
}

// PnLUpdate represents realized profit or loss reported directly by the
// source rather than computed from trade legs. The amount is signed.
type PnLUpdate struct {
	instEvent
	Amount Money
}

// NewPnLUpdate creates a new PnLUpdate event.
func NewPnLUpdate(day Date, memo, symbol string, amount Money) PnLUpdate {
	return PnLUpdate{instEvent{baseEvent{KindPnL, day, memo}, symbol}, amount}
}

func (e PnLUpdate) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(e.instEvent)
	w.EmbedFrom(e.Amount)
	return w.MarshalJSON()
}

// CashSnapshot represents a source-reported cash balance. It is the ground
// truth: it always overwrites the computed balance, and the latest snapshot
// date in a batch bounds which events may still mutate cash (see
// AccountLedger.Replay).
type CashSnapshot struct {
	baseEvent
	Balance Money
}

// NewCashSnapshot creates a new CashSnapshot event.
func NewCashSnapshot(day Date, memo string, balance Money) CashSnapshot {
	return CashSnapshot{baseEvent{KindSnapshot, day, memo}, balance}
}

func (e CashSnapshot) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(e.baseEvent)
	w.EmbedFrom(e.Balance)
	return w.MarshalJSON()
}

// priority defines the application order of events sharing the same day.
// Deposits settle before trades, buys before sells, and the snapshot is
// always the last word on cash for the day.
func priority(k EventKind) int {
	switch k {
	case KindDeposit, KindWithdraw:
		return 0
	case KindBuy:
		return 1
	case KindSell:
		return 2
	case KindDividend:
		return 3
	case KindFee:
		return 4
	case KindPnL:
		return 5
	case KindSnapshot:
		return 6
	default:
		return 7
	}
}

// SortEvents sorts events chronologically, breaking same-day ties with the
// fixed kind priority. The sort is stable: events of equal day and kind keep
// their original relative order.
func SortEvents(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].When() != events[j].When() {
			return events[i].When().Before(events[j].When())
		}
		return priority(events[i].Kind()) < priority(events[j].Kind())
	})
}
