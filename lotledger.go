package folio

import "strings"

// PendingSuffix marks placeholder symbols for inventory awaiting listing or
// settlement (rights issues, IPO allocations). Pending inventory counts in
// holdings but is excluded from performance, cycle, and NAV figures.
const PendingSuffix = "_PND"

// IsPending reports whether symbol is a placeholder for pending inventory.
func IsPending(symbol string) bool {
	return strings.HasSuffix(symbol, PendingSuffix)
}

// closeEpsilon is the residual quantity below which a position counts as flat.
// Exports round fractional rights allocations, so exact zero is not reliable.
var closeEpsilon = Q(0.001)

// Lot is one purchase batch still (partially) held.
type Lot struct {
	Date         Date     // purchase date
	Quantity     Quantity // remaining quantity, always >= 0
	UnitCost     Money    // cost per share as paid
	AdjUnitCost  Money    // cost per share after dividend reductions
	Source, Memo string   // provenance from the Buy event
}

// CycleStatus is the lifecycle state of an investment cycle.
type CycleStatus int

const (
	// Open means the position is still held.
	Open CycleStatus = iota
	// Closed means the position returned to flat.
	Closed
)

func (s CycleStatus) String() string {
	if s == Closed {
		return "closed"
	}
	return "open"
}

// Cycle is the lifetime of a position from the first share bought into an
// empty book until the position returns to flat. A closed cycle is immutable;
// the next buy starts a fresh one.
type Cycle struct {
	Start        Date
	End          Date // zero while open
	BuyValue     Money
	BuyQuantity  Quantity
	SellValue    Money
	SellQuantity Quantity
	TradingPL    Money
	DividendPL   Money
	Status       CycleStatus
}

// Days returns the cycle duration in days, using asOf for open cycles.
func (c Cycle) Days(asOf Date) int {
	if c.Status == Closed {
		return c.End.Sub(c.Start)
	}
	return asOf.Sub(c.Start)
}

// LotLedger tracks one instrument: the FIFO queue of open lots, the current
// investment cycle, and cumulative statistics. It is exclusively owned by one
// AccountLedger and must only be mutated through it.
type LotLedger struct {
	symbol string
	lots   []Lot // FIFO: oldest purchase first, consumed from the front
	open   *Cycle
	closed []Cycle

	soldQuantity     Quantity
	tradingPL        Money
	dividends        Money
	invested         Money
	costOfSales      Money
	weightedSoldDays Quantity // sum of (days held x quantity) over sold slices
	externalPnL      bool     // sticky: set by the first PnLUpdate for this symbol
}

func newLotLedger(symbol string) *LotLedger {
	return &LotLedger{symbol: symbol}
}

// Symbol returns the instrument ticker this ledger tracks.
func (l *LotLedger) Symbol() string { return l.symbol }

// Lots returns a copy of the currently held lots, oldest first.
func (l *LotLedger) Lots() []Lot {
	out := make([]Lot, len(l.lots))
	copy(out, l.lots)
	return out
}

// HeldQuantity returns the total quantity across all open lots.
func (l *LotLedger) HeldQuantity() Quantity {
	var total Quantity
	for _, lot := range l.lots {
		total = total.Add(lot.Quantity)
	}
	return total
}

// HeldValue returns the value of the open lots at unadjusted cost.
func (l *LotLedger) HeldValue() Money {
	var total Money
	for _, lot := range l.lots {
		total = total.Add(lot.UnitCost.Mul(lot.Quantity))
	}
	return total
}

// HeldValueAdjusted returns the value of the open lots at dividend-adjusted cost.
func (l *LotLedger) HeldValueAdjusted() Money {
	var total Money
	for _, lot := range l.lots {
		total = total.Add(lot.AdjUnitCost.Mul(lot.Quantity))
	}
	return total
}

// Cycles returns all closed cycles followed by the open one, if any.
func (l *LotLedger) Cycles() []Cycle {
	out := make([]Cycle, len(l.closed), len(l.closed)+1)
	copy(out, l.closed)
	if l.open != nil {
		out = append(out, *l.open)
	}
	return out
}

// SoldQuantity returns the cumulative quantity sold.
func (l *LotLedger) SoldQuantity() Quantity { return l.soldQuantity }

// TradingPL returns the raw cumulative realized trading P&L counter. When the
// ledger uses external P&L this figure already bundles dividend effects; see
// Report for the unbundling rule.
func (l *LotLedger) TradingPL() Money { return l.tradingPL }

// Dividends returns the cumulative dividends received.
func (l *LotLedger) Dividends() Money { return l.dividends }

// Invested returns the cumulative capital put into this instrument.
func (l *LotLedger) Invested() Money { return l.invested }

// CostOfSales returns the cumulative FIFO cost basis of everything sold.
func (l *LotLedger) CostOfSales() Money { return l.costOfSales }

// UsesExternalPnL reports whether any PnLUpdate was recorded for this symbol.
func (l *LotLedger) UsesExternalPnL() bool { return l.externalPnL }

// AvgDaysSold returns the quantity-weighted average holding period of sold
// shares, or 0 when nothing was sold.
func (l *LotLedger) AvgDaysSold() float64 {
	if !l.soldQuantity.IsPositive() {
		return 0
	}
	return l.weightedSoldDays.Div(l.soldQuantity).Float()
}

// AvgDaysHeld returns the quantity-weighted average age of the open lots on
// asOf, or 0 when the book is empty.
func (l *LotLedger) AvgDaysHeld(asOf Date) float64 {
	held := l.HeldQuantity()
	if !held.IsPositive() {
		return 0
	}
	var weighted Quantity
	for _, lot := range l.lots {
		weighted = weighted.Add(Q(asOf.Sub(lot.Date)).Mul(lot.Quantity))
	}
	return weighted.Div(held).Float()
}

// buy appends a new lot at the tail of the FIFO queue and opens a cycle if
// none is open. A non-positive quantity leaves the inventory untouched.
func (l *LotLedger) buy(on Date, quantity Quantity, cost Money, source, memo string) {
	if !quantity.IsPositive() {
		return
	}
	unit := cost.Div(quantity)
	l.lots = append(l.lots, Lot{
		Date:        on,
		Quantity:    quantity,
		UnitCost:    unit,
		AdjUnitCost: unit,
		Source:      source,
		Memo:        memo,
	})
	l.invested = l.invested.Add(cost)

	if l.open == nil {
		l.open = &Cycle{Start: on, Status: Open}
	}
	l.open.BuyValue = l.open.BuyValue.Add(cost)
	l.open.BuyQuantity = l.open.BuyQuantity.Add(quantity)
}

// sell consumes lots from the front of the queue until quantity is satisfied
// or the queue is exhausted. It returns the FIFO cost of the consumed shares
// and the realized P&L (zero when external is true, since the authoritative
// figure arrives later as a PnLUpdate). Selling more than held empties the
// queue; the unmatched remainder contributes nothing.
func (l *LotLedger) sell(on Date, quantity Quantity, netProceeds Money, external bool) (costOfGoods, realized Money) {
	needed := quantity
	for needed.IsPositive() && len(l.lots) > 0 {
		lot := &l.lots[0]
		take := needed.Min(lot.Quantity)
		costOfGoods = costOfGoods.Add(lot.UnitCost.Mul(take))
		l.weightedSoldDays = l.weightedSoldDays.Add(Q(on.Sub(lot.Date)).Mul(take))
		lot.Quantity = lot.Quantity.Sub(take)
		needed = needed.Sub(take)
		if !lot.Quantity.IsPositive() {
			l.lots = l.lots[1:]
		}
	}

	if !external {
		realized = netProceeds.Sub(costOfGoods)
		l.tradingPL = l.tradingPL.Add(realized)
	}
	l.soldQuantity = l.soldQuantity.Add(quantity)
	l.costOfSales = l.costOfSales.Add(costOfGoods)

	if l.open != nil {
		l.open.SellValue = l.open.SellValue.Add(netProceeds)
		l.open.SellQuantity = l.open.SellQuantity.Add(quantity)
		if !external {
			l.open.TradingPL = l.open.TradingPL.Add(realized)
		}
		if l.HeldQuantity().LessThanOrEqual(closeEpsilon) {
			l.open.End = on
			l.open.Status = Closed
			l.closed = append(l.closed, *l.open)
			l.open = nil
		}
	}
	return costOfGoods, realized
}

// dividend accrues the amount and lowers the adjusted unit cost of every open
// lot by a flat per-share reduction. With an empty book the adjustment is
// skipped; the dividend still counts in the statistics.
func (l *LotLedger) dividend(amount Money) {
	l.dividends = l.dividends.Add(amount)
	if l.open != nil {
		l.open.DividendPL = l.open.DividendPL.Add(amount)
	}

	held := l.HeldQuantity()
	if !held.IsPositive() {
		return
	}
	perShare := amount.Div(held)
	for i := range l.lots {
		// The adjusted cost may go negative when dividends exceed the
		// purchase price; that is a valid state, not clamped.
		l.lots[i].AdjUnitCost = l.lots[i].AdjUnitCost.Sub(perShare)
	}
}

// fee reduces the trading P&L counters without touching lots.
func (l *LotLedger) fee(amount Money) {
	l.tradingPL = l.tradingPL.Sub(amount)
	if l.open != nil {
		l.open.TradingPL = l.open.TradingPL.Sub(amount)
	}
}

// externalPnLUpdate records a source-reported realized P&L figure and marks
// the ledger as externally reported for good.
func (l *LotLedger) externalPnLUpdate(amount Money) {
	l.tradingPL = l.tradingPL.Add(amount)
	l.externalPnL = true
	if l.open != nil {
		l.open.TradingPL = l.open.TradingPL.Add(amount)
	}
}
