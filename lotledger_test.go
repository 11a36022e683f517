package folio

import (
	"testing"
	"time"
)

func usd(v float64) Money { return M(v, "USD") }

func TestLotLedgerFIFO(t *testing.T) {
	l := newLotLedger("ACME")
	// 10 @ 10, then 10 @ 20.
	l.buy(NewDate(2025, time.January, 10), Q(10), usd(100), "", "")
	l.buy(NewDate(2025, time.February, 10), Q(10), usd(200), "", "")

	// Selling 15 consumes the whole first lot and half the second:
	// cost = 10*10 + 5*20 = 200.
	cost, realized := l.sell(NewDate(2025, time.March, 1), Q(15), usd(450), false)
	if !cost.Equal(usd(200)) {
		t.Errorf("costOfGoods = %v, want %v", cost, usd(200))
	}
	if !realized.Equal(usd(250)) {
		t.Errorf("realized = %v, want %v", realized, usd(250))
	}

	lots := l.Lots()
	if len(lots) != 1 {
		t.Fatalf("got %d open lots, want 1", len(lots))
	}
	if !lots[0].Quantity.Equal(Q(5)) {
		t.Errorf("remaining quantity = %v, want 5", lots[0].Quantity)
	}
	if !lots[0].UnitCost.Equal(usd(20)) {
		t.Errorf("remaining unit cost = %v, want 20", lots[0].UnitCost)
	}
}

func TestLotLedgerOversell(t *testing.T) {
	l := newLotLedger("ACME")
	l.buy(NewDate(2025, time.January, 10), Q(10), usd(100), "", "")

	// Selling 12 against 10 held empties the book; only the matched cost
	// counts, the proceeds are taken as given.
	cost, realized := l.sell(NewDate(2025, time.February, 1), Q(12), usd(240), false)
	if !cost.Equal(usd(100)) {
		t.Errorf("costOfGoods = %v, want %v", cost, usd(100))
	}
	if !realized.Equal(usd(140)) {
		t.Errorf("realized = %v, want %v", realized, usd(140))
	}
	if got := l.HeldQuantity(); !got.IsZero() {
		t.Errorf("held = %v, want 0", got)
	}
	cycles := l.Cycles()
	if len(cycles) != 1 || cycles[0].Status != Closed {
		t.Fatalf("cycles = %+v, want one closed cycle", cycles)
	}
}

func TestLotLedgerDividendAdjustsCost(t *testing.T) {
	l := newLotLedger("ACME")
	// unit cost 10, then 30.
	l.buy(NewDate(2025, time.January, 10), Q(10), usd(100), "", "")
	l.buy(NewDate(2025, time.February, 10), Q(10), usd(300), "", "")

	// 40 over 20 shares lowers every lot by 2/share.
	l.dividend(usd(40))

	lots := l.Lots()
	if !lots[0].AdjUnitCost.Equal(usd(8)) {
		t.Errorf("lot 0 adjusted cost = %v, want 8", lots[0].AdjUnitCost)
	}
	if !lots[1].AdjUnitCost.Equal(usd(28)) {
		t.Errorf("lot 1 adjusted cost = %v, want 28", lots[1].AdjUnitCost)
	}
	// Raw cost stays put.
	if !lots[0].UnitCost.Equal(usd(10)) {
		t.Errorf("lot 0 unit cost = %v, want 10", lots[0].UnitCost)
	}
	if !l.HeldValueAdjusted().Equal(usd(360)) {
		t.Errorf("adjusted value = %v, want 360", l.HeldValueAdjusted())
	}

	// A dividend larger than the remaining cost drives it negative.
	l.dividend(usd(400))
	lots = l.Lots()
	if !lots[0].AdjUnitCost.Equal(usd(-12)) {
		t.Errorf("lot 0 adjusted cost = %v, want -12", lots[0].AdjUnitCost)
	}
}

func TestLotLedgerCycleLifecycle(t *testing.T) {
	l := newLotLedger("ACME")

	// First cycle: buy, partial sell, residual dust sell closes it.
	l.buy(NewDate(2025, time.January, 10), Q(10), usd(100), "", "")
	l.sell(NewDate(2025, time.February, 1), Q(9.9995), usd(150), false)
	// 0.0005 remaining is within the flat epsilon.
	cycles := l.Cycles()
	if len(cycles) != 1 {
		t.Fatalf("got %d cycles, want 1", len(cycles))
	}
	if cycles[0].Status != Closed {
		t.Errorf("cycle status = %v, want closed", cycles[0].Status)
	}
	if cycles[0].End != NewDate(2025, time.February, 1) {
		t.Errorf("cycle end = %v, want 2025-02-01", cycles[0].End)
	}

	// A new buy starts a fresh cycle; the closed one is immutable.
	l.buy(NewDate(2025, time.March, 1), Q(5), usd(60), "", "")
	l.dividend(usd(10))
	cycles = l.Cycles()
	if len(cycles) != 2 {
		t.Fatalf("got %d cycles, want 2", len(cycles))
	}
	if !cycles[0].DividendPL.IsZero() {
		t.Errorf("closed cycle dividend = %v, want 0", cycles[0].DividendPL)
	}
	if !cycles[1].DividendPL.Equal(usd(10)) {
		t.Errorf("open cycle dividend = %v, want 10", cycles[1].DividendPL)
	}
	if cycles[1].Status != Open {
		t.Errorf("second cycle status = %v, want open", cycles[1].Status)
	}
}

func TestLotLedgerExternalPnL(t *testing.T) {
	l := newLotLedger("ACME")
	l.buy(NewDate(2025, time.January, 10), Q(10), usd(100), "", "")

	// External sell: cost released, no realized P&L computed locally.
	cost, realized := l.sell(NewDate(2025, time.February, 1), Q(10), usd(150), true)
	if !cost.Equal(usd(100)) {
		t.Errorf("costOfGoods = %v, want 100", cost)
	}
	if !realized.IsZero() {
		t.Errorf("realized = %v, want 0", realized)
	}
	if !l.TradingPL().IsZero() {
		t.Errorf("trading P&L = %v, want 0 before the update", l.TradingPL())
	}

	l.externalPnLUpdate(usd(50))
	if !l.TradingPL().Equal(usd(50)) {
		t.Errorf("trading P&L = %v, want 50", l.TradingPL())
	}
	if !l.UsesExternalPnL() {
		t.Error("UsesExternalPnL() = false, want true after an update")
	}
}

func TestLotLedgerHoldingAges(t *testing.T) {
	l := newLotLedger("ACME")
	l.buy(NewDate(2025, time.January, 1), Q(10), usd(100), "", "")
	l.buy(NewDate(2025, time.January, 31), Q(30), usd(300), "", "")

	// Weighted age on Feb 10: (40*10 + 10*30) / 40 = 17.5 days.
	if got := l.AvgDaysHeld(NewDate(2025, time.February, 10)); got != 17.5 {
		t.Errorf("AvgDaysHeld() = %v, want 17.5", got)
	}

	// Sell 20 on Feb 10: 10 from the 40-day lot, 10 from the 10-day lot,
	// weighted sold age = (40*10 + 10*10) / 20 = 25 days.
	l.sell(NewDate(2025, time.February, 10), Q(20), usd(300), false)
	if got := l.AvgDaysSold(); got != 25 {
		t.Errorf("AvgDaysSold() = %v, want 25", got)
	}
}
