package folio

import (
	"testing"
	"time"
)

func TestReplayNAVDailySeries(t *testing.T) {
	events := []Event{
		NewDeposit(NewDate(2025, time.January, 1), "", usd(1000)),
		NewBuy(NewDate(2025, time.January, 3), "", "ACME", Q(10), usd(50), Money{}, Money{}, ""),
		NewSell(NewDate(2025, time.January, 5), "", "ACME", Q(5), usd(60), Money{}, false),
	}
	series := ReplayNAV(events, NewDate(2025, time.January, 7))

	// One entry per calendar day from the first event to asOf.
	if len(series) != 7 {
		t.Fatalf("got %d entries, want 7", len(series))
	}
	if series[0].Date != NewDate(2025, time.January, 1) {
		t.Errorf("first day = %v, want 2025-01-01", series[0].Date)
	}

	day1 := series[0]
	if !day1.Cash.Equal(usd(1000)) || !day1.Holdings.IsZero() {
		t.Errorf("day 1 = %+v, want cash 1000 and no holdings", day1)
	}

	// Jan 3: bought 10 @ 50.
	day3 := series[2]
	if !day3.Cash.Equal(usd(500)) {
		t.Errorf("day 3 cash = %v, want 500", day3.Cash)
	}
	if !day3.Holdings.Equal(usd(500)) {
		t.Errorf("day 3 holdings = %v, want 500", day3.Holdings)
	}
	if !day3.NAV.Equal(usd(1000)) {
		t.Errorf("day 3 NAV = %v, want 1000", day3.NAV)
	}

	// Jan 5: sold half; average cost releases 250, proceeds 300.
	day5 := series[4]
	if !day5.Cash.Equal(usd(800)) {
		t.Errorf("day 5 cash = %v, want 800", day5.Cash)
	}
	if !day5.Holdings.Equal(usd(250)) {
		t.Errorf("day 5 holdings = %v, want 250", day5.Holdings)
	}

	// Quiet days carry the state forward.
	day7 := series[6]
	if !day7.NAV.Equal(usd(1050)) {
		t.Errorf("day 7 NAV = %v, want 1050", day7.NAV)
	}
	if !day7.NetDeposits.Equal(usd(1000)) {
		t.Errorf("day 7 net deposits = %v, want 1000", day7.NetDeposits)
	}
}

// TestReplayNAVExtendsToLastEvent checks the simulation window: the series
// runs to the last event date even when asOf falls before it, so
// future-dated ledger rows are never dropped.
func TestReplayNAVExtendsToLastEvent(t *testing.T) {
	events := []Event{
		NewDeposit(NewDate(2025, time.January, 1), "", usd(1000)),
		NewBuy(NewDate(2025, time.January, 10), "", "ACME", Q(10), usd(50), Money{}, Money{}, ""),
	}
	series := ReplayNAV(events, NewDate(2025, time.January, 5))

	if len(series) != 10 {
		t.Fatalf("got %d entries, want 10 (through the last event)", len(series))
	}
	last := series[len(series)-1]
	if last.Date != NewDate(2025, time.January, 10) {
		t.Errorf("last day = %v, want 2025-01-10", last.Date)
	}
	if !last.Holdings.Equal(usd(500)) {
		t.Errorf("final holdings = %v, want 500", last.Holdings)
	}
	if !last.Cash.Equal(usd(500)) {
		t.Errorf("final cash = %v, want 500", last.Cash)
	}
}

func TestReplayNAVZeroQuantityBuy(t *testing.T) {
	events := []Event{
		NewDeposit(NewDate(2025, time.January, 1), "", usd(1000)),
		// A cost row with no units: a fee-like charge from an export.
		NewBuy(NewDate(2025, time.January, 2), "", "ACME", Q(0), Money{}, usd(400), Money{}, ""),
	}
	series := ReplayNAV(events, NewDate(2025, time.January, 2))
	last := series[len(series)-1]

	if !last.Holdings.IsZero() {
		t.Errorf("holdings = %v, want 0 for a zero-quantity buy", last.Holdings)
	}
	// The cash leg still applies.
	if !last.Cash.Equal(usd(600)) {
		t.Errorf("cash = %v, want 600", last.Cash)
	}
}

// TestReplayNAVAgreesWithReplay checks that the series endpoint matches the
// account ledger on the same batch: same gating, same snapshot overwrite.
func TestReplayNAVAgreesWithReplay(t *testing.T) {
	events := []Event{
		NewDeposit(NewDate(2025, time.January, 1), "", usd(5000)),
		NewBuy(NewDate(2025, time.January, 10), "", "ACME", Q(100), usd(20), Money{}, Money{}, ""),
		NewCashSnapshot(NewDate(2025, time.February, 1), "", usd(2500)),
		NewDividend(NewDate(2025, time.February, 10), "", "ACME", usd(100)),
		NewSell(NewDate(2025, time.March, 1), "", "ACME", Q(100), usd(25), usd(10), false),
	}
	asOf := NewDate(2025, time.March, 15)

	series := ReplayNAV(events, asOf)
	last := series[len(series)-1]
	a := Replay(events)

	if !last.Cash.Equal(a.Cash()) {
		t.Errorf("series cash = %v, account cash = %v", last.Cash, a.Cash())
	}
	if !last.NetDeposits.Equal(a.NetDeposits()) {
		t.Errorf("series deposits = %v, account deposits = %v", last.NetDeposits, a.NetDeposits())
	}
}

func TestReplayNAVExternalSellReleasesCostOnly(t *testing.T) {
	events := []Event{
		NewDeposit(NewDate(2025, time.January, 1), "", usd(1000)),
		NewBuy(NewDate(2025, time.January, 2), "", "GLOB", Q(10), usd(50), Money{}, Money{}, ""),
		NewSell(NewDate(2025, time.January, 3), "", "GLOB", Q(10), usd(80), Money{}, true),
	}
	series := ReplayNAV(events, NewDate(2025, time.January, 3))
	last := series[len(series)-1]

	// 1000 - 500 + 500 released: the 300 profit waits for its PnLUpdate.
	if !last.Cash.Equal(usd(1000)) {
		t.Errorf("cash = %v, want 1000", last.Cash)
	}
	if !last.Holdings.IsZero() {
		t.Errorf("holdings = %v, want 0", last.Holdings)
	}
}

func TestReplayNAVExcludesPending(t *testing.T) {
	events := []Event{
		NewDeposit(NewDate(2025, time.January, 1), "", usd(1000)),
		NewBuy(NewDate(2025, time.January, 2), "", "NEWCO_PND", Q(5), usd(10), Money{}, Money{}, ""),
	}
	series := ReplayNAV(events, NewDate(2025, time.January, 2))
	last := series[len(series)-1]

	if !last.Holdings.IsZero() {
		t.Errorf("holdings = %v, want 0 with only pending inventory", last.Holdings)
	}
	// The purchase still cost cash.
	if !last.Cash.Equal(usd(950)) {
		t.Errorf("cash = %v, want 950", last.Cash)
	}
}

func TestDrawdown(t *testing.T) {
	day := func(i int) Date { return NewDate(2025, time.January, i) }
	series := []NAVEntry{
		{Date: day(1), NAV: usd(1000)},
		{Date: day(2), NAV: usd(1200)},
		{Date: day(3), NAV: usd(900)},
		{Date: day(4), NAV: usd(1100)},
		{Date: day(5), NAV: usd(600)},
	}

	dd := Drawdown(series)
	if dd[0] != 0 || dd[1] != 0 {
		t.Errorf("drawdown at peaks = %v, %v, want 0, 0", dd[0], dd[1])
	}
	// 900 against the 1200 peak is -25%.
	if dd[2] != Percent(-25) {
		t.Errorf("drawdown day 3 = %v, want -25%%", dd[2])
	}

	worst, when := MaxDrawdown(series)
	// 600 against 1200 is -50%.
	if worst != Percent(-50) {
		t.Errorf("MaxDrawdown() = %v, want -50%%", worst)
	}
	if when != day(5) {
		t.Errorf("MaxDrawdown() bottom = %v, want day 5", when)
	}
}

func TestMergeNAV(t *testing.T) {
	day := func(i int) Date { return NewDate(2025, time.January, i) }
	a := []NAVEntry{
		{Date: day(1), Cash: usd(100), NAV: usd(100)},
		{Date: day(2), Cash: usd(200), NAV: usd(200)},
	}
	b := []NAVEntry{
		{Date: day(2), Cash: usd(50), NAV: usd(50)},
		{Date: day(4), Cash: usd(80), NAV: usd(80)},
	}

	merged := MergeNAV(a, b)
	if len(merged) != 4 {
		t.Fatalf("got %d merged entries, want 4", len(merged))
	}
	// Day 1: b has not started yet.
	if !merged[0].NAV.Equal(usd(100)) {
		t.Errorf("day 1 NAV = %v, want 100", merged[0].NAV)
	}
	// Day 2: both series.
	if !merged[1].NAV.Equal(usd(250)) {
		t.Errorf("day 2 NAV = %v, want 250", merged[1].NAV)
	}
	// Day 3: both carried forward.
	if !merged[2].NAV.Equal(usd(250)) {
		t.Errorf("day 3 NAV = %v, want 250", merged[2].NAV)
	}
	// Day 4: a carried forward, b updated.
	if !merged[3].NAV.Equal(usd(280)) {
		t.Errorf("day 4 NAV = %v, want 280", merged[3].NAV)
	}

	if got := MergeNAV(nil, b); len(got) != len(b) {
		t.Errorf("MergeNAV(nil, b) returned %d entries, want %d", len(got), len(b))
	}
}
