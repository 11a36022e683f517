package folio

import (
	"testing"
	"time"
)

// setupReportEvents builds a three-instrument account: a plain winner, an
// externally reported one, and a pending placeholder.
func setupReportEvents(t *testing.T) []Event {
	t.Helper()
	return []Event{
		NewDeposit(NewDate(2025, time.January, 1), "funding", usd(10000)),

		// ACME: bought, dividend, half sold.
		NewBuy(NewDate(2025, time.January, 10), "", "ACME", Q(100), usd(20), Money{}, Money{}, ""),
		NewDividend(NewDate(2025, time.February, 1), "", "ACME", usd(100)),
		NewSell(NewDate(2025, time.March, 1), "", "ACME", Q(50), usd(30), Money{}, false),

		// GLOB: externally reported, P&L bundles the dividend.
		NewBuy(NewDate(2025, time.January, 20), "", "GLOB", Q(10), usd(100), Money{}, Money{}, ""),
		NewDividend(NewDate(2025, time.February, 10), "", "GLOB", usd(50)),
		NewSell(NewDate(2025, time.March, 10), "", "GLOB", Q(10), usd(120), Money{}, true),
		NewPnLUpdate(NewDate(2025, time.March, 10), "", "GLOB", usd(250)),

		// Rights allocation waiting for its listing.
		NewBuy(NewDate(2025, time.February, 20), "", "NEWCO_PND", Q(5), usd(10), Money{}, Money{}, ""),
	}
}

func TestReportAggregates(t *testing.T) {
	r := NewReport(setupReportEvents(t), NewDate(2025, time.June, 1))

	// Cash: 10000 - 2000 + 100 + 1500 - 1000 + 50 + 1000 + 250 - 50 = 9850.
	if !r.Cash.Equal(usd(9850)) {
		t.Errorf("Cash = %v, want 9850", r.Cash)
	}
	// Holdings exclude the pending placeholder: 50 ACME @ 20 = 1000.
	if !r.Holdings.Equal(usd(1000)) {
		t.Errorf("Holdings = %v, want 1000", r.Holdings)
	}
	if !r.NAV.Equal(usd(10850)) {
		t.Errorf("NAV = %v, want 10850", r.NAV)
	}
	// Trading: ACME 500 + GLOB (250 - 50 unbundled) = 700.
	if !r.TradingPL.Equal(usd(700)) {
		t.Errorf("TradingPL = %v, want 700", r.TradingPL)
	}
	if !r.DividendPL.Equal(usd(150)) {
		t.Errorf("DividendPL = %v, want 150", r.DividendPL)
	}
	if !r.TotalPL.Equal(usd(850)) {
		t.Errorf("TotalPL = %v, want 850", r.TotalPL)
	}
	// ROI = 850 / 10000 = 8.5%.
	if r.ROI != Percent(8.5) {
		t.Errorf("ROI = %v, want 8.5%%", r.ROI)
	}
}

func TestReportSummaryRows(t *testing.T) {
	r := NewReport(setupReportEvents(t), NewDate(2025, time.June, 1))
	rows := r.Summary()

	if len(rows) != 2 {
		t.Fatalf("got %d summary rows, want 2 (pending excluded)", len(rows))
	}
	// Sorted by total P&L descending: ACME 600 before GLOB 250.
	if rows[0].Symbol != "ACME" || rows[1].Symbol != "GLOB" {
		t.Fatalf("row order = %s, %s, want ACME, GLOB", rows[0].Symbol, rows[1].Symbol)
	}

	acme := rows[0]
	if !acme.TradingPL.Equal(usd(500)) {
		t.Errorf("ACME trading = %v, want 500", acme.TradingPL)
	}
	if !acme.TotalPL.Equal(usd(600)) {
		t.Errorf("ACME total = %v, want 600", acme.TotalPL)
	}
	// ACME's 1000 over the full book of 1050, pending lot included.
	if want := usd(1000).Ratio(usd(1050)); acme.Allocation != want {
		t.Errorf("ACME allocation = %v, want %v", acme.Allocation, want)
	}
	// 600 over 2000 invested.
	if acme.ROI != Percent(30) {
		t.Errorf("ACME ROI = %v, want 30%%", acme.ROI)
	}

	glob := rows[1]
	if !glob.External {
		t.Error("GLOB not flagged as externally reported")
	}
	// Raw 250 minus the 50 dividend backed out.
	if !glob.TradingPL.Equal(usd(200)) {
		t.Errorf("GLOB trading = %v, want 200", glob.TradingPL)
	}
	if !glob.TotalPL.Equal(usd(250)) {
		t.Errorf("GLOB total = %v, want 250", glob.TotalPL)
	}
}

func TestReportAsOfFiltersEvents(t *testing.T) {
	// As of January 15 only the deposit and the first buy happened.
	r := NewReport(setupReportEvents(t), NewDate(2025, time.January, 15))

	if !r.Cash.Equal(usd(8000)) {
		t.Errorf("Cash = %v, want 8000", r.Cash)
	}
	if !r.Holdings.Equal(usd(2000)) {
		t.Errorf("Holdings = %v, want 2000", r.Holdings)
	}
	if rows := r.Summary(); len(rows) != 1 || rows[0].Symbol != "ACME" {
		t.Errorf("summary rows = %+v, want ACME only", rows)
	}
}

func TestReportCycles(t *testing.T) {
	r := NewReport(setupReportEvents(t), NewDate(2025, time.June, 1))

	cycles := r.Cycles()
	if len(cycles) != 2 {
		t.Fatalf("got %d cycle rows, want 2 (pending excluded)", len(cycles))
	}
	if cycles[0].Symbol != "ACME" || cycles[0].Status != Open {
		t.Errorf("cycle 0 = %+v, want open ACME", cycles[0])
	}
	if cycles[1].Symbol != "GLOB" || cycles[1].Status != Closed {
		t.Errorf("cycle 1 = %+v, want closed GLOB", cycles[1])
	}
	// GLOB: Jan 20 to Mar 10 is 49 days.
	if cycles[1].Days != 49 {
		t.Errorf("GLOB cycle days = %d, want 49", cycles[1].Days)
	}

	closed := r.ClosedCycles()
	if len(closed) != 1 || closed[0].Symbol != "GLOB" {
		t.Errorf("ClosedCycles() = %+v, want GLOB only", closed)
	}
}

func TestReportInventoryIncludesPending(t *testing.T) {
	r := NewReport(setupReportEvents(t), NewDate(2025, time.June, 1))

	rows := r.Inventory()
	if len(rows) != 2 {
		t.Fatalf("got %d inventory rows, want 2", len(rows))
	}
	// Oldest first: the remaining ACME lot, then the pending one.
	if rows[0].Symbol != "ACME" || !rows[0].Quantity.Equal(Q(50)) {
		t.Errorf("row 0 = %+v, want 50 ACME", rows[0])
	}
	if rows[1].Symbol != "NEWCO_PND" || !rows[1].Pending {
		t.Errorf("row 1 = %+v, want pending NEWCO_PND", rows[1])
	}
}

func TestReportWarnings(t *testing.T) {
	events := setupReportEvents(t)

	// As of June 1 the ACME lot (Jan 10) is 142 days old and NEWCO_PND is
	// still pending.
	rows := NewReport(events, NewDate(2025, time.June, 1)).Warnings()
	if len(rows) != 2 {
		t.Fatalf("got %d warnings, want 2: %+v", len(rows), rows)
	}
	byKind := map[WarningKind]WarningRow{}
	for _, w := range rows {
		byKind[w.Kind] = w
	}
	if w, ok := byKind[WarnStale]; !ok || w.Symbol != "ACME" || w.Days != 142 {
		t.Errorf("stale warning = %+v, want ACME at 142 days", w)
	}
	if w, ok := byKind[WarnPending]; !ok || w.Symbol != "NEWCO_PND" {
		t.Errorf("pending warning = %+v, want NEWCO_PND", w)
	}

	// At 90 days exactly the position is not yet stale.
	rows = NewReport(events, NewDate(2025, time.April, 10)).Warnings()
	for _, w := range rows {
		if w.Kind == WarnStale {
			t.Errorf("unexpected stale warning at exactly %d days: %+v", StaleDays, w)
		}
	}
}

func TestIsPending(t *testing.T) {
	if !IsPending("NEWCO_PND") {
		t.Error("IsPending(NEWCO_PND) = false, want true")
	}
	if IsPending("ACME") {
		t.Error("IsPending(ACME) = true, want false")
	}
}
