package folio

// NAVEntry is one day of the replayed net asset value series.
type NAVEntry struct {
	Date        Date
	Cash        Money
	Holdings    Money // open positions at weighted-average cost, pending excluded
	NetDeposits Money
	NAV         Money // Cash + Holdings
}

// navPosition is the weighted-average inventory of one symbol during replay.
// The NAV series does not need lot provenance, a single (quantity, cost)
// pair per symbol is enough and much cheaper over long date ranges.
type navPosition struct {
	quantity Quantity
	cost     Money
}

// ReplayNAV walks the calendar day by day and returns one NAVEntry per day.
// The window runs from the first event to max(asOf, last event date), so
// future-dated rows already in the ledger stay in the series. Positions are
// carried at weighted-average cost; the cash gating and snapshot-overwrite
// rules match Replay, so the final entry's cash agrees with the account
// ledger.
func ReplayNAV(events []Event, asOf Date) []NAVEntry {
	if len(events) == 0 {
		return nil
	}
	sorted := make([]Event, len(events))
	copy(sorted, events)
	SortEvents(sorted)

	end := asOf
	if last := sorted[len(sorted)-1].When(); last.After(end) {
		end = last
	}

	var authority Date
	var hasAuthority bool
	for _, e := range sorted {
		if e.Kind() == KindSnapshot && (!hasAuthority || e.When().After(authority)) {
			authority = e.When()
			hasAuthority = true
		}
	}

	var cash, netDeposits Money
	positions := make(map[string]*navPosition)
	applies := func(day Date) bool {
		return !hasAuthority || day.After(authority)
	}
	pos := func(symbol string) *navPosition {
		p, ok := positions[symbol]
		if !ok {
			p = &navPosition{}
			positions[symbol] = p
		}
		return p
	}

	var series []NAVEntry
	next := 0
	for day := sorted[0].When(); !day.After(end); day = day.Add(1) {
		for next < len(sorted) && sorted[next].When() == day {
			e := sorted[next]
			next++
			switch v := e.(type) {
			case Deposit:
				if applies(day) {
					cash = cash.Add(v.Amount)
					netDeposits = netDeposits.Add(v.Amount)
				}
			case Withdraw:
				if applies(day) {
					cash = cash.Sub(v.Amount)
					netDeposits = netDeposits.Sub(v.Amount)
				}
			case Buy:
				cost := v.Cost()
				// A zero-quantity row must not inflate holdings;
				// only the cash leg is taken as given.
				if v.Quantity.IsPositive() {
					p := pos(v.Symbol)
					p.quantity = p.quantity.Add(v.Quantity)
					p.cost = p.cost.Add(cost)
				}
				if applies(day) {
					cash = cash.Sub(cost)
				}
			case Sell:
				p := pos(v.Symbol)
				released := p.cost
				if v.Quantity.LessThan(p.quantity) {
					released = p.cost.Div(p.quantity).Mul(v.Quantity)
				}
				sold := v.Quantity.Min(p.quantity)
				p.quantity = p.quantity.Sub(sold)
				p.cost = p.cost.Sub(released)
				credit := v.NetProceeds()
				if v.ExternalPnL {
					credit = released
				}
				if applies(day) {
					cash = cash.Add(credit)
				}
			case Dividend:
				if applies(day) {
					cash = cash.Add(v.Amount)
				}
			case Fee:
				if applies(day) {
					cash = cash.Sub(v.Amount)
				}
			case PnLUpdate:
				if applies(day) {
					cash = cash.Add(v.Amount)
				}
			case CashSnapshot:
				cash = v.Balance
			}
		}

		var holdings Money
		for symbol, p := range positions {
			if IsPending(symbol) {
				continue
			}
			holdings = holdings.Add(p.cost)
		}
		series = append(series, NAVEntry{
			Date:        day,
			Cash:        cash,
			Holdings:    holdings,
			NetDeposits: netDeposits,
			NAV:         cash.Add(holdings),
		})
	}
	return series
}

// Drawdown returns, for each day, the NAV decline from the running peak as a
// non-positive percentage.
func Drawdown(series []NAVEntry) []Percent {
	out := make([]Percent, len(series))
	var peak Money
	for i, e := range series {
		if e.NAV.GreaterThan(peak) {
			peak = e.NAV
		}
		if peak.IsPositive() {
			out[i] = e.NAV.Sub(peak).Ratio(peak)
		}
	}
	return out
}

// MaxDrawdown returns the deepest decline of the series, as a non-positive
// percentage, and the day it bottomed.
func MaxDrawdown(series []NAVEntry) (Percent, Date) {
	var worst Percent
	var when Date
	for i, dd := range Drawdown(series) {
		if dd < worst {
			worst = dd
			when = series[i].Date
		}
	}
	return worst, when
}

// MergeNAV combines two daily series into one by summing the values of
// matching days. Before a series starts its contribution is zero; within a
// gap the last known entry is carried forward.
func MergeNAV(a, b []NAVEntry) []NAVEntry {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	start, end := a[0].Date, a[len(a)-1].Date
	if b[0].Date.Before(start) {
		start = b[0].Date
	}
	if b[len(b)-1].Date.After(end) {
		end = b[len(b)-1].Date
	}

	var out []NAVEntry
	var ia, ib int
	var la, lb NAVEntry
	for day := start; !day.After(end); day = day.Add(1) {
		for ia < len(a) && !a[ia].Date.After(day) {
			la = a[ia]
			ia++
		}
		for ib < len(b) && !b[ib].Date.After(day) {
			lb = b[ib]
			ib++
		}
		out = append(out, NAVEntry{
			Date:        day,
			Cash:        la.Cash.Add(lb.Cash),
			Holdings:    la.Holdings.Add(lb.Holdings),
			NetDeposits: la.NetDeposits.Add(lb.NetDeposits),
			NAV:         la.NAV.Add(lb.NAV),
		})
	}
	return out
}
