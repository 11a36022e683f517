package folio

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestEncodeDecodeEvents(t *testing.T) {
	events := []Event{
		NewDeposit(NewDate(2025, time.January, 1), "funding", usd(1000)),
		NewBuy(NewDate(2025, time.January, 10), "first", "ACME", Q(10.5), usd(50), usd(530), usd(5), "broker-a"),
		NewSell(NewDate(2025, time.February, 1), "", "ACME", Q(10.5), usd(60), usd(3), true),
		NewDividend(NewDate(2025, time.February, 15), "", "ACME", usd(12)),
		NewFee(NewDate(2025, time.March, 1), "custody", "", usd(30)),
		NewPnLUpdate(NewDate(2025, time.March, 10), "", "ACME", usd(99)),
		NewCashSnapshot(NewDate(2025, time.March, 31), "statement", usd(1500)),
		NewWithdraw(NewDate(2025, time.April, 1), "", usd(200)),
	}

	var buf bytes.Buffer
	if err := EncodeEvents(&buf, events); err != nil {
		t.Fatalf("EncodeEvents() failed: %v", err)
	}
	if got := strings.Count(buf.String(), "\n"); got != len(events) {
		t.Fatalf("encoded %d lines, want %d", got, len(events))
	}

	back, err := DecodeEvents(&buf)
	if err != nil {
		t.Fatalf("DecodeEvents() failed: %v", err)
	}
	if len(back) != len(events) {
		t.Fatalf("decoded %d events, want %d", len(back), len(events))
	}

	for i, e := range back {
		if e.Kind() != events[i].Kind() {
			t.Errorf("event %d kind = %s, want %s", i, e.Kind(), events[i].Kind())
		}
		if e.When() != events[i].When() {
			t.Errorf("event %d date = %v, want %v", i, e.When(), events[i].When())
		}
	}

	// Semantic equality: both batches replay to the same account.
	want := Replay(events)
	got := Replay(back)
	if !got.Cash().Equal(want.Cash()) {
		t.Errorf("replayed cash = %v, want %v", got.Cash(), want.Cash())
	}
	if !got.NetDeposits().Equal(want.NetDeposits()) {
		t.Errorf("replayed deposits = %v, want %v", got.NetDeposits(), want.NetDeposits())
	}
	wl, gl := want.Instrument("ACME"), got.Instrument("ACME")
	if !gl.TradingPL().Equal(wl.TradingPL()) {
		t.Errorf("replayed trading P&L = %v, want %v", gl.TradingPL(), wl.TradingPL())
	}
	if gl.UsesExternalPnL() != wl.UsesExternalPnL() {
		t.Errorf("replayed external flag = %v, want %v", gl.UsesExternalPnL(), wl.UsesExternalPnL())
	}
}

func TestDecodeEventsSkipsBadLines(t *testing.T) {
	ledger := strings.Join([]string{
		`{"kind":"deposit","date":"2025-01-01","currency":"USD","amount":1000}`,
		`not json at all`,
		`{"kind":"deposit","date":"not-a-date","currency":"USD","amount":500}`,
		`{"kind":"teleport","date":"2025-01-02"}`,
		``,
		`{"kind":"withdraw","date":"2025-01-03","currency":"USD","amount":200}`,
	}, "\n")

	events, err := DecodeEvents(strings.NewReader(ledger))
	if err != nil {
		t.Fatalf("DecodeEvents() failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("decoded %d events, want the 2 good lines", len(events))
	}
	if events[0].Kind() != KindDeposit || events[1].Kind() != KindWithdraw {
		t.Errorf("kinds = %s, %s, want deposit, withdraw", events[0].Kind(), events[1].Kind())
	}
}

func TestEncodeEventFieldOrder(t *testing.T) {
	var buf bytes.Buffer
	e := NewBuy(NewDate(2025, time.January, 10), "", "ACME", Q(10), usd(50), Money{}, Money{}, "sheet-1")
	if err := EncodeEvent(&buf, e); err != nil {
		t.Fatalf("EncodeEvent() failed: %v", err)
	}
	got := strings.TrimSpace(buf.String())
	want := `{"kind":"buy","date":"2025-01-10","symbol":"ACME","quantity":10,"price":50,"amount":0,"fee":0,"currency":"USD","source":"sheet-1"}`
	if got != want {
		t.Errorf("EncodeEvent() = %s, want %s", got, want)
	}
}
