package folio

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/shopspring/decimal"
)

func init() {
	// Decimals are plain JSON numbers on the wire, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// EncodeEvent writes one event as a single JSON line.
func EncodeEvent(w io.Writer, e Event) error {
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", e.Kind(), err)
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

// EncodeEvents writes the events as JSONL, one event per line, in slice order.
// Callers wanting a canonical file sort first with SortEvents.
func EncodeEvents(w io.Writer, events []Event) error {
	for _, e := range events {
		if err := EncodeEvent(w, e); err != nil {
			return err
		}
	}
	return nil
}

// rawEvent is the union of all event fields, used to decode one JSONL line
// before dispatching on kind.
type rawEvent struct {
	Kind        EventKind       `json:"kind"`
	Date        Date            `json:"date"`
	Memo        string          `json:"memo"`
	Symbol      string          `json:"symbol"`
	Currency    string          `json:"currency"`
	Amount      decimal.Decimal `json:"amount"`
	Quantity    Quantity        `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Fee         decimal.Decimal `json:"fee"`
	Source      string          `json:"source"`
	ExternalPnL bool            `json:"externalPnl"`
}

// DecodeEvents reads a JSONL stream and returns the decoded events in file
// order. Lines that fail to parse (malformed JSON, invalid dates) are logged
// and skipped rather than failing the whole ledger: one corrupt row must not
// take the account down.
func DecodeEvents(r io.Reader) ([]Event, error) {
	var events []Event
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		e, err := decodeEvent(raw)
		if err != nil {
			slog.Warn("skipping unreadable ledger line", "line", line, "err", err)
			continue
		}
		events = append(events, e)
	}
	if err := scanner.Err(); err != nil {
		return events, fmt.Errorf("reading ledger: %w", err)
	}
	return events, nil
}

func decodeEvent(raw []byte) (Event, error) {
	var r rawEvent
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, err
	}
	amount := M(r.Amount, r.Currency)
	price := M(r.Price, r.Currency)
	fee := M(r.Fee, r.Currency)
	switch r.Kind {
	case KindDeposit:
		return NewDeposit(r.Date, r.Memo, amount), nil
	case KindWithdraw:
		return NewWithdraw(r.Date, r.Memo, amount), nil
	case KindBuy:
		return NewBuy(r.Date, r.Memo, r.Symbol, r.Quantity, price, amount, fee, r.Source), nil
	case KindSell:
		return NewSell(r.Date, r.Memo, r.Symbol, r.Quantity, price, fee, r.ExternalPnL), nil
	case KindDividend:
		return NewDividend(r.Date, r.Memo, r.Symbol, amount), nil
	case KindFee:
		return NewFee(r.Date, r.Memo, r.Symbol, amount), nil
	case KindPnL:
		return NewPnLUpdate(r.Date, r.Memo, r.Symbol, amount), nil
	case KindSnapshot:
		return NewCashSnapshot(r.Date, r.Memo, amount), nil
	default:
		return nil, fmt.Errorf("unknown event kind %q", r.Kind)
	}
}
