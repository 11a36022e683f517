package folio

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
)

// ImportMapping describes how to lift events out of an arbitrary broker JSON
// export. Rows selects the transaction array; the remaining fields are
// jsonpath expressions evaluated against each row ("$.x" addresses field x of
// the row). Empty paths mean the field is absent from this export.
type ImportMapping struct {
	Rows string `json:"rows"` // e.g. "$.data.transactions[*]"

	Kind     string `json:"kind"`
	Date     string `json:"date"`
	Symbol   string `json:"symbol"`
	Quantity string `json:"quantity"`
	Price    string `json:"price"`
	Amount   string `json:"amount"`
	Fee      string `json:"fee"`
	Memo     string `json:"memo"`
	Source   string `json:"source"`

	// Kinds translates the source's own transaction labels (e.g. "BUY",
	// "Achat") into event kinds. A row whose label is missing from the map
	// is skipped with a warning.
	Kinds map[string]EventKind `json:"kinds"`

	// DateLayout is the time.Parse layout of the source dates; defaults to
	// "2006-01-02" when empty.
	DateLayout string `json:"dateLayout"`

	// Currency applies to every monetary field of the export.
	Currency string `json:"currency"`

	// ExternalPnL marks sells from this source as externally reported.
	ExternalPnL bool `json:"externalPnl"`
}

// ReadImportMapping decodes a mapping file.
func ReadImportMapping(r io.Reader) (ImportMapping, error) {
	var m ImportMapping
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return m, fmt.Errorf("reading import mapping: %w", err)
	}
	if m.Rows == "" {
		return m, fmt.Errorf("import mapping: rows path is required")
	}
	return m, nil
}

// ImportJSON reads a broker JSON export and returns the events the mapping
// lifts out of it. Rows that cannot be interpreted are logged and skipped;
// a partial import is more useful than none.
func ImportJSON(r io.Reader, m ImportMapping) ([]Event, error) {
	var doc any
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}
	jrows, err := jsonpath.Get(m.Rows, doc)
	if err != nil {
		return nil, fmt.Errorf("selecting rows %q: %w", m.Rows, err)
	}
	rows, ok := jrows.([]any)
	if !ok {
		// A single-row export still deserves a try.
		rows = []any{jrows}
	}

	var events []Event
	for i, row := range rows {
		e, err := m.event(row)
		if err != nil {
			slog.Warn("skipping export row", "row", i, "err", err)
			continue
		}
		events = append(events, e)
	}
	return events, nil
}

// event builds one ledger event from one export row.
func (m ImportMapping) event(row any) (Event, error) {
	label, err := pathString(m.Kind, row)
	if err != nil {
		return nil, fmt.Errorf("kind: %w", err)
	}
	kind, ok := m.Kinds[label]
	if !ok {
		return nil, fmt.Errorf("unmapped transaction label %q", label)
	}

	day, err := m.date(row)
	if err != nil {
		return nil, err
	}
	symbol, _ := pathString(m.Symbol, row)
	memo, _ := pathString(m.Memo, row)
	source, _ := pathString(m.Source, row)
	quantity := Q(pathFloat(m.Quantity, row))
	price := M(pathFloat(m.Price, row), m.Currency)
	amount := M(pathFloat(m.Amount, row), m.Currency)
	fee := M(pathFloat(m.Fee, row), m.Currency)

	switch kind {
	case KindDeposit:
		return NewDeposit(day, memo, amount), nil
	case KindWithdraw:
		return NewWithdraw(day, memo, amount), nil
	case KindBuy:
		return NewBuy(day, memo, symbol, quantity, price, amount, fee, source), nil
	case KindSell:
		return NewSell(day, memo, symbol, quantity, price, fee, m.ExternalPnL), nil
	case KindDividend:
		return NewDividend(day, memo, symbol, amount), nil
	case KindFee:
		return NewFee(day, memo, symbol, amount), nil
	case KindPnL:
		return NewPnLUpdate(day, memo, symbol, amount), nil
	case KindSnapshot:
		return NewCashSnapshot(day, memo, amount), nil
	default:
		return nil, fmt.Errorf("label %q maps to unknown kind %q", label, kind)
	}
}

func (m ImportMapping) date(row any) (Date, error) {
	s, err := pathString(m.Date, row)
	if err != nil {
		return Date{}, fmt.Errorf("date: %w", err)
	}
	layout := m.DateLayout
	if layout == "" {
		layout = "2006-01-02"
	}
	t, err := time.Parse(layout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("date %q: %w", s, err)
	}
	return NewDate(t.Year(), t.Month(), t.Day()), nil
}

// first unwraps the list-of-one answers jsonpath sometimes returns.
func first(jval any) any {
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		return jlist[0]
	}
	return jval
}

func pathString(path string, row any) (string, error) {
	if path == "" {
		return "", fmt.Errorf("no path")
	}
	jval, err := jsonpath.Get(path, row)
	if err != nil {
		return "", err
	}
	switch v := first(jval).(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("%q is not a string", path)
	}
}

// pathFloat evaluates a numeric path, tolerating string-encoded numbers with
// comma decimal separators. Missing or malformed values count as zero, since
// most exports simply omit fields that do not apply to a row.
func pathFloat(path string, row any) float64 {
	if path == "" {
		return 0
	}
	jval, err := jsonpath.Get(path, row)
	if err != nil {
		return 0
	}
	switch v := first(jval).(type) {
	case float64:
		return v
	case string:
		v = strings.ReplaceAll(strings.TrimSpace(v), ",", ".")
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
