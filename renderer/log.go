package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	"github.com/tdhoang/folio"
)

// LogMarkdown renders the trade log in application order. Suppressed cash
// moves (absorbed by a snapshot) are marked in the applied column.
func LogMarkdown(r *folio.Report) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Trade Log to %s", r.AsOf))

	log := r.Account.Log()
	if len(log) == 0 {
		doc.PlainText("Empty ledger.")
		return doc.String()
	}

	table := md.TableSet{
		Header: []string{"Date", "Kind", "Symbol", "Quantity", "Cash Move", "Cash After", "Applied", "Memo"},
	}
	for _, e := range log {
		applied := "yes"
		if !e.Applied {
			applied = "absorbed"
		}
		table.Rows = append(table.Rows, []string{
			e.Date.String(),
			string(e.Kind),
			e.Symbol,
			quantity(e.Quantity),
			signed(e.Amount),
			money(e.CashAfter),
			applied,
			e.Memo,
		})
	}
	doc.Table(table)
	return doc.String()
}
