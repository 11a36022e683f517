package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	"github.com/tdhoang/folio"
)

// WarningsMarkdown renders the attention-needed conditions of the account.
func WarningsMarkdown(r *folio.Report) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Warnings on %s", r.AsOf))

	rows := r.Warnings()
	if len(rows) == 0 {
		doc.PlainText("Nothing to report.")
		return doc.String()
	}

	table := md.TableSet{
		Header: []string{"Kind", "Symbol", "Quantity", "Value", "Age"},
	}
	for _, w := range rows {
		table.Rows = append(table.Rows, []string{
			string(w.Kind),
			w.Symbol,
			quantity(w.Quantity),
			money(w.Value),
			days(w.Days),
		})
	}
	doc.Table(table)
	return doc.String()
}
