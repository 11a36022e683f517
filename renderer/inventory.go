package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	"github.com/tdhoang/folio"
)

// InventoryMarkdown renders every open lot, oldest first, pending
// placeholders included.
func InventoryMarkdown(r *folio.Report) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Open Lots on %s", r.AsOf))

	rows := r.Inventory()
	if len(rows) == 0 {
		doc.PlainText("No open lots.")
		return doc.String()
	}

	table := md.TableSet{
		Header: []string{"Symbol", "Bought", "Age", "Quantity", "Unit Cost", "Adj. Cost", "Value", "Source"},
	}
	for _, lot := range rows {
		symbol := lot.Symbol
		if lot.Pending {
			symbol += " (pending)"
		}
		table.Rows = append(table.Rows, []string{
			symbol,
			lot.Date.String(),
			days(lot.Days),
			quantity(lot.Quantity),
			money(lot.UnitCost),
			money(lot.AdjUnitCost),
			money(lot.Value),
			lot.Source,
		})
	}
	doc.Table(table)
	return doc.String()
}
