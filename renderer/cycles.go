package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	"github.com/tdhoang/folio"
)

// CyclesMarkdown renders every investment cycle, one row per cycle, and a
// win-rate line over the closed ones.
func CyclesMarkdown(r *folio.Report) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Investment Cycles on %s", r.AsOf))

	rows := r.Cycles()
	if len(rows) == 0 {
		doc.PlainText("No cycles yet.")
		return doc.String()
	}

	table := md.TableSet{
		Header: []string{"Symbol", "Start", "End", "Days", "Invested", "Proceeds", "Trading P&L", "Dividends", "Total P&L", "ROI", "Status"},
	}
	var closed, won int
	for _, c := range rows {
		end := ""
		if c.Status == folio.Closed {
			end = c.End.String()
			closed++
			if c.TotalPL.IsPositive() {
				won++
			}
		}
		table.Rows = append(table.Rows, []string{
			c.Symbol,
			c.Start.String(),
			end,
			days(c.Days),
			money(c.BuyValue),
			money(c.SellValue),
			signed(c.TradingPL),
			signed(c.DividendPL),
			signed(c.TotalPL),
			c.ROI.SignedString(),
			status(c.Status),
		})
	}
	doc.Table(table)

	if closed > 0 {
		doc.PlainText(fmt.Sprintf("Closed: %d, won: %d (%.0f%%).", closed, won, 100*float64(won)/float64(closed)))
	}
	return doc.String()
}
