package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	"github.com/tdhoang/folio"
)

// SummaryMarkdown renders the account-level aggregates and the per-instrument
// performance table.
func SummaryMarkdown(r *folio.Report) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Portfolio Summary on %s", r.AsOf))

	doc.Table(md.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Cash", money(r.Cash)},
			{"Holdings (at cost)", money(r.Holdings)},
			{"NAV", money(r.NAV)},
			{"Net Deposits", money(r.NetDeposits)},
			{"Trading P&L", signed(r.TradingPL)},
			{"Dividend P&L", signed(r.DividendPL)},
			{"Total P&L", signed(r.TotalPL)},
			{"ROI", r.ROI.SignedString()},
		},
	})

	rows := r.Summary()
	if len(rows) == 0 {
		doc.PlainText("No instruments yet.")
		return doc.String()
	}

	doc.H2("Instruments")
	table := md.TableSet{
		Header: []string{"Symbol", "Held", "Value", "Trading P&L", "Dividends", "Total P&L", "ROI", "Alloc", "Avg Age"},
	}
	for _, row := range rows {
		symbol := row.Symbol
		if row.External {
			// Mark instruments whose P&L comes from the source.
			symbol += " *"
		}
		table.Rows = append(table.Rows, []string{
			symbol,
			quantity(row.Held),
			money(row.Value),
			signed(row.TradingPL),
			signed(row.DividendPL),
			signed(row.TotalPL),
			row.ROI.SignedString(),
			row.Allocation.String(),
			days(int(row.AvgDaysHeld)),
		})
	}
	doc.Table(table)
	doc.PlainText("`*` P&L as reported by the source.")

	return doc.String()
}
