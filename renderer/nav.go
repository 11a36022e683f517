package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	"github.com/tdhoang/folio"
)

// NAVMarkdown renders the daily net asset value series and its drawdown
// figures. Long series are sampled down to roughly maxRows evenly spaced days
// so the table stays readable; the last day is always shown.
func NAVMarkdown(series []folio.NAVEntry, maxRows int) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Net Asset Value")
	if len(series) == 0 {
		doc.PlainText("No events to replay.")
		return doc.String()
	}

	first, last := series[0], series[len(series)-1]
	doc.PlainText(fmt.Sprintf("%s to %s, %d days.", first.Date, last.Date, len(series)))

	worst, bottom := folio.MaxDrawdown(series)
	if worst < 0 {
		doc.PlainText(fmt.Sprintf("Max drawdown %s, bottomed on %s.", worst, bottom))
	}

	step := 1
	if maxRows > 0 && len(series) > maxRows {
		step = len(series) / maxRows
	}
	dd := folio.Drawdown(series)
	table := md.TableSet{
		Header: []string{"Date", "Cash", "Holdings", "NAV", "Net Deposits", "Drawdown"},
	}
	for i := 0; i < len(series); i += step {
		// Sampling must not drop the endpoint.
		if len(series)-i <= step && i != len(series)-1 {
			i = len(series) - 1
		}
		e := series[i]
		table.Rows = append(table.Rows, []string{
			e.Date.String(),
			money(e.Cash),
			money(e.Holdings),
			money(e.NAV),
			money(e.NetDeposits),
			dd[i].String(),
		})
	}
	doc.Table(table)
	return doc.String()
}
