// Package renderer turns folio reports into markdown documents.
//
// Every renderer is a pure function from a report value to a string, so the
// output can go to a terminal, a file, or an agent prompt unchanged.
package renderer

import (
	"fmt"

	"github.com/tdhoang/folio"
)

// money formats a Money for a table cell.
func money(m folio.Money) string { return m.String() }

// signed formats a P&L figure, "-" for zero.
func signed(m folio.Money) string { return m.SignedString() }

// quantity formats a Quantity for a table cell.
func quantity(q folio.Quantity) string { return q.String() }

// days formats a day count.
func days(d int) string { return fmt.Sprintf("%dd", d) }

// status renders an open/closed marker.
func status(s folio.CycleStatus) string {
	if s == folio.Closed {
		return "closed"
	}
	return "open"
}
