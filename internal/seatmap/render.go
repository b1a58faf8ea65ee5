package seatmap

import (
	"fmt"
	"io"
	"strings"

	"github.com/iliyamo/skyvoyage-seatmap/internal/model"
)

var statusGlyph = map[model.SeatStatus]string{
	model.SeatAvailable: ".",
	model.SeatSelected:  "o",
	model.SeatReserved:  "x",
}

// Render writes a plain-text cabin map: a header with the column labels,
// then one line per row with the aisle drawn as a gap.
//
//	    A B C   D E F
//	 1  . . x   . . .
func (g Grid) Render(w io.Writer, reserved, selected SeatSet) error {
	var b strings.Builder
	b.WriteString("    ")
	for i, col := range g.columns {
		b.WriteString(col)
		b.WriteString(g.gap(i))
	}
	b.WriteString("\n")

	for _, row := range g.Layout(reserved, selected) {
		fmt.Fprintf(&b, "%3d ", row.Number)
		i := 0
		for _, seat := range append(row.Left, row.Right...) {
			b.WriteString(statusGlyph[seat.Status])
			b.WriteString(g.gap(i))
			i++
		}
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// gap is what follows column i: the aisle, a space, or nothing at the end.
func (g Grid) gap(i int) string {
	switch {
	case i == len(g.columns)-1:
		return ""
	case i == g.aisleAfter:
		return "   "
	default:
		return " "
	}
}
