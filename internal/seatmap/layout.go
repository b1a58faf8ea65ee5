package seatmap

import "github.com/iliyamo/skyvoyage-seatmap/internal/model"

// Row is one cabin row split at the aisle, ready for the seat map view.
type Row struct {
	Number int          `json:"number"`
	Left   []model.Seat `json:"left"`
	Right  []model.Seat `json:"right"`
}

// Layout classifies every seat of g and groups the seats by row.  Seats up
// to and including the aisle column go Left, the rest go Right.
func (g Grid) Layout(reserved, selected SeatSet) []Row {
	rows := make([]Row, 0, g.rows)
	for r := 1; r <= g.rows; r++ {
		row := Row{Number: r}
		for i, col := range g.columns {
			id := SeatID(r, col)
			seat := model.Seat{ID: id, Row: r, Column: col, Status: Classify(id, reserved, selected)}
			if i <= g.aisleAfter {
				row.Left = append(row.Left, seat)
			} else {
				row.Right = append(row.Right, seat)
			}
		}
		rows = append(rows, row)
	}
	return rows
}
