// Package seatmap describes the fixed cabin layout and derives the status
// of every seat from the reserved and selected sets.
package seatmap

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"strconv"
	"strings"

	"github.com/iliyamo/skyvoyage-seatmap/internal/model"
)

// ErrInvalidSeat is returned for seat ids that do not parse or fall outside
// the grid.
var ErrInvalidSeat = errors.New("invalid seat")

// Grid is a cabin of Rows rows, each laid out as Columns with an aisle
// after column index AisleAfter.
type Grid struct {
	rows       int
	columns    []string
	aisleAfter int
}

// Default returns the 30 row, A-F cabin with the aisle between C and D.
func Default() Grid {
	return Grid{
		rows:       30,
		columns:    []string{"A", "B", "C", "D", "E", "F"},
		aisleAfter: 2,
	}
}

// New validates a custom layout.  Column labels must be non-empty, unique
// and free of digits so that "<row><column>" parses back unambiguously.
// aisleAfter is the index of the last column left of the aisle; -1 means
// no aisle.
func New(rows int, columns []string, aisleAfter int) (Grid, error) {
	if rows < 1 {
		return Grid{}, fmt.Errorf("seatmap: rows must be positive, got %d", rows)
	}
	if len(columns) == 0 {
		return Grid{}, errors.New("seatmap: at least one column is required")
	}
	seen := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		if c == "" || strings.ContainsAny(c, "0123456789") {
			return Grid{}, fmt.Errorf("seatmap: invalid column label %q", c)
		}
		if _, dup := seen[c]; dup {
			return Grid{}, fmt.Errorf("seatmap: duplicate column label %q", c)
		}
		seen[c] = struct{}{}
	}
	if aisleAfter < -1 || aisleAfter >= len(columns) {
		return Grid{}, fmt.Errorf("seatmap: aisle index %d out of range", aisleAfter)
	}
	return Grid{rows: rows, columns: slices.Clone(columns), aisleAfter: aisleAfter}, nil
}

// Dimensions returns the row count and a copy of the ordered column labels.
func (g Grid) Dimensions() (int, []string) {
	return g.rows, slices.Clone(g.columns)
}

// AisleAfter reports the index of the last column before the aisle.
func (g Grid) AisleAfter() int { return g.aisleAfter }

// Capacity is the number of seats in the cabin.
func (g Grid) Capacity() int { return g.rows * len(g.columns) }

// SeatID builds the identifier for row and column.
func SeatID(row int, column string) model.SeatID {
	return model.SeatID(strconv.Itoa(row) + column)
}

// Enumerate yields every seat id row-major, left to right.  Each call
// starts a fresh sequence.
func (g Grid) Enumerate() iter.Seq[model.SeatID] {
	return func(yield func(model.SeatID) bool) {
		for row := 1; row <= g.rows; row++ {
			for _, col := range g.columns {
				if !yield(SeatID(row, col)) {
					return
				}
			}
		}
	}
}

// Parse splits id into its row and column and checks both against the
// grid.
func (g Grid) Parse(id model.SeatID) (int, string, error) {
	s := string(id)
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 || i == len(s) || s[0] == '0' {
		return 0, "", fmt.Errorf("%w: %q", ErrInvalidSeat, s)
	}
	row, err := strconv.Atoi(s[:i])
	if err != nil || row < 1 || row > g.rows {
		return 0, "", fmt.Errorf("%w: row out of range in %q", ErrInvalidSeat, s)
	}
	col := s[i:]
	if !slices.Contains(g.columns, col) {
		return 0, "", fmt.Errorf("%w: unknown column in %q", ErrInvalidSeat, s)
	}
	return row, col, nil
}

// Contains reports whether id names a seat of this grid.
func (g Grid) Contains(id model.SeatID) bool {
	_, _, err := g.Parse(id)
	return err == nil
}

// Classify derives the status of id.  Reserved wins over selected, which
// wins over available.
func Classify(id model.SeatID, reserved, selected SeatSet) model.SeatStatus {
	switch {
	case reserved.Has(id):
		return model.SeatReserved
	case selected.Has(id):
		return model.SeatSelected
	default:
		return model.SeatAvailable
	}
}
