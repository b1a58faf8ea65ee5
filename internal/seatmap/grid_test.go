package seatmap

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/skyvoyage-seatmap/internal/model"
)

func TestDefaultDimensions(t *testing.T) {
	g := Default()
	rows, cols := g.Dimensions()
	assert.Equal(t, 30, rows)
	assert.Equal(t, []string{"A", "B", "C", "D", "E", "F"}, cols)
	assert.Equal(t, 2, g.AisleAfter())
	assert.Equal(t, 180, g.Capacity())

	// Mutating the returned labels must not leak into the grid.
	cols[0] = "Z"
	_, again := g.Dimensions()
	assert.Equal(t, "A", again[0])
}

func TestNewRejectsBadLayouts(t *testing.T) {
	tests := []struct {
		name  string
		rows  int
		cols  []string
		aisle int
	}{
		{"zero rows", 0, []string{"A"}, -1},
		{"no columns", 3, nil, -1},
		{"empty label", 3, []string{"A", ""}, 0},
		{"digit label", 3, []string{"A", "1"}, 0},
		{"duplicate label", 3, []string{"A", "A"}, 0},
		{"aisle out of range", 3, []string{"A", "B"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.rows, tt.cols, tt.aisle)
			assert.Error(t, err)
		})
	}
}

func TestEnumerateRowMajor(t *testing.T) {
	g, err := New(3, []string{"A", "B", "C", "D"}, 1)
	require.NoError(t, err)

	got := slices.Collect(g.Enumerate())
	require.Len(t, got, 12)
	assert.Equal(t, model.SeatID("1A"), got[0])
	assert.Equal(t, model.SeatID("1D"), got[3])
	assert.Equal(t, model.SeatID("2A"), got[4])
	assert.Equal(t, model.SeatID("3D"), got[11])

	// A second pass starts over.
	assert.Equal(t, got, slices.Collect(g.Enumerate()))
}

func TestEnumerateStopsEarly(t *testing.T) {
	n := 0
	for range Default().Enumerate() {
		n++
		if n == 5 {
			break
		}
	}
	assert.Equal(t, 5, n)
}

func TestParse(t *testing.T) {
	g := Default()

	row, col, err := g.Parse("12C")
	require.NoError(t, err)
	assert.Equal(t, 12, row)
	assert.Equal(t, "C", col)

	for _, bad := range []model.SeatID{"", "C", "12", "0A", "01A", "31A", "12G", "12c", "A12", "99999999999999999999A"} {
		_, _, err := g.Parse(bad)
		assert.ErrorIs(t, err, ErrInvalidSeat, "seat %q", bad)
		assert.False(t, g.Contains(bad))
	}
}

func TestClassifyReservedWins(t *testing.T) {
	reserved := NewSeatSet("2B", "5F")
	selected := NewSeatSet("2B", "1A")

	assert.Equal(t, model.SeatReserved, Classify("2B", reserved, selected))
	assert.Equal(t, model.SeatReserved, Classify("5F", reserved, selected))
	assert.Equal(t, model.SeatSelected, Classify("1A", reserved, selected))
	assert.Equal(t, model.SeatAvailable, Classify("1B", reserved, selected))
	assert.Equal(t, model.SeatAvailable, Classify("1B", nil, nil))
}

func TestLayoutSplitsAtAisle(t *testing.T) {
	g := Default()
	rows := g.Layout(NewSeatSet("1D"), NewSeatSet("1A"))
	require.Len(t, rows, 30)

	first := rows[0]
	assert.Equal(t, 1, first.Number)
	require.Len(t, first.Left, 3)
	require.Len(t, first.Right, 3)
	assert.Equal(t, model.SeatSelected, first.Left[0].Status)
	assert.Equal(t, model.SeatReserved, first.Right[0].Status)
	assert.Equal(t, model.SeatAvailable, first.Right[2].Status)
	assert.Equal(t, model.SeatID("1F"), first.Right[2].ID)
}

func TestParseSeatSet(t *testing.T) {
	set, rejected := ParseSeatSet(Default(), []string{"1A", "bogus", "40A", "1A"})
	assert.Equal(t, 1, set.Len())
	assert.True(t, set.Has("1A"))
	assert.Equal(t, []string{"bogus", "40A"}, rejected)
}

func TestRender(t *testing.T) {
	g, err := New(2, []string{"A", "B", "C", "D"}, 1)
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, g.Render(&b, NewSeatSet("1B"), NewSeatSet("2C", "1B")))
	want := "" +
		"    A B   C D\n" +
		"  1 . x   . .\n" +
		"  2 . .   o .\n"
	assert.Equal(t, want, b.String())
}
