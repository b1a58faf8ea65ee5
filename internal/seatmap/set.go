package seatmap

import "github.com/iliyamo/skyvoyage-seatmap/internal/model"

// SeatSet is an unordered set of seat ids.  The nil set is empty and safe
// to query.
type SeatSet map[model.SeatID]struct{}

// NewSeatSet builds a set from ids, ignoring duplicates.
func NewSeatSet(ids ...model.SeatID) SeatSet {
	s := make(SeatSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// ParseSeatSet converts raw strings into a set, keeping only ids that
// belong to g.  It returns the ids that were rejected.
func ParseSeatSet(g Grid, raw []string) (SeatSet, []string) {
	s := make(SeatSet, len(raw))
	var rejected []string
	for _, r := range raw {
		id := model.SeatID(r)
		if !g.Contains(id) {
			rejected = append(rejected, r)
			continue
		}
		s[id] = struct{}{}
	}
	return s, rejected
}

func (s SeatSet) Has(id model.SeatID) bool {
	_, ok := s[id]
	return ok
}

func (s SeatSet) Len() int { return len(s) }
