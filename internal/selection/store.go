// Package selection owns a browsing session's in-progress seat choices and
// keeps them persisted under the selected-seats key.
package selection

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/iliyamo/skyvoyage-seatmap/internal/logger"
	"github.com/iliyamo/skyvoyage-seatmap/internal/model"
	"github.com/iliyamo/skyvoyage-seatmap/internal/seatmap"
	"github.com/iliyamo/skyvoyage-seatmap/internal/storage"
)

// Key is the storage key holding the ordered selection.
const Key = "selected-seats"

// Result describes the outcome of a toggle.
type Result struct {
	Seat    model.SeatID     `json:"seat"`
	Status  model.SeatStatus `json:"status"`
	Count   int              `json:"count"`
	Changed bool             `json:"changed"`
}

// Store is the Selection Set of one browsing session.  Members keep their
// selection order.  The set never holds a duplicate, an id outside the
// grid, or a reserved seat.
type Store struct {
	mu       sync.Mutex
	store    storage.Store
	grid     seatmap.Grid
	reserved seatmap.SeatSet
	log      *logger.Logger

	seats []model.SeatID
	index seatmap.SeatSet
}

// New builds a store over s and loads any persisted selection.  It fails
// only when the backend cannot be read; malformed data yields an empty
// selection.
func New(ctx context.Context, s storage.Store, grid seatmap.Grid, reserved seatmap.SeatSet, log *logger.Logger) (*Store, error) {
	st := &Store{
		store:    s,
		grid:     grid,
		reserved: reserved,
		log:      log.WithComponent("selection"),
		index:    seatmap.SeatSet{},
	}
	if _, err := st.Load(ctx); err != nil {
		return nil, err
	}
	return st, nil
}

// Load replaces the in-memory set with the persisted one.  Missing or
// malformed data yields an empty set; entries that are invalid, outside
// the grid, duplicated or reserved are dropped.  When the backend cannot
// be read the in-memory set is left as it was and the error, wrapping
// storage.ErrUnavailable, is returned.
func (s *Store) Load(ctx context.Context) ([]model.SeatID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var raw []string
	found, err := storage.GetJSON(ctx, s.store, Key, &raw)
	switch {
	case errors.Is(err, storage.ErrMalformed):
		s.log.Warn("discarding unreadable selection", "error", err)
		raw = nil
	case err != nil:
		s.log.Error("selection storage unavailable", "error", err)
		return nil, fmt.Errorf("load selection: %w", err)
	case !found:
		raw = nil
	}

	s.seats = nil
	s.index = seatmap.SeatSet{}
	dropped := 0
	for _, r := range raw {
		id := model.SeatID(r)
		if !s.grid.Contains(id) || s.reserved.Has(id) || s.index.Has(id) {
			dropped++
			continue
		}
		s.seats = append(s.seats, id)
		s.index[id] = struct{}{}
	}
	if dropped > 0 {
		s.log.Warn("dropped invalid selection entries", "dropped", dropped, "kept", len(s.seats))
	}
	return slices.Clone(s.seats), nil
}

// Toggle flips id in or out of the selection and persists the result
// before returning.  Reserved seats are left alone and reported with
// Changed=false.  If the write fails the in-memory change stands and the
// returned error wraps storage.ErrPersist.
func (s *Store) Toggle(ctx context.Context, id model.SeatID) (Result, error) {
	if !s.grid.Contains(id) {
		return Result{}, fmt.Errorf("toggle %q: %w", id, seatmap.ErrInvalidSeat)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.reserved.Has(id) {
		s.log.Debug("ignoring toggle of reserved seat", "seat", id)
		return Result{Seat: id, Status: model.SeatReserved, Count: len(s.seats)}, nil
	}

	res := Result{Seat: id, Changed: true}
	if s.index.Has(id) {
		s.seats = slices.DeleteFunc(s.seats, func(x model.SeatID) bool { return x == id })
		delete(s.index, id)
		res.Status = model.SeatAvailable
	} else {
		s.seats = append(s.seats, id)
		s.index[id] = struct{}{}
		res.Status = model.SeatSelected
	}
	res.Count = len(s.seats)

	if err := s.persist(ctx); err != nil {
		return res, err
	}
	return res, nil
}

// Clear empties the selection and removes the persisted key.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seats = nil
	s.index = seatmap.SeatSet{}
	if err := s.store.Delete(ctx, Key); err != nil {
		s.log.Warn("failed to clear persisted selection", "error", err)
		return fmt.Errorf("clear selection: %w", asPersist(err))
	}
	return nil
}

// Count is the number of selected seats.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seats)
}

// Seats returns a copy of the selection in selection order.
func (s *Store) Seats() []model.SeatID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.seats)
}

// Set returns a copy of the selection as a set.
func (s *Store) Set() seatmap.SeatSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return seatmap.NewSeatSet(s.seats...)
}

// Contains reports whether id is selected.
func (s *Store) Contains(id model.SeatID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Has(id)
}

// Reserved exposes the reserved set the store guards against.
func (s *Store) Reserved() seatmap.SeatSet { return maps.Clone(s.reserved) }

// Grid is the cabin layout the selection is validated against.
func (s *Store) Grid() seatmap.Grid { return s.grid }

// persist writes the current selection; callers hold mu.
func (s *Store) persist(ctx context.Context) error {
	raw := make([]string, len(s.seats))
	for i, id := range s.seats {
		raw[i] = string(id)
	}
	if err := storage.SetJSON(ctx, s.store, Key, raw); err != nil {
		s.log.Warn("selection not persisted", "error", err, "count", len(raw))
		return fmt.Errorf("persist selection: %w", asPersist(err))
	}
	return nil
}

// asPersist makes sure any write failure can be matched with ErrPersist,
// whatever the backend returned.
func asPersist(err error) error {
	if errors.Is(err, storage.ErrPersist) {
		return err
	}
	return fmt.Errorf("%w: %v", storage.ErrPersist, err)
}
