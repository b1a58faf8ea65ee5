// Package booking turns a session's seat selection into booking records:
// the current booking slot plus the history shown on the trips page.
package booking

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/iliyamo/skyvoyage-seatmap/internal/clock"
	"github.com/iliyamo/skyvoyage-seatmap/internal/logger"
	"github.com/iliyamo/skyvoyage-seatmap/internal/model"
	"github.com/iliyamo/skyvoyage-seatmap/internal/storage"
)

// Storage keys owned by the recorder.
const (
	CurrentKey = "current-booking"
	HistoryKey = "all-bookings"
)

// ErrNoSeatsSelected is returned by Save when the selection is empty.
var ErrNoSeatsSelected = errors.New("booking: no seats selected")

// Selection is the part of the selection store the recorder reads and
// clears.
type Selection interface {
	Seats() []model.SeatID
	Clear(ctx context.Context) error
}

// Notifier is told about every booking that was saved and persisted.
type Notifier interface {
	BookingConfirmed(ctx context.Context, sessionID string, r model.Reservation) error
}

// Recorder writes booking snapshots for one browsing session.
type Recorder struct {
	mu        sync.Mutex
	store     storage.Store
	selection Selection
	ids       *IDGenerator
	clock     clock.Clock
	notifier  Notifier
	sessionID string
	log       *logger.Logger
}

// Options configures a Recorder.  Notifier may be nil.
type Options struct {
	SessionID string
	IDs       *IDGenerator
	Clock     clock.Clock
	Notifier  Notifier
	Logger    *logger.Logger
}

// New creates a recorder over s reading the live selection from sel.
func New(s storage.Store, sel Selection, opts Options) *Recorder {
	c := opts.Clock
	if c == nil {
		c = clock.NewSystem()
	}
	ids := opts.IDs
	if ids == nil {
		ids = NewIDGenerator(c)
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Recorder{
		store:     s,
		selection: sel,
		ids:       ids,
		clock:     c,
		notifier:  opts.Notifier,
		sessionID: opts.SessionID,
		log:       log.WithComponent("booking"),
	}
}

// Save snapshots the current selection into a new record, stores it as the
// current booking and appends it to the history.  If either write fails
// the record is still returned, together with an error wrapping
// storage.ErrPersist.  When the history cannot be read nothing is written,
// so a stored history is never replaced by a partial one.
func (r *Recorder) Save(ctx context.Context, flight model.Flight) (model.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seats := r.selection.Seats()
	if len(seats) == 0 {
		return model.Reservation{}, ErrNoSeatsSelected
	}

	history, readErr := r.loadHistory(ctx)
	var id string
	if readErr != nil {
		id = r.ids.Next()
	} else {
		id = r.nextID(history)
	}
	rec := model.Reservation{
		ID:        id,
		CreatedAt: r.clock.Now(),
		Flight:    flight,
		Seats:     slices.Clone(seats),
	}
	if readErr != nil {
		r.log.Warn("booking not persisted, history unreadable", "booking_id", id, "error", readErr)
		return rec, fmt.Errorf("%w: %w", storage.ErrPersist, readErr)
	}

	var errs []error
	if err := storage.SetJSON(ctx, r.store, CurrentKey, rec); err != nil {
		errs = append(errs, fmt.Errorf("write current booking: %w", err))
	}
	history = append(history, rec)
	if err := storage.SetJSON(ctx, r.store, HistoryKey, history); err != nil {
		errs = append(errs, fmt.Errorf("write booking history: %w", err))
	}
	if len(errs) > 0 {
		err := errors.Join(errs...)
		r.log.Warn("booking not persisted", "booking_id", id, "error", err)
		if !errors.Is(err, storage.ErrPersist) {
			err = fmt.Errorf("%w: %v", storage.ErrPersist, err)
		}
		return rec, err
	}

	r.log.Info("booking saved", "booking_id", id, "flight", flight.Flight, "seats", len(rec.Seats))
	if r.notifier != nil {
		if err := r.notifier.BookingConfirmed(ctx, r.sessionID, rec); err != nil {
			r.log.Warn("booking notification failed", "booking_id", id, "error", err)
		}
	}
	return copyRecord(rec), nil
}

// LoadCurrent returns the current booking.  Missing or malformed data is
// reported as absent; a failed read is returned as an error wrapping
// storage.ErrUnavailable.
func (r *Recorder) LoadCurrent(ctx context.Context) (model.Reservation, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var rec model.Reservation
	found, err := storage.GetJSON(ctx, r.store, CurrentKey, &rec)
	switch {
	case errors.Is(err, storage.ErrMalformed):
		r.log.Warn("discarding unreadable current booking", "error", err)
		return model.Reservation{}, false, nil
	case err != nil:
		return model.Reservation{}, false, fmt.Errorf("load current booking: %w", err)
	case !found:
		return model.Reservation{}, false, nil
	}
	if err := validate(rec); err != nil {
		r.log.Warn("discarding invalid current booking", "error", err)
		return model.Reservation{}, false, nil
	}
	return rec, true, nil
}

// History returns every stored booking, oldest first.
func (r *Recorder) History(ctx context.Context) ([]model.Reservation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadHistory(ctx)
}

// DeleteCurrent removes booking id from the history, empties the current
// slot and clears the persisted selection, so nothing of the booking
// pre-populates a later visit.  An unreadable history is left untouched
// and reported.
func (r *Recorder) DeleteCurrent(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error

	history, err := r.loadHistory(ctx)
	if err != nil {
		errs = append(errs, err)
	} else {
		kept := slices.DeleteFunc(slices.Clone(history), func(b model.Reservation) bool { return b.ID == id })
		if len(kept) != len(history) {
			if err := storage.SetJSON(ctx, r.store, HistoryKey, kept); err != nil {
				errs = append(errs, fmt.Errorf("write booking history: %w", err))
			}
		}
	}
	if err := r.store.Delete(ctx, CurrentKey); err != nil {
		errs = append(errs, fmt.Errorf("remove current booking: %w", err))
	}
	if err := r.selection.Clear(ctx); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		err := errors.Join(errs...)
		r.log.Warn("booking deletion not fully persisted", "booking_id", id, "error", err)
		return err
	}
	r.log.Info("booking deleted", "booking_id", id)
	return nil
}

// loadHistory reads the history array; callers hold mu.  Malformed data
// yields an empty history and invalid entries are skipped.  A failed read
// is returned so callers never mistake it for an empty history.
func (r *Recorder) loadHistory(ctx context.Context) ([]model.Reservation, error) {
	var all []model.Reservation
	_, err := storage.GetJSON(ctx, r.store, HistoryKey, &all)
	switch {
	case errors.Is(err, storage.ErrMalformed):
		r.log.Warn("discarding unreadable booking history", "error", err)
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("load booking history: %w", err)
	}
	valid := all[:0]
	for _, b := range all {
		if validate(b) == nil {
			valid = append(valid, b)
		}
	}
	return valid, nil
}

// nextID returns an id that is not already in history.
func (r *Recorder) nextID(history []model.Reservation) string {
	taken := make(map[string]struct{}, len(history))
	for _, b := range history {
		taken[b.ID] = struct{}{}
		r.ids.Observe(b.ID)
	}
	for {
		id := r.ids.Next()
		if _, dup := taken[id]; !dup {
			return id
		}
	}
}

func validate(b model.Reservation) error {
	switch {
	case b.ID == "":
		return errors.New("missing id")
	case b.CreatedAt.IsZero():
		return errors.New("missing createdAt")
	case len(b.Seats) == 0:
		return errors.New("no seats")
	}
	return nil
}

func copyRecord(b model.Reservation) model.Reservation {
	b.Seats = slices.Clone(b.Seats)
	return b
}
