// Package session keeps the per-visitor selection store and booking
// recorder, each over its own namespace of the shared key-value store.
package session

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/iliyamo/skyvoyage-seatmap/internal/booking"
	"github.com/iliyamo/skyvoyage-seatmap/internal/clock"
	"github.com/iliyamo/skyvoyage-seatmap/internal/logger"
	"github.com/iliyamo/skyvoyage-seatmap/internal/seatmap"
	"github.com/iliyamo/skyvoyage-seatmap/internal/selection"
	"github.com/iliyamo/skyvoyage-seatmap/internal/storage"
)

// Cache defaults, used when Config leaves the fields zero.
const (
	DefaultMaxSessions = 10000
	DefaultIdleTTL     = 30 * time.Minute
)

// Session bundles the components of one browsing session.
type Session struct {
	ID        string
	Selection *selection.Store
	Recorder  *booking.Recorder
}

// Config holds what every session shares.
type Config struct {
	Store     storage.Store
	KeyPrefix string
	Grid      seatmap.Grid
	Reserved  seatmap.SeatSet
	Clock     clock.Clock
	Notifier  booking.Notifier
	Logger    *logger.Logger

	MaxSessions int           // cached sessions kept at most
	IdleTTL     time.Duration // cached sessions unused this long are dropped
}

type entry struct {
	s        *Session
	lastUsed time.Time
}

// Registry builds sessions on first use and keeps the most recently used
// ones in memory.  Evicted sessions are rebuilt from storage on their next
// request, so eviction loses nothing that was persisted.
type Registry struct {
	cfg Config
	ids *booking.IDGenerator
	log *logger.Logger

	mu       sync.Mutex
	sessions map[string]*list.Element // values are *entry
	lru      *list.List               // front is most recently used
}

// NewRegistry creates an empty registry.  Booking ids come from one
// generator shared by every session.
func NewRegistry(cfg Config) *Registry {
	if cfg.Clock == nil {
		cfg.Clock = clock.NewSystem()
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultMaxSessions
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = DefaultIdleTTL
	}
	return &Registry{
		cfg:      cfg,
		ids:      booking.NewIDGenerator(cfg.Clock),
		log:      cfg.Logger.WithComponent("session-registry"),
		sessions: make(map[string]*list.Element),
		lru:      list.New(),
	}
}

// Get returns the session for id, loading its persisted selection when it
// is not cached.  A session whose storage cannot be read is not cached and
// the error, wrapping storage.ErrUnavailable, is returned.
func (r *Registry) Get(ctx context.Context, id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.cfg.Clock.Now()
	r.evictIdle(now)

	if el, ok := r.sessions[id]; ok {
		e := el.Value.(*entry)
		e.lastUsed = now
		r.lru.MoveToFront(el)
		return e.s, nil
	}

	s, err := r.open(ctx, id)
	if err != nil {
		return nil, err
	}
	r.sessions[id] = r.lru.PushFront(&entry{s: s, lastUsed: now})
	for r.lru.Len() > r.cfg.MaxSessions {
		r.remove(r.lru.Back())
	}
	return s, nil
}

func (r *Registry) open(ctx context.Context, id string) (*Session, error) {
	log := r.cfg.Logger.WithSession(id)
	kv := storage.WithPrefix(r.cfg.Store, r.cfg.KeyPrefix+":"+id+":")
	sel, err := selection.New(ctx, kv, r.cfg.Grid, r.cfg.Reserved, log)
	if err != nil {
		return nil, err
	}
	log.Debug("session opened", "selected", sel.Count())
	return &Session{
		ID:        id,
		Selection: sel,
		Recorder: booking.New(kv, sel, booking.Options{
			SessionID: id,
			IDs:       r.ids,
			Clock:     r.cfg.Clock,
			Notifier:  r.cfg.Notifier,
			Logger:    log,
		}),
	}, nil
}

// evictIdle drops sessions unused for longer than IdleTTL; callers hold mu.
func (r *Registry) evictIdle(now time.Time) {
	for el := r.lru.Back(); el != nil; el = r.lru.Back() {
		if now.Sub(el.Value.(*entry).lastUsed) <= r.cfg.IdleTTL {
			return
		}
		r.remove(el)
	}
}

func (r *Registry) remove(el *list.Element) {
	e := r.lru.Remove(el).(*entry)
	delete(r.sessions, e.s.ID)
	r.log.Debug("session evicted", "session_id", e.s.ID)
}

// Forget drops the cached session; its persisted keys are untouched.
func (r *Registry) Forget(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if el, ok := r.sessions[id]; ok {
		r.remove(el)
	}
}

// Len is the number of cached sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lru.Len()
}

// Grid is the cabin layout shared by all sessions.
func (r *Registry) Grid() seatmap.Grid { return r.cfg.Grid }
