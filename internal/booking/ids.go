package booking

import (
	"strconv"
	"sync"

	"github.com/iliyamo/skyvoyage-seatmap/internal/clock"
)

// IDPrefix starts every booking id.
const IDPrefix = "SKY"

// IDGenerator hands out booking ids of the form "SKY<n>" where n starts at
// the clock's Unix milliseconds and never repeats: when the clock has not
// moved past the last value, the last value plus one is used instead.
type IDGenerator struct {
	mu    sync.Mutex
	clock clock.Clock
	last  int64
}

// NewIDGenerator creates a generator reading time from c.
func NewIDGenerator(c clock.Clock) *IDGenerator {
	return &IDGenerator{clock: c}
}

// Next returns a fresh id, strictly greater than every id returned before
// by this generator.
func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := g.clock.Now().UnixMilli()
	if n <= g.last {
		n = g.last + 1
	}
	g.last = n
	return IDPrefix + strconv.FormatInt(n, 10)
}

// Observe moves the generator past id so that ids loaded from storage are
// never handed out again.  Ids without the prefix are ignored.
func (g *IDGenerator) Observe(id string) {
	if len(id) <= len(IDPrefix) || id[:len(IDPrefix)] != IDPrefix {
		return
	}
	n, err := strconv.ParseInt(id[len(IDPrefix):], 10, 64)
	if err != nil {
		return
	}
	g.mu.Lock()
	if n > g.last {
		g.last = n
	}
	g.mu.Unlock()
}
