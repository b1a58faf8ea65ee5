// Package storagetest holds storage doubles shared by package tests.
package storagetest

import (
	"context"
	"errors"
	"sync"

	"github.com/iliyamo/skyvoyage-seatmap/internal/storage"
)

// ErrTimeout is the read error Flaky returns.
var ErrTimeout = errors.New("i/o timeout")

// Flaky passes everything to the wrapped store except reads of keys armed
// with FailGets, which fail with ErrTimeout.
type Flaky struct {
	storage.Store

	mu    sync.Mutex
	fails map[string]int
}

// NewFlaky wraps s.
func NewFlaky(s storage.Store) *Flaky {
	return &Flaky{Store: s, fails: map[string]int{}}
}

// FailGets makes the next n reads of key fail.
func (f *Flaky) FailGets(key string, n int) {
	f.mu.Lock()
	f.fails[key] += n
	f.mu.Unlock()
}

func (f *Flaky) Get(ctx context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	if f.fails[key] > 0 {
		f.fails[key]--
		f.mu.Unlock()
		return nil, false, ErrTimeout
	}
	f.mu.Unlock()
	return f.Store.Get(ctx, key)
}
