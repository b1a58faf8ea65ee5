package storage

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// MemoryStore keeps values in process memory.  A positive Quota caps the
// total bytes held, mimicking the browser's storage quota: a Set that
// would exceed it fails with ErrPersist and leaves the old value intact.
type MemoryStore struct {
	mu    sync.RWMutex
	data  map[string][]byte
	size  int
	Quota int
}

// NewMemoryStore creates an empty store with no quota.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(v), true, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.size - len(m.data[key]) + len(value)
	if m.Quota > 0 && next > m.Quota {
		return fmt.Errorf("%w: key %s: quota of %d bytes exceeded", ErrPersist, key, m.Quota)
	}
	m.data[key] = slices.Clone(value)
	m.size = next
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, k := range keys {
		m.size -= len(m.data[k])
		delete(m.data, k)
	}
	return nil
}

// Keys returns the stored keys in sorted order.
func (m *MemoryStore) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
