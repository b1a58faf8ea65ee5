// Package storage is the key-value layer behind the seat selection and
// booking records: one string key per value, JSON blobs as values.  It
// plays the role the browser's local storage plays for the web client.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrPersist marks a write that the backend rejected.  The in-memory state
// of the caller may already reflect the change; callers should warn the
// user that it may not survive a reload.
var ErrPersist = errors.New("storage: write not persisted")

// ErrUnavailable marks a read the backend could not serve.  Unlike
// ErrMalformed the stored value may be intact, so callers must not treat
// it as empty and overwrite it.
var ErrUnavailable = errors.New("storage: read failed")

// ErrMalformed marks a stored value that does not decode into the expected
// shape.
var ErrMalformed = errors.New("storage: malformed value")

// Store is a string-keyed blob store.
type Store interface {
	// Get returns the value for key.  A missing key is (nil, false, nil).
	// Failures wrap ErrUnavailable.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set overwrites key.  Failures wrap ErrPersist.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes keys; missing keys are ignored.  Failures wrap ErrPersist.
	Delete(ctx context.Context, keys ...string) error
}

// GetJSON decodes the value under key into dst.  It reports false when the
// key is absent.  A value that is not valid JSON for dst yields an error
// wrapping ErrMalformed; a failed read yields one wrapping ErrUnavailable.
func GetJSON(ctx context.Context, s Store, key string, dst any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			return false, err
		}
		return false, fmt.Errorf("%w: key %s: %v", ErrUnavailable, key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("%w: key %s: %v", ErrMalformed, key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, raw)
}
