package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "k", []byte("v1")))
	got, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v1"), got)

	// Returned bytes are a copy.
	got[0] = 'x'
	again, _, _ := s.Get(ctx, "k")
	assert.Equal(t, []byte("v1"), again)

	require.NoError(t, s.Delete(ctx, "k", "never-set"))
	_, ok, _ = s.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryStoreQuota(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	s.Quota = 8

	require.NoError(t, s.Set(ctx, "a", []byte("1234")))
	require.NoError(t, s.Set(ctx, "a", []byte("12345678")))

	err := s.Set(ctx, "b", []byte("1"))
	assert.ErrorIs(t, err, ErrPersist)
	_, ok, _ := s.Get(ctx, "b")
	assert.False(t, ok)

	// Freeing space makes room again.
	require.NoError(t, s.Delete(ctx, "a"))
	assert.NoError(t, s.Set(ctx, "b", []byte("1")))
}

func TestWithPrefix(t *testing.T) {
	ctx := context.Background()
	base := NewMemoryStore()
	one := WithPrefix(base, "s1:")
	two := WithPrefix(base, "s2:")

	require.NoError(t, one.Set(ctx, "selected-seats", []byte(`["1A"]`)))
	require.NoError(t, two.Set(ctx, "selected-seats", []byte(`["2B"]`)))
	assert.Equal(t, []string{"s1:selected-seats", "s2:selected-seats"}, base.Keys())

	v, ok, err := one.Get(ctx, "selected-seats")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `["1A"]`, string(v))

	require.NoError(t, one.Delete(ctx, "selected-seats"))
	assert.Equal(t, []string{"s2:selected-seats"}, base.Keys())
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var out []string
	found, err := GetJSON(ctx, s, "list", &out)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, s, "list", []string{"1A", "1B"}))
	found, err = GetJSON(ctx, s, "list", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"1A", "1B"}, out)

	require.NoError(t, s.Set(ctx, "list", []byte("{not json")))
	_, err = GetJSON(ctx, s, "list", &out)
	assert.ErrorIs(t, err, ErrMalformed)

	require.NoError(t, s.Set(ctx, "list", []byte(`{"a":1}`)))
	_, err = GetJSON(ctx, s, "list", &out)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestGetJSONSeparatesReadFailures(t *testing.T) {
	ctx := context.Background()
	base := NewMemoryStore()
	require.NoError(t, SetJSON(ctx, base, "list", []string{"1A"}))

	var out []string
	_, err := GetJSON(ctx, failingGets{base}, "list", &out)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.NotErrorIs(t, err, ErrMalformed)
}

type failingGets struct{ Store }

func (failingGets) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("connection reset")
}
