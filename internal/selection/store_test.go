package selection

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/skyvoyage-seatmap/internal/logger"
	"github.com/iliyamo/skyvoyage-seatmap/internal/model"
	"github.com/iliyamo/skyvoyage-seatmap/internal/seatmap"
	"github.com/iliyamo/skyvoyage-seatmap/internal/storage"
	"github.com/iliyamo/skyvoyage-seatmap/internal/storage/storagetest"
)

func smallGrid(t *testing.T) seatmap.Grid {
	t.Helper()
	g, err := seatmap.New(3, []string{"A", "B", "C", "D"}, 1)
	require.NoError(t, err)
	return g
}

func newStore(t *testing.T, kv storage.Store, reserved ...model.SeatID) *Store {
	t.Helper()
	s, err := New(context.Background(), kv, smallGrid(t), seatmap.NewSeatSet(reserved...), logger.Nop())
	require.NoError(t, err)
	return s
}

func load(t *testing.T, s *Store) []model.SeatID {
	t.Helper()
	seats, err := s.Load(context.Background())
	require.NoError(t, err)
	return seats
}

func TestToggleScenario(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, storage.NewMemoryStore(), "2B")

	res, err := s.Toggle(ctx, "1A")
	require.NoError(t, err)
	assert.Equal(t, model.SeatSelected, res.Status)
	assert.Equal(t, 1, res.Count)
	assert.True(t, res.Changed)

	res, err = s.Toggle(ctx, "2B")
	require.NoError(t, err)
	assert.Equal(t, model.SeatReserved, res.Status)
	assert.Equal(t, 1, res.Count)
	assert.False(t, res.Changed)
	assert.False(t, s.Contains("2B"))

	res, err = s.Toggle(ctx, "1A")
	require.NoError(t, err)
	assert.Equal(t, model.SeatAvailable, res.Status)
	assert.Equal(t, 0, res.Count)
	assert.Equal(t, 0, s.Count())
}

func TestToggleTwiceRestoresEverySeat(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, storage.NewMemoryStore(), "2B")
	_, err := s.Toggle(ctx, "3D")
	require.NoError(t, err)

	for id := range s.Grid().Enumerate() {
		if id == "2B" {
			continue
		}
		before := s.Contains(id)
		count := s.Count()

		_, err := s.Toggle(ctx, id)
		require.NoError(t, err)
		_, err = s.Toggle(ctx, id)
		require.NoError(t, err)

		assert.Equal(t, before, s.Contains(id), "seat %s", id)
		assert.Equal(t, count, s.Count(), "seat %s", id)
	}
}

func TestCountBoundedByCapacity(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, storage.NewMemoryStore())
	for id := range s.Grid().Enumerate() {
		_, err := s.Toggle(ctx, id)
		require.NoError(t, err)
	}
	assert.Equal(t, s.Grid().Capacity(), s.Count())
	assert.Len(t, s.Seats(), s.Count())
}

func TestToggleRejectsUnknownSeat(t *testing.T) {
	s := newStore(t, storage.NewMemoryStore())
	_, err := s.Toggle(context.Background(), "9Z")
	assert.ErrorIs(t, err, seatmap.ErrInvalidSeat)
	assert.Zero(t, s.Count())
}

func TestTogglePersistsInOrder(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore()
	s := newStore(t, kv)

	for _, id := range []model.SeatID{"3C", "1A", "2D"} {
		_, err := s.Toggle(ctx, id)
		require.NoError(t, err)
	}
	_, err := s.Toggle(ctx, "1A")
	require.NoError(t, err)

	raw, ok, err := kv.Get(ctx, Key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `["3C","2D"]`, string(raw))

	// A fresh store over the same storage sees the same selection.
	reloaded := newStore(t, kv)
	assert.Equal(t, []model.SeatID{"3C", "2D"}, reloaded.Seats())
}

func TestLoadFailsSoft(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		raw  string
		want []model.SeatID
	}{
		{"not json", "{{{", nil},
		{"wrong shape", `{"seats":["1A"]}`, nil},
		{"numbers", `[1,2,3]`, nil},
		{"filters bad entries", `["1A","bogus","1A","2B","9A","3D"]`, []model.SeatID{"1A", "3D"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := storage.NewMemoryStore()
			require.NoError(t, kv.Set(ctx, Key, []byte(tt.raw)))
			s := newStore(t, kv, "2B")
			assert.Equal(t, tt.want, s.Seats())
			assert.Equal(t, len(tt.want), s.Count())
		})
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore()
	s := newStore(t, kv)
	_, err := s.Toggle(ctx, "1A")
	require.NoError(t, err)

	require.NoError(t, s.Clear(ctx))
	assert.Zero(t, s.Count())
	_, ok, _ := kv.Get(ctx, Key)
	assert.False(t, ok)
	assert.Empty(t, load(t, s))
}

func TestTogglePersistFailureIsReported(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore()
	kv.Quota = 8 // room for ["1A"] only
	s := newStore(t, kv)

	_, err := s.Toggle(ctx, "1A")
	require.NoError(t, err)

	res, err := s.Toggle(ctx, "1B")
	assert.ErrorIs(t, err, storage.ErrPersist)
	// The in-memory change still applies.
	assert.Equal(t, model.SeatSelected, res.Status)
	assert.Equal(t, 2, res.Count)
	assert.True(t, s.Contains("1B"))

	// What survived a reload is the last successful write.
	assert.Equal(t, []model.SeatID{"1A"}, load(t, s))
}

func TestReservedIsCopied(t *testing.T) {
	s := newStore(t, storage.NewMemoryStore(), "2B")
	r := s.Reserved()
	delete(r, "2B")
	assert.True(t, s.Reserved().Has("2B"))
}

func TestLoadReadFailureIsNotEmpty(t *testing.T) {
	ctx := context.Background()
	kv := storagetest.NewFlaky(storage.NewMemoryStore())
	require.NoError(t, kv.Set(ctx, Key, []byte(`["1A","3C"]`)))

	kv.FailGets(Key, 1)
	_, err := New(ctx, kv, smallGrid(t), seatmap.NewSeatSet(), logger.Nop())
	assert.ErrorIs(t, err, storage.ErrUnavailable)

	s := newStore(t, kv)
	kv.FailGets(Key, 1)
	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, storage.ErrUnavailable)
	// The failed reload keeps what was loaded before.
	assert.Equal(t, []model.SeatID{"1A", "3C"}, s.Seats())

	raw, _, err := kv.Get(ctx, Key)
	require.NoError(t, err)
	assert.JSONEq(t, `["1A","3C"]`, string(raw))
}
