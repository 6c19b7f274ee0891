package favorites

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/five82/shelf/internal/localstore"
)

func TestCache_EmptyAndCorruptStorage(t *testing.T) {
	t.Parallel()
	store := localstore.NewMemory()
	c := New(store)
	require.Empty(t, c.List())
	require.False(t, c.IsFavorite("x"))

	require.NoError(t, store.Set(StorageKey, "not-json"))
	require.Empty(t, c.List())
	require.False(t, c.IsFavorite("x"))

	require.NoError(t, c.Add("x"))
	require.Equal(t, []string{"x"}, c.List())
}

func TestCache_Toggle(t *testing.T) {
	t.Parallel()
	c := New(localstore.NewMemory())

	on, err := c.Toggle("a")
	require.NoError(t, err)
	require.True(t, on)
	on, err = c.Toggle("b")
	require.NoError(t, err)
	require.True(t, on)
	require.Equal(t, []string{"a", "b"}, c.List())

	on, err = c.Toggle("a")
	require.NoError(t, err)
	require.False(t, on)
	require.Equal(t, []string{"b"}, c.List())
}

func TestCache_AddDedupsAndRemoveAbsentIsNoop(t *testing.T) {
	t.Parallel()
	c := New(localstore.NewMemory())
	require.NoError(t, c.Add("a"))
	require.NoError(t, c.Add("a"))
	require.NoError(t, c.Remove("zzz"))
	require.Equal(t, []string{"a"}, c.List())
}

// Random add/remove sequences must match a plain replay model.
func TestCache_MatchesReplayModel(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(7))
	ids := []string{"a", "b", "c", "d"}

	for round := 0; round < 50; round++ {
		store := localstore.NewMemory()
		c := New(store)
		var model []string
		for step := 0; step < 30; step++ {
			id := ids[rng.Intn(len(ids))]
			if rng.Intn(2) == 0 {
				require.NoError(t, c.Add(id))
				if indexOf(model, id) < 0 {
					model = append(model, id)
				}
			} else {
				require.NoError(t, c.Remove(id))
				if i := indexOf(model, id); i >= 0 {
					model = append(model[:i], model[i+1:]...)
				}
			}
		}
		if model == nil {
			model = []string{}
		}
		require.Equal(t, model, New(store).List(), "round %d", round)
	}
}
