package gamemaster

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"trimatch/engine"
	"trimatch/game"
)

func TestGameMaster(t *testing.T) {
	t.Run("create and get", func(t *testing.T) {
		gm := NewGameMaster()

		id, session := gm.Create(engine.WithMode(engine.TwoHuman))
		got, err := gm.Get(id)

		require.NoError(t, err)
		require.Same(t, session, got)
		require.Equal(t, engine.TwoHuman, got.Mode())
		require.Equal(t, 1, gm.Len())
	})

	t.Run("unknown id", func(t *testing.T) {
		gm := NewGameMaster()

		_, err := gm.Get(uuid.New())
		require.ErrorIs(t, err, ErrSessionNotFound)
		require.ErrorIs(t, gm.Delete(uuid.New()), ErrSessionNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		gm := NewGameMaster()
		id, _ := gm.Create()

		require.NoError(t, gm.Delete(id))

		_, err := gm.Get(id)
		require.ErrorIs(t, err, ErrSessionNotFound)
		require.Zero(t, gm.Len())
	})

	t.Run("sessions are independent", func(t *testing.T) {
		gm := NewGameMaster()
		first, one := gm.Create(engine.WithMode(engine.TwoHuman))
		second, two := gm.Create(engine.WithMode(engine.TwoHuman))

		_, err := one.SubmitToken("Mb2")
		require.NoError(t, err)

		require.NotEqual(t, first, second)
		require.Len(t, one.Moves(), 1)
		require.Empty(t, two.Moves())
		require.Equal(t, game.Player1, two.State().Mover)
	})

	t.Run("concurrent creates", func(t *testing.T) {
		gm := NewGameMaster()
		ids := make([]uuid.UUID, 16)
		var wg sync.WaitGroup
		for i := range ids {
			i := i
			wg.Add(1)
			go func() {
				defer wg.Done()
				ids[i], _ = gm.Create()
			}()
		}
		wg.Wait()

		require.Equal(t, len(ids), gm.Len())
		for _, id := range ids {
			_, err := gm.Get(id)
			require.NoError(t, err)
		}
	})
}
