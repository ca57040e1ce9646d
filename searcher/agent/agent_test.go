package agent

import (
	"testing"

	"github.com/stretchr/testify/require"

	"trimatch/game"
	"trimatch/meta"
	"trimatch/searcher"
)

func board(rows ...string) game.Board {
	var b game.Board
	for r, row := range rows {
		for c := 0; c < game.Size; c++ {
			if rank, ok := game.RankFromLetter(row[c]); ok {
				b[r][c] = rank
			}
		}
	}
	return b
}

func tokens(moves []game.Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = m.Token()
	}
	return out
}

// opponentWins reports whether the side to move on b can make three of a kind at once.
func opponentWins(b game.Board) bool {
	for _, m := range game.LegalMoves(b) {
		if game.Classify(b.Apply(m)) == game.Win {
			return true
		}
	}
	return false
}

func TestChooseMove(t *testing.T) {
	t.Run("takes an immediate win at the lowest level", func(t *testing.T) {
		a := NewMinimaxAgent(WithSeed(1), WithDifficulty(1))

		d, err := a.ChooseMove(board("NN.", "K..", "..."), game.Player1, 3)

		require.NoError(t, err)
		require.Equal(t, "NC3", d.Move.Token())
		require.Equal(t, 15, d.Score)
		require.False(t, d.Random)
	})

	t.Run("never completes a triad when it can avoid one", func(t *testing.T) {
		b := board("NK.", "...", "...")
		for seed := uint64(0); seed < 20; seed++ {
			a := NewMinimaxAgent(WithSeed(seed), WithDifficulty(1))

			d, err := a.ChooseMove(b, game.Player2, 2)

			require.NoError(t, err)
			require.NotEqual(t, game.Loss, game.Classify(b.Apply(d.Move)), "Seed %d chose %s", seed, d.Move)
		}
	})

	t.Run("does not hand the opponent a win with two plies of lookahead", func(t *testing.T) {
		b := board("N..", "...", "...")
		blunders := 0
		for _, m := range game.LegalMoves(b) {
			if opponentWins(b.Apply(m)) {
				blunders++
			}
		}
		require.Positive(t, blunders, "Some moves should set up a line for the opponent")

		for seed := uint64(0); seed < 10; seed++ {
			a := NewMinimaxAgent(WithSeed(seed), WithDifficulty(2))

			d, err := a.ChooseMove(b, game.Player1, 1)

			require.NoError(t, err)
			require.Equal(t, 0, d.Score, "Seed %d chose %s", seed, d.Move)
			require.False(t, opponentWins(b.Apply(d.Move)), "Seed %d chose %s", seed, d.Move)
		}
	})

	t.Run("random opening without search", func(t *testing.T) {
		a := NewMinimaxAgent(WithSeed(3))

		d, err := a.ChooseMove(game.Board{}, game.Player1, 0)

		require.NoError(t, err)
		require.True(t, d.Random)
		require.NoError(t, game.IsLegal(game.Board{}, d.Move))
		require.Equal(t, 0, a.searcher.Cache().Len(), "The opening should not touch the search")
	})

	t.Run("first best move when randomize is off", func(t *testing.T) {
		a := NewMinimaxAgent(WithRandomize(false), WithDifficulty(1))

		d, err := a.ChooseMove(game.Board{}, game.Player1, 0)

		require.NoError(t, err)
		require.False(t, d.Random)
		require.Equal(t, "NA3", d.Move.Token(), "Every opening ties at depth 1, so the first one wins")
	})

	t.Run("same seed replays the same game", func(t *testing.T) {
		play := func(seed uint64) []string {
			one := NewMinimaxAgent(WithSeed(seed), WithDifficulty(3))
			two := NewMinimaxAgent(WithSeed(seed+1), WithDifficulty(2))
			state := game.NewState(game.Player1)
			var log []string
			for plies := 0; !state.Outcome().Terminal(); plies++ {
				agent := one
				if state.Mover == game.Player2 {
					agent = two
				}
				d, err := agent.ChooseMove(state.Board, state.Mover, plies)
				require.NoError(t, err)
				state = state.Play(d.Move)
				log = append(log, d.Move.Token())
			}
			return log
		}

		require.Equal(t, play(11), play(11))
	})

	t.Run("parallel search picks the same move", func(t *testing.T) {
		b := board("N..", ".K.", "...")
		sequential := NewMinimaxAgent(WithRandomize(false), WithDifficulty(4))
		parallel := NewMinimaxAgent(WithRandomize(false), WithDifficulty(4),
			WithSearcher(searcher.NewSearcher(searcher.WithGoroutines(4))))

		want, err := sequential.ChooseMove(b, game.Player1, 2)
		require.NoError(t, err)
		got, err := parallel.ChooseMove(b, game.Player1, 2)
		require.NoError(t, err)

		require.Equal(t, want.Move, got.Move)
		require.Equal(t, want.Score, got.Score)
	})

	t.Run("no legal moves", func(t *testing.T) {
		a := NewMinimaxAgent()

		_, err := a.ChooseMove(board("MMM", "MMM", "MMM"), game.Player1, 9)

		require.ErrorIs(t, err, ErrNoMoves)
	})
}

func TestDifficulty(t *testing.T) {
	t.Run("clamps into range", func(t *testing.T) {
		a := NewMinimaxAgent()

		require.Equal(t, meta.DEFAULT_DIFFICULTY, a.Difficulty())
		require.Equal(t, meta.MAX_DIFFICULTY, a.SetDifficulty(99))
		require.Equal(t, meta.MIN_DIFFICULTY, a.SetDifficulty(-1))
		require.Equal(t, meta.MIN_DIFFICULTY, NewMinimaxAgent(WithDifficulty(0)).Difficulty())
	})

	t.Run("levels up until the top", func(t *testing.T) {
		a := NewMinimaxAgent(WithDifficulty(meta.MAX_DIFFICULTY - 1))

		require.True(t, a.LevelUp())
		require.Equal(t, meta.MAX_DIFFICULTY, a.Difficulty())
		require.False(t, a.LevelUp(), "The top level cannot be raised")
		require.Equal(t, meta.MAX_DIFFICULTY, a.Difficulty())
	})

	t.Run("changing level releases the cache", func(t *testing.T) {
		a := NewMinimaxAgent(WithRandomize(false), WithDifficulty(3))
		_, err := a.ChooseMove(board("N..", "...", "..."), game.Player2, 1)
		require.NoError(t, err)
		require.Positive(t, a.searcher.Cache().Len())

		a.SetDifficulty(3)
		require.Positive(t, a.searcher.Cache().Len(), "Same level keeps the cache")

		a.LevelUp()
		require.Zero(t, a.searcher.Cache().Len())
	})
}

func TestHint(t *testing.T) {
	t.Run("finds the only winning move", func(t *testing.T) {
		a := NewMinimaxAgent()

		hint, err := a.Hint(board("NN.", "K..", "..."), game.Player1)

		require.NoError(t, err)
		require.Equal(t, game.Win, hint.Result)
		require.Equal(t, []string{"NC3"}, tokens(hint.Moves))
		require.Equal(t, 15, hint.Score)
	})

	t.Run("scores from player 1's side for either mover", func(t *testing.T) {
		a := NewMinimaxAgent()
		b := board("NNK", "MKK", "...")

		hint, err := a.Hint(b, game.Player1)
		require.NoError(t, err)
		require.Equal(t, game.Win, hint.Result)
		require.Equal(t, 10, hint.Score)
		require.Equal(t, []string{"MC3"}, tokens(hint.Moves))

		hint, err = a.Hint(b, game.Player2)
		require.NoError(t, err)
		require.Equal(t, game.Win, hint.Result)
		require.Equal(t, -10, hint.Score)
	})

	t.Run("reports an unavoidable loss", func(t *testing.T) {
		a := NewMinimaxAgent()

		hint, err := a.Hint(board("NMN", "MKM", "..."), game.Player1)

		require.NoError(t, err)
		require.Equal(t, game.Loss, hint.Result)
		require.Equal(t, -13, hint.Score)
		require.Equal(t, []string{"NA1", "KB1", "NC1"}, tokens(hint.Moves), "Moves that delay the loss longest")
	})

	t.Run("does not depend on the difficulty", func(t *testing.T) {
		b := board("N..", ".K.", "M..")
		easy := NewMinimaxAgent(WithDifficulty(1))
		hard := NewMinimaxAgent(WithDifficulty(meta.MAX_DIFFICULTY))

		want, err := easy.Hint(b, game.Player2)
		require.NoError(t, err)
		// A bounded search on the same agent must not affect the unbounded one
		_, err = hard.ChooseMove(b, game.Player2, 3)
		require.NoError(t, err)
		got, err := hard.Hint(b, game.Player2)
		require.NoError(t, err)

		require.Equal(t, want, got)
	})
}

func TestHintRegressionBaseline(t *testing.T) {
	if testing.Short() {
		t.Skip("solves the whole game")
	}
	a := NewMinimaxAgent()
	reply := func(opening string) Hint {
		hint, err := a.Hint(game.Board{}.Apply(game.MustParseMove(opening)), game.Player2)
		require.NoError(t, err)
		return hint
	}

	t.Run("first player wins with the centre Mystic", func(t *testing.T) {
		hint, err := a.Hint(game.Board{}, game.Player1)

		require.NoError(t, err)
		require.Equal(t, game.Win, hint.Result)
		require.Equal(t, 6, hint.Score)
		require.Equal(t, []string{"MB2"}, tokens(hint.Moves))
	})

	t.Run("after Mb2 the second player cannot avoid losing", func(t *testing.T) {
		hint := reply("Mb2")

		require.Equal(t, game.Loss, hint.Result)
		require.Equal(t, 7, hint.Score)
		require.Equal(t, []string{
			"NA3", "KA3", "NB3", "KB3", "NC3", "KC3", "NA2", "KA2",
			"NC2", "KC2", "NA1", "KA1", "NB1", "KB1", "NC1", "KC1",
		}, tokens(hint.Moves))
	})

	t.Run("a lower centre tile is punished by the Mystic upgrade", func(t *testing.T) {
		for _, opening := range []string{"Nb2", "Kb2"} {
			hint := reply(opening)

			require.Equal(t, game.Win, hint.Result, opening)
			require.Equal(t, -6, hint.Score, opening)
			require.Equal(t, []string{"MB2"}, tokens(hint.Moves), opening)
		}
	})

	t.Run("other Noble and Knight openings are upgraded in place", func(t *testing.T) {
		for _, opening := range []string{"Na3", "Kc1"} {
			hint := reply(opening)
			want := "M" + game.MustParseMove(opening).Token()[1:]

			require.Equal(t, game.Win, hint.Result, opening)
			require.Equal(t, -4, hint.Score, opening)
			require.Equal(t, []string{want}, tokens(hint.Moves), opening)
		}
	})

	t.Run("corner Mystic openings leave the first player winning", func(t *testing.T) {
		hint := reply("Ma3")

		require.Equal(t, game.Loss, hint.Result)
		require.Equal(t, 5, hint.Score)
		require.Equal(t, []string{"NB3", "NA2", "NB2", "KB2", "NC2", "KC2", "NB1", "KB1", "NC1", "KC1"}, tokens(hint.Moves))
	})
}

func TestRandomAgent(t *testing.T) {
	b := board("NK.", "M..", "...")
	a := NewRandomAgent(5)

	for i := 0; i < 20; i++ {
		d, err := a.ChooseMove(b, game.Player2, 3)
		require.NoError(t, err)
		require.True(t, d.Random)
		require.NoError(t, game.IsLegal(b, d.Move))
	}

	_, err := a.ChooseMove(board("MMM", "MMM", "MMM"), game.Player1, 9)
	require.ErrorIs(t, err, ErrNoMoves)
}
