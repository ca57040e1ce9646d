package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// board builds a Board from three rows written top to bottom, '.' for empty.
func board(rows ...string) Board {
	var b Board
	for r, row := range rows {
		for c := 0; c < Size; c++ {
			if rank, ok := RankFromLetter(row[c]); ok {
				b[r][c] = rank
			}
		}
	}
	return b
}

// forEachBoard visits every board that respects the pool limit.
func forEachBoard(visit func(Board)) {
	for key := BoardKey(0); key < 1<<(2*Cells); key++ {
		b := BoardFromKey(key)
		if CountRank(b, Noble) > PoolSize || CountRank(b, Knight) > PoolSize || CountRank(b, Mystic) > PoolSize {
			continue
		}
		visit(b)
	}
}

func TestIsLegal(t *testing.T) {
	t.Run("placing on an empty cell", func(t *testing.T) {
		require.NoError(t, IsLegal(Board{}, MustParseMove("Nb2")))
	})

	t.Run("upgrading to a strictly higher rank", func(t *testing.T) {
		b := board("...", ".N.", "...")

		require.NoError(t, IsLegal(b, MustParseMove("Kb2")), "Knight should replace a Noble")
		require.NoError(t, IsLegal(b, MustParseMove("Mb2")), "Mystic should replace a Noble")
	})

	t.Run("replacing with an equal or lower rank", func(t *testing.T) {
		b := board("...", ".K.", "...")

		require.ErrorIs(t, IsLegal(b, MustParseMove("Kb2")), ErrInvalidMove, "Equal rank should be rejected")
		require.ErrorIs(t, IsLegal(b, MustParseMove("Nb2")), ErrInvalidMove, "Lower rank should be rejected")
	})

	t.Run("pool of a rank exhausted", func(t *testing.T) {
		b := board("MM.", "M..", "...")

		err := IsLegal(b, MustParseMove("Mc1"))

		require.ErrorIs(t, err, ErrInvalidMove)
		require.Contains(t, err.Error(), "no more Mystic tiles")
	})

	t.Run("upgrade with an exhausted pool", func(t *testing.T) {
		b := board("KK.", "K..", "..N")

		require.ErrorIs(t, IsLegal(b, MustParseMove("Kc1")), ErrInvalidMove,
			"Upgrading still consumes a tile from the pool")
	})

	t.Run("off the board or unknown rank", func(t *testing.T) {
		require.ErrorIs(t, IsLegal(Board{}, Move{Rank: Noble, Row: 3, Col: 0}), ErrInvalidMove)
		require.ErrorIs(t, IsLegal(Board{}, Move{Rank: Empty, Row: 0, Col: 0}), ErrInvalidMove)
	})
}

func TestLegalMoves(t *testing.T) {
	t.Run("empty board", func(t *testing.T) {
		moves := LegalMoves(Board{})

		require.Len(t, moves, Cells*len(Ranks), "Every rank fits on every cell")
		require.Equal(t, MustParseMove("Na3"), moves[0], "Enumeration starts at the top left with Noble")
		require.Equal(t, MustParseMove("Mc1"), moves[len(moves)-1], "Enumeration ends at the bottom right with Mystic")
	})

	t.Run("after a Noble on a1", func(t *testing.T) {
		b := Board{}.Apply(MustParseMove("na1"))

		require.Equal(t, Noble, b[2][0], "a1 is the bottom left cell")
		require.Equal(t, 1, CountRank(b, Noble))

		moves := LegalMoves(b)
		require.NotContains(t, moves, MustParseMove("Na1"), "A cell cannot take an equal rank")
		require.Contains(t, moves, MustParseMove("Ka1"), "Knight may upgrade the Noble")
		require.Contains(t, moves, MustParseMove("Ma1"), "Mystic may upgrade the Noble")

		upgraded := b.Apply(MustParseMove("Ma1"))
		require.NotContains(t, LegalMoves(upgraded), MustParseMove("Ma1"), "A Mystic cannot be replaced")
	})

	t.Run("every legal move agrees with IsLegal and keeps the pool invariant", func(t *testing.T) {
		forEachBoard(func(b Board) {
			for _, m := range LegalMoves(b) {
				if err := IsLegal(b, m); err != nil {
					t.Fatalf("%s on\n%s: %v", m, b, err)
				}
				if CountRank(b.Apply(m), m.Rank) > PoolSize {
					t.Fatalf("%s on\n%s exceeds the pool", m, b)
				}
			}
		})
	})

	t.Run("a non-full board always has a move", func(t *testing.T) {
		forEachBoard(func(b Board) {
			if !b.Full() && len(LegalMoves(b)) == 0 {
				t.Fatalf("no moves on\n%s", b)
			}
		})
	})
}

func TestApply(t *testing.T) {
	t.Run("does not mutate the original board", func(t *testing.T) {
		b := board("N..", "...", "...")
		before := b

		after := b.Apply(MustParseMove("Kb2"))

		require.Equal(t, before, b)
		require.Equal(t, Knight, after[1][1])
		require.Equal(t, Noble, after[0][0])
	})

	t.Run("replaying a log reproduces the board", func(t *testing.T) {
		log := []string{"Mb2", "Na3", "Ka3", "Nc1"}
		snapshot := Board{}
		live := Board{}
		for _, token := range log {
			live = live.Apply(MustParseMove(token))
		}

		replayed := snapshot
		for _, token := range log {
			replayed = replayed.Apply(MustParseMove(token))
		}

		require.Equal(t, live, replayed)
		require.True(t, snapshot.Empty(), "Snapshot should be untouched")
	})
}

func TestClassify(t *testing.T) {
	t.Run("triad row is a loss in any order", func(t *testing.T) {
		require.Equal(t, Loss, Classify(board("...", "...", "NKM")))
		require.Equal(t, Loss, Classify(board("...", "...", "MNK")))
		require.Equal(t, Loss, Classify(board("...", "...", "KMN")))
	})

	t.Run("three equal ranks is a win", func(t *testing.T) {
		require.Equal(t, Win, Classify(board("KKK", "...", "...")))
		require.Equal(t, Win, Classify(board("N..", ".N.", "..N")), "Diagonal")
		require.Equal(t, Win, Classify(board("..M", "..M", "..M")), "Column")
	})

	t.Run("loss takes precedence over a win elsewhere", func(t *testing.T) {
		require.Equal(t, Loss, Classify(board("NNN", "K..", "M..")))
	})

	t.Run("incomplete and mixed lines are ongoing", func(t *testing.T) {
		require.Equal(t, Ongoing, Classify(Board{}))
		require.Equal(t, Ongoing, Classify(board("NK.", "...", "...")))
		require.Equal(t, Ongoing, Classify(board("NNK", "...", "...")))
	})

	t.Run("full board without a line is a draw", func(t *testing.T) {
		// Breaks the pool limit, which is the only way to fill the board without a line.
		require.Equal(t, Draw, Classify(board("NNK", "NNK", "KKM")))
	})

	t.Run("a full board within the pool limit always ends in a line", func(t *testing.T) {
		forEachBoard(func(b Board) {
			if b.Full() && Classify(b) == Draw {
				t.Fatalf("unexpected draw on\n%s", b)
			}
		})
	})

	t.Run("no line is both all equal and all distinct", func(t *testing.T) {
		for _, x := range Ranks {
			for _, y := range Ranks {
				for _, z := range Ranks {
					equal := x == y && y == z
					distinct := x != y && y != z && x != z
					require.False(t, equal && distinct)
				}
			}
		}
	})

	t.Run("classification is idempotent", func(t *testing.T) {
		forEachBoard(func(b Board) {
			if Classify(b) != Classify(b) {
				t.Fatalf("unstable outcome on\n%s", b)
			}
		})
	})
}

func TestWinner(t *testing.T) {
	require.Equal(t, Player1, Winner(Win, Player1))
	require.Equal(t, Player2, Winner(Loss, Player1), "A triad loses for whoever completed it")
	require.Equal(t, Player1, Winner(Loss, Player2))
	require.Equal(t, NoPlayer, Winner(Draw, Player1))
	require.Equal(t, NoPlayer, Winner(Ongoing, Player2))
}
