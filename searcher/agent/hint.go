package agent

import (
	"context"
	"fmt"

	"trimatch/game"
	"trimatch/searcher"
)

// Hint lists the moves that give mover the best outcome under perfect play.
type Hint struct {
	Result game.Outcome // Win, Draw or Loss for mover
	Moves  []game.Move  // Enumeration order
	Score  int          // Player 1 perspective
}

// Hint solves every legal move for mover without a depth limit.
func (a *MinimaxAgent) Hint(b game.Board, mover game.Player) (Hint, error) {
	moves := game.LegalMoves(b)
	if len(moves) == 0 {
		return Hint{}, ErrNoMoves
	}

	cfg := searcher.Config{MaxDepth: searcher.Unbounded}
	candidates, _, err := a.searcher.ScoreAll(context.Background(), cfg, b, mover, moves)
	if err != nil {
		return Hint{}, fmt.Errorf("failed to search: %w", err)
	}

	extreme := candidates[0].Score
	for _, c := range candidates[1:] {
		if searcher.Better(mover, c.Score, extreme) {
			extreme = c.Score
		}
	}

	hint := Hint{Score: extreme, Result: forcedResult(mover, extreme)}
	for _, c := range candidates {
		if c.Score == extreme {
			hint.Moves = append(hint.Moves, c.Move)
		}
	}
	return hint, nil
}

func forcedResult(mover game.Player, score int) game.Outcome {
	switch v := searcher.Sign(mover) * score; {
	case v > 0:
		return game.Win
	case v == 0:
		return game.Draw
	default:
		return game.Loss
	}
}
