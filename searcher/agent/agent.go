package agent

import (
	"errors"

	"trimatch/experiments/metrics"
	"trimatch/game"
)

var ErrNoMoves = errors.New("no legal moves")

// Decision is a chosen move together with how it was found.
type Decision struct {
	Move   game.Move
	Score  int  // Player 1 perspective, 0 for a random pick
	Random bool // Picked without search
	Metric metrics.SearchMetric
}

type Agent interface {
	// ChooseMove returns a move for mover on b. plies is the number of moves already played in the
	// game, which lets agents vary their openings.
	ChooseMove(b game.Board, mover game.Player, plies int) (Decision, error)
}
