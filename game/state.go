package game

import "fmt"

// State is a board together with the side to move. States are immutable values:
// Play always returns a new State.
type State struct {
	Board Board
	Mover Player
}

// NewState returns the empty board with starting to move.
func NewState(starting Player) State {
	if !starting.Valid() {
		panic(fmt.Sprintf("invalid starting player %d", starting))
	}
	return State{Mover: starting}
}

func (s State) LegalMoves() []Move {
	if Classify(s.Board).Terminal() {
		return nil
	}
	return LegalMoves(s.Board)
}

// Play applies m for the current mover and passes the turn. Legality is not checked.
func (s State) Play(m Move) State {
	return State{Board: s.Board.Apply(m), Mover: s.Mover.Other()}
}

// Outcome of the board for the player who moved last.
func (s State) Outcome() Outcome {
	return Classify(s.Board)
}

// LastMover is the player the current outcome is attributed to.
func (s State) LastMover() Player {
	return s.Mover.Other()
}

// Winner returns the winning player, or NoPlayer when the game is ongoing or drawn.
func (s State) Winner() Player {
	return Winner(s.Outcome(), s.LastMover())
}
