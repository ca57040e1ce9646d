package agent

import (
	"golang.org/x/exp/rand"

	"trimatch/game"
)

// randomAgent plays uniformly random legal moves. It is the baseline opponent in the difficulty experiment.
type randomAgent struct {
	rng *rand.Rand
}

func NewRandomAgent(seed uint64) Agent {
	return randomAgent{rng: rand.New(rand.NewSource(seed))}
}

func (a randomAgent) ChooseMove(b game.Board, mover game.Player, plies int) (Decision, error) {
	moves := game.LegalMoves(b)
	if len(moves) == 0 {
		return Decision{}, ErrNoMoves
	}
	return Decision{Move: moves[a.rng.Intn(len(moves))], Random: true}, nil
}
