package searcher

import "trimatch/game"

// MaxGameDepth scales terminal values so that faster wins score higher than slower ones.
const MaxGameDepth = 15

// Unbounded disables the depth cutoff.
const Unbounded = 0

// Config is passed into every search call. Results are only cached under the config that
// produced them.
type Config struct {
	MaxDepth int // Plies searched before a position counts as neutral, Unbounded for none
}

func (c Config) Bounded() bool {
	return c.MaxDepth > Unbounded
}

// Scale is the weight of a terminal outcome reached at depth. It never drops below 1, so lines
// that run past MaxGameDepth keep their sign.
func Scale(depth int) int {
	if s := MaxGameDepth - depth; s > 1 {
		return s
	}
	return 1
}

// Sign maps a player to the direction it pushes the score: Player 1 maximizes, Player 2 minimizes.
func Sign(p game.Player) int {
	switch p {
	case game.Player1:
		return 1
	case game.Player2:
		return -1
	default:
		return 0
	}
}

// Better reports whether score a is preferable to b for mover.
func Better(mover game.Player, a, b int) bool {
	return Sign(mover)*a > Sign(mover)*b
}

// terminalValue scores a finished board from Player 1's perspective. The last move was made by
// the opponent of mover.
func terminalValue(outcome game.Outcome, mover game.Player, depth int) int {
	winner := game.Winner(outcome, mover.Other())
	return Sign(winner) * Scale(depth)
}
