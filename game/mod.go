package game

import "fmt"

const (
	Size     = 3 // Board is Size x Size
	Cells    = Size * Size
	PoolSize = 3 // Tiles of each rank in circulation, shared by both players
)

// Rank is a piece type. The zero value is an empty cell.
type Rank uint8

const (
	Empty Rank = iota
	Noble
	Knight
	Mystic
)

// Ranks in ascending order, which is also the move enumeration order within a cell
var Ranks = [...]Rank{Noble, Knight, Mystic}

func (r Rank) Valid() bool {
	return r >= Noble && r <= Mystic
}

// Letter returns the uppercase notation letter, or a space for an empty cell.
func (r Rank) Letter() byte {
	switch r {
	case Noble:
		return 'N'
	case Knight:
		return 'K'
	case Mystic:
		return 'M'
	default:
		return ' '
	}
}

func (r Rank) String() string {
	switch r {
	case Noble:
		return "Noble"
	case Knight:
		return "Knight"
	case Mystic:
		return "Mystic"
	case Empty:
		return "Empty"
	default:
		return fmt.Sprintf("Rank(%d)", uint8(r))
	}
}

// RankFromLetter maps n/k/m (any case) to its rank
func RankFromLetter(letter byte) (Rank, bool) {
	switch letter {
	case 'n', 'N':
		return Noble, true
	case 'k', 'K':
		return Knight, true
	case 'm', 'M':
		return Mystic, true
	default:
		return Empty, false
	}
}

// Player identifies a side. Player 1 is the computer when playing against a human.
type Player int

const (
	NoPlayer Player = 0
	Player1  Player = 1
	Player2  Player = 2
)

func (p Player) Valid() bool {
	return p == Player1 || p == Player2
}

// Other returns the opponent of p.
func (p Player) Other() Player {
	switch p {
	case Player1:
		return Player2
	case Player2:
		return Player1
	default:
		panic(fmt.Sprintf("invalid player %d", p))
	}
}

func (p Player) String() string {
	if p == NoPlayer {
		return "none"
	}
	return fmt.Sprintf("Player%d", int(p))
}

// Outcome of a board, always attributed to whoever moved last.
type Outcome int

const (
	Ongoing Outcome = iota
	Win
	Loss
	Draw
)

func (o Outcome) String() string {
	switch o {
	case Ongoing:
		return "ongoing"
	case Win:
		return "win"
	case Loss:
		return "loss"
	case Draw:
		return "draw"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Terminal reports whether the game is over.
func (o Outcome) Terminal() bool {
	return o != Ongoing
}
