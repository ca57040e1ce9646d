package game

import (
	"errors"
	"fmt"
)

var ErrInvalidMove = errors.New("invalid move")

// The 8 lines checked for terminal conditions: rows, columns, diagonals.
var lines = [8][3][2]int{
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// CountRank returns how many cells hold rank.
func CountRank(b Board, rank Rank) int {
	count := 0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b[r][c] == rank {
				count++
			}
		}
	}
	return count
}

// IsLegal returns nil if m can be played on b, otherwise an error wrapping ErrInvalidMove.
func IsLegal(b Board, m Move) error {
	if !m.Rank.Valid() {
		return fmt.Errorf("%w: unknown rank %d", ErrInvalidMove, m.Rank)
	}
	if !m.inBounds() {
		return fmt.Errorf("%w: cell (%d, %d) is off the board", ErrInvalidMove, m.Row, m.Col)
	}
	if target := b[m.Row][m.Col]; target != Empty && m.Rank <= target {
		return fmt.Errorf("%w: %s can only replace a lower tile than %s", ErrInvalidMove, m.Rank, target)
	}
	if CountRank(b, m.Rank) >= PoolSize {
		return fmt.Errorf("%w: no more %s tiles available", ErrInvalidMove, m.Rank)
	}
	return nil
}

// LegalMoves enumerates cells row-major from the top left, ranks ascending within a cell.
func LegalMoves(b Board) []Move {
	var available [len(Ranks)]bool
	for i, rank := range Ranks {
		available[i] = CountRank(b, rank) < PoolSize
	}

	moves := make([]Move, 0, Cells*len(Ranks))
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			for i, rank := range Ranks {
				if available[i] && rank > b[r][c] {
					moves = append(moves, Move{Rank: rank, Row: r, Col: c})
				}
			}
		}
	}
	return moves
}

// Classify returns the outcome for whoever moved last. A completed line holding one of each rank
// is a loss and takes precedence over a line of three equal ranks elsewhere on the board.
func Classify(b Board) Outcome {
	win := false
	for _, line := range lines {
		x := b[line[0][0]][line[0][1]]
		y := b[line[1][0]][line[1][1]]
		z := b[line[2][0]][line[2][1]]
		if x == Empty || y == Empty || z == Empty {
			continue
		}
		if x != y && y != z && x != z {
			return Loss
		}
		if x == y && y == z {
			win = true
		}
	}

	if win {
		return Win
	}
	if b.Full() {
		return Draw
	}
	return Ongoing
}

// Winner attributes an outcome reached by lastMover's move.
func Winner(outcome Outcome, lastMover Player) Player {
	switch outcome {
	case Win:
		return lastMover
	case Loss:
		return lastMover.Other()
	default:
		return NoPlayer
	}
}
