package game

import "strings"

// Board is the 3x3 grid. Row 0 is the top row, written as row 3 in notation.
// Boards are values: Apply returns a modified copy.
type Board [Size][Size]Rank

// BoardKey packs the 9 cells row-major, 2 bits per cell.
type BoardKey uint32

func (b Board) Key() BoardKey {
	var key BoardKey
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			key = key<<2 | BoardKey(b[r][c])
		}
	}
	return key
}

// BoardFromKey is the inverse of Board.Key.
func BoardFromKey(key BoardKey) Board {
	var b Board
	for i := Cells - 1; i >= 0; i-- {
		b[i/Size][i%Size] = Rank(key & 3)
		key >>= 2
	}
	return b
}

// Apply places the move's rank on its cell and returns the new board.
// Legality is not checked, see IsLegal.
func (b Board) Apply(m Move) Board {
	b[m.Row][m.Col] = m.Rank
	return b
}

func (b Board) At(row, col int) Rank {
	return b[row][col]
}

func (b Board) Full() bool {
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b[r][c] == Empty {
				return false
			}
		}
	}
	return true
}

func (b Board) Empty() bool {
	return b == Board{}
}

// String renders the board the way the terminal front end prints it:
//
//	   a   b   c
//	 +---+---+---+
//	3| M |   |   |
//	 +---+---+---+
//	...
func (b Board) String() string {
	var sb strings.Builder
	sb.WriteString("   a   b   c\n")
	sb.WriteString(" +---+---+---+\n")
	for r := 0; r < Size; r++ {
		sb.WriteByte(byte('0' + Size - r))
		sb.WriteByte('|')
		for c := 0; c < Size; c++ {
			sb.WriteByte(' ')
			sb.WriteByte(b[r][c].Letter())
			sb.WriteString(" |")
		}
		sb.WriteString("\n +---+---+---+\n")
	}
	return sb.String()
}
