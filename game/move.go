package game

import (
	"fmt"
	"strings"
)

// Move places Rank on (Row, Col). Row 0 is the top row.
type Move struct {
	Rank Rank
	Row  int
	Col  int
}

// ParseMove reads a 3 character token: piece letter, column a-c, row 1-3 (row 3 at the top).
// Case is ignored.
func ParseMove(token string) (Move, error) {
	token = strings.TrimSpace(token)
	if len(token) != 3 {
		return Move{}, fmt.Errorf("%w: token %q must be 3 characters like Mb2", ErrInvalidMove, token)
	}
	rank, ok := RankFromLetter(token[0])
	if !ok {
		return Move{}, fmt.Errorf("%w: unknown piece %q, expected N, K or M", ErrInvalidMove, token[0])
	}
	col := int(lower(token[1]) - 'a')
	if col < 0 || col >= Size {
		return Move{}, fmt.Errorf("%w: unknown column %q, expected a-c", ErrInvalidMove, token[1])
	}
	digit := int(token[2] - '0')
	if digit < 1 || digit > Size {
		return Move{}, fmt.Errorf("%w: unknown row %q, expected 1-3", ErrInvalidMove, token[2])
	}
	return Move{Rank: rank, Row: Size - digit, Col: col}, nil
}

// MustParseMove is ParseMove for literals known to be valid.
func MustParseMove(token string) Move {
	m, err := ParseMove(token)
	if err != nil {
		panic(err)
	}
	return m
}

// Token is the uppercase wire form, e.g. "MB2".
func (m Move) Token() string {
	return string([]byte{m.Rank.Letter(), byte('A' + m.Col), byte('0' + Size - m.Row)})
}

func (m Move) String() string {
	return m.Token()
}

func (m Move) inBounds() bool {
	return m.Row >= 0 && m.Row < Size && m.Col >= 0 && m.Col < Size
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}
