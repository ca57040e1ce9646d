package communication

import (
	"context"
	"fmt"

	"trimatch/game"
)

// Communicator is the remote game API, implemented over HTTP by the client package.
type Communicator interface {
	NewGame(ctx context.Context, req NewGameRequest) (GameState, error)
	GetGame(ctx context.Context, id string) (GameState, error)
	DeleteGame(ctx context.Context, id string) error
	LegalMoves(ctx context.Context, id string) ([]string, error)
	SubmitMove(ctx context.Context, id, move string) (MoveResponse, error)
	PlayAI(ctx context.Context, id string) (MoveResponse, error)
	Hint(ctx context.Context, id string) (HintResponse, error)
	Undo(ctx context.Context, id string) (GameState, error)
	SetDifficulty(ctx context.Context, id string, level int) (GameState, error)
}

type NewGameRequest struct {
	StartingPlayer int     `json:"starting_player"` // 1 or 2, defaults to 1
	Mode           string  `json:"mode"`            // "computer" (default) or "two-human"
	Difficulty     int     `json:"difficulty"`      // 0 keeps the default
	Seed           *uint64 `json:"seed,omitempty"`
}

type MoveRequest struct {
	Move string `json:"move"`
}

type DifficultyRequest struct {
	Level int `json:"level"`
}

type LoggedMove struct {
	Player int    `json:"player"`
	Move   string `json:"move"`
}

type GameState struct {
	ID         string       `json:"id"`
	Mode       string       `json:"mode"`
	Board      [3]string    `json:"board"` // Rows from the top, "." for an empty cell
	Mover      int          `json:"mover"`
	Moves      []LoggedMove `json:"moves"`
	Outcome    string       `json:"outcome"`
	Winner     int          `json:"winner"` // 0 while ongoing or drawn
	Terminal   bool         `json:"terminal"`
	Difficulty int          `json:"difficulty"`
}

type MoveResponse struct {
	Player    int       `json:"player"`
	Move      string    `json:"move"`
	Outcome   string    `json:"outcome"`
	Winner    int       `json:"winner"`
	LeveledUp bool      `json:"leveled_up"`
	TopLevel  bool      `json:"top_level"`
	Score     *int      `json:"score,omitempty"` // Computer moves only
	State     GameState `json:"state"`
}

type HintResponse struct {
	Result string   `json:"result"` // "win", "draw" or "loss" for the side to move
	Moves  []string `json:"moves"`
	Score  int      `json:"score"`
}

type LegalMovesResponse struct {
	Moves []string `json:"moves"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// EncodeBoard writes each row as three letters, "." for empty cells.
func EncodeBoard(b game.Board) [3]string {
	var rows [3]string
	for r := 0; r < game.Size; r++ {
		row := make([]byte, game.Size)
		for c := 0; c < game.Size; c++ {
			row[c] = '.'
			if rank := b.At(r, c); rank != game.Empty {
				row[c] = rank.Letter()
			}
		}
		rows[r] = string(row)
	}
	return rows
}

func DecodeBoard(rows [3]string) (game.Board, error) {
	var b game.Board
	for r, row := range rows {
		if len(row) != game.Size {
			return game.Board{}, fmt.Errorf("row %d: %q must have %d cells", r, row, game.Size)
		}
		for c := 0; c < game.Size; c++ {
			if row[c] == '.' {
				continue
			}
			rank, ok := game.RankFromLetter(row[c])
			if !ok {
				return game.Board{}, fmt.Errorf("row %d: unknown piece %q", r, row[c])
			}
			b[r][c] = rank
		}
	}
	return b, nil
}
