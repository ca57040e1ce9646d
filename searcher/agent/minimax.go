package agent

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"trimatch/game"
	"trimatch/meta"
	"trimatch/searcher"
)

type Option func(a *MinimaxAgent)

// MinimaxAgent picks the best move found by a depth-limited minimax search. Not safe for
// concurrent use: callers serialize access per game.
type MinimaxAgent struct {
	searcher   *searcher.Searcher
	difficulty Difficulty
	randomize  bool
	rng        *rand.Rand
}

// WithSeed fixes the random source used for openings and tie-breaks.
func WithSeed(seed uint64) Option {
	return func(a *MinimaxAgent) {
		a.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRandomize toggles the random opening and shuffled tie-breaks.
func WithRandomize(randomize bool) Option {
	return func(a *MinimaxAgent) {
		a.randomize = randomize
	}
}

func WithDifficulty(level int) Option {
	return func(a *MinimaxAgent) {
		a.difficulty = NewDifficulty(level)
	}
}

func WithSearcher(s *searcher.Searcher) Option {
	return func(a *MinimaxAgent) {
		if s != nil {
			a.searcher = s
		}
	}
}

func NewMinimaxAgent(options ...Option) *MinimaxAgent {
	a := &MinimaxAgent{ // Default values
		difficulty: NewDifficulty(meta.DEFAULT_DIFFICULTY),
		randomize:  true,
	}
	for _, option := range options {
		option(a)
	}
	if a.searcher == nil {
		a.searcher = searcher.NewSearcher()
	}
	if a.rng == nil {
		a.rng = rand.New(rand.NewSource(rand.Uint64()))
	}
	return a
}

func (a *MinimaxAgent) Difficulty() int {
	return a.difficulty.Level()
}

// SetDifficulty clamps level into range and returns the level in effect.
func (a *MinimaxAgent) SetDifficulty(level int) int {
	a.setDifficulty(NewDifficulty(level))
	return a.difficulty.Level()
}

// LevelUp raises the difficulty by one and reports whether it changed. It does not change at the
// top level.
func (a *MinimaxAgent) LevelUp() bool {
	if a.difficulty.Top() {
		return false
	}
	a.setDifficulty(a.difficulty.Next())
	return true
}

func (a *MinimaxAgent) setDifficulty(d Difficulty) {
	if d == a.difficulty {
		return
	}
	log.Debug().Msgf("difficulty %d -> %d, dropping %d cached positions", a.difficulty.Level(), d.Level(), a.searcher.Cache().Len())
	a.difficulty = d
	// Entries are keyed by depth limit, so this only releases memory held for the old level
	a.searcher.Cache().Clear()
}

func (a *MinimaxAgent) ChooseMove(b game.Board, mover game.Player, plies int) (Decision, error) {
	moves := game.LegalMoves(b)
	if len(moves) == 0 {
		return Decision{}, ErrNoMoves
	}

	if plies == 0 && a.randomize {
		return Decision{Move: moves[a.rng.Intn(len(moves))], Random: true}, nil
	}
	if a.randomize {
		a.rng.Shuffle(len(moves), func(i, j int) {
			moves[i], moves[j] = moves[j], moves[i]
		})
	}

	best, candidates, metric, err := a.searcher.Best(context.Background(), a.difficulty.Config(), b, mover, moves)
	if err != nil {
		// Only cancellation fails a search and this context is never cancelled
		return Decision{}, fmt.Errorf("failed to search: %w", err)
	}
	return Decision{Move: moves[best], Score: candidates[best].Score, Metric: metric}, nil
}
