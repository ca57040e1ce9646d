package searcher

import (
	"context"
	"math"

	"trimatch/experiments/metrics"
	"trimatch/game"
)

type Option func(s *Searcher)

// Searcher scores positions with a memoized minimax. Scores are always from Player 1's
// perspective: positive favours Player 1, negative favours Player 2.
type Searcher struct {
	goroutines int
	cache      *Cache
	metrics    metrics.Collector
}

// WithGoroutines scores root candidates concurrently.
func WithGoroutines(goroutines int) Option {
	return func(s *Searcher) {
		if goroutines > 0 {
			s.goroutines = goroutines
		}
	}
}

// WithCache shares a cache between searchers.
func WithCache(cache *Cache) Option {
	return func(s *Searcher) {
		if cache != nil {
			s.cache = cache
		}
	}
}

func WithMetrics() Option {
	return func(s *Searcher) {
		s.metrics = metrics.NewCollector()
	}
}

func NewSearcher(options ...Option) *Searcher {
	s := &Searcher{ // Default values
		goroutines: 1,
		metrics:    metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(s)
	}
	if s.cache == nil {
		s.cache = NewCache()
	}
	return s
}

func (s *Searcher) Goroutines() int {
	return s.goroutines
}

func (s *Searcher) Cache() *Cache {
	return s.cache
}

// Score returns the value of b with mover to act, searched from ply depth.
func (s *Searcher) Score(cfg Config, b game.Board, mover game.Player, depth int) int {
	// Never cancelled, so the error is always nil
	v, _ := s.score(context.Background(), cfg, b, mover, depth)
	return v
}

func (s *Searcher) score(ctx context.Context, cfg Config, b game.Board, mover game.Player, depth int) (int, error) {
	if cfg.Bounded() && depth >= cfg.MaxDepth {
		return 0, nil
	}

	key := newCacheKey(b.Key(), mover, depth, cfg)
	if v, ok := s.cache.Get(key); ok {
		s.metrics.AddCacheHit()
		return v, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.metrics.AddNode()

	var value int
	if outcome := game.Classify(b); outcome.Terminal() {
		value = terminalValue(outcome, mover, depth)
	} else {
		var err error
		value, err = s.expand(ctx, cfg, b, mover, depth)
		if err != nil {
			return 0, err
		}
	}

	s.cache.Put(key, value)
	return value, nil
}

func (s *Searcher) expand(ctx context.Context, cfg Config, b game.Board, mover game.Player, depth int) (int, error) {
	moves := game.LegalMoves(b)
	if len(moves) == 0 {
		return 0, nil
	}

	// Nothing a child can return beats an immediate result at the next ply
	target := Sign(mover) * Scale(depth+1)
	best := -Sign(mover) * math.MaxInt32
	for _, m := range moves {
		v, err := s.score(ctx, cfg, b.Apply(m), mover.Other(), depth+1)
		if err != nil {
			return 0, err
		}
		if Better(mover, v, best) {
			best = v
			if best == target {
				break
			}
		}
	}
	return best, nil
}
