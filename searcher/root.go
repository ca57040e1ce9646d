package searcher

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"trimatch/experiments/metrics"
	"trimatch/game"
)

// Candidate is a root move with its score. Scored is false for moves skipped because an earlier
// candidate already reached the best possible value.
type Candidate struct {
	Move   game.Move
	Score  int
	Scored bool
}

// ScoreAll scores every move for mover. Each child is searched from depth 0.
func (s *Searcher) ScoreAll(ctx context.Context, cfg Config, b game.Board, mover game.Player, moves []game.Move) ([]Candidate, metrics.SearchMetric, error) {
	return s.run(ctx, cfg, b, mover, moves, false)
}

// Best returns the index of the first move with the best score for mover, or -1 if there are no
// moves. Candidates after one that reaches the best possible value are not searched, which gives
// the same choice as scoring every candidate.
func (s *Searcher) Best(ctx context.Context, cfg Config, b game.Board, mover game.Player, moves []game.Move) (int, []Candidate, metrics.SearchMetric, error) {
	candidates, metric, err := s.run(ctx, cfg, b, mover, moves, true)
	if err != nil {
		return -1, nil, metric, err
	}

	best := -1
	for i, c := range candidates {
		if !c.Scored {
			continue
		}
		if best < 0 || Better(mover, c.Score, candidates[best].Score) {
			best = i
		}
	}
	return best, candidates, metric, nil
}

func (s *Searcher) run(ctx context.Context, cfg Config, b game.Board, mover game.Player, moves []game.Move, prune bool) ([]Candidate, metrics.SearchMetric, error) {
	s.metrics.Start(s.goroutines, cfg.MaxDepth, len(moves))

	candidates := make([]Candidate, len(moves))
	for i, m := range moves {
		candidates[i].Move = m
	}

	var err error
	if s.goroutines > 1 && len(moves) > 1 {
		err = s.scoreParallel(ctx, cfg, b, mover, candidates, prune)
	} else {
		err = s.scoreSequential(ctx, cfg, b, mover, candidates, prune)
	}

	metric := s.metrics.Complete()
	if err != nil {
		return nil, metric, err
	}

	log.Debug().Msgf("scored %d candidates for %s at max depth %d: %d nodes, %d cache hits, cache size %d",
		len(moves), mover, cfg.MaxDepth, metric.Nodes, metric.CacheHits, s.cache.Len())
	return candidates, metric, nil
}

func (s *Searcher) scoreSequential(ctx context.Context, cfg Config, b game.Board, mover game.Player, candidates []Candidate, prune bool) error {
	extreme := Sign(mover) * Scale(0)
	for i := range candidates {
		v, err := s.score(ctx, cfg, b.Apply(candidates[i].Move), mover.Other(), 0)
		if err != nil {
			return err
		}
		candidates[i].Score, candidates[i].Scored = v, true
		if prune && v == extreme {
			break
		}
	}
	return nil
}

// scoreParallel searches candidates on a bounded pool of goroutines sharing the cache. When a
// candidate reaches the extreme value, only later candidates are cancelled, so the first-seen
// best move is the same as in a sequential search.
func (s *Searcher) scoreParallel(ctx context.Context, cfg Config, b game.Board, mover game.Player, candidates []Candidate, prune bool) error {
	extreme := Sign(mover) * Scale(0)

	ctxs := make([]context.Context, len(candidates))
	cancels := make([]context.CancelFunc, len(candidates))
	for i := range candidates {
		ctxs[i], cancels[i] = context.WithCancel(ctx)
	}
	defer func() {
		for _, cancel := range cancels {
			cancel()
		}
	}()

	var mu sync.Mutex
	cut := len(candidates)

	g := errgroup.Group{}
	g.SetLimit(s.goroutines)
	for i := range candidates {
		i := i
		g.Go(func() error {
			v, err := s.score(ctxs[i], cfg, b.Apply(candidates[i].Move), mover.Other(), 0)
			if err != nil {
				if ctx.Err() == nil { // Pruned by an earlier candidate
					return nil
				}
				return err
			}
			candidates[i].Score, candidates[i].Scored = v, true

			if prune && v == extreme {
				mu.Lock()
				for j := i + 1; j < cut; j++ {
					cancels[j]()
				}
				if i < cut {
					cut = i
				}
				mu.Unlock()
			}
			return nil
		})
	}
	return g.Wait()
}
