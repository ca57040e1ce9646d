package engine

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"trimatch/experiments/metrics"
	"trimatch/game"
	"trimatch/searcher/agent"
)

// LocalEngine plays two agents against each other in process.
type LocalEngine struct {
	starting game.Player
	agents   [2]agent.Agent // Indexed by player ID - 1
}

func NewLocalEngine(starting game.Player, one, two agent.Agent) *LocalEngine {
	if !starting.Valid() {
		panic(fmt.Sprintf("invalid starting player %d", starting))
	}
	if one == nil || two == nil {
		panic("need an agent for each player")
	}
	return &LocalEngine{starting: starting, agents: [2]agent.Agent{one, two}}
}

// Run executes the game loop until the board is decided.
func (e *LocalEngine) Run() (metrics.GameMetric, []metrics.MoveMetric, error) {
	state := game.NewState(e.starting)
	log.Debug().Msgf("%s is starting", e.starting)

	startTime := time.Now()
	var moveMetrics []metrics.MoveMetric
	for step := 0; !state.Outcome().Terminal(); step++ {
		mover := state.Mover
		decision, err := e.agents[mover-1].ChooseMove(state.Board, mover, step)
		if err != nil {
			return metrics.GameMetric{}, moveMetrics, fmt.Errorf("%s failed to choose a move: %w", mover, err)
		}
		if err := game.IsLegal(state.Board, decision.Move); err != nil {
			return metrics.GameMetric{}, moveMetrics, fmt.Errorf("%s chose an illegal move: %w", mover, err)
		}

		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step + 1,
			Player:       int(mover),
			Move:         decision.Move.Token(),
			Score:        decision.Score,
			SearchMetric: decision.Metric,
		})
		state = state.Play(decision.Move)
	}

	endTime := time.Now()
	gameMetric := metrics.GameMetric{
		StartingPlayer: int(e.starting),
		Winner:         int(state.Winner()),
		Outcome:        state.Outcome().String(),
		StartTime:      startTime,
		EndTime:        endTime,
		Duration:       endTime.Sub(startTime),
		TotalMoves:     len(moveMetrics),
	}
	log.Debug().Msgf("%s after %d moves, winner %s", state.Outcome(), len(moveMetrics), state.Winner())
	return gameMetric, moveMetrics, nil
}
