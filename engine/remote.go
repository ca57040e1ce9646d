package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"trimatch/communication"
	"trimatch/experiments/metrics"
	"trimatch/game"
	"trimatch/searcher/agent"
)

// RemoteEngine plays a local agent in the human seat against the computer of a game server.
type RemoteEngine struct {
	comm       communication.Communicator
	agent      agent.Agent
	starting   game.Player
	difficulty int
}

func NewRemoteEngine(comm communication.Communicator, a agent.Agent, starting game.Player, difficulty int) *RemoteEngine {
	if !starting.Valid() {
		panic(fmt.Sprintf("invalid starting player %d", starting))
	}
	return &RemoteEngine{comm: comm, agent: a, starting: starting, difficulty: difficulty}
}

func (e *RemoteEngine) Run() (metrics.GameMetric, []metrics.MoveMetric, error) {
	ctx := context.Background()
	startTime := time.Now()

	state, err := e.comm.NewGame(ctx, communication.NewGameRequest{
		StartingPlayer: int(e.starting),
		Mode:           HumanVsComputer.String(),
		Difficulty:     e.difficulty,
	})
	if err != nil {
		return metrics.GameMetric{}, nil, fmt.Errorf("failed to create game: %w", err)
	}
	defer func() {
		if err := e.comm.DeleteGame(ctx, state.ID); err != nil {
			log.Warn().Msgf("failed to delete game %s: %v", state.ID, err)
		}
	}()
	log.Debug().Msgf("playing remote game %s, player %d is starting", state.ID, state.Mover)

	var moveMetrics []metrics.MoveMetric
	for !state.Terminal {
		var resp communication.MoveResponse
		if game.Player(state.Mover) == Computer {
			resp, err = e.comm.PlayAI(ctx, state.ID)
		} else {
			resp, err = e.playAgent(ctx, state)
		}
		if err != nil {
			return metrics.GameMetric{}, moveMetrics, err
		}

		metric := metrics.MoveMetric{Step: len(moveMetrics) + 1, Player: resp.Player, Move: resp.Move}
		if resp.Score != nil {
			metric.Score = *resp.Score
		}
		moveMetrics = append(moveMetrics, metric)
		state = resp.State
	}

	endTime := time.Now()
	return metrics.GameMetric{
		StartingPlayer: int(e.starting),
		Winner:         state.Winner,
		Outcome:        state.Outcome,
		StartTime:      startTime,
		EndTime:        endTime,
		Duration:       endTime.Sub(startTime),
		TotalMoves:     len(moveMetrics),
	}, moveMetrics, nil
}

func (e *RemoteEngine) playAgent(ctx context.Context, state communication.GameState) (communication.MoveResponse, error) {
	board, err := communication.DecodeBoard(state.Board)
	if err != nil {
		return communication.MoveResponse{}, fmt.Errorf("failed to decode board of game %s: %w", state.ID, err)
	}
	decision, err := e.agent.ChooseMove(board, game.Player(state.Mover), len(state.Moves))
	if err != nil {
		return communication.MoveResponse{}, fmt.Errorf("agent failed to choose a move: %w", err)
	}
	return e.comm.SubmitMove(ctx, state.ID, decision.Move.Token())
}
