package experiments

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"trimatch/engine"
	"trimatch/experiments/metrics"
	"trimatch/game"
	"trimatch/meta"
	"trimatch/searcher"
	"trimatch/searcher/agent"
)

// RandomDifficulty in an AgentConfig selects the random agent instead of a minimax search.
const RandomDifficulty = 0

// Options shared by every experiment.
type Options struct {
	OutputDir  string
	Games      int // Per matchup
	Goroutines int
	Seed       uint64
}

// Result of an experiment run.
type Result struct {
	Dir   string // Where the CSV files were written
	Games []metrics.GameRecord
	Moves []metrics.MoveRecord
}

// RunDifficultyExperiment pairs a random baseline agent against every difficulty level.
func RunDifficultyExperiment(opts Options) (Result, error) {
	baseline := metrics.AgentConfig{ID: 0, Difficulty: RandomDifficulty, Seed: opts.Seed}
	configs := []metrics.AgentConfig{baseline}
	matchUps := [][]metrics.AgentConfig{}
	for level := meta.MIN_DIFFICULTY; level <= meta.MAX_DIFFICULTY; level++ {
		config := metrics.AgentConfig{ID: level, Difficulty: level, Goroutines: opts.Goroutines, Seed: opts.Seed + uint64(level)}
		configs = append(configs, config)
		matchUps = append(matchUps, []metrics.AgentConfig{baseline, config})
	}

	return runExperiment("difficulty", opts, configs, matchUps)
}

func runExperiment(name string, opts Options, configs []metrics.AgentConfig, matchUps [][]metrics.AgentConfig) (Result, error) {
	count := 0
	result := Result{}

	log.Info().Msgf("starting %s experiment...", name)

	for mi, matchup := range matchUps {
		config1 := matchup[0]
		config2 := matchup[1]

		log.Info().Msgf("starting matchup %d of %d between agent1=%+v and agent2=%+v...", mi+1, len(matchUps), config1, config2)

		for i := 0; i < opts.Games; i++ {
			// Alternate who moves first
			starting := game.Player1
			if i%2 == 1 {
				starting = game.Player2
			}

			gameMetric, moveMetrics, err := runGame(config1, config2, starting, uint64(i))
			if err != nil {
				return result, fmt.Errorf("matchup %d game %d: %w", mi+1, i+1, err)
			}
			count++
			result.Games = append(result.Games, metrics.GameRecord{
				ID:         count,
				Agent1:     config1.ID,
				Agent2:     config2.ID,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				result.Moves = append(result.Moves, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}

			log.Debug().Msgf("completed matchup %d of %d game %d: %s, winner %d", mi+1, len(matchUps), i+1, gameMetric.Outcome, gameMetric.Winner)
		}
		log.Info().Msgf("completed matchup %d of %d", mi+1, len(matchUps))
	}

	log.Info().Msgf("completed %s experiment", name)

	dir, err := store(name, opts.OutputDir, configs, result)
	result.Dir = dir
	return result, err
}

func store(name, root string, configs []metrics.AgentConfig, result Result) (string, error) {
	writer, err := metrics.NewWriter(root, name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	if err := writer.WriteAgentConfigs(configs); err != nil {
		return writer.Dir(), fmt.Errorf("failed to store agent configs: %w", err)
	}
	if err := writer.WriteGameRecords(result.Games); err != nil {
		return writer.Dir(), fmt.Errorf("failed to write game records: %w", err)
	}
	if err := writer.WriteMoveRecords(result.Moves); err != nil {
		return writer.Dir(), fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msgf("stored results in %s", writer.Dir())
	return writer.Dir(), nil
}

// runGame plays config1 as player 1 against config2 as player 2.
func runGame(config1, config2 metrics.AgentConfig, starting game.Player, round uint64) (metrics.GameMetric, []metrics.MoveMetric, error) {
	e := engine.NewLocalEngine(starting, createAgent(config1, round), createAgent(config2, round))
	return e.Run()
}

func createAgent(config metrics.AgentConfig, round uint64) agent.Agent {
	if config.Difficulty == RandomDifficulty {
		return agent.NewRandomAgent(config.Seed + round)
	}
	s := searcher.NewSearcher(searcher.WithGoroutines(config.Goroutines), searcher.WithMetrics())
	return agent.NewMinimaxAgent(
		agent.WithSearcher(s),
		agent.WithDifficulty(config.Difficulty),
		agent.WithSeed(config.Seed+round),
	)
}
