package experiments

import (
	"trimatch/experiments/metrics"
)

// RunThroughputExperiment plays one level against itself at increasing goroutine counts. The move
// records show how search time and node counts scale.
func RunThroughputExperiment(opts Options, difficulty int) (Result, error) {
	goroutines := []int{1, 2, 4, 8, 16}
	configs := []metrics.AgentConfig{}
	matchUps := [][]metrics.AgentConfig{}
	for i, g := range goroutines {
		config := metrics.AgentConfig{ID: i + 1, Difficulty: difficulty, Goroutines: g, Seed: opts.Seed}
		configs = append(configs, config)
		// Same config for both players for similar game length
		matchUps = append(matchUps, []metrics.AgentConfig{config, config})
	}

	return runExperiment("throughput", opts, configs, matchUps)
}
