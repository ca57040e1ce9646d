package engine

import "trimatch/experiments/metrics"

type Engine interface {
	// Run plays one game to the end
	Run() (metrics.GameMetric, []metrics.MoveMetric, error)
}
