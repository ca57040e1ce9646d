// meta/meta.go
package meta

// DEFAULT_DIFFICULTY is the search depth a new session starts at.
const DEFAULT_DIFFICULTY = 1

// MIN_DIFFICULTY and MAX_DIFFICULTY bound the search depth. Requests outside are clamped.
const MIN_DIFFICULTY = 1
const MAX_DIFFICULTY = 10

// GO_ROUTINES defines the number of goroutines used to score root moves.
const GO_ROUTINES = 4

// GAMES defines the number of self-play games per experiment matchup.
const GAMES = 20

// ClampDifficulty maps any level into [MIN_DIFFICULTY, MAX_DIFFICULTY].
func ClampDifficulty(level int) int {
	return max(MIN_DIFFICULTY, min(level, MAX_DIFFICULTY))
}
