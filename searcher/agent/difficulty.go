package agent

import (
	"trimatch/meta"
	"trimatch/searcher"
)

// Difficulty is the computer's lookahead in plies.
type Difficulty struct {
	level int
}

// NewDifficulty clamps level into the supported range.
func NewDifficulty(level int) Difficulty {
	return Difficulty{level: meta.ClampDifficulty(level)}
}

func (d Difficulty) Level() int {
	return d.level
}

// Config is the search depth limit for this level.
func (d Difficulty) Config() searcher.Config {
	return searcher.Config{MaxDepth: d.level}
}

// Top reports whether the level cannot go any higher.
func (d Difficulty) Top() bool {
	return d.level >= meta.MAX_DIFFICULTY
}

// Next is the level after a human win.
func (d Difficulty) Next() Difficulty {
	return NewDifficulty(d.level + 1)
}
