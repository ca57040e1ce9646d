package meta

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the settings shared by every mode. Values come from the environment, optionally
// seeded from .env files, and are overridden by command-line flags in main.
type Config struct {
	Addr       string // TRIMATCH_ADDR
	Difficulty int    // TRIMATCH_DIFFICULTY
	Goroutines int    // TRIMATCH_GOROUTINES
	Seed       uint64 // TRIMATCH_SEED, 0 picks a seed from the clock
	LogLevel   string // TRIMATCH_LOG_LEVEL
	OutputDir  string // TRIMATCH_OUTPUT_DIR
	Games      int    // TRIMATCH_GAMES
}

func DefaultConfig() Config {
	return Config{
		Addr:       ":8080",
		Difficulty: DEFAULT_DIFFICULTY,
		Goroutines: GO_ROUTINES,
		LogLevel:   "info",
		OutputDir:  "results",
		Games:      GAMES,
	}
}

// LoadConfig reads .env files (default ".env") into the environment without overriding variables
// that are already set, then builds a Config. Missing files are ignored.
func LoadConfig(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	cfg := DefaultConfig()
	cfg.Addr = getenv("TRIMATCH_ADDR", cfg.Addr)
	cfg.Difficulty = ClampDifficulty(getenvInt("TRIMATCH_DIFFICULTY", cfg.Difficulty))
	cfg.Goroutines = getenvInt("TRIMATCH_GOROUTINES", cfg.Goroutines)
	cfg.LogLevel = getenv("TRIMATCH_LOG_LEVEL", cfg.LogLevel)
	cfg.OutputDir = getenv("TRIMATCH_OUTPUT_DIR", cfg.OutputDir)
	cfg.Games = getenvInt("TRIMATCH_GAMES", cfg.Games)

	if value := os.Getenv("TRIMATCH_SEED"); value != "" {
		seed, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TRIMATCH_SEED %q: %w", value, err)
		}
		cfg.Seed = seed
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
