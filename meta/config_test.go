package meta

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClampDifficulty(t *testing.T) {
	require.Equal(t, MIN_DIFFICULTY, ClampDifficulty(-3))
	require.Equal(t, MIN_DIFFICULTY, ClampDifficulty(0))
	require.Equal(t, 7, ClampDifficulty(7))
	require.Equal(t, MAX_DIFFICULTY, ClampDifficulty(42))
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults when nothing is set", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))

		require.NoError(t, err, "A missing .env file is not an error")
		require.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("reads values from a .env file", func(t *testing.T) {
		// Registered so the variables loaded from the file are removed afterwards
		for _, key := range []string{"TRIMATCH_ADDR", "TRIMATCH_DIFFICULTY", "TRIMATCH_SEED"} {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
		file := filepath.Join(t.TempDir(), ".env")
		contents := "TRIMATCH_ADDR=:9999\nTRIMATCH_DIFFICULTY=15\nTRIMATCH_SEED=42\n"
		require.NoError(t, os.WriteFile(file, []byte(contents), 0o644))

		cfg, err := LoadConfig(file)

		require.NoError(t, err)
		require.Equal(t, ":9999", cfg.Addr)
		require.Equal(t, MAX_DIFFICULTY, cfg.Difficulty, "Difficulty should be clamped")
		require.Equal(t, uint64(42), cfg.Seed)
	})

	t.Run("environment wins over the file", func(t *testing.T) {
		t.Setenv("TRIMATCH_GOROUTINES", "2")
		file := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(file, []byte("TRIMATCH_GOROUTINES=16\n"), 0o644))

		cfg, err := LoadConfig(file)

		require.NoError(t, err)
		require.Equal(t, 2, cfg.Goroutines)
	})

	t.Run("invalid seed", func(t *testing.T) {
		t.Setenv("TRIMATCH_SEED", "abc")

		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))

		require.Error(t, err)
	})
}
