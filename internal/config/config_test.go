package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestArenaDefaults(t *testing.T) {
	var cfg Arena
	require.NoError(t, ParseEnv(&cfg))
	require.Equal(t, "5000", cfg.Port)
	require.Equal(t, "http://localhost:5001/get_guess", cfg.AgentOneURL)
	require.Equal(t, "http://localhost:5002/get_guess", cfg.AgentTwoURL)
	require.Equal(t, 120*time.Second, cfg.AgentTimeout)
	require.Equal(t, 2, cfg.AgentRetries)
	require.Equal(t, 6, cfg.MaxTurns)
	require.Equal(t, 2*time.Second, cfg.TurnPause)
	require.Equal(t, "file:arena?mode=memory&cache=shared", cfg.ArchiveDSN)
	require.Empty(t, cfg.WordsFile)
}

func TestArenaOverrides(t *testing.T) {
	t.Setenv("AGENT_TIMEOUT", "5s")
	t.Setenv("MAX_TURNS", "3")
	t.Setenv("AGENT_ONE_URL", "http://one:9000/get_guess")

	var cfg Arena
	require.NoError(t, ParseEnv(&cfg))
	require.Equal(t, 5*time.Second, cfg.AgentTimeout)
	require.Equal(t, 3, cfg.MaxTurns)
	require.Equal(t, "http://one:9000/get_guess", cfg.AgentOneURL)
}

func TestParseEnvError(t *testing.T) {
	t.Setenv("MAX_TURNS", "six")
	var cfg Arena
	err := ParseEnv(&cfg)
	require.Error(t, err)
	require.Contains(t, err.Error(), "parse env:")
}

func TestPlayerDefaults(t *testing.T) {
	var cfg Player
	require.NoError(t, ParseEnv(&cfg))
	require.Equal(t, "Player 1", cfg.Label)
	require.Equal(t, "5001", cfg.Port)
	require.Equal(t, 45*time.Second, cfg.ModelTimeout)
}

func TestLoadDotenv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PLAYER_LABEL=Player 2\n"), 0o600))
	t.Setenv("PLAYER_LABEL", "")
	require.NoError(t, os.Unsetenv("PLAYER_LABEL"))

	LoadDotenv(path)
	var cfg Player
	require.NoError(t, ParseEnv(&cfg))
	require.Equal(t, "Player 2", cfg.Label)
}

func TestApplyLogLevel(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	ApplyLogLevel("debug")
	require.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	ApplyLogLevel("nonsense")
	require.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}
