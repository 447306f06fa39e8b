package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfigCommand(t *testing.T) {
	t.Setenv("MAX_TURNS", "4")
	t.Setenv("PLAYER_LABEL", "Player 2")

	cmd := NewRootCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"config"})

	require.NoError(t, cmd.Execute())

	var out struct {
		Arena struct {
			MaxTurns    int
			AgentOneURL string
		} `json:"arena"`
		Player struct {
			Label string
		} `json:"player"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Equal(t, 4, out.Arena.MaxTurns)
	require.Equal(t, "http://localhost:5001/get_guess", out.Arena.AgentOneURL)
	require.Equal(t, "Player 2", out.Player.Label)
}

func TestConfigCommandBadEnv(t *testing.T) {
	t.Setenv("AGENT_TIMEOUT", "soon")

	cmd := NewRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"config"})

	err := cmd.Execute()
	require.ErrorContains(t, err, "parse env")
}

func TestCommandTree(t *testing.T) {
	cmd := NewRootCmd()
	names := map[string]bool{}
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}
	require.True(t, names["serve"])
	require.True(t, names["player"])
	require.True(t, names["config"])
}
