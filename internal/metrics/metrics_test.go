package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecorders(t *testing.T) {
	m := New()
	m.Attempt("Player 1", "resolved")
	m.Attempt("Player 1", "resolved")
	m.Fallback("Player 2", "transport")
	m.GameStarted()
	m.GameFinished("Tie")
	m.TurnCompleted(1500 * time.Millisecond)

	require.Equal(t, 2.0, testutil.ToFloat64(m.AgentAttempts.WithLabelValues("Player 1", "resolved")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Fallbacks.WithLabelValues("Player 2", "transport")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.GamesStarted))
	require.Equal(t, 1.0, testutil.ToFloat64(m.GamesFinished.WithLabelValues("Tie")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.GameStarted()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	require.Contains(t, string(body), "arena_games_started_total 1")
}
