package player

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle-arena/internal/agent"
	"github.com/robalobadob/wordle-arena/internal/game"
	"github.com/robalobadob/wordle-arena/internal/llm"
	"github.com/robalobadob/wordle-arena/internal/normalize"
)

func reply(text string, err error) llm.Generator {
	return llm.GeneratorFunc(func(context.Context, string) (string, error) { return text, err })
}

func fixedPick(p *Player) { p.pick = func(int) int { return 1 } } // CRANE

func TestPrompt(t *testing.T) {
	p := New("Player 2", nil)

	first := p.Prompt(agent.Request{TurnNumber: 1, MaxTurns: 6})
	require.Contains(t, first, "You are Player 2")
	require.Contains(t, first, "This is attempt 1 of 6")
	require.Contains(t, first, "This is your first turn.")
	require.Contains(t, first, "🟩: Letter is correct")
	require.True(t, strings.HasSuffix(first, "GUESS: AUDIO"))

	hit := game.Pattern{game.MarkHit, game.MarkMiss, game.MarkPresent, game.MarkMiss, game.MarkMiss}
	later := p.Prompt(agent.Request{
		TurnNumber: 2,
		MaxTurns:   6,
		History:    []game.TurnRecord{{Guess: "CRANE", Feedback: hit}},
		Message:    "Please use the format 'GUESS: YOURWORD'.",
	})
	require.Contains(t, later, "Guess 1: CRANE -> Feedback: 🟩⬜🟨⬜⬜")
	require.Contains(t, later, "Game Message: Please use the format")
	require.NotContains(t, later, "This is your first turn.")
}

func TestGuess(t *testing.T) {
	ctx := context.Background()
	req := agent.Request{TurnNumber: 1, MaxTurns: 6}

	t.Run("tagged", func(t *testing.T) {
		out := New("Player 1", reply("Vowels first!\nGUESS: audio", nil)).Guess(ctx, req)
		require.Equal(t, "AUDIO", out.WordGuess)
		require.Equal(t, string(normalize.MethodTagged), out.ParsingMethod)
		require.Equal(t, out.RawResponse, out.Comments)
	})

	t.Run("retry sentinel", func(t *testing.T) {
		out := New("Player 1", reply("I am thinking very hard about this one.", nil)).Guess(ctx, req)
		require.Equal(t, normalize.RetrySentinel, out.WordGuess)
		require.Equal(t, string(normalize.MethodRetry), out.ParsingMethod)
		require.Contains(t, out.Comments, "GUESS: YOURWORD")
	})

	t.Run("model failure uses fallback sentence", func(t *testing.T) {
		p := New("Player 1", reply("", errors.New("connection refused")))
		fixedPick(p)
		out := p.Guess(ctx, req)
		require.Equal(t, "CRANE", out.WordGuess)
		require.Equal(t, "Pattern 1", out.ParsingMethod)
		require.Contains(t, out.RawResponse, "fallback strategy")
	})

	t.Run("nil generator", func(t *testing.T) {
		p := New("Player 1", nil)
		out := p.Guess(ctx, req)
		w, ok := game.ParseWord(out.WordGuess)
		require.True(t, ok)
		require.Contains(t, CommonWords, w)
	})

	t.Run("extraction panic", func(t *testing.T) {
		p := New("Player 1", reply("GUESS: CRANE", nil), WithNormalizer(normalize.New(exploding{})))
		fixedPick(p)
		out := p.Guess(ctx, req)
		require.Equal(t, "CRANE", out.WordGuess)
		require.Equal(t, string(normalize.MethodError), out.ParsingMethod)
	})

	t.Run("model timeout", func(t *testing.T) {
		slow := llm.GeneratorFunc(func(ctx context.Context, _ string) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		})
		p := New("Player 1", slow, WithTimeout(20*time.Millisecond))
		fixedPick(p)
		out := p.Guess(ctx, req)
		require.Equal(t, "CRANE", out.WordGuess)
	})
}

func TestRouter(t *testing.T) {
	p := New("Player 1", reply("Let's go. GUESS: SLATE", nil))
	srv := httptest.NewServer(p.Router())
	t.Cleanup(srv.Close)

	res, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	var health map[string]string
	require.NoError(t, json.NewDecoder(res.Body).Decode(&health))
	res.Body.Close()
	require.Equal(t, "healthy", health["status"])
	require.Equal(t, "Player 1", health["player"])

	body := `{"turn_number":1,"max_turns":6,"history":[],"player_message":""}`
	res, err = http.Post(srv.URL+"/get_guess", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var out agent.Response
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	res.Body.Close()
	require.Equal(t, "SLATE", out.WordGuess)

	res, err = http.Post(srv.URL+"/get_guess", "application/json", strings.NewReader("not json"))
	require.NoError(t, err)
	res.Body.Close()
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
}

// The reference player speaks the same wire format the arbiter's client
// expects.
func TestClientRoundTrip(t *testing.T) {
	p := New("Player 1", reply("My guess is plant", nil))
	srv := httptest.NewServer(p.Router())
	t.Cleanup(srv.Close)

	out := agent.New().RequestGuess(context.Background(), srv.URL+"/get_guess", "Player 1", 1, 6, nil)
	require.False(t, out.Fallback)
	require.Equal(t, game.Word("PLANT"), out.Word)
	require.Equal(t, "Pattern 1", out.Method)
}

type exploding struct{}

func (exploding) Method() normalize.Method         { return "exploding" }
func (exploding) Extract(string) (game.Word, bool) { panic("boom") }
