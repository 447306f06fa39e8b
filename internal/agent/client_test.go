package agent

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle-arena/internal/game"
	"github.com/robalobadob/wordle-arena/internal/normalize"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

type countingRecorder struct {
	mu        sync.Mutex
	attempts  map[string]int
	fallbacks map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{attempts: map[string]int{}, fallbacks: map[string]int{}}
}

func (r *countingRecorder) Attempt(_, result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts[result]++
}

func (r *countingRecorder) Fallback(_, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallbacks[reason]++
}

// agentServer replies with the i-th responder for the i-th call.
func agentServer(t *testing.T, reqs *[]Request, responders ...func(w http.ResponseWriter)) *httptest.Server {
	t.Helper()
	var mu sync.Mutex
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		mu.Lock()
		*reqs = append(*reqs, req)
		i := calls
		calls++
		mu.Unlock()
		if i >= len(responders) {
			i = len(responders) - 1
		}
		responders[i](w)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func replyJSON(resp Response) func(http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func TestRequestGuessResolved(t *testing.T) {
	var reqs []Request
	srv := agentServer(t, &reqs, replyJSON(Response{
		WordGuess:     "SLATE",
		Comments:      "going with slate",
		RawResponse:   "thinking...\nGUESS: SLATE",
		ParsingMethod: "GUESS: format",
	}))

	history := []game.TurnRecord{{Guess: "CRANE", Feedback: game.Evaluate("CRANE", "SLATE")}}
	out := New().RequestGuess(context.Background(), srv.URL, "Player 1", 2, 6, history)

	require.Equal(t, game.Word("SLATE"), out.Word)
	require.Equal(t, "going with slate", out.Notes)
	require.Equal(t, "thinking...\nGUESS: SLATE", out.RawText)
	require.Equal(t, "GUESS: format", out.Method)
	require.False(t, out.Fallback)
	require.Equal(t, 1, out.Attempts)

	require.Len(t, reqs, 1)
	require.Equal(t, 2, reqs[0].TurnNumber)
	require.Equal(t, 6, reqs[0].MaxTurns)
	require.Equal(t, history, reqs[0].History)
	require.NotContains(t, reqs[0].Message, "RETRY")
}

func TestRequestGuessNormalizesRawText(t *testing.T) {
	var reqs []Request
	srv := agentServer(t, &reqs, replyJSON(Response{
		WordGuess:   "",
		RawResponse: "I like crane.\nGUESS: PLANT",
	}))

	out := New().RequestGuess(context.Background(), srv.URL, "Player 2", 1, 6, nil)
	require.Equal(t, game.Word("PLANT"), out.Word)
	require.Equal(t, string(normalize.MethodTagged), out.Method)
}

func TestRequestGuessPlainTextReply(t *testing.T) {
	var reqs []Request
	srv := agentServer(t, &reqs, func(w http.ResponseWriter) {
		_, _ = io.WriteString(w, "honestly, my guess is ROAST")
	})

	out := New().RequestGuess(context.Background(), srv.URL, "Player 1", 1, 6, nil)
	require.Equal(t, game.Word("ROAST"), out.Word)
	require.Equal(t, "Pattern 1", out.Method)
}

func TestRequestGuessRetriesThenResolves(t *testing.T) {
	var reqs []Request
	srv := agentServer(t, &reqs,
		replyJSON(Response{WordGuess: normalize.RetrySentinel, RawResponse: "hmm"}),
		replyJSON(Response{WordGuess: "HEART", Comments: "ok fine"}),
	)
	rec := newCountingRecorder()

	out := New(WithRecorder(rec)).RequestGuess(context.Background(), srv.URL, "Player 1", 3, 6, nil)
	require.Equal(t, game.Word("HEART"), out.Word)
	require.Equal(t, 2, out.Attempts)
	require.Contains(t, out.Notes, "resolved after 1 retries")

	require.Len(t, reqs, 2)
	require.Equal(t, 3, reqs[1].TurnNumber)
	require.Contains(t, reqs[1].Message, "[RETRY 1/2]")
	require.Equal(t, 1, rec.attempts[ResultRetry])
	require.Equal(t, 1, rec.attempts[ResultResolved])
}

func TestRequestGuessFallbackAfterRetries(t *testing.T) {
	var reqs []Request
	srv := agentServer(t, &reqs, replyJSON(Response{WordGuess: "RETRY", RawResponse: "no idea"}))
	rec := newCountingRecorder()

	out := New(WithRecorder(rec)).RequestGuess(context.Background(), srv.URL, "Player 1", 1, 6, nil)

	require.Len(t, reqs, 3)
	require.Contains(t, FallbackWords, out.Word)
	require.True(t, out.Fallback)
	require.Contains(t, out.Notes, "fallback")
	require.Equal(t, 3, out.Attempts)
	require.Equal(t, 3, rec.attempts[ResultRetry])
	require.Equal(t, 1, rec.fallbacks["retries_exhausted"])
}

func TestRequestGuessUnparsableRawNeedsRetry(t *testing.T) {
	var reqs []Request
	srv := agentServer(t, &reqs, replyJSON(Response{RawResponse: "I am not sure what to do"}))

	out := New(WithMaxRetries(1)).RequestGuess(context.Background(), srv.URL, "Player 2", 2, 6, nil)
	require.Len(t, reqs, 2)
	require.True(t, out.Fallback)
	require.Equal(t, FallbackWords[1], out.Word)
	require.Equal(t, "I am not sure what to do", out.RawText)
}

func TestRequestGuessBadStatus(t *testing.T) {
	var reqs []Request
	srv := agentServer(t, &reqs,
		func(w http.ResponseWriter) { w.WriteHeader(http.StatusInternalServerError) },
		replyJSON(Response{WordGuess: "LIGHT"}),
	)
	rec := newCountingRecorder()

	out := New(WithRecorder(rec)).RequestGuess(context.Background(), srv.URL, "Player 1", 1, 6, nil)
	require.Equal(t, game.Word("LIGHT"), out.Word)
	require.Equal(t, 1, rec.attempts[ResultBadStatus])
}

func TestRequestGuessTransportFault(t *testing.T) {
	var calls atomic.Int32
	hc := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		calls.Add(1)
		return nil, errors.New("connection refused")
	})}

	out := New(WithHTTPClient(hc)).RequestGuess(context.Background(), "http://agent.invalid/get_guess", "Player 1", 1, 6, nil)
	require.EqualValues(t, 3, calls.Load())
	require.True(t, out.Fallback)
	require.Contains(t, out.Notes, "unreachable")
	require.Equal(t, string(normalize.MethodFallback), out.Method)
}

func TestRequestGuessTimeoutCountsAsFault(t *testing.T) {
	hc := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		<-r.Context().Done()
		return nil, r.Context().Err()
	})}

	start := time.Now()
	out := New(WithHTTPClient(hc), WithTimeout(20*time.Millisecond)).
		RequestGuess(context.Background(), "http://agent.invalid/get_guess", "Player 2", 1, 6, nil)
	require.True(t, out.Fallback)
	require.Equal(t, 3, out.Attempts)
	require.Less(t, time.Since(start), 5*time.Second)
}

func TestRequestGuessCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	hc := &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		calls.Add(1)
		return nil, errors.New("unreachable")
	})}
	out := New(WithHTTPClient(hc)).RequestGuess(ctx, "http://agent.invalid", "Player 1", 1, 6, nil)
	require.Zero(t, calls.Load())
	require.True(t, out.Fallback)
}

func TestRequestGuessErroredNormalization(t *testing.T) {
	var reqs []Request
	srv := agentServer(t, &reqs, replyJSON(Response{RawResponse: "GUESS: SLATE"}))

	n := normalize.New(exploding{})
	out := New(WithNormalizer(n)).RequestGuess(context.Background(), srv.URL, "Player 1", 1, 6, nil)
	require.Len(t, reqs, 1)
	require.True(t, out.Fallback)
	require.Equal(t, string(normalize.MethodError), out.Method)
	require.True(t, strings.HasPrefix(out.Notes, "Error processing response"))
}

type exploding struct{}

func (exploding) Method() normalize.Method         { return "exploding" }
func (exploding) Extract(string) (game.Word, bool) { panic("decoder blew up") }
