// internal/agent/client.go
//
// AgentClient: bounded-time request/response calls to one agent service.
// Responsibilities:
//   - Build the per-attempt request (turn context + message, retry hint on
//     attempts after the first).
//   - POST it with a hard timeout and normalize the reply.
//   - Retry on needs-retry replies, non-200 status and transport faults.
//   - Degrade to a fixed fallback word once attempts are exhausted.
//
// RequestGuess never fails outward; callers always receive a usable Outcome.

package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-arena/internal/game"
	"github.com/robalobadob/wordle-arena/internal/normalize"
)

const (
	DefaultTimeout    = 120 * time.Second
	DefaultMaxRetries = 2 // 3 total attempts

	baseMessage = "You are competing against another AI player. Good luck!"
	maxBodySize = 1 << 20
)

// FallbackWords is the fixed set used when an agent cannot be resolved.
var FallbackWords = []game.Word{"AUDIO", "CRANE", "SLATE", "ROAST", "PLANT"}

// ErrRetryRequested marks a reply that resolved to needs-retry.
var ErrRetryRequested = errors.New("agent: reply requires retry")

// Attempt results reported to a Recorder.
const (
	ResultResolved  = "resolved"
	ResultRetry     = "needs_retry"
	ResultErrored   = "errored"
	ResultBadStatus = "bad_status"
	ResultTransport = "transport_error"
)

// Recorder receives per-attempt and fallback signals (metrics).
type Recorder interface {
	Attempt(agent, result string)
	Fallback(agent, reason string)
}

type nopRecorder struct{}

func (nopRecorder) Attempt(string, string)  {}
func (nopRecorder) Fallback(string, string) {}

// Client calls agent services. It holds no per-game state and is safe for
// concurrent use.
type Client struct {
	http       *http.Client
	normalizer *normalize.Normalizer
	timeout    time.Duration
	maxRetries int
	fallback   []game.Word
	rec        Recorder
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (tests, custom transports).
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMaxRetries sets the number of retries after the first attempt.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithNormalizer replaces the default extraction cascade.
func WithNormalizer(n *normalize.Normalizer) Option { return func(c *Client) { c.normalizer = n } }

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(c *Client) {
		if r != nil {
			c.rec = r
		}
	}
}

// WithFallbackWords overrides the fallback set. Empty sets are ignored.
func WithFallbackWords(ws []game.Word) Option {
	return func(c *Client) {
		if len(ws) > 0 {
			c.fallback = ws
		}
	}
}

// New constructs a Client with defaults: 120s timeout, 2 retries.
func New(opts ...Option) *Client {
	c := &Client{
		http:       &http.Client{},
		normalizer: normalize.Default(),
		timeout:    DefaultTimeout,
		maxRetries: DefaultMaxRetries,
		fallback:   FallbackWords,
		rec:        nopRecorder{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// RequestGuess obtains one resolved guess from the agent at endpoint.
func (c *Client) RequestGuess(ctx context.Context, endpoint, label string, turn, maxTurns int, history []game.TurnRecord) Outcome {
	if history == nil {
		history = []game.TurnRecord{}
	}
	var (
		lastErr  error
		lastRaw  string
		attempts int
	)
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			lastErr = err
			break
		}
		attempts = attempt + 1
		req := Request{
			TurnNumber: turn,
			MaxTurns:   maxTurns,
			History:    history,
			Message:    c.message(attempt),
		}

		ans, resp, err := c.attempt(ctx, endpoint, req)
		logger := log.With().Str("agent", label).Int("turn", turn).Int("attempt", attempt+1).Logger()

		switch {
		case err != nil:
			lastErr = err
			result := ResultTransport
			if errors.Is(err, errBadStatus) {
				result = ResultBadStatus
			}
			c.rec.Attempt(label, result)
			logger.Warn().Err(err).Msg("agent call failed")

		case ans.Kind == normalize.Resolved:
			c.rec.Attempt(label, ResultResolved)
			out := Outcome{
				Word:     ans.Word,
				RawText:  ans.RawText,
				Notes:    resp.Comments,
				Method:   string(ans.Method),
				Attempts: attempt + 1,
			}
			if out.Notes == "" {
				out.Notes = ans.RawText
			}
			if attempt > 0 {
				out.Notes = fmt.Sprintf("[resolved after %d retries] %s", attempt, out.Notes)
			}
			logger.Info().Str("guess", string(out.Word)).Str("method", out.Method).Msg("agent guess resolved")
			return out

		case ans.Kind == normalize.Errored:
			c.rec.Attempt(label, ResultErrored)
			logger.Error().Str("note", ans.Note).Msg("agent reply could not be processed")
			return c.fallbackOutcome(label, turn, attempts, ans.RawText, normalize.MethodError,
				fmt.Sprintf("Error processing response (%s). Using fallback word.", ans.Note), "errored")

		default:
			c.rec.Attempt(label, ResultRetry)
			lastErr = ErrRetryRequested
			lastRaw = ans.RawText
			logger.Warn().Msg("agent reply needs retry")
		}
	}

	if errors.Is(lastErr, ErrRetryRequested) {
		log.Error().Str("agent", label).Int("turn", turn).Msg("retries exhausted, using fallback word")
		return c.fallbackOutcome(label, turn, attempts, lastRaw, normalize.MethodFallback,
			fmt.Sprintf("Failed to provide proper format after %d retries. Using fallback word.", c.maxRetries), "retries_exhausted")
	}
	log.Error().Err(lastErr).Str("agent", label).Int("turn", turn).Msg("agent unreachable, using fallback word")
	return c.fallbackOutcome(label, turn, attempts, "", normalize.MethodFallback,
		fmt.Sprintf("Agent unreachable after %d attempts (%v). Using fallback word.", attempts, lastErr), "transport")
}

func (c *Client) message(attempt int) string {
	if attempt == 0 {
		return baseMessage
	}
	return fmt.Sprintf("%s [RETRY %d/%d] Please use the format: GUESS: YOURWORD", baseMessage, attempt, c.maxRetries)
}

var errBadStatus = errors.New("agent: non-success status")

// attempt performs one bounded call and classifies the reply.
func (c *Client) attempt(ctx context.Context, endpoint string, req Request) (normalize.ParsedAnswer, Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(req)
	if err != nil {
		return normalize.ParsedAnswer{}, Response{}, fmt.Errorf("marshal request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return normalize.ParsedAnswer{}, Response{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(httpReq)
	if err != nil {
		return normalize.ParsedAnswer{}, Response{}, fmt.Errorf("send request: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return normalize.ParsedAnswer{}, Response{}, fmt.Errorf("read response: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return normalize.ParsedAnswer{}, Response{}, fmt.Errorf("%w: %d", errBadStatus, res.StatusCode)
	}

	return c.classify(body)
}

// classify turns a reply body into a ParsedAnswer.
//
// Order:
//  1. word_guess equal to the retry sentinel → needs retry, no re-normalization.
//  2. word_guess already a valid word → resolved with the agent's parsing method.
//  3. otherwise normalize raw_response (or comments, or the whole body when
//     the reply is not JSON at all).
func (c *Client) classify(body []byte) (normalize.ParsedAnswer, Response, error) {
	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		raw := string(body)
		return c.normalizer.Normalize(raw), Response{RawResponse: raw}, nil
	}

	raw := resp.RawResponse
	if raw == "" {
		raw = resp.Comments
	}
	if strings.EqualFold(strings.TrimSpace(resp.WordGuess), normalize.RetrySentinel) {
		return normalize.ParsedAnswer{
			Kind:    normalize.NeedsRetry,
			Method:  normalize.MethodRetry,
			RawText: raw,
			Note:    resp.Comments,
		}, resp, nil
	}
	if w, ok := game.ParseWord(resp.WordGuess); ok {
		method := normalize.Method(resp.ParsingMethod)
		if method == "" {
			method = "agent"
		}
		return normalize.ParsedAnswer{Kind: normalize.Resolved, Word: w, Method: method, RawText: raw}, resp, nil
	}
	if raw == "" {
		raw = resp.WordGuess
	}
	return c.normalizer.Normalize(raw), resp, nil
}

// fallbackOutcome picks a deterministic word from the fallback set by turn.
func (c *Client) fallbackOutcome(label string, turn, attempts int, raw string, method normalize.Method, note, reason string) Outcome {
	c.rec.Fallback(label, reason)
	idx := 0
	if turn > 0 {
		idx = (turn - 1) % len(c.fallback)
	}
	return Outcome{
		Word:     c.fallback[idx],
		RawText:  raw,
		Notes:    note,
		Method:   string(method),
		Attempts: attempts,
		Fallback: true,
	}
}
