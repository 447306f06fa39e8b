// internal/player/player.go
//
// Reference agent: turns an arbiter request into a prompt, asks the model,
// and answers with one normalized guess.
// Responsibilities:
//   - Prompt: game-show persona, rules, feedback legend, own history, the
//     arbiter's message and the mandatory "GUESS: WORD" line.
//   - Model call bounded by a timeout; any failure becomes a local fallback
//     sentence naming a common word so the reply still parses.
//   - Normalization with the arbiter's cascade; an unparsable reply is
//     answered with the RETRY sentinel and a format reminder.

package player

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-arena/internal/agent"
	"github.com/robalobadob/wordle-arena/internal/game"
	"github.com/robalobadob/wordle-arena/internal/llm"
	"github.com/robalobadob/wordle-arena/internal/normalize"
)

// DefaultModelTimeout bounds a single model call.
const DefaultModelTimeout = 45 * time.Second

// CommonWords seed the local fallback reply when the model is unavailable.
var CommonWords = []game.Word{
	"AUDIO", "CRANE", "SLATE", "ROAST", "PLANT", "BEAST", "HEART",
	"SMART", "LIGHT", "NIGHT", "SIGHT", "FIGHT", "RIGHT", "MIGHT",
	"ABOUT", "HOUSE", "MOUSE", "HORSE", "NURSE", "PURSE", "CURSE",
	"BREAD", "DREAM", "STEAM", "CREAM", "CLEAN", "CLEAR", "LEARN",
}

// Player answers guess requests for one seat.
type Player struct {
	label      string
	gen        llm.Generator
	normalizer *normalize.Normalizer
	timeout    time.Duration
	pick       func(n int) int
}

// Option customizes a Player.
type Option func(*Player)

// WithTimeout bounds each model call.
func WithTimeout(d time.Duration) Option {
	return func(p *Player) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithNormalizer replaces the default extraction cascade.
func WithNormalizer(n *normalize.Normalizer) Option { return func(p *Player) { p.normalizer = n } }

// New constructs a player. gen may be nil, in which case every reply is the
// local fallback.
func New(label string, gen llm.Generator, opts ...Option) *Player {
	if label == "" {
		label = game.SeatOne.Label()
	}
	p := &Player{
		label:      label,
		gen:        gen,
		normalizer: normalize.Default(),
		timeout:    DefaultModelTimeout,
		pick:       rand.IntN,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Label is the seat name used in prompts and health output.
func (p *Player) Label() string { return p.label }

// Prompt renders the model prompt for req.
func (p *Player) Prompt(req agent.Request) string {
	turn := req.TurnNumber
	if turn <= 0 {
		turn = 1
	}
	maxTurns := req.MaxTurns
	if maxTurns <= 0 {
		maxTurns = game.DefaultMaxTurns
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are %s, a contestant in a high-stakes Wordle game show. ", p.label)
	b.WriteString("Be conversational, explain your thought process, and feel free to show some personality! You are competing against another AI.\n\n")
	b.WriteString("Game Rules:\n")
	fmt.Fprintf(&b, "- You have %d attempts to guess the correct word\n", maxTurns)
	fmt.Fprintf(&b, "- This is attempt %d of %d\n", turn, maxTurns)
	b.WriteString("- After each guess, you receive feedback:\n")
	fmt.Fprintf(&b, "  - %s: Letter is correct and in the right position\n", game.MarkHit.Glyph())
	fmt.Fprintf(&b, "  - %s: Letter is in the word but in the wrong position\n", game.MarkPresent.Glyph())
	fmt.Fprintf(&b, "  - %s: Letter is not in the word at all\n\n", game.MarkMiss.Glyph())

	switch {
	case len(req.History) > 0:
		b.WriteString("Your previous guesses and feedback:\n")
		for i, rec := range req.History {
			fmt.Fprintf(&b, "Guess %d: %s -> Feedback: %s\n", i+1, rec.Guess, rec.Feedback)
		}
		b.WriteString("\n")
	case turn == 1:
		b.WriteString("This is your first turn. Make a strong opening guess to gather information about vowels and common consonants.\n\n")
	}

	if req.Message != "" {
		fmt.Fprintf(&b, "Game Message: %s\n\n", req.Message)
	}

	fmt.Fprintf(&b, "Now, as %s, it's your time to shine! Analyze the board, explain your strategy, and then make your guess.\n\n", p.label)
	b.WriteString("**CRITICAL RULE: Your guess MUST be a single, valid, 5-letter English word.**\n\n")
	b.WriteString("Provide your reasoning, then on a separate line, submit your guess using the exact format `GUESS: YOURWORD`.\n")
	b.WriteString("This is the only way your guess will be registered.\n\n")
	b.WriteString("Example:\n")
	b.WriteString("Okay, the board is wide open. I need a word with common vowels to get the most information.\n")
	b.WriteString("GUESS: AUDIO")
	return b.String()
}

// Guess produces the reply for one arbiter request. It never fails: model
// faults become a fallback sentence and unparsable text becomes RETRY.
func (p *Player) Guess(ctx context.Context, req agent.Request) agent.Response {
	logger := log.With().Str("agent", p.label).Int("turn", req.TurnNumber).Logger()
	logger.Info().Msg("generating guess")

	raw := p.generate(ctx, p.Prompt(req))
	parsed := p.normalizer.Normalize(raw)

	switch parsed.Kind {
	case normalize.Resolved:
		logger.Info().Str("guess", string(parsed.Word)).Str("method", string(parsed.Method)).Msg("guess ready")
		return agent.Response{
			WordGuess:     string(parsed.Word),
			Comments:      raw,
			RawResponse:   raw,
			ParsingMethod: string(parsed.Method),
		}
	case normalize.NeedsRetry:
		logger.Warn().Str("raw", raw).Msg("could not extract a word")
		return agent.Response{
			WordGuess:     normalize.RetrySentinel,
			Comments:      parsed.Note,
			RawResponse:   raw,
			ParsingMethod: string(parsed.Method),
		}
	default:
		w := p.commonWord()
		logger.Error().Str("note", parsed.Note).Str("fallback", string(w)).Msg("extraction failed")
		return agent.Response{
			WordGuess:     string(w),
			Comments:      fmt.Sprintf("Error processing response, using fallback guess %s.", w),
			RawResponse:   raw,
			ParsingMethod: string(normalize.MethodError),
		}
	}
}

// generate calls the model, substituting a fallback sentence on any failure.
func (p *Player) generate(ctx context.Context, prompt string) string {
	if p.gen == nil {
		return p.fallbackReply()
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	out, err := p.gen.Generate(ctx, prompt)
	if err != nil {
		log.Error().Err(err).Str("agent", p.label).Msg("model call failed")
		return p.fallbackReply()
	}
	if strings.TrimSpace(out) == "" {
		log.Warn().Str("agent", p.label).Msg("model returned empty reply")
		return p.fallbackReply()
	}
	log.Debug().Str("agent", p.label).Str("raw", out).Msg("model reply")
	return out
}

func (p *Player) fallbackReply() string {
	return fmt.Sprintf("I guess %s. Using fallback strategy as my AI system is having issues.", p.commonWord())
}

func (p *Player) commonWord() game.Word {
	return CommonWords[p.pick(len(CommonWords))]
}
