// Package normalize recovers a canonical 5-letter answer from an agent's
// free-form reply.
//
// A Normalizer runs an ordered cascade of Extractors; the first one that
// finds a syntactically valid word wins. When none does, the result asks the
// caller to retry. A panic inside an extractor is contained and reported as
// an Errored result instead of escaping.
package normalize

import (
	"fmt"

	"github.com/robalobadob/wordle-arena/internal/game"
)

// RetrySentinel is the reserved word_guess value an agent sends when it
// could not parse its own output. It is never accepted as an answer.
const RetrySentinel = "RETRY"

// Method tags which strategy resolved an answer.
type Method string

const (
	MethodTagged   Method = "GUESS: format"
	MethodJSON     Method = "JSON format"
	MethodRetry    Method = "RETRY - no valid format found"
	MethodError    Method = "ERROR - fallback used"
	MethodFallback Method = "FALLBACK - retries exhausted"
)

// Kind discriminates a ParsedAnswer.
type Kind int

const (
	Resolved Kind = iota
	NeedsRetry
	Errored
)

func (k Kind) String() string {
	switch k {
	case Resolved:
		return "resolved"
	case NeedsRetry:
		return "needs_retry"
	case Errored:
		return "errored"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParsedAnswer is the outcome of one normalization attempt.
// Word and Method are set only when Kind == Resolved. RawText is always the
// unmodified input.
type ParsedAnswer struct {
	Kind    Kind
	Word    game.Word
	Method  Method
	RawText string
	Note    string
}

// Extractor is one strategy in the cascade.
type Extractor interface {
	// Method names the strategy in results.
	Method() Method
	// Extract returns a valid word found in text, if any.
	Extract(text string) (game.Word, bool)
}

// Normalizer applies extractors in priority order.
type Normalizer struct {
	extractors []Extractor
}

// New builds a normalizer over extractors, tried in the given order.
func New(extractors ...Extractor) *Normalizer {
	return &Normalizer{extractors: extractors}
}

// Default returns the standard cascade: tagged form, embedded JSON, then
// natural-language phrasings.
func Default() *Normalizer {
	ex := []Extractor{Tagged{}, EmbeddedJSON{}}
	ex = append(ex, DefaultPhrases()...)
	return New(ex...)
}

// Normalize never panics and never returns an error; failures are encoded
// in the result Kind.
func (n *Normalizer) Normalize(raw string) (out ParsedAnswer) {
	defer func() {
		if r := recover(); r != nil {
			out = ParsedAnswer{
				Kind:    Errored,
				Method:  MethodError,
				RawText: raw,
				Note:    fmt.Sprintf("error processing response: %v", r),
			}
		}
	}()

	for _, ex := range n.extractors {
		if w, ok := ex.Extract(raw); ok {
			return ParsedAnswer{Kind: Resolved, Word: w, Method: ex.Method(), RawText: raw}
		}
	}
	return ParsedAnswer{
		Kind:    NeedsRetry,
		Method:  MethodRetry,
		RawText: raw,
		Note:    fmt.Sprintf("Please use the format 'GUESS: YOURWORD'. Your response: %s", excerpt(raw, 100)),
	}
}

// accept validates a candidate token and rejects the retry sentinel.
func accept(s string) (game.Word, bool) {
	w, ok := game.ParseWord(s)
	if !ok || w == RetrySentinel {
		return "", false
	}
	return w, true
}

func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
