// internal/normalize/extractors.go
//
// Extraction strategies, in the order Default() tries them:
//   - Tagged: the instructed "GUESS: WORD" line.
//   - EmbeddedJSON: a {"word_guess": ...} object anywhere in the text.
//   - Phrase: natural-language phrasings ("my guess is ...", "... is my pick").
//
// Every candidate goes through accept, so the RETRY sentinel never resolves.

package normalize

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/robalobadob/wordle-arena/internal/game"
)

var taggedRe = regexp.MustCompile(`(?i)\bGUESS\s*:\s*([a-z]{5})\b`)

// Tagged matches the instructed "GUESS: WORD" line. First occurrence wins.
type Tagged struct{}

func (Tagged) Method() Method { return MethodTagged }

func (Tagged) Extract(text string) (game.Word, bool) {
	for _, m := range taggedRe.FindAllStringSubmatch(text, -1) {
		if w, ok := accept(m[1]); ok {
			return w, true
		}
	}
	return "", false
}

// EmbeddedJSON looks for an object fragment carrying a word_guess field.
// Each '{' starts a candidate decode; fragments that are not valid JSON are
// skipped and the scan moves on to the next brace.
type EmbeddedJSON struct{}

func (EmbeddedJSON) Method() Method { return MethodJSON }

func (EmbeddedJSON) Extract(text string) (game.Word, bool) {
	for i := strings.IndexByte(text, '{'); i >= 0; {
		if w, ok := decodeGuess(text[i:]); ok {
			return w, true
		}
		next := strings.IndexByte(text[i+1:], '{')
		if next < 0 {
			break
		}
		i += next + 1
	}
	return "", false
}

// decodeGuess decodes the first JSON value of s, ignoring whatever follows.
func decodeGuess(s string) (game.Word, bool) {
	var payload struct {
		WordGuess any `json:"word_guess"`
	}
	if err := json.NewDecoder(strings.NewReader(s)).Decode(&payload); err != nil {
		return "", false
	}
	g, ok := payload.WordGuess.(string)
	if !ok {
		return "", false
	}
	return accept(g)
}

// Phrase matches one natural-language pattern whose first group is the word.
type Phrase struct {
	Name string
	Re   *regexp.Regexp
}

func (p Phrase) Method() Method { return Method(p.Name) }

func (p Phrase) Extract(text string) (game.Word, bool) {
	for _, m := range p.Re.FindAllStringSubmatch(text, -1) {
		if w, ok := accept(m[1]); ok {
			return w, true
		}
	}
	return "", false
}

var phrasePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:i guess|my guess(?: is)?|i choose|i pick|i think|i'll try|i'll guess|i will guess)\s*:?\s*([a-z]{5})\b`),
	regexp.MustCompile(`(?i)\b([a-z]{5})\s+is my (?:guess|choice|pick)\b`),
	regexp.MustCompile(`(?i)\b(?:word|answer)\s*:?\s*([a-z]{5})\b`),
}

// DefaultPhrases returns the fallback phrasings in priority order,
// named "Pattern 1".."Pattern N".
func DefaultPhrases() []Extractor {
	out := make([]Extractor, len(phrasePatterns))
	for i, re := range phrasePatterns {
		out[i] = Phrase{Name: fmt.Sprintf("Pattern %d", i+1), Re: re}
	}
	return out
}
