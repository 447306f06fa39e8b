// internal/game/types.go
//
// Core type definitions for the arena game engine.
// Defines:
//   - Word: a 5-letter uppercase token.
//   - Mark / Pattern: per-letter result of a guess (hit/present/miss).
//   - TurnRecord: one scored guess in an agent's history.
//   - Phase / Winner / Seat: match lifecycle and outcome enums.

package game

import (
	"encoding/json"
	"fmt"
	"strings"
)

// WordLen is the fixed length of every word in the game.
const WordLen = 5

// Word is a 5-character uppercase alphabetic token.
type Word string

// ParseWord trims and uppercases s and reports whether it is a valid Word.
func ParseWord(s string) (Word, bool) {
	w := strings.ToUpper(strings.TrimSpace(s))
	if len(w) != WordLen || !isAlpha(w) {
		return "", false
	}
	return Word(w), true
}

// Valid reports whether w satisfies the Word invariant.
func (w Word) Valid() bool {
	return len(w) == WordLen && isAlpha(string(w))
}

// Mark represents the evaluation result for a single letter in a guess.
//   - "hit":     letter is correct and in the correct position.
//   - "present": letter exists in the secret but in a different position.
//   - "miss":    letter does not exist in the secret (or its copies are used up).
type Mark string

const (
	MarkHit     Mark = "hit"
	MarkPresent Mark = "present"
	MarkMiss    Mark = "miss"
)

// Glyphs used when a Pattern is serialized for transport.
const (
	GlyphHit     = "🟩"
	GlyphPresent = "🟨"
	GlyphMiss    = "⬜"
)

// Glyph returns the transport glyph for m.
func (m Mark) Glyph() string {
	switch m {
	case MarkHit:
		return GlyphHit
	case MarkPresent:
		return GlyphPresent
	default:
		return GlyphMiss
	}
}

// Pattern is the ordered feedback for one guess, aligned to guess positions.
type Pattern [WordLen]Mark

// MissPattern returns the all-miss pattern.
func MissPattern() Pattern {
	var p Pattern
	for i := range p {
		p[i] = MarkMiss
	}
	return p
}

// Solved reports whether every mark is a hit.
func (p Pattern) Solved() bool {
	for _, m := range p {
		if m != MarkHit {
			return false
		}
	}
	return true
}

// String renders the pattern as five glyphs, e.g. "🟨🟩🟨⬜⬜".
func (p Pattern) String() string {
	var b strings.Builder
	for _, m := range p {
		b.WriteString(m.Glyph())
	}
	return b.String()
}

// ParsePattern decodes a glyph string produced by Pattern.String.
func ParsePattern(s string) (Pattern, error) {
	var p Pattern
	i := 0
	for _, r := range s {
		if i >= WordLen {
			return Pattern{}, fmt.Errorf("pattern %q: too many marks", s)
		}
		switch string(r) {
		case GlyphHit:
			p[i] = MarkHit
		case GlyphPresent:
			p[i] = MarkPresent
		case GlyphMiss:
			p[i] = MarkMiss
		default:
			return Pattern{}, fmt.Errorf("pattern %q: unknown glyph %q", s, r)
		}
		i++
	}
	if i != WordLen {
		return Pattern{}, fmt.Errorf("pattern %q: want %d marks, got %d", s, WordLen, i)
	}
	return p, nil
}

func (p Pattern) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Pattern) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParsePattern(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// TurnRecord is one scored guess. Immutable once appended to a history.
type TurnRecord struct {
	Guess    Word    `json:"guess"`
	Feedback Pattern `json:"feedback"`
}

// Phase is the match lifecycle state.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseInProgress Phase = "in_progress"
	PhaseFinished   Phase = "finished"
)

// Winner is the outcome of a finished match. The zero value means undecided.
type Winner string

const (
	WinnerUndecided Winner = ""
	WinnerAgentOne  Winner = "Player 1"
	WinnerAgentTwo  Winner = "Player 2"
	WinnerTie       Winner = "Tie"
	WinnerNone      Winner = "No winner"
)

// Seat identifies one of the two competing agents.
type Seat int

const (
	SeatOne Seat = iota + 1
	SeatTwo
)

// Label is the display name used in notifications.
func (s Seat) Label() string {
	switch s {
	case SeatOne:
		return "Player 1"
	case SeatTwo:
		return "Player 2"
	default:
		return fmt.Sprintf("Seat %d", int(s))
	}
}

// Winner maps a seat to its single-winner outcome.
func (s Seat) Winner() Winner {
	if s == SeatTwo {
		return WinnerAgentTwo
	}
	return WinnerAgentOne
}

// isAlpha reports whether s consists only of uppercase A–Z.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
