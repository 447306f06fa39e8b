// internal/game/engine.go
//
// Core game engine for a single arena match.
// Responsibilities:
//   - Score guesses using the two-pass, duplicate-safe Wordle algorithm.
//   - Hold the per-match state (secret, turn counter, phase, histories).
//
// Notes:
//   - Evaluate is total: malformed input yields the all-miss pattern.
//   - Termination rules (win/tie/turn limit) live in the arena package;
//     State only records what it is told.
package game

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultMaxTurns is the number of turns in a standard match.
const DefaultMaxTurns = 6

// Evaluate scores guess against secret.
//
// Pass 1:
//   - Mark exact matches as Hit and consume that secret position.
//
// Pass 2:
//   - For each remaining guess letter, mark Present if an unconsumed copy
//     exists in the secret and consume the earliest such copy; otherwise Miss.
//
// A letter therefore never collects more Hit+Present marks than it has
// occurrences in the secret.
func Evaluate(guess, secret Word) Pattern {
	res := MissPattern()
	g := strings.ToUpper(string(guess))
	s := strings.ToUpper(string(secret))
	if len(g) != WordLen || len(s) != WordLen {
		return res
	}

	// Remaining secret letters, by position; 0 marks a consumed slot.
	remaining := []byte(s)

	for i := 0; i < WordLen; i++ {
		if g[i] == s[i] {
			res[i] = MarkHit
			remaining[i] = 0
		}
	}

	for i := 0; i < WordLen; i++ {
		if res[i] == MarkHit {
			continue
		}
		for j := 0; j < WordLen; j++ {
			if remaining[j] != 0 && remaining[j] == g[i] {
				res[i] = MarkPresent
				remaining[j] = 0
				break
			}
		}
	}
	return res
}

// State holds one live match. It is owned by a single orchestrator and
// is not safe for concurrent use on its own.
type State struct {
	ID         string
	Secret     Word
	Turn       int
	MaxTurns   int
	Phase      Phase
	Winner     Winner
	HistoryOne []TurnRecord
	HistoryTwo []TurnRecord
	StartedAt  time.Time
	FinishedAt time.Time
}

// New constructs a fresh in-progress match for secret.
// A non-positive maxTurns falls back to DefaultMaxTurns.
func New(secret Word, maxTurns int) *State {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	return &State{
		ID:         uuid.NewString(),
		Secret:     secret,
		MaxTurns:   maxTurns,
		Phase:      PhaseInProgress,
		HistoryOne: []TurnRecord{},
		HistoryTwo: []TurnRecord{},
		StartedAt:  time.Now().UTC(),
	}
}

// Score evaluates guess for seat, appends the TurnRecord to that seat's
// history and returns it.
func (s *State) Score(seat Seat, guess Word) TurnRecord {
	rec := TurnRecord{Guess: guess, Feedback: Evaluate(guess, s.Secret)}
	if seat == SeatTwo {
		s.HistoryTwo = append(s.HistoryTwo, rec)
	} else {
		s.HistoryOne = append(s.HistoryOne, rec)
	}
	return rec
}

// History returns a copy of seat's history.
func (s *State) History(seat Seat) []TurnRecord {
	src := s.HistoryOne
	if seat == SeatTwo {
		src = s.HistoryTwo
	}
	out := make([]TurnRecord, len(src))
	copy(out, src)
	return out
}

// Finish moves the match to its terminal phase.
func (s *State) Finish(w Winner) {
	s.Phase = PhaseFinished
	s.Winner = w
	s.FinishedAt = time.Now().UTC()
}
