// internal/store/memory.go
//
// Archive of finished matches.
//
// Characteristics:
//   - Two implementations: in-process map (this file) and SQLite (sqlite.go).
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts; the SQLite archive defaults to
//     an in-memory database for the same reason.
//   - Errors are returned for missing match IDs on Get().

package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/robalobadob/wordle-arena/internal/game"
)

// ErrNotFound is returned by Get for unknown match IDs.
var ErrNotFound = errors.New("not found")

// DefaultLimit caps Recent when the caller passes a non-positive limit.
const DefaultLimit = 20

// Match is the archived summary of a finished game.
type Match struct {
	ID         string            `json:"id"`
	SecretWord game.Word         `json:"secretWord"`
	Winner     game.Winner       `json:"winner"`
	TotalTurns int               `json:"totalTurns"`
	MaxTurns   int               `json:"maxTurns"`
	HistoryOne []game.TurnRecord `json:"player1History"`
	HistoryTwo []game.TurnRecord `json:"player2History"`
	StartedAt  time.Time         `json:"startedAt"`
	FinishedAt time.Time         `json:"finishedAt"`
}

// FromState summarizes a finished game state.
func FromState(s *game.State) Match {
	return Match{
		ID:         s.ID,
		SecretWord: s.Secret,
		Winner:     s.Winner,
		TotalTurns: s.Turn,
		MaxTurns:   s.MaxTurns,
		HistoryOne: s.History(game.SeatOne),
		HistoryTwo: s.History(game.SeatTwo),
		StartedAt:  s.StartedAt,
		FinishedAt: s.FinishedAt,
	}
}

// Archive persists finished matches.
// Implementations may be backed by memory (this file) or SQLite.
type Archive interface {
	// Save stores or replaces a match.
	Save(ctx context.Context, m Match) error

	// Get retrieves a match by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (Match, error)

	// Recent lists up to limit matches, most recently finished first.
	Recent(ctx context.Context, limit int) ([]Match, error)
}

// memory is an in-memory map-based Archive implementation.
type memory struct {
	mu      sync.RWMutex     // guards matches
	matches map[string]Match // keyed by Match.ID
}

// NewMemory constructs a new in-memory Archive.
func NewMemory() Archive {
	return &memory{matches: make(map[string]Match)}
}

func (m *memory) Save(ctx context.Context, match Match) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.matches[match.ID] = match
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if match, ok := m.matches[id]; ok {
		return match, nil
	}
	return Match{}, ErrNotFound
}

func (m *memory) Recent(ctx context.Context, limit int) ([]Match, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	m.mu.RLock()
	out := make([]Match, 0, len(m.matches))
	for _, match := range m.matches {
		out = append(out, match)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].FinishedAt.After(out[j].FinishedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
