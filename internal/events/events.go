// Package events defines the typed notifications emitted by the arena and
// a small fan-out broker that delivers them to subscribers.
package events

import (
	"encoding/json"

	"github.com/robalobadob/wordle-arena/internal/game"
)

// Kind names an event on the wire.
type Kind string

const (
	KindConnected    Kind = "connected"
	KindGameStarted  Kind = "game_started"
	KindTurnStatus   Kind = "turn_status"
	KindPlayerTurn   Kind = "player_turn"
	KindGameFinished Kind = "game_finished"
	KindError        Kind = "error"
)

// Event is implemented by every notification payload.
type Event interface {
	Kind() Kind
}

// Connected greets a new observer.
type Connected struct {
	Status string `json:"status"`
}

// GameStarted announces a new match. The secret word is withheld.
type GameStarted struct {
	GameID   string `json:"gameId"`
	MaxTurns int    `json:"max_turns"`
	Status   string `json:"status"`
}

// TurnStatus announces the start of a turn.
type TurnStatus struct {
	GameID   string `json:"gameId"`
	Turn     int    `json:"turn"`
	MaxTurns int    `json:"max_turns"`
	Status   string `json:"status"`
}

// PlayerTurn carries one agent's scored guess.
type PlayerTurn struct {
	GameID        string       `json:"gameId"`
	Agent         string       `json:"player"`
	Turn          int          `json:"turn"`
	Guess         game.Word    `json:"guess"`
	Feedback      game.Pattern `json:"feedback"`
	Comments      string       `json:"comments"`
	RawText       string       `json:"raw_response"`
	ParsingMethod string       `json:"parsing_method"`
}

// GameFinished reveals the secret and both histories.
type GameFinished struct {
	GameID     string            `json:"gameId"`
	Winner     game.Winner       `json:"winner"`
	SecretWord game.Word         `json:"secret_word"`
	TotalTurns int               `json:"total_turns"`
	HistoryOne []game.TurnRecord `json:"player1_history"`
	HistoryTwo []game.TurnRecord `json:"player2_history"`
}

// Failure reports an orchestration-level fault to observers.
type Failure struct {
	Message string `json:"message"`
}

func (Connected) Kind() Kind    { return KindConnected }
func (GameStarted) Kind() Kind  { return KindGameStarted }
func (TurnStatus) Kind() Kind   { return KindTurnStatus }
func (PlayerTurn) Kind() Kind   { return KindPlayerTurn }
func (GameFinished) Kind() Kind { return KindGameFinished }
func (Failure) Kind() Kind      { return KindError }

// envelope is the wire shape: {"type": "...", "data": {...}}.
type envelope struct {
	Type Kind  `json:"type"`
	Data Event `json:"data"`
}

// Marshal encodes e in its wire envelope.
func Marshal(e Event) ([]byte, error) {
	return json.Marshal(envelope{Type: e.Kind(), Data: e})
}
