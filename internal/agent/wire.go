// internal/agent/wire.go
//
// Payloads exchanged with an agent service over POST /get_guess.

package agent

import "github.com/robalobadob/wordle-arena/internal/game"

// Request is what the arbiter sends an agent each attempt.
type Request struct {
	TurnNumber int               `json:"turn_number"`
	MaxTurns   int               `json:"max_turns"`
	History    []game.TurnRecord `json:"history"`
	Message    string            `json:"player_message"`
}

// Response is what an agent answers. WordGuess may carry the retry sentinel.
type Response struct {
	WordGuess     string `json:"word_guess"`
	Comments      string `json:"comments"`
	RawResponse   string `json:"raw_response"`
	ParsingMethod string `json:"parsing_method"`
}

// Outcome is the client's final, always-resolved answer for one turn.
type Outcome struct {
	Word    game.Word
	RawText string
	Notes   string
	Method  string
	// Attempts is the number of calls made, including the final one.
	Attempts int
	// Fallback is set when Word came from the fixed fallback set.
	Fallback bool
}
