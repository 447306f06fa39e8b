package arena

import "github.com/robalobadob/wordle-arena/internal/game"

// Snapshot is a read-only view of the live match for observers.
// SecretWord stays empty until the match is finished.
type Snapshot struct {
	GameID     string            `json:"gameId,omitempty"`
	Phase      game.Phase        `json:"phase"`
	Turn       int               `json:"turn"`
	MaxTurns   int               `json:"max_turns"`
	Winner     game.Winner       `json:"winner,omitempty"`
	SecretWord game.Word         `json:"secret_word,omitempty"`
	HistoryOne []game.TurnRecord `json:"player1_history"`
	HistoryTwo []game.TurnRecord `json:"player2_history"`
}

// Snapshot returns the current match view; PhaseIdle before the first Start.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	st := o.state
	if st == nil {
		return Snapshot{
			Phase:      game.PhaseIdle,
			MaxTurns:   o.maxTurns,
			HistoryOne: []game.TurnRecord{},
			HistoryTwo: []game.TurnRecord{},
		}
	}
	snap := Snapshot{
		GameID:     st.ID,
		Phase:      st.Phase,
		Turn:       st.Turn,
		MaxTurns:   st.MaxTurns,
		Winner:     st.Winner,
		HistoryOne: st.History(game.SeatOne),
		HistoryTwo: st.History(game.SeatTwo),
	}
	if st.Phase == game.PhaseFinished {
		snap.SecretWord = st.Secret
	}
	return snap
}
