package events

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle-arena/internal/game"
)

func TestBrokerFanOutInOrder(t *testing.T) {
	b := NewBroker()
	one, cancelOne := b.Subscribe(8)
	two, cancelTwo := b.Subscribe(8)
	defer cancelOne()
	defer cancelTwo()

	b.Publish(GameStarted{MaxTurns: 6})
	b.Publish(TurnStatus{Turn: 1, MaxTurns: 6})

	for _, ch := range []<-chan Event{one, two} {
		require.Equal(t, KindGameStarted, (<-ch).Kind())
		require.Equal(t, KindTurnStatus, (<-ch).Kind())
	}
}

func TestBrokerDropsWhenFull(t *testing.T) {
	b := NewBroker()
	ch, cancel := b.Subscribe(1)
	defer cancel()

	b.Publish(TurnStatus{Turn: 1})
	b.Publish(TurnStatus{Turn: 2})

	require.Equal(t, 1, (<-ch).(TurnStatus).Turn)
	select {
	case e := <-ch:
		t.Fatalf("unexpected event %v", e)
	default:
	}
}

func TestBrokerCancel(t *testing.T) {
	b := NewBroker()
	ch, cancel := b.Subscribe(0)
	require.Equal(t, 1, b.Subscribers())

	cancel()
	cancel()
	require.Zero(t, b.Subscribers())

	_, open := <-ch
	require.False(t, open)

	// Publishing with no subscribers is a no-op.
	b.Publish(Failure{Message: "x"})
}

func TestMarshalEnvelope(t *testing.T) {
	p := game.Evaluate("LLAMA", "ALLOW")
	b, err := Marshal(PlayerTurn{
		GameID:        "g1",
		Agent:         "Player 1",
		Turn:          1,
		Guess:         "LLAMA",
		Feedback:      p,
		Comments:      "hi",
		RawText:       "GUESS: LLAMA",
		ParsingMethod: "GUESS: format",
	})
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"player_turn","data":{
		"gameId":"g1","player":"Player 1","turn":1,"guess":"LLAMA",
		"feedback":"🟨🟩🟨⬜⬜","comments":"hi","raw_response":"GUESS: LLAMA",
		"parsing_method":"GUESS: format"}}`, string(b))
}
