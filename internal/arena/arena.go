// internal/arena/arena.go
//
// GameOrchestrator: owns the live match and drives it turn by turn.
// Responsibilities:
//   - Start: check both agents are reachable, discard any previous match,
//     pick a secret, announce the game and launch the background loop.
//   - Per turn: ask both agents concurrently, score each guess, append the
//     records, notify observers, decide win/tie/turn-limit termination.
//   - Keep stale loops harmless: every loop is keyed to the generation it was
//     started for and drops its results once a newer game exists or its
//     context is canceled (Stop, restart).
//
// Notes:
//   - All state mutation and event publication happen under o.mu; agent calls
//     never run with the lock held.
//   - Scoring order inside a turn is fixed (agent one, then agent two), which
//     is what makes the tie rule deterministic.

package arena

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/wordle-arena/internal/agent"
	"github.com/robalobadob/wordle-arena/internal/events"
	"github.com/robalobadob/wordle-arena/internal/game"
	"github.com/robalobadob/wordle-arena/internal/store"
)

// DefaultTurnPause separates turns so the live stream stays readable.
const DefaultTurnPause = 2 * time.Second

var (
	// ErrNoAgents is returned by Start when an agent endpoint is missing.
	ErrNoAgents = errors.New("arena: both agent endpoints must be configured")
	// ErrAgentsUnreachable is returned by Start when a health check fails.
	ErrAgentsUnreachable = errors.New("arena: agent unreachable")
	// errNoOutcome marks an agent call that produced no usable answer.
	errNoOutcome = errors.New("arena: agent produced no outcome")
)

// Guesser obtains one resolved guess per call. *agent.Client implements it.
type Guesser interface {
	RequestGuess(ctx context.Context, endpoint, label string, turn, maxTurns int, history []game.TurnRecord) agent.Outcome
}

// HealthChecker reports whether an agent endpoint is reachable.
// *agent.Client implements it; a Guesser that also implements it is used
// automatically.
type HealthChecker interface {
	Ping(ctx context.Context, endpoint string) error
}

// SecretSource picks secret words. *words.Bank implements it.
type SecretSource interface {
	ChooseSecret() game.Word
}

// Recorder receives lifecycle signals (metrics).
type Recorder interface {
	GameStarted()
	GameFinished(winner string)
	TurnCompleted(d time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) GameStarted()                {}
func (nopRecorder) GameFinished(string)         {}
func (nopRecorder) TurnCompleted(time.Duration) {}

// Player is one competing agent service.
type Player struct {
	Seat     game.Seat
	Endpoint string
}

// Config sets match parameters.
type Config struct {
	AgentOne  string // endpoint URL
	AgentTwo  string // endpoint URL
	MaxTurns  int
	TurnPause time.Duration
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithArchive stores every finished match.
func WithArchive(a store.Archive) Option { return func(o *Orchestrator) { o.archive = a } }

// WithHealthCheck sets the reachability check run by Start. Passing nil
// disables it.
func WithHealthCheck(hc HealthChecker) Option { return func(o *Orchestrator) { o.health = hc } }

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) {
		if r != nil {
			o.rec = r
		}
	}
}

// Orchestrator runs at most one live match at a time.
type Orchestrator struct {
	guesser  Guesser
	secrets  SecretSource
	pub      events.Publisher
	archive  store.Archive
	rec      Recorder
	health   HealthChecker
	players  [2]Player
	maxTurns int
	pause    time.Duration

	mu         sync.Mutex
	state      *game.State
	generation uint64
	cancel     context.CancelFunc
	done       chan struct{}
}

// New constructs an idle orchestrator.
func New(cfg Config, g Guesser, secrets SecretSource, pub events.Publisher, opts ...Option) *Orchestrator {
	if cfg.MaxTurns <= 0 {
		cfg.MaxTurns = game.DefaultMaxTurns
	}
	if cfg.TurnPause < 0 {
		cfg.TurnPause = 0
	}
	o := &Orchestrator{
		guesser: g,
		secrets: secrets,
		pub:     pub,
		rec:     nopRecorder{},
		players: [2]Player{
			{Seat: game.SeatOne, Endpoint: cfg.AgentOne},
			{Seat: game.SeatTwo, Endpoint: cfg.AgentTwo},
		},
		maxTurns: cfg.MaxTurns,
		pause:    cfg.TurnPause,
	}
	if hc, ok := g.(HealthChecker); ok {
		o.health = hc
	}
	for _, opt := range opts {
		opt(o)
	}
	closed := make(chan struct{})
	close(closed)
	o.done = closed
	return o
}

// Start abandons any current match and begins a new one. It returns as soon
// as the game is announced; turns run in the background. When an agent is
// missing or unreachable nothing changes: the current match, if any, keeps
// running and observers get an error event.
func (o *Orchestrator) Start() (string, error) {
	for _, p := range o.players {
		if p.Endpoint == "" {
			o.pub.Publish(events.Failure{Message: "Failed to start game: " + ErrNoAgents.Error()})
			return "", ErrNoAgents
		}
	}
	if err := o.checkAgents(); err != nil {
		log.Error().Err(err).Msg("start refused")
		o.pub.Publish(events.Failure{Message: "Failed to start game: " + err.Error()})
		return "", err
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.cancel != nil {
		o.cancel()
	}
	o.generation++
	gen := o.generation

	st := game.New(o.secrets.ChooseSecret(), o.maxTurns)
	o.state = st

	ctx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel
	done := make(chan struct{})
	o.done = done

	o.rec.GameStarted()
	log.Info().Str("gameId", st.ID).Uint64("generation", gen).Msg("new game started")
	log.Debug().Str("gameId", st.ID).Str("secret", string(st.Secret)).Msg("secret chosen")
	o.pub.Publish(events.GameStarted{
		GameID:   st.ID,
		MaxTurns: st.MaxTurns,
		Status:   "Game started! Both players will compete to guess the word.",
	})

	go o.run(ctx, gen, done)
	return st.ID, nil
}

// checkAgents pings both agents concurrently.
func (o *Orchestrator) checkAgents() error {
	if o.health == nil {
		return nil
	}
	var g errgroup.Group
	for _, p := range o.players {
		p := p
		g.Go(func() error {
			if err := o.health.Ping(context.Background(), p.Endpoint); err != nil {
				return fmt.Errorf("%w: %s at %s (%v)", ErrAgentsUnreachable, p.Seat.Label(), p.Endpoint, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Done returns a channel closed when the current background loop exits.
func (o *Orchestrator) Done() <-chan struct{} {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.done
}

// Stop cancels the live loop, if any. A turn in flight is discarded, so the
// state keeps whatever the last completed turn left.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.cancel != nil {
		o.cancel()
	}
}

// run repeats turns until the match is finished, superseded or faulted.
func (o *Orchestrator) run(ctx context.Context, gen uint64, done chan struct{}) {
	defer close(done)
	for {
		if ctx.Err() != nil {
			return
		}
		cont, err := o.step(ctx, gen)
		if err != nil {
			log.Error().Err(err).Uint64("generation", gen).Msg("turn abandoned")
			o.mu.Lock()
			if gen == o.generation {
				o.pub.Publish(events.Failure{Message: fmt.Sprintf("Turn abandoned: %v. Start a new game to continue.", err)})
			}
			o.mu.Unlock()
			return
		}
		if !cont {
			return
		}
		if o.pause > 0 {
			t := time.NewTimer(o.pause)
			select {
			case <-ctx.Done():
				t.Stop()
				return
			case <-t.C:
			}
		}
	}
}

// turnInput is the per-seat context captured before agents are called.
type turnInput struct {
	player  Player
	history []game.TurnRecord
}

// step runs one turn. It reports whether another turn should follow.
func (o *Orchestrator) step(ctx context.Context, gen uint64) (bool, error) {
	started := time.Now()

	o.mu.Lock()
	st := o.state
	if ctx.Err() != nil || gen != o.generation || st == nil || st.Phase != game.PhaseInProgress {
		o.mu.Unlock()
		return false, nil
	}
	turn := st.Turn + 1
	inputs := [2]turnInput{
		{player: o.players[0], history: st.History(game.SeatOne)},
		{player: o.players[1], history: st.History(game.SeatTwo)},
	}
	o.pub.Publish(events.TurnStatus{
		GameID:   st.ID,
		Turn:     turn,
		MaxTurns: st.MaxTurns,
		Status:   fmt.Sprintf("Turn %d: Getting guesses from both players...", turn),
	})
	o.mu.Unlock()

	outcomes, err := o.collect(ctx, turn, st.MaxTurns, inputs)
	if ctx.Err() != nil {
		log.Info().Uint64("generation", gen).Int("turn", turn).Msg("discarding canceled turn")
		return false, nil
	}
	if err != nil {
		return false, err
	}

	o.mu.Lock()
	if ctx.Err() != nil || gen != o.generation || o.state != st {
		o.mu.Unlock()
		log.Info().Uint64("generation", gen).Int("turn", turn).Msg("discarding stale turn")
		return false, nil
	}

	st.Turn = turn
	winner := game.WinnerUndecided
	for i, in := range inputs {
		out := outcomes[i]
		rec := st.Score(in.player.Seat, out.Word)
		o.pub.Publish(events.PlayerTurn{
			GameID:        st.ID,
			Agent:         in.player.Seat.Label(),
			Turn:          turn,
			Guess:         rec.Guess,
			Feedback:      rec.Feedback,
			Comments:      out.Notes,
			RawText:       out.RawText,
			ParsingMethod: out.Method,
		})
		if rec.Feedback.Solved() {
			if winner == game.WinnerUndecided {
				winner = in.player.Seat.Winner()
			} else {
				winner = game.WinnerTie
			}
		}
	}
	if winner == game.WinnerUndecided && turn >= st.MaxTurns {
		winner = game.WinnerNone
	}

	finished := winner != game.WinnerUndecided
	if finished {
		st.Finish(winner)
		o.pub.Publish(events.GameFinished{
			GameID:     st.ID,
			Winner:     st.Winner,
			SecretWord: st.Secret,
			TotalTurns: st.Turn,
			HistoryOne: st.History(game.SeatOne),
			HistoryTwo: st.History(game.SeatTwo),
		})
	}
	o.mu.Unlock()

	o.rec.TurnCompleted(time.Since(started))
	if finished {
		o.finish(st)
	}
	return !finished, nil
}

// collect calls both agents concurrently. Each call sees only its own
// seat's history.
func (o *Orchestrator) collect(ctx context.Context, turn, maxTurns int, inputs [2]turnInput) ([2]agent.Outcome, error) {
	var outcomes [2]agent.Outcome
	g, gctx := errgroup.WithContext(ctx)
	for i := range inputs {
		i := i
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%s: %w: %v", inputs[i].player.Seat.Label(), errNoOutcome, r)
				}
			}()
			p := inputs[i].player
			out := o.guesser.RequestGuess(gctx, p.Endpoint, p.Seat.Label(), turn, maxTurns, inputs[i].history)
			if out.Word == "" {
				return fmt.Errorf("%s: %w", p.Seat.Label(), errNoOutcome)
			}
			outcomes[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return outcomes, err
	}
	return outcomes, nil
}

// finish archives a finished match and records its outcome.
func (o *Orchestrator) finish(st *game.State) {
	o.rec.GameFinished(string(st.Winner))
	log.Info().Str("gameId", st.ID).Str("winner", string(st.Winner)).Int("turns", st.Turn).Msg("game finished")
	if o.archive == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := o.archive.Save(ctx, store.FromState(st)); err != nil {
		log.Warn().Err(err).Str("gameId", st.ID).Msg("archive match")
	}
}
