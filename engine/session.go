package engine

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"catan/agent"
	"catan/game"
)

// BotTimeout is the wall-clock budget for one bot decision; on timeout the
// session substitutes the first legal action.
const BotTimeout = 5 * time.Second

// Session owns one running game. All mutations go through the session's
// lock; events are buffered during a mutation and delivered after the lock
// is released, preserving mutation order.
type Session struct {
	ID      uuid.UUID
	Created time.Time
	Seed    uint64

	mu      sync.Mutex
	state   *game.State
	seats   []agent.BotPlayer // nil entry = human seat
	sink    EventSink
	timeout time.Duration
	log     zerolog.Logger
	pending []Event
	history []game.Action
}

// NewSession creates a game with the given config and seed. seats must
// have one entry per player; nil entries are human seats fed through
// Submit.
func NewSession(config game.GameConfiguration, seed uint64, seats []agent.BotPlayer, sink EventSink) *Session {
	id := uuid.New()
	if sink == nil {
		sink = func(Event) {}
	}
	s := &Session{
		ID:      id,
		Created: time.Now(),
		Seed:    seed,
		state:   game.NewState(config, seed),
		seats:   seats,
		sink:    sink,
		timeout: BotTimeout,
		log:     log.With().Str("game", id.String()).Logger(),
	}
	s.pending = append(s.pending, Event{Type: EventGameCreated, GameID: id.String()})
	return s
}

// Snapshot returns a private copy of the current state.
func (s *Session) Snapshot() *game.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Copy()
}

// History returns the actions applied so far, in order.
func (s *Session) History() []game.Action {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]game.Action, len(s.history))
	copy(out, s.history)
	return out
}

// Start emits GameStarted and drives any leading bot turns.
func (s *Session) Start() {
	s.mu.Lock()
	s.pending = append(s.pending, Event{Type: EventGameStarted, GameID: s.ID.String()})
	s.driveBots()
	s.flush()
}

// Submit routes one action from a player (usually a human seat over the
// websocket) into the engine, then drives bot turns until a human seat is
// current or the game ends. Returns the engine's verdict; an invalid
// action is also reported to the sink as a failed ActionExecuted.
func (s *Session) Submit(color game.Color, action game.Action) error {
	s.mu.Lock()
	err := s.apply(color, action)
	if err == nil {
		s.driveBots()
	}
	s.flush()
	return err
}

// Run plays an all-bot game to completion and returns the winner, NoColor
// on a tick-limit draw. Meant for headless simulation.
func (s *Session) Run() (game.Color, error) {
	s.mu.Lock()
	s.pending = append(s.pending, Event{Type: EventGameStarted, GameID: s.ID.String()})
	s.driveBots()
	winner, _ := s.state.Winner()
	s.flush()
	return winner, nil
}

// apply validates and executes one action, buffering the resulting events.
// Caller holds the lock.
func (s *Session) apply(color game.Color, action game.Action) error {
	if _, over := s.state.Winner(); over {
		return &game.GameError{Kind: game.ErrGameNotInProgress, Message: "the game has ended"}
	}
	if color != s.state.CurrentColor() {
		return &game.GameError{Kind: game.ErrNotPlayerTurn, Message: "not your turn"}
	}
	legal := false
	for _, a := range s.state.PlayableActions() {
		if a == action {
			legal = true
			break
		}
	}
	if !legal {
		err := &game.GameError{Kind: game.ErrInvalidAction, Message: "action is not in the legal set"}
		s.pending = append(s.pending, Event{
			Type: EventActionExecuted, GameID: s.ID.String(), Color: colorPtr(color),
			Action: action.String(), Success: false, Message: err.Message,
		})
		return err
	}

	prevTurn := s.state.CurrentTurnColor()
	if err := s.state.Apply(action); err != nil {
		s.pending = append(s.pending, Event{
			Type: EventActionExecuted, GameID: s.ID.String(), Color: colorPtr(color),
			Action: action.String(), Success: false, Message: err.Error(),
		})
		return err
	}

	s.history = append(s.history, action)
	s.pending = append(s.pending, Event{
		Type: EventActionExecuted, GameID: s.ID.String(), Color: colorPtr(color),
		Action: action.String(), Success: true,
	})
	if action.Kind == game.ActionRoll {
		roll := s.state.LastRoll()
		s.pending = append(s.pending, Event{
			Type: EventDiceRolled, GameID: s.ID.String(), Color: colorPtr(color),
			Dice: []uint8{roll[0], roll[1]},
		})
	}
	s.pending = append(s.pending, Event{Type: EventStateChanged, GameID: s.ID.String()})
	if turn := s.state.CurrentTurnColor(); turn != prevTurn {
		s.pending = append(s.pending, Event{Type: EventTurnChanged, GameID: s.ID.String(), Color: colorPtr(turn)})
	}
	if winner, over := s.state.Winner(); over {
		s.pending = append(s.pending, Event{Type: EventGameEnded, GameID: s.ID.String(), Winner: colorPtr(winner)})
	}
	return nil
}

// driveBots loops bot turns until a human seat is current, the game ends,
// or the tick limit is hit. Caller holds the lock.
func (s *Session) driveBots() {
	for {
		if _, over := s.state.Winner(); over {
			return
		}
		if s.state.Tick() >= s.state.Config().MaxTicks {
			s.log.Warn().Int("ticks", s.state.Tick()).Msg("tick limit reached, ending game without a winner")
			s.pending = append(s.pending, Event{Type: EventGameEnded, GameID: s.ID.String()})
			return
		}
		color := s.state.CurrentColor()
		bot := s.seats[color]
		if bot == nil {
			return
		}
		actions := s.state.PlayableActions()
		if len(actions) == 0 {
			s.log.Error().Msg("no legal actions outside terminal state")
			s.pending = append(s.pending, Event{Type: EventError, GameID: s.ID.String(), Message: "engine produced no legal actions"})
			return
		}
		action := s.decide(bot, color, actions)
		if err := s.apply(color, action); err != nil {
			// a bot returning an illegal action degrades to the fallback
			s.log.Warn().Err(err).Str("bot", bot.Name()).Msg("bot action rejected, using fallback")
			if err := s.apply(color, actions[0]); err != nil {
				s.pending = append(s.pending, Event{Type: EventError, GameID: s.ID.String(), Message: err.Error()})
				return
			}
		}
	}
}

// decide runs the bot under the timeout; on timeout or error the first
// legal action stands in.
func (s *Session) decide(bot agent.BotPlayer, color game.Color, actions []game.Action) game.Action {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	snapshot := s.state.Copy()
	type result struct {
		action game.Action
		err    error
	}
	ch := make(chan result, 1)
	go func() {
		a, err := bot.Decide(ctx, snapshot, actions)
		ch <- result{a, err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			s.log.Warn().Err(r.err).Str("bot", bot.Name()).Int8("color", int8(color)).Msg("bot decision failed")
			return actions[0]
		}
		return r.action
	case <-ctx.Done():
		s.log.Warn().Str("bot", bot.Name()).Int8("color", int8(color)).Msg("bot decision timed out")
		return actions[0]
	}
}

// flush unlocks and delivers the buffered events.
func (s *Session) flush() {
	events := s.pending
	s.pending = nil
	s.mu.Unlock()
	for _, e := range events {
		s.sink(e)
	}
}
