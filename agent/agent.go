// Package agent holds the decision strategies that drive bot seats: from
// uniform random up to tree search with learned priors. Every agent picks
// from the legal actions it is handed and never mutates the state.
package agent

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/exp/rand"

	"catan/game"
)

// BotPlayer decides one action from the legal set. Implementations must
// treat state as read-only; anything that needs lookahead clones it first.
type BotPlayer interface {
	Name() string
	Decide(ctx context.Context, state *game.State, actions []game.Action) (game.Action, error)
}

// FromLetter builds the agent selected by a strategy letter, as used by the
// simulation CLI: R random, W weighted, V value function, A alpha-beta,
// M MCTS, Z zero.
func FromLetter(letter rune, seed uint64) (BotPlayer, error) {
	switch letter {
	case 'R':
		return NewRandom(seed), nil
	case 'W':
		return NewWeighted(seed), nil
	case 'V':
		return NewValueFunction(seed), nil
	case 'A':
		return NewAlphaBeta(), nil
	case 'M':
		return NewMCTS(seed), nil
	case 'Z':
		return NewZero(NewUniformNet(), seed), nil
	default:
		return nil, fmt.Errorf("unknown strategy letter %q", letter)
	}
}

// FromLetters builds one agent per seat from a string like "RRVM".
func FromLetters(letters string, seed uint64) ([]BotPlayer, error) {
	players := make([]BotPlayer, 0, len(letters))
	for i, letter := range letters {
		p, err := FromLetter(letter, seed+uint64(i))
		if err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, nil
}

// Random picks uniformly from the legal actions.
type Random struct {
	rng *rand.Rand
}

func NewRandom(seed uint64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (r *Random) Name() string { return "random" }

func (r *Random) Decide(_ context.Context, _ *game.State, actions []game.Action) (game.Action, error) {
	if len(actions) == 0 {
		return game.Action{}, &game.GameError{Kind: game.ErrStrategyError, Message: "no legal actions"}
	}
	return actions[r.rng.Intn(len(actions))], nil
}

// Weighted samples with fixed multipliers favoring development: cities
// first, then settlements, then development cards.
type Weighted struct {
	rng *rand.Rand
}

func NewWeighted(seed uint64) *Weighted {
	return &Weighted{rng: rand.New(rand.NewSource(seed))}
}

func (w *Weighted) Name() string { return "weighted" }

func actionWeight(a game.Action) float64 {
	switch a.Kind {
	case game.ActionBuildCity:
		return 10
	case game.ActionBuildSettlement:
		return 8
	case game.ActionBuyDevelopmentCard:
		return 5
	default:
		return 1
	}
}

func (w *Weighted) Decide(_ context.Context, _ *game.State, actions []game.Action) (game.Action, error) {
	if len(actions) == 0 {
		return game.Action{}, &game.GameError{Kind: game.ErrStrategyError, Message: "no legal actions"}
	}
	total := 0.0
	for _, a := range actions {
		total += actionWeight(a)
	}
	pick := w.rng.Float64() * total
	for _, a := range actions {
		pick -= actionWeight(a)
		if pick <= 0 {
			return a, nil
		}
	}
	return actions[len(actions)-1], nil
}

// deadlineOf resolves a context deadline into a wall-clock budget, keeping
// a small reserve for returning the result.
func deadlineOf(ctx context.Context, fallback time.Duration) time.Duration {
	if deadline, ok := ctx.Deadline(); ok {
		if budget := time.Until(deadline) - 50*time.Millisecond; budget > 0 {
			return budget
		}
		return time.Millisecond
	}
	return fallback
}
