package agent

import (
	"context"
	"time"

	"golang.org/x/exp/slices"

	"catan/game"
)

// AlphaBeta is a depth-bounded paranoid minimax with alpha-beta pruning:
// the searching color maximizes, every other seat minimizes. Roll actions
// are chance nodes resolved by expectation over the eleven dice sums.
type AlphaBeta struct {
	weights  ValueWeights
	depth    int
	beam     int
	deadline time.Duration
}

const (
	defaultDepth    = 6
	defaultBeam     = 12
	defaultDeadline = 10 * time.Second
)

func NewAlphaBeta() *AlphaBeta {
	return &AlphaBeta{
		weights:  DefaultWeights(),
		depth:    defaultDepth,
		beam:     defaultBeam,
		deadline: defaultDeadline,
	}
}

func (a *AlphaBeta) Name() string { return "alphabeta" }

func (a *AlphaBeta) Decide(ctx context.Context, state *game.State, actions []game.Action) (game.Action, error) {
	if len(actions) == 0 {
		return game.Action{}, &game.GameError{Kind: game.ErrStrategyError, Message: "no legal actions"}
	}
	stop := time.Now().Add(deadlineOf(ctx, a.deadline))
	me := state.CurrentColor()

	ordered := a.prune(actions)
	best, bestScore := ordered[0], -1e18
	alpha, beta := -1e18, 1e18
	for _, action := range ordered {
		score := a.expected(state, action, me, a.depth-1, alpha, beta, stop)
		if score > bestScore {
			best, bestScore = action, score
		}
		if bestScore > alpha {
			alpha = bestScore
		}
		if time.Now().After(stop) {
			break
		}
	}
	return best, nil
}

// orderingScore ranks actions for the beam: building beats development
// cards beats trades beats the rest.
func orderingScore(a game.Action) int {
	switch a.Kind {
	case game.ActionBuildCity:
		return 6
	case game.ActionBuildSettlement:
		return 5
	case game.ActionBuildRoad:
		return 4
	case game.ActionBuyDevelopmentCard, game.ActionPlayKnight, game.ActionPlayYearOfPlenty,
		game.ActionPlayMonopoly, game.ActionPlayRoadBuilding:
		return 3
	case game.ActionMaritimeTrade:
		return 2
	case game.ActionEndTurn:
		return 0
	default:
		return 1
	}
}

// prune orders actions by priority and keeps the top beam entries.
func (a *AlphaBeta) prune(actions []game.Action) []game.Action {
	ordered := slices.Clone(actions)
	slices.SortStableFunc(ordered, func(x, y game.Action) int {
		return orderingScore(y) - orderingScore(x)
	})
	if len(ordered) > a.beam {
		ordered = ordered[:a.beam]
	}
	return ordered
}

// diceSums lists every two-dice outcome with its probability.
var diceSums = []struct {
	sum  uint8
	prob float64
}{
	{2, 1.0 / 36}, {3, 2.0 / 36}, {4, 3.0 / 36}, {5, 4.0 / 36}, {6, 5.0 / 36},
	{7, 6.0 / 36}, {8, 5.0 / 36}, {9, 4.0 / 36}, {10, 3.0 / 36}, {11, 2.0 / 36},
	{12, 1.0 / 36},
}

// fixedDice renders a sum as a concrete valid pair.
func fixedDice(sum uint8) [2]uint8 {
	d1 := uint8(1)
	if sum > 7 {
		d1 = sum - 6
	}
	return [2]uint8{d1, sum - d1}
}

// expected evaluates applying action to state: a plain child for
// deterministic actions, a probability-weighted average for rolls.
func (a *AlphaBeta) expected(state *game.State, action game.Action, me game.Color, depth int, alpha, beta float64, stop time.Time) float64 {
	if action.Kind == game.ActionRoll && action.Dice == [2]uint8{0, 0} {
		total := 0.0
		for _, outcome := range diceSums {
			child := action
			child.Dice = fixedDice(outcome.sum)
			total += outcome.prob * a.applied(state, child, me, depth, alpha, beta, stop)
			if time.Now().After(stop) {
				break
			}
		}
		return total
	}
	return a.applied(state, action, me, depth, alpha, beta, stop)
}

func (a *AlphaBeta) applied(state *game.State, action game.Action, me game.Color, depth int, alpha, beta float64, stop time.Time) float64 {
	next := state.Copy()
	if err := next.Apply(action); err != nil {
		return -1e18
	}
	return a.search(next, me, depth, alpha, beta, stop)
}

func (a *AlphaBeta) search(state *game.State, me game.Color, depth int, alpha, beta float64, stop time.Time) float64 {
	if winner, over := state.Winner(); over {
		if winner == me {
			return 1e15
		}
		return -1e15
	}
	if depth <= 0 || time.Now().After(stop) {
		return PositionScore(state, me, a.weights)
	}
	actions := state.PlayableActions()
	if len(actions) == 0 {
		return PositionScore(state, me, a.weights)
	}

	maximizing := state.CurrentColor() == me
	best := -1e18
	if !maximizing {
		best = 1e18
	}
	for _, action := range a.prune(actions) {
		score := a.expected(state, action, me, depth-1, alpha, beta, stop)
		if maximizing {
			if score > best {
				best = score
			}
			if best > alpha {
				alpha = best
			}
		} else {
			if score < best {
				best = score
			}
			if best < beta {
				beta = best
			}
		}
		if beta <= alpha || time.Now().After(stop) {
			break
		}
	}
	return best
}
