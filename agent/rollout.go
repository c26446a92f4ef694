package agent

import (
	"golang.org/x/exp/rand"

	"catan/game"
)

// SmartRollout is a playout policy mixing three behaviors: most of the time
// it follows a lightweight heuristic, sometimes it plays uniformly, and
// occasionally it leans on a strategic build bias. The mix keeps playouts
// informative without collapsing their variance.
const (
	rolloutHeuristic = 0.60
	rolloutUniform   = 0.30
	// remaining probability mass plays the strategic bias
)

func SmartRollout(state *game.State, actions []game.Action, rng *rand.Rand) game.Action {
	roll := rng.Float64()
	switch {
	case roll < rolloutHeuristic:
		return heuristicBest(state, actions)
	case roll < rolloutHeuristic+rolloutUniform:
		return actions[rng.Intn(len(actions))]
	default:
		return strategicPick(actions, rng)
	}
}

// heuristicBest scores actions without lookahead: immediate victory points
// first, then expansion.
func heuristicBest(state *game.State, actions []game.Action) game.Action {
	best, bestScore := actions[0], -1.0
	for _, a := range actions {
		score := 0.0
		switch a.Kind {
		case game.ActionBuildCity:
			score = 10
		case game.ActionBuildSettlement:
			score = 9
		case game.ActionBuyDevelopmentCard:
			score = 5
		case game.ActionPlayKnight:
			score = 4
		case game.ActionBuildRoad:
			score = 3
			for _, p := range state.Board().NodeProduction(a.Edge.A) {
				score += p
			}
		case game.ActionMaritimeTrade:
			score = 1
		case game.ActionRoll, game.ActionMoveRobber, game.ActionDiscard:
			score = 2
		}
		if score > bestScore {
			best, bestScore = a, score
		}
	}
	return best
}

// strategicPick samples among build actions when any exist, otherwise
// uniformly.
func strategicPick(actions []game.Action, rng *rand.Rand) game.Action {
	var builds []game.Action
	for _, a := range actions {
		switch a.Kind {
		case game.ActionBuildRoad, game.ActionBuildSettlement, game.ActionBuildCity:
			builds = append(builds, a)
		}
	}
	if len(builds) > 0 {
		return builds[rng.Intn(len(builds))]
	}
	return actions[rng.Intn(len(actions))]
}
