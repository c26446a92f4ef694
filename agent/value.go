package agent

import (
	"context"

	"golang.org/x/exp/rand"

	"catan/game"
)

// ValueWeights parameterize the linear position score.
type ValueWeights struct {
	PublicVPs            float64
	Production           float64
	EnemyProduction      float64
	NumTiles             float64
	ReachableProduction1 float64
	BuildableNodes       float64
	LongestRoad          float64
	HandSynergy          float64
	HandResources        float64
	DiscardPenalty       float64
	HandDevs             float64
	ArmySize             float64
}

// DefaultWeights is the tuned baseline.
func DefaultWeights() ValueWeights {
	return ValueWeights{
		PublicVPs:            100,
		Production:           10,
		EnemyProduction:      -5,
		NumTiles:             1,
		ReachableProduction1: 2,
		BuildableNodes:       1,
		LongestRoad:          3,
		HandSynergy:          2,
		HandResources:        0.5,
		DiscardPenalty:       -5,
		HandDevs:             1,
		ArmySize:             5,
	}
}

// ContenderWeights is an alternative preset that trades raw production for
// expansion pressure; useful as a sparring partner in evaluation runs.
func ContenderWeights() ValueWeights {
	w := DefaultWeights()
	w.Production = 8
	w.ReachableProduction1 = 3
	w.BuildableNodes = 2
	w.LongestRoad = 4
	return w
}

// varietyBonus rewards each distinct produced resource; diversity converts
// into trades and builds.
const varietyBonus = 4 * 0.02778

// PositionScore is the weighted linear evaluation of a position for color
// c. Larger is better.
func PositionScore(s *game.State, c game.Color, w ValueWeights) float64 {
	production := s.EffectiveProduction(c)
	prodTotal, distinct := 0.0, 0.0
	for _, p := range production {
		prodTotal += p
		if p > 0 {
			distinct++
		}
	}

	enemyProd := 0.0
	for e := game.Color(0); int(e) < s.NumPlayers(); e++ {
		if e == c {
			continue
		}
		for _, p := range s.EffectiveProduction(e) {
			enemyProd += p
		}
	}

	buildable := s.BuildableNodes(c)
	reachable := 0.0
	for _, n := range buildable {
		for _, p := range s.Board().NodeProduction(n) {
			reachable += p
		}
	}

	hand := s.PlayerHand(c)
	handTotal := float64(hand.Total())
	discard := 0.0
	if hand.Total() > s.Config().DiscardLimit {
		discard = 1
	}

	devHand := s.DevHand(c)
	devTotal := 0.0
	for _, n := range devHand {
		devTotal += float64(n)
	}

	score := w.PublicVPs * float64(s.ActualVPs(c))
	score += w.Production * (prodTotal + varietyBonus*distinct)
	score += w.EnemyProduction * enemyProd
	score += w.NumTiles * float64(s.NumTiles(c))
	score += w.ReachableProduction1 * reachable
	score += w.BuildableNodes * float64(len(buildable))
	score += w.LongestRoad * float64(s.RoadLength(c))
	score += w.HandSynergy * handSynergy(hand)
	score += w.HandResources * handTotal
	score += w.DiscardPenalty * discard
	score += w.HandDevs * devTotal
	score += w.ArmySize * float64(s.ArmySize(c))
	return score
}

// handSynergy measures how close the hand is to affording a city and a
// settlement, each normalized to [0, 1].
func handSynergy(hand game.FreqDeck) float64 {
	missing := func(cost game.FreqDeck) float64 {
		m := 0.0
		for r, n := range cost {
			if hand[r] < n {
				m += float64(n - hand[r])
			}
		}
		return m
	}
	cityDist := missing(game.CityCost) / 5
	settlementDist := missing(game.SettlementCost) / 4
	return (1 - cityDist) + (1 - settlementDist)
}

// ValueFunction greedily picks the action whose resulting position scores
// highest, with optional epsilon-greedy exploration.
type ValueFunction struct {
	weights ValueWeights
	epsilon float64
	rng     *rand.Rand
}

func NewValueFunction(seed uint64) *ValueFunction {
	return &ValueFunction{weights: DefaultWeights(), rng: rand.New(rand.NewSource(seed))}
}

func NewValueFunctionWith(weights ValueWeights, epsilon float64, seed uint64) *ValueFunction {
	return &ValueFunction{weights: weights, epsilon: epsilon, rng: rand.New(rand.NewSource(seed))}
}

func (v *ValueFunction) Name() string { return "value" }

func (v *ValueFunction) Decide(_ context.Context, state *game.State, actions []game.Action) (game.Action, error) {
	if len(actions) == 0 {
		return game.Action{}, &game.GameError{Kind: game.ErrStrategyError, Message: "no legal actions"}
	}
	if v.epsilon > 0 && v.rng.Float64() < v.epsilon {
		return actions[v.rng.Intn(len(actions))], nil
	}

	me := state.CurrentColor()
	best, bestScore := actions[0], -1e18
	for _, a := range actions {
		next := state.Copy()
		next.Reseed(v.rng.Uint64())
		if err := next.Apply(a); err != nil {
			continue
		}
		if score := PositionScore(next, me, v.weights); score > bestScore {
			best, bestScore = a, score
		}
	}
	return best, nil
}
