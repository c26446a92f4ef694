package agent

import (
	"context"
	"runtime"

	"golang.org/x/exp/rand"

	"catan/encoder"
	"catan/game"
	"catan/searcher"
)

// PolicyValueNet scores a position: per-action priors over the legal
// actions (summing to 1) and a value in [-1, 1] from the acting player's
// perspective. The tensor runtime backing a trained net lives outside this
// module; UniformNet stands in until one is plugged.
type PolicyValueNet interface {
	Evaluate(state *game.State, actions []game.Action) (priors []float64, value float64)
}

// UniformNet returns flat priors and a neutral value.
type UniformNet struct{}

func NewUniformNet() UniformNet { return UniformNet{} }

func (UniformNet) Evaluate(_ *game.State, actions []game.Action) ([]float64, float64) {
	if len(actions) == 0 {
		return nil, 0
	}
	priors := make([]float64, len(actions))
	p := 1.0 / float64(len(actions))
	for i := range priors {
		priors[i] = p
	}
	return priors, 0
}

// Zero is MCTS with PUCT selection guided by a policy/value network.
type Zero struct {
	net      PolicyValueNet
	seed     uint64
	episodes int
}

func NewZero(net PolicyValueNet, seed uint64) *Zero {
	return &Zero{net: net, seed: seed, episodes: 400}
}

func (z *Zero) Name() string { return "zero" }

func (z *Zero) searcherFor(state *game.State) *searcher.MCTS {
	priors := func(s *game.State, actions []game.Action) []float64 {
		p, _ := z.net.Evaluate(s, actions)
		return p
	}
	evaluate := func(s *game.State) []float64 {
		_, v := z.net.Evaluate(s, s.PlayableActions())
		values := make([]float64, s.NumPlayers())
		cur := s.CurrentColor()
		own := (1 + v) / 2
		rest := (1 - own) / float64(s.NumPlayers()-1)
		for c := range values {
			values[c] = rest
		}
		values[cur] = own
		return values
	}
	return searcher.NewMCTS(runtime.NumCPU(),
		searcher.WithEpisodes(z.episodes),
		searcher.WithCutoff(1),
		searcher.WithPriors(priors),
		searcher.WithEvaluationFn(evaluate),
		searcher.WithRolloutPolicy(SmartRollout),
		searcher.WithSeed(z.seed+uint64(state.Tick())),
	)
}

func (z *Zero) Decide(_ context.Context, state *game.State, actions []game.Action) (game.Action, error) {
	if len(actions) == 0 {
		return game.Action{}, &game.GameError{Kind: game.ErrStrategyError, Message: "no legal actions"}
	}
	if len(actions) == 1 {
		return actions[0], nil
	}
	best, ok := z.searcherFor(state).FindBestAction(state)
	if !ok {
		return actions[0], nil
	}
	return best, nil
}

// Experience is one self-play training example: encoded position, the
// search's visit-count policy over the legal actions, and the final game
// outcome from the acting player's perspective.
type Experience struct {
	Features encoder.Planes
	Actions  []game.Action
	Policy   []float64
	Color    game.Color
	Outcome  float64
}

// SelfPlay runs one full game where every seat searches with the net and
// samples proportionally to visit counts, returning the training triples.
func (z *Zero) SelfPlay(config game.GameConfiguration, seed uint64) ([]Experience, error) {
	state := game.NewState(config, seed)
	rng := rand.New(rand.NewSource(seed))
	enc := encoder.New(state.Board())

	var experiences []Experience
	for state.Tick() < config.MaxTicks {
		if _, over := state.Winner(); over {
			break
		}
		actions := state.PlayableActions()
		if len(actions) == 0 {
			break
		}

		var chosen game.Action
		if len(actions) == 1 {
			chosen = actions[0]
		} else {
			visits, _ := z.searcherFor(state).Simulate(state)
			policy := make([]float64, len(actions))
			total := 0
			for i, a := range actions {
				policy[i] = float64(visits[a])
				total += visits[a]
			}
			if total == 0 {
				chosen = actions[rng.Intn(len(actions))]
			} else {
				for i := range policy {
					policy[i] /= float64(total)
				}
				experiences = append(experiences, Experience{
					Features: enc.Encode(state),
					Actions:  actions,
					Policy:   policy,
					Color:    state.CurrentColor(),
				})
				chosen = sampleAction(actions, policy, rng)
			}
		}
		if err := state.Apply(chosen); err != nil {
			return experiences, err
		}
	}

	winner, over := state.Winner()
	for i := range experiences {
		if !over {
			experiences[i].Outcome = 0
		} else if experiences[i].Color == winner {
			experiences[i].Outcome = 1
		} else {
			experiences[i].Outcome = -1
		}
	}
	return experiences, nil
}

func sampleAction(actions []game.Action, policy []float64, rng *rand.Rand) game.Action {
	pick := rng.Float64()
	for i, p := range policy {
		pick -= p
		if pick <= 0 {
			return actions[i]
		}
	}
	return actions[len(actions)-1]
}
