package searcher

import (
	"sync"
	"time"

	"golang.org/x/exp/rand"

	"catan/game"
)

// RolloutPolicy picks the playout action; rng is private to the calling
// goroutine.
type RolloutPolicy func(state *game.State, actions []game.Action, rng *rand.Rand) game.Action

// Evaluate scores a non-terminal cutoff state, one value per color in
// [0, 1].
type Evaluate func(state *game.State) []float64

// PriorFn supplies per-action priors for PUCT selection; it must return one
// probability per action, summing to 1.
type PriorFn func(state *game.State, actions []game.Action) []float64

type Option func(m *MCTS)

// MCTS is a goroutine-parallel open-loop tree search. Every episode clones
// the root state with a fresh RNG stream and replays the selected action
// path, so chance events differ between episodes without explicit chance
// nodes.
type MCTS struct {
	goroutines int
	duration   time.Duration
	episodes   int
	cutoff     int
	rollout    RolloutPolicy
	evaluate   Evaluate
	priors     PriorFn
	seed       uint64
	metrics    Collector

	root *decision
}

func WithDuration(duration time.Duration) Option {
	return func(m *MCTS) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

func WithEpisodes(episodes int) Option {
	return func(m *MCTS) {
		if episodes > 0 {
			m.episodes = episodes
		}
	}
}

// WithCutoff caps playout depth; cutoff states are scored by the
// evaluation function.
func WithCutoff(depth int) Option {
	return func(m *MCTS) {
		if depth > 0 {
			m.cutoff = depth
		}
	}
}

func WithEvaluationFn(evaluate Evaluate) Option {
	return func(m *MCTS) {
		if evaluate != nil {
			m.evaluate = evaluate
		}
	}
}

func WithRolloutPolicy(policy RolloutPolicy) Option {
	return func(m *MCTS) {
		if policy != nil {
			m.rollout = policy
		}
	}
}

// WithPriors switches child selection from UCT to PUCT.
func WithPriors(priors PriorFn) Option {
	return func(m *MCTS) { m.priors = priors }
}

func WithSeed(seed uint64) Option {
	return func(m *MCTS) { m.seed = seed }
}

func WithMetrics() Option {
	return func(m *MCTS) { m.metrics = NewCollector() }
}

const defaultCutoff = 300

func NewMCTS(goroutines int, options ...Option) *MCTS {
	m := &MCTS{
		goroutines: goroutines,
		cutoff:     defaultCutoff,
		rollout:    uniformRollout,
		evaluate:   evaluateVPs,
		seed:       uint64(time.Now().UnixNano()),
		metrics:    NewDummyCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.goroutines <= 0 {
		m.goroutines = 1
	}
	if m.episodes <= 0 && m.duration <= 0 {
		panic("must specify search episodes or duration")
	}
	return m
}

// Simulate searches from state and returns the root visit counts plus the
// collected metrics.
func (m *MCTS) Simulate(state *game.State) (map[game.Action]int, SearchMetrics) {
	actions := state.PlayableActions()
	m.root = newDecision(nil, game.NoColor, actions, game.Action{})
	if m.priors != nil {
		m.root.priors = m.priors(state, actions)
	}

	m.metrics.Start()
	if m.episodes > 0 {
		m.iterate(state)
	} else {
		m.countdown(state)
	}
	metric := m.metrics.Complete()
	return m.root.policy(), metric
}

// FindBestAction runs a search and returns the most-visited root action.
func (m *MCTS) FindBestAction(state *game.State) (game.Action, bool) {
	m.Simulate(state)
	return m.root.bestAction()
}

func (m *MCTS) iterate(state *game.State) {
	task := make(chan struct{}, m.episodes)
	for i := 0; i < m.episodes; i++ {
		task <- struct{}{}
	}
	close(task)

	var wg sync.WaitGroup
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(m.seed + uint64(worker)))
			for range task {
				m.simulate(state, rng)
				m.metrics.AddEpisode()
			}
		}(i)
	}
	wg.Wait()
}

func (m *MCTS) countdown(state *game.State) {
	done := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(m.seed + uint64(worker)))
			for {
				select {
				case <-done:
					return
				default:
					m.simulate(state, rng)
					m.metrics.AddEpisode()
				}
			}
		}(i)
	}
	<-time.After(m.duration)
	close(done)
	wg.Wait()
}

// simulate runs one episode: replayed descent, playout, backup.
func (m *MCTS) simulate(root *game.State, rng *rand.Rand) {
	state := root.Copy()
	state.Reseed(rng.Uint64())

	node := m.root
	for {
		child, expanded := node.selectOrExpand(state)
		if child == nil { // terminal node
			break
		}
		if err := state.Apply(child.action); err != nil {
			// open-loop drift: the stored action is illegal under this
			// episode's chance outcomes, evaluate here instead
			node = child
			break
		}
		node = child
		if expanded {
			m.prepare(child, state)
			break
		}
		child.RLock()
		ready := child.actions != nil
		child.RUnlock()
		if !ready {
			m.prepare(child, state)
		}
	}

	values := m.playout(state, rng)
	node.backup(values)
}

// prepare fills a freshly expanded node's action list (and priors) from the
// replayed state.
func (m *MCTS) prepare(node *decision, state *game.State) {
	actions := state.PlayableActions()
	var priors []float64
	if m.priors != nil && len(actions) > 0 {
		priors = m.priors(state, actions)
	}
	node.Lock()
	if node.actions == nil {
		node.actions = actions
		node.priors = priors
	}
	node.Unlock()
}

// playout finishes the episode from state and scores it for every color.
func (m *MCTS) playout(state *game.State, rng *rand.Rand) []float64 {
	for depth := 0; depth < m.cutoff; depth++ {
		if winner, over := state.Winner(); over {
			m.metrics.AddFullPlayout()
			return winnerValues(state.NumPlayers(), winner)
		}
		actions := state.PlayableActions()
		if len(actions) == 0 {
			break
		}
		if err := state.Apply(m.rollout(state, actions, rng)); err != nil {
			break
		}
	}
	if winner, over := state.Winner(); over {
		m.metrics.AddFullPlayout()
		return winnerValues(state.NumPlayers(), winner)
	}
	return m.evaluate(state)
}

func winnerValues(numPlayers int, winner game.Color) []float64 {
	values := make([]float64, numPlayers)
	values[winner] = Win
	return values
}

// uniformRollout is the default playout policy.
func uniformRollout(_ *game.State, actions []game.Action, rng *rand.Rand) game.Action {
	return actions[rng.Intn(len(actions))]
}

// evaluateVPs scores a cutoff state by the players' shares of the total
// public score.
func evaluateVPs(state *game.State) []float64 {
	values := make([]float64, state.NumPlayers())
	total := 0.0
	for c := range values {
		values[c] = float64(state.ActualVPs(game.Color(c)))
		total += values[c]
	}
	if total == 0 {
		return values
	}
	for c := range values {
		values[c] /= total
	}
	return values
}
