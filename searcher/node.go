package searcher

import (
	"math"
	"sync"

	"catan/game"
)

// decision is one tree node. The search is open loop: a node remembers the
// action that led to it and the legal actions seen when it was first
// reached, not a state; every episode replays the action path on a fresh
// clone, so stochastic outcomes (dice, steals) re-randomize naturally.
type decision struct {
	sync.RWMutex
	parent *decision
	action game.Action
	// player is the color that chose action at the parent; rewards are
	// accumulated from its perspective.
	player   game.Color
	actions  []game.Action
	children []*decision
	priors   []float64
	rewards  float64
	visits   int
}

func newDecision(parent *decision, player game.Color, actions []game.Action, action game.Action) *decision {
	return &decision{
		parent:   parent,
		action:   action,
		player:   player,
		actions:  actions,
		children: make([]*decision, 0, len(actions)),
	}
}

// selectOrExpand picks the child to descend into, adding one untried child
// if the node is not fully expanded. The chosen child takes a virtual loss
// so parallel episodes spread over the tree. Returns (child, expanded);
// child is nil on a terminal node.
func (d *decision) selectOrExpand(state *game.State) (*decision, bool) {
	d.Lock()
	defer d.Unlock()

	if len(d.actions) == 0 {
		return nil, false
	}

	if len(d.children) < len(d.actions) {
		action := d.actions[len(d.children)]
		child := newDecision(d, state.CurrentColor(), nil, action)
		d.children = append(d.children, child)
		child.applyLoss()
		return child, true
	}

	child := d.children[d.pickChild()]
	child.applyLoss()
	return child, false
}

func (d *decision) pickChild() int {
	best, bestScore := 0, math.Inf(-1)
	if d.priors != nil {
		sqrtParent := math.Sqrt(float64(d.visits))
		for i, child := range d.children {
			if score := child.scorePUCT(d.priors[i], sqrtParent); score > bestScore {
				best, bestScore = i, score
			}
		}
		return best
	}
	c2LnN := CSquared * math.Log(float64(d.visits))
	for i, child := range d.children {
		score := child.scoreUCT(c2LnN)
		if math.IsInf(score, 1) {
			return i
		}
		if score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}

func (d *decision) scoreUCT(c2LnN float64) float64 {
	d.RLock()
	defer d.RUnlock()
	return ucb1(d.rewards, d.visits, c2LnN)
}

func (d *decision) scorePUCT(prior, sqrtParent float64) float64 {
	d.RLock()
	defer d.RUnlock()
	return puct(d.rewards, d.visits, prior, sqrtParent)
}

func (d *decision) applyLoss() {
	d.Lock()
	defer d.Unlock()
	d.rewards += Loss
	d.visits++
}

// backup adds the episode values up the path, reversing the virtual loss on
// the way. values holds one reward per color.
func (d *decision) backup(values []float64) {
	node := d
	for node != nil {
		node.Lock()
		if node.parent != nil {
			node.rewards -= Loss
			node.visits--
		}
		if node.player != game.NoColor {
			node.rewards += values[node.player]
		}
		node.visits++
		node.Unlock()
		node = node.parent
	}
}

func (d *decision) Visits() int {
	d.RLock()
	defer d.RUnlock()
	return d.visits
}

// bestAction is the most-visited root child.
func (d *decision) bestAction() (game.Action, bool) {
	d.RLock()
	defer d.RUnlock()
	if len(d.children) == 0 {
		return game.Action{}, false
	}
	best, bestVisits := 0, -1
	for i, child := range d.children {
		if v := child.Visits(); v > bestVisits {
			best, bestVisits = i, v
		}
	}
	return d.children[best].action, true
}

// policy returns the root visit-count distribution used for self-play
// training targets.
func (d *decision) policy() map[game.Action]int {
	d.RLock()
	defer d.RUnlock()
	out := make(map[game.Action]int, len(d.children))
	for _, child := range d.children {
		out[child.action] = child.Visits()
	}
	return out
}
