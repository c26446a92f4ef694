package searcher

import "math"

// Search hyperparameters.

// CSquared is the squared UCT exploration constant.
const CSquared = 2.0

// CPuct scales the prior term in PUCT selection.
const CPuct = 1.5

// Win and Loss bound the reward range; rewards estimate the chance of
// winning from the acting player's perspective.
const (
	Win  = 1.0
	Loss = 0.0
)

// ucb1 is the UCT score: exploitation plus exploration. Unvisited children
// score infinity so they are tried first.
func ucb1(rewards float64, visits int, c2LnN float64) float64 {
	if visits == 0 {
		return math.Inf(1)
	}
	return rewards/float64(visits) + math.Sqrt(c2LnN/float64(visits))
}

// puct is the AlphaZero-style selection score: the mean value plus the
// prior-weighted exploration bonus.
func puct(rewards float64, visits int, prior float64, sqrtParent float64) float64 {
	q := 0.0
	if visits > 0 {
		q = rewards / float64(visits)
	}
	return q + CPuct*prior*sqrtParent/float64(1+visits)
}
