package searcher

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

/**
Selection scores:
- unvisited children dominate UCT selection
- UCT balances mean reward against the exploration bonus
- PUCT weights exploration by the prior and decays it with visits
*/

func TestUCB1(t *testing.T) {
	t.Run("unvisited child scores infinity", func(t *testing.T) {
		require.True(t, math.IsInf(ucb1(0, 0, 1.0), 1))
	})

	t.Run("exploitation plus exploration", func(t *testing.T) {
		c2LnN := CSquared * math.Log(10)
		got := ucb1(3, 4, c2LnN)
		want := 3.0/4.0 + math.Sqrt(c2LnN/4.0)
		require.InDelta(t, want, got, 1e-12)
	})

	t.Run("a better mean wins at equal visits", func(t *testing.T) {
		c2LnN := CSquared * math.Log(20)
		require.Greater(t, ucb1(5, 8, c2LnN), ucb1(3, 8, c2LnN))
	})
}

func TestPUCT(t *testing.T) {
	t.Run("unvisited child is pure prior", func(t *testing.T) {
		got := puct(0, 0, 0.25, 4.0)
		require.InDelta(t, CPuct*0.25*4.0, got, 1e-12)
	})

	t.Run("visits shrink the prior bonus", func(t *testing.T) {
		fresh := puct(0, 0, 0.25, 4.0)
		seasoned := puct(0, 10, 0.25, 4.0)
		require.Greater(t, fresh, seasoned)
	})

	t.Run("mean value dominates with enough visits", func(t *testing.T) {
		strong := puct(90, 100, 0.01, 10.0)
		weak := puct(10, 100, 0.5, 10.0)
		require.Greater(t, strong, weak)
	})
}
