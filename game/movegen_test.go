package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

/**
Legal move generation:
- only the settlement/road placements the draft allows
- rolling is the sole option before the dice, ending the turn always last
- every generated action round-trips through Apply on a copy
- canonical ordering is stable for a fixed state
- the generator never mutates the state it enumerates
*/

func TestGeneratorInitialPhase(t *testing.T) {
	s := NewState(DefaultConfiguration(), 5)

	t.Run("first the settlement", func(t *testing.T) {
		actions := s.PlayableActions()
		require.Len(t, actions, s.Board().NumNodes())
		for _, a := range actions {
			require.Equal(t, ActionBuildSettlement, a.Kind)
			require.Equal(t, Color(0), a.Color)
		}
	})

	t.Run("then a road touching it", func(t *testing.T) {
		require.NoError(t, s.Apply(s.PlayableActions()[0]))
		actions := s.PlayableActions()
		require.NotEmpty(t, actions)
		for _, a := range actions {
			require.Equal(t, ActionBuildRoad, a.Kind)
			require.True(t, a.Edge.A == s.lastPlaced || a.Edge.B == s.lastPlaced)
		}
	})
}

func TestGeneratorPlayTurn(t *testing.T) {
	s := NewState(DefaultConfiguration(), 5)
	playInitialPhase(t, s)

	t.Run("roll is the only action before the dice", func(t *testing.T) {
		actions := s.PlayableActions()
		require.Len(t, actions, 1)
		require.Equal(t, ActionRoll, actions[0].Kind)
		require.Equal(t, [2]uint8{0, 0}, actions[0].Dice, "the engine draws the dice")
	})

	t.Run("ending the turn is always offered last", func(t *testing.T) {
		roll(t, s, 2, 3)
		actions := s.PlayableActions()
		require.NotEmpty(t, actions)
		require.Equal(t, ActionEndTurn, actions[len(actions)-1].Kind)
		for _, a := range actions {
			require.NotEqual(t, ActionRoll, a.Kind)
		}
	})

	t.Run("canonical order is stable", func(t *testing.T) {
		first := s.PlayableActions()
		second := s.PlayableActions()
		require.Equal(t, first, second)
		for i := 1; i < len(first); i++ {
			require.False(t, first[i].less(first[i-1]), "actions %d and %d out of order", i-1, i)
		}
	})
}

func TestGeneratedActionsAllApply(t *testing.T) {
	s := NewState(DefaultConfiguration(), 11)
	playInitialPhase(t, s)
	playTicks(t, s, 60)

	for _, a := range s.PlayableActions() {
		clone := s.Copy()
		require.NoError(t, clone.Apply(a), "generated action %s must apply", a)
	}
}

func TestGeneratorIsReadOnly(t *testing.T) {
	s := NewState(DefaultConfiguration(), 8)
	for i := 0; i < 300; i++ {
		before := s.Copy()
		actions := s.PlayableActions()
		require.Equal(t, before.vector, s.vector, "tick %d", i)
		require.Equal(t, before.FreeRoads(), s.FreeRoads(), "tick %d", i)
		if len(actions) == 0 {
			break
		}
		require.NoError(t, s.Apply(actions[i%len(actions)]))
	}
}

func TestGeneratorFunding(t *testing.T) {
	s := NewState(DefaultConfiguration(), 5)
	playInitialPhase(t, s)
	roll(t, s, 2, 3)
	setHand(s, 0, FreqDeck{})

	kinds := map[ActionKind]bool{}
	for _, a := range s.PlayableActions() {
		kinds[a.Kind] = true
	}
	require.False(t, kinds[ActionBuildRoad], "an empty hand affords no road")
	require.False(t, kinds[ActionBuildSettlement])
	require.False(t, kinds[ActionBuildCity])
	require.False(t, kinds[ActionBuyDevelopmentCard])
	require.False(t, kinds[ActionMaritimeTrade])
	require.True(t, kinds[ActionEndTurn])
}
