package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

/**
State lifecycle:
- fresh states start in the initial build phase with full bank and deck
- copies are observationally identical and fully independent
- the same seed replays to the same state; reseeding diverges the dice
- resource and dev card conservation across arbitrary play
*/

// playInitialPhase drives the snake draft to completion by always taking
// the first legal action, and returns the placement order of settlements.
func playInitialPhase(t *testing.T, s *State) []Color {
	t.Helper()
	var order []Color
	for s.IsInitialBuildPhase() {
		actions := s.PlayableActions()
		require.NotEmpty(t, actions)
		a := actions[0]
		if a.Kind == ActionBuildSettlement {
			order = append(order, a.Color)
		}
		require.NoError(t, s.Apply(a))
	}
	return order
}

// playTicks advances the game by n first-legal actions.
func playTicks(t *testing.T, s *State, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if _, over := s.Winner(); over {
			return
		}
		actions := s.PlayableActions()
		require.NotEmpty(t, actions)
		require.NoError(t, s.Apply(actions[0]))
	}
}

// totalResources sums the bank and every hand; it must stay at 5 x 19.
func totalResources(s *State) int {
	total := int(s.BankResources().Total())
	for c := Color(0); int(c) < s.NumPlayers(); c++ {
		total += int(s.PlayerHand(c).Total())
	}
	return total
}

func TestNewState(t *testing.T) {
	s := NewState(DefaultConfiguration(), 42)

	require.Equal(t, PromptBuildInitialSettlement, s.ActionPrompt())
	require.Equal(t, Color(0), s.CurrentColor())
	require.True(t, s.IsInitialBuildPhase())
	require.Equal(t, FreqDeck{19, 19, 19, 19, 19}, s.BankResources())
	require.Equal(t, DevDeckSize, s.DevCardsRemaining())
	require.Equal(t, s.Board().DesertTile().ID, s.RobberTile().ID)
	_, over := s.Winner()
	require.False(t, over)
	require.Len(t, s.BuildableNodes(0), s.Board().NumNodes(),
		"every intersection starts buildable")
}

func TestStateCopy(t *testing.T) {
	s := NewState(DefaultConfiguration(), 42)
	playInitialPhase(t, s)
	playTicks(t, s, 20)

	clone := s.Copy()

	t.Run("observationally identical", func(t *testing.T) {
		require.Equal(t, s.vector, clone.vector)
		require.Equal(t, s.buildings, clone.buildings)
		require.Equal(t, s.roads, clone.roads)
		require.Equal(t, s.PlayableActions(), clone.PlayableActions())
		require.Equal(t, s.Tick(), clone.Tick())
	})

	t.Run("mutations do not leak", func(t *testing.T) {
		before := clone.PlayerHand(s.CurrentColor())
		s.hand(s.CurrentColor())[Wood] += 3
		require.Equal(t, before, clone.PlayerHand(s.CurrentColor()))
	})

	t.Run("copied dice replay identically", func(t *testing.T) {
		a, b := s.Copy(), s.Copy()
		for i := 0; i < 30; i++ {
			if _, over := a.Winner(); over {
				break
			}
			actionsA, actionsB := a.PlayableActions(), b.PlayableActions()
			require.Equal(t, actionsA, actionsB)
			require.NoError(t, a.Apply(actionsA[0]))
			require.NoError(t, b.Apply(actionsB[0]))
			require.Equal(t, a.LastRoll(), b.LastRoll())
		}
	})
}

func TestStateDeterminism(t *testing.T) {
	a := NewState(DefaultConfiguration(), 99)
	b := NewState(DefaultConfiguration(), 99)
	playInitialPhase(t, a)
	playInitialPhase(t, b)
	playTicks(t, a, 100)
	playTicks(t, b, 100)

	require.Equal(t, a.vector, b.vector)
	require.Equal(t, a.buildings, b.buildings)
	require.Equal(t, a.lastRoll, b.lastRoll)
}

func TestResourceConservation(t *testing.T) {
	s := NewState(DefaultConfiguration(), 7)
	playInitialPhase(t, s)
	require.Equal(t, 5*19, totalResources(s))

	for i := 0; i < 300; i++ {
		if _, over := s.Winner(); over {
			break
		}
		actions := s.PlayableActions()
		require.NoError(t, s.Apply(actions[s.Tick()%len(actions)]))
		require.Equal(t, 5*19, totalResources(s), "after tick %d", s.Tick())
	}

	t.Run("dev cards conserved", func(t *testing.T) {
		inPlay := s.DevCardsRemaining()
		for c := Color(0); int(c) < s.NumPlayers(); c++ {
			for _, n := range s.DevHand(c) {
				inPlay += int(n)
			}
			for _, n := range s.PlayedDev(c) {
				inPlay += int(n)
			}
		}
		require.Equal(t, DevDeckSize, inPlay)
	})
}
