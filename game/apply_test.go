package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

/**
Applicator behavior:
- snake draft order and the second settlement's starting resources
- rolling: production payout, the bank shortage rule, the discard queue
  behind a 7 and the deterministic half-hand peel
- robber movement and stealing
- regular builds paying their costs, dev card purchase and plays
- maritime trade ratios, end-turn bookkeeping, win detection
*/

// playReadyState drives a fresh game through the draft so seat 0 is about
// to roll.
func playReadyState(t *testing.T, seed uint64) *State {
	t.Helper()
	s := NewState(DefaultConfiguration(), seed)
	playInitialPhase(t, s)
	require.Equal(t, PromptPlayTurn, s.ActionPrompt())
	require.Equal(t, Color(0), s.CurrentTurnColor())
	return s
}

// setHand overwrites a player's hand, settling the difference against the
// bank so conservation invariants keep holding.
func setHand(s *State, c Color, want FreqDeck) {
	hand := s.hand(c)
	bank := s.bank()
	for r := range want {
		bank[r] += hand[r]
		hand[r] = 0
		bank[r] -= want[r]
		hand[r] = want[r]
	}
}

func roll(t *testing.T, s *State, d1, d2 uint8) {
	t.Helper()
	require.NoError(t, s.Apply(Action{
		Kind: ActionRoll, Color: s.CurrentColor(), Node: NoNode,
		Victim: NoColor, Give: NoResource, Take: NoResource,
		Dice: [2]uint8{d1, d2},
	}))
}

func TestInitialPlacement(t *testing.T) {
	s := NewState(DefaultConfiguration(), 42)
	order := playInitialPhase(t, s)

	t.Run("snake order", func(t *testing.T) {
		require.Equal(t, []Color{0, 1, 2, 3, 3, 2, 1, 0}, order)
	})

	t.Run("two settlements, two roads, two points each", func(t *testing.T) {
		for c := Color(0); c < 4; c++ {
			require.Len(t, s.Settlements(c), 2)
			require.Equal(t, 2, s.RoadCount(c))
			require.Equal(t, 2, s.ActualVPs(c))
		}
	})

	t.Run("play starts with the first seat", func(t *testing.T) {
		require.False(t, s.IsInitialBuildPhase())
		require.Equal(t, Color(0), s.CurrentTurnColor())
		require.Equal(t, PromptPlayTurn, s.ActionPrompt())
	})

	t.Run("second settlement yields its tiles", func(t *testing.T) {
		for c := Color(0); c < 4; c++ {
			total := int(s.PlayerHand(c).Total())
			require.GreaterOrEqual(t, total, 1)
			require.LessOrEqual(t, total, 3)
		}
		require.Equal(t, 5*19, totalResources(s))
	})
}

func TestRoll(t *testing.T) {
	t.Run("fixed dice are recorded and rolling twice is rejected", func(t *testing.T) {
		s := playReadyState(t, 42)
		roll(t, s, 2, 3)
		require.Equal(t, [2]uint8{2, 3}, s.LastRoll())
		require.True(t, s.HasRolled())
		err := s.Apply(Action{Kind: ActionRoll, Color: 0, Node: NoNode, Victim: NoColor, Give: NoResource, Take: NoResource, Dice: [2]uint8{2, 3}})
		require.Error(t, err)
		require.Equal(t, ErrInvalidStateTransition, KindOf(err))
	})

	t.Run("production conserves resources", func(t *testing.T) {
		s := playReadyState(t, 42)
		roll(t, s, 4, 4)
		require.Equal(t, 5*19, totalResources(s))
	})

	t.Run("seven with small hands goes straight to the robber", func(t *testing.T) {
		s := playReadyState(t, 42)
		roll(t, s, 3, 4)
		require.Equal(t, PromptMoveRobber, s.ActionPrompt())
		require.Equal(t, Color(0), s.CurrentColor())
	})

	t.Run("seven queues over-limit hands in seating order", func(t *testing.T) {
		s := playReadyState(t, 42)
		setHand(s, 1, FreqDeck{3, 9, 1, 3, 1})
		setHand(s, 2, FreqDeck{4, 4, 0, 0, 0})
		roll(t, s, 3, 4)

		require.Equal(t, PromptDiscard, s.ActionPrompt())
		require.Equal(t, []Color{1, 2}, s.pendingDiscards)
		require.Equal(t, Color(1), s.CurrentColor(), "first over-limit seat discards first")
		require.Equal(t, Color(0), s.CurrentTurnColor(), "the turn still belongs to the roller")
	})
}

func TestDiscard(t *testing.T) {
	s := playReadyState(t, 42)
	setHand(s, 1, FreqDeck{3, 9, 1, 3, 1})
	setHand(s, 2, FreqDeck{4, 4, 0, 0, 0})
	bankBefore := s.BankResources().Total()
	roll(t, s, 3, 4)

	t.Run("peel takes from the most-held types", func(t *testing.T) {
		require.NoError(t, s.Apply(Action{Kind: ActionDiscard, Color: 1, Node: NoNode, Victim: NoColor, Give: NoResource, Take: NoResource}))
		require.Equal(t, FreqDeck{2, 2, 1, 2, 1}, s.PlayerHand(1))
		require.Equal(t, Color(2), s.CurrentColor(), "queue advances to the next over-limit seat")
	})

	t.Run("last discard hands the robber to the roller", func(t *testing.T) {
		require.NoError(t, s.Apply(Action{Kind: ActionDiscard, Color: 2, Node: NoNode, Victim: NoColor, Give: NoResource, Take: NoResource}))
		require.Equal(t, FreqDeck{2, 2, 0, 0, 0}, s.PlayerHand(2))
		require.Equal(t, PromptMoveRobber, s.ActionPrompt())
		require.Equal(t, Color(0), s.CurrentColor())
		require.Equal(t, bankBefore+9+4, s.BankResources().Total())
	})
}

// freeCornerPair returns two unoccupied corners of the tile far enough
// apart for both to take a settlement.
func freeCornerPair(s *State, tile LandTile) ([2]NodeId, bool) {
	corners := s.Board().TileNodes(tile.ID)
	n := len(corners)
	for i := 0; i < n; i++ {
		for j := i + 2; j < n; j++ {
			if i == 0 && j == n-1 {
				continue // cyclically adjacent
			}
			if _, ok := s.boardBuildable[corners[i]]; !ok {
				continue
			}
			if _, ok := s.boardBuildable[corners[j]]; !ok {
				continue
			}
			return [2]NodeId{corners[i], corners[j]}, true
		}
	}
	return [2]NodeId{}, false
}

func cornersClear(s *State, tile LandTile) bool {
	for _, n := range s.Board().TileNodes(tile.ID) {
		if _, ok := s.buildings[n]; ok {
			return false
		}
	}
	return true
}

// drainBank parks bank stock of r in color 3's hand until `left` cards
// remain, keeping the totals conserved.
func drainBank(s *State, r Resource, left uint8) {
	bank := s.bank()
	s.hand(3)[r] += bank[r] - left
	bank[r] = left
}

// twelveTile finds a drafted game whose single 12 tile has two usable free
// corners; with clear set, its corners must carry no draft buildings.
func twelveTile(t *testing.T, clear bool) (*State, LandTile, [2]NodeId) {
	t.Helper()
	for seed := uint64(42); seed < 90; seed++ {
		s := playReadyState(t, seed)
		tile := s.Board().TilesByNumber(12)[0]
		if clear && !cornersClear(s, tile) {
			continue
		}
		if pair, ok := freeCornerPair(s, tile); ok {
			return s, tile, pair
		}
	}
	t.Fatal("no seed leaves the 12 tile open enough")
	return nil, LandTile{}, [2]NodeId{}
}

func TestBankShortage(t *testing.T) {
	t.Run("shortage with several claimants pays nobody", func(t *testing.T) {
		s, tile, pair := twelveTile(t, false)
		s.placeSettlement(1, pair[0])
		s.placeSettlement(2, pair[1])
		r := tile.Resource
		drainBank(s, r, 1)
		h1, h2 := s.PlayerHand(1)[r], s.PlayerHand(2)[r]

		roll(t, s, 6, 6)

		require.Equal(t, h1, s.PlayerHand(1)[r])
		require.Equal(t, h2, s.PlayerHand(2)[r])
		require.Equal(t, uint8(1), s.BankResources()[r], "the last card stays in the bank")
		require.Equal(t, 5*19, totalResources(s))
	})

	t.Run("a lone claimant takes what is left", func(t *testing.T) {
		s, tile, pair := twelveTile(t, true)
		s.placeSettlement(1, pair[0])
		s.placeSettlement(1, pair[1]) // demand 2
		r := tile.Resource
		drainBank(s, r, 1)
		before := s.PlayerHand(1)[r]

		roll(t, s, 6, 6)

		require.Equal(t, before+1, s.PlayerHand(1)[r], "partial payout of the remaining stock")
		require.Equal(t, uint8(0), s.BankResources()[r])
		require.Equal(t, 5*19, totalResources(s))
	})

	t.Run("other resources are still paid in full", func(t *testing.T) {
		// two tiles sharing a number but not a resource: the shortage on
		// one must not touch the payout of the other
		var s *State
		var tileA, tileB LandTile
		var number uint8
		found := false
		for seed := uint64(42); seed < 90 && !found; seed++ {
			for _, n := range []uint8{6, 8, 5, 9, 4, 10} {
				cand := playReadyState(t, seed)
				tiles := cand.Board().TilesByNumber(n)
				if len(tiles) != 2 || tiles[0].Resource == tiles[1].Resource {
					continue
				}
				pair, ok := freeCornerPair(cand, tiles[0])
				if !ok {
					continue
				}
				cand.placeSettlement(1, pair[0])
				cand.placeSettlement(2, pair[1])
				cornerB, okB := NodeId(0), false
				for _, c := range cand.Board().TileNodes(tiles[1].ID) {
					if _, free := cand.boardBuildable[c]; free {
						cornerB, okB = c, true
						break
					}
				}
				if !okB {
					continue
				}
				cand.placeSettlement(1, cornerB)
				s, tileA, tileB, number, found = cand, tiles[0], tiles[1], n, true
				break
			}
		}
		require.True(t, found, "some seed exposes a two-tile number with distinct resources")

		rA, rB := tileA.Resource, tileB.Resource
		drainBank(s, rA, 1)

		mine, totalB := uint8(0), uint8(0)
		for _, nd := range s.Board().TileNodes(tileB.ID) {
			if b, ok := s.buildings[nd]; ok {
				totalB++
				if b.Color == 1 {
					mine++
				}
			}
		}
		require.GreaterOrEqual(t, mine, uint8(1))
		require.GreaterOrEqual(t, s.BankResources()[rB], totalB, "the well-stocked resource covers its demand")

		beforeA := s.PlayerHand(1)[rA]
		beforeB := s.PlayerHand(1)[rB]
		roll(t, s, number/2, number-number/2)

		require.Equal(t, beforeA, s.PlayerHand(1)[rA], "the short resource pays nobody")
		require.Equal(t, beforeB+mine, s.PlayerHand(1)[rB], "the stocked resource pays in full")
	})
}

func TestMoveRobber(t *testing.T) {
	s := playReadyState(t, 42)
	roll(t, s, 3, 4)
	require.Equal(t, PromptMoveRobber, s.ActionPrompt())

	t.Run("staying put is rejected", func(t *testing.T) {
		err := s.Apply(Action{Kind: ActionMoveRobber, Color: 0, Coord: s.RobberTile().Coord, Node: NoNode, Victim: NoColor, Give: NoResource, Take: NoResource})
		require.Error(t, err)
	})

	t.Run("moving onto a victim steals one card", func(t *testing.T) {
		var chosen Action
		for _, a := range s.PlayableActions() {
			if a.Victim != NoColor {
				chosen = a
				break
			}
		}
		require.NotEqual(t, NoColor, chosen.Victim, "some neighbor should be robbable after the draft")

		thiefBefore := s.PlayerHand(0).Total()
		victimBefore := s.PlayerHand(chosen.Victim).Total()
		require.NoError(t, s.Apply(chosen))

		require.Equal(t, thiefBefore+1, s.PlayerHand(0).Total())
		require.Equal(t, victimBefore-1, s.PlayerHand(chosen.Victim).Total())
		tile, ok := s.Board().GetLandTile(chosen.Coord)
		require.True(t, ok)
		require.Equal(t, tile.ID, s.RobberTile().ID)
		require.Equal(t, PromptPlayTurn, s.ActionPrompt())
	})
}

func TestBuildRoad(t *testing.T) {
	s := playReadyState(t, 42)
	roll(t, s, 2, 3)
	setHand(s, 0, RoadCost)

	edges := s.BuildableEdges(0)
	require.NotEmpty(t, edges)
	require.NoError(t, s.Apply(Action{Kind: ActionBuildRoad, Color: 0, Edge: edges[0], Node: NoNode, Victim: NoColor, Give: NoResource, Take: NoResource}))

	owner, ok := s.RoadAt(edges[0])
	require.True(t, ok)
	require.Equal(t, Color(0), owner)
	require.Equal(t, 3, s.RoadCount(0))
	require.Equal(t, FreqDeck{}, s.PlayerHand(0), "the road cost went back to the bank")

	t.Run("unfunded road is rejected", func(t *testing.T) {
		err := s.Apply(Action{Kind: ActionBuildRoad, Color: 0, Edge: s.BuildableEdges(0)[0], Node: NoNode, Victim: NoColor, Give: NoResource, Take: NoResource})
		require.Error(t, err)
		require.Equal(t, ErrInsufficientResources, KindOf(err))
	})
}

func TestBuildSettlementAndCity(t *testing.T) {
	s := playReadyState(t, 42)
	roll(t, s, 2, 3)

	// roads out to a legal settlement spot
	setHand(s, 0, FreqDeck{10, 10, 4, 4, 3})
	for len(s.BuildableNodes(0)) == 0 {
		edges := s.BuildableEdges(0)
		require.NotEmpty(t, edges)
		require.NoError(t, s.Apply(Action{Kind: ActionBuildRoad, Color: 0, Edge: edges[0], Node: NoNode, Victim: NoColor, Give: NoResource, Take: NoResource}))
	}

	node := s.BuildableNodes(0)[0]
	vpsBefore := s.ActualVPs(0)
	require.NoError(t, s.Apply(Action{Kind: ActionBuildSettlement, Color: 0, Node: node, Victim: NoColor, Give: NoResource, Take: NoResource}))
	require.Len(t, s.Settlements(0), 3)
	require.Equal(t, vpsBefore+1, s.ActualVPs(0))

	t.Run("distance rule blocks the neighbors", func(t *testing.T) {
		for _, nb := range s.Board().NeighborNodes(node) {
			require.NotContains(t, s.BuildableNodes(0), nb)
		}
	})

	t.Run("upgrade to a city", func(t *testing.T) {
		handBefore := s.PlayerHand(0)
		require.NoError(t, s.Apply(Action{Kind: ActionBuildCity, Color: 0, Node: node, Victim: NoColor, Give: NoResource, Take: NoResource}))
		require.Len(t, s.Cities(0), 1)
		require.Len(t, s.Settlements(0), 2)
		require.Equal(t, vpsBefore+2, s.ActualVPs(0))
		require.Equal(t, handBefore[Wheat]-2, s.PlayerHand(0)[Wheat])
		require.Equal(t, handBefore[Ore]-3, s.PlayerHand(0)[Ore])
	})

	t.Run("upgrading a city again is rejected", func(t *testing.T) {
		err := s.Apply(Action{Kind: ActionBuildCity, Color: 0, Node: node, Victim: NoColor, Give: NoResource, Take: NoResource})
		require.Error(t, err)
		require.Equal(t, ErrRuleViolation, KindOf(err))
	})
}

func TestBuyDevelopmentCard(t *testing.T) {
	s := playReadyState(t, 42)
	roll(t, s, 2, 3)
	setHand(s, 0, DevCardCost)

	deckBefore := s.DevCardsRemaining()
	vpsBefore := s.ActualVPs(0)
	require.NoError(t, s.Apply(Action{Kind: ActionBuyDevelopmentCard, Color: 0, Node: NoNode, Victim: NoColor, Give: NoResource, Take: NoResource}))
	require.Equal(t, deckBefore-1, s.DevCardsRemaining())
	require.Equal(t, FreqDeck{}, s.PlayerHand(0))

	held := 0
	for card, n := range s.DevHand(0) {
		held += int(n)
		if n > 0 {
			require.False(t, s.CanPlayDev(0, DevCard(card)),
				"a card bought this turn must wait a turn")
		}
	}
	if held == 0 {
		require.Equal(t, vpsBefore+1, s.ActualVPs(0), "a drawn victory point scores immediately")
	}
}

func TestDevCardPlays(t *testing.T) {
	t.Run("knight moves the robber and only one dev card per turn", func(t *testing.T) {
		s := playReadyState(t, 42)
		roll(t, s, 2, 3)
		s.devHand(0)[Knight] = 2

		require.NoError(t, s.Apply(Action{Kind: ActionPlayKnight, Color: 0, Node: NoNode, Victim: NoColor, Give: NoResource, Take: NoResource}))
		require.Equal(t, PromptMoveRobber, s.ActionPrompt())
		require.Equal(t, 1, s.ArmySize(0))

		robberMove := s.PlayableActions()[0]
		require.NoError(t, s.Apply(robberMove))

		err := s.Apply(Action{Kind: ActionPlayKnight, Color: 0, Node: NoNode, Victim: NoColor, Give: NoResource, Take: NoResource})
		require.Error(t, err, "a second dev card in the same turn is rejected")
	})

	t.Run("monopoly drains every other hand", func(t *testing.T) {
		s := playReadyState(t, 42)
		roll(t, s, 2, 3)
		s.devHand(0)[Monopoly] = 1
		setHand(s, 1, FreqDeck{0, 0, 3, 0, 0})
		setHand(s, 2, FreqDeck{0, 0, 2, 0, 0})
		mineBefore := s.PlayerHand(0)[Sheep]

		require.NoError(t, s.Apply(Action{Kind: ActionPlayMonopoly, Color: 0, Node: NoNode, Victim: NoColor, Give: Sheep, Take: NoResource}))
		require.Equal(t, mineBefore+5, s.PlayerHand(0)[Sheep])
		require.Equal(t, uint8(0), s.PlayerHand(1)[Sheep])
		require.Equal(t, uint8(0), s.PlayerHand(2)[Sheep])
	})

	t.Run("year of plenty grants two from the bank", func(t *testing.T) {
		s := playReadyState(t, 42)
		roll(t, s, 2, 3)
		s.devHand(0)[YearOfPlenty] = 1
		before := s.PlayerHand(0)

		require.NoError(t, s.Apply(Action{Kind: ActionPlayYearOfPlenty, Color: 0, Node: NoNode, Victim: NoColor, Give: Ore, Take: Ore}))
		require.Equal(t, before[Ore]+2, s.PlayerHand(0)[Ore])
	})

	t.Run("dev cards wait for the dice", func(t *testing.T) {
		s := playReadyState(t, 42)
		s.devHand(0)[Knight] = 1
		s.devHand(0)[Monopoly] = 1

		err := s.Apply(Action{Kind: ActionPlayKnight, Color: 0, Node: NoNode, Victim: NoColor, Give: NoResource, Take: NoResource})
		require.Error(t, err)
		require.Equal(t, ErrInvalidStateTransition, KindOf(err))

		err = s.Apply(Action{Kind: ActionPlayMonopoly, Color: 0, Node: NoNode, Victim: NoColor, Give: Sheep, Take: NoResource})
		require.Error(t, err)
		require.Equal(t, ErrInvalidStateTransition, KindOf(err))
		require.Equal(t, uint8(1), s.DevHand(0)[Knight], "the rejected card stays in hand")
	})

	t.Run("road building lays two free roads", func(t *testing.T) {
		s := playReadyState(t, 42)
		roll(t, s, 2, 3)
		s.devHand(0)[RoadBuilding] = 1
		handBefore := s.PlayerHand(0)
		roadsBefore := s.RoadCount(0)

		require.NoError(t, s.Apply(Action{Kind: ActionPlayRoadBuilding, Color: 0, Node: NoNode, Victim: NoColor, Give: NoResource, Take: NoResource}))
		require.Equal(t, 2, s.FreeRoads())

		for i := 0; i < 2; i++ {
			actions := s.PlayableActions()
			require.NotEmpty(t, actions)
			require.Equal(t, ActionBuildRoad, actions[0].Kind, "only roads while free roads remain")
			require.NoError(t, s.Apply(actions[0]))
		}
		require.Equal(t, 0, s.FreeRoads())
		require.Equal(t, roadsBefore+2, s.RoadCount(0))
		require.Equal(t, handBefore, s.PlayerHand(0), "free roads cost nothing")
	})

	t.Run("an unplaceable free road is forfeited", func(t *testing.T) {
		s := playReadyState(t, 42)
		roll(t, s, 2, 3)
		s.roadsByColor[0] = MaxRoads - 1
		s.vector[idxFreeRoads] = 2
		s.vector.setFlag(idxBuildingRoad, true)

		edges := s.BuildableEdges(0)
		require.NotEmpty(t, edges)
		require.NoError(t, s.Apply(Action{Kind: ActionBuildRoad, Color: 0, Edge: edges[0], Node: NoNode, Victim: NoColor, Give: NoResource, Take: NoResource}))

		require.Equal(t, MaxRoads, s.RoadCount(0))
		require.Equal(t, 0, s.FreeRoads(), "the second free road has no piece left")
		require.False(t, s.IsBuildingRoad())

		for _, a := range s.PlayableActions() {
			require.NotEqual(t, ActionBuildRoad, a.Kind)
		}
	})
}

func TestMaritimeTrade(t *testing.T) {
	s := playReadyState(t, 42)
	roll(t, s, 2, 3)

	t.Run("four to one without a harbor", func(t *testing.T) {
		setHand(s, 0, FreqDeck{4, 0, 0, 0, 0})
		require.Equal(t, uint8(4), s.PortRatio(0, Wood))
		require.NoError(t, s.Apply(Action{Kind: ActionMaritimeTrade, Color: 0, Node: NoNode, Victim: NoColor, Give: Wood, Take: Ore, Ratio: 4}))
		require.Equal(t, FreqDeck{0, 0, 0, 0, 1}, s.PlayerHand(0))
	})

	t.Run("a better ratio than earned is rejected", func(t *testing.T) {
		setHand(s, 0, FreqDeck{4, 0, 0, 0, 0})
		err := s.Apply(Action{Kind: ActionMaritimeTrade, Color: 0, Node: NoNode, Victim: NoColor, Give: Wood, Take: Ore, Ratio: 2})
		require.Error(t, err)
		require.Equal(t, ErrRuleViolation, KindOf(err))
	})

	t.Run("harbors sharpen the ratio", func(t *testing.T) {
		var port Port
		var node NodeId
		found := false
		for _, p := range s.Board().Ports() {
			for _, n := range p.Nodes {
				if _, free := s.boardBuildable[n]; free {
					port, node, found = p, n, true
					break
				}
			}
			if found {
				break
			}
		}
		require.True(t, found, "some harbor node should still be free")

		s.placeSettlement(0, node)
		if port.Resource == NoResource {
			require.Equal(t, uint8(3), s.PortRatio(0, Wood))
		} else {
			require.Equal(t, uint8(2), s.PortRatio(0, port.Resource))
		}
	})
}

func TestEndTurn(t *testing.T) {
	s := playReadyState(t, 42)

	t.Run("requires a roll first", func(t *testing.T) {
		err := s.Apply(Action{Kind: ActionEndTurn, Color: 0, Node: NoNode, Victim: NoColor, Give: NoResource, Take: NoResource})
		require.Error(t, err)
		require.Equal(t, ErrInvalidStateTransition, KindOf(err))
	})

	t.Run("advances the seat and clears turn flags", func(t *testing.T) {
		roll(t, s, 2, 3)
		require.NoError(t, s.Apply(Action{Kind: ActionEndTurn, Color: 0, Node: NoNode, Victim: NoColor, Give: NoResource, Take: NoResource}))
		require.Equal(t, Color(1), s.CurrentTurnColor())
		require.Equal(t, Color(1), s.CurrentColor())
		require.False(t, s.HasRolled())
	})

	t.Run("the old seat may no longer act", func(t *testing.T) {
		err := s.Apply(Action{Kind: ActionRoll, Color: 0, Node: NoNode, Victim: NoColor, Give: NoResource, Take: NoResource})
		require.Error(t, err)
		require.Equal(t, ErrNotPlayerTurn, KindOf(err))
	})
}

func TestWinDetection(t *testing.T) {
	s := playReadyState(t, 42)
	roll(t, s, 2, 3)

	setHand(s, 0, FreqDeck{10, 10, 4, 4, 3})
	for len(s.BuildableNodes(0)) == 0 {
		require.NoError(t, s.Apply(Action{Kind: ActionBuildRoad, Color: 0, Edge: s.BuildableEdges(0)[0], Node: NoNode, Victim: NoColor, Give: NoResource, Take: NoResource}))
	}
	s.addVPs(0, 9-s.ActualVPs(0)) // one settlement short of ten
	node := s.BuildableNodes(0)[0]
	require.NoError(t, s.Apply(Action{Kind: ActionBuildSettlement, Color: 0, Node: node, Victim: NoColor, Give: NoResource, Take: NoResource}))

	winner, over := s.Winner()
	require.True(t, over)
	require.Equal(t, Color(0), winner)
	require.Equal(t, PromptTerminal, s.ActionPrompt())
	require.Empty(t, s.PlayableActions())

	err := s.Apply(Action{Kind: ActionEndTurn, Color: 0, Node: NoNode, Victim: NoColor, Give: NoResource, Take: NoResource})
	require.Error(t, err)
	require.Equal(t, ErrGameNotInProgress, KindOf(err))
}
