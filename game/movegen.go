package game

import "golang.org/x/exp/slices"

// PlayableActions enumerates every legal action for the current tick seat,
// in canonical order: tag order first, then ascending node/edge/payload.
// The ordering is load-bearing for reproducible self-play.
func (s *State) PlayableActions() []Action {
	var out []Action
	c := s.CurrentColor()
	switch s.ActionPrompt() {
	case PromptTerminal:
		return nil
	case PromptBuildInitialSettlement:
		for _, n := range s.BuildableNodes(c) {
			out = append(out, Action{Kind: ActionBuildSettlement, Color: c, Node: n, Victim: NoColor, Give: NoResource, Take: NoResource})
		}
	case PromptBuildInitialRoad:
		for _, e := range s.board.NeighborEdges(s.lastPlaced) {
			if _, taken := s.roads[[2]NodeId{e.A, e.B}]; taken {
				continue
			}
			out = append(out, Action{Kind: ActionBuildRoad, Color: c, Edge: e, Node: NoNode, Victim: NoColor, Give: NoResource, Take: NoResource})
		}
	case PromptDiscard:
		out = append(out, Action{Kind: ActionDiscard, Color: c, Node: NoNode, Victim: NoColor, Give: NoResource, Take: NoResource})
	case PromptMoveRobber:
		out = s.robberActions(c)
	case PromptPlayTurn:
		out = s.playTurnActions(c)
	}
	slices.SortFunc(out, func(a, b Action) int {
		if a.less(b) {
			return -1
		}
		if b.less(a) {
			return 1
		}
		return 0
	})
	return out
}

func (s *State) robberActions(c Color) []Action {
	var out []Action
	robber := s.vector[idxRobberTile]
	for _, tile := range s.board.LandTiles() {
		if tile.ID == robber {
			continue
		}
		victims := s.RobberVictims(c, tile.ID)
		if len(victims) == 0 {
			out = append(out, Action{Kind: ActionMoveRobber, Color: c, Coord: tile.Coord, Node: NoNode, Victim: NoColor, Give: NoResource, Take: NoResource})
			continue
		}
		for _, v := range victims {
			out = append(out, Action{Kind: ActionMoveRobber, Color: c, Coord: tile.Coord, Node: NoNode, Victim: v, Give: NoResource, Take: NoResource})
		}
	}
	return out
}

func (s *State) playTurnActions(c Color) []Action {
	base := Action{Color: c, Node: NoNode, Victim: NoColor, Give: NoResource, Take: NoResource}

	if !s.vector.flag(idxHasRolled) {
		roll := base
		roll.Kind = ActionRoll
		return []Action{roll}
	}

	// road building in progress: the free roads must be laid first. The
	// applicator forfeits flags that can no longer be honored, so a set
	// flag implies a placeable edge.
	if s.vector[idxFreeRoads] > 0 {
		if edges := s.BuildableEdges(c); len(edges) > 0 && int(s.roadsByColor[c]) < MaxRoads {
			out := make([]Action, 0, len(edges))
			for _, e := range edges {
				a := base
				a.Kind = ActionBuildRoad
				a.Edge = e
				out = append(out, a)
			}
			return out
		}
	}

	var out []Action
	hand := s.PlayerHand(c)
	bank := s.BankResources()

	if hand.Covers(RoadCost) && int(s.roadsByColor[c]) < MaxRoads {
		for _, e := range s.BuildableEdges(c) {
			a := base
			a.Kind = ActionBuildRoad
			a.Edge = e
			out = append(out, a)
		}
	}
	if hand.Covers(SettlementCost) && s.settlementCount(c) < MaxSettlements {
		for _, n := range s.BuildableNodes(c) {
			a := base
			a.Kind = ActionBuildSettlement
			a.Node = n
			out = append(out, a)
		}
	}
	if hand.Covers(CityCost) && len(s.Cities(c)) < MaxCities {
		for _, b := range s.Settlements(c) {
			a := base
			a.Kind = ActionBuildCity
			a.Node = b.Node
			out = append(out, a)
		}
	}
	if hand.Covers(DevCardCost) && s.DevCardsRemaining() > 0 {
		a := base
		a.Kind = ActionBuyDevelopmentCard
		out = append(out, a)
	}

	out = append(out, s.devCardActions(c, base, bank)...)
	out = append(out, s.maritimeTradeActions(c, base, hand, bank)...)

	end := base
	end.Kind = ActionEndTurn
	out = append(out, end)
	return out
}

func (s *State) devCardActions(c Color, base Action, bank FreqDeck) []Action {
	var out []Action
	if s.CanPlayDev(c, Knight) {
		a := base
		a.Kind = ActionPlayKnight
		out = append(out, a)
	}
	if s.CanPlayDev(c, YearOfPlenty) {
		for r1 := Resource(0); r1 < NumResources; r1++ {
			if bank[r1] == 0 {
				continue
			}
			for r2 := r1; r2 < NumResources; r2++ {
				need := uint8(1)
				if r2 == r1 {
					need = 2
				}
				if bank[r2] < need {
					continue
				}
				a := base
				a.Kind = ActionPlayYearOfPlenty
				a.Give, a.Take = r1, r2
				out = append(out, a)
			}
		}
		if bank.Total() == 1 {
			for r := Resource(0); r < NumResources; r++ {
				if bank[r] > 0 {
					a := base
					a.Kind = ActionPlayYearOfPlenty
					a.Give = r
					out = append(out, a)
				}
			}
		}
	}
	if s.CanPlayDev(c, Monopoly) {
		for r := Resource(0); r < NumResources; r++ {
			a := base
			a.Kind = ActionPlayMonopoly
			a.Give = r
			out = append(out, a)
		}
	}
	if s.CanPlayDev(c, RoadBuilding) && int(s.roadsByColor[c]) < MaxRoads {
		a := base
		a.Kind = ActionPlayRoadBuilding
		out = append(out, a)
	}
	return out
}

func (s *State) maritimeTradeActions(c Color, base Action, hand, bank FreqDeck) []Action {
	var out []Action
	for give := Resource(0); give < NumResources; give++ {
		ratio := s.PortRatio(c, give)
		if hand[give] < ratio {
			continue
		}
		for take := Resource(0); take < NumResources; take++ {
			if take == give || bank[take] == 0 {
				continue
			}
			a := base
			a.Kind = ActionMaritimeTrade
			a.Give, a.Take, a.Ratio = give, take, ratio
			out = append(out, a)
		}
	}
	return out
}
