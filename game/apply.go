package game

// Apply validates the action against the current phase and mutates the
// state, keeping every cache in sync. Errors leave the state untouched.
func (s *State) Apply(a Action) error {
	if s.winner != NoColor {
		return newError(ErrGameNotInProgress, "game already has a winner")
	}
	if a.Color != s.CurrentColor() {
		return newError(ErrNotPlayerTurn, "color %d acted but it is color %d's turn", a.Color, s.CurrentColor())
	}

	prompt := s.ActionPrompt()
	var err error
	switch a.Kind {
	case ActionRoll:
		err = s.applyRoll(a, prompt)
	case ActionDiscard:
		err = s.applyDiscard(a, prompt)
	case ActionMoveRobber:
		err = s.applyMoveRobber(a, prompt)
	case ActionBuildSettlement:
		err = s.applyBuildSettlement(a, prompt)
	case ActionBuildRoad:
		err = s.applyBuildRoad(a, prompt)
	case ActionBuildCity:
		err = s.applyBuildCity(a, prompt)
	case ActionBuyDevelopmentCard:
		err = s.applyBuyDevCard(a, prompt)
	case ActionPlayKnight:
		err = s.applyPlayKnight(a, prompt)
	case ActionPlayYearOfPlenty:
		err = s.applyYearOfPlenty(a, prompt)
	case ActionPlayMonopoly:
		err = s.applyMonopoly(a, prompt)
	case ActionPlayRoadBuilding:
		err = s.applyRoadBuilding(a, prompt)
	case ActionMaritimeTrade:
		err = s.applyMaritimeTrade(a, prompt)
	case ActionEndTurn:
		err = s.applyEndTurn(a, prompt)
	default:
		err = newError(ErrInvalidAction, "action %s is not supported", a.Kind)
	}
	if err != nil {
		return err
	}
	s.tick++
	return nil
}

func requirePlayTurn(prompt ActionPrompt, kind ActionKind) error {
	if prompt != PromptPlayTurn {
		return newError(ErrInvalidStateTransition, "%s is not allowed during %s", kind, prompt)
	}
	return nil
}

// bank transfer helpers

func (s *State) payToBank(c Color, cost FreqDeck) error {
	hand := s.hand(c)
	for r, n := range cost {
		if hand[r] < n {
			return newError(ErrInsufficientResources, "not enough %s", Resource(r))
		}
	}
	bank := s.bank()
	for r, n := range cost {
		hand[r] -= n
		bank[r] += n
	}
	return nil
}

// grantFromBank moves up to n units of r to the player, returning how many
// the bank could cover.
func (s *State) grantFromBank(c Color, r Resource, n uint8) uint8 {
	bank := s.bank()
	if bank[r] < n {
		n = bank[r]
	}
	bank[r] -= n
	s.hand(c)[r] += n
	return n
}

func (s *State) addVPs(c Color, delta int) {
	idx := s.vpIndex(c)
	s.vector[idx] = uint8(int(s.vector[idx]) + delta)
	if s.winner == NoColor && int(s.vector[idx]) >= s.config.VPsToWin {
		s.winner = c
	}
}

// Roll

func (s *State) applyRoll(a Action, prompt ActionPrompt) error {
	if err := requirePlayTurn(prompt, a.Kind); err != nil {
		return err
	}
	if s.vector.flag(idxHasRolled) {
		return newError(ErrInvalidStateTransition, "dice were already rolled this turn")
	}
	d1, d2 := a.Dice[0], a.Dice[1]
	if d1 == 0 && d2 == 0 {
		d1 = uint8(s.randIntn(6)) + 1
		d2 = uint8(s.randIntn(6)) + 1
	}
	if d1 < 1 || d1 > 6 || d2 < 1 || d2 > 6 {
		return newError(ErrInvalidAction, "dice must be between 1 and 6")
	}
	s.lastRoll = [2]uint8{d1, d2}
	s.vector.setFlag(idxHasRolled, true)

	sum := d1 + d2
	if sum != 7 {
		s.distributeProduction(sum)
		return nil
	}

	s.pendingDiscards = s.pendingDiscards[:0]
	for i := 0; i < s.config.NumPlayers; i++ {
		c := s.seatAt(s.seatIndex(s.CurrentTurnColor()) + i)
		if s.PlayerHand(c).Total() > s.config.DiscardLimit {
			s.pendingDiscards = append(s.pendingDiscards, c)
		}
	}
	if len(s.pendingDiscards) > 0 {
		s.vector.setFlag(idxDiscarding, true)
		s.vector[idxCurrentTickSeat] = uint8(s.pendingDiscards[0])
	} else {
		s.vector.setFlag(idxMovingRobber, true)
	}
	return nil
}

// distributeProduction pays every building adjacent to a producing tile,
// honoring the bank shortage rule: if a resource's demand exceeds the
// bank's stock and more than one color wants it, nobody gets any; a single
// claimant takes whatever is left.
func (s *State) distributeProduction(sum uint8) {
	type claim struct {
		color  Color
		amount uint8
	}
	claims := [NumResources][]claim{}
	robber := s.vector[idxRobberTile]
	for _, tile := range s.board.TilesByNumber(sum) {
		if tile.ID == robber {
			continue
		}
		for _, n := range s.board.TileNodes(tile.ID) {
			b, ok := s.buildings[n]
			if !ok {
				continue
			}
			amount := uint8(1)
			if b.Kind == CityBuilding {
				amount = 2
			}
			claims[tile.Resource] = append(claims[tile.Resource], claim{b.Color, amount})
		}
	}

	bank := s.bank()
	for r, list := range claims {
		if len(list) == 0 {
			continue
		}
		demand := uint8(0)
		colors := make(map[Color]struct{})
		for _, cl := range list {
			demand += cl.amount
			colors[cl.color] = struct{}{}
		}
		switch {
		case demand <= bank[r]:
			for _, cl := range list {
				bank[r] -= cl.amount
				s.hand(cl.color)[r] += cl.amount
			}
		case len(colors) == 1:
			s.grantFromBank(list[0].color, Resource(r), demand)
		}
		// shortage with multiple claimants: no payout
	}
}

// Discard

func (s *State) applyDiscard(a Action, prompt ActionPrompt) error {
	if prompt != PromptDiscard {
		return newError(ErrInvalidStateTransition, "no discard is pending")
	}
	c := a.Color
	hand := s.hand(c)
	bank := s.bank()
	total := s.PlayerHand(c).Total()
	target := (total + 1) / 2
	// Peel from the most-held resource types, one card at a time, until
	// half the hand (rounded up) is gone.
	discarded := 0
	for discarded < target {
		max := uint8(0)
		for _, n := range hand {
			if n > max {
				max = n
			}
		}
		for r := 0; r < NumResources && discarded < target; r++ {
			if hand[r] == max {
				hand[r]--
				bank[r]++
				discarded++
			}
		}
	}

	s.pendingDiscards = s.pendingDiscards[1:]
	if len(s.pendingDiscards) > 0 {
		s.vector[idxCurrentTickSeat] = uint8(s.pendingDiscards[0])
		return nil
	}
	s.vector.setFlag(idxDiscarding, false)
	s.vector.setFlag(idxMovingRobber, true)
	s.vector[idxCurrentTickSeat] = s.vector[idxCurrentTurnSeat]
	return nil
}

// MoveRobber

func (s *State) applyMoveRobber(a Action, prompt ActionPrompt) error {
	if prompt != PromptMoveRobber {
		return newError(ErrInvalidStateTransition, "the robber is not being moved")
	}
	tile, ok := s.board.GetLandTile(a.Coord)
	if !ok {
		return newError(ErrInvalidAction, "no land tile at %v", a.Coord)
	}
	if tile.ID == s.vector[idxRobberTile] {
		return newError(ErrRuleViolation, "robber must move to a different tile")
	}
	if a.Victim != NoColor {
		victims := s.RobberVictims(a.Color, tile.ID)
		found := false
		for _, v := range victims {
			if v == a.Victim {
				found = true
				break
			}
		}
		if !found {
			return newError(ErrRuleViolation, "color %d cannot be robbed at %v", a.Victim, a.Coord)
		}
	}

	s.vector[idxRobberTile] = tile.ID
	s.vector.setFlag(idxMovingRobber, false)
	if a.Victim != NoColor {
		s.steal(a.Color, a.Victim)
	}
	return nil
}

// steal moves one uniformly random card from victim to thief.
func (s *State) steal(thief, victim Color) {
	hand := s.hand(victim)
	total := 0
	for _, n := range hand {
		total += int(n)
	}
	if total == 0 {
		return
	}
	pick := s.randIntn(total)
	for r := 0; r < NumResources; r++ {
		pick -= int(hand[r])
		if pick < 0 {
			hand[r]--
			s.hand(thief)[r]++
			return
		}
	}
}

// Building

func (s *State) placeSettlement(c Color, node NodeId) {
	b := Building{Kind: SettlementBuilding, Color: c, Node: node}
	s.buildings[node] = b
	s.buildingsByColor[c] = append(s.buildingsByColor[c], b)
	delete(s.boardBuildable, node)
	for _, nb := range s.board.NeighborNodes(node) {
		delete(s.boardBuildable, nb)
	}
	s.addVPs(c, 1)
}

func (s *State) applyBuildSettlement(a Action, prompt ActionPrompt) error {
	c := a.Color
	if prompt == PromptBuildInitialSettlement {
		if _, ok := s.boardBuildable[a.Node]; !ok {
			return newError(ErrRuleViolation, "node %d is occupied or adjacent to an existing building", a.Node)
		}
		s.placeSettlement(c, a.Node)
		s.lastPlaced = a.Node
		if s.settlementCount(c) == 2 {
			// the second settlement yields its adjacent tiles' resources
			for _, tile := range s.board.AdjacentTiles(a.Node) {
				if !tile.Desert() {
					s.grantFromBank(c, tile.Resource, 1)
				}
			}
		}
		return nil
	}

	if err := requirePlayTurn(prompt, a.Kind); err != nil {
		return err
	}
	if !s.vector.flag(idxHasRolled) {
		return newError(ErrInvalidStateTransition, "roll the dice before building")
	}
	if s.settlementCount(c) >= MaxSettlements {
		return newError(ErrRuleViolation, "no settlement pieces left")
	}
	if _, ok := s.boardBuildable[a.Node]; !ok {
		return newError(ErrRuleViolation, "node %d is occupied or adjacent to an existing building", a.Node)
	}
	connected := false
	for _, comp := range s.components[c] {
		if _, ok := comp[a.Node]; ok {
			connected = true
			break
		}
	}
	if !connected {
		return newError(ErrRuleViolation, "node %d is not connected to your roads", a.Node)
	}
	if err := s.payToBank(c, SettlementCost); err != nil {
		return err
	}

	s.placeSettlement(c, a.Node)
	// an opposing chain through this node is now plowed in two
	for d := Color(0); int(d) < s.config.NumPlayers; d++ {
		if d == c {
			continue
		}
		for _, e := range s.board.NeighborEdges(a.Node) {
			if owner, ok := s.roads[[2]NodeId{e.A, e.B}]; ok && owner == d {
				s.rebuildComponents(d)
				break
			}
		}
	}
	s.rebuildComponents(c)
	s.refreshLongestRoad()
	return nil
}

func (s *State) applyBuildRoad(a Action, prompt ActionPrompt) error {
	c := a.Color
	edge := NewEdgeId(a.Edge.A, a.Edge.B)
	if _, taken := s.roads[[2]NodeId{edge.A, edge.B}]; taken {
		return newError(ErrRuleViolation, "edge %d-%d already carries a road", edge.A, edge.B)
	}
	if int(s.roadsByColor[c]) >= MaxRoads {
		return newError(ErrRuleViolation, "no road pieces left")
	}

	switch prompt {
	case PromptBuildInitialRoad:
		if edge.A != s.lastPlaced && edge.B != s.lastPlaced {
			return newError(ErrRuleViolation, "initial road must touch the settlement just placed")
		}
	case PromptPlayTurn:
		if !s.vector.flag(idxHasRolled) {
			return newError(ErrInvalidStateTransition, "roll the dice before building")
		}
		if !s.edgeBuildable(c, edge) {
			return newError(ErrRuleViolation, "edge %d-%d does not connect to your network", edge.A, edge.B)
		}
		if s.vector[idxFreeRoads] > 0 {
			s.vector[idxFreeRoads]--
			if s.vector[idxFreeRoads] == 0 {
				s.vector.setFlag(idxBuildingRoad, false)
			}
		} else if err := s.payToBank(c, RoadCost); err != nil {
			return err
		}
	default:
		return newError(ErrInvalidStateTransition, "%s is not allowed during %s", a.Kind, prompt)
	}

	s.roads[[2]NodeId{edge.A, edge.B}] = c
	s.roads[[2]NodeId{edge.B, edge.A}] = c
	s.roadsByColor[c]++
	s.rebuildComponents(c)

	if prompt == PromptBuildInitialRoad {
		s.advanceInitial()
		return nil
	}
	// remaining free roads that can no longer be placed are forfeited
	if s.vector[idxFreeRoads] > 0 &&
		(int(s.roadsByColor[c]) >= MaxRoads || len(s.BuildableEdges(c)) == 0) {
		s.vector[idxFreeRoads] = 0
		s.vector.setFlag(idxBuildingRoad, false)
	}
	s.refreshLongestRoad()
	return nil
}

// edgeBuildable checks regular-play road placement: the edge must extend
// the player's network from an endpoint that is not blocked by an opposing
// building.
func (s *State) edgeBuildable(c Color, e EdgeId) bool {
	for _, n := range [2]NodeId{e.A, e.B} {
		if b, ok := s.buildings[n]; ok {
			if b.Color == c {
				return true
			}
			continue // cannot extend through an opposing building
		}
		for _, nb := range s.board.NeighborNodes(n) {
			if owner, ok := s.roads[[2]NodeId{n, nb}]; ok && owner == c {
				return true
			}
		}
	}
	return false
}

// advanceInitial moves the snake draft forward: ahead through the seats,
// the boundary seat twice, then back. The phase ends after 2N placements
// with the first turn belonging to the first seat.
func (s *State) advanceInitial() {
	n := s.config.NumPlayers
	placed := 0
	for c := Color(0); int(c) < n; c++ {
		placed += int(s.roadsByColor[c])
	}
	i := s.seatIndex(s.CurrentColor())
	var next Color
	switch {
	case placed == 2*n:
		s.vector.setFlag(idxInitialBuildPhase, false)
		s.lastPlaced = NoNode
		next = s.seatAt(0)
	case placed < n:
		next = s.seatAt(i + 1)
	case placed == n:
		next = s.seatAt(i)
	default:
		next = s.seatAt(i - 1)
	}
	s.vector[idxCurrentTickSeat] = uint8(next)
	s.vector[idxCurrentTurnSeat] = uint8(next)
}

func (s *State) applyBuildCity(a Action, prompt ActionPrompt) error {
	if err := requirePlayTurn(prompt, a.Kind); err != nil {
		return err
	}
	if !s.vector.flag(idxHasRolled) {
		return newError(ErrInvalidStateTransition, "roll the dice before building")
	}
	c := a.Color
	b, ok := s.buildings[a.Node]
	if !ok || b.Color != c || b.Kind != SettlementBuilding {
		return newError(ErrRuleViolation, "node %d has no settlement of yours to upgrade", a.Node)
	}
	if len(s.Cities(c)) >= MaxCities {
		return newError(ErrRuleViolation, "no city pieces left")
	}
	if err := s.payToBank(c, CityCost); err != nil {
		return err
	}
	upgraded := Building{Kind: CityBuilding, Color: c, Node: a.Node}
	s.buildings[a.Node] = upgraded
	for i, old := range s.buildingsByColor[c] {
		if old.Node == a.Node {
			s.buildingsByColor[c][i] = upgraded
			break
		}
	}
	s.addVPs(c, 1)
	return nil
}

// Development cards

func (s *State) applyBuyDevCard(a Action, prompt ActionPrompt) error {
	if err := requirePlayTurn(prompt, a.Kind); err != nil {
		return err
	}
	if !s.vector.flag(idxHasRolled) {
		return newError(ErrInvalidStateTransition, "roll the dice before buying")
	}
	if s.DevCardsRemaining() == 0 {
		return newError(ErrRuleViolation, "the development deck is empty")
	}
	c := a.Color
	if err := s.payToBank(c, DevCardCost); err != nil {
		return err
	}
	drawnIdx := s.vector.devDrawnOffset(s.config.NumPlayers)
	card := DevCard(s.vector[s.vector.devDeckOffset(s.config.NumPlayers)+int(s.vector[drawnIdx])])
	s.vector[drawnIdx]++
	if card == VictoryPoint {
		s.playedDev(c)[VictoryPoint]++
		s.addVPs(c, 1)
		return nil
	}
	s.devHand(c)[card]++
	s.freshDev[c][card]++
	return nil
}

func (s *State) consumeDevCard(c Color, card DevCard) error {
	if !s.vector.flag(idxHasRolled) {
		return newError(ErrInvalidStateTransition, "roll the dice before playing a development card")
	}
	if !s.CanPlayDev(c, card) {
		return newError(ErrRuleViolation, "%s cannot be played this turn", card)
	}
	s.devHand(c)[card]--
	s.playedDev(c)[card]++
	s.vector.setFlag(idxPlayedDevCard, true)
	return nil
}

func (s *State) applyPlayKnight(a Action, prompt ActionPrompt) error {
	if err := requirePlayTurn(prompt, a.Kind); err != nil {
		return err
	}
	if err := s.consumeDevCard(a.Color, Knight); err != nil {
		return err
	}
	s.vector.setFlag(idxMovingRobber, true)
	s.refreshLargestArmy()
	return nil
}

func (s *State) applyYearOfPlenty(a Action, prompt ActionPrompt) error {
	if err := requirePlayTurn(prompt, a.Kind); err != nil {
		return err
	}
	if a.Give == NoResource {
		return newError(ErrInvalidAction, "year of plenty needs at least one resource")
	}
	if s.bank()[a.Give] == 0 {
		return newError(ErrInsufficientResources, "the bank has no %s", a.Give)
	}
	if a.Take != NoResource {
		need := uint8(1)
		if a.Take == a.Give {
			need = 2
		}
		if s.bank()[a.Take] < need {
			return newError(ErrInsufficientResources, "the bank has no %s", a.Take)
		}
	}
	if err := s.consumeDevCard(a.Color, YearOfPlenty); err != nil {
		return err
	}
	s.grantFromBank(a.Color, a.Give, 1)
	if a.Take != NoResource {
		s.grantFromBank(a.Color, a.Take, 1)
	}
	return nil
}

func (s *State) applyMonopoly(a Action, prompt ActionPrompt) error {
	if err := requirePlayTurn(prompt, a.Kind); err != nil {
		return err
	}
	if a.Give == NoResource {
		return newError(ErrInvalidAction, "monopoly needs a resource")
	}
	if err := s.consumeDevCard(a.Color, Monopoly); err != nil {
		return err
	}
	mine := s.hand(a.Color)
	for c := Color(0); int(c) < s.config.NumPlayers; c++ {
		if c == a.Color {
			continue
		}
		theirs := s.hand(c)
		mine[a.Give] += theirs[a.Give]
		theirs[a.Give] = 0
	}
	return nil
}

func (s *State) applyRoadBuilding(a Action, prompt ActionPrompt) error {
	if err := requirePlayTurn(prompt, a.Kind); err != nil {
		return err
	}
	if err := s.consumeDevCard(a.Color, RoadBuilding); err != nil {
		return err
	}
	free := MaxRoads - int(s.roadsByColor[a.Color])
	if free > 2 {
		free = 2
	}
	s.vector[idxFreeRoads] = uint8(free)
	if free > 0 && len(s.BuildableEdges(a.Color)) > 0 {
		s.vector.setFlag(idxBuildingRoad, true)
	} else {
		s.vector[idxFreeRoads] = 0
	}
	return nil
}

// Trade and turn end

func (s *State) applyMaritimeTrade(a Action, prompt ActionPrompt) error {
	if err := requirePlayTurn(prompt, a.Kind); err != nil {
		return err
	}
	if !s.vector.flag(idxHasRolled) {
		return newError(ErrInvalidStateTransition, "roll the dice before trading")
	}
	if a.Give == NoResource || a.Take == NoResource || a.Give == a.Take {
		return newError(ErrInvalidAction, "trade must exchange two distinct resources")
	}
	c := a.Color
	if a.Ratio < 2 || a.Ratio > 4 || a.Ratio < s.PortRatio(c, a.Give) {
		return newError(ErrRuleViolation, "no harbor grants you %d:1 for %s", a.Ratio, a.Give)
	}
	hand := s.hand(c)
	if hand[a.Give] < a.Ratio {
		return newError(ErrInsufficientResources, "not enough %s", a.Give)
	}
	bank := s.bank()
	if bank[a.Take] == 0 {
		return newError(ErrInsufficientResources, "the bank has no %s", a.Take)
	}
	hand[a.Give] -= a.Ratio
	bank[a.Give] += a.Ratio
	bank[a.Take]--
	hand[a.Take]++
	return nil
}

func (s *State) applyEndTurn(a Action, prompt ActionPrompt) error {
	if err := requirePlayTurn(prompt, a.Kind); err != nil {
		return err
	}
	if !s.vector.flag(idxHasRolled) {
		return newError(ErrInvalidStateTransition, "roll the dice before ending the turn")
	}
	c := a.Color
	s.vector.setFlag(idxHasRolled, false)
	s.vector.setFlag(idxPlayedDevCard, false)
	s.vector.setFlag(idxBuildingRoad, false)
	s.vector[idxFreeRoads] = 0
	s.freshDev[c] = [NumDevCards]uint8{}
	next := s.seatAt(s.seatIndex(c) + 1)
	s.vector[idxCurrentTurnSeat] = uint8(next)
	s.vector[idxCurrentTickSeat] = uint8(next)
	return nil
}
