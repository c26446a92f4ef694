package game

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/rand"
	"golang.org/x/exp/slices"
)

// BuildingKind distinguishes settlements from cities.
type BuildingKind uint8

const (
	SettlementBuilding BuildingKind = iota
	CityBuilding
)

// Building is a settlement or city owned by a color on a node.
type Building struct {
	Kind  BuildingKind
	Color Color
	Node  NodeId
}

// ActionPrompt names what the engine expects next from the tick seat. It is
// a pure function of the state vector's flags.
type ActionPrompt uint8

const (
	PromptBuildInitialSettlement ActionPrompt = iota
	PromptBuildInitialRoad
	PromptPlayTurn
	PromptMoveRobber
	PromptDiscard
	PromptTerminal
)

var promptNames = [...]string{
	"BuildInitialSettlement", "BuildInitialRoad", "PlayTurn", "MoveRobber", "Discard", "Terminal",
}

func (p ActionPrompt) String() string { return promptNames[p] }

type nodeSet map[NodeId]struct{}

func (s nodeSet) clone() nodeSet { return maps.Clone(s) }

// State is the authoritative mutable state of one game. The flat vector is
// the source of truth; every map and counter below is a derived cache kept
// in sync by the applicator. The MapInstance is immutable and shared across
// copies, which keeps Copy cheap enough for search rollouts.
type State struct {
	config GameConfiguration
	board  *MapInstance
	vector stateVector
	rng    rand.PCGSource

	buildings        map[NodeId]Building
	buildingsByColor [][]Building
	roads            map[[2]NodeId]Color // both directions per road
	roadsByColor     []uint8
	components       [][]nodeSet
	roadLengths      []uint8
	boardBuildable   nodeSet

	longestRoadColor  Color
	longestRoadLength uint8
	largestArmyColor  Color
	largestArmyCount  uint8
	winner            Color

	// freshDev counts dev cards bought this turn; they cannot be played
	// until the turn after purchase.
	freshDev [][NumDevCards]uint8
	// lastPlaced is the settlement awaiting its road in the initial phase.
	lastPlaced NodeId
	// pendingDiscards queues the over-limit players after a 7 roll, in
	// seating order; the head is the seat expected to discard now.
	pendingDiscards []Color
	lastRoll        [2]uint8
	tick            int
}

// NewState creates a fresh game: instantiated map, shuffled dev deck,
// everything else at starting values. The same seed always produces the
// same map, deck and dice sequence.
func NewState(config GameConfiguration, seed uint64) *State {
	board := NewMapInstance(config.MapType, seed)
	s := &State{
		config:           config,
		board:            board,
		vector:           make(stateVector, vectorSize(config.NumPlayers)),
		buildings:        make(map[NodeId]Building),
		buildingsByColor: make([][]Building, config.NumPlayers),
		roads:            make(map[[2]NodeId]Color),
		roadsByColor:     make([]uint8, config.NumPlayers),
		components:       make([][]nodeSet, config.NumPlayers),
		roadLengths:      make([]uint8, config.NumPlayers),
		boardBuildable:   make(nodeSet, board.NumNodes()),
		longestRoadColor: NoColor,
		largestArmyColor: NoColor,
		winner:           NoColor,
		freshDev:         make([][NumDevCards]uint8, config.NumPlayers),
		lastPlaced:       NoNode,
	}
	s.rng.Seed(seed)

	v := s.vector
	v.setFlag(idxInitialBuildPhase, true)
	v[idxRobberTile] = board.DesertTile().ID
	for i := 0; i < config.NumPlayers; i++ {
		v[idxSeating+i] = uint8(i)
	}
	bank := s.bank()
	for r := range bank {
		bank[r] = BankResourceCount
	}
	s.shuffleDevDeck()
	for n := 0; n < board.NumNodes(); n++ {
		s.boardBuildable[NodeId(n)] = struct{}{}
	}
	return s
}

func (s *State) shuffleDevDeck() {
	off := s.vector.devDeckOffset(s.config.NumPlayers)
	deck := s.vector[off : off+DevDeckSize]
	i := 0
	for card, count := range DevDeckComposition {
		for n := uint8(0); n < count; n++ {
			deck[i] = uint8(card)
			i++
		}
	}
	for i := DevDeckSize - 1; i > 0; i-- {
		j := int(s.rng.Uint64() % uint64(i+1))
		deck[i], deck[j] = deck[j], deck[i]
	}
}

// Copy returns a deep copy sharing only the immutable map instance. The RNG
// state is copied too, so a copy replays the original's dice exactly.
func (s *State) Copy() *State {
	c := &State{
		config:            s.config,
		board:             s.board,
		vector:            slices.Clone(s.vector),
		rng:               s.rng,
		buildings:         maps.Clone(s.buildings),
		buildingsByColor:  make([][]Building, len(s.buildingsByColor)),
		roads:             maps.Clone(s.roads),
		roadsByColor:      slices.Clone(s.roadsByColor),
		components:        make([][]nodeSet, len(s.components)),
		roadLengths:       slices.Clone(s.roadLengths),
		boardBuildable:    s.boardBuildable.clone(),
		longestRoadColor:  s.longestRoadColor,
		longestRoadLength: s.longestRoadLength,
		largestArmyColor:  s.largestArmyColor,
		largestArmyCount:  s.largestArmyCount,
		winner:            s.winner,
		freshDev:          slices.Clone(s.freshDev),
		lastPlaced:        s.lastPlaced,
		pendingDiscards:   slices.Clone(s.pendingDiscards),
		lastRoll:          s.lastRoll,
		tick:              s.tick,
	}
	for i, bs := range s.buildingsByColor {
		c.buildingsByColor[i] = slices.Clone(bs)
	}
	for i, comps := range s.components {
		cloned := make([]nodeSet, len(comps))
		for j, set := range comps {
			cloned[j] = set.clone()
		}
		c.components[i] = cloned
	}
	return c
}

// Reseed replaces the RNG stream. Search uses it so that replayed clones
// draw fresh dice instead of repeating the original sequence.
func (s *State) Reseed(seed uint64) { s.rng.Seed(seed) }

func (s *State) Config() GameConfiguration { return s.config }
func (s *State) Board() *MapInstance       { return s.board }
func (s *State) NumPlayers() int           { return s.config.NumPlayers }

// Tick is the number of actions applied so far.
func (s *State) Tick() int { return s.tick }

// CurrentColor is the seat expected to act now; during discards it may
// differ from the turn seat.
func (s *State) CurrentColor() Color { return Color(s.vector[idxCurrentTickSeat]) }

// CurrentTurnColor is the seat whose overall turn it is.
func (s *State) CurrentTurnColor() Color { return Color(s.vector[idxCurrentTurnSeat]) }

func (s *State) IsInitialBuildPhase() bool { return s.vector.flag(idxInitialBuildPhase) }
func (s *State) HasRolled() bool           { return s.vector.flag(idxHasRolled) }
func (s *State) IsMovingRobber() bool      { return s.vector.flag(idxMovingRobber) }
func (s *State) IsDiscarding() bool        { return s.vector.flag(idxDiscarding) }
func (s *State) HasPlayedDevCard() bool    { return s.vector.flag(idxPlayedDevCard) }
func (s *State) IsBuildingRoad() bool      { return s.vector.flag(idxBuildingRoad) }
func (s *State) FreeRoads() int            { return int(s.vector[idxFreeRoads]) }

// LastRoll is the most recent dice pair, {0,0} before the first roll.
func (s *State) LastRoll() [2]uint8 { return s.lastRoll }

// RobberTile returns the hex the robber currently occupies.
func (s *State) RobberTile() LandTile { return s.board.Tile(s.vector[idxRobberTile]) }

// Winner returns the cached winner, if the game has ended.
func (s *State) Winner() (Color, bool) { return s.winner, s.winner != NoColor }

// ActionPrompt derives the expected next action class from the flags.
func (s *State) ActionPrompt() ActionPrompt {
	switch {
	case s.winner != NoColor:
		return PromptTerminal
	case s.vector.flag(idxDiscarding):
		return PromptDiscard
	case s.vector.flag(idxMovingRobber):
		return PromptMoveRobber
	case s.vector.flag(idxInitialBuildPhase):
		c := s.CurrentColor()
		if s.settlementCount(c) == int(s.roadsByColor[c]) {
			return PromptBuildInitialSettlement
		}
		return PromptBuildInitialRoad
	default:
		return PromptPlayTurn
	}
}

// seating helpers

func (s *State) seatAt(i int) Color {
	n := s.config.NumPlayers
	return Color(s.vector[idxSeating+((i%n)+n)%n])
}

func (s *State) seatIndex(c Color) int {
	for i := 0; i < s.config.NumPlayers; i++ {
		if s.seatAt(i) == c {
			return i
		}
	}
	return -1
}

// vector slice views

func (s *State) bank() []uint8 {
	off := s.vector.bankOffset(s.config.NumPlayers)
	return s.vector[off : off+NumResources]
}

func (s *State) hand(c Color) []uint8 {
	off := s.vector.playerOffset(s.config.NumPlayers, c)
	return s.vector[off : off+NumResources]
}

func (s *State) devHand(c Color) []uint8 {
	off := s.vector.playerOffset(s.config.NumPlayers, c) + NumResources
	return s.vector[off : off+NumDevCards]
}

func (s *State) playedDev(c Color) []uint8 {
	off := s.vector.playerOffset(s.config.NumPlayers, c) + 2*NumResources
	return s.vector[off : off+NumDevCards]
}

func (s *State) vpIndex(c Color) int {
	return s.vector.playerOffset(s.config.NumPlayers, c) + 3*NumResources
}

// BankResources returns the bank's stock.
func (s *State) BankResources() FreqDeck {
	var f FreqDeck
	copy(f[:], s.bank())
	return f
}

// DevCardsRemaining is the undrawn deck size.
func (s *State) DevCardsRemaining() int {
	return DevDeckSize - int(s.vector[s.vector.devDrawnOffset(s.config.NumPlayers)])
}

// PlayerHand returns a player's resource hand.
func (s *State) PlayerHand(c Color) FreqDeck {
	var f FreqDeck
	copy(f[:], s.hand(c))
	return f
}

// DevHand returns a player's unplayed development cards.
func (s *State) DevHand(c Color) [NumDevCards]uint8 {
	var f [NumDevCards]uint8
	copy(f[:], s.devHand(c))
	return f
}

// PlayedDev returns a player's played pile; victory point cards land here
// directly on purchase.
func (s *State) PlayedDev(c Color) [NumDevCards]uint8 {
	var f [NumDevCards]uint8
	copy(f[:], s.playedDev(c))
	return f
}

// ActualVPs is a player's current public score including bonuses and
// victory point cards.
func (s *State) ActualVPs(c Color) int { return int(s.vector[s.vpIndex(c)]) }

// ArmySize is the number of knights a player has played.
func (s *State) ArmySize(c Color) int { return int(s.playedDev(c)[Knight]) }

// CanPlayDev reports whether the player may play the card this turn: held,
// not bought this turn, and no other dev card played yet.
func (s *State) CanPlayDev(c Color, card DevCard) bool {
	if s.vector.flag(idxPlayedDevCard) {
		return false
	}
	return s.devHand(c)[card] > s.freshDev[c][card]
}

// Buildings and roads

func (s *State) settlementCount(c Color) int {
	n := 0
	for _, b := range s.buildingsByColor[c] {
		if b.Kind == SettlementBuilding {
			n++
		}
	}
	return n
}

// Settlements returns a player's settlements.
func (s *State) Settlements(c Color) []Building {
	var out []Building
	for _, b := range s.buildingsByColor[c] {
		if b.Kind == SettlementBuilding {
			out = append(out, b)
		}
	}
	return out
}

// Cities returns a player's cities.
func (s *State) Cities(c Color) []Building {
	var out []Building
	for _, b := range s.buildingsByColor[c] {
		if b.Kind == CityBuilding {
			out = append(out, b)
		}
	}
	return out
}

// BuildingAt returns the building on a node, if any.
func (s *State) BuildingAt(n NodeId) (Building, bool) {
	b, ok := s.buildings[n]
	return b, ok
}

// RoadAt returns the owner of the road on an edge, if any.
func (s *State) RoadAt(e EdgeId) (Color, bool) {
	c, ok := s.roads[[2]NodeId{e.A, e.B}]
	return c, ok
}

// RoadCount is the number of roads a player has built.
func (s *State) RoadCount(c Color) int { return int(s.roadsByColor[c]) }

// RoadLength is a player's current longest acyclic road path, in edges.
func (s *State) RoadLength(c Color) int { return int(s.roadLengths[c]) }

// LongestRoad returns the bonus holder and their path length.
func (s *State) LongestRoad() (Color, int) {
	return s.longestRoadColor, int(s.longestRoadLength)
}

// LargestArmy returns the bonus holder and their knight count.
func (s *State) LargestArmy() (Color, int) {
	return s.largestArmyColor, int(s.largestArmyCount)
}

// BuildableNodes lists the nodes where the player may place a settlement
// now: unoccupied land nodes honoring the distance-two rule and, outside
// the initial phase, connected to the player's roads. Sorted ascending.
func (s *State) BuildableNodes(c Color) []NodeId {
	var out []NodeId
	if s.vector.flag(idxInitialBuildPhase) {
		for n := range s.boardBuildable {
			out = append(out, n)
		}
	} else {
		for _, comp := range s.components[c] {
			for n := range comp {
				if _, ok := s.boardBuildable[n]; ok {
					out = append(out, n)
				}
			}
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// BuildableEdges lists the unoccupied edges the player may road now: those
// reachable from an owned building or road without passing through an
// opposing building. Sorted ascending.
func (s *State) BuildableEdges(c Color) []EdgeId {
	seen := make(map[EdgeId]struct{})
	var out []EdgeId
	expand := func(n NodeId) {
		if b, ok := s.buildings[n]; ok && b.Color != c {
			return
		}
		for _, e := range s.board.NeighborEdges(n) {
			if _, taken := s.roads[[2]NodeId{e.A, e.B}]; taken {
				continue
			}
			if _, dup := seen[e]; dup {
				continue
			}
			seen[e] = struct{}{}
			out = append(out, e)
		}
	}
	for _, b := range s.buildingsByColor[c] {
		expand(b.Node)
	}
	for _, comp := range s.components[c] {
		for n := range comp {
			expand(n)
		}
	}
	slices.SortFunc(out, func(a, b EdgeId) int {
		if a.A != b.A {
			return int(a.A) - int(b.A)
		}
		return int(a.B) - int(b.B)
	})
	return out
}

// PortRatio is the player's best trade ratio when giving the resource:
// 2 with the matching harbor, 3 with any generic harbor, otherwise 4.
func (s *State) PortRatio(c Color, give Resource) uint8 {
	ratio := uint8(4)
	for _, b := range s.buildingsByColor[c] {
		p, ok := s.board.PortAt(b.Node)
		if !ok {
			continue
		}
		if p.Resource == give {
			return 2
		}
		if p.Resource == NoResource && ratio > 3 {
			ratio = 3
		}
	}
	return ratio
}

// production reads

func (s *State) productionFor(c Color, withRobber bool) [NumResources]float64 {
	var out [NumResources]float64
	robber := s.vector[idxRobberTile]
	for _, b := range s.buildingsByColor[c] {
		mult := 1.0
		if b.Kind == CityBuilding {
			mult = 2.0
		}
		for _, tile := range s.board.AdjacentTiles(b.Node) {
			if tile.Desert() {
				continue
			}
			if withRobber && tile.ID == robber {
				continue
			}
			out[tile.Resource] += mult * NumberProbability(tile.Number)
		}
	}
	return out
}

// EffectiveProduction is the probability-weighted yield rate, excluding the
// robber-blocked tile.
func (s *State) EffectiveProduction(c Color) [NumResources]float64 {
	return s.productionFor(c, true)
}

// TotalProduction ignores the robber.
func (s *State) TotalProduction(c Color) [NumResources]float64 {
	return s.productionFor(c, false)
}

// NumTiles counts the distinct hexes adjacent to a player's buildings.
func (s *State) NumTiles(c Color) int {
	seen := make(map[uint8]struct{})
	for _, b := range s.buildingsByColor[c] {
		for _, t := range s.board.AdjacentTiles(b.Node) {
			seen[t.ID] = struct{}{}
		}
	}
	return len(seen)
}

// RobberVictims lists the colors with a building adjacent to the given tile
// and a non-empty hand, excluding the robbing player. Sorted ascending.
func (s *State) RobberVictims(robbing Color, tile uint8) []Color {
	seen := make(map[Color]struct{})
	var out []Color
	for _, n := range s.board.TileNodes(tile) {
		b, ok := s.buildings[n]
		if !ok || b.Color == robbing {
			continue
		}
		if s.PlayerHand(b.Color).Total() == 0 {
			continue
		}
		if _, dup := seen[b.Color]; dup {
			continue
		}
		seen[b.Color] = struct{}{}
		out = append(out, b.Color)
	}
	slices.Sort(out)
	return out
}

// randIntn draws a uniform int in [0, n) from the game RNG.
func (s *State) randIntn(n int) int {
	return int(s.rng.Uint64() % uint64(n))
}
