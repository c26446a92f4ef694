// Package encoder maps game states into fixed-shape numeric planes and
// per-action feature vectors for learned agents. The channel layout is
// stable; training pipelines depend on it.
package encoder

import "catan/game"

const (
	// Channels of the board tensor.
	ChDesert        = 0 // desert and water mask
	ChResourceFirst = 1 // 1..5: one-hot tile resource
	ChHasNumber     = 6
	ChNumber        = 7 // token / 12
	ChProbability   = 8
	ChSettleFirst   = 9  // 9..12: settlements per color on adjacent cells
	ChCityFirst     = 13 // 13..16: cities per color
	ChRoadFirst     = 17 // 17..20: roads per color
	ChRobber        = 21
	ChPort          = 22

	Channels = 23
	Height   = 7
	Width    = 7
)

// Planes is the C x H x W board tensor.
type Planes [Channels][Height][Width]float32

// ActionFeatureSize is the per-action vector width: a six-way category
// one-hot plus normalized node and edge scalars.
const ActionFeatureSize = 8

// Encoder precomputes the tile-to-cell mapping for one map instance.
type Encoder struct {
	board *game.MapInstance
	cells [][2]int // per tile id: row, col
	// portTiles marks land tiles touching a harbor node.
	portTiles map[uint8]struct{}
}

func New(board *game.MapInstance) *Encoder {
	e := &Encoder{
		board:     board,
		cells:     make([][2]int, len(board.LandTiles())),
		portTiles: make(map[uint8]struct{}),
	}
	for _, tile := range board.LandTiles() {
		e.cells[tile.ID] = [2]int{int(tile.Coord.R) + Height/2, int(tile.Coord.Q) + Width/2}
	}
	portNodes := make(map[game.NodeId]struct{})
	for _, p := range board.Ports() {
		portNodes[p.Nodes[0]] = struct{}{}
		portNodes[p.Nodes[1]] = struct{}{}
	}
	for _, tile := range board.LandTiles() {
		for _, n := range board.TileNodes(tile.ID) {
			if _, ok := portNodes[n]; ok {
				e.portTiles[tile.ID] = struct{}{}
				break
			}
		}
	}
	return e
}

// Encode renders the state into the board tensor.
func (e *Encoder) Encode(s *game.State) Planes {
	var p Planes

	// water everywhere a land tile does not cover
	for row := 0; row < Height; row++ {
		for col := 0; col < Width; col++ {
			p[ChDesert][row][col] = 1
		}
	}

	for _, tile := range e.board.LandTiles() {
		row, col := e.cells[tile.ID][0], e.cells[tile.ID][1]
		if tile.Desert() {
			p[ChDesert][row][col] = 1
		} else {
			p[ChDesert][row][col] = 0
			p[ChResourceFirst+int(tile.Resource)][row][col] = 1
			p[ChHasNumber][row][col] = 1
			p[ChNumber][row][col] = float32(tile.Number) / 12
			p[ChProbability][row][col] = float32(game.NumberProbability(tile.Number))
		}
		if _, ok := e.portTiles[tile.ID]; ok {
			p[ChPort][row][col] = 1
		}
	}

	robber := s.RobberTile()
	p[ChRobber][e.cells[robber.ID][0]][e.cells[robber.ID][1]] = 1

	for c := game.Color(0); int(c) < s.NumPlayers(); c++ {
		for _, b := range s.Settlements(c) {
			e.stamp(&p, ChSettleFirst+int(c), b.Node)
		}
		for _, b := range s.Cities(c) {
			e.stamp(&p, ChCityFirst+int(c), b.Node)
		}
	}
	for _, edge := range e.board.Edges() {
		owner, ok := s.RoadAt(edge)
		if !ok {
			continue
		}
		e.stamp(&p, ChRoadFirst+int(owner), edge.A)
	}

	return p
}

// stamp adds a presence mark on every tile cell adjacent to the node,
// scaled so a cell saturates at six marks.
func (e *Encoder) stamp(p *Planes, channel int, n game.NodeId) {
	for _, tile := range e.board.AdjacentTiles(n) {
		cell := e.cells[tile.ID]
		p[channel][cell[0]][cell[1]] += 1.0 / 6
	}
}

// ActionFeatures encodes each legal action: indices are contiguous 0..K in
// the order given, matching the priors a policy net returns.
func (e *Encoder) ActionFeatures(actions []game.Action) [][ActionFeatureSize]float32 {
	numNodes := float32(e.board.NumNodes())
	out := make([][ActionFeatureSize]float32, len(actions))
	for i, a := range actions {
		var f [ActionFeatureSize]float32
		switch a.Kind {
		case game.ActionBuildRoad:
			f[0] = 1
			f[6] = float32(a.Edge.A) / numNodes
			f[7] = float32(a.Edge.B) / numNodes
		case game.ActionBuildSettlement:
			f[1] = 1
			f[6] = float32(a.Node) / numNodes
		case game.ActionBuildCity:
			f[2] = 1
			f[6] = float32(a.Node) / numNodes
		case game.ActionBuyDevelopmentCard, game.ActionPlayKnight, game.ActionPlayYearOfPlenty,
			game.ActionPlayMonopoly, game.ActionPlayRoadBuilding:
			f[3] = 1
		case game.ActionMaritimeTrade:
			f[4] = 1
			f[6] = float32(a.Give) / game.NumResources
			f[7] = float32(a.Take) / game.NumResources
		default:
			f[5] = 1
		}
		out[i] = f
	}
	return out
}
