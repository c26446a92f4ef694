package game

import "golang.org/x/exp/rand"

// LandTile is one resolved land hex of an instantiated map.
type LandTile struct {
	ID       uint8
	Coord    Coordinate
	Resource Resource // NoResource on the desert
	Number   uint8    // 0 on the desert
}

// Desert reports whether the tile produces nothing.
func (t LandTile) Desert() bool { return t.Resource == NoResource }

// Port is a harbor granting a trade ratio to buildings on its two nodes.
type Port struct {
	Resource Resource // NoResource for a generic 3:1 harbor
	Ratio    uint8
	Nodes    [2]NodeId
}

// MapInstance is the immutable geometry of one game: resolved tiles,
// intersection and edge handles, adjacency tables and per-node production.
// States share a single instance by pointer.
type MapInstance struct {
	mapType MapType

	tiles       []LandTile
	tileByCoord map[Coordinate]uint8
	tileNodes   [][numNodeDirections]NodeId
	byNumber    map[uint8][]uint8
	desertTile  uint8

	numNodes      int
	edges         []EdgeId
	neighborNodes [][]NodeId
	neighborEdges [][]EdgeId
	adjacentTiles [][]uint8
	production    [][NumResources]float64

	ports      []Port
	portByNode map[NodeId]Port
}

// NumberProbability is the chance of rolling n with two dice; 7 yields no
// production.
func NumberProbability(n uint8) float64 {
	if n < 2 || n > 12 || n == 7 {
		return 0
	}
	d := int(n) - 7
	if d < 0 {
		d = -d
	}
	return float64(6-d) / 36
}

// NewMapInstance resolves the template for the given type with the seed and
// builds every adjacency table.
func NewMapInstance(mapType MapType, seed uint64) *MapInstance {
	rng := rand.New(rand.NewSource(seed))
	tmpl := templateFor(mapType)
	slots := tmpl.instantiate(rng)

	m := &MapInstance{
		mapType:     mapType,
		tileByCoord: make(map[Coordinate]uint8),
		byNumber:    make(map[uint8][]uint8),
		portByNode:  make(map[NodeId]Port),
	}

	nodeIds := make(map[nodeKey]NodeId)
	nodeAt := func(c Coordinate, d NodeDirection) NodeId {
		key := cornerKey(c, d)
		if id, ok := nodeIds[key]; ok {
			return id
		}
		id := NodeId(len(nodeIds))
		nodeIds[key] = id
		return id
	}

	edgeSet := make(map[EdgeId]struct{})
	for i, slot := range slots {
		id := uint8(i)
		tile := LandTile{ID: id, Coord: slot.Coord, Resource: slot.Resource, Number: slot.Number}
		m.tiles = append(m.tiles, tile)
		m.tileByCoord[slot.Coord] = id
		if tile.Desert() {
			m.desertTile = id
		} else {
			m.byNumber[tile.Number] = append(m.byNumber[tile.Number], id)
		}

		var corners [numNodeDirections]NodeId
		for d := NodeDirection(0); d < numNodeDirections; d++ {
			corners[d] = nodeAt(slot.Coord, d)
		}
		m.tileNodes = append(m.tileNodes, corners)
		for _, pair := range tileEdges {
			edgeSet[NewEdgeId(corners[pair[0]], corners[pair[1]])] = struct{}{}
		}
	}
	m.numNodes = len(nodeIds)

	m.neighborNodes = make([][]NodeId, m.numNodes)
	m.neighborEdges = make([][]EdgeId, m.numNodes)
	for e := range edgeSet {
		m.edges = append(m.edges, e)
		m.neighborNodes[e.A] = append(m.neighborNodes[e.A], e.B)
		m.neighborNodes[e.B] = append(m.neighborNodes[e.B], e.A)
		m.neighborEdges[e.A] = append(m.neighborEdges[e.A], e)
		m.neighborEdges[e.B] = append(m.neighborEdges[e.B], e)
	}

	m.adjacentTiles = make([][]uint8, m.numNodes)
	m.production = make([][NumResources]float64, m.numNodes)
	for _, tile := range m.tiles {
		for _, n := range m.tileNodes[tile.ID] {
			m.adjacentTiles[n] = append(m.adjacentTiles[n], tile.ID)
			if !tile.Desert() {
				m.production[n][tile.Resource] += NumberProbability(tile.Number)
			}
		}
	}

	for _, slot := range tmpl.Ports {
		corners := edgeCorners[slot.Direction]
		a := nodeIds[cornerKey(slot.Coord, corners[0])]
		b := nodeIds[cornerKey(slot.Coord, corners[1])]
		port := Port{Resource: slot.Resource, Ratio: slot.Ratio, Nodes: [2]NodeId{a, b}}
		m.ports = append(m.ports, port)
		m.portByNode[a] = port
		m.portByNode[b] = port
	}

	return m
}

func (m *MapInstance) MapType() MapType { return m.mapType }

// LandTiles returns all land hexes in template order.
func (m *MapInstance) LandTiles() []LandTile { return m.tiles }

// Tile returns the land hex with the given id.
func (m *MapInstance) Tile(id uint8) LandTile { return m.tiles[id] }

// GetLandTile looks a hex up by coordinate.
func (m *MapInstance) GetLandTile(c Coordinate) (LandTile, bool) {
	id, ok := m.tileByCoord[c]
	if !ok {
		return LandTile{}, false
	}
	return m.tiles[id], true
}

// TilesByNumber returns the hexes carrying the given number token.
func (m *MapInstance) TilesByNumber(n uint8) []LandTile {
	ids := m.byNumber[n]
	tiles := make([]LandTile, len(ids))
	for i, id := range ids {
		tiles[i] = m.tiles[id]
	}
	return tiles
}

// DesertTile is where the robber starts.
func (m *MapInstance) DesertTile() LandTile { return m.tiles[m.desertTile] }

// NumNodes is the number of intersections; node ids are 0..NumNodes-1 and
// all of them touch land, so every node is a legal settlement site when the
// occupancy rules allow it.
func (m *MapInstance) NumNodes() int { return m.numNodes }

// Edges returns every edge of the land graph.
func (m *MapInstance) Edges() []EdgeId { return m.edges }

// TileNodes returns the six corner nodes of a tile.
func (m *MapInstance) TileNodes(id uint8) [numNodeDirections]NodeId { return m.tileNodes[id] }

// NeighborNodes returns the nodes one edge away from n.
func (m *MapInstance) NeighborNodes(n NodeId) []NodeId { return m.neighborNodes[n] }

// NeighborEdges returns the edges incident to n.
func (m *MapInstance) NeighborEdges(n NodeId) []EdgeId { return m.neighborEdges[n] }

// AdjacentTiles returns the land hexes touching node n.
func (m *MapInstance) AdjacentTiles(n NodeId) []LandTile {
	ids := m.adjacentTiles[n]
	tiles := make([]LandTile, len(ids))
	for i, id := range ids {
		tiles[i] = m.tiles[id]
	}
	return tiles
}

// NodeProduction returns the dice-probability weighted yield per resource
// for a settlement on node n.
func (m *MapInstance) NodeProduction(n NodeId) [NumResources]float64 { return m.production[n] }

// Ports returns every harbor.
func (m *MapInstance) Ports() []Port { return m.ports }

// PortAt returns the harbor reachable from node n, if any.
func (m *MapInstance) PortAt(n NodeId) (Port, bool) {
	p, ok := m.portByNode[n]
	return p, ok
}
