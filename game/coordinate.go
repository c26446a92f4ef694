package game

import "fmt"

// Coordinate is a cube coordinate for a tile, with Q+R+S = 0.
type Coordinate struct {
	Q, R, S int8
}

func Coord(q, r, s int8) Coordinate { return Coordinate{q, r, s} }

func (c Coordinate) String() string { return fmt.Sprintf("(%d,%d,%d)", c.Q, c.R, c.S) }

// Add returns the componentwise sum.
func (c Coordinate) Add(d Coordinate) Coordinate {
	return Coordinate{c.Q + d.Q, c.R + d.R, c.S + d.S}
}

// TileDirection names a hex side. The hexes are pointy-top so the sides
// face E/W and the four diagonals.
type TileDirection uint8

const (
	East TileDirection = iota
	NorthEast
	NorthWest
	West
	SouthWest
	SouthEast

	numTileDirections = 6
)

// tileOffsets maps a side to the neighboring tile coordinate delta.
var tileOffsets = [numTileDirections]Coordinate{
	East:      {1, -1, 0},
	NorthEast: {1, 0, -1},
	NorthWest: {0, 1, -1},
	West:      {-1, 1, 0},
	SouthWest: {-1, 0, 1},
	SouthEast: {0, -1, 1},
}

// Neighbor returns the tile coordinate on the given side.
func (c Coordinate) Neighbor(d TileDirection) Coordinate { return c.Add(tileOffsets[d]) }

// NodeDirection names a hex corner.
type NodeDirection uint8

const (
	North NodeDirection = iota
	NodeNorthEast
	NodeSouthEast
	South
	NodeSouthWest
	NodeNorthWest

	numNodeDirections = 6
)

// nodeKey places every corner on an integer lattice so that corners shared
// between adjacent tiles resolve to the same key. A tile centers at
// (q-r, 3s) in half-unit steps; its corners sit at the fixed offsets below.
type nodeKey struct {
	X, Y int
}

var nodeOffsets = [numNodeDirections]nodeKey{
	North:         {0, -2},
	NodeNorthEast: {1, -1},
	NodeSouthEast: {1, 1},
	South:         {0, 2},
	NodeSouthWest: {-1, 1},
	NodeNorthWest: {-1, -1},
}

func cornerKey(c Coordinate, d NodeDirection) nodeKey {
	off := nodeOffsets[d]
	return nodeKey{int(c.Q) - int(c.R) + off.X, 3*int(c.S) + off.Y}
}

// edgeCorners gives, for each side, the two corners bounding it in
// clockwise order.
var edgeCorners = [numTileDirections][2]NodeDirection{
	East:      {NodeNorthEast, NodeSouthEast},
	NorthEast: {North, NodeNorthEast},
	NorthWest: {NodeNorthWest, North},
	West:      {NodeSouthWest, NodeNorthWest},
	SouthWest: {South, NodeSouthWest},
	SouthEast: {NodeSouthEast, South},
}

// tileEdges lists consecutive corner pairs so a tile's six edges enumerate
// without duplicates.
var tileEdges = [numTileDirections][2]NodeDirection{
	{North, NodeNorthEast},
	{NodeNorthEast, NodeSouthEast},
	{NodeSouthEast, South},
	{South, NodeSouthWest},
	{NodeSouthWest, NodeNorthWest},
	{NodeNorthWest, North},
}

// NodeId is a small handle assigned to an intersection at map construction.
type NodeId uint8

// NoNode marks an unset node slot in actions.
const NoNode NodeId = 255

// EdgeId is the canonical (min, max) pair of the two endpoint nodes.
type EdgeId struct {
	A, B NodeId
}

// NewEdgeId canonicalizes the endpoint order.
func NewEdgeId(a, b NodeId) EdgeId {
	if a > b {
		a, b = b, a
	}
	return EdgeId{a, b}
}

// Other returns the endpoint opposite n.
func (e EdgeId) Other(n NodeId) NodeId {
	if e.A == n {
		return e.B
	}
	return e.A
}
