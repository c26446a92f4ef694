package game

import "golang.org/x/exp/rand"

// MapType selects one of the built-in board layouts.
type MapType uint8

const (
	BaseMap MapType = iota
	MiniMap
	TournamentMap
)

func (m MapType) String() string {
	switch m {
	case MiniMap:
		return "mini"
	case TournamentMap:
		return "tournament"
	default:
		return "base"
	}
}

// tileSlot is one land hex of a template. A variable slot (Resource ==
// NoResource and not desert) is filled from the shuffled resource bag at
// instantiation; a fixed slot keeps its literal resource and number.
type tileSlot struct {
	Coord    Coordinate
	Resource Resource // NoResource for variable slots and fixed deserts
	Number   uint8    // 0 for variable slots and deserts
	Desert   bool     // fixed desert (mini/tournament layouts)
	Variable bool
}

// portSlot anchors a harbor on a water tile; Direction is the side facing
// the land tile whose edge carries the port.
type portSlot struct {
	Coord     Coordinate
	Direction TileDirection
	Resource  Resource // NoResource for a 3:1 harbor
	Ratio     uint8
}

type mapTemplate struct {
	Tiles []tileSlot
	Ports []portSlot
	// NumberSpiral is laid onto variable slots in tile order, skipping the
	// desert wherever the shuffle put it.
	NumberSpiral []uint8
	// ResourceBag feeds the variable slots; a NoResource entry is the desert.
	ResourceBag []Resource
}

// baseSpiral lists the 19 land coordinates outer ring first, then the inner
// ring, then the center. Number tokens follow this same order.
var baseSpiral = []Coordinate{
	{0, -2, 2}, {1, -2, 1}, {2, -2, 0}, {2, -1, -1}, {2, 0, -2}, {1, 1, -2},
	{0, 2, -2}, {-1, 2, -1}, {-2, 2, 0}, {-2, 1, 1}, {-2, 0, 2}, {-1, -1, 2},
	{0, -1, 1}, {1, -1, 0}, {1, 0, -1}, {0, 1, -1}, {-1, 1, 0}, {-1, 0, 1},
	{0, 0, 0},
}

// basePorts places the nine harbors of the standard board: four generic 3:1
// and one 2:1 per resource, spread around the water ring.
var basePorts = []portSlot{
	{Coordinate{3, -3, 0}, West, NoResource, 3},
	{Coordinate{3, -1, -2}, West, Wheat, 2},
	{Coordinate{2, 1, -3}, SouthWest, Ore, 2},
	{Coordinate{0, 3, -3}, SouthEast, NoResource, 3},
	{Coordinate{-2, 3, -1}, SouthEast, Sheep, 2},
	{Coordinate{-3, 2, 1}, East, NoResource, 3},
	{Coordinate{-3, 0, 3}, NorthEast, Brick, 2},
	{Coordinate{-1, -2, 3}, NorthEast, Wood, 2},
	{Coordinate{1, -3, 2}, NorthWest, NoResource, 3},
}

// baseNumbers is the official token sequence along the spiral; the desert
// is skipped wherever the resource shuffle placed it.
var baseNumbers = []uint8{5, 2, 6, 3, 8, 10, 9, 12, 11, 4, 8, 10, 9, 4, 5, 6, 3, 11}

// baseResourceBag holds 4 wood, 3 brick, 4 sheep, 4 wheat, 3 ore and the
// desert.
var baseResourceBag = []Resource{
	Wood, Wood, Wood, Wood,
	Brick, Brick, Brick,
	Sheep, Sheep, Sheep, Sheep,
	Wheat, Wheat, Wheat, Wheat,
	Ore, Ore, Ore,
	NoResource,
}

func baseTemplate() mapTemplate {
	tiles := make([]tileSlot, len(baseSpiral))
	for i, c := range baseSpiral {
		tiles[i] = tileSlot{Coord: c, Resource: NoResource, Variable: true}
	}
	return mapTemplate{
		Tiles:        tiles,
		Ports:        basePorts,
		NumberSpiral: baseNumbers,
		ResourceBag:  baseResourceBag,
	}
}

// miniTemplate is a fixed seven-hex board used by fast tests: center desert,
// one tile per resource plus an extra wheat around it.
func miniTemplate() mapTemplate {
	return mapTemplate{
		Tiles: []tileSlot{
			{Coord: Coordinate{0, 0, 0}, Resource: NoResource, Desert: true},
			{Coord: Coordinate{1, -1, 0}, Resource: Wood, Number: 6},
			{Coord: Coordinate{1, 0, -1}, Resource: Brick, Number: 8},
			{Coord: Coordinate{0, 1, -1}, Resource: Sheep, Number: 5},
			{Coord: Coordinate{-1, 1, 0}, Resource: Wheat, Number: 9},
			{Coord: Coordinate{-1, 0, 1}, Resource: Ore, Number: 4},
			{Coord: Coordinate{0, -1, 1}, Resource: Wheat, Number: 10},
		},
		Ports: []portSlot{
			{Coordinate{2, -2, 0}, West, NoResource, 3},
			{Coordinate{-2, 2, 0}, East, Wood, 2},
		},
	}
}

// tournamentTemplate is the fixed 19-hex layout used for evaluation runs:
// the base geometry with resources and numbers pinned, so two runs differ
// only by seating and dice.
func tournamentTemplate() mapTemplate {
	resources := []Resource{
		Wheat, Sheep, Ore, Wood, Brick, Sheep,
		Wood, Wheat, Brick, Ore, Wood, Sheep,
		Wheat, Wood, Brick, Sheep, Ore, Wheat,
		NoResource,
	}
	tiles := make([]tileSlot, len(baseSpiral))
	n := 0
	for i, c := range baseSpiral {
		if resources[i] == NoResource {
			tiles[i] = tileSlot{Coord: c, Resource: NoResource, Desert: true}
			continue
		}
		tiles[i] = tileSlot{Coord: c, Resource: resources[i], Number: baseNumbers[n]}
		n++
	}
	return mapTemplate{Tiles: tiles, Ports: basePorts}
}

// instantiate resolves a template's variable slots with the given RNG:
// resources are drawn from the shuffled bag and number tokens follow the
// spiral, skipping the desert.
func (t mapTemplate) instantiate(rng *rand.Rand) []tileSlot {
	tiles := make([]tileSlot, len(t.Tiles))
	copy(tiles, t.Tiles)
	if len(t.ResourceBag) == 0 {
		return tiles
	}
	bag := make([]Resource, len(t.ResourceBag))
	copy(bag, t.ResourceBag)
	rng.Shuffle(len(bag), func(i, j int) { bag[i], bag[j] = bag[j], bag[i] })
	n := 0
	for i := range tiles {
		if !tiles[i].Variable {
			continue
		}
		tiles[i].Resource = bag[i]
		if bag[i] == NoResource {
			tiles[i].Desert = true
			continue
		}
		tiles[i].Number = t.NumberSpiral[n]
		n++
	}
	return tiles
}

func templateFor(m MapType) mapTemplate {
	switch m {
	case MiniMap:
		return miniTemplate()
	case TournamentMap:
		return tournamentTemplate()
	default:
		return baseTemplate()
	}
}
