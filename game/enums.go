package game

// Resource is one of the five tradable resource types.
type Resource uint8

const (
	Wood Resource = iota
	Brick
	Sheep
	Wheat
	Ore

	NumResources = 5
)

// NoResource marks an absent resource slot (desert tiles, generic ports,
// the optional second pick of YearOfPlenty).
const NoResource Resource = 255

var resourceNames = [NumResources]string{"wood", "brick", "sheep", "wheat", "ore"}

func (r Resource) String() string {
	if r == NoResource {
		return "none"
	}
	return resourceNames[r]
}

// DevCard is one of the five development card types.
type DevCard uint8

const (
	Knight DevCard = iota
	YearOfPlenty
	Monopoly
	RoadBuilding
	VictoryPoint

	NumDevCards = 5
)

var devCardNames = [NumDevCards]string{"knight", "year of plenty", "monopoly", "road building", "victory point"}

func (d DevCard) String() string { return devCardNames[d] }

// DevDeckComposition is the stack before shuffling: 14 Knights, 5 Victory
// Points and 2 of each progress card, 25 in total.
var DevDeckComposition = [NumDevCards]uint8{14, 2, 2, 2, 5}

const DevDeckSize = 25

// Color identifies a seat, 0..N-1. NoColor marks "no player" slots such as
// an unset bonus holder or a robber move without a victim.
type Color int8

const NoColor Color = -1

// FreqDeck is a resource multiset indexed by Resource.
type FreqDeck [NumResources]uint8

// Total returns the number of cards in the deck.
func (f FreqDeck) Total() int {
	t := 0
	for _, n := range f {
		t += int(n)
	}
	return t
}

// Covers reports whether f holds at least cost of every resource.
func (f FreqDeck) Covers(cost FreqDeck) bool {
	for r, n := range cost {
		if f[r] < n {
			return false
		}
	}
	return true
}

// Piece costs.
var (
	RoadCost       = FreqDeck{1, 1, 0, 0, 0}
	SettlementCost = FreqDeck{1, 1, 1, 1, 0}
	CityCost       = FreqDeck{0, 0, 0, 2, 3}
	DevCardCost    = FreqDeck{0, 0, 1, 1, 1}
)

// Per-player piece limits.
const (
	MaxSettlements = 5
	MaxCities      = 4
	MaxRoads       = 15
)

// BankResourceCount is the initial bank stock per resource.
const BankResourceCount = 19
