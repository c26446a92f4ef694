package game

// GameConfiguration fixes the rules of one game.
type GameConfiguration struct {
	NumPlayers   int
	DiscardLimit int
	VPsToWin     int
	MapType      MapType
	MaxTicks     int
}

// DefaultConfiguration is the standard four-player base-map game.
func DefaultConfiguration() GameConfiguration {
	return GameConfiguration{
		NumPlayers:   4,
		DiscardLimit: 7,
		VPsToWin:     10,
		MapType:      BaseMap,
		MaxTicks:     2000,
	}
}

// The state vector is a flat uint8 array holding every mutable scalar of a
// game. The caches on State are derived views; the vector is the source of
// truth. Layout:
//
//	[0]                currentTickSeat
//	[1]                currentTurnSeat
//	[2..8]             flags: hasRolled, isInitialBuildPhase, isMovingRobber,
//	                   isDiscarding, hasPlayedDevCard, isBuildingRoad,
//	                   freeRoadsAvailable (counter)
//	[9]                robberTile (land tile id)
//	[10..10+N)         seating order, a permutation of 0..N-1
//	[+5]               bank resource counts
//	[+1]               devDeckDrawn
//	[+25]              devDeck, pre-shuffled card tags
//	[per player: 16]   hand[5], devHand[5], playedDev[5], actualVPs
const (
	idxCurrentTickSeat = iota
	idxCurrentTurnSeat
	idxHasRolled
	idxInitialBuildPhase
	idxMovingRobber
	idxDiscarding
	idxPlayedDevCard
	idxBuildingRoad
	idxFreeRoads
	idxRobberTile
	idxSeating // start of the seating permutation
)

const playerSliceSize = 3*NumResources + 1

func vectorSize(numPlayers int) int {
	return idxSeating + numPlayers + NumResources + 1 + DevDeckSize + numPlayers*playerSliceSize
}

type stateVector []uint8

func (v stateVector) bankOffset(numPlayers int) int { return idxSeating + numPlayers }

func (v stateVector) devDrawnOffset(numPlayers int) int {
	return v.bankOffset(numPlayers) + NumResources
}

func (v stateVector) devDeckOffset(numPlayers int) int { return v.devDrawnOffset(numPlayers) + 1 }

func (v stateVector) playerOffset(numPlayers int, c Color) int {
	return v.devDeckOffset(numPlayers) + DevDeckSize + int(c)*playerSliceSize
}

func (v stateVector) flag(idx int) bool { return v[idx] != 0 }

func (v stateVector) setFlag(idx int, on bool) {
	if on {
		v[idx] = 1
	} else {
		v[idx] = 0
	}
}
