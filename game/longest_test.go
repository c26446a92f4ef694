package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

/**
Bonus awards:
- longest road awarded at five, kept on ties, transferred on strict exceed
- an opposing settlement dropped mid-chain bisects it and can void the bonus
- largest army awarded at three knights with the same transfer rule
*/

// findPath returns a simple path of the given edge count, avoiding the
// given nodes.
func findPath(board *MapInstance, length int, avoid nodeSet) []NodeId {
	var dfs func(path []NodeId, seen nodeSet) []NodeId
	dfs = func(path []NodeId, seen nodeSet) []NodeId {
		if len(path) == length+1 {
			return path
		}
		last := path[len(path)-1]
		for _, nb := range board.NeighborNodes(last) {
			if _, bad := avoid[nb]; bad {
				continue
			}
			if _, dup := seen[nb]; dup {
				continue
			}
			seen[nb] = struct{}{}
			if found := dfs(append(path, nb), seen); found != nil {
				return found
			}
			delete(seen, nb)
		}
		return nil
	}
	for n := 0; n < board.NumNodes(); n++ {
		start := NodeId(n)
		if _, bad := avoid[start]; bad {
			continue
		}
		if found := dfs([]NodeId{start}, nodeSet{start: {}}); found != nil {
			return found
		}
	}
	return nil
}

// layRoads places a road on every consecutive pair of the path.
func layRoads(s *State, c Color, path []NodeId) {
	for i := 0; i+1 < len(path); i++ {
		e := NewEdgeId(path[i], path[i+1])
		s.roads[[2]NodeId{e.A, e.B}] = c
		s.roads[[2]NodeId{e.B, e.A}] = c
		s.roadsByColor[c]++
	}
	s.rebuildComponents(c)
}

func TestLongestRoad(t *testing.T) {
	s := NewState(DefaultConfiguration(), 1)

	pathA := findPath(s.board, 5, nodeSet{})
	require.Len(t, pathA, 6)
	avoid := nodeSet{}
	for _, n := range pathA {
		avoid[n] = struct{}{}
		for _, nb := range s.board.NeighborNodes(n) {
			avoid[nb] = struct{}{}
		}
	}
	pathB := findPath(s.board, 6, avoid)
	require.Len(t, pathB, 7)

	t.Run("awarded at five roads", func(t *testing.T) {
		layRoads(s, 0, pathA)
		s.refreshLongestRoad()
		holder, length := s.LongestRoad()
		require.Equal(t, Color(0), holder)
		require.Equal(t, 5, length)
		require.Equal(t, 2, s.ActualVPs(0))
	})

	t.Run("a tie does not transfer", func(t *testing.T) {
		layRoads(s, 1, pathB[:6])
		require.Equal(t, 5, s.RoadLength(1))
		s.refreshLongestRoad()
		holder, _ := s.LongestRoad()
		require.Equal(t, Color(0), holder)
		require.Equal(t, 0, s.ActualVPs(1))
	})

	t.Run("strictly exceeding transfers the bonus", func(t *testing.T) {
		layRoads(s, 1, pathB[5:])
		require.Equal(t, 6, s.RoadLength(1))
		s.refreshLongestRoad()
		holder, length := s.LongestRoad()
		require.Equal(t, Color(1), holder)
		require.Equal(t, 6, length)
		require.Equal(t, 0, s.ActualVPs(0), "previous holder loses the two points")
		require.Equal(t, 2, s.ActualVPs(1))
	})

	t.Run("an opposing settlement bisects the chain", func(t *testing.T) {
		mid := pathB[3]
		s.placeSettlement(0, mid)
		s.rebuildComponents(1)
		require.Less(t, s.RoadLength(1), 5,
			"neither half of the cut chain reaches five")
		s.refreshLongestRoad()
		holder, length := s.LongestRoad()
		require.Equal(t, Color(0), holder, "the bonus falls back to the intact five-chain")
		require.Equal(t, 5, length)
		require.Equal(t, 0, s.ActualVPs(1), "the cut holder loses the two points")
	})
}

func TestLargestArmy(t *testing.T) {
	s := NewState(DefaultConfiguration(), 1)

	t.Run("two knights earn nothing", func(t *testing.T) {
		s.playedDev(0)[Knight] = 2
		s.refreshLargestArmy()
		holder, _ := s.LargestArmy()
		require.Equal(t, NoColor, holder)
	})

	t.Run("three knights take the bonus", func(t *testing.T) {
		s.playedDev(0)[Knight] = 3
		s.refreshLargestArmy()
		holder, size := s.LargestArmy()
		require.Equal(t, Color(0), holder)
		require.Equal(t, 3, size)
		require.Equal(t, 2, s.ActualVPs(0))
	})

	t.Run("matching the holder does not transfer", func(t *testing.T) {
		s.playedDev(1)[Knight] = 3
		s.refreshLargestArmy()
		holder, _ := s.LargestArmy()
		require.Equal(t, Color(0), holder)
	})

	t.Run("a fourth knight transfers the bonus", func(t *testing.T) {
		s.playedDev(1)[Knight] = 4
		s.refreshLargestArmy()
		holder, size := s.LargestArmy()
		require.Equal(t, Color(1), holder)
		require.Equal(t, 4, size)
		require.Equal(t, 0, s.ActualVPs(0))
		require.Equal(t, 2, s.ActualVPs(1))
	})
}
