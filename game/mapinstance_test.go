package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

/**
Map geometry on the base layout:
- 19 land tiles resolve into 54 deduplicated intersections and 72 edges
- the desert carries no number token and starts with the robber
- number tokens follow the fixed layout with two 6s/8s and no 7
- every intersection touches 1..3 land tiles and 2..3 neighbor nodes
- the nine harbors resolve onto land intersections
- the same seed reproduces the same board
*/

func TestBaseMapGeometry(t *testing.T) {
	board := NewMapInstance(BaseMap, 42)

	t.Run("tile, node and edge counts", func(t *testing.T) {
		require.Len(t, board.LandTiles(), 19)
		require.Equal(t, 54, board.NumNodes())
		require.Len(t, board.Edges(), 72)
	})

	t.Run("desert has no number", func(t *testing.T) {
		desert := board.DesertTile()
		require.True(t, desert.Desert())
		require.Equal(t, uint8(0), desert.Number)
		require.Equal(t, NoResource, desert.Resource)
	})

	t.Run("number token layout", func(t *testing.T) {
		counts := map[uint8]int{}
		for _, tile := range board.LandTiles() {
			if !tile.Desert() {
				counts[tile.Number]++
			}
		}
		require.Equal(t, 0, counts[7], "no tile carries a 7")
		require.Equal(t, 2, counts[6])
		require.Equal(t, 2, counts[8])
		require.Equal(t, 1, counts[2])
		require.Equal(t, 1, counts[12])
		total := 0
		for _, n := range counts {
			total += n
		}
		require.Equal(t, 18, total, "every non-desert tile has a token")
	})

	t.Run("resource bag", func(t *testing.T) {
		counts := map[Resource]int{}
		for _, tile := range board.LandTiles() {
			counts[tile.Resource]++
		}
		require.Equal(t, 4, counts[Wood])
		require.Equal(t, 3, counts[Brick])
		require.Equal(t, 4, counts[Sheep])
		require.Equal(t, 4, counts[Wheat])
		require.Equal(t, 3, counts[Ore])
		require.Equal(t, 1, counts[NoResource])
	})

	t.Run("node adjacency", func(t *testing.T) {
		for n := 0; n < board.NumNodes(); n++ {
			id := NodeId(n)
			tiles := board.AdjacentTiles(id)
			require.GreaterOrEqual(t, len(tiles), 1, "node %d", n)
			require.LessOrEqual(t, len(tiles), 3, "node %d", n)
			neighbors := board.NeighborNodes(id)
			require.GreaterOrEqual(t, len(neighbors), 2, "node %d", n)
			require.LessOrEqual(t, len(neighbors), 3, "node %d", n)
			require.Len(t, board.NeighborEdges(id), len(neighbors))
		}
	})

	t.Run("harbors", func(t *testing.T) {
		ports := board.Ports()
		require.Len(t, ports, 9)
		generic, specific := 0, 0
		for _, p := range ports {
			if p.Resource == NoResource {
				require.Equal(t, uint8(3), p.Ratio)
				generic++
			} else {
				require.Equal(t, uint8(2), p.Ratio)
				specific++
			}
			for _, n := range p.Nodes {
				require.Less(t, int(n), board.NumNodes())
				found, ok := board.PortAt(n)
				require.True(t, ok, "node %d should look up its harbor", n)
				require.Equal(t, p.Ratio, found.Ratio)
			}
		}
		require.Equal(t, 4, generic)
		require.Equal(t, 5, specific)
	})

	t.Run("tiles by number", func(t *testing.T) {
		for _, tile := range board.LandTiles() {
			if tile.Desert() {
				continue
			}
			require.Contains(t, board.TilesByNumber(tile.Number), tile)
		}
		require.Empty(t, board.TilesByNumber(7))
	})
}

func TestNumberProbability(t *testing.T) {
	require.InDelta(t, 1.0/36, NumberProbability(2), 1e-9)
	require.InDelta(t, 5.0/36, NumberProbability(6), 1e-9)
	require.InDelta(t, 5.0/36, NumberProbability(8), 1e-9)
	require.InDelta(t, 1.0/36, NumberProbability(12), 1e-9)
	require.Zero(t, NumberProbability(0))
}

func TestMapDeterminism(t *testing.T) {
	a := NewMapInstance(BaseMap, 7)
	b := NewMapInstance(BaseMap, 7)
	require.Equal(t, a.LandTiles(), b.LandTiles())
	require.Equal(t, a.Ports(), b.Ports())
}

func TestMiniMap(t *testing.T) {
	board := NewMapInstance(MiniMap, 1)
	require.Len(t, board.LandTiles(), 7)
	require.Less(t, board.NumNodes(), 54)
	require.NotEmpty(t, board.Ports())
}
