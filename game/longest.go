package game

// Road network analysis: connected components and longest acyclic path.
// Road graphs are tiny (15 roads per player at most), so components are
// rebuilt by DFS whenever a road is added or an opposing settlement plows
// a chain, rather than maintained incrementally.

// traversable reports whether a path may continue through node n for color
// c. Opposing buildings block continuation; the node itself still counts as
// a path endpoint.
func (s *State) traversable(c Color, n NodeId) bool {
	b, ok := s.buildings[n]
	return !ok || b.Color == c
}

// colorEdges returns c's roads, one entry per edge.
func (s *State) colorEdges(c Color) []EdgeId {
	var out []EdgeId
	for key, owner := range s.roads {
		if owner == c && key[0] < key[1] {
			out = append(out, EdgeId{key[0], key[1]})
		}
	}
	return out
}

// rebuildComponents recomputes c's road components. A component holds every
// node touched by a connected run of c's roads; nodes carrying an opposing
// building sit on the boundary of their component and are not traversed, so
// a settlement dropped mid-chain splits the chain in two.
func (s *State) rebuildComponents(c Color) {
	edges := s.colorEdges(c)
	visited := make(map[EdgeId]struct{}, len(edges))
	var comps []nodeSet
	for _, start := range edges {
		if _, done := visited[start]; done {
			continue
		}
		comp := nodeSet{start.A: {}, start.B: {}}
		visited[start] = struct{}{}
		queue := make([]NodeId, 0, 4)
		if s.traversable(c, start.A) {
			queue = append(queue, start.A)
		}
		if s.traversable(c, start.B) {
			queue = append(queue, start.B)
		}
		for len(queue) > 0 {
			n := queue[0]
			queue = queue[1:]
			for _, e := range s.board.NeighborEdges(n) {
				if owner, ok := s.roads[[2]NodeId{e.A, e.B}]; !ok || owner != c {
					continue
				}
				if _, done := visited[e]; done {
					continue
				}
				visited[e] = struct{}{}
				other := e.Other(n)
				if _, seen := comp[other]; !seen {
					comp[other] = struct{}{}
					if s.traversable(c, other) {
						queue = append(queue, other)
					}
				}
			}
		}
		comps = append(comps, comp)
	}
	s.components[c] = comps
	s.roadLengths[c] = uint8(s.longestAcyclicPath(c))
}

// longestAcyclicPath is the maximum number of edges in a simple path over
// c's roads, never continuing through an opposing building.
func (s *State) longestAcyclicPath(c Color) int {
	best := 0
	used := make(map[EdgeId]struct{})
	for _, comp := range s.components[c] {
		for n := range comp {
			if l := s.longestFrom(c, n, used); l > best {
				best = l
			}
		}
	}
	return best
}

func (s *State) longestFrom(c Color, n NodeId, used map[EdgeId]struct{}) int {
	best := 0
	for _, e := range s.board.NeighborEdges(n) {
		if owner, ok := s.roads[[2]NodeId{e.A, e.B}]; !ok || owner != c {
			continue
		}
		if _, taken := used[e]; taken {
			continue
		}
		other := e.Other(n)
		l := 1
		if s.traversable(c, other) {
			used[e] = struct{}{}
			l += s.longestFrom(c, other, used)
			delete(used, e)
		}
		if l > best {
			best = l
		}
	}
	return best
}

const longestRoadMin = 5

// refreshLongestRoad re-evaluates the bonus after road lengths changed. The
// holder keeps it unless its length drops under the threshold or another
// player strictly exceeds it; ties go to the lowest color index.
func (s *State) refreshLongestRoad() {
	holder := s.longestRoadColor
	if holder != NoColor && s.roadLengths[holder] < longestRoadMin {
		s.addVPs(holder, -2)
		holder = NoColor
	}

	best, bestLen := NoColor, uint8(longestRoadMin-1)
	for c := Color(0); int(c) < s.config.NumPlayers; c++ {
		if s.roadLengths[c] > bestLen {
			best, bestLen = c, s.roadLengths[c]
		}
	}

	switch {
	case holder == NoColor && best != NoColor:
		s.addVPs(best, 2)
		holder = best
	case holder != NoColor && best != NoColor && best != holder && bestLen > s.roadLengths[holder]:
		s.addVPs(holder, -2)
		s.addVPs(best, 2)
		holder = best
	}

	s.longestRoadColor = holder
	if holder == NoColor {
		s.longestRoadLength = 0
	} else {
		s.longestRoadLength = s.roadLengths[holder]
	}
}

const largestArmyMin = 3

// refreshLargestArmy re-evaluates the bonus after a knight play, with the
// same strict-exceed transfer rule as the longest road.
func (s *State) refreshLargestArmy() {
	holder := s.largestArmyColor
	best, bestCount := NoColor, uint8(largestArmyMin-1)
	for c := Color(0); int(c) < s.config.NumPlayers; c++ {
		if knights := s.playedDev(c)[Knight]; knights > bestCount {
			best, bestCount = c, knights
		}
	}

	switch {
	case holder == NoColor && best != NoColor:
		s.addVPs(best, 2)
		holder = best
	case holder != NoColor && best != NoColor && best != holder && bestCount > s.playedDev(holder)[Knight]:
		s.addVPs(holder, -2)
		s.addVPs(best, 2)
		holder = best
	}

	s.largestArmyColor = holder
	if holder == NoColor {
		s.largestArmyCount = 0
	} else {
		s.largestArmyCount = s.playedDev(holder)[Knight]
	}
}
