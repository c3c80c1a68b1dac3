package hexgrid

import "container/heap"

// pathNode is an entry in the A* open set.
type pathNode struct {
	coord Coord
	g     int     // cost from start in tiles
	f     float64 // g + heuristic
	seq   int     // insertion order, breaks f ties deterministically
	index int     // heap bookkeeping
}

type nodeHeap []*pathNode

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].seq < h[j].seq
}
func (h nodeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *nodeHeap) Push(x any) {
	n := x.(*pathNode)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *nodeHeap) Pop() any {
	old := *h
	n := old[len(old)-1]
	old[len(old)-1] = nil
	*h = old[:len(old)-1]
	return n
}

// FindPath runs A* from start toward target on a width×height field and
// returns the path (excluding start) to the nearest cell within reach tiles
// of target. Cells for which blocked returns true are impassable; the target
// cell itself is always impassable (it holds the target). The heuristic is
// hex distance plus a small |Δx| tiebreaker so units prefer straight columns
// over diagonal drift. Returns nil, false when no goal cell is reachable.
func FindPath(start, target Coord, reach, width, height int, blocked func(Coord) bool) ([]Coord, bool) {
	if Distance(start, target) <= reach {
		return nil, true
	}

	h := func(c Coord) float64 {
		return float64(Distance(c, target)) + 0.01*float64(abs(c.X-target.X))
	}

	open := &nodeHeap{}
	heap.Init(open)
	seq := 0
	heap.Push(open, &pathNode{coord: start, g: 0, f: h(start), seq: seq})

	cameFrom := make(map[Coord]Coord)
	bestG := map[Coord]int{start: 0}
	var scratch []Coord

	for open.Len() > 0 {
		cur := heap.Pop(open).(*pathNode)
		if Distance(cur.coord, target) <= reach {
			return rebuild(cameFrom, start, cur.coord), true
		}

		scratch = Neighbors(cur.coord, scratch[:0])
		for _, nb := range scratch {
			if !InBounds(nb, width, height) || nb == target || blocked(nb) {
				continue
			}
			g := cur.g + 1
			if prev, seen := bestG[nb]; seen && prev <= g {
				continue
			}
			bestG[nb] = g
			cameFrom[nb] = cur.coord
			seq++
			heap.Push(open, &pathNode{coord: nb, g: g, f: float64(g) + h(nb), seq: seq})
		}
	}
	return nil, false
}

func rebuild(cameFrom map[Coord]Coord, start, end Coord) []Coord {
	var rev []Coord
	for c := end; c != start; c = cameFrom[c] {
		rev = append(rev, c)
	}
	path := make([]Coord, len(rev))
	for i := range rev {
		path[i] = rev[len(rev)-1-i]
	}
	return path
}
