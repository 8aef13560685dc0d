package pathfind

import (
	"container/heap"

	"github.com/pthm-cable/wildsim/world"
)

// astarNode is a node in the A* open set, grounded on the teacher's
// systems/astar.go nodeHeap/astarNode pair.
type astarNode struct {
	tile  world.Tile
	f     float32
	index int
}

type nodeHeap []*astarNode

func (h nodeHeap) Len() int           { return len(h) }
func (h nodeHeap) Less(i, j int) bool { return h[i].f < h[j].f }
func (h nodeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *nodeHeap) Push(x any) {
	n := x.(*astarNode)
	n.index = len(*h)
	*h = append(*h, n)
}
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.index = -1
	*h = old[0 : n-1]
	return node
}

var neighborDirs = [8]world.Tile{
	{X: -1, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: -1}, {X: 0, Y: 1}, // cardinal
	{X: -1, Y: -1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: 1, Y: 1}, // diagonal
}

// astarSearcher holds the reusable scratch state for bounded A* search,
// cleared and reused across requests the way the teacher's AStarPlanner
// reuses its open/closed/gScore/fScore maps between FindPath calls.
type astarSearcher struct {
	openHeap  nodeHeap
	closedSet map[world.Tile]struct{}
	cameFrom  map[world.Tile]world.Tile
	gScore    map[world.Tile]float32
}

func newAStarSearcher() *astarSearcher {
	return &astarSearcher{
		openHeap:  make(nodeHeap, 0, 256),
		closedSet: make(map[world.Tile]struct{}, 256),
		cameFrom:  make(map[world.Tile]world.Tile, 256),
		gScore:    make(map[world.Tile]float32, 256),
	}
}

func (s *astarSearcher) reset() {
	s.openHeap = s.openHeap[:0]
	for k := range s.closedSet {
		delete(s.closedSet, k)
	}
	for k := range s.cameFrom {
		delete(s.cameFrom, k)
	}
	for k := range s.gScore {
		delete(s.gScore, k)
	}
}

// searchOutcome distinguishes "found", "no path exists", and "ran out of
// expansion budget before finishing" so the service can decide whether to
// emit a result or requeue the request unchanged.
type searchOutcome int

const (
	outcomeFound searchOutcome = iota
	outcomeUnreachable
	outcomeBudgetExhausted
)

// search runs bounded 8-neighbor A* from start to goal, using
// world.MovementCost as edge weight and Chebyshev distance as heuristic,
// expanding at most maxExpansions nodes. It reports how many expansions it
// actually used so the caller can debit a shared per-tick budget.
func (s *astarSearcher) search(loader world.Loader, start, goal world.Tile, maxExpansions int) (path []world.Tile, used int, outcome searchOutcome) {
	if start == goal {
		return []world.Tile{start}, 0, outcomeFound
	}
	if !world.IsWalkable(loader, start) || !world.IsWalkable(loader, goal) {
		return nil, 0, outcomeUnreachable
	}

	s.reset()
	s.gScore[start] = 0
	heap.Push(&s.openHeap, &astarNode{tile: start, f: float32(world.ChebyshevDistance(start, goal))})

	expansions := 0
	for s.openHeap.Len() > 0 {
		if expansions >= maxExpansions {
			return nil, expansions, outcomeBudgetExhausted
		}
		current := heap.Pop(&s.openHeap).(*astarNode)
		if _, done := s.closedSet[current.tile]; done {
			continue
		}
		expansions++

		if current.tile == goal {
			return s.reconstruct(start, goal), expansions, outcomeFound
		}
		s.closedSet[current.tile] = struct{}{}

		for i, d := range neighborDirs {
			n := world.Tile{X: current.tile.X + d.X, Y: current.tile.Y + d.Y}
			if !world.IsWalkable(loader, n) {
				continue
			}
			if i >= 4 {
				// Diagonal: require both adjacent cardinals open to
				// prevent cutting corners through walls.
				c1 := world.Tile{X: current.tile.X + d.X, Y: current.tile.Y}
				c2 := world.Tile{X: current.tile.X, Y: current.tile.Y + d.Y}
				if !world.IsWalkable(loader, c1) || !world.IsWalkable(loader, c2) {
					continue
				}
			}
			if _, done := s.closedSet[n]; done {
				continue
			}

			stepCost := world.MovementCost(loader, n)
			tentativeG := s.gScore[current.tile] + stepCost

			existingG, exists := s.gScore[n]
			if exists && tentativeG >= existingG {
				continue
			}
			s.cameFrom[n] = current.tile
			s.gScore[n] = tentativeG
			f := tentativeG + float32(world.ChebyshevDistance(n, goal))
			heap.Push(&s.openHeap, &astarNode{tile: n, f: f})
		}
	}

	return nil, expansions, outcomeUnreachable
}

func (s *astarSearcher) reconstruct(start, goal world.Tile) []world.Tile {
	var reversed []world.Tile
	cur := goal
	for cur != start {
		reversed = append(reversed, cur)
		prev, ok := s.cameFrom[cur]
		if !ok {
			break
		}
		cur = prev
	}
	reversed = append(reversed, start)

	path := make([]world.Tile, len(reversed))
	for i, t := range reversed {
		path[len(reversed)-1-i] = t
	}
	return path
}
