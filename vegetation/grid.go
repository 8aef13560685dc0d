package vegetation

import (
	"container/heap"

	"github.com/pthm-cable/wildsim/world"
)

// dueEntry is one (due_tick, chunk_id) pair in the scheduler's min-heap.
type dueEntry struct {
	dueTick int64
	chunk   *chunkState
	index   int
}

type dueHeap []*dueEntry

func (h dueHeap) Len() int { return len(h) }
func (h dueHeap) Less(i, j int) bool {
	return h[i].dueTick < h[j].dueTick
}
func (h dueHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *dueHeap) Push(x any) {
	e := x.(*dueEntry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *dueHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// Grid is the sparse tile vegetation store: a chunk (16x16 tile) keyed map
// of chunkState, each owning its own sparse cell map and its own position
// in the due-tick min-heap.
type Grid struct {
	loader world.Loader
	chunks map[world.Tile]*chunkState
	heap   dueHeap

	chunksPerPass int
	timeBudget    func() bool // returns true while still within budget

	tick int64
}

// NewGrid builds an empty vegetation grid bound to a world loader (used to
// derive terrain-scaled max biomass and growth modifiers for newly touched
// cells).
func NewGrid(loader world.Loader) *Grid {
	return &Grid{
		loader:        loader,
		chunks:        make(map[world.Tile]*chunkState),
		chunksPerPass: DefaultChunksPerPass,
	}
}

func (g *Grid) chunkFor(t world.Tile, create bool) *chunkState {
	id := t.ChunkCoord()
	c, ok := g.chunks[id]
	if !ok {
		if !create {
			return nil
		}
		c = &chunkState{id: id, cells: make(map[world.Tile]*Cell), tier: Hot}
		g.chunks[id] = c
	}
	return c
}

// cellFor returns (creating on first access) the vegetation cell at t,
// seeded from terrain-derived max biomass/growth modifier at full
// capacity, per the "vegetation cell created on first access" lifecycle
// rule.
func (g *Grid) cellFor(t world.Tile) *Cell {
	c := g.chunkFor(t, true)
	cell, ok := c.cells[t]
	if ok {
		return cell
	}
	kind, _ := g.loader.TerrainAt(t)
	resource, _ := g.loader.ResourceAt(t)
	maxB := maxBiomassFor(kind)
	cell = &Cell{
		Tile:               t,
		TotalBiomass:       maxB,
		MaxBiomass:         maxB,
		GrowthRateModifier: growthModifierFor(kind),
		Resource:           resource,
	}
	c.cells[t] = cell
	return cell
}

// scheduleAt pushes c into the due-heap at dueTick, if it isn't already
// scheduled. A chunk already in the heap is left where it is; callers that
// want to reschedule sooner must remove it first (handled internally by
// scheduleHot).
func (g *Grid) scheduleAt(c *chunkState, dueTick int64) {
	if c.inHeap {
		return
	}
	c.nextDue = dueTick
	c.inHeap = true
	heap.Push(&g.heap, &dueEntry{dueTick: dueTick, chunk: c})
}

// scheduleHot immediately (re)schedules a chunk at Hot tier, used when
// consumption touches it. A chunk already queued for a later tick is moved
// up to the current tick.
func (g *Grid) scheduleHot(c *chunkState) {
	c.tier = Hot
	c.saturated = false
	if !c.inHeap {
		g.scheduleAt(c, g.tick)
		return
	}
	if c.nextDue > g.tick {
		for _, e := range g.heap {
			if e.chunk == c {
				e.dueTick = g.tick
				c.nextDue = g.tick
				heap.Fix(&g.heap, e.index)
				break
			}
		}
	}
}

// Consume implements the vegetation consumption rule:
// consumed = min(requested, biomass*max_fraction, absolute_meal_cap).
func (g *Grid) Consume(t world.Tile, requested float32) (consumed float32, remaining float32) {
	cell := g.cellFor(t)
	profile := profileFor(cell.Resource)

	if profile.Collectable && g.tick < cell.RegrowthAvailableTick {
		return 0, requested
	}

	cap1 := cell.TotalBiomass * profile.MaxFraction
	cap2 := profile.AbsoluteMealCap
	limit := requested
	if cap1 < limit {
		limit = cap1
	}
	if cap2 < limit {
		limit = cap2
	}
	if limit < 0 {
		limit = 0
	}
	if limit == 0 {
		return 0, requested
	}

	cell.TotalBiomass -= limit
	if cell.TotalBiomass < 0 {
		cell.TotalBiomass = 0
	}
	cell.LastUpdateTick = g.tick
	cell.ConsumptionPressure = clamp01(cell.ConsumptionPressure + limit/max32(cell.MaxBiomass, 1))

	if profile.Collectable {
		cell.RegrowthAvailableTick = g.tick + profile.RegrowthDelay
	}

	c := g.chunkFor(t, true)
	if !containsTile(c.activeTiles, t) {
		c.activeTiles = append(c.activeTiles, t)
	}
	g.scheduleHot(c)

	return limit, requested - limit
}

func containsTile(tiles []world.Tile, t world.Tile) bool {
	for _, x := range tiles {
		if x == t {
			return true
		}
	}
	return false
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// BiomassAt returns the current biomass at t without changing it (the cell
// is created at full capacity on first access), useful for sampling before
// grazing.
func (g *Grid) BiomassAt(t world.Tile) float32 {
	return g.cellFor(t).TotalBiomass
}

// CellAt exposes the full cell state at t (read-only use by callers; the
// grid itself is the only mutator of biomass, per the monotonicity
// invariant).
func (g *Grid) CellAt(t world.Tile) Cell {
	return *g.cellFor(t)
}
