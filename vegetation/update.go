package vegetation

import (
	"container/heap"
	"time"

	"github.com/pthm-cable/wildsim/world"
)

// DefaultTimeBudget is the per-tick regrowth processing time budget target
// on idle worlds.
const DefaultTimeBudget = 2 * time.Millisecond

// Stats summarizes one Update call, useful for telemetry/logging.
type Stats struct {
	ChunksProcessed int
	TilesStepped    int
	BudgetExceeded  bool
	ChunksPerPass   int
}

// Update advances the vegetation grid by one tick: pops due chunks (up to
// the adaptive chunks_per_pass limit) within a time budget, steps a
// bounded batch of each chunk's active tiles, reschedules processed
// chunks, and adapts chunks_per_pass for the next call.
func (g *Grid) Update(tick int64, timeBudget time.Duration) Stats {
	g.tick = tick
	if timeBudget < 0 {
		timeBudget = DefaultTimeBudget
	}
	deadline := time.Now().Add(timeBudget)

	var stats Stats
	for stats.ChunksProcessed < g.chunksPerPass {
		if len(g.heap) == 0 {
			break
		}
		if g.heap[0].dueTick > tick {
			break
		}
		if time.Now().After(deadline) {
			stats.BudgetExceeded = true
			break
		}

		entry := heap.Pop(&g.heap).(*dueEntry)
		c := entry.chunk
		c.inHeap = false

		stepped := g.processChunk(c)
		stats.TilesStepped += stepped
		stats.ChunksProcessed++

		c.lastProcessed = tick
		if c.saturated {
			// Leave out of heap until next consumption bumps it back to
			// Hot, per the "saturated chunks leave the heap" rule.
			continue
		}
		g.scheduleAt(c, tick+c.tier.interval())
	}

	if stats.BudgetExceeded {
		g.chunksPerPass = maxInt(MinChunksPerPass, int(float64(g.chunksPerPass)*0.7))
	} else if stats.ChunksProcessed == g.chunksPerPass && len(g.heap) > 0 {
		g.chunksPerPass = minInt(MaxChunksPerPass, int(float64(g.chunksPerPass)*1.2)+1)
	}
	stats.ChunksPerPass = g.chunksPerPass
	return stats
}

// processChunk walks a bounded batch of c's active tiles from its cursor,
// applying one logistic regrowth step to each, compacting saturated tiles
// out of the active list (grounded on the teacher's flora alive-compaction
// loop idiom).
func (g *Grid) processChunk(c *chunkState) int {
	if len(c.activeTiles) == 0 {
		c.saturated = true
		c.aggregateBiomass = 0
		c.activeCellCount = 0
		return 0
	}

	budget := ActiveTilesPerChunkPerPass
	write := 0
	stepped := 0
	n := len(c.activeTiles)

	for i := 0; i < n; i++ {
		idx := (c.cursor + i) % n
		t := c.activeTiles[idx]
		cell, ok := c.cells[t]
		if !ok {
			// Orphaned: terrain multiplier vanished underneath it (never
			// happens in practice since terrain is static, but pruned
			// defensively per the spec's failure-mode note).
			continue
		}

		if budget > 0 {
			g.regrowthStep(cell)
			stepped++
			budget--
		}

		if !cell.Saturated() {
			c.activeTiles[write] = t
			write++
		}
	}
	c.activeTiles = c.activeTiles[:write]
	c.cursor = 0
	if write == 0 {
		c.saturated = true
	}

	c.aggregateBiomass = 0
	for _, cell := range c.cells {
		c.aggregateBiomass += cell.TotalBiomass
	}
	c.activeCellCount = write

	return stepped
}

// regrowthStep applies one logistic growth increment to cell:
// Δb = r · m · b · (1 − b/B_max).
func (g *Grid) regrowthStep(cell *Cell) {
	if cell.MaxBiomass <= 0 {
		return
	}
	b := cell.TotalBiomass
	delta := BaseGrowthRate * cell.GrowthRateModifier * b * (1 - b/cell.MaxBiomass)
	cell.TotalBiomass += delta
	if cell.TotalBiomass > cell.MaxBiomass {
		cell.TotalBiomass = cell.MaxBiomass
	}
	if cell.TotalBiomass < 0 {
		cell.TotalBiomass = 0
	}
	cell.ConsumptionPressure *= 0.98
	cell.LastUpdateTick = g.tick
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// UpdateLOD recomputes each chunk's temperature tier from its Chebyshev
// distance to the nearest tile in agentTiles. Chunk distance is measured
// from the chunk's origin tile (cheap proxy for "any cell in the chunk"),
// matching the chunk-granularity LOD the spec describes.
func (g *Grid) UpdateLOD(agentTiles []world.Tile) {
	for id, c := range g.chunks {
		origin := world.Tile{X: id.X * world.ChunkSize, Y: id.Y * world.ChunkSize}
		best := int32(-1)
		for _, a := range agentTiles {
			d := world.ChebyshevDistance(origin, a)
			if best < 0 || d < best {
				best = d
			}
		}
		if best < 0 {
			c.tier = Cold
			continue
		}
		c.tier = temperatureForDistance(best)
	}
}

// ImpostorData is the aggregated per-chunk representation: no per-cell
// detail, just the chunk's aggregate biomass, active cell count and LOD
// tier for a viewer-facing impostor.
type ImpostorData struct {
	Chunk            world.Tile
	AggregateBiomass float32
	ActiveCellCount   int
	Tier              Temperature
}

// Impostors returns LOD summary data for every known chunk, for telemetry
// or a future viewer; Cold chunks should prefer this over CellAt for
// per-tile detail.
func (g *Grid) Impostors() []ImpostorData {
	out := make([]ImpostorData, 0, len(g.chunks))
	for id, c := range g.chunks {
		out = append(out, ImpostorData{
			Chunk:            id,
			AggregateBiomass: c.aggregateBiomass,
			ActiveCellCount:  c.activeCellCount,
			Tier:             c.tier,
		})
	}
	return out
}
