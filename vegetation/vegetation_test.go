package vegetation

import (
	"testing"
	"time"

	"github.com/pthm-cable/wildsim/world"
)

type grassLoader struct{}

func (grassLoader) TerrainAt(world.Tile) (world.TerrainKind, bool) { return world.TerrainGrass, true }
func (grassLoader) ResourceAt(world.Tile) (world.ResourceKind, bool) {
	return world.ResourceNone, true
}
func (grassLoader) BiomeAt(world.Tile) (world.Biome, bool)  { return world.BiomeTemperate, true }
func (grassLoader) IsWalkable(world.Tile) bool              { return true }
func (grassLoader) Bounds() (world.Tile, world.Tile, bool) { return world.Tile{}, world.Tile{}, false }

type mushroomLoader struct{}

func (mushroomLoader) TerrainAt(world.Tile) (world.TerrainKind, bool) { return world.TerrainSwamp, true }
func (mushroomLoader) ResourceAt(world.Tile) (world.ResourceKind, bool) {
	return world.ResourceMushroom, true
}
func (mushroomLoader) BiomeAt(world.Tile) (world.Biome, bool)  { return world.BiomeWetland, true }
func (mushroomLoader) IsWalkable(world.Tile) bool              { return true }
func (mushroomLoader) Bounds() (world.Tile, world.Tile, bool) { return world.Tile{}, world.Tile{}, false }

func TestConsumeCapsAtMaxFractionAndMealCap(t *testing.T) {
	g := NewGrid(grassLoader{})
	tile := world.Tile{X: 0, Y: 0}

	cell := g.CellAt(tile)
	consumed, remaining := g.Consume(tile, cell.MaxBiomass*10)
	if consumed > ProfileGraze.AbsoluteMealCap {
		t.Fatalf("consumed %v exceeds absolute meal cap %v", consumed, ProfileGraze.AbsoluteMealCap)
	}
	if consumed+remaining != cell.MaxBiomass*10 {
		t.Fatalf("consumed+remaining should equal requested: %v + %v != %v", consumed, remaining, cell.MaxBiomass*10)
	}
}

func TestConsumeZeroRequestIsNoOp(t *testing.T) {
	g := NewGrid(grassLoader{})
	tile := world.Tile{X: 9, Y: 9}
	g.tick = 5

	consumed, remaining := g.Consume(tile, 0)
	if consumed != 0 || remaining != 0 {
		t.Fatalf("expected consumed=0, remaining=0 for a zero request, got %v, %v", consumed, remaining)
	}
	if len(g.heap) != 0 {
		t.Fatalf("expected no chunk scheduled for a zero-request consume, got %d", len(g.heap))
	}

	c := g.chunkFor(tile, false)
	if c != nil && len(c.activeTiles) != 0 {
		t.Fatalf("expected no active tiles recorded for a zero-request consume, got %v", c.activeTiles)
	}

	cell := g.CellAt(tile)
	if cell.LastUpdateTick != 0 {
		t.Fatalf("expected LastUpdateTick untouched by a zero-request consume, got %d", cell.LastUpdateTick)
	}
}

func TestConsumeSchedulesChunkHot(t *testing.T) {
	g := NewGrid(grassLoader{})
	tile := world.Tile{X: 1, Y: 1}
	g.Consume(tile, 1)

	if len(g.heap) != 1 {
		t.Fatalf("expected exactly one scheduled chunk after consume, got %d", len(g.heap))
	}
	if g.heap[0].chunk.tier != Hot {
		t.Fatalf("expected chunk scheduled at Hot tier, got %v", g.heap[0].chunk.tier)
	}
}

func TestRegrowthMovesTowardCapacity(t *testing.T) {
	g := NewGrid(grassLoader{})
	tile := world.Tile{X: 2, Y: 2}
	g.Consume(tile, 50) // the graze meal cap limits the take to 5 (60 -> 55)

	before := g.BiomassAt(tile)
	g.Update(100, time.Second)
	after := g.BiomassAt(tile)

	if after <= before {
		t.Fatalf("expected biomass to grow after regrowth step: before=%v after=%v", before, after)
	}
	if after > g.CellAt(tile).MaxBiomass {
		t.Fatalf("biomass exceeded max capacity: %v > %v", after, g.CellAt(tile).MaxBiomass)
	}
}

func TestRegrowthNeverExceedsMax(t *testing.T) {
	g := NewGrid(grassLoader{})
	tile := world.Tile{X: 3, Y: 3}
	g.Consume(tile, 1)

	tick := int64(0)
	for i := 0; i < 500; i++ {
		tick += TierIntervalHot
		g.Update(tick, time.Second)
	}

	max := g.CellAt(tile).MaxBiomass
	if g.BiomassAt(tile) > max {
		t.Fatalf("biomass exceeded capacity after sustained regrowth: %v > %v", g.BiomassAt(tile), max)
	}
}

func TestCollectableProfileBlocksConsumeDuringDelay(t *testing.T) {
	g := NewGrid(mushroomLoader{})
	tile := world.Tile{X: 0, Y: 0}

	g.tick = 0
	consumed, _ := g.Consume(tile, 10)
	if consumed <= 0 {
		t.Fatal("expected first harvest to succeed")
	}

	g.tick = 1
	consumed2, remaining2 := g.Consume(tile, 10)
	if consumed2 != 0 || remaining2 != 10 {
		t.Fatalf("expected consume to return 0 during collectable regrowth delay, got consumed=%v remaining=%v", consumed2, remaining2)
	}

	g.tick = ProfileMushroom.RegrowthDelay + 2
	consumed3, _ := g.Consume(tile, 1)
	if consumed3 <= 0 {
		t.Fatal("expected harvest to succeed again after regrowth delay elapses")
	}
}

func TestSaturatedChunkLeavesHeap(t *testing.T) {
	g := NewGrid(grassLoader{})
	tile := world.Tile{X: 5, Y: 5}
	g.Consume(tile, 0.01) // tiny consumption, saturates back almost immediately

	tick := int64(0)
	for i := 0; i < 300 && len(g.heap) > 0; i++ {
		tick += TierIntervalHot
		g.Update(tick, time.Second)
	}

	if len(g.heap) != 0 {
		t.Fatalf("expected chunk to leave the heap once saturated, heap len=%d", len(g.heap))
	}
}

func TestLODTemperatureByDistance(t *testing.T) {
	g := NewGrid(grassLoader{})
	g.Consume(world.Tile{X: 0, Y: 0}, 1)
	g.Consume(world.Tile{X: 1000, Y: 1000}, 1)

	g.UpdateLOD([]world.Tile{{X: 0, Y: 0}})

	near := g.chunkFor(world.Tile{X: 0, Y: 0}, false)
	far := g.chunkFor(world.Tile{X: 1000, Y: 1000}, false)

	if near.tier != Hot {
		t.Fatalf("expected chunk near agent to be Hot, got %v", near.tier)
	}
	if far.tier != Cold {
		t.Fatalf("expected distant chunk to be Cold, got %v", far.tier)
	}
}

func TestChunksPerPassShrinksWhenBudgetExceeded(t *testing.T) {
	g := NewGrid(grassLoader{})
	for i := 0; i < 100; i++ {
		g.Consume(world.Tile{X: int32(i) * 20, Y: 0}, 1)
	}
	start := g.chunksPerPass

	stats := g.Update(1000, 0) // zero budget: exceeded immediately after first chunk
	if !stats.BudgetExceeded {
		t.Fatal("expected zero time budget to be reported as exceeded")
	}
	if g.chunksPerPass >= start {
		t.Fatalf("expected chunksPerPass to shrink after budget exceeded: start=%d after=%d", start, g.chunksPerPass)
	}
}
