package region

import (
	"testing"

	"github.com/pthm-cable/wildsim/world"
)

// wallLoader is a minimal fixed-grid Loader for testing region splitting:
// a 5x5 square with a wall down the middle column x=2, except for a gap at
// (2,2) that connects the two halves.
type wallLoader struct {
	wallX, gapY int32
}

func (w wallLoader) TerrainAt(t world.Tile) (world.TerrainKind, bool) {
	if t.X == w.wallX && t.Y != w.gapY {
		return world.TerrainMountain, true
	}
	return world.TerrainGrass, true
}
func (w wallLoader) ResourceAt(world.Tile) (world.ResourceKind, bool) { return world.ResourceNone, true }
func (w wallLoader) BiomeAt(world.Tile) (world.Biome, bool)           { return world.BiomeTemperate, true }
func (w wallLoader) IsWalkable(t world.Tile) bool {
	k, _ := w.TerrainAt(t)
	return k.IsWalkable()
}
func (w wallLoader) Bounds() (world.Tile, world.Tile, bool) { return world.Tile{}, world.Tile{}, false }

func TestBuildSplitsRegionsAcrossWall(t *testing.T) {
	loader := wallLoader{wallX: 2, gapY: -100} // no gap: two fully separate halves
	m := Build(loader, world.Tile{X: 0, Y: 0}, world.Tile{X: 4, Y: 4})

	left := world.Tile{X: 0, Y: 0}
	right := world.Tile{X: 4, Y: 0}
	if m.SameRegion(left, right) {
		t.Fatal("expected left and right of wall to be different regions")
	}
	if m.RegionOf(left) == 0 {
		t.Fatal("expected left tile to be in a walkable region")
	}
	if m.Count() < 2 {
		t.Fatalf("expected at least 2 regions, got %d", m.Count())
	}
}

func TestBuildGapConnectsRegions(t *testing.T) {
	loader := wallLoader{wallX: 2, gapY: 2}
	m := Build(loader, world.Tile{X: 0, Y: 0}, world.Tile{X: 4, Y: 4})

	left := world.Tile{X: 0, Y: 2}
	right := world.Tile{X: 4, Y: 2}
	if !m.SameRegion(left, right) {
		t.Fatal("expected left and right to be connected through the gap")
	}
}

func TestUnwalkableTileHasZeroRegion(t *testing.T) {
	loader := wallLoader{wallX: 2, gapY: -100}
	m := Build(loader, world.Tile{X: 0, Y: 0}, world.Tile{X: 4, Y: 4})

	if got := m.RegionOf(world.Tile{X: 2, Y: 0}); got != 0 {
		t.Fatalf("expected unwalkable wall tile to have region 0, got %d", got)
	}
}

func TestOutsideBuiltAreaIsZero(t *testing.T) {
	loader := wallLoader{wallX: 2, gapY: 2}
	m := Build(loader, world.Tile{X: 0, Y: 0}, world.Tile{X: 4, Y: 4})

	if got := m.RegionOf(world.Tile{X: 1000, Y: 1000}); got != 0 {
		t.Fatalf("expected out-of-bounds tile to have region 0, got %d", got)
	}
}

func TestOpenAreaIsSingleRegion(t *testing.T) {
	loader := wallLoader{wallX: -999, gapY: 0}
	m := Build(loader, world.Tile{X: 0, Y: 0}, world.Tile{X: 9, Y: 9})

	if m.Count() != 1 {
		t.Fatalf("expected a single open region, got %d", m.Count())
	}
	if !m.SameRegion(world.Tile{X: 0, Y: 0}, world.Tile{X: 9, Y: 9}) {
		t.Fatal("expected corners of an open field to be in the same region")
	}
}
