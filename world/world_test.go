package world

import "testing"

func TestChebyshevDistance(t *testing.T) {
	cases := []struct {
		a, b Tile
		want int32
	}{
		{Tile{0, 0}, Tile{0, 0}, 0},
		{Tile{0, 0}, Tile{3, 1}, 3},
		{Tile{0, 0}, Tile{-2, 5}, 5},
		{Tile{-4, -4}, Tile{4, 4}, 8},
	}
	for _, c := range cases {
		if got := ChebyshevDistance(c.a, c.b); got != c.want {
			t.Errorf("ChebyshevDistance(%v, %v) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestChunkCoordNegative(t *testing.T) {
	cases := []struct {
		t    Tile
		want Tile
	}{
		{Tile{0, 0}, Tile{0, 0}},
		{Tile{15, 15}, Tile{0, 0}},
		{Tile{16, 0}, Tile{1, 0}},
		{Tile{-1, -1}, Tile{-1, -1}},
		{Tile{-16, -16}, Tile{-1, -1}},
		{Tile{-17, 0}, Tile{-2, 0}},
	}
	for _, c := range cases {
		if got := c.t.ChunkCoord(); got != c.want {
			t.Errorf("Tile%v.ChunkCoord() = %v, want %v", c.t, got, c.want)
		}
	}
}

func TestTerrainWalkability(t *testing.T) {
	walkable := []TerrainKind{
		TerrainGrass, TerrainForest, TerrainDirt, TerrainSand,
		TerrainSwamp, TerrainDesert, TerrainStone, TerrainSnow,
		TerrainShallowWater,
	}
	for _, k := range walkable {
		if !k.IsWalkable() {
			t.Errorf("terrain %v expected walkable", k)
		}
	}
	unwalkable := []TerrainKind{TerrainDeepWater, TerrainMountain}
	for _, k := range unwalkable {
		if k.IsWalkable() {
			t.Errorf("terrain %v expected unwalkable", k)
		}
	}
}

func TestMovementCostTable(t *testing.T) {
	cases := map[TerrainKind]float32{
		TerrainGrass:        1.0,
		TerrainDirt:         1.0,
		TerrainSand:         1.0,
		TerrainStone:        1.2,
		TerrainSnow:         1.5,
		TerrainForest:       1.8,
		TerrainShallowWater: 2.0,
		TerrainSwamp:        2.0,
	}
	for k, want := range cases {
		if got := k.MovementCost(); got != want {
			t.Errorf("terrain %v MovementCost() = %v, want %v", k, got, want)
		}
	}
}

func TestNoiseLoaderDeterministic(t *testing.T) {
	a := NewNoiseLoader(42)
	b := NewNoiseLoader(42)
	for _, tile := range []Tile{{0, 0}, {10, -5}, {1000, 1000}, {-50, 30}} {
		ta, _ := a.TerrainAt(tile)
		tb, _ := b.TerrainAt(tile)
		if ta != tb {
			t.Errorf("tile %v: terrain not deterministic across instances: %v vs %v", tile, ta, tb)
		}
		ra, _ := a.ResourceAt(tile)
		rb, _ := b.ResourceAt(tile)
		if ra != rb {
			t.Errorf("tile %v: resource not deterministic across instances: %v vs %v", tile, ra, rb)
		}
	}
}

func TestNoiseLoaderUnwalkableHasNoResource(t *testing.T) {
	n := NewNoiseLoader(7)
	for x := int32(-200); x < 200; x += 3 {
		for y := int32(-200); y < 200; y += 3 {
			tile := Tile{X: x, Y: y}
			k, _ := n.TerrainAt(tile)
			if !k.IsWalkable() {
				r, _ := n.ResourceAt(tile)
				if r != ResourceNone {
					t.Fatalf("tile %v unwalkable terrain %v has resource %v", tile, k, r)
				}
			}
		}
	}
}

func TestFileLoaderOverridesTakePrecedence(t *testing.T) {
	cf := ChunkFile{
		FallbackSeed: 1,
		Tiles: []ChunkTileOp{
			{X: 5, Y: 5, Terrain: TerrainMountain, Resource: ResourceNone, Biome: BiomeAlpine},
		},
	}
	fl := NewFileLoader(cf)

	k, ok := fl.TerrainAt(Tile{X: 5, Y: 5})
	if !ok || k != TerrainMountain {
		t.Fatalf("expected overridden terrain Mountain, got %v ok=%v", k, ok)
	}
	if fl.IsWalkable(Tile{X: 5, Y: 5}) {
		t.Fatal("expected overridden tile to be unwalkable")
	}

	if _, ok := fl.TerrainAt(Tile{X: 999, Y: 999}); !ok {
		t.Fatal("expected fallback loader to answer for unauthored tile")
	}

	min, max, ok := fl.Bounds()
	if !ok || min != (Tile{X: 5, Y: 5}) || max != (Tile{X: 5, Y: 5}) {
		t.Fatalf("unexpected bounds: min=%v max=%v ok=%v", min, max, ok)
	}
}

func TestHelperMovementCostAndWalkableFallback(t *testing.T) {
	fl := NewFileLoader(ChunkFile{FallbackSeed: 3})
	tile := Tile{X: 12, Y: -8}
	if MovementCost(fl, tile) <= 0 {
		t.Fatal("expected positive movement cost for fallback tile")
	}
	_ = IsWalkable(fl, tile)
}
