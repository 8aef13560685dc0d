package world

import (
	"github.com/ojrac/opensimplex-go"
)

// NoiseLoader is the reference world generator: a deterministic, seeded,
// infinite procedural terrain field. It exists so the scheduler and the
// rest of the core have something to run against without a hand-authored
// world file. Production deployments are expected to supply their own
// Loader backed by an authored ChunkFile.
//
// Terrain is derived from two tiled fbm fields (elevation, moisture),
// following the same octave/lacunarity/gain shape the reference resource
// field uses for capacity noise, just applied to terrain classification
// instead of vegetation capacity.
type NoiseLoader struct {
	elevation opensimplex.Noise
	moisture  opensimplex.Noise

	scale      float64
	octaves    int
	lacunarity float64
	gain       float64
}

// NewNoiseLoader builds a deterministic reference loader from a seed.
func NewNoiseLoader(seed int64) *NoiseLoader {
	return &NoiseLoader{
		elevation:  opensimplex.New(seed),
		moisture:   opensimplex.New(seed ^ 0x5bd1e995),
		scale:      48.0,
		octaves:    4,
		lacunarity: 2.0,
		gain:       0.5,
	}
}

func (n *NoiseLoader) fbm(noise opensimplex.Noise, x, y float64) float64 {
	var sum, amp, freq, norm float64
	amp = 1.0
	freq = 1.0
	for o := 0; o < n.octaves; o++ {
		sum += amp * noise.Eval2(x*freq/n.scale, y*freq/n.scale)
		norm += amp
		amp *= n.gain
		freq *= n.lacunarity
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}

func (n *NoiseLoader) sample(t Tile) (elev, moist float64) {
	x, y := float64(t.X), float64(t.Y)
	elev = n.fbm(n.elevation, x, y)
	moist = n.fbm(n.moisture, x+1000, y+1000)
	return
}

func classify(elev, moist float64) (TerrainKind, Biome) {
	switch {
	case elev < -0.55:
		return TerrainDeepWater, BiomeWetland
	case elev < -0.35:
		return TerrainShallowWater, BiomeWetland
	case elev > 0.65:
		return TerrainMountain, BiomeAlpine
	case elev > 0.45:
		return TerrainSnow, BiomeTundra
	case elev > 0.3:
		return TerrainStone, BiomeAlpine
	}

	switch {
	case moist > 0.45:
		return TerrainSwamp, BiomeWetland
	case moist > 0.15:
		return TerrainForest, BiomeForest
	case moist > -0.2:
		return TerrainGrass, BiomeTemperate
	case moist > -0.45:
		return TerrainDirt, BiomeTemperate
	default:
		return TerrainSand, BiomeDesert
	}
}

// TerrainAt implements Loader.
func (n *NoiseLoader) TerrainAt(t Tile) (TerrainKind, bool) {
	elev, moist := n.sample(t)
	k, _ := classify(elev, moist)
	return k, true
}

// BiomeAt implements Loader.
func (n *NoiseLoader) BiomeAt(t Tile) (Biome, bool) {
	elev, moist := n.sample(t)
	_, b := classify(elev, moist)
	return b, true
}

// ResourceAt implements Loader. Resources are sparsely scattered using a
// high-frequency pass over the same elevation field, biased by terrain.
func (n *NoiseLoader) ResourceAt(t Tile) (ResourceKind, bool) {
	k, _ := n.TerrainAt(t)
	if !k.IsWalkable() {
		return ResourceNone, true
	}
	r := n.fbm(n.elevation, float64(t.X)*7.3+500, float64(t.Y)*7.3+500)
	switch {
	case k == TerrainForest && r > 0.55:
		return ResourceTree, true
	case (k == TerrainGrass || k == TerrainDirt) && r > 0.7:
		return ResourceShrub, true
	case k == TerrainSwamp && r > 0.6:
		return ResourceMushroom, true
	case k == TerrainDesert && r > 0.75:
		return ResourceWildRoot, true
	default:
		return ResourceNone, true
	}
}

// IsWalkable implements Loader.
func (n *NoiseLoader) IsWalkable(t Tile) bool {
	k, _ := n.TerrainAt(t)
	return k.IsWalkable()
}

// Bounds implements Loader. The noise field is unbounded.
func (n *NoiseLoader) Bounds() (Tile, Tile, bool) {
	return Tile{}, Tile{}, false
}
