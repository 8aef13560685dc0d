// Package vegetation implements the sparse tile vegetation/resource grid:
// event-driven logistic regrowth, a min-heap due-tick chunk scheduler, and
// Hot/Warm/Cold chunk LOD tiering. Grounded on the teacher's
// systems/resource_field.go for the regrowth-toward-capacity numerics and
// systems/flora.go's const-block tuning style and alive-compaction idiom,
// adapted from a dense animated-noise grid to a sparse, event-scheduled
// tile store.
package vegetation

import (
	"container/heap"

	"github.com/pthm-cable/wildsim/world"
)

// Tuning constants, grounded on the teacher's const-block style
// (systems/flora.go).
const (
	// BaseGrowthRate is r in the logistic regrowth step
	// Δb = r · m · b · (1 − b/B_max).
	BaseGrowthRate = float32(0.05)

	// TierIntervalHot/Warm/Cold are ticks between chunk processing at each
	// tier, in approximately 1:5:25 ratio.
	TierIntervalHot  = int64(10)
	TierIntervalWarm = int64(50)
	TierIntervalCold = int64(250)

	// HotRadius/WarmRadius are Chebyshev-tile thresholds for chunk
	// temperature classification; beyond WarmRadius a chunk is Cold.
	HotRadius  = int32(100)
	WarmRadius = int32(200)

	// DefaultChunksPerPass is the adaptive per-tick chunk-processing
	// budget's starting point.
	DefaultChunksPerPass = 32
	MinChunksPerPass     = 4
	MaxChunksPerPass     = 512

	// ActiveTilesPerChunkPerPass bounds how many active tiles within one
	// popped chunk are stepped in a single visit.
	ActiveTilesPerChunkPerPass = 64
)

// ResourceProfile describes harvest behavior for a resource type occupying
// a cell. Collectable profiles (mushroom, wild root) impose a post-harvest
// delay during which consume returns 0, rather than regrowing continuously.
type ResourceProfile struct {
	Name            string
	Collectable     bool
	RegrowthDelay   int64
	AbsoluteMealCap float32
	MaxFraction     float32
}

var (
	ProfileGraze    = ResourceProfile{Name: "graze", Collectable: false, AbsoluteMealCap: 5, MaxFraction: 0.5}
	ProfileTree     = ResourceProfile{Name: "tree", Collectable: false, AbsoluteMealCap: 8, MaxFraction: 0.35}
	ProfileMushroom = ResourceProfile{
		Name: "mushroom", Collectable: true, RegrowthDelay: 2000,
		AbsoluteMealCap: 3, MaxFraction: 1.0,
	}
	ProfileWildRoot = ResourceProfile{
		Name: "wild_root", Collectable: true, RegrowthDelay: 1500,
		AbsoluteMealCap: 3, MaxFraction: 1.0,
	}
)

func profileFor(r world.ResourceKind) ResourceProfile {
	switch r {
	case world.ResourceTree:
		return ProfileTree
	case world.ResourceMushroom:
		return ProfileMushroom
	case world.ResourceWildRoot:
		return ProfileWildRoot
	default:
		return ProfileGraze
	}
}

func maxBiomassFor(k world.TerrainKind) float32 {
	switch k {
	case world.TerrainForest:
		return 120
	case world.TerrainSwamp:
		return 90
	case world.TerrainGrass, world.TerrainDirt:
		return 60
	case world.TerrainSand, world.TerrainDesert:
		return 20
	case world.TerrainSnow:
		return 10
	default:
		return 40
	}
}

func growthModifierFor(k world.TerrainKind) float32 {
	switch k {
	case world.TerrainForest, world.TerrainSwamp:
		return 1.2
	case world.TerrainGrass, world.TerrainDirt:
		return 1.0
	case world.TerrainSand, world.TerrainDesert, world.TerrainSnow:
		return 0.4
	default:
		return 0.8
	}
}

// Cell is a single sparse vegetation tile, created (at full capacity) on
// first access and kept for the rest of the run.
type Cell struct {
	Tile                  world.Tile
	TotalBiomass          float32
	MaxBiomass            float32
	GrowthRateModifier    float32
	ConsumptionPressure   float32
	LastUpdateTick        int64
	RegrowthAvailableTick int64
	Resource              world.ResourceKind
}

// Saturated reports whether the cell is at (or effectively at) capacity.
func (c *Cell) Saturated() bool {
	return c.MaxBiomass <= 0 || c.TotalBiomass >= c.MaxBiomass-0.001
}

// Temperature classifies a chunk's LOD tier by distance to the nearest
// agent.
type Temperature int

const (
	Hot Temperature = iota
	Warm
	Cold
)

func (t Temperature) interval() int64 {
	switch t {
	case Hot:
		return TierIntervalHot
	case Warm:
		return TierIntervalWarm
	default:
		return TierIntervalCold
	}
}

func temperatureForDistance(d int32) Temperature {
	switch {
	case d <= HotRadius:
		return Hot
	case d <= WarmRadius:
		return Warm
	default:
		return Cold
	}
}

// chunkState is the per-chunk scheduling and impostor bookkeeping.
type chunkState struct {
	id           world.Tile
	lastProcessed int64
	nextDue       int64
	saturated     bool
	activeTiles   []world.Tile
	cursor        int
	tier          Temperature

	cells map[world.Tile]*Cell

	aggregateBiomass float32
	activeCellCount  int
	inHeap           bool
	heapIndex        int
}
