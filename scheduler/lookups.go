package scheduler

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/wildsim/simcomp"
	"github.com/pthm-cable/wildsim/spatial"
	"github.com/pthm-cable/wildsim/world"
)

// lookups adapts World's subsystems to the narrow read-only interfaces
// planner.Lookups, actions.PreyLocator, actions.CarcassSource, and
// actions.BiomassSampler expect, so none of those packages need to
// import spatial, vegetation, or the scheduler's own entity registry.
type lookups struct {
	w *World
}

// NearestWater scans for the closest walkable-adjacent water tile, since
// drinking happens from the bank rather than from within deep water
// (shallow water tiles are themselves walkable and count directly).
func (l *lookups) NearestWater(from world.Tile, radius int32) (world.Tile, float32, bool) {
	best := world.Tile{}
	bestDist := float32(math.MaxFloat32)
	found := false
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			t := world.Tile{X: from.X + dx, Y: from.Y + dy}
			kind, ok := l.w.loader.TerrainAt(t)
			if !ok {
				continue
			}
			if kind != world.TerrainShallowWater && kind != world.TerrainDeepWater {
				continue
			}
			drinkFrom := t
			if kind == world.TerrainDeepWater {
				bank := false
				for _, n := range [4]world.Tile{{X: t.X + 1, Y: t.Y}, {X: t.X - 1, Y: t.Y}, {X: t.X, Y: t.Y + 1}, {X: t.X, Y: t.Y - 1}} {
					if !world.IsWalkable(l.w.loader, n) {
						continue
					}
					if !bank || world.ChebyshevDistance(from, n) < world.ChebyshevDistance(from, drinkFrom) {
						drinkFrom = n
						bank = true
					}
				}
				if !bank {
					continue
				}
			}
			d := float32(world.ChebyshevDistance(from, drinkFrom))
			if d < bestDist {
				bestDist = d
				best = drinkFrom
				found = true
			}
		}
	}
	return best, bestDist, found
}

// NearestGraze scans for the closest walkable tile carrying a tree or
// shrub resource with standing biomass left to graze (mushroom/wild-root
// tiles are Harvest's concern, not Graze's).
func (l *lookups) NearestGraze(from world.Tile, radius int32) (world.Tile, float32, bool) {
	return l.nearestResourceMatching(from, radius, func(k world.ResourceKind) bool {
		return k == world.ResourceTree || k == world.ResourceShrub
	})
}

// nearestHarvestable scans for the closest walkable tile carrying a
// collectable resource (mushroom, wild root).
func (l *lookups) nearestHarvestable(from world.Tile, radius int32) (world.Tile, world.ResourceKind, bool) {
	var bestKind world.ResourceKind
	best := world.Tile{}
	bestDist := float32(math.MaxFloat32)
	found := false
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			t := world.Tile{X: from.X + dx, Y: from.Y + dy}
			kind, ok := l.w.loader.ResourceAt(t)
			if !ok || (kind != world.ResourceMushroom && kind != world.ResourceWildRoot) {
				continue
			}
			if !world.IsWalkable(l.w.loader, t) {
				continue
			}
			if l.w.veg.BiomassAt(t) <= 0 {
				continue
			}
			d := float32(world.ChebyshevDistance(from, t))
			if d < bestDist {
				bestDist = d
				best = t
				bestKind = kind
				found = true
			}
		}
	}
	return best, bestKind, found
}

func (l *lookups) nearestResourceMatching(from world.Tile, radius int32, match func(world.ResourceKind) bool) (world.Tile, float32, bool) {
	best := world.Tile{}
	bestDist := float32(math.MaxFloat32)
	found := false
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			t := world.Tile{X: from.X + dx, Y: from.Y + dy}
			kind, ok := l.w.loader.ResourceAt(t)
			if !ok || !match(kind) {
				continue
			}
			if !world.IsWalkable(l.w.loader, t) {
				continue
			}
			if l.w.veg.BiomassAt(t) <= 0 {
				continue
			}
			d := float32(world.ChebyshevDistance(from, t))
			if d < bestDist {
				bestDist = d
				best = t
				found = true
			}
		}
	}
	return best, bestDist, found
}

func (l *lookups) NearestPrey(from world.Tile, radius int32, diet simcomp.Diet) (simcomp.EntityRef, world.Tile, float32, bool) {
	mask := spatial.KindHerbivore
	if diet == simcomp.DietCarnivore {
		mask = spatial.KindHerbivore | spatial.KindOmnivore
	}
	for _, entry := range l.w.spatial.QueryRadius(from, radius, mask, ecs.Entity{}) {
		ref, ok := l.w.refOf(entry.Entity)
		if !ok || !l.w.entities[ref].alive {
			continue
		}
		return ref, entry.Tile, float32(entry.Distance), true
	}
	return 0, world.Tile{}, 0, false
}

func (l *lookups) NearestCarcass(from world.Tile, radius int32) (simcomp.EntityRef, world.Tile, float32, bool) {
	bestRef := simcomp.NoEntity
	best := world.Tile{}
	bestDist := float32(math.MaxFloat32)
	found := false
	for id, e := range l.w.entities {
		if e.carcass == nil || e.carcass.RemainingNutrition <= 0 {
			continue
		}
		d := world.ChebyshevDistance(from, e.position.Tile)
		if d > radius {
			continue
		}
		if float32(d) < bestDist {
			bestDist = float32(d)
			best = e.position.Tile
			bestRef = id
			found = true
		}
	}
	return bestRef, best, bestDist, found
}

func (l *lookups) Reachable(from, to world.Tile) bool {
	return l.w.regions.SameRegion(from, to)
}

// LocateAlive implements actions.PreyLocator.
func (l *lookups) LocateAlive(prey simcomp.EntityRef) (world.Tile, bool) {
	e, ok := l.w.entities[prey]
	if !ok || !e.alive {
		return world.Tile{}, false
	}
	return e.position.Tile, true
}

// NutritionAt implements actions.CarcassSource.
func (l *lookups) NutritionAt(t world.Tile) float32 {
	for _, e := range l.w.entities {
		if e.carcass == nil {
			continue
		}
		if e.position.Tile == t {
			return e.carcass.RemainingNutrition
		}
	}
	return 0
}

// BiomassAt implements actions.BiomassSampler.
func (l *lookups) BiomassAt(t world.Tile) float32 {
	return l.w.veg.BiomassAt(t)
}

// refOf resolves a spatial index's ark entity handle back to the
// scheduler's own EntityRef.
func (w *World) refOf(e ecs.Entity) (simcomp.EntityRef, bool) {
	id, ok := w.ecsToRef[e]
	return id, ok
}
