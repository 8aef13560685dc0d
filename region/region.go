// Package region provides connected-component ("region") labelling over
// walkable world tiles, used to cheaply reject unreachable pathfinding
// requests before handing them to the (expensive) A* search. Grounded on
// the teacher's NavGrid/TerrainSystem walkability-grid idiom
// (systems/navgrid.go, systems/terrain.go: derive a grid once from terrain
// queries, then query it cheaply forever), adapted here to connected
// components instead of inflated collision cells.
package region

import "github.com/pthm-cable/wildsim/world"

// ID identifies a connected walkable region. Zero means "unwalkable /
// outside the built area".
type ID uint32

// Map is an O(1) region lookup built once at startup from a bounded area
// of the world. Terrain is static for the lifetime of a run, so the map is
// never invalidated after Build.
type Map struct {
	labels map[world.Tile]ID
	count  ID
}

// Build flood-fills every walkable tile in [min, max] (inclusive) into
// connected regions. Regions are 4-connected: diagonal-only adjacency does
// not count as reachable, matching the Chebyshev-distance proximity
// queries used elsewhere being a separate, looser notion of "nearby".
func Build(loader world.Loader, min, max world.Tile) *Map {
	m := &Map{labels: make(map[world.Tile]ID)}

	for x := min.X; x <= max.X; x++ {
		for y := min.Y; y <= max.Y; y++ {
			t := world.Tile{X: x, Y: y}
			if _, seen := m.labels[t]; seen {
				continue
			}
			if !world.IsWalkable(loader, t) {
				m.labels[t] = 0
				continue
			}
			m.count++
			m.floodFill(loader, t, m.count, min, max)
		}
	}
	return m
}

var neighborOffsets = [4]world.Tile{
	{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1},
}

func (m *Map) floodFill(loader world.Loader, seed world.Tile, id ID, min, max world.Tile) {
	stack := []world.Tile{seed}
	m.labels[seed] = id
	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, off := range neighborOffsets {
			n := world.Tile{X: t.X + off.X, Y: t.Y + off.Y}
			if n.X < min.X || n.X > max.X || n.Y < min.Y || n.Y > max.Y {
				continue
			}
			if _, seen := m.labels[n]; seen {
				continue
			}
			if !world.IsWalkable(loader, n) {
				m.labels[n] = 0
				continue
			}
			m.labels[n] = id
			stack = append(stack, n)
		}
	}
}

// RegionOf returns the region containing t, or 0 if t is unwalkable or
// falls outside the built area.
func (m *Map) RegionOf(t world.Tile) ID {
	return m.labels[t]
}

// SameRegion reports whether a and b are mutually reachable via
// 4-directional walkable movement within the built area.
func (m *Map) SameRegion(a, b world.Tile) bool {
	ra := m.RegionOf(a)
	return ra != 0 && ra == m.RegionOf(b)
}

// Count returns the number of distinct walkable regions found.
func (m *Map) Count() int {
	return int(m.count)
}
