// Package spatial provides a tile-bucketed spatial index for O(k) proximity
// queries, grounded on the cell-bucketed design of the teacher's
// SpatialGrid but adapted from a dense continuous/toroidal grid to a
// sparse tile grid with Chebyshev distance (no wraparound, unbounded
// world).
package spatial

import (
	"sort"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/wildsim/world"
)

// Kind tags an entity for kind-filtered proximity queries (e.g. "nearest
// predator", "nearest herbivore").
type Kind uint8

const (
	KindHerbivore Kind = 1 << iota
	KindPredator
	KindOmnivore
)

// KindAll matches every kind in a query.
const KindAll = KindHerbivore | KindPredator | KindOmnivore

// CellSize is the tile span of one bucket. Chosen so that a typical sensor
// radius spans a small, constant number of cells.
const CellSize = 8

// Entry is a resolved query result: an entity plus its cached tile and
// kind, returned alongside Chebyshev distance to the query origin.
type Entry struct {
	Entity   ecs.Entity
	Tile     world.Tile
	Kind     Kind
	Distance int32
}

// Index is a sparse map-backed grid of tile buckets. Unlike a dense array
// grid it never needs a fixed world size, matching the unbounded
// procedural world.
type Index struct {
	cells map[world.Tile][]ecs.Entity
	// pos/kind are the authoritative cache the maintenance phases
	// reconcile against; cells are derived from these on insert/update.
	pos  map[ecs.Entity]world.Tile
	kind map[ecs.Entity]Kind

	pendingInsert map[ecs.Entity]insertion
	pendingUpdate map[ecs.Entity]world.Tile
	pendingRemove map[ecs.Entity]struct{}
}

type insertion struct {
	tile world.Tile
	kind Kind
}

// NewIndex builds an empty spatial index.
func NewIndex() *Index {
	return &Index{
		cells:         make(map[world.Tile][]ecs.Entity),
		pos:           make(map[ecs.Entity]world.Tile),
		kind:          make(map[ecs.Entity]Kind),
		pendingInsert: make(map[ecs.Entity]insertion),
		pendingUpdate: make(map[ecs.Entity]world.Tile),
		pendingRemove: make(map[ecs.Entity]struct{}),
	}
}

func cellOf(t world.Tile) world.Tile {
	return world.Tile{X: floorDivInt32(t.X, CellSize), Y: floorDivInt32(t.Y, CellSize)}
}

func floorDivInt32(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Insert queues an entity for insertion at the next Maintain call. Queuing
// (rather than mutating immediately) keeps all index writes confined to
// the Spatial Maintenance phase.
func (idx *Index) Insert(e ecs.Entity, tile world.Tile, k Kind) {
	idx.pendingInsert[e] = insertion{tile: tile, kind: k}
}

// Update queues a position change for an already-indexed entity.
func (idx *Index) Update(e ecs.Entity, tile world.Tile) {
	idx.pendingUpdate[e] = tile
}

// Remove queues an entity for removal.
func (idx *Index) Remove(e ecs.Entity) {
	idx.pendingRemove[e] = struct{}{}
}

// Maintain applies queued insertions, then updates, then removals, in that
// order, so an entity updated and removed in the same tick ends up
// removed, and one inserted and then updated ends up at its final tile.
func (idx *Index) Maintain() {
	for e, ins := range idx.pendingInsert {
		idx.insertNow(e, ins.tile, ins.kind)
	}
	idx.pendingInsert = make(map[ecs.Entity]insertion)

	for e, tile := range idx.pendingUpdate {
		if _, removed := idx.pos[e]; !removed {
			continue
		}
		idx.moveNow(e, tile)
	}
	idx.pendingUpdate = make(map[ecs.Entity]world.Tile)

	for e := range idx.pendingRemove {
		idx.removeNow(e)
	}
	idx.pendingRemove = make(map[ecs.Entity]struct{})
}

func (idx *Index) insertNow(e ecs.Entity, tile world.Tile, k Kind) {
	if old, ok := idx.pos[e]; ok {
		idx.detach(old, e)
	}
	idx.pos[e] = tile
	idx.kind[e] = k
	c := cellOf(tile)
	idx.cells[c] = append(idx.cells[c], e)
}

func (idx *Index) moveNow(e ecs.Entity, tile world.Tile) {
	old := idx.pos[e]
	if old == tile {
		return
	}
	if cellOf(old) == cellOf(tile) {
		idx.pos[e] = tile
		return
	}
	idx.detach(old, e)
	idx.pos[e] = tile
	c := cellOf(tile)
	idx.cells[c] = append(idx.cells[c], e)
}

func (idx *Index) removeNow(e ecs.Entity) {
	tile, ok := idx.pos[e]
	if !ok {
		return
	}
	idx.detach(tile, e)
	delete(idx.pos, e)
	delete(idx.kind, e)
}

func (idx *Index) detach(tile world.Tile, e ecs.Entity) {
	c := cellOf(tile)
	bucket := idx.cells[c]
	for i, o := range bucket {
		if o == e {
			bucket[i] = bucket[len(bucket)-1]
			bucket = bucket[:len(bucket)-1]
			break
		}
	}
	if len(bucket) == 0 {
		delete(idx.cells, c)
	} else {
		idx.cells[c] = bucket
	}
}

// PositionOf returns the last-maintained tile of an entity.
func (idx *Index) PositionOf(e ecs.Entity) (world.Tile, bool) {
	t, ok := idx.pos[e]
	return t, ok
}

// MaxQueryResults caps query result size, preventing density spikes in
// populated cells from causing unbounded per-tick work.
const MaxQueryResults = 128

// QueryRadius returns entities within Chebyshev radius of origin matching
// kindMask, excluding self, sorted by (distance, entity ID) for
// determinism. Results are capped at MaxQueryResults, nearest first.
func (idx *Index) QueryRadius(origin world.Tile, radius int32, kindMask Kind, self ecs.Entity) []Entry {
	cellRadius := radius/CellSize + 1
	center := cellOf(origin)

	var out []Entry
	for dc := -cellRadius; dc <= cellRadius; dc++ {
		for dr := -cellRadius; dr <= cellRadius; dr++ {
			c := world.Tile{X: center.X + dc, Y: center.Y + dr}
			bucket, ok := idx.cells[c]
			if !ok {
				continue
			}
			for _, e := range bucket {
				if e == self {
					continue
				}
				k := idx.kind[e]
				if kindMask != 0 && k&kindMask == 0 {
					continue
				}
				tile := idx.pos[e]
				d := world.ChebyshevDistance(origin, tile)
				if d > radius {
					continue
				}
				out = append(out, Entry{Entity: e, Tile: tile, Kind: k, Distance: d})
			}
		}
	}

	// Stable: iteration order above (fixed dc/dr range over bucket slices
	// in insertion order) is already deterministic, so a stable sort on
	// distance alone preserves a deterministic tie order without needing
	// to compare entity identities.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Distance < out[j].Distance
	})
	if len(out) > MaxQueryResults {
		out = out[:MaxQueryResults]
	}
	return out
}

// Len reports the number of currently indexed entities.
func (idx *Index) Len() int {
	return len(idx.pos)
}
