package spatial

import (
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/wildsim/world"
)

// marker is a zero-size stand-in component, used only so the test can
// create bare entities the same way production code creates entities
// through a typed ecs.Map.
type marker struct{}

func newWorldEntities(n int) (*ecs.World, []ecs.Entity) {
	w := ecs.NewWorld()
	m := ecs.NewMap1[marker](w)
	entities := make([]ecs.Entity, n)
	for i := 0; i < n; i++ {
		entities[i] = m.NewEntity(&marker{})
	}
	return w, entities
}

func TestInsertAndQueryRadius(t *testing.T) {
	_, ents := newWorldEntities(3)
	idx := NewIndex()

	idx.Insert(ents[0], world.Tile{X: 0, Y: 0}, KindHerbivore)
	idx.Insert(ents[1], world.Tile{X: 2, Y: 0}, KindPredator)
	idx.Insert(ents[2], world.Tile{X: 20, Y: 20}, KindHerbivore)
	idx.Maintain()

	results := idx.QueryRadius(world.Tile{X: 0, Y: 0}, 5, KindAll, ecs.Entity{})
	if len(results) != 2 {
		t.Fatalf("expected 2 results within radius 5, got %d", len(results))
	}

	results = idx.QueryRadius(world.Tile{X: 0, Y: 0}, 5, KindPredator, ecs.Entity{})
	if len(results) != 1 || results[0].Entity != ents[1] {
		t.Fatalf("expected only predator entity in filtered query, got %+v", results)
	}
}

func TestQueryExcludesSelf(t *testing.T) {
	_, ents := newWorldEntities(1)
	idx := NewIndex()
	idx.Insert(ents[0], world.Tile{X: 0, Y: 0}, KindHerbivore)
	idx.Maintain()

	results := idx.QueryRadius(world.Tile{X: 0, Y: 0}, 5, KindAll, ents[0])
	if len(results) != 0 {
		t.Fatalf("expected self to be excluded, got %d results", len(results))
	}
}

func TestUpdateMovesEntityBetweenCells(t *testing.T) {
	_, ents := newWorldEntities(1)
	idx := NewIndex()
	idx.Insert(ents[0], world.Tile{X: 0, Y: 0}, KindHerbivore)
	idx.Maintain()

	idx.Update(ents[0], world.Tile{X: 100, Y: 100})
	idx.Maintain()

	if got, ok := idx.PositionOf(ents[0]); !ok || got != (world.Tile{X: 100, Y: 100}) {
		t.Fatalf("expected entity at (100,100), got %v ok=%v", got, ok)
	}

	near := idx.QueryRadius(world.Tile{X: 0, Y: 0}, 5, KindAll, ecs.Entity{})
	if len(near) != 0 {
		t.Fatalf("expected no entities near origin after move, got %d", len(near))
	}

	far := idx.QueryRadius(world.Tile{X: 100, Y: 100}, 5, KindAll, ecs.Entity{})
	if len(far) != 1 {
		t.Fatalf("expected 1 entity near new position, got %d", len(far))
	}
}

func TestRemoveDropsFromIndex(t *testing.T) {
	_, ents := newWorldEntities(1)
	idx := NewIndex()
	idx.Insert(ents[0], world.Tile{X: 0, Y: 0}, KindHerbivore)
	idx.Maintain()

	idx.Remove(ents[0])
	idx.Maintain()

	if idx.Len() != 0 {
		t.Fatalf("expected empty index after remove, got len %d", idx.Len())
	}
	if results := idx.QueryRadius(world.Tile{X: 0, Y: 0}, 5, KindAll, ecs.Entity{}); len(results) != 0 {
		t.Fatalf("expected no query results after remove, got %d", len(results))
	}
}

func TestUpdateThenRemoveSameTickEndsRemoved(t *testing.T) {
	_, ents := newWorldEntities(1)
	idx := NewIndex()
	idx.Insert(ents[0], world.Tile{X: 0, Y: 0}, KindHerbivore)
	idx.Maintain()

	idx.Update(ents[0], world.Tile{X: 3, Y: 3})
	idx.Remove(ents[0])
	idx.Maintain()

	if idx.Len() != 0 {
		t.Fatalf("expected entity removed despite pending update, got len %d", idx.Len())
	}
}

func TestQueryRadiusCapsResults(t *testing.T) {
	n := MaxQueryResults + 20
	_, ents := newWorldEntities(n)
	idx := NewIndex()
	for i, e := range ents {
		idx.Insert(e, world.Tile{X: int32(i % 3), Y: int32(i / 3 % 3)}, KindHerbivore)
	}
	idx.Maintain()

	results := idx.QueryRadius(world.Tile{X: 0, Y: 0}, 50, KindAll, ecs.Entity{})
	if len(results) != MaxQueryResults {
		t.Fatalf("expected results capped at %d, got %d", MaxQueryResults, len(results))
	}
}

func TestQueryRadiusSortedByDistance(t *testing.T) {
	_, ents := newWorldEntities(3)
	idx := NewIndex()
	idx.Insert(ents[0], world.Tile{X: 4, Y: 0}, KindHerbivore)
	idx.Insert(ents[1], world.Tile{X: 1, Y: 0}, KindHerbivore)
	idx.Insert(ents[2], world.Tile{X: 2, Y: 0}, KindHerbivore)
	idx.Maintain()

	results := idx.QueryRadius(world.Tile{X: 0, Y: 0}, 10, KindAll, ecs.Entity{})
	for i := 1; i < len(results); i++ {
		if results[i-1].Distance > results[i].Distance {
			t.Fatalf("results not sorted by distance: %+v", results)
		}
	}
}
