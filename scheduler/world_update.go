package scheduler

import (
	"sort"
	"time"

	"github.com/pthm-cable/wildsim/actions"
	"github.com/pthm-cable/wildsim/relationships"
	"github.com/pthm-cable/wildsim/simcomp"
	"github.com/pthm-cable/wildsim/snapshot"
	"github.com/pthm-cable/wildsim/world"
)

// commitDeferred applies one Action Execute phase's recorded side effects
// atomically, in a fixed order, per spec.md §4.J's "executor reads only;
// commands applied at end of phase" rule. Grounded on the teacher's
// collect-during-query/mutate-after idiom that actions.Deferred itself
// documents.
func (w *World) commitDeferred(d *actions.Deferred) {
	for _, sd := range d.StatDeltas {
		ent, ok := w.entities[sd.Entity]
		if !ok || !ent.alive {
			continue
		}
		ent.stats.Hunger = clampStat(ent.stats.Hunger+sd.Hunger, ent.stats.MaxHunger)
		ent.stats.Thirst = clampStat(ent.stats.Thirst+sd.Thirst, ent.stats.MaxThirst)
		ent.stats.Energy = clampStat(ent.stats.Energy+sd.Energy, ent.stats.MaxEnergy)
		ent.stats.Health = clampStat(ent.stats.Health+sd.Health, ent.stats.MaxHealth)
	}

	for _, c := range d.Consumptions {
		if active, ok := w.queue.ActiveOf(c.Entity); ok {
			if sc, isScavenge := active.Action.(*actions.Scavenge); isScavenge {
				if target, ok := w.entities[sc.Carcass]; ok && target.carcass != nil {
					target.carcass.RemainingNutrition -= c.Requested
					if target.carcass.RemainingNutrition < 0 {
						target.carcass.RemainingNutrition = 0
					}
				}
				continue
			}
		}
		w.veg.Consume(c.Tile, c.Requested)
	}

	for _, death := range d.Deaths {
		ent, ok := w.entities[death.Entity]
		if !ok || !ent.alive {
			continue
		}
		w.killEntity(death.Entity, ent)
	}

	for _, b := range d.Births {
		mother, ok := w.entities[b.Mother]
		if !ok || !mother.alive {
			continue
		}
		w.SpawnChild(b.Mother, b.Father, mother.position.Tile, b.Tick)
	}

	for i := 0; i+1 < len(d.ClearHunt); i += 2 {
		w.graph.ClearHunt(d.ClearHunt[i], d.ClearHunt[i+1])
	}
	for i := 0; i+1 < len(d.ClearMating); i += 2 {
		w.graph.ClearMate(d.ClearMating[i], d.ClearMating[i+1])
	}
	for _, id := range d.ClearActions {
		w.queue.Clear(id)
	}

	for _, p := range d.SetPregnancy {
		mother, ok := w.entities[p.Mother]
		if !ok || !mother.alive {
			continue
		}
		mother.pregnancy = &simcomp.Pregnancy{
			ConceivedTick: p.ConceivedTick,
			DueTick:       p.ConceivedTick + w.cfg.Reproduction.GestationTicks,
			FatherSpecies: mother.species,
		}
	}

	for _, c := range d.SetCooldown {
		if ent, ok := w.entities[c.Entity]; ok {
			ent.cooldown.CooldownUntilTick = c.CooldownUntilTick
		}
	}
}

// phaseVegetation advances the vegetation grid's regrowth scheduler within
// its configured time budget and recomputes chunk LOD tiers from the
// current population's tiles (phase 12).
func (w *World) phaseVegetation() {
	budget := time.Duration(w.cfg.Vegetation.TimeBudgetMillis) * time.Millisecond
	w.veg.Update(w.tick, budget)

	tiles := make([]world.Tile, 0, len(w.entities))
	for _, id := range w.sortedAliveIDs() {
		tiles = append(tiles, w.entities[id].position.Tile)
	}
	w.veg.UpdateLOD(tiles)
}

// phaseRelationships runs stale-pair cleanup, then per-species group
// formation and cohesion (phase 13, spec.md §4.G). Formation is run once
// per species so a cluster never mixes species into one pack.
func (w *World) phaseRelationships() {
	relationships.Cleanup(w.graph, relationships.Alive(w.Alive))

	bySpecies := make(map[simcomp.Species][]simcomp.EntityRef)
	for _, id := range w.sortedAliveIDs() {
		ent := w.entities[id]
		if !ent.profile.Groupable {
			continue
		}
		bySpecies[ent.species] = append(bySpecies[ent.species], id)
	}

	cfg := relationships.FormationConfig{
		GroupType:        simcomp.GroupPack,
		CheckInterval:    w.cfg.Relationships.FormationCheckInterval,
		FormationRadius:  w.cfg.Relationships.FormationRadius,
		MinGroupSize:     w.cfg.Relationships.MinGroupSize,
		CohesionRadius:   w.cfg.Relationships.CohesionRadius,
		CohesionInterval: w.cfg.Relationships.CohesionCheckInterval,
	}
	pos := relationships.PositionOf(w.PositionOf)

	for _, species := range sortedSpecies(bySpecies) {
		relationships.FormGroups(w.graph, w.tick, cfg, bySpecies[species], pos, w.tick)
	}
	relationships.Cohesion(w.graph, w.tick, cfg, pos)
}

func sortedSpecies(m map[simcomp.Species][]simcomp.EntityRef) []simcomp.Species {
	out := make([]simcomp.Species, 0, len(m))
	for s := range m {
		out = append(out, s)
	}
	sortAsc(out)
	return out
}

// phasePublish builds this tick's read-only snapshot and, on the
// telemetry window boundary, flushes rolling stats and checks for
// bookmarks (phase 14).
func (w *World) phasePublish() {
	snap := &snapshot.Snapshot{
		Tick:                w.tick,
		PopulationBySpecies: make(map[string]int),
	}

	for _, id := range w.sortedAliveIDs() {
		ent := w.entities[id]
		snap.PopulationBySpecies[ent.species.String()]++

		action := "idle"
		if active, ok := w.queue.ActiveOf(id); ok {
			action = active.Action.Kind().String()
		}
		snap.Entities = append(snap.Entities, snapshot.EntityView{
			Entity:  id,
			Species: ent.species,
			Tile:    ent.position.Tile,
			Hunger:  ent.stats.Hunger,
			Thirst:  ent.stats.Thirst,
			Energy:  ent.stats.Energy,
			Health:  ent.stats.Health,
			CurrentAction: action,
		})
	}
	snap.Biomass = w.sampleBiomass()
	w.snap.Publish(snap)

	if !w.collector.ShouldFlush(w.tick) {
		return
	}
	stats := w.collector.Flush(w.tick, snap.PopulationBySpecies)
	for _, bm := range w.bookmarks.Check(stats) {
		bm.Log()
	}
}

// sampleBiomass reports one aggregate biomass figure per chunk via the
// grid's own LOD impostor data, rather than walking every individual
// cell: Grid exposes no full-cell-enumeration API (per-cell state is read
// one tile at a time through CellAt/BiomassAt, for grazing lookups),
// and Impostors() is documented as exactly this: "for telemetry or a
// future viewer".
func (w *World) sampleBiomass() []snapshot.BiomassCell {
	impostors := w.veg.Impostors()
	cells := make([]snapshot.BiomassCell, 0, len(impostors))
	for _, imp := range impostors {
		origin := world.Tile{X: imp.Chunk.X * world.ChunkSize, Y: imp.Chunk.Y * world.ChunkSize}
		cells = append(cells, snapshot.BiomassCell{Tile: origin, Biomass: imp.AggregateBiomass})
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Tile.X != cells[j].Tile.X {
			return cells[i].Tile.X < cells[j].Tile.X
		}
		return cells[i].Tile.Y < cells[j].Tile.Y
	})
	return cells
}
