package scheduler

import (
	"github.com/pthm-cable/wildsim/actions"
	"github.com/pthm-cable/wildsim/simcomp"
	"github.com/pthm-cable/wildsim/telemetry"
)

// Per-tick metabolic rates, expressed as a fraction of each stat's species
// max so a rabbit and a bear starve/dehydrate on comparable timelines
// despite very different Max* values.
const (
	hungerGainFraction = 0.0006
	thirstGainFraction = 0.0008
	energyDrainFraction = 0.0004
	energyRestGainFraction = 0.01

	starvingHealthDrain = 0.05

	carcassNutritionFraction = 0.6
	carcassDecayTicks        = int64(400)
)

// phaseStatsAging runs per-tick stat decay, aging, well-fed tracking, and
// death/carcass detection (phase 10, spec.md §4 data-flow: "stat decay/
// aging").
func (w *World) phaseStatsAging() {
	for _, id := range w.sortedAliveIDs() {
		ent := w.entities[id]

		ent.age.Ticks++

		ent.stats.Hunger = clampStat(ent.stats.Hunger+ent.stats.MaxHunger*hungerGainFraction, ent.stats.MaxHunger)
		ent.stats.Thirst = clampStat(ent.stats.Thirst+ent.stats.MaxThirst*thirstGainFraction, ent.stats.MaxThirst)

		resting := false
		if active, ok := w.queue.ActiveOf(id); ok && active.Action.Kind() == actions.KindRest {
			resting = true
		}
		if resting {
			ent.stats.Energy = clampStat(ent.stats.Energy+ent.stats.MaxEnergy*energyRestGainFraction, ent.stats.MaxEnergy)
		} else {
			ent.stats.Energy = clampStat(ent.stats.Energy-ent.stats.MaxEnergy*energyDrainFraction, ent.stats.MaxEnergy)
		}

		starving := ent.stats.Hunger >= ent.stats.MaxHunger || ent.stats.Thirst >= ent.stats.MaxThirst
		if starving {
			ent.stats.Health = clampStat(ent.stats.Health-ent.stats.MaxHealth*starvingHealthDrain, ent.stats.MaxHealth)
		}

		wellFed := ent.cache.HungerUrgency < ent.behavior.HungerActivation && ent.cache.ThirstUrgency < ent.behavior.ThirstActivation
		if wellFed {
			ent.wellFed.Ticks++
		} else {
			ent.wellFed.Ticks = 0
		}

		if ent.stats.Health <= 0 {
			w.killEntity(id, ent)
		}
	}

	w.decayCarcasses()
}

func clampStat(v, max float32) float32 {
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

// killEntity marks an entity dead, drops it as prey/predator/hunt target
// material, and leaves a scavengable carcass at its death tile. The
// spatial index's own Remove is deferred-apply (reconciled by next tick's
// Spatial Maintenance), which is fine: every other subsystem consults
// ent.alive directly rather than the index for liveness.
func (w *World) killEntity(id simcomp.EntityRef, ent *entity) {
	ent.alive = false
	ent.carcass = &simcomp.Carcass{
		RemainingNutrition: ent.stats.MaxHealth * carcassNutritionFraction,
		DecayTicksLeft:     carcassDecayTicks,
	}
	ent.movement.State = simcomp.MovementIdle
	ent.movement.Path = nil

	if active, ok := w.queue.ActiveOf(id); ok {
		active.Action.Cancel(w.contextFor(id, ent, nil))
	}
	w.queue.Clear(id)
	w.spatial.Remove(ent.ecsEntity)

	w.collector.RecordDeath(ent.species.String())
	w.hall.Consider(telemetry.HallEntry{
		EntityID:      uint32(id),
		Species:       ent.species.String(),
		SurvivalTicks: ent.age.Ticks,
		Children:      ent.childrenCount,
	})
}

// decayCarcasses ticks down every carcass's remaining lifetime, fully
// despawning the entity once its remains are gone.
func (w *World) decayCarcasses() {
	var gone []simcomp.EntityRef
	for id, ent := range w.entities {
		if ent.carcass == nil {
			continue
		}
		ent.carcass.DecayTicksLeft--
		if ent.carcass.DecayTicksLeft <= 0 || ent.carcass.RemainingNutrition <= 0 {
			gone = append(gone, id)
		}
	}
	sortAsc(gone)
	for _, id := range gone {
		w.despawn(id)
	}
}

// despawn fully removes a dead entity from the registry once its carcass
// has nothing left to offer.
func (w *World) despawn(id simcomp.EntityRef) {
	ent, ok := w.entities[id]
	if !ok {
		return
	}
	delete(w.ecsToRef, ent.ecsEntity)
	delete(w.entities, id)
	delete(w.replanNext, id)
}
