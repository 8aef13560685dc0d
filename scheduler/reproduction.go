package scheduler

import (
	"github.com/pthm-cable/wildsim/actions"
	"github.com/pthm-cable/wildsim/planner"
	"github.com/pthm-cable/wildsim/simcomp"
	"github.com/pthm-cable/wildsim/world"
)

// eligibleMate searches for an opposite-sex, same-species partner within
// mating_search_radius that is itself mature, well-fed long enough, off
// cooldown, and not already carrying a pregnancy, per spec.md §8.4's birth
// gate. A linear scan over the registry, grounded on lookups.NearestCarcass's
// own linear-scan shape — population sizes here never approach what would
// make a spatial-index kind mask (which only tags herbivore/predator/
// omnivore, not species/sex) worth extending.
func (w *World) eligibleMate(id simcomp.EntityRef, ent *entity) (*planner.MateCandidate, bool) {
	if ent.sex == simcomp.SexFemale && ent.pregnancy != nil {
		return nil, false
	}
	if !w.matingReady(ent) {
		return nil, false
	}

	radius := w.cfg.Reproduction.MatingSearchRadius
	bestDist := float32(radius) + 1
	var best simcomp.EntityRef
	found := false

	for _, otherID := range w.sortedAliveIDs() {
		if otherID == id {
			continue
		}
		other := w.entities[otherID]
		if other.species != ent.species || other.sex == ent.sex {
			continue
		}
		if other.sex == simcomp.SexFemale && other.pregnancy != nil {
			continue
		}
		if !w.matingReady(other) {
			continue
		}
		if active, busy := w.queue.ActiveOf(otherID); busy && active.Action.Kind() == actions.KindMate {
			continue
		}
		d := float32(world.ChebyshevDistance(ent.position.Tile, other.position.Tile))
		if d > float32(radius) || d >= bestDist {
			continue
		}
		bestDist = d
		best = otherID
		found = true
	}

	if !found {
		return nil, false
	}

	meetingTile := midpointTile(ent.position.Tile, w.entities[best].position.Tile)
	return &planner.MateCandidate{Partner: best, MeetingTile: meetingTile, Distance: bestDist}, true
}

func (w *World) matingReady(ent *entity) bool {
	return ent.age.IsMature() &&
		ent.cooldown.CooldownUntilTick <= w.tick &&
		ent.wellFed.Ticks >= w.cfg.Reproduction.WellFedStreakRequired
}

func midpointTile(a, b world.Tile) world.Tile {
	return world.Tile{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// phaseReproduction counts down pregnancies and spawns litters once their
// gestation period elapses (phase 11, spec.md §8.4).
func (w *World) phaseReproduction() {
	var due []simcomp.EntityRef
	for _, id := range w.sortedAliveIDs() {
		ent := w.entities[id]
		if ent.pregnancy == nil {
			continue
		}
		if w.tick >= ent.pregnancy.DueTick {
			due = append(due, id)
		}
	}
	sortAsc(due)

	for _, motherID := range due {
		mother := w.entities[motherID]
		litterSize := w.cfg.Reproduction.LitterMin
		span := w.cfg.Reproduction.LitterMax - w.cfg.Reproduction.LitterMin
		if span > 0 {
			litterSize += w.rng.Intn(span + 1)
		}
		for i := 0; i < litterSize; i++ {
			w.SpawnChild(motherID, simcomp.NoEntity, mother.position.Tile, w.tick)
		}
		mother.pregnancy = nil
	}
}
