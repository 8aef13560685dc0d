package scheduler

import (
	"github.com/pthm-cable/wildsim/actions"
	"github.com/pthm-cable/wildsim/planner"
	"github.com/pthm-cable/wildsim/simcomp"
	"github.com/pthm-cable/wildsim/world"
)

const (
	matingDuration    = 50
	restDuration      = 30
	followStopDistance = int32(2)
)

// instantiateAction builds the concrete Action object a winning Proposal
// describes. Returns nil if the proposal can no longer be resolved (a
// reference went stale between Planning and this call).
func (w *World) instantiateAction(ent *entity, self simcomp.EntityRef, p planner.Proposal) actions.Action {
	switch p.Score.ActionType {
	case actions.KindDrinkWater:
		return actions.NewDrinkWater(p.TargetTile)

	case actions.KindGraze:
		return actions.NewGraze(p.TargetTile, w.lk)

	case actions.KindHunt:
		if !p.HasEntity {
			return nil
		}
		return actions.NewHunt(p.TargetEntity, w.lk, w.rng)

	case actions.KindScavenge:
		if !p.HasEntity {
			return nil
		}
		return actions.NewScavenge(p.TargetTile, p.TargetEntity, w.lk)

	case actions.KindFlee:
		predator := p.TargetEntity
		threatTile, ok := w.PositionOf(predator)
		if !ok {
			return nil
		}
		locate := func() (world.Tile, bool) { return w.PositionOf(predator) }
		return actions.NewFlee(threatTile, locate)

	case actions.KindMate:
		if !p.HasEntity {
			return nil
		}
		partner := p.TargetEntity
		meetingTile := p.TargetTile
		isMother := ent.sex == simcomp.SexFemale
		father := self
		if isMother {
			father = partner
		}
		partnerHere := func() bool {
			pe, ok := w.entities[partner]
			return ok && pe.alive && pe.position.Tile == meetingTile
		}
		return actions.NewMate(partner, meetingTile, matingDuration, isMother, father, partnerHere)

	case actions.KindRest:
		return actions.NewRest(restDuration)

	case actions.KindFollow:
		mother := ent.mother
		locate := func() (world.Tile, bool) { return w.PositionOf(mother) }
		return actions.NewFollow(followStopDistance, locate)

	case actions.KindWander:
		target, ok := w.pickWanderTarget(ent.position.Tile, ent.behavior.SearchRadius)
		if !ok {
			return nil
		}
		return actions.NewWander(target)

	case actions.KindHarvest:
		if !p.HasTile {
			return nil
		}
		kind, _ := w.loader.ResourceAt(p.TargetTile)
		return actions.NewHarvest(p.TargetTile, kind, w.lk)

	default:
		return nil
	}
}

// recordRelationshipOnInstall mirrors a freshly-installed Hunt/Mate action
// into the relationship graph; called once per install (not every tick an
// action stays active), since Graph.SetHunt/SetMate overwrite is otherwise
// harmless but wasteful to repeat.
func (w *World) recordRelationshipOnInstall(self simcomp.EntityRef, act actions.Action) {
	switch a := act.(type) {
	case *actions.Hunt:
		w.graph.SetHunt(self, a.Prey, w.tick)
	case *actions.Mate:
		w.graph.SetMate(self, a.Partner, a.MeetingTile, w.tick)
	}
}

// pickWanderTarget samples a handful of random tiles within radius and
// returns the first walkable one found, falling back to the entity's own
// tile if the world is too constrained.
func (w *World) pickWanderTarget(from world.Tile, radius int32) (world.Tile, bool) {
	if radius <= 0 {
		radius = 10
	}
	for attempt := 0; attempt < 10; attempt++ {
		dx := int32(w.rng.Intn(int(2*radius+1))) - radius
		dy := int32(w.rng.Intn(int(2*radius+1))) - radius
		t := world.Tile{X: from.X + dx, Y: from.Y + dy}
		if world.IsWalkable(w.loader, t) {
			return t, true
		}
	}
	return from, true
}

// supplementalHarvestProposal gives every non-carnivore a Harvest candidate
// for the nearest reachable mushroom/wild-root tile that still has biomass,
// since planner.Evaluate never proposes Harvest (its Graze proposals come
// from tree/shrub biomass only). It does not compare distance against the
// nearest grazeable tile; the usual priority/utility ranking decides.
func (w *World) supplementalHarvestProposal(in planner.EvalInput) (planner.Proposal, bool) {
	if in.Diet == simcomp.DietCarnivore {
		return planner.Proposal{}, false
	}
	tile, _, ok := w.lk.nearestHarvestable(in.Position, in.Behavior.SearchRadius)
	if !ok || !w.lk.Reachable(in.Position, tile) {
		return planner.Proposal{}, false
	}
	dist := float32(world.ChebyshevDistance(in.Position, tile))
	u := planner.NeedUtility(in.Cache.HungerUrgency, dist, float32(in.Behavior.SearchRadius))
	priority := planner.PriorityGrazeIdle
	if in.Cache.HungerUrgency > 0.7 {
		priority = planner.CriticalPriority(in.Cache.HungerUrgency)
	}
	return planner.Proposal{
		Score:      planner.UtilityScore{ActionType: actions.KindHarvest, Utility: u, Priority: priority},
		TargetTile: tile, HasTile: true,
	}, true
}
