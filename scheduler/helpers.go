package scheduler

import (
	"github.com/pthm-cable/wildsim/actions"
	"github.com/pthm-cable/wildsim/pathfind"
	"github.com/pthm-cable/wildsim/planner"
	"github.com/pthm-cable/wildsim/queue"
	"github.com/pthm-cable/wildsim/simcomp"
)

// contextFor builds the read-only actions.Context an action's CanExecute/
// Execute/Cancel runs against. deferred may be nil when only Cancel is
// being invoked (Action Selection's preempt path doesn't record side
// effects).
func (w *World) contextFor(id simcomp.EntityRef, ent *entity, deferred *actions.Deferred) actions.Context {
	if deferred == nil {
		deferred = &actions.Deferred{}
	}
	return actions.Context{
		Self:          id,
		Position:      ent.position.Tile,
		Tick:          w.tick,
		MovementState: ent.movement.State,
		AtTarget:      ent.atTarget,
		Stats:         &ent.stats,
		Needs:         &ent.needs,
		Commands:      deferred,
	}
}

// buildEvalInput assembles one entity's planner.EvalInput from registry
// state and the relationship graph.
func (w *World) buildEvalInput(id simcomp.EntityRef, ent *entity) planner.EvalInput {
	inPack := w.graph.IsAffiliated(id)
	groupType, inGroup := w.graph.GroupTypeOf(id)
	inHerd := inGroup && groupType == simcomp.GroupHerd

	in := planner.EvalInput{
		Self:     id,
		Position: ent.position.Tile,
		Species:  ent.species,
		Diet:     ent.profile.Diet,
		Behavior: ent.behavior,
		Cache:    ent.cache,
		Age:      ent.age,
		Fear:     ent.fear,
		InPack:   inPack,
		InHerd:   inHerd,
	}

	if mate, ok := w.eligibleMate(id, ent); ok {
		in.MateEligible = true
		in.Mate = mate
	}

	if !ent.age.IsMature() && ent.hasMother {
		if motherTile, ok := w.PositionOf(ent.mother); ok {
			in.IsJuvenile = true
			in.HasMother = true
			in.MotherTile = motherTile
		}
	}

	return in
}

// queueRequest wraps an instantiated Action and its scored proposal into
// the queue package's Request shape.
func queueRequest(act actions.Action, p planner.Proposal) queue.Request {
	return queue.Request{Action: act, Priority: p.Score.Priority, Utility: p.Score.Utility}
}

// recordActionOutcome feeds a finished action's Kind/outcome into the
// rolling telemetry counters.
func (w *World) recordActionOutcome(kind actions.Kind, result actions.ResultKind) {
	switch kind {
	case actions.KindHunt:
		w.collector.RecordHuntAttempt()
		if result == actions.ResultSuccess {
			w.collector.RecordHuntSuccess()
		}
	case actions.KindGraze, actions.KindHarvest:
		if result == actions.ResultSuccess {
			w.collector.RecordGraze()
		}
	case actions.KindDrinkWater:
		if result == actions.ResultSuccess {
			w.collector.RecordDrink()
		}
	case actions.KindMate:
		if result == actions.ResultSuccess {
			w.collector.RecordMate()
		}
	case actions.KindFlee:
		w.collector.RecordFlee()
	}
}

// reasonFor maps an action kind to the pathfinding reason recorded on its
// request, surfaced back on failure so the executor can decide
// retry-vs-abort without re-deriving it.
func reasonFor(kind actions.Kind) pathfind.Reason {
	switch kind {
	case actions.KindDrinkWater:
		return pathfind.ReasonMovingToWater
	case actions.KindGraze, actions.KindHarvest, actions.KindScavenge:
		return pathfind.ReasonMovingToFood
	case actions.KindHunt:
		return pathfind.ReasonHunt
	case actions.KindMate:
		return pathfind.ReasonMovingToMate
	default:
		return pathfind.ReasonWandering
	}
}

// pathPriorityFor maps an action kind to the pathfinding service's
// priority bucket.
func pathPriorityFor(kind actions.Kind) pathfind.Priority {
	switch kind {
	case actions.KindFlee:
		return pathfind.PriorityCritical
	case actions.KindDrinkWater, actions.KindHunt:
		return pathfind.PriorityHigh
	case actions.KindGraze, actions.KindScavenge, actions.KindHarvest, actions.KindMate:
		return pathfind.PriorityNormal
	default:
		return pathfind.PriorityLow
	}
}
