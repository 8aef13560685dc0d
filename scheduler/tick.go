package scheduler

import (
	"github.com/pthm-cable/wildsim/actions"
	"github.com/pthm-cable/wildsim/planner"
	"github.com/pthm-cable/wildsim/queue"
	"github.com/pthm-cable/wildsim/simcomp"
	"github.com/pthm-cable/wildsim/telemetry"
	"github.com/pthm-cable/wildsim/triggers"
)

// idleReplanThreshold is the general "nothing queued in a while" nudge;
// triggers.StuckIdleTicks is reserved for the validator's harsher
// force-reset case.
const idleReplanThreshold = int64(30)

// Step runs one full 14-phase tick, in the fixed order spec.md §4.L
// defines, advancing w.tick by one before returning.
func (w *World) Step() {
	w.tick++
	w.perf.StartTick()

	w.perf.StartPhase(telemetry.PhaseInputTriggers)
	replan := w.phaseInputTriggers()

	w.perf.StartPhase(telemetry.PhasePlanning)
	w.phasePlanning(replan)

	w.perf.StartPhase(telemetry.PhaseActionSelection)
	w.phaseActionSelection(replan)

	deferred := &actions.Deferred{}
	w.perf.StartPhase(telemetry.PhaseActionExecute)
	w.phaseActionExecute(deferred)

	w.perf.StartPhase(telemetry.PhaseBridgesA)
	w.phaseBridgesA()

	w.perf.StartPhase(telemetry.PhasePathfinding)
	ready, failed := w.paths.ProcessTick(w.tick)

	w.perf.StartPhase(telemetry.PhaseBridgesB)
	w.phaseBridgesB(ready, failed)

	w.perf.StartPhase(telemetry.PhaseMovement)
	w.phaseMovement()

	w.perf.StartPhase(telemetry.PhaseSpatialMaint)
	w.phaseSpatialMaintenance()

	w.perf.StartPhase(telemetry.PhaseStatsAging)
	w.phaseStatsAging()

	w.perf.StartPhase(telemetry.PhaseReproduction)
	w.phaseReproduction()

	w.perf.StartPhase(telemetry.PhaseVegetation)
	w.phaseVegetation()

	w.perf.StartPhase(telemetry.PhaseRelationships)
	w.phaseRelationships()

	w.perf.StartPhase(telemetry.PhasePublish)
	w.phasePublish()

	w.perf.EndTick()
}

// phaseInputTriggers refreshes every live entity's cached urgency state,
// evaluates the trigger emitter, and merges in replan tags carried over
// from actions that finished last tick, producing this tick's
// NeedsReplanning set.
func (w *World) phaseInputTriggers() triggers.Set {
	replan := triggers.NewSet()
	for id := range w.replanNext {
		replan.Add(id)
	}
	w.replanNext = make(map[simcomp.EntityRef]struct{})

	var idleEntities []simcomp.EntityRef
	var validatorCandidates []triggers.ValidatorCandidate

	for _, id := range w.sortedAliveIDs() {
		ent := w.entities[id]

		ent.cache.HungerUrgency = ent.stats.HungerUrgency()
		ent.cache.ThirstUrgency = ent.stats.ThirstUrgency()
		ent.cache.EnergyUrgency = ent.stats.EnergyUrgency()
		ent.cache.HealthUrgency = ent.stats.HealthUrgency()
		ent.cache.IsMature = ent.age.IsMature()
		ent.cache.IsEmergency = ent.cache.HungerUrgency > 0.7 || ent.cache.ThirstUrgency > 0.7 || ent.fear.HasPredator
		ent.cache.LastUpdateTick = w.tick
		ent.cache.Dirty = false

		th := triggers.Thresholds{
			Hunger: ent.behavior.HungerActivation,
			Thirst: ent.behavior.ThirstActivation,
			Energy: w.cfg.Planner.RestThreshold,
			Health: w.cfg.Planner.FleeThreshold,
		}
		triggers.CheckStatThresholds(id, &ent.thresh, ent.cache, th, replan)

		_, hasActive := w.queue.ActiveOf(id)
		if !hasActive {
			idleEntities = append(idleEntities, id)
			triggers.CheckIdle(id, &ent.idle, idleReplanThreshold, replan)
		} else {
			triggers.ResetIdle(&ent.idle)
		}

		validatorCandidates = append(validatorCandidates, triggers.ValidatorCandidate{
			Entity:            id,
			HasBehaviorConfig: true,
			HasIdleTracker:    true,
			HasStatTracker:    true,
			HasActiveAction:   hasActive,
			Idle:              &ent.idle,
			HungerUrgency:     ent.cache.HungerUrgency,
		})
	}

	triggers.PeriodicFallback(w.tick, idleEntities, replan)
	triggers.Validate(w.tick, validatorCandidates, replan)

	return replan
}

// phasePlanning evaluates planner.Evaluate (plus the scheduler's own
// supplemental Harvest proposal) for every replan-tagged entity and
// enqueues a candidate Request per viable proposal.
func (w *World) phasePlanning(replan triggers.Set) {
	ids := sortedReplanIDs(replan)
	for _, id := range ids {
		ent, ok := w.entities[id]
		if !ok || !ent.alive {
			continue
		}

		in := w.buildEvalInput(id, ent)
		proposals := planner.Evaluate(in, w.lk)
		if harvest, ok := w.supplementalHarvestProposal(in); ok {
			proposals = append(proposals, harvest)
		}

		for _, p := range proposals {
			act := w.instantiateAction(ent, id, p)
			if act == nil {
				continue
			}
			w.queue.Enqueue(id, queueRequest(act, p))
		}
	}
}

// phaseActionSelection installs/preempts/discards each replan-tagged
// entity's pending requests against its active slot.
func (w *World) phaseActionSelection(replan triggers.Set) {
	ids := sortedReplanIDs(replan)
	for _, id := range ids {
		ent, ok := w.entities[id]
		if !ok || !ent.alive {
			continue
		}
		cancelCtx := w.contextFor(id, ent, nil)
		installed := w.queue.Replan(id, cancelCtx)
		if installed {
			if active, ok := w.queue.ActiveOf(id); ok {
				w.recordRelationshipOnInstall(id, active.Action)
				ent.atTarget = false
			}
		}
	}
}

// phaseActionExecute runs every entity's active action once, recording
// side effects into a single shared Deferred to be committed atomically
// at the end of the phase.
func (w *World) phaseActionExecute(deferred *actions.Deferred) {
	for _, id := range w.sortedAliveIDs() {
		ent := w.entities[id]
		active, ok := w.queue.ActiveOf(id)
		if !ok {
			continue
		}

		ctx := w.contextFor(id, ent, deferred)
		outcome, res := w.queue.Execute(id, ctx)
		switch outcome {
		case queue.ExecDone:
			w.replanNext[id] = struct{}{}
			w.recordActionOutcome(active.Action.Kind(), res.Kind)
		case queue.ExecNeedsPathfinding:
			ent.needsPathRequest = true
			ent.pendingPathTarget = res.Target
			ent.pendingPathReason = reasonFor(active.Action.Kind())
		}
	}
	w.commitDeferred(deferred)
}

func sortedReplanIDs(replan triggers.Set) []simcomp.EntityRef {
	out := make([]simcomp.EntityRef, 0, len(replan))
	for id := range replan {
		out = append(out, id)
	}
	sortAsc(out)
	return out
}
