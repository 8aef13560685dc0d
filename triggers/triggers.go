// Package triggers implements the replan-tag emitter: stat-threshold
// crossings with hysteresis, idle-duration watching, external-event
// tagging, a periodic liveness fallback, and a validator pass. Grounded on
// the teacher's systems/disease.go probabilistic-event-over-a-population
// shape and components/organism.go's "tracker struct holding prior-tick
// state to detect a crossing" idiom (its cooldown-countdown fields serve
// the same role as StatThresholdTracker.Prev*).
package triggers

import "github.com/pthm-cable/wildsim/simcomp"

// PeriodicFallbackInterval is how often (ticks) every entity with no
// ActiveAction gets tagged regardless of trigger logic, guaranteeing
// liveness per spec.md §4.K.
const PeriodicFallbackInterval = 10

// ValidatorInterval is how often the repair/stuck-entity pass runs.
const ValidatorInterval = 50

// HysteresisGap is how far an urgency must fall back below its activation
// threshold before the same stat can re-arm and fire again.
const HysteresisGap = float32(0.1)

// StuckIdleTicks + StuckHungerUrgency together define a "stuck" entity the
// validator force-resets.
const (
	StuckIdleTicks       = int64(200)
	StuckHungerUrgency   = float32(0.6)
)

// Set is a deduplicated collection of entities tagged NeedsReplanning this
// tick.
type Set map[simcomp.EntityRef]struct{}

func NewSet() Set { return make(Set) }

func (s Set) Add(e simcomp.EntityRef)      { s[e] = struct{}{} }
func (s Set) Has(e simcomp.EntityRef) bool { _, ok := s[e]; return ok }

// Thresholds holds the per-stat activation points a crossing is measured
// against, typically sourced from simcomp.BehaviorConfig plus a fixed
// low-energy bound.
type Thresholds struct {
	Hunger, Thirst, Energy, Health float32
}

// CheckStatThresholds detects an upward crossing of any of the four
// urgencies through its activation threshold and arms/disarms the
// tracker's hysteresis flags, emitting into out on a fresh crossing.
// Mirrors spec.md §4.K's StatThresholdTracker exactly: Armed prevents
// re-firing until the urgency falls HysteresisGap below threshold.
func CheckStatThresholds(entity simcomp.EntityRef, tracker *simcomp.StatThresholdTracker, cache simcomp.CachedEntityState, th Thresholds, out Set) {
	checkOne(entity, &tracker.Armed[0], cache.HungerUrgency, th.Hunger, out)
	checkOne(entity, &tracker.Armed[1], cache.ThirstUrgency, th.Thirst, out)
	checkOne(entity, &tracker.Armed[2], cache.EnergyUrgency, th.Energy, out)
	checkOne(entity, &tracker.Armed[3], cache.HealthUrgency, th.Health, out)

	tracker.PrevHungerUrgency = cache.HungerUrgency
	tracker.PrevThirstUrgency = cache.ThirstUrgency
	tracker.PrevEnergyUrgency = cache.EnergyUrgency
	tracker.PrevHealthUrgency = cache.HealthUrgency
}

func checkOne(entity simcomp.EntityRef, armed *bool, urgency, threshold float32, out Set) {
	if !*armed && urgency >= threshold {
		*armed = true
		out.Add(entity)
		return
	}
	if *armed && urgency < threshold-HysteresisGap {
		*armed = false
	}
}

// CheckIdle increments the idle tracker for an entity with no ActiveAction
// and emits a replan tag (resetting the counter) once it crosses the
// species-configured idle threshold. Callers should instead call
// ResetIdle whenever the entity successfully installs a new action.
func CheckIdle(entity simcomp.EntityRef, tracker *simcomp.IdleTracker, idleThreshold int64, out Set) {
	tracker.IdleTicks++
	if tracker.IdleTicks >= idleThreshold {
		out.Add(entity)
		tracker.IdleTicks = 0
	}
}

// ResetIdle clears the idle counter; called when an entity's action
// selection installs something new.
func ResetIdle(tracker *simcomp.IdleTracker) { tracker.IdleTicks = 0 }

// ExternalEvent tags an entity for replanning due to an out-of-band cause
// (hunted prey died, path failed, pack dissolved, relationship cleared).
func ExternalEvent(entity simcomp.EntityRef, out Set) { out.Add(entity) }

// PeriodicFallback tags every entity in idleEntities (those with no
// ActiveAction) every PeriodicFallbackInterval ticks, regardless of
// whether trigger logic fired for them.
func PeriodicFallback(tick int64, idleEntities []simcomp.EntityRef, out Set) {
	if tick%PeriodicFallbackInterval != 0 {
		return
	}
	for _, e := range idleEntities {
		out.Add(e)
	}
}

// MissingTracker flags which of the two per-entity trackers an entity
// lacks, for the validator to insert defaults.
type MissingTracker struct {
	Entity              simcomp.EntityRef
	NeedsIdleTracker    bool
	NeedsStatTracker    bool
}

// Validate runs the spec.md §4.K validator pass every ValidatorInterval
// ticks: it reports entities missing a tracker (so the caller can attach
// ECS components) and force-resets any entity it judges "stuck" (high
// hunger, long idle, nothing active), tagging it for replan.
func Validate(tick int64, candidates []ValidatorCandidate, out Set) []MissingTracker {
	if tick%ValidatorInterval != 0 {
		return nil
	}

	var missing []MissingTracker
	for _, c := range candidates {
		if c.HasBehaviorConfig && (!c.HasIdleTracker || !c.HasStatTracker) {
			missing = append(missing, MissingTracker{
				Entity:           c.Entity,
				NeedsIdleTracker: !c.HasIdleTracker,
				NeedsStatTracker: !c.HasStatTracker,
			})
		}

		if c.HasIdleTracker && !c.HasActiveAction && c.Idle != nil &&
			c.Idle.IdleTicks >= StuckIdleTicks && c.HungerUrgency >= StuckHungerUrgency {
			c.Idle.IdleTicks = 0
			out.Add(c.Entity)
		}
	}
	return missing
}

// ValidatorCandidate is the per-entity view the validator inspects; built
// by the scheduler from whatever ECS queries it runs, decoupling this
// package from the ECS library itself.
type ValidatorCandidate struct {
	Entity            simcomp.EntityRef
	HasBehaviorConfig bool
	HasIdleTracker    bool
	HasStatTracker    bool
	HasActiveAction   bool
	Idle              *simcomp.IdleTracker
	HungerUrgency     float32
}
