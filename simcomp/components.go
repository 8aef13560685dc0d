// Package simcomp defines the ECS components shared across the
// simulation's systems, grounded on the teacher's components/components.go
// (plain Position/Velocity/Rotation value structs) and
// components/organism.go (bounded scalar + documented invariant comment
// idiom), adapted from the teacher's continuous 2D/two-pool-energy model
// to spec's tile-coordinate/four-stat model.
package simcomp

import "github.com/pthm-cable/wildsim/world"

// Position is an entity's tile coordinate. Mutated only by the movement
// system (invariant 2: an entity FollowingPath must sit on its recorded
// path index).
type Position struct {
	Tile world.Tile
}

// Sex is a binary biological sex used by mate-eligibility and spawn
// sequencing.
type Sex uint8

const (
	SexMale Sex = iota
	SexFemale
)

// Species identifies which behavior/diet/group profile an entity uses.
type Species uint8

const (
	SpeciesRabbit Species = iota
	SpeciesDeer
	SpeciesRaccoon
	SpeciesBear
	SpeciesFox
	SpeciesWolf
	SpeciesHuman
)

func (s Species) String() string {
	switch s {
	case SpeciesRabbit:
		return "rabbit"
	case SpeciesDeer:
		return "deer"
	case SpeciesRaccoon:
		return "raccoon"
	case SpeciesBear:
		return "bear"
	case SpeciesFox:
		return "fox"
	case SpeciesWolf:
		return "wolf"
	case SpeciesHuman:
		return "human"
	default:
		return "unknown"
	}
}

// Diet classifies what an entity may eat, used by the planner and the
// spatial index's Kind tag.
type Diet uint8

const (
	DietHerbivore Diet = iota
	DietCarnivore
	DietOmnivore
)

// Stats holds the four bounded scalar needs. Each is clamped to [0, Max]
// by the stats-decay system; Health reaching 0 marks the entity for
// end-of-tick death.
type Stats struct {
	Hunger, MaxHunger float32
	Thirst, MaxThirst float32
	Energy, MaxEnergy float32
	Health, MaxHealth float32
}

// Urgency normalizes a need stat to [0,1], "how bad is this right now".
// Hunger/Thirst: higher stat value = more urgent (stat counts up toward a
// full/starving bound). Energy: lower value = more urgent (invert).
func (s *Stats) HungerUrgency() float32 { return normalize(s.Hunger, s.MaxHunger) }
func (s *Stats) ThirstUrgency() float32 { return normalize(s.Thirst, s.MaxThirst) }
func (s *Stats) EnergyUrgency() float32 { return 1 - normalize(s.Energy, s.MaxEnergy) }
func (s *Stats) HealthUrgency() float32 { return 1 - normalize(s.Health, s.MaxHealth) }

func normalize(v, max float32) float32 {
	if max <= 0 {
		return 0
	}
	n := v / max
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}

// Age tracks ticks alive and the maturity threshold that gates breeding
// eligibility and juvenile-follow behavior.
type Age struct {
	Ticks             int64
	MaturityThreshold int64
}

func (a Age) IsMature() bool { return a.Ticks >= a.MaturityThreshold }

// BehaviorConfig holds per-species thresholds and foraging parameters.
type BehaviorConfig struct {
	ThirstActivation float32
	HungerActivation float32
	ForagingStrategy ForagingStrategy
	SampledK         int
	SearchRadius     int32
}

// ForagingStrategy selects how a Graze/Hunt action samples candidate
// targets: Exhaustive scans every known cell/entity, Sampled(k) draws a
// fixed number of random candidates (cheaper, approximate).
type ForagingStrategy uint8

const (
	ForagingExhaustive ForagingStrategy = iota
	ForagingSampled
)

// SpeciesNeeds holds per-species consumption amounts.
type SpeciesNeeds struct {
	MaxHunger, MaxThirst float32
	EatAmount            float32
	DrinkAmount           float32
}

// MovementState is the MovementComponent's mode.
type MovementState uint8

const (
	MovementIdle MovementState = iota
	MovementPathRequested
	MovementFollowingPath
	MovementStuck
)

// MovementComponent drives tile-by-tile movement along a resolved path.
type MovementComponent struct {
	State         MovementState
	PathRequestID uint64
	Path          []world.Tile
	PathIndex     int
	StuckAttempts int
}

// CurrentAction names the active action for observability (distinct from
// the polymorphic ActiveAction object itself, which lives in the actions
// package to avoid an import cycle between simcomp and actions).
type CurrentAction struct {
	Name string
}

// CachedEntityState holds pre-computed planner inputs, invalidated when
// the tick advances past LastUpdateTick or Dirty is set.
type CachedEntityState struct {
	HungerUrgency, ThirstUrgency, EnergyUrgency, HealthUrgency float32
	IsEmergency                                                bool
	IsMature, IsMateEligible                                    bool
	LastUpdateTick                                              int64
	Dirty                                                       bool
}

// Valid reports whether the cache is still usable at currentTick.
func (c *CachedEntityState) Valid(currentTick int64) bool {
	return !c.Dirty && c.LastUpdateTick == currentTick
}

// IdleTracker counts consecutive ticks an entity has spent with no active
// action, feeding the trigger emitter's idle-duration watch.
type IdleTracker struct {
	IdleTicks int64
}

// StatThresholdTracker remembers the previous-tick urgency values so the
// trigger emitter can detect a threshold *crossing* (with hysteresis)
// rather than re-firing every tick the stat happens to sit above a bound.
type StatThresholdTracker struct {
	PrevHungerUrgency, PrevThirstUrgency, PrevEnergyUrgency, PrevHealthUrgency float32
	Armed                                                                      [4]bool
}

// Pregnancy marks a female entity carrying offspring.
type Pregnancy struct {
	ConceivedTick int64
	DueTick       int64
	FatherSpecies Species
}

// ReproductionCooldown blocks re-mating until CooldownUntilTick.
type ReproductionCooldown struct {
	CooldownUntilTick int64
}

// WellFedStreak counts consecutive ticks an entity's hunger/thirst have
// stayed below activation thresholds, a breeding-eligibility gate.
type WellFedStreak struct {
	Ticks int64
}

// Mother records the birthing parent for a newly spawned entity.
type Mother struct {
	Parent EntityRef
}

// BirthInfo records the tick and cause of an entity's creation.
type BirthInfo struct {
	BornTick int64
}

// FearState tracks a prey entity's current fear level and the nearest
// known predator.
type FearState struct {
	Level             float32
	NearestPredator    EntityRef
	HasPredator        bool
	TicksSinceDanger   int64
}

// Carcass marks a dead entity's remains as scavengable, decaying over
// time.
type Carcass struct {
	RemainingNutrition float32
	DecayTicksLeft     int64
}

// EntityRef is simcomp's entity handle: a plain numeric ID, so this
// package (and the packages built on it that don't need the ECS) have no
// hard dependency on github.com/mlange-42/ark's Entity type. Systems that
// hold an *ark* ecs.World convert at the boundary.
type EntityRef uint32

// NoEntity is the zero value sentinel meaning "no reference".
const NoEntity EntityRef = 0
