package planner

import (
	"github.com/pthm-cable/wildsim/actions"
	"github.com/pthm-cable/wildsim/simcomp"
	"github.com/pthm-cable/wildsim/world"
)

// Lookups is the set of read-only queries the evaluator needs against the
// spatial index, vegetation grid, and region map, kept as a narrow
// interface so this package never imports those packages directly (same
// dependency-direction discipline as actions.BiomassSampler).
type Lookups interface {
	NearestWater(from world.Tile, radius int32) (tile world.Tile, distance float32, ok bool)
	NearestGraze(from world.Tile, radius int32) (tile world.Tile, distance float32, ok bool)
	NearestPrey(from world.Tile, radius int32, diet simcomp.Diet) (prey simcomp.EntityRef, tile world.Tile, distance float32, ok bool)
	NearestCarcass(from world.Tile, radius int32) (carcass simcomp.EntityRef, tile world.Tile, distance float32, ok bool)
	Reachable(from, to world.Tile) bool
}

// MateCandidate describes an eligible partner already located by the
// relationship system, handed to the evaluator rather than searched for
// here (mate-pairing bookkeeping belongs to the relationships package).
type MateCandidate struct {
	Partner     simcomp.EntityRef
	MeetingTile world.Tile
	Distance    float32
}

// EvalInput is the entity-local state the planner scores candidates
// against.
type EvalInput struct {
	Self     simcomp.EntityRef
	Position world.Tile
	Species  simcomp.Species
	Diet     simcomp.Diet
	Behavior simcomp.BehaviorConfig
	Cache    simcomp.CachedEntityState
	Age      simcomp.Age

	Fear simcomp.FearState

	InPack bool
	InHerd bool

	MateEligible bool
	Mate         *MateCandidate

	IsJuvenile  bool
	MotherTile  world.Tile
	HasMother   bool
}

// Proposal pairs a scored candidate with enough target information for the
// queue to instantiate the concrete Action.
type Proposal struct {
	Score        UtilityScore
	TargetTile   world.Tile
	HasTile      bool
	TargetEntity simcomp.EntityRef
	HasEntity    bool
}

// Evaluate produces every feasible candidate for one entity this tick.
// Winner selection (priority band then utility) happens separately via
// Winner, so callers can log/inspect the full candidate set.
func Evaluate(in EvalInput, lookups Lookups) []Proposal {
	var out []Proposal

	if in.Cache.ThirstUrgency > 0.7 {
		if tile, dist, ok := lookups.NearestWater(in.Position, in.Behavior.SearchRadius); ok && lookups.Reachable(in.Position, tile) {
			u := NeedUtility(in.Cache.ThirstUrgency, dist, float32(in.Behavior.SearchRadius))
			out = append(out, Proposal{
				Score:      UtilityScore{ActionType: actions.KindDrinkWater, Utility: u, Priority: CriticalPriority(in.Cache.ThirstUrgency)},
				TargetTile: tile, HasTile: true,
			})
		}
	}

	if in.Cache.HungerUrgency > 0.7 {
		out = append(out, hungerCritical(in, lookups)...)
	}

	if in.Fear.HasPredator {
		out = append(out, Proposal{
			Score:        UtilityScore{ActionType: actions.KindFlee, Utility: 1, Priority: PriorityFlee},
			TargetEntity: in.Fear.NearestPredator, HasEntity: true,
		})
	}

	if in.Diet != simcomp.DietHerbivore && in.Cache.HungerUrgency > 0.2 {
		if prey, tile, dist, ok := lookups.NearestPrey(in.Position, in.Behavior.SearchRadius, in.Diet); ok && lookups.Reachable(in.Position, tile) {
			u := ApplyPackBonus(NeedUtility(in.Cache.HungerUrgency, dist, float32(in.Behavior.SearchRadius)), in.InPack)
			out = append(out, Proposal{
				Score:        UtilityScore{ActionType: actions.KindHunt, Utility: u, Priority: HuntPriority(in.Cache.HungerUrgency)},
				TargetEntity: prey, HasEntity: true,
				TargetTile: tile, HasTile: true,
			})
		}
		if carcass, tile, dist, ok := lookups.NearestCarcass(in.Position, in.Behavior.SearchRadius); ok && lookups.Reachable(in.Position, tile) {
			u := NeedUtility(in.Cache.HungerUrgency, dist, float32(in.Behavior.SearchRadius))
			out = append(out, Proposal{
				Score:        UtilityScore{ActionType: actions.KindScavenge, Utility: u, Priority: HuntPriority(in.Cache.HungerUrgency) - 40},
				TargetEntity: carcass, HasEntity: true,
				TargetTile: tile, HasTile: true,
			})
		}
	}

	if in.MateEligible && in.Mate != nil {
		u := 0.9 - 0.1*(in.Mate.Distance/float32(in.Behavior.SearchRadius))
		out = append(out, Proposal{
			Score:        UtilityScore{ActionType: actions.KindMate, Utility: clamp01(u), Priority: PriorityMate},
			TargetEntity: in.Mate.Partner, HasEntity: true,
			TargetTile: in.Mate.MeetingTile, HasTile: true,
		})
	}

	if in.Cache.EnergyUrgency > 0.4 {
		out = append(out, Proposal{
			Score: UtilityScore{ActionType: actions.KindRest, Utility: in.Cache.EnergyUrgency, Priority: RestPriority(in.Cache.EnergyUrgency)},
		})
	}

	if in.IsJuvenile && in.HasMother {
		out = append(out, Proposal{
			Score:      UtilityScore{ActionType: actions.KindFollow, Utility: 0.9, Priority: PriorityFollowJuv},
			TargetTile: in.MotherTile, HasTile: true,
		})
	}

	if in.Diet != simcomp.DietCarnivore {
		if tile, dist, ok := lookups.NearestGraze(in.Position, in.Behavior.SearchRadius); ok && lookups.Reachable(in.Position, tile) {
			u := ApplyHerdSafetyBonus(NeedUtility(in.Cache.HungerUrgency, dist, float32(in.Behavior.SearchRadius)), in.InHerd)
			if u < 0.1 {
				u = 0.1
			}
			out = append(out, Proposal{
				Score:      UtilityScore{ActionType: actions.KindGraze, Utility: u, Priority: PriorityGrazeIdle},
				TargetTile: tile, HasTile: true,
			})
		}
	}

	out = append(out, Proposal{
		Score: UtilityScore{ActionType: actions.KindWander, Utility: 0.05, Priority: PriorityWander},
	})

	return out
}

func hungerCritical(in EvalInput, lookups Lookups) []Proposal {
	var out []Proposal
	if in.Diet == simcomp.DietHerbivore {
		if tile, dist, ok := lookups.NearestGraze(in.Position, in.Behavior.SearchRadius); ok && lookups.Reachable(in.Position, tile) {
			u := ApplyHerdSafetyBonus(NeedUtility(in.Cache.HungerUrgency, dist, float32(in.Behavior.SearchRadius)), in.InHerd)
			out = append(out, Proposal{
				Score:      UtilityScore{ActionType: actions.KindGraze, Utility: u, Priority: CriticalPriority(in.Cache.HungerUrgency)},
				TargetTile: tile, HasTile: true,
			})
		}
		return out
	}
	if prey, tile, dist, ok := lookups.NearestPrey(in.Position, in.Behavior.SearchRadius, in.Diet); ok && lookups.Reachable(in.Position, tile) {
		u := ApplyPackBonus(NeedUtility(in.Cache.HungerUrgency, dist, float32(in.Behavior.SearchRadius)), in.InPack)
		out = append(out, Proposal{
			Score:        UtilityScore{ActionType: actions.KindHunt, Utility: u, Priority: CriticalPriority(in.Cache.HungerUrgency)},
			TargetEntity: prey, HasEntity: true,
			TargetTile: tile, HasTile: true,
		})
	}
	return out
}
