package planner

import (
	"testing"

	"github.com/pthm-cable/wildsim/actions"
	"github.com/pthm-cable/wildsim/simcomp"
	"github.com/pthm-cable/wildsim/world"
)

type fakeLookups struct {
	waterTile, grazeTile, preyTile, carcassTile world.Tile
	waterOK, grazeOK, preyOK, carcassOK         bool
	prey, carcass                               simcomp.EntityRef
	reachable                                   bool
}

func (f fakeLookups) NearestWater(world.Tile, int32) (world.Tile, float32, bool) {
	return f.waterTile, 5, f.waterOK
}
func (f fakeLookups) NearestGraze(world.Tile, int32) (world.Tile, float32, bool) {
	return f.grazeTile, 5, f.grazeOK
}
func (f fakeLookups) NearestPrey(world.Tile, int32, simcomp.Diet) (simcomp.EntityRef, world.Tile, float32, bool) {
	return f.prey, f.preyTile, 5, f.preyOK
}
func (f fakeLookups) NearestCarcass(world.Tile, int32) (simcomp.EntityRef, world.Tile, float32, bool) {
	return f.carcass, f.carcassTile, 5, f.carcassOK
}
func (f fakeLookups) Reachable(world.Tile, world.Tile) bool { return f.reachable }

func TestWinnerPicksHighestPriorityBand(t *testing.T) {
	candidates := []UtilityScore{
		{ActionType: actions.KindWander, Utility: 0.9, Priority: PriorityWander},
		{ActionType: actions.KindFlee, Utility: 0.1, Priority: PriorityFlee},
	}
	w, ok := Winner(candidates)
	if !ok || w.ActionType != actions.KindFlee {
		t.Fatalf("expected flee to win on priority band despite lower utility, got %+v", w)
	}
}

func TestWinnerBreaksTiesByUtility(t *testing.T) {
	candidates := []UtilityScore{
		{ActionType: actions.KindGraze, Utility: 0.4, Priority: PriorityGrazeIdle},
		{ActionType: actions.KindHunt, Utility: 0.8, Priority: PriorityGrazeIdle},
	}
	w, ok := Winner(candidates)
	if !ok || w.ActionType != actions.KindHunt {
		t.Fatalf("expected hunt to win same-band tie via higher utility, got %+v", w)
	}
}

func TestWinnerEmptyCandidates(t *testing.T) {
	if _, ok := Winner(nil); ok {
		t.Fatal("expected ok=false for empty candidate set")
	}
}

func TestCriticalThirstBeatsGrazeIdle(t *testing.T) {
	in := EvalInput{
		Diet:     simcomp.DietHerbivore,
		Behavior: simcomp.BehaviorConfig{SearchRadius: 20},
		Cache:    simcomp.CachedEntityState{ThirstUrgency: 0.9, HungerUrgency: 0.3, EnergyUrgency: 0.1},
	}
	lookups := fakeLookups{waterOK: true, grazeOK: true, reachable: true}
	proposals := Evaluate(in, lookups)

	var best *Proposal
	for i := range proposals {
		if best == nil || proposals[i].Score.Priority > best.Score.Priority {
			best = &proposals[i]
		}
	}
	if best.Score.ActionType != actions.KindDrinkWater {
		t.Fatalf("expected critical thirst to dominate, got %v", best.Score.ActionType)
	}
}

func TestFleeOutranksMateButNotCriticalNeed(t *testing.T) {
	in := EvalInput{
		Diet:         simcomp.DietHerbivore,
		Behavior:     simcomp.BehaviorConfig{SearchRadius: 20},
		Cache:        simcomp.CachedEntityState{ThirstUrgency: 0.1, HungerUrgency: 0.1, EnergyUrgency: 0.1},
		Fear:         simcomp.FearState{HasPredator: true, NearestPredator: 42},
		MateEligible: true,
		Mate:         &MateCandidate{Partner: 7, MeetingTile: world.Tile{X: 1, Y: 1}, Distance: 2},
	}
	lookups := fakeLookups{reachable: true}
	proposals := Evaluate(in, lookups)
	w, ok := Winner(scoresOf(proposals))
	if !ok || w.ActionType != actions.KindFlee {
		t.Fatalf("expected flee to outrank mate, got %+v", w)
	}
}

func TestCriticalNeedOutranksFlee(t *testing.T) {
	in := EvalInput{
		Diet:     simcomp.DietHerbivore,
		Behavior: simcomp.BehaviorConfig{SearchRadius: 20},
		Cache:    simcomp.CachedEntityState{ThirstUrgency: 0.95, HungerUrgency: 0.1, EnergyUrgency: 0.1},
		Fear:     simcomp.FearState{HasPredator: true, NearestPredator: 42},
	}
	lookups := fakeLookups{waterOK: true, reachable: true}
	proposals := Evaluate(in, lookups)
	w, ok := Winner(scoresOf(proposals))
	if !ok || w.ActionType != actions.KindDrinkWater {
		t.Fatalf("expected critical thirst (priority up to 1000) to outrank flee (450), got %+v", w)
	}
}

func TestPackHuntBonusCapped(t *testing.T) {
	u := ApplyPackBonus(0.95, true)
	if u != 1 {
		t.Fatalf("expected pack bonus to cap at 1, got %f", u)
	}
	u = ApplyPackBonus(0.5, false)
	if u != 0.5 {
		t.Fatalf("expected no bonus without pack membership, got %f", u)
	}
}

func TestHerdSafetyBonusCapped(t *testing.T) {
	u := ApplyHerdSafetyBonus(0.95, true)
	if u != 1 {
		t.Fatalf("expected herd safety bonus to cap at 1, got %f", u)
	}
	u = ApplyHerdSafetyBonus(0.5, false)
	if u != 0.5 {
		t.Fatalf("expected no bonus without herd membership, got %f", u)
	}
}

func TestJuvenileFollowOutranksAdultIdleGraze(t *testing.T) {
	in := EvalInput{
		Diet:       simcomp.DietHerbivore,
		Behavior:   simcomp.BehaviorConfig{SearchRadius: 20},
		Cache:      simcomp.CachedEntityState{HungerUrgency: 0.3},
		IsJuvenile: true,
		HasMother:  true,
		MotherTile: world.Tile{X: 3, Y: 3},
	}
	lookups := fakeLookups{grazeOK: true, reachable: true}
	proposals := Evaluate(in, lookups)
	w, ok := Winner(scoresOf(proposals))
	if !ok || w.ActionType != actions.KindFollow {
		t.Fatalf("expected juvenile follow (120) to outrank graze idle (10), got %+v", w)
	}
}

func TestWanderAlwaysFeasible(t *testing.T) {
	in := EvalInput{Diet: simcomp.DietCarnivore, Behavior: simcomp.BehaviorConfig{SearchRadius: 10}}
	lookups := fakeLookups{}
	proposals := Evaluate(in, lookups)
	found := false
	for _, p := range proposals {
		if p.Score.ActionType == actions.KindWander {
			found = true
		}
	}
	if !found {
		t.Fatal("expected wander to always be a feasible fallback")
	}
}

func scoresOf(proposals []Proposal) []UtilityScore {
	out := make([]UtilityScore, len(proposals))
	for i, p := range proposals {
		out[i] = p.Score
	}
	return out
}
