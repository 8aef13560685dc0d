// Package planner evaluates candidate behaviors per entity into scored
// UtilityScore{action_type, utility, priority} requests, choosing a winner
// by priority band first, then utility. Grounded on the teacher's
// systems/allocation.go AllocationSystem.determineMode/calculateTargetCells
// (a threshold cascade over normalized ratios producing a discrete mode),
// adapted here from allocation modes to action-utility scoring.
package planner

import "github.com/pthm-cable/wildsim/actions"

// Priority bands, canonical per the tuning table: Critical need 500-1000,
// Flee 450, Hunt 360-420, Mate 350, Maintenance rest 100-500, Follow
// (juvenile) 120, Follow (adult) 20, Graze (idle) 10, Wander 1.
const (
	PriorityCriticalMin = 500
	PriorityCriticalMax = 1000
	PriorityFlee        = 450
	PriorityHuntMin     = 360
	PriorityHuntMax     = 420
	PriorityMate        = 350
	PriorityRestMin     = 100
	PriorityRestMax     = 500
	PriorityFollowJuv   = 120
	PriorityFollowAdult = 20
	PriorityGrazeIdle   = 10
	PriorityWander      = 1
)

// PackHuntBonus is the additive hunt-utility bonus for PackMember/
// PackLeader entities, capped so utility never exceeds 1.
const PackHuntBonus = float32(0.15)

// HerdSafetyBonus is the additive graze-utility bonus for GroupHerd
// members, grounded on original_source/ai/group_coordination.rs's
// per-GroupType dispatch (Pack -> apply_pack_hunting_bonus, Herd ->
// apply_herd_safety_bonus). The herd-safety bonus's own defining file was
// filtered out of the retrieval pack, so its magnitude isn't recoverable;
// this mirrors PackHuntBonus's size on the theory that safety in numbers
// lets a herd member forage as confidently as a pack hunts.
const HerdSafetyBonus = float32(0.15)

// UtilityScore is a single candidate action with its computed desirability
// and priority band.
type UtilityScore struct {
	ActionType actions.Kind
	Utility    float32
	Priority   int
}

// NeedUtility implements the canonical need-based utility weighting:
// 0.8*need_level + 0.2*(1 - distance/search_radius).
func NeedUtility(needLevel, distance, searchRadius float32) float32 {
	proximity := float32(1)
	if searchRadius > 0 {
		proximity = 1 - distance/searchRadius
		if proximity < 0 {
			proximity = 0
		}
	}
	u := 0.8*needLevel + 0.2*proximity
	return clamp01(u)
}

// ApplyPackBonus adds the pack-hunt bonus, capped at 1.
func ApplyPackBonus(utility float32, inPack bool) float32 {
	if !inPack {
		return utility
	}
	return clamp01(utility + PackHuntBonus)
}

// ApplyHerdSafetyBonus adds the herd-safety bonus, capped at 1.
func ApplyHerdSafetyBonus(utility float32, inHerd bool) float32 {
	if !inHerd {
		return utility
	}
	return clamp01(utility + HerdSafetyBonus)
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// CriticalPriority scales linearly within the critical band by how far the
// need has exceeded its 70% activation threshold.
func CriticalPriority(needLevel float32) int {
	frac := (needLevel - 0.7) / 0.3
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	return PriorityCriticalMin + int(frac*float32(PriorityCriticalMax-PriorityCriticalMin))
}

// HuntPriority scales linearly within the hunt band by hunger urgency.
func HuntPriority(hungerUrgency float32) int {
	frac := clamp01(hungerUrgency)
	return PriorityHuntMin + int(frac*float32(PriorityHuntMax-PriorityHuntMin))
}

// RestPriority scales linearly within the maintenance-rest band by how
// depleted energy is.
func RestPriority(energyUrgency float32) int {
	frac := clamp01(energyUrgency)
	return PriorityRestMin + int(frac*float32(PriorityRestMax-PriorityRestMin))
}

// Winner picks the best candidate: highest priority band first, then
// highest utility within that band. Returns false if candidates is empty.
func Winner(candidates []UtilityScore) (UtilityScore, bool) {
	if len(candidates) == 0 {
		return UtilityScore{}, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Priority > best.Priority {
			best = c
			continue
		}
		if c.Priority == best.Priority && c.Utility > best.Utility {
			best = c
		}
	}
	return best, true
}
