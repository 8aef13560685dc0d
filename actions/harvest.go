package actions

import (
	"github.com/pthm-cable/wildsim/simcomp"
	"github.com/pthm-cable/wildsim/world"
)

// HarvestAmount is the single take-amount requested per harvest, left to
// the vegetation grid's Collectable regrowth-delay gating to actually
// grant (possibly zero if the node is still on cooldown).
const HarvestAmount = float32(1)

// Harvest{target_tile, resource}: move to a tile holding a Collectable
// resource (mushroom, wild root) and consume it, respecting the
// resource's regrowth delay -- a harvest attempted before regrowth
// fails, per spec.md §4.H.
type Harvest struct {
	Target   world.Tile
	Resource world.ResourceKind
	Source   BiomassSampler

	sub SubState
}

func NewHarvest(target world.Tile, resource world.ResourceKind, source BiomassSampler) *Harvest {
	return &Harvest{Target: target, Resource: resource, Source: source, sub: SubNeedPath}
}

func (a *Harvest) Kind() Kind { return KindHarvest }

func (a *Harvest) CanExecute(ctx Context) bool { return true }

func (a *Harvest) Execute(ctx Context) Result {
	switch a.sub {
	case SubNeedPath:
		a.sub = SubWaitingForPath
		return Result{Kind: ResultNeedsPathfinding, Target: a.Target}
	case SubWaitingForPath:
		if ctx.MovementState == simcomp.MovementFollowingPath {
			a.sub = SubMoving
		}
		return Result{Kind: ResultInProgress}
	case SubMoving:
		if !ctx.AtTarget {
			return Result{Kind: ResultInProgress}
		}
		a.sub = SubActionBody
		fallthrough
	default:
		if a.Source.BiomassAt(a.Target) <= 0 {
			return Result{Kind: ResultFailed}
		}
		ctx.Commands.AddConsumption(Consumption{Entity: ctx.Self, Tile: a.Target, Requested: HarvestAmount})
		ctx.Commands.AddStatDelta(StatDelta{Entity: ctx.Self, Hunger: -HarvestAmount})
		return Result{Kind: ResultSuccess}
	}
}

func (a *Harvest) Cancel(ctx Context) {}
