package actions

import (
	"github.com/pthm-cable/wildsim/simcomp"
	"github.com/pthm-cable/wildsim/world"
)

// ScavengeEatAmount is consumed from the carcass per tick while feeding.
const ScavengeEatAmount = float32(4)

// CarcassSource exposes remaining nutrition on a carcass tile so Scavenge
// can deplete it without this package importing whichever package owns
// carcass bookkeeping.
type CarcassSource interface {
	NutritionAt(t world.Tile) float32
}

// Scavenge: move to a carcass tile and consume nutrition until it's
// depleted or hunger is satisfied, per spec.md §4.H.
type Scavenge struct {
	Target  world.Tile
	Carcass simcomp.EntityRef
	Source  CarcassSource

	sub SubState
}

func NewScavenge(target world.Tile, carcass simcomp.EntityRef, source CarcassSource) *Scavenge {
	return &Scavenge{Target: target, Carcass: carcass, Source: source, sub: SubNeedPath}
}

func (a *Scavenge) Kind() Kind { return KindScavenge }

func (a *Scavenge) CanExecute(ctx Context) bool { return true }

func (a *Scavenge) Execute(ctx Context) Result {
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
		if ctx.Stats != nil && ctx.Stats.Hunger <= 0 {
			return Result{Kind: ResultSuccess}
		}
		if a.Source.NutritionAt(a.Target) <= 0 {
			return Result{Kind: ResultFailed}
		}

		ctx.Commands.AddConsumption(Consumption{Entity: ctx.Self, Tile: a.Target, Requested: ScavengeEatAmount})
		ctx.Commands.AddStatDelta(StatDelta{Entity: ctx.Self, Hunger: -ScavengeEatAmount})
		return Result{Kind: ResultInProgress}
	}
}

func (a *Scavenge) Cancel(ctx Context) {}
