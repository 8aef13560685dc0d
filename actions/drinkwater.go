package actions

import (
	"github.com/pthm-cable/wildsim/simcomp"
	"github.com/pthm-cable/wildsim/world"
)

// DrinkDuration is the number of ticks spent drinking once arrived,
// absent an earlier thirst-satisfied exit.
const DrinkDuration = 20

// DrinkWater: arrive at target_tile, drink for DrinkDuration ticks or
// until thirst is empty, whichever comes first.
type DrinkWater struct {
	Target world.Tile

	sub        SubState
	ticksSpent int
}

func NewDrinkWater(target world.Tile) *DrinkWater { return &DrinkWater{Target: target, sub: SubNeedPath} }

func (a *DrinkWater) Kind() Kind { return KindDrinkWater }

func (a *DrinkWater) CanExecute(ctx Context) bool { return true }

func (a *DrinkWater) Execute(ctx Context) Result {
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
		if ctx.Stats != nil && ctx.Stats.Thirst <= 0 {
			return Result{Kind: ResultSuccess}
		}
		amount := float32(1)
		if ctx.Needs != nil {
			amount = ctx.Needs.DrinkAmount
		}
		ctx.Commands.AddStatDelta(StatDelta{Entity: ctx.Self, Thirst: -amount})
		a.ticksSpent++
		if a.ticksSpent >= DrinkDuration {
			return Result{Kind: ResultSuccess}
		}
		return Result{Kind: ResultInProgress}
	}
}

func (a *DrinkWater) Cancel(ctx Context) {}
