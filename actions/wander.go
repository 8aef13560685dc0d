package actions

import (
	"github.com/pthm-cable/wildsim/simcomp"
	"github.com/pthm-cable/wildsim/world"
)

// Wander moves to a target tile and reports success on arrival; no body
// beyond movement, per spec.md §4.H ("Wander{target_tile}: move to
// target; that's it.").
type Wander struct {
	Target world.Tile
	sub    SubState
}

func NewWander(target world.Tile) *Wander { return &Wander{Target: target, sub: SubNeedPath} }

func (a *Wander) Kind() Kind { return KindWander }

func (a *Wander) CanExecute(ctx Context) bool { return true }

func (a *Wander) Execute(ctx Context) Result {
	if ctx.AtTarget {
		return Result{Kind: ResultSuccess}
	}
	switch a.sub {
	case SubNeedPath:
		a.sub = SubWaitingForPath
		return Result{Kind: ResultNeedsPathfinding, Target: a.Target}
	case SubWaitingForPath:
		if ctx.MovementState == simcomp.MovementFollowingPath {
			a.sub = SubMoving
		}
		return Result{Kind: ResultInProgress}
	default:
		return Result{Kind: ResultInProgress}
	}
}

func (a *Wander) Cancel(ctx Context) {}
