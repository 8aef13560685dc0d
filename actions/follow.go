package actions

import (
	"github.com/pthm-cable/wildsim/simcomp"
	"github.com/pthm-cable/wildsim/world"
)

// Follow{target, stop_distance}: pursue a target entity until within
// stop_distance (Chebyshev), re-targeting each tick from its current tile,
// per spec.md §4.H. Used for juvenile-follows-mother behavior, among
// others.
type Follow struct {
	StopDistance int32
	Locate       func() (tile world.Tile, ok bool)

	sub        SubState
	lastTarget world.Tile
	haveTarget bool
}

func NewFollow(stopDistance int32, locate func() (world.Tile, bool)) *Follow {
	return &Follow{StopDistance: stopDistance, Locate: locate, sub: SubNeedPath}
}

func (a *Follow) Kind() Kind { return KindFollow }

func (a *Follow) CanExecute(ctx Context) bool { return true }

func (a *Follow) Execute(ctx Context) Result {
	targetTile, ok := a.Locate()
	if !ok {
		return Result{Kind: ResultFailed}
	}
	if world.ChebyshevDistance(ctx.Position, targetTile) <= a.StopDistance {
		return Result{Kind: ResultInProgress}
	}

	if !a.haveTarget || targetTile != a.lastTarget {
		a.lastTarget = targetTile
		a.haveTarget = true
		a.sub = SubWaitingForPath
		return Result{Kind: ResultNeedsPathfinding, Target: targetTile}
	}

	if ctx.MovementState == simcomp.MovementFollowingPath {
		a.sub = SubMoving
	}
	return Result{Kind: ResultInProgress}
}

func (a *Follow) Cancel(ctx Context) {}
