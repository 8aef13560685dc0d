package actions

import (
	"github.com/pthm-cable/wildsim/simcomp"
	"github.com/pthm-cable/wildsim/world"
)

// FleeRunDistance is how far (Chebyshev tiles from the entity's own
// position) an entity tries to run from the threat each retarget. The
// target is not clamped to the world; a request that lands on an
// unreachable tile fails in the pathfinder.
const FleeRunDistance = int32(15)

// FleeSafeDistance ends the flee once the threat is this far away.
const FleeSafeDistance = int32(20)

// Flee{from}: run away from a predator's tile. Selects the single
// destination tile FleeRunDistance along the straight away-vector from the
// threat (no cone of alternatives is searched and the tile's walkability is
// not checked here), re-picks it whenever that tile changes, and ends once
// clear.
// Priority-wise Flee outranks Mate/Graze but not critical thirst/hunger --
// enforced by the planner's priority table, not here.
type Flee struct {
	Threat   world.Tile
	Locate   func() (tile world.Tile, stillThreat bool)

	sub        SubState
	lastTarget world.Tile
	haveTarget bool
}

func NewFlee(threat world.Tile, locate func() (world.Tile, bool)) *Flee {
	return &Flee{Threat: threat, Locate: locate, sub: SubNeedPath}
}

func (a *Flee) Kind() Kind { return KindFlee }

func (a *Flee) CanExecute(ctx Context) bool { return true }

func (a *Flee) Execute(ctx Context) Result {
	threatTile := a.Threat
	stillThreat := true
	if a.Locate != nil {
		threatTile, stillThreat = a.Locate()
	}
	if !stillThreat {
		return Result{Kind: ResultSuccess}
	}
	if world.ChebyshevDistance(ctx.Position, threatTile) >= FleeSafeDistance {
		return Result{Kind: ResultSuccess}
	}

	target := awayVector(ctx.Position, threatTile, FleeRunDistance)
	if !a.haveTarget || target != a.lastTarget {
		a.lastTarget = target
		a.haveTarget = true
		a.sub = SubWaitingForPath
		return Result{Kind: ResultNeedsPathfinding, Target: target}
	}

	if ctx.MovementState == simcomp.MovementFollowingPath {
		a.sub = SubMoving
	}
	if ctx.AtTarget {
		return Result{Kind: ResultSuccess}
	}
	return Result{Kind: ResultInProgress}
}

func (a *Flee) Cancel(ctx Context) {}

// awayVector returns the tile distance Chebyshev steps beyond from, in the
// direction pointing from threat to from (integer-scaled, not clamped; no
// bounds-check here; the pathfinder's region pre-check will fail a request
// that lands outside the world).
func awayVector(from, threat world.Tile, distance int32) world.Tile {
	dx, dy := from.X-threat.X, from.Y-threat.Y
	if dx == 0 && dy == 0 {
		dx = 1
	}
	norm := maxAbs(dx, dy)
	if norm == 0 {
		norm = 1
	}
	return world.Tile{
		X: from.X + (dx*distance)/norm,
		Y: from.Y + (dy*distance)/norm,
	}
}

func maxAbs(a, b int32) int32 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	if a > b {
		return a
	}
	return b
}
