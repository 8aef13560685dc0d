package actions

import (
	"math/rand"

	"github.com/pthm-cable/wildsim/simcomp"
	"github.com/pthm-cable/wildsim/world"
)

const (
	// HuntMaxRange is the Chebyshev distance beyond which a hunt is
	// abandoned as an escape.
	HuntMaxRange = int32(40)
	// HuntKillEnergyCost is spent attempting a kill regardless of outcome.
	HuntKillEnergyCost = float32(5)
	// HuntBaseKillProbability is the unmodified per-adjacency-tick chance
	// of a successful kill.
	HuntBaseKillProbability = float32(0.35)
	// HuntMinEnergyToAttempt blocks attempting a kill below this energy.
	HuntMinEnergyToAttempt = float32(10)
	// HuntKillHungerFraction is the share of the hunter's own MaxHunger a
	// successful kill clears, modeling a full meal off the prey's carcass
	// in one payout rather than Graze/Scavenge's per-tick trickle.
	HuntKillHungerFraction = float32(0.5)
	// huntKillHungerFallback is used when a hunter has no Needs attached
	// (ctx.Needs == nil), which shouldn't happen in practice but keeps
	// resolveAdjacent from dereferencing a nil Needs.
	huntKillHungerFallback = float32(50)
)

// PreyLocator resolves a prey entity's current tile and liveness each
// tick, so Hunt can retarget as the prey moves, per spec.md §4.H ("pursue
// moving target -- retarget tile each tick from prey's current
// position").
type PreyLocator interface {
	LocateAlive(prey simcomp.EntityRef) (tile world.Tile, alive bool)
}

type Hunt struct {
	Prey    simcomp.EntityRef
	Locator PreyLocator
	RNG     *rand.Rand

	sub SubState
}

func NewHunt(prey simcomp.EntityRef, locator PreyLocator, rng *rand.Rand) *Hunt {
	return &Hunt{Prey: prey, Locator: locator, RNG: rng, sub: SubNeedPath}
}

func (a *Hunt) Kind() Kind { return KindHunt }

func (a *Hunt) CanExecute(ctx Context) bool {
	return ctx.Stats == nil || ctx.Stats.Energy >= HuntMinEnergyToAttempt
}

func (a *Hunt) Execute(ctx Context) Result {
	preyTile, alive := a.Locator.LocateAlive(a.Prey)
	if !alive {
		return Result{Kind: ResultFailed}
	}
	if world.ChebyshevDistance(ctx.Position, preyTile) > HuntMaxRange {
		return Result{Kind: ResultFailed}
	}
	if ctx.Stats != nil && ctx.Stats.Energy < HuntMinEnergyToAttempt {
		return Result{Kind: ResultFailed}
	}

	if world.ChebyshevDistance(ctx.Position, preyTile) <= 1 {
		return a.resolveAdjacent(ctx)
	}

	// Retarget every tick: always re-issue a pathfinding request toward
	// the prey's current tile rather than caching a stale target.
	a.sub = SubWaitingForPath
	return Result{Kind: ResultNeedsPathfinding, Target: preyTile}
}

func (a *Hunt) resolveAdjacent(ctx Context) Result {
	ctx.Commands.AddStatDelta(StatDelta{Entity: ctx.Self, Energy: -HuntKillEnergyCost})

	roll := float32(1)
	if a.RNG != nil {
		roll = a.RNG.Float32()
	}
	if roll > HuntBaseKillProbability {
		return Result{Kind: ResultInProgress}
	}

	hungerPayout := huntKillHungerFallback
	if ctx.Needs != nil {
		hungerPayout = ctx.Needs.MaxHunger * HuntKillHungerFraction
	}

	ctx.Commands.AddDeath(Death{Entity: a.Prey, Tick: ctx.Tick})
	ctx.Commands.ClearHunt = append(ctx.Commands.ClearHunt, ctx.Self, a.Prey)
	ctx.Commands.AddStatDelta(StatDelta{Entity: ctx.Self, Hunger: -hungerPayout})
	return Result{Kind: ResultSuccess}
}

func (a *Hunt) Cancel(ctx Context) {
	ctx.Commands.ClearHunt = append(ctx.Commands.ClearHunt, ctx.Self, a.Prey)
}
