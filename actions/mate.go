package actions

import (
	"github.com/pthm-cable/wildsim/simcomp"
	"github.com/pthm-cable/wildsim/world"
)

// MateCooldownTicks is applied to both partners on a successful mating.
const MateCooldownTicks = int64(1000)

// Mate{partner, meeting_tile, duration}: both partners move to the
// meeting tile and remain paired for Duration ticks once both are
// present; on completion the female partner's side sets Pregnancy and
// both sides get a reproduction cooldown, per spec.md §4.H.
type Mate struct {
	Partner     simcomp.EntityRef
	MeetingTile world.Tile
	Duration    int
	IsMother    bool // true on the female partner's copy of this action
	Father      simcomp.EntityRef
	PartnerHere func() bool // reports whether Partner has also arrived at MeetingTile

	sub         SubState
	ticksPaired int
}

func NewMate(partner simcomp.EntityRef, meetingTile world.Tile, duration int, isMother bool, father simcomp.EntityRef, partnerHere func() bool) *Mate {
	return &Mate{Partner: partner, MeetingTile: meetingTile, Duration: duration, IsMother: isMother, Father: father, PartnerHere: partnerHere, sub: SubNeedPath}
}

func (a *Mate) Kind() Kind { return KindMate }

func (a *Mate) CanExecute(ctx Context) bool { return true }

func (a *Mate) Execute(ctx Context) Result {
	switch a.sub {
	case SubNeedPath:
		a.sub = SubWaitingForPath
		return Result{Kind: ResultNeedsPathfinding, Target: a.MeetingTile}
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
		if a.PartnerHere != nil && !a.PartnerHere() {
			return Result{Kind: ResultInProgress}
		}

		a.ticksPaired++
		if a.ticksPaired < a.Duration {
			return Result{Kind: ResultInProgress}
		}

		ctx.Commands.AddCooldown(CooldownCmd{Entity: ctx.Self, CooldownUntilTick: ctx.Tick + MateCooldownTicks})
		ctx.Commands.ClearMating = append(ctx.Commands.ClearMating, ctx.Self, a.Partner)
		if a.IsMother {
			ctx.Commands.AddPregnancy(PregnancyCmd{Mother: ctx.Self, Father: a.Father, ConceivedTick: ctx.Tick})
		}
		return Result{Kind: ResultSuccess}
	}
}

func (a *Mate) Cancel(ctx Context) {
	ctx.Commands.ClearMating = append(ctx.Commands.ClearMating, ctx.Self, a.Partner)
}
