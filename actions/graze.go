package actions

import (
	"github.com/pthm-cable/wildsim/simcomp"
	"github.com/pthm-cable/wildsim/world"
)

// Graze duration bands (ticks), keyed by sampled biomass quality at
// arrival, per spec.md §4.H.
const (
	GrazeDurationHigh   = 75
	GrazeDurationMedium = 50
	GrazeDurationLow    = 25

	// GrazeGiveUpAbsolute/Ratio implement the give-up rule: stop once
	// local biomass drops below max(absolute_threshold, ratio*initial).
	GrazeGiveUpAbsolute = float32(2.0)
	GrazeGiveUpRatio    = float32(0.25)
)

// BiomassSampler lets Graze read (and later sample) vegetation without
// this package importing the vegetation package directly, keeping the
// dependency direction executor -> vegetation rather than action ->
// vegetation.
type BiomassSampler interface {
	BiomassAt(t world.Tile) float32
}

type Graze struct {
	Target world.Tile
	Source BiomassSampler

	sub             SubState
	initialBiomass  float32
	sampled         bool
	duration        int
	ticksSpent      int
}

func NewGraze(target world.Tile, source BiomassSampler) *Graze {
	return &Graze{Target: target, Source: source, sub: SubNeedPath}
}

func (a *Graze) Kind() Kind { return KindGraze }

func (a *Graze) CanExecute(ctx Context) bool { return true }

func (a *Graze) Execute(ctx Context) Result {
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
		if !a.sampled {
			a.initialBiomass = a.Source.BiomassAt(a.Target)
			a.duration = a.durationFor(a.initialBiomass)
			a.sampled = true
		}

		if ctx.Stats != nil && ctx.Stats.Hunger <= 0 {
			return Result{Kind: ResultSuccess}
		}

		current := a.Source.BiomassAt(a.Target)
		giveUpAt := a.initialBiomass * GrazeGiveUpRatio
		if giveUpAt < GrazeGiveUpAbsolute {
			giveUpAt = GrazeGiveUpAbsolute
		}
		if current < giveUpAt {
			return Result{Kind: ResultFailed}
		}

		amount := float32(1)
		if ctx.Needs != nil {
			amount = ctx.Needs.EatAmount
		}
		ctx.Commands.AddConsumption(Consumption{Entity: ctx.Self, Tile: a.Target, Requested: amount})
		ctx.Commands.AddStatDelta(StatDelta{Entity: ctx.Self, Hunger: -amount})

		a.ticksSpent++
		if a.ticksSpent >= a.duration {
			return Result{Kind: ResultSuccess}
		}
		return Result{Kind: ResultInProgress}
	}
}

func (a *Graze) durationFor(biomass float32) int {
	switch {
	case biomass >= 40:
		return GrazeDurationHigh
	case biomass >= 15:
		return GrazeDurationMedium
	default:
		return GrazeDurationLow
	}
}

func (a *Graze) Cancel(ctx Context) {}
