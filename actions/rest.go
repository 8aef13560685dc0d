package actions

// Rest{duration}: remain in place, recovering energy; exits early once
// energy is full, per spec.md §4.H.
const RestEnergyPerTick = float32(2)

type Rest struct {
	Duration int

	ticksSpent int
}

func NewRest(duration int) *Rest { return &Rest{Duration: duration} }

func (a *Rest) Kind() Kind { return KindRest }

func (a *Rest) CanExecute(ctx Context) bool { return true }

func (a *Rest) Execute(ctx Context) Result {
	if ctx.Stats != nil && ctx.Stats.Energy >= ctx.Stats.MaxEnergy {
		return Result{Kind: ResultSuccess}
	}

	ctx.Commands.AddStatDelta(StatDelta{Entity: ctx.Self, Energy: RestEnergyPerTick})
	a.ticksSpent++
	if a.ticksSpent >= a.Duration {
		return Result{Kind: ResultSuccess}
	}
	return Result{Kind: ResultInProgress}
}

func (a *Rest) Cancel(ctx Context) {}
