package actions

import (
	"github.com/pthm-cable/wildsim/simcomp"
	"github.com/pthm-cable/wildsim/world"
)

// Deferred records side effects an action's Execute wants to apply, for
// the scheduler to commit atomically at the end of the Action Execute
// phase (spec.md §4.J: "Executor reads only; it records side effects via
// deferred commands applied at end of phase"). Grounded on the teacher's
// collect-during-query, mutate-after-query idiom
// (game/game.go:updateReproduction/cleanupDead).
type Deferred struct {
	StatDeltas   []StatDelta
	Consumptions []Consumption
	Births       []Birth
	Deaths       []Death
	ClearActions []simcomp.EntityRef
	ClearHunt    []simcomp.EntityRef
	ClearMating  []simcomp.EntityRef
	SetPregnancy []PregnancyCmd
	SetCooldown  []CooldownCmd
}

type StatDelta struct {
	Entity                         simcomp.EntityRef
	Hunger, Thirst, Energy, Health float32
}

type Consumption struct {
	Entity    simcomp.EntityRef
	Tile      world.Tile
	Requested float32
}

type Birth struct {
	Mother, Father simcomp.EntityRef
	Tick           int64
}

type Death struct {
	Entity simcomp.EntityRef
	Tick   int64
}

type PregnancyCmd struct {
	Mother, Father simcomp.EntityRef
	ConceivedTick  int64
}

type CooldownCmd struct {
	Entity            simcomp.EntityRef
	CooldownUntilTick int64
}

func (d *Deferred) AddStatDelta(sd StatDelta)   { d.StatDeltas = append(d.StatDeltas, sd) }
func (d *Deferred) AddConsumption(c Consumption) { d.Consumptions = append(d.Consumptions, c) }
func (d *Deferred) AddBirth(b Birth)            { d.Births = append(d.Births, b) }
func (d *Deferred) AddDeath(dt Death)           { d.Deaths = append(d.Deaths, dt) }
func (d *Deferred) AddPregnancy(p PregnancyCmd) { d.SetPregnancy = append(d.SetPregnancy, p) }
func (d *Deferred) AddCooldown(c CooldownCmd)   { d.SetCooldown = append(d.SetCooldown, c) }
