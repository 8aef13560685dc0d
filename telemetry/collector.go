package telemetry

// Collector accumulates population/behavior event counters over a rolling
// time window, flushing a snapshot whenever the window elapses. Grounded
// directly on the teacher's telemetry/collector.go Collector (same
// window-duration-in-ticks bookkeeping and counter-then-flush idiom),
// generalized from bite/kill prey-vs-predator counters to this
// simulation's action-outcome and population events.
type Collector struct {
	windowDurationTicks int64
	windowStartTick     int64

	births map[string]int
	deaths map[string]int

	huntsAttempted int
	huntsSucceeded int
	grazeCount     int
	drinkCount     int
	mateCount      int
	fleeCount      int
}

// NewCollector builds a collector that flushes every windowDurationSec
// seconds of simulated time at the engine's fixed tickRateHz.
func NewCollector(windowDurationSec float64, tickRateHz float64) *Collector {
	ticks := int64(windowDurationSec * tickRateHz)
	if ticks < 1 {
		ticks = 1
	}
	return &Collector{
		windowDurationTicks: ticks,
		births:              make(map[string]int),
		deaths:              make(map[string]int),
	}
}

func (c *Collector) RecordBirth(species string) { c.births[species]++ }
func (c *Collector) RecordDeath(species string) { c.deaths[species]++ }

func (c *Collector) RecordHuntAttempt() { c.huntsAttempted++ }
func (c *Collector) RecordHuntSuccess() { c.huntsSucceeded++ }
func (c *Collector) RecordGraze()       { c.grazeCount++ }
func (c *Collector) RecordDrink()       { c.drinkCount++ }
func (c *Collector) RecordMate()        { c.mateCount++ }
func (c *Collector) RecordFlee()        { c.fleeCount++ }

// ShouldFlush reports whether the current window has elapsed.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// WindowStats is a flushed snapshot of one window's activity, plus the
// population counts sampled at flush time.
type WindowStats struct {
	WindowEndTick int64

	PopulationBySpecies map[string]int

	Births map[string]int
	Deaths map[string]int

	HuntsAttempted int
	HuntsSucceeded int
	GrazeCount     int
	DrinkCount     int
	MateCount      int
	FleeCount      int
}

// Flush produces a WindowStats snapshot and resets the window's counters.
func (c *Collector) Flush(currentTick int64, populationBySpecies map[string]int) WindowStats {
	stats := WindowStats{
		WindowEndTick:       currentTick,
		PopulationBySpecies: populationBySpecies,
		Births:              c.births,
		Deaths:              c.deaths,
		HuntsAttempted:      c.huntsAttempted,
		HuntsSucceeded:      c.huntsSucceeded,
		GrazeCount:          c.grazeCount,
		DrinkCount:          c.drinkCount,
		MateCount:           c.mateCount,
		FleeCount:           c.fleeCount,
	}

	c.windowStartTick = currentTick
	c.births = make(map[string]int)
	c.deaths = make(map[string]int)
	c.huntsAttempted = 0
	c.huntsSucceeded = 0
	c.grazeCount = 0
	c.drinkCount = 0
	c.mateCount = 0
	c.fleeCount = 0

	return stats
}
