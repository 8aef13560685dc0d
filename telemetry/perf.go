// Package telemetry implements the tick scheduler's profiler, the rolling
// population/behavior stats collector, notable-event bookmark detection,
// and a CSV-exportable hall of fame of long-lived lineages. Grounded on
// the teacher's telemetry package of the same shape and purpose.
package telemetry

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase names, generalized from the teacher's 9 simulation-step phases to
// spec's 14 named tick-scheduler phases.
const (
	PhaseInputTriggers    = "input_triggers"
	PhasePlanning         = "planning"
	PhaseActionSelection  = "action_selection"
	PhaseActionExecute    = "action_execute"
	PhaseBridgesA         = "bridges_a"
	PhasePathfinding      = "pathfinding"
	PhaseBridgesB         = "bridges_b"
	PhaseMovement         = "movement"
	PhaseSpatialMaint     = "spatial_maintenance"
	PhaseStatsAging       = "stats_aging"
	PhaseReproduction     = "reproduction"
	PhaseVegetation       = "vegetation"
	PhaseRelationships    = "relationships"
	PhasePublish          = "publish"
)

// AllPhases lists every phase in scheduler order, for stable log/CSV
// column ordering.
var AllPhases = []string{
	PhaseInputTriggers, PhasePlanning, PhaseActionSelection, PhaseActionExecute,
	PhaseBridgesA, PhasePathfinding, PhaseBridgesB, PhaseMovement,
	PhaseSpatialMaint, PhaseStatsAging, PhaseReproduction, PhaseVegetation,
	PhaseRelationships, PhasePublish,
}

// PerfSample holds timing data for a single tick.
type PerfSample struct {
	TickDuration time.Duration
	Phases       map[string]time.Duration
}

// PerfCollector tracks per-phase timing over a rolling window, grounded
// directly on telemetry/perf.go's PerfCollector (StartTick/StartPhase/
// EndTick bracketing, circular-buffer window).
type PerfCollector struct {
	windowSize    int
	samples       []PerfSample
	writeIndex    int
	sampleCount   int
	currentPhases map[string]time.Duration
	tickStart     time.Time
	phaseStart    time.Time
	lastPhase     string
}

// NewPerfCollector creates a collector averaging over windowSize ticks
// (e.g. 100 for 10s at the engine's fixed 10Hz tick rate).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 100
	}
	return &PerfCollector{
		windowSize:    windowSize,
		samples:       make([]PerfSample, windowSize),
		currentPhases: make(map[string]time.Duration),
	}
}

func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.currentPhases = make(map[string]time.Duration)
	p.lastPhase = ""
}

func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

func (p *PerfCollector) EndTick() {
	now := time.Now()
	if p.lastPhase != "" {
		p.currentPhases[p.lastPhase] += now.Sub(p.phaseStart)
	}

	sample := PerfSample{TickDuration: now.Sub(p.tickStart), Phases: p.currentPhases}
	p.samples[p.writeIndex] = sample
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
}

// PerfStats holds aggregated performance statistics over the window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	P95TickDuration time.Duration
	PhaseAvg        map[string]time.Duration
	PhasePct        map[string]float64
	TicksPerSecond  float64
}

func (p *PerfCollector) Stats() PerfStats {
	if p.sampleCount == 0 {
		return PerfStats{PhaseAvg: map[string]time.Duration{}, PhasePct: map[string]float64{}}
	}

	var totalTick, minTick, maxTick time.Duration
	phaseSum := make(map[string]time.Duration)
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[i]
		totalTick += s.TickDuration
		if i == 0 || s.TickDuration < minTick {
			minTick = s.TickDuration
		}
		if s.TickDuration > maxTick {
			maxTick = s.TickDuration
		}
		for phase, dur := range s.Phases {
			phaseSum[phase] += dur
		}
	}

	avgTick := totalTick / time.Duration(p.sampleCount)
	phaseAvg := make(map[string]time.Duration)
	phasePct := make(map[string]float64)
	for phase, sum := range phaseSum {
		phaseAvg[phase] = sum / time.Duration(p.sampleCount)
		if avgTick > 0 {
			phasePct[phase] = float64(phaseAvg[phase]) / float64(avgTick) * 100
		}
	}

	var ticksPerSec float64
	if avgTick > 0 {
		ticksPerSec = float64(time.Second) / float64(avgTick)
	}

	// p95 tick duration, reported alongside avg/min/max since a perf
	// regression confined to one tick in twenty is invisible in the mean
	// but is exactly the kind of tail latency a live operator watches for.
	durationsNS := make([]float64, p.sampleCount)
	for i := 0; i < p.sampleCount; i++ {
		durationsNS[i] = float64(p.samples[i].TickDuration)
	}
	sort.Float64s(durationsNS)
	p95NS := stat.Quantile(0.95, stat.LinInterp, durationsNS, nil)

	return PerfStats{
		AvgTickDuration: avgTick,
		MinTickDuration: minTick,
		MaxTickDuration: maxTick,
		P95TickDuration: time.Duration(p95NS),
		PhaseAvg:        phaseAvg,
		PhasePct:        phasePct,
		TicksPerSecond:  ticksPerSec,
	}
}

func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"min_tick_us", s.MinTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"p95_tick_us", s.P95TickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	for _, phase := range AllPhases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}
	slog.Info("perf", attrs...)
}

// PerfStatsCSV is a flat struct for CSV export via gocsv.
type PerfStatsCSV struct {
	WindowEnd         int64   `csv:"window_end"`
	AvgTickUS         int64   `csv:"avg_tick_us"`
	MinTickUS         int64   `csv:"min_tick_us"`
	MaxTickUS         int64   `csv:"max_tick_us"`
	P95TickUS         int64   `csv:"p95_tick_us"`
	TicksPerSec       float64 `csv:"ticks_per_sec"`
	InputTriggersPct  float64 `csv:"input_triggers_pct"`
	PlanningPct       float64 `csv:"planning_pct"`
	ActionSelectPct   float64 `csv:"action_selection_pct"`
	ActionExecutePct  float64 `csv:"action_execute_pct"`
	BridgesAPct       float64 `csv:"bridges_a_pct"`
	PathfindingPct    float64 `csv:"pathfinding_pct"`
	BridgesBPct       float64 `csv:"bridges_b_pct"`
	MovementPct       float64 `csv:"movement_pct"`
	SpatialMaintPct   float64 `csv:"spatial_maintenance_pct"`
	StatsAgingPct     float64 `csv:"stats_aging_pct"`
	ReproductionPct   float64 `csv:"reproduction_pct"`
	VegetationPct     float64 `csv:"vegetation_pct"`
	RelationshipsPct  float64 `csv:"relationships_pct"`
	PublishPct        float64 `csv:"publish_pct"`
}

func (s PerfStats) ToCSV(windowEnd int64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:        windowEnd,
		AvgTickUS:        s.AvgTickDuration.Microseconds(),
		MinTickUS:        s.MinTickDuration.Microseconds(),
		MaxTickUS:        s.MaxTickDuration.Microseconds(),
		P95TickUS:        s.P95TickDuration.Microseconds(),
		TicksPerSec:      s.TicksPerSecond,
		InputTriggersPct: s.PhasePct[PhaseInputTriggers],
		PlanningPct:      s.PhasePct[PhasePlanning],
		ActionSelectPct:  s.PhasePct[PhaseActionSelection],
		ActionExecutePct: s.PhasePct[PhaseActionExecute],
		BridgesAPct:      s.PhasePct[PhaseBridgesA],
		PathfindingPct:   s.PhasePct[PhasePathfinding],
		BridgesBPct:      s.PhasePct[PhaseBridgesB],
		MovementPct:      s.PhasePct[PhaseMovement],
		SpatialMaintPct:  s.PhasePct[PhaseSpatialMaint],
		StatsAgingPct:    s.PhasePct[PhaseStatsAging],
		ReproductionPct:  s.PhasePct[PhaseReproduction],
		VegetationPct:    s.PhasePct[PhaseVegetation],
		RelationshipsPct: s.PhasePct[PhaseRelationships],
		PublishPct:       s.PhasePct[PhasePublish],
	}
}
