// Package config loads simulation tunables from an embedded defaults.yaml
// merged with an optional user override file. Grounded directly on the
// teacher's config/config.go (embedded-defaults-then-overlay Load,
// package-global Init/Cfg accessor, computeDerived post-processing step).
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds every tunable the simulation core reads at startup. Species
// behavior tables are not here (see SpawnDocument in spawn.go and
// scheduler.SpeciesProfile) — this struct covers engine-wide constants.
type Config struct {
	Tick         TickConfig         `yaml:"tick"`
	Pathfinding  PathfindingConfig  `yaml:"pathfinding"`
	Vegetation   VegetationConfig   `yaml:"vegetation"`
	Planner      PlannerConfig      `yaml:"planner"`
	Triggers     TriggersConfig     `yaml:"triggers"`
	Relationships RelationshipsConfig `yaml:"relationships"`
	Reproduction ReproductionConfig `yaml:"reproduction"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`

	Derived DerivedConfig `yaml:"-"`
}

// TickConfig controls the scheduler's fixed tick rate.
type TickConfig struct {
	RateHz float64 `yaml:"rate_hz"`
}

// PathfindingConfig mirrors pathfind.Service's tunables.
type PathfindingConfig struct {
	BudgetPerTick int   `yaml:"budget_per_tick"`
	TTLTicks      int64 `yaml:"ttl_ticks"`
}

// VegetationConfig bounds the Vegetation phase's per-tick work.
type VegetationConfig struct {
	ChunksPerPass    int   `yaml:"chunks_per_pass"`
	TimeBudgetMillis int64 `yaml:"time_budget_millis"`
}

// PlannerConfig carries need thresholds. The scheduler uses RestThreshold
// and FleeThreshold as the energy and health stat-trigger thresholds;
// CriticalThreshold is not read, and the planner package's priority bands
// use their own fixed 0.7/0.4 cut-offs.
type PlannerConfig struct {
	CriticalThreshold float32 `yaml:"critical_threshold"`
	FleeThreshold     float32 `yaml:"flee_threshold"`
	RestThreshold     float32 `yaml:"rest_threshold"`
}

// TriggersConfig mirrors triggers package intervals.
type TriggersConfig struct {
	PeriodicFallbackInterval int64   `yaml:"periodic_fallback_interval"`
	ValidatorInterval        int64   `yaml:"validator_interval"`
	StuckIdleTicks           int64   `yaml:"stuck_idle_ticks"`
	StuckHungerUrgency       float32 `yaml:"stuck_hunger_urgency"`
}

// RelationshipsConfig mirrors the relationships package's group-formation
// intervals, the one set of parameters the teacher's own config has no
// direct analogue for (no pack/herd concept there); shaped after the
// teacher's PopulationConfig's interval-tuning style nonetheless.
type RelationshipsConfig struct {
	FormationCheckInterval int64 `yaml:"formation_check_interval"`
	CohesionCheckInterval  int64 `yaml:"cohesion_check_interval"`
	MinGroupSize           int   `yaml:"min_group_size"`
	FormationRadius        int32 `yaml:"formation_radius"`
	CohesionRadius         int32 `yaml:"cohesion_radius"`
}

// ReproductionConfig mirrors spec's "configured" birth gates (spec.md
// §8.4: well-fed streak, postpartum cooldown, gestation, litter size).
type ReproductionConfig struct {
	GestationTicks         int64   `yaml:"gestation_ticks"`
	PostpartumCooldownTicks int64  `yaml:"postpartum_cooldown_ticks"`
	WellFedStreakRequired  int64   `yaml:"well_fed_streak_required"`
	LitterMin              int     `yaml:"litter_min"`
	LitterMax              int     `yaml:"litter_max"`
	MatingSearchRadius     int32   `yaml:"mating_search_radius"`
}

// TelemetryConfig mirrors telemetry.Collector/PerfCollector/BookmarkDetector
// construction parameters.
type TelemetryConfig struct {
	StatsWindowSec   float64 `yaml:"stats_window_sec"`
	PerfWindowTicks  int     `yaml:"perf_window_ticks"`
	BookmarkHistory  int     `yaml:"bookmark_history"`
	HallOfFameSize   int     `yaml:"hall_of_fame_size"`
}

// DerivedConfig holds values computed from Config after loading, rather
// than recomputed on every access.
type DerivedConfig struct {
	TickIntervalMillis int64
}

var global *Config

// Init loads configuration from path (embedded defaults if path is
// empty) and installs it as the package-global config. Must be called
// before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error, for use at program startup
// before any error-handling path is meaningful.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load reads the embedded defaults, then overlays path's contents (if
// non-empty) on top, so a user file only needs to set the fields it wants
// to override.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()
	return cfg, nil
}

func (c *Config) computeDerived() {
	if c.Tick.RateHz <= 0 {
		c.Tick.RateHz = 10
	}
	c.Derived.TickIntervalMillis = int64(1000 / c.Tick.RateHz)
}
