// Command lifesim boots the wildlife simulation engine: it loads a world
// file, a spawn document, and the engine config, then runs the scheduler's
// fixed-rate tick loop until interrupted or a tick ceiling is reached.
// Grounded on the teacher's main()/runHeadless() flag-and-loop structure
// (_examples/pthm-soup/main.go), generalized from its stepsPerFrame/
// NewGameHeadless render-free path to this engine's headless-only CLI.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/pthm-cable/wildsim/config"
	"github.com/pthm-cable/wildsim/region"
	"github.com/pthm-cable/wildsim/scheduler"
	"github.com/pthm-cable/wildsim/world"
)

var (
	worldPath    = flag.String("world", "", "World file to load (default: most recent .json in -maps-dir)")
	mapsDir      = flag.String("maps-dir", "maps", "Directory to search for world files when -world is unset")
	spawnConfig  = flag.String("spawn-config", "", "Spawn document path (default: $SPAWN_CONFIG or config/spawn_config.yaml)")
	configPath   = flag.String("config", "", "Engine config overlay path (optional)")
	maxTicks     = flag.Int64("max-ticks", 0, "Stop after N ticks (0 = run until interrupted)")
	logLevel     = flag.String("log-level", "info", "Log level: debug, info, warn, error")
	seed         = flag.Int64("seed", 1, "RNG seed")

	// defaultRegionRadius bounds the region-connectivity map built around
	// the origin when the world loader has no authored bounds (a bare
	// NoiseLoader's Bounds() always reports ok=false).
	defaultRegionRadius = int32(256)
)

func main() {
	flag.Parse()
	logger := newLogger(*logLevel)
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("init failed", "error", err)
		os.Exit(1)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	loader, bounds, err := loadWorld(logger)
	if err != nil {
		return fmt.Errorf("load world: %w", err)
	}

	regions := region.Build(loader, bounds[0], bounds[1])
	sched := scheduler.NewWorld(cfg, loader, regions, *seed)

	spawnPath := resolveSpawnConfigPath()
	doc, err := config.LoadSpawnDocument(spawnPath)
	if err != nil {
		return fmt.Errorf("load spawn config %q: %w", spawnPath, err)
	}
	if err := sched.SpawnFromDocument(doc, 0); err != nil {
		return fmt.Errorf("spawn from document: %w", err)
	}

	logger.Info("simulation starting",
		"world", *worldPath,
		"spawn_config", spawnPath,
		"max_ticks", *maxTicks,
		"port", resolvePort(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runLoop(ctx, logger, sched)
	return nil
}

// runLoop advances sched one tick at a time until ctx is cancelled or
// maxTicks is reached, logging periodic progress exactly as the teacher's
// runHeadless loop does (10s report interval, ticks/sec summary on exit).
func runLoop(ctx context.Context, logger *slog.Logger, sched *scheduler.World) {
	start := time.Now()
	lastReport := start
	const reportInterval = 10 * time.Second

	for {
		select {
		case <-ctx.Done():
			logger.Info("interrupted, stopping")
			logSummary(logger, sched, start)
			return
		default:
		}

		if *maxTicks > 0 && sched.Tick() >= *maxTicks {
			logger.Info("reached max ticks", "max_ticks", *maxTicks)
			logSummary(logger, sched, start)
			return
		}

		sched.Step()

		if time.Since(lastReport) >= reportInterval {
			elapsed := time.Since(start)
			rate := float64(sched.Tick()) / elapsed.Seconds()
			logger.Info("progress", "tick", sched.Tick(), "ticks_per_sec", rate, "elapsed", elapsed.Round(time.Second))
			lastReport = time.Now()
		}
	}
}

func logSummary(logger *slog.Logger, sched *scheduler.World, start time.Time) {
	elapsed := time.Since(start)
	rate := float64(sched.Tick()) / elapsed.Seconds()
	logger.Info("simulation complete", "total_ticks", sched.Tick(), "elapsed", elapsed.Round(time.Millisecond), "ticks_per_sec", rate)
}

// loadWorld resolves -world (or the most recent file under -maps-dir) and
// returns a Loader plus the [min, max] window region.Build should cover.
// A FileLoader's own authored bounds are used when available; an unbounded
// NoiseLoader falls back to a fixed window around the origin.
func loadWorld(logger *slog.Logger) (world.Loader, [2]world.Tile, error) {
	path := *worldPath
	if path == "" {
		found, err := mostRecentWorldFile(*mapsDir)
		if err != nil {
			return nil, [2]world.Tile{}, err
		}
		path = found
	}

	if path == "" {
		logger.Warn("no world file found, generating a procedural world", "maps_dir", *mapsDir, "seed", *seed)
		loader := world.NewNoiseLoader(*seed)
		return loader, fallbackBounds(), nil
	}

	loader, err := world.LoadChunkFile(path)
	if err != nil {
		return nil, [2]world.Tile{}, err
	}
	min, max, ok := loader.Bounds()
	if !ok {
		return loader, fallbackBounds(), nil
	}
	return loader, [2]world.Tile{min, max}, nil
}

func fallbackBounds() [2]world.Tile {
	r := defaultRegionRadius
	return [2]world.Tile{{X: -r, Y: -r}, {X: r, Y: r}}
}

// mostRecentWorldFile returns the newest .json file in dir by mod time, or
// "" if dir doesn't exist or has none (spec.md §6: "most recent file in
// the maps directory by default").
func mostRecentWorldFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	type candidate struct {
		path    string
		modTime time.Time
	}
	var candidates []candidate
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{path: filepath.Join(dir, e.Name()), modTime: info.ModTime()})
	}
	if len(candidates) == 0 {
		return "", nil
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].modTime.After(candidates[j].modTime) })
	return candidates[0].path, nil
}

func resolveSpawnConfigPath() string {
	if *spawnConfig != "" {
		return *spawnConfig
	}
	if env := os.Getenv("SPAWN_CONFIG"); env != "" {
		return env
	}
	return "config/spawn_config.yaml"
}

// resolvePort reads LIFE_SIM_WEB_PORT then LIFE_SIM_PORT, defaulting to
// 54321 per spec.md §6. The HTTP server itself is out of scope here; this
// is surfaced purely so a future transport layer (or an operator checking
// logs) knows which port the engine was configured for.
func resolvePort() int {
	for _, name := range []string{"LIFE_SIM_WEB_PORT", "LIFE_SIM_PORT"} {
		if v := os.Getenv(name); v != "" {
			if p, err := strconv.Atoi(v); err == nil {
				return p
			}
		}
	}
	return 54321
}
