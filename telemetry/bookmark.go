package telemetry

import "log/slog"

// BookmarkType classifies a notable ecosystem event surfaced by the
// detector, generalized from the teacher's bite/predator-vs-prey bookmark
// taxonomy (telemetry/bookmark.go) to this simulation's population and
// behavior signals.
type BookmarkType string

const (
	BookmarkHuntSurge      BookmarkType = "hunt_surge"
	BookmarkForageSurge    BookmarkType = "forage_surge"
	BookmarkPopulationCrash BookmarkType = "population_crash"
	BookmarkPopulationBoom  BookmarkType = "population_boom"
	BookmarkStableEcosystem BookmarkType = "stable_ecosystem"
)

// Bookmark is one detected event.
type Bookmark struct {
	Type        BookmarkType
	Tick        int64
	Description string
}

func (b Bookmark) Log() {
	slog.Info("bookmark", "type", string(b.Type), "tick", b.Tick, "description", b.Description)
}

// BookmarkDetector watches a rolling history of WindowStats for
// threshold-crossing events worth surfacing to an operator, grounded on
// the teacher's BookmarkDetector (fixed-size circular-buffer history,
// recent-min/recent-peak tracking, a stable-windows streak counter).
type BookmarkDetector struct {
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	recentPopulationMin int
	recentPopulationMax int
	stableWindowsCount  int
}

// NewBookmarkDetector creates a detector retaining historySize windows of
// history (minimum 5, matching the teacher's floor).
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check appends stats to history and returns any bookmarks detected this
// window.
func (d *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var out []Bookmark

	total := 0
	for _, n := range stats.PopulationBySpecies {
		total += n
	}

	if d.historyFull {
		out = append(out, d.checkHuntSurge(stats)...)
		out = append(out, d.checkForageSurge(stats)...)
		out = append(out, d.checkPopulationSwing(stats, total)...)
		out = append(out, d.checkStableEcosystem(stats, total)...)
	}

	d.history[d.historyIdx] = stats
	d.historyIdx = (d.historyIdx + 1) % d.historySize
	if d.historyIdx == 0 {
		d.historyFull = true
	}

	return out
}

func (d *BookmarkDetector) checkHuntSurge(stats WindowStats) []Bookmark {
	avg := d.avgInt(func(w WindowStats) int { return w.HuntsSucceeded })
	if avg > 0 && float64(stats.HuntsSucceeded) >= float64(avg)*2 {
		return []Bookmark{{Type: BookmarkHuntSurge, Tick: stats.WindowEndTick, Description: "successful hunts spiked this window"}}
	}
	return nil
}

func (d *BookmarkDetector) checkForageSurge(stats WindowStats) []Bookmark {
	avg := d.avgInt(func(w WindowStats) int { return w.GrazeCount + w.DrinkCount })
	current := stats.GrazeCount + stats.DrinkCount
	if avg > 0 && float64(current) >= float64(avg)*2 {
		return []Bookmark{{Type: BookmarkForageSurge, Tick: stats.WindowEndTick, Description: "foraging activity spiked this window"}}
	}
	return nil
}

func (d *BookmarkDetector) checkPopulationSwing(stats WindowStats, total int) []Bookmark {
	var out []Bookmark
	if d.recentPopulationMax > 0 && total <= d.recentPopulationMax/2 {
		out = append(out, Bookmark{Type: BookmarkPopulationCrash, Tick: stats.WindowEndTick, Description: "population halved from its recent peak"})
	}
	if d.recentPopulationMin > 0 && total >= d.recentPopulationMin*2 {
		out = append(out, Bookmark{Type: BookmarkPopulationBoom, Tick: stats.WindowEndTick, Description: "population doubled from its recent low"})
	}
	if total > d.recentPopulationMax {
		d.recentPopulationMax = total
	}
	if d.recentPopulationMin == 0 || total < d.recentPopulationMin {
		d.recentPopulationMin = total
	}
	return out
}

func (d *BookmarkDetector) checkStableEcosystem(stats WindowStats, total int) []Bookmark {
	deaths := 0
	for _, n := range stats.Deaths {
		deaths += n
	}
	if total > 0 && deaths*10 < total {
		d.stableWindowsCount++
	} else {
		d.stableWindowsCount = 0
	}
	if d.stableWindowsCount == 5 {
		return []Bookmark{{Type: BookmarkStableEcosystem, Tick: stats.WindowEndTick, Description: "population has held steady for 5 consecutive windows"}}
	}
	return nil
}

func (d *BookmarkDetector) avgInt(f func(WindowStats) int) int {
	sum, n := 0, 0
	limit := d.historySize
	if !d.historyFull {
		limit = d.historyIdx
	}
	for i := 0; i < limit; i++ {
		sum += f(d.history[i])
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / n
}
