package telemetry

import "testing"

func TestPerfCollectorAveragesWindow(t *testing.T) {
	p := NewPerfCollector(2)
	for i := 0; i < 2; i++ {
		p.StartTick()
		p.StartPhase(PhasePlanning)
		p.StartPhase(PhaseMovement)
		p.EndTick()
	}
	stats := p.Stats()
	if stats.AvgTickDuration < 0 {
		t.Fatal("expected non-negative average tick duration")
	}
	if _, ok := stats.PhaseAvg[PhasePlanning]; !ok {
		t.Fatal("expected planning phase recorded")
	}
}

func TestPerfStatsToCSVCarriesWindowEnd(t *testing.T) {
	p := NewPerfCollector(1)
	p.StartTick()
	p.StartPhase(PhaseMovement)
	p.EndTick()
	csv := p.Stats().ToCSV(42)
	if csv.WindowEnd != 42 {
		t.Fatalf("expected window end 42, got %d", csv.WindowEnd)
	}
}

func TestPerfStatsP95MatchesSingleSample(t *testing.T) {
	p := NewPerfCollector(1)
	p.StartTick()
	p.StartPhase(PhaseMovement)
	p.EndTick()
	stats := p.Stats()
	if stats.P95TickDuration != stats.MaxTickDuration {
		t.Fatalf("expected p95 to equal the single sample's duration, got p95=%v max=%v", stats.P95TickDuration, stats.MaxTickDuration)
	}
}

func TestCollectorFlushResetsCounters(t *testing.T) {
	c := NewCollector(10, 10)
	c.RecordBirth("rabbit")
	c.RecordHuntAttempt()
	c.RecordHuntSuccess()

	stats := c.Flush(100, map[string]int{"rabbit": 5})
	if stats.Births["rabbit"] != 1 {
		t.Fatalf("expected 1 birth recorded, got %d", stats.Births["rabbit"])
	}
	if stats.HuntsSucceeded != 1 {
		t.Fatalf("expected 1 successful hunt, got %d", stats.HuntsSucceeded)
	}

	stats2 := c.Flush(200, map[string]int{"rabbit": 5})
	if stats2.HuntsSucceeded != 0 {
		t.Fatal("expected counters reset after flush")
	}
}

func TestCollectorShouldFlushRespectsWindow(t *testing.T) {
	c := NewCollector(1, 10)
	if c.ShouldFlush(5) {
		t.Fatal("expected window not yet elapsed")
	}
	if !c.ShouldFlush(10) {
		t.Fatal("expected window elapsed at 10 ticks")
	}
}

func TestBookmarkDetectorFiresHuntSurgeAfterWarmup(t *testing.T) {
	d := NewBookmarkDetector(5)
	base := WindowStats{HuntsSucceeded: 2, PopulationBySpecies: map[string]int{"wolf": 10}}
	for i := 0; i < 5; i++ {
		d.Check(base)
	}
	surge := WindowStats{HuntsSucceeded: 20, PopulationBySpecies: map[string]int{"wolf": 10}}
	bookmarks := d.Check(surge)

	found := false
	for _, b := range bookmarks {
		if b.Type == BookmarkHuntSurge {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected hunt surge bookmark, got %v", bookmarks)
	}
}

func TestBookmarkDetectorSkipsDuringWarmup(t *testing.T) {
	d := NewBookmarkDetector(5)
	surge := WindowStats{HuntsSucceeded: 100}
	if bookmarks := d.Check(surge); len(bookmarks) != 0 {
		t.Fatalf("expected no bookmarks before history fills, got %v", bookmarks)
	}
}

func TestHallOfFameEvictsWorstWhenFull(t *testing.T) {
	h := NewHallOfFame(2)
	h.Consider(HallEntry{EntityID: 1, Species: "deer", SurvivalTicks: 100})
	h.Consider(HallEntry{EntityID: 2, Species: "deer", SurvivalTicks: 200})

	admitted := h.Consider(HallEntry{EntityID: 3, Species: "deer", SurvivalTicks: 300})
	if !admitted {
		t.Fatal("expected entry with highest fitness admitted")
	}

	entries := h.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected bucket capped at 2 entries, got %d", len(entries))
	}
	for _, e := range entries {
		if e.EntityID == 1 {
			t.Fatal("expected lowest-fitness entry evicted")
		}
	}
}

func TestHallOfFameRejectsWorseThanWorst(t *testing.T) {
	h := NewHallOfFame(1)
	h.Consider(HallEntry{EntityID: 1, Species: "fox", SurvivalTicks: 500})
	if h.Consider(HallEntry{EntityID: 2, Species: "fox", SurvivalTicks: 10}) {
		t.Fatal("expected lower-fitness entry rejected once bucket is full")
	}
}
