package telemetry

import "sort"

// HallEntry records one notable individual's lifetime stats at the point
// it died or was last observed, generalized from the teacher's
// HallEntry (which stored a surviving organism's neural brain weights
// alongside its fitness) to this simulation's lineage/stat facts, since
// there is no evolved-brain concept here.
type HallEntry struct {
	EntityID   uint32
	Species    string
	SurvivalTicks int64
	Children   int
	KillCount  int
	CladeID    uint32
}

// Fitness ranks an entry for hall-of-fame admission: survival ticks plus
// 500 per child and 200 per kill.
func (h HallEntry) Fitness() float64 {
	return float64(h.SurvivalTicks) + float64(h.Children)*500 + float64(h.KillCount)*200
}

// HallOfFame keeps the top maxSize entries per species, grounded on the
// teacher's HallOfFame (per-archetype capped-size leaderboard,
// lowest-fitness eviction on a full bucket).
type HallOfFame struct {
	bySpecies map[string][]HallEntry
	maxSize   int
}

func NewHallOfFame(maxSize int) *HallOfFame {
	if maxSize < 1 {
		maxSize = 10
	}
	return &HallOfFame{bySpecies: make(map[string][]HallEntry), maxSize: maxSize}
}

// Consider offers an entry for admission, evicting the species bucket's
// worst entry if the bucket is full and entry beats it. Returns true if
// admitted.
func (h *HallOfFame) Consider(entry HallEntry) bool {
	bucket := h.bySpecies[entry.Species]

	if len(bucket) < h.maxSize {
		h.bySpecies[entry.Species] = append(bucket, entry)
		return true
	}

	worstIdx, worstFitness := 0, bucket[0].Fitness()
	for i, e := range bucket[1:] {
		if e.Fitness() < worstFitness {
			worstIdx, worstFitness = i+1, e.Fitness()
		}
	}
	if entry.Fitness() <= worstFitness {
		return false
	}
	bucket[worstIdx] = entry
	h.bySpecies[entry.Species] = bucket
	return true
}

// Entries returns every admitted entry across all species, sorted by
// fitness descending, for CSV export via gocsv.
func (h *HallOfFame) Entries() []HallEntry {
	var out []HallEntry
	for _, bucket := range h.bySpecies {
		out = append(out, bucket...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Fitness() > out[j].Fitness() })
	return out
}

// HallEntryCSV is the flat CSV-export shape for Entries, tagged for
// gocsv.
type HallEntryCSV struct {
	EntityID      uint32  `csv:"entity_id"`
	Species       string  `csv:"species"`
	SurvivalTicks int64   `csv:"survival_ticks"`
	Children      int     `csv:"children"`
	KillCount     int     `csv:"kills"`
	CladeID       uint32  `csv:"clade_id"`
	Fitness       float64 `csv:"fitness"`
}

func ToCSVRows(entries []HallEntry) []HallEntryCSV {
	out := make([]HallEntryCSV, len(entries))
	for i, e := range entries {
		out[i] = HallEntryCSV{
			EntityID:      e.EntityID,
			Species:       e.Species,
			SurvivalTicks: e.SurvivalTicks,
			Children:      e.Children,
			KillCount:     e.KillCount,
			CladeID:       e.CladeID,
			Fitness:       e.Fitness(),
		}
	}
	return out
}
