package scheduler

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/pthm-cable/wildsim/config"
	"github.com/pthm-cable/wildsim/simcomp"
	"github.com/pthm-cable/wildsim/world"
)

var speciesByName = map[string]simcomp.Species{
	"rabbit":  simcomp.SpeciesRabbit,
	"deer":    simcomp.SpeciesDeer,
	"raccoon": simcomp.SpeciesRaccoon,
	"bear":    simcomp.SpeciesBear,
	"fox":     simcomp.SpeciesFox,
	"wolf":    simcomp.SpeciesWolf,
	"human":   simcomp.SpeciesHuman,
}

// ParseSpecies resolves a spawn document's species name to its enum value.
func ParseSpecies(name string) (simcomp.Species, bool) {
	s, ok := speciesByName[strings.ToLower(name)]
	return s, ok
}

func parseSex(name string) (simcomp.Sex, bool) {
	switch strings.ToLower(name) {
	case "male", "m":
		return simcomp.SexMale, true
	case "female", "f":
		return simcomp.SexFemale, true
	default:
		return 0, false
	}
}

// SpawnFromDocument creates every group in doc, one entity at a time, at
// tick. A group's SexSequence cycles across its Count entities (random
// coin-flip if empty); each entity's tile is sampled within its Area,
// re-checking walkability at spawn time since the world may have changed
// shape since the document was authored (spec.md §6: spawn areas are
// re-validated, not trusted verbatim).
func (w *World) SpawnFromDocument(doc *config.SpawnDocument, tick int64) error {
	for _, group := range doc.Groups {
		species, ok := ParseSpecies(group.Species)
		if !ok {
			return fmt.Errorf("spawn: unknown species %q", group.Species)
		}

		for i := 0; i < group.Count; i++ {
			sex := w.sexForIndex(group.SexSequence, i)
			tile, ok := w.sampleSpawnTile(group.Area)
			if !ok {
				return fmt.Errorf("spawn: could not find a walkable tile for %s (index %d) within %d attempts",
					group.Species, i, group.Area.MaxAttempts)
			}
			id := w.Spawn(species, sex, tile, tick)

			name := ""
			if i < len(group.Names) {
				name = group.Names[i]
			}
			if group.LogTemplate != "" {
				slog.Info(group.LogTemplate, "entity", id, "species", group.Species, "name", name, "tile", tile)
			}
		}
	}
	return nil
}

func (w *World) sexForIndex(seq []string, i int) simcomp.Sex {
	if len(seq) == 0 {
		if w.rng.Float32() < 0.5 {
			return simcomp.SexMale
		}
		return simcomp.SexFemale
	}
	if sex, ok := parseSex(seq[i%len(seq)]); ok {
		return sex
	}
	return simcomp.SexMale
}

// sampleSpawnTile samples candidate tiles within area's radius, retrying
// up to MaxAttempts and re-checking walkability against the live world.
func (w *World) sampleSpawnTile(area config.SpawnArea) (world.Tile, bool) {
	attempts := area.MaxAttempts
	if attempts <= 0 {
		attempts = 20
	}
	radius := area.SearchRadius
	if radius <= 0 {
		radius = 10
	}
	for n := 0; n < attempts; n++ {
		dx := int32(w.rng.Intn(int(2*radius+1))) - radius
		dy := int32(w.rng.Intn(int(2*radius+1))) - radius
		t := world.Tile{X: area.Center.X + dx, Y: area.Center.Y + dy}
		if world.IsWalkable(w.loader, t) {
			return t, true
		}
	}
	return world.Tile{}, false
}
