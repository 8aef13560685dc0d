package scheduler

import (
	"github.com/pthm-cable/wildsim/simcomp"
	"github.com/pthm-cable/wildsim/spatial"
)

// SpeciesProfile bundles the per-species constants the scheduler needs to
// spawn and simulate an entity: diet, behavior tuning, consumption needs,
// and maturity. Grounded on the teacher's per-archetype default tables
// (config/config.go's CapabilitiesConfig.Prey/Predator split), generalized
// from a two-archetype (prey/predator) table to spec's seven species.
type SpeciesProfile struct {
	Diet              simcomp.Diet
	Kind              spatial.Kind
	MaturityThreshold int64
	MaxHunger         float32
	MaxThirst         float32
	MaxEnergy         float32
	MaxHealth         float32
	EatAmount         float32
	DrinkAmount       float32
	ThirstActivation  float32
	HungerActivation  float32
	SearchRadius      int32
	Groupable         bool
}

var defaultProfiles = map[simcomp.Species]SpeciesProfile{
	simcomp.SpeciesRabbit: {
		Diet: simcomp.DietHerbivore, Kind: spatial.KindHerbivore,
		MaturityThreshold: 2000, MaxHunger: 100, MaxThirst: 100, MaxEnergy: 100, MaxHealth: 50,
		EatAmount: 2, DrinkAmount: 2, ThirstActivation: 0.5, HungerActivation: 0.5, SearchRadius: 30,
	},
	simcomp.SpeciesDeer: {
		Diet: simcomp.DietHerbivore, Kind: spatial.KindHerbivore,
		MaturityThreshold: 4000, MaxHunger: 120, MaxThirst: 120, MaxEnergy: 120, MaxHealth: 90,
		EatAmount: 3, DrinkAmount: 3, ThirstActivation: 0.5, HungerActivation: 0.5, SearchRadius: 35, Groupable: true,
	},
	simcomp.SpeciesRaccoon: {
		Diet: simcomp.DietOmnivore, Kind: spatial.KindOmnivore,
		MaturityThreshold: 3000, MaxHunger: 100, MaxThirst: 100, MaxEnergy: 100, MaxHealth: 70,
		EatAmount: 2, DrinkAmount: 2, ThirstActivation: 0.5, HungerActivation: 0.5, SearchRadius: 25,
	},
	simcomp.SpeciesBear: {
		Diet: simcomp.DietOmnivore, Kind: spatial.KindOmnivore,
		MaturityThreshold: 8000, MaxHunger: 200, MaxThirst: 150, MaxEnergy: 150, MaxHealth: 200,
		EatAmount: 6, DrinkAmount: 4, ThirstActivation: 0.5, HungerActivation: 0.5, SearchRadius: 40,
	},
	simcomp.SpeciesFox: {
		Diet: simcomp.DietCarnivore, Kind: spatial.KindPredator,
		MaturityThreshold: 3500, MaxHunger: 110, MaxThirst: 110, MaxEnergy: 110, MaxHealth: 80,
		EatAmount: 3, DrinkAmount: 3, ThirstActivation: 0.5, HungerActivation: 0.5, SearchRadius: 35,
	},
	simcomp.SpeciesWolf: {
		Diet: simcomp.DietCarnivore, Kind: spatial.KindPredator,
		MaturityThreshold: 5000, MaxHunger: 150, MaxThirst: 130, MaxEnergy: 130, MaxHealth: 120,
		EatAmount: 5, DrinkAmount: 4, ThirstActivation: 0.5, HungerActivation: 0.5, SearchRadius: 45, Groupable: true,
	},
	simcomp.SpeciesHuman: {
		Diet: simcomp.DietOmnivore, Kind: spatial.KindOmnivore,
		MaturityThreshold: 6000, MaxHunger: 100, MaxThirst: 100, MaxEnergy: 100, MaxHealth: 100,
		EatAmount: 3, DrinkAmount: 3, ThirstActivation: 0.5, HungerActivation: 0.5, SearchRadius: 30,
	},
}

func profileFor(species simcomp.Species) SpeciesProfile {
	if p, ok := defaultProfiles[species]; ok {
		return p
	}
	return defaultProfiles[simcomp.SpeciesRabbit]
}
