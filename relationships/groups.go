package relationships

import (
	"sort"

	"github.com/pthm-cable/wildsim/simcomp"
	"github.com/pthm-cable/wildsim/world"
)

// FormationConfig tunes a species' group-formation and cohesion behavior,
// per spec.md §4.G's generic group formation description.
type FormationConfig struct {
	GroupType       simcomp.GroupType
	CheckInterval   int64
	FormationRadius int32
	MinGroupSize    int
	CohesionRadius  int32
	CohesionInterval int64
}

// PositionOf resolves an entity's current tile; supplied by the caller
// (backed by the spatial index or ECS world).
type PositionOf func(simcomp.EntityRef) (world.Tile, bool)

// FormGroups runs the generic proximity-clustering formation pass on
// tick%cfg.CheckInterval==0: greedily clusters unaffiliated candidates
// within FormationRadius of a seed candidate (distance is measured to the
// seed only, not between members), forming a pack from any cluster
// reaching MinGroupSize, first entity (in deterministic sorted-id order)
// becomes leader.
func FormGroups(g *Graph, tick int64, cfg FormationConfig, candidates []simcomp.EntityRef, pos PositionOf, formedTick int64) {
	if cfg.CheckInterval <= 0 || tick%cfg.CheckInterval != 0 {
		return
	}

	unaffiliated := make([]simcomp.EntityRef, 0, len(candidates))
	for _, e := range candidates {
		if !g.IsAffiliated(e) {
			unaffiliated = append(unaffiliated, e)
		}
	}
	sort.Slice(unaffiliated, func(i, j int) bool { return unaffiliated[i] < unaffiliated[j] })

	assigned := make(map[simcomp.EntityRef]bool, len(unaffiliated))
	for _, seed := range unaffiliated {
		if assigned[seed] {
			continue
		}
		seedTile, ok := pos(seed)
		if !ok {
			continue
		}

		cluster := []simcomp.EntityRef{seed}
		for _, other := range unaffiliated {
			if other == seed || assigned[other] {
				continue
			}
			otherTile, ok := pos(other)
			if !ok {
				continue
			}
			if world.ChebyshevDistance(seedTile, otherTile) <= cfg.FormationRadius {
				cluster = append(cluster, other)
			}
		}

		if len(cluster) >= cfg.MinGroupSize {
			for _, m := range cluster {
				assigned[m] = true
			}
			g.FormPack(cfg.GroupType, formedTick, cluster)
		}
	}
}

// Cohesion runs the spec.md §4.G cohesion pass on its own interval:
// dissolves/removes members whose distance to their leader exceeds
// CohesionRadius. A member drifting out is dropped from the pack rather
// than dissolving the whole group (group-level dissolution below
// MinGroupSize-1 is Cleanup's job).
func Cohesion(g *Graph, tick int64, cfg FormationConfig, pos PositionOf) {
	if cfg.CohesionInterval <= 0 || tick%cfg.CohesionInterval != 0 {
		return
	}

	leaderKeys := sortedLeaderKeys(g)
	for _, leader := range leaderKeys {
		pl, ok := g.leaders[leader]
		if !ok {
			continue
		}
		leaderTile, ok := pos(leader)
		if !ok {
			continue
		}

		var kept []simcomp.EntityRef
		for _, m := range pl.Members {
			memberTile, ok := pos(m)
			if !ok || world.ChebyshevDistance(leaderTile, memberTile) > cfg.CohesionRadius {
				delete(g.members, m)
				continue
			}
			kept = append(kept, m)
		}
		pl.Members = kept
		g.leaders[leader] = pl
	}
}

func sortedLeaderKeys(g *Graph) []simcomp.EntityRef {
	out := make([]simcomp.EntityRef, 0, len(g.leaders))
	for k := range g.leaders {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
