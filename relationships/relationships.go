// Package relationships owns the bidirectional entity-relationship pairs
// (Hunt, Mate, Parent/Child, Pack) and their cleanup/formation/cohesion
// systems. Every mutation touches both sides together, per spec.md §3
// invariant 4 ("for every relationship pair, both components exist or
// both absent") and §3's explicit design note ("implement as paired
// components with helper functions that always mutate both sides; never
// store raw cross-references on a single side"). Grounded on the
// teacher's systems/breeding.go (mutual-proximity pairing, collect-then-
// process two-pass idiom) and game/game.go's cleanupDead (collect stale
// entries during a read pass, remove them in a second pass).
package relationships

import (
	"sort"

	"github.com/pthm-cable/wildsim/simcomp"
	"github.com/pthm-cable/wildsim/world"
)

// Graph holds every active relationship pair. Not an ECS component store:
// the scheduler keeps no relationship components of its own and queries
// Graph directly; Graph is the single place the bidirectional-mutation
// invariant is enforced.
type Graph struct {
	hunters map[simcomp.EntityRef]simcomp.ActiveHunter
	prey    map[simcomp.EntityRef]simcomp.HuntingTarget

	suitors map[simcomp.EntityRef]simcomp.ActiveMate
	mates   map[simcomp.EntityRef]simcomp.MatingTarget

	children map[simcomp.EntityRef]simcomp.ChildOf
	parentOf map[simcomp.EntityRef][]simcomp.EntityRef

	leaders map[simcomp.EntityRef]simcomp.PackLeader
	members map[simcomp.EntityRef]simcomp.PackMember
}

func NewGraph() *Graph {
	return &Graph{
		hunters:  make(map[simcomp.EntityRef]simcomp.ActiveHunter),
		prey:     make(map[simcomp.EntityRef]simcomp.HuntingTarget),
		suitors:  make(map[simcomp.EntityRef]simcomp.ActiveMate),
		mates:    make(map[simcomp.EntityRef]simcomp.MatingTarget),
		children: make(map[simcomp.EntityRef]simcomp.ChildOf),
		parentOf: make(map[simcomp.EntityRef][]simcomp.EntityRef),
		leaders:  make(map[simcomp.EntityRef]simcomp.PackLeader),
		members:  make(map[simcomp.EntityRef]simcomp.PackMember),
	}
}

// SetHunt establishes a Hunt pair on both sides.
func (g *Graph) SetHunt(predator, prey simcomp.EntityRef, tick int64) {
	g.hunters[predator] = simcomp.ActiveHunter{Target: prey, StartedTick: tick}
	g.prey[prey] = simcomp.HuntingTarget{Predator: predator, StartedTick: tick}
}

// ClearHunt removes a Hunt pair from both sides, if present.
func (g *Graph) ClearHunt(predator, prey simcomp.EntityRef) {
	delete(g.hunters, predator)
	delete(g.prey, prey)
}

func (g *Graph) Hunter(predator simcomp.EntityRef) (simcomp.ActiveHunter, bool) {
	h, ok := g.hunters[predator]
	return h, ok
}

// SetMate establishes a Mate pair on both sides.
func (g *Graph) SetMate(suitor, partner simcomp.EntityRef, meetingTile world.Tile, tick int64) {
	g.suitors[suitor] = simcomp.ActiveMate{Partner: partner, MeetingTile: meetingTile, StartedTick: tick}
	g.mates[partner] = simcomp.MatingTarget{Suitor: suitor, MeetingTile: meetingTile, StartedTick: tick}
}

// ClearMate removes a Mate pair from both sides, if present.
func (g *Graph) ClearMate(suitor, partner simcomp.EntityRef) {
	delete(g.suitors, suitor)
	delete(g.mates, partner)
}

// SetParent establishes a Parent/Child pair: ChildOf on the child,
// membership in the parent's children set.
func (g *Graph) SetParent(parent, child simcomp.EntityRef) {
	g.children[child] = simcomp.ChildOf{Parent: parent}
	g.parentOf[parent] = append(g.parentOf[parent], child)
}

// ChildrenOf returns a parent's children set.
func (g *Graph) ChildrenOf(parent simcomp.EntityRef) []simcomp.EntityRef {
	return g.parentOf[parent]
}

// ParentOf reports a child's parent, if the relation still exists.
func (g *Graph) ParentOf(child simcomp.EntityRef) (simcomp.EntityRef, bool) {
	c, ok := g.children[child]
	if !ok {
		return simcomp.NoEntity, false
	}
	return c.Parent, true
}

// FormPack installs PackLeader on the first member and PackMember on the
// rest, all pointing at the leader, per spec.md §4.G ("first entity
// becomes leader").
func (g *Graph) FormPack(groupType simcomp.GroupType, formedTick int64, members []simcomp.EntityRef) {
	if len(members) == 0 {
		return
	}
	leader := members[0]
	rest := append([]simcomp.EntityRef{}, members[1:]...)
	g.leaders[leader] = simcomp.PackLeader{Members: rest, GroupType: groupType, FormedTick: formedTick}
	for _, m := range rest {
		g.members[m] = simcomp.PackMember{Leader: leader, GroupType: groupType, JoinedTick: formedTick}
	}
}

// DissolvePack removes PackLeader from the leader and PackMember from
// every member.
func (g *Graph) DissolvePack(leader simcomp.EntityRef) {
	pl, ok := g.leaders[leader]
	if !ok {
		return
	}
	for _, m := range pl.Members {
		delete(g.members, m)
	}
	delete(g.leaders, leader)
}

func (g *Graph) Leader(entity simcomp.EntityRef) (simcomp.PackLeader, bool) {
	l, ok := g.leaders[entity]
	return l, ok
}

func (g *Graph) Member(entity simcomp.EntityRef) (simcomp.PackMember, bool) {
	m, ok := g.members[entity]
	return m, ok
}

// IsAffiliated reports whether an entity already belongs to a pack, as
// either leader or member.
func (g *Graph) IsAffiliated(entity simcomp.EntityRef) bool {
	if _, ok := g.leaders[entity]; ok {
		return true
	}
	_, ok := g.members[entity]
	return ok
}

// GroupTypeOf reports the GroupType of the group an entity belongs to
// (leader or member), mirroring original_source/ai/group_coordination.rs's
// get_group_info dispatch: callers switch on the returned GroupType to pick
// the species-appropriate group bonus (Pack -> hunt, Herd -> safety).
func (g *Graph) GroupTypeOf(entity simcomp.EntityRef) (simcomp.GroupType, bool) {
	if l, ok := g.leaders[entity]; ok {
		return l.GroupType, true
	}
	if m, ok := g.members[entity]; ok {
		return m.GroupType, true
	}
	return 0, false
}

// Alive is a liveness oracle the cleanup pass consults; supplied by the
// caller (backed by the ECS world) so this package never imports it.
type Alive func(simcomp.EntityRef) bool

// MinGroupSize is the pack-dissolution floor: a pack with fewer than
// min_group_size-1 living members dissolves, per spec.md §4.G.
const MinGroupSize = 3

// Cleanup runs the spec.md §4.G cleanup pass: drops Hunt/Mate pairs whose
// target no longer exists, prunes dead pack members and dissolves
// undersized packs, and clears ChildOf pointing at a despawned parent.
// Two-pass (collect stale keys while ranging, then delete) mirroring the
// teacher's cleanupDead.
func Cleanup(g *Graph, alive Alive) {
	var staleHunters []simcomp.EntityRef
	for predator, h := range g.hunters {
		if !alive(predator) || !alive(h.Target) {
			staleHunters = append(staleHunters, predator)
		}
	}
	for _, predator := range staleHunters {
		h := g.hunters[predator]
		g.ClearHunt(predator, h.Target)
	}

	var staleSuitors []simcomp.EntityRef
	for suitor, m := range g.suitors {
		if !alive(suitor) || !alive(m.Partner) {
			staleSuitors = append(staleSuitors, suitor)
		}
	}
	for _, suitor := range staleSuitors {
		m := g.suitors[suitor]
		g.ClearMate(suitor, m.Partner)
	}

	var staleChildren []simcomp.EntityRef
	for child, c := range g.children {
		if !alive(child) || !alive(c.Parent) {
			staleChildren = append(staleChildren, child)
		}
	}
	for _, child := range staleChildren {
		parent := g.children[child].Parent
		delete(g.children, child)
		g.parentOf[parent] = removeEntity(g.parentOf[parent], child)
	}

	var dissolve []simcomp.EntityRef
	leaderKeys := sortedKeys(g.leaders)
	for _, leader := range leaderKeys {
		pl := g.leaders[leader]
		var living []simcomp.EntityRef
		for _, m := range pl.Members {
			if alive(m) {
				living = append(living, m)
			}
		}
		if !alive(leader) || len(living) < MinGroupSize-1 {
			dissolve = append(dissolve, leader)
			continue
		}
		if len(living) != len(pl.Members) {
			pl.Members = living
			g.leaders[leader] = pl
			for m, pm := range g.members {
				if pm.Leader == leader && !alive(m) {
					delete(g.members, m)
				}
			}
		}
	}
	for _, leader := range dissolve {
		g.DissolvePack(leader)
	}
}

func removeEntity(s []simcomp.EntityRef, e simcomp.EntityRef) []simcomp.EntityRef {
	out := s[:0]
	for _, v := range s {
		if v != e {
			out = append(out, v)
		}
	}
	return out
}

func sortedKeys(m map[simcomp.EntityRef]simcomp.PackLeader) []simcomp.EntityRef {
	out := make([]simcomp.EntityRef, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
