package simcomp

import "github.com/pthm-cable/wildsim/world"

// Relationship pair components. Invariant (spec.md §3, invariant 4): for
// every pair, both sides exist or neither — enforced by the
// relationships package's helper functions, never by direct mutation
// here.

// ActiveHunter is the predator side of a Hunt pair.
type ActiveHunter struct {
	Target      EntityRef
	StartedTick int64
}

// HuntingTarget is the prey side of a Hunt pair.
type HuntingTarget struct {
	Predator    EntityRef
	StartedTick int64
}

// ActiveMate is the suitor side of a Mate pair.
type ActiveMate struct {
	Partner     EntityRef
	MeetingTile world.Tile
	StartedTick int64
}

// MatingTarget is the partner side of a Mate pair.
type MatingTarget struct {
	Suitor      EntityRef
	MeetingTile world.Tile
	StartedTick int64
}

// ChildOf is the child side of a Parent pair; the parent side is the
// engine's native hierarchy (tracked in the relationships package as a
// children-set index, not a component, per spec.md §3).
type ChildOf struct {
	Parent EntityRef
}

// GroupType distinguishes pack/herd/warren formation configs.
type GroupType uint8

const (
	GroupPack GroupType = iota
	GroupHerd
	GroupWarren
)

// PackLeader is the leader side of a Pack pair.
type PackLeader struct {
	Members   []EntityRef
	GroupType GroupType
	FormedTick int64
}

// PackMember is the member side of a Pack pair.
type PackMember struct {
	Leader     EntityRef
	GroupType  GroupType
	JoinedTick int64
}
