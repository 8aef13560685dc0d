// Package queue implements the per-entity action queue and executor:
// install/preempt/discard selection logic (spec.md §4.J) and the
// deferred-command-producing execute step. Grounded on the teacher's
// game/game.go updateReproduction/cleanupDead collect-then-mutate idiom,
// reused here for "drain the pending queue, decide, then touch the active
// slot" rather than mutating mid-iteration.
package queue

import (
	"sort"

	"github.com/pthm-cable/wildsim/actions"
	"github.com/pthm-cable/wildsim/simcomp"
)

// Request is a pending candidate action awaiting installation.
type Request struct {
	Action   actions.Action
	Priority int
	Utility  float32
}

// Active is the single installed action slot for an entity.
type Active struct {
	Action   actions.Action
	Priority int
	Utility  float32
}

// Manager owns every entity's active-action slot and pending-request
// queue. Not safe for concurrent access from multiple goroutines without
// external synchronization; the tick scheduler's Action Selection phase
// runs it single-threaded by design (spec.md §4.J/§5).
type Manager struct {
	active  map[simcomp.EntityRef]Active
	pending map[simcomp.EntityRef][]Request
}

func NewManager() *Manager {
	return &Manager{
		active:  make(map[simcomp.EntityRef]Active),
		pending: make(map[simcomp.EntityRef][]Request),
	}
}

// Enqueue adds a candidate request to an entity's pending queue, to be
// considered the next time that entity is replanned.
func (m *Manager) Enqueue(entity simcomp.EntityRef, req Request) {
	m.pending[entity] = append(m.pending[entity], req)
}

// ActiveOf reports the entity's current active action, if any.
func (m *Manager) ActiveOf(entity simcomp.EntityRef) (Active, bool) {
	a, ok := m.active[entity]
	return a, ok
}

// Replan drains entity's pending queue, picks the top request by priority
// then utility, and applies spec.md §4.J step 1's install/preempt/discard
// rule. cancelCtx is passed to the preempted action's Cancel, if any.
// Returns true if a new action was installed (install or preempt), false
// if the pending queue was empty or the top candidate was discarded.
func (m *Manager) Replan(entity simcomp.EntityRef, cancelCtx actions.Context) bool {
	reqs := m.pending[entity]
	delete(m.pending, entity)
	if len(reqs) == 0 {
		return false
	}

	top := topRequest(reqs)
	current, hasActive := m.active[entity]

	if !hasActive {
		m.active[entity] = Active{Action: top.Action, Priority: top.Priority, Utility: top.Utility}
		return true
	}
	if top.Priority > current.Priority {
		current.Action.Cancel(cancelCtx)
		m.active[entity] = Active{Action: top.Action, Priority: top.Priority, Utility: top.Utility}
		return true
	}
	return false
}

func topRequest(reqs []Request) Request {
	sort.SliceStable(reqs, func(i, j int) bool {
		if reqs[i].Priority != reqs[j].Priority {
			return reqs[i].Priority > reqs[j].Priority
		}
		return reqs[i].Utility > reqs[j].Utility
	})
	return reqs[0]
}

// ExecOutcome classifies what Execute should do with the active slot.
type ExecOutcome uint8

const (
	ExecKept ExecOutcome = iota
	ExecDone
	ExecNeedsPathfinding
)

// Execute runs the entity's active action once (spec.md §4.J step 2) and
// reports what the scheduler should do with the slot afterward. On
// Success/Failed the slot is cleared and the caller should tag the entity
// NeedsReplanning for next tick. On NeedsPathfinding the slot is kept and
// the target tile is returned for the bridge phase to consume.
func (m *Manager) Execute(entity simcomp.EntityRef, ctx actions.Context) (ExecOutcome, actions.Result) {
	active, ok := m.active[entity]
	if !ok {
		return ExecDone, actions.Result{}
	}

	res := active.Action.Execute(ctx)
	switch res.Kind {
	case actions.ResultSuccess, actions.ResultFailed:
		delete(m.active, entity)
		return ExecDone, res
	case actions.ResultNeedsPathfinding:
		return ExecNeedsPathfinding, res
	default:
		return ExecKept, res
	}
}

// Clear forcibly removes an entity's active action without calling
// Cancel, for end-of-life cleanup (death, despawn).
func (m *Manager) Clear(entity simcomp.EntityRef) {
	delete(m.active, entity)
	delete(m.pending, entity)
}
