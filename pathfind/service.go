// Package pathfind implements the simulation's priority-queued,
// budget-bounded pathfinding service: a per-tick expansion budget is
// shared across queued requests, drained in priority order, with 8-neighbor
// A* over world tiles. Grounded on the teacher's systems/astar.go
// AStarPlanner (reusable open/closed/gScore maps, corner-cut prevention,
// heap-based open set), generalized from a synchronous whenever-called
// planner into a budgeted service that can defer or fail requests.
package pathfind

import (
	"github.com/pthm-cable/wildsim/region"
	"github.com/pthm-cable/wildsim/world"
)

// DefaultTTLTicks is how long an unserved request may sit in the queue
// before it is dropped as expired.
const DefaultTTLTicks = 300

// DefaultBudgetPerTick is the total node-expansion allowance shared across
// all requests processed in a single tick.
const DefaultBudgetPerTick = 20_000

// Service drains queued path requests against a shared per-tick expansion
// budget, in priority order.
type Service struct {
	loader  world.Loader
	regions *region.Map
	budget  int
	ttl     int64

	q        *queue
	search   *astarSearcher
	nextID   RequestID
	inFlight map[RequestID]*Request
}

// NewService builds a pathfinding service bound to a world loader and an
// optional region map (nil disables the O(1) unreachability pre-check).
func NewService(loader world.Loader, regions *region.Map, budgetPerTick int, ttlTicks int64) *Service {
	if budgetPerTick <= 0 {
		budgetPerTick = DefaultBudgetPerTick
	}
	if ttlTicks <= 0 {
		ttlTicks = DefaultTTLTicks
	}
	return &Service{
		loader:   loader,
		regions:  regions,
		budget:   budgetPerTick,
		ttl:      ttlTicks,
		q:        newQueue(),
		search:   newAStarSearcher(),
		inFlight: make(map[RequestID]*Request),
	}
}

// Enqueue queues a new path request and returns its ID.
func (s *Service) Enqueue(entity EntityID, from, to world.Tile, priority Priority, reason Reason, currentTick int64) RequestID {
	s.nextID++
	r := &Request{
		ID:            s.nextID,
		Entity:        entity,
		From:          from,
		To:            to,
		Priority:      priority,
		Reason:        reason,
		RequestedTick: currentTick,
	}
	s.inFlight[r.ID] = r
	s.q.push(r)
	return r.ID
}

// QueueLen reports the number of requests currently waiting.
func (s *Service) QueueLen() int {
	return s.q.len()
}

// ProcessTick drains the queue against the per-tick budget, in priority
// order, returning every request that resolved (success or failure) this
// tick. Requests that don't fit in the remaining budget, or that come up
// empty on a region pre-check, are handled as follows:
//   - region pre-check says unreachable: immediate Failed{Unreachable},
//     no budget spent.
//   - TTL expired before being attempted: immediate Failed{Expired}.
//   - budget exhausted mid-search: silently requeued, retried next tick.
func (s *Service) ProcessTick(currentTick int64) (ready []Ready, failed []Failed) {
	remaining := s.budget

	for remaining > 0 {
		r, ok := s.q.popNext()
		if !ok {
			break
		}

		if currentTick-r.RequestedTick > s.ttl {
			delete(s.inFlight, r.ID)
			failed = append(failed, Failed{RequestID: r.ID, Entity: r.Entity, Reason: FailExpired})
			continue
		}

		if s.regions != nil && !s.regions.SameRegion(r.From, r.To) {
			delete(s.inFlight, r.ID)
			failed = append(failed, Failed{RequestID: r.ID, Entity: r.Entity, Reason: FailUnreachable})
			continue
		}

		path, used, outcome := s.search.search(s.loader, r.From, r.To, remaining)
		switch outcome {
		case outcomeFound:
			remaining -= used
			delete(s.inFlight, r.ID)
			ready = append(ready, Ready{RequestID: r.ID, Entity: r.Entity, Path: path})
		case outcomeUnreachable:
			remaining -= used
			delete(s.inFlight, r.ID)
			failed = append(failed, Failed{RequestID: r.ID, Entity: r.Entity, Reason: FailUnreachable})
		case outcomeBudgetExhausted:
			// Out of budget this tick: put it back at the front of its
			// bucket so it is the first thing tried next tick, and stop
			// processing (nothing left to spend).
			s.q.pushFront(r)
			remaining = 0
		}
	}

	return ready, failed
}
