package scheduler

import (
	"github.com/pthm-cable/wildsim/actions"
	"github.com/pthm-cable/wildsim/pathfind"
	"github.com/pthm-cable/wildsim/simcomp"
)

// movementSpeedTilesPerTick is how many path steps an entity advances
// each Movement phase; fixed at one tile per tick across all species,
// matching spec.md §4.I's flat movement-cost model (terrain affects
// pathfinding cost, not per-tick step count).
const movementSpeedTilesPerTick = 1

// phaseBridgesA drains every entity whose Action Execute call this tick
// reported NeedsPathfinding into a pathfind.Service request.
func (w *World) phaseBridgesA() {
	for _, id := range w.sortedAliveIDs() {
		ent := w.entities[id]
		if !ent.needsPathRequest {
			continue
		}
		ent.needsPathRequest = false

		active, ok := w.queue.ActiveOf(id)
		if !ok {
			continue
		}
		priority := pathPriorityFor(active.Action.Kind())
		reason := reasonFor(active.Action.Kind())

		reqID := w.paths.Enqueue(pathfind.EntityID(id), ent.position.Tile, ent.pendingPathTarget, priority, reason, w.tick)
		ent.pendingPathID = reqID
		ent.hasPendingPath = true
		ent.pendingPathPriority = priority
		ent.pathRetries = 0
		ent.movement.State = simcomp.MovementPathRequested
		ent.movement.PathRequestID = uint64(reqID)
	}
}

// phaseBridgesB applies this tick's pathfind.Service results back onto
// the movement component: a successful path starts FollowingPath, a
// failure retries up to actions.MaxRetries before giving up and tagging
// the entity stuck (and for replanning).
func (w *World) phaseBridgesB(ready []pathfind.Ready, failed []pathfind.Failed) {
	for _, r := range ready {
		id := simcomp.EntityRef(r.Entity)
		ent, ok := w.entities[id]
		if !ok || !ent.alive {
			continue
		}
		ent.movement.Path = r.Path
		ent.movement.PathIndex = 0
		ent.movement.State = simcomp.MovementFollowingPath
		ent.hasPendingPath = false
		ent.pathRetries = 0
	}

	for _, f := range failed {
		id := simcomp.EntityRef(f.Entity)
		ent, ok := w.entities[id]
		if !ok || !ent.alive {
			continue
		}
		ent.hasPendingPath = false
		ent.pathRetries++

		if ent.pathRetries <= actions.MaxRetries {
			reqID := w.paths.Enqueue(pathfind.EntityID(id), ent.position.Tile, ent.pendingPathTarget, ent.pendingPathPriority, ent.pendingPathReason, w.tick)
			ent.pendingPathID = reqID
			ent.hasPendingPath = true
			continue
		}

		if active, ok := w.queue.ActiveOf(id); ok {
			active.Action.Cancel(w.contextFor(id, ent, nil))
		}
		w.queue.Clear(id)
		ent.movement.State = simcomp.MovementStuck
		ent.pathRetries = 0
		w.replanNext[id] = struct{}{}
	}
}

// phaseMovement advances every FollowingPath entity one tile along its
// resolved path, marking AtTarget true the tick it reaches the path's
// final tile.
func (w *World) phaseMovement() {
	for _, id := range w.sortedAliveIDs() {
		ent := w.entities[id]
		if ent.movement.State != simcomp.MovementFollowingPath {
			continue
		}
		if len(ent.movement.Path) == 0 {
			ent.movement.State = simcomp.MovementIdle
			ent.atTarget = true
			continue
		}

		next := ent.movement.PathIndex + movementSpeedTilesPerTick
		if next >= len(ent.movement.Path) {
			ent.position.Tile = ent.movement.Path[len(ent.movement.Path)-1]
			ent.movement.PathIndex = len(ent.movement.Path) - 1
			ent.movement.State = simcomp.MovementIdle
			ent.movement.Path = nil
			ent.atTarget = true
		} else {
			ent.position.Tile = ent.movement.Path[next]
			ent.movement.PathIndex = next
			ent.atTarget = false
		}
	}
}

// phaseSpatialMaintenance pushes every alive entity's current tile into
// the spatial index and runs its deferred-apply maintenance pass.
func (w *World) phaseSpatialMaintenance() {
	for _, id := range w.sortedAliveIDs() {
		ent := w.entities[id]
		w.spatial.Update(ent.ecsEntity, ent.position.Tile)
	}
	w.spatial.Maintain()
}
