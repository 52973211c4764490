package world

import (
	"github.com/l1jgo/worldcore/internal/chunk"
	"github.com/l1jgo/worldcore/internal/coord"
	"github.com/l1jgo/worldcore/internal/outbound"
)

// AddLandscapeObject spawns o at pos and tells nearby players.
func (w *World) AddLandscapeObject(o chunk.LandscapeObject, pos coord.Position) *chunk.Chunk {
	c := w.Chunks.ChunkForWorldPosition(pos)
	c.AddObject(o, pos)
	w.notifyAround(c, outbound.ObjectSet(o, pos), nil)
	return c
}

// RemoveLandscapeObject despawns o at pos. markRemoved keeps a removed
// marker so late arrivals are told the object is gone.
func (w *World) RemoveLandscapeObject(o chunk.LandscapeObject, pos coord.Position, markRemoved bool) *chunk.Chunk {
	c := w.Chunks.ChunkForWorldPosition(pos)
	c.RemoveObject(o, pos, markRemoved)
	w.notifyAround(c, outbound.ObjectRemoved(o, pos), nil)
	return c
}

// ReplaceObject puts newObj in place of oldObj. With respawnTicks >= 0 the
// old object comes back after that many world ticks.
func (w *World) ReplaceObject(newObj, oldObj chunk.LandscapeObject, respawnTicks int) {
	pos := oldObj.Position()
	newObj.X, newObj.Y, newObj.Level = pos.X, pos.Y, pos.Level
	w.AddLandscapeObject(newObj, pos)
	if respawnTicks < 0 {
		return
	}
	w.Schedule(respawnTicks, func() {
		c := w.Chunks.ChunkForWorldPosition(pos)
		if !c.HasAddedMarker(newObj, pos) {
			return
		}
		c.DeleteAddedMarker(newObj, pos)
		w.AddLandscapeObject(oldObj, pos)
	})
}

// ReplaceObjectID is ReplaceObject with a new object that copies the old
// one's type, rotation and position.
func (w *World) ReplaceObjectID(newID int, oldObj chunk.LandscapeObject, respawnTicks int) {
	n := oldObj
	n.ObjectID = newID
	w.ReplaceObject(n, oldObj, respawnTicks)
}

// ToggleObjects removes oldObj and adds newObj, which may differ in
// position and orientation (a door swinging open). When newObj is the
// map's own object the stale markers from the previous toggle are cleared.
func (w *World) ToggleObjects(newObj, oldObj chunk.LandscapeObject, newPos, oldPos coord.Position, newObjInFilestore bool) {
	if newObjInFilestore {
		w.DeleteRemovedObjectMarker(newObj, newPos)
		w.DeleteAddedObjectMarker(oldObj, oldPos)
	}
	w.AddLandscapeObject(newObj, newPos)
	w.RemoveLandscapeObject(oldObj, oldPos, true)
}

func (w *World) DeleteAddedObjectMarker(o chunk.LandscapeObject, pos coord.Position) {
	w.Chunks.ChunkForWorldPosition(pos).DeleteAddedMarker(o, pos)
}

func (w *World) DeleteRemovedObjectMarker(o chunk.LandscapeObject, pos coord.Position) {
	w.Chunks.ChunkForWorldPosition(pos).DeleteRemovedMarker(o, pos)
}

// AddTemporaryLandscapeObject spawns o and despawns it again after
// expireTicks. If something else removed it first the timer does nothing.
func (w *World) AddTemporaryLandscapeObject(o chunk.LandscapeObject, pos coord.Position, expireTicks int) {
	w.AddLandscapeObject(o, pos)
	w.After(expireTicks, func() {
		if !w.objectPresent(o, pos) {
			return
		}
		c := w.RemoveLandscapeObject(o, pos, false)
		c.DeleteAddedMarker(o, pos)
	})
}

// RemoveLandscapeObjectTemporarily despawns o and restores it after
// expireTicks unless it was restored in the meantime.
func (w *World) RemoveLandscapeObjectTemporarily(o chunk.LandscapeObject, pos coord.Position, expireTicks int) {
	c := w.RemoveLandscapeObject(o, pos, true)
	w.After(expireTicks, func() {
		if w.objectPresent(o, pos) {
			return
		}
		c.DeleteRemovedMarker(o, pos)
		w.AddLandscapeObject(o, pos)
	})
}

func (w *World) objectPresent(o chunk.LandscapeObject, pos coord.Position) bool {
	for _, cur := range w.Chunks.ChunkForWorldPosition(pos).ObjectsAt(pos.X, pos.Y) {
		if cur.ObjectID == o.ObjectID {
			return true
		}
	}
	return false
}
