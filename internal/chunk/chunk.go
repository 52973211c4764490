package chunk

import (
	"maps"
	"slices"
	"sort"

	"github.com/l1jgo/worldcore/internal/coord"
	"github.com/l1jgo/worldcore/internal/entity"
)

// Chunk is an 8x8 tile partition on one level. It tracks which mobs stand in
// it, object markers relative to the static map, and ground items.
// Accessed only from the tick goroutine.
type Chunk struct {
	X, Y, Level int

	players map[*entity.Player]struct{}
	npcs    map[*entity.Npc]struct{}

	filestore map[ObjectKey]LandscapeObject // static objects from region data
	added     map[ObjectKey]LandscapeObject // spawned on top of the static map
	removed   map[ObjectKey]LandscapeObject // static objects currently despawned

	items []*WorldItem
}

func newChunk(x, y, level int) *Chunk {
	return &Chunk{
		X:         x,
		Y:         y,
		Level:     level,
		players:   make(map[*entity.Player]struct{}),
		npcs:      make(map[*entity.Npc]struct{}),
		filestore: make(map[ObjectKey]LandscapeObject),
		added:     make(map[ObjectKey]LandscapeObject),
		removed:   make(map[ObjectKey]LandscapeObject),
	}
}

// Position returns the chunk coordinates as a position (not tile coordinates).
func (c *Chunk) Position() coord.Position { return coord.New(c.X, c.Y, c.Level) }

func (c *Chunk) AddPlayer(p *entity.Player)    { c.players[p] = struct{}{} }
func (c *Chunk) RemovePlayer(p *entity.Player) { delete(c.players, p) }
func (c *Chunk) HasPlayer(p *entity.Player) bool {
	_, ok := c.players[p]
	return ok
}

func (c *Chunk) AddNpc(n *entity.Npc)    { c.npcs[n] = struct{}{} }
func (c *Chunk) RemoveNpc(n *entity.Npc) { delete(c.npcs, n) }
func (c *Chunk) HasNpc(n *entity.Npc) bool {
	_, ok := c.npcs[n]
	return ok
}

// Players returns members ordered by slot.
func (c *Chunk) Players() []*entity.Player {
	out := slices.Collect(maps.Keys(c.players))
	sort.Slice(out, func(i, j int) bool { return out[i].Slot() < out[j].Slot() })
	return out
}

// Npcs returns members ordered by slot.
func (c *Chunk) Npcs() []*entity.Npc {
	out := slices.Collect(maps.Keys(c.npcs))
	sort.Slice(out, func(i, j int) bool { return out[i].Slot() < out[j].Slot() })
	return out
}

func (c *Chunk) PlayerCount() int { return len(c.players) }
func (c *Chunk) NpcCount() int    { return len(c.npcs) }

// SetFilestoreObject records a static object native to the map region.
func (c *Chunk) SetFilestoreObject(o LandscapeObject) {
	c.filestore[keyFor(o, o.Position())] = o
}

// AddObject places o at p. Re-adding a static object only clears its
// removed marker.
func (c *Chunk) AddObject(o LandscapeObject, p coord.Position) {
	k := keyFor(o, p)
	if _, ok := c.filestore[k]; ok {
		delete(c.removed, k)
		return
	}
	o.X, o.Y, o.Level = p.X, p.Y, p.Level
	c.added[k] = o
}

// RemoveObject despawns o at p. With markRemoved the object stays tracked
// as removed until its marker is deleted.
func (c *Chunk) RemoveObject(o LandscapeObject, p coord.Position, markRemoved bool) {
	k := keyFor(o, p)
	delete(c.added, k)
	if markRemoved {
		c.removed[k] = o
	}
}

func (c *Chunk) DeleteAddedMarker(o LandscapeObject, p coord.Position) {
	delete(c.added, keyFor(o, p))
}

func (c *Chunk) DeleteRemovedMarker(o LandscapeObject, p coord.Position) {
	delete(c.removed, keyFor(o, p))
}

func (c *Chunk) HasAddedMarker(o LandscapeObject, p coord.Position) bool {
	_, ok := c.added[keyFor(o, p)]
	return ok
}

func (c *Chunk) HasRemovedMarker(o LandscapeObject, p coord.Position) bool {
	_, ok := c.removed[keyFor(o, p)]
	return ok
}

// FilestoreObject looks up a static object by tile and id.
func (c *Chunk) FilestoreObject(x, y, objectID int) (LandscapeObject, bool) {
	o, ok := c.filestore[ObjectKey{X: x, Y: y, ObjectID: objectID}]
	return o, ok
}

// ObjectsAt returns the objects currently present on tile (x, y): static
// objects not marked removed plus added ones.
func (c *Chunk) ObjectsAt(x, y int) []LandscapeObject {
	var out []LandscapeObject
	for k, o := range c.filestore {
		if k.X != x || k.Y != y {
			continue
		}
		if _, gone := c.removed[k]; gone {
			continue
		}
		out = append(out, o)
	}
	for k, o := range c.added {
		if k.X == x && k.Y == y {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ObjectID < out[j].ObjectID })
	return out
}

// AddedObjects and RemovedObjects return the marker sets, used to bring a
// newly arrived observer up to date.
func (c *Chunk) AddedObjects() []LandscapeObject {
	return sortedObjects(c.added)
}

func (c *Chunk) RemovedObjects() []LandscapeObject {
	return sortedObjects(c.removed)
}

func (c *Chunk) FilestoreCount() int { return len(c.filestore) }

func sortedObjects(m map[ObjectKey]LandscapeObject) []LandscapeObject {
	out := slices.Collect(maps.Values(m))
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.ObjectID < b.ObjectID
	})
	return out
}

func (c *Chunk) AddWorldItem(w *WorldItem) {
	c.items = append(c.items, w)
}

// RemoveWorldItem drops w from the chunk's active list. It reports whether
// w was present.
func (c *Chunk) RemoveWorldItem(w *WorldItem) bool {
	for i, it := range c.items {
		if it == w {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// WorldItems returns the chunk's active ground items in spawn order.
func (c *Chunk) WorldItems() []*WorldItem {
	return slices.Clone(c.items)
}
