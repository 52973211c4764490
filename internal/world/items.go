package world

import (
	"github.com/l1jgo/worldcore/internal/chunk"
	"github.com/l1jgo/worldcore/internal/coord"
	"github.com/l1jgo/worldcore/internal/entity"
	"github.com/l1jgo/worldcore/internal/outbound"
	"go.uber.org/zap"
)

// SpawnWorldItem drops item at pos. With a viewer the item is shown only to
// that player until PrivateItemTicks pass; with expires > 0 it is removed
// automatically after that many ticks.
func (w *World) SpawnWorldItem(item entity.Item, pos coord.Position, viewer *entity.Player, expires int) *chunk.WorldItem {
	c := w.Chunks.ChunkForWorldPosition(pos)
	wi := chunk.NewWorldItem(item.ItemID, item.Amount, pos, viewer, expires)
	c.AddWorldItem(wi)

	spawn := outbound.WorldItemSpawned(wi.ID.String(), wi.ItemID, wi.Amount, pos)
	if viewer != nil {
		w.queue.Push(viewer, spawn)
		w.After(w.opts.PrivateItemTicks, func() {
			if wi.Removed() {
				return
			}
			w.notifyAround(c, spawn, func(p *entity.Player) bool { return p == viewer })
			wi.Viewer = nil
		})
	} else {
		w.notifyAround(c, spawn, nil)
	}

	if expires > 0 {
		w.After(expires, func() {
			if wi.Removed() {
				return
			}
			w.RemoveWorldItem(wi)
		})
	}

	w.log.Debug("world item spawned",
		zap.Int("item_id", wi.ItemID),
		zap.Int("amount", wi.Amount),
		zap.Stringer("position", pos),
		zap.Bool("private", viewer != nil),
	)
	return wi
}

// RemoveWorldItem takes wi off the ground. Only the first call has any
// effect; it reports whether this call removed the item.
func (w *World) RemoveWorldItem(wi *chunk.WorldItem) bool {
	viewer := wi.Viewer
	if !wi.MarkRemoved() {
		return false
	}
	c := w.Chunks.ChunkForWorldPosition(wi.Position)
	c.RemoveWorldItem(wi)

	gone := outbound.WorldItemRemoved(wi.ID.String(), wi.ItemID, wi.Position)
	if viewer != nil {
		w.queue.Push(viewer, gone)
		return true
	}
	w.notifyAround(c, gone, nil)
	return true
}

// WorldItemsAt lists the items on tile pos visible to p.
func (w *World) WorldItemsAt(pos coord.Position, p *entity.Player) []*chunk.WorldItem {
	var out []*chunk.WorldItem
	for _, wi := range w.Chunks.ChunkForWorldPosition(pos).WorldItems() {
		if wi.Position == pos && wi.VisibleTo(p) {
			out = append(out, wi)
		}
	}
	return out
}
