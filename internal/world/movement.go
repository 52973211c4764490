package world

import (
	"github.com/l1jgo/worldcore/internal/coord"
	"github.com/l1jgo/worldcore/internal/entity"
)

// QueueWalk sets p's walk path. Walking away closes any open interface.
func (w *World) QueueWalk(p *entity.Player, path []coord.Position) {
	w.CloseWidgets(p)
	p.QueueWalk(path)
}

// Teleport moves p directly to pos.
func (w *World) Teleport(p *entity.Player, pos coord.Position) {
	p.ClearWalk()
	w.movePlayer(p, pos)
	p.Flags.Teleported = true
	p.Flags.MapRegionUpdateRequired = true
}

// TeleportNpc moves n directly to pos.
func (w *World) TeleportNpc(n *entity.Npc, pos coord.Position) {
	n.ClearWalk()
	w.moveNpc(n, pos)
	n.Flags.Teleported = true
}

func (w *World) movePlayer(p *entity.Player, to coord.Position) {
	from := p.Position()
	oldChunk := w.Chunks.ChunkForWorldPosition(from)
	p.SetPosition(to)
	newChunk := w.Chunks.ChunkForWorldPosition(to)
	if oldChunk != newChunk {
		oldChunk.RemovePlayer(p)
		newChunk.AddPlayer(p)
	}
	w.playerIdx.Move(p, to)

	if from.RegionX() != to.RegionX() || from.RegionY() != to.RegionY() || from.Level != to.Level {
		w.Chunks.EnsureRegionsAround(to)
		p.Flags.MapRegionUpdateRequired = true
	}
}

func (w *World) moveNpc(n *entity.Npc, to coord.Position) {
	oldChunk := w.Chunks.ChunkForWorldPosition(n.Position())
	n.SetPosition(to)
	newChunk := w.Chunks.ChunkForWorldPosition(to)
	if oldChunk != newChunk {
		oldChunk.RemoveNpc(n)
		newChunk.AddNpc(n)
	}
	w.npcIdx.Move(n, to)
}

// stepMob consumes up to StepsPerTick queued tiles. A step that is not
// adjacent or is blocked discards the rest of the path.
func (w *World) stepMob(m *entity.Mob, move func(coord.Position)) {
	for i := 0; i < m.StepsPerTick(); i++ {
		next, ok := m.NextStep()
		if !ok {
			return
		}
		cur := m.Position()
		dir := coord.DirectionBetween(cur, next)
		if dir == coord.DirNone || next.Level != cur.Level || w.Chunks.IsBlocked(next) {
			m.ClearWalk()
			return
		}
		move(next)
		m.Flags.Moved = true
		m.Flags.Face = dir
	}
}

// wander queues a single random step inside the npc's walk radius.
func (w *World) wander(n *entity.Npc) {
	if n.WalkRadius <= 0 || n.Walking() || n.Pipeline().Busy() {
		return
	}
	if w.rng.Intn(10) != 0 {
		return
	}
	next := n.Position().Step(coord.Direction(w.rng.Intn(8)))
	if !n.InWalkArea(next) || w.Chunks.IsBlocked(next) {
		return
	}
	n.QueueWalk([]coord.Position{next})
}

// wanderFake gives generated players the same aimless movement.
func (w *World) wanderFake(p *entity.Player) {
	if p.Walking() || p.Pipeline().Busy() || w.rng.Intn(10) != 0 {
		return
	}
	next := p.Position().Step(coord.Direction(w.rng.Intn(8)))
	if w.Chunks.IsBlocked(next) {
		return
	}
	p.QueueWalk([]coord.Position{next})
}
