package world

import (
	"sort"
	"time"

	"github.com/l1jgo/worldcore/internal/coord"
	coresys "github.com/l1jgo/worldcore/internal/core/system"
	"github.com/l1jgo/worldcore/internal/entity"
	"github.com/l1jgo/worldcore/internal/outbound"
	"go.uber.org/zap"
)

// Systems returns the world's tick stages for registration with a Runner.
func (w *World) Systems() []coresys.System {
	return []coresys.System{
		&TimerSystem{world: w},
		&AdvanceSystem{world: w},
		&SyncSystem{world: w},
		&ResetSystem{world: w},
	}
}

// guard runs fn, logging instead of propagating a panic.
func (w *World) guard(what string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("recovered panic",
				zap.String("in", what),
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
		}
	}()
	fn()
}

// TimerSystem runs due tick-scheduled tasks and drains callbacks posted by
// wall-clock timers.
type TimerSystem struct {
	world *World
}

func (s *TimerSystem) Phase() coresys.Phase { return coresys.PhaseTimers }

func (s *TimerSystem) Update(_ time.Duration) { s.world.runTimers() }

// AdvanceSystem steps every live mob once, players first, each in slot
// order. A fault in one mob is contained to that mob.
type AdvanceSystem struct {
	world *World
}

func (s *AdvanceSystem) Phase() coresys.Phase { return coresys.PhaseAdvance }

func (s *AdvanceSystem) Update(_ time.Duration) {
	w := s.world
	for _, p := range w.players.Values() {
		w.guardMob("player", p.Slot(), func() {
			if p.Fake {
				w.wanderFake(p)
			}
			w.stepMob(&p.Mob, func(to coord.Position) { w.movePlayer(p, to) })
			p.Pipeline().Advance()
		})
	}
	for _, n := range w.npcs.Values() {
		w.guardMob("npc", n.Slot(), func() {
			w.wander(n)
			w.stepMob(&n.Mob, func(to coord.Position) { w.moveNpc(n, to) })
			n.Pipeline().Advance()
		})
	}
}

func (w *World) guardMob(kind string, slot int, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("mob tick panic",
				zap.String("kind", kind),
				zap.Int("slot", slot),
				zap.Any("panic", r),
			)
		}
	}()
	fn()
}

// SyncSystem diffs every player's view of nearby mobs, brings players that
// changed region up to date with chunk contents, then flushes the outbound
// queue to the sink.
type SyncSystem struct {
	world *World
}

func (s *SyncSystem) Phase() coresys.Phase { return coresys.PhaseSync }

func (s *SyncSystem) Update(_ time.Duration) {
	w := s.world
	for _, p := range w.players.Values() {
		w.guardMob("sync", p.Slot(), func() {
			if p.Flags.MapRegionUpdateRequired {
				w.sendChunkState(p)
			}
			w.syncPlayers(p)
			w.syncNpcs(p)
		})
	}
	w.queue.Flush(w.sink)
}

// sendChunkState replays object markers and visible ground items of the
// 5x5 chunk block around p.
func (w *World) sendChunkState(p *entity.Player) {
	centre := w.Chunks.ChunkForWorldPosition(p.Position())
	for _, c := range w.Chunks.SurroundingChunks(centre) {
		for _, o := range c.RemovedObjects() {
			w.queue.Push(p, outbound.ObjectRemoved(o, o.Position()))
		}
		for _, o := range c.AddedObjects() {
			w.queue.Push(p, outbound.ObjectSet(o, o.Position()))
		}
		for _, wi := range c.WorldItems() {
			if wi.VisibleTo(p) {
				w.queue.Push(p, outbound.WorldItemSpawned(wi.ID.String(), wi.ItemID, wi.Amount, wi.Position))
			}
		}
	}
}

// syncPlayers diffs what p sees against what p was last told. Despawns go
// out first so a slot vacated and refilled in one tick reaches the client
// as despawn then appear.
func (w *World) syncPlayers(p *entity.Player) {
	pos := p.Position()
	var visible []*entity.Player
	seen := make(map[*entity.Player]struct{})
	for _, o := range w.playerIdx.Query(pos, w.opts.ViewDistance) {
		if o == p || o.Position().Level != pos.Level {
			continue
		}
		visible = append(visible, o)
		seen[o] = struct{}{}
	}

	var gone []*entity.Player
	for o := range p.KnownPlayers {
		if _, ok := seen[o]; !ok {
			gone = append(gone, o)
		}
	}
	sort.Slice(gone, func(i, j int) bool { return gone[i].Slot() < gone[j].Slot() })
	for _, o := range gone {
		w.queue.Push(p, outbound.Intent{
			Kind: outbound.EntityDespawned, Entity: outbound.EntityPlayer,
			Slot: o.Slot(), Position: p.KnownPlayers[o],
		})
		delete(p.KnownPlayers, o)
	}

	for _, o := range visible {
		op := o.Position()
		last, known := p.KnownPlayers[o]
		switch {
		case !known:
			w.queue.Push(p, outbound.Intent{
				Kind: outbound.EntityAppeared, Entity: outbound.EntityPlayer,
				Slot: o.Slot(), Name: o.Username, Position: op, Face: o.Flags.Face,
			})
		case last != op:
			w.queue.Push(p, outbound.Intent{
				Kind: outbound.EntityMoved, Entity: outbound.EntityPlayer,
				Slot: o.Slot(), Position: op, Face: o.Flags.Face,
			})
		}
		p.KnownPlayers[o] = op
	}
}

func (w *World) syncNpcs(p *entity.Player) {
	pos := p.Position()
	var visible []*entity.Npc
	seen := make(map[*entity.Npc]struct{})
	for _, n := range w.npcIdx.Query(pos, w.opts.ViewDistance) {
		if n.Position().Level != pos.Level {
			continue
		}
		visible = append(visible, n)
		seen[n] = struct{}{}
	}

	var gone []*entity.Npc
	for n := range p.KnownNpcs {
		if _, ok := seen[n]; !ok {
			gone = append(gone, n)
		}
	}
	sort.Slice(gone, func(i, j int) bool { return gone[i].Slot() < gone[j].Slot() })
	for _, n := range gone {
		w.queue.Push(p, outbound.Intent{
			Kind: outbound.EntityDespawned, Entity: outbound.EntityNpc,
			Slot: n.Slot(), TypeID: n.ID, Position: p.KnownNpcs[n],
		})
		delete(p.KnownNpcs, n)
	}

	for _, n := range visible {
		np := n.Position()
		last, known := p.KnownNpcs[n]
		switch {
		case !known:
			face := n.Flags.Face
			if face == coord.DirNone {
				face = n.Face
			}
			w.queue.Push(p, outbound.Intent{
				Kind: outbound.EntityAppeared, Entity: outbound.EntityNpc,
				Slot: n.Slot(), TypeID: n.ID, Name: n.Name, Position: np, Face: face,
			})
		case last != np:
			w.queue.Push(p, outbound.Intent{
				Kind: outbound.EntityMoved, Entity: outbound.EntityNpc,
				Slot: n.Slot(), Position: np, Face: n.Flags.Face,
			})
		}
		p.KnownNpcs[n] = np
	}
}

// ResetSystem clears per-tick update flags on every mob.
type ResetSystem struct {
	world *World
}

func (s *ResetSystem) Phase() coresys.Phase { return coresys.PhaseReset }

func (s *ResetSystem) Update(_ time.Duration) {
	for _, p := range s.world.players.Values() {
		p.Flags.Reset()
	}
	for _, n := range s.world.npcs.Values() {
		n.Flags.Reset()
	}
}
