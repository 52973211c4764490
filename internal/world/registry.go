package world

import (
	"fmt"

	"github.com/l1jgo/worldcore/internal/entity"
	"go.uber.org/zap"
)

// RegisterPlayer gives p the lowest free player slot and places it in the
// chunk grid and proximity index. A full world returns arena.ErrFull.
func (w *World) RegisterPlayer(p *entity.Player) error {
	slot, err := w.players.Register(p)
	if err != nil {
		w.log.Warn("world full", zap.String("username", p.Username))
		return fmt.Errorf("register player %s: %w", p.Username, err)
	}
	p.SetSlot(slot)

	pos := p.Position()
	w.Chunks.EnsureRegionsAround(pos)
	w.Chunks.ChunkForWorldPosition(pos).AddPlayer(p)
	w.playerIdx.Insert(p, pos)
	p.Flags.MapRegionUpdateRequired = true
	return nil
}

// DeregisterPlayer frees p's slot immediately. The slot number stays on the
// entity so observers can still address its despawn.
func (w *World) DeregisterPlayer(p *entity.Player) bool {
	if !w.players.Release(p.Slot(), p) {
		return false
	}
	p.Pipeline().Cancel()
	p.ClearWalk()
	w.Chunks.ChunkForWorldPosition(p.Position()).RemovePlayer(p)
	w.playerIdx.Remove(p)
	p.ForgetAll()
	return true
}

// PlayerExists compares the occupant of p's slot with p itself.
func (w *World) PlayerExists(p *entity.Player) bool {
	return w.players.Exists(p.Slot(), p)
}

func (w *World) PlayerBySlot(slot int) (*entity.Player, bool) {
	return w.players.Get(slot)
}

// Players returns live players in slot order.
func (w *World) Players() []*entity.Player { return w.players.Values() }

func (w *World) PlayerCount() int { return w.players.Len() }

// PlayerByName does a linear scan; usernames are case sensitive.
func (w *World) PlayerByName(name string) (*entity.Player, bool) {
	var found *entity.Player
	w.players.Each(func(_ int, p *entity.Player) bool {
		if p.Username == name {
			found = p
			return false
		}
		return true
	})
	return found, found != nil
}

func (w *World) RegisterNpc(n *entity.Npc) error {
	slot, err := w.npcs.Register(n)
	if err != nil {
		w.log.Warn("npc list full", zap.Int("npc_id", n.ID))
		return fmt.Errorf("register npc %d: %w", n.ID, err)
	}
	n.SetSlot(slot)

	pos := n.Position()
	w.Chunks.ChunkForWorldPosition(pos).AddNpc(n)
	w.npcIdx.Insert(n, pos)
	return nil
}

func (w *World) DeregisterNpc(n *entity.Npc) bool {
	if !w.npcs.Release(n.Slot(), n) {
		return false
	}
	n.Pipeline().Cancel()
	n.ClearWalk()
	w.Chunks.ChunkForWorldPosition(n.Position()).RemoveNpc(n)
	w.npcIdx.Remove(n)
	return true
}

func (w *World) NpcExists(n *entity.Npc) bool {
	return w.npcs.Exists(n.Slot(), n)
}

func (w *World) NpcBySlot(slot int) (*entity.Npc, bool) {
	return w.npcs.Get(slot)
}

func (w *World) Npcs() []*entity.Npc { return w.npcs.Values() }

func (w *World) NpcCount() int { return w.npcs.Len() }

// ActivePlayers is the scheduler's liveness probe.
func (w *World) ActivePlayers() int { return w.players.Len() }
