package world

import (
	"github.com/l1jgo/worldcore/internal/coord"
	"github.com/l1jgo/worldcore/internal/entity"
)

// FindNearbyPlayers returns players inside the square of side distance
// centred on pos. Levels are not compared.
func (w *World) FindNearbyPlayers(pos coord.Position, distance int) []*entity.Player {
	return w.playerIdx.Query(pos, distance)
}

func (w *World) FindNearbyNpcs(pos coord.Position, distance int) []*entity.Npc {
	return w.npcIdx.Query(pos, distance)
}

// FindNearbyNpcsByID is FindNearbyNpcs restricted to one npc definition.
func (w *World) FindNearbyNpcsByID(pos coord.Position, npcID, distance int) []*entity.Npc {
	var out []*entity.Npc
	for _, n := range w.npcIdx.Query(pos, distance) {
		if n.ID == npcID {
			out = append(out, n)
		}
	}
	return out
}
