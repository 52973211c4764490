package entity

import "github.com/l1jgo/worldcore/internal/coord"

// Npc is a non-player mob spawned from the spawn table.
type Npc struct {
	Mob

	ID         int    // npc definition id
	Name       string // from the npc table, empty if unknown
	SpawnPos   coord.Position
	WalkRadius int // 0 = stationary
	Face       coord.Direction
}

func NewNpc(id int, name string, spawn coord.Position, radius int, face coord.Direction) *Npc {
	return &Npc{
		Mob:        newMob(spawn),
		ID:         id,
		Name:       name,
		SpawnPos:   spawn,
		WalkRadius: radius,
		Face:       face,
	}
}

// QuestStage is always zero; npcs carry no quest progress.
func (n *Npc) QuestStage(string) int { return 0 }

// InWalkArea reports whether p lies within the npc's wander square.
func (n *Npc) InWalkArea(p coord.Position) bool {
	return p.Level == n.SpawnPos.Level && n.SpawnPos.Chebyshev(p) <= n.WalkRadius
}
