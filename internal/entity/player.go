package entity

import (
	"github.com/l1jgo/worldcore/internal/coord"
)

// NoWidget is the ActiveWidget value when no interface is open.
const NoWidget = -1

// Player is a connected (or simulated) player.
// Accessed only from the tick goroutine.
type Player struct {
	Mob

	Username   string
	Fake       bool // generated load-test player, never persisted
	Inventory  *Container
	Equipment  *Container
	Appearance Appearance
	Settings   Settings
	Quests     map[string]int // quest id -> stage

	ActiveWidget int

	// Observer state used by the sync phase to diff visibility.
	KnownPlayers map[*Player]coord.Position
	KnownNpcs    map[*Npc]coord.Position
}

func NewPlayer(username string, pos coord.Position) *Player {
	return &Player{
		Mob:          newMob(pos),
		Username:     username,
		Inventory:    NewContainer(InventorySize),
		Equipment:    NewContainer(EquipmentSize),
		Appearance:   DefaultAppearance(),
		Settings:     DefaultSettings(),
		Quests:       make(map[string]int),
		ActiveWidget: NoWidget,
		KnownPlayers: make(map[*Player]coord.Position),
		KnownNpcs:    make(map[*Npc]coord.Position),
	}
}

func (p *Player) QuestStage(questID string) int {
	return p.Quests[questID]
}

func (p *Player) SetQuestStage(questID string, stage int) {
	p.Quests[questID] = stage
}

func (p *Player) HasWidget() bool { return p.ActiveWidget != NoWidget }

// ForgetAll clears the observer state so the next sync re-announces everything.
func (p *Player) ForgetAll() {
	clear(p.KnownPlayers)
	clear(p.KnownNpcs)
}

func (p *Player) String() string { return p.Username }
