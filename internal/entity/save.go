package entity

import (
	"maps"

	"github.com/l1jgo/worldcore/internal/coord"
)

type Appearance struct {
	Gender     int `json:"gender"`
	Head       int `json:"head"`
	Torso      int `json:"torso"`
	Arms       int `json:"arms"`
	Legs       int `json:"legs"`
	Hands      int `json:"hands"`
	Feet       int `json:"feet"`
	FacialHair int `json:"facialHair"`
	HairColor  int `json:"hairColor"`
	TorsoColor int `json:"torsoColor"`
	LegColor   int `json:"legColor"`
	FeetColor  int `json:"feetColor"`
	SkinColor  int `json:"skinColor"`
}

func DefaultAppearance() Appearance {
	return Appearance{
		Torso:      10,
		Arms:       26,
		Legs:       36,
		Hands:      33,
		Feet:       42,
		FacialHair: 18,
	}
}

type Settings struct {
	MusicVolume             int  `json:"musicVolume"`
	SoundEffectVolume       int  `json:"soundEffectVolume"`
	SplitPrivateChatEnabled bool `json:"splitPrivateChatEnabled"`
	TwoMouseButtonsEnabled  bool `json:"twoMouseButtonsEnabled"`
	ScreenBrightness        int  `json:"screenBrightness"`
	ChatEffectsEnabled      bool `json:"chatEffectsEnabled"`
	AcceptAidEnabled        bool `json:"acceptAidEnabled"`
	RunEnabled              bool `json:"runEnabled"`
	AutoRetaliateEnabled    bool `json:"autoRetaliateEnabled"`
}

func DefaultSettings() Settings {
	return Settings{
		ScreenBrightness:     2,
		ChatEffectsEnabled:   true,
		AcceptAidEnabled:     true,
		AutoRetaliateEnabled: true,
	}
}

type SavedPosition struct {
	X     int `json:"x"`
	Y     int `json:"y"`
	Level int `json:"level"`
}

// PlayerSave is the persisted form of a player. The in-memory world never
// performs I/O itself; the persistence layer reads and writes this value.
type PlayerSave struct {
	Username   string         `json:"username"`
	Position   SavedPosition  `json:"position"`
	Appearance Appearance     `json:"appearance"`
	Inventory  []*Item        `json:"inventory"`
	Equipment  []*Item        `json:"equipment"`
	Settings   Settings       `json:"settings"`
	Quests     map[string]int `json:"quests,omitempty"`
}

// Snapshot copies the player's persistent state.
func (p *Player) Snapshot() PlayerSave {
	pos := p.Position()
	return PlayerSave{
		Username:   p.Username,
		Position:   SavedPosition{X: pos.X, Y: pos.Y, Level: pos.Level},
		Appearance: p.Appearance,
		Inventory:  p.Inventory.snapshot(),
		Equipment:  p.Equipment.snapshot(),
		Settings:   p.Settings,
		Quests:     maps.Clone(p.Quests),
	}
}

// ApplySnapshot restores persistent state onto a freshly created player.
// It does not touch chunk membership; callers register the player afterwards.
func (p *Player) ApplySnapshot(s PlayerSave) {
	pos := coord.New(s.Position.X, s.Position.Y, s.Position.Level)
	p.pos = pos
	p.lastPos = pos
	p.Appearance = s.Appearance
	p.Settings = s.Settings
	p.Running = s.Settings.RunEnabled
	p.Inventory.load(s.Inventory)
	p.Equipment.load(s.Equipment)
	p.Quests = make(map[string]int, len(s.Quests))
	maps.Copy(p.Quests, s.Quests)
}
