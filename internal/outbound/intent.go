package outbound

import (
	"fmt"

	"github.com/l1jgo/worldcore/internal/chunk"
	"github.com/l1jgo/worldcore/internal/coord"
)

// Kind is the type of state change an observer must be told about.
type Kind int

const (
	SpawnWorldItem Kind = iota
	RemoveWorldItem
	SetLandscapeObject
	RemoveLandscapeObject
	EntityAppeared
	EntityMoved
	EntityDespawned
	Message
	OpenWidget
	CloseWidgets
	kindCount
)

var kindNames = [...]string{
	SpawnWorldItem:        "spawn_world_item",
	RemoveWorldItem:       "remove_world_item",
	SetLandscapeObject:    "set_landscape_object",
	RemoveLandscapeObject: "remove_landscape_object",
	EntityAppeared:        "entity_appeared",
	EntityMoved:           "entity_moved",
	EntityDespawned:       "entity_despawned",
	Message:               "message",
	OpenWidget:            "open_widget",
	CloseWidgets:          "close_widgets",
}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// EntityKind distinguishes players and npcs in entity intents.
type EntityKind string

const (
	EntityPlayer EntityKind = "player"
	EntityNpc    EntityKind = "npc"
)

// Intent is one outbound state change. Only the fields relevant to Kind
// are set.
type Intent struct {
	Kind     Kind           `json:"kind"`
	Position coord.Position `json:"position"`

	// world items
	WorldItemID string `json:"worldItemId,omitempty"`
	ItemID      int    `json:"itemId,omitempty"`
	Amount      int    `json:"amount,omitempty"`

	// landscape objects
	Object *chunk.LandscapeObject `json:"object,omitempty"`

	// entities
	Entity EntityKind      `json:"entity,omitempty"`
	Slot   int             `json:"slot,omitempty"`
	TypeID int             `json:"typeId,omitempty"`
	Name   string          `json:"name,omitempty"`
	Face   coord.Direction `json:"face,omitempty"`

	// interface
	Text     string   `json:"text,omitempty"`
	WidgetID int      `json:"widgetId,omitempty"`
	Lines    []string `json:"lines,omitempty"`
}

func WorldItemSpawned(id string, itemID, amount int, pos coord.Position) Intent {
	return Intent{Kind: SpawnWorldItem, WorldItemID: id, ItemID: itemID, Amount: amount, Position: pos}
}

func WorldItemRemoved(id string, itemID int, pos coord.Position) Intent {
	return Intent{Kind: RemoveWorldItem, WorldItemID: id, ItemID: itemID, Position: pos}
}

func ObjectSet(o chunk.LandscapeObject, pos coord.Position) Intent {
	return Intent{Kind: SetLandscapeObject, Object: &o, Position: pos}
}

func ObjectRemoved(o chunk.LandscapeObject, pos coord.Position) Intent {
	return Intent{Kind: RemoveLandscapeObject, Object: &o, Position: pos}
}

func Text(msg string) Intent {
	return Intent{Kind: Message, Text: msg}
}
