// Package inbound decodes in-world client packets into action events.
package inbound

import (
	"strings"

	"github.com/l1jgo/worldcore/internal/action"
	"github.com/l1jgo/worldcore/internal/coord"
	"github.com/l1jgo/worldcore/internal/entity"
	"github.com/l1jgo/worldcore/internal/net/packet"
	"github.com/l1jgo/worldcore/internal/world"
	"go.uber.org/zap"
)

// Client opcodes.
const (
	OpDropItem     byte = 29
	OpCommand      byte = 103
	OpItemOnPlayer byte = 110
	OpWalk         byte = 164
	OpButton       byte = 185
)

// Inventory widget and container ids.
const (
	InventoryWidgetID    = 149
	InventoryContainerID = 0
)

// MaxItemOnPlayerDistance is how far away the target of an item may stand.
const MaxItemOnPlayerDistance = 16

// MaxWalkSteps caps the path built for one walk request.
const MaxWalkSteps = 25

type decoders struct {
	w   *world.World
	log *zap.Logger
}

// Register installs every in-world decoder on reg.
func Register(reg *packet.Registry, w *world.World, log *zap.Logger) {
	d := &decoders{w: w, log: log}
	reg.Register(packet.Decoder{Opcode: OpDropItem, Name: "drop_item", Size: 8, Handle: d.dropItem})
	reg.Register(packet.Decoder{Opcode: OpItemOnPlayer, Name: "item_on_player", Size: 10, Handle: d.itemOnPlayer})
	reg.Register(packet.Decoder{Opcode: OpCommand, Name: "command", Size: packet.VariableSize, Handle: d.command})
	reg.Register(packet.Decoder{Opcode: OpButton, Name: "button", Size: 4, Handle: d.button})
	reg.Register(packet.Decoder{Opcode: OpWalk, Name: "walk", Size: 5, Handle: d.walk})
}

func (d *decoders) dropItem(p *entity.Player, r *packet.Reader) error {
	widgetID := r.Get(packet.Short, packet.Unsigned, packet.LittleEndian)
	containerID := r.Get(packet.Short, packet.Unsigned, packet.LittleEndian)
	slot := r.Get(packet.Short, packet.Unsigned, packet.BigEndian)
	itemID := r.Get(packet.Short, packet.Unsigned, packet.LittleEndian)
	if r.Err() != nil {
		return nil
	}

	d.w.Dispatch(&action.Event{
		Kind:        action.KindItemInteraction,
		Actor:       p,
		ID:          itemID,
		Slot:        slot,
		WidgetID:    widgetID,
		ContainerID: containerID,
		Option:      "drop",
		Position:    p.Position(),
	})
	return nil
}

func (d *decoders) itemOnPlayer(p *entity.Player, r *packet.Reader) error {
	playerIndex := r.Get(packet.Short, packet.Unsigned, packet.LittleEndian) - 1
	widgetID := r.Get(packet.Short, packet.Signed, packet.LittleEndian)
	containerID := r.Get(packet.Short, packet.Signed, packet.BigEndian)
	itemID := r.Get(packet.Short, packet.Unsigned, packet.BigEndian)
	slot := r.Get(packet.Short, packet.Unsigned, packet.BigEndian)
	if r.Err() != nil {
		return nil
	}

	var used *entity.Item
	if widgetID == InventoryWidgetID && containerID == InventoryContainerID {
		if slot < 0 || slot >= entity.InventorySize {
			return nil
		}
		used = p.Inventory.Get(slot)
		if used == nil || used.ItemID != itemID {
			return nil
		}
	} else {
		d.log.Warn("unhandled item on player widget",
			zap.Int("widget", widgetID),
			zap.Int("container", containerID),
		)
	}

	other, ok := d.w.PlayerBySlot(playerIndex)
	if !ok {
		return nil
	}
	target := other.Position()
	if target.Distance(p.Position()) > MaxItemOnPlayerDistance {
		return nil
	}

	d.w.Dispatch(&action.Event{
		Kind:        action.KindItemOnPlayer,
		Actor:       p,
		ID:          itemID,
		Slot:        slot,
		WidgetID:    widgetID,
		ContainerID: containerID,
		Target:      other,
		Position:    target,
		Payload:     used,
	})
	return nil
}

// command handles "::name arg..." chat input. The leading colons are
// optional.
func (d *decoders) command(p *entity.Player, r *packet.Reader) error {
	line := r.String()
	if r.Err() != nil {
		return nil
	}
	fields := strings.Fields(strings.TrimPrefix(strings.TrimSpace(line), "::"))
	if len(fields) == 0 {
		return nil
	}
	name := strings.ToLower(fields[0])
	args := fields[1:]

	handled := d.w.Dispatch(&action.Event{
		Kind:     action.KindCommand,
		Actor:    p,
		Command:  name,
		Args:     args,
		Position: p.Position(),
	})
	if !handled {
		d.log.Info("unhandled command",
			zap.String("player", p.Username),
			zap.String("command", name),
			zap.Strings("args", args),
		)
	}
	return nil
}

// button feeds a pending dialogue first; otherwise it is a button event.
func (d *decoders) button(p *entity.Player, r *packet.Reader) error {
	widgetID := r.Short()
	buttonID := r.Short()
	if r.Err() != nil {
		return nil
	}
	if p.HasWidget() && p.ActiveWidget == widgetID && p.Pipeline().ProvideInput(buttonID) {
		return nil
	}
	d.w.Dispatch(&action.Event{
		Kind:     action.KindButton,
		Actor:    p,
		ID:       buttonID,
		WidgetID: widgetID,
		Position: p.Position(),
	})
	return nil
}

func (d *decoders) walk(p *entity.Player, r *packet.Reader) error {
	x := r.Short()
	y := r.Short()
	run := r.Byte() == 1
	if r.Err() != nil {
		return nil
	}
	p.Running = run || p.Settings.RunEnabled
	from := p.Position()
	d.w.QueueWalk(p, StraightPath(from, coord.New(x, y, from.Level), MaxWalkSteps))
	return nil
}

// StraightPath steps diagonally then straight from one tile towards
// another, excluding from and stopping after max steps.
func StraightPath(from, to coord.Position, max int) []coord.Position {
	var path []coord.Position
	cur := from
	for len(path) < max && (cur.X != to.X || cur.Y != to.Y) {
		cur = cur.Translate(sign(to.X-cur.X), sign(to.Y-cur.Y))
		path = append(path, cur)
	}
	return path
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
