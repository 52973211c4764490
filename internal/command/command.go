// Package command implements the built-in "::" chat commands as
// KindCommand hooks.
package command

import (
	"fmt"
	"strconv"

	"github.com/l1jgo/worldcore/internal/action"
	"github.com/l1jgo/worldcore/internal/coord"
	"github.com/l1jgo/worldcore/internal/data"
	"github.com/l1jgo/worldcore/internal/entity"
	"github.com/l1jgo/worldcore/internal/world"
)

// usageError carries the usage string shown after bad syntax.
type usageError string

func (u usageError) Error() string { return "usage: " + string(u) }

type handlerFunc func(p *entity.Player, args []string) error

type commands struct {
	w     *world.World
	items *data.ItemTable
}

// Register installs pos, move and give on actions.
func Register(actions *action.Registry, w *world.World, items *data.ItemTable) error {
	c := &commands{w: w, items: items}
	table := map[string]handlerFunc{
		"pos":  c.pos,
		"move": c.move,
		"give": c.give,
	}
	for _, name := range []string{"pos", "move", "give"} {
		if err := actions.Register(action.KindCommand, action.Hook{
			Name:     "command_" + name,
			Commands: []string{name},
			Handler:  c.wrap(table[name]),
		}); err != nil {
			return err
		}
	}
	return nil
}

func (c *commands) wrap(fn handlerFunc) func(*action.Event) error {
	return func(ev *action.Event) error {
		p, ok := ev.Actor.(*entity.Player)
		if !ok {
			return fmt.Errorf("%w: command from non-player", action.ErrStateViolation)
		}
		err := fn(p, ev.Args)
		if u, ok := err.(usageError); ok {
			c.w.SendMessage(p, "Invalid command syntax, try ::"+string(u))
			return nil
		}
		return err
	}
}

func (c *commands) pos(p *entity.Player, _ []string) error {
	pos := p.Position()
	c.w.SendMessage(p, fmt.Sprintf("@[ %d, %d, %d ]", pos.X, pos.Y, pos.Level))
	return nil
}

func (c *commands) move(p *entity.Player, args []string) error {
	const usage = usageError("move x y [level]")
	if len(args) < 2 || len(args) > 3 {
		return usage
	}
	x, errX := strconv.Atoi(args[0])
	y, errY := strconv.Atoi(args[1])
	if errX != nil || errY != nil {
		return usage
	}
	level := 0
	if len(args) == 3 {
		l, err := strconv.Atoi(args[2])
		if err != nil || l < 0 || l >= coord.Levels {
			return usage
		}
		level = l
	}
	c.w.Teleport(p, coord.New(x, y, level))
	return nil
}

func (c *commands) give(p *entity.Player, args []string) error {
	const usage = usageError("give itemId")
	if len(args) != 1 {
		return usage
	}
	if !p.Inventory.HasSpace() {
		c.w.SendMessage(p, "You don't have enough free space to do that.")
		return nil
	}
	itemID, err := strconv.Atoi(args[0])
	if err != nil {
		return usage
	}
	def, ok := c.items.Get(itemID)
	if !ok {
		c.w.SendMessage(p, fmt.Sprintf("Unknown item %d.", itemID))
		return nil
	}
	p.Inventory.Add(&entity.Item{ItemID: itemID, Amount: 1})
	c.w.SendMessage(p, fmt.Sprintf("Adding 1x %s to inventory.", def.Name))
	return nil
}
