package scripting

import (
	"strings"

	"github.com/l1jgo/worldcore/internal/dialogue"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

var dialogueTypes = map[string]dialogue.Type{
	"player":  dialogue.TypePlayer,
	"npc":     dialogue.TypeNpc,
	"options": dialogue.TypeOptions,
	"text":    dialogue.TypeText,
}

// dialogue{player=, type=, npc=, emote=, title=, lines={...}, handler=}
// handler(choice, closed) runs once the player answers or walks away.
func (e *Engine) luaDialogue(L *lua.LState) int {
	t := L.CheckTable(1)
	p, ok := e.world.PlayerBySlot(lInt(t, "player"))
	if !ok {
		L.RaiseError("no player in slot %d", lInt(t, "player"))
		return 0
	}
	typ, ok := dialogueTypes[strings.ToLower(lStr(t, "type"))]
	if !ok {
		L.RaiseError("unknown dialogue type %q", lStr(t, "type"))
		return 0
	}

	o := dialogue.Options{
		Type:  typ,
		Emote: dialogue.EmoteDefault,
		Title: lStr(t, "title"),
		Lines: lStrs(t, "lines"),
	}
	if emote := lInt(t, "emote"); emote != 0 {
		o.Emote = dialogue.Emote(emote)
	}
	if typ == dialogue.TypeNpc {
		if n, ok := e.world.NpcBySlot(lInt(t, "npc")); ok {
			o.Npc = n
		}
	}

	var next dialogue.Continuation
	if fn, ok := t.RawGetString("handler").(*lua.LFunction); ok {
		next = func(choice int, err error) {
			closed := lua.LBool(err != nil)
			if cerr := e.vm.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, lua.LNumber(choice), closed); cerr != nil {
				e.log.Warn("lua dialogue callback error", zap.String("player", p.Username), zap.Error(cerr))
			}
		}
	}

	if err := dialogue.New(e.world, p).Show(o, next); err != nil {
		L.RaiseError("dialogue: %s", err.Error())
	}
	return 0
}

// close_dialogue(player_slot)
func (e *Engine) luaCloseDialogue(L *lua.LState) int {
	dialogue.New(e.world, e.player(L, 1)).Close()
	return 0
}
