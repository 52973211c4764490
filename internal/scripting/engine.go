package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/l1jgo/worldcore/internal/action"
	"github.com/l1jgo/worldcore/internal/coord"
	"github.com/l1jgo/worldcore/internal/entity"
	"github.com/l1jgo/worldcore/internal/world"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// APIVersion is exposed to scripts as API_VERSION.
const APIVersion = 1

// Engine wraps a single gopher-lua VM that registers content hooks.
// Single-goroutine access only (tick loop).
type Engine struct {
	vm    *lua.LState
	world *world.World
	log   *zap.Logger
	hooks int
}

// NewEngine creates a Lua engine bound to w and loads every script in
// scriptsDir, then the optional sub-directories in order. A missing
// directory is not an error.
func NewEngine(scriptsDir string, w *world.World, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(APIVersion))

	e := &Engine{vm: vm, world: w, log: log}
	e.registerAPI()

	for _, dir := range []string{"", "npcs", "objects", "items", "quests"} {
		p := filepath.Join(scriptsDir, dir)
		if err := e.loadDir(p); err != nil {
			vm.Close()
			return nil, fmt.Errorf("load scripts %s: %w", p, err)
		}
	}
	return e, nil
}

// Hooks returns how many hooks the scripts registered.
func (e *Engine) Hooks() int { return e.hooks }

func (e *Engine) Close() {
	e.vm.Close()
}

// DoString runs a chunk of Lua, used by tests and the console.
func (e *Engine) DoString(src string) error {
	return e.vm.DoString(src)
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

func (e *Engine) registerAPI() {
	e.registerLoopType()
	for name, fn := range map[string]lua.LGFunction{
		"register_hook":   e.luaRegisterHook,
		"spawn_item":      e.luaSpawnItem,
		"wait":            e.luaWait,
		"message":         e.luaMessage,
		"quest_stage":     e.luaQuestStage,
		"set_quest_stage": e.luaSetQuestStage,
		"dialogue":        e.luaDialogue,
		"close_dialogue":  e.luaCloseDialogue,
		"loop":            e.luaLoop,
		"sequence":        e.luaSequence,
		"teleport":        e.luaTeleport,
		"position":        e.luaPosition,

		"objects_at":                e.luaObjectsAt,
		"add_object":                e.luaAddObject,
		"remove_object":             e.luaRemoveObject,
		"replace_object":            e.luaReplaceObject,
		"toggle_objects":            e.luaToggleObjects,
		"add_temporary_object":      e.luaAddTemporaryObject,
		"remove_object_temporarily": e.luaRemoveObjectTemporarily,
		"find_nearby_npcs":          e.luaFindNearbyNpcs,
		"find_nearby_players":       e.luaFindNearbyPlayers,

		"log": e.luaLog,
	} {
		e.vm.SetGlobal(name, e.vm.NewFunction(fn))
	}
}

// register_hook{kind=, handler=, name=, ids=, options=, widgets=,
// commands=, priority=, quest=, stage=}
func (e *Engine) luaRegisterHook(L *lua.LState) int {
	t := L.CheckTable(1)

	kindName := lStr(t, "kind")
	kind, ok := action.ParseKind(kindName)
	if !ok {
		L.RaiseError("unknown hook kind %q", kindName)
		return 0
	}
	fn, ok := t.RawGetString("handler").(*lua.LFunction)
	if !ok {
		L.RaiseError("hook %q has no handler function", kindName)
		return 0
	}

	name := lStr(t, "name")
	if name == "" {
		name = fmt.Sprintf("lua_%s_%d", kindName, e.hooks+1)
	}
	h := action.Hook{
		Name:      name,
		Priority:  lInt(t, "priority"),
		IDs:       lInts(t, "ids"),
		Options:   lStrs(t, "options"),
		WidgetIDs: lInts(t, "widgets"),
		Commands:  lStrs(t, "commands"),
		Handler:   e.handler(name, fn),
	}
	if quest := lStr(t, "quest"); quest != "" {
		h.Quest = &action.QuestGate{QuestID: quest, Stage: lInt(t, "stage")}
	}
	if err := e.world.Actions.Register(kind, h); err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}
	e.hooks++
	return 0
}

// handler adapts a Lua function to an action hook. Lua errors abort the
// action as a state violation.
func (e *Engine) handler(name string, fn *lua.LFunction) func(*action.Event) error {
	return func(ev *action.Event) error {
		if err := e.vm.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, e.eventTable(ev)); err != nil {
			e.log.Warn("lua hook error", zap.String("hook", name), zap.Error(err))
			return fmt.Errorf("%w: lua hook %s: %v", action.ErrStateViolation, name, err)
		}
		return nil
	}
}

func (e *Engine) eventTable(ev *action.Event) *lua.LTable {
	t := e.vm.NewTable()
	t.RawSetString("kind", lua.LString(ev.Kind.String()))
	t.RawSetString("id", lua.LNumber(ev.ID))
	t.RawSetString("secondary_id", lua.LNumber(ev.SecondaryID))
	t.RawSetString("option", lua.LString(ev.Option))
	t.RawSetString("widget_id", lua.LNumber(ev.WidgetID))
	t.RawSetString("container_id", lua.LNumber(ev.ContainerID))
	t.RawSetString("slot", lua.LNumber(ev.Slot))
	t.RawSetString("command", lua.LString(ev.Command))
	t.RawSetString("x", lua.LNumber(ev.Position.X))
	t.RawSetString("y", lua.LNumber(ev.Position.Y))
	t.RawSetString("level", lua.LNumber(ev.Position.Level))

	args := e.vm.NewTable()
	for i, a := range ev.Args {
		args.RawSetInt(i+1, lua.LString(a))
	}
	t.RawSetString("args", args)

	switch a := ev.Actor.(type) {
	case *entity.Player:
		t.RawSetString("player", lua.LNumber(a.Slot()))
		t.RawSetString("username", lua.LString(a.Username))
	case *entity.Npc:
		t.RawSetString("npc", lua.LNumber(a.Slot()))
	}
	switch target := ev.Target.(type) {
	case *entity.Player:
		t.RawSetString("target_player", lua.LNumber(target.Slot()))
	case *entity.Npc:
		t.RawSetString("target_npc", lua.LNumber(target.Slot()))
	}
	return t
}

func (e *Engine) player(L *lua.LState, n int) *entity.Player {
	slot := L.CheckInt(n)
	p, ok := e.world.PlayerBySlot(slot)
	if !ok {
		L.RaiseError("no player in slot %d", slot)
		return nil
	}
	return p
}

// spawn_item(item_id, amount, x, y, level, [expires_ticks], [viewer_slot])
func (e *Engine) luaSpawnItem(L *lua.LState) int {
	item := entity.Item{ItemID: L.CheckInt(1), Amount: L.CheckInt(2)}
	pos := coord.New(L.CheckInt(3), L.CheckInt(4), L.CheckInt(5))
	expires := L.OptInt(6, 0)

	var viewer *entity.Player
	if L.GetTop() >= 7 {
		viewer = e.player(L, 7)
	}
	wi := e.world.SpawnWorldItem(item, pos, viewer, expires)
	L.Push(lua.LString(wi.ID.String()))
	return 1
}

// wait(player_slot, ticks, fn) resumes fn on the player's pipeline.
func (e *Engine) luaWait(L *lua.LState) int {
	p := e.player(L, 1)
	ticks := L.CheckInt(2)
	fn := L.CheckFunction(3)
	p.Pipeline().Wait(ticks, func() {
		if err := e.vm.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}); err != nil {
			e.log.Warn("lua wait callback error", zap.String("player", p.Username), zap.Error(err))
		}
	})
	return 0
}

// message(player_slot, text)
func (e *Engine) luaMessage(L *lua.LState) int {
	p := e.player(L, 1)
	e.world.SendMessage(p, L.CheckString(2))
	return 0
}

// quest_stage(player_slot, quest_id) -> stage
func (e *Engine) luaQuestStage(L *lua.LState) int {
	p := e.player(L, 1)
	L.Push(lua.LNumber(p.QuestStage(L.CheckString(2))))
	return 1
}

// set_quest_stage(player_slot, quest_id, stage)
func (e *Engine) luaSetQuestStage(L *lua.LState) int {
	p := e.player(L, 1)
	p.SetQuestStage(L.CheckString(2), L.CheckInt(3))
	return 0
}

func (e *Engine) luaLog(L *lua.LState) int {
	e.log.Info("lua", zap.String("msg", L.CheckString(1)))
	return 0
}

// lInt reads an integer field from a Lua table.
func lInt(t *lua.LTable, key string) int {
	return int(lua.LVAsNumber(t.RawGetString(key)))
}

// lStr reads a string field from a Lua table.
func lStr(t *lua.LTable, key string) string {
	return lua.LVAsString(t.RawGetString(key))
}

func lInts(t *lua.LTable, key string) []int {
	arr, ok := t.RawGetString(key).(*lua.LTable)
	if !ok {
		return nil
	}
	var out []int
	arr.ForEach(func(_, v lua.LValue) {
		out = append(out, int(lua.LVAsNumber(v)))
	})
	return out
}

func lStrs(t *lua.LTable, key string) []string {
	arr, ok := t.RawGetString(key).(*lua.LTable)
	if !ok {
		return nil
	}
	var out []string
	arr.ForEach(func(_, v lua.LValue) {
		out = append(out, lua.LVAsString(v))
	})
	return out
}
