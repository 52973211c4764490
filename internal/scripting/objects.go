package scripting

import (
	"github.com/l1jgo/worldcore/internal/chunk"
	"github.com/l1jgo/worldcore/internal/coord"
	lua "github.com/yuin/gopher-lua"
)

// Landscape objects cross into Lua as {id=, x=, y=, level=, type=, rotation=}.

func (e *Engine) checkObject(L *lua.LState, n int) chunk.LandscapeObject {
	t := L.CheckTable(n)
	return chunk.LandscapeObject{
		ObjectID: lInt(t, "id"),
		X:        lInt(t, "x"),
		Y:        lInt(t, "y"),
		Level:    lInt(t, "level"),
		Type:     lInt(t, "type"),
		Rotation: lInt(t, "rotation"),
	}
}

func (e *Engine) objectTable(o chunk.LandscapeObject) *lua.LTable {
	t := e.vm.NewTable()
	t.RawSetString("id", lua.LNumber(o.ObjectID))
	t.RawSetString("x", lua.LNumber(o.X))
	t.RawSetString("y", lua.LNumber(o.Y))
	t.RawSetString("level", lua.LNumber(o.Level))
	t.RawSetString("type", lua.LNumber(o.Type))
	t.RawSetString("rotation", lua.LNumber(o.Rotation))
	return t
}

// objects_at(x, y, level) -> {object, ...}
func (e *Engine) luaObjectsAt(L *lua.LState) int {
	pos := coord.New(L.CheckInt(1), L.CheckInt(2), L.CheckInt(3))
	out := e.vm.NewTable()
	for i, o := range e.world.Chunks.ChunkForWorldPosition(pos).ObjectsAt(pos.X, pos.Y) {
		o.X, o.Y, o.Level = pos.X, pos.Y, pos.Level
		out.RawSetInt(i+1, e.objectTable(o))
	}
	L.Push(out)
	return 1
}

// add_object(object)
func (e *Engine) luaAddObject(L *lua.LState) int {
	o := e.checkObject(L, 1)
	e.world.AddLandscapeObject(o, o.Position())
	return 0
}

// remove_object(object, [mark_removed=true])
func (e *Engine) luaRemoveObject(L *lua.LState) int {
	o := e.checkObject(L, 1)
	e.world.RemoveLandscapeObject(o, o.Position(), L.OptBool(2, true))
	return 0
}

// replace_object(new, old, [respawn_ticks=-1]). new is an object table or a
// bare object id that inherits old's type and rotation.
func (e *Engine) luaReplaceObject(L *lua.LState) int {
	old := e.checkObject(L, 2)
	respawn := L.OptInt(3, -1)
	if id, ok := L.Get(1).(lua.LNumber); ok {
		e.world.ReplaceObjectID(int(id), old, respawn)
		return 0
	}
	e.world.ReplaceObject(e.checkObject(L, 1), old, respawn)
	return 0
}

// toggle_objects(new, old, [new_in_filestore=false])
func (e *Engine) luaToggleObjects(L *lua.LState) int {
	n, old := e.checkObject(L, 1), e.checkObject(L, 2)
	e.world.ToggleObjects(n, old, n.Position(), old.Position(), L.OptBool(3, false))
	return 0
}

// add_temporary_object(object, ticks)
func (e *Engine) luaAddTemporaryObject(L *lua.LState) int {
	o := e.checkObject(L, 1)
	e.world.AddTemporaryLandscapeObject(o, o.Position(), L.CheckInt(2))
	return 0
}

// remove_object_temporarily(object, ticks)
func (e *Engine) luaRemoveObjectTemporarily(L *lua.LState) int {
	o := e.checkObject(L, 1)
	e.world.RemoveLandscapeObjectTemporarily(o, o.Position(), L.CheckInt(2))
	return 0
}

// find_nearby_npcs(x, y, level, distance, [npc_id]) -> {npc_slot, ...}
func (e *Engine) luaFindNearbyNpcs(L *lua.LState) int {
	pos := coord.New(L.CheckInt(1), L.CheckInt(2), L.CheckInt(3))
	distance := L.CheckInt(4)

	npcs := e.world.FindNearbyNpcs(pos, distance)
	if L.GetTop() >= 5 {
		npcs = e.world.FindNearbyNpcsByID(pos, L.CheckInt(5), distance)
	}
	out := e.vm.NewTable()
	for i, n := range npcs {
		out.RawSetInt(i+1, lua.LNumber(n.Slot()))
	}
	L.Push(out)
	return 1
}

// find_nearby_players(x, y, level, distance) -> {player_slot, ...}
func (e *Engine) luaFindNearbyPlayers(L *lua.LState) int {
	pos := coord.New(L.CheckInt(1), L.CheckInt(2), L.CheckInt(3))
	out := e.vm.NewTable()
	for i, p := range e.world.FindNearbyPlayers(pos, L.CheckInt(4)) {
		out.RawSetInt(i+1, lua.LNumber(p.Slot()))
	}
	L.Push(out)
	return 1
}
