package scripting

import (
	"github.com/l1jgo/worldcore/internal/action"
	"github.com/l1jgo/worldcore/internal/coord"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

const loopTypeName = "loop"

func (e *Engine) registerLoopType() {
	mt := e.vm.NewTypeMetatable(loopTypeName)
	e.vm.SetField(mt, "__index", e.vm.SetFuncs(e.vm.NewTable(), map[string]lua.LGFunction{
		"cancel": func(L *lua.LState) int {
			checkLoop(L).Cancel()
			return 0
		},
		"cancelled": func(L *lua.LState) int {
			L.Push(lua.LBool(checkLoop(L).Cancelled()))
			return 1
		},
		"elapsed": func(L *lua.LState) int {
			L.Push(lua.LNumber(checkLoop(L).Elapsed()))
			return 1
		},
	}))
}

func checkLoop(L *lua.LState) *action.Loop {
	ud := L.CheckUserData(1)
	if l, ok := ud.Value.(*action.Loop); ok {
		return l
	}
	L.ArgError(1, "loop expected")
	return nil
}

// loop(player_slot, interval, fn(elapsed, handle), [on_cancel]) -> handle
//
// fn runs every interval ticks on the player's pipeline until
// handle:cancel() or another task replaces it. A Lua error cancels the loop.
func (e *Engine) luaLoop(L *lua.LState) int {
	p := e.player(L, 1)
	interval := L.CheckInt(2)
	fn := L.CheckFunction(3)
	onCancel := L.OptFunction(4, nil)

	handle := e.vm.NewUserData()
	l := p.Pipeline().StartLoop(interval, func(l *action.Loop) {
		if err := e.vm.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, lua.LNumber(l.Elapsed()), handle); err != nil {
			e.log.Warn("lua loop error", zap.String("player", p.Username), zap.Error(err))
			l.Cancel()
		}
	})
	handle.Value = l
	e.vm.SetMetatable(handle, e.vm.GetTypeMetatable(loopTypeName))

	if onCancel != nil {
		l.OnCancel(func() {
			if err := e.vm.CallByParam(lua.P{Fn: onCancel, NRet: 0, Protect: true}); err != nil {
				e.log.Warn("lua loop cancel error", zap.String("player", p.Username), zap.Error(err))
			}
		})
	}
	L.Push(handle)
	return 1
}

// sequence(player_slot, {{delay=, fn=}, ...})
func (e *Engine) luaSequence(L *lua.LState) int {
	p := e.player(L, 1)
	t := L.CheckTable(2)

	var steps []action.Step
	t.ForEach(func(_, v lua.LValue) {
		st, ok := v.(*lua.LTable)
		if !ok {
			return
		}
		step := action.Step{Delay: lInt(st, "delay")}
		if fn, ok := st.RawGetString("fn").(*lua.LFunction); ok {
			step.Do = func() {
				if err := e.vm.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}); err != nil {
					e.log.Warn("lua sequence step error", zap.String("player", p.Username), zap.Error(err))
				}
			}
		}
		steps = append(steps, step)
	})
	if len(steps) == 0 {
		L.ArgError(2, "sequence needs at least one step")
		return 0
	}
	p.Pipeline().Sequence(steps...)
	return 0
}

// teleport(player_slot, x, y, level)
func (e *Engine) luaTeleport(L *lua.LState) int {
	p := e.player(L, 1)
	e.world.Teleport(p, coord.New(L.CheckInt(2), L.CheckInt(3), L.CheckInt(4)))
	return 0
}

// position(player_slot) -> x, y, level
func (e *Engine) luaPosition(L *lua.LState) int {
	pos := e.player(L, 1).Position()
	L.Push(lua.LNumber(pos.X))
	L.Push(lua.LNumber(pos.Y))
	L.Push(lua.LNumber(pos.Level))
	return 3
}
