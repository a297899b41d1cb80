package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/Robak132/MacrosCompanionModules/internal/game/money"
)

// RegisterModules registers the engine.log, engine.dice, engine.money and
// engine.actor tables into L.
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetField(engine, "log", m.logModule(L))
	L.SetField(engine, "dice", m.diceModule(L))
	L.SetField(engine, "money", moneyModule(L))
	L.SetField(engine, "actor", m.actorModule(L))
	L.SetGlobal("engine", engine)
}

func (m *Manager) logModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	levels := map[string]func(string, ...zap.Field){
		"debug": m.logger.Debug,
		"info":  m.logger.Info,
		"warn":  m.logger.Warn,
		"error": m.logger.Error,
	}
	for name, fn := range levels {
		fn := fn
		L.SetField(mod, name, L.NewFunction(func(L *lua.LState) int {
			fn(L.CheckString(1), zap.String("source", "lua"))
			return 0
		}))
	}
	return mod
}

func (m *Manager) diceModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	// roll(expr) -> {total, dice, modifier} | nil, err
	L.SetField(mod, "roll", L.NewFunction(func(L *lua.LState) int {
		res, err := m.roller.RollExpr(L.CheckString(1))
		if err != nil {
			L.Push(lua.LNil)
			L.Push(lua.LString(err.Error()))
			return 2
		}
		t := L.NewTable()
		L.SetField(t, "total", lua.LNumber(res.Total()))
		L.SetField(t, "dice", lua.LNumber(res.Total()-res.Modifier))
		L.SetField(t, "modifier", lua.LNumber(res.Modifier))
		L.Push(t)
		return 1
	}))
	// test(target) -> {roll, target, success, sl}
	L.SetField(mod, "test", L.NewFunction(func(L *lua.LState) int {
		res := m.roller.Test(L.CheckInt(1))
		t := L.NewTable()
		L.SetField(t, "roll", lua.LNumber(res.Roll))
		L.SetField(t, "target", lua.LNumber(res.Target))
		L.SetField(t, "success", lua.LBool(res.Success))
		L.SetField(t, "sl", lua.LNumber(res.SL))
		L.Push(t)
		return 1
	}))
	return mod
}

func moneyModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	// format(pence) -> "1gc 2ss 3bp"
	L.SetField(mod, "format", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(money.FormatPence(L.CheckInt(1))))
		return 1
	}))
	// parse(text) -> pence | nil, err
	L.SetField(mod, "parse", L.NewFunction(func(L *lua.LState) int {
		a, err := money.ParseAmount(L.CheckString(1))
		if err != nil {
			L.Push(lua.LNil)
			L.Push(lua.LString(err.Error()))
			return 2
		}
		L.Push(lua.LNumber(a.Total()))
		return 1
	}))
	return mod
}

func (m *Manager) actorModule(L *lua.LState) *lua.LTable {
	mod := L.NewTable()
	L.SetField(mod, "name", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		if m.ActorName == nil {
			L.Push(lua.LNil)
			return 1
		}
		name, ok := m.ActorName(id)
		if !ok {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(lua.LString(name))
		return 1
	}))
	return mod
}
