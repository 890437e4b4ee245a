package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RegisterModules registers the rules.* Lua table into L:
//
//	rules.roll(expr)                       -> total | nil
//	rules.formula(text, points)            -> value | nil
//	rules.check(rating, difficulty, a1, a2, a3) -> success, points | nil
//	rules.expiry(date, duration)           -> date string | nil
//	rules.log.debug/info/warn/error(msg)
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: rules global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	rules := L.NewTable()
	L.SetField(rules, "roll", L.NewFunction(m.luaRoll))
	L.SetField(rules, "formula", L.NewFunction(m.luaFormula))
	L.SetField(rules, "check", L.NewFunction(m.luaCheck))
	L.SetField(rules, "expiry", L.NewFunction(m.luaExpiry))

	log := L.NewTable()
	L.SetField(log, "debug", L.NewFunction(m.luaLog(zap.DebugLevel)))
	L.SetField(log, "info", L.NewFunction(m.luaLog(zap.InfoLevel)))
	L.SetField(log, "warn", L.NewFunction(m.luaLog(zap.WarnLevel)))
	L.SetField(log, "error", L.NewFunction(m.luaLog(zap.ErrorLevel)))
	L.SetField(rules, "log", log)

	L.SetGlobal("rules", rules)
}

func (m *Manager) luaRoll(L *lua.LState) int {
	res, err := m.roller.RollExpr(L.CheckString(1))
	if err != nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(res.Total()))
	return 1
}

func (m *Manager) luaFormula(L *lua.LState) int {
	text := L.CheckString(1)
	points := L.OptInt(2, 0)
	if m.Formula == nil {
		L.Push(lua.LNil)
		return 1
	}
	v, ok := m.Formula(text, points)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LNumber(v))
	return 1
}

func (m *Manager) luaCheck(L *lua.LState) int {
	rating := L.CheckInt(1)
	difficulty := L.CheckInt(2)
	attrs := [3]int{L.CheckInt(3), L.CheckInt(4), L.CheckInt(5)}
	if m.Check == nil {
		L.Push(lua.LNil)
		return 1
	}
	success, points, err := m.Check(rating, difficulty, attrs)
	if err != nil {
		L.RaiseError("rules.check: %s", err.Error())
		return 0
	}
	L.Push(lua.LBool(success))
	L.Push(lua.LNumber(points))
	return 2
}

func (m *Manager) luaExpiry(L *lua.LState) int {
	date := L.CheckString(1)
	duration := L.CheckString(2)
	if m.Expiry == nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(m.Expiry(date, duration)))
	return 1
}

func (m *Manager) luaLog(level zapcore.Level) lua.LGFunction {
	return func(L *lua.LState) int {
		msg := L.CheckString(1)
		if ce := m.logger.Check(level, "lua: "+msg); ce != nil {
			ce.Write(zap.String("source", "script"))
		}
		return 0
	}
}
