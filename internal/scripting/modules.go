package scripting

import (
	lua "github.com/yuin/gopher-lua"
)

// RegisterModules registers the engine.* Lua tables into L:
//
//	engine.log.debug/info/warn/error(msg)  structured logging
//	engine.random.percent()                1-100 roll from the engine's source
//	engine.random.check(chance)            true when a percent roll <= chance
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: The engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()
	L.SetGlobal("engine", engine)

	logTable := L.NewTable()
	L.SetField(engine, "log", logTable)
	L.SetField(logTable, "debug", L.NewFunction(m.luaLog(func(msg string) { m.logger.Debug(msg) })))
	L.SetField(logTable, "info", L.NewFunction(m.luaLog(func(msg string) { m.logger.Info(msg) })))
	L.SetField(logTable, "warn", L.NewFunction(m.luaLog(func(msg string) { m.logger.Warn(msg) })))
	L.SetField(logTable, "error", L.NewFunction(m.luaLog(func(msg string) { m.logger.Error(msg) })))

	randomTable := L.NewTable()
	L.SetField(engine, "random", randomTable)
	L.SetField(randomTable, "percent", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(m.roller.Percent()))
		return 1
	}))
	L.SetField(randomTable, "check", L.NewFunction(func(L *lua.LState) int {
		chance := int(L.CheckNumber(1))
		L.Push(lua.LBool(m.roller.Check("script", chance)))
		return 1
	}))
}

// luaLog adapts a logger method into a Lua-callable function taking one
// string argument.
func (m *Manager) luaLog(emit func(msg string)) lua.LGFunction {
	return func(L *lua.LState) int {
		emit(L.CheckString(1))
		return 0
	}
}
