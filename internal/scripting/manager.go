package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/fableforge/engine/internal/game/rng"
)

// Manager owns a single sandboxed LState holding all loaded rule scripts and
// exposes hook dispatch into it.
//
// Manager is safe for concurrent CallHook after Load completes. The LState is
// single-threaded; the mutex serializes all calls into the VM.
type Manager struct {
	mu     sync.Mutex
	state  *lua.LState
	cancel func()
	roller *rng.Roller
	logger *zap.Logger
}

// NewManager creates a Manager with no scripts loaded.
//
// Precondition: roller and logger must be non-nil.
func NewManager(roller *rng.Roller, logger *zap.Logger) *Manager {
	return &Manager{
		roller: roller,
		logger: logger,
	}
}

// Load creates a sandboxed VM, registers all engine.* modules, then executes
// every *.lua file in scriptDir in lexicographic order. A previously loaded
// VM, if any, is closed and replaced.
//
// Precondition: scriptDir must be a readable directory.
// Postcondition: The VM is loaded; returns error on Lua load failure.
func (m *Manager) Load(scriptDir string, instLimit int) error {
	L, cancel := NewSandboxedState(instLimit)
	m.RegisterModules(L)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		cancel()
		L.Close()
		return fmt.Errorf("scripting: reading script dir %q: %w", scriptDir, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		if err := L.DoFile(path); err != nil {
			cancel()
			L.Close()
			return fmt.Errorf("scripting: loading %q: %w", path, err)
		}
	}

	m.mu.Lock()
	if m.state != nil {
		if m.cancel != nil {
			m.cancel()
		}
		m.state.Close()
	}
	m.state = L
	m.cancel = cancel
	m.mu.Unlock()
	return nil
}

// Close releases the VM. Safe to call on an unloaded Manager.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != nil {
		if m.cancel != nil {
			m.cancel()
			m.cancel = nil
		}
		m.state.Close()
		m.state = nil
	}
}

// CallHook calls the named Lua global function in the loaded VM. Returns
// (LNil, false, nil) if no VM is loaded or the hook is not defined. Lua
// runtime errors are logged at Warn level and never propagated.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook and whether the
// hook was found and ran to completion.
func (m *Manager) CallHook(hook string, args ...lua.LValue) (lua.LValue, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == nil {
		return lua.LNil, false, nil
	}

	fn := m.state.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, false, nil
	}

	if err := m.state.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, false, nil
	}

	ret := m.state.Get(-1)
	m.state.Pop(1)
	return ret, true, nil
}
