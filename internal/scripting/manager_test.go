package scripting_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fableforge/engine/internal/game/rng"
	"github.com/fableforge/engine/internal/scripting"
)

// newTestManager returns a Manager backed by a deterministic roll source and
// an observed logger.
func newTestManager(t *testing.T) (*scripting.Manager, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core)
	roller := rng.NewRoller(rng.NewSeededSource(1), logger)
	mgr := scripting.NewManager(roller, logger)
	t.Cleanup(mgr.Close)
	return mgr, logs
}

func TestManagerLoadAndCallHook(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "rules.lua", `
		function double(n) return n * 2 end
	`)
	require.NoError(t, mgr.Load(dir, 0))

	ret, ok, err := mgr.CallHook("double", lua.LNumber(21))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, lua.LNumber(42), ret)
}

func TestManagerCallHookUndefinedFunction(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "rules.lua", `x = 1`)
	require.NoError(t, mgr.Load(dir, 0))

	ret, ok, err := mgr.CallHook("nonexistent")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, lua.LNil, ret)
}

func TestManagerCallHookWithoutLoad(t *testing.T) {
	mgr, _ := newTestManager(t)

	ret, ok, err := mgr.CallHook("anything")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, lua.LNil, ret)
}

func TestManagerLoadMissingDir(t *testing.T) {
	mgr, _ := newTestManager(t)
	err := mgr.Load("/nonexistent/scripts", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading script dir")
}

func TestManagerLoadBadLua(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "broken.lua", `function oops( syntax error`)
	err := mgr.Load(dir, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading")
}

func TestManagerRuntimeErrorIsSwallowedAndLogged(t *testing.T) {
	mgr, logs := newTestManager(t)
	dir := writeTempLua(t, "rules.lua", `
		function blow_up() error("boom") end
	`)
	require.NoError(t, mgr.Load(dir, 0))

	ret, ok, err := mgr.CallHook("blow_up")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, lua.LNil, ret)

	found := false
	for _, e := range logs.All() {
		if e.Level == zap.WarnLevel {
			found = true
			break
		}
	}
	assert.True(t, found, "expected Warn log entry for the Lua error")
}

func TestManagerReloadReplacesVM(t *testing.T) {
	mgr, _ := newTestManager(t)

	first := writeTempLua(t, "rules.lua", `function version() return 1 end`)
	require.NoError(t, mgr.Load(first, 0))

	second := writeTempLua(t, "rules.lua", `function version() return 2 end`)
	require.NoError(t, mgr.Load(second, 0))

	ret, ok, err := mgr.CallHook("version")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, lua.LNumber(2), ret)
}

func TestManagerCloseReleasesVM(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := writeTempLua(t, "rules.lua", `function ping() return 1 end`)
	require.NoError(t, mgr.Load(dir, 0))

	mgr.Close()
	mgr.Close() // idempotent, the second call finds nothing to release

	ret, ok, err := mgr.CallHook("ping")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, lua.LNil, ret)

	// A fresh Load after Close brings the manager back.
	require.NoError(t, mgr.Load(dir, 0))
	ret, ok, err = mgr.CallHook("ping")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, lua.LNumber(1), ret)
}

func TestManagerLoadsFilesInLexicographicOrder(t *testing.T) {
	mgr, _ := newTestManager(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.lua"), []byte(`order = "a"`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.lua"), []byte(`order = order .. "b"
		function get_order() return order end`), 0o644))
	require.NoError(t, mgr.Load(dir, 0))

	ret, ok, err := mgr.CallHook("get_order")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, lua.LString("ab"), ret)
}
