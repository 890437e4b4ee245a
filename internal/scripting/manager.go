package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/alchimist/internal/game/dice"
)

// GlobalScope is the scope consulted when a hook's own scope is not loaded.
const GlobalScope = "__global__"

// vm is one loaded script scope. An LState is single-threaded, so every use
// holds mu.
type vm struct {
	mu sync.Mutex
	L  *lua.LState
}

// Manager owns one sandboxed LState per scope and exposes hook dispatch.
//
// Manager is safe for concurrent use; calls into the same scope are serialized.
type Manager struct {
	mu        sync.RWMutex
	states    map[string]*vm
	roller    *dice.Roller
	logger    *zap.Logger
	instLimit int

	// Injected after construction. nil = the rules.* function returns nil.
	Formula func(text string, points int) (int, bool)
	Check   func(rating, difficulty int, attrs [3]int) (success bool, points int, err error)
	Expiry  func(date, duration string) string
}

// NewManager creates a Manager whose scripts run at most instLimit opcodes per
// execution.
//
// Precondition: roller and logger must be non-nil.
// Postcondition: Returns a non-nil Manager with no scopes loaded.
func NewManager(roller *dice.Roller, logger *zap.Logger, instLimit int) *Manager {
	if roller == nil {
		panic("scripting.NewManager: roller must not be nil")
	}
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	return &Manager{
		states:    make(map[string]*vm),
		roller:    roller,
		logger:    logger,
		instLimit: instLimit,
	}
}

// Load creates a sandboxed VM for scope, registers the rules.* module, then
// executes every *.lua file in scriptDir in lexicographic order. Loading a
// scope again replaces its VM.
//
// Precondition: scope must be non-empty; scriptDir must be a readable directory.
// Postcondition: Scope VM is registered; returns error on Lua load failure.
func (m *Manager) Load(scope, scriptDir string) error {
	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", scriptDir, scope, err)
	}
	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	L := NewSandboxedState(m.instLimit)
	m.RegisterModules(L)
	for _, path := range luaFiles {
		cancel := Limit(L, m.instLimit)
		err := L.DoFile(path)
		cancel()
		if err != nil {
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, scope, err)
		}
	}

	m.mu.Lock()
	old := m.states[scope]
	m.states[scope] = &vm{L: L}
	m.mu.Unlock()

	if old != nil {
		old.mu.Lock()
		old.L.Close()
		old.mu.Unlock()
	}
	m.logger.Info("scripting: scope loaded",
		zap.String("scope", scope),
		zap.Int("files", len(luaFiles)),
	)
	return nil
}

// Scopes returns the loaded scope names in order.
func (m *Manager) Scopes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.states))
	for s := range m.states {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// CallHook calls the named Lua global function in scope's VM, falling back to
// GlobalScope when scope is not loaded. Returns (LNil, nil) if the hook is not
// defined or neither scope is loaded. Lua
// runtime errors, including an exhausted instruction budget, are logged at Warn
// level and never propagated.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(scope, hook string, args ...lua.LValue) (lua.LValue, error) {
	m.mu.RLock()
	v, ok := m.states[scope]
	if !ok {
		v, ok = m.states[GlobalScope]
	}
	m.mu.RUnlock()
	if !ok {
		m.logger.Debug("scripting: no VM for scope",
			zap.String("scope", scope),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	fn := v.L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	cancel := Limit(v.L, m.instLimit)
	defer cancel()
	if err := v.L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("scope", scope),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := v.L.Get(-1)
	v.L.Pop(1)
	return ret, nil
}

// AdjustInt passes value and args to hook and returns the hook's numeric
// result, truncated toward zero. A missing scope or hook, or a non-numeric
// result, leaves value unchanged.
func (m *Manager) AdjustInt(scope, hook string, value int, args ...string) int {
	largs := make([]lua.LValue, 0, len(args)+1)
	for _, a := range args {
		largs = append(largs, lua.LString(a))
	}
	largs = append(largs, lua.LNumber(value))

	ret, err := m.CallHook(scope, hook, largs...)
	if err != nil {
		return value
	}
	n, ok := ret.(lua.LNumber)
	if !ok {
		return value
	}
	return int(n)
}

// CallString calls hook with string arguments and returns its result as a
// string, or "" when the hook is missing or returns nil.
func (m *Manager) CallString(scope, hook string, args ...string) string {
	largs := make([]lua.LValue, 0, len(args))
	for _, a := range args {
		largs = append(largs, lua.LString(a))
	}
	ret, err := m.CallHook(scope, hook, largs...)
	if err != nil || ret == lua.LNil {
		return ""
	}
	return ret.String()
}

// Close releases every VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for scope, v := range m.states {
		v.mu.Lock()
		v.L.Close()
		v.mu.Unlock()
		delete(m.states, scope)
	}
}
