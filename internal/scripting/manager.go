package scripting

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/Robak132/MacrosCompanionModules/internal/game/dice"
)

// GlobalScope is the reserved scope for shared scripts loaded via LoadGlobal.
// CallHook falls back to it when no scope-specific VM is found.
const GlobalScope = "__global__"

type vm struct {
	mu    sync.Mutex
	state *lua.LState
}

// Manager owns one sandboxed LState per scope and exposes hook dispatch.
// Scopes let a region carry its own scripts on top of the global ones.
//
// Manager is safe for concurrent use. Calls into the same scope are
// serialised; different scopes run concurrently.
type Manager struct {
	mu        sync.RWMutex
	vms       map[string]*vm
	roller    *dice.Roller
	logger    *zap.Logger
	instLimit int

	// ActorName resolves an actor id for engine.actor.name. nil = returns nil.
	ActorName func(id string) (string, bool)
}

// NewManager creates a Manager.
//
// Precondition: roller and logger must be non-nil; instLimit 0 uses
// DefaultInstructionLimit.
// Postcondition: Returns a non-nil Manager with no scopes loaded.
func NewManager(roller *dice.Roller, logger *zap.Logger, instLimit int) *Manager {
	if roller == nil {
		panic("scripting.NewManager: roller must not be nil")
	}
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	return &Manager{
		vms:       make(map[string]*vm),
		roller:    roller,
		logger:    logger,
		instLimit: instLimit,
	}
}

// LoadScope creates a sandboxed VM for scope, registers the engine modules,
// then executes every *.lua file in scriptDir in lexicographic order.
//
// Precondition: scope must be non-empty; scriptDir must be a readable directory.
// Postcondition: The scope VM replaces any previous one; returns error on Lua load failure.
func (m *Manager) LoadScope(scope, scriptDir string) error {
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

	L := NewSandboxedState()
	m.RegisterModules(L)
	for _, path := range luaFiles {
		release := Limit(context.Background(), L, m.instLimit)
		err := L.DoFile(path)
		release()
		if err != nil {
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, scope, err)
		}
	}

	m.mu.Lock()
	old := m.vms[scope]
	m.vms[scope] = &vm{state: L}
	m.mu.Unlock()
	if old != nil {
		old.mu.Lock()
		old.state.Close()
		old.mu.Unlock()
	}
	m.logger.Debug("scripting: scope loaded", zap.String("scope", scope), zap.Int("files", len(luaFiles)))
	return nil
}

// LoadGlobal loads scriptDir into the global scope.
func (m *Manager) LoadGlobal(scriptDir string) error {
	return m.LoadScope(GlobalScope, scriptDir)
}

// CallHook calls the named Lua global function in scope's VM, falling back to
// the global VM. Returns (LNil, nil) if the hook is not defined or no VM
// exists. Lua runtime errors, including exceeding the instruction limit, are
// logged at Warn level and never propagated.
//
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(ctx context.Context, scope, hook string, args ...lua.LValue) (lua.LValue, error) {
	return m.call(ctx, scope, hook, func(*lua.LState) []lua.LValue { return args })
}

// call runs hook with the arguments built by args on the VM's own state.
func (m *Manager) call(ctx context.Context, scope, hook string, args func(*lua.LState) []lua.LValue) (lua.LValue, error) {
	m.mu.RLock()
	v, ok := m.vms[scope]
	if !ok {
		v = m.vms[GlobalScope]
	}
	m.mu.RUnlock()

	if v == nil {
		m.logger.Debug("scripting: no VM for scope", zap.String("scope", scope), zap.String("hook", hook))
		return lua.LNil, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	L := v.state
	if L.IsClosed() {
		return lua.LNil, nil
	}
	fn := L.GetGlobal(hook)
	if fn.Type() != lua.LTFunction {
		return lua.LNil, nil
	}

	release := Limit(ctx, L, m.instLimit)
	defer release()
	if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args(L)...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("scope", scope),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}
	ret := L.Get(-1)
	L.Pop(1)
	return ret, nil
}

// Close releases every VM.
//
// Postcondition: CallHook returns LNil for every scope.
func (m *Manager) Close() {
	m.mu.Lock()
	vms := m.vms
	m.vms = make(map[string]*vm)
	m.mu.Unlock()
	for _, v := range vms {
		v.mu.Lock()
		v.state.Close()
		v.mu.Unlock()
	}
}
