// Package scripting runs sandboxed GopherLua hook scripts that react to
// chat events such as payments, credits, transfers and drinks.
package scripting

import (
	"context"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"
)

// DefaultInstructionLimit is the maximum number of Lua opcodes allowed per
// script execution when no override is configured.
const DefaultInstructionLimit = 100_000

// countingContext is a context.Context that cancels itself after Done() has
// been called limit times. GopherLua's mainLoopWithContext calls Done() once
// per opcode, making this an exact instruction-count limit.
type countingContext struct {
	context.Context
	cancel    context.CancelFunc
	remaining *atomic.Int64
}

// Done decrements the remaining counter and fires cancel when it reaches zero.
func (c *countingContext) Done() <-chan struct{} {
	if c.remaining.Add(-1) <= 0 {
		c.cancel()
	}
	return c.Context.Done()
}

// newCountingContext returns a context derived from parent that cancels after
// limit calls to Done().
// Precondition: limit > 0.
func newCountingContext(parent context.Context, limit int) (context.Context, context.CancelFunc) {
	base, cancel := context.WithCancel(parent)
	rem := &atomic.Int64{}
	rem.Store(int64(limit))
	return &countingContext{Context: base, cancel: cancel, remaining: rem}, cancel
}

// NewSandboxedState creates a GopherLua LState with only the base, table,
// string and math libraries, and with dofile, loadfile, load, collectgarbage
// and require removed.
//
// Postcondition: The caller owns the LState and must call L.Close() when done.
func NewSandboxedState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range []string{"dofile", "loadfile", "load", "collectgarbage", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}

// Limit bounds the next execution on L to at most limit opcodes and to the
// lifetime of ctx. The returned function must be called when the execution
// finishes; it releases the context and detaches it from L.
//
// Precondition: limit >= 0; 0 uses DefaultInstructionLimit.
func Limit(ctx context.Context, L *lua.LState, limit int) func() {
	if limit <= 0 {
		limit = DefaultInstructionLimit
	}
	cctx, cancel := newCountingContext(ctx, limit)
	L.SetContext(cctx)
	return func() {
		cancel()
		L.RemoveContext()
	}
}
