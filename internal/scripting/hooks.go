package scripting

import (
	"context"
	"sort"

	lua "github.com/yuin/gopher-lua"
)

// Hook names called after chat events.
const (
	HookPayment  = "on_payment"
	HookCredit   = "on_credit"
	HookTransfer = "on_transfer"
	HookDrink    = "on_drink"
)

// Event is the flat set of fields passed to a hook as a Lua table. Values
// may be string, bool, int, float64 or []string.
type Event map[string]any

// Fire calls hook in scope with ev and returns its result when the hook
// returns a non-empty string.
func (m *Manager) Fire(ctx context.Context, scope, hook string, ev Event) (string, bool) {
	ret, err := m.call(ctx, scope, hook, func(L *lua.LState) []lua.LValue {
		return []lua.LValue{eventTable(L, ev)}
	})
	if err != nil {
		return "", false
	}
	s, ok := ret.(lua.LString)
	if !ok || s == "" {
		return "", false
	}
	return string(s), true
}

func eventTable(L *lua.LState, ev Event) *lua.LTable {
	t := L.NewTable()
	keys := make([]string, 0, len(ev))
	for k := range ev {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		t.RawSetString(k, toLValue(L, ev[k]))
	}
	return t
}

func toLValue(L *lua.LState, v any) lua.LValue {
	switch x := v.(type) {
	case string:
		return lua.LString(x)
	case bool:
		return lua.LBool(x)
	case int:
		return lua.LNumber(x)
	case float64:
		return lua.LNumber(x)
	case []string:
		arr := L.NewTable()
		for _, s := range x {
			arr.Append(lua.LString(s))
		}
		return arr
	}
	return lua.LNil
}
