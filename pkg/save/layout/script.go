package layout

import (
	"fmt"

	"github.com/provide-io/savebox/go/savebox/pkg/save/blocks"
	saveerrors "github.com/provide-io/savebox/go/savebox/pkg/save/errors"
	lua "github.com/yuin/gopher-lua"
)

// EvalScript evaluates a Lua boolean expression against the save's flags
// and vars. The expression sees two builtins, flag(id) and var(id); every
// call gets a fresh interpreter without the standard libraries.
func EvalScript(expr string, b blocks.Blocks) (bool, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	L.SetGlobal("flag", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckInt(1)
		set, err := FlagGet(uint16(id), b)
		if err != nil {
			L.RaiseError("%v", err)
			return 0
		}
		L.Push(lua.LBool(set))
		return 1
	}))

	L.SetGlobal("var", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckInt(1)
		value, err := VarGet(uint16(id), b)
		if err != nil {
			L.RaiseError("%v", err)
			return 0
		}
		L.Push(lua.LNumber(value))
		return 1
	}))

	if err := L.DoString("return (" + expr + ")"); err != nil {
		return false, fmt.Errorf("%w: %v", saveerrors.ErrRuleInvalid, err)
	}

	result := L.Get(-1)
	L.Pop(1)
	return lua.LVAsBool(result), nil
}
