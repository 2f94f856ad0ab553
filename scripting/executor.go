package scripting

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aidenwallis/go-redis-scripting/scripting/adapters"
	lua "github.com/yuin/gopher-lua"
)

const errorTypeName = "redis.error"

// Levels accepted by redis.log.
const (
	logDebug = iota
	logVerbose
	logNotice
	logWarning
)

// execution is a single script run. Store calls made by the script are not rolled back if the script later fails.
type execution struct {
	ctx     context.Context
	adapter adapters.Adapter
	logger  *slog.Logger
}

func (e *execution) run(source string, keys, argv []string) (interface{}, error) {
	L := newState()
	defer L.Close()

	// a context that can never be cancelled would only slow down the VM loop
	if e.ctx.Done() != nil {
		L.SetContext(e.ctx)
	}

	L.SetGlobal("KEYS", stringTable(L, keys))
	L.SetGlobal("ARGV", stringTable(L, argv))
	L.SetGlobal("redis", e.redisModule(L))
	L.SetGlobal("cjson", cjsonModule(L))

	fn, err := L.LoadString(source)
	if err != nil {
		return nil, err
	}

	L.Push(fn)
	if err := L.PCall(0, 1, nil); err != nil {
		return nil, e.unwrap(err)
	}

	ret := L.Get(-1)
	L.Pop(1)

	return toGoValue(ret)
}

// unwrap recovers the Go error a callback raised, so callers see the same typed error that was raised inside the VM.
func (e *execution) unwrap(err error) error {
	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) {
		if ud, ok := apiErr.Object.(*lua.LUserData); ok {
			if cause, ok := ud.Value.(error); ok {
				return cause
			}
		}
	}

	if ctxErr := e.ctx.Err(); ctxErr != nil {
		return fmt.Errorf("script aborted: %w", ctxErr)
	}
	return err
}

func newState() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)

	for _, name := range []string{"dofile", "loadfile"} {
		L.SetGlobal(name, lua.LNil)
	}

	mt := L.NewTypeMetatable(errorTypeName)
	L.SetField(mt, "__tostring", L.NewFunction(func(L *lua.LState) int {
		ud := L.CheckUserData(1)
		if err, ok := ud.Value.(error); ok {
			L.Push(lua.LString(err.Error()))
		} else {
			L.Push(lua.LString(errorTypeName))
		}
		return 1
	}))

	return L
}

func stringTable(L *lua.LState, values []string) *lua.LTable {
	tbl := L.CreateTable(len(values), 0)
	for i, v := range values {
		tbl.RawSetInt(i+1, lua.LString(v))
	}
	return tbl
}

// raise aborts the running Lua function with err. The error travels through the VM as userdata so it can be
// recovered intact once the script returns.
func raise(L *lua.LState, err error) int {
	ud := L.NewUserData()
	ud.Value = err
	L.SetMetatable(ud, L.GetTypeMetatable(errorTypeName))
	L.Error(ud, 1)
	return 0
}

func (e *execution) redisModule(L *lua.LState) *lua.LTable {
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"call":         e.call,
		"pcall":        e.pcall,
		"log":          e.log,
		"sha1hex":      sha1hex,
		"status_reply": statusReply,
		"error_reply":  errorReply,
	})

	L.SetField(mod, "LOG_DEBUG", lua.LNumber(logDebug))
	L.SetField(mod, "LOG_VERBOSE", lua.LNumber(logVerbose))
	L.SetField(mod, "LOG_NOTICE", lua.LNumber(logNotice))
	L.SetField(mod, "LOG_WARNING", lua.LNumber(logWarning))

	return mod
}

func (e *execution) call(L *lua.LState) int {
	out, err := e.dispatch(L)
	if err != nil {
		return raise(L, err)
	}
	L.Push(out)
	return 1
}

func (e *execution) pcall(L *lua.LState) int {
	out, err := e.dispatch(L)
	if err != nil {
		tbl := L.NewTable()
		tbl.RawSetString("err", lua.LString(err.Error()))
		L.Push(tbl)
		return 1
	}
	L.Push(out)
	return 1
}

// dispatch runs one redis.call: gate, rewrite, convert arguments, call the store, convert the result.
func (e *execution) dispatch(L *lua.LState) (lua.LValue, error) {
	top := L.GetTop()
	if top == 0 {
		return nil, &InvalidCommandError{
			Cause: fmt.Errorf("%w: at least one argument is required", ErrInvalidArguments),
		}
	}

	args := make([]lua.LValue, 0, top-1)
	for i := 2; i <= top; i++ {
		args = append(args, L.Get(i))
	}

	name, err := toStoreArg("redis.call", L.Get(1))
	if err != nil {
		return nil, &InvalidCommandError{Command: describeLuaValue(L.Get(1)), Args: describeLuaValues(args), Cause: err}
	}

	cmd := strings.ToLower(name)
	if !IsAllowed(cmd) {
		return nil, &InvalidCommandError{Command: cmd, Args: describeLuaValues(args)}
	}

	positional, mods := rewriteArguments(cmd, args)
	storeArgs, opts, err := toStoreArgs(cmd, positional, mods)
	if err != nil {
		return nil, &InvalidCommandError{Command: cmd, Args: describeLuaValues(args), Cause: err}
	}

	e.logger.DebugContext(e.ctx, "script calling store", "cmd", cmd, "args", storeArgs)

	out, err := e.adapter.Call(e.ctx, cmd, storeArgs, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cmd, err)
	}

	lv, err := toLuaValue(L, out)
	if err != nil {
		return nil, &InvalidCommandError{Command: cmd, Args: describeLuaValues(args), Cause: err}
	}
	return lv, nil
}

func (e *execution) log(L *lua.LState) int {
	level := L.CheckInt(1)
	if L.GetTop() < 2 {
		L.ArgError(2, "message expected")
		return 0
	}

	parts := make([]string, 0, L.GetTop()-1)
	for i := 2; i <= L.GetTop(); i++ {
		parts = append(parts, L.ToStringMeta(L.Get(i)).String())
	}

	var slogLevel slog.Level
	switch level {
	case logDebug, logVerbose:
		slogLevel = slog.LevelDebug
	case logNotice:
		slogLevel = slog.LevelInfo
	case logWarning:
		slogLevel = slog.LevelWarn
	default:
		L.ArgError(1, "invalid debug level")
		return 0
	}

	e.logger.Log(e.ctx, slogLevel, strings.Join(parts, " "), "source", "script")
	return 0
}

func sha1hex(L *lua.LState) int {
	L.Push(lua.LString(Hash(L.CheckString(1))))
	return 1
}

func statusReply(L *lua.LState) int {
	tbl := L.NewTable()
	tbl.RawSetString("ok", lua.LString(L.CheckString(1)))
	L.Push(tbl)
	return 1
}

func errorReply(L *lua.LState) int {
	tbl := L.NewTable()
	tbl.RawSetString("err", lua.LString(L.CheckString(1)))
	L.Push(tbl)
	return 1
}

func cjsonModule(L *lua.LState) *lua.LTable {
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"decode": func(L *lua.LState) int {
			v, err := decodeJSON(L, L.CheckString(1))
			if err != nil {
				return raise(L, err)
			}
			L.Push(v)
			return 1
		},
		"encode": func(L *lua.LState) int {
			out, err := encodeJSON(L.Get(1))
			if err != nil {
				return raise(L, err)
			}
			L.Push(lua.LString(out))
			return 1
		},
	})
}
