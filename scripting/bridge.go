package scripting

import (
	"fmt"
	"math"
	"strconv"

	"github.com/aidenwallis/go-redis-scripting/scripting/adapters"
	lua "github.com/yuin/gopher-lua"
)

// Every value crossing a boundary goes through exactly one of:
//
//	toStoreArg  Lua argument -> store argument
//	toLuaValue  store result -> Lua value
//	toGoValue   Lua result   -> caller value

// toStoreArg converts a redis.call argument into the string the store receives.
func toStoreArg(cmd string, v lua.LValue) (string, error) {
	switch value := v.(type) {
	case lua.LString:
		return string(value), nil
	case lua.LNumber:
		return formatNumber(float64(value)), nil
	default:
		return "", &InvalidDataTypeError{
			Context: fmt.Sprintf("arguments to %s must be strings or numbers", cmd),
			Value:   describeLuaValue(v),
		}
	}
}

// toStoreArgs converts the positional arguments and any stripped modifiers of a command.
func toStoreArgs(cmd string, args []lua.LValue, mods modifiers) ([]string, *adapters.Options, error) {
	out := make([]string, len(args))
	for i, arg := range args {
		s, err := toStoreArg(cmd, arg)
		if err != nil {
			return nil, nil, err
		}
		out[i] = s
	}

	if !mods.present() {
		return out, nil, nil
	}

	opts := &adapters.Options{WithScores: mods.withScores}
	if mods.limit != nil {
		offset, err := toStoreArg(cmd, mods.limit[0])
		if err != nil {
			return nil, nil, err
		}
		count, err := toStoreArg(cmd, mods.limit[1])
		if err != nil {
			return nil, nil, err
		}
		opts.Limit = &adapters.Limit{Offset: offset, Count: count}
	}

	return out, opts, nil
}

// toLuaValue converts a store result into the value redis.call returns to the script.
func toLuaValue(L *lua.LState, v interface{}) (lua.LValue, error) {
	switch value := v.(type) {
	case nil:
		// scripts test results for truthiness, and nil can't be stored in a table
		return lua.LFalse, nil
	case bool:
		if value {
			return lua.LNumber(1), nil
		}
		return lua.LNumber(0), nil
	case int:
		return lua.LNumber(value), nil
	case int32:
		return lua.LNumber(value), nil
	case int64:
		return lua.LNumber(value), nil
	case uint64:
		return lua.LNumber(value), nil
	case float32:
		return lua.LString(formatNumber(float64(value))), nil
	case float64:
		return lua.LString(formatNumber(value)), nil
	case string:
		return lua.LString(value), nil
	case []string:
		tbl := L.CreateTable(len(value), 0)
		for i, item := range value {
			tbl.RawSetInt(i+1, lua.LString(item))
		}
		return tbl, nil
	case []interface{}:
		tbl := L.CreateTable(len(value), 0)
		for i, item := range value {
			lv, err := toLuaValue(L, item)
			if err != nil {
				return nil, err
			}
			tbl.RawSetInt(i+1, lv)
		}
		return tbl, nil
	default:
		return nil, &InvalidDataTypeError{
			Context: "unsupported type returned from store",
			Value:   fmt.Sprintf("%v (%T)", v, v),
		}
	}
}

// toGoValue converts the value a script returned into the value handed to the caller.
func toGoValue(v lua.LValue) (interface{}, error) {
	switch value := v.(type) {
	case *lua.LNilType:
		return nil, nil
	case lua.LBool:
		if value {
			return int64(1), nil
		}
		return nil, nil
	case lua.LNumber:
		f := float64(value)
		// 2^63 itself doesn't fit, -2^63 does
		if math.IsNaN(f) || f >= 9223372036854775808.0 || f < -9223372036854775808.0 {
			return nil, &InvalidDataTypeError{
				Context: "number returned from script is outside the integer range",
				Value:   describeLuaValue(v),
			}
		}
		return int64(f), nil
	case lua.LString:
		return string(value), nil
	case *lua.LTable:
		return tableToReply(value)
	default:
		return nil, &InvalidDataTypeError{
			Context: "unsupported type returned from script",
			Value:   describeLuaValue(v),
		}
	}
}

// tableToReply unwraps a status table ({ok=...} or {err=...}), or converts an array table into a list. Only indices
// 1..#t are read, and elements converting to nil are dropped.
func tableToReply(tbl *lua.LTable) (interface{}, error) {
	if tag, ok := statusTag(tbl); ok {
		return toGoValue(tag)
	}

	n := tbl.Len()
	out := make([]interface{}, 0, n)
	for i := 1; i <= n; i++ {
		item, err := toGoValue(tbl.RawGetInt(i))
		if err != nil {
			return nil, err
		}
		if item != nil {
			out = append(out, item)
		}
	}
	return out, nil
}

// statusTag returns the tagged value of a table holding exactly one "ok" or "err" entry.
func statusTag(tbl *lua.LTable) (lua.LValue, bool) {
	key, value := tbl.Next(lua.LNil)
	if key == lua.LNil {
		return nil, false
	}
	if next, _ := tbl.Next(key); next != lua.LNil {
		return nil, false
	}
	if key != lua.LString("ok") && key != lua.LString("err") {
		return nil, false
	}
	return value, true
}

// formatNumber renders integral values without a fractional part, and everything else in the shortest form that
// parses back to the same float.
func formatNumber(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	case f == math.Trunc(f) && math.Abs(f) < 1e18:
		return strconv.FormatInt(int64(f), 10)
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}

func describeLuaValue(v lua.LValue) string {
	if s, ok := v.(lua.LString); ok {
		return strconv.Quote(string(s))
	}
	return v.String()
}

func describeLuaValues(values []lua.LValue) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = describeLuaValue(v)
	}
	return out
}
