package scripting

import (
	"encoding/json"
	"fmt"
	"sort"

	luajson "github.com/alicebob/gopher-json"
	lua "github.com/yuin/gopher-lua"
)

// decodeJSON parses text into nested Lua tables and scalars.
func decodeJSON(L *lua.LState, text string) (lua.LValue, error) {
	v, err := luajson.Decode(L, []byte(text))
	if err != nil {
		return nil, fmt.Errorf("cjson.decode: %w", err)
	}
	return v, nil
}

// encodeJSON encodes a string, number, nil or table. Tables whose keys are all non-negative numbers encode as arrays
// ordered by key, any other table encodes as an object.
func encodeJSON(v lua.LValue) (string, error) {
	switch value := v.(type) {
	case lua.LString, lua.LNumber, *lua.LNilType:
		out, err := luajson.Encode(value)
		if err != nil {
			return "", fmt.Errorf("cjson.encode: %w", err)
		}
		return string(out), nil

	case *lua.LTable:
		tree, err := tableToJSON(value, map[*lua.LTable]bool{})
		if err != nil {
			return "", err
		}
		out, err := json.Marshal(tree)
		if err != nil {
			return "", fmt.Errorf("cjson.encode: %w", err)
		}
		return string(out), nil

	default:
		return "", &InvalidDataTypeError{
			Context: "unexpected data type for cjson.encode",
			Value:   describeLuaValue(v),
		}
	}
}

func tableToJSON(tbl *lua.LTable, visited map[*lua.LTable]bool) (interface{}, error) {
	if visited[tbl] {
		return nil, fmt.Errorf("cjson.encode: cannot encode recursive table")
	}
	visited[tbl] = true
	defer delete(visited, tbl)

	isArray := true
	var keys []lua.LValue
	tbl.ForEach(func(k, _ lua.LValue) {
		keys = append(keys, k)
		if n, ok := k.(lua.LNumber); !ok || n < 0 {
			isArray = false
		}
	})

	if isArray {
		sort.Slice(keys, func(i, j int) bool {
			return keys[i].(lua.LNumber) < keys[j].(lua.LNumber)
		})

		out := make([]interface{}, len(keys))
		for i, k := range keys {
			item, err := luaToJSON(tbl.RawGet(k), visited)
			if err != nil {
				return nil, err
			}
			out[i] = item
		}
		return out, nil
	}

	out := make(map[string]interface{}, len(keys))
	for _, k := range keys {
		item, err := luaToJSON(tbl.RawGet(k), visited)
		if err != nil {
			return nil, err
		}
		out[k.String()] = item
	}
	return out, nil
}

func luaToJSON(v lua.LValue, visited map[*lua.LTable]bool) (interface{}, error) {
	switch value := v.(type) {
	case *lua.LNilType:
		return nil, nil
	case lua.LBool:
		return bool(value), nil
	case lua.LNumber:
		return float64(value), nil
	case lua.LString:
		return string(value), nil
	case *lua.LTable:
		return tableToJSON(value, visited)
	default:
		return nil, &InvalidDataTypeError{
			Context: "unexpected data type for cjson.encode",
			Value:   describeLuaValue(v),
		}
	}
}
