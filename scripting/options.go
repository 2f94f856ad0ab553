package scripting

import (
	"fmt"
)

// EvalOption overrides the keys or args passed to Eval and EvalSha.
type EvalOption func(*evalArgs)

type evalArgs struct {
	keys []string
	argv []interface{}
}

// WithKeys sets the KEYS table, replacing the positional keys.
func WithKeys(keys ...string) EvalOption {
	return func(a *evalArgs) {
		a.keys = keys
	}
}

// WithArgv sets the ARGV table, replacing the positional args.
func WithArgv(argv ...interface{}) EvalOption {
	return func(a *evalArgs) {
		a.argv = argv
	}
}

func toArgStrings(args []interface{}) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		out[i] = toArgString(arg)
	}
	return out
}

// toArgString follows go-redis' argument encoding: bools become 1 or 0, floats use the shortest exact form.
func toArgString(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case []byte:
		return string(value)
	case bool:
		if value {
			return "1"
		}
		return "0"
	case float32:
		return formatNumber(float64(value))
	case float64:
		return formatNumber(value)
	default:
		return fmt.Sprint(value)
	}
}
