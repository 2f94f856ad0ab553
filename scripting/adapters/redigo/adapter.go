package redigo

import (
	"context"

	"github.com/aidenwallis/go-redis-scripting/scripting/adapters"
	"github.com/gomodule/redigo/redis"
)

// Adapter is a [redigo] implementation compatible with [github.com/aidenwallis/go-redis-scripting/scripting/adapters]
//
// Bulk replies arrive from redigo as []byte and are handed back as strings.
//
// [redigo]: https://github.com/gomodule/redigo
type Adapter struct {
	Conn redis.Conn
}

var (
	_ adapters.Adapter    = (*Adapter)(nil)
	_ adapters.Scriptable = (*Adapter)(nil)
)

// NewAdapter creates a new adapter using the [redigo] client.
//
// [redigo]: https://github.com/gomodule/redigo
func NewAdapter(conn redis.Conn) *Adapter {
	return &Adapter{Conn: conn}
}

// Call sends cmd with its arguments over the connection.
func (a *Adapter) Call(ctx context.Context, cmd string, args []string, opts *adapters.Options) (interface{}, error) {
	out, err := redis.DoContext(a.Conn, ctx, cmd, adapters.CommandArgs(args, opts)...)
	if err != nil {
		return nil, err
	}
	return normalize(out), nil
}

// SupportsScripting reports that redigo connections can host scripts.
func (a *Adapter) SupportsScripting() bool {
	return true
}

func normalize(v interface{}) interface{} {
	switch value := v.(type) {
	case []byte:
		return string(value)
	case []interface{}:
		out := make([]interface{}, len(value))
		for i, item := range value {
			out[i] = normalize(item)
		}
		return out
	default:
		return v
	}
}
