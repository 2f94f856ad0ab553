package adapters

import "context"

// Adapter provides a generic command interface over a Redis-compatible store. Scripts evaluated by
// [github.com/aidenwallis/go-redis-scripting/scripting] call back into the store exclusively through this interface.
//
// This package ships with support for [go-redis] and [redigo], see [github.com/aidenwallis/go-redis-scripting/scripting/adapters/go-redis]
// and [github.com/aidenwallis/go-redis-scripting/scripting/adapters/redigo], plus an in-process store in
// [github.com/aidenwallis/go-redis-scripting/scripting/adapters/memory].
//
// Alternatively, if you ship your own store, you can build your own wrapper compatible with this interface to consume this
// package.
//
// [go-redis]: https://github.com/redis/go-redis
// [redigo]: https://github.com/gomodule/redigo
type Adapter interface {
	// Call executes a single named command against the store.
	//
	// cmd is always lower case. opts is nil unless the script passed a modifier keyword (see Options).
	//
	// The output must be one of: nil (no value), bool, an integer type, float64, string, or a []interface{} / []string
	// containing those same types.
	Call(ctx context.Context, cmd string, args []string, opts *Options) (output interface{}, err error)
}

// Scriptable is implemented by adapters that can host scripts. Wrapping an adapter that doesn't implement it, or
// reports false, is rejected.
type Scriptable interface {
	SupportsScripting() bool
}

// Options holds the modifier keywords stripped from a script's positional arguments.
type Options struct {
	// Limit is set when the arguments ended in LIMIT offset count.
	Limit *Limit

	// WithScores is set when the arguments ended in WITHSCORES.
	WithScores bool
}

// Limit is the LIMIT modifier of the range-by-score and range-by-lex commands.
type Limit struct {
	Offset string
	Count  string
}

// Args renders the options back into trailing command tokens, for adapters that speak the Redis protocol.
func (o *Options) Args() []string {
	if o == nil {
		return nil
	}

	var out []string
	if o.WithScores {
		out = append(out, "WITHSCORES")
	}
	if o.Limit != nil {
		out = append(out, "LIMIT", o.Limit.Offset, o.Limit.Count)
	}
	return out
}

// CommandArgs builds the full argument list of a protocol level command: positional args followed by the rendered options.
func CommandArgs(args []string, opts *Options) []interface{} {
	tail := opts.Args()
	out := make([]interface{}, 0, len(args)+len(tail))
	for _, v := range args {
		out = append(out, v)
	}
	for _, v := range tail {
		out = append(out, v)
	}
	return out
}
