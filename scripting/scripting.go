// Package scripting runs Lua scripts against a store, with the semantics of the Redis EVAL, EVALSHA and SCRIPT
// commands: scripts see KEYS and ARGV tables, call back into the store with redis.call, and their return value is
// converted the way Redis converts script replies.
//
// Scripts run in an embedded [gopher-lua] VM, commands reach the store through an [adapters.Adapter]. There is no
// transactional guarantee: writes made by a script before it fails are kept.
//
// [gopher-lua]: https://github.com/yuin/gopher-lua
package scripting

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aidenwallis/go-redis-scripting/scripting/adapters"
)

// Scripter wraps an adapter and adds script evaluation on top of it. A Scripter is itself an adapter, calls to Call
// are passed through to the wrapped store.
type Scripter struct {
	// Adapter is the wrapped store
	Adapter adapters.Adapter

	registry *Registry
	logger   *slog.Logger
}

var (
	_ adapters.Adapter    = (*Scripter)(nil)
	_ adapters.Scriptable = (*Scripter)(nil)
)

// DefaultRegistry is the registry used by every Scripter created without WithRegistry, so a script loaded through
// one Scripter can be run by hash from any other.
var DefaultRegistry = NewRegistry()

// Option configures a Scripter.
type Option func(*Scripter)

// WithRegistry replaces DefaultRegistry with a registry of the caller's own. Scripters sharing a registry can run
// each other's scripts by hash.
func WithRegistry(registry *Registry) Option {
	return func(s *Scripter) {
		s.registry = registry
	}
}

// WithLogger sets the logger receiving store call traces and redis.log output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scripter) {
		s.logger = logger
	}
}

// Wrap creates a Scripter over adapter, which must implement adapters.Scriptable and report true.
//
// Wrapping a Scripter returns it unchanged, opts are ignored in that case.
func Wrap(adapter adapters.Adapter, opts ...Option) (*Scripter, error) {
	if s, ok := adapter.(*Scripter); ok {
		return s, nil
	}

	if scriptable, ok := adapter.(adapters.Scriptable); !ok || !scriptable.SupportsScripting() {
		return nil, ErrNotScriptable
	}

	s := &Scripter{
		Adapter:  adapter,
		registry: DefaultRegistry,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Registry returns the registry backing EvalSha and Script.
func (s *Scripter) Registry() *Registry {
	return s.registry
}

// Call passes cmd straight through to the wrapped store.
func (s *Scripter) Call(ctx context.Context, cmd string, args []string, opts *adapters.Options) (interface{}, error) {
	return s.Adapter.Call(ctx, cmd, args, opts)
}

// SupportsScripting reports true, Scripters can be passed wherever a scriptable adapter is expected.
func (s *Scripter) SupportsScripting() bool {
	return true
}

// Eval runs source with the given keys and args, see https://redis.io/commands/eval
//
// Args are converted to strings before the script sees them. WithKeys and WithArgv take precedence over the
// positional keys and args.
//
// The result is nil, int64, string, or a []interface{} of those.
func (s *Scripter) Eval(ctx context.Context, source string, keys []string, args []interface{}, opts ...EvalOption) (interface{}, error) {
	in := evalArgs{keys: keys, argv: args}
	for _, opt := range opts {
		opt(&in)
	}

	e := &execution{
		ctx:     ctx,
		adapter: s.Adapter,
		logger:  s.logger,
	}
	return e.run(source, in.keys, toArgStrings(in.argv))
}

// EvalSha runs a script previously loaded with ScriptLoad, see https://redis.io/commands/evalsha
func (s *Scripter) EvalSha(ctx context.Context, sha string, keys []string, args []interface{}, opts ...EvalOption) (interface{}, error) {
	source, ok := s.registry.Get(sha)
	if !ok {
		return nil, ErrNoScript
	}
	return s.Eval(ctx, source, keys, args, opts...)
}

// Script dispatches the SCRIPT subcommands load, exists and flush.
//
//	Script("load", source)          -> string hash
//	Script("exists", hash)          -> bool
//	Script("exists", []string{...}) -> []bool
//	Script("exists", hash, hash...) -> []bool
//	Script("flush")                 -> "OK"
func (s *Scripter) Script(subcommand string, args ...interface{}) (interface{}, error) {
	switch strings.ToLower(subcommand) {
	case "load":
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: script load expects exactly one source, got %d arguments", ErrInvalidArguments, len(args))
		}
		source, ok := args[0].(string)
		if !ok {
			return nil, fmt.Errorf("%w: script load expects a string source but got %T", ErrInvalidArguments, args[0])
		}
		return s.ScriptLoad(source), nil

	case "exists":
		if len(args) == 1 {
			switch v := args[0].(type) {
			case string:
				return s.ScriptExists(v)[0], nil
			case []string:
				return s.ScriptExists(v...), nil
			}
		}

		hashes := make([]string, len(args))
		for i, arg := range args {
			hash, ok := arg.(string)
			if !ok {
				return nil, fmt.Errorf("%w: script exists expects string hashes but got %T in args[%d]", ErrInvalidArguments, arg, i)
			}
			hashes[i] = hash
		}
		if len(hashes) == 0 {
			return nil, fmt.Errorf("%w: script exists expects at least one hash", ErrInvalidArguments)
		}
		return s.ScriptExists(hashes...), nil

	case "flush":
		for _, arg := range args {
			if mode, ok := arg.(string); !ok || (!strings.EqualFold(mode, "async") && !strings.EqualFold(mode, "sync")) {
				return nil, fmt.Errorf("%w: script flush only accepts ASYNC or SYNC", ErrInvalidArguments)
			}
		}
		s.ScriptFlush()
		return "OK", nil

	default:
		return nil, &InvalidCommandError{
			Command: "script",
			Args:    []string{subcommand},
			Cause:   ErrUnknownSubcommand,
		}
	}
}

// ScriptLoad stores source in the registry and returns its hash.
func (s *Scripter) ScriptLoad(source string) string {
	return s.registry.Load(source)
}

// ScriptExists reports whether each hash is loaded.
func (s *Scripter) ScriptExists(hashes ...string) []bool {
	return s.registry.Exists(hashes...)
}

// ScriptFlush removes all loaded scripts.
func (s *Scripter) ScriptFlush() {
	s.registry.Flush()
}
