package scripting

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoScript is returned by EvalSha when the hash isn't in the registry.
	ErrNoScript = errors.New("NOSCRIPT No matching script. Please use EVAL.")

	// ErrUnknownSubcommand is the cause of the InvalidCommandError returned by Script for anything other than load,
	// exists or flush.
	ErrUnknownSubcommand = errors.New("unknown script subcommand")

	// ErrInvalidArguments is returned for malformed Script calls.
	ErrInvalidArguments = errors.New("invalid arguments")

	// ErrNotScriptable is returned by Wrap when the adapter can't host scripts.
	ErrNotScriptable = errors.New("can only wrap adapters that support scripting")
)

// InvalidCommandError is raised when a script calls a command that isn't allowed, or when its arguments or result
// couldn't be converted.
type InvalidCommandError struct {
	// Command is the lower cased command name.
	Command string

	// Args is a printable form of the arguments the script passed.
	Args []string

	// Cause is the underlying conversion failure, if any.
	Cause error
}

func (e *InvalidCommandError) Error() string {
	msg := fmt.Sprintf("invalid command (cmd: %s, args: [%s])", e.Command, strings.Join(e.Args, ", "))
	if e.Cause != nil {
		msg += " caused by: " + e.Cause.Error()
	}
	return msg
}

func (e *InvalidCommandError) Unwrap() error {
	return e.Cause
}

// InvalidDataTypeError is raised when a value crossing between Lua, the store and the caller is outside the accepted
// set of types.
type InvalidDataTypeError struct {
	// Context describes the boundary the value was crossing.
	Context string

	// Value is a printable form of the rejected value.
	Value string
}

func (e *InvalidDataTypeError) Error() string {
	return fmt.Sprintf("invalid data type: %s (was: %s)", e.Context, e.Value)
}
