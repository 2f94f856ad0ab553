package cli

import (
	"fmt"
	"os"

	"github.com/aidenwallis/go-redis-scripting/scripting"
	"github.com/spf13/cobra"
)

// EvalOptions holds flags for the eval command.
type EvalOptions struct {
	*RootOptions
	Keys []string
	Args []string
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EvalOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "eval <script-file>",
		Short: "Evaluate a Lua script",
		Long: `Evaluate a Lua script file with EVAL semantics and print its result.

Example:
  redis-lua eval ./incr.lua --key counter --arg 5
  redis-lua eval ./incr.lua --driver go-redis --addr localhost:6379 --key counter`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Keys, "key", "k", nil, "key passed in KEYS (repeatable)")
	cmd.Flags().StringArrayVarP(&opts.Args, "arg", "a", nil, "argument passed in ARGV (repeatable)")

	return cmd
}

func runEval(cmd *cobra.Command, opts *EvalOptions, path string) error {
	logger := newLogger(cmd.ErrOrStderr(), opts.Config.Verbose)

	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading script: %w", err)
	}

	adapter, closeAdapter, err := openAdapter(opts.Config)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeAdapter(); err != nil {
			logger.Error("error closing store", "error", err)
		}
	}()

	s, err := scripting.Wrap(adapter, scripting.WithLogger(logger))
	if err != nil {
		return err
	}

	argv := make([]interface{}, len(opts.Args))
	for i, arg := range opts.Args {
		argv[i] = arg
	}

	logger.Debug("evaluating script", "path", path, "sha", scripting.Hash(string(source)), "driver", opts.Config.Driver)

	result, err := s.Eval(cmd.Context(), string(source), opts.Keys, argv)
	if err != nil {
		return fmt.Errorf("evaluating %s: %w", path, err)
	}

	return writeResult(cmd.OutOrStdout(), opts.Format, result)
}
