package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Format     string
	Config     *Config
}

// NewRootCommand creates the root command for the redis-lua CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{Config: DefaultConfig()}
	flags := DefaultConfig()

	cmd := &cobra.Command{
		Use:   "redis-lua",
		Short: "Run Redis Lua scripts against any store",
		Long: `Evaluate Redis Lua scripts with EVAL semantics. Scripts call back into a store
through redis.call: a Redis server reached with go-redis or redigo, or an
in-memory server started for the run.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}

			if opts.ConfigPath != "" {
				cfg, err := LoadConfig(opts.ConfigPath)
				if err != nil {
					return err
				}
				opts.Config = cfg
			}

			// explicit flags win over the config file
			f := cmd.Flags()
			if f.Changed("driver") {
				opts.Config.Driver = flags.Driver
			}
			if f.Changed("addr") {
				opts.Config.Addr = flags.Addr
			}
			if f.Changed("protocol") {
				opts.Config.Protocol = flags.Protocol
			}
			if f.Changed("verbose") {
				opts.Config.Verbose = flags.Verbose
			}
			return opts.Config.Validate()
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.ConfigPath, "config", "", "path to a YAML config file")
	pf.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	pf.StringVar(&flags.Driver, "driver", flags.Driver, "store driver (go-redis|redigo|memory)")
	pf.StringVar(&flags.Addr, "addr", flags.Addr, "redis address for the go-redis and redigo drivers")
	pf.IntVar(&flags.Protocol, "protocol", flags.Protocol, "RESP protocol version for the go-redis driver")
	pf.BoolVarP(&flags.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewEvalCommand(opts))
	cmd.AddCommand(NewShaCommand(opts))

	return cmd
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
