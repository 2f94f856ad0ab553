package cli

import (
	"fmt"
	"os"

	"github.com/aidenwallis/go-redis-scripting/scripting"
	"github.com/spf13/cobra"
)

// NewShaCommand creates the sha command.
func NewShaCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sha <script-file>...",
		Short: "Print the hash EVALSHA uses for each script",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, path := range args {
				source, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("reading script: %w", err)
				}

				sha := scripting.Hash(string(source))
				if rootOpts.Format == "json" {
					if err := writeResult(cmd.OutOrStdout(), rootOpts.Format, map[string]string{"path": path, "sha": sha}); err != nil {
						return err
					}
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", sha, path)
			}
			return nil
		},
	}
}
