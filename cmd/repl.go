// Copyright © 2026 The apexls authors

package cmd

import (
	"path/filepath"

	"github.com/luthersystems/apexls/completion"
	"github.com/luthersystems/apexls/repl"
	"github.com/spf13/cobra"
)

// ReplCommand creates the "repl" command.
func ReplCommand(opts ...Option) *cobra.Command {
	c := newCmdConfig(opts)
	var (
		root  string
		width int
	)

	cmd := &cobra.Command{
		Use:   "repl [FILE]",
		Short: "Start an interactive completion shell",
		Long: `Start an interactive shell for exploring completions.

Each line typed is inserted into a buffer, FILE's contents or an empty
one, and completed at its end; Tab completes as an editor would. By default
lines go just inside the last method of FILE's first type. Line editing
and command history are supported via readline. Use :help for commands and
Ctrl-D or :quit to exit.

Example session:
  apex> c.
  total  field        Integer total
  add    method       Integer add(Integer a, Integer b)
  apex> :hover c.add
  method Integer add(Integer a, Integer b)
    declared in class Calc`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.settings()
			if err != nil {
				return err
			}
			ix, err := c.openIndex(cmd.Context(), cfg, root)
			if err != nil {
				return err
			}
			var lookup completion.TypeLookup
			if ix != nil {
				defer ix.Close() //nolint:errcheck // read-only use
				lookup = ix.Lookup
			}

			replOpts := []repl.Option{
				repl.WithEngine(newEngine(cfg, ix, -1)),
				repl.WithLookup(lookup),
				repl.WithWidth(width),
				repl.WithStdout(cmd.ErrOrStderr()),
			}
			if len(args) == 1 {
				text, err := readSource(args[0])
				if err != nil {
					return err
				}
				replOpts = append(replOpts, repl.WithSource(filepath.Base(args[0]), text))
			}
			return repl.Run(cmd.Context(), replOpts...)
		},
	}
	cmd.Flags().StringVar(&root, "root", "", "workspace root to index for cross-file types")
	cmd.Flags().IntVar(&width, "width", 72, "wrap hover text at this column")
	return cmd
}
