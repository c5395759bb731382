// Copyright © 2026 The apexls authors

package cmd

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/luthersystems/apexls/analysis"
	"github.com/luthersystems/apexls/completion"
	"github.com/luthersystems/apexls/hover"
	"github.com/spf13/cobra"
)

// errNoSymbol is returned when nothing resolves at the cursor.
var errNoSymbol = errors.New("no symbol at position")

// HoverCommand creates the "hover" command.
func HoverCommand(opts ...Option) *cobra.Command {
	c := newCmdConfig(opts)
	var (
		pos   positionFlags
		root  string
		width int
	)

	cmd := &cobra.Command{
		Use:   "hover FILE",
		Short: "Describe the symbol at a position in an Apex file",
		Long: `Print the kind and signature of the declaration named at a position in
FILE, and the type declaring it.

Examples:
  apexls hover Calc.cls --line 4 --col 20
  apexls hover Calc.cls --offset 97 --root force-app`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.settings()
			if err != nil {
				return err
			}
			text, err := readSource(args[0])
			if err != nil {
				return err
			}
			offset, err := pos.resolve(text)
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

			info := hover.At(cmd.Context(), text, offset, analysis.IndexSource(text), lookup)
			if info == nil {
				return errNoSymbol
			}
			fmt.Fprint(cmd.OutOrStdout(), info.Text(width))
			return nil
		},
	}
	pos.register(cmd)
	cmd.Flags().StringVar(&root, "root", "", "workspace root to index for cross-file types")
	cmd.Flags().IntVar(&width, "width", 72, "wrap the description at this column")
	return cmd
}
