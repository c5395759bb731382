// Copyright © 2026 The apexls authors

package cmd

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/luthersystems/apexls/analysis"
	"github.com/spf13/cobra"
)

// positionFlags locate the cursor in a file, either as a byte offset or as
// a 1-based line and byte column.
type positionFlags struct {
	offset int
	line   int
	col    int
}

func (p *positionFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&p.offset, "offset", -1, "0-based byte offset of the cursor")
	cmd.Flags().IntVar(&p.line, "line", 0, "1-based line of the cursor (with --col)")
	cmd.Flags().IntVar(&p.col, "col", 0, "1-based byte column of the cursor (with --line)")
	cmd.MarkFlagsMutuallyExclusive("offset", "line")
	cmd.MarkFlagsRequiredTogether("line", "col")
}

// resolve returns the cursor offset in text.
func (p *positionFlags) resolve(text string) (int, error) {
	switch {
	case p.offset >= 0:
		if p.offset > len(text) {
			return 0, errors.Newf("offset %d is past the end of the file (%d bytes)", p.offset, len(text))
		}
		return p.offset, nil
	case p.line > 0 && p.col > 0:
		return analysis.OffsetAt(text, p.line-1, p.col-1), nil
	}
	return 0, errors.New("a cursor position is required: --offset N or --line L --col C")
}

func readSource(path string) (string, error) {
	b, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
	if err != nil {
		return "", errors.Wrap(err, "read source")
	}
	return string(b), nil
}
