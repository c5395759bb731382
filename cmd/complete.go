// Copyright © 2026 The apexls authors

package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/luthersystems/apexls/completion"
	"github.com/muesli/reflow/padding"
	"github.com/spf13/cobra"
)

// completionItem is the JSON form of a completion candidate.
type completionItem struct {
	Label  string `json:"label"`
	Kind   string `json:"kind"`
	Detail string `json:"detail,omitempty"`
	Static bool   `json:"static,omitempty"`
}

type completionOutput struct {
	IsIncomplete bool             `json:"isIncomplete"`
	Items        []completionItem `json:"items"`
}

// CompleteCommand creates the "complete" command.
func CompleteCommand(opts ...Option) *cobra.Command {
	c := newCmdConfig(opts)
	var (
		pos    positionFlags
		limit  int
		root   string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "complete FILE",
		Short: "List completions at a position in an Apex file",
		Long: `List the completion candidates for the cursor at a position in FILE,
best first.

Without --root only FILE's own declarations are known. With --root, types
declared elsewhere in the workspace resolve too.

Examples:
  apexls complete Calc.cls --line 10 --col 11
  apexls complete Calc.cls --offset 312 --limit 0 --json
  apexls complete force-app/main/Calc.cls --line 4 --col 9 --root force-app`,
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
			if ix != nil {
				defer ix.Close() //nolint:errcheck // read-only use
			}

			res, err := newEngine(cfg, ix, limit).CompleteSource(cmd.Context(), text, offset)
			if errors.Is(err, completion.ErrUnsupported) {
				fmt.Fprintln(cmd.ErrOrStderr(), "no completions here:", err)
				return nil
			}
			if err != nil {
				return err
			}
			if asJSON {
				return writeCompletionJSON(cmd.OutOrStdout(), res)
			}
			writeCompletionTable(cmd.OutOrStdout(), res)
			return nil
		},
	}
	pos.register(cmd)
	cmd.Flags().IntVar(&limit, "limit", -1, "maximum number of items (0 = unbounded, default from config)")
	cmd.Flags().StringVar(&root, "root", "", "workspace root to index for cross-file types")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func toCompletionItem(cand completion.Candidate) completionItem {
	return completionItem{
		Label:  cand.Name(),
		Kind:   cand.Label(),
		Detail: cand.Detail(),
		Static: cand.Static,
	}
}

func writeCompletionJSON(w io.Writer, res *completion.Result) error {
	out := completionOutput{IsIncomplete: res.IsIncomplete, Items: []completionItem{}}
	for _, cand := range res.Items {
		out.Items = append(out.Items, toCompletionItem(cand))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// writeCompletionTable prints one candidate per line in aligned label,
// kind and detail columns.
func writeCompletionTable(w io.Writer, res *completion.Result) {
	items := make([]completionItem, len(res.Items))
	width := 0
	for i, cand := range res.Items {
		items[i] = toCompletionItem(cand)
		width = max(width, len(items[i].Label))
	}
	for _, item := range items {
		fmt.Fprintf(w, "%s  %s  %s\n",
			padding.String(item.Label, uint(width)), //nolint:gosec // non-negative
			padding.String(item.Kind, 11),
			item.Detail)
	}
	if res.IsIncomplete {
		fmt.Fprintln(w, "...")
	}
}
