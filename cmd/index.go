// Copyright © 2026 The apexls authors

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/luthersystems/apexls/analysis"
	"github.com/luthersystems/apexls/diagnostic"
	"github.com/luthersystems/apexls/parser/rdparser"
	"github.com/luthersystems/apexls/workspace"
	"github.com/spf13/cobra"
)

// IndexCommand creates the "index" command.
func IndexCommand(opts ...Option) *cobra.Command {
	c := newCmdConfig(opts)
	var (
		root     string
		cache    string
		asJSON   bool
		excludes []string
	)

	cmd := &cobra.Command{
		Use:   "index [flags] [files...]",
		Short: "Index a workspace or outline Apex files",
		Long: `With --root, scan the workspace for .cls and .trigger files and list the
indexed types. With --cache (or workspace.cache) the index is kept in a
sqlite file, so later scans only re-parse files modified since.

With files, print the declarations each file contains and report its
syntax errors. A path ending in "/..." stands for every source file below
that directory.

Exit codes:
  0  No syntax errors
  1  Syntax errors were reported, or the command failed

Examples:
  apexls index --root force-app
  apexls index --root force-app --cache .apexls.db
  apexls index force-app/...  --exclude '*Test.cls'
  apexls index --json Calc.cls`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.settings()
			if err != nil {
				return err
			}
			if root == "" && len(args) == 0 {
				return errors.New("nothing to index: pass --root or files")
			}
			if cache != "" {
				copied := *cfg
				copied.Workspace.Cache = cache
				cfg = &copied
			}
			out := cmd.OutOrStdout()

			if root != "" {
				ix, stats, err := c.scanIndex(cmd.Context(), cfg, root)
				if err != nil {
					return err
				}
				defer ix.Close() //nolint:errcheck // scan results are already stored
				recs, err := ix.Records(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s: %d files, %d indexed, %d removed, %d types\n",
					root, stats.Files, stats.Indexed, stats.Removed, len(recs))
				for _, r := range recs {
					fmt.Fprintf(out, "  %s\t%s\n", r.Name, r.File)
				}
			}

			files, err := expandArgs(args, excludes)
			if err != nil {
				return err
			}
			failed := 0
			outlines := make(map[string][]workspace.DeclRecord)
			r := &diagnostic.Renderer{Color: colorMode()}
			for _, path := range files {
				decls, diags, err := outlineFile(path)
				if err != nil {
					return err
				}
				if len(diags) > 0 {
					failed += len(diags)
					if err := r.RenderAll(cmd.ErrOrStderr(), diags); err != nil {
						return err
					}
				}
				if asJSON {
					recs := []workspace.DeclRecord{}
					for _, d := range decls {
						recs = append(recs, workspace.FromDecl(d))
					}
					outlines[path] = recs
					continue
				}
				fmt.Fprintf(out, "%s:\n", path)
				writeOutline(out, decls, 1)
			}
			if asJSON && len(files) > 0 {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(outlines); err != nil {
					return err
				}
			}
			if failed > 0 {
				return errors.Newf("%d syntax error(s)", failed)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&root, "root", "", "workspace root to scan")
	cmd.Flags().StringVar(&cache, "cache", "", "sqlite file persisting the index (overrides workspace.cache)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print file outlines as JSON")
	cmd.Flags().StringArrayVar(&excludes, "exclude", nil,
		"skip files matching a pattern (name, directory component or glob; repeatable)")
	return cmd
}

// outlineFile parses path and returns its top-level declarations and its
// syntax errors.
func outlineFile(path string) ([]analysis.Declaration, []diagnostic.Diagnostic, error) {
	text, err := readSource(path)
	if err != nil {
		return nil, nil, err
	}
	root, perr := rdparser.New(path).Parse([]byte(text))
	return analysis.Index(root, []byte(text)), diagnostic.FromSyntaxErrors(rdparser.SyntaxErrors(perr)), nil
}

// writeOutline prints one declaration per line, nesting members under
// their type.
func writeOutline(w io.Writer, decls []analysis.Declaration, depth int) {
	pad := strings.Repeat("  ", depth)
	for _, d := range decls {
		if d.Info().Name == "" {
			continue
		}
		fmt.Fprintf(w, "%s%s\n", pad, analysis.Detail(d))
		if t, ok := d.(*analysis.TypeDecl); ok {
			writeOutline(w, t.Members, depth+1)
		}
	}
}
