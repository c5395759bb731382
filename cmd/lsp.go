// Copyright © 2026 The apexls authors

package cmd

import (
	"fmt"

	"github.com/luthersystems/apexls/logger"
	"github.com/luthersystems/apexls/lsp"
	"github.com/spf13/cobra"
)

// LSPCommand creates the "lsp" cobra command.
func LSPCommand(opts ...Option) *cobra.Command {
	c := newCmdConfig(opts)

	var (
		stdio bool
		port  int
	)

	cmd := &cobra.Command{
		Use:   "lsp [flags]",
		Short: "Start the Apex Language Server Protocol server",
		Long: `Start an LSP server for Apex source files.

The language server provides completion, hover, go-to-definition,
document and workspace symbols, folding ranges and syntax diagnostics.
Types declared anywhere under the workspace root are indexed in the
background and kept current while files change.

Transport modes:
  --stdio      Use stdin/stdout for LSP communication (default)
  --port N     Listen for an LSP client on TCP port N

Logs always go to stderr.

Examples:
  apexls lsp                           Start with stdio transport
  apexls lsp --stdio                   Same as above (explicit)
  apexls lsp --port 7998               Start with TCP on port 7998

Editor configuration (VS Code):
  Install a generic LSP client extension and configure it to run
  "apexls lsp --stdio" for .cls and .trigger files.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := c.settings()
			if err != nil {
				return err
			}
			serverOpts := []lsp.Option{
				lsp.WithConfig(cfg),
				lsp.WithLogger(logger.Named("lsp")),
			}
			if c.store != nil {
				serverOpts = append(serverOpts, lsp.WithStore(c.store))
			}
			p, err := workspaceParser(cfg)
			if err != nil {
				return err
			}
			if p != nil {
				serverOpts = append(serverOpts, lsp.WithParser(p))
			}
			srv := lsp.New(serverOpts...)

			if !stdio && port > 0 {
				addr := fmt.Sprintf("localhost:%d", port)
				logger.Logger.Infow("LSP server listening", "addr", addr)
				return srv.RunTCP(addr)
			}
			return srv.RunStdio()
		},
	}

	cmd.Flags().BoolVar(&stdio, "stdio", false,
		"Use stdin/stdout for LSP communication (default behavior)")
	cmd.Flags().IntVar(&port, "port", 0,
		"TCP port for LSP server (use instead of --stdio)")

	return cmd
}
