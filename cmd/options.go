// Copyright © 2026 The apexls authors

package cmd

import (
	"context"

	"github.com/luthersystems/apexls/completion"
	"github.com/luthersystems/apexls/config"
	"github.com/luthersystems/apexls/logger"
	"github.com/luthersystems/apexls/syntax"
	"github.com/luthersystems/apexls/workspace"
	"github.com/spf13/viper"
)

// Option configures an exported command factory (LSPCommand,
// CompleteCommand, HoverCommand, IndexCommand, ReplCommand).
type Option func(*cmdConfig)

type cmdConfig struct {
	cfg   *config.Config
	store workspace.Store
}

// WithConfig uses cfg instead of the settings read through viper.
// Embedders and tests use it to bypass config files and the environment.
func WithConfig(cfg *config.Config) Option {
	return func(c *cmdConfig) { c.cfg = cfg }
}

// WithStore injects the store backing the workspace index, overriding
// the workspace.cache setting.
func WithStore(s workspace.Store) Option {
	return func(c *cmdConfig) { c.store = s }
}

func newCmdConfig(opts []Option) *cmdConfig {
	c := &cmdConfig{}
	for _, o := range opts {
		o(c)
	}
	return c
}

// settings returns the injected config or loads it through viper and
// initializes the global logger from it.
func (c *cmdConfig) settings() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	if configErr != nil {
		return nil, configErr
	}
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}
	if err := logger.Initialize(logger.Options{JSON: cfg.Log.JSON, Level: cfg.Log.Level}); err != nil {
		return nil, err
	}
	if f := viper.ConfigFileUsed(); f != "" {
		logger.Logger.Debugw("using config file", logger.FieldFile, f)
	}
	c.cfg = cfg
	return cfg, nil
}

// openIndex scans root into the injected store, the configured sqlite
// cache or memory, in that order of preference. An empty root yields a
// nil index.
func (c *cmdConfig) openIndex(ctx context.Context, cfg *config.Config, root string) (*workspace.Index, error) {
	if root == "" {
		return nil, nil
	}
	ix, _, err := c.scanIndex(ctx, cfg, root)
	return ix, err
}

func (c *cmdConfig) scanIndex(ctx context.Context, cfg *config.Config, root string) (*workspace.Index, workspace.ScanStats, error) {
	p, err := workspaceParser(cfg)
	if err != nil {
		return nil, workspace.ScanStats{}, err
	}
	log := logger.Named("workspace")
	store := c.store
	if store == nil && cfg.Workspace.Cache != "" {
		s, err := workspace.OpenSQLStore(ctx, cfg.Workspace.Cache, log)
		if err != nil {
			return nil, workspace.ScanStats{}, err
		}
		store = s
	}
	wsOpts := []workspace.Option{workspace.WithLogger(log)}
	if p != nil {
		wsOpts = append(wsOpts, workspace.WithParser(p))
	}
	ix := workspace.New(root, store, wsOpts...)
	stats, err := ix.Scan(ctx)
	if err != nil {
		_ = ix.Close()
		return nil, stats, err
	}
	return ix, stats, nil
}

// workspaceParser returns the tree-sitter parser selected by
// workspace.parser, or nil for the built-in parser.
func workspaceParser(cfg *config.Config) (syntax.Parser, error) {
	switch cfg.Workspace.Parser {
	case "", config.ParserBuiltin:
		return nil, nil
	}
	lang, err := syntax.Grammar(cfg.Workspace.Parser)
	if err != nil {
		return nil, err
	}
	return syntax.NewTreeSitterParser(lang), nil
}

// newEngine builds a completion engine from cfg. A non-negative limit
// overrides the configured one.
func newEngine(cfg *config.Config, ix *workspace.Index, limit int) *completion.Engine {
	if limit < 0 {
		limit = cfg.Completion.Limit
	}
	opts := []completion.Option{
		completion.WithLimit(limit),
		completion.WithKeywords(cfg.Completion.Keywords),
		completion.WithLogger(logger.Named("completion")),
	}
	if ix != nil {
		opts = append(opts, completion.WithLookup(ix.Lookup))
	}
	return completion.New(opts...)
}
