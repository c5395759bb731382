// Copyright © 2026 The apexls authors

// Package repl implements an interactive completion shell. Each input line
// is inserted into a source buffer at an insertion point and completed at
// its end, so the shell answers the same questions an editor would ask.
package repl

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ergochat/readline"
	"github.com/luthersystems/apexls/completion"
	"github.com/luthersystems/apexls/logger"
)

// DefaultPrompt is shown before each input line.
const DefaultPrompt = "apex> "

type config struct {
	stdin       io.ReadCloser
	stdout      io.Writer
	prompt      string
	engine      *completion.Engine
	lookup      completion.TypeLookup
	name        string
	text        string
	width       int
	historyFile string
}

func newConfig(opts ...Option) *config {
	c := &config{
		stdout:      os.Stderr,
		prompt:      DefaultPrompt,
		width:       72,
		historyFile: historyPath(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.engine == nil {
		c.engine = completion.New(completion.WithLookup(c.lookup))
	}
	return c
}

// Option configures the shell.
type Option func(*config)

// WithStdin overrides the input of the shell.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) { c.stdin = stdin }
}

// WithStdout overrides the output of the shell, stderr by default.
func WithStdout(w io.Writer) Option {
	return func(c *config) { c.stdout = w }
}

// WithPrompt replaces DefaultPrompt.
func WithPrompt(prompt string) Option {
	return func(c *config) { c.prompt = prompt }
}

// WithEngine sets the completion engine. Without it a default engine
// using the lookup given to WithLookup is built.
func WithEngine(e *completion.Engine) Option {
	return func(c *config) { c.engine = e }
}

// WithLookup resolves types declared outside the buffer for hover, and
// for completion when no engine is given.
func WithLookup(lookup completion.TypeLookup) Option {
	return func(c *config) { c.lookup = lookup }
}

// WithSource loads text, named name, as the initial buffer.
func WithSource(name, text string) Option {
	return func(c *config) { c.name, c.text = name, text }
}

// WithWidth sets the column at which hover text wraps.
func WithWidth(width int) Option {
	return func(c *config) { c.width = width }
}

// WithHistoryFile sets the history file. Empty disables history.
func WithHistoryFile(path string) Option {
	return func(c *config) { c.historyFile = path }
}

// Run reads lines until EOF or :quit.
func Run(ctx context.Context, opts ...Option) error {
	cfg := newConfig(opts...)
	s := newSession(cfg)

	ensureHistoryFilePermissions(cfg.historyFile)
	rlCfg := &readline.Config{
		Stdout:            cfg.stdout,
		Stderr:            cfg.stdout,
		Prompt:            cfg.prompt,
		HistoryFile:       cfg.historyFile,
		HistorySearchFold: true,
		AutoComplete:      &completer{ctx: ctx, s: s},
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return errors.Wrap(err, "start line editor")
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	s.printf("%s\n", s.describe())
	for {
		line, err := rl.ReadLine()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if quit := s.handle(ctx, line); quit {
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".apexls_history")
}

// ensureHistoryFilePermissions creates the history file if needed and
// restricts it to the owner, since it may hold source snippets.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0o600) //nolint:gosec // user history file
	if err != nil {
		logger.Logger.Debugw("history file", logger.FieldFile, path, logger.FieldError, err)
		return
	}
	_ = f.Close()
	if err := os.Chmod(path, 0o600); err != nil {
		logger.Logger.Debugw("history file permissions", logger.FieldFile, path, logger.FieldError, err)
	}
}
