// Copyright © 2026 The apexls authors

// Package logger holds the process-wide structured logger.
//
// Logger is a no-op until Initialize is called, so library packages may
// log unconditionally. Components that are constructed explicitly (the
// language server, the workspace index) take a *zap.SugaredLogger instead
// and default to Logger.
package logger

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the global logger instance.
var Logger = zap.NewNop().Sugar()

// Options controls Initialize.
type Options struct {
	// JSON selects machine readable output.
	JSON bool
	// Level is a zap level name ("debug", "info", "warn", "error").
	// Empty means info.
	Level string
	// Output receives log lines. Nil means stderr: stdout is reserved for
	// the language server protocol stream.
	Output io.Writer
}

// Initialize replaces the global logger according to opts.
func Initialize(opts Options) error {
	l, err := New(opts)
	if err != nil {
		return err
	}
	Logger = l
	return nil
}

// New builds a logger without touching the global one.
func New(opts Options) (*zap.SugaredLogger, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, errors.Wrapf(err, "invalid log level %q", opts.Level)
		}
	}
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	var enc zapcore.Encoder
	if opts.JSON {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		enc = zapcore.NewConsoleEncoder(cfg)
	}
	core := zapcore.NewCore(enc, zapcore.AddSync(out), level)
	return zap.New(core).Sugar(), nil
}

// Named returns a child of the global logger tagged with a component
// name.
func Named(component string) *zap.SugaredLogger {
	return Logger.With(FieldComponent, component)
}

// Cleanup flushes any buffered log entries.
func Cleanup() {
	_ = Logger.Sync()
}
