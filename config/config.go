// Copyright © 2026 The apexls authors

// Package config defines the apexls settings and their defaults. Values are
// read through viper so they can come from a config file, APEXLS_* environment
// variables or command line flags bound by the cmd package.
package config

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables overriding settings,
// e.g. APEXLS_COMPLETION_LIMIT.
const EnvPrefix = "APEXLS"

// Setting keys.
const (
	KeyCompletionLimit    = "completion.limit"
	KeyCompletionKeywords = "completion.keywords"
	KeyWorkspaceCache     = "workspace.cache"
	KeyWorkspaceWatch     = "workspace.watch"
	KeyWorkspaceParser    = "workspace.parser"
	KeyLogLevel           = "log.level"
	KeyLogJSON            = "log.json"
)

// Workspace parsers. ParserBuiltin is the error tolerant Apex parser; the
// others name tree-sitter grammars.
const (
	ParserBuiltin = "builtin"
	ParserJava    = "java"
)

// DefaultCompletionLimit bounds the number of completion items returned.
const DefaultCompletionLimit = 25

// Config holds every apexls setting.
type Config struct {
	Completion Completion
	Workspace  Workspace
	Log        Log
}

// Completion settings.
type Completion struct {
	// Limit is the maximum number of items returned per request. Values
	// <= 0 disable the bound.
	Limit int
	// Keywords offers language keywords at the top level.
	Keywords bool
}

// Workspace settings.
type Workspace struct {
	// Cache is the path of the sqlite database holding indexed types. Empty
	// keeps the index in memory.
	Cache string
	// Watch re-indexes files as they change on disk.
	Watch bool
	// Parser selects how workspace files are parsed.
	Parser string
}

// Log settings.
type Log struct {
	Level string
	JSON  bool
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Completion: Completion{Limit: DefaultCompletionLimit, Keywords: true},
		Workspace:  Workspace{Watch: true, Parser: ParserBuiltin},
		Log:        Log{Level: "info"},
	}
}

// SetDefaults registers the built-in settings on v and enables environment
// overrides.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyCompletionLimit, d.Completion.Limit)
	v.SetDefault(KeyCompletionKeywords, d.Completion.Keywords)
	v.SetDefault(KeyWorkspaceCache, d.Workspace.Cache)
	v.SetDefault(KeyWorkspaceWatch, d.Workspace.Watch)
	v.SetDefault(KeyWorkspaceParser, d.Workspace.Parser)
	v.SetDefault(KeyLogLevel, d.Log.Level)
	v.SetDefault(KeyLogJSON, d.Log.JSON)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads the settings from v, which should have had SetDefaults
// applied.
func Load(v *viper.Viper) (*Config, error) {
	c := &Config{
		Completion: Completion{
			Limit:    v.GetInt(KeyCompletionLimit),
			Keywords: v.GetBool(KeyCompletionKeywords),
		},
		Workspace: Workspace{
			Cache:  v.GetString(KeyWorkspaceCache),
			Watch:  v.GetBool(KeyWorkspaceWatch),
			Parser: strings.ToLower(v.GetString(KeyWorkspaceParser)),
		},
		Log: Log{
			Level: strings.ToLower(v.GetString(KeyLogLevel)),
			JSON:  v.GetBool(KeyLogJSON),
		},
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.Newf("invalid %s %q", KeyLogLevel, c.Log.Level)
	}
	switch c.Workspace.Parser {
	case ParserBuiltin, ParserJava:
	default:
		return errors.Newf("invalid %s %q", KeyWorkspaceParser, c.Workspace.Parser)
	}
	return nil
}
