// Copyright © 2026 The apexls authors

// Package cmd implements the apexls command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/luthersystems/apexls/config"
	"github.com/luthersystems/apexls/diagnostic"
	"github.com/luthersystems/apexls/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	colorFlag string
	configErr error
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "apexls",
	Short: "apexls: Apex completion and hover engine",
	Long: `apexls answers code completion and hover requests for Apex source
files (.cls, .trigger). It runs as a Language Server Protocol server for
editors and offers one-shot commands for scripts and debugging.

Getting started:
  apexls lsp                              Serve LSP over stdio
  apexls complete Foo.cls --line 12 --col 9
                                          List completions at a position
  apexls hover Foo.cls --offset 240       Describe the symbol at an offset
  apexls index --root force-app           Index a workspace
  apexls index Foo.cls                    Outline a file, report syntax errors
  apexls repl Foo.cls                     Interactive completion shell

Settings are read from $HOME/.apexls.yaml (or --config) and APEXLS_*
environment variables:
  completion.limit      maximum items per request (default 25, 0 = unbounded)
  completion.keywords   offer Apex keywords (default true)
  workspace.cache       sqlite file persisting the workspace index
  workspace.watch       re-index files as they change (default true)
  workspace.parser      builtin or java (tree-sitter grammar) for indexing
  log.level             debug, info, warn or error (default info)
  log.json              JSON log lines on stderr (default false)`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	logger.Cleanup()
	if err != nil {
		fmt.Fprintln(os.Stderr, "apexls:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.apexls.yaml)")
	flags.StringVar(&colorFlag, "color", "auto",
		`Control colored output: "auto", "always", or "never".`)
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.Bool("log-json", false, "write JSON log lines")
	_ = viper.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = viper.BindPFlag(config.KeyLogJSON, flags.Lookup("log-json"))

	rootCmd.AddCommand(
		LSPCommand(),
		CompleteCommand(),
		HoverCommand(),
		IndexCommand(),
		ReplCommand(),
	)
}

// initConfig reads in config file and ENV variables if set. A failure is
// kept in configErr and reported when a command loads its settings, since
// stdout may carry the LSP stream.
func initConfig() {
	configErr = readConfig(viper.GetViper(), cfgFile)
}

// readConfig applies defaults to v and reads file, or $HOME/.apexls.* when
// file is empty. Only a missing default config file is ignored.
func readConfig(v *viper.Viper, file string) error {
	config.SetDefaults(v)
	if file != "" {
		v.SetConfigFile(file)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		v.AddConfigPath(home)
		v.SetConfigName(".apexls")
	}
	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err == nil || (file == "" && errors.As(err, &notFound)) {
		return nil
	}
	return errors.Wrap(err, "read config")
}

func colorMode() diagnostic.ColorMode {
	mode, _ := diagnostic.ParseColorMode(colorFlag)
	return mode
}
