// Package cli implements the sketch command line.
package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/gogpu/sketch"
	"github.com/gogpu/sketch/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
	LogFormat  string // "text" | "json"

	// Config is loaded before any subcommand runs.
	Config *config.Config
}

// ValidLogFormats defines the allowed log formats.
var ValidLogFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the sketch CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "sketch",
		Short: "sketch - drawing history and filtered export",
		Long: `Drive a sketch canvas from the command line.

Images can be exported through the filter chain, and drawing sessions
with full undo history can be kept in a SQLite archive.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd, opts)
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to a YAML config file")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")
	cmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "", "log format (text|json), overrides config")

	// Add subcommands
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewSessionCommand(opts))

	return cmd
}

func setup(cmd *cobra.Command, opts *RootOptions) error {
	if opts.LogFormat != "" && !slices.Contains(ValidLogFormats, opts.LogFormat) {
		return fmt.Errorf("invalid log format %q: must be one of %v", opts.LogFormat, ValidLogFormats)
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.LogFormat != "" {
		cfg.Log.Format = opts.LogFormat
	}
	if opts.Verbose {
		cfg.Log.Level = "debug"
	}
	logger, err := cfg.Log.NewLogger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	sketch.SetLogger(logger)
	opts.Config = cfg
	return nil
}
