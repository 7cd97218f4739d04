package cli

import (
	"fmt"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Config  string // optional TOML config file
	Lookup  string // "index" | "scan"

	// Database is the default sample database, from the config file.
	Database string

	// Logger is filtered by Verbose once flags are parsed.
	Logger log.Logger

	base log.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// Variable lookup strategies.
const (
	LookupIndex = "index"
	LookupScan  = "scan"
)

// ValidLookups defines the allowed lookup strategies.
var ValidLookups = []string{LookupIndex, LookupScan}

// NewRootCommand creates the root command for the wavequery CLI.
// logger receives structured diagnostics; nil discards them.
func NewRootCommand(logger log.Logger) *cobra.Command {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	opts := &RootOptions{base: logger, Logger: logger}

	cmd := &cobra.Command{
		Use:   "wavequery",
		Short: "wavequery - query waveform traces",
		Long:  "Read-only queries over recorded simulation traces: values, enum symbols, change times and header metadata.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.Config != "" {
				cfg, err := LoadConfig(opts.Config)
				if err != nil {
					return WrapExitError(ExitCommandError, "failed to load config", err)
				}
				opts.applyConfig(cmd, cfg)
			}

			// Validate format flag
			if !isOneOf(opts.Format, ValidFormats) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if !isOneOf(opts.Lookup, ValidLookups) {
				return fmt.Errorf("invalid lookup %q: must be one of %v", opts.Lookup, ValidLookups)
			}

			allow := level.AllowInfo()
			if opts.Verbose {
				allow = level.AllowDebug()
			}
			opts.Logger = level.NewFilter(opts.base, allow)
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "path to a TOML config file")
	cmd.PersistentFlags().StringVar(&opts.Lookup, "lookup", LookupIndex, "variable lookup (index|scan)")

	// Add subcommands
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewValueCommand(opts))
	cmd.AddCommand(NewEnumCommand(opts))
	cmd.AddCommand(NewEnumsCommand(opts))
	cmd.AddCommand(NewNextCommand(opts))
	cmd.AddCommand(NewTimescaleCommand(opts))
	cmd.AddCommand(NewTimezeroCommand(opts))
	cmd.AddCommand(NewMetaCommand(opts))
	cmd.AddCommand(NewInfoCommand(opts))
	cmd.AddCommand(NewSampleCommand(opts))
	cmd.AddCommand(NewRunsCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))

	return cmd
}

// isOneOf checks if value is one of the allowed values.
func isOneOf(value string, allowed []string) bool {
	for _, a := range allowed {
		if a == value {
			return true
		}
	}
	return false
}
