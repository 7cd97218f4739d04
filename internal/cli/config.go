package cli

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

// Config is the optional TOML config file. Every key mirrors a global flag
// except database, which is the default for --db.
//
//	format   = "json"
//	verbose  = true
//	lookup   = "scan"
//	database = "runs.db"
type Config struct {
	Format   string `toml:"format"`
	Verbose  bool   `toml:"verbose"`
	Lookup   string `toml:"lookup"`
	Database string `toml:"database"`
}

// LoadConfig decodes a config file. Unknown keys are an error.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// applyConfig copies config values into opts for every flag the command line
// did not set explicitly.
func (opts *RootOptions) applyConfig(cmd *cobra.Command, cfg Config) {
	flags := cmd.Flags()
	if cfg.Format != "" && !flags.Changed("format") {
		opts.Format = cfg.Format
	}
	if cfg.Verbose && !flags.Changed("verbose") {
		opts.Verbose = true
	}
	if cfg.Lookup != "" && !flags.Changed("lookup") {
		opts.Lookup = cfg.Lookup
	}
	opts.Database = cfg.Database
}
