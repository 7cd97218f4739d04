package cli

import (
	"strconv"

	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"

	"github.com/roach88/wavequery/internal/query"
)

// newFormatter builds the formatter for one command invocation.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

// queryOptions translates global flags into façade options.
func (opts *RootOptions) queryOptions() []query.Option {
	qopts := []query.Option{query.WithLogger(opts.Logger)}
	if opts.Lookup == LookupScan {
		qopts = append(qopts, query.WithLinearLookup())
	}
	return qopts
}

// openTrace opens a trace through the façade, reporting failures on f.
func openTrace(opts *RootOptions, f *OutputFormatter, path string) (*query.Reader, error) {
	f.VerboseLog("Opening trace %s (lookup: %s)", path, opts.Lookup)
	r, err := query.Open(path, opts.queryOptions()...)
	if err != nil {
		return nil, queryExitError(f, "failed to open trace", err)
	}
	return r, nil
}

// closeTrace releases r, logging rather than failing on error.
func closeTrace(opts *RootOptions, r *query.Reader) {
	if err := r.Close(); err != nil {
		level.Warn(opts.Logger).Log("msg", "error closing trace", "err", err)
	}
}

// parseTime parses a time argument.
func parseTime(f *OutputFormatter, name, arg string) (uint64, error) {
	t, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, usageError(f, "invalid "+name, err)
	}
	return t, nil
}
