package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"

	"github.com/roach88/wavequery/internal/query"
	"github.com/roach88/wavequery/internal/store"
)

// DefaultDatabase is used when neither --db nor the config file names one.
const DefaultDatabase = "wavequery.db"

// SampleOptions holds flags for the sample command.
type SampleOptions struct {
	*RootOptions
	Database string
	From     uint64
	To       uint64
	Enum     string
}

// SampleResult is the JSON payload of the sample command.
type SampleResult struct {
	Run     store.Run `json:"run"`
	Samples int       `json:"samples"`
	Errors  int       `json:"errors"`
}

// NewSampleCommand creates the sample command.
func NewSampleCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SampleOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sample <trace> <variable>",
		Short: "Record a variable's changes into the sample database",
		Long: `Walk every change of a variable within a time window and store the
series as a run in a SQLite database.

Each sample holds the change time, the raw digit string and either the
decoded value (an integer, or the enum symbol with --enum) or the error
code that decoding produced. The window defaults to the whole trace.

Examples:
  wavequery sample cpu.vcd TOP.clk --db runs.db
  wavequery sample cpu.vcd "TOP.cpu.rax_op [1:0]" --enum control::reg_op_e --from 10 --to 20`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSample(opts, cmd, args[0], args[1])
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from config, else "+DefaultDatabase+")")
	cmd.Flags().Uint64Var(&opts.From, "from", 0, "window start time")
	cmd.Flags().Uint64Var(&opts.To, "to", 0, "window end time (default: end of trace)")
	cmd.Flags().StringVar(&opts.Enum, "enum", "", "decode values with this enum table")

	return cmd
}

// databasePath picks the --db flag, then the config file, then the default.
func databasePath(flag string, rootOpts *RootOptions) string {
	switch {
	case flag != "":
		return flag
	case rootOpts.Database != "":
		return rootOpts.Database
	default:
		return DefaultDatabase
	}
}

func runSample(opts *SampleOptions, cmd *cobra.Command, tracePath, variable string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	f := newFormatter(opts.RootOptions, cmd)

	r, err := openTrace(opts.RootOptions, f, tracePath)
	if err != nil {
		return err
	}
	defer closeTrace(opts.RootOptions, r)

	to := opts.To
	if !cmd.Flags().Changed("to") {
		md, err := r.Metadata()
		if err != nil {
			return queryExitError(f, "failed to read metadata", err)
		}
		to = md.EndTime
	}
	if to < opts.From {
		return usageError(f, "invalid window", fmt.Errorf("--to %d is before --from %d", to, opts.From))
	}

	changes, err := r.Changes(variable, opts.From, to)
	if err != nil {
		return queryExitError(f, "failed to walk changes", err)
	}

	samples := make([]store.Sample, 0, len(changes))
	failed := 0
	for _, c := range changes {
		smp := store.Sample{Time: c.Time, Raw: c.Raw}
		if opts.Enum != "" {
			smp.Value, err = r.EnumValueAt(variable, opts.Enum, c.Time)
		} else {
			var v int32
			v, err = r.ValueAt(variable, c.Time)
			if err == nil {
				smp.Value = strconv.FormatInt(int64(v), 10)
			}
		}
		if err != nil {
			smp.Error = string(query.CodeOf(err))
			failed++
		}
		samples = append(samples, smp)
	}

	if abs, err := filepath.Abs(tracePath); err == nil {
		tracePath = abs
	}

	dbPath := databasePath(opts.Database, opts.RootOptions)
	f.VerboseLog("Writing %d samples to %s", len(samples), dbPath)
	st, err := store.Open(dbPath)
	if err != nil {
		return storeExitError(f, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			level.Warn(opts.Logger).Log("msg", "error closing database", "err", closeErr)
		}
	}()

	run, err := st.WriteRun(ctx, store.Run{
		TracePath: tracePath,
		Variable:  variable,
		EnumName:  opts.Enum,
		From:      opts.From,
		To:        to,
		Timescale: r.Timescale(),
	}, samples)
	if err != nil {
		return storeExitError(f, "failed to write run", err)
	}
	level.Debug(opts.Logger).Log("msg", "run recorded", "run", run.ID, "seq", run.Seq, "samples", len(samples), "errors", failed)

	text := fmt.Sprintf("run %s (seq %d): %d samples, %d errors\n", run.ID, run.Seq, len(samples), failed)
	return f.Result(SampleResult{Run: run, Samples: len(samples), Errors: failed}, text)
}

// storeExitError reports a sample database error.
func storeExitError(f *OutputFormatter, message string, err error) error {
	if f.Format == "json" {
		_ = f.Error(ErrCodeStore, fmt.Sprintf("%s: %v", message, err), nil)
	}
	return WrapExitError(ExitCommandError, message, err)
}
