package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-kit/log/level"
	"github.com/spf13/cobra"

	"github.com/roach88/wavequery/internal/store"
)

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	*RootOptions
	Database string
	RunID    string
	Delete   string
	From     uint64
	To       uint64
}

// RunSamplesResult is the JSON payload of "runs --run".
type RunSamplesResult struct {
	Run     store.Run      `json:"run"`
	Samples []store.Sample `json:"samples"`
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded runs or print one run's samples",
		Long: `Inspect the sample database written by the sample command.

Without flags, lists every run in recording order. With --run, prints that
run's samples, optionally limited to the window given by --from and --to.
With --delete, removes a run and its samples.

Examples:
  wavequery runs --db runs.db
  wavequery runs --db runs.db --run 0191e0c4-... --from 10 --to 20
  wavequery runs --db runs.db --delete 0191e0c4-...`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default from config, else "+DefaultDatabase+")")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "print the samples of this run")
	cmd.Flags().StringVar(&opts.Delete, "delete", "", "delete this run")
	cmd.Flags().Uint64Var(&opts.From, "from", 0, "window start time (with --run)")
	cmd.Flags().Uint64Var(&opts.To, "to", 0, "window end time (with --run)")
	cmd.MarkFlagsMutuallyExclusive("run", "delete")

	return cmd
}

func runRuns(opts *RunsOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	f := newFormatter(opts.RootOptions, cmd)

	st, err := store.Open(databasePath(opts.Database, opts.RootOptions))
	if err != nil {
		return storeExitError(f, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			level.Warn(opts.Logger).Log("msg", "error closing database", "err", closeErr)
		}
	}()

	switch {
	case opts.Delete != "":
		if err := st.DeleteRun(ctx, opts.Delete); err != nil {
			return storeExitError(f, "failed to delete run", err)
		}
		return f.Result(map[string]string{"deleted": opts.Delete}, fmt.Sprintf("deleted %s\n", opts.Delete))
	case opts.RunID != "":
		return showRun(ctx, opts, cmd, f, st)
	}

	runs, err := st.ListRuns(ctx)
	if err != nil {
		return storeExitError(f, "failed to list runs", err)
	}
	var sb strings.Builder
	for _, run := range runs {
		fmt.Fprintf(&sb, "%d  %s  %s  %s  [%d, %d] %s\n",
			run.Seq, run.ID, run.Variable, run.TracePath, run.From, run.To, run.Timescale)
	}
	return f.Result(runs, sb.String())
}

func showRun(ctx context.Context, opts *RunsOptions, cmd *cobra.Command, f *OutputFormatter, st *store.Store) error {
	run, err := st.ReadRun(ctx, opts.RunID)
	if errors.Is(err, store.ErrRunNotFound) {
		if f.Format == "json" {
			_ = f.Error(ErrCodeStore, err.Error(), nil)
		}
		return WrapExitError(ExitFailure, "run not found", err)
	}
	if err != nil {
		return storeExitError(f, "failed to read run", err)
	}

	var samples []store.Sample
	if cmd.Flags().Changed("from") || cmd.Flags().Changed("to") {
		to := opts.To
		if !cmd.Flags().Changed("to") {
			to = run.To
		}
		samples, err = st.SamplesInWindow(ctx, run.ID, opts.From, to)
	} else {
		samples, err = st.ReadSamples(ctx, run.ID)
	}
	if err != nil {
		return storeExitError(f, "failed to read samples", err)
	}

	var sb strings.Builder
	for _, smp := range samples {
		answer := smp.Value
		if smp.Error != "" {
			answer = "error " + smp.Error
		}
		fmt.Fprintf(&sb, "%d  %s  %s\n", smp.Time, smp.Raw, answer)
	}
	return f.Result(RunSamplesResult{Run: run, Samples: samples}, sb.String())
}
