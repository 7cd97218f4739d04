package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/wavequery/internal/query"
)

// NewTimescaleCommand creates the timescale command.
func NewTimescaleCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "timescale <trace>",
		Short: "Print the trace timescale",
		Long: `Print the time unit of the trace (for example 1ns), or Unknown when
the trace does not declare one.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			r, err := openTrace(rootOpts, f, args[0])
			if err != nil {
				return err
			}
			defer closeTrace(rootOpts, r)

			ts := r.Timescale()
			return f.Result(map[string]string{"timescale": ts}, ts+"\n")
		},
	}
}

// NewTimezeroCommand creates the timezero command.
func NewTimezeroCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "timezero <trace>",
		Short:         "Print the trace time-zero offset",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			r, err := openTrace(rootOpts, f, args[0])
			if err != nil {
				return err
			}
			defer closeTrace(rootOpts, r)

			tz := r.Timezero()
			return f.Result(map[string]int64{"timezero": tz}, fmt.Sprintf("%d\n", tz))
		},
	}
}

// NewMetaCommand creates the meta command.
func NewMetaCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "meta <trace>",
		Short: "Print trace header metadata",
		Long: `Print the trace header: date, version, time bounds, file type,
timescale, time zero and scope, variable and alias counts.

Examples:
  wavequery meta cpu.vcd
  wavequery meta cpu.vcd --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			r, err := openTrace(rootOpts, f, args[0])
			if err != nil {
				return err
			}
			defer closeTrace(rootOpts, r)

			md, err := r.Metadata()
			if err != nil {
				return queryExitError(f, "failed to read metadata", err)
			}
			return f.Result(md, formatMetadata(md))
		},
	}
}

func formatMetadata(md query.Metadata) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "date:        %s\n", md.Date)
	fmt.Fprintf(&sb, "version:     %s\n", md.Version)
	fmt.Fprintf(&sb, "start_time:  %d\n", md.StartTime)
	fmt.Fprintf(&sb, "end_time:    %d\n", md.EndTime)
	fmt.Fprintf(&sb, "file_type:   %s\n", md.FileType)
	fmt.Fprintf(&sb, "timescale:   %s\n", md.Timescale)
	fmt.Fprintf(&sb, "timezero:    %d\n", md.Timezero)
	fmt.Fprintf(&sb, "scope_count: %d\n", md.ScopeCount)
	fmt.Fprintf(&sb, "var_count:   %d\n", md.VarCount)
	fmt.Fprintf(&sb, "alias_count: %d\n", md.AliasCount)
	return sb.String()
}

// EnumSymbol is one code of an enum table.
type EnumSymbol struct {
	Code   uint8  `json:"code"`
	Symbol string `json:"symbol"`
}

// EnumTableResult is one table in the enums command output.
type EnumTableResult struct {
	Name    string       `json:"name"`
	Arity   int          `json:"arity"`
	Symbols []EnumSymbol `json:"symbols"`
}

// NewEnumsCommand creates the enums command.
func NewEnumsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "enums <trace>",
		Short: "List the enum tables declared in the trace",
		Long: `List every enum table reconstructed from the trace's hierarchy
attributes, sorted by name, with its codes in ascending order.

Text output is one table per line:

  control::reg_op_e  arity=3  0=NONE 1=READ 2=WRITE`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			r, err := openTrace(rootOpts, f, args[0])
			if err != nil {
				return err
			}
			defer closeTrace(rootOpts, r)

			tables := r.Enums()
			results := make([]EnumTableResult, 0, len(tables))
			var sb strings.Builder
			for _, tbl := range tables {
				res := EnumTableResult{Name: tbl.Name, Arity: tbl.Arity, Symbols: []EnumSymbol{}}
				for code, sym := range tbl.Symbols {
					res.Symbols = append(res.Symbols, EnumSymbol{Code: code, Symbol: sym})
				}
				sort.Slice(res.Symbols, func(i, j int) bool { return res.Symbols[i].Code < res.Symbols[j].Code })
				results = append(results, res)

				fmt.Fprintf(&sb, "%s  arity=%d", res.Name, res.Arity)
				if len(res.Symbols) > 0 {
					sb.WriteByte(' ')
				}
				for _, s := range res.Symbols {
					fmt.Fprintf(&sb, " %d=%s", s.Code, s.Symbol)
				}
				sb.WriteByte('\n')
			}
			return f.Result(results, sb.String())
		},
	}
}
