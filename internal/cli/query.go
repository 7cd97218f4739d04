package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// ListResult is the JSON payload of the list command.
type ListResult struct {
	Variables []string `json:"variables"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list <trace>",
		Short: "List every variable name",
		Long: `List every variable in the trace, one per line, in declaration order.

Names that are declared more than once are listed as often as declared.

Examples:
  wavequery list cpu.vcd
  wavequery list cpu.vcd --format json`,
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

			out, err := r.ListVariables()
			if err != nil {
				return queryExitError(f, "failed to list variables", err)
			}
			names := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
			if out == "" {
				names = []string{}
			}
			return f.Result(ListResult{Variables: names}, out)
		},
	}
}

// ValueOptions holds flags for the value command.
type ValueOptions struct {
	*RootOptions
	Raw bool
}

// ValueResult is the JSON payload of the value command.
type ValueResult struct {
	Variable string `json:"variable"`
	Time     uint64 `json:"time"`
	Value    *int32 `json:"value,omitempty"`
	Raw      string `json:"raw,omitempty"`
}

// NewValueCommand creates the value command.
func NewValueCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValueOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "value <trace> <variable> <time>",
		Short: "Print a variable's value at a time",
		Long: `Print the value of a variable at a time as a signed 32-bit integer.

The value is the last change at or before the time. Values that fit in
32 bits are read as two's complement; wider values and values containing
x or z digits are decode failures (exit code 1). Use --raw to print the
undecoded digit string instead.

Examples:
  wavequery value cpu.vcd TOP.clk 10
  wavequery value cpu.vcd "TOP.cpu.state [1:0]" 20 --raw`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValue(opts, cmd, args)
		},
	}

	cmd.Flags().BoolVar(&opts.Raw, "raw", false, "print the undecoded digit string")

	return cmd
}

func runValue(opts *ValueOptions, cmd *cobra.Command, args []string) error {
	f := newFormatter(opts.RootOptions, cmd)
	t, err := parseTime(f, "time", args[2])
	if err != nil {
		return err
	}
	r, err := openTrace(opts.RootOptions, f, args[0])
	if err != nil {
		return err
	}
	defer closeTrace(opts.RootOptions, r)

	result := ValueResult{Variable: args[1], Time: t}
	if opts.Raw {
		raw, err := r.RawValueAt(args[1], t)
		if err != nil {
			return queryExitError(f, "failed to read value", err)
		}
		result.Raw = raw
		return f.Result(result, raw+"\n")
	}

	v, err := r.ValueAt(args[1], t)
	if err != nil {
		return queryExitError(f, "failed to read value", err)
	}
	result.Value = &v
	return f.Result(result, fmt.Sprintf("%d\n", v))
}

// EnumResult is the JSON payload of the enum command.
type EnumResult struct {
	Variable string `json:"variable"`
	Enum     string `json:"enum"`
	Time     uint64 `json:"time"`
	Symbol   string `json:"symbol"`
}

// NewEnumCommand creates the enum command.
func NewEnumCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "enum <trace> <variable> <enum> <time>",
		Short: "Print a variable's enum symbol at a time",
		Long: `Print the symbol that an enum table assigns to a variable's value.

Fails with ENUM_NOT_FOUND when the trace has no such table,
INVALID_VALUE when the value is not a valid code and CODE_NOT_IN_TABLE
when the table has no symbol for it.

Examples:
  wavequery enum cpu.vcd "TOP.cpu.rax_op [1:0]" control::reg_op_e 10`,
		Args:          cobra.ExactArgs(4),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			t, err := parseTime(f, "time", args[3])
			if err != nil {
				return err
			}
			r, err := openTrace(rootOpts, f, args[0])
			if err != nil {
				return err
			}
			defer closeTrace(rootOpts, r)

			sym, err := r.EnumValueAt(args[1], args[2], t)
			if err != nil {
				return queryExitError(f, "failed to read enum value", err)
			}
			return f.Result(EnumResult{Variable: args[1], Enum: args[2], Time: t, Symbol: sym}, sym+"\n")
		},
	}
}

// NextResult is the JSON payload of the next command.
type NextResult struct {
	Variable string `json:"variable"`
	After    uint64 `json:"after"`
	Next     uint64 `json:"next"`
}

// NewNextCommand creates the next command.
func NewNextCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "next <trace> <variable> <time>",
		Short: "Print the next change time of a variable",
		Long: `Print the first time after <time> at which the variable changes.

A variable with no later change is reported as a decoder failure.

Examples:
  wavequery next cpu.vcd TOP.clk 10`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			t, err := parseTime(f, "time", args[2])
			if err != nil {
				return err
			}
			r, err := openTrace(rootOpts, f, args[0])
			if err != nil {
				return err
			}
			defer closeTrace(rootOpts, r)

			next, err := r.NextChange(args[1], t)
			if err != nil {
				return queryExitError(f, "failed to find next change", err)
			}
			return f.Result(NextResult{Variable: args[1], After: t, Next: next}, fmt.Sprintf("%d\n", next))
		},
	}
}

// InfoResult is the JSON payload of the info command.
type InfoResult struct {
	Variable string `json:"variable"`
	Type     string `json:"type"`
}

// NewInfoCommand creates the info command.
func NewInfoCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info <trace> <variable>",
		Short: "Print a variable's declared type",
		Long: `Print the declared type of a variable (VcdReg, VcdInteger, ...).

Types outside the common set print as Unknown. A variable that does not
exist prints an empty line.

Examples:
  wavequery info cpu.vcd TOP.cpu.count`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			r, err := openTrace(rootOpts, f, args[0])
			if err != nil {
				return err
			}
			defer closeTrace(rootOpts, r)

			info, err := r.VariableInfo(args[1])
			if err != nil {
				return queryExitError(f, "failed to read variable info", err)
			}
			return f.Result(InfoResult{Variable: args[1], Type: info.Type}, info.Type+"\n")
		},
	}
}
