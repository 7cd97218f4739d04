package vcd

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/wavequery/internal/testutil"
	"github.com/roach88/wavequery/internal/wave"
)

func parseFixture(t *testing.T) *Trace {
	t.Helper()
	tr, err := Parse(strings.NewReader(testutil.FixtureVCD))
	require.NoError(t, err)
	return tr
}

func varByName(t *testing.T, tr *Trace, name string) wave.Var {
	t.Helper()
	vars, err := tr.Vars()
	require.NoError(t, err)
	for _, v := range vars {
		if v.Name == name {
			return v
		}
	}
	t.Fatalf("variable %q not declared", name)
	return wave.Var{}
}

func TestParse_Header(t *testing.T) {
	tr := parseFixture(t)

	date, err := tr.Date()
	require.NoError(t, err)
	assert.Equal(t, "Mon Oct 19 12:00:00 2026", date)

	version, err := tr.Version()
	require.NoError(t, err)
	assert.Equal(t, "wavequery fixture 1.0", version)

	ts, ok := tr.Timescale()
	require.True(t, ok)
	assert.Equal(t, "1ns", ts)

	assert.Equal(t, int64(5), tr.Timezero())
	assert.Equal(t, uint64(0), tr.StartTime())
	assert.Equal(t, uint64(30), tr.EndTime())
	assert.Equal(t, wave.FileTypeVerilog, tr.FileType())
	assert.Equal(t, uint64(2), tr.ScopeCount())
	assert.Equal(t, uint64(7), tr.VarCount())
	assert.Equal(t, uint64(1), tr.AliasCount())
}

func TestParse_VariableNames(t *testing.T) {
	tr := parseFixture(t)
	vars, err := tr.Vars()
	require.NoError(t, err)

	names := make([]string, len(vars))
	for i, v := range vars {
		names[i] = v.Name
	}
	assert.Equal(t, []string{
		"TOP.clk",
		"TOP.cpu.rax_op [1:0]",
		"TOP.cpu.state [1:0]",
		"TOP.cpu.count",
		"TOP.cpu.state [1:0]",
		"TOP.cpu.temp",
		"TOP.cpu.clk_alias",
	}, names)

	assert.Equal(t, wave.VarTypeWire, vars[0].Type)
	assert.Equal(t, wave.VarTypeReg, vars[1].Type)
	assert.Equal(t, wave.VarTypeInteger, vars[3].Type)
	assert.Equal(t, wave.VarTypeReal, vars[5].Type)
	assert.Equal(t, uint32(32), vars[3].Width)

	// The alias shares clk's handle; the duplicate name does not.
	assert.Equal(t, vars[0].Handle, vars[6].Handle)
	assert.NotEqual(t, vars[2].Handle, vars[4].Handle)
}

func TestParse_Attributes(t *testing.T) {
	tr := parseFixture(t)
	events, err := tr.Hierarchy()
	require.NoError(t, err)

	var attrs []wave.Attr
	for _, ev := range events {
		if ev.Kind == wave.HierAttrBegin {
			attrs = append(attrs, ev.Attr)
		}
	}
	require.Len(t, attrs, 4)

	assert.Equal(t, "misc", attrs[0].Kind)
	assert.Equal(t, uint8(7), attrs[0].Subtype)
	assert.Equal(t, "control::reg_op_e 3 NONE READ WRITE 00 01 10", attrs[0].Name)
	assert.Equal(t, int64(1), attrs[0].Arg)

	assert.Equal(t, "state_e 3 IDLE RUN HALT 00 01 10", attrs[1].Name)
	assert.Equal(t, "broken many A B 0 1", attrs[2].Name)
	assert.Equal(t, "source fixture.sv", attrs[3].Name)
	assert.Equal(t, uint8(0), attrs[3].Subtype)
}

func TestParseAttr_Lenient(t *testing.T) {
	assert.Equal(t, wave.Attr{}, parseAttr(nil))
	assert.Equal(t, wave.Attr{Kind: "misc"}, parseAttr([]string{"misc"}))
	assert.Equal(t, wave.Attr{Kind: "misc", Name: "lonely"}, parseAttr([]string{"misc", "zz", "lonely"}))
	assert.Equal(t, wave.Attr{Kind: "misc", Subtype: 0x0a, Name: "a b"}, parseAttr([]string{"misc", "0a", "a", "b"}))
}

func TestParseAttr_EnumTableArgument(t *testing.T) {
	table := strings.Fields("state 3 IDLE RUN HALT 00 01 10")

	withArg := parseAttr(append([]string{"misc", "07"}, append(table, "4")...))
	assert.Equal(t, "state 3 IDLE RUN HALT 00 01 10", withArg.Name)
	assert.Equal(t, int64(4), withArg.Arg)

	withoutArg := parseAttr(append([]string{"misc", "07"}, table...))
	assert.Equal(t, "state 3 IDLE RUN HALT 00 01 10", withoutArg.Name)
	assert.Equal(t, int64(0), withoutArg.Arg)

	// Other subtypes still take a trailing number as the argument.
	other := parseAttr(append([]string{"misc", "00"}, table...))
	assert.Equal(t, "state 3 IDLE RUN HALT 00 01", other.Name)
	assert.Equal(t, int64(10), other.Arg)
}

func TestParse_EnumTableWithoutArgument(t *testing.T) {
	tr, err := Parse(strings.NewReader("$attrbegin misc 07 state 3 IDLE RUN HALT 00 01 10 $end\n$enddefinitions $end\n"))
	require.NoError(t, err)
	events, err := tr.Hierarchy()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "state 3 IDLE RUN HALT 00 01 10", events[0].Attr.Name)
}

func TestValueAt(t *testing.T) {
	tr := parseFixture(t)
	raxOp := varByName(t, tr, "TOP.cpu.rax_op [1:0]").Handle
	count := varByName(t, tr, "TOP.cpu.count").Handle
	temp := varByName(t, tr, "TOP.cpu.temp").Handle

	tests := []struct {
		h    wave.Handle
		at   uint64
		want string
	}{
		{raxOp, 0, "00"},
		{raxOp, 9, "00"},
		{raxOp, 10, "01"},
		{raxOp, 25, "10"},
		{raxOp, 30, "xx"},
		{raxOp, 1000, "xx"},
		{count, 10, strings.Repeat("0", 29) + "101"},
		{count, 20, strings.Repeat("0", 30) + "1x"},
		{temp, 15, "0.5"},
	}
	for _, tt := range tests {
		got, ok := tr.ValueAt(tt.h, tt.at)
		require.True(t, ok, "%s at %d", tt.h, tt.at)
		assert.Equal(t, tt.want, got, "%s at %d", tt.h, tt.at)
	}
}

func TestValueAt_BeforeFirstChange(t *testing.T) {
	tr, err := Parse(strings.NewReader(`$var wire 1 ! a $end
$enddefinitions $end
#5
1!
`))
	require.NoError(t, err)

	_, ok := tr.ValueAt(wave.NewHandle(0), 4)
	assert.False(t, ok)

	v, ok := tr.ValueAt(wave.NewHandle(0), 5)
	require.True(t, ok)
	assert.Equal(t, "1", v)

	_, ok = tr.ValueAt(wave.NewHandle(9), 5)
	assert.False(t, ok)
}

func TestNextChange(t *testing.T) {
	tr := parseFixture(t)
	clk := varByName(t, tr, "TOP.clk").Handle

	next, err := tr.NextChange(clk, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), next)

	next, err = tr.NextChange(clk, 15)
	require.NoError(t, err)
	assert.Equal(t, uint64(20), next)

	_, err = tr.NextChange(clk, 30)
	assert.ErrorIs(t, err, wave.ErrNoMoreChanges)

	_, err = tr.NextChange(wave.NewHandle(99), 0)
	require.Error(t, err)
	assert.NotErrorIs(t, err, wave.ErrNoMoreChanges)
}

func TestParse_SameTimestampKeepsLast(t *testing.T) {
	tr, err := Parse(strings.NewReader(`$var reg 4 a v $end
$enddefinitions $end
#0
b1 a
b11 a
#3
b0 a
`))
	require.NoError(t, err)

	v, ok := tr.ValueAt(wave.NewHandle(0), 0)
	require.True(t, ok)
	assert.Equal(t, "0011", v)

	next, err := tr.NextChange(wave.NewHandle(0), 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), next)
}

func TestParse_NoTimescale(t *testing.T) {
	tr, err := Parse(strings.NewReader("$enddefinitions $end\n"))
	require.NoError(t, err)
	_, ok := tr.Timescale()
	assert.False(t, ok)
	assert.Equal(t, uint64(0), tr.VarCount())
}

func TestParse_InvalidUTF8Date(t *testing.T) {
	tr, err := Parse(strings.NewReader("$date \xff\xfe $end\n$enddefinitions $end\n"))
	require.NoError(t, err)
	_, err = tr.Date()
	assert.Error(t, err)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"unterminated", "$date today", "without $end"},
		{"undeclared id", "$enddefinitions $end\n#0\n1?\n", "undeclared identifier"},
		{"bad timestamp", "#abc\n", "timestamp"},
		{"time goes back", "$var wire 1 ! a $end\n#5\n#3\n", "goes back"},
		{"short var", "$var wire 1 ! $end\n", "$var wants"},
		{"bad size", "$var wire wide ! a $end\n", "$var size"},
		{"stray upscope", "$upscope $end\n", "outside any scope"},
		{"garbage", "$enddefinitions $end\n%%%\n", "unexpected token"},
		{"vector without id", "$var reg 2 ! a $end\nb01", "without identifier"},
		{"bad timezero", "$timezero soon $end\n", "$timezero"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParse_VarSizeLimit(t *testing.T) {
	_, err := Parse(strings.NewReader("$var wire 300000000 ! a $end\n#0\nb1 !\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
	assert.Contains(t, err.Error(), "exceeds limit")

	tr, err := Parse(strings.NewReader(fmt.Sprintf("$var wire %d ! a $end\n#0\nb1 !\n", maxVarWidth)))
	require.NoError(t, err)
	v, ok := tr.ValueAt(wave.NewHandle(0), 0)
	require.True(t, ok)
	assert.Len(t, v, maxVarWidth)
}

func TestParse_StoresVectorsAsWritten(t *testing.T) {
	tr, err := Parse(strings.NewReader("$var reg 64 ! a $end\n#0\nb1 !\n#1\nbX0 !\n"))
	require.NoError(t, err)

	assert.Equal(t, "1", tr.signals[0].changes[0].raw)
	assert.Equal(t, "x0", tr.signals[0].changes[1].raw)

	v, ok := tr.ValueAt(wave.NewHandle(0), 1)
	require.True(t, ok)
	assert.Equal(t, strings.Repeat("x", 63)+"0", v)
}

func TestParse_UnknownCommandSkipped(t *testing.T) {
	tr, err := Parse(strings.NewReader("$vendor whatever here $end\n$var wire 1 ! a $end\n$enddefinitions $end\n"))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), tr.VarCount())
}

func TestOpen(t *testing.T) {
	path := testutil.WriteFixture(t)
	tr, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, tr.Close())
	assert.Equal(t, uint64(7), tr.VarCount())

	_, err = Open(path + ".missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open trace")
}

func TestExtend(t *testing.T) {
	assert.Equal(t, "0001", extend("1", 4))
	assert.Equal(t, "xxx1", extend("x1", 4))
	assert.Equal(t, "zzzz", extend("z", 4))
	assert.Equal(t, "10101", extend("10101", 4))
}
