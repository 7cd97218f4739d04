package enum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/wavequery/internal/wave"
)

func attrEvent(name string) wave.HierEvent {
	return wave.HierEvent{Kind: wave.HierAttrBegin, Attr: wave.Attr{Kind: "misc", Subtype: 7, Name: name}}
}

func TestBuildRegistry_OnlyAttrBegin(t *testing.T) {
	events := []wave.HierEvent{
		{Kind: wave.HierScopeBegin, Scope: "TOP"},
		attrEvent("state 2 IDLE RUN 0 1"),
		{Kind: wave.HierAttrEnd},
		// A var named like an encoding must not be parsed.
		{Kind: wave.HierVar, Var: wave.Var{Name: "mode 2 A B 0 1"}},
		attrEvent("source file.sv"),
		{Kind: wave.HierScopeEnd},
	}

	reg, results := BuildRegistry(events)
	require.Equal(t, 1, reg.Len())
	require.Len(t, results, 1)

	tbl, ok := reg.Get("state")
	require.True(t, ok)
	assert.Equal(t, "RUN", tbl.Symbols[1])

	_, ok = reg.Get("mode")
	assert.False(t, ok)
}

func TestBuildRegistry_LastWriteWins(t *testing.T) {
	events := []wave.HierEvent{
		attrEvent("state 2 IDLE RUN 0 1"),
		attrEvent("state 2 OFF ON 0 1"),
	}

	reg, results := BuildRegistry(events)
	require.Equal(t, 1, reg.Len())
	require.Len(t, results, 2)

	tbl, ok := reg.Get("state")
	require.True(t, ok)
	assert.Equal(t, "ON", tbl.Symbols[1])
}

func TestBuildRegistry_ReportsPartial(t *testing.T) {
	events := []wave.HierEvent{
		attrEvent("state bad IDLE RUN 0 1"),
		attrEvent("op 2 ADD SUB 0 1"),
	}

	reg, results := BuildRegistry(events)
	assert.Equal(t, 2, reg.Len())
	require.Len(t, results, 2)
	assert.Equal(t, StatusPartial, results[0].Status)
	assert.Equal(t, StatusParsed, results[1].Status)

	tbl, ok := reg.Get("state")
	require.True(t, ok)
	assert.Empty(t, tbl.Symbols)
}

func TestBuildRegistry_Empty(t *testing.T) {
	reg, results := BuildRegistry(nil)
	assert.Equal(t, 0, reg.Len())
	assert.Empty(t, results)
	assert.Empty(t, reg.Tables())
}

func TestRegistry_TablesSorted(t *testing.T) {
	reg, _ := BuildRegistry([]wave.HierEvent{
		attrEvent("zeta 1 Z 0"),
		attrEvent("alpha 1 A 0"),
		attrEvent("mid 1 M 0"),
	})

	tables := reg.Tables()
	require.Len(t, tables, 3)
	assert.Equal(t, "alpha", tables[0].Name)
	assert.Equal(t, "mid", tables[1].Name)
	assert.Equal(t, "zeta", tables[2].Name)
}
