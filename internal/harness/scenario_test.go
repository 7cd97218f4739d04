package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/wavequery/internal/testutil"
)

const validYAML = `
name: cpu_smoke
description: "Opcode decoding"
trace: fixture.vcd
checks:
  - var: TOP.clk
    at: 10
    expect: 1
  - var: "TOP.cpu.rax_op [1:0]"
    at: 10
    enum: control::reg_op_e
    expect_symbol: READ
  - var: TOP.clk
    next_after: 10
    expect_time: 20
  - var: TOP.missing
    at: 0
    expect_error: not_found
`

const validCUE = `
name:        "cpu_smoke"
description: "Opcode decoding"
trace:       "fixture.vcd"
checks: [
	{var: "TOP.clk", at: 10, expect: 1},
	{var: "TOP.cpu.rax_op [1:0]", at: 10, enum: "control::reg_op_e", expect_symbol: "READ"},
	{var: "TOP.clk", next_after: 10, expect_time: 20},
	{var: "TOP.missing", at: 0, expect_error: "not_found"},
]
`

func assertSmokeChecks(t *testing.T, dir string, s *Scenario) {
	t.Helper()
	assert.Equal(t, "cpu_smoke", s.Name)
	assert.Equal(t, "Opcode decoding", s.Description)
	assert.Equal(t, filepath.Join(dir, "fixture.vcd"), s.Trace)
	require.Len(t, s.Checks, 4)

	assert.Equal(t, CheckValue, s.Checks[0].Kind())
	require.NotNil(t, s.Checks[0].Expect)
	assert.Equal(t, int32(1), *s.Checks[0].Expect)

	assert.Equal(t, CheckEnum, s.Checks[1].Kind())
	assert.Equal(t, "control::reg_op_e", s.Checks[1].Enum)
	assert.Equal(t, "READ", s.Checks[1].ExpectSymbol)

	assert.Equal(t, CheckNext, s.Checks[2].Kind())
	require.NotNil(t, s.Checks[2].ExpectTime)
	assert.Equal(t, uint64(20), *s.Checks[2].ExpectTime)
	assert.Nil(t, s.Checks[2].At)

	assert.Equal(t, ErrorClassNotFound, s.Checks[3].ExpectError)
}

func TestLoadScenario_YAML(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "smoke.yaml", validYAML)

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assertSmokeChecks(t, dir, s)
}

func TestLoadScenario_CUE(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "smoke.cue", validCUE)

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assertSmokeChecks(t, dir, s)
}

func TestLoadScenario_RunsAgainstTrace(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "fixture.vcd", testutil.FixtureVCD)
	path := testutil.WriteFile(t, dir, "smoke.yaml", validYAML)

	s, err := LoadScenario(path)
	require.NoError(t, err)
	result, err := Run(s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestLoadScenario_AbsoluteTrace(t *testing.T) {
	dir := t.TempDir()
	abs := filepath.Join(t.TempDir(), "elsewhere.vcd")
	path := testutil.WriteFile(t, dir, "abs.yaml", "name: abs\ntrace: "+abs+"\nchecks:\n  - var: a\n    at: 0\n    expect: 0\n")

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, abs, s.Trace)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	dir := t.TempDir()

	yamlPath := testutil.WriteFile(t, dir, "typo.yaml", "name: x\ntrace: t.vcd\nchecks:\n  - var: a\n    at: 0\n    expect_sym: A\n")
	_, err := LoadScenario(yamlPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")

	cuePath := testutil.WriteFile(t, dir, "typo.cue", `name: "x", trace: "t.vcd", checks: [{var: "a", at: 0, expect_sym: "A"}]`)
	_, err = LoadScenario(cuePath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse CUE")
}

func TestLoadScenario_CUEConstraints(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"negative time", `name: "x", trace: "t.vcd", checks: [{var: "a", at: -1, expect: 0}]`},
		{"bad error class", `name: "x", trace: "t.vcd", checks: [{var: "a", at: 0, expect_error: "boom"}]`},
		{"expect out of int32", `name: "x", trace: "t.vcd", checks: [{var: "a", at: 0, expect: 4294967296}]`},
		{"no checks", `name: "x", trace: "t.vcd", checks: []`},
		{"syntax", `name: "x`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteFile(t, dir, "bad.cue", tt.content)
			_, err := LoadScenario(path)
			require.Error(t, err)
		})
	}
}

func TestLoadScenario_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"no name", "trace: t.vcd\nchecks:\n  - var: a\n    at: 0\n    expect: 0\n", "name is required"},
		{"no trace", "name: x\nchecks:\n  - var: a\n    at: 0\n    expect: 0\n", "trace is required"},
		{"no checks", "name: x\ntrace: t.vcd\n", "checks list is required"},
		{"no var", "name: x\ntrace: t.vcd\nchecks:\n  - at: 0\n    expect: 0\n", "var is required"},
		{"no time", "name: x\ntrace: t.vcd\nchecks:\n  - var: a\n    expect: 0\n", "exactly one of at and next_after"},
		{"both times", "name: x\ntrace: t.vcd\nchecks:\n  - var: a\n    at: 0\n    next_after: 0\n    expect_time: 1\n", "exactly one of at and next_after"},
		{"enum without at", "name: x\ntrace: t.vcd\nchecks:\n  - var: a\n    next_after: 0\n    enum: e\n    expect_time: 1\n", "enum requires at"},
		{"value without expect", "name: x\ntrace: t.vcd\nchecks:\n  - var: a\n    at: 0\n", "expect is required"},
		{"enum without symbol", "name: x\ntrace: t.vcd\nchecks:\n  - var: a\n    at: 0\n    enum: e\n", "expect_symbol is required"},
		{"next without time", "name: x\ntrace: t.vcd\nchecks:\n  - var: a\n    next_after: 0\n", "expect_time is required"},
		{"bad error class", "name: x\ntrace: t.vcd\nchecks:\n  - var: a\n    at: 0\n    expect_error: boom\n", "unknown expect_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteFile(t, t.TempDir(), "s.yaml", tt.content)
			_, err := LoadScenario(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid scenario")
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestFindScenarios(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "b.yaml", validYAML)
	testutil.WriteFile(t, dir, "a.cue", validCUE)
	testutil.WriteFile(t, dir, "c.yml", validYAML)
	testutil.WriteFile(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.yaml"), 0o755))

	files, err := FindScenarios(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.cue"),
		filepath.Join(dir, "b.yaml"),
		filepath.Join(dir, "c.yml"),
	}, files)

	_, err = FindScenarios(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
