package cli

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/wavequery/internal/store"
	"github.com/roach88/wavequery/internal/testutil"
)

func sampleJSON(t *testing.T, args ...string) SampleResult {
	t.Helper()
	out, err := executeCommand(t, append([]string{"--format", "json", "sample"}, args...)...)
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   SampleResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, "ok", resp.Status)
	return resp.Data
}

func TestSampleCommand_EnumRun(t *testing.T) {
	trace := testutil.WriteFixture(t)
	db := filepath.Join(t.TempDir(), "runs.db")

	res := sampleJSON(t, trace, "TOP.cpu.rax_op [1:0]", "--enum", "control::reg_op_e", "--db", db)
	assert.Equal(t, 4, res.Samples)
	assert.Equal(t, 1, res.Errors)
	assert.Equal(t, int64(1), res.Run.Seq)
	assert.NotEmpty(t, res.Run.ID)
	assert.Equal(t, uint64(30), res.Run.To)
	assert.Equal(t, "1ns", res.Run.Timescale)
	assert.True(t, filepath.IsAbs(res.Run.TracePath))

	out, err := executeCommand(t, "runs", "--db", db, "--run", res.Run.ID)
	require.NoError(t, err)
	assert.Equal(t, `0  00  NONE
10  01  READ
20  10  WRITE
30  xx  error INVALID_VALUE
`, out)
}

func TestSampleCommand_ValueWindow(t *testing.T) {
	trace := testutil.WriteFixture(t)
	db := filepath.Join(t.TempDir(), "runs.db")

	res := sampleJSON(t, trace, "TOP.clk", "--db", db, "--from", "15", "--to", "25")
	assert.Equal(t, 2, res.Samples)
	assert.Zero(t, res.Errors)

	out, err := executeCommand(t, "--format", "json", "runs", "--db", db, "--run", res.Run.ID)
	require.NoError(t, err)

	var resp struct {
		Data RunSamplesResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Samples, 2)
	assert.Equal(t, store.Sample{Seq: 1, Time: 15, Raw: "1", Value: "1"}, resp.Data.Samples[0])
	assert.Equal(t, store.Sample{Seq: 2, Time: 20, Raw: "0", Value: "0"}, resp.Data.Samples[1])
}

func TestSampleCommand_Errors(t *testing.T) {
	trace := testutil.WriteFixture(t)
	db := filepath.Join(t.TempDir(), "runs.db")

	_, err := executeCommand(t, "sample", trace, "TOP.nope", "--db", db)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	_, err = executeCommand(t, "sample", trace, "TOP.clk", "--db", db, "--from", "20", "--to", "10")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid window")

	_, err = executeCommand(t, "sample", trace, "TOP.clk", "--db", filepath.Join(t.TempDir(), "no", "such", "dir.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestSampleCommand_DatabaseFromConfig(t *testing.T) {
	trace := testutil.WriteFixture(t)
	dir := t.TempDir()
	db := filepath.Join(dir, "from-config.db")
	cfg := testutil.WriteFile(t, dir, "wavequery.toml", "database = \""+filepath.ToSlash(db)+"\"\n")

	_, err := executeCommand(t, "--config", cfg, "sample", trace, "TOP.clk")
	require.NoError(t, err)

	out, err := executeCommand(t, "runs", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "TOP.clk")
}

func TestRunsCommand_ListAndDelete(t *testing.T) {
	trace := testutil.WriteFixture(t)
	db := filepath.Join(t.TempDir(), "runs.db")

	out, err := executeCommand(t, "runs", "--db", db)
	require.NoError(t, err)
	assert.Empty(t, out)

	first := sampleJSON(t, trace, "TOP.clk", "--db", db)
	second := sampleJSON(t, trace, "TOP.cpu.count", "--db", db)

	out, err = executeCommand(t, "runs", "--db", db)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "1  "+first.Run.ID+"  TOP.clk  "))
	assert.True(t, strings.HasPrefix(lines[1], "2  "+second.Run.ID+"  TOP.cpu.count  "))
	assert.True(t, strings.HasSuffix(lines[0], "[0, 30] 1ns"))

	out, err = executeCommand(t, "runs", "--db", db, "--delete", first.Run.ID)
	require.NoError(t, err)
	assert.Equal(t, "deleted "+first.Run.ID+"\n", out)

	_, err = executeCommand(t, "runs", "--db", db, "--run", first.Run.ID)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	out, err = executeCommand(t, "--format", "json", "runs", "--db", db)
	require.NoError(t, err)
	var resp struct {
		Data []store.Run `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, second.Run, resp.Data[0])
}

func TestRunsCommand_Window(t *testing.T) {
	trace := testutil.WriteFixture(t)
	db := filepath.Join(t.TempDir(), "runs.db")
	res := sampleJSON(t, trace, "TOP.cpu.count", "--db", db)

	out, err := executeCommand(t, "runs", "--db", db, "--run", res.Run.ID, "--from", "10")
	require.NoError(t, err)
	assert.Equal(t, "10  "+strings.Repeat("0", 29)+"101  5\n20  "+strings.Repeat("0", 30)+"1x  error INVALID_VALUE\n", out)

	_, err = executeCommand(t, "runs", "--db", db, "--run", res.Run.ID, "--delete", res.Run.ID)
	require.Error(t, err)
}
