package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/wavequery/internal/testutil"
)

func TestLoadConfig(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "wavequery.toml", `
format = "json"
verbose = true
lookup = "scan"
database = "runs.db"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, Config{Format: "json", Verbose: true, Lookup: "scan", Database: "runs.db"}, cfg)
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfig(filepath.Join(dir, "missing.toml"))
	require.Error(t, err)

	bad := testutil.WriteFile(t, dir, "bad.toml", "format = \n")
	_, err = LoadConfig(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse TOML")

	unknown := testutil.WriteFile(t, dir, "unknown.toml", "fromat = \"json\"\n")
	_, err = LoadConfig(unknown)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown keys: fromat")
}

func TestConfig_AppliesToCommands(t *testing.T) {
	trace := testutil.WriteFixture(t)
	cfg := testutil.WriteFile(t, t.TempDir(), "wavequery.toml", "format = \"json\"\n")

	out, err := executeCommand(t, "--config", cfg, "timescale", trace)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestConfig_FlagsWin(t *testing.T) {
	trace := testutil.WriteFixture(t)
	cfg := testutil.WriteFile(t, t.TempDir(), "wavequery.toml", "format = \"json\"\n")

	out, err := executeCommand(t, "--config", cfg, "--format", "text", "timescale", trace)
	require.NoError(t, err)
	assert.Equal(t, "1ns\n", out)
}

func TestConfig_InvalidValue(t *testing.T) {
	cfg := testutil.WriteFile(t, t.TempDir(), "wavequery.toml", "lookup = \"hash\"\n")

	_, err := executeCommand(t, "--config", cfg, "timescale", "x.vcd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid lookup")
}

func TestConfig_MissingFile(t *testing.T) {
	_, err := executeCommand(t, "--config", filepath.Join(t.TempDir(), "nope.toml"), "timescale", "x.vcd")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
