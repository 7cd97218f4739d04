package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/wavequery/internal/query"
)

// Golden file layout shared by goldie in tests and by WriteGolden.
const (
	GoldenDir    = "testdata/golden"
	GoldenSuffix = ".golden"
)

// Snapshot renders a result as indented JSON with a trailing newline.
// Outcomes carry no paths or timestamps, so snapshots are stable across
// machines.
func Snapshot(result *Result) ([]byte, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// RunWithGolden executes a scenario and compares the result against a golden
// file. The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if the trace cannot be opened.
// Test failure (via goldie) occurs if the snapshot doesn't match.
func RunWithGolden(t *testing.T, scenario *Scenario, opts ...query.Option) error {
	t.Helper()

	result, err := Run(scenario, opts...)
	if err != nil {
		return err
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := Snapshot(result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir(GoldenDir),
		goldie.WithNameSuffix(GoldenSuffix),
	)
	g.Assert(t, name, data)
	return nil
}

// GoldenPath returns where the golden file for name lives under dir.
func GoldenPath(dir, name string) string {
	return filepath.Join(dir, name+GoldenSuffix)
}

// WriteGolden writes the snapshot of result to dir, creating dir if needed.
func WriteGolden(dir string, result *Result) error {
	data, err := Snapshot(result)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create golden dir: %w", err)
	}
	if err := os.WriteFile(GoldenPath(dir, result.Scenario), data, 0o644); err != nil {
		return fmt.Errorf("write golden: %w", err)
	}
	return nil
}

// CompareGolden reports whether the snapshot of result matches its golden
// file in dir. A missing golden file is an error wrapping os.ErrNotExist.
func CompareGolden(dir string, result *Result) (bool, error) {
	want, err := os.ReadFile(GoldenPath(dir, result.Scenario))
	if err != nil {
		return false, fmt.Errorf("read golden: %w", err)
	}
	got, err := Snapshot(result)
	if err != nil {
		return false, err
	}
	return bytes.Equal(want, got), nil
}
