package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Scenario defines a regression scenario over one trace.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name" json:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description" json:"description,omitempty"`

	// Trace is the path of the trace file. LoadScenario resolves it
	// relative to the scenario file.
	Trace string `yaml:"trace" json:"trace"`

	// Checks are evaluated in order.
	Checks []Check `yaml:"checks" json:"checks"`
}

// Check is one point query and its expected answer.
type Check struct {
	Var       string  `yaml:"var" json:"var"`
	At        *uint64 `yaml:"at,omitempty" json:"at,omitempty"`
	Enum      string  `yaml:"enum,omitempty" json:"enum,omitempty"`
	NextAfter *uint64 `yaml:"next_after,omitempty" json:"next_after,omitempty"`

	Expect       *int32  `yaml:"expect,omitempty" json:"expect,omitempty"`
	ExpectSymbol string  `yaml:"expect_symbol,omitempty" json:"expect_symbol,omitempty"`
	ExpectTime   *uint64 `yaml:"expect_time,omitempty" json:"expect_time,omitempty"`

	// ExpectError is one of the ErrorClass constants.
	ExpectError string `yaml:"expect_error,omitempty" json:"expect_error,omitempty"`
}

// Check kinds.
const (
	CheckValue = "value"
	CheckEnum  = "enum"
	CheckNext  = "next"
)

// Error classes accepted by expect_error. They match query.Kind names.
const (
	ErrorClassNotFound = "not_found"
	ErrorClassDecode   = "decode"
	ErrorClassDecoder  = "decoder"
)

// Kind reports which query the check runs.
func (c Check) Kind() string {
	switch {
	case c.NextAfter != nil:
		return CheckNext
	case c.Enum != "":
		return CheckEnum
	default:
		return CheckValue
	}
}

// LoadScenario reads a scenario from a .yaml, .yml or .cue file.
// Returns an error if the file doesn't exist, is malformed, contains unknown
// fields (typos), or fails validation.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario *Scenario
	if strings.EqualFold(filepath.Ext(path), ".cue") {
		scenario, err = decodeCUE(path, data)
	} else {
		scenario, err = decodeYAML(data)
	}
	if err != nil {
		return nil, err
	}

	if scenario.Trace != "" && !filepath.IsAbs(scenario.Trace) {
		scenario.Trace = filepath.Join(filepath.Dir(path), scenario.Trace)
	}

	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return scenario, nil
}

func decodeYAML(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "expect_sym:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &scenario, nil
}

// FindScenarios returns the scenario files directly under dir, sorted.
func FindScenarios(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml", ".cue":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Trace == "" {
		return fmt.Errorf("trace is required")
	}
	if len(s.Checks) == 0 {
		return fmt.Errorf("checks list is required and must be non-empty")
	}

	for i, c := range s.Checks {
		if err := validateCheck(i, c); err != nil {
			return err
		}
	}
	return nil
}

// validateCheck validates a single check based on its kind.
func validateCheck(index int, c Check) error {
	if c.Var == "" {
		return fmt.Errorf("checks[%d]: var is required", index)
	}
	if (c.At == nil) == (c.NextAfter == nil) {
		return fmt.Errorf("checks[%d]: exactly one of at and next_after is required", index)
	}
	if c.Enum != "" && c.At == nil {
		return fmt.Errorf("checks[%d]: enum requires at", index)
	}

	switch c.ExpectError {
	case "":
	case ErrorClassNotFound, ErrorClassDecode, ErrorClassDecoder:
		return nil
	default:
		return fmt.Errorf("checks[%d]: unknown expect_error %q", index, c.ExpectError)
	}

	switch c.Kind() {
	case CheckValue:
		if c.Expect == nil {
			return fmt.Errorf("checks[%d]: expect is required for value checks", index)
		}
	case CheckEnum:
		if c.ExpectSymbol == "" {
			return fmt.Errorf("checks[%d]: expect_symbol is required for enum checks", index)
		}
	case CheckNext:
		if c.ExpectTime == nil {
			return fmt.Errorf("checks[%d]: expect_time is required for next checks", index)
		}
	}
	return nil
}
