package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario is a scripted calculator session with expectations.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Config is an optional CUE configuration file. LoadScenario resolves
	// it relative to the scenario file.
	Config string `yaml:"config,omitempty"`

	// Batch forces batch mode on.
	Batch bool `yaml:"batch,omitempty"`

	// MaxTicks overrides the configured tick limit when positive.
	MaxTicks int `yaml:"max_ticks,omitempty"`

	// Variables are merged over the configured variables.
	Variables map[string]float64 `yaml:"variables,omitempty"`

	// Input lines, fed to the calculator in order. End of input ends the
	// session.
	Input []string `yaml:"input"`

	Expect Expect `yaml:"expect"`
}

// Expect lists the checks applied after the session ends. Unset fields
// are not checked.
type Expect struct {
	// Output must equal the full output when set.
	Output *string `yaml:"output,omitempty"`

	// Contains lists substrings the output must contain.
	Contains []string `yaml:"contains,omitempty"`

	// Accumulator must equal the final accumulator when set.
	Accumulator *float64 `yaml:"accumulator,omitempty"`

	// Variables is a subset of the final variables.
	Variables map[string]float64 `yaml:"variables,omitempty"`
}

func (e Expect) empty() bool {
	return e.Output == nil && len(e.Contains) == 0 && e.Accumulator == nil && len(e.Variables) == 0
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Config != "" && !filepath.IsAbs(scenario.Config) {
		scenario.Config = filepath.Join(filepath.Dir(path), scenario.Config)
	}
	if scenario.Config != "" {
		if _, err := os.Stat(scenario.Config); os.IsNotExist(err) {
			return nil, fmt.Errorf("invalid scenario: config file not found: %s", scenario.Config)
		}
	}

	return scenario, nil
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict decoding catches typos like "expects:" vs "expect:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.MaxTicks < 0 {
		return fmt.Errorf("max_ticks must be non-negative")
	}

	if s.Expect.empty() {
		return fmt.Errorf("expect must check at least one of output, contains, accumulator, variables")
	}

	for i, sub := range s.Expect.Contains {
		if sub == "" {
			return fmt.Errorf("expect.contains[%d]: empty string", i)
		}
	}

	return nil
}
