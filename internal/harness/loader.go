package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Polarity values accepted in scenario files.
const (
	expectSuccess = "success"
	expectReject  = "reject"
)

type scenarioSpec struct {
	Name    string         `yaml:"name"`
	Path    string         `yaml:"path"`
	Timeout string         `yaml:"timeout,omitempty"`
	Expect  string         `yaml:"expect,omitempty"`
	Payload map[string]any `yaml:"payload,omitempty"`
}

type scenarioFile struct {
	Scenarios []scenarioSpec `yaml:"scenarios"`
}

// LoadScenarios reads additional scenarios from a YAML file. Parsing is
// strict: unknown fields are rejected so typos fail loudly instead of
// silently dropping a check. The polarity predicate is selected by the
// `expect` field (success by default, reject for negative scenarios).
func LoadScenarios(path string) ([]Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var file scenarioFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse scenario file: %w", err)
	}
	if len(file.Scenarios) == 0 {
		return nil, fmt.Errorf("no scenarios found in %s", path)
	}

	scenarios := make([]Scenario, 0, len(file.Scenarios))
	for i, spec := range file.Scenarios {
		sc, err := spec.toScenario()
		if err != nil {
			return nil, fmt.Errorf("scenarios[%d]: %w", i, err)
		}
		scenarios = append(scenarios, sc)
	}
	return scenarios, nil
}

func (s scenarioSpec) toScenario() (Scenario, error) {
	if s.Name == "" {
		return Scenario{}, fmt.Errorf("name is required")
	}
	if s.Path == "" {
		return Scenario{}, fmt.Errorf("path is required")
	}

	timeout := 10 * time.Second
	if s.Timeout != "" {
		parsed, err := time.ParseDuration(s.Timeout)
		if err != nil {
			return Scenario{}, fmt.Errorf("invalid timeout %q: %w", s.Timeout, err)
		}
		if parsed <= 0 {
			return Scenario{}, fmt.Errorf("timeout must be positive, got %q", s.Timeout)
		}
		timeout = parsed
	}

	var judge Predicate
	switch s.Expect {
	case "", expectSuccess:
		judge = ExpectSuccess
	case expectReject:
		judge = ExpectRejection
	default:
		return Scenario{}, fmt.Errorf("invalid expect %q, must be %q or %q", s.Expect, expectSuccess, expectReject)
	}

	payload := s.Payload
	if payload == nil {
		payload = map[string]any{}
	}

	return Scenario{
		Name:    s.Name,
		Path:    s.Path,
		Payload: payload,
		Timeout: timeout,
		Judge:   judge,
	}, nil
}
