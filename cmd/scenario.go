package cmd

import (
	"bytes"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/surrogate-sim/sim"
	"github.com/inference-sim/surrogate-sim/sim/regression"
)

const (
	EngineAttribute = "attribute"
	EngineArray     = "array"
)

// Backend selections for the array engine besides explicit backend names.
const (
	BackendSelectTyped   = ""        // each description type picks its own backend
	BackendSelectDefault = "default" // generic backend for every description
)

// ModelConfig is one trained model in a scenario file.
type ModelConfig struct {
	Kind          string   `yaml:"kind"` // "linear" or "kernel-ridge"
	InputNames    []string `yaml:"input_names"`
	ResponseNames []string `yaml:"response_names"`

	regression.LinearDescription      `yaml:",inline"`
	regression.KernelRidgeDescription `yaml:",inline"`
}

// Description returns the regression description for the model's kind.
func (m *ModelConfig) Description() (regression.Description, error) {
	switch m.Kind {
	case regression.BackendLinear:
		d := m.LinearDescription
		return &d, nil
	case regression.BackendKernelRidge:
		d := m.KernelRidgeDescription
		return &d, nil
	default:
		return nil, fmt.Errorf("unknown model kind %q", m.Kind)
	}
}

// Scenario represents a full scenario YAML file.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type Scenario struct {
	Name       string               `yaml:"name"`
	Engine     string               `yaml:"engine"`
	Backend    string               `yaml:"backend"`
	Ticks      int                  `yaml:"ticks"`
	Structure  sim.ModelStructure   `yaml:"structure"`
	Parameters map[string]float64   `yaml:"parameters"`
	Models     []ModelConfig        `yaml:"models"`
	Inputs     map[string][]float64 `yaml:"inputs"`
}

// LoadScenario reads and validates a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes scenario YAML with strict field checking and validates it.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks the scenario is runnable.
func (sc *Scenario) Validate() error {
	if err := sc.Structure.Validate(); err != nil {
		return err
	}
	switch sc.Engine {
	case "", EngineAttribute:
	case EngineArray:
		if len(sc.Models) != 1 {
			return fmt.Errorf("array engine takes exactly one model, got %d", len(sc.Models))
		}
		if sc.Backend != BackendSelectTyped && sc.Backend != BackendSelectDefault &&
			!regression.DefaultRegistry().IsValidBackend(sc.Backend) {
			return fmt.Errorf("unknown backend %q", sc.Backend)
		}
		if err := sc.checkArrayModel(&sc.Models[0]); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown engine %q", sc.Engine)
	}
	if len(sc.Models) == 0 {
		return fmt.Errorf("scenario declares no models")
	}
	for i := range sc.Models {
		if _, err := sc.Models[i].Description(); err != nil {
			return fmt.Errorf("model %d: %w", i, err)
		}
	}
	for _, name := range sc.Structure.Inputs {
		if len(sc.Inputs[name]) == 0 {
			return fmt.Errorf("input %q has no schedule", name)
		}
	}
	for name := range sc.Inputs {
		if !slices.Contains(sc.Structure.Inputs, name) {
			return fmt.Errorf("schedule for undeclared input %q", name)
		}
	}
	if sc.Ticks < 0 {
		return fmt.Errorf("ticks must be non-negative, got %d", sc.Ticks)
	}
	return nil
}

// checkArrayModel makes sure names given for an array model match the
// column layout the array engine builds.
func (sc *Scenario) checkArrayModel(m *ModelConfig) error {
	wantIn := append(append([]string(nil), sc.Structure.Inputs...), sc.Structure.VirtualStateNames()...)
	if len(m.InputNames) > 0 && !slices.Equal(m.InputNames, wantIn) {
		return fmt.Errorf("array model input_names %v must equal inputs then virtual states %v", m.InputNames, wantIn)
	}
	if len(m.ResponseNames) > 0 && !slices.Equal(m.ResponseNames, sc.Structure.Outputs) {
		return fmt.Errorf("array model response_names %v must equal outputs %v", m.ResponseNames, sc.Structure.Outputs)
	}
	return nil
}

// InputAt returns the scheduled value of input name at tick (0-based).
// The last scheduled value repeats once the schedule is exhausted.
func (sc *Scenario) InputAt(name string, tick int) float64 {
	schedule := sc.Inputs[name]
	return schedule[min(tick, len(schedule)-1)]
}

// DefaultTicks is the scenario's tick count, or the longest schedule if unset.
func (sc *Scenario) DefaultTicks() int {
	if sc.Ticks > 0 {
		return sc.Ticks
	}
	n := 0
	for _, s := range sc.Inputs {
		n = max(n, len(s))
	}
	return n
}
