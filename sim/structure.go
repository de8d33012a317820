package sim

import (
	"fmt"
)

// VirtualStateDescriptor declares a hidden state variable. On its first
// refresh the state is seeded from the parameter InitAttribute; afterwards it
// takes the value the output UpdateAttribute had at the end of the previous step.
type VirtualStateDescriptor struct {
	Name            string `yaml:"name"`
	InitAttribute   string `yaml:"init_attribute"`
	UpdateAttribute string `yaml:"update_attribute"`
}

// ModelStructure is the declarative schema of one surrogate model type.
// Order matters: Inputs and VirtualStates define the column order of the
// vectors handed to regression backends, Outputs the order of their results.
type ModelStructure struct {
	Parameters    []string                 `yaml:"parameters"`
	Inputs        []string                 `yaml:"inputs"`
	Outputs       []string                 `yaml:"outputs"`
	VirtualStates []VirtualStateDescriptor `yaml:"virtual_states"`
}

// Validate checks name uniqueness and the references held by virtual states.
// A virtual state may reuse a parameter name; reads then resolve to the
// virtual state.
func (ms *ModelStructure) Validate() error {
	sets := []struct {
		kind  string
		names []string
	}{
		{"parameter", ms.Parameters},
		{"input", ms.Inputs},
		{"output", ms.Outputs},
	}
	owner := make(map[string]string)
	for _, set := range sets {
		for _, name := range set.names {
			if name == "" {
				return fmt.Errorf("%w: empty %s name", ErrInvalidStructure, set.kind)
			}
			if prev, dup := owner[name]; dup {
				return fmt.Errorf("%w: %q declared as %s and %s", ErrInvalidStructure, name, prev, set.kind)
			}
			owner[name] = set.kind
		}
	}

	seen := make(map[string]bool, len(ms.VirtualStates))
	for _, vs := range ms.VirtualStates {
		if vs.Name == "" {
			return fmt.Errorf("%w: empty virtual state name", ErrInvalidStructure)
		}
		if seen[vs.Name] {
			return fmt.Errorf("%w: virtual state %q declared twice", ErrInvalidStructure, vs.Name)
		}
		seen[vs.Name] = true
		if kind, ok := owner[vs.Name]; ok && kind != "parameter" {
			return fmt.Errorf("%w: virtual state %q clashes with %s", ErrInvalidStructure, vs.Name, kind)
		}
		if owner[vs.InitAttribute] != "parameter" {
			return fmt.Errorf("%w: virtual state %q: init attribute %q is not a parameter",
				ErrInvalidStructure, vs.Name, vs.InitAttribute)
		}
		if owner[vs.UpdateAttribute] != "output" {
			return fmt.Errorf("%w: virtual state %q: update attribute %q is not an output",
				ErrInvalidStructure, vs.Name, vs.UpdateAttribute)
		}
	}
	return nil
}

// OutputIndex returns the position of name in Outputs, or -1.
func (ms *ModelStructure) OutputIndex(name string) int {
	for i, out := range ms.Outputs {
		if out == name {
			return i
		}
	}
	return -1
}

// VirtualStateNames returns the virtual state names in declaration order.
func (ms *ModelStructure) VirtualStateNames() []string {
	names := make([]string, len(ms.VirtualStates))
	for i, vs := range ms.VirtualStates {
		names[i] = vs.Name
	}
	return names
}
