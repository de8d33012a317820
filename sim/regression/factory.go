package regression

import (
	"fmt"
	"math"

	"github.com/inference-sim/surrogate-sim/sim"
)

// BuildStructure wires s to ms: one external accessor per declared input,
// then one feedback accessor per virtual state reading the output its
// update attribute names, and one output accessor per declared output.
func BuildStructure(s *Simulator, ms sim.ModelStructure) error {
	if err := ms.Validate(); err != nil {
		return err
	}
	inputs := make([]InputAccessor, 0, len(ms.Inputs)+len(ms.VirtualStates))
	for idx := range ms.Inputs {
		inputs = append(inputs, &ExternalInputAccessor{sim: s, idx: idx})
	}
	for _, vs := range ms.VirtualStates {
		idx := ms.OutputIndex(vs.UpdateAttribute)
		if idx < 0 {
			return fmt.Errorf("%w: virtual state %q: update attribute %q", sim.ErrUnknownAttribute, vs.Name, vs.UpdateAttribute)
		}
		inputs = append(inputs, &FeedbackInputAccessor{sim: s, idx: idx})
	}
	outputs := make(map[string]*OutputAccessor, len(ms.Outputs))
	for idx, name := range ms.Outputs {
		outputs[name] = &OutputAccessor{sim: s, idx: idx}
	}
	s.inputIndex = make(map[string]int, len(ms.Inputs))
	for idx, name := range ms.Inputs {
		s.inputIndex[name] = idx
	}
	s.Init(len(ms.Inputs), len(ms.Outputs), inputs, outputs)
	return nil
}

// SetupInitialState seeds the output state from initial values. An output is
// taken from init by its own name, otherwise from the init attribute of the
// virtual state it updates, otherwise it stays unset (NaN).
func SetupInitialState(s *Simulator, ms sim.ModelStructure, init map[string]float64) error {
	if len(s.state) != len(ms.Outputs) {
		return fmt.Errorf("%w: state has %d positions for %d outputs", sim.ErrShapeMismatch, len(s.state), len(ms.Outputs))
	}
	outputToInit := make(map[string]string, len(ms.VirtualStates))
	for _, vs := range ms.VirtualStates {
		outputToInit[vs.UpdateAttribute] = vs.InitAttribute
	}
	for idx, name := range ms.Outputs {
		if v, ok := init[name]; ok {
			s.state[idx] = v
			continue
		}
		if src, ok := outputToInit[name]; ok {
			v, ok := init[src]
			if !ok {
				return fmt.Errorf("%w: parameter %q seeding output %q is not set", sim.ErrLifecycleViolation, src, name)
			}
			s.state[idx] = v
			continue
		}
		s.state[idx] = math.NaN()
	}
	return nil
}

// New selects a backend for desc from registry, wires it to ms and seeds the
// initial state from init.
func New(registry Registry, desc Description, ms sim.ModelStructure, init map[string]float64) (*Simulator, error) {
	backend, err := registry.Create(desc)
	if err != nil {
		return nil, err
	}
	return NewWithBackend(backend, ms, init)
}

// NewWithBackend wires an already constructed backend to ms and seeds it from init.
func NewWithBackend(backend Backend, ms sim.ModelStructure, init map[string]float64) (*Simulator, error) {
	s, err := NewSimulator(backend)
	if err != nil {
		return nil, err
	}
	if err := BuildStructure(s, ms); err != nil {
		return nil, err
	}
	if err := SetupInitialState(s, ms, init); err != nil {
		return nil, err
	}
	return s, nil
}
