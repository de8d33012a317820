// Package regression provides the array-based surrogate engine. Model
// inputs, virtual states and outputs are fixed positions in numeric vectors;
// accessors wire those positions to their roles and a Backend computes the
// next output vector from the gathered inputs.
//
// Backends are chosen through an explicit Registry (see registry.go):
// GenericBackend delegates to a trained sim.Estimator, LinearBackend
// evaluates an affine map and KernelRidgeBackend evaluates a kernel ridge
// regression over stored fit data.
package regression

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/surrogate-sim/sim"
)

// Simulator steps a regression backend over vector state.
// Unset output positions hold NaN.
type Simulator struct {
	backend Backend

	state    []float64
	external []float64
	scratch  []float64

	constants       []InputAccessor
	inputAccessors  []InputAccessor
	outputAccessors map[string]*OutputAccessor
	inputIndex      map[string]int

	// StepCount is the number of successfully completed steps.
	StepCount int
}

// NewSimulator creates a simulator around backend. Call Init (or use New)
// before stepping it.
func NewSimulator(backend Backend) (*Simulator, error) {
	if backend == nil {
		return nil, fmt.Errorf("%w: regression simulator without backend", sim.ErrConstruction)
	}
	return &Simulator{backend: backend}, nil
}

// AddConstantInput appends a constant column. Constant columns precede the
// external and feedback columns and must be added before Init.
func (s *Simulator) AddConstantInput(value float64) error {
	if s.initialized() {
		return fmt.Errorf("%w: constant input added after init", sim.ErrLifecycleViolation)
	}
	s.constants = append(s.constants, NewConstantInputAccessor(value))
	return nil
}

// Init sizes the vectors and installs the accessors behind the constant
// columns. Calling it again replaces the previous wiring.
func (s *Simulator) Init(numExternal, numOutputs int, inputs []InputAccessor, outputs map[string]*OutputAccessor) {
	s.state = make([]float64, numOutputs)
	s.external = make([]float64, numExternal)
	s.inputAccessors = make([]InputAccessor, 0, len(s.constants)+len(inputs))
	s.inputAccessors = append(s.inputAccessors, s.constants...)
	s.inputAccessors = append(s.inputAccessors, inputs...)
	s.outputAccessors = outputs
	s.scratch = make([]float64, len(s.inputAccessors))
}

func (s *Simulator) initialized() bool { return s.scratch != nil }

// Backend returns the backend computing responses.
func (s *Simulator) Backend() Backend { return s.backend }

// Step gathers every input accessor into the scratch vector, evaluates the
// backend and replaces the whole output state with its result.
func (s *Simulator) Step() error {
	if s == nil || s.backend == nil || s.scratch == nil {
		return fmt.Errorf("%w: regression simulator was not initialized", sim.ErrConstruction)
	}
	if len(s.scratch) != len(s.inputAccessors) {
		s.scratch = make([]float64, len(s.inputAccessors))
	}
	for i, acc := range s.inputAccessors {
		s.scratch[i] = acc.Value()
	}
	next, err := s.backend.ComputeResponses(s.scratch)
	if err != nil {
		return fmt.Errorf("step %d: %s: %w", s.StepCount, s.backend.Name(), err)
	}
	if len(next) != len(s.state) {
		return fmt.Errorf("step %d: %w: %s returned %d values for %d outputs",
			s.StepCount, sim.ErrShapeMismatch, s.backend.Name(), len(next), len(s.state))
	}
	s.state = append(s.state[:0:0], next...)
	s.StepCount++
	logrus.Debugf("[step %07d] %s state=%v", s.StepCount, s.backend.Name(), s.state)
	return nil
}

// SetExternal writes position idx of the external input vector.
func (s *Simulator) SetExternal(idx int, value float64) error {
	if idx < 0 || idx >= len(s.external) {
		return fmt.Errorf("%w: external input index %d (have %d)", sim.ErrUnknownAttribute, idx, len(s.external))
	}
	s.external[idx] = value
	return nil
}

// SetInput writes the external input declared under name.
func (s *Simulator) SetInput(name string, value float64) error {
	idx, ok := s.inputIndex[name]
	if !ok {
		return fmt.Errorf("%w: input %q", sim.ErrUnknownAttribute, name)
	}
	s.external[idx] = value
	return nil
}

// Output reads the output declared under name.
func (s *Simulator) Output(name string) (float64, error) {
	acc, ok := s.outputAccessors[name]
	if !ok {
		return 0, fmt.Errorf("%w: output %q", sim.ErrUnknownAttribute, name)
	}
	v := acc.Value()
	if math.IsNaN(v) {
		return 0, fmt.Errorf("%w: output %q is not set", sim.ErrLifecycleViolation, name)
	}
	return v, nil
}

// State returns a copy of the output state vector.
func (s *Simulator) State() []float64 {
	return append([]float64(nil), s.state...)
}

// External returns a copy of the external input vector.
func (s *Simulator) External() []float64 {
	return append([]float64(nil), s.external...)
}

// NumInputs returns the number of columns handed to the backend.
func (s *Simulator) NumInputs() int { return len(s.inputAccessors) }
