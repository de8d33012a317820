// sim/simulator.go
package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Simulator is a surrogate model driven one discrete step at a time.
// It owns the attribute store, the lifecycle controller and the virtual
// states, and delegates output computation to a TransferFunction.
// A Simulator is not safe for concurrent use.
type Simulator struct {
	structure *ModelStructure
	store     *AttributeStore
	lifecycle *Lifecycle
	states    []*VirtualState
	transfer  TransferFunction

	// StepCount is the number of successfully completed steps.
	StepCount int
}

// NewSimulator validates structure and creates a Simulator in PhaseInit.
func NewSimulator(structure ModelStructure, transfer TransferFunction) (*Simulator, error) {
	if transfer == nil {
		return nil, fmt.Errorf("%w: simulator without transfer function", ErrConstruction)
	}
	if err := structure.Validate(); err != nil {
		return nil, err
	}
	s := &Simulator{
		structure: &structure,
		store:     NewAttributeStore(&structure),
		transfer:  transfer,
	}
	s.states = make([]*VirtualState, len(structure.VirtualStates))
	for i, desc := range structure.VirtualStates {
		s.states[i] = NewVirtualState(desc)
	}
	s.lifecycle = NewLifecycle(s.store, s.states)
	return s, nil
}

func (s *Simulator) ready() error {
	if s == nil || s.lifecycle == nil {
		return fmt.Errorf("%w: simulator was not built with NewSimulator", ErrConstruction)
	}
	return nil
}

// Structure returns the model structure the simulator was built from.
func (s *Simulator) Structure() ModelStructure {
	if s.ready() != nil {
		return ModelStructure{}
	}
	return *s.structure
}

// Phase returns the active lifecycle phase.
func (s *Simulator) Phase() Phase {
	if s.ready() != nil {
		return PhaseInit
	}
	return s.lifecycle.Phase()
}

// Init binds parameter values and moves the model to PhasePreStep.
// It is only valid while the model is still in PhaseInit, and fails if a
// declared parameter is left without a value.
func (s *Simulator) Init(values map[string]float64) error {
	if err := s.ready(); err != nil {
		return err
	}
	if s.lifecycle.Phase() != PhaseInit {
		return fmt.Errorf("%w: init called during %s", ErrLifecycleViolation, s.lifecycle.Phase())
	}
	for _, name := range Snapshot(values).Names() {
		if err := s.lifecycle.SetInitial(name, values[name]); err != nil {
			return err
		}
	}
	return s.lifecycle.Transition(PhasePreStep)
}

// Step advances the model by one tick:
// PreStep exit (input validation, virtual state refresh) → Step (transfer
// function) → PostStep (publish outputs, validate completeness) → Idle.
// A failed step leaves the store partially updated.
func (s *Simulator) Step() error {
	if err := s.ready(); err != nil {
		return err
	}
	if err := s.lifecycle.Transition(PhasePreStep); err != nil {
		return err
	}
	if err := s.lifecycle.Transition(PhaseStep); err != nil {
		return err
	}

	responses, err := s.transfer.Step(s.store.TransferSnapshot())
	if err != nil {
		return fmt.Errorf("step %d: %w", s.StepCount, err)
	}

	if err := s.lifecycle.Transition(PhasePostStep); err != nil {
		return err
	}
	for _, name := range Snapshot(responses).Names() {
		if err := s.lifecycle.SetOutput(name, responses[name]); err != nil {
			return fmt.Errorf("step %d: %w", s.StepCount, err)
		}
	}
	if err := s.lifecycle.Transition(PhaseIdle); err != nil {
		return fmt.Errorf("step %d: %w", s.StepCount, err)
	}
	s.StepCount++
	logrus.Debugf("[step %07d] published %d outputs", s.StepCount, len(responses))
	return nil
}

// Get reads an attribute with precedence virtual state > parameter > output > input.
func (s *Simulator) Get(name string) (float64, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	return s.store.Lookup(name)
}

// Set writes an input value. If the model is not in PhasePreStep it is moved
// there first, which discards all inputs and virtual states set so far.
func (s *Simulator) Set(name string, value float64) error {
	if err := s.ready(); err != nil {
		return err
	}
	if err := s.lifecycle.Transition(PhasePreStep); err != nil {
		return err
	}
	return s.lifecycle.SetInput(name, value)
}

// Values returns every attribute that currently has a value.
func (s *Simulator) Values() Snapshot {
	if s.ready() != nil {
		return Snapshot{}
	}
	return s.store.Values()
}
