package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Phase is the lifecycle phase of a surrogate model.
// Init is entered once at construction; afterwards the model cycles
// PreStep → Step → PostStep → Idle → PreStep.
type Phase int

const (
	PhaseInit Phase = iota
	PhasePreStep
	PhaseStep
	PhasePostStep
	PhaseIdle
	numPhases
)

func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "init"
	case PhasePreStep:
		return "pre-step"
	case PhaseStep:
		return "step"
	case PhasePostStep:
		return "post-step"
	case PhaseIdle:
		return "idle"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// phaseHandler is the per-phase capability set. Write methods that a phase
// does not support fail with ErrLifecycleViolation (see rejectWrites).
type phaseHandler interface {
	activate()
	deactivate() error
	setInitial(name string, value float64) error
	setInput(name string, value float64) error
	setOutput(name string, value float64) error
}

// rejectWrites is embedded by phases to refuse every write kind they do not override.
type rejectWrites struct {
	phase Phase
}

func (r rejectWrites) setInitial(name string, _ float64) error {
	return fmt.Errorf("%w: cannot set parameter %q during %s", ErrLifecycleViolation, name, r.phase)
}

func (r rejectWrites) setInput(name string, _ float64) error {
	return fmt.Errorf("%w: cannot set input %q during %s", ErrLifecycleViolation, name, r.phase)
}

func (r rejectWrites) setOutput(name string, _ float64) error {
	return fmt.Errorf("%w: cannot set output %q during %s", ErrLifecycleViolation, name, r.phase)
}

type initPhase struct {
	rejectWrites
	store *AttributeStore
}

func (p *initPhase) activate() {}

func (p *initPhase) deactivate() error {
	if name, unset := p.store.static.firstUnset(); unset {
		return fmt.Errorf("%w: parameter %q has not been initialized", ErrLifecycleViolation, name)
	}
	return nil
}

func (p *initPhase) setInitial(name string, value float64) error {
	return p.store.static.set(name, value)
}

type preStepPhase struct {
	rejectWrites
	store  *AttributeStore
	states []*VirtualState
}

// activate discards last step's inputs and internals so that every step
// starts from freshly supplied values.
func (p *preStepPhase) activate() {
	p.store.input.clear()
	p.store.internal.clear()
}

func (p *preStepPhase) deactivate() error {
	if name, unset := p.store.input.firstUnset(); unset {
		return fmt.Errorf("%w: input %q has not been set", ErrLifecycleViolation, name)
	}
	for _, vs := range p.states {
		if err := vs.Execute(p.store); err != nil {
			return err
		}
	}
	return nil
}

func (p *preStepPhase) setInput(name string, value float64) error {
	return p.store.input.set(name, value)
}

type stepPhase struct {
	rejectWrites
}

func (p *stepPhase) activate()         {}
func (p *stepPhase) deactivate() error { return nil }

type postStepPhase struct {
	rejectWrites
	store *AttributeStore
}

func (p *postStepPhase) activate() {
	p.store.output.clear()
}

func (p *postStepPhase) deactivate() error {
	if name, unset := p.store.output.firstUnset(); unset {
		return fmt.Errorf("%w: output %q has not been published", ErrLifecycleViolation, name)
	}
	return nil
}

func (p *postStepPhase) setOutput(name string, value float64) error {
	return p.store.output.set(name, value)
}

type idlePhase struct {
	rejectWrites
}

func (p *idlePhase) activate()         {}
func (p *idlePhase) deactivate() error { return nil }

// Lifecycle gates access to an AttributeStore by phase.
type Lifecycle struct {
	store    *AttributeStore
	handlers [numPhases]phaseHandler
	current  Phase
}

// NewLifecycle creates a controller in PhaseInit.
func NewLifecycle(store *AttributeStore, states []*VirtualState) *Lifecycle {
	lc := &Lifecycle{store: store, current: PhaseInit}
	lc.handlers = [numPhases]phaseHandler{
		PhaseInit:     &initPhase{rejectWrites{PhaseInit}, store},
		PhasePreStep:  &preStepPhase{rejectWrites{PhasePreStep}, store, states},
		PhaseStep:     &stepPhase{rejectWrites{PhaseStep}},
		PhasePostStep: &postStepPhase{rejectWrites{PhasePostStep}, store},
		PhaseIdle:     &idlePhase{rejectWrites{PhaseIdle}},
	}
	lc.handlers[PhaseInit].activate()
	return lc
}

// Phase returns the active phase.
func (lc *Lifecycle) Phase() Phase { return lc.current }

// Transition leaves the active phase and enters next. A failed exit
// validation leaves the active phase in place. Transition to the active
// phase does nothing.
func (lc *Lifecycle) Transition(next Phase) error {
	if next < 0 || next >= numPhases {
		return fmt.Errorf("%w: unknown phase %s", ErrLifecycleViolation, next)
	}
	if next == lc.current {
		return nil
	}
	if err := lc.handlers[lc.current].deactivate(); err != nil {
		return fmt.Errorf("leaving %s: %w", lc.current, err)
	}
	logrus.Debugf("phase %s -> %s", lc.current, next)
	lc.current = next
	lc.handlers[next].activate()
	return nil
}

// SetInitial binds a parameter value; only PhaseInit accepts it.
func (lc *Lifecycle) SetInitial(name string, value float64) error {
	return lc.handlers[lc.current].setInitial(name, value)
}

// SetInput binds an input value; only PhasePreStep accepts it.
func (lc *Lifecycle) SetInput(name string, value float64) error {
	return lc.handlers[lc.current].setInput(name, value)
}

// SetOutput publishes an output value; only PhasePostStep accepts it.
func (lc *Lifecycle) SetOutput(name string, value float64) error {
	return lc.handlers[lc.current].setOutput(name, value)
}
