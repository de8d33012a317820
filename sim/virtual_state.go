package sim

import "fmt"

// VirtualState refreshes one hidden state variable at the end of PreStep.
// The first refresh copies the parameter named by InitAttribute; every later
// refresh copies the output named by UpdateAttribute, i.e. the value
// published by the last completed step.
type VirtualState struct {
	desc     VirtualStateDescriptor
	executed bool
}

// NewVirtualState creates a unit that has not run yet.
func NewVirtualState(desc VirtualStateDescriptor) *VirtualState {
	return &VirtualState{desc: desc}
}

// Name returns the public name of the state.
func (vs *VirtualState) Name() string { return vs.desc.Name }

// Executed reports whether the state has been refreshed at least once.
func (vs *VirtualState) Executed() bool { return vs.executed }

// Execute computes the state's value and writes it to the internal set.
func (vs *VirtualState) Execute(store *AttributeStore) error {
	src, from := store.static, vs.desc.InitAttribute
	if vs.executed {
		src, from = store.output, vs.desc.UpdateAttribute
	}
	v, ok := src.get(from)
	if !ok {
		return fmt.Errorf("%w: virtual state %q: %s %q is not set",
			ErrLifecycleViolation, vs.desc.Name, src.kind, from)
	}
	if err := store.internal.set(vs.desc.Name, v); err != nil {
		return err
	}
	vs.executed = true
	return nil
}
