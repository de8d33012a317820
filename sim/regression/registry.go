package regression

import (
	"fmt"
	"strings"

	"github.com/inference-sim/surrogate-sim/sim"
)

// Registration binds a backend name to its selection predicate and constructor.
type Registration struct {
	Name      string
	Accepts   func(desc Description) bool
	Construct func(desc Description) (Backend, error)
}

// Registry is an ordered list of backends. Order is the selection priority
// and the order in which ambiguity is reported.
type Registry []Registration

const (
	BackendGeneric     = "generic"
	BackendLinear      = "linear"
	BackendKernelRidge = "kernel-ridge"
)

func acceptAll(Description) bool  { return true }
func acceptNone(Description) bool { return false }

func constructGeneric(desc Description) (Backend, error) { return NewGenericBackend(desc) }

func constructLinear(desc Description) (Backend, error) {
	d, ok := desc.(*LinearDescription)
	if !ok {
		return nil, fmt.Errorf("%w: %s backend needs *LinearDescription, got %T", sim.ErrConstruction, BackendLinear, desc)
	}
	return NewLinearBackend(d)
}

func constructKernelRidge(desc Description) (Backend, error) {
	d, ok := desc.(*KernelRidgeDescription)
	if !ok {
		return nil, fmt.Errorf("%w: %s backend needs *KernelRidgeDescription, got %T", sim.ErrConstruction, BackendKernelRidge, desc)
	}
	return NewKernelRidgeBackend(d)
}

// DefaultRegistry routes every description to the generic backend. The
// linear and kernel-ridge backends are registered but never accept; select
// them with CreateNamed or use TypedRegistry.
func DefaultRegistry() Registry {
	return Registry{
		{Name: BackendGeneric, Accepts: acceptAll, Construct: constructGeneric},
		{Name: BackendLinear, Accepts: acceptNone, Construct: constructLinear},
		{Name: BackendKernelRidge, Accepts: acceptNone, Construct: constructKernelRidge},
	}
}

// TypedRegistry routes each description type to its own backend.
func TypedRegistry() Registry {
	return Registry{
		{
			Name: BackendGeneric,
			Accepts: func(desc Description) bool {
				_, ok := desc.(*GenericDescription)
				return ok
			},
			Construct: constructGeneric,
		},
		{
			Name: BackendLinear,
			Accepts: func(desc Description) bool {
				_, ok := desc.(*LinearDescription)
				return ok
			},
			Construct: constructLinear,
		},
		{
			Name: BackendKernelRidge,
			Accepts: func(desc Description) bool {
				_, ok := desc.(*KernelRidgeDescription)
				return ok
			},
			Construct: constructKernelRidge,
		},
	}
}

// Names returns the registered backend names in priority order.
func (r Registry) Names() []string {
	names := make([]string, len(r))
	for i, reg := range r {
		names[i] = reg.Name
	}
	return names
}

// IsValidBackend returns true if name is registered.
func (r Registry) IsValidBackend(name string) bool {
	for _, reg := range r {
		if reg.Name == name {
			return true
		}
	}
	return false
}

// Create constructs the single backend whose predicate accepts desc.
// Zero acceptors fail with sim.ErrNoMatchingBackend, several with
// sim.ErrAmbiguousBackend.
func (r Registry) Create(desc Description) (Backend, error) {
	var matches []Registration
	for _, reg := range r {
		if reg.Accepts(desc) {
			matches = append(matches, reg)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w for %T", sim.ErrNoMatchingBackend, desc)
	case 1:
		return matches[0].Construct(desc)
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.Name
		}
		return nil, fmt.Errorf("%w for %T: %s", sim.ErrAmbiguousBackend, desc, strings.Join(names, ", "))
	}
}

// CreateNamed constructs the backend registered under name, bypassing the predicates.
func (r Registry) CreateNamed(name string, desc Description) (Backend, error) {
	for _, reg := range r {
		if reg.Name == name {
			return reg.Construct(desc)
		}
	}
	return nil, fmt.Errorf("%w: %q (valid: %s)", sim.ErrNoMatchingBackend, name, strings.Join(r.Names(), ", "))
}
