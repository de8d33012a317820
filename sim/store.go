package sim

import (
	"fmt"
	"sort"
)

// attributeSet holds the values of one class of declared attributes.
// A name without an entry in values is unset.
type attributeSet struct {
	kind     string
	names    []string
	declared map[string]bool
	values   map[string]float64
}

func newAttributeSet(kind string, names []string) *attributeSet {
	declared := make(map[string]bool, len(names))
	for _, n := range names {
		declared[n] = true
	}
	return &attributeSet{
		kind:     kind,
		names:    append([]string(nil), names...),
		declared: declared,
		values:   make(map[string]float64, len(names)),
	}
}

func (a *attributeSet) has(name string) bool { return a.declared[name] }

func (a *attributeSet) get(name string) (float64, bool) {
	v, ok := a.values[name]
	return v, ok
}

func (a *attributeSet) set(name string, value float64) error {
	if !a.declared[name] {
		return fmt.Errorf("%w: %s %q", ErrUnknownAttribute, a.kind, name)
	}
	a.values[name] = value
	return nil
}

func (a *attributeSet) clear() {
	clear(a.values)
}

// firstUnset returns the first declared name without a value.
func (a *attributeSet) firstUnset() (string, bool) {
	for _, n := range a.names {
		if _, ok := a.values[n]; !ok {
			return n, true
		}
	}
	return "", false
}

// AttributeStore holds the four disjoint attribute classes of a surrogate
// model: static parameters, inputs, outputs and internal (virtual) states.
// Writes go through the phase controller; the store itself only enforces
// that names are declared.
type AttributeStore struct {
	static   *attributeSet
	input    *attributeSet
	output   *attributeSet
	internal *attributeSet
}

// NewAttributeStore creates an empty store for the given structure.
func NewAttributeStore(ms *ModelStructure) *AttributeStore {
	return &AttributeStore{
		static:   newAttributeSet("parameter", ms.Parameters),
		input:    newAttributeSet("input", ms.Inputs),
		output:   newAttributeSet("output", ms.Outputs),
		internal: newAttributeSet("virtual state", ms.VirtualStateNames()),
	}
}

// Lookup resolves name with the precedence internal > static > output > input.
// The first class that declares name decides; a declared name without a value
// fails with ErrLifecycleViolation.
func (s *AttributeStore) Lookup(name string) (float64, error) {
	for _, set := range s.readOrder() {
		if !set.has(name) {
			continue
		}
		v, ok := set.get(name)
		if !ok {
			return 0, fmt.Errorf("%w: %s %q is not set", ErrLifecycleViolation, set.kind, name)
		}
		return v, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAttribute, name)
}

func (s *AttributeStore) readOrder() [4]*attributeSet {
	return [4]*attributeSet{s.internal, s.static, s.output, s.input}
}

// Snapshot is a read-only view of attribute values handed to transfer functions.
type Snapshot map[string]float64

// TransferSnapshot returns static ∪ input ∪ internal. Internal values shadow
// same-named statics. Unset attributes are absent.
func (s *AttributeStore) TransferSnapshot() Snapshot {
	snap := make(Snapshot, len(s.static.values)+len(s.input.values)+len(s.internal.values))
	for _, set := range []*attributeSet{s.static, s.input} {
		for k, v := range set.values {
			snap[k] = v
		}
	}
	// a declared virtual state hides the parameter even while unset
	for _, n := range s.internal.names {
		delete(snap, n)
	}
	for k, v := range s.internal.values {
		snap[k] = v
	}
	return snap
}

// Values returns every set attribute resolved with read precedence.
func (s *AttributeStore) Values() Snapshot {
	snap := make(Snapshot)
	order := s.readOrder()
	for i := len(order) - 1; i >= 0; i-- {
		for k, v := range order[i].values {
			snap[k] = v
		}
	}
	for _, n := range s.internal.names {
		if _, ok := s.internal.values[n]; !ok {
			delete(snap, n)
		}
	}
	return snap
}

// Names returns the sorted keys of a snapshot.
func (sn Snapshot) Names() []string {
	names := make([]string, 0, len(sn))
	for k := range sn {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
