package regression

// InputAccessor yields one column of the vector handed to a backend.
type InputAccessor interface {
	Value() float64
}

// ConstantInputAccessor always yields the same value.
type ConstantInputAccessor struct {
	value float64
}

func NewConstantInputAccessor(value float64) *ConstantInputAccessor {
	return &ConstantInputAccessor{value: value}
}

func (a *ConstantInputAccessor) Value() float64 { return a.value }

// ExternalInputAccessor yields a position of the simulator's external input vector.
type ExternalInputAccessor struct {
	sim *Simulator
	idx int
}

func (a *ExternalInputAccessor) Value() float64 { return a.sim.external[a.idx] }

// FeedbackInputAccessor yields a position of the simulator's output state,
// i.e. the value produced by the previous step.
type FeedbackInputAccessor struct {
	sim *Simulator
	idx int
}

func (a *FeedbackInputAccessor) Value() float64 { return a.sim.state[a.idx] }

// OutputAccessor exposes one position of the output state under its name.
type OutputAccessor struct {
	sim *Simulator
	idx int
}

func (a *OutputAccessor) Value() float64 { return a.sim.state[a.idx] }

// Index returns the output position the accessor reads.
func (a *OutputAccessor) Index() int { return a.idx }
