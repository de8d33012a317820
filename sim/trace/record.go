// Package trace records per-step attribute values of a surrogate run.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// StepRecord captures the attribute values visible after one completed step.
type StepRecord struct {
	Tick   int
	Values map[string]float64 // attribute name → value
}

// FailureRecord captures a step that returned an error.
type FailureRecord struct {
	Tick   int
	Reason string
}
