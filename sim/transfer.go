package sim

import (
	"fmt"
)

// Estimator is a trained predictive model evaluated on a single observation.
// The returned slice is positionally aligned with the model's responses.
type Estimator interface {
	Predict(x []float64) ([]float64, error)
}

// EstimatorFunc adapts a plain function to Estimator.
type EstimatorFunc func(x []float64) ([]float64, error)

func (f EstimatorFunc) Predict(x []float64) ([]float64, error) { return f(x) }

// TransferFunction maps a snapshot of the model's attributes to predicted
// output values. Implementations hold no per-step state.
type TransferFunction interface {
	Step(snapshot Snapshot) (map[string]float64, error)
}

// SimpleTransferFunction evaluates one Estimator.
type SimpleTransferFunction struct {
	estimator     Estimator
	inputNames    []string
	responseNames []string
}

// NewSimpleTransferFunction wraps est, which consumes inputNames (in order)
// and predicts responseNames (in order).
func NewSimpleTransferFunction(est Estimator, inputNames, responseNames []string) (*SimpleTransferFunction, error) {
	if est == nil {
		return nil, fmt.Errorf("%w: transfer function without estimator", ErrConstruction)
	}
	if len(responseNames) == 0 {
		return nil, fmt.Errorf("%w: transfer function without responses", ErrConstruction)
	}
	return &SimpleTransferFunction{
		estimator:     est,
		inputNames:    append([]string(nil), inputNames...),
		responseNames: append([]string(nil), responseNames...),
	}, nil
}

// InputNames returns the names read from the snapshot, in order.
func (tf *SimpleTransferFunction) InputNames() []string { return tf.inputNames }

// ResponseNames returns the names of the predicted values, in order.
func (tf *SimpleTransferFunction) ResponseNames() []string { return tf.responseNames }

func (tf *SimpleTransferFunction) Step(snapshot Snapshot) (map[string]float64, error) {
	if tf == nil || tf.estimator == nil {
		return nil, fmt.Errorf("%w: transfer function was not built with NewSimpleTransferFunction", ErrConstruction)
	}
	x := make([]float64, len(tf.inputNames))
	for i, name := range tf.inputNames {
		v, ok := snapshot[name]
		if !ok {
			return nil, fmt.Errorf("%w: transfer function input %q", ErrUnknownAttribute, name)
		}
		x[i] = v
	}
	y, err := tf.estimator.Predict(x)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}
	if len(y) != len(tf.responseNames) {
		return nil, fmt.Errorf("%w: estimator returned %d values for %d responses",
			ErrShapeMismatch, len(y), len(tf.responseNames))
	}
	responses := make(map[string]float64, len(y))
	for i, name := range tf.responseNames {
		responses[name] = y[i]
	}
	return responses, nil
}

// CombinedTransferFunction runs several transfer functions in declaration
// order and merges their results. A response produced by more than one
// function takes the value of the last one.
type CombinedTransferFunction struct {
	functions []TransferFunction
}

// NewCombinedTransferFunction combines fns, keeping their order.
func NewCombinedTransferFunction(fns ...TransferFunction) (*CombinedTransferFunction, error) {
	if len(fns) == 0 {
		return nil, fmt.Errorf("%w: combined transfer function without members", ErrConstruction)
	}
	for i, fn := range fns {
		if fn == nil {
			return nil, fmt.Errorf("%w: combined transfer function member %d is nil", ErrConstruction, i)
		}
	}
	return &CombinedTransferFunction{functions: append([]TransferFunction(nil), fns...)}, nil
}

func (c *CombinedTransferFunction) Step(snapshot Snapshot) (map[string]float64, error) {
	if c == nil || len(c.functions) == 0 {
		return nil, fmt.Errorf("%w: combined transfer function has no members", ErrConstruction)
	}
	responses := make(map[string]float64)
	for i, fn := range c.functions {
		out, err := fn.Step(snapshot)
		if err != nil {
			return nil, fmt.Errorf("transfer function %d: %w", i, err)
		}
		for k, v := range out {
			responses[k] = v
		}
	}
	return responses, nil
}
