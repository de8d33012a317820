package sim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// accumulatorStructure declares P = P_set + acc where acc is fed back from P
// and seeded from capacity.
func accumulatorStructure() ModelStructure {
	return ModelStructure{
		Parameters: []string{"capacity"},
		Inputs:     []string{"P_set"},
		Outputs:    []string{"P"},
		VirtualStates: []VirtualStateDescriptor{
			{Name: "acc", InitAttribute: "capacity", UpdateAttribute: "P"},
		},
	}
}

func sumEstimator() Estimator {
	return EstimatorFunc(func(x []float64) ([]float64, error) {
		return []float64{x[0] + x[1]}, nil
	})
}

func constEstimator(values ...float64) Estimator {
	return EstimatorFunc(func([]float64) ([]float64, error) {
		return append([]float64(nil), values...), nil
	})
}

func newAccumulator(t *testing.T) *Simulator {
	t.Helper()
	tf, err := NewSimpleTransferFunction(sumEstimator(), []string{"P_set", "acc"}, []string{"P"})
	require.NoError(t, err)
	s, err := NewSimulator(accumulatorStructure(), tf)
	require.NoError(t, err)
	return s
}
