package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimpleTransferFunction_Step_GathersInDeclaredOrder(t *testing.T) {
	// GIVEN an estimator that echoes its input vector
	var seen []float64
	echo := EstimatorFunc(func(x []float64) ([]float64, error) {
		seen = append([]float64(nil), x...)
		return []float64{x[0] - x[1], x[1]}, nil
	})
	tf, err := NewSimpleTransferFunction(echo, []string{"b", "a"}, []string{"diff", "last"})
	require.NoError(t, err)

	// WHEN stepped on a snapshot
	out, err := tf.Step(Snapshot{"a": 1, "b": 10, "unused": 99})

	// THEN inputs follow declared order and responses are keyed by position
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 1}, seen)
	assert.Equal(t, map[string]float64{"diff": 9, "last": 1}, out)
}

func TestSimpleTransferFunction_Step_MissingInput(t *testing.T) {
	tf, err := NewSimpleTransferFunction(constEstimator(1), []string{"a"}, []string{"y"})
	require.NoError(t, err)

	_, err = tf.Step(Snapshot{})

	assert.ErrorIs(t, err, ErrUnknownAttribute)
}

func TestSimpleTransferFunction_Step_WrongLength(t *testing.T) {
	tf, err := NewSimpleTransferFunction(constEstimator(1, 2), nil, []string{"y"})
	require.NoError(t, err)

	_, err = tf.Step(Snapshot{})

	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestSimpleTransferFunction_Construction(t *testing.T) {
	_, err := NewSimpleTransferFunction(nil, nil, []string{"y"})
	assert.ErrorIs(t, err, ErrConstruction)

	_, err = NewSimpleTransferFunction(constEstimator(), nil, nil)
	assert.ErrorIs(t, err, ErrConstruction)

	var zero SimpleTransferFunction
	_, err = zero.Step(Snapshot{})
	assert.ErrorIs(t, err, ErrConstruction)
}

// TestCombinedTransferFunction_Step_LastWriteWins verifies that a response
// produced by several members takes the value of the last member.
func TestCombinedTransferFunction_Step_LastWriteWins(t *testing.T) {
	first, err := NewSimpleTransferFunction(constEstimator(1, 10), nil, []string{"x", "a"})
	require.NoError(t, err)
	second, err := NewSimpleTransferFunction(constEstimator(2, 20), nil, []string{"x", "b"})
	require.NoError(t, err)
	combined, err := NewCombinedTransferFunction(first, second)
	require.NoError(t, err)

	out, err := combined.Step(Snapshot{})

	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"x": 2, "a": 10, "b": 20}, out)
}

func TestCombinedTransferFunction_Step_MemberErrorStops(t *testing.T) {
	ok, err := NewSimpleTransferFunction(constEstimator(1), nil, []string{"x"})
	require.NoError(t, err)
	bad, err := NewSimpleTransferFunction(constEstimator(1), []string{"missing"}, []string{"y"})
	require.NoError(t, err)
	combined, err := NewCombinedTransferFunction(ok, bad)
	require.NoError(t, err)

	_, err = combined.Step(Snapshot{})

	assert.ErrorIs(t, err, ErrUnknownAttribute)
}

func TestCombinedTransferFunction_Construction(t *testing.T) {
	_, err := NewCombinedTransferFunction()
	assert.ErrorIs(t, err, ErrConstruction)

	_, err = NewCombinedTransferFunction(nil)
	assert.ErrorIs(t, err, ErrConstruction)

	var zero CombinedTransferFunction
	_, err = zero.Step(Snapshot{})
	assert.ErrorIs(t, err, ErrConstruction)
}

func TestSimulator_CombinedTransferFunction_EndToEnd(t *testing.T) {
	// GIVEN two transfer functions that both predict P; the second one adds 100
	ms := accumulatorStructure()
	base, err := NewSimpleTransferFunction(sumEstimator(), []string{"P_set", "acc"}, []string{"P"})
	require.NoError(t, err)
	offset := EstimatorFunc(func(x []float64) ([]float64, error) { return []float64{x[0] + 100}, nil })
	override, err := NewSimpleTransferFunction(offset, []string{"P_set"}, []string{"P"})
	require.NoError(t, err)
	combined, err := NewCombinedTransferFunction(base, override)
	require.NoError(t, err)
	s, err := NewSimulator(ms, combined)
	require.NoError(t, err)
	require.NoError(t, s.Init(map[string]float64{"capacity": 5}))

	// WHEN one step runs
	require.NoError(t, s.Set("P_set", 1))
	require.NoError(t, s.Step())

	// THEN the later function's value is published
	p, err := s.Get("P")
	require.NoError(t, err)
	assert.Equal(t, 101.0, p)
}
