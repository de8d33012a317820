package regression

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/surrogate-sim/sim"
)

func TestLinearBackend_ComputeResponses(t *testing.T) {
	// GIVEN y = intercept + coefs·x with two responses over two inputs
	b, err := NewLinearBackend(&LinearDescription{
		Intercept: []float64{1, -1},
		Coefs:     [][]float64{{2, 0}, {0.5, 3}},
	})
	require.NoError(t, err)

	// WHEN evaluated at x=[4,2]
	y, err := b.ComputeResponses([]float64{4, 2})

	// THEN y = [1+8, -1+2+6]
	require.NoError(t, err)
	assert.Equal(t, []float64{9, 7}, y)
	assert.Equal(t, BackendLinear, b.Name())
}

func TestLinearBackend_WrongInputLength(t *testing.T) {
	b, err := NewLinearBackend(&LinearDescription{Intercept: []float64{0}, Coefs: [][]float64{{1, 1}}})
	require.NoError(t, err)

	_, err = b.ComputeResponses([]float64{1, 2, 3})

	assert.ErrorIs(t, err, sim.ErrShapeMismatch)
}

func TestNewLinearBackend_Rejects(t *testing.T) {
	tests := []struct {
		name string
		desc *LinearDescription
	}{
		{"nil", nil},
		{"no coefficients", &LinearDescription{Intercept: []float64{0}}},
		{"intercept count", &LinearDescription{Intercept: []float64{0, 1}, Coefs: [][]float64{{1}}}},
		{"inf intercept", &LinearDescription{Intercept: []float64{math.Inf(1)}, Coefs: [][]float64{{1}}}},
		{"nan coefficient", &LinearDescription{Intercept: []float64{0}, Coefs: [][]float64{{math.NaN()}}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewLinearBackend(tc.desc)
			assert.ErrorIs(t, err, sim.ErrConstruction)
		})
	}
}

func TestLinearDescription_Estimator_MatchesBackend(t *testing.T) {
	d := &LinearDescription{Intercept: []float64{0.5}, Coefs: [][]float64{{2, 3}}}
	est, err := d.Estimator()
	require.NoError(t, err)

	y, err := est.Predict([]float64{1, 1})

	require.NoError(t, err)
	assert.Equal(t, []float64{5.5}, y)
}
