package regression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/surrogate-sim/sim"
)

func identity() sim.Estimator {
	return sim.EstimatorFunc(func(x []float64) ([]float64, error) {
		return append([]float64(nil), x...), nil
	})
}

func linearDesc() *LinearDescription {
	return &LinearDescription{Intercept: []float64{1}, Coefs: [][]float64{{2}}}
}

func kernelDesc() *KernelRidgeDescription {
	return &KernelRidgeDescription{Kernel: "linear", XFit: [][]float64{{1}}, DualCoef: [][]float64{{1}}}
}

func TestDefaultRegistry_AlwaysSelectsGeneric(t *testing.T) {
	reg := DefaultRegistry()
	for _, desc := range []Description{&GenericDescription{Model: identity()}, linearDesc(), kernelDesc()} {
		b, err := reg.Create(desc)
		require.NoError(t, err)
		assert.Equal(t, BackendGeneric, b.Name(), "%T", desc)
	}
}

func TestDefaultRegistry_Order(t *testing.T) {
	assert.Equal(t, []string{BackendGeneric, BackendLinear, BackendKernelRidge}, DefaultRegistry().Names())
}

func TestTypedRegistry_SelectsByDescriptionType(t *testing.T) {
	reg := TypedRegistry()
	tests := []struct {
		desc Description
		want string
	}{
		{&GenericDescription{Model: identity()}, BackendGeneric},
		{linearDesc(), BackendLinear},
		{kernelDesc(), BackendKernelRidge},
	}
	for _, tc := range tests {
		b, err := reg.Create(tc.desc)
		require.NoError(t, err)
		assert.Equal(t, tc.want, b.Name())
	}
}

func TestRegistry_GenericOnLinearDescription_MatchesLinearBackend(t *testing.T) {
	generic, err := DefaultRegistry().Create(linearDesc())
	require.NoError(t, err)
	linear, err := DefaultRegistry().CreateNamed(BackendLinear, linearDesc())
	require.NoError(t, err)

	g, err := generic.ComputeResponses([]float64{3})
	require.NoError(t, err)
	l, err := linear.ComputeResponses([]float64{3})
	require.NoError(t, err)
	assert.Equal(t, l, g)
	assert.Equal(t, []float64{7}, g)
}

func TestRegistry_Create_NoMatch(t *testing.T) {
	reg := Registry{{Name: "never", Accepts: acceptNone, Construct: constructGeneric}}

	_, err := reg.Create(linearDesc())

	assert.ErrorIs(t, err, sim.ErrNoMatchingBackend)
}

func TestRegistry_Create_Ambiguous(t *testing.T) {
	reg := Registry{
		{Name: "a", Accepts: acceptAll, Construct: constructGeneric},
		{Name: "b", Accepts: acceptAll, Construct: constructGeneric},
	}

	_, err := reg.Create(linearDesc())

	assert.ErrorIs(t, err, sim.ErrAmbiguousBackend)
	assert.Contains(t, err.Error(), "a, b")
}

func TestRegistry_CreateNamed(t *testing.T) {
	reg := DefaultRegistry()

	b, err := reg.CreateNamed(BackendKernelRidge, kernelDesc())
	require.NoError(t, err)
	assert.Equal(t, BackendKernelRidge, b.Name())

	_, err = reg.CreateNamed(BackendKernelRidge, linearDesc())
	assert.ErrorIs(t, err, sim.ErrConstruction, "explicit selection still checks the description type")

	_, err = reg.CreateNamed("svr", kernelDesc())
	assert.ErrorIs(t, err, sim.ErrNoMatchingBackend)

	assert.True(t, reg.IsValidBackend(BackendLinear))
	assert.False(t, reg.IsValidBackend("svr"))
}

func TestGenericBackend_Construction(t *testing.T) {
	_, err := NewGenericBackend(nil)
	assert.ErrorIs(t, err, sim.ErrConstruction)

	_, err = NewGenericBackend(&GenericDescription{})
	assert.ErrorIs(t, err, sim.ErrConstruction)
}
