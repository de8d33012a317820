package regression

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/inference-sim/surrogate-sim/sim"
)

// LinearBackend evaluates intercept + coefs·inputs.
type LinearBackend struct {
	intercept *mat.VecDense
	coefs     *mat.Dense
}

// NewLinearBackend copies the coefficients of d.
func NewLinearBackend(d *LinearDescription) (*LinearBackend, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: nil linear description", sim.ErrConstruction)
	}
	coefs, err := denseFromRows("coefs", d.Coefs)
	if err != nil {
		return nil, err
	}
	rows, _ := coefs.Dims()
	if len(d.Intercept) != rows {
		return nil, fmt.Errorf("%w: linear model has %d intercepts for %d coefficient rows",
			sim.ErrConstruction, len(d.Intercept), rows)
	}
	if err := validateFinite("intercept", d.Intercept); err != nil {
		return nil, err
	}
	return &LinearBackend{
		intercept: mat.NewVecDense(rows, append([]float64(nil), d.Intercept...)),
		coefs:     coefs,
	}, nil
}

func (b *LinearBackend) Name() string { return BackendLinear }

func (b *LinearBackend) ComputeResponses(inputs []float64) ([]float64, error) {
	rows, cols := b.coefs.Dims()
	if len(inputs) != cols {
		return nil, fmt.Errorf("%w: linear model expects %d inputs, got %d", sim.ErrShapeMismatch, cols, len(inputs))
	}
	x := mat.NewVecDense(cols, append([]float64(nil), inputs...))
	y := mat.NewVecDense(rows, nil)
	y.MulVec(b.coefs, x)
	y.AddVec(y, b.intercept)
	return y.RawVector().Data, nil
}
