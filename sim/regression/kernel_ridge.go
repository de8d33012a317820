package regression

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/inference-sim/surrogate-sim/sim"
)

// defaultDegree is the polynomial degree used when a description leaves it at zero.
const defaultDegree = 3.0

// kernelParams are the hyperparameters shared by all kernels.
type kernelParams struct {
	gamma  float64
	degree float64
	coef0  float64
}

// kernelFunc evaluates k(x, y_i) for every row y_i of fit.
type kernelFunc func(x *mat.VecDense, fit *mat.Dense, fitNorms []float64, p kernelParams) *mat.VecDense

var kernels = map[string]kernelFunc{
	"linear":     linearKernel,
	"polynomial": polynomialKernel,
	"sigmoid":    sigmoidKernel,
	"rbf":        rbfKernel,
}

// KernelNames returns the supported kernel names, sorted.
func KernelNames() []string {
	names := make([]string, 0, len(kernels))
	for k := range kernels {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func dotRows(x *mat.VecDense, fit *mat.Dense) *mat.VecDense {
	rows, _ := fit.Dims()
	k := mat.NewVecDense(rows, nil)
	k.MulVec(fit, x)
	return k
}

// linearKernel: K = X·Yᵗ
func linearKernel(x *mat.VecDense, fit *mat.Dense, _ []float64, _ kernelParams) *mat.VecDense {
	return dotRows(x, fit)
}

// polynomialKernel: K = (γ·X·Yᵗ + c₀)^d
func polynomialKernel(x *mat.VecDense, fit *mat.Dense, _ []float64, p kernelParams) *mat.VecDense {
	k := dotRows(x, fit)
	for i := 0; i < k.Len(); i++ {
		k.SetVec(i, math.Pow(p.gamma*k.AtVec(i)+p.coef0, p.degree))
	}
	return k
}

// sigmoidKernel: K = tanh(γ·X·Yᵗ + c₀)
func sigmoidKernel(x *mat.VecDense, fit *mat.Dense, _ []float64, p kernelParams) *mat.VecDense {
	k := dotRows(x, fit)
	for i := 0; i < k.Len(); i++ {
		k.SetVec(i, math.Tanh(p.gamma*k.AtVec(i)+p.coef0))
	}
	return k
}

// rbfKernel: K = exp(-γ·‖X-Y‖²) with ‖X-Y‖² = ‖X‖² + ‖Y‖² - 2·X·Yᵗ.
// Cancellation can push the distance slightly below zero; it is clamped.
func rbfKernel(x *mat.VecDense, fit *mat.Dense, fitNorms []float64, p kernelParams) *mat.VecDense {
	k := dotRows(x, fit)
	xx := mat.Dot(x, x)
	for i := 0; i < k.Len(); i++ {
		d := xx + fitNorms[i] - 2*k.AtVec(i)
		k.SetVec(i, math.Exp(-p.gamma*math.Max(d, 0)))
	}
	return k
}

// KernelRidgeBackend evaluates K(inputs, XFit)·DualCoef.
// The fit data is copied at construction and never modified.
type KernelRidgeBackend struct {
	kernelName string
	kernel     kernelFunc
	params     kernelParams
	fit        *mat.Dense
	fitNorms   []float64
	dualCoef   *mat.Dense
}

// NewKernelRidgeBackend validates d and copies its fit data.
func NewKernelRidgeBackend(d *KernelRidgeDescription) (*KernelRidgeBackend, error) {
	if d == nil {
		return nil, fmt.Errorf("%w: nil kernel ridge description", sim.ErrConstruction)
	}
	kernel, ok := kernels[d.Kernel]
	if !ok {
		return nil, fmt.Errorf("%w: unknown kernel %q (valid: %v)", sim.ErrConstruction, d.Kernel, KernelNames())
	}
	fit, err := denseFromRows("x_fit", d.XFit)
	if err != nil {
		return nil, err
	}
	dual, err := denseFromRows("dual_coef", d.DualCoef)
	if err != nil {
		return nil, err
	}
	fitRows, _ := fit.Dims()
	dualRows, _ := dual.Dims()
	if fitRows != dualRows {
		return nil, fmt.Errorf("%w: kernel ridge has %d fit samples but %d dual coefficient rows",
			sim.ErrConstruction, fitRows, dualRows)
	}

	gamma := 1.0
	if d.Gamma != nil && !math.IsNaN(*d.Gamma) {
		gamma = *d.Gamma
	}
	degree := d.Degree
	if degree == 0 {
		degree = defaultDegree
	}
	norms := make([]float64, fitRows)
	for i := range norms {
		row := fit.RowView(i)
		norms[i] = mat.Dot(row, row)
	}
	return &KernelRidgeBackend{
		kernelName: d.Kernel,
		kernel:     kernel,
		params:     kernelParams{gamma: gamma, degree: degree, coef0: d.Coef0},
		fit:        fit,
		fitNorms:   norms,
		dualCoef:   dual,
	}, nil
}

func (b *KernelRidgeBackend) Name() string { return BackendKernelRidge }

// Kernel returns the configured kernel name.
func (b *KernelRidgeBackend) Kernel() string { return b.kernelName }

// Degree returns the effective polynomial degree.
func (b *KernelRidgeBackend) Degree() float64 { return b.params.degree }

// Gamma returns the effective kernel coefficient.
func (b *KernelRidgeBackend) Gamma() float64 { return b.params.gamma }

func (b *KernelRidgeBackend) ComputeResponses(inputs []float64) ([]float64, error) {
	_, cols := b.fit.Dims()
	if len(inputs) != cols {
		return nil, fmt.Errorf("%w: kernel ridge expects %d inputs, got %d", sim.ErrShapeMismatch, cols, len(inputs))
	}
	x := mat.NewVecDense(cols, append([]float64(nil), inputs...))
	k := b.kernel(x, b.fit, b.fitNorms, b.params)
	_, outs := b.dualCoef.Dims()
	y := mat.NewVecDense(outs, nil)
	y.MulVec(b.dualCoef.T(), k)
	return y.RawVector().Data, nil
}
