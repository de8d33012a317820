package regression

import (
	"fmt"

	"github.com/inference-sim/surrogate-sim/sim"
)

// Backend computes the complete, correctly ordered output vector for one
// input vector.
type Backend interface {
	Name() string
	ComputeResponses(inputs []float64) ([]float64, error)
}

// AsEstimator exposes a backend as a sim.Estimator, so that the named
// attribute engine can use it as a transfer function.
func AsEstimator(b Backend) sim.Estimator {
	return sim.EstimatorFunc(b.ComputeResponses)
}

// Description describes a trained regression model. Every description can
// yield an estimator for it; typed descriptions additionally carry the
// parameters their specialised backend evaluates directly.
type Description interface {
	Estimator() (sim.Estimator, error)
}

// GenericDescription wraps an opaque trained estimator.
type GenericDescription struct {
	Model sim.Estimator
}

func (d *GenericDescription) Estimator() (sim.Estimator, error) {
	if d.Model == nil {
		return nil, fmt.Errorf("%w: generic description without model", sim.ErrConstruction)
	}
	return d.Model, nil
}

// LinearDescription is an affine model: y = Intercept + Coefs·x.
// Coefs has one row per response and one column per input.
type LinearDescription struct {
	Intercept []float64   `yaml:"intercept"`
	Coefs     [][]float64 `yaml:"coefs"`
}

func (d *LinearDescription) Estimator() (sim.Estimator, error) {
	b, err := NewLinearBackend(d)
	if err != nil {
		return nil, err
	}
	return AsEstimator(b), nil
}

// KernelRidgeDescription is a fitted kernel ridge regression.
// XFit has one row per fit sample; DualCoef has one row per fit sample and
// one column per response. A nil or NaN Gamma means 1.0; a zero Degree means 3.
type KernelRidgeDescription struct {
	Kernel   string      `yaml:"kernel"`
	Gamma    *float64    `yaml:"gamma"`
	Degree   float64     `yaml:"degree"`
	Coef0    float64     `yaml:"coef0"`
	XFit     [][]float64 `yaml:"x_fit"`
	DualCoef [][]float64 `yaml:"dual_coef"`
}

func (d *KernelRidgeDescription) Estimator() (sim.Estimator, error) {
	b, err := NewKernelRidgeBackend(d)
	if err != nil {
		return nil, err
	}
	return AsEstimator(b), nil
}
