package regression

import (
	"fmt"

	"github.com/inference-sim/surrogate-sim/sim"
)

// GenericBackend delegates to the trained estimator of a description.
type GenericBackend struct {
	estimator sim.Estimator
}

// NewGenericBackend takes the estimator desc yields.
func NewGenericBackend(desc Description) (*GenericBackend, error) {
	if desc == nil {
		return nil, fmt.Errorf("%w: nil description", sim.ErrConstruction)
	}
	est, err := desc.Estimator()
	if err != nil {
		return nil, err
	}
	if est == nil {
		return nil, fmt.Errorf("%w: %T yields no estimator", sim.ErrConstruction, desc)
	}
	return &GenericBackend{estimator: est}, nil
}

func (b *GenericBackend) Name() string { return BackendGeneric }

func (b *GenericBackend) ComputeResponses(inputs []float64) ([]float64, error) {
	return b.estimator.Predict(inputs)
}
