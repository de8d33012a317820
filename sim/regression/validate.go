package regression

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/inference-sim/surrogate-sim/sim"
)

// validateFinite checks for NaN or Inf in a coefficient slice.
func validateFinite(name string, values []float64) error {
	for i, v := range values {
		if math.IsNaN(v) {
			return fmt.Errorf("%w: %s[%d] is NaN", sim.ErrConstruction, name, i)
		}
		if math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s[%d] is Inf", sim.ErrConstruction, name, i)
		}
	}
	return nil
}

// denseFromRows copies a non-empty rectangular row list into a matrix.
func denseFromRows(name string, rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", sim.ErrConstruction, name)
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: %s row %d has %d columns, want %d", sim.ErrConstruction, name, i, len(row), cols)
		}
		if err := validateFinite(fmt.Sprintf("%s[%d]", name, i), row); err != nil {
			return nil, err
		}
		data = append(data, row...)
	}
	return mat.NewDense(len(rows), cols, data), nil
}
