package timeseries

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/forecastkit/forecastkit"
)

// Polynomial trend orders.
const (
	Linear    = 1
	Quadratic = 2
	Cubic     = 3
	Quartic   = 4
)

// TrendCoefficients fits a polynomial of the given order to the series by least
// squares and returns the coefficients from the constant term upward, so the
// fitted value at index t is sum(coeffs[k] * t^k). The order must be between
// Linear and Quartic and the series must contain more observations than
// coefficients.
func (s *Series) TrendCoefficients(order int) ([]float64, error) {
	if order < Linear || order > Quartic {
		return nil, fmt.Errorf("trend order must be between %d and %d, got %d: %w",
			Linear, Quartic, order, forecastkit.ErrInvalidParameter)
	}
	n := len(s.Values)
	if n <= order+1 {
		return nil, fmt.Errorf("series of length %d too short for order-%d trend: %w",
			n, order, forecastkit.ErrInsufficientData)
	}

	// Vandermonde design matrix on the observation index.
	x := mat.NewDense(n, order+1, nil)
	for i := 0; i < n; i++ {
		v := 1.0
		for j := 0; j <= order; j++ {
			x.Set(i, j, v)
			v *= float64(i)
		}
	}
	y := mat.NewVecDense(n, nil)
	for i, v := range s.Values {
		y.SetVec(i, v)
	}

	var qr mat.QR
	qr.Factorize(x)

	var sol mat.VecDense
	if err := qr.SolveVecTo(&sol, false, y); err != nil {
		return nil, fmt.Errorf("trend least squares: %v: %w", err, forecastkit.ErrInvalidSeries)
	}

	coeffs := make([]float64, order+1)
	for j := range coeffs {
		coeffs[j] = sol.AtVec(j)
	}
	return coeffs, nil
}

// Trend fits a polynomial of the given order and returns the fitted values as a
// new series aligned with the source.
func (s *Series) Trend(order int) (*Series, error) {
	coeffs, err := s.TrendCoefficients(order)
	if err != nil {
		return nil, err
	}

	values := make([]float64, len(s.Values))
	for i := range values {
		v, pow := 0.0, 1.0
		for _, c := range coeffs {
			v += c * pow
			pow *= float64(i)
		}
		values[i] = v
	}

	out := s.Copy()
	out.Values = values
	out.Name = s.Name + "_trend"
	return out, nil
}
