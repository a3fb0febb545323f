package forecastkit

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"
)

// Forecast holds point predictions with prediction intervals. All slices have the
// same length (the forecast horizon) and the value at index h is the prediction
// h+1 steps after the end of the fitted series. A Forecast is a plain value with
// no reference back to the model that produced it.
type Forecast struct {
	Mean       []float64 // point forecasts
	Lower      []float64 // lower interval bounds
	Upper      []float64 // upper interval bounds
	Confidence float64   // confidence level of the bounds, e.g. 0.95
}

// Horizon returns the number of forecast steps.
func (f *Forecast) Horizon() int {
	return len(f.Mean)
}

// Width returns the interval width at horizon step h (0-based).
func (f *Forecast) Width(h int) float64 {
	return f.Upper[h] - f.Lower[h]
}

// NormalQuantile returns the two-sided z-score for the given confidence level,
// i.e. the (1+confidence)/2 quantile of the standard normal distribution.
// Confidence must lie strictly between 0 and 1.
func NormalQuantile(confidence float64) (float64, error) {
	if confidence <= 0 || confidence >= 1 {
		return 0, fmt.Errorf("confidence must be in (0, 1), got %v: %w", confidence, ErrInvalidParameter)
	}
	dist := distuv.Normal{Mu: 0, Sigma: 1}
	return dist.Quantile((1 + confidence) / 2), nil
}
