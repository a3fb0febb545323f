// Package smooth provides moving averages and loess smoothing for time series.
package smooth

import (
	"fmt"
	"math"

	"github.com/forecastkit/forecastkit"
	"github.com/forecastkit/forecastkit/timeseries"
)

// Kind selects the moving average weighting scheme.
type Kind int

const (
	// Simple weights every observation in the window equally.
	Simple Kind = iota
	// WeightedLinear weights observations linearly, most recent heaviest.
	WeightedLinear
	// Exponential applies exponentially decaying weights with
	// alpha = 2/(window+1), seeded with the mean of the first window.
	Exponential
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Simple:
		return "simple"
	case WeightedLinear:
		return "weighted-linear"
	case Exponential:
		return "exponential"
	default:
		return "unknown"
	}
}

// MovingAverage computes a trailing moving average over the series. The result
// has length n-window+1: the value at index i averages the window ending at
// source index i+window-1. The window must satisfy 1 <= window <= n.
func MovingAverage(s *timeseries.Series, window int, kind Kind) (*timeseries.Series, error) {
	n := s.Len()
	if window < 1 || window > n {
		return nil, fmt.Errorf("window %d out of range [1, %d]: %w",
			window, n, forecastkit.ErrInvalidParameter)
	}

	var values []float64
	switch kind {
	case Simple:
		values = simpleMA(s.Values, window)
	case WeightedLinear:
		values = weightedLinearMA(s.Values, window)
	case Exponential:
		values = exponentialMA(s.Values, window)
	default:
		return nil, fmt.Errorf("unknown moving average kind %d: %w",
			kind, forecastkit.ErrInvalidParameter)
	}

	out := s.Slice(window-1, n)
	out.Values = values
	out.Name = s.Name + "_ma"
	return out, nil
}

// simpleMA computes an equally weighted trailing average with a rolling sum.
func simpleMA(values []float64, window int) []float64 {
	result := make([]float64, len(values)-window+1)
	sum := 0.0

	for i := 0; i < window; i++ {
		sum += values[i]
	}
	result[0] = sum / float64(window)

	for i := window; i < len(values); i++ {
		sum = sum - values[i-window] + values[i]
		result[i-window+1] = sum / float64(window)
	}
	return result
}

// weightedLinearMA weights the window linearly: the most recent observation
// gets weight window, the oldest weight 1.
func weightedLinearMA(values []float64, window int) []float64 {
	result := make([]float64, len(values)-window+1)
	denom := float64(window*(window+1)) / 2

	for i := range result {
		sum := 0.0
		for j := 0; j < window; j++ {
			sum += values[i+j] * float64(j+1)
		}
		result[i] = sum / denom
	}
	return result
}

// exponentialMA applies an EWMA recurrence seeded with the mean of the first
// window. Output is aligned with the trailing contract: result[i] is the
// smoothed value at source index i+window-1.
func exponentialMA(values []float64, window int) []float64 {
	alpha := 2.0 / float64(window+1)

	seed := 0.0
	for i := 0; i < window; i++ {
		seed += values[i]
	}
	seed /= float64(window)

	result := make([]float64, len(values)-window+1)
	result[0] = seed
	for i := window; i < len(values); i++ {
		result[i-window+1] = alpha*values[i] + (1-alpha)*result[i-window]
	}
	return result
}

// CenteredMovingAverage computes a centered moving average of the series. The
// result has the same length as the source with NaN at positions lacking a full
// window. An even window uses the standard 2xm centering: the two nearest
// simple averages are averaged, which handles window == period for seasonal
// decomposition.
func CenteredMovingAverage(s *timeseries.Series, window int) (*timeseries.Series, error) {
	n := s.Len()
	if window < 1 || window > n {
		return nil, fmt.Errorf("window %d out of range [1, %d]: %w",
			window, n, forecastkit.ErrInvalidParameter)
	}

	out := s.Copy()
	out.Values = centered(s.Values, window)
	out.Name = s.Name + "_cma"
	return out, nil
}

// centered computes the centered moving average values with NaN edges.
func centered(values []float64, window int) []float64 {
	n := len(values)
	result := make([]float64, n)
	for i := range result {
		result[i] = math.NaN()
	}

	half := window / 2
	if window%2 == 0 {
		// Even window: half weight on the two outermost observations.
		for i := half; i < n-half; i++ {
			sum := values[i-half]*0.5 + values[i+half]*0.5
			for j := i - half + 1; j < i+half; j++ {
				sum += values[j]
			}
			result[i] = sum / float64(window)
		}
	} else {
		for i := half; i < n-half; i++ {
			sum := 0.0
			for j := i - half; j <= i+half; j++ {
				sum += values[j]
			}
			result[i] = sum / float64(window)
		}
	}
	return result
}
