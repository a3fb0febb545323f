// Package stl implements seasonal-trend decomposition using iterative loess smoothing.
package stl

import (
	"fmt"
	"math"
	"sort"

	"github.com/forecastkit/forecastkit"
	"github.com/forecastkit/forecastkit/smooth"
	"github.com/forecastkit/forecastkit/timeseries"
)

// Mode selects how components combine to reconstruct the series.
type Mode int

const (
	// Additive decomposes as values = trend + seasonal + residual.
	Additive Mode = iota
	// Multiplicative decomposes as values = trend * seasonal * residual,
	// implemented by log-transforming, decomposing additively, and
	// exponentiating the components back. Values must be strictly positive.
	Multiplicative
)

// String returns the mode name.
func (m Mode) String() string {
	if m == Multiplicative {
		return "multiplicative"
	}
	return "additive"
}

// Config holds decomposition parameters. Zero values select the documented
// defaults; use DefaultConfig as a starting point.
type Config struct {
	Period int  // seasonal period, required, >= 2
	Mode   Mode // Additive or Multiplicative

	// Periodic forces an exactly repeating seasonal component by replacing
	// each cycle-subseries with its weighted mean. When false the subseries
	// are loess-smoothed with SeasonalSpan, letting the seasonal pattern
	// drift slowly between cycles.
	Periodic bool

	SeasonalSpan int // loess span (in cycles) for subseries smoothing; default 7
	TrendSpan    int // loess span for the trend smoother; default nextOdd(1.5*period)
	LowPassSpan  int // loess span for the low-pass stage; default nextOdd(period)

	InnerIterations int     // seasonal/trend passes per robustness cycle; default 2
	OuterIterations int     // robustness cycles; default 0, 10 when Robust
	Robust          bool    // enable bisquare robustness weighting
	Tolerance       float64 // early-exit threshold on component change; default 1e-8
}

// DefaultConfig returns the standard configuration for the given period, with
// an exactly periodic seasonal component and no robustness iterations.
func DefaultConfig(period int) Config {
	return Config{
		Period:          period,
		Periodic:        true,
		SeasonalSpan:    7,
		TrendSpan:       nextOdd(1 + 3*period/2),
		LowPassSpan:     nextOdd(period),
		InnerIterations: 2,
		Tolerance:       1e-8,
	}
}

// RobustConfig returns a configuration with robustness weighting enabled, for
// series with outliers. Per Cleveland et al., robustness cycles allow fewer
// inner passes.
func RobustConfig(period int) Config {
	cfg := DefaultConfig(period)
	cfg.Robust = true
	cfg.InnerIterations = 1
	cfg.OuterIterations = 10
	return cfg
}

// Decomposition holds the separated components, aligned index-for-index with
// the source series. For Additive mode trend+seasonal+residual reconstructs
// the values; for Multiplicative mode the product form holds.
type Decomposition struct {
	Trend    []float64
	Seasonal []float64
	Residual []float64
	Period   int
	Mode     Mode

	// Weights holds the final robustness weights, all ones when Robust is off.
	Weights []float64
}

// Decompose separates the series into trend, seasonal, and residual components.
// The series must contain at least two full periods of data.
func Decompose(series *timeseries.Series, cfg Config) (*Decomposition, error) {
	cfg = withDefaults(cfg)

	if cfg.Period < 2 {
		return nil, fmt.Errorf("decomposition requires period >= 2, got %d: %w",
			cfg.Period, forecastkit.ErrInvalidParameter)
	}
	n := series.Len()
	if n < 2*cfg.Period {
		return nil, fmt.Errorf("decomposition with period %d needs at least %d observations, got %d: %w",
			cfg.Period, 2*cfg.Period, n, forecastkit.ErrInsufficientData)
	}

	if cfg.Mode == Multiplicative {
		return decomposeMultiplicative(series, cfg)
	}
	return decomposeAdditive(series.Values, cfg)
}

// decomposeMultiplicative log-transforms, decomposes additively, and maps the
// components back through exp.
func decomposeMultiplicative(series *timeseries.Series, cfg Config) (*Decomposition, error) {
	logged, err := series.Log()
	if err != nil {
		return nil, err
	}

	d, err := decomposeAdditive(logged.Values, cfg)
	if err != nil {
		return nil, err
	}

	for i := range d.Trend {
		d.Trend[i] = math.Exp(d.Trend[i])
		d.Seasonal[i] = math.Exp(d.Seasonal[i])
		d.Residual[i] = math.Exp(d.Residual[i])
	}
	d.Mode = Multiplicative
	return d, nil
}

// decomposeAdditive runs the inner seasonal/trend loop wrapped in the outer
// robustness loop.
func decomposeAdditive(values []float64, cfg Config) (*Decomposition, error) {
	n := len(values)
	period := cfg.Period

	trend := make([]float64, n)
	seasonal := make([]float64, n)
	residual := make([]float64, n)
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = 1
	}

	outer := cfg.OuterIterations
	for pass := 0; pass <= outer; pass++ {
		for iter := 0; iter < cfg.InnerIterations; iter++ {
			prevTrend := make([]float64, n)
			copy(prevTrend, trend)
			prevSeasonal := make([]float64, n)
			copy(prevSeasonal, seasonal)

			// Step 1: detrend.
			detrended := make([]float64, n)
			for i := range detrended {
				detrended[i] = values[i] - trend[i]
			}

			// Step 2: cycle-subseries smoothing.
			raw := smoothSubseries(detrended, weights, period, cfg)

			// Step 3: low-pass filter the raw seasonal and subtract, keeping
			// low-frequency variation out of the seasonal component.
			low := lowPass(raw, period, cfg.LowPassSpan, weights)
			for i := range seasonal {
				seasonal[i] = raw[i] - low[i]
			}

			// Step 4: deseasonalize and smooth for the trend.
			deseasonalized := make([]float64, n)
			for i := range deseasonalized {
				deseasonalized[i] = values[i] - seasonal[i]
			}
			trend = smooth.Loess(deseasonalized, cfg.TrendSpan, weights)

			// Step 5: stop early once both components settle.
			if maxChange(trend, prevTrend) < cfg.Tolerance &&
				maxChange(seasonal, prevSeasonal) < cfg.Tolerance {
				break
			}
		}

		for i := range residual {
			residual[i] = values[i] - trend[i] - seasonal[i]
		}

		// Step 6: refresh robustness weights for the next outer pass.
		if cfg.Robust && pass < outer {
			updateRobustnessWeights(residual, weights)
		}
	}

	return &Decomposition{
		Trend:    trend,
		Seasonal: seasonal,
		Residual: residual,
		Period:   period,
		Mode:     Additive,
		Weights:  weights,
	}, nil
}

// smoothSubseries smooths each position-within-period subseries of detrended
// and scatters the result back to full length. Periodic mode collapses each
// subseries to its weighted mean; otherwise the subseries is loess-smoothed
// across cycles.
func smoothSubseries(detrended, weights []float64, period int, cfg Config) []float64 {
	n := len(detrended)
	out := make([]float64, n)

	for phase := 0; phase < period; phase++ {
		var sub, subW []float64
		for i := phase; i < n; i += period {
			sub = append(sub, detrended[i])
			subW = append(subW, weights[i])
		}

		if cfg.Periodic {
			var sum, wsum float64
			for j, v := range sub {
				sum += v * subW[j]
				wsum += subW[j]
			}
			mean := 0.0
			if wsum > 0 {
				mean = sum / wsum
			}
			for i := phase; i < n; i += period {
				out[i] = mean
			}
			continue
		}

		smoothed := smooth.Loess(sub, cfg.SeasonalSpan, subW)
		for j, i := 0, phase; i < n; j, i = j+1, i+period {
			out[i] = smoothed[j]
		}
	}
	return out
}

// lowPass applies a centered moving average of width period followed by a
// loess pass, filling the edge positions the moving average cannot cover with
// the nearest defined value.
func lowPass(values []float64, period, span int, weights []float64) []float64 {
	ma := centeredFilled(values, period)
	return smooth.Loess(ma, span, weights)
}

// centeredFilled computes a centered moving average and extends the first and
// last defined values across the NaN edges.
func centeredFilled(values []float64, window int) []float64 {
	n := len(values)
	s := &timeseries.Series{Values: values}
	cma, err := smooth.CenteredMovingAverage(s, window)
	if err != nil {
		out := make([]float64, n)
		copy(out, values)
		return out
	}

	out := cma.Values
	first, last := -1, -1
	for i, v := range out {
		if !math.IsNaN(v) {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		copy(out, values)
		return out
	}
	for i := 0; i < first; i++ {
		out[i] = out[first]
	}
	for i := last + 1; i < n; i++ {
		out[i] = out[last]
	}
	return out
}

// updateRobustnessWeights writes bisquare weights derived from the residual
// MAD into weights, down-weighting outlying points.
func updateRobustnessWeights(residual, weights []float64) {
	abs := make([]float64, len(residual))
	for i, r := range residual {
		abs[i] = math.Abs(r)
	}
	h := 6 * median(abs)
	if h <= 0 {
		for i := range weights {
			weights[i] = 1
		}
		return
	}

	for i := range weights {
		u := math.Abs(residual[i]) / h
		if u < 1 {
			weights[i] = (1 - u*u) * (1 - u*u)
		} else {
			weights[i] = 0
		}
	}
}

// maxChange returns the largest absolute elementwise difference.
func maxChange(a, b []float64) float64 {
	maxD := 0.0
	for i := range a {
		d := math.Abs(a[i] - b[i])
		if d > maxD {
			maxD = d
		}
	}
	return maxD
}

// median returns the median of data without mutating it.
func median(data []float64) float64 {
	n := len(data)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, data)
	sort.Float64s(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// withDefaults fills zero-valued fields with the documented defaults.
func withDefaults(cfg Config) Config {
	def := DefaultConfig(cfg.Period)
	if cfg.SeasonalSpan == 0 {
		cfg.SeasonalSpan = def.SeasonalSpan
	}
	if cfg.TrendSpan == 0 {
		cfg.TrendSpan = def.TrendSpan
	}
	if cfg.LowPassSpan == 0 {
		cfg.LowPassSpan = def.LowPassSpan
	}
	if cfg.InnerIterations == 0 {
		cfg.InnerIterations = def.InnerIterations
	}
	if cfg.Robust && cfg.OuterIterations == 0 {
		cfg.OuterIterations = 10
	}
	if cfg.Tolerance == 0 {
		cfg.Tolerance = def.Tolerance
	}
	return cfg
}

// nextOdd rounds v up to the nearest odd integer.
func nextOdd(v int) int {
	if v%2 == 0 {
		return v + 1
	}
	return v
}
