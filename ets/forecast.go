package ets

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/forecastkit/forecastkit"
)

// Forecast projects the fitted model horizon steps ahead and attaches
// prediction intervals at the given confidence level (for example 0.95).
//
// For purely additive models the forecast-error variance has a closed form
// and the intervals are Gaussian. Models with a multiplicative component use
// seeded Monte Carlo simulation, so repeated calls return identical intervals.
// Interval width never shrinks as the horizon grows.
func (m *Model) Forecast(horizon int, confidence float64) (*forecastkit.Forecast, error) {
	if !m.fitted {
		return nil, fmt.Errorf("model is not fitted: %w", forecastkit.ErrInvalidConfiguration)
	}
	if horizon < 1 {
		return nil, fmt.Errorf("horizon must be positive, got %d: %w",
			horizon, forecastkit.ErrInvalidParameter)
	}
	z, err := forecastkit.NormalQuantile(confidence)
	if err != nil {
		return nil, err
	}

	mean := m.pointForecast(horizon)

	fc := &forecastkit.Forecast{
		Mean:       mean,
		Lower:      make([]float64, horizon),
		Upper:      make([]float64, horizon),
		Confidence: confidence,
	}

	if m.isAdditiveClass() {
		prevWidth := 0.0
		for h := 1; h <= horizon; h++ {
			width := z * math.Sqrt(m.forecastVariance(h))
			if width < prevWidth {
				width = prevWidth
			}
			prevWidth = width
			fc.Lower[h-1] = mean[h-1] - width
			fc.Upper[h-1] = mean[h-1] + width
		}
		return fc, nil
	}

	lower, upper := m.simulateIntervals(horizon, confidence)
	prevWidth := 0.0
	for h := 0; h < horizon; h++ {
		width := (upper[h] - lower[h]) / 2
		if width < prevWidth {
			width = prevWidth
		}
		prevWidth = width
		center := (upper[h] + lower[h]) / 2
		fc.Lower[h] = center - width
		fc.Upper[h] = center + width
	}
	return fc, nil
}

// Predict returns point forecasts without intervals.
func (m *Model) Predict(horizon int) ([]float64, error) {
	if !m.fitted {
		return nil, fmt.Errorf("model is not fitted: %w", forecastkit.ErrInvalidConfiguration)
	}
	if horizon < 1 {
		return nil, fmt.Errorf("horizon must be positive, got %d: %w",
			horizon, forecastkit.ErrInvalidParameter)
	}
	return m.pointForecast(horizon), nil
}

// pointForecast extrapolates the final state h = 1..horizon steps ahead.
func (m *Model) pointForecast(horizon int) []float64 {
	cfg := m.Config
	out := make([]float64, horizon)
	for h := 1; h <= horizon; h++ {
		v := combineTrend(cfg, m.level, m.trend, m.Phi, h)
		if cfg.Seasonal != None {
			s := m.seasonal[(m.n+h-1)%cfg.Period]
			if cfg.Seasonal == Multiplicative {
				v *= s
			} else {
				v += s
			}
		}
		out[h-1] = v
	}
	return out
}

// isAdditiveClass reports whether every component is additive (or absent),
// the class of models with an exact forecast-error variance.
func (m *Model) isAdditiveClass() bool {
	cfg := m.Config
	return cfg.Error == Additive &&
		cfg.Trend != Multiplicative &&
		cfg.Seasonal != Multiplicative
}

// forecastVariance returns the h-step-ahead forecast-error variance for the
// additive class: sigma^2 (1 + sum of squared state-update weights).
func (m *Model) forecastVariance(h int) float64 {
	cfg := m.Config
	sum := 1.0
	for j := 1; j < h; j++ {
		c := m.Alpha
		if cfg.Trend != None {
			c += m.Beta * dampingSum(m.Phi, j)
		}
		if cfg.Seasonal != None && j%cfg.Period == 0 {
			c += m.Gamma
		}
		sum += c * c
	}
	return m.Variance * sum
}

// simulateIntervals estimates forecast quantiles by simulating future sample
// paths from the fitted state with Gaussian innovations.
func (m *Model) simulateIntervals(horizon int, confidence float64) (lower, upper []float64) {
	cfg := m.Config
	paths := cfg.SimulationPaths
	rng := rand.New(rand.NewSource(cfg.Seed))
	sigma := math.Sqrt(m.Variance)

	samples := make([][]float64, horizon)
	for h := range samples {
		samples[h] = make([]float64, paths)
	}

	p := params{alpha: m.Alpha, beta: m.Beta, gamma: m.Gamma, phi: m.Phi}
	for path := 0; path < paths; path++ {
		level := m.level
		trend := m.trend
		var seasonal []float64
		if cfg.Seasonal != None {
			seasonal = make([]float64, cfg.Period)
			copy(seasonal, m.seasonal)
		}

		for h := 1; h <= horizon; h++ {
			trendPart := combineTrend(cfg, level, trend, p.phi, 1)
			mu := trendPart
			var sOld float64
			if cfg.Seasonal != None {
				sOld = seasonal[(m.n+h-1)%cfg.Period]
				if cfg.Seasonal == Multiplicative {
					mu = trendPart * sOld
				} else {
					mu = trendPart + sOld
				}
			}

			var y float64
			if cfg.Error == Multiplicative {
				y = mu * (1 + sigma*rng.NormFloat64())
			} else {
				y = mu + sigma*rng.NormFloat64()
			}
			if math.IsNaN(y) || math.IsInf(y, 0) {
				y = mu
			}
			samples[h-1][path] = y

			// Advance the state as if y had been observed. A path whose
			// multiplicative update degenerates keeps its previous state.
			var newLevel float64
			switch cfg.Seasonal {
			case Multiplicative:
				newLevel = p.alpha*(y/sOld) + (1-p.alpha)*trendPart
			case Additive:
				newLevel = p.alpha*(y-sOld) + (1-p.alpha)*trendPart
			default:
				newLevel = p.alpha*y + (1-p.alpha)*trendPart
			}
			newTrend := trend
			switch cfg.Trend {
			case Additive:
				newTrend = p.beta*(newLevel-level) + (1-p.beta)*p.phi*trend
			case Multiplicative:
				newTrend = p.beta*(newLevel/level) + (1-p.beta)*math.Pow(trend, p.phi)
			}
			newSeasonal := sOld
			if cfg.Seasonal == Multiplicative {
				newSeasonal = p.gamma*(y/trendPart) + (1-p.gamma)*sOld
			} else if cfg.Seasonal == Additive {
				newSeasonal = p.gamma*(y-trendPart) + (1-p.gamma)*sOld
			}
			if !math.IsNaN(newLevel) && !math.IsInf(newLevel, 0) &&
				!math.IsNaN(newTrend) && !math.IsInf(newTrend, 0) &&
				!math.IsNaN(newSeasonal) && !math.IsInf(newSeasonal, 0) {
				level, trend = newLevel, newTrend
				if cfg.Seasonal != None {
					seasonal[(m.n+h-1)%cfg.Period] = newSeasonal
				}
			}
		}
	}

	tail := (1 - confidence) / 2
	lower = make([]float64, horizon)
	upper = make([]float64, horizon)
	for h := 0; h < horizon; h++ {
		sort.Float64s(samples[h])
		lower[h] = quantile(samples[h], tail)
		upper[h] = quantile(samples[h], 1-tail)
	}
	return lower, upper
}

// quantile interpolates the q-th quantile of sorted values.
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
