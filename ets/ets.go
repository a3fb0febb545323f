package ets

import (
	"fmt"
	"math"
	"time"

	"github.com/forecastkit/forecastkit"
	"github.com/forecastkit/forecastkit/internal/optimize"
	"github.com/forecastkit/forecastkit/stats"
	"github.com/forecastkit/forecastkit/timeseries"
)

// Component selects how an ETS component enters the model.
type Component int

const (
	// None omits the component.
	None Component = iota
	// Additive combines the component additively.
	Additive
	// Multiplicative combines the component multiplicatively.
	Multiplicative
)

// String returns the component letter used in ETS(E,T,S) notation.
func (c Component) String() string {
	switch c {
	case Additive:
		return "A"
	case Multiplicative:
		return "M"
	default:
		return "N"
	}
}

// Config selects the model form ETS(Error, Trend, Seasonal) and bounds the
// parameter search. The zero value of Error means Additive.
type Config struct {
	Error    Component // Additive or Multiplicative
	Trend    Component // None, Additive, or Multiplicative
	Damped   bool      // damp the trend toward flat; requires Trend != None
	Seasonal Component // None, Additive, or Multiplicative
	Period   int       // seasonal period; falls back to the series period

	MaxIterations int           // optimizer budget; default 500
	MaxRuntime    time.Duration // optimizer wall-time budget; 0 means unlimited
	Tolerance     float64       // optimizer convergence tolerance; default 1e-8

	SimulationPaths int   // paths for simulation-based intervals; default 1000
	Seed            int64 // RNG seed for simulation-based intervals; default 1
}

// Name returns the ETS(E,T,S) label, with "d" marking a damped trend.
func (c Config) Name() string {
	trend := c.Trend.String()
	if c.Damped && c.Trend != None {
		trend += "d"
	}
	return fmt.Sprintf("ETS(%s,%s,%s)", c.Error.String(), trend, c.Seasonal.String())
}

// Model holds a fitted exponential smoothing model. Fitted parameters and
// state are immutable once Fit returns; a Model is safe to share across
// concurrent Forecast calls.
type Model struct {
	Config Config

	// Smoothing parameters.
	Alpha float64 // level
	Beta  float64 // trend, 0 when Trend == None
	Gamma float64 // seasonal, 0 when Seasonal == None
	Phi   float64 // damping, 1 when not damped

	// Initial state estimated from the first cycles of data.
	InitialLevel    float64
	InitialTrend    float64
	InitialSeasonal []float64

	SSE      float64
	Variance float64
	LogLik   float64
	AIC      float64
	AICc     float64
	BIC      float64

	// Converged reports whether the optimizer met its tolerance inside the
	// budget. When false the parameters are best-effort and the fit must not
	// be used for forecasting.
	Converged bool

	fitted   bool
	n        int
	level    float64   // state after the last observation
	trend    float64   // state after the last observation
	seasonal []float64 // seasonal state, index (n+h-1) mod period selects step h

	residuals  []float64
	fittedVals []float64
}

// Fit estimates the smoothing parameters by minimizing the sum of squared
// one-step-ahead errors with Nelder-Mead, starting from a standard initial
// state (regression on the first cycle for level and trend, cycle averages
// for the seasonal indices).
func Fit(series *timeseries.Series, cfg Config) (*Model, error) {
	cfg = cfg.withDefaults(series)

	if err := validate(series, cfg); err != nil {
		return nil, err
	}

	m := &Model{Config: cfg, n: series.Len()}
	m.initState(series.Values)

	x0, bounds := cfg.parameterSpace()
	objective := func(x []float64) float64 {
		sse, ok := m.evaluate(series.Values, cfg.applyParams(x))
		if !ok {
			return math.Inf(1)
		}
		return sse
	}

	res, err := optimize.Minimize(objective, x0, bounds, optimize.Settings{
		MaxIterations: cfg.MaxIterations,
		MaxRuntime:    cfg.MaxRuntime,
		Tolerance:     cfg.Tolerance,
	})
	if err != nil {
		return nil, fmt.Errorf("ets parameter search: %v: %w", err, forecastkit.ErrConvergence)
	}

	m.setParams(cfg.applyParams(res.X))
	m.Converged = res.Converged

	if err := m.finalize(series.Values); err != nil {
		return nil, err
	}
	if !res.Converged {
		return m, fmt.Errorf("%s did not converge within %d iterations: %w",
			cfg.Name(), cfg.MaxIterations, forecastkit.ErrConvergence)
	}

	m.fitted = true
	return m, nil
}

// validate rejects inconsistent configurations and unusable data before any
// computation.
func validate(series *timeseries.Series, cfg Config) error {
	if cfg.Error != Additive && cfg.Error != Multiplicative {
		return fmt.Errorf("error component must be additive or multiplicative: %w",
			forecastkit.ErrInvalidConfiguration)
	}
	if cfg.Damped && cfg.Trend == None {
		return fmt.Errorf("damping requires a trend component: %w",
			forecastkit.ErrInvalidConfiguration)
	}
	if cfg.Seasonal != None && cfg.Period < 2 {
		return fmt.Errorf("seasonal component requires a period, got %d: %w",
			cfg.Period, forecastkit.ErrInvalidConfiguration)
	}

	n := series.Len()
	minLen := 4
	if cfg.Seasonal != None {
		minLen = 2 * cfg.Period
	}
	if n < minLen {
		return fmt.Errorf("%s needs at least %d observations, got %d: %w",
			cfg.Name(), minLen, n, forecastkit.ErrInsufficientData)
	}

	needPositive := cfg.Error == Multiplicative ||
		cfg.Trend == Multiplicative || cfg.Seasonal == Multiplicative
	for i, v := range series.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("non-finite value at index %d: %w", i, forecastkit.ErrInvalidSeries)
		}
		if needPositive && v <= 0 {
			return fmt.Errorf("multiplicative components require positive values, got %v at index %d: %w",
				v, i, forecastkit.ErrInvalidSeries)
		}
	}
	return nil
}

// params carries one candidate point of the smoothing-parameter search.
type params struct {
	alpha, beta, gamma, phi float64
}

// parameterSpace builds the initial point and box bounds for the free
// parameters of this configuration, in the fixed order alpha, beta, gamma, phi.
func (c Config) parameterSpace() ([]float64, *optimize.Bounds) {
	x0 := []float64{0.3}
	min := []float64{1e-4}
	max := []float64{0.9999}

	if c.Trend != None {
		x0 = append(x0, 0.1)
		min = append(min, 1e-4)
		max = append(max, 0.9999)
	}
	if c.Seasonal != None {
		x0 = append(x0, 0.1)
		min = append(min, 1e-4)
		max = append(max, 0.9999)
	}
	if c.Damped {
		x0 = append(x0, 0.95)
		min = append(min, 0.1)
		max = append(max, 0.99)
	}
	return x0, &optimize.Bounds{Min: min, Max: max}
}

// applyParams unpacks an optimizer point into named parameters.
func (c Config) applyParams(x []float64) params {
	p := params{alpha: x[0], phi: 1}
	i := 1
	if c.Trend != None {
		p.beta = x[i]
		i++
	}
	if c.Seasonal != None {
		p.gamma = x[i]
		i++
	}
	if c.Damped {
		p.phi = x[i]
	}
	return p
}

func (m *Model) setParams(p params) {
	m.Alpha = p.alpha
	m.Beta = p.beta
	m.Gamma = p.gamma
	m.Phi = p.phi
}

// initState estimates the initial level, trend, and seasonal indices from the
// first cycles of data.
func (m *Model) initState(values []float64) {
	cfg := m.Config

	if cfg.Seasonal == None {
		// Level and trend from a short regression over the head of the series.
		head := len(values)
		if head > 10 {
			head = 10
		}
		slope, intercept := linearFit(values[:head])
		m.InitialLevel = intercept
		switch cfg.Trend {
		case Additive:
			m.InitialTrend = slope
		case Multiplicative:
			m.InitialTrend = 1
			if intercept != 0 {
				m.InitialTrend = 1 + slope/intercept
			}
		}
		return
	}

	period := cfg.Period

	// Level: mean of the first cycle.
	firstCycleMean := 0.0
	for i := 0; i < period; i++ {
		firstCycleMean += values[i]
	}
	firstCycleMean /= float64(period)
	m.InitialLevel = firstCycleMean

	// Trend: average per-step change between the first two cycles.
	trend := 0.0
	for i := 0; i < period; i++ {
		trend += (values[i+period] - values[i]) / float64(period)
	}
	trend /= float64(period)
	switch cfg.Trend {
	case Additive:
		m.InitialTrend = trend
	case Multiplicative:
		m.InitialTrend = 1
		if firstCycleMean != 0 {
			m.InitialTrend = 1 + trend/firstCycleMean
		}
	}

	// Seasonal indices: per-phase deviations from the cycle means, averaged
	// across complete cycles.
	cycles := len(values) / period
	m.InitialSeasonal = make([]float64, period)
	for phase := 0; phase < period; phase++ {
		sum := 0.0
		for c := 0; c < cycles; c++ {
			cycleMean := 0.0
			for i := 0; i < period; i++ {
				cycleMean += values[c*period+i]
			}
			cycleMean /= float64(period)
			if cfg.Seasonal == Multiplicative {
				if cycleMean != 0 {
					sum += values[c*period+phase] / cycleMean
				}
			} else {
				sum += values[c*period+phase] - cycleMean
			}
		}
		m.InitialSeasonal[phase] = sum / float64(cycles)
	}
}

// evaluate runs the smoothing recursion over the series with the given
// parameters and returns the error-type-specific SSE. ok is false when the
// recursion hit an invalid state (division by a vanishing forecast or a
// non-positive multiplicative level).
func (m *Model) evaluate(values []float64, p params) (float64, bool) {
	sse := 0.0
	step := func(y, yhat float64) bool {
		var e float64
		if m.Config.Error == Multiplicative {
			if math.Abs(yhat) < 1e-10 {
				return false
			}
			e = (y - yhat) / yhat
		} else {
			e = y - yhat
		}
		sse += e * e
		return true
	}

	_, _, _, ok := m.run(values, p, step, nil)
	if !ok {
		return 0, false
	}
	return sse, true
}

// run executes the recursion, invoking onStep per observation and recording
// residuals/fitted values when record is non-nil. It returns the final state.
func (m *Model) run(values []float64, p params,
	onStep func(y, yhat float64) bool,
	record func(t int, yhat, e float64)) (level, trend float64, seasonal []float64, ok bool) {

	cfg := m.Config
	period := cfg.Period

	level = m.InitialLevel
	trend = m.InitialTrend
	if cfg.Seasonal != None {
		seasonal = make([]float64, period)
		copy(seasonal, m.InitialSeasonal)
	}

	for t, y := range values {
		trendPart := combineTrend(cfg, level, trend, p.phi, 1)

		var sOld float64
		yhat := trendPart
		if cfg.Seasonal != None {
			sOld = seasonal[t%period]
			if cfg.Seasonal == Multiplicative {
				yhat = trendPart * sOld
			} else {
				yhat = trendPart + sOld
			}
		}

		if onStep != nil && !onStep(y, yhat) {
			return 0, 0, nil, false
		}
		if record != nil {
			record(t, yhat, y-yhat)
		}

		// Error-correction updates.
		var newLevel float64
		switch cfg.Seasonal {
		case Multiplicative:
			if math.Abs(sOld) < 1e-10 {
				return 0, 0, nil, false
			}
			newLevel = p.alpha*(y/sOld) + (1-p.alpha)*trendPart
		case Additive:
			newLevel = p.alpha*(y-sOld) + (1-p.alpha)*trendPart
		default:
			newLevel = p.alpha*y + (1-p.alpha)*trendPart
		}

		switch cfg.Trend {
		case Additive:
			trend = p.beta*(newLevel-level) + (1-p.beta)*p.phi*trend
		case Multiplicative:
			if math.Abs(level) < 1e-10 || newLevel <= 0 {
				return 0, 0, nil, false
			}
			trend = p.beta*(newLevel/level) + (1-p.beta)*math.Pow(trend, p.phi)
			if trend <= 0 {
				return 0, 0, nil, false
			}
		}

		if cfg.Seasonal == Multiplicative {
			if math.Abs(trendPart) < 1e-10 {
				return 0, 0, nil, false
			}
			seasonal[t%period] = p.gamma*(y/trendPart) + (1-p.gamma)*sOld
		} else if cfg.Seasonal == Additive {
			seasonal[t%period] = p.gamma*(y-trendPart) + (1-p.gamma)*sOld
		}

		level = newLevel
		if math.IsNaN(level) || math.IsInf(level, 0) {
			return 0, 0, nil, false
		}
	}

	return level, trend, seasonal, true
}

// combineTrend merges level and trend h steps ahead for the configured trend
// type, honoring damping.
func combineTrend(cfg Config, level, trend, phi float64, h int) float64 {
	switch cfg.Trend {
	case Additive:
		return level + dampingSum(phi, h)*trend
	case Multiplicative:
		return level * math.Pow(trend, dampingSum(phi, h))
	default:
		return level
	}
}

// dampingSum returns phi + phi^2 + ... + phi^h, which is h when phi == 1.
func dampingSum(phi float64, h int) float64 {
	if phi == 1 {
		return float64(h)
	}
	return phi * (1 - math.Pow(phi, float64(h))) / (1 - phi)
}

// finalize recomputes state, residuals, variance, and information criteria
// with the chosen parameters.
func (m *Model) finalize(values []float64) error {
	n := len(values)
	m.residuals = make([]float64, n)
	m.fittedVals = make([]float64, n)

	p := params{alpha: m.Alpha, beta: m.Beta, gamma: m.Gamma, phi: m.Phi}
	level, trend, seasonal, ok := m.run(values, p, nil, func(t int, yhat, e float64) {
		m.fittedVals[t] = yhat
		// Residuals live in the model's error metric: relative for a
		// multiplicative error component.
		if m.Config.Error == Multiplicative && math.Abs(yhat) > 1e-10 {
			e /= yhat
		}
		m.residuals[t] = e
	})
	if !ok {
		return fmt.Errorf("recursion degenerated at the fitted parameters: %w",
			forecastkit.ErrConvergence)
	}

	m.level = level
	m.trend = trend
	m.seasonal = seasonal

	m.SSE = 0
	for _, e := range m.residuals {
		m.SSE += e * e
	}
	m.Variance = m.SSE / float64(n)

	m.LogLik = stats.GaussianLogLik(m.residuals, m.Variance)
	ic := stats.CalculateIC(m.LogLik, n, m.nParams())
	m.AIC = ic.AIC
	m.AICc = ic.AICc
	m.BIC = ic.BIC
	return nil
}

// nParams counts estimated quantities: smoothing parameters plus initial
// states, per the AIC definition for ETS models.
func (m *Model) nParams() int {
	cfg := m.Config
	k := 1 + 1 // alpha + initial level
	if cfg.Trend != None {
		k += 2 // beta + initial trend
	}
	if cfg.Damped {
		k++
	}
	if cfg.Seasonal != None {
		k += 1 + cfg.Period // gamma + initial indices
	}
	k++ // residual variance
	return k
}

// Residuals returns a copy of the one-step-ahead in-sample errors, in the
// model's error metric (relative errors for a multiplicative error component).
func (m *Model) Residuals() []float64 {
	if m.residuals == nil {
		return nil
	}
	out := make([]float64, len(m.residuals))
	copy(out, m.residuals)
	return out
}

// FittedValues returns a copy of the one-step-ahead in-sample predictions.
func (m *Model) FittedValues() []float64 {
	if m.fittedVals == nil {
		return nil
	}
	out := make([]float64, len(m.fittedVals))
	copy(out, m.fittedVals)
	return out
}

// linearFit returns the OLS slope and intercept of values against their index.
func linearFit(values []float64) (slope, intercept float64) {
	n := float64(len(values))
	var sumX, sumY, sumXY, sumXX float64
	for i, v := range values {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}
	den := n*sumXX - sumX*sumX
	if den == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / den
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

func (c Config) withDefaults(series *timeseries.Series) Config {
	if c.Error == None {
		c.Error = Additive
	}
	if c.Seasonal != None && c.Period == 0 {
		c.Period = series.Period
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = 500
	}
	if c.Tolerance <= 0 {
		c.Tolerance = 1e-8
	}
	if c.SimulationPaths <= 0 {
		c.SimulationPaths = 1000
	}
	if c.Seed == 0 {
		c.Seed = 1
	}
	return c
}
