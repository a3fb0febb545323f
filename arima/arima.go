// Package arima implements ARIMA and seasonal ARIMA forecasting models.
package arima

import (
	"fmt"
	"math"

	"github.com/forecastkit/forecastkit"
	"github.com/forecastkit/forecastkit/stats"
	"github.com/forecastkit/forecastkit/timeseries"
)

// Order represents the non-seasonal model order (p, d, q).
type Order struct {
	P int // AR order (number of autoregressive terms)
	D int // differencing order
	Q int // MA order (number of moving average terms)
}

// SeasonalOrder represents the seasonal order (P, D, Q) at the given period.
type SeasonalOrder struct {
	P      int // seasonal AR order
	D      int // seasonal differencing order
	Q      int // seasonal MA order
	Period int // seasonal period, e.g. 12 for monthly data with yearly seasonality
}

// Config bounds the conditional-sum-of-squares optimizer. Zero values select
// the documented defaults.
type Config struct {
	MaxIterations int     // iteration budget; default 200
	Tolerance     float64 // SSE improvement below which the fit converges; default 1e-8
	LearningRate  float64 // initial gradient step; default 0.005

	// CheckStationarity runs a KPSS test on the differenced series before
	// estimation and rejects the fit with ErrNonStationary when the test still
	// finds a unit root. Off by default: the differencing order is the
	// caller's call.
	CheckStationarity bool
}

// DefaultConfig returns the default fitting configuration.
func DefaultConfig() Config {
	return Config{
		MaxIterations: 200,
		Tolerance:     1e-8,
		LearningRate:  0.005,
	}
}

// Model represents an ARIMA model, optionally with a seasonal component. The
// fitted parameters are immutable once Fit returns; a fitted Model is safe to
// share across concurrent Forecast calls.
type Model struct {
	Order    Order
	Seasonal *SeasonalOrder // nil for a non-seasonal model

	ARCoeffs  []float64 // AR coefficients (phi)
	MACoeffs  []float64 // MA coefficients (theta)
	SARCoeffs []float64 // seasonal AR coefficients
	SMACoeffs []float64 // seasonal MA coefficients
	Intercept float64
	Variance  float64 // residual variance

	AIC    float64
	AICc   float64
	BIC    float64
	LogLik float64

	// Converged reports whether the optimizer met its tolerance within the
	// iteration budget. When false the coefficients hold the best parameters
	// found, available for inspection, but the fit is invalid for forecasting.
	Converged bool

	fitted     bool
	data       *timeseries.Series
	diffData   *timeseries.Series
	residuals  []float64
	fittedVals []float64
}

// New creates a non-seasonal ARIMA model with the specified order. Invalid
// orders are reported by Fit.
func New(p, d, q int) *Model {
	return &Model{
		Order:    Order{P: p, D: d, Q: q},
		ARCoeffs: make([]float64, nonNegative(p)),
		MACoeffs: make([]float64, nonNegative(q)),
	}
}

// NewSeasonal creates a seasonal ARIMA model with the specified orders.
// Invalid orders are reported by Fit.
func NewSeasonal(p, d, q, sp, sd, sq, period int) *Model {
	return &Model{
		Order:     Order{P: p, D: d, Q: q},
		Seasonal:  &SeasonalOrder{P: sp, D: sd, Q: sq, Period: period},
		ARCoeffs:  make([]float64, nonNegative(p)),
		MACoeffs:  make([]float64, nonNegative(q)),
		SARCoeffs: make([]float64, nonNegative(sp)),
		SMACoeffs: make([]float64, nonNegative(sq)),
	}
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// seasonalOrders returns the seasonal orders, zeroes for a non-seasonal model.
func (m *Model) seasonalOrders() (sp, sd, sq, period int) {
	if m.Seasonal == nil {
		return 0, 0, 0, 0
	}
	return m.Seasonal.P, m.Seasonal.D, m.Seasonal.Q, m.Seasonal.Period
}

// nParams returns the number of estimated parameters including the intercept.
func (m *Model) nParams() int {
	sp, _, sq, _ := m.seasonalOrders()
	return m.Order.P + m.Order.Q + sp + sq + 1
}

// Fit estimates the model on the series by conditional sum of squares with the
// default configuration.
func (m *Model) Fit(series *timeseries.Series) error {
	return m.FitWithConfig(series, DefaultConfig())
}

// FitWithConfig estimates the model with an explicit optimizer budget.
// Validation failures are reported before any computation; a convergence
// failure leaves the best coefficients in place but marks the fit unusable.
func (m *Model) FitWithConfig(series *timeseries.Series, cfg Config) error {
	cfg = cfg.withDefaults()

	if err := m.validate(series); err != nil {
		return err
	}

	m.data = series

	diffSeries, err := m.difference(series)
	if err != nil {
		return err
	}
	m.diffData = diffSeries

	if cfg.CheckStationarity {
		if k := stats.KPSS(diffSeries, "c", 0); k != nil && !k.IsStationary {
			return fmt.Errorf("series remains non-stationary after differencing (KPSS statistic %.4f): %w",
				k.Statistic, forecastkit.ErrNonStationary)
		}
	}

	converged := m.fitCSS(cfg)
	m.Converged = converged
	m.calculateIC()

	if !converged {
		return fmt.Errorf("CSS optimizer exhausted %d iterations without reaching tolerance %g: %w",
			cfg.MaxIterations, cfg.Tolerance, forecastkit.ErrConvergence)
	}

	m.fitted = true
	return nil
}

// validate checks orders and data length before any state changes.
func (m *Model) validate(series *timeseries.Series) error {
	sp, sd, sq, period := m.seasonalOrders()

	if m.Order.P < 0 || m.Order.D < 0 || m.Order.Q < 0 || sp < 0 || sd < 0 || sq < 0 {
		return fmt.Errorf("orders must be non-negative: %w", forecastkit.ErrInvalidOrder)
	}
	if m.Seasonal != nil && period < 2 {
		return fmt.Errorf("seasonal period must be at least 2, got %d: %w",
			period, forecastkit.ErrInvalidOrder)
	}

	n := series.Len()
	if m.Order.P >= n || m.Order.Q >= n {
		return fmt.Errorf("orders (p=%d, q=%d) exceed series length %d: %w",
			m.Order.P, m.Order.Q, n, forecastkit.ErrInvalidOrder)
	}

	minLen := m.Order.P + m.Order.Q + m.Order.D + 10
	if m.Seasonal != nil {
		minLen += (sp + sd + sq) * period
	}
	if n < minLen {
		return fmt.Errorf("model needs at least %d observations, got %d: %w",
			minLen, n, forecastkit.ErrInsufficientData)
	}

	for i, v := range series.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("non-finite value at index %d: %w", i, forecastkit.ErrInvalidSeries)
		}
	}
	return nil
}

// difference applies the non-seasonal and seasonal differencing passes.
func (m *Model) difference(series *timeseries.Series) (*timeseries.Series, error) {
	diff := series
	for i := 0; i < m.Order.D; i++ {
		diff = diff.Diff()
		if diff.Len() == 0 {
			return nil, fmt.Errorf("differencing pass %d emptied the series: %w",
				i+1, forecastkit.ErrNonStationary)
		}
	}

	_, sd, _, period := m.seasonalOrders()
	for i := 0; i < sd; i++ {
		diff = diff.SeasonalDiff(period)
		if diff.Len() == 0 {
			return nil, fmt.Errorf("seasonal differencing pass %d emptied the series: %w",
				i+1, forecastkit.ErrNonStationary)
		}
	}

	if diff.Len() < 10 {
		return nil, fmt.Errorf("only %d observations remain after differencing: %w",
			diff.Len(), forecastkit.ErrNonStationary)
	}
	return diff, nil
}

// fitCSS estimates parameters by conditional sum of squares. Returns whether
// the optimizer converged.
func (m *Model) fitCSS(cfg Config) bool {
	y := m.diffData.Values
	n := len(y)
	p := m.Order.P
	q := m.Order.Q
	sp, _, sq, period := m.seasonalOrders()

	mean := 0.0
	for _, v := range y {
		mean += v
	}
	m.Intercept = mean / float64(n)

	if p == 0 && q == 0 && sp == 0 && sq == 0 {
		// White noise around the intercept; nothing to optimize.
		m.finalizeResiduals(y, 0)
		return true
	}

	// Yule-Walker warm start for the AR terms, small positive values for MA.
	if p > 0 {
		if acf := stats.ACF(m.diffData, p); acf != nil {
			if phi := yuleWalker(acf, p); phi != nil {
				copy(m.ARCoeffs, phi)
			}
		}
	}
	if sp > 0 {
		if acf := stats.ACF(m.diffData, sp*period); acf != nil {
			for i := 0; i < sp; i++ {
				if idx := (i + 1) * period; idx < len(acf) {
					m.SARCoeffs[i] = acf[idx] * 0.5
				}
			}
		}
	}
	for i := range m.MACoeffs {
		m.MACoeffs[i] = 0.1
	}
	for i := range m.SMACoeffs {
		m.SMACoeffs[i] = 0.1
	}

	converged := m.optimizeCSS(y, cfg)

	startIdx := m.startIndex(n)
	m.finalizeResiduals(y, startIdx)
	return converged
}

// startIndex returns the first observation with full lag history.
func (m *Model) startIndex(n int) int {
	p := m.Order.P
	q := m.Order.Q
	sp, _, sq, period := m.seasonalOrders()

	start := p
	if q > start {
		start = q
	}
	if sp*period > start {
		start = sp * period
	}
	if sq*period > start {
		start = sq * period
	}
	if start >= n-10 {
		start = 0
	}
	return start
}

// optimizeCSS refines the coefficients by gradient descent with momentum and a
// decaying learning rate, tracking the best solution seen. Convergence means
// the SSE improvement dropped below tolerance or the search plateaued.
func (m *Model) optimizeCSS(y []float64, cfg Config) bool {
	n := len(y)
	p := m.Order.P
	q := m.Order.Q
	sp, _, sq, period := m.seasonalOrders()

	learningRate := cfg.LearningRate
	const momentum = 0.9
	const decay = 0.99

	arMomentum := make([]float64, p)
	maMomentum := make([]float64, q)
	sarMomentum := make([]float64, sp)
	smaMomentum := make([]float64, sq)

	startIdx := m.startIndex(n)

	bestSSE := math.Inf(1)
	bestAR := make([]float64, p)
	bestMA := make([]float64, q)
	bestSAR := make([]float64, sp)
	bestSMA := make([]float64, sq)
	noImproveCount := 0
	converged := false

	for iter := 0; iter < cfg.MaxIterations; iter++ {
		residuals := make([]float64, n)
		currentSSE := 0.0

		for t := startIdx; t < n; t++ {
			pred := m.predictOne(y, residuals, t, n)
			residuals[t] = y[t] - pred
			currentSSE += residuals[t] * residuals[t]
		}

		improvement := bestSSE - currentSSE
		if currentSSE < bestSSE {
			bestSSE = currentSSE
			copy(bestAR, m.ARCoeffs)
			copy(bestMA, m.MACoeffs)
			copy(bestSAR, m.SARCoeffs)
			copy(bestSMA, m.SMACoeffs)
			noImproveCount = 0
		} else {
			noImproveCount++
		}

		if iter > 0 && improvement >= 0 && improvement < cfg.Tolerance {
			converged = true
			break
		}
		// A long plateau means the search has settled.
		if noImproveCount > 20 {
			converged = true
			break
		}

		arGrad := make([]float64, p)
		maGrad := make([]float64, q)
		sarGrad := make([]float64, sp)
		smaGrad := make([]float64, sq)

		for t := startIdx; t < n; t++ {
			for i := 0; i < p && t-i-1 >= 0; i++ {
				arGrad[i] -= 2 * residuals[t] * (y[t-i-1] - m.Intercept)
			}
			for i := 0; i < sp; i++ {
				if lag := (i + 1) * period; t-lag >= 0 {
					sarGrad[i] -= 2 * residuals[t] * (y[t-lag] - m.Intercept)
				}
			}
			for i := 0; i < q && t-i-1 >= 0; i++ {
				maGrad[i] -= 2 * residuals[t] * residuals[t-i-1]
			}
			for i := 0; i < sq; i++ {
				if lag := (i + 1) * period; t-lag >= 0 {
					smaGrad[i] -= 2 * residuals[t] * residuals[t-lag]
				}
			}
		}

		// Momentum updates, clamped inside the stationarity/invertibility box.
		for i := 0; i < p; i++ {
			arMomentum[i] = momentum*arMomentum[i] + learningRate*arGrad[i]/float64(n)
			m.ARCoeffs[i] = clamp(m.ARCoeffs[i]-arMomentum[i], -0.99, 0.99)
		}
		for i := 0; i < sp; i++ {
			sarMomentum[i] = momentum*sarMomentum[i] + learningRate*sarGrad[i]/float64(n)
			m.SARCoeffs[i] = clamp(m.SARCoeffs[i]-sarMomentum[i], -0.99, 0.99)
		}
		for i := 0; i < q; i++ {
			maMomentum[i] = momentum*maMomentum[i] + learningRate*maGrad[i]/float64(n)
			m.MACoeffs[i] = clamp(m.MACoeffs[i]-maMomentum[i], -0.99, 0.99)
		}
		for i := 0; i < sq; i++ {
			smaMomentum[i] = momentum*smaMomentum[i] + learningRate*smaGrad[i]/float64(n)
			m.SMACoeffs[i] = clamp(m.SMACoeffs[i]-smaMomentum[i], -0.99, 0.99)
		}

		learningRate *= decay
	}

	copy(m.ARCoeffs, bestAR)
	copy(m.MACoeffs, bestMA)
	copy(m.SARCoeffs, bestSAR)
	copy(m.SMACoeffs, bestSMA)
	return converged
}

// predictOne evaluates the fitted recursion at time t. residuals beyond limit
// are treated as zero (future innovations in forecasting).
func (m *Model) predictOne(y, residuals []float64, t, limit int) float64 {
	p := m.Order.P
	q := m.Order.Q
	sp, _, sq, period := m.seasonalOrders()

	pred := m.Intercept
	for i := 0; i < p && t-i-1 >= 0; i++ {
		pred += m.ARCoeffs[i] * (y[t-i-1] - m.Intercept)
	}
	for i := 0; i < sp; i++ {
		if lag := (i + 1) * period; t-lag >= 0 {
			pred += m.SARCoeffs[i] * (y[t-lag] - m.Intercept)
		}
	}
	for i := 0; i < q && t-i-1 >= 0; i++ {
		if t-i-1 < limit {
			pred += m.MACoeffs[i] * residuals[t-i-1]
		}
	}
	for i := 0; i < sq; i++ {
		if lag := (i + 1) * period; t-lag >= 0 && t-lag < limit {
			pred += m.SMACoeffs[i] * residuals[t-lag]
		}
	}
	return pred
}

// finalizeResiduals computes the in-sample residuals, fitted values, and the
// residual variance with the final coefficients.
func (m *Model) finalizeResiduals(y []float64, startIdx int) {
	n := len(y)
	m.residuals = make([]float64, n)
	m.fittedVals = make([]float64, n)

	for t := 0; t < n; t++ {
		pred := m.predictOne(y, m.residuals, t, n)
		m.fittedVals[t] = pred
		m.residuals[t] = y[t] - pred
	}

	sse := 0.0
	count := 0
	for t := startIdx; t < n; t++ {
		sse += m.residuals[t] * m.residuals[t]
		count++
	}

	numParams := m.nParams()
	if count > numParams {
		m.Variance = sse / float64(count-numParams)
	} else if count > 0 {
		m.Variance = sse / float64(count)
	}
}

// calculateIC calculates AIC, AICc, BIC, and the Gaussian log-likelihood.
func (m *Model) calculateIC() {
	n := len(m.residuals)
	m.LogLik = stats.GaussianLogLik(m.residuals, m.Variance)

	ic := stats.CalculateIC(m.LogLik, n, m.nParams())
	m.AIC = ic.AIC
	m.AICc = ic.AICc
	m.BIC = ic.BIC
}

// Forecast projects the fitted recursion horizon steps ahead and integrates
// back through the differencing to the original scale. Prediction intervals
// come from the cumulative psi-weight forecast-error variance at the given
// confidence level.
func (m *Model) Forecast(horizon int, confidence float64) (*forecastkit.Forecast, error) {
	if !m.fitted {
		return nil, fmt.Errorf("model must be fitted before forecasting: %w",
			forecastkit.ErrInvalidConfiguration)
	}
	if horizon < 1 {
		return nil, fmt.Errorf("horizon must be at least 1, got %d: %w",
			horizon, forecastkit.ErrInvalidParameter)
	}
	z, err := forecastkit.NormalQuantile(confidence)
	if err != nil {
		return nil, err
	}

	mean := m.forecastDifferenced(horizon)
	mean = m.integrate(mean)

	// psi weights of the full (integrated) process give Var(e_h) =
	// sigma^2 * sum_{j<h} psi_j^2, nondecreasing in h.
	psi := m.psiWeights(horizon)

	lower := make([]float64, horizon)
	upper := make([]float64, horizon)
	cumVar := 0.0
	for h := 0; h < horizon; h++ {
		cumVar += psi[h] * psi[h]
		se := math.Sqrt(m.Variance * cumVar)
		lower[h] = mean[h] - z*se
		upper[h] = mean[h] + z*se
	}

	return &forecastkit.Forecast{
		Mean:       mean,
		Lower:      lower,
		Upper:      upper,
		Confidence: confidence,
	}, nil
}

// Predict returns point forecasts only, at the default recursion.
func (m *Model) Predict(steps int) ([]float64, error) {
	fc, err := m.Forecast(steps, 0.95)
	if err != nil {
		return nil, err
	}
	return fc.Mean, nil
}

// forecastDifferenced runs the recursion forward on the differenced scale.
func (m *Model) forecastDifferenced(steps int) []float64 {
	y := m.diffData.Values
	n := len(y)

	extY := make([]float64, n+steps)
	copy(extY, y)
	extResiduals := make([]float64, n+steps)
	copy(extResiduals, m.residuals)

	for h := 0; h < steps; h++ {
		t := n + h
		extY[t] = m.predictOne(extY, extResiduals, t, n)
		extResiduals[t] = 0
	}

	out := make([]float64, steps)
	copy(out, extY[n:])
	return out
}

// integrate undoes the differencing applied during Fit. Differencing order in
// Fit is non-seasonal first, then seasonal, so integration undoes seasonal
// first, then non-seasonal. Each pass anchors on the tail of the series
// differenced one time fewer, so repeated passes land back on the original
// scale.
func (m *Model) integrate(forecasts []float64) []float64 {
	d := m.Order.D
	_, sd, _, period := m.seasonalOrders()

	// levels[k] is the training data differenced k times non-seasonally.
	levels := make([][]float64, d+1)
	levels[0] = m.data.Values
	for k := 1; k <= d; k++ {
		prev := levels[k-1]
		if len(prev) <= 1 {
			levels[k] = nil
			continue
		}
		next := make([]float64, len(prev)-1)
		for j := 1; j < len(prev); j++ {
			next[j-1] = prev[j] - prev[j-1]
		}
		levels[k] = next
	}

	result := make([]float64, len(forecasts))
	copy(result, forecasts)

	if sd > 0 && period > 0 {
		// Seasonal integration runs on the fully non-seasonally differenced
		// scale: y_t = z_t + y_{t-m}. sLevels[k] is that series seasonally
		// differenced k times.
		sLevels := make([][]float64, sd+1)
		sLevels[0] = levels[d]
		for k := 1; k <= sd; k++ {
			prev := sLevels[k-1]
			if len(prev) <= period {
				sLevels[k] = nil
				continue
			}
			next := make([]float64, len(prev)-period)
			for j := period; j < len(prev); j++ {
				next[j-period] = prev[j] - prev[j-period]
			}
			sLevels[k] = next
		}

		for i := 0; i < sd; i++ {
			anchor := sLevels[sd-i-1]
			na := len(anchor)
			for j := 0; j < len(result); j++ {
				if j < period {
					if idx := na - period + j; idx >= 0 && idx < na {
						result[j] += anchor[idx]
					}
				} else {
					result[j] += result[j-period]
				}
			}
		}
	}

	for i := 0; i < d; i++ {
		anchor := levels[d-i-1]
		if len(anchor) == 0 {
			continue
		}
		last := anchor[len(anchor)-1]
		for j := 0; j < len(result); j++ {
			if j == 0 {
				result[j] += last
			} else {
				result[j] += result[j-1]
			}
		}
	}

	return result
}

// psiWeights expands the fitted model into its MA(inf) representation,
// including the differencing operators, up to the given horizon.
func (m *Model) psiWeights(horizon int) []float64 {
	p := m.Order.P
	q := m.Order.Q
	sp, sd, sq, period := m.seasonalOrders()
	d := m.Order.D

	// Combined AR and MA polynomials with the seasonal factors multiplied in.
	maxARLag := p + sp*period
	maxMALag := q + sq*period
	phi := make([]float64, maxARLag+1)
	theta := make([]float64, maxMALag+1)

	for i := 0; i < p; i++ {
		phi[i+1] += m.ARCoeffs[i]
	}
	for i := 0; i < sp; i++ {
		lag := (i + 1) * period
		phi[lag] += m.SARCoeffs[i]
		for j := 0; j < p; j++ {
			// Cross terms of (1 - phi B)(1 - PHI B^m).
			phi[lag+j+1] -= m.SARCoeffs[i] * m.ARCoeffs[j]
		}
	}
	for i := 0; i < q; i++ {
		theta[i+1] += m.MACoeffs[i]
	}
	for i := 0; i < sq; i++ {
		lag := (i + 1) * period
		theta[lag] += m.SMACoeffs[i]
		for j := 0; j < q; j++ {
			theta[lag+j+1] += m.SMACoeffs[i] * m.MACoeffs[j]
		}
	}

	// psi_0 = 1; psi_j = theta_j + sum_i phi_i psi_{j-i}.
	psi := make([]float64, horizon)
	psi[0] = 1
	for j := 1; j < horizon; j++ {
		v := 0.0
		if j < len(theta) {
			v = theta[j]
		}
		for i := 1; i <= j && i < len(phi); i++ {
			v += phi[i] * psi[j-i]
		}
		psi[j] = v
	}

	// Integration: each (1-B)^-1 pass is a running sum of the weights; each
	// seasonal pass adds the weight one period back.
	for pass := 0; pass < d; pass++ {
		for j := 1; j < horizon; j++ {
			psi[j] += psi[j-1]
		}
	}
	for pass := 0; pass < sd; pass++ {
		for j := period; j < horizon; j++ {
			psi[j] += psi[j-period]
		}
	}

	return psi
}

// Residuals returns a copy of the in-sample residuals on the differenced scale.
func (m *Model) Residuals() []float64 {
	if m.residuals == nil {
		return nil
	}
	result := make([]float64, len(m.residuals))
	copy(result, m.residuals)
	return result
}

// FittedValues returns a copy of the in-sample fitted values on the
// differenced scale.
func (m *Model) FittedValues() []float64 {
	if m.fittedVals == nil {
		return nil
	}
	result := make([]float64, len(m.fittedVals))
	copy(result, m.fittedVals)
	return result
}

// Summary reports the fitted model with a Ljung-Box residual diagnostic.
type Summary struct {
	Order     Order
	Seasonal  *SeasonalOrder
	ARCoeffs  []float64
	MACoeffs  []float64
	SARCoeffs []float64
	SMACoeffs []float64
	Intercept float64
	Variance  float64
	AIC       float64
	AICc      float64
	BIC       float64
	LogLik    float64
	NObs      int
	LjungBox  *stats.LjungBoxResult
}

// Summary returns a summary of the fitted model, or nil before fitting.
func (m *Model) Summary() *Summary {
	if !m.fitted {
		return nil
	}

	var lb *stats.LjungBoxResult
	if residSeries, err := timeseries.New(m.residuals); err == nil {
		sp, _, sq, _ := m.seasonalOrders()
		lb = stats.LjungBox(residSeries, 10, m.Order.P+m.Order.Q+sp+sq)
	}

	return &Summary{
		Order:     m.Order,
		Seasonal:  m.Seasonal,
		ARCoeffs:  m.ARCoeffs,
		MACoeffs:  m.MACoeffs,
		SARCoeffs: m.SARCoeffs,
		SMACoeffs: m.SMACoeffs,
		Intercept: m.Intercept,
		Variance:  m.Variance,
		AIC:       m.AIC,
		AICc:      m.AICc,
		BIC:       m.BIC,
		LogLik:    m.LogLik,
		NObs:      m.data.Len(),
		LjungBox:  lb,
	}
}

// SuggestOrder proposes differencing orders for the series using a KPSS-based
// unit-root heuristic, and a seasonal differencing order from the seasonal
// strength measure when period > 1.
func SuggestOrder(series *timeseries.Series, period int) (d, sd int) {
	d = stats.NDiffs(series, 2, "kpss")
	if period > 1 {
		sd = stats.NSDiffs(series, period, 1)
	}
	return d, sd
}

// yuleWalker estimates AR coefficients from the ACF with the Levinson-Durbin
// recursion.
func yuleWalker(acf []float64, order int) []float64 {
	if order <= 0 || len(acf) <= order {
		return nil
	}

	phi := make([]float64, order)
	phi[0] = acf[1]
	if order == 1 {
		return phi
	}

	v := 1 - phi[0]*phi[0]
	for i := 1; i < order; i++ {
		lambda := acf[i+1]
		for j := 0; j < i; j++ {
			lambda -= phi[j] * acf[i-j]
		}
		lambda /= v

		newPhi := make([]float64, i+1)
		for j := 0; j < i; j++ {
			newPhi[j] = phi[j] - lambda*phi[i-1-j]
		}
		newPhi[i] = lambda
		copy(phi, newPhi)

		v *= 1 - lambda*lambda
		if v <= 0 {
			break
		}
	}

	return phi
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.MaxIterations <= 0 {
		c.MaxIterations = def.MaxIterations
	}
	if c.Tolerance <= 0 {
		c.Tolerance = def.Tolerance
	}
	if c.LearningRate <= 0 {
		c.LearningRate = def.LearningRate
	}
	return c
}

func clamp(v, lower, upper float64) float64 {
	if v < lower {
		return lower
	}
	if v > upper {
		return upper
	}
	return v
}
