package stats

import (
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/forecastkit/forecastkit/timeseries"
)

// LjungBoxResult represents the result of a Ljung-Box test.
type LjungBoxResult struct {
	Statistic float64
	PValue    float64
	Lags      int
	DOF       int // degrees of freedom
}

// LjungBox performs the Ljung-Box test for autocorrelation in residuals. The
// null hypothesis is no autocorrelation up to the given lag; a p-value below
// 0.05 rejects it. fitdf is the number of parameters estimated by the model
// whose residuals are being tested (p+q for ARIMA).
func LjungBox(series *timeseries.Series, lags, fitdf int) *LjungBoxResult {
	n := series.Len()
	if n < 10 || lags < 1 {
		return nil
	}

	if lags >= n {
		lags = n - 1
	}

	acf := ACF(series, lags)
	if acf == nil {
		return nil
	}

	q := 0.0
	for k := 1; k <= lags; k++ {
		q += (acf[k] * acf[k]) / float64(n-k)
	}
	q *= float64(n * (n + 2))

	dof := lags - fitdf
	if dof < 1 {
		dof = 1
	}

	return &LjungBoxResult{
		Statistic: q,
		PValue:    chiSquaredSurvival(q, dof),
		Lags:      lags,
		DOF:       dof,
	}
}

// BoxPierceResult represents the result of a Box-Pierce test.
type BoxPierceResult struct {
	Statistic float64
	PValue    float64
	Lags      int
	DOF       int
}

// BoxPierce performs the Box-Pierce test for autocorrelation, the simpler
// ancestor of Ljung-Box.
func BoxPierce(series *timeseries.Series, lags, fitdf int) *BoxPierceResult {
	n := series.Len()
	if n < 10 || lags < 1 {
		return nil
	}

	if lags >= n {
		lags = n - 1
	}

	acf := ACF(series, lags)
	if acf == nil {
		return nil
	}

	q := 0.0
	for k := 1; k <= lags; k++ {
		q += acf[k] * acf[k]
	}
	q *= float64(n)

	dof := lags - fitdf
	if dof < 1 {
		dof = 1
	}

	return &BoxPierceResult{
		Statistic: q,
		PValue:    chiSquaredSurvival(q, dof),
		Lags:      lags,
		DOF:       dof,
	}
}

// chiSquaredSurvival returns P(X > q) for a chi-squared variable with k
// degrees of freedom.
func chiSquaredSurvival(q float64, k int) float64 {
	if q < 0 {
		return 1
	}
	dist := distuv.ChiSquared{K: float64(k)}
	return dist.Survival(q)
}

// DurbinWatsonResult represents the result of a Durbin-Watson test.
type DurbinWatsonResult struct {
	// Statistic is about 2 under no autocorrelation, below 2 for positive
	// autocorrelation, above 2 for negative.
	Statistic float64
}

// DurbinWatson calculates the Durbin-Watson statistic for first-order
// autocorrelation in residuals.
func DurbinWatson(residuals []float64) *DurbinWatsonResult {
	n := len(residuals)
	if n < 2 {
		return nil
	}

	numerator := 0.0
	denominator := 0.0

	for i := 1; i < n; i++ {
		diff := residuals[i] - residuals[i-1]
		numerator += diff * diff
	}

	for _, r := range residuals {
		denominator += r * r
	}

	if denominator == 0 {
		return nil
	}

	return &DurbinWatsonResult{
		Statistic: numerator / denominator,
	}
}
