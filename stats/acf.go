package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/forecastkit/forecastkit/timeseries"
)

// ACF calculates the autocorrelation function for the given series.
// Returns ACF values for lags 0 to maxLag.
func ACF(series *timeseries.Series, maxLag int) []float64 {
	n := series.Len()
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 0 {
		return nil
	}

	mean := series.Mean()
	variance := 0.0
	for _, v := range series.Values {
		diff := v - mean
		variance += diff * diff
	}

	if variance == 0 {
		return nil
	}

	acf := make([]float64, maxLag+1)
	for k := 0; k <= maxLag; k++ {
		sum := 0.0
		for i := k; i < n; i++ {
			sum += (series.Values[i] - mean) * (series.Values[i-k] - mean)
		}
		acf[k] = sum / variance
	}

	return acf
}

// PACF calculates the partial autocorrelation function using the
// Durbin-Levinson recursion. Returns PACF values for lags 0 to maxLag, with
// the lag-0 value fixed at 1.
func PACF(series *timeseries.Series, maxLag int) []float64 {
	n := series.Len()
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 1 {
		return nil
	}

	acf := ACF(series, maxLag)
	if acf == nil {
		return nil
	}

	pacf := make([]float64, maxLag+1)
	pacf[0] = 1

	phi := make([][]float64, maxLag+1)
	for i := range phi {
		phi[i] = make([]float64, maxLag+1)
	}

	phi[1][1] = acf[1]
	pacf[1] = acf[1]

	for k := 2; k <= maxLag; k++ {
		num := acf[k]
		den := 1.0
		for j := 1; j < k; j++ {
			num -= phi[k-1][j] * acf[k-j]
			den -= phi[k-1][j] * acf[j]
		}

		if den == 0 {
			pacf[k] = 0
			continue
		}

		phi[k][k] = num / den
		pacf[k] = phi[k][k]

		for j := 1; j < k; j++ {
			phi[k][j] = phi[k-1][j] - phi[k][k]*phi[k-1][k-j]
		}
	}

	return pacf
}

// CorrelogramResult holds ACF or PACF values with their white-noise confidence
// bound.
type CorrelogramResult struct {
	Lags       []int
	Values     []float64
	ConfBounds float64 // two-sided 95% bound, z_{0.975}/sqrt(n)
}

// ACFWithConfidence calculates the ACF together with its confidence bound.
func ACFWithConfidence(series *timeseries.Series, maxLag int) *CorrelogramResult {
	return correlogram(ACF(series, maxLag), series.Len())
}

// PACFWithConfidence calculates the PACF together with its confidence bound.
func PACFWithConfidence(series *timeseries.Series, maxLag int) *CorrelogramResult {
	return correlogram(PACF(series, maxLag), series.Len())
}

func correlogram(values []float64, n int) *CorrelogramResult {
	if values == nil {
		return nil
	}

	lags := make([]int, len(values))
	for i := range lags {
		lags[i] = i
	}

	z := distuv.Normal{Mu: 0, Sigma: 1}.Quantile(0.975)

	return &CorrelogramResult{
		Lags:       lags,
		Values:     values,
		ConfBounds: z / math.Sqrt(float64(n)),
	}
}

// SignificantLags returns the lags (excluding 0) whose values exceed the
// confidence bound.
func SignificantLags(values []float64, confBound float64) []int {
	var significant []int
	for i := 1; i < len(values); i++ {
		if math.Abs(values[i]) > confBound {
			significant = append(significant, i)
		}
	}
	return significant
}
