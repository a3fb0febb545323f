package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/forecastkit/forecastkit/stl"
	"github.com/forecastkit/forecastkit/timeseries"
)

// NDiffs determines the number of first differences required for stationarity,
// returning a value between 0 and maxD (default 2). testType can be "kpss"
// (default) or "adf".
func NDiffs(series *timeseries.Series, maxD int, testType string) int {
	if maxD <= 0 {
		maxD = 2
	}
	if testType == "" {
		testType = "kpss"
	}

	current := series
	for d := 0; d < maxD; d++ {
		isStationary := false

		if testType == "adf" {
			result := ADF(current, 0)
			if result != nil && result.IsStationary {
				isStationary = true
			}
		} else {
			result := KPSS(current, "c", 0)
			if result != nil && result.IsStationary {
				isStationary = true
			}
		}

		if isStationary {
			return d
		}

		current = current.Diff()
		if current.Len() < 10 {
			return d
		}
	}

	return maxD
}

// NSDiffs determines the number of seasonal differences required, based on the
// seasonal strength measure: a strength of 0.64 or above suggests one more
// seasonal difference. period is the seasonal cycle length.
func NSDiffs(series *timeseries.Series, period int, maxD int) int {
	if maxD <= 0 {
		maxD = 1
	}
	if period <= 1 || series.Len() < 2*period {
		return 0
	}

	current := series
	for d := 0; d < maxD; d++ {
		if SeasonalStrength(current, period) < 0.64 {
			return d
		}

		current = current.SeasonalDiff(period)
		if current.Len() < 2*period {
			return d
		}
	}

	return maxD
}

// SeasonalStrength calculates the strength of seasonality
// F_S = max(0, 1 - Var(R)/Var(S+R)) from an additive decomposition, where S is
// the seasonal component and R the residual. Returns 0 when the series is too
// short to decompose.
func SeasonalStrength(series *timeseries.Series, period int) float64 {
	if series.Len() < 2*period {
		return 0
	}

	decomp, err := stl.Decompose(series, stl.DefaultConfig(period))
	if err != nil {
		return 0
	}

	varR := nanVariance(decomp.Residual)

	seasonalPlusResid := make([]float64, len(decomp.Seasonal))
	for i := range seasonalPlusResid {
		seasonalPlusResid[i] = decomp.Seasonal[i] + decomp.Residual[i]
	}
	varSR := nanVariance(seasonalPlusResid)

	if varSR == 0 {
		return 0
	}

	strength := 1 - varR/varSR
	if strength < 0 {
		strength = 0
	}
	return strength
}

// nanVariance calculates the sample variance ignoring NaN values.
func nanVariance(data []float64) float64 {
	valid := make([]float64, 0, len(data))
	for _, v := range data {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	if len(valid) < 2 {
		return 0
	}
	return stat.Variance(valid, nil)
}

// InformationCriteria holds the standard model comparison statistics.
type InformationCriteria struct {
	AIC    float64
	AICc   float64
	BIC    float64
	LogLik float64
}

// CalculateIC calculates AIC, AICc, and BIC from a Gaussian log-likelihood,
// the number of observations, and the number of estimated parameters.
func CalculateIC(logLik float64, nObs, nParams int) *InformationCriteria {
	k := float64(nParams)
	n := float64(nObs)

	aic := -2*logLik + 2*k
	bic := -2*logLik + k*math.Log(n)

	var aicc float64
	if n-k-1 > 0 {
		aicc = aic + 2*k*(k+1)/(n-k-1)
	} else {
		aicc = math.Inf(1)
	}

	return &InformationCriteria{
		AIC:    aic,
		AICc:   aicc,
		BIC:    bic,
		LogLik: logLik,
	}
}

// AICc corrects an AIC value for small sample sizes:
// AICc = AIC + 2k(k+1)/(n-k-1).
func AICc(aic float64, nObs, nParams int) float64 {
	k := float64(nParams)
	n := float64(nObs)

	if n-k-1 <= 0 {
		return math.Inf(1)
	}
	return aic + 2*k*(k+1)/(n-k-1)
}

// GaussianLogLik computes the log-likelihood of residuals under a Gaussian
// model with the given variance. The variance is floored at a small positive
// value so an exact fit scores a large finite likelihood rather than -Inf,
// keeping information criteria comparable across candidates.
func GaussianLogLik(residuals []float64, variance float64) float64 {
	const varianceFloor = 1e-12
	if variance < varianceFloor {
		variance = varianceFloor
	}
	n := float64(len(residuals))
	sse := 0.0
	for _, r := range residuals {
		sse += r * r
	}
	return -n/2*math.Log(2*math.Pi) - n/2*math.Log(variance) - sse/(2*variance)
}
