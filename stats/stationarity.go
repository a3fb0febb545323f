package stats

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/forecastkit/forecastkit/timeseries"
)

// ADFResult represents the result of an augmented Dickey-Fuller test.
type ADFResult struct {
	Statistic    float64
	PValue       float64
	Lags         int
	NObs         int
	CriticalVals map[string]float64 // critical values at 1%, 5%, 10%
	IsStationary bool
}

// ADF performs the augmented Dickey-Fuller test for a unit root. The null
// hypothesis is that the series has a unit root (is non-stationary); a p-value
// below 0.05 rejects the null. A maxLag of zero selects floor((n-1)^(1/3)).
func ADF(series *timeseries.Series, maxLag int) *ADFResult {
	n := series.Len()
	if n < 10 {
		return nil
	}

	if maxLag <= 0 {
		maxLag = int(math.Floor(math.Pow(float64(n-1), 1.0/3.0)))
	}
	if maxLag >= n-1 {
		maxLag = n - 2
	}

	diff := series.Diff()

	// Regression: delta_y_t = alpha + beta*y_{t-1} + sum(gamma_i * delta_y_{t-i}).
	// The unit root test is beta = 0 against beta < 0.
	nObs := n - maxLag - 1
	if nObs < 10 {
		return nil
	}

	y := make([]float64, nObs)
	x := mat.NewDense(nObs, 2+maxLag, nil)

	for i := 0; i < nObs; i++ {
		t := i + maxLag
		y[i] = diff.Values[t]

		x.Set(i, 0, 1)
		x.Set(i, 1, series.Values[t])
		for j := 1; j <= maxLag; j++ {
			x.Set(i, 1+j, diff.Values[t-j])
		}
	}

	coeffs, se := leastSquares(x, y)
	if coeffs == nil || se == nil {
		return nil
	}

	tStat := coeffs[1] / se[1]

	// Approximate asymptotic critical values, constant-only regression.
	criticalVals := map[string]float64{
		"1%":  -3.43,
		"5%":  -2.86,
		"10%": -2.57,
	}

	pValue := mackinnonPValue(tStat)

	return &ADFResult{
		Statistic:    tStat,
		PValue:       pValue,
		Lags:         maxLag,
		NObs:         nObs,
		CriticalVals: criticalVals,
		IsStationary: pValue < 0.05,
	}
}

// KPSSResult represents the result of a KPSS test.
type KPSSResult struct {
	Statistic    float64
	PValue       float64
	Lags         int
	CriticalVals map[string]float64
	IsStationary bool
}

// KPSS performs the Kwiatkowski-Phillips-Schmidt-Shin test for stationarity.
// The null hypothesis is that the series is stationary; a p-value below 0.05
// rejects the null. regression is "c" for level stationarity or "ct" for trend
// stationarity. An nlags of zero selects ceil(12*(n/100)^(1/4)).
func KPSS(series *timeseries.Series, regression string, nlags int) *KPSSResult {
	n := series.Len()
	if n < 10 {
		return nil
	}

	if nlags <= 0 {
		nlags = int(math.Ceil(12 * math.Pow(float64(n)/100, 0.25)))
	}

	residuals := make([]float64, n)
	if regression == "ct" {
		// Detrend with an OLS line.
		x := mat.NewDense(n, 2, nil)
		for i := 0; i < n; i++ {
			x.Set(i, 0, 1)
			x.Set(i, 1, float64(i))
		}
		coeffs, _ := leastSquares(x, series.Values)
		if coeffs == nil {
			return nil
		}
		for i, v := range series.Values {
			residuals[i] = v - coeffs[0] - coeffs[1]*float64(i)
		}
	} else {
		mean := series.Mean()
		for i, v := range series.Values {
			residuals[i] = v - mean
		}
	}

	cumSum := make([]float64, n)
	cumSum[0] = residuals[0]
	for i := 1; i < n; i++ {
		cumSum[i] = cumSum[i-1] + residuals[i]
	}

	// Long-run variance with Bartlett weights (Newey-West).
	s2 := 0.0
	for _, r := range residuals {
		s2 += r * r
	}
	s2 /= float64(n)

	for l := 1; l <= nlags; l++ {
		cov := 0.0
		for i := l; i < n; i++ {
			cov += residuals[i] * residuals[i-l]
		}
		cov /= float64(n)
		weight := 1 - float64(l)/float64(nlags+1)
		s2 += 2 * weight * cov
	}

	if s2 <= 0 {
		s2 = 1e-10
	}

	etaSq := 0.0
	for _, cs := range cumSum {
		etaSq += cs * cs
	}
	kpssStat := etaSq / (float64(n) * float64(n) * s2)

	var criticalVals map[string]float64
	if regression == "ct" {
		criticalVals = map[string]float64{
			"10%": 0.119,
			"5%":  0.146,
			"1%":  0.216,
		}
	} else {
		criticalVals = map[string]float64{
			"10%": 0.347,
			"5%":  0.463,
			"1%":  0.739,
		}
	}

	pValue := kpssPValue(kpssStat, regression)

	// The KPSS null is stationarity, so not rejecting means stationary.
	return &KPSSResult{
		Statistic:    kpssStat,
		PValue:       pValue,
		Lags:         nlags,
		CriticalVals: criticalVals,
		IsStationary: pValue >= 0.05,
	}
}

// leastSquares solves an OLS regression of y on the columns of x, returning
// the coefficients and their standard errors.
func leastSquares(x *mat.Dense, y []float64) (coeffs, stdErrors []float64) {
	n, k := x.Dims()
	if n == 0 || len(y) != n {
		return nil, nil
	}

	yVec := mat.NewVecDense(n, nil)
	for i, v := range y {
		yVec.SetVec(i, v)
	}

	var qr mat.QR
	qr.Factorize(x)

	var sol mat.VecDense
	if err := qr.SolveVecTo(&sol, false, yVec); err != nil {
		return nil, nil
	}

	coeffs = make([]float64, k)
	for j := range coeffs {
		coeffs[j] = sol.AtVec(j)
	}

	// Residual variance for standard errors.
	sse := 0.0
	for i := 0; i < n; i++ {
		pred := 0.0
		for j := 0; j < k; j++ {
			pred += coeffs[j] * x.At(i, j)
		}
		r := y[i] - pred
		sse += r * r
	}
	if n <= k {
		return coeffs, nil
	}
	s2 := sse / float64(n-k)

	// (X'X)^-1 diagonal for the coefficient variances.
	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err != nil {
		return coeffs, nil
	}

	stdErrors = make([]float64, k)
	for j := 0; j < k; j++ {
		stdErrors[j] = math.Sqrt(s2 * xtxInv.At(j, j))
	}

	return coeffs, stdErrors
}

// mackinnonPValue approximates the ADF p-value by interpolating the MacKinnon
// (1994) asymptotic critical values for the constant-only regression.
func mackinnonPValue(stat float64) float64 {
	switch {
	case stat < -3.96:
		return 0.001
	case stat < -3.43:
		return 0.01
	case stat < -2.86:
		return 0.05
	case stat < -2.57:
		return 0.10
	case stat < -1.94:
		return 0.25
	case stat < -1.62:
		return 0.50
	default:
		return math.Min(0.5+(stat+1.62)*0.25, 0.99)
	}
}

// kpssPValue approximates the KPSS p-value from the published critical values.
func kpssPValue(stat float64, regression string) float64 {
	if regression == "ct" {
		switch {
		case stat > 0.216:
			return 0.01
		case stat > 0.146:
			return 0.05
		case stat > 0.119:
			return 0.10
		default:
			return 0.10 + (0.119-stat)*2
		}
	}

	switch {
	case stat > 0.739:
		return 0.01
	case stat > 0.463:
		return 0.05
	case stat > 0.347:
		return 0.10
	default:
		return 0.10 + (0.347-stat)*0.5
	}
}
