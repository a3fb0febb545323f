// Package stats provides statistical tests and analysis functions for time series.
//
// This package includes stationarity tests, autocorrelation functions,
// differencing analysis, and diagnostic tests for forecast model validation.
//
// # Stationarity Tests
//
// Test whether a time series is stationary:
//
//	// Augmented Dickey-Fuller test
//	// H0: series has a unit root (non-stationary)
//	adf := stats.ADF(series, 0)
//
//	// KPSS test
//	// H0: series is stationary
//	kpss := stats.KPSS(series, "c", 0)
//
// # Differencing Analysis
//
// Determine differencing orders before fitting ARIMA:
//
//	d := stats.NDiffs(series, 2, "kpss")
//	sd := stats.NSDiffs(series, 12, 1) // period=12 for monthly data
//
// # Autocorrelation Functions
//
// Analyze autocorrelation patterns:
//
//	acf := stats.ACF(series, 20)
//	pacf := stats.PACF(series, 20)
//
//	result := stats.ACFWithConfidence(series, 20)
//	significant := stats.SignificantLags(result.Values, result.ConfBounds)
//
// # Residual Diagnostics
//
// Test model residuals for leftover autocorrelation:
//
//	lb := stats.LjungBox(residuals, 10, p+q)
//	if lb.PValue > 0.05 {
//	    // residuals look like white noise
//	}
//
//	bp := stats.BoxPierce(residuals, 10, p+q)
//	dw := stats.DurbinWatson(residuals.Values)
//
// # Information Criteria
//
// Compare fitted models:
//
//	ic := stats.CalculateIC(logLik, nObs, nParams)
//	// ic.AIC, ic.AICc, ic.BIC
package stats
