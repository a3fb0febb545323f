// Package ets implements exponential smoothing state-space models
// (error, trend, seasonal) for time series forecasting.
//
// A model form is written ETS(E,T,S) where each component is none (N),
// additive (A), or multiplicative (M), and the trend may be damped (Ad, Md).
// ETS(A,N,N) is simple exponential smoothing, ETS(A,A,N) is Holt's linear
// method, and ETS(A,A,A) is additive Holt-Winters.
//
// # Fitting
//
//	series, _ := timeseries.NewSeasonal(values, 12)
//	model, err := ets.Fit(series, ets.Config{
//	    Error:    ets.Additive,
//	    Trend:    ets.Additive,
//	    Seasonal: ets.Additive,
//	})
//
// Smoothing parameters are chosen by Nelder-Mead minimization of the
// one-step-ahead squared errors; the initial level, trend, and seasonal
// indices are estimated from the first cycles of data. A fit that fails to
// converge returns a model with best-effort parameters wrapped in
// forecastkit.ErrConvergence, and that model refuses to forecast.
//
// # Forecasting
//
//	fc, err := model.Forecast(12, 0.95)
//	// fc.Mean, fc.Lower, fc.Upper
//
// Purely additive models carry exact Gaussian prediction intervals; models
// with a multiplicative component use seeded Monte Carlo simulation, so
// results are reproducible run to run.
//
// # Persistence
//
// A fitted model round-trips through YAML with its terminal state, so the
// restored model forecasts identically:
//
//	data, _ := model.MarshalFit()
//	restored, _ := ets.UnmarshalFit(data)
package ets
