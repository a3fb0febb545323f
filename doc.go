// Package forecastkit provides analysis and forecasting of univariate time series.
//
// ForecastKit decomposes a series into trend, seasonal, and residual components
// (STL-style iterative smoothing) and forecasts future values with prediction
// intervals using exponential smoothing (ETS) state-space models and ARIMA models,
// with automatic model selection by information criteria.
//
// # Quick Start
//
// Decompose a monthly series with yearly seasonality:
//
//	series, _ := timeseries.NewSeasonal(values, 12)
//	decomp, _ := stl.Decompose(series, stl.DefaultConfig(12))
//
// Fit an ETS model and forecast a year ahead:
//
//	model, _ := ets.Fit(series, ets.Config{Error: ets.Additive, Trend: ets.Additive, Seasonal: ets.Additive, Period: 12})
//	fc, _ := model.Forecast(12, 0.95)
//
// Let the selector pick between candidates:
//
//	best, _ := selector.Select(series, selector.DefaultCandidates(12), selector.Config{})
//
// # Packages
//
//   - timeseries: series data model and transformations
//   - smooth: moving averages and loess smoothing
//   - stl: seasonal-trend decomposition
//   - ets: exponential smoothing state-space forecasting
//   - arima: ARIMA and seasonal ARIMA forecasting
//   - selector: model selection by information criteria
//   - stats: autocorrelation, stationarity tests, residual diagnostics
//
// # References
//
//   - Cleveland, R. B. et al. (1990). STL: A Seasonal-Trend Decomposition Procedure Based on Loess
//   - Hyndman, R.J., & Athanasopoulos, G. (2021). Forecasting: Principles and Practice
//   - Box, G. E. P., & Jenkins, G. M. (1976). Time Series Analysis: Forecasting and Control
package forecastkit
