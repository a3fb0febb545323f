// Package arima implements ARIMA models for time series forecasting, with
// optional seasonal components (seasonal ARIMA).
//
// An ARIMA(p,d,q) model combines autoregression (p), differencing (d), and
// moving average terms (q). The seasonal extension adds (P,D,Q) counterparts
// at the seasonal period m. Estimation is by conditional sum of squares:
// Yule-Walker warm starts for the AR terms, then gradient refinement with
// momentum, with coefficients clamped to the stationarity/invertibility region.
//
// # Fitting a Model
//
//	series, _ := timeseries.New(values)
//	model := arima.New(1, 1, 1) // ARIMA(1,1,1)
//	if err := model.Fit(series); err != nil {
//	    // errors.Is(err, forecastkit.ErrConvergence) etc.
//	}
//
// Seasonal models declare the seasonal orders and period up front:
//
//	model := arima.NewSeasonal(1, 1, 1, 0, 1, 1, 12) // ARIMA(1,1,1)(0,1,1)[12]
//
// # Forecasting
//
// Forecast returns point predictions with prediction intervals that widen with
// the horizon according to the cumulative forecast-error variance:
//
//	fc, err := model.Forecast(12, 0.95)
//	// fc.Mean, fc.Lower, fc.Upper
//
// # Order Selection
//
// SuggestOrder proposes differencing orders from a KPSS unit-root heuristic;
// the selector package compares full candidate configurations by AICc.
//
// # Persistence
//
// A fitted model can be round-tripped through YAML:
//
//	data, _ := model.MarshalFit()
//	restored, _ := arima.UnmarshalFit(data)
package arima
