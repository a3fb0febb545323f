// Package selector chooses a forecasting model by information criterion.
//
// Select fits a slate of candidate configurations (ETS forms and ARIMA
// orders) against a series concurrently and returns the fit with the lowest
// AICc, breaking ties toward the model with fewer parameters. Candidates
// that fail to fit or converge are skipped; if every candidate fails the
// search reports forecastkit.ErrNoViableModel.
//
//	result, err := selector.Select(series, selector.DefaultCandidates(12), selector.Config{})
//	if err != nil {
//	    return err
//	}
//	fc, err := result.Forecast(12, 0.95)
//
// Pass a zerolog.Logger in Config to trace per-candidate scores during the
// search.
package selector
