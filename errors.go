package forecastkit

import "errors"

// Error taxonomy shared by all packages. Failures are reported by wrapping one of
// these sentinels, so callers can classify with errors.Is regardless of which
// component produced the error.
var (
	// ErrInvalidSeries reports a malformed or too-short input series, or values
	// a transformation cannot accept (e.g. log of a non-positive observation).
	ErrInvalidSeries = errors.New("invalid series")

	// ErrInvalidParameter reports a caller-supplied argument outside its
	// documented range, such as a moving-average window larger than the series.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidConfiguration reports an inconsistent model configuration, such
	// as a seasonal ETS component on a series with no period.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrInvalidOrder reports negative or oversized ARIMA orders.
	ErrInvalidOrder = errors.New("invalid order")

	// ErrInsufficientData reports a series too short for the requested period
	// or model order.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrNonStationary reports that differencing failed to produce a series
	// usable for estimation.
	ErrNonStationary = errors.New("series is non-stationary")

	// ErrConvergence reports that an optimizer exhausted its iteration budget
	// without meeting its tolerance. The best parameters found remain available
	// for inspection but the fit must not be used for forecasting.
	ErrConvergence = errors.New("optimizer failed to converge")

	// ErrNoViableModel reports that every candidate in a model selection failed
	// to fit.
	ErrNoViableModel = errors.New("no viable model")
)
