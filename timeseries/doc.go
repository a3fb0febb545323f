// Package timeseries provides time series data structures and transformations.
//
// This package includes the Series type representing an ordered sequence of
// observations with an optional time index and seasonal period, along with
// transformations used throughout the library. A Series is immutable: every
// transformation returns a new Series.
//
// # Creating a Series
//
// Create a series from a slice, optionally with a seasonal period or timestamps:
//
//	values := []float64{100, 102, 105, 103, 108, 110}
//	series, err := timeseries.New(values)
//
//	// Monthly data with yearly seasonality
//	monthly, err := timeseries.NewSeasonal(values, 12)
//
//	// With an explicit time index
//	series, err := timeseries.NewWithTimestamps(timestamps, values)
//
// Constructors validate their input: series shorter than two observations,
// mismatched timestamp lengths, and out-of-range periods are rejected.
//
// # Basic Statistics
//
// Calculate summary statistics:
//
//	mean := series.Mean()
//	std := series.Std()
//	median := series.Median()
//
// # Transformations
//
// Transform the time series:
//
//	diff := series.Diff()            // First difference
//	sdiff := series.SeasonalDiff(12) // Seasonal difference
//	logged, err := series.Log()      // Natural log (positive values only)
//	normalized := series.Normalize() // Z-score normalization
//
// # Trend Fitting
//
// Fit a polynomial trend of order Linear through Quartic:
//
//	trend, err := series.Trend(timeseries.Linear)
//	coeffs, err := series.TrendCoefficients(timeseries.Quadratic)
package timeseries
