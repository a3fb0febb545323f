// Package timeseries provides core time series data structures and operations.
package timeseries

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/forecastkit/forecastkit"
)

// Series represents an ordered sequence of observations with an optional time
// index and an optional seasonal period. A Series is immutable once constructed:
// every transformation returns a new Series and never touches the source values.
type Series struct {
	Timestamps []time.Time // optional; same length as Values when present
	Values     []float64
	Period     int // seasonal period in observations, 0 when non-seasonal
	Name       string
}

// New creates a series from values. The series must contain at least two
// observations.
func New(values []float64) (*Series, error) {
	if len(values) < 2 {
		return nil, fmt.Errorf("series needs at least 2 observations, got %d: %w",
			len(values), forecastkit.ErrInvalidSeries)
	}
	vals := make([]float64, len(values))
	copy(vals, values)
	return &Series{Values: vals}, nil
}

// NewSeasonal creates a series with a declared seasonal period. The period must
// be at least 1 and shorter than the series.
func NewSeasonal(values []float64, period int) (*Series, error) {
	s, err := New(values)
	if err != nil {
		return nil, err
	}
	if period < 1 || period >= len(values) {
		return nil, fmt.Errorf("period %d out of range for series of length %d: %w",
			period, len(values), forecastkit.ErrInvalidSeries)
	}
	s.Period = period
	return s, nil
}

// NewWithTimestamps creates a series with an explicit time index. Timestamps
// must match the values in length and be strictly increasing.
func NewWithTimestamps(timestamps []time.Time, values []float64) (*Series, error) {
	s, err := New(values)
	if err != nil {
		return nil, err
	}
	if len(timestamps) != len(values) {
		return nil, fmt.Errorf("got %d timestamps for %d values: %w",
			len(timestamps), len(values), forecastkit.ErrInvalidSeries)
	}
	for i := 1; i < len(timestamps); i++ {
		if !timestamps[i].After(timestamps[i-1]) {
			return nil, fmt.Errorf("timestamps must be strictly increasing at index %d: %w",
				i, forecastkit.ErrInvalidSeries)
		}
	}
	ts := make([]time.Time, len(timestamps))
	copy(ts, timestamps)
	s.Timestamps = ts
	return s, nil
}

// Len returns the number of observations.
func (s *Series) Len() int {
	return len(s.Values)
}

// Interval returns the spacing between the first two timestamps, or zero when
// the series carries no time index.
func (s *Series) Interval() time.Duration {
	if len(s.Timestamps) < 2 {
		return 0
	}
	return s.Timestamps[1].Sub(s.Timestamps[0])
}

// Mean calculates the arithmetic mean of the series.
func (s *Series) Mean() float64 {
	return stat.Mean(s.Values, nil)
}

// Variance calculates the sample variance of the series.
func (s *Series) Variance() float64 {
	if len(s.Values) < 2 {
		return 0
	}
	return stat.Variance(s.Values, nil)
}

// Std calculates the sample standard deviation of the series.
func (s *Series) Std() float64 {
	return math.Sqrt(s.Variance())
}

// Min returns the minimum value in the series.
func (s *Series) Min() float64 {
	return floats.Min(s.Values)
}

// Max returns the maximum value in the series.
func (s *Series) Max() float64 {
	return floats.Max(s.Values)
}

// Median returns the median value of the series.
func (s *Series) Median() float64 {
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Diff calculates the first difference of the series (d=1).
func (s *Series) Diff() *Series {
	return s.DiffN(1)
}

// DiffN calculates the lag-n difference of the series. The result is n
// observations shorter than the source.
func (s *Series) DiffN(n int) *Series {
	if n <= 0 || len(s.Values) <= n {
		return &Series{Values: []float64{}}
	}

	result := make([]float64, len(s.Values)-n)
	for i := n; i < len(s.Values); i++ {
		result[i-n] = s.Values[i] - s.Values[i-n]
	}

	return &Series{
		Timestamps: tailTimestamps(s.Timestamps, n),
		Values:     result,
		Period:     s.Period,
		Name:       s.Name + "_diff",
	}
}

// SeasonalDiff calculates the seasonal difference with period m.
func (s *Series) SeasonalDiff(m int) *Series {
	if m <= 0 || len(s.Values) <= m {
		return &Series{Values: []float64{}}
	}

	result := make([]float64, len(s.Values)-m)
	for i := m; i < len(s.Values); i++ {
		result[i-m] = s.Values[i] - s.Values[i-m]
	}

	return &Series{
		Timestamps: tailTimestamps(s.Timestamps, m),
		Values:     result,
		Period:     s.Period,
		Name:       s.Name + "_seasonal_diff",
	}
}

// Lag returns a version of the series shifted back by k observations.
func (s *Series) Lag(k int) *Series {
	if k <= 0 || k >= len(s.Values) {
		return &Series{Values: []float64{}}
	}

	result := make([]float64, len(s.Values)-k)
	copy(result, s.Values[:len(s.Values)-k])

	return &Series{
		Timestamps: tailTimestamps(s.Timestamps, k),
		Values:     result,
		Period:     s.Period,
		Name:       s.Name + "_lag",
	}
}

// Slice returns a sub-series from start to end (exclusive). Out-of-range bounds
// are clipped to the series.
func (s *Series) Slice(start, end int) *Series {
	if start < 0 {
		start = 0
	}
	if end > len(s.Values) {
		end = len(s.Values)
	}
	if start >= end {
		return &Series{Values: []float64{}}
	}

	values := make([]float64, end-start)
	copy(values, s.Values[start:end])

	var timestamps []time.Time
	if len(s.Timestamps) >= end {
		timestamps = make([]time.Time, len(values))
		copy(timestamps, s.Timestamps[start:end])
	}

	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Period:     s.Period,
		Name:       s.Name,
	}
}

// Copy creates a deep copy of the series.
func (s *Series) Copy() *Series {
	values := make([]float64, len(s.Values))
	copy(values, s.Values)

	var timestamps []time.Time
	if len(s.Timestamps) > 0 {
		timestamps = make([]time.Time, len(s.Timestamps))
		copy(timestamps, s.Timestamps)
	}

	return &Series{
		Timestamps: timestamps,
		Values:     values,
		Period:     s.Period,
		Name:       s.Name,
	}
}

// Log applies the natural logarithm to every observation. All values must be
// strictly positive.
func (s *Series) Log() (*Series, error) {
	result := make([]float64, len(s.Values))
	for i, v := range s.Values {
		if v <= 0 {
			return nil, fmt.Errorf("log transform requires positive values, got %v at index %d: %w",
				v, i, forecastkit.ErrInvalidSeries)
		}
		result[i] = math.Log(v)
	}

	out := s.Copy()
	out.Values = result
	out.Name = s.Name + "_log"
	return out, nil
}

// Exp applies the exponential function to every observation, undoing Log.
func (s *Series) Exp() *Series {
	result := make([]float64, len(s.Values))
	for i, v := range s.Values {
		result[i] = math.Exp(v)
	}

	out := s.Copy()
	out.Values = result
	out.Name = s.Name + "_exp"
	return out
}

// Normalize standardizes the series (z-score normalization).
func (s *Series) Normalize() *Series {
	mean := s.Mean()
	std := s.Std()

	if std == 0 {
		return s.Copy()
	}

	result := make([]float64, len(s.Values))
	for i, v := range s.Values {
		result[i] = (v - mean) / std
	}

	out := s.Copy()
	out.Values = result
	out.Name = s.Name + "_normalized"
	return out
}

// tailTimestamps drops the first k timestamps, or returns nil when the source
// carries no time index.
func tailTimestamps(timestamps []time.Time, k int) []time.Time {
	if len(timestamps) <= k {
		return nil
	}
	out := make([]time.Time, len(timestamps)-k)
	copy(out, timestamps[k:])
	return out
}
