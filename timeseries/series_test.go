package timeseries

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forecastkit/forecastkit"
)

func TestNewSeries(t *testing.T) {
	s, err := New([]float64{1, 2, 3, 4, 5})
	require.NoError(t, err)
	assert.Equal(t, 5, s.Len())
	assert.Equal(t, 0, s.Period)
}

func TestNewTooShort(t *testing.T) {
	_, err := New([]float64{1})
	require.Error(t, err)
	assert.ErrorIs(t, err, forecastkit.ErrInvalidSeries)

	_, err = New(nil)
	assert.ErrorIs(t, err, forecastkit.ErrInvalidSeries)
}

func TestNewSeasonal(t *testing.T) {
	s, err := NewSeasonal([]float64{1, 2, 3, 4, 5, 6}, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Period)
}

func TestNewSeasonalBadPeriod(t *testing.T) {
	// Period must be at least 1 and shorter than the series.
	_, err := NewSeasonal([]float64{1, 2, 3}, 0)
	assert.ErrorIs(t, err, forecastkit.ErrInvalidSeries)

	_, err = NewSeasonal([]float64{1, 2, 3}, 3)
	assert.ErrorIs(t, err, forecastkit.ErrInvalidSeries)

	_, err = NewSeasonal([]float64{1, 2, 3}, -1)
	assert.ErrorIs(t, err, forecastkit.ErrInvalidSeries)
}

func TestNewWithTimestamps(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := []time.Time{base, base.AddDate(0, 1, 0), base.AddDate(0, 2, 0)}

	s, err := NewWithTimestamps(ts, []float64{10, 20, 30})
	require.NoError(t, err)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, base, s.Timestamps[0])
}

func TestNewWithTimestampsValidation(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// Length mismatch.
	_, err := NewWithTimestamps([]time.Time{base}, []float64{1, 2})
	assert.ErrorIs(t, err, forecastkit.ErrInvalidSeries)

	// Out-of-order timestamps.
	_, err = NewWithTimestamps(
		[]time.Time{base.AddDate(0, 1, 0), base},
		[]float64{1, 2},
	)
	assert.ErrorIs(t, err, forecastkit.ErrInvalidSeries)
}

func TestInterval(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ts := []time.Time{base, base.Add(time.Hour), base.Add(2 * time.Hour)}

	s, err := NewWithTimestamps(ts, []float64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, time.Hour, s.Interval())

	plain, err := New([]float64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), plain.Interval())
}

func TestSummaryStatistics(t *testing.T) {
	s, err := New([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	require.NoError(t, err)

	assert.InDelta(t, 5.0, s.Mean(), 1e-10)
	assert.InDelta(t, 2.0, s.Min(), 1e-10)
	assert.InDelta(t, 9.0, s.Max(), 1e-10)
	assert.InDelta(t, 4.5, s.Median(), 1e-10)
	assert.InDelta(t, 32.0/7.0, s.Variance(), 1e-10) // sample variance
	assert.InDelta(t, math.Sqrt(32.0/7.0), s.Std(), 1e-10)
}

func TestDiff(t *testing.T) {
	s, err := New([]float64{1, 4, 9, 16, 25})
	require.NoError(t, err)

	d := s.Diff()
	assert.Equal(t, []float64{3, 5, 7, 9}, d.Values)

	d2 := s.DiffN(2)
	assert.Equal(t, []float64{2, 2, 2}, d2.Values)
}

func TestSeasonalDiff(t *testing.T) {
	s, err := New([]float64{1, 2, 3, 5, 7, 9})
	require.NoError(t, err)

	d := s.SeasonalDiff(3)
	assert.Equal(t, []float64{4, 5, 6}, d.Values)
}

func TestLag(t *testing.T) {
	s, err := New([]float64{1, 2, 3, 4, 5})
	require.NoError(t, err)

	lagged := s.Lag(2)
	assert.Equal(t, []float64{1, 2, 3}, lagged.Values)
}

func TestSliceClipsBounds(t *testing.T) {
	s, err := NewSeasonal([]float64{1, 2, 3, 4, 5, 6}, 2)
	require.NoError(t, err)

	sub := s.Slice(2, 100)
	assert.Equal(t, []float64{3, 4, 5, 6}, sub.Values)
	assert.Equal(t, 2, sub.Period)

	empty := s.Slice(4, 2)
	assert.Equal(t, 0, empty.Len())
}

func TestCopyIsIndependent(t *testing.T) {
	s, err := New([]float64{1, 2, 3})
	require.NoError(t, err)

	c := s.Copy()
	c.Values[0] = 99
	assert.Equal(t, 1.0, s.Values[0])
}

func TestLogExpRoundTrip(t *testing.T) {
	s, err := New([]float64{1, 2, 4, 8})
	require.NoError(t, err)

	logged, err := s.Log()
	require.NoError(t, err)
	back := logged.Exp()

	for i := range s.Values {
		assert.InDelta(t, s.Values[i], back.Values[i], 1e-12)
	}
}

func TestLogRejectsNonPositive(t *testing.T) {
	s, err := New([]float64{1, 0, 2})
	require.NoError(t, err)

	_, err = s.Log()
	assert.ErrorIs(t, err, forecastkit.ErrInvalidSeries)
}

func TestNormalize(t *testing.T) {
	s, err := New([]float64{10, 20, 30, 40})
	require.NoError(t, err)

	n := s.Normalize()
	assert.InDelta(t, 0.0, n.Mean(), 1e-10)
	assert.InDelta(t, 1.0, n.Std(), 1e-10)
}
