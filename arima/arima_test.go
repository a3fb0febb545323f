package arima

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forecastkit/forecastkit"
	"github.com/forecastkit/forecastkit/timeseries"
)

// ar1Series generates AR(1) data around level 100 with seeded innovations.
func ar1Series(t *testing.T, n int, phi float64, seed int64) *timeseries.Series {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	values := make([]float64, n)
	values[0] = 100
	for i := 1; i < n; i++ {
		values[i] = 100 + phi*(values[i-1]-100) + rng.NormFloat64()
	}
	s, err := timeseries.New(values)
	require.NoError(t, err)
	return s
}

func TestNewOrders(t *testing.T) {
	model := New(2, 1, 1)
	assert.Equal(t, Order{P: 2, D: 1, Q: 1}, model.Order)
	assert.Nil(t, model.Seasonal)
	assert.Len(t, model.ARCoeffs, 2)
	assert.Len(t, model.MACoeffs, 1)

	seasonal := NewSeasonal(1, 1, 1, 0, 1, 1, 12)
	require.NotNil(t, seasonal.Seasonal)
	assert.Equal(t, 12, seasonal.Seasonal.Period)
	assert.Len(t, seasonal.SMACoeffs, 1)
}

func TestNewNegativeOrderDoesNotPanic(t *testing.T) {
	model := New(-1, 0, -2)
	s := ar1Series(t, 50, 0.5, 1)

	err := model.Fit(s)
	assert.ErrorIs(t, err, forecastkit.ErrInvalidOrder)
}

func TestFitRejectsBadSeasonalPeriod(t *testing.T) {
	model := NewSeasonal(1, 0, 0, 1, 0, 0, 1)
	s := ar1Series(t, 100, 0.5, 2)

	err := model.Fit(s)
	assert.ErrorIs(t, err, forecastkit.ErrInvalidOrder)
}

func TestFitInsufficientData(t *testing.T) {
	s, err := timeseries.New([]float64{1, 2, 3})
	require.NoError(t, err)

	model := NewSeasonal(1, 1, 1, 0, 1, 1, 12)
	err = model.Fit(s)
	assert.ErrorIs(t, err, forecastkit.ErrInsufficientData)
}

func TestFitRejectsNonFinite(t *testing.T) {
	values := make([]float64, 50)
	for i := range values {
		values[i] = float64(i)
	}
	values[25] = math.NaN()
	s, err := timeseries.New(values)
	require.NoError(t, err)

	err = New(1, 0, 0).Fit(s)
	assert.ErrorIs(t, err, forecastkit.ErrInvalidSeries)
}

func TestFitAR1RecoversCoefficient(t *testing.T) {
	phi := 0.7
	s := ar1Series(t, 400, phi, 3)

	model := New(1, 0, 0)
	require.NoError(t, model.Fit(s))
	assert.True(t, model.Converged)

	require.Len(t, model.ARCoeffs, 1)
	t.Logf("true phi=%v estimated=%v", phi, model.ARCoeffs[0])
	assert.InDelta(t, phi, model.ARCoeffs[0], 0.15)
	assert.InDelta(t, 100.0, model.Intercept, 1.0)
	assert.Greater(t, model.Variance, 0.0)
	assert.False(t, math.IsNaN(model.AICc))
}

func TestFitWhiteNoise(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	values := make([]float64, 200)
	for i := range values {
		values[i] = 50 + rng.NormFloat64()
	}
	s, err := timeseries.New(values)
	require.NoError(t, err)

	model := New(0, 0, 0)
	require.NoError(t, model.Fit(s))
	assert.True(t, model.Converged)
	assert.InDelta(t, 50.0, model.Intercept, 0.5)

	fc, err := model.Forecast(5, 0.95)
	require.NoError(t, err)
	for _, v := range fc.Mean {
		assert.InDelta(t, model.Intercept, v, 1e-9)
	}
}

func TestConstantSeries(t *testing.T) {
	values := make([]float64, 40)
	for i := range values {
		values[i] = 5
	}
	s, err := timeseries.New(values)
	require.NoError(t, err)

	model := New(0, 0, 0)
	require.NoError(t, model.Fit(s))

	fc, err := model.Forecast(6, 0.95)
	require.NoError(t, err)
	for h := 0; h < 6; h++ {
		assert.InDelta(t, 5.0, fc.Mean[h], 1e-9)
		// Zero residual variance gives zero-width intervals.
		assert.InDelta(t, 0.0, fc.Upper[h]-fc.Lower[h], 1e-9)
	}
}

func TestForecastRequiresFit(t *testing.T) {
	model := New(1, 0, 0)
	_, err := model.Forecast(5, 0.95)
	assert.ErrorIs(t, err, forecastkit.ErrInvalidConfiguration)
}

func TestForecastValidatesArguments(t *testing.T) {
	s := ar1Series(t, 200, 0.5, 5)
	model := New(1, 0, 0)
	require.NoError(t, model.Fit(s))

	_, err := model.Forecast(0, 0.95)
	assert.ErrorIs(t, err, forecastkit.ErrInvalidParameter)

	_, err = model.Forecast(5, 1.5)
	assert.ErrorIs(t, err, forecastkit.ErrInvalidParameter)

	_, err = model.Forecast(5, 0)
	assert.ErrorIs(t, err, forecastkit.ErrInvalidParameter)
}

func TestForecastIntervalsWiden(t *testing.T) {
	s := ar1Series(t, 300, 0.6, 6)

	model := New(1, 0, 1)
	err := model.Fit(s)
	if err != nil {
		require.ErrorIs(t, err, forecastkit.ErrConvergence)
		t.Skip("optimizer did not converge on this configuration")
	}

	fc, err := model.Forecast(20, 0.95)
	require.NoError(t, err)
	require.Equal(t, 20, fc.Horizon())

	prev := 0.0
	for h := 0; h < 20; h++ {
		width := fc.Width(h)
		assert.GreaterOrEqual(t, width+1e-12, prev, "h=%d", h)
		prev = width
	}
	assert.Greater(t, fc.Width(19), fc.Width(0))
}

func TestForecastIntervalsWidenIntegrated(t *testing.T) {
	// A differenced model has unbounded forecast variance growth.
	rng := rand.New(rand.NewSource(7))
	values := make([]float64, 200)
	values[0] = 100
	for i := 1; i < 200; i++ {
		values[i] = values[i-1] + 0.2 + rng.NormFloat64()
	}
	s, err := timeseries.New(values)
	require.NoError(t, err)

	model := New(0, 1, 1)
	err = model.Fit(s)
	if err != nil {
		require.ErrorIs(t, err, forecastkit.ErrConvergence)
		t.Skip("optimizer did not converge on this configuration")
	}

	fc, err := model.Forecast(24, 0.95)
	require.NoError(t, err)
	for h := 1; h < 24; h++ {
		assert.GreaterOrEqual(t, fc.Width(h)+1e-12, fc.Width(h-1), "h=%d", h)
	}
	assert.Greater(t, fc.Width(23), 2*fc.Width(0))
}

func TestDoubleDifferencedLineContinues(t *testing.T) {
	// Twice-differencing a straight line leaves zeros, so ARIMA(0,2,0) must
	// continue the line exactly. Each integration pass has to anchor on the
	// one-fewer-times-differenced series, not the original.
	values := make([]float64, 60)
	for i := range values {
		values[i] = 10 + 2*float64(i)
	}
	s, err := timeseries.New(values)
	require.NoError(t, err)

	model := New(0, 2, 0)
	require.NoError(t, model.Fit(s))

	fc, err := model.Forecast(3, 0.95)
	require.NoError(t, err)
	assert.InDelta(t, 130.0, fc.Mean[0], 1e-6)
	assert.InDelta(t, 132.0, fc.Mean[1], 1e-6)
	assert.InDelta(t, 134.0, fc.Mean[2], 1e-6)
}

func TestDoubleSeasonalDifferenceContinuesPattern(t *testing.T) {
	// A per-phase linear drift vanishes under two seasonal differences, so
	// ARIMA(0,0,0)(0,2,0)[4] must extend the pattern exactly.
	period := 4
	values := make([]float64, 48)
	for i := range values {
		values[i] = 10*float64(i%period) + 2*float64(i)
	}
	s, err := timeseries.NewSeasonal(values, period)
	require.NoError(t, err)

	model := NewSeasonal(0, 0, 0, 0, 2, 0, period)
	require.NoError(t, model.Fit(s))

	fc, err := model.Forecast(period, 0.95)
	require.NoError(t, err)
	for h := 0; h < period; h++ {
		i := len(values) + h
		want := 10*float64(i%period) + 2*float64(i)
		assert.InDelta(t, want, fc.Mean[h], 1e-6, "h=%d", h)
	}
}

func TestFitStationarityCheck(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	values := make([]float64, 150)
	values[0] = 100
	for i := 1; i < len(values); i++ {
		values[i] = values[i-1] + rng.NormFloat64()
	}
	s, err := timeseries.New(values)
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.CheckStationarity = true

	// An undifferenced random walk fails the KPSS gate.
	err = New(1, 0, 0).FitWithConfig(s, cfg)
	assert.ErrorIs(t, err, forecastkit.ErrNonStationary)

	// One difference leaves white noise, which passes it.
	model := New(0, 1, 0)
	require.NoError(t, model.FitWithConfig(s, cfg))
	assert.True(t, model.Converged)
}

func TestFitDeterministic(t *testing.T) {
	s := ar1Series(t, 250, 0.5, 8)

	m1 := New(1, 0, 0)
	require.NoError(t, m1.Fit(s))
	m2 := New(1, 0, 0)
	require.NoError(t, m2.Fit(s))

	assert.Equal(t, m1.ARCoeffs, m2.ARCoeffs)
	assert.Equal(t, m1.Intercept, m2.Intercept)
	assert.Equal(t, m1.AICc, m2.AICc)

	f1, err := m1.Forecast(10, 0.95)
	require.NoError(t, err)
	f2, err := m2.Forecast(10, 0.95)
	require.NoError(t, err)
	assert.Equal(t, f1.Mean, f2.Mean)
	assert.Equal(t, f1.Lower, f2.Lower)
}

func TestSeasonalFitAndForecast(t *testing.T) {
	period := 12
	rng := rand.New(rand.NewSource(9))
	values := make([]float64, 8*period)
	for i := range values {
		values[i] = 100 + 0.5*float64(i) +
			10*math.Sin(2*math.Pi*float64(i)/float64(period)) +
			0.5*rng.NormFloat64()
	}
	s, err := timeseries.NewSeasonal(values, period)
	require.NoError(t, err)

	model := NewSeasonal(1, 1, 1, 0, 1, 1, period)
	err = model.Fit(s)
	if err != nil {
		require.ErrorIs(t, err, forecastkit.ErrConvergence)
		t.Skip("optimizer did not converge on this configuration")
	}

	fc, err := model.Forecast(period, 0.95)
	require.NoError(t, err)
	require.Len(t, fc.Mean, period)

	// Seasonal differencing should carry the pattern forward: the forecast
	// tracks the continuation of the deterministic structure.
	for h := 0; h < period; h++ {
		i := len(values) + h
		want := 100 + 0.5*float64(i) + 10*math.Sin(2*math.Pi*float64(i)/float64(period))
		assert.InDelta(t, want, fc.Mean[h], 6.0, "h=%d", h)
	}
}

func TestResidualsAndFittedValues(t *testing.T) {
	s := ar1Series(t, 200, 0.5, 10)
	model := New(1, 0, 0)
	require.NoError(t, model.Fit(s))

	res := model.Residuals()
	fit := model.FittedValues()
	require.Len(t, res, 200)
	require.Len(t, fit, 200)

	// Residual + fitted reconstructs the (undifferenced) observation.
	for i := 10; i < 200; i++ {
		assert.InDelta(t, s.Values[i], fit[i]+res[i], 1e-9, "i=%d", i)
	}

	// Mutating the copies must not affect the model.
	res[0] = 1e9
	assert.NotEqual(t, res[0], model.Residuals()[0])
}

func TestSummary(t *testing.T) {
	s := ar1Series(t, 200, 0.6, 11)
	model := New(1, 0, 0)
	require.NoError(t, model.Fit(s))

	sum := model.Summary()
	require.NotNil(t, sum)
	assert.NotNil(t, sum.LjungBox)
}

func TestSuggestOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(12))
	walk := make([]float64, 200)
	walk[0] = 100
	for i := 1; i < 200; i++ {
		walk[i] = walk[i-1] + 0.3 + rng.NormFloat64()
	}
	s, err := timeseries.New(walk)
	require.NoError(t, err)

	d, sd := SuggestOrder(s, 0)
	assert.GreaterOrEqual(t, d, 1)
	assert.Equal(t, 0, sd)
}

func TestMarshalFitRoundTrip(t *testing.T) {
	s := ar1Series(t, 250, 0.6, 13)
	model := New(1, 0, 1)
	err := model.Fit(s)
	if err != nil {
		require.ErrorIs(t, err, forecastkit.ErrConvergence)
		t.Skip("optimizer did not converge on this configuration")
	}

	data, err := model.MarshalFit()
	require.NoError(t, err)

	restored, err := UnmarshalFit(data)
	require.NoError(t, err)
	assert.Equal(t, model.Order, restored.Order)
	assert.Equal(t, model.ARCoeffs, restored.ARCoeffs)
	assert.Equal(t, model.Intercept, restored.Intercept)

	want, err := model.Forecast(12, 0.95)
	require.NoError(t, err)
	got, err := restored.Forecast(12, 0.95)
	require.NoError(t, err)

	for h := 0; h < 12; h++ {
		assert.InDelta(t, want.Mean[h], got.Mean[h], 1e-9, "h=%d", h)
		assert.InDelta(t, want.Lower[h], got.Lower[h], 1e-9, "h=%d", h)
		assert.InDelta(t, want.Upper[h], got.Upper[h], 1e-9, "h=%d", h)
	}
}

func TestMarshalFitRequiresFit(t *testing.T) {
	model := New(1, 0, 0)
	_, err := model.MarshalFit()
	assert.ErrorIs(t, err, forecastkit.ErrInvalidConfiguration)
}

func TestUnmarshalFitRejectsGarbage(t *testing.T) {
	_, err := UnmarshalFit([]byte("::not yaml::"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, forecastkit.ErrInvalidConfiguration))
}
