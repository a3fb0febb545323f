package ets

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forecastkit/forecastkit"
	"github.com/forecastkit/forecastkit/timeseries"
)

// fitOrSkip fits the configuration, skipping the test when the optimizer
// reports non-convergence rather than failing on a budget artifact.
func fitOrSkip(t *testing.T, series *timeseries.Series, cfg Config) *Model {
	t.Helper()
	model, err := Fit(series, cfg)
	if err != nil {
		require.ErrorIs(t, err, forecastkit.ErrConvergence)
		t.Skipf("%s did not converge", cfg.Name())
	}
	return model
}

func levelSeries(t *testing.T, n int, level float64, seed int64) *timeseries.Series {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	values := make([]float64, n)
	for i := range values {
		values[i] = level + rng.NormFloat64()
	}
	s, err := timeseries.New(values)
	require.NoError(t, err)
	return s
}

func trendSeries(t *testing.T, n int, intercept, slope float64, seed int64) *timeseries.Series {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	values := make([]float64, n)
	for i := range values {
		values[i] = intercept + slope*float64(i) + 0.5*rng.NormFloat64()
	}
	s, err := timeseries.New(values)
	require.NoError(t, err)
	return s
}

func seasonalSeries(t *testing.T, n, period int, seed int64) *timeseries.Series {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	values := make([]float64, n)
	for i := range values {
		values[i] = 50 + 0.3*float64(i) +
			8*math.Sin(2*math.Pi*float64(i)/float64(period)) +
			0.5*rng.NormFloat64()
	}
	s, err := timeseries.NewSeasonal(values, period)
	require.NoError(t, err)
	return s
}

func TestConfigName(t *testing.T) {
	assert.Equal(t, "ETS(A,N,N)", Config{Error: Additive}.Name())
	assert.Equal(t, "ETS(A,Ad,N)",
		Config{Error: Additive, Trend: Additive, Damped: true}.Name())
	assert.Equal(t, "ETS(M,A,M)",
		Config{Error: Multiplicative, Trend: Additive, Seasonal: Multiplicative}.Name())
}

func TestFitValidatesConfiguration(t *testing.T) {
	s := levelSeries(t, 50, 10, 1)

	// Damping without a trend.
	_, err := Fit(s, Config{Error: Additive, Damped: true})
	assert.ErrorIs(t, err, forecastkit.ErrInvalidConfiguration)

	// Seasonal component without a period anywhere.
	_, err = Fit(s, Config{Error: Additive, Seasonal: Additive})
	assert.ErrorIs(t, err, forecastkit.ErrInvalidConfiguration)
}

func TestFitSeasonalPeriodFromSeries(t *testing.T) {
	s := seasonalSeries(t, 72, 12, 2)

	// No explicit period; the series carries one.
	model := fitOrSkip(t, s, Config{
		Error: Additive, Trend: Additive, Seasonal: Additive,
	})
	assert.Equal(t, 12, model.Config.Period)
	assert.Len(t, model.InitialSeasonal, 12)
}

func TestFitInsufficientData(t *testing.T) {
	values := []float64{1, 2, 3}
	s, err := timeseries.New(values)
	require.NoError(t, err)

	_, err = Fit(s, Config{Error: Additive})
	assert.ErrorIs(t, err, forecastkit.ErrInsufficientData)

	_, err = Fit(s, Config{Error: Additive, Seasonal: Additive, Period: 12})
	assert.ErrorIs(t, err, forecastkit.ErrInsufficientData)
}

func TestFitMultiplicativeRequiresPositive(t *testing.T) {
	values := make([]float64, 50)
	for i := range values {
		values[i] = float64(i) - 10 // crosses zero
	}
	s, err := timeseries.New(values)
	require.NoError(t, err)

	_, err = Fit(s, Config{Error: Multiplicative})
	assert.ErrorIs(t, err, forecastkit.ErrInvalidSeries)
}

func TestSimpleExponentialSmoothing(t *testing.T) {
	s := levelSeries(t, 200, 50, 3)

	model := fitOrSkip(t, s, Config{Error: Additive})
	assert.True(t, model.Converged)
	assert.Greater(t, model.Alpha, 0.0)
	assert.Less(t, model.Alpha, 1.0)
	assert.Equal(t, 1.0, model.Phi)

	fc, err := model.Forecast(10, 0.95)
	require.NoError(t, err)

	// Flat forecast near the level for a no-trend model.
	for h := 0; h < 10; h++ {
		assert.InDelta(t, 50.0, fc.Mean[h], 2.0, "h=%d", h)
		assert.InDelta(t, fc.Mean[0], fc.Mean[h], 1e-9)
	}
}

func TestHoltLinearTrend(t *testing.T) {
	s := trendSeries(t, 150, 20, 0.8, 4)

	model := fitOrSkip(t, s, Config{Error: Additive, Trend: Additive})

	fc, err := model.Forecast(12, 0.95)
	require.NoError(t, err)

	// The forecast continues the line.
	for h := 0; h < 12; h++ {
		want := 20 + 0.8*float64(150+h)
		assert.InDelta(t, want, fc.Mean[h], 4.0, "h=%d", h)
	}

	// Successive forecasts grow by roughly the slope.
	step := fc.Mean[1] - fc.Mean[0]
	assert.InDelta(t, 0.8, step, 0.3)
}

func TestDampedTrendFlattens(t *testing.T) {
	s := trendSeries(t, 150, 20, 0.8, 5)

	model := fitOrSkip(t, s, Config{
		Error: Additive, Trend: Additive, Damped: true,
	})
	assert.Greater(t, model.Phi, 0.0)
	assert.Less(t, model.Phi, 1.0)

	fc, err := model.Forecast(100, 0.95)
	require.NoError(t, err)

	// Damping shrinks the step between successive forecasts over the horizon.
	early := fc.Mean[1] - fc.Mean[0]
	late := fc.Mean[99] - fc.Mean[98]
	assert.Less(t, math.Abs(late), math.Abs(early)+1e-9)
}

func TestHoltWintersAdditive(t *testing.T) {
	period := 12
	s := seasonalSeries(t, 8*period, period, 6)

	model := fitOrSkip(t, s, Config{
		Error: Additive, Trend: Additive, Seasonal: Additive, Period: period,
	})

	fc, err := model.Forecast(period, 0.95)
	require.NoError(t, err)

	n := s.Len()
	for h := 0; h < period; h++ {
		i := n + h
		want := 50 + 0.3*float64(i) + 8*math.Sin(2*math.Pi*float64(i)/float64(period))
		assert.InDelta(t, want, fc.Mean[h], 5.0, "h=%d", h)
	}
}

func TestForecastIntervalsWiden(t *testing.T) {
	s := trendSeries(t, 150, 30, 0.5, 7)

	model := fitOrSkip(t, s, Config{Error: Additive, Trend: Additive})

	fc, err := model.Forecast(24, 0.95)
	require.NoError(t, err)
	for h := 1; h < 24; h++ {
		assert.GreaterOrEqual(t, fc.Width(h)+1e-12, fc.Width(h-1), "h=%d", h)
	}
	assert.Greater(t, fc.Width(23), fc.Width(0))
}

func TestMultiplicativeSimulationIntervals(t *testing.T) {
	period := 12
	rng := rand.New(rand.NewSource(8))
	values := make([]float64, 8*period)
	for i := range values {
		season := 1 + 0.2*math.Sin(2*math.Pi*float64(i)/float64(period))
		values[i] = (100 + 0.5*float64(i)) * season * (1 + 0.01*rng.NormFloat64())
	}
	s, err := timeseries.NewSeasonal(values, period)
	require.NoError(t, err)

	model := fitOrSkip(t, s, Config{
		Error: Multiplicative, Trend: Additive, Seasonal: Multiplicative, Period: period,
	})

	fc1, err := model.Forecast(period, 0.95)
	require.NoError(t, err)
	fc2, err := model.Forecast(period, 0.95)
	require.NoError(t, err)

	// Seeded simulation: repeated calls agree exactly.
	assert.Equal(t, fc1.Lower, fc2.Lower)
	assert.Equal(t, fc1.Upper, fc2.Upper)

	// Widths never shrink and the mean stays inside the band.
	for h := 0; h < period; h++ {
		assert.GreaterOrEqual(t, fc1.Upper[h], fc1.Mean[h]-1e-9, "h=%d", h)
		assert.LessOrEqual(t, fc1.Lower[h], fc1.Mean[h]+1e-9, "h=%d", h)
		if h > 0 {
			assert.GreaterOrEqual(t, fc1.Width(h)+1e-9, fc1.Width(h-1), "h=%d", h)
		}
	}
}

func TestForecastRequiresFit(t *testing.T) {
	m := &Model{}
	_, err := m.Forecast(5, 0.95)
	assert.ErrorIs(t, err, forecastkit.ErrInvalidConfiguration)
}

func TestForecastValidatesArguments(t *testing.T) {
	s := levelSeries(t, 100, 20, 9)
	model := fitOrSkip(t, s, Config{Error: Additive})

	_, err := model.Forecast(0, 0.95)
	assert.ErrorIs(t, err, forecastkit.ErrInvalidParameter)

	_, err = model.Forecast(5, 1.0)
	assert.ErrorIs(t, err, forecastkit.ErrInvalidParameter)
}

func TestFitDeterministic(t *testing.T) {
	s := trendSeries(t, 120, 10, 0.4, 10)
	cfg := Config{Error: Additive, Trend: Additive}

	m1 := fitOrSkip(t, s, cfg)
	m2 := fitOrSkip(t, s, cfg)

	assert.Equal(t, m1.Alpha, m2.Alpha)
	assert.Equal(t, m1.Beta, m2.Beta)
	assert.Equal(t, m1.SSE, m2.SSE)
	assert.Equal(t, m1.AICc, m2.AICc)
}

func TestResidualsAndFittedValues(t *testing.T) {
	s := levelSeries(t, 100, 30, 11)
	model := fitOrSkip(t, s, Config{Error: Additive})

	res := model.Residuals()
	fit := model.FittedValues()
	require.Len(t, res, 100)
	require.Len(t, fit, 100)

	for i := range res {
		assert.InDelta(t, s.Values[i], fit[i]+res[i], 1e-9, "i=%d", i)
	}
}

func TestInformationCriteriaOrdering(t *testing.T) {
	s := levelSeries(t, 150, 40, 12)

	simple := fitOrSkip(t, s, Config{Error: Additive})
	trended := fitOrSkip(t, s, Config{Error: Additive, Trend: Additive})

	// On pure level data the simpler model should not lose by much; both must
	// produce finite criteria and AICc >= AIC.
	assert.False(t, math.IsNaN(simple.AICc))
	assert.False(t, math.IsNaN(trended.AICc))
	assert.GreaterOrEqual(t, simple.AICc, simple.AIC)
	assert.GreaterOrEqual(t, trended.AICc, trended.AIC)
}

func TestMarshalFitRoundTrip(t *testing.T) {
	period := 12
	s := seasonalSeries(t, 72, period, 13)

	model := fitOrSkip(t, s, Config{
		Error: Additive, Trend: Additive, Seasonal: Additive, Period: period,
	})

	data, err := model.MarshalFit()
	require.NoError(t, err)

	restored, err := UnmarshalFit(data)
	require.NoError(t, err)
	assert.Equal(t, model.Config.Name(), restored.Config.Name())
	assert.Equal(t, model.Alpha, restored.Alpha)

	want, err := model.Forecast(period, 0.95)
	require.NoError(t, err)
	got, err := restored.Forecast(period, 0.95)
	require.NoError(t, err)

	for h := 0; h < period; h++ {
		assert.InDelta(t, want.Mean[h], got.Mean[h], 1e-9, "h=%d", h)
		assert.InDelta(t, want.Lower[h], got.Lower[h], 1e-9, "h=%d", h)
		assert.InDelta(t, want.Upper[h], got.Upper[h], 1e-9, "h=%d", h)
	}
}

func TestMarshalFitRequiresFit(t *testing.T) {
	m := &Model{}
	_, err := m.MarshalFit()
	assert.ErrorIs(t, err, forecastkit.ErrInvalidConfiguration)
}

func TestUnmarshalFitRejectsGarbage(t *testing.T) {
	_, err := UnmarshalFit([]byte("{{nope"))
	assert.ErrorIs(t, err, forecastkit.ErrInvalidConfiguration)
}

func TestUnmarshalFitChecksSeasonalState(t *testing.T) {
	doc := []byte(`
error: A
trend: N
seasonal: A
period: 12
alpha: 0.3
level: 10
observations: 50
seasonal_state: [1, 2, 3]
`)
	_, err := UnmarshalFit(doc)
	assert.ErrorIs(t, err, forecastkit.ErrInvalidConfiguration)
}
