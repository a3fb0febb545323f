// Package main demonstrates decomposition, smoothing, and forecasting on a
// synthetic monthly series with trend and annual seasonality.
package main

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/forecastkit/forecastkit"
	"github.com/forecastkit/forecastkit/arima"
	"github.com/forecastkit/forecastkit/ets"
	"github.com/forecastkit/forecastkit/selector"
	"github.com/forecastkit/forecastkit/smooth"
	"github.com/forecastkit/forecastkit/stats"
	"github.com/forecastkit/forecastkit/stl"
	"github.com/forecastkit/forecastkit/timeseries"
)

const period = 12

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(zerolog.DebugLevel).
		With().Timestamp().Logger()

	series := syntheticMonthly(8 * period)
	train, test := split(series, period)

	banner("forecastkit demonstration")
	fmt.Printf("observations: %d (train %d, test %d), period %d\n",
		series.Len(), train.Len(), test.Len(), period)

	section("Stationarity")
	adf := stats.ADF(train, 0)
	kpss := stats.KPSS(train, "c", 0)
	fmt.Printf("ADF  statistic %8.4f  p-value %.4f\n", adf.Statistic, adf.PValue)
	fmt.Printf("KPSS statistic %8.4f  p-value %.4f\n", kpss.Statistic, kpss.PValue)
	fmt.Printf("suggested differencing: d=%d, D=%d\n",
		stats.NDiffs(train, 2, "kpss"), stats.NSDiffs(train, period, 1))

	section("Moving Averages")
	for _, kind := range []smooth.Kind{smooth.Simple, smooth.WeightedLinear, smooth.Exponential} {
		ma, err := smooth.MovingAverage(train, 6, kind)
		if err != nil {
			logger.Fatal().Err(err).Msg("moving average")
		}
		fmt.Printf("%-15s window=6  last=%8.3f\n", kind, ma.Values[ma.Len()-1])
	}

	section("STL Decomposition")
	dec, err := stl.Decompose(train, stl.DefaultConfig(period))
	if err != nil {
		logger.Fatal().Err(err).Msg("stl")
	}
	fmt.Printf("seasonal strength: %.3f\n", stats.SeasonalStrength(train, period))
	fmt.Printf("trend head %v\n", round(dec.Trend[:4]))
	fmt.Printf("seasonal cycle %v\n", round(dec.Seasonal[:period]))

	section("ETS(A,A,A)")
	etsModel, err := ets.Fit(train, ets.Config{
		Error: ets.Additive, Trend: ets.Additive, Seasonal: ets.Additive, Period: period,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("ets fit")
	}
	fmt.Printf("alpha=%.3f beta=%.3f gamma=%.3f  AICc=%.2f\n",
		etsModel.Alpha, etsModel.Beta, etsModel.Gamma, etsModel.AICc)
	reportHoldout("ETS(A,A,A)", etsModel.Forecast, test)

	section("Seasonal ARIMA")
	arimaModel := arima.NewSeasonal(1, 1, 1, 0, 1, 1, period)
	if err := arimaModel.Fit(train); err != nil {
		logger.Fatal().Err(err).Msg("arima fit")
	}
	fmt.Printf("ARIMA(1,1,1)(0,1,1)[%d]  AICc=%.2f\n", period, arimaModel.AICc)
	reportHoldout("SARIMA", arimaModel.Forecast, test)

	section("Model Selection")
	best, err := selector.Select(train, selector.DefaultCandidates(period), selector.Config{
		Logger: &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("selection")
	}
	fmt.Printf("selected %s  AICc=%.2f\n", best.Name(), best.AICc)
	fc, err := best.Forecast(test.Len(), 0.95)
	if err != nil {
		logger.Fatal().Err(err).Msg("forecast")
	}
	fmt.Printf("holdout RMSE: %.3f\n", rmse(fc.Mean, test.Values))
	for h := 0; h < 3; h++ {
		fmt.Printf("h=%d  mean=%8.3f  [%8.3f, %8.3f]  actual=%8.3f\n",
			h+1, fc.Mean[h], fc.Lower[h], fc.Upper[h], test.Values[h])
	}
}

// reportHoldout prints out-of-sample accuracy for one fitted model.
func reportHoldout(name string, forecast func(int, float64) (*forecastkit.Forecast, error),
	test *timeseries.Series) {
	fc, err := forecast(test.Len(), 0.95)
	if err != nil {
		fmt.Printf("%s forecast failed: %v\n", name, err)
		return
	}
	fmt.Printf("%s holdout RMSE: %.3f\n", name, rmse(fc.Mean, test.Values))
}

// syntheticMonthly builds a trending series with annual seasonality and a
// small deterministic wobble standing in for noise.
func syntheticMonthly(n int) *timeseries.Series {
	values := make([]float64, n)
	for i := range values {
		t := float64(i)
		values[i] = 50 + 0.4*t +
			8*math.Sin(2*math.Pi*t/period) +
			3*math.Cos(4*math.Pi*t/period) +
			0.9*math.Sin(1.7*t)
	}
	s, err := timeseries.NewSeasonal(values, period)
	if err != nil {
		panic(err)
	}
	return s
}

// split holds out the last h observations as a test set.
func split(s *timeseries.Series, h int) (train, test *timeseries.Series) {
	return s.Slice(0, s.Len()-h), s.Slice(s.Len()-h, s.Len())
}

func rmse(forecast, actual []float64) float64 {
	sum := 0.0
	for i := range actual {
		d := forecast[i] - actual[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(actual)))
}

func round(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = math.Round(v*1000) / 1000
	}
	return out
}

func banner(title string) {
	fmt.Println(strings.Repeat("=", 72))
	fmt.Println(title)
	fmt.Println(strings.Repeat("=", 72))
}

func section(title string) {
	fmt.Printf("\n--- %s ---\n", title)
}
